package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"rfm-segments/pkg/models"
)

const quartiles = 4

// ErrDegenerateBins : moins de 4 valeurs distinctes, ou bornes de quartile confondues.
var ErrDegenerateBins = errors.New("bornes de quartile non uniques")

// ErrUnknownPolicy : politique de repli inconnue.
var ErrUnknownPolicy = errors.New("politique de repli inconnue")

// Score attribue les scores R, F, M (1..4) et le code composite.
// Les bornes dépendent de toute la population passée en entrée.
func Score(records []models.CustomerRFM, policy models.DegeneratePolicy) ([]models.ScoredCustomer, error) {
	switch policy {
	case "":
		policy = models.DegenerateSpread
	case models.DegenerateSpread, models.DegenerateFail:
	default:
		return nil, fmt.Errorf("%q: %w", policy, ErrUnknownPolicy)
	}

	n := len(records)
	if n == 0 {
		return []models.ScoredCustomer{}, nil
	}

	recency := make([]float64, n)
	for i, r := range records {
		recency[i] = float64(r.Recency)
	}
	// F et M : rang d'apparition pour départager les ex-aequo
	freqRank := rankBy(n, func(i, j int) bool { return records[i].Frequency < records[j].Frequency })
	monRank := rankBy(n, func(i, j int) bool { return records[i].Monetary.LessThan(records[j].Monetary) })

	rScores, err := scoreMetric("Recency", recency, true, policy)
	if err != nil {
		return nil, err
	}
	fScores, err := scoreMetric("Frequency", freqRank, false, policy)
	if err != nil {
		return nil, err
	}
	mScores, err := scoreMetric("Monetary", monRank, false, policy)
	if err != nil {
		return nil, err
	}

	out := make([]models.ScoredCustomer, n)
	for i, r := range records {
		out[i] = models.ScoredCustomer{
			CustomerRFM: r,
			RScore:      rScores[i],
			FScore:      fScores[i],
			MScore:      mScores[i],
			RFMScore:    strconv.Itoa(rScores[i]) + strconv.Itoa(fScores[i]) + strconv.Itoa(mScores[i]),
		}
	}
	return out, nil
}

func scoreMetric(name string, values []float64, reverse bool, policy models.DegeneratePolicy) ([]int, error) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	distinct := uniqueEdges(sorted)

	// moins de 4 valeurs distinctes : un bac par valeur
	if len(distinct) < quartiles {
		if policy == models.DegenerateFail {
			return nil, fmt.Errorf("%s: %d valeur(s) distincte(s) pour %d bacs: %w", name, len(distinct), quartiles, ErrDegenerateBins)
		}
		out := make([]int, len(values))
		for i, v := range values {
			out[i] = binScore(sort.SearchFloat64s(distinct, v), len(distinct), reverse)
		}
		return out, nil
	}

	edges := uniqueEdges(quantileEdges(sorted, quartiles))
	bins := len(edges) - 1
	if bins < quartiles && policy == models.DegenerateFail {
		return nil, fmt.Errorf("%s: %d bac(s) au lieu de %d: %w", name, bins, quartiles, ErrDegenerateBins)
	}

	out := make([]int, len(values))
	for i, v := range values {
		out[i] = binScore(binIndex(edges, v), bins, reverse)
	}
	return out, nil
}

// quantileEdges : quantiles 0, 1/q, ..., 1 par interpolation linéaire (méthode qcut).
func quantileEdges(sorted []float64, q int) []float64 {
	n := len(sorted)
	edges := make([]float64, q+1)
	for i := 0; i <= q; i++ {
		pos := float64(i) / float64(q) * float64(n-1)
		lo := int(math.Floor(pos))
		if lo >= n-1 {
			edges[i] = sorted[n-1]
			continue
		}
		frac := pos - float64(lo)
		edges[i] = sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
	}
	return edges
}

func uniqueEdges(edges []float64) []float64 {
	out := edges[:0:0]
	for i, e := range edges {
		if i > 0 && e == out[len(out)-1] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// binIndex : bacs fermés à droite (e[i], e[i+1]], la borne basse est incluse dans le premier.
func binIndex(edges []float64, v float64) int {
	bins := len(edges) - 1
	if bins <= 0 {
		return 0
	}
	i := sort.SearchFloat64s(edges[1:], v)
	if i >= bins {
		i = bins - 1
	}
	return i
}

// binScore étale k bacs sur 1..4 (3 bacs → 1, 3, 4). Une métrique constante (k <= 1) vaut 1 pour tout le monde.
func binScore(bin, bins int, reverse bool) int {
	if bins <= 1 {
		return 1
	}
	s := 1 + int(math.Round(float64(quartiles-1)*float64(bin)/float64(bins-1)))
	if reverse {
		return quartiles + 1 - s
	}
	return s
}

// rankBy renvoie le rang (1..n) de chaque position ; à égalité, l'ordre d'entrée l'emporte.
func rankBy(n int, less func(i, j int) bool) []float64 {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return less(idx[a], idx[b]) })
	ranks := make([]float64, n)
	for pos, i := range idx {
		ranks[i] = float64(pos + 1)
	}
	return ranks
}
