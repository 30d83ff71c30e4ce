// Package report écrit la table RFM segmentée et son résumé par segment.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"rfm-segments/pkg/models"
	"rfm-segments/pkg/segment"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Columns : en-tête de la table consommée par la couche de visualisation.
var Columns = []string{"CustomerID", "Recency", "Frequency", "Monetary", "R_Score", "F_Score", "M_Score", "RFM_Score", "Segment"}

// SegmentSummary : une ligne par segment présent dans la sortie.
type SegmentSummary struct {
	Segment     string
	Count       int
	Share       float64 // en %
	AvgMonetary decimal.Decimal
}

// Summarize compte les clients et la dépense moyenne par segment,
// trié par effectif décroissant puis par libellé.
func Summarize(customers []models.ScoredCustomer) []SegmentSummary {
	type acc struct {
		count int
		total decimal.Decimal
	}
	bySegment := map[string]*acc{}
	for _, c := range customers {
		a, ok := bySegment[c.Segment]
		if !ok {
			a = &acc{total: decimal.Zero}
			bySegment[c.Segment] = a
		}
		a.count++
		a.total = a.total.Add(c.Monetary)
	}

	out := make([]SegmentSummary, 0, len(bySegment))
	for label, a := range bySegment {
		out = append(out, SegmentSummary{
			Segment:     label,
			Count:       a.count,
			Share:       100 * float64(a.count) / float64(len(customers)),
			AvgMonetary: a.total.Div(decimal.NewFromInt(int64(a.count))).Round(2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}

func customerRow(c models.ScoredCustomer) []string {
	return []string{
		c.CustomerID,
		strconv.Itoa(c.Recency),
		strconv.Itoa(c.Frequency),
		c.Monetary.StringFixed(2),
		strconv.Itoa(c.RScore),
		strconv.Itoa(c.FScore),
		strconv.Itoa(c.MScore),
		c.RFMScore,
		c.Segment,
	}
}

// WriteCSV écrit la table RFM seule.
func WriteCSV(w io.Writer, customers []models.ScoredCustomer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, c := range customers {
		if err := cw.Write(customerRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX écrit le classeur : RFM, Segments, Strategies, Run.
func WriteXLSX(path string, res models.Result, summary []SegmentSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "RFM"); err != nil {
		return err
	}
	if err := writeRFMSheet(f, res.Customers); err != nil {
		return fmt.Errorf("feuille RFM: %w", err)
	}
	if err := writeSegmentsSheet(f, summary); err != nil {
		return fmt.Errorf("feuille Segments: %w", err)
	}
	if err := writeStrategiesSheet(f); err != nil {
		return fmt.Errorf("feuille Strategies: %w", err)
	}
	if err := writeRunSheet(f, res); err != nil {
		return fmt.Errorf("feuille Run: %w", err)
	}
	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func header(cols []string) []interface{} {
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}

func writeRFMSheet(f *excelize.File, customers []models.ScoredCustomer) error {
	const sheet = "RFM"
	if err := setRow(f, sheet, 1, header(Columns)); err != nil {
		return err
	}
	for i, c := range customers {
		row := []interface{}{
			c.CustomerID, c.Recency, c.Frequency, c.Monetary.Round(2).InexactFloat64(),
			c.RScore, c.FScore, c.MScore, c.RFMScore, c.Segment,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSegmentsSheet(f *excelize.File, summary []SegmentSummary) error {
	const sheet = "Segments"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, header([]string{"Segment", "Customers", "Share %", "Avg Monetary"})); err != nil {
		return err
	}
	for i, s := range summary {
		row := []interface{}{s.Segment, s.Count, round2(s.Share), s.AvgMonetary.InexactFloat64()}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeStrategiesSheet(f *excelize.File) error {
	const sheet = "Strategies"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, header([]string{"Segment", "Description", "Action", "Computed"})); err != nil {
		return err
	}
	for i, s := range segment.Strategies() {
		_, computed := matchLabel(s.Segment)
		row := []interface{}{s.Segment, s.Description, s.Action, computed}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRunSheet(f *excelize.File, res models.Result) error {
	const sheet = "Run"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	ref := ""
	if !res.Reference.IsZero() {
		ref = res.Reference.Format(time.DateTime)
	}
	rows := [][]interface{}{
		{"RunID", res.RunID},
		{"Reference", ref},
		{"RawRows", res.Stats.Raw},
		{"Cancelled", res.Stats.Cancelled},
		{"MissingCustomer", res.Stats.MissingCustomer},
		{"KeptRows", res.Stats.Kept},
		{"Customers", len(res.Customers)},
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

// matchLabel : le segment de la grille marketing est-il un libellé réellement produit ?
func matchLabel(name string) (string, bool) {
	for _, l := range segment.Labels() {
		if s, ok := segment.StrategyFor(l); ok && s.Segment == name {
			return l, true
		}
	}
	return "", false
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
