package calculator

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"rfm-segments/pkg/models"
	"rfm-segments/pkg/segment"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// Run enchaîne nettoyage → agrégation → scoring → segmentation.
func Run(ctx context.Context, txs []models.Transaction, cfg models.Config) (models.Result, error) {
	bar := newStageBar(cfg.Verbose)

	cleaned, stats := Clean(txs)
	_ = bar.Add(1)
	if cfg.Verbose {
		log.Printf("[INFO] clean: raw=%d cancelled=%d missing_customer=%d kept=%d",
			stats.Raw, stats.Cancelled, stats.MissingCustomer, stats.Kept)
	}
	if err := ctx.Err(); err != nil {
		return models.Result{}, err
	}

	ref := ReferenceDate(cleaned)
	customers, err := scoreAt(ctx, cleaned, ref, cfg, bar)
	if err != nil {
		return models.Result{}, err
	}

	return models.Result{
		RunID:     uuid.NewString(),
		Reference: ref,
		Stats:     stats,
		Customers: customers,
	}, nil
}

// ScoreAt calcule les segments de lignes déjà nettoyées pour une date de référence donnée.
// Même entrée + même référence → même sortie.
func ScoreAt(ctx context.Context, cleaned []models.Transaction, ref time.Time, cfg models.Config) ([]models.ScoredCustomer, error) {
	return scoreAt(ctx, cleaned, ref, cfg, progressbar.DefaultSilent(3))
}

func scoreAt(ctx context.Context, cleaned []models.Transaction, ref time.Time, cfg models.Config, bar *progressbar.ProgressBar) ([]models.ScoredCustomer, error) {
	records := Aggregate(cleaned, ref)
	_ = bar.Add(1)
	if cfg.Verbose {
		log.Printf("[INFO] aggregate: customers=%d reference=%s", len(records), ref.Format(time.DateTime))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored, err := Score(records, cfg.Degenerate)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	_ = bar.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range scored {
		scored[i].Segment = segment.Label(scored[i].RFMScore)
	}
	_ = bar.Add(1)
	return scored, nil
}

// 4 étapes : clean, aggregate, score, label
func newStageBar(verbose bool) *progressbar.ProgressBar {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	return progressbar.NewOptions(4,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("rfm"),
		progressbar.OptionShowCount(),
	)
}
