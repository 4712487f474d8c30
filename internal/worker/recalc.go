// Package worker runs periodic recalculation for watch mode.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Recalculator performs one full load-compute-render pass.
type Recalculator interface {
	Recalculate(ctx context.Context) error
}

// RecalcWorker re-runs the calculation on a fixed interval so a report stays
// current while the ledger file is being edited.
type RecalcWorker struct {
	recalc   Recalculator
	interval time.Duration
}

// NewRecalcWorker creates a new RecalcWorker.
func NewRecalcWorker(recalc Recalculator, interval time.Duration) *RecalcWorker {
	return &RecalcWorker{
		recalc:   recalc,
		interval: interval,
	}
}

// Run starts the recalculation loop. It blocks until the context is cancelled.
func (w *RecalcWorker) Run(ctx context.Context) {
	slog.Info("RecalcWorker: starting", "interval", w.interval)

	// Recalculate immediately on startup
	if err := w.recalc.Recalculate(ctx); err != nil {
		slog.Error("RecalcWorker: initial recalculation failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("RecalcWorker: shutting down")
			return
		case <-ticker.C:
			if err := w.recalc.Recalculate(ctx); err != nil {
				slog.Error("RecalcWorker: recalculation failed", "error", err)
			}
		}
	}
}
