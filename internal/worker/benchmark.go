package worker

import (
	"context"
	"log/slog"
	"time"
)

// SeriesRefresher reloads benchmark index series and reports how many were refreshed.
type SeriesRefresher interface {
	Refresh(ctx context.Context) int
}

// BenchmarkWorker periodically refreshes benchmark index data.
type BenchmarkWorker struct {
	refresher SeriesRefresher
	interval  time.Duration
	ready     chan struct{}
}

// NewBenchmarkWorker creates a new BenchmarkWorker.
func NewBenchmarkWorker(refresher SeriesRefresher, interval time.Duration) *BenchmarkWorker {
	if refresher == nil {
		panic("worker.NewBenchmarkWorker: refresher is nil")
	}
	return &BenchmarkWorker{
		refresher: refresher,
		interval:  interval,
		ready:     make(chan struct{}),
	}
}

// Ready is closed once the startup refresh has finished.
func (w *BenchmarkWorker) Ready() <-chan struct{} { return w.ready }

// Run starts the benchmark worker loop. It blocks until the context is cancelled.
func (w *BenchmarkWorker) Run(ctx context.Context) {
	slog.Info("BenchmarkWorker: starting", "interval", w.interval)

	// Fetch immediately on startup
	slog.Info("BenchmarkWorker: initial refresh completed", "refreshed", w.refresher.Refresh(ctx))
	close(w.ready)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("BenchmarkWorker: shutting down")
			return
		case <-ticker.C:
			slog.Info("BenchmarkWorker: refresh completed", "refreshed", w.refresher.Refresh(ctx))
		}
	}
}
