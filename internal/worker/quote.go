package worker

import (
	"context"
	"log/slog"
	"time"
)

// QuoteFetcher defines the interface for fetching and storing holding price quotes.
type QuoteFetcher interface {
	FetchAndStoreQuotes(ctx context.Context) error
}

// QuoteWorker periodically refreshes stock and ETF prices.
type QuoteWorker struct {
	fetcher  QuoteFetcher
	interval time.Duration
	ready    chan struct{}
}

// NewQuoteWorker creates a new QuoteWorker.
func NewQuoteWorker(fetcher QuoteFetcher, interval time.Duration) *QuoteWorker {
	return &QuoteWorker{
		fetcher:  fetcher,
		interval: interval,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the startup fetch has finished, whether or not it succeeded.
func (w *QuoteWorker) Ready() <-chan struct{} { return w.ready }

// Run starts the quote worker loop. It blocks until the context is cancelled.
func (w *QuoteWorker) Run(ctx context.Context) {
	slog.Info("QuoteWorker: starting", "interval", w.interval)

	// Fetch immediately on startup
	w.fetch(ctx)
	close(w.ready)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("QuoteWorker: shutting down")
			return
		case <-ticker.C:
			w.fetch(ctx)
		}
	}
}

func (w *QuoteWorker) fetch(ctx context.Context) {
	if err := w.fetcher.FetchAndStoreQuotes(ctx); err != nil {
		slog.Error("QuoteWorker: fetch failed", "error", err)
		return
	}
	slog.Info("QuoteWorker: fetch completed")
}
