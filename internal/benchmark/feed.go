package benchmark

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// SeriesFetcher retrieves daily closing levels of an index.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol string, from, to time.Time) ([]domain.IndexPoint, error)
}

// FeedSource serves returns from the latest series fetched from a live feed.
// Refresh runs in the background; BenchmarkReturn only reads the cached series.
type FeedSource struct {
	fetcher SeriesFetcher
	symbols []string
	now     func() time.Time

	mu        sync.RWMutex
	series    map[string][]domain.IndexPoint
	updatedAt time.Time
}

// NewFeedSource creates a feed-backed source for the given symbols.
func NewFeedSource(fetcher SeriesFetcher, symbols []string) *FeedSource {
	if fetcher == nil {
		panic("benchmark.NewFeedSource: fetcher is required")
	}
	return &FeedSource{
		fetcher: fetcher,
		symbols: append([]string(nil), symbols...),
		now:     time.Now,
		series:  make(map[string][]domain.IndexPoint),
	}
}

// Refresh fetches every symbol over the longest supported period.
// A failed symbol keeps its previous series. Returns the number of symbols updated.
func (f *FeedSource) Refresh(ctx context.Context) int {
	to := f.now()
	from := to.AddDate(0, 0, -Period5Y.Days()-7)

	updated := 0
	for _, symbol := range f.symbols {
		if ctx.Err() != nil {
			break
		}
		points, err := f.fetcher.FetchSeries(ctx, symbol, from, to)
		if err != nil {
			slog.Warn("benchmark feed fetch failed", "symbol", symbol, "error", err)
			continue
		}
		if len(points) == 0 {
			slog.Warn("benchmark feed returned no data", "symbol", symbol)
			continue
		}

		f.mu.Lock()
		f.series[symbol] = sortedPoints(points)
		f.updatedAt = to
		f.mu.Unlock()
		updated++
	}
	return updated
}

func (f *FeedSource) BenchmarkReturn(symbol string, period Period) (decimal.Decimal, bool) {
	f.mu.RLock()
	points := f.series[symbol]
	f.mu.RUnlock()
	return seriesReturn(points, period, time.Time{})
}

// Latest returns the most recent cached point of a symbol.
func (f *FeedSource) Latest(symbol string) (domain.IndexPoint, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	points := f.series[symbol]
	if len(points) == 0 {
		return domain.IndexPoint{}, false
	}
	return points[len(points)-1], true
}

// UpdatedAt returns the time of the last successful fetch, zero if none.
func (f *FeedSource) UpdatedAt() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.updatedAt
}
