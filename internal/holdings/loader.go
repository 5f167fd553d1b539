package holdings

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// Loader reads the three holding collections of a portfolio.
type Loader struct {
	stocks     Store[domain.Stock]
	etfs       Store[domain.ETF]
	properties Store[domain.Property]
}

// NewLoader creates a loader over the three stores.
func NewLoader(stocks Store[domain.Stock], etfs Store[domain.ETF], properties Store[domain.Property]) *Loader {
	if stocks == nil || etfs == nil || properties == nil {
		panic("holdings.NewLoader: all stores are required")
	}
	return &Loader{stocks: stocks, etfs: etfs, properties: properties}
}

// Stocks returns the stock store.
func (l *Loader) Stocks() Store[domain.Stock] { return l.stocks }

// ETFs returns the ETF store.
func (l *Loader) ETFs() Store[domain.ETF] { return l.etfs }

// Properties returns the property store.
func (l *Loader) Properties() Store[domain.Property] { return l.properties }

// Load fetches all collections concurrently. A failing collection is logged, reported
// in warnings and replaced by an empty slice; it never aborts the others.
// The error is non-nil only when ctx is done.
func (l *Loader) Load(ctx context.Context, portfolioID string) (domain.Holdings, []string, error) {
	var (
		h        domain.Holdings
		warnings [3]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.Stocks, warnings[0] = loadCollection(gctx, l.stocks, portfolioID, "stocks")
		return nil
	})
	g.Go(func() error {
		h.ETFs, warnings[1] = loadCollection(gctx, l.etfs, portfolioID, "etfs")
		return nil
	})
	g.Go(func() error {
		h.Properties, warnings[2] = loadCollection(gctx, l.properties, portfolioID, "properties")
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Holdings{}, nil, fmt.Errorf("loading holdings: %w", err)
	}

	var out []string
	for _, w := range warnings {
		if w != "" {
			out = append(out, w)
		}
	}
	return h, out, nil
}

func loadCollection[T Item](ctx context.Context, store Store[T], portfolioID, name string) ([]T, string) {
	items, err := store.List(ctx, portfolioID)
	if err != nil {
		slog.Error("failed to load holdings", "collection", name, "portfolio", portfolioID, "error", err)
		return []T{}, fmt.Sprintf("%s unavailable: %v", name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, ""
}
