package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/holdings"
)

// lookback covers weekends and exchange holidays when asking for the latest close.
const lookback = 10 * 24 * time.Hour

// Fetcher loads the daily closes of an exchange ticker.
type Fetcher interface {
	FetchTicker(ctx context.Context, ticker string, from, to time.Time) ([]domain.IndexPoint, error)
}

// Service refreshes stock and ETF current prices from daily closes.
type Service struct {
	fetcher    Fetcher
	repo       Repository
	stocks     holdings.Store[domain.Stock]
	etfs       holdings.Store[domain.ETF]
	staleAfter time.Duration
	now        func() time.Time
}

// NewService creates a quote Service. Stored quotes younger than staleAfter are reused
// instead of fetched again.
func NewService(fetcher Fetcher, repo Repository, stocks holdings.Store[domain.Stock], etfs holdings.Store[domain.ETF], staleAfter time.Duration) *Service {
	if fetcher == nil || repo == nil || stocks == nil || etfs == nil {
		panic("quote.NewService: fetcher, repo, stocks and etfs are required")
	}
	return &Service{
		fetcher:    fetcher,
		repo:       repo,
		stocks:     stocks,
		etfs:       etfs,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Ticker maps a lot to its EOD feed ticker: "CBA.AX" and ASX listings become "CBA.AU",
// suffixed symbols pass through and everything else is treated as a US listing.
func Ticker(l domain.Lot) string {
	sym := strings.ToUpper(strings.TrimSpace(l.Symbol))
	if base, ok := strings.CutSuffix(sym, ".AX"); ok {
		return base + ".AU"
	}
	if strings.Contains(sym, ".") {
		return sym
	}
	switch strings.ToUpper(l.Exchange) {
	case "ASX":
		return sym + ".AU"
	case "LSE":
		return sym + ".LSE"
	}
	return sym + ".US"
}

// FetchAndStoreQuotes refreshes quotes for every stock and ETF symbol across all
// portfolios, then reprices the holdings whose current price changed.
// A symbol that cannot be fetched is logged and skipped; the call fails only when
// holdings cannot be read or written, or when every fetch failed.
func (s *Service) FetchAndStoreQuotes(ctx context.Context) error {
	stocks, err := s.stocks.List(ctx, "")
	if err != nil {
		return fmt.Errorf("listing stocks: %w", err)
	}
	etfs, err := s.etfs.List(ctx, "")
	if err != nil {
		return fmt.Errorf("listing etfs: %w", err)
	}

	lots := append(
		lo.Map(stocks, func(st domain.Stock, _ int) domain.Lot { return st.Lot }),
		lo.Map(etfs, func(e domain.ETF, _ int) domain.Lot { return e.Lot })...,
	)
	lots = lo.UniqBy(lots, func(l domain.Lot) string { return l.Symbol })
	if len(lots) == 0 {
		return nil
	}

	quotes := make(map[string]Quote, len(lots))
	var failed int
	for _, l := range lots {
		q, err := s.quote(ctx, l)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("quote refresh failed", "symbol", l.Symbol, "error", err)
			failed++
			continue
		}
		quotes[l.Symbol] = q
	}
	if failed == len(lots) {
		return fmt.Errorf("no quotes refreshed for %d symbols", failed)
	}

	updatedStocks, err := reprice(ctx, s.stocks, stocks, quotes)
	if err != nil {
		return err
	}
	updatedETFs, err := reprice(ctx, s.etfs, etfs, quotes)
	if err != nil {
		return err
	}
	slog.Info("quotes refreshed",
		"symbols", len(quotes), "failed", failed,
		"stocks_repriced", updatedStocks, "etfs_repriced", updatedETFs)
	return nil
}

// Quotes returns every stored quote.
func (s *Service) Quotes(ctx context.Context) ([]Quote, error) {
	return s.repo.GetAllQuotes(ctx)
}

// quote returns a fresh stored quote or fetches and stores the latest close.
func (s *Service) quote(ctx context.Context, l domain.Lot) (Quote, error) {
	now := s.now().UTC()
	stored, err := s.repo.GetQuote(ctx, l.Symbol)
	switch {
	case err == nil && now.Sub(stored.UpdatedAt) < s.staleAfter:
		return stored, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return Quote{}, err
	}

	ticker := Ticker(l)
	points, err := s.fetcher.FetchTicker(ctx, ticker, now.Add(-lookback), now)
	if err != nil {
		return Quote{}, err
	}
	if len(points) == 0 {
		return Quote{}, fmt.Errorf("no closes for %s", ticker)
	}
	latest := lo.MaxBy(points, func(a, b domain.IndexPoint) bool { return a.Date.After(b.Date) })
	if !latest.Value.IsPositive() {
		return Quote{}, fmt.Errorf("invalid close %s for %s", latest.Value, ticker)
	}

	q := Quote{Symbol: l.Symbol, Ticker: ticker, Price: latest.Value, AsOf: latest.Date, UpdatedAt: now}
	if err := s.repo.SaveQuote(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func reprice[T holdings.Item](ctx context.Context, store holdings.Store[T], items []T, quotes map[string]Quote) (int, error) {
	updated := 0
	for _, item := range items {
		lot := lotOf(item)
		q, ok := quotes[lot.Symbol]
		if !ok || (lot.CurrentPrice.Valid && lot.CurrentPrice.Decimal.Equal(q.Price)) {
			continue
		}
		if _, err := store.Update(ctx, withPrice(item, q.Price)); err != nil {
			return updated, fmt.Errorf("repricing %s: %w", lot.Symbol, err)
		}
		updated++
	}
	return updated, nil
}

func lotOf(h domain.Holding) domain.Lot {
	switch v := h.(type) {
	case domain.Stock:
		return v.Lot
	case domain.ETF:
		return v.Lot
	}
	return domain.Lot{}
}

func withPrice[T holdings.Item](item T, price decimal.Decimal) T {
	switch v := any(&item).(type) {
	case *domain.Stock:
		v.CurrentPrice = decimal.NewNullDecimal(price)
	case *domain.ETF:
		v.CurrentPrice = decimal.NewNullDecimal(price)
	}
	return item
}
