package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/holdings"
)

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

type mockFetcher struct {
	closes map[string][]domain.IndexPoint
	calls  []string
}

func (m *mockFetcher) FetchTicker(_ context.Context, ticker string, _, _ time.Time) ([]domain.IndexPoint, error) {
	m.calls = append(m.calls, ticker)
	points, ok := m.closes[ticker]
	if !ok {
		return nil, errors.New("ticker not found")
	}
	return points, nil
}

func point(date, value string) domain.IndexPoint {
	d, _ := time.Parse(time.DateOnly, date)
	return domain.IndexPoint{Date: d, Value: decimal.RequireFromString(value)}
}

func lot(id, symbol, exchange, current string) domain.Lot {
	l := domain.Lot{
		ID: id, PortfolioID: "demo", Symbol: symbol, Exchange: exchange,
		Quantity: decimal.NewFromInt(10), PurchasePrice: decimal.NewFromInt(100),
	}
	if current != "" {
		l.CurrentPrice = decimal.NewNullDecimal(decimal.RequireFromString(current))
	}
	return l
}

func newTestService(fetcher Fetcher, repo Repository) (*Service, *holdings.MemoryStore[domain.Stock], *holdings.MemoryStore[domain.ETF]) {
	stocks := holdings.NewMemoryStore(
		domain.Stock{Lot: lot("1", "CBA.AX", "ASX", "105.20")},
		domain.Stock{Lot: lot("2", "AAPL", "NASDAQ", "")},
		domain.Stock{Lot: lot("3", "ZIP.AX", "ASX", "2.45")},
	)
	etfs := holdings.NewMemoryStore(domain.ETF{Lot: lot("4", "VAS", "ASX", "82.30")})
	svc := NewService(fetcher, repo, stocks, etfs, time.Hour)
	svc.now = func() time.Time { return testNow }
	return svc, stocks, etfs
}

func TestTicker(t *testing.T) {
	tests := []struct {
		symbol, exchange, want string
	}{
		{"CBA.AX", "ASX", "CBA.AU"},
		{"cba.ax", "", "CBA.AU"},
		{"VAS", "ASX", "VAS.AU"},
		{"AAPL", "NASDAQ", "AAPL.US"},
		{"VOD", "LSE", "VOD.LSE"},
		{"BMW.XETRA", "", "BMW.XETRA"},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			if got := Ticker(domain.Lot{Symbol: tt.symbol, Exchange: tt.exchange}); got != tt.want {
				t.Errorf("Ticker = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchAndStoreQuotes(t *testing.T) {
	fetcher := &mockFetcher{closes: map[string][]domain.IndexPoint{
		"CBA.AU":  {point("2024-06-06", "110.00"), point("2024-06-07", "112.50")},
		"AAPL.US": {point("2024-06-07", "196.89")},
		"ZIP.AU":  {point("2024-06-07", "2.45")},
	}}
	repo := NewMemoryRepository()
	svc, stocks, etfs := newTestService(fetcher, repo)
	ctx := context.Background()

	if err := svc.FetchAndStoreQuotes(ctx); err != nil {
		t.Fatalf("FetchAndStoreQuotes: %v", err)
	}

	cba, _ := stocks.Get(ctx, "1")
	if !cba.CurrentPrice.Decimal.Equal(decimal.RequireFromString("112.50")) {
		t.Errorf("CBA price = %s, want latest close 112.50", cba.CurrentPrice.Decimal)
	}
	aapl, _ := stocks.Get(ctx, "2")
	if !aapl.CurrentPrice.Valid || !aapl.CurrentPrice.Decimal.Equal(decimal.RequireFromString("196.89")) {
		t.Errorf("AAPL price = %+v, want 196.89", aapl.CurrentPrice)
	}
	vas, _ := etfs.Get(ctx, "4")
	if !vas.CurrentPrice.Decimal.Equal(decimal.RequireFromString("82.30")) {
		t.Errorf("VAS price = %s, want unchanged after failed fetch", vas.CurrentPrice.Decimal)
	}

	q, err := repo.GetQuote(ctx, "CBA.AX")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if q.Ticker != "CBA.AU" || !q.UpdatedAt.Equal(testNow) {
		t.Errorf("stored quote = %+v", q)
	}
	if want := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC); !q.AsOf.Equal(want) {
		t.Errorf("AsOf = %v, want %v", q.AsOf, want)
	}
}

func TestFetchAndStoreQuotesReusesFreshQuotes(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	for _, sym := range []string{"CBA.AX", "AAPL", "ZIP.AX", "VAS"} {
		_ = repo.SaveQuote(ctx, Quote{Symbol: sym, Price: decimal.NewFromInt(50), UpdatedAt: testNow.Add(-30 * time.Minute)})
	}
	fetcher := &mockFetcher{}
	svc, stocks, _ := newTestService(fetcher, repo)

	if err := svc.FetchAndStoreQuotes(ctx); err != nil {
		t.Fatalf("FetchAndStoreQuotes: %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("fetched %v, want no calls for fresh quotes", fetcher.calls)
	}
	zip, _ := stocks.Get(ctx, "3")
	if !zip.CurrentPrice.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Errorf("ZIP price = %s, want 50", zip.CurrentPrice.Decimal)
	}
}

func TestFetchAndStoreQuotesAllFailed(t *testing.T) {
	svc, _, _ := newTestService(&mockFetcher{}, NewMemoryRepository())

	if err := svc.FetchAndStoreQuotes(context.Background()); err == nil {
		t.Error("expected error when every fetch fails")
	}
}

func TestFetchAndStoreQuotesNoHoldings(t *testing.T) {
	fetcher := &mockFetcher{}
	svc := NewService(fetcher, NewMemoryRepository(), holdings.NewMemoryStore[domain.Stock](), holdings.NewMemoryStore[domain.ETF](), time.Hour)

	if err := svc.FetchAndStoreQuotes(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("calls = %v, want none", fetcher.calls)
	}
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.GetQuote(ctx, "CBA.AX"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	_ = repo.SaveQuote(ctx, Quote{Symbol: "ZIP.AX"})
	_ = repo.SaveQuote(ctx, Quote{Symbol: "CBA.AX"})

	all, _ := repo.GetAllQuotes(ctx)
	if len(all) != 2 || all[0].Symbol != "CBA.AX" {
		t.Errorf("quotes = %+v, want sorted by symbol", all)
	}
}

func TestNewServicePanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewService(nil, NewMemoryRepository(), nil, nil, time.Hour)
}
