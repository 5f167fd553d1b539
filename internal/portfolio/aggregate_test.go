package portfolio

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func lot(id, symbol, exchange, qty, purchase, current string) domain.Lot {
	return domain.Lot{
		ID:            id,
		Symbol:        symbol,
		Exchange:      exchange,
		Quantity:      dec(qty),
		PurchasePrice: dec(purchase),
		CurrentPrice:  decimal.NewNullDecimal(dec(current)),
	}
}

func sampleHoldings() domain.Holdings {
	return domain.Holdings{
		Stocks: []domain.Stock{
			{Lot: lot("s1", "CBA.AX", "ASX", "50", "85.50", "105.20")},
			{Lot: lot("s2", "AAPL", "NASDAQ", "30", "150", "195.50")},
			{Lot: lot("s3", "ZIP.AX", "ASX", "200", "5.80", "2.45")},
		},
		ETFs: []domain.ETF{
			{Lot: lot("e1", "VAS.AX", "ASX", "100", "78.50", "82.30")},
			{Lot: lot("e2", "VTI", "NYSE", "40", "185", "210.25")},
		},
		Properties: []domain.Property{
			{ID: "p1", Address: "15 Collins Street", PurchasePrice: dec("650000"), StampDuty: dec("32500"),
				LegalFees: dec("2800"), OtherPurchaseCosts: dec("3900"), CurrentValue: dec("720000")},
		},
	}
}

func TestAggregateTotals(t *testing.T) {
	s := Aggregate(sampleHoldings())

	// stocks: 5260 + 5865 + 490 = 11615; cost 4275 + 4500 + 1160 = 9935
	if !s.Stocks.Value.Equal(dec("11615")) {
		t.Errorf("Stocks.Value = %s, want 11615", s.Stocks.Value)
	}
	if !s.Stocks.Return.Equal(dec("1680")) {
		t.Errorf("Stocks.Return = %s, want 1680", s.Stocks.Return)
	}
	if s.Stocks.Count != 3 {
		t.Errorf("Stocks.Count = %d, want 3", s.Stocks.Count)
	}

	// etfs: 8230 + 8410 = 16640; cost 7850 + 7400 = 15250
	if !s.ETFs.Value.Equal(dec("16640")) || !s.ETFs.Return.Equal(dec("1390")) {
		t.Errorf("ETFs = %s/%s, want 16640/1390", s.ETFs.Value, s.ETFs.Return)
	}

	if !s.Properties.Value.Equal(dec("720000")) || !s.Properties.Return.Equal(dec("30800")) {
		t.Errorf("Properties = %s/%s, want 720000/30800", s.Properties.Value, s.Properties.Return)
	}

	if !s.TotalValue.Equal(dec("748255")) {
		t.Errorf("TotalValue = %s, want 748255", s.TotalValue)
	}
	if !s.TotalReturn.Equal(dec("33870")) {
		t.Errorf("TotalReturn = %s, want 33870", s.TotalReturn)
	}
	if !s.TotalCostBasis.Equal(dec("714385")) {
		t.Errorf("TotalCostBasis = %s, want 714385", s.TotalCostBasis)
	}
	if s.HoldingCount != 6 {
		t.Errorf("HoldingCount = %d, want 6", s.HoldingCount)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(domain.Holdings{})

	if !s.TotalValue.IsZero() || !s.TotalReturn.IsZero() || !s.TotalReturnPercentage.IsZero() {
		t.Errorf("empty portfolio summary = %+v, want zeros", s)
	}
	if s.HoldingCount != 0 {
		t.Errorf("HoldingCount = %d, want 0", s.HoldingCount)
	}
}

func TestAggregateZeroCostBasis(t *testing.T) {
	h := domain.Holdings{
		Stocks: []domain.Stock{{Lot: lot("g", "GIFT", "", "5", "0", "100")}},
	}

	s := Aggregate(h)
	if !s.TotalValue.Equal(dec("500")) {
		t.Errorf("TotalValue = %s, want 500", s.TotalValue)
	}
	if !s.TotalReturnPercentage.IsZero() {
		t.Errorf("TotalReturnPercentage = %s, want 0", s.TotalReturnPercentage)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	base := sampleHoldings()
	want := Aggregate(base)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		h := domain.Holdings{
			Stocks:     append([]domain.Stock(nil), base.Stocks...),
			ETFs:       append([]domain.ETF(nil), base.ETFs...),
			Properties: append([]domain.Property(nil), base.Properties...),
		}
		rng.Shuffle(len(h.Stocks), func(a, b int) { h.Stocks[a], h.Stocks[b] = h.Stocks[b], h.Stocks[a] })
		rng.Shuffle(len(h.ETFs), func(a, b int) { h.ETFs[a], h.ETFs[b] = h.ETFs[b], h.ETFs[a] })

		got := Aggregate(h)
		if !got.TotalValue.Equal(want.TotalValue) || !got.TotalReturn.Equal(want.TotalReturn) {
			t.Fatalf("permutation %d: totals %s/%s, want %s/%s",
				i, got.TotalValue, got.TotalReturn, want.TotalValue, want.TotalReturn)
		}
	}
}

func TestCompose(t *testing.T) {
	h := domain.Holdings{
		Stocks: []domain.Stock{
			{Lot: lot("s1", "CBA.AX", "", "10", "10", "60")}, // 600, domestic by suffix
			{Lot: lot("s2", "AAPL", "NASDAQ", "1", "100", "200")},
		},
		ETFs: []domain.ETF{
			{Lot: lot("e1", "VAS", "ASX", "1", "100", "200")}, // domestic by exchange
		},
	}

	c := Compose(h)
	if !c.StocksPct.Equal(dec("80")) {
		t.Errorf("StocksPct = %s, want 80", c.StocksPct)
	}
	if !c.ETFsPct.Equal(dec("20")) {
		t.Errorf("ETFsPct = %s, want 20", c.ETFsPct)
	}
	if !c.PropertiesPct.IsZero() {
		t.Errorf("PropertiesPct = %s, want 0", c.PropertiesPct)
	}
	if !c.DomesticPct.Equal(dec("80")) {
		t.Errorf("DomesticPct = %s, want 80", c.DomesticPct)
	}
}

func TestComposeEmpty(t *testing.T) {
	c := Compose(domain.Holdings{})
	if !c.StocksPct.IsZero() || !c.DomesticPct.IsZero() {
		t.Errorf("Compose(empty) = %+v, want zeros", c)
	}
}
