package holdings

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// Mock data scenarios.
const (
	ScenarioEmpty       = "empty"
	ScenarioBalanced    = "balanced"
	ScenarioSingleStock = "single-stock"
	ScenarioMajorLosses = "major-losses"
	ScenarioMajorGains  = "major-gains"
)

// Scenarios lists the available mock scenarios.
var Scenarios = []string{ScenarioEmpty, ScenarioBalanced, ScenarioSingleStock, ScenarioMajorLosses, ScenarioMajorGains}

// MockPortfolioID is the portfolio id carried by all mock holdings.
const MockPortfolioID = "demo"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mockLot(id, symbol, name, qty, purchase, current, purchased, exchange, currency string, tags ...string) domain.Lot {
	return domain.Lot{
		ID:            id,
		PortfolioID:   MockPortfolioID,
		Symbol:        symbol,
		Name:          name,
		Quantity:      d(qty),
		PurchasePrice: d(purchase),
		CurrentPrice:  decimal.NewNullDecimal(d(current)),
		PurchaseDate:  domain.NewDate(date(purchased)),
		Currency:      currency,
		Exchange:      exchange,
		Tags:          tags,
		CreatedAt:     date(purchased),
	}
}

func mockStocks() []domain.Stock {
	return []domain.Stock{
		{Lot: mockLot("1", "CBA.AX", "Commonwealth Bank of Australia", "50", "85.50", "105.20", "2023-01-15", "ASX", "AUD",
			"tag_2", "tag_17", "tag_22", "tag_27"), Sector: "Financial Services"},
		{Lot: mockLot("2", "AAPL", "Apple Inc", "30", "150.00", "195.50", "2022-11-10", "NASDAQ", "USD",
			"tag_1", "tag_19", "tag_25", "tag_8"), Sector: "Technology"},
		{Lot: mockLot("3", "ZIP.AX", "Zip Co Limited", "200", "5.80", "2.45", "2023-01-08", "ASX", "AUD",
			"tag_5", "tag_19", "tag_23", "tag_26"), Sector: "Technology"},
	}
}

func mockETFs() []domain.ETF {
	return []domain.ETF{
		{Lot: mockLot("4", "VAS.AX", "Vanguard Australian Shares Index ETF", "100", "78.50", "82.30", "2023-01-20", "ASX", "AUD",
			"tag_2", "tag_17", "tag_22", "tag_8"), Category: "Australian Equity", ExpenseRatio: d("0.10")},
		{Lot: mockLot("5", "VTI", "Vanguard Total Stock Market ETF", "40", "185.00", "210.25", "2023-02-15", "NYSE", "USD",
			"tag_1", "tag_18", "tag_25", "tag_8"), Category: "US Total Market", ExpenseRatio: d("0.03")},
	}
}

func mockProperties() []domain.Property {
	return []domain.Property{
		{
			ID: "6", PortfolioID: MockPortfolioID,
			Address: "15 Collins Street, Melbourne VIC 3000", PropertyType: domain.PropertyTypeUnit,
			PurchasePrice: d("650000"), StampDuty: d("32500"), LegalFees: d("2800"), OtherPurchaseCosts: d("3900"),
			CurrentValue: d("720000"), PurchaseDate: domain.NewDate(date("2022-03-15")), Currency: "AUD",
			WeeklyRent: d("720"), AnnualExpenses: d("8770"),
			Tags:      []string{"tag_2", "tag_17", "tag_8", "tag_10", "tag_29"},
			CreatedAt: date("2022-03-15"),
		},
		{
			ID: "7", PortfolioID: MockPortfolioID,
			Address: "42 Smith Street, Fitzroy VIC 3065", PropertyType: domain.PropertyTypeTownhouse,
			PurchasePrice: d("850000"), StampDuty: d("45500"), LegalFees: d("3200"), OtherPurchaseCosts: d("4100"),
			CurrentValue: d("925000"), PurchaseDate: domain.NewDate(date("2022-08-10")), Currency: "AUD",
			WeeklyRent: d("850"), AnnualExpenses: d("11344"),
			Tags:      []string{"tag_2", "tag_18", "tag_8", "tag_11", "tag_29"},
			CreatedAt: date("2022-08-10"),
		},
	}
}

// MockHoldings returns the holdings of a named scenario.
func MockHoldings(scenario string) (domain.Holdings, error) {
	stocks := mockStocks()
	switch scenario {
	case ScenarioEmpty:
		return domain.Holdings{Stocks: []domain.Stock{}, ETFs: []domain.ETF{}, Properties: []domain.Property{}}, nil
	case ScenarioBalanced, "":
		return domain.Holdings{Stocks: stocks, ETFs: mockETFs(), Properties: mockProperties()}, nil
	case ScenarioSingleStock:
		return domain.Holdings{Stocks: stocks[:1], ETFs: []domain.ETF{}, Properties: []domain.Property{}}, nil
	case ScenarioMajorLosses:
		return domain.Holdings{Stocks: stocks[2:3], ETFs: []domain.ETF{}, Properties: []domain.Property{}}, nil
	case ScenarioMajorGains:
		return domain.Holdings{Stocks: stocks[1:2], ETFs: []domain.ETF{}, Properties: []domain.Property{}}, nil
	}
	return domain.Holdings{}, fmt.Errorf("unknown scenario %q (available: %v)", scenario, Scenarios)
}

// IsScenario reports whether name is a known scenario.
func IsScenario(name string) bool {
	return slices.Contains(Scenarios, name)
}

// NewMockLoader creates a loader over in-memory stores seeded with a scenario.
func NewMockLoader(scenario string) (*Loader, error) {
	h, err := MockHoldings(scenario)
	if err != nil {
		return nil, err
	}
	return NewLoader(
		NewMemoryStore(h.Stocks...),
		NewMemoryStore(h.ETFs...),
		NewMemoryStore(h.Properties...),
	), nil
}
