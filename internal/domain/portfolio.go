package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetClassTotals is the subtotal of one asset class.
type AssetClassTotals struct {
	Value  decimal.Decimal `json:"value"`
	Return decimal.Decimal `json:"return"`
	Count  int             `json:"count"`
}

// PortfolioSummary holds the portfolio-level totals and per-class breakdown.
type PortfolioSummary struct {
	TotalValue            decimal.Decimal  `json:"totalValue"`
	TotalReturn           decimal.Decimal  `json:"totalReturn"`
	TotalCostBasis        decimal.Decimal  `json:"totalCostBasis"`
	TotalReturnPercentage decimal.Decimal  `json:"totalReturnPercentage"`
	Stocks                AssetClassTotals `json:"stocks"`
	ETFs                  AssetClassTotals `json:"etfs"`
	Properties            AssetClassTotals `json:"properties"`
	HoldingCount          int              `json:"holdingCount"`
}

// Composition describes the portfolio mix in percent of total value.
type Composition struct {
	StocksPct     decimal.Decimal `json:"stocksPct"`
	ETFsPct       decimal.Decimal `json:"etfsPct"`
	PropertiesPct decimal.Decimal `json:"propertiesPct"`
	DomesticPct   decimal.Decimal `json:"domesticPct"`
}

// PortfolioReport is the full dashboard record for one portfolio.
type PortfolioReport struct {
	PortfolioID        string                 `json:"portfolioId"`
	GeneratedAt        time.Time              `json:"generatedAt"`
	Summary            PortfolioSummary       `json:"summary"`
	Composition        Composition            `json:"composition"`
	Benchmark          string                 `json:"benchmark"`
	SuggestedBenchmark string                 `json:"suggestedBenchmark"`
	Comparisons        []BenchmarkPerformance `json:"comparisons"`
	TagSummaries       []TaggedAssetSummary   `json:"tagSummaries"`
	Holdings           Holdings               `json:"holdings"`
	Warnings           []string               `json:"warnings,omitempty"`
}
