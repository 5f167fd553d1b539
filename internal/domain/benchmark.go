package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BenchmarkIndex is a market index used for relative performance comparison.
type BenchmarkIndex struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	Description string `json:"description"`
}

// BenchmarkPerformance compares the portfolio return with a benchmark over one period.
// Alpha equals Outperformance. SharpeRatio is a simplified excess return over the
// risk-free rate, scaled by the gap to the benchmark.
// DataAvailable is false when the benchmark is known but has no return for the period.
type BenchmarkPerformance struct {
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Period          string          `json:"period"`
	PortfolioReturn decimal.Decimal `json:"portfolioReturn"`
	BenchmarkReturn decimal.Decimal `json:"benchmarkReturn"`
	Outperformance  decimal.Decimal `json:"outperformance"`
	Alpha           decimal.Decimal `json:"alpha"`
	SharpeRatio     decimal.Decimal `json:"sharpeRatio"`
	DataAvailable   bool            `json:"dataAvailable"`
}

// IndexPoint is one closing level of a benchmark index.
type IndexPoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}
