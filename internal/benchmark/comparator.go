package benchmark

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

var (
	domesticThreshold = decimal.NewFromInt(70)
	equityThreshold   = decimal.NewFromInt(80)
	volatilityDivisor = decimal.NewFromInt(10)

	// DefaultRiskFreeRate is the assumed annual risk-free return in percent.
	DefaultRiskFreeRate = decimal.RequireFromString("2.5")
)

// Comparator measures portfolio performance against registered benchmark indices.
type Comparator struct {
	registry *Registry
	source   ReturnSource
}

// NewComparator creates a comparator. Both dependencies are required.
func NewComparator(registry *Registry, source ReturnSource) *Comparator {
	if registry == nil {
		panic("benchmark.NewComparator: registry is required")
	}
	if source == nil {
		panic("benchmark.NewComparator: source is required")
	}
	return &Comparator{registry: registry, source: source}
}

// Registry returns the index registry used by the comparator.
func (c *Comparator) Registry() *Registry { return c.registry }

// Compare returns the portfolio performance against symbol over period.
// It returns nil when the symbol is not registered. A registered symbol with no return
// data yields a record with DataAvailable false and a zero benchmark return.
func (c *Comparator) Compare(value, costBasis decimal.Decimal, symbol string, period Period) *domain.BenchmarkPerformance {
	index, ok := c.registry.Lookup(symbol)
	if !ok {
		return nil
	}

	portfolioReturn := domain.Percent(value.Sub(costBasis), costBasis)
	benchmarkReturn, available := c.source.BenchmarkReturn(symbol, period)
	if !available {
		benchmarkReturn = decimal.Zero
	}
	outperformance := portfolioReturn.Sub(benchmarkReturn)

	return &domain.BenchmarkPerformance{
		Symbol:          symbol,
		Name:            index.Name,
		Period:          string(period),
		PortfolioReturn: portfolioReturn,
		BenchmarkReturn: benchmarkReturn,
		Outperformance:  outperformance,
		Alpha:           outperformance,
		SharpeRatio:     SharpeRatio(portfolioReturn, benchmarkReturn, DefaultRiskFreeRate),
		DataAvailable:   available,
	}
}

// MultiPeriodCompare compares over the key periods (1m, 3m, 6m, 1y), omitting periods
// without benchmark data. Unknown symbols yield an empty result.
func (c *Comparator) MultiPeriodCompare(value, costBasis decimal.Decimal, symbol string) []domain.BenchmarkPerformance {
	return lo.FilterMap(KeyPeriods, func(p Period, _ int) (domain.BenchmarkPerformance, bool) {
		perf := c.Compare(value, costBasis, symbol, p)
		if perf == nil || !perf.DataAvailable {
			return domain.BenchmarkPerformance{}, false
		}
		return *perf, true
	})
}

// BestMatch suggests a benchmark for the composition. Rules are evaluated in order:
// more than 70% domestic selects the ASX 200, more than 80% equities selects the S&P 500,
// anything else falls back to the ASX 200.
func BestMatch(c domain.Composition) string {
	switch {
	case c.DomesticPct.GreaterThan(domesticThreshold):
		return SymbolASX200
	case c.StocksPct.Add(c.ETFsPct).GreaterThan(equityThreshold):
		return SymbolSP500
	default:
		return SymbolASX200
	}
}

// SharpeRatio is a simplified risk-adjusted return: the excess return over riskFree
// divided by a tenth of the absolute gap to the benchmark, or by 1 when that gap is 0.
func SharpeRatio(portfolioReturn, benchmarkReturn, riskFree decimal.Decimal) decimal.Decimal {
	excess := portfolioReturn.Sub(riskFree)
	adjustment := portfolioReturn.Sub(benchmarkReturn).Abs().Div(volatilityDivisor)
	if adjustment.IsZero() {
		adjustment = decimal.NewFromInt(1)
	}
	return excess.Div(adjustment)
}
