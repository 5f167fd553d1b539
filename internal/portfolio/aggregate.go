package portfolio

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/valuation"
)

// classTotals sums value and return of a slice of holdings of one asset class.
func classTotals[H domain.Holding](items []H) domain.AssetClassTotals {
	return lo.Reduce(items, func(acc domain.AssetClassTotals, h H, _ int) domain.AssetClassTotals {
		v := valuation.Compute(h)
		return domain.AssetClassTotals{
			Value:  acc.Value.Add(v.TotalValue),
			Return: acc.Return.Add(v.TotalReturn),
			Count:  acc.Count + 1,
		}
	}, domain.AssetClassTotals{Value: decimal.Zero, Return: decimal.Zero})
}

// Aggregate computes the portfolio totals across stocks, ETFs and properties.
// Cost basis is derived as totalValue - totalReturn rather than summed per holding.
func Aggregate(h domain.Holdings) domain.PortfolioSummary {
	stocks := classTotals(h.Stocks)
	etfs := classTotals(h.ETFs)
	properties := classTotals(h.Properties)

	totalValue := domain.Sum(stocks.Value, etfs.Value, properties.Value)
	totalReturn := domain.Sum(stocks.Return, etfs.Return, properties.Return)
	costBasis := totalValue.Sub(totalReturn)

	return domain.PortfolioSummary{
		TotalValue:            totalValue,
		TotalReturn:           totalReturn,
		TotalCostBasis:        costBasis,
		TotalReturnPercentage: domain.Percent(totalReturn, costBasis),
		Stocks:                stocks,
		ETFs:                  etfs,
		Properties:            properties,
		HoldingCount:          h.Count(),
	}
}

// Compose derives the asset-class and domestic shares of total value.
// Domestic covers ASX-listed lots and AUD (or unspecified currency) property.
func Compose(h domain.Holdings) domain.Composition {
	summary := Aggregate(h)
	total := summary.TotalValue

	domestic := domain.Sum(
		domesticValue(h.Stocks, func(s domain.Stock) bool { return s.IsDomestic() }),
		domesticValue(h.ETFs, func(e domain.ETF) bool { return e.IsDomestic() }),
		domesticValue(h.Properties, func(p domain.Property) bool { return p.IsDomestic() }),
	)

	return domain.Composition{
		StocksPct:     domain.Percent(summary.Stocks.Value, total),
		ETFsPct:       domain.Percent(summary.ETFs.Value, total),
		PropertiesPct: domain.Percent(summary.Properties.Value, total),
		DomesticPct:   domain.Percent(domestic, total),
	}
}

func domesticValue[H domain.Holding](items []H, isDomestic func(H) bool) decimal.Decimal {
	return classTotals(lo.Filter(items, func(h H, _ int) bool { return isDomestic(h) })).Value
}
