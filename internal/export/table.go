package export

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/valuation"
)

// Table is one exported collection: a header row and data rows.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

var (
	stockHeaders = []string{
		"symbol", "name", "quantity", "purchasePrice", "currentPrice",
		"totalValue", "totalReturn", "returnPercentage", "purchaseDate",
		"purchaseFees", "currency", "exchange", "sector", "daysHeld",
	}
	etfHeaders = []string{
		"symbol", "name", "quantity", "purchasePrice", "currentPrice",
		"totalValue", "totalReturn", "returnPercentage", "purchaseDate",
		"purchaseFees", "expenseRatio", "annualExpenseCost", "currency", "exchange", "daysHeld",
	}
	propertyHeaders = []string{
		"address", "propertyType", "purchasePrice", "currentValue",
		"totalReturn", "returnPercentage", "purchaseDate", "stampDuty",
		"legalFees", "otherPurchaseCosts", "weeklyRent", "annualExpenses",
		"grossRentalYield", "netRentalYield", "annualCashFlow", "daysHeld",
	}
)

func amount(d decimal.Decimal) string { return domain.RoundDisplay(d).String() }

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func lotRow(l domain.Lot, v domain.Valuation) []any {
	return []any{
		l.Symbol, l.Name, l.Quantity.String(), amount(l.PurchasePrice), amount(l.EffectivePrice()),
		amount(v.TotalValue), amount(v.TotalReturn), amount(v.ReturnPercentage), day(l.PurchaseDate.Time),
		amount(l.PurchaseFees),
	}
}

// StocksTable builds the stock export rows.
func StocksTable(stocks []domain.Stock, now time.Time) Table {
	return Table{
		Name:    string(KindStocks),
		Headers: stockHeaders,
		Rows: lo.Map(stocks, func(s domain.Stock, _ int) []any {
			row := lotRow(s.Lot, valuation.Compute(s))
			return append(row, s.Currency, s.Exchange, s.Sector, valuation.DaysHeld(s, now))
		}),
	}
}

// ETFsTable builds the ETF export rows.
func ETFsTable(etfs []domain.ETF, now time.Time) Table {
	return Table{
		Name:    string(KindETFs),
		Headers: etfHeaders,
		Rows: lo.Map(etfs, func(e domain.ETF, _ int) []any {
			row := lotRow(e.Lot, valuation.Compute(e))
			return append(row, e.ExpenseRatio.String(), amount(valuation.AnnualExpenseCost(e)),
				e.Currency, e.Exchange, valuation.DaysHeld(e, now))
		}),
	}
}

// PropertiesTable builds the property export rows.
func PropertiesTable(properties []domain.Property, now time.Time) Table {
	return Table{
		Name:    string(KindProperties),
		Headers: propertyHeaders,
		Rows: lo.Map(properties, func(p domain.Property, _ int) []any {
			v := valuation.Compute(p)
			inc := valuation.PropertyIncome(p)
			return []any{
				p.Address, string(p.PropertyType), amount(p.PurchasePrice), amount(p.CurrentValue),
				amount(v.TotalReturn), amount(v.ReturnPercentage), day(p.PurchaseDate.Time), amount(p.StampDuty),
				amount(p.LegalFees), amount(p.OtherPurchaseCosts), amount(p.WeeklyRent), amount(p.AnnualExpenses),
				amount(inc.GrossRentalYield), amount(inc.NetRentalYield), amount(inc.AnnualCashFlow),
				valuation.DaysHeld(p, now),
			}
		}),
	}
}

// Tables returns the tables for kind. KindAll yields every non-empty collection.
func Tables(kind Kind, h domain.Holdings, now time.Time) []Table {
	switch kind {
	case KindStocks:
		return []Table{StocksTable(h.Stocks, now)}
	case KindETFs:
		return []Table{ETFsTable(h.ETFs, now)}
	case KindProperties:
		return []Table{PropertiesTable(h.Properties, now)}
	}

	var tables []Table
	if len(h.Stocks) > 0 {
		tables = append(tables, StocksTable(h.Stocks, now))
	}
	if len(h.ETFs) > 0 {
		tables = append(tables, ETFsTable(h.ETFs, now))
	}
	if len(h.Properties) > 0 {
		tables = append(tables, PropertiesTable(h.Properties, now))
	}
	return tables
}

// SheetTables returns all three tables, header-only for an empty collection, so a
// destination that replaces sheets by name also clears sold-out collections.
func SheetTables(h domain.Holdings, now time.Time) []Table {
	return []Table{
		StocksTable(h.Stocks, now),
		ETFsTable(h.ETFs, now),
		PropertiesTable(h.Properties, now),
	}
}
