package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

var weeksPerYear = decimal.NewFromInt(52)

// Compute derives cost basis, value and return for a holding.
//
// Lots: cost = purchasePrice × quantity + fees, value = currentPrice × quantity
// (current price falls back to the purchase price). Property: cost = purchase price plus
// acquisition costs, value = currentValue. Return percentage is 0 when cost basis is 0.
func Compute(h domain.Holding) domain.Valuation {
	var cost, value decimal.Decimal
	switch v := h.(type) {
	case domain.Stock:
		cost, value = lotCostAndValue(v.Lot)
	case domain.ETF:
		cost, value = lotCostAndValue(v.Lot)
	case domain.Property:
		cost = PropertyCostBasis(v)
		value = v.CurrentValue
	}

	ret := value.Sub(cost)
	return domain.Valuation{
		TotalCostBasis:   cost,
		TotalValue:       value,
		TotalReturn:      ret,
		ReturnPercentage: domain.Percent(ret, cost),
	}
}

func lotCostAndValue(l domain.Lot) (cost, value decimal.Decimal) {
	cost = l.PurchasePrice.Mul(l.Quantity).Add(l.PurchaseFees)
	value = l.EffectivePrice().Mul(l.Quantity)
	return cost, value
}

// PropertyCostBasis is the purchase price plus stamp duty, legal fees and other purchase costs.
func PropertyCostBasis(p domain.Property) decimal.Decimal {
	return domain.Sum(p.PurchasePrice, p.StampDuty, p.LegalFees, p.OtherPurchaseCosts)
}

// PropertyIncome computes rental yields and cash flow. Yields are 0 when the current value is 0.
func PropertyIncome(p domain.Property) domain.PropertyIncome {
	annualRent := p.WeeklyRent.Mul(weeksPerYear)
	cashFlow := annualRent.Sub(p.AnnualExpenses)
	return domain.PropertyIncome{
		AnnualRentalIncome: annualRent,
		GrossRentalYield:   domain.Percent(annualRent, p.CurrentValue),
		NetRentalYield:     domain.Percent(cashFlow, p.CurrentValue),
		AnnualCashFlow:     cashFlow,
	}
}

// DaysHeld returns whole days between purchase and now, or 0 for an unset or future purchase date.
func DaysHeld(h domain.Holding, now time.Time) int {
	purchased := h.Purchased()
	if purchased.IsZero() || purchased.After(now) {
		return 0
	}
	return int(now.Sub(purchased).Hours() / 24)
}

// AnnualExpenseCost is the yearly management cost of an ETF position at its current value.
// ExpenseRatio is expressed in percent (0.10 means 0.10%).
func AnnualExpenseCost(e domain.ETF) decimal.Decimal {
	_, value := lotCostAndValue(e.Lot)
	return value.Mul(e.ExpenseRatio).Div(decimal.NewFromInt(100))
}
