package domain

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ValidateHolding checks field constraints: non-negative quantities and prices,
// a non-empty identifying field and a known ISO 4217 currency when one is given.
func ValidateHolding(h Holding) error {
	switch v := h.(type) {
	case Stock:
		return validateLot(v.Lot)
	case ETF:
		if v.ExpenseRatio.IsNegative() {
			return fmt.Errorf("%w: expenseRatio must not be negative", ErrValidation)
		}
		return validateLot(v.Lot)
	case Property:
		if strings.TrimSpace(v.Address) == "" {
			return fmt.Errorf("%w: address is required", ErrValidation)
		}
		if err := nonNegative(map[string]decimal.Decimal{
			"purchasePrice":      v.PurchasePrice,
			"stampDuty":          v.StampDuty,
			"legalFees":          v.LegalFees,
			"otherPurchaseCosts": v.OtherPurchaseCosts,
			"currentValue":       v.CurrentValue,
			"weeklyRent":         v.WeeklyRent,
			"annualExpenses":     v.AnnualExpenses,
		}); err != nil {
			return err
		}
		return validateCurrency(v.Currency)
	default:
		return fmt.Errorf("%w: unsupported holding %T", ErrValidation, h)
	}
}

func validateLot(l Lot) error {
	if strings.TrimSpace(l.Symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrValidation)
	}
	fields := map[string]decimal.Decimal{
		"quantity":      l.Quantity,
		"purchasePrice": l.PurchasePrice,
		"purchaseFees":  l.PurchaseFees,
	}
	if l.CurrentPrice.Valid {
		fields["currentPrice"] = l.CurrentPrice.Decimal
	}
	if err := nonNegative(fields); err != nil {
		return err
	}
	return validateCurrency(l.Currency)
}

func nonNegative(fields map[string]decimal.Decimal) error {
	for name, v := range fields {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, name)
		}
	}
	return nil
}

func validateCurrency(code string) error {
	if code == "" {
		return nil
	}
	if money.GetCurrency(strings.ToUpper(code)) == nil {
		return fmt.Errorf("%w: unknown currency %q", ErrValidation, code)
	}
	return nil
}

// FormatAmount renders an amount with the go-money grapheme of its currency
// ("A$1,234.50", "US$10.00"). Unknown or empty currency codes fall back to AUD.
func FormatAmount(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	if code == "" || money.GetCurrency(code) == nil {
		code = money.AUD
	}
	c := money.GetCurrency(code)
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
