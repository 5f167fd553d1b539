package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateHolding(t *testing.T) {
	valid := Lot{Symbol: "CBA.AX", Quantity: decimal.NewFromInt(50), PurchasePrice: decimal.RequireFromString("85.5"), Currency: "AUD"}

	tests := []struct {
		name    string
		holding Holding
		wantErr bool
	}{
		{"valid stock", Stock{Lot: valid}, false},
		{"valid etf", ETF{Lot: valid, ExpenseRatio: decimal.RequireFromString("0.1")}, false},
		{"missing symbol", Stock{Lot: Lot{Quantity: decimal.NewFromInt(1)}}, true},
		{"negative quantity", Stock{Lot: Lot{Symbol: "X", Quantity: decimal.NewFromInt(-1)}}, true},
		{"negative current price", Stock{Lot: Lot{Symbol: "X", CurrentPrice: decimal.NewNullDecimal(decimal.NewFromInt(-2))}}, true},
		{"unknown currency", Stock{Lot: Lot{Symbol: "X", Currency: "XXQ"}}, true},
		{"lowercase currency", Stock{Lot: Lot{Symbol: "X", Currency: "usd"}}, false},
		{"negative expense ratio", ETF{Lot: valid, ExpenseRatio: decimal.NewFromInt(-1)}, true},
		{"valid property", Property{Address: "1 Main St", PurchasePrice: decimal.NewFromInt(500000)}, false},
		{"property without address", Property{PurchasePrice: decimal.NewFromInt(1)}, true},
		{"property negative stamp duty", Property{Address: "1 Main St", StampDuty: decimal.NewFromInt(-5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHolding(tt.holding)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHolding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not wrap ErrValidation", err)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"aud", "1234.5", "AUD", "A$1,234.50"},
		{"lower case code", "1234.5", "aud", "A$1,234.50"},
		{"empty falls back to aud", "10", "", "A$10.00"},
		{"unknown falls back to aud", "10", "XYZ", "A$10.00"},
		{"rounds to minor units", "0.005", "AUD", "A$0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(decimal.RequireFromString(tt.amount), tt.currency); got != tt.want {
				t.Errorf("FormatAmount(%s, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}
