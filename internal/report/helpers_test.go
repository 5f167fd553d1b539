package report

import "github.com/shopspring/decimal"

func decimalFrom(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullFrom(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimalFrom(s)) }
