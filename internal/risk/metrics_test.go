package risk

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPeriodReturns(t *testing.T) {
	got := PeriodReturns(ints(100, 110, 99, 0, 50))

	want := []string{"10", "-10", "-100"}
	if len(got) != len(want) {
		t.Fatalf("returns = %v, want %v", got, want)
	}
	for i, w := range want {
		if !got[i].Equal(decimal.RequireFromString(w)) {
			t.Errorf("returns[%d] = %s, want %s", i, got[i], w)
		}
	}
	if PeriodReturns(ints(100)) != nil {
		t.Error("single value should give no returns")
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []decimal.Decimal
		want   string
	}{
		{"rising", ints(100, 110, 120), "0"},
		{"single dip", ints(100, 80, 120), "20"},
		{"deepest after new peak", ints(100, 90, 200, 150), "25"},
		{"empty", nil, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxDrawdown(tt.values); !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("MaxDrawdown = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	m := Compute([]decimal.Decimal{
		decimal.NewFromInt(100),
		decimal.NewFromInt(110),
		decimal.NewFromInt(99),
		decimal.RequireFromString("108.9"),
	})

	if m.Observations != 3 {
		t.Errorf("Observations = %d, want 3", m.Observations)
	}
	// returns: 10, -10, 10
	if !m.MeanReturn.Equal(decimal.RequireFromString("3.3333")) {
		t.Errorf("MeanReturn = %s, want 3.3333", m.MeanReturn)
	}
	if !m.MedianReturn.Equal(decimal.NewFromInt(10)) {
		t.Errorf("MedianReturn = %s, want 10", m.MedianReturn)
	}
	if !m.DownsideDeviation.Equal(decimal.NewFromInt(10)) {
		t.Errorf("DownsideDeviation = %s, want 10", m.DownsideDeviation)
	}
	if !m.SortinoRatio.Equal(decimal.RequireFromString("0.3333")) {
		t.Errorf("SortinoRatio = %s, want 0.3333", m.SortinoRatio)
	}
	if !m.MaxDrawdown.Equal(decimal.NewFromInt(10)) {
		t.Errorf("MaxDrawdown = %s, want 10", m.MaxDrawdown)
	}
	if !m.ValueAtRisk95.IsPositive() {
		t.Errorf("ValueAtRisk95 = %s, want positive", m.ValueAtRisk95)
	}
}

func TestComputeTooFewValues(t *testing.T) {
	m := Compute(ints(100))
	if m.Observations != 0 || !m.Volatility.IsZero() || !m.ValueAtRisk95.IsZero() {
		t.Errorf("metrics = %+v, want zero", m)
	}
}
