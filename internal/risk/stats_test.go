package risk

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func ints(vs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func TestMean(t *testing.T) {
	if got := Mean(ints(1, 2, 3, 4, 5)); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Mean = %s, want 3", got)
	}
	if got := Mean(nil); !got.IsZero() {
		t.Errorf("Mean(nil) = %s, want 0", got)
	}
}

func TestVarianceAndStdDev(t *testing.T) {
	values := ints(2, 4, 4, 4, 5, 5, 7, 9)

	v, _ := Variance(values).Float64()
	if math.Abs(v-4.571429) > 0.001 {
		t.Errorf("Variance = %f, want ~4.571429", v)
	}
	s, _ := StdDev(values).Float64()
	if math.Abs(s-2.138) > 0.01 {
		t.Errorf("StdDev = %f, want ~2.138", s)
	}
	if !Variance(ints(7)).IsZero() {
		t.Error("Variance of one value should be 0")
	}
}

func TestDownsideStdDev(t *testing.T) {
	returns := []decimal.Decimal{decimal.NewFromInt(-3), decimal.NewFromInt(-1), decimal.NewFromInt(4)}

	got, _ := DownsideStdDev(returns, decimal.Zero).Float64()
	if math.Abs(got-math.Sqrt(5)) > 0.0001 {
		t.Errorf("DownsideStdDev = %f, want sqrt(5)", got)
	}
	if !DownsideStdDev(ints(1, 2), decimal.Zero).IsZero() {
		t.Error("no downside should give 0")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []decimal.Decimal
		want   string
	}{
		{"odd count", ints(1, 3, 5), "3"},
		{"even count", ints(1, 2, 3, 4), "2.5"},
		{"single", ints(42), "42"},
		{"empty", nil, "0"},
		{"unsorted", ints(5, 1, 3), "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Median = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := ints(5, 1, 3)
	Median(values)
	if !values[0].Equal(decimal.NewFromInt(5)) {
		t.Errorf("input reordered: %v", values)
	}
}

func TestNormalQuantile(t *testing.T) {
	// q(0.05) ≈ -1.645
	if q := NormalQuantile(0.05); math.Abs(q-(-1.645)) > 0.01 {
		t.Errorf("NormalQuantile(0.05) = %f, want ~-1.645", q)
	}
	if q := NormalQuantile(0.5); math.Abs(q) > 0.01 {
		t.Errorf("NormalQuantile(0.5) = %f, want ~0", q)
	}
	if q := NormalQuantile(1); q != 0 {
		t.Errorf("NormalQuantile(1) = %f, want 0", q)
	}
}
