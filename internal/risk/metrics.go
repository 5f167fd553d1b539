package risk

import (
	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

const precision = 4

// Metrics summarizes the risk of a value series. Return figures are percentages
// per observation interval.
type Metrics struct {
	Observations      int             `json:"observations"`
	MeanReturn        decimal.Decimal `json:"meanReturn"`
	MedianReturn      decimal.Decimal `json:"medianReturn"`
	Volatility        decimal.Decimal `json:"volatility"`
	DownsideDeviation decimal.Decimal `json:"downsideDeviation"`
	SortinoRatio      decimal.Decimal `json:"sortinoRatio"`
	ValueAtRisk95     decimal.Decimal `json:"valueAtRisk95"`
	MaxDrawdown       decimal.Decimal `json:"maxDrawdown"`
}

// PeriodReturns converts consecutive values into percentage returns. A step from a
// non-positive value yields no return.
func PeriodReturns(values []decimal.Decimal) []decimal.Decimal {
	if len(values) < 2 {
		return nil
	}
	returns := make([]decimal.Decimal, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if !values[i-1].IsPositive() {
			continue
		}
		returns = append(returns, domain.Percent(values[i].Sub(values[i-1]), values[i-1]))
	}
	return returns
}

// MaxDrawdown returns the largest peak-to-trough decline of values in percent.
func MaxDrawdown(values []decimal.Decimal) decimal.Decimal {
	peak := decimal.Zero
	worst := decimal.Zero
	for _, v := range values {
		if v.GreaterThan(peak) {
			peak = v
			continue
		}
		if dd := domain.Percent(peak.Sub(v), peak); dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst
}

// Compute derives risk metrics from a value series ordered oldest first.
// Fewer than two values produce zero metrics. Sortino uses a zero target return and
// value at risk is the parametric one-interval loss at 95% confidence, floored at zero.
func Compute(values []decimal.Decimal) Metrics {
	returns := PeriodReturns(values)
	m := Metrics{
		Observations: len(returns),
		MaxDrawdown:  MaxDrawdown(values).Round(precision),
	}
	if len(returns) == 0 {
		return m
	}

	mean := Mean(returns)
	vol := StdDev(returns)
	downside := DownsideStdDev(returns, decimal.Zero)

	m.MeanReturn = mean.Round(precision)
	m.MedianReturn = Median(returns).Round(precision)
	m.Volatility = vol.Round(precision)
	m.DownsideDeviation = downside.Round(precision)
	m.SortinoRatio = domain.Ratio(mean, downside).Round(precision)

	z := decimal.NewFromFloat(NormalQuantile(0.05))
	if v := mean.Add(z.Mul(vol)).Neg(); v.IsPositive() {
		m.ValueAtRisk95 = v.Round(precision)
	}
	return m
}
