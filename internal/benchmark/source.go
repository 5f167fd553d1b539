package benchmark

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// ReturnSource provides the benchmark return (in percent) of a symbol over a period.
// ok is false when no data is available.
type ReturnSource interface {
	BenchmarkReturn(symbol string, period Period) (ret decimal.Decimal, ok bool)
}

// LevelSource reports the most recent index levels behind a return source.
type LevelSource interface {
	Latest(symbol string) (domain.IndexPoint, bool)
	UpdatedAt() time.Time
}

// StaticSource is a fixed {symbol → {period → return%}} table.
type StaticSource map[string]map[Period]decimal.Decimal

func (s StaticSource) BenchmarkReturn(symbol string, period Period) (decimal.Decimal, bool) {
	ret, ok := s[symbol][period]
	return ret, ok
}

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultStaticSource returns the mock return table used in mock data mode.
func DefaultStaticSource() StaticSource {
	return StaticSource{
		SymbolASX200: {
			Period1W: pct("0.5"), Period1M: pct("2.1"), Period3M: pct("4.8"), Period6M: pct("8.2"),
			Period1Y: pct("12.5"), Period2Y: pct("18.7"), Period3Y: pct("24.2"),
		},
		SymbolSP500: {
			Period1W: pct("0.8"), Period1M: pct("2.8"), Period3M: pct("6.2"), Period6M: pct("11.4"),
			Period1Y: pct("15.8"), Period2Y: pct("22.3"), Period3Y: pct("28.9"),
		},
	}
}

// SeriesSource computes trailing returns from index level series.
type SeriesSource struct {
	series map[string][]domain.IndexPoint
	asOf   time.Time
}

// NewSeriesSource creates a source over the given series. Points are sorted by date.
// A zero asOf measures each period back from the latest point of the series.
func NewSeriesSource(series map[string][]domain.IndexPoint, asOf time.Time) *SeriesSource {
	sorted := make(map[string][]domain.IndexPoint, len(series))
	for symbol, points := range series {
		sorted[symbol] = sortedPoints(points)
	}
	return &SeriesSource{series: sorted, asOf: asOf}
}

func (s *SeriesSource) BenchmarkReturn(symbol string, period Period) (decimal.Decimal, bool) {
	return seriesReturn(s.series[symbol], period, s.asOf)
}

// Latest returns the most recent point of a symbol.
func (s *SeriesSource) Latest(symbol string) (domain.IndexPoint, bool) {
	points := s.series[symbol]
	if len(points) == 0 {
		return domain.IndexPoint{}, false
	}
	return points[len(points)-1], true
}

// UpdatedAt returns asOf, or the date of the newest point across all series when asOf is zero.
func (s *SeriesSource) UpdatedAt() time.Time {
	if !s.asOf.IsZero() {
		return s.asOf
	}
	var newest time.Time
	for _, points := range s.series {
		if n := len(points); n > 0 && points[n-1].Date.After(newest) {
			newest = points[n-1].Date
		}
	}
	return newest
}

func sortedPoints(points []domain.IndexPoint) []domain.IndexPoint {
	out := append([]domain.IndexPoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// seriesReturn returns (last - base) / base * 100 where last is the latest point on or
// before asOf and base is the latest point on or before asOf minus the period length.
// points must be sorted by date.
func seriesReturn(points []domain.IndexPoint, period Period, asOf time.Time) (decimal.Decimal, bool) {
	if !period.Valid() || len(points) == 0 {
		return decimal.Zero, false
	}
	if asOf.IsZero() {
		asOf = points[len(points)-1].Date
	}

	last, ok := pointOnOrBefore(points, asOf)
	if !ok {
		return decimal.Zero, false
	}
	base, ok := pointOnOrBefore(points, asOf.AddDate(0, 0, -period.Days()))
	if !ok || !base.Value.IsPositive() {
		return decimal.Zero, false
	}
	return domain.Percent(last.Value.Sub(base.Value), base.Value), true
}

func pointOnOrBefore(points []domain.IndexPoint, t time.Time) (domain.IndexPoint, bool) {
	i := sort.Search(len(points), func(i int) bool { return points[i].Date.After(t) })
	if i == 0 {
		return domain.IndexPoint{}, false
	}
	return points[i-1], true
}

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func level(date, value string) domain.IndexPoint {
	return domain.IndexPoint{Date: day(date), Value: pct(value)}
}

// MockSeries returns the sample 2024 index levels for the ASX 200 and the S&P 500.
func MockSeries() map[string][]domain.IndexPoint {
	return map[string][]domain.IndexPoint{
		SymbolASX200: {
			level("2024-01-01", "7500"), level("2024-02-01", "7650"), level("2024-03-01", "7580"),
			level("2024-04-01", "7720"), level("2024-05-01", "7680"), level("2024-06-01", "7820"),
			level("2024-07-01", "7950"), level("2024-12-31", "8200"),
		},
		SymbolSP500: {
			level("2024-01-01", "4750"), level("2024-02-01", "4850"), level("2024-03-01", "4920"),
			level("2024-04-01", "5100"), level("2024-05-01", "5050"), level("2024-06-01", "5200"),
			level("2024-07-01", "5400"), level("2024-12-31", "5600"),
		},
	}
}
