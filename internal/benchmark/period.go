package benchmark

import (
	"fmt"

	"github.com/samber/lo"
)

// Period is a trailing comparison window.
type Period string

const (
	Period1W Period = "1w"
	Period1M Period = "1m"
	Period3M Period = "3m"
	Period6M Period = "6m"
	Period1Y Period = "1y"
	Period2Y Period = "2y"
	Period3Y Period = "3y"
	Period5Y Period = "5y"
)

type periodInfo struct {
	label string
	days  int
}

var periods = map[Period]periodInfo{
	Period1W: {"1 Week", 7},
	Period1M: {"1 Month", 30},
	Period3M: {"3 Months", 90},
	Period6M: {"6 Months", 180},
	Period1Y: {"1 Year", 365},
	Period2Y: {"2 Years", 730},
	Period3Y: {"3 Years", 1095},
	Period5Y: {"5 Years", 1825},
}

// Periods lists all supported periods, shortest first.
var Periods = []Period{Period1W, Period1M, Period3M, Period6M, Period1Y, Period2Y, Period3Y, Period5Y}

// KeyPeriods are the periods used for multi-period comparison.
var KeyPeriods = []Period{Period1M, Period3M, Period6M, Period1Y}

// Label returns the human-readable name ("3 Months").
func (p Period) Label() string { return periods[p].label }

// Days returns the trailing window length in days, 0 for an unknown period.
func (p Period) Days() int { return periods[p].days }

// Valid reports whether p is a supported period.
func (p Period) Valid() bool {
	_, ok := periods[p]
	return ok
}

// ParsePeriod validates a period code.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown period %q (supported: %v)", s, lo.Map(Periods, func(p Period, _ int) string { return string(p) }))
	}
	return p, nil
}
