package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar timestamp that decodes from RFC 3339 or a bare "2006-01-02" date.
// Date-only input is taken as midnight UTC. It encodes as RFC 3339.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) Date { return Date{Time: t} }

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("%w: date %q is neither RFC 3339 nor YYYY-MM-DD", ErrValidation, s)
	}
	d.Time = t
	return nil
}
