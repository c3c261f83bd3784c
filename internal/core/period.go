package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is a (year, month) key under which weekly progress is recorded.
type Period struct {
	Year  int
	Month int // 1-12
}

// ParsePeriod parses a "YYYY-MM" key.
func ParsePeriod(s string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Period{}, &ValidationError{Field: "period", Reason: "expected YYYY-MM"}
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Period{}, &ValidationError{Field: "period", Reason: "invalid year"}
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, &ValidationError{Field: "period", Reason: "invalid month"}
	}
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Year < 1 {
		return &ValidationError{Field: "year", Reason: "must be positive"}
	}
	if p.Month < 1 || p.Month > 12 {
		return &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	return nil
}

// Key returns the canonical "YYYY-MM" form.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p Period) String() string { return p.Key() }

// Before reports whether p precedes q chronologically.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// PeriodsBetween enumerates the inclusive month columns from start to end.
// A start after end yields an empty range, never an error.
func PeriodsBetween(start, end Period) []Period {
	if end.Before(start) {
		return nil
	}
	var out []Period
	for p := start; !end.Before(p); p = p.Next() {
		out = append(out, p)
	}
	return out
}
