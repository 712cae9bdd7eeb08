package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Named sale date ranges
const (
	RangeToday   = "today"
	RangeWeek    = "week"
	RangeMonth   = "month"
	RangeQuarter = "quarter"
	RangeAll     = "all"
)

// ResolveRange turns a named range into a lower bound relative to now.
// "today" starts at local midnight; "all" and "" have no bound.
func ResolveRange(name string, now time.Time) (*time.Time, error) {
	var from time.Time
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RangeAll:
		return nil, nil
	case RangeToday:
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case RangeWeek:
		from = now.AddDate(0, 0, -7)
	case RangeMonth:
		from = now.AddDate(0, -1, 0)
	case RangeQuarter:
		from = now.AddDate(0, -3, 0)
	default:
		return nil, fmt.Errorf("unknown range %q", name)
	}
	return &from, nil
}

// ParseBound parses a user supplied date or time in loc; blank means no bound.
func ParseBound(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}
