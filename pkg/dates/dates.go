package dates

import (
	"fmt"
	"strings"
	"time"

	"larsbees/pkg/apperr"
)

const (
	Day      = "2006-01-02"
	DateTime = "2006-01-02 15:04:05"
	Stamp    = "20060102_150405"
)

var layouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", DateTime, Day}

// Parse accepts the date and datetime forms browsers and the CSV exports
// produce. Results are UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad date %q", apperr.ErrInvalid, s)
}

// ParseOptional returns nil for an empty string.
func ParseOptional(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Range parses from/to query values. A bare "to" day covers the whole day.
func Range(from, to string) (*time.Time, *time.Time, error) {
	f, err := ParseOptional(from)
	if err != nil {
		return nil, nil, err
	}
	t, err := ParseOptional(to)
	if err != nil {
		return nil, nil, err
	}
	if t != nil && len(strings.TrimSpace(to)) == len(Day) {
		end := t.Add(24*time.Hour - time.Nanosecond)
		t = &end
	}
	return f, t, nil
}

// Format renders t as "YYYY-MM-DD HH:MM:SS"; nil or zero is "".
func Format(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateTime)
}
