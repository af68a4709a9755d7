package util

import (
	"strings"
	"time"
)

// TimeRangeOf parses a user supplied time expression into an inclusive range.
// Accepted forms:
//   - "2024"                 the whole year
//   - "2024-03"              the whole month
//   - "2024-03-15"           the whole day
//   - "2024-01-01~2024-06-30" an explicit range of any two of the above
//   - RFC3339 timestamps for exact bounds
func TimeRangeOf(s string) (time.Time, time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, time.Time{}, false
	}

	if idx := strings.Index(s, "~"); idx >= 0 {
		start, _, ok1 := TimeRangeOf(strings.TrimSpace(s[:idx]))
		_, end, ok2 := TimeRangeOf(strings.TrimSpace(s[idx+1:]))
		if !ok1 || !ok2 || end.Before(start) {
			return time.Time{}, time.Time{}, false
		}
		return start, end, true
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, t, true
	}

	layouts := []struct {
		layout string
		span   func(t time.Time) time.Time
	}{
		{"2006-01-02", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
		{"2006-01", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
		{"2006", func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }},
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l.layout, s, time.Local); err == nil {
			return t, l.span(t).Add(-time.Second), true
		}
	}
	return time.Time{}, time.Time{}, false
}
