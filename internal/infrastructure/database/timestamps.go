package database

import (
	"fmt"
	"time"
)

// TimeFormat is the fixed-width UTC layout used for every timestamp column.
// Fixed width keeps lexical ORDER BY consistent with chronological order.
const TimeFormat = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in TimeFormat after converting it to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a timestamp column written by FormatTime.
// RFC 3339 values written by other tools are accepted as well.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
