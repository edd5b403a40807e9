package repository

import (
	"fmt"
	"time"
)

// timestampLayout is the layout timestamps are written in. It sorts
// lexicographically, so stored values can be compared in SQL.
const timestampLayout = time.RFC3339

// ParseTime parses a stored timestamp in RFC3339, SQLite CURRENT_TIMESTAMP or
// "2006-01-02" format. Values carrying an offset keep their instant.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

// FormatTime renders t in the stored timestamp layout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
