package repository

import (
	"fmt"
	"time"
)

// timeLayout is fixed width, always nine fractional digits in UTC, so text
// order in ORDER BY matches time order. Parsing accepts any RFC 3339 form.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}
