package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// TimeLayout is fixed-width so stored instants sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a value written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

// NullString maps "" to NULL for optional text columns.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// BoolToInt converts a bool for an INTEGER column.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Later returns now, or prev+1ns when the clock has not advanced past prev.
// Upserts use it so a refreshed timestamp is always strictly newer.
func Later(prev, now time.Time) time.Time {
	now = now.UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond).UTC()
	}
	return now
}
