package timetable

import (
	"time"

	"classlog/internal/domain/calendar"
)

// WeekTypeFor returns the rotation side of date relative to reference, which is an A week by definition.
// Both days are normalised to their ISO Monday; an even number of whole weeks between the
// Mondays (zero and negative-even included) is A, odd is B.
func WeekTypeFor(date, reference calendar.Day) WeekType {
	days := reference.Monday().DaysUntil(date.Monday())
	weeks := floorDiv(days, 7)
	if weeks%2 == 0 {
		return WeekA
	}
	return WeekB
}

// WeekTypeAt is WeekTypeFor for a wall-clock instant; the time of day is ignored.
func WeekTypeAt(t time.Time, reference calendar.Day) WeekType {
	return WeekTypeFor(calendar.FromTime(t), reference)
}

// floorDiv rounds toward negative infinity, unlike Go's truncating division.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
