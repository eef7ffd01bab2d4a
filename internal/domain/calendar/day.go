package calendar

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// Layout is the wire and storage format of a Day.
const Layout = "2006-01-02"

// Calendar errors
var (
	ErrInvalidDay = errors.New("day must be formatted as YYYY-MM-DD")
	ErrPastDay    = errors.New("past days are read-only")
)

// Day is a logical calendar day with no time-of-day or zone.
// INVARIANT: a non-zero Day is always normalised (no 31 February).
type Day struct {
	year  int
	month time.Month
	day   int
}

// Date returns the Day for the given components, normalising overflow the way time.Date does.
func Date(year int, month time.Month, day int) Day {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar day of t in t's own location.
// PRE: none
// POST: time-of-day is discarded
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// Today returns the current local calendar day.
func Today() Day {
	return FromTime(time.Now())
}

// Parse reads a YYYY-MM-DD string.
// PRE: none
// POST: returns ErrInvalidDay for anything that is not a real date
func Parse(s string) (Day, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals; it panics on malformed input.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Year returns the year component.
func (d Day) Year() int { return d.year }

// Month returns the month component.
func (d Day) Month() time.Month { return d.month }

// DayOfMonth returns the day-of-month component.
func (d Day) DayOfMonth() int { return d.day }

// Time returns midnight UTC of d. All day arithmetic goes through UTC so DST never shifts a day.
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// String formats d as YYYY-MM-DD; the zero Day formats as "".
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Layout)
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays returns d shifted by n days (n may be negative).
func (d Day) AddDays(n int) Day {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Monday returns the Monday that starts d's ISO week.
// Sunday rolls back six days; any other weekday rolls back (weekday-1) days.
func (d Day) Monday() Day {
	wd := int(d.Weekday())
	if wd == 0 {
		return d.AddDays(-6)
	}
	return d.AddDays(-(wd - 1))
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return d.Time().After(other.Time())
}

// PastAt reports whether d lies before the calendar day of now.
// Entries and day notes of such days can no longer change.
func (d Day) PastAt(now time.Time) bool {
	return d.Before(FromTime(now))
}

// Writable returns ErrPastDay when d is past at now.
// PRE: d is non-zero
func (d Day) Writable(now time.Time) error {
	if d.PastAt(now) {
		return fmt.Errorf("%w: %s", ErrPastDay, d)
	}
	return nil
}

// DaysUntil returns the signed number of days from d to other.
func (d Day) DaysUntil(other Day) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// Between reports whether from <= d <= to.
func (d Day) Between(from, to Day) bool {
	return !d.Before(from) && !d.After(to)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty string yields the zero Day.
func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; the zero Day is stored as NULL.
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case time.Time:
		*d = FromTime(v.UTC())
		return nil
	default:
		return fmt.Errorf("calendar: cannot scan %T into Day", src)
	}
}
