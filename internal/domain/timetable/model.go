package timetable

import (
	"errors"
	"strings"
	"time"

	"classlog/internal/domain/calendar"
)

// WeekType identifies one side of the A/B rotation.
type WeekType string

// Week type constants. WeekNone marks a slot that applies to both weeks.
const (
	WeekNone WeekType = ""
	WeekA    WeekType = "A"
	WeekB    WeekType = "B"
)

// Schedule bounds.
const (
	FirstDay    = 0 // Monday
	LastDay     = 4 // Friday
	FirstPeriod = 1
	LastPeriod  = 10
	// Weekend is the day index returned for Saturday and Sunday.
	Weekend = -1
)

// SettingsID is the fixed identity of the week-system singleton.
const SettingsID = "settings"

// Domain errors
var (
	ErrEmptySubjectID       = errors.New("subject ID cannot be empty")
	ErrInvalidDayOfWeek     = errors.New("day of week must be between 0 (Monday) and 4 (Friday)")
	ErrInvalidPeriod        = errors.New("period must be between 1 and 10")
	ErrInvalidWeekType      = errors.New("week type must be A, B or empty")
	ErrMissingReferenceDate = errors.New("reference date is required when the week system is enabled")
)

// Slot assigns a subject to one period of one weekday, optionally restricted to an A or B week.
// INVARIANT: at most one slot per (DayOfWeek, Period, WeekType) bucket.
type Slot struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	DayOfWeek int       `json:"dayOfWeek"`
	Period    int       `json:"period"`
	WeekType  WeekType  `json:"weekType"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the slot's invariants.
// PRE: Slot struct is populated
// POST: Returns nil if valid, the first violated invariant otherwise
func (s *Slot) Validate() error {
	if strings.TrimSpace(s.SubjectID) == "" {
		return ErrEmptySubjectID
	}
	if s.DayOfWeek < FirstDay || s.DayOfWeek > LastDay {
		return ErrInvalidDayOfWeek
	}
	if s.Period < FirstPeriod || s.Period > LastPeriod {
		return ErrInvalidPeriod
	}
	if !s.WeekType.Valid() {
		return ErrInvalidWeekType
	}
	return nil
}

// Valid reports whether w is one of the known week types.
func (w WeekType) Valid() bool {
	return w == WeekNone || w == WeekA || w == WeekB
}

// ParseWeekType accepts "A", "B" (any case) or an empty string.
func ParseWeekType(s string) (WeekType, error) {
	w := WeekType(strings.ToUpper(strings.TrimSpace(s)))
	if !w.Valid() {
		return WeekNone, ErrInvalidWeekType
	}
	return w, nil
}

// WeekSystem holds the A/B rotation settings.
// ReferenceDate is a day known to fall in an A week.
type WeekSystem struct {
	Enabled       bool         `json:"enabled"`
	ReferenceDate calendar.Day `json:"referenceDate"`
}

// Validate checks the settings' invariants.
// PRE: none
// POST: an enabled system always carries a reference date
func (w *WeekSystem) Validate() error {
	if w.Enabled && w.ReferenceDate.IsZero() {
		return ErrMissingReferenceDate
	}
	return nil
}

// Active reports whether the rotation should be applied.
func (w *WeekSystem) Active() bool {
	return w != nil && w.Enabled && !w.ReferenceDate.IsZero()
}

// DayIndex maps a date onto the Monday=0..Friday=4 schedule axis, or Weekend.
func DayIndex(d calendar.Day) int {
	switch wd := d.Weekday(); wd {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return int(wd) - 1
	}
}
