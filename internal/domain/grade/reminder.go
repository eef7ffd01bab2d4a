package grade

import (
	"errors"
	"time"
)

// Reminder frequency bounds, in days.
const (
	MinFrequencyDays     = 1
	MaxFrequencyDays     = 30
	DefaultFrequencyDays = 14
)

// ReminderID is the fixed identity of the reminder singleton.
const ReminderID = "settings"

// Reminder errors
var (
	ErrInvalidFrequency     = errors.New("frequency must be between 1 and 30 days")
	ErrInconsistentReminder = errors.New("next reminder must equal last shown plus frequency")
)

// Reminder prompts the user to ask for grades every Frequency days.
// INVARIANT: NextReminder == LastShown + Frequency days.
type Reminder struct {
	Enabled      bool      `json:"enabled"`
	Frequency    int       `json:"frequency"`
	LastShown    time.Time `json:"lastShown"`
	NextReminder time.Time `json:"nextReminder"`
}

// ClampFrequency forces days into [MinFrequencyDays, MaxFrequencyDays].
func ClampFrequency(days int) int {
	if days < MinFrequencyDays {
		return MinFrequencyDays
	}
	if days > MaxFrequencyDays {
		return MaxFrequencyDays
	}
	return days
}

// NewReminder builds a reminder armed from lastShown.
// PRE: none
// POST: Frequency is clamped, NextReminder derived from LastShown
func NewReminder(enabled bool, frequency int, lastShown time.Time) Reminder {
	r := Reminder{Enabled: enabled, Frequency: ClampFrequency(frequency), LastShown: lastShown.UTC()}
	r.NextReminder = r.LastShown.AddDate(0, 0, r.Frequency)
	return r
}

// Validate checks the derived-field invariant.
func (r *Reminder) Validate() error {
	if r.Frequency != ClampFrequency(r.Frequency) {
		return ErrInvalidFrequency
	}
	if !r.NextReminder.Equal(r.LastShown.AddDate(0, 0, r.Frequency)) {
		return ErrInconsistentReminder
	}
	return nil
}

// Due reports whether the reminder should fire at now.
func (r *Reminder) Due(now time.Time) bool {
	return r.Enabled && !now.Before(r.NextReminder)
}

// Acknowledge re-arms the reminder after it has been shown at now.
func (r *Reminder) Acknowledge(now time.Time) {
	*r = NewReminder(r.Enabled, r.Frequency, now)
}
