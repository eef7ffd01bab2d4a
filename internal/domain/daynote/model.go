package daynote

import (
	"errors"
	"strings"
	"time"

	"classlog/internal/domain/calendar"
)

// MaxNoteLength bounds a day note.
const MaxNoteLength = 5000

// Domain errors
var (
	ErrEmptySubjectID = errors.New("subject ID cannot be empty")
	ErrMissingDate    = errors.New("date is required")
	ErrNoteTooLong    = errors.New("note cannot exceed 5000 characters")
)

// DayNote is free text attached to one (Date, SubjectID) pair.
// INVARIANT: at most one note per pair.
type DayNote struct {
	ID        string       `json:"id"`
	SubjectID string       `json:"subjectId"`
	Date      calendar.Day `json:"date"`
	Note      string       `json:"note"`
	Timestamp time.Time    `json:"timestamp"`
}

// Validate checks the note's invariants.
// PRE: DayNote struct is populated
// POST: Returns nil if valid, error otherwise
func (n *DayNote) Validate() error {
	if strings.TrimSpace(n.SubjectID) == "" {
		return ErrEmptySubjectID
	}
	if n.Date.IsZero() {
		return ErrMissingDate
	}
	if len(n.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// IsBlank reports whether the note has no visible text.
func (n *DayNote) IsBlank() bool {
	return strings.TrimSpace(n.Note) == ""
}
