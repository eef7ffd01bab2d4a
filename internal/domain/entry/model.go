package entry

import (
	"errors"
	"strings"
	"time"

	"classlog/internal/domain/calendar"
)

// MaxNoteLength bounds the optional free-text note on an entry.
const MaxNoteLength = 500

// Domain errors
var (
	ErrEmptySubjectID        = errors.New("subject ID cannot be empty")
	ErrEmptyEvaluationTypeID = errors.New("evaluation type ID cannot be empty")
	ErrMissingDate           = errors.New("date is required")
	ErrNoteTooLong           = errors.New("note cannot exceed 500 characters")
)

// Entry records one participation event: a subject, an evaluation and the day it happened.
// SubjectID and EvaluationTypeID are weak references and may dangle after deletions.
type Entry struct {
	ID               string       `json:"id"`
	SubjectID        string       `json:"subjectId"`
	Date             calendar.Day `json:"date"`
	EvaluationTypeID string       `json:"evaluationTypeId"`
	Note             string       `json:"note,omitempty"`
	Timestamp        time.Time    `json:"timestamp"`
}

// Patch carries a partial update; nil fields keep their current value.
type Patch struct {
	SubjectID        *string       `json:"subjectId,omitempty"`
	Date             *calendar.Day `json:"date,omitempty"`
	EvaluationTypeID *string       `json:"evaluationTypeId,omitempty"`
	Note             *string       `json:"note,omitempty"`
}

// Validate checks the entry's invariants.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.SubjectID) == "" {
		return ErrEmptySubjectID
	}
	if strings.TrimSpace(e.EvaluationTypeID) == "" {
		return ErrEmptyEvaluationTypeID
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if len(e.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// Apply merges p into e.
func (e *Entry) Apply(p Patch) {
	if p.SubjectID != nil {
		e.SubjectID = *p.SubjectID
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.EvaluationTypeID != nil {
		e.EvaluationTypeID = *p.EvaluationTypeID
	}
	if p.Note != nil {
		e.Note = strings.TrimSpace(*p.Note)
	}
}

// CountByEvaluation tallies entries per evaluation type ID.
func CountByEvaluation(entries []Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.EvaluationTypeID]++
	}
	return counts
}

// CountBySubject tallies entries per subject ID.
func CountBySubject(entries []Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.SubjectID]++
	}
	return counts
}
