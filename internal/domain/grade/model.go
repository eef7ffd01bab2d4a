package grade

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"classlog/internal/domain/calendar"
)

// Grade scale bounds (German upper-school points).
const (
	MinGrade = 0
	MaxGrade = 15
)

// MaxNoteLength bounds the optional note on a grade.
const MaxNoteLength = 500

// SnapshotWindowDays is how far back the combination snapshot looks when a grade is recorded.
const SnapshotWindowDays = 30

// Domain errors
var (
	ErrEmptySubjectID    = errors.New("subject ID cannot be empty")
	ErrGradeOutOfRange   = errors.New("grade must be between 0 and 15")
	ErrMissingDate       = errors.New("date is required")
	ErrNoteTooLong       = errors.New("note cannot exceed 500 characters")
	ErrMalformedSnapshot = errors.New("malformed evaluation combination snapshot")
)

// Combination is a point-in-time count of entries per evaluation type ID.
// It is not linked to the entries it was computed from.
type Combination map[string]int

// Grade is a recorded mark together with the participation snapshot that led to it.
// Grades are never updated.
type Grade struct {
	ID          string       `json:"id"`
	SubjectID   string       `json:"subjectId"`
	Grade       float64      `json:"grade"`
	Date        calendar.Day `json:"date"`
	Combination Combination  `json:"evaluationCombination"`
	Note        string       `json:"note,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Validate checks the grade's invariants.
// PRE: Grade struct is populated
// POST: Returns nil if valid, error otherwise
func (g *Grade) Validate() error {
	if strings.TrimSpace(g.SubjectID) == "" {
		return ErrEmptySubjectID
	}
	if g.Grade < MinGrade || g.Grade > MaxGrade {
		return ErrGradeOutOfRange
	}
	if g.Date.IsZero() {
		return ErrMissingDate
	}
	if len(g.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return g.Combination.Validate()
}

// Validate rejects negative counts and empty keys.
func (c Combination) Validate() error {
	for id, n := range c {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty evaluation type ID", ErrMalformedSnapshot)
		}
		if n < 0 {
			return fmt.Errorf("%w: negative count %d for %s", ErrMalformedSnapshot, n, id)
		}
	}
	return nil
}

// Total returns the number of entries the snapshot covers.
func (c Combination) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Keys returns the evaluation type IDs in lexical order.
func (c Combination) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy of c.
func (c Combination) Clone() Combination {
	out := make(Combination, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ParseCombination decodes the legacy JSON-string form, e.g. `{"eval-1":3,"eval-2":1}`.
// PRE: none
// POST: returns ErrMalformedSnapshot if raw is not an object of non-negative integer counts
func ParseCombination(raw string) (Combination, error) {
	if strings.TrimSpace(raw) == "" {
		return Combination{}, nil
	}
	var c Combination
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if c == nil {
		c = Combination{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Average returns the mean grade, or false when grades is empty.
func Average(grades []Grade) (float64, bool) {
	if len(grades) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, g := range grades {
		sum += g.Grade
	}
	return sum / float64(len(grades)), true
}
