package subject

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
	"time"
)

// MaxNameLength bounds user-entered subject names.
const MaxNameLength = 60

// DefaultColor is used when a subject is created without a colour.
const DefaultColor = "#3b82f6"

// Domain errors
var (
	ErrEmptyName     = errors.New("subject name cannot be empty")
	ErrNameTooLong   = errors.New("subject name cannot exceed 60 characters")
	ErrInvalidColor  = errors.New("color must be a #rrggbb hex value")
	ErrNegativeOrder = errors.New("order cannot be negative")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Subject is a taught subject. Order is the display position; it is not unique.
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patch carries a partial update; nil fields keep their current value.
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Order *int    `json:"order,omitempty"`
}

// Validate checks the subject's invariants.
// PRE: Subject struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Subject) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !hexColor.MatchString(s.Color) {
		return ErrInvalidColor
	}
	if s.Order < 0 {
		return ErrNegativeOrder
	}
	return nil
}

// Apply merges p into s.
// PRE: none
// POST: only the fields set in p are changed
func (s *Subject) Apply(p Patch) {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Order != nil {
		s.Order = *p.Order
	}
}
