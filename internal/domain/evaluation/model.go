package evaluation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameLength bounds user-entered evaluation type names.
const MaxNameLength = 60

// Domain errors
var (
	ErrEmptyName     = errors.New("evaluation type name cannot be empty")
	ErrNameTooLong   = errors.New("evaluation type name cannot exceed 60 characters")
	ErrInvalidColor  = errors.New("color must be a #rrggbb hex value")
	ErrNegativeOrder = errors.New("order cannot be negative")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Type is a user-defined category applied to a participation entry, e.g. "correct".
type Type struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// Patch carries a partial update; nil fields keep their current value.
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Order *int    `json:"order,omitempty"`
}

// Validate checks the evaluation type's invariants.
// PRE: Type struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Type) Validate() error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !hexColor.MatchString(t.Color) {
		return ErrInvalidColor
	}
	if t.Order < 0 {
		return ErrNegativeOrder
	}
	return nil
}

// Apply merges p into t.
func (t *Type) Apply(p Patch) {
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
}
