package daynote

import (
	"context"

	"classlog/internal/domain/calendar"
	domain "classlog/internal/domain/daynote"
)

// Store persists day notes, at most one per (date, subject).
type Store interface {
	Get(ctx context.Context, date calendar.Day, subjectID string) (domain.DayNote, bool, error)
	Save(ctx context.Context, note domain.DayNote) (domain.DayNote, error)
	ListByDate(ctx context.Context, date calendar.Day) ([]domain.DayNote, error)
	Delete(ctx context.Context, date calendar.Day, subjectID string) error
}
