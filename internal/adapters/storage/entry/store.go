package entry

import (
	"context"

	"classlog/internal/domain/calendar"
	domain "classlog/internal/domain/entry"
)

// Store persists participation entries.
type Store interface {
	Add(ctx context.Context, value domain.Entry) (domain.Entry, error)
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Entry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Entry, error)
	ListByDate(ctx context.Context, date calendar.Day) ([]domain.Entry, error)
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Entry, error)
	ListByDateAndSubject(ctx context.Context, date calendar.Day, subjectID string) ([]domain.Entry, error)
	ListByDateRange(ctx context.Context, from, to calendar.Day) ([]domain.Entry, error)
}
