package subject

import (
	"context"

	domain "classlog/internal/domain/subject"
)

// Store persists Subject state.
type Store interface {
	Add(ctx context.Context, value domain.Subject) (domain.Subject, error)
	GetByID(ctx context.Context, id string) (domain.Subject, error)
	List(ctx context.Context) ([]domain.Subject, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Subject, error)
	Delete(ctx context.Context, id string) error
}
