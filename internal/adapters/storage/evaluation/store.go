package evaluation

import (
	"context"

	domain "classlog/internal/domain/evaluation"
)

// Store persists evaluation types.
type Store interface {
	Add(ctx context.Context, value domain.Type) (domain.Type, error)
	GetByID(ctx context.Context, id string) (domain.Type, error)
	List(ctx context.Context) ([]domain.Type, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Type, error)
	Delete(ctx context.Context, id string) error
}
