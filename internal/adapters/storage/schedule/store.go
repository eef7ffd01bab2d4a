package schedule

import (
	"context"

	domain "classlog/internal/domain/timetable"
)

// SlotStore persists the weekly timetable.
type SlotStore interface {
	Add(ctx context.Context, slot domain.Slot) (domain.Slot, error)
	GetByID(ctx context.Context, id string) (domain.Slot, error)
	List(ctx context.Context) ([]domain.Slot, error)
	ListByDay(ctx context.Context, dayOfWeek int) ([]domain.Slot, error)
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Slot, error)
	Replace(ctx context.Context, slot domain.Slot) (domain.Slot, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// WeekSystemStore persists the A/B rotation singleton.
type WeekSystemStore interface {
	Get(ctx context.Context) (domain.WeekSystem, bool, error)
	Save(ctx context.Context, settings domain.WeekSystem) (domain.WeekSystem, error)
}
