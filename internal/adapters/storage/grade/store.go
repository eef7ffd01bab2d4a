package grade

import (
	"context"

	"classlog/internal/domain/calendar"
	domain "classlog/internal/domain/grade"
)

// Store persists grades together with their combination snapshots.
// Grades are immutable once added.
type Store interface {
	Add(ctx context.Context, value domain.Grade) (domain.Grade, error)
	GetByID(ctx context.Context, id string) (domain.Grade, error)
	List(ctx context.Context) ([]domain.Grade, error)
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Grade, error)
	ListByDate(ctx context.Context, date calendar.Day) ([]domain.Grade, error)
	Delete(ctx context.Context, id string) error
}

// ReminderStore persists the grade reminder singleton.
type ReminderStore interface {
	Get(ctx context.Context) (domain.Reminder, bool, error)
	Save(ctx context.Context, r domain.Reminder) (domain.Reminder, error)
}
