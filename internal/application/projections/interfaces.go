package projections

import (
	"context"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/evaluation"
	"classlog/internal/domain/grade"
	"classlog/internal/domain/subject"
	"classlog/internal/domain/timetable"
)

// SubjectLister interface for subject queries.
type SubjectLister interface {
	List(ctx context.Context) ([]subject.Subject, error)
}

// EvaluationLister interface for evaluation type queries.
type EvaluationLister interface {
	List(ctx context.Context) ([]evaluation.Type, error)
}

// EntryLister interface for entry queries.
type EntryLister interface {
	List(ctx context.Context) ([]entry.Entry, error)
	ListByDate(ctx context.Context, date calendar.Day) ([]entry.Entry, error)
	ListByDateRange(ctx context.Context, from, to calendar.Day) ([]entry.Entry, error)
}

// DayNoteLister interface for day note queries.
type DayNoteLister interface {
	ListByDate(ctx context.Context, date calendar.Day) ([]daynote.DayNote, error)
}

// SlotLister interface for timetable queries.
type SlotLister interface {
	List(ctx context.Context) ([]timetable.Slot, error)
}

// WeekSystemReader interface for the week system singleton.
type WeekSystemReader interface {
	Get(ctx context.Context) (timetable.WeekSystem, bool, error)
}

// GradeLister interface for grade queries.
type GradeLister interface {
	List(ctx context.Context) ([]grade.Grade, error)
}

// ReminderReader interface for the reminder singleton.
type ReminderReader interface {
	Get(ctx context.Context) (grade.Reminder, bool, error)
}

// subjectIndex maps subject IDs to subjects.
func subjectIndex(subjects []subject.Subject) map[string]subject.Subject {
	idx := make(map[string]subject.Subject, len(subjects))
	for _, s := range subjects {
		idx[s.ID] = s
	}
	return idx
}
