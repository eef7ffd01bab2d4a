package projections

import (
	"context"
	"time"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/evaluation"
	"classlog/internal/domain/grade"
	"classlog/internal/domain/subject"
	"classlog/internal/domain/timetable"
)

// 2024-09-04 is a Wednesday in week A when the reference is 2024-09-02.
var fixedTime = time.Date(2024, 9, 4, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

var day = calendar.MustParse

type mockSubjectStore struct{ subjects []subject.Subject }

func (m *mockSubjectStore) List(_ context.Context) ([]subject.Subject, error) {
	return m.subjects, nil
}

type mockEvaluationStore struct{ types []evaluation.Type }

func (m *mockEvaluationStore) List(_ context.Context) ([]evaluation.Type, error) {
	return m.types, nil
}

type mockEntryStore struct{ entries []entry.Entry }

func (m *mockEntryStore) List(_ context.Context) ([]entry.Entry, error) {
	return m.entries, nil
}

func (m *mockEntryStore) ListByDate(_ context.Context, d calendar.Day) ([]entry.Entry, error) {
	return m.ListByDateRange(context.Background(), d, d)
}

func (m *mockEntryStore) ListByDateRange(_ context.Context, from, to calendar.Day) ([]entry.Entry, error) {
	var out []entry.Entry
	for _, e := range m.entries {
		if e.Date.Between(from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockDayNoteStore struct{ notes []daynote.DayNote }

func (m *mockDayNoteStore) ListByDate(_ context.Context, d calendar.Day) ([]daynote.DayNote, error) {
	var out []daynote.DayNote
	for _, n := range m.notes {
		if n.Date == d {
			out = append(out, n)
		}
	}
	return out, nil
}

type mockSlotStore struct{ slots []timetable.Slot }

func (m *mockSlotStore) List(_ context.Context) ([]timetable.Slot, error) {
	return m.slots, nil
}

type mockWeekSystemStore struct {
	settings timetable.WeekSystem
	found    bool
}

func (m *mockWeekSystemStore) Get(_ context.Context) (timetable.WeekSystem, bool, error) {
	return m.settings, m.found, nil
}

type mockGradeStore struct{ grades []grade.Grade }

func (m *mockGradeStore) List(_ context.Context) ([]grade.Grade, error) {
	return m.grades, nil
}

type mockReminderStore struct {
	reminder grade.Reminder
	found    bool
}

func (m *mockReminderStore) Get(_ context.Context) (grade.Reminder, bool, error) {
	return m.reminder, m.found, nil
}

func testSubjects() *mockSubjectStore {
	return &mockSubjectStore{subjects: []subject.Subject{
		{ID: "math", Name: "Mathematik", Color: "#3b82f6", Order: 0},
		{ID: "german", Name: "Deutsch", Color: "#ef4444", Order: 1},
		{ID: "english", Name: "Englisch", Color: "#10b981", Order: 2},
	}}
}
