package orchestrators

import (
	"context"
	"fmt"
	"time"

	"classlog/internal/adapters/storage"
	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/evaluation"
	"classlog/internal/domain/grade"
	"classlog/internal/domain/subject"
	"classlog/internal/domain/timetable"
)

// 2024-09-04 is a Wednesday.
var fixedTime = time.Date(2024, 9, 4, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// sequence returns a generator of prefix-1, prefix-2, ...
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// --- subjects ---

type mockSubjectStore struct {
	subjects map[string]subject.Subject
	order    []string
	nextID   func() string
}

func newMockSubjectStore(seed ...subject.Subject) *mockSubjectStore {
	m := &mockSubjectStore{subjects: make(map[string]subject.Subject), nextID: sequence("subject")}
	for _, s := range seed {
		m.subjects[s.ID] = s
		m.order = append(m.order, s.ID)
	}
	return m
}

func (m *mockSubjectStore) Add(_ context.Context, s subject.Subject) (subject.Subject, error) {
	s.ID = m.nextID()
	m.subjects[s.ID] = s
	m.order = append(m.order, s.ID)
	return s, nil
}

func (m *mockSubjectStore) GetByID(_ context.Context, id string) (subject.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return subject.Subject{}, storage.ErrNotFound
	}
	return s, nil
}

func (m *mockSubjectStore) List(_ context.Context) ([]subject.Subject, error) {
	out := make([]subject.Subject, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.subjects[id])
	}
	return out, nil
}

// --- evaluation types ---

type mockEvaluationStore struct {
	types  map[string]evaluation.Type
	order  []string
	nextID func() string
}

func newMockEvaluationStore(seed ...evaluation.Type) *mockEvaluationStore {
	m := &mockEvaluationStore{types: make(map[string]evaluation.Type), nextID: sequence("eval")}
	for _, t := range seed {
		m.types[t.ID] = t
		m.order = append(m.order, t.ID)
	}
	return m
}

func (m *mockEvaluationStore) Add(_ context.Context, t evaluation.Type) (evaluation.Type, error) {
	t.ID = m.nextID()
	m.types[t.ID] = t
	m.order = append(m.order, t.ID)
	return t, nil
}

func (m *mockEvaluationStore) GetByID(_ context.Context, id string) (evaluation.Type, error) {
	t, ok := m.types[id]
	if !ok {
		return evaluation.Type{}, storage.ErrNotFound
	}
	return t, nil
}

func (m *mockEvaluationStore) List(_ context.Context) ([]evaluation.Type, error) {
	out := make([]evaluation.Type, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.types[id])
	}
	return out, nil
}

// --- entries ---

type mockEntryStore struct {
	entries []entry.Entry
}

func (m *mockEntryStore) Add(_ context.Context, e entry.Entry) (entry.Entry, error) {
	e.ID = fixedID()
	e.Timestamp = fixedNow()
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *mockEntryStore) GetByID(_ context.Context, id string) (entry.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return entry.Entry{}, storage.ErrNotFound
}

func (m *mockEntryStore) Update(_ context.Context, id string, p entry.Patch) (entry.Entry, error) {
	for i, e := range m.entries {
		if e.ID == id {
			e.Apply(p)
			m.entries[i] = e
			return e, nil
		}
	}
	return entry.Entry{}, storage.ErrNotFound
}

func (m *mockEntryStore) Delete(_ context.Context, id string) error {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
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

// --- day notes ---

type noteKey struct {
	date      calendar.Day
	subjectID string
}

type mockDayNoteStore struct {
	notes map[noteKey]daynote.DayNote
}

func newMockDayNoteStore() *mockDayNoteStore {
	return &mockDayNoteStore{notes: make(map[noteKey]daynote.DayNote)}
}

func (m *mockDayNoteStore) Save(_ context.Context, n daynote.DayNote) (daynote.DayNote, error) {
	k := noteKey{n.Date, n.SubjectID}
	if existing, ok := m.notes[k]; ok {
		n.ID = existing.ID
	} else {
		n.ID = fixedID()
	}
	n.Timestamp = fixedNow()
	m.notes[k] = n
	return n, nil
}

func (m *mockDayNoteStore) Delete(_ context.Context, date calendar.Day, subjectID string) error {
	delete(m.notes, noteKey{date, subjectID})
	return nil
}

// --- schedule ---

type mockSlotStore struct {
	slots  map[string]timetable.Slot
	nextID func() string
}

func newMockSlotStore(seed ...timetable.Slot) *mockSlotStore {
	m := &mockSlotStore{slots: make(map[string]timetable.Slot), nextID: sequence("slot")}
	for _, s := range seed {
		m.slots[s.ID] = s
	}
	return m
}

func (m *mockSlotStore) ListByDay(_ context.Context, day int) ([]timetable.Slot, error) {
	var out []timetable.Slot
	for _, s := range m.slots {
		if s.DayOfWeek == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSlotStore) Replace(_ context.Context, slot timetable.Slot) (timetable.Slot, error) {
	if err := slot.Validate(); err != nil {
		return timetable.Slot{}, err
	}
	for id, s := range m.slots {
		if s.DayOfWeek == slot.DayOfWeek && s.Period == slot.Period && s.WeekType == slot.WeekType {
			delete(m.slots, id)
		}
	}
	slot.ID = m.nextID()
	m.slots[slot.ID] = slot
	return slot, nil
}

func (m *mockSlotStore) Delete(_ context.Context, id string) error {
	delete(m.slots, id)
	return nil
}

func (m *mockSlotStore) Clear(_ context.Context) error {
	m.slots = make(map[string]timetable.Slot)
	return nil
}

// bucket returns the subject occupying (day, period, week type), or "".
func (m *mockSlotStore) bucket(day, period int, wt timetable.WeekType) string {
	for _, s := range m.slots {
		if s.DayOfWeek == day && s.Period == period && s.WeekType == wt {
			return s.SubjectID
		}
	}
	return ""
}

type mockWeekSystemStore struct {
	settings timetable.WeekSystem
	found    bool
}

func (m *mockWeekSystemStore) Get(_ context.Context) (timetable.WeekSystem, bool, error) {
	return m.settings, m.found, nil
}

func (m *mockWeekSystemStore) Save(_ context.Context, s timetable.WeekSystem) (timetable.WeekSystem, error) {
	if err := s.Validate(); err != nil {
		return timetable.WeekSystem{}, err
	}
	m.settings, m.found = s, true
	return s, nil
}

// --- grades ---

type mockGradeStore struct {
	grades []grade.Grade
}

func (m *mockGradeStore) Add(_ context.Context, g grade.Grade) (grade.Grade, error) {
	g.ID = fixedID()
	g.Timestamp = fixedNow()
	m.grades = append(m.grades, g)
	return g, nil
}

type mockReminderStore struct {
	reminder grade.Reminder
	found    bool
}

func (m *mockReminderStore) Get(_ context.Context) (grade.Reminder, bool, error) {
	return m.reminder, m.found, nil
}

func (m *mockReminderStore) Save(_ context.Context, r grade.Reminder) (grade.Reminder, error) {
	if err := r.Validate(); err != nil {
		return grade.Reminder{}, err
	}
	m.reminder, m.found = r, true
	return r, nil
}
