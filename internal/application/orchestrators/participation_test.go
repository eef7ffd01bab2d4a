package orchestrators

import (
	"context"
	"errors"
	"testing"

	"classlog/internal/adapters/storage"
	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/evaluation"
	"classlog/internal/domain/subject"
)

func participationDeps(entries *mockEntryStore) LogParticipationDeps {
	return LogParticipationDeps{
		EntryStore:      entries,
		SubjectStore:    newMockSubjectStore(subject.Subject{ID: "math", Name: "Mathematik", Color: "#3b82f6"}),
		EvaluationStore: newMockEvaluationStore(evaluation.Type{ID: "right", Name: "Richtig", Color: "#10b981"}),
		Now:             fixedNow,
	}
}

// TestExecuteLogParticipation_DefaultsToToday fills in the current day.
func TestExecuteLogParticipation_DefaultsToToday(t *testing.T) {
	entries := &mockEntryStore{}
	e, err := ExecuteLogParticipation(context.Background(), LogParticipationInput{
		SubjectID: "math", EvaluationTypeID: "right", Note: "  Tafel  ",
	}, participationDeps(entries))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Date != calendar.MustParse("2024-09-04") {
		t.Errorf("Date = %s, want 2024-09-04", e.Date)
	}
	if e.Note != "Tafel" {
		t.Errorf("Note = %q, want trimmed", e.Note)
	}
	if len(entries.entries) != 1 {
		t.Errorf("persisted %d entries, want 1", len(entries.entries))
	}
}

// TestExecuteLogParticipation_Rejects covers validation and dangling references.
func TestExecuteLogParticipation_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input LogParticipationInput
		want  error
	}{
		{"missing subject", LogParticipationInput{EvaluationTypeID: "right"}, entry.ErrEmptySubjectID},
		{"missing evaluation", LogParticipationInput{SubjectID: "math"}, entry.ErrEmptyEvaluationTypeID},
		{"unknown subject", LogParticipationInput{SubjectID: "ghost", EvaluationTypeID: "right"}, storage.ErrNotFound},
		{"unknown evaluation", LogParticipationInput{SubjectID: "math", EvaluationTypeID: "ghost"}, storage.ErrNotFound},
		{"yesterday", LogParticipationInput{SubjectID: "math", EvaluationTypeID: "right", Date: calendar.MustParse("2024-09-03")}, calendar.ErrPastDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := &mockEntryStore{}
			_, err := ExecuteLogParticipation(context.Background(), tt.input, participationDeps(entries))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(entries.entries) != 0 {
				t.Error("nothing should be persisted")
			}
		})
	}
}

// TestExecuteSaveDayNote_Upsert keeps one note per pair.
func TestExecuteSaveDayNote_Upsert(t *testing.T) {
	notes := newMockDayNoteStore()
	deps := SaveDayNoteDeps{DayNoteStore: notes, Now: fixedNow}
	day := calendar.MustParse("2024-09-04")

	for _, text := range []string{"Kapitel 1", "Kapitel 2"} {
		res, err := ExecuteSaveDayNote(context.Background(), SaveDayNoteInput{SubjectID: "math", Date: day, Note: text}, deps)
		if err != nil {
			t.Fatalf("save %q: %v", text, err)
		}
		if res.Deleted {
			t.Errorf("save %q reported deleted", text)
		}
	}
	if len(notes.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes.notes))
	}
	if got := notes.notes[noteKey{day, "math"}].Note; got != "Kapitel 2" {
		t.Errorf("note = %q, want Kapitel 2", got)
	}
}

// TestExecuteSaveDayNote_BlankDeletes removes the note instead of storing whitespace.
func TestExecuteSaveDayNote_BlankDeletes(t *testing.T) {
	notes := newMockDayNoteStore()
	day := calendar.MustParse("2024-09-05")
	notes.notes[noteKey{day, "math"}] = daynote.DayNote{ID: "n1", SubjectID: "math", Date: day, Note: "alt"}

	res, err := ExecuteSaveDayNote(context.Background(), SaveDayNoteInput{SubjectID: "math", Date: day, Note: " \n "},
		SaveDayNoteDeps{DayNoteStore: notes, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Deleted {
		t.Error("expected Deleted")
	}
	if len(notes.notes) != 0 {
		t.Errorf("notes = %d, want 0", len(notes.notes))
	}
}

// TestExecuteSaveDayNote_Invalid rejects a note without a date.
func TestExecuteSaveDayNote_Invalid(t *testing.T) {
	_, err := ExecuteSaveDayNote(context.Background(), SaveDayNoteInput{SubjectID: "math", Note: "x"},
		SaveDayNoteDeps{DayNoteStore: newMockDayNoteStore(), Now: fixedNow})
	if !errors.Is(err, daynote.ErrMissingDate) {
		t.Errorf("err = %v, want ErrMissingDate", err)
	}
}

// TestExecuteLogParticipation_FutureDay allows planning ahead.
func TestExecuteLogParticipation_FutureDay(t *testing.T) {
	entries := &mockEntryStore{}
	tomorrow := calendar.MustParse("2024-09-05")
	e, err := ExecuteLogParticipation(context.Background(), LogParticipationInput{
		SubjectID: "math", EvaluationTypeID: "right", Date: tomorrow,
	}, participationDeps(entries))
	if err != nil || e.Date != tomorrow {
		t.Errorf("entry = %+v, err = %v", e, err)
	}
}

// TestExecuteSaveDayNote_PastDayIsReadOnly leaves notes of earlier days untouched, blank or not.
func TestExecuteSaveDayNote_PastDayIsReadOnly(t *testing.T) {
	notes := newMockDayNoteStore()
	monday := calendar.MustParse("2024-09-02")
	notes.notes[noteKey{monday, "math"}] = daynote.DayNote{ID: "n1", SubjectID: "math", Date: monday, Note: "alt"}
	deps := SaveDayNoteDeps{DayNoteStore: notes, Now: fixedNow}

	for _, text := range []string{"neu", ""} {
		_, err := ExecuteSaveDayNote(context.Background(), SaveDayNoteInput{SubjectID: "math", Date: monday, Note: text}, deps)
		if !errors.Is(err, calendar.ErrPastDay) {
			t.Errorf("save %q: err = %v, want ErrPastDay", text, err)
		}
	}
	if got := notes.notes[noteKey{monday, "math"}].Note; got != "alt" {
		t.Errorf("note = %q, want alt", got)
	}
}

func editDeps() (*mockEntryStore, EditEntryDeps) {
	entries := &mockEntryStore{entries: []entry.Entry{
		{ID: "past", SubjectID: "math", EvaluationTypeID: "right", Date: calendar.MustParse("2024-09-02")},
		{ID: "today", SubjectID: "math", EvaluationTypeID: "right", Date: calendar.MustParse("2024-09-04")},
	}}
	return entries, EditEntryDeps{EntryStore: entries, Now: fixedNow}
}

// TestExecuteUpdateEntry checks both the stored and the requested day.
func TestExecuteUpdateEntry(t *testing.T) {
	note := "Tafel"
	yesterday := calendar.MustParse("2024-09-03")
	friday := calendar.MustParse("2024-09-06")

	tests := []struct {
		name  string
		id    string
		patch entry.Patch
		want  error
	}{
		{"today note", "today", entry.Patch{Note: &note}, nil},
		{"move to later day", "today", entry.Patch{Date: &friday}, nil},
		{"move into the past", "today", entry.Patch{Date: &yesterday}, calendar.ErrPastDay},
		{"past entry", "past", entry.Patch{Note: &note}, calendar.ErrPastDay},
		{"unknown", "ghost", entry.Patch{Note: &note}, storage.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, deps := editDeps()
			_, err := ExecuteUpdateEntry(context.Background(), tt.id, tt.patch, deps)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.want != nil && entries.entries[0].Note != "" {
				t.Error("rejected update changed the past entry")
			}
		})
	}
}

// TestExecuteDeleteEntry only removes entries of today or later.
func TestExecuteDeleteEntry(t *testing.T) {
	entries, deps := editDeps()

	if err := ExecuteDeleteEntry(context.Background(), "past", deps); !errors.Is(err, calendar.ErrPastDay) {
		t.Errorf("delete past: err = %v, want ErrPastDay", err)
	}
	if err := ExecuteDeleteEntry(context.Background(), "today", deps); err != nil {
		t.Errorf("delete today: %v", err)
	}
	if err := ExecuteDeleteEntry(context.Background(), "ghost", deps); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("delete unknown: err = %v, want ErrNotFound", err)
	}
	if len(entries.entries) != 1 || entries.entries[0].ID != "past" {
		t.Errorf("remaining = %+v, want only the past entry", entries.entries)
	}
}
