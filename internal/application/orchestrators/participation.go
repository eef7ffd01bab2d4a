package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/evaluation"
	"classlog/internal/domain/subject"
)

// EntryStoreForOrchestrator defines the entry store interface needed by LogParticipation.
type EntryStoreForOrchestrator interface {
	Add(ctx context.Context, e entry.Entry) (entry.Entry, error)
}

// SubjectLookup resolves a subject by ID.
type SubjectLookup interface {
	GetByID(ctx context.Context, id string) (subject.Subject, error)
}

// EvaluationLookup resolves an evaluation type by ID.
type EvaluationLookup interface {
	GetByID(ctx context.Context, id string) (evaluation.Type, error)
}

// --- Log Participation ---

// LogParticipationInput carries input for the log participation orchestrator.
// A zero Date means today.
type LogParticipationInput struct {
	SubjectID        string
	EvaluationTypeID string
	Date             calendar.Day
	Note             string
}

// LogParticipationDeps holds dependencies for LogParticipation.
type LogParticipationDeps struct {
	EntryStore      EntryStoreForOrchestrator
	SubjectStore    SubjectLookup
	EvaluationStore EvaluationLookup
	Now             func() time.Time
}

// ExecuteLogParticipation records one participation event.
// Both references are checked when the entry is written; they may dangle later.
// PRE: SubjectID and EvaluationTypeID name existing records; Date is not past
// POST: entry persisted with a fresh ID and timestamp
func ExecuteLogParticipation(ctx context.Context, input LogParticipationInput, deps LogParticipationDeps) (entry.Entry, error) {
	e := entry.Entry{
		SubjectID:        strings.TrimSpace(input.SubjectID),
		EvaluationTypeID: strings.TrimSpace(input.EvaluationTypeID),
		Date:             input.Date,
		Note:             strings.TrimSpace(input.Note),
	}
	if e.Date.IsZero() {
		e.Date = calendar.FromTime(deps.Now())
	}
	if err := e.Validate(); err != nil {
		return entry.Entry{}, err
	}
	if err := e.Date.Writable(deps.Now()); err != nil {
		return entry.Entry{}, err
	}

	if _, err := deps.SubjectStore.GetByID(ctx, e.SubjectID); err != nil {
		return entry.Entry{}, fmt.Errorf("subject %s: %w", e.SubjectID, err)
	}
	if _, err := deps.EvaluationStore.GetByID(ctx, e.EvaluationTypeID); err != nil {
		return entry.Entry{}, fmt.Errorf("evaluation type %s: %w", e.EvaluationTypeID, err)
	}

	saved, err := deps.EntryStore.Add(ctx, e)
	if err != nil {
		return entry.Entry{}, err
	}

	slog.Info("entry_event", "event", "participation_logged", "entry_id", saved.ID, "subject_id", saved.SubjectID,
		"evaluation_type_id", saved.EvaluationTypeID, "date", saved.Date.String())
	return saved, nil
}

// --- Update / Delete Entry ---

// EntryEditor reads, patches and removes single entries.
type EntryEditor interface {
	GetByID(ctx context.Context, id string) (entry.Entry, error)
	Update(ctx context.Context, id string, patch entry.Patch) (entry.Entry, error)
	Delete(ctx context.Context, id string) error
}

// EditEntryDeps holds dependencies for UpdateEntry and DeleteEntry.
type EditEntryDeps struct {
	EntryStore EntryEditor
	Now        func() time.Time
}

// ExecuteUpdateEntry applies patch to an entry of today or later. The timestamp is kept.
// PRE: id names an existing entry
// POST: neither the stored day nor the patched day is past
func ExecuteUpdateEntry(ctx context.Context, id string, patch entry.Patch, deps EditEntryDeps) (entry.Entry, error) {
	current, err := deps.EntryStore.GetByID(ctx, id)
	if err != nil {
		return entry.Entry{}, err
	}
	if err := current.Date.Writable(deps.Now()); err != nil {
		return entry.Entry{}, err
	}
	if patch.Date != nil {
		if err := patch.Date.Writable(deps.Now()); err != nil {
			return entry.Entry{}, err
		}
	}

	updated, err := deps.EntryStore.Update(ctx, id, patch)
	if err != nil {
		return entry.Entry{}, err
	}
	slog.Info("entry_event", "event", "entry_updated", "entry_id", updated.ID, "date", updated.Date.String())
	return updated, nil
}

// ExecuteDeleteEntry removes an entry of today or later.
func ExecuteDeleteEntry(ctx context.Context, id string, deps EditEntryDeps) error {
	current, err := deps.EntryStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := current.Date.Writable(deps.Now()); err != nil {
		return err
	}
	if err := deps.EntryStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("entry_event", "event", "entry_deleted", "entry_id", id, "date", current.Date.String())
	return nil
}

// --- Save Day Note ---

// DayNoteStoreForOrchestrator defines the day note store interface needed by SaveDayNote.
type DayNoteStoreForOrchestrator interface {
	Save(ctx context.Context, note daynote.DayNote) (daynote.DayNote, error)
	Delete(ctx context.Context, date calendar.Day, subjectID string) error
}

// SaveDayNoteInput carries input for the save day note orchestrator.
type SaveDayNoteInput struct {
	SubjectID string
	Date      calendar.Day
	Note      string
}

// SaveDayNoteDeps holds dependencies for SaveDayNote.
type SaveDayNoteDeps struct {
	DayNoteStore DayNoteStoreForOrchestrator
	Now          func() time.Time
}

// SaveDayNoteResult reports what happened to the note.
type SaveDayNoteResult struct {
	Note    daynote.DayNote
	Deleted bool
}

// ExecuteSaveDayNote upserts the note for (Date, SubjectID). A blank note removes it.
// PRE: SubjectID non-empty; Date non-zero and not past
// POST: at most one note exists for the pair
func ExecuteSaveDayNote(ctx context.Context, input SaveDayNoteInput, deps SaveDayNoteDeps) (SaveDayNoteResult, error) {
	n := daynote.DayNote{
		SubjectID: strings.TrimSpace(input.SubjectID),
		Date:      input.Date,
		Note:      input.Note,
	}
	if err := n.Validate(); err != nil {
		return SaveDayNoteResult{}, err
	}
	if err := n.Date.Writable(deps.Now()); err != nil {
		return SaveDayNoteResult{}, err
	}

	if n.IsBlank() {
		if err := deps.DayNoteStore.Delete(ctx, n.Date, n.SubjectID); err != nil {
			return SaveDayNoteResult{}, err
		}
		slog.Info("daynote_event", "event", "day_note_deleted", "subject_id", n.SubjectID, "date", n.Date.String())
		return SaveDayNoteResult{Note: n, Deleted: true}, nil
	}

	saved, err := deps.DayNoteStore.Save(ctx, n)
	if err != nil {
		return SaveDayNoteResult{}, err
	}
	slog.Info("daynote_event", "event", "day_note_saved", "note_id", saved.ID, "subject_id", saved.SubjectID, "date", saved.Date.String())
	return SaveDayNoteResult{Note: saved}, nil
}
