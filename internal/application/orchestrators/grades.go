package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/grade"
)

// GradeStoreForOrchestrator defines the grade store interface needed by RecordGrade.
type GradeStoreForOrchestrator interface {
	Add(ctx context.Context, g grade.Grade) (grade.Grade, error)
}

// EntryRangeStore lists entries between two days, inclusive.
type EntryRangeStore interface {
	ListByDateRange(ctx context.Context, from, to calendar.Day) ([]entry.Entry, error)
}

// ReminderStoreForOrchestrator defines the reminder store interface needed by reminder orchestrators.
type ReminderStoreForOrchestrator interface {
	Get(ctx context.Context) (grade.Reminder, bool, error)
	Save(ctx context.Context, r grade.Reminder) (grade.Reminder, error)
}

// --- Record Grade ---

// RecordGradeInput carries input for the record grade orchestrator.
// Combination wins over LegacyCombination; when both are empty the snapshot is computed.
type RecordGradeInput struct {
	SubjectID         string
	Grade             float64
	Date              calendar.Day
	Combination       grade.Combination
	LegacyCombination string // JSON object text sent by older clients
	Note              string
}

// RecordGradeDeps holds dependencies for RecordGrade.
type RecordGradeDeps struct {
	GradeStore GradeStoreForOrchestrator
	EntryStore EntryRangeStore
	Now        func() time.Time
}

// ExecuteRecordGrade stores a grade together with its evaluation snapshot.
// The computed snapshot counts the subject's entries over the SnapshotWindowDays ending today.
// PRE: SubjectID non-empty; Grade within 0..15
// POST: grade persisted; its combination never changes afterwards
func ExecuteRecordGrade(ctx context.Context, input RecordGradeInput, deps RecordGradeDeps) (grade.Grade, error) {
	today := calendar.FromTime(deps.Now())
	g := grade.Grade{
		SubjectID: strings.TrimSpace(input.SubjectID),
		Grade:     input.Grade,
		Date:      input.Date,
		Note:      strings.TrimSpace(input.Note),
	}
	if g.Date.IsZero() {
		g.Date = today
	}

	switch {
	case input.Combination != nil:
		g.Combination = input.Combination.Clone()
	case strings.TrimSpace(input.LegacyCombination) != "":
		c, err := grade.ParseCombination(input.LegacyCombination)
		if err != nil {
			return grade.Grade{}, err
		}
		g.Combination = c
	default:
		if g.SubjectID == "" {
			return grade.Grade{}, grade.ErrEmptySubjectID
		}
		c, err := SnapshotCombination(ctx, deps.EntryStore, g.SubjectID, today)
		if err != nil {
			return grade.Grade{}, err
		}
		g.Combination = c
	}

	if err := g.Validate(); err != nil {
		return grade.Grade{}, err
	}

	saved, err := deps.GradeStore.Add(ctx, g)
	if err != nil {
		return grade.Grade{}, err
	}

	slog.Info("grade_event", "event", "grade_recorded", "grade_id", saved.ID, "subject_id", saved.SubjectID,
		"grade", saved.Grade, "entries", saved.Combination.Total())
	return saved, nil
}

// SnapshotCombination counts subjectID's entries per evaluation type over the window ending at today.
func SnapshotCombination(ctx context.Context, store EntryRangeStore, subjectID string, today calendar.Day) (grade.Combination, error) {
	from := today.AddDays(-(grade.SnapshotWindowDays - 1))
	entries, err := store.ListByDateRange(ctx, from, today)
	if err != nil {
		return nil, fmt.Errorf("snapshot entries: %w", err)
	}
	c := grade.Combination{}
	for _, e := range entries {
		if e.SubjectID == subjectID {
			c[e.EvaluationTypeID]++
		}
	}
	return c, nil
}

// --- Grade Reminder ---

// SaveReminderInput carries input for the save reminder orchestrator.
type SaveReminderInput struct {
	Enabled   bool
	Frequency int
}

// ReminderDeps holds dependencies for the reminder orchestrators.
type ReminderDeps struct {
	ReminderStore ReminderStoreForOrchestrator
	Now           func() time.Time
}

// ExecuteSaveReminder stores reminder settings and arms the next reminder from now.
// PRE: none
// POST: Frequency clamped to 1..30; NextReminder = now + Frequency days
func ExecuteSaveReminder(ctx context.Context, input SaveReminderInput, deps ReminderDeps) (grade.Reminder, error) {
	r := grade.NewReminder(input.Enabled, input.Frequency, deps.Now())
	saved, err := deps.ReminderStore.Save(ctx, r)
	if err != nil {
		return grade.Reminder{}, err
	}
	slog.Info("grade_event", "event", "reminder_saved", "enabled", saved.Enabled, "frequency", saved.Frequency,
		"next_reminder", saved.NextReminder)
	return saved, nil
}

// ExecuteAcknowledgeReminder re-arms the reminder after it has been shown.
// Acknowledging before any settings were saved stores the disabled defaults.
// PRE: none
// POST: LastShown = now
func ExecuteAcknowledgeReminder(ctx context.Context, deps ReminderDeps) (grade.Reminder, error) {
	r, found, err := deps.ReminderStore.Get(ctx)
	if err != nil {
		return grade.Reminder{}, err
	}
	if !found {
		r = grade.NewReminder(false, grade.DefaultFrequencyDays, deps.Now())
	}
	r.Acknowledge(deps.Now())

	saved, err := deps.ReminderStore.Save(ctx, r)
	if err != nil {
		return grade.Reminder{}, err
	}
	slog.Info("grade_event", "event", "reminder_acknowledged", "next_reminder", saved.NextReminder)
	return saved, nil
}
