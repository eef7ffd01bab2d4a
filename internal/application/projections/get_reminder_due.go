package projections

import (
	"context"
	"time"

	"classlog/internal/domain/grade"
)

// GetReminderDueDeps holds dependencies for the reminder due projection.
type GetReminderDueDeps struct {
	ReminderStore ReminderReader
	Now           func() time.Time
}

// ReminderDueResult carries the output of the reminder due projection.
type ReminderDueResult struct {
	Due      bool           `json:"due"`
	Reminder grade.Reminder `json:"reminder"`
	// Configured is false until reminder settings have been saved once.
	Configured bool `json:"configured"`
}

// QueryGetReminderDue reports whether the grade reminder should be shown now.
// PRE: none
// POST: Due is false when no settings exist
func QueryGetReminderDue(ctx context.Context, deps GetReminderDueDeps) (ReminderDueResult, error) {
	r, found, err := deps.ReminderStore.Get(ctx)
	if err != nil {
		return ReminderDueResult{}, err
	}
	if !found {
		return ReminderDueResult{
			Reminder: grade.Reminder{Frequency: grade.DefaultFrequencyDays},
		}, nil
	}
	return ReminderDueResult{Due: r.Due(deps.Now()), Reminder: r, Configured: true}, nil
}
