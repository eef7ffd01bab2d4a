package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"classlog/internal/domain/grade"
)

// DefaultReminderCheckInterval is how often the watcher looks at the reminder.
const DefaultReminderCheckInterval = 15 * time.Minute

// CheckReminder reads the stored reminder and reports whether it is due now.
// PRE: deps.ReminderStore and deps.Now are set
// POST: found is false when no reminder was ever saved; due implies found
func CheckReminder(ctx context.Context, deps ReminderDeps) (r grade.Reminder, due bool, err error) {
	r, found, err := deps.ReminderStore.Get(ctx)
	if err != nil || !found {
		return grade.Reminder{}, false, err
	}
	return r, r.Due(deps.Now()), nil
}

// StartReminderWatcher starts a goroutine that logs once per due reminder.
// PRE: interval > 0
// POST: Worker runs until ctx is cancelled
func StartReminderWatcher(ctx context.Context, deps ReminderDeps, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var announced time.Time
		for {
			select {
			case <-ticker.C:
				checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				r, due, err := CheckReminder(checkCtx, deps)
				cancel()
				if err != nil {
					slog.Error("reminder_watcher_check_failed", "error", err.Error())
					continue
				}
				if due && !r.NextReminder.Equal(announced) {
					announced = r.NextReminder
					slog.Info("grade_reminder_event", "event", "reminder_due", "next_reminder", r.NextReminder)
				}
			case <-ctx.Done():
				slog.Info("reminder_watcher_stopped")
				return
			}
		}
	}()
}
