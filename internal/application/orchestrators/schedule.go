package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/timetable"
)

// SlotStoreForOrchestrator defines the slot store interface needed by schedule orchestrators.
type SlotStoreForOrchestrator interface {
	ListByDay(ctx context.Context, dayOfWeek int) ([]timetable.Slot, error)
	Replace(ctx context.Context, slot timetable.Slot) (timetable.Slot, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// WeekSystemStoreForOrchestrator defines the week system store interface needed by schedule orchestrators.
type WeekSystemStoreForOrchestrator interface {
	Get(ctx context.Context) (timetable.WeekSystem, bool, error)
	Save(ctx context.Context, settings timetable.WeekSystem) (timetable.WeekSystem, error)
}

// --- Assign Double Period ---

// AssignDoublePeriodInput carries input for the assign double period orchestrator.
// Period may name either half of the double period.
type AssignDoublePeriodInput struct {
	SubjectID string
	DayOfWeek int
	Period    int
	WeekType  timetable.WeekType
}

// AssignDoublePeriodDeps holds dependencies for AssignDoublePeriod.
type AssignDoublePeriodDeps struct {
	SlotStore       SlotStoreForOrchestrator
	WeekSystemStore WeekSystemStoreForOrchestrator
}

// ExecuteAssignDoublePeriod places a subject on both periods of a double period.
// Occupants of the two buckets are replaced. The week type is dropped while the week system is off.
// PRE: SubjectID non-empty; DayOfWeek 0..4; Period 1..10
// POST: exactly one slot per period of the pair in the target week bucket, both for SubjectID
func ExecuteAssignDoublePeriod(ctx context.Context, input AssignDoublePeriodInput, deps AssignDoublePeriodDeps) ([]timetable.Slot, error) {
	if strings.TrimSpace(input.SubjectID) == "" {
		return nil, timetable.ErrEmptySubjectID
	}
	if input.DayOfWeek < timetable.FirstDay || input.DayOfWeek > timetable.LastDay {
		return nil, timetable.ErrInvalidDayOfWeek
	}
	if input.Period < timetable.FirstPeriod || input.Period > timetable.LastPeriod {
		return nil, timetable.ErrInvalidPeriod
	}
	if !input.WeekType.Valid() {
		return nil, timetable.ErrInvalidWeekType
	}

	settings, _, err := deps.WeekSystemStore.Get(ctx)
	if err != nil {
		return nil, err
	}
	weekType := input.WeekType
	if !settings.Active() {
		weekType = timetable.WeekNone
	}

	first := timetable.PairStart(input.Period)
	placed := make([]timetable.Slot, 0, 2)
	for _, period := range []int{first, first + 1} {
		slot, err := deps.SlotStore.Replace(ctx, timetable.Slot{
			SubjectID: input.SubjectID,
			DayOfWeek: input.DayOfWeek,
			Period:    period,
			WeekType:  weekType,
		})
		if err != nil {
			return placed, fmt.Errorf("assign period %d: %w", period, err)
		}
		placed = append(placed, slot)
	}

	slog.Info("schedule_event", "event", "double_period_assigned", "subject_id", input.SubjectID,
		"day_of_week", input.DayOfWeek, "first_period", first, "week_type", string(weekType))
	return placed, nil
}

// --- Clear Double Period ---

// ClearDoublePeriodInput carries input for the clear double period orchestrator.
type ClearDoublePeriodInput struct {
	DayOfWeek int
	Period    int
	WeekType  timetable.WeekType
}

// ClearDoublePeriodDeps holds dependencies for ClearDoublePeriod.
type ClearDoublePeriodDeps struct {
	SlotStore       SlotStoreForOrchestrator
	WeekSystemStore WeekSystemStoreForOrchestrator
}

// ExecuteClearDoublePeriod removes whatever occupies both periods of a double period in one week bucket.
// PRE: DayOfWeek 0..4; Period 1..10
// POST: returns the number of slots removed; other buckets are untouched
func ExecuteClearDoublePeriod(ctx context.Context, input ClearDoublePeriodInput, deps ClearDoublePeriodDeps) (int, error) {
	if input.DayOfWeek < timetable.FirstDay || input.DayOfWeek > timetable.LastDay {
		return 0, timetable.ErrInvalidDayOfWeek
	}
	if input.Period < timetable.FirstPeriod || input.Period > timetable.LastPeriod {
		return 0, timetable.ErrInvalidPeriod
	}

	settings, _, err := deps.WeekSystemStore.Get(ctx)
	if err != nil {
		return 0, err
	}
	weekType := input.WeekType
	if !settings.Active() {
		weekType = timetable.WeekNone
	}

	slots, err := deps.SlotStore.ListByDay(ctx, input.DayOfWeek)
	if err != nil {
		return 0, err
	}
	first := timetable.PairStart(input.Period)
	removed := 0
	for _, s := range slots {
		if timetable.PairStart(s.Period) != first || s.WeekType != weekType {
			continue
		}
		if err := deps.SlotStore.Delete(ctx, s.ID); err != nil {
			return removed, err
		}
		removed++
	}

	slog.Info("schedule_event", "event", "double_period_cleared", "day_of_week", input.DayOfWeek,
		"first_period", first, "week_type", string(weekType), "removed", removed)
	return removed, nil
}

// --- Reset Schedule ---

// ResetScheduleDeps holds dependencies for ResetSchedule.
type ResetScheduleDeps struct {
	SlotStore SlotStoreForOrchestrator
}

// ExecuteResetSchedule deletes every slot. Week system settings are kept.
func ExecuteResetSchedule(ctx context.Context, deps ResetScheduleDeps) error {
	if err := deps.SlotStore.Clear(ctx); err != nil {
		return err
	}
	slog.Info("schedule_event", "event", "schedule_reset")
	return nil
}

// --- Set Week System ---

// SetWeekSystemInput carries input for the set week system orchestrator.
// A zero ReferenceDate keeps the stored one.
type SetWeekSystemInput struct {
	Enabled       bool
	ReferenceDate calendar.Day
}

// SetWeekSystemDeps holds dependencies for SetWeekSystem.
type SetWeekSystemDeps struct {
	WeekSystemStore WeekSystemStoreForOrchestrator
	Now             func() time.Time
}

// ExecuteSetWeekSystem turns the A/B rotation on or off.
// Enabling without any reference date anchors the current week as week A.
// PRE: none
// POST: saved settings satisfy WeekSystem.Validate; a reference date is always a Monday
func ExecuteSetWeekSystem(ctx context.Context, input SetWeekSystemInput, deps SetWeekSystemDeps) (timetable.WeekSystem, error) {
	current, _, err := deps.WeekSystemStore.Get(ctx)
	if err != nil {
		return timetable.WeekSystem{}, err
	}

	next := timetable.WeekSystem{Enabled: input.Enabled, ReferenceDate: input.ReferenceDate}
	if next.ReferenceDate.IsZero() {
		next.ReferenceDate = current.ReferenceDate
	}
	if next.Enabled && next.ReferenceDate.IsZero() {
		next.ReferenceDate = calendar.FromTime(deps.Now())
	}
	if !next.ReferenceDate.IsZero() {
		next.ReferenceDate = next.ReferenceDate.Monday()
	}

	saved, err := deps.WeekSystemStore.Save(ctx, next)
	if err != nil {
		return timetable.WeekSystem{}, err
	}

	slog.Info("schedule_event", "event", "week_system_saved", "enabled", saved.Enabled, "reference_date", saved.ReferenceDate.String())
	return saved, nil
}
