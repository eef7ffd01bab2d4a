package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classlog/internal/adapters/storage"
	"classlog/internal/domain/calendar"
	domain "classlog/internal/domain/timetable"
)

const selectSlots = "SELECT id, subject_id, day_of_week, period, week_type, created_at FROM schedule_slots"

// SQLiteSlotStore implements SlotStore on the scheduleSlots collection.
type SQLiteSlotStore struct {
	db    storage.Collections
	NewID func() string
	Now   func() time.Time
}

// NewSQLiteSlotStore creates a new slot store.
func NewSQLiteSlotStore(db storage.Collections) *SQLiteSlotStore {
	return &SQLiteSlotStore{db: db, NewID: uuid.NewString, Now: time.Now}
}

// Add inserts a slot into an empty bucket.
// PRE: slot passes Validate
// POST: ErrConstraintViolation if the (day, period, week type) bucket is taken
func (s *SQLiteSlotStore) Add(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	slot = s.stamp(slot)
	if err := slot.Validate(); err != nil {
		return domain.Slot{}, err
	}
	err := s.db.Write(ctx, storage.ScheduleSlots, func(c *storage.Collection) error {
		return insertSlot(ctx, c, slot)
	})
	if err != nil {
		return domain.Slot{}, fmt.Errorf("add slot: %w", err)
	}
	return slot, nil
}

// Replace puts slot into its bucket, removing whatever occupied it, in one transaction.
// PRE: slot passes Validate
// POST: the bucket holds exactly slot
func (s *SQLiteSlotStore) Replace(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	slot = s.stamp(slot)
	if err := slot.Validate(); err != nil {
		return domain.Slot{}, err
	}
	err := s.db.Write(ctx, storage.ScheduleSlots, func(c *storage.Collection) error {
		if _, err := c.Exec(ctx,
			"DELETE FROM schedule_slots WHERE day_of_week = ? AND period = ? AND COALESCE(week_type, '') = ?",
			slot.DayOfWeek, slot.Period, string(slot.WeekType),
		); err != nil {
			return err
		}
		return insertSlot(ctx, c, slot)
	})
	if err != nil {
		return domain.Slot{}, fmt.Errorf("replace slot: %w", err)
	}
	return slot, nil
}

// GetByID retrieves a slot.
// PRE: id is non-empty
// POST: Returns the slot or ErrNotFound
func (s *SQLiteSlotStore) GetByID(ctx context.Context, id string) (domain.Slot, error) {
	var out domain.Slot
	err := s.db.Read(ctx, storage.ScheduleSlots, func(c *storage.Collection) error {
		var err error
		out, err = scanSlot(c.QueryRow(ctx, selectSlots+" WHERE id = ?", id).Scan)
		return err
	})
	if err != nil {
		return domain.Slot{}, fmt.Errorf("slot %s: %w", id, err)
	}
	return out, nil
}

// List returns the whole timetable ordered by day, then period.
func (s *SQLiteSlotStore) List(ctx context.Context) ([]domain.Slot, error) {
	return s.query(ctx, selectSlots+" ORDER BY day_of_week, period, week_type")
}

// ListByDay returns the slots of one weekday (0=Monday).
func (s *SQLiteSlotStore) ListByDay(ctx context.Context, dayOfWeek int) ([]domain.Slot, error) {
	return s.query(ctx, selectSlots+" WHERE day_of_week = ? ORDER BY period, week_type", dayOfWeek)
}

// ListBySubject uses the subject index.
func (s *SQLiteSlotStore) ListBySubject(ctx context.Context, subjectID string) ([]domain.Slot, error) {
	return s.query(ctx, selectSlots+" WHERE subject_id = ? ORDER BY day_of_week, period", subjectID)
}

// Delete removes a slot. Deleting an unknown ID is not an error.
func (s *SQLiteSlotStore) Delete(ctx context.Context, id string) error {
	return s.db.Write(ctx, storage.ScheduleSlots, func(c *storage.Collection) error {
		_, err := c.Exec(ctx, "DELETE FROM schedule_slots WHERE id = ?", id)
		return err
	})
}

// Clear removes every slot.
func (s *SQLiteSlotStore) Clear(ctx context.Context) error {
	return s.db.Write(ctx, storage.ScheduleSlots, func(c *storage.Collection) error {
		_, err := c.Exec(ctx, "DELETE FROM schedule_slots")
		return err
	})
}

func (s *SQLiteSlotStore) stamp(slot domain.Slot) domain.Slot {
	slot.ID = s.NewID()
	slot.CreatedAt = s.Now().UTC()
	return slot
}

func (s *SQLiteSlotStore) query(ctx context.Context, query string, args ...any) ([]domain.Slot, error) {
	out := []domain.Slot{}
	err := s.db.Read(ctx, storage.ScheduleSlots, func(c *storage.Collection) error {
		rows, err := c.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			slot, err := scanSlot(rows.Scan)
			if err != nil {
				return err
			}
			out = append(out, slot)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return out, nil
}

func insertSlot(ctx context.Context, c *storage.Collection, slot domain.Slot) error {
	_, err := c.Exec(ctx,
		"INSERT INTO schedule_slots (id, subject_id, day_of_week, period, week_type, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		slot.ID, slot.SubjectID, slot.DayOfWeek, slot.Period,
		storage.NullString(string(slot.WeekType)), storage.FormatTime(slot.CreatedAt),
	)
	return err
}

func scanSlot(scan func(dest ...any) error) (domain.Slot, error) {
	var slot domain.Slot
	var weekType sql.NullString
	var createdAt string
	if err := scan(&slot.ID, &slot.SubjectID, &slot.DayOfWeek, &slot.Period, &weekType, &createdAt); err != nil {
		return domain.Slot{}, err
	}
	t, err := storage.ParseTime(createdAt)
	if err != nil {
		return domain.Slot{}, err
	}
	slot.WeekType = domain.WeekType(weekType.String)
	slot.CreatedAt = t
	return slot, nil
}

// SQLiteWeekSystemStore implements WeekSystemStore on the weekSystemSettings collection.
type SQLiteWeekSystemStore struct {
	db storage.Collections
}

// NewSQLiteWeekSystemStore creates a new week system store.
func NewSQLiteWeekSystemStore(db storage.Collections) *SQLiteWeekSystemStore {
	return &SQLiteWeekSystemStore{db: db}
}

// Get returns the stored settings; found is false before the first Save.
func (s *SQLiteWeekSystemStore) Get(ctx context.Context) (domain.WeekSystem, bool, error) {
	var out domain.WeekSystem
	err := s.db.Read(ctx, storage.WeekSystemSettings, func(c *storage.Collection) error {
		var enabled int
		var ref calendar.Day
		if err := c.QueryRow(ctx,
			"SELECT enabled, reference_date FROM week_system_settings WHERE id = ?", domain.SettingsID,
		).Scan(&enabled, &ref); err != nil {
			return err
		}
		out = domain.WeekSystem{Enabled: enabled != 0, ReferenceDate: ref}
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return domain.WeekSystem{}, false, nil
	}
	if err != nil {
		return domain.WeekSystem{}, false, fmt.Errorf("week system: %w", err)
	}
	return out, true, nil
}

// Save upserts the singleton.
// PRE: settings pass Validate
// POST: Get returns settings
func (s *SQLiteWeekSystemStore) Save(ctx context.Context, settings domain.WeekSystem) (domain.WeekSystem, error) {
	if err := settings.Validate(); err != nil {
		return domain.WeekSystem{}, err
	}
	err := s.db.Write(ctx, storage.WeekSystemSettings, func(c *storage.Collection) error {
		_, err := c.Exec(ctx,
			"INSERT INTO week_system_settings (id, enabled, reference_date) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET enabled=excluded.enabled, reference_date=excluded.reference_date",
			domain.SettingsID, storage.BoolToInt(settings.Enabled), settings.ReferenceDate,
		)
		return err
	})
	if err != nil {
		return domain.WeekSystem{}, fmt.Errorf("save week system: %w", err)
	}
	return settings, nil
}
