package grade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classlog/internal/adapters/storage"
	"classlog/internal/domain/calendar"
	domain "classlog/internal/domain/grade"
)

const selectColumns = "SELECT id, subject_id, grade, date, note, timestamp FROM grades"

// SQLiteStore implements Store on the grades collection.
// The combination lives in grade_combinations, one row per evaluation type.
type SQLiteStore struct {
	db    storage.Collections
	NewID func() string
	Now   func() time.Time
}

// NewSQLiteStore creates a new grade store.
func NewSQLiteStore(db storage.Collections) *SQLiteStore {
	return &SQLiteStore{db: db, NewID: uuid.NewString, Now: time.Now}
}

// Add inserts the grade and its combination rows in one transaction.
// PRE: value passes Validate
// POST: Returns the stored grade; nothing is written on failure
func (s *SQLiteStore) Add(ctx context.Context, value domain.Grade) (domain.Grade, error) {
	value.ID = s.NewID()
	value.Timestamp = s.Now().UTC()
	if value.Combination == nil {
		value.Combination = domain.Combination{}
	}
	if err := value.Validate(); err != nil {
		return domain.Grade{}, err
	}
	err := s.db.Write(ctx, storage.Grades, func(c *storage.Collection) error {
		if _, err := c.Exec(ctx,
			"INSERT INTO grades (id, subject_id, grade, date, note, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
			value.ID, value.SubjectID, value.Grade, value.Date,
			storage.NullString(value.Note), storage.FormatTime(value.Timestamp),
		); err != nil {
			return err
		}
		for _, evalID := range value.Combination.Keys() {
			if _, err := c.Exec(ctx,
				"INSERT INTO grade_combinations (grade_id, evaluation_type_id, count) VALUES (?, ?, ?)",
				value.ID, evalID, value.Combination[evalID],
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Grade{}, fmt.Errorf("add grade: %w", err)
	}
	return value, nil
}

// GetByID retrieves a grade with its combination.
// PRE: id is non-empty
// POST: Returns the grade or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Grade, error) {
	grades, err := s.query(ctx, "WHERE id = ?", id)
	if err != nil {
		return domain.Grade{}, fmt.Errorf("grade %s: %w", id, err)
	}
	if len(grades) == 0 {
		return domain.Grade{}, fmt.Errorf("grade %s: %w", id, storage.ErrNotFound)
	}
	return grades[0], nil
}

// List returns every grade, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Grade, error) {
	return s.query(ctx, "")
}

// ListBySubject uses the subject index.
func (s *SQLiteStore) ListBySubject(ctx context.Context, subjectID string) ([]domain.Grade, error) {
	return s.query(ctx, "WHERE subject_id = ?", subjectID)
}

// ListByDate uses the date index.
func (s *SQLiteStore) ListByDate(ctx context.Context, date calendar.Day) ([]domain.Grade, error) {
	return s.query(ctx, "WHERE date = ?", date)
}

// Delete removes a grade and its combination rows. Deleting an unknown ID is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.db.Write(ctx, storage.Grades, func(c *storage.Collection) error {
		if _, err := c.Exec(ctx, "DELETE FROM grade_combinations WHERE grade_id = ?", id); err != nil {
			return err
		}
		_, err := c.Exec(ctx, "DELETE FROM grades WHERE id = ?", id)
		return err
	})
}

// query loads the grades matching where, then their combinations through the same filter.
func (s *SQLiteStore) query(ctx context.Context, where string, args ...any) ([]domain.Grade, error) {
	out := []domain.Grade{}
	err := s.db.Read(ctx, storage.Grades, func(c *storage.Collection) error {
		rows, err := c.Query(ctx, selectColumns+" "+where+" ORDER BY date DESC, timestamp DESC", args...)
		if err != nil {
			return err
		}
		index := make(map[string]int)
		for rows.Next() {
			g, err := scanGrade(rows.Scan)
			if err != nil {
				rows.Close()
				return err
			}
			index[g.ID] = len(out)
			out = append(out, g)
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if len(out) == 0 {
			return nil
		}

		combos, err := c.Query(ctx,
			"SELECT grade_id, evaluation_type_id, count FROM grade_combinations WHERE grade_id IN (SELECT id FROM grades "+where+")",
			args...,
		)
		if err != nil {
			return err
		}
		defer combos.Close()
		for combos.Next() {
			var gradeID, evalID string
			var count int
			if err := combos.Scan(&gradeID, &evalID, &count); err != nil {
				return err
			}
			if count < 0 {
				return fmt.Errorf("%w: grade %s has count %d for %s", domain.ErrMalformedSnapshot, gradeID, count, evalID)
			}
			if i, ok := index[gradeID]; ok {
				out[i].Combination[evalID] = count
			}
		}
		return combos.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanGrade(scan func(dest ...any) error) (domain.Grade, error) {
	var g domain.Grade
	var note sql.NullString
	var ts string
	if err := scan(&g.ID, &g.SubjectID, &g.Grade, &g.Date, &note, &ts); err != nil {
		return domain.Grade{}, err
	}
	t, err := storage.ParseTime(ts)
	if err != nil {
		return domain.Grade{}, err
	}
	g.Note = note.String
	g.Timestamp = t
	g.Combination = domain.Combination{}
	return g, nil
}

// SQLiteReminderStore implements ReminderStore on the gradeReminder collection.
type SQLiteReminderStore struct {
	db storage.Collections
}

// NewSQLiteReminderStore creates a new reminder store.
func NewSQLiteReminderStore(db storage.Collections) *SQLiteReminderStore {
	return &SQLiteReminderStore{db: db}
}

// Get returns the reminder; found is false before the first Save.
func (s *SQLiteReminderStore) Get(ctx context.Context) (domain.Reminder, bool, error) {
	var out domain.Reminder
	err := s.db.Read(ctx, storage.GradeReminder, func(c *storage.Collection) error {
		var enabled int
		var lastShown, next string
		if err := c.QueryRow(ctx,
			"SELECT enabled, frequency, last_shown, next_reminder FROM grade_reminder WHERE id = ?", domain.ReminderID,
		).Scan(&enabled, &out.Frequency, &lastShown, &next); err != nil {
			return err
		}
		var err error
		out.Enabled = enabled != 0
		if out.LastShown, err = storage.ParseTime(lastShown); err != nil {
			return err
		}
		out.NextReminder, err = storage.ParseTime(next)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Reminder{}, false, nil
	}
	if err != nil {
		return domain.Reminder{}, false, fmt.Errorf("grade reminder: %w", err)
	}
	return out, true, nil
}

// Save upserts the reminder.
// PRE: r passes Validate
// POST: Get returns r
func (s *SQLiteReminderStore) Save(ctx context.Context, r domain.Reminder) (domain.Reminder, error) {
	if err := r.Validate(); err != nil {
		return domain.Reminder{}, err
	}
	err := s.db.Write(ctx, storage.GradeReminder, func(c *storage.Collection) error {
		_, err := c.Exec(ctx,
			"INSERT INTO grade_reminder (id, enabled, frequency, last_shown, next_reminder) VALUES (?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET enabled=excluded.enabled, frequency=excluded.frequency, last_shown=excluded.last_shown, next_reminder=excluded.next_reminder",
			domain.ReminderID, storage.BoolToInt(r.Enabled), r.Frequency,
			storage.FormatTime(r.LastShown), storage.FormatTime(r.NextReminder),
		)
		return err
	})
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("save grade reminder: %w", err)
	}
	return r, nil
}
