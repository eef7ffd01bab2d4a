package entry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classlog/internal/adapters/storage"
	"classlog/internal/domain/calendar"
	domain "classlog/internal/domain/entry"
)

const selectColumns = "SELECT id, subject_id, date, evaluation_type_id, note, timestamp FROM entries"

// SQLiteStore implements Store on the entries collection.
type SQLiteStore struct {
	db    storage.Collections
	NewID func() string
	Now   func() time.Time
}

// NewSQLiteStore creates a new entry store.
func NewSQLiteStore(db storage.Collections) *SQLiteStore {
	return &SQLiteStore{db: db, NewID: uuid.NewString, Now: time.Now}
}

// Add assigns a fresh ID and Timestamp, then inserts the entry.
// PRE: value passes Validate
// POST: Returns the stored entry
func (s *SQLiteStore) Add(ctx context.Context, value domain.Entry) (domain.Entry, error) {
	value.ID = s.NewID()
	value.Timestamp = s.Now().UTC()
	if err := value.Validate(); err != nil {
		return domain.Entry{}, err
	}
	err := s.db.Write(ctx, storage.Entries, func(c *storage.Collection) error {
		_, err := c.Exec(ctx,
			"INSERT INTO entries (id, subject_id, date, evaluation_type_id, note, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
			value.ID, value.SubjectID, value.Date, value.EvaluationTypeID,
			storage.NullString(value.Note), storage.FormatTime(value.Timestamp),
		)
		return err
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("add entry: %w", err)
	}
	return value, nil
}

// GetByID retrieves an entry.
// PRE: id is non-empty
// POST: Returns the entry or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	var out domain.Entry
	err := s.db.Read(ctx, storage.Entries, func(c *storage.Collection) error {
		var err error
		out, err = scanEntry(c.QueryRow(ctx, selectColumns+" WHERE id = ?", id).Scan)
		return err
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("entry %s: %w", id, err)
	}
	return out, nil
}

// Update merges patch into the stored entry. Timestamp keeps its creation value.
// PRE: id is non-empty
// POST: fields absent from patch are preserved; ErrNotFound if id is unknown
func (s *SQLiteStore) Update(ctx context.Context, id string, patch domain.Patch) (domain.Entry, error) {
	var out domain.Entry
	err := s.db.Write(ctx, storage.Entries, func(c *storage.Collection) error {
		current, err := scanEntry(c.QueryRow(ctx, selectColumns+" WHERE id = ?", id).Scan)
		if err != nil {
			return err
		}
		current.Apply(patch)
		if err := current.Validate(); err != nil {
			return err
		}
		if _, err := c.Exec(ctx,
			"UPDATE entries SET subject_id = ?, date = ?, evaluation_type_id = ?, note = ? WHERE id = ?",
			current.SubjectID, current.Date, current.EvaluationTypeID, storage.NullString(current.Note), id,
		); err != nil {
			return err
		}
		out = current
		return nil
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("update entry %s: %w", id, err)
	}
	return out, nil
}

// Delete removes an entry. Deleting an unknown ID is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.db.Write(ctx, storage.Entries, func(c *storage.Collection) error {
		_, err := c.Exec(ctx, "DELETE FROM entries WHERE id = ?", id)
		return err
	})
}

// List returns every entry, newest day first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Entry, error) {
	return s.query(ctx, selectColumns+" ORDER BY date DESC, timestamp")
}

// ListByDate uses the date index.
func (s *SQLiteStore) ListByDate(ctx context.Context, date calendar.Day) ([]domain.Entry, error) {
	return s.query(ctx, selectColumns+" WHERE date = ? ORDER BY timestamp", date)
}

// ListBySubject uses the subject index.
func (s *SQLiteStore) ListBySubject(ctx context.Context, subjectID string) ([]domain.Entry, error) {
	return s.query(ctx, selectColumns+" WHERE subject_id = ? ORDER BY date, timestamp", subjectID)
}

// ListByDateAndSubject uses the compound (date, subject) index.
func (s *SQLiteStore) ListByDateAndSubject(ctx context.Context, date calendar.Day, subjectID string) ([]domain.Entry, error) {
	return s.query(ctx, selectColumns+" WHERE date = ? AND subject_id = ? ORDER BY timestamp", date, subjectID)
}

// ListByDateRange returns entries with from <= date <= to.
// PRE: from is not after to
// POST: ordered by date, then timestamp
func (s *SQLiteStore) ListByDateRange(ctx context.Context, from, to calendar.Day) ([]domain.Entry, error) {
	return s.query(ctx, selectColumns+" WHERE date >= ? AND date <= ? ORDER BY date, timestamp", from, to)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	out := []domain.Entry{}
	err := s.db.Read(ctx, storage.Entries, func(c *storage.Collection) error {
		rows, err := c.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			e, err := scanEntry(rows.Scan)
			if err != nil {
				return err
			}
			out = append(out, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return out, nil
}

func scanEntry(scan func(dest ...any) error) (domain.Entry, error) {
	var e domain.Entry
	var note sql.NullString
	var ts string
	if err := scan(&e.ID, &e.SubjectID, &e.Date, &e.EvaluationTypeID, &note, &ts); err != nil {
		return domain.Entry{}, err
	}
	t, err := storage.ParseTime(ts)
	if err != nil {
		return domain.Entry{}, err
	}
	e.Note = note.String
	e.Timestamp = t
	return e, nil
}
