package daynote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classlog/internal/adapters/storage"
	"classlog/internal/domain/calendar"
	domain "classlog/internal/domain/daynote"
)

const selectColumns = "SELECT id, subject_id, date, note, timestamp FROM day_notes"

// SQLiteStore implements Store on the dayNotes collection.
type SQLiteStore struct {
	db    storage.Collections
	NewID func() string
	Now   func() time.Time
}

// NewSQLiteStore creates a new day note store.
func NewSQLiteStore(db storage.Collections) *SQLiteStore {
	return &SQLiteStore{db: db, NewID: uuid.NewString, Now: time.Now}
}

// Get looks a note up through the unique (date, subject) index.
// PRE: none
// POST: found is false and err nil when no note exists
func (s *SQLiteStore) Get(ctx context.Context, date calendar.Day, subjectID string) (domain.DayNote, bool, error) {
	var out domain.DayNote
	err := s.db.Read(ctx, storage.DayNotes, func(c *storage.Collection) error {
		var err error
		out, err = scanNote(c.QueryRow(ctx, selectColumns+" WHERE date = ? AND subject_id = ?", date, subjectID).Scan)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return domain.DayNote{}, false, nil
	}
	if err != nil {
		return domain.DayNote{}, false, fmt.Errorf("day note %s/%s: %w", date, subjectID, err)
	}
	return out, true, nil
}

// Save inserts or replaces the note for (note.Date, note.SubjectID).
// The existing ID is kept on update and the timestamp always moves forward.
// PRE: note passes Validate
// POST: exactly one note exists for the pair and Get returns it
func (s *SQLiteStore) Save(ctx context.Context, note domain.DayNote) (domain.DayNote, error) {
	if err := note.Validate(); err != nil {
		return domain.DayNote{}, err
	}
	now := s.Now()
	err := s.db.Write(ctx, storage.DayNotes, func(c *storage.Collection) error {
		existing, err := scanNote(c.QueryRow(ctx, selectColumns+" WHERE date = ? AND subject_id = ?", note.Date, note.SubjectID).Scan)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			note.ID = s.NewID()
			note.Timestamp = now.UTC()
			_, err = c.Exec(ctx,
				"INSERT INTO day_notes (id, subject_id, date, note, timestamp) VALUES (?, ?, ?, ?, ?)",
				note.ID, note.SubjectID, note.Date, note.Note, storage.FormatTime(note.Timestamp),
			)
			return err
		case err != nil:
			return err
		}
		note.ID = existing.ID
		note.Timestamp = storage.Later(existing.Timestamp, now)
		_, err = c.Exec(ctx,
			"UPDATE day_notes SET note = ?, timestamp = ? WHERE id = ?",
			note.Note, storage.FormatTime(note.Timestamp), note.ID,
		)
		return err
	})
	if err != nil {
		return domain.DayNote{}, fmt.Errorf("save day note: %w", err)
	}
	return note, nil
}

// ListByDate returns every note written for date.
func (s *SQLiteStore) ListByDate(ctx context.Context, date calendar.Day) ([]domain.DayNote, error) {
	out := []domain.DayNote{}
	err := s.db.Read(ctx, storage.DayNotes, func(c *storage.Collection) error {
		rows, err := c.Query(ctx, selectColumns+" WHERE date = ? ORDER BY subject_id", date)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			n, err := scanNote(rows.Scan)
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		return rows.Err()
	})
	return out, err
}

// Delete removes the note for the pair, if any.
func (s *SQLiteStore) Delete(ctx context.Context, date calendar.Day, subjectID string) error {
	return s.db.Write(ctx, storage.DayNotes, func(c *storage.Collection) error {
		_, err := c.Exec(ctx, "DELETE FROM day_notes WHERE date = ? AND subject_id = ?", date, subjectID)
		return err
	})
}

func scanNote(scan func(dest ...any) error) (domain.DayNote, error) {
	var n domain.DayNote
	var ts string
	if err := scan(&n.ID, &n.SubjectID, &n.Date, &n.Note, &ts); err != nil {
		return domain.DayNote{}, err
	}
	t, err := storage.ParseTime(ts)
	if err != nil {
		return domain.DayNote{}, err
	}
	n.Timestamp = t
	return n, nil
}
