package subject

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classlog/internal/adapters/storage"
	domain "classlog/internal/domain/subject"
)

const selectColumns = "SELECT id, name, color, sort_order, created_at FROM subjects"

// SQLiteStore implements Store on the subjects collection.
type SQLiteStore struct {
	db    storage.Collections
	NewID func() string
	Now   func() time.Time
}

// NewSQLiteStore creates a new subject store.
func NewSQLiteStore(db storage.Collections) *SQLiteStore {
	return &SQLiteStore{db: db, NewID: uuid.NewString, Now: time.Now}
}

// Add assigns a fresh ID and CreatedAt, then inserts the subject.
// PRE: value passes Validate
// POST: Returns the stored subject; ErrConstraintViolation if the ID already exists
func (s *SQLiteStore) Add(ctx context.Context, value domain.Subject) (domain.Subject, error) {
	value.ID = s.NewID()
	value.CreatedAt = s.Now().UTC()
	if err := value.Validate(); err != nil {
		return domain.Subject{}, err
	}
	err := s.db.Write(ctx, storage.Subjects, func(c *storage.Collection) error {
		_, err := c.Exec(ctx,
			"INSERT INTO subjects (id, name, color, sort_order, created_at) VALUES (?, ?, ?, ?, ?)",
			value.ID, value.Name, value.Color, value.Order, storage.FormatTime(value.CreatedAt),
		)
		return err
	})
	if err != nil {
		return domain.Subject{}, fmt.Errorf("add subject: %w", err)
	}
	return value, nil
}

// GetByID retrieves a subject.
// PRE: id is non-empty
// POST: Returns the subject or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Subject, error) {
	var out domain.Subject
	err := s.db.Read(ctx, storage.Subjects, func(c *storage.Collection) error {
		var err error
		out, err = scanSubject(c.QueryRow(ctx, selectColumns+" WHERE id = ?", id).Scan)
		return err
	})
	if err != nil {
		return domain.Subject{}, fmt.Errorf("subject %s: %w", id, err)
	}
	return out, nil
}

// List returns every subject in display order.
// PRE: none
// POST: ordered by Order, then insertion
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Subject, error) {
	out := []domain.Subject{}
	err := s.db.Read(ctx, storage.Subjects, func(c *storage.Collection) error {
		rows, err := c.Query(ctx, selectColumns+" ORDER BY sort_order, rowid")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			sub, err := scanSubject(rows.Scan)
			if err != nil {
				return err
			}
			out = append(out, sub)
		}
		return rows.Err()
	})
	return out, err
}

// Update merges patch into the stored subject.
// PRE: id is non-empty
// POST: fields absent from patch are preserved; ErrNotFound if id is unknown
func (s *SQLiteStore) Update(ctx context.Context, id string, patch domain.Patch) (domain.Subject, error) {
	var out domain.Subject
	err := s.db.Write(ctx, storage.Subjects, func(c *storage.Collection) error {
		current, err := scanSubject(c.QueryRow(ctx, selectColumns+" WHERE id = ?", id).Scan)
		if err != nil {
			return err
		}
		current.Apply(patch)
		if err := current.Validate(); err != nil {
			return err
		}
		if _, err := c.Exec(ctx,
			"UPDATE subjects SET name = ?, color = ?, sort_order = ? WHERE id = ?",
			current.Name, current.Color, current.Order, id,
		); err != nil {
			return err
		}
		out = current
		return nil
	})
	if err != nil {
		return domain.Subject{}, fmt.Errorf("update subject %s: %w", id, err)
	}
	return out, nil
}

// Delete removes a subject. Deleting an unknown ID is not an error.
// PRE: none
// POST: no subject with id exists; entries referencing it are untouched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.db.Write(ctx, storage.Subjects, func(c *storage.Collection) error {
		_, err := c.Exec(ctx, "DELETE FROM subjects WHERE id = ?", id)
		return err
	})
}

func scanSubject(scan func(dest ...any) error) (domain.Subject, error) {
	var sub domain.Subject
	var createdAt string
	if err := scan(&sub.ID, &sub.Name, &sub.Color, &sub.Order, &createdAt); err != nil {
		return domain.Subject{}, err
	}
	t, err := storage.ParseTime(createdAt)
	if err != nil {
		return domain.Subject{}, err
	}
	sub.CreatedAt = t
	return sub, nil
}
