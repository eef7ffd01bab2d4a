package evaluation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"classlog/internal/adapters/storage"
	domain "classlog/internal/domain/evaluation"
)

const selectColumns = "SELECT id, name, color, sort_order FROM evaluation_types"

// SQLiteStore implements Store on the evaluationTypes collection.
type SQLiteStore struct {
	db    storage.Collections
	NewID func() string
}

// NewSQLiteStore creates a new evaluation type store.
func NewSQLiteStore(db storage.Collections) *SQLiteStore {
	return &SQLiteStore{db: db, NewID: uuid.NewString}
}

// Add assigns a fresh ID and inserts the type.
// PRE: value passes Validate
// POST: Returns the stored type; ErrConstraintViolation if the ID already exists
func (s *SQLiteStore) Add(ctx context.Context, value domain.Type) (domain.Type, error) {
	value.ID = s.NewID()
	if err := value.Validate(); err != nil {
		return domain.Type{}, err
	}
	err := s.db.Write(ctx, storage.EvaluationTypes, func(c *storage.Collection) error {
		_, err := c.Exec(ctx,
			"INSERT INTO evaluation_types (id, name, color, sort_order) VALUES (?, ?, ?, ?)",
			value.ID, value.Name, value.Color, value.Order,
		)
		return err
	})
	if err != nil {
		return domain.Type{}, fmt.Errorf("add evaluation type: %w", err)
	}
	return value, nil
}

// GetByID retrieves an evaluation type.
// PRE: id is non-empty
// POST: Returns the type or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Type, error) {
	var out domain.Type
	err := s.db.Read(ctx, storage.EvaluationTypes, func(c *storage.Collection) error {
		return c.QueryRow(ctx, selectColumns+" WHERE id = ?", id).Scan(&out.ID, &out.Name, &out.Color, &out.Order)
	})
	if err != nil {
		return domain.Type{}, fmt.Errorf("evaluation type %s: %w", id, err)
	}
	return out, nil
}

// List returns every evaluation type by Order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Type, error) {
	out := []domain.Type{}
	err := s.db.Read(ctx, storage.EvaluationTypes, func(c *storage.Collection) error {
		rows, err := c.Query(ctx, selectColumns+" ORDER BY sort_order, rowid")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var t domain.Type
			if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Order); err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	return out, err
}

// Update merges patch into the stored type.
// PRE: id is non-empty
// POST: fields absent from patch are preserved; ErrNotFound if id is unknown
func (s *SQLiteStore) Update(ctx context.Context, id string, patch domain.Patch) (domain.Type, error) {
	var out domain.Type
	err := s.db.Write(ctx, storage.EvaluationTypes, func(c *storage.Collection) error {
		if err := c.QueryRow(ctx, selectColumns+" WHERE id = ?", id).Scan(&out.ID, &out.Name, &out.Color, &out.Order); err != nil {
			return err
		}
		out.Apply(patch)
		if err := out.Validate(); err != nil {
			return err
		}
		_, err := c.Exec(ctx,
			"UPDATE evaluation_types SET name = ?, color = ?, sort_order = ? WHERE id = ?",
			out.Name, out.Color, out.Order, id,
		)
		return err
	})
	if err != nil {
		return domain.Type{}, fmt.Errorf("update evaluation type %s: %w", id, err)
	}
	return out, nil
}

// Delete removes an evaluation type. Deleting an unknown ID is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.db.Write(ctx, storage.EvaluationTypes, func(c *storage.Collection) error {
		_, err := c.Exec(ctx, "DELETE FROM evaluation_types WHERE id = ?", id)
		return err
	})
}
