package entry

import (
	"context"
	"errors"
	"testing"
	"time"

	"classlog/internal/adapters/storage"
	"classlog/internal/adapters/storage/storagetest"
	"classlog/internal/domain/calendar"
	domain "classlog/internal/domain/entry"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(storagetest.NewManager(t))
	s.NewID = storagetest.IDs("entry")
	s.Now = storagetest.Clock(time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC))
	return s
}

func mustAdd(t *testing.T, s *SQLiteStore, subjectID, date, evalID string) domain.Entry {
	t.Helper()
	e, err := s.Add(context.Background(), domain.Entry{
		SubjectID:        subjectID,
		Date:             calendar.MustParse(date),
		EvaluationTypeID: evalID,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return e
}

func TestSQLiteStore_RoundTripKeepsNoteAndDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	added, err := s.Add(ctx, domain.Entry{
		SubjectID:        "math",
		Date:             calendar.MustParse("2024-09-02"),
		EvaluationTypeID: "correct",
		Note:             "Tafelanschrieb",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := s.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Date.String() != "2024-09-02" || got.Note != "Tafelanschrieb" || !got.Timestamp.Equal(added.Timestamp) {
		t.Errorf("got %+v, want %+v", got, added)
	}
}

func TestSQLiteStore_IndexQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustAdd(t, s, "math", "2024-09-02", "correct")
	mustAdd(t, s, "math", "2024-09-03", "wrong")
	mustAdd(t, s, "german", "2024-09-02", "correct")
	mustAdd(t, s, "german", "2024-09-10", "correct")

	tests := []struct {
		name string
		run  func() ([]domain.Entry, error)
		want int
	}{
		{"by date", func() ([]domain.Entry, error) { return s.ListByDate(ctx, calendar.MustParse("2024-09-02")) }, 2},
		{"by subject", func() ([]domain.Entry, error) { return s.ListBySubject(ctx, "german") }, 2},
		{"by date and subject", func() ([]domain.Entry, error) {
			return s.ListByDateAndSubject(ctx, calendar.MustParse("2024-09-02"), "math")
		}, 1},
		{"by range inclusive", func() ([]domain.Entry, error) {
			return s.ListByDateRange(ctx, calendar.MustParse("2024-09-02"), calendar.MustParse("2024-09-03"))
		}, 3},
		{"all", func() ([]domain.Entry, error) { return s.List(ctx) }, 4},
		{"no match", func() ([]domain.Entry, error) { return s.ListByDate(ctx, calendar.MustParse("2025-01-01")) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSQLiteStore_UpdateKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	added := mustAdd(t, s, "math", "2024-09-02", "correct")

	eval := "partial"
	updated, err := s.Update(ctx, added.ID, domain.Patch{EvaluationTypeID: &eval})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.EvaluationTypeID != "partial" || updated.SubjectID != "math" || !updated.Timestamp.Equal(added.Timestamp) {
		t.Errorf("updated = %+v", updated)
	}
}

func TestSQLiteStore_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	added := mustAdd(t, s, "math", "2024-09-02", "correct")

	if err := s.Delete(ctx, added.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, added.ID); err != nil {
		t.Fatalf("Delete again: %v", err)
	}
	if _, err := s.GetByID(ctx, added.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
