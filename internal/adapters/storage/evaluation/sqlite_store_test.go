package evaluation

import (
	"context"
	"errors"
	"testing"

	"classlog/internal/adapters/storage"
	"classlog/internal/adapters/storage/storagetest"
	domain "classlog/internal/domain/evaluation"
)

func TestSQLiteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(storagetest.NewManager(t))
	s.NewID = storagetest.IDs("eval")

	richtig, err := s.Add(ctx, domain.Type{Name: "Richtig", Color: "#10b981", Order: 0})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Add(ctx, domain.Type{Name: "Falsch", Color: "#ef4444", Order: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	color := "#22c55e"
	updated, err := s.Update(ctx, richtig.ID, domain.Patch{Color: &color})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Richtig" || updated.Color != color {
		t.Errorf("updated = %+v", updated)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != richtig.ID {
		t.Fatalf("List = %+v", list)
	}

	if err := s.Delete(ctx, richtig.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, richtig.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, richtig.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_UpdateRejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(storagetest.NewManager(t))
	added, _ := s.Add(ctx, domain.Type{Name: "Gemeldet", Color: "#8b5cf6"})

	bad := "purple"
	if _, err := s.Update(ctx, added.ID, domain.Patch{Color: &bad}); !errors.Is(err, domain.ErrInvalidColor) {
		t.Fatalf("err = %v, want ErrInvalidColor", err)
	}
	got, _ := s.GetByID(ctx, added.ID)
	if got.Color != "#8b5cf6" {
		t.Errorf("color = %q, rejected update must roll back", got.Color)
	}
}
