// Package storagetest opens throwaway stores for tests.
package storagetest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"classlog/internal/adapters/storage"
)

// NewManager returns a migrated in-memory manager that is closed when the test ends.
func NewManager(t testing.TB) *storage.Manager {
	t.Helper()
	m := storage.NewManager(":memory:", nil, 0)
	if _, err := m.Open(context.Background()); err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

// NewFileManager returns a migrated manager on a fresh database file under t.TempDir.
// Use it where several connections must contend, which the in-memory store never does.
func NewFileManager(t testing.TB) *storage.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classlog.db")
	m := storage.NewManager(path, nil, 0)
	if _, err := m.Open(context.Background()); err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

// Clock returns a deterministic clock that advances one second per call.
func Clock(start time.Time) func() time.Time {
	var n int64
	return func() time.Time {
		i := atomic.AddInt64(&n, 1) - 1
		return start.Add(time.Duration(i) * time.Second)
	}
}

// IDs returns a generator of prefix-1, prefix-2, ...
func IDs(prefix string) func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&n, 1))
	}
}
