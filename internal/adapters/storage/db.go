package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"classlog/internal/adapters/http/perf"
)

// DefaultPath is the database file used when no path is configured.
const DefaultPath = "classlog.db"

// Storage errors
var (
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrReadOnly            = errors.New("collection opened read-only")
	ErrUnknownCollection   = errors.New("unknown collection")
	ErrOutOfScope          = errors.New("statement touches another collection")
)

// Collections is the narrow surface entity stores depend on.
type Collections interface {
	Read(ctx context.Context, name string, fn func(c *Collection) error) error
	Write(ctx context.Context, name string, fn func(c *Collection) error) error
}

// Manager owns the single process-wide database handle.
// INVARIANT: at most one open+migrate sequence runs, however many callers race on first use.
type Manager struct {
	path        string
	collector   *perf.Collector
	slowQueryMs int

	mu     sync.Mutex
	db     *TimedDB
	writer *TimedDB

	writers map[string]*sync.Mutex
}

// Compile-time check that *Manager satisfies Collections.
var _ Collections = (*Manager)(nil)

// NewManager prepares a manager for the database at path. Nothing is opened until first use.
// slowQueryMs <= 0 selects DefaultSlowQueryMs.
// PRE: path is a file path, ":memory:" or a "file:" URI
// POST: Returns an unopened manager
func NewManager(path string, collector *perf.Collector, slowQueryMs int) *Manager {
	if path == "" {
		path = DefaultPath
	}
	writers := make(map[string]*sync.Mutex, len(schema))
	for name := range schema {
		writers[name] = &sync.Mutex{}
	}
	return &Manager{path: path, collector: collector, slowQueryMs: slowQueryMs, writers: writers}
}

// Open opens the database and brings its schema to LatestSchemaVersion. It is idempotent.
// File databases get two pools: readers, and a single writer connection whose
// transactions start IMMEDIATE so a read-then-write never loses the write lock.
// PRE: ctx is valid
// POST: Returns the shared reader handle, or an error wrapping ErrStoreUnavailable
func (m *Manager) Open(ctx context.Context) (*TimedDB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	writer, err := openPool(ctx, m.path, "immediate", 1)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, writer); err != nil {
		writer.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	// Each connection to ":memory:" gets its own database, so readers share the writer there.
	reader := writer
	if !isMemory(m.path) {
		if reader, err = openPool(ctx, m.path, "deferred", 8); err != nil {
			writer.Close()
			return nil, err
		}
	}

	m.writer = NewTimedDB(writer, m.collector, m.slowQueryMs)
	m.db = m.writer
	if reader != writer {
		m.db = NewTimedDB(reader, m.collector, m.slowQueryMs)
	}
	slog.Info("store_event", "event", "store_opened", "path", m.path, "schema", LatestSchemaVersion())
	return m.db, nil
}

func openPool(ctx context.Context, path, txlock string, conns int) (*sql.DB, error) {
	raw, err := sql.Open("sqlite", dsn(path, txlock))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStoreUnavailable, path, err)
	}
	raw.SetMaxOpenConns(conns)
	raw.SetMaxIdleConns(conns)
	if err := raw.PingContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStoreUnavailable, path, err)
	}
	return raw, nil
}

// Close releases both pools. A later call to Open reopens them.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.writer.Close()
	if m.db != m.writer {
		err = errors.Join(err, m.db.Close())
	}
	m.db, m.writer = nil, nil
	return err
}

// Version returns the schema version stored in the database.
func (m *Manager) Version(ctx context.Context) (int, error) {
	db, err := m.Open(ctx)
	if err != nil {
		return 0, err
	}
	return SchemaVersion(ctx, db)
}

// Collection starts a transaction scoped to one collection.
// ReadWrite collections run one at a time on the writer connection. On a file database
// ReadOnly ones use the reader pool and never wait for a writer.
// PRE: name is one of the collection constants
// POST: caller must Commit or Rollback the returned collection
func (m *Manager) Collection(ctx context.Context, name string, mode Mode) (*Collection, error) {
	def, ok := schema[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	if _, err := m.Open(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	db := m.db
	if mode == ReadWrite {
		db = m.writer
	}
	m.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("%w: closed", ErrStoreUnavailable)
	}

	release := func() {}
	if mode == ReadWrite {
		w := m.writers[name]
		w.Lock()
		release = w.Unlock
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		release()
		return nil, fmt.Errorf("begin %s: %w", name, err)
	}
	return &Collection{name: name, def: def, mode: mode, tx: tx, release: release, observe: db.Observe}, nil
}

// Read runs fn against a read-only view of one collection.
// PRE: fn does not retain c
// POST: the transaction is always finished
func (m *Manager) Read(ctx context.Context, name string, fn func(c *Collection) error) error {
	c, err := m.Collection(ctx, name, ReadOnly)
	if err != nil {
		return err
	}
	defer c.Rollback()
	return fn(c)
}

// Write runs fn in a read-write transaction on one collection and commits if fn succeeds.
// PRE: fn does not retain c
// POST: either every write in fn is committed or none is
func (m *Manager) Write(ctx context.Context, name string, fn func(c *Collection) error) error {
	c, err := m.Collection(ctx, name, ReadWrite)
	if err != nil {
		return err
	}
	defer c.Rollback()
	if err := fn(c); err != nil {
		return err
	}
	return c.Commit()
}

// dsn appends the connection pragmas and the BEGIN mode to path.
func dsn(path, txlock string) string {
	pragmas := "_txlock=" + txlock + "&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	if !isMemory(path) {
		pragmas = "_pragma=journal_mode(WAL)&" + pragmas
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + pragmas
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
