package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"classlog/internal/adapters/http/perf"
)

// SQLDB is the database interface shared by *sql.DB and *TimedDB.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB, logging slow statements and feeding an optional collector.
// Collections report their in-transaction statements through Observe.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation. collector may be nil.
// Statements at or above slowQueryMs log at WARN; slowQueryMs <= 0 selects DefaultSlowQueryMs.
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowQueryMs int) *TimedDB {
	if slowQueryMs <= 0 {
		slowQueryMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: float64(slowQueryMs),
	}
}

// RawDB returns the underlying *sql.DB.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// Observe records the duration of op, which started at start.
// PRE: op names the collection and call, e.g. "entries.Query"
// POST: slow ops logged at WARN, others at DEBUG; entry recorded when a collector is set
func (t *TimedDB) Observe(op string, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	if durationMs >= t.threshold {
		slog.Warn("slow_query", "op", op, "duration_ms", durationMs)
	} else {
		slog.Debug("query", "op", op, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Label:      op,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.Observe("db.Exec", start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.Observe("db.Query", start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.Observe("db.QueryRow", start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.Observe("db.BeginTx", start)
	return tx, err
}

// Close closes the underlying database.
func (t *TimedDB) Close() error {
	return t.db.Close()
}
