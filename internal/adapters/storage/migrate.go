package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one rung of the schema ladder.
// Apply runs in the same transaction as the version bump.
type migration struct {
	Version     int
	Description string
	Apply       func(ctx context.Context, tx *sql.Tx) error
}

// migrations is ordered by Version; versions are contiguous starting at 1.
var migrations = []migration{
	{Version: 1, Description: "subjects, evaluation types, entries, day notes", Apply: execAll(
		`CREATE TABLE IF NOT EXISTS subjects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_subjects_order ON subjects(sort_order)`,

		`CREATE TABLE IF NOT EXISTS evaluation_types (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluation_types_order ON evaluation_types(sort_order)`,

		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			date TEXT NOT NULL,
			evaluation_type_id TEXT NOT NULL,
			note TEXT,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_subject_id ON entries(subject_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date_subject ON entries(date, subject_id)`,

		`CREATE TABLE IF NOT EXISTS day_notes (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			date TEXT NOT NULL,
			note TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_day_notes_date_subject ON day_notes(date, subject_id)`,
	)},
	{Version: 2, Description: "schedule slots and week system", Apply: execAll(
		`CREATE TABLE IF NOT EXISTS schedule_slots (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			day_of_week INTEGER NOT NULL,
			period INTEGER NOT NULL,
			week_type TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_slots_subject_id ON schedule_slots(subject_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_slots_day_period ON schedule_slots(day_of_week, period)`,

		`CREATE TABLE IF NOT EXISTS week_system_settings (
			id TEXT PRIMARY KEY,
			enabled INTEGER NOT NULL DEFAULT 0,
			reference_date TEXT
		)`,
	)},
	{Version: 3, Description: "grades, grade reminder, unique slot buckets", Apply: execAll(
		`DROP INDEX IF EXISTS idx_schedule_slots_day_period`,
		// Keep the most recently written slot of every bucket before enforcing uniqueness.
		`DELETE FROM schedule_slots WHERE rowid NOT IN (
			SELECT MAX(rowid) FROM schedule_slots
			GROUP BY day_of_week, period, COALESCE(week_type, '')
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_schedule_slots_bucket
			ON schedule_slots(day_of_week, period, COALESCE(week_type, ''))`,

		`CREATE TABLE IF NOT EXISTS grades (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			grade REAL NOT NULL,
			date TEXT NOT NULL,
			note TEXT,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_grades_subject_id ON grades(subject_id)`,
		`CREATE INDEX IF NOT EXISTS idx_grades_date ON grades(date)`,
		`CREATE TABLE IF NOT EXISTS grade_combinations (
			grade_id TEXT NOT NULL,
			evaluation_type_id TEXT NOT NULL,
			count INTEGER NOT NULL CHECK (count >= 0),
			PRIMARY KEY (grade_id, evaluation_type_id)
		)`,

		`CREATE TABLE IF NOT EXISTS grade_reminder (
			id TEXT PRIMARY KEY,
			enabled INTEGER NOT NULL DEFAULT 0,
			frequency INTEGER NOT NULL,
			last_shown TEXT NOT NULL,
			next_reminder TEXT NOT NULL
		)`,
	)},
}

// LatestSchemaVersion returns the version the ladder ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// querier is the read surface shared by *sql.DB, *sql.Tx and SQLDB.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SchemaVersion returns the stored version, or 0 for a database never migrated.
// PRE: db is a valid database connection
// POST: database is not modified
func SchemaVersion(ctx context.Context, db querier) (int, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`,
	).Scan(&exists)
	if err != nil || exists == 0 {
		return 0, err
	}
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

// Migrate applies every migration newer than the stored version, each in its own transaction.
// PRE: db is a valid database connection
// POST: on success the schema is at LatestSchemaVersion; on failure it stays at the last fully
// applied version
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	return migrateFrom(ctx, db, current, migrations)
}

func migrateFrom(ctx context.Context, db *sql.DB, current int, ladder []migration) error {
	for _, m := range ladder {
		if m.Version <= current {
			continue
		}
		if err := applyOne(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		slog.Info("store_event", "event", "migration_applied", "version", m.Version, "description", m.Description)
		current = m.Version
	}
	return nil
}

func applyOne(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.Apply(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, m.Version); err != nil {
		return err
	}
	return tx.Commit()
}

func execAll(statements ...string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
