package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Mode selects the access level of a Collection.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "readwrite"
	}
	return "readonly"
}

// Collection names.
const (
	Subjects           = "subjects"
	EvaluationTypes    = "evaluationTypes"
	Entries            = "entries"
	DayNotes           = "dayNotes"
	ScheduleSlots      = "scheduleSlots"
	WeekSystemSettings = "weekSystemSettings"
	Grades             = "grades"
	GradeReminder      = "gradeReminder"
)

// collectionDef lists the tables a collection owns and its secondary indexes.
type collectionDef struct {
	tables  []string
	indexes []string
	pattern *regexp.Regexp
}

// schema is fixed at compile time; indexes are created by the migration ladder.
var schema = map[string]*collectionDef{
	Subjects:           {tables: []string{"subjects"}, indexes: []string{"idx_subjects_order"}},
	EvaluationTypes:    {tables: []string{"evaluation_types"}, indexes: []string{"idx_evaluation_types_order"}},
	Entries:            {tables: []string{"entries"}, indexes: []string{"idx_entries_date", "idx_entries_subject_id", "idx_entries_date_subject"}},
	DayNotes:           {tables: []string{"day_notes"}, indexes: []string{"idx_day_notes_date_subject"}},
	ScheduleSlots:      {tables: []string{"schedule_slots"}, indexes: []string{"idx_schedule_slots_subject_id", "idx_schedule_slots_bucket"}},
	WeekSystemSettings: {tables: []string{"week_system_settings"}},
	Grades:             {tables: []string{"grades", "grade_combinations"}, indexes: []string{"idx_grades_subject_id", "idx_grades_date"}},
	GradeReminder:      {tables: []string{"grade_reminder"}},
}

func init() {
	for name, def := range schema {
		var foreign []string
		for other, od := range schema {
			if other == name {
				continue
			}
			for _, t := range od.tables {
				foreign = append(foreign, regexp.QuoteMeta(t))
			}
		}
		def.pattern = regexp.MustCompile(`(?i)\b(` + strings.Join(foreign, "|") + `)\b`)
	}
}

// CollectionNames returns every collection name.
func CollectionNames() []string {
	return []string{Subjects, EvaluationTypes, Entries, DayNotes, ScheduleSlots, WeekSystemSettings, Grades, GradeReminder}
}

// IndexNames returns the secondary indexes declared for a collection.
func IndexNames(name string) []string {
	if def, ok := schema[name]; ok {
		return append([]string(nil), def.indexes...)
	}
	return nil
}

// Collection is a transaction restricted to one collection's tables.
type Collection struct {
	name    string
	def     *collectionDef
	mode    Mode
	tx      *sql.Tx
	release func()
	observe func(op string, start time.Time)
	done    bool
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Mode returns the access level.
func (c *Collection) Mode() Mode { return c.mode }

// QueryRow runs a single-row query inside the collection's transaction.
// Scope violations surface from Scan as ErrOutOfScope.
func (c *Collection) QueryRow(ctx context.Context, query string, args ...any) *Row {
	if err := c.check(query, false); err != nil {
		return &Row{err: err}
	}
	start := time.Now()
	row := c.tx.QueryRowContext(ctx, query, args...)
	c.observe(c.name+".QueryRow", start)
	return &Row{row: row}
}

// Query runs a multi-row query inside the collection's transaction.
func (c *Collection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := c.check(query, false); err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := c.tx.QueryContext(ctx, query, args...)
	c.observe(c.name+".Query", start)
	return rows, translate(err)
}

// Exec runs a write statement. Driver constraint errors are mapped to ErrConstraintViolation.
// PRE: collection opened ReadWrite
// POST: statement applied inside the transaction (visible after Commit)
func (c *Collection) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := c.check(query, true); err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := c.tx.ExecContext(ctx, query, args...)
	c.observe(c.name+".Exec", start)
	return res, translate(err)
}

// Commit finishes the transaction and releases the writer lock.
func (c *Collection) Commit() error {
	if c.done {
		return sql.ErrTxDone
	}
	c.done = true
	defer c.release()
	return c.tx.Commit()
}

// Rollback abandons the transaction. It is a no-op after Commit.
func (c *Collection) Rollback() error {
	if c.done {
		return nil
	}
	c.done = true
	defer c.release()
	return c.tx.Rollback()
}

func (c *Collection) check(query string, write bool) error {
	if c.done {
		return sql.ErrTxDone
	}
	if write && c.mode != ReadWrite {
		return fmt.Errorf("%w: %s", ErrReadOnly, c.name)
	}
	if m := c.def.pattern.FindString(query); m != "" {
		return fmt.Errorf("%w: %s used from %s", ErrOutOfScope, m, c.name)
	}
	return nil
}

// Row wraps *sql.Row so scope errors and sql.ErrNoRows map onto the storage taxonomy.
type Row struct {
	row *sql.Row
	err error
}

// Scan copies the row into dest; a missing row yields ErrNotFound.
func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return translate(err)
}

// translate maps driver errors onto the storage taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return err
}
