// Package history persists a record of past normalization runs in a
// local SQLite database.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/johndauphine/datanorm/internal/normalize"
)

// Run is one recorded normalization run.
type Run struct {
	ID                  string
	Table               string
	StartedAt           time.Time
	OriginalColumns     int
	NormalizedTables    int
	NormalizedColumns   int
	NullsHandled        int
	Relationships       int
	IndexesCreated      int
	RedundancyReduction float64
	ProcessingTime      time.Duration
	ValidationErrors    []string
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	table_name TEXT NOT NULL,
	started_at TEXT NOT NULL,
	original_columns INTEGER NOT NULL,
	normalized_tables INTEGER NOT NULL,
	normalized_columns INTEGER NOT NULL,
	nulls_handled INTEGER NOT NULL,
	relationships INTEGER NOT NULL,
	indexes_created INTEGER NOT NULL,
	redundancy_reduction REAL NOT NULL,
	processing_ms INTEGER NOT NULL,
	validation_errors TEXT NOT NULL
)`

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun records a finished run.
func (s *Store) SaveRun(tableName string, m *normalize.Metrics) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, table_name, started_at, original_columns,
			normalized_tables, normalized_columns, nulls_handled,
			relationships, indexes_created, redundancy_reduction,
			processing_ms, validation_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID,
		tableName,
		time.Now().UTC().Format(time.RFC3339),
		m.OriginalColumns,
		m.NormalizedTables,
		m.NormalizedColumns,
		m.NullsHandled,
		m.Relationships,
		m.IndexesCreated,
		m.RedundancyReduction,
		m.ProcessingTime.Milliseconds(),
		strings.Join(m.ValidationErrors, "\n"),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", m.RunID, err)
	}
	return nil
}

// ListRuns returns all recorded runs, most recent first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, table_name, started_at, original_columns,
			normalized_tables, normalized_columns, nulls_handled,
			relationships, indexes_created, redundancy_reduction,
			processing_ms, validation_errors
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID, or an error if absent.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, table_name, started_at, original_columns,
			normalized_tables, normalized_columns, nulls_handled,
			relationships, indexes_created, redundancy_reduction,
			processing_ms, validation_errors
		FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r         Run
		startedAt string
		procMS    int64
		errText   string
	)
	err := sc.Scan(&r.ID, &r.Table, &startedAt, &r.OriginalColumns,
		&r.NormalizedTables, &r.NormalizedColumns, &r.NullsHandled,
		&r.Relationships, &r.IndexesCreated, &r.RedundancyReduction,
		&procMS, &errText)
	if err != nil {
		return r, err
	}
	if t, perr := time.Parse(time.RFC3339, startedAt); perr == nil {
		r.StartedAt = t
	}
	r.ProcessingTime = time.Duration(procMS) * time.Millisecond
	if errText != "" {
		r.ValidationErrors = strings.Split(errText, "\n")
	}
	return r, nil
}
