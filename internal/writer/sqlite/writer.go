// Package sqlite writes normalized tables to a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/johndauphine/datanorm/internal/dataset"
	"github.com/johndauphine/datanorm/internal/logging"
	"github.com/johndauphine/datanorm/internal/normalize"
	"github.com/johndauphine/datanorm/internal/typemap"
	"github.com/johndauphine/datanorm/internal/util"
)

// Writer persists tables to a SQLite database.
type Writer struct {
	db *sql.DB
}

// NewWriter opens (or creates) the database file at path.
func NewWriter(ctx context.Context, path string) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	logging.Debug("connected to sqlite database %s", path)
	return &Writer{db: db}, nil
}

// Write creates one table per normalized table, loads its rows, and
// indexes the primary and foreign key columns.
func (w *Writer) Write(ctx context.Context, tables []*normalize.Table, rels []normalize.Relationship) (int, error) {
	indexes := 0
	for _, t := range tables {
		if err := w.writeTable(ctx, t); err != nil {
			return indexes, err
		}
		n, err := w.createIndexes(ctx, t, rels)
		indexes += n
		if err != nil {
			return indexes, err
		}
	}
	return indexes, nil
}

func (w *Writer) writeTable(ctx context.Context, t *normalize.Table) error {
	name := util.SanitizeIdentifier(t.Name)

	if _, err := w.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", name)); err != nil {
		return fmt.Errorf("dropping table %s: %w", name, err)
	}

	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		def := fmt.Sprintf("%q %s", util.SanitizeIdentifier(c.Name), typemap.ToSQLite(c.Kind))
		if c.Name == t.PrimaryKey {
			def += " PRIMARY KEY"
		}
		defs[i] = def
	}
	ddl := fmt.Sprintf("CREATE TABLE %q (%s)", name, strings.Join(defs, ", "))
	if _, err := w.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	insert := fmt.Sprintf("INSERT INTO %q VALUES (%s)", name, placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for r := 0; r < t.Rows(); r++ {
		for i := range t.Columns {
			args[i] = sqliteArg(t.Columns[i].Values[r])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", name, err)
	}
	logging.Info("wrote table %s (%d rows)", name, t.Rows())
	return nil
}

// createIndexes indexes the primary key and every foreign key column.
func (w *Writer) createIndexes(ctx context.Context, t *normalize.Table, rels []normalize.Relationship) (int, error) {
	name := util.SanitizeIdentifier(t.Name)
	count := 0
	for _, col := range t.IndexColumns(rels) {
		col = util.SanitizeIdentifier(col)
		ddl := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %q (%q)", name, col, name, col)
		if _, err := w.db.ExecContext(ctx, ddl); err != nil {
			return count, fmt.Errorf("indexing %s.%s: %w", name, col, err)
		}
		count++
	}
	return count, nil
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}

// sqliteArg converts a value for the sqlite driver. Datetimes are
// stored as text in the standard layout and booleans as 0/1 integers,
// matching the declared storage types.
func sqliteArg(v dataset.Value) any {
	if v.Null {
		return nil
	}
	switch v.Kind {
	case dataset.KindTime:
		return v.String()
	case dataset.KindBool:
		if v.Bool {
			return int64(1)
		}
		return int64(0)
	default:
		return v.SQL()
	}
}

