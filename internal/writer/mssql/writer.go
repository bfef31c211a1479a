// Package mssql writes normalized tables to a SQL Server database.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/johndauphine/datanorm/internal/logging"
	"github.com/johndauphine/datanorm/internal/normalize"
	"github.com/johndauphine/datanorm/internal/typemap"
	"github.com/johndauphine/datanorm/internal/util"
)

// Writer persists tables to SQL Server.
type Writer struct {
	db *sql.DB
}

// NewWriter connects to the database described by the DSN.
func NewWriter(ctx context.Context, dsn string) (*Writer, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	logging.Debug("connected to sqlserver target")
	return &Writer{db: db}, nil
}

// Write creates one table per normalized table, loads its rows, and
// indexes the key columns.
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

	if _, err := w.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS [%s]", name)); err != nil {
		return fmt.Errorf("dropping table %s: %w", name, err)
	}

	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		def := fmt.Sprintf("[%s] %s", util.SanitizeIdentifier(c.Name), typemap.ToMSSQL(c.Kind))
		if c.Name == t.PrimaryKey {
			def += " PRIMARY KEY"
		} else {
			def += " NULL"
		}
		defs[i] = def
	}
	ddl := fmt.Sprintf("CREATE TABLE [%s] (%s)", name, strings.Join(defs, ", "))
	if _, err := w.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := make([]string, len(t.Columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("@p%d", i+1)
	}
	insert := fmt.Sprintf("INSERT INTO [%s] VALUES (%s)", name, strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for r := 0; r < t.Rows(); r++ {
		for i := range t.Columns {
			args[i] = t.Columns[i].Values[r].SQL()
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

func (w *Writer) createIndexes(ctx context.Context, t *normalize.Table, rels []normalize.Relationship) (int, error) {
	name := util.SanitizeIdentifier(t.Name)
	count := 0
	for _, col := range t.IndexColumns(rels) {
		col = util.SanitizeIdentifier(col)
		ddl := fmt.Sprintf("CREATE INDEX [idx_%s_%s] ON [%s] ([%s])", name, col, name, col)
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
