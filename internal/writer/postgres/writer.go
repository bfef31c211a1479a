// Package postgres writes normalized tables to a PostgreSQL database.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johndauphine/datanorm/internal/logging"
	"github.com/johndauphine/datanorm/internal/normalize"
	"github.com/johndauphine/datanorm/internal/typemap"
	"github.com/johndauphine/datanorm/internal/util"
)

// Writer persists tables to PostgreSQL.
type Writer struct {
	pool *pgxpool.Pool
}

// NewWriter connects to the database described by the DSN.
func NewWriter(ctx context.Context, dsn string) (*Writer, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	logging.Debug("connected to postgres target")
	return &Writer{pool: pool}, nil
}

// Write creates one table per normalized table, loads rows through the
// COPY protocol, and indexes the key columns.
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

	if _, err := w.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", name)); err != nil {
		return fmt.Errorf("dropping table %s: %w", name, err)
	}

	defs := make([]string, len(t.Columns))
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = util.SanitizeIdentifier(c.Name)
		def := fmt.Sprintf("%q %s", cols[i], typemap.ToPostgres(c.Kind))
		if c.Name == t.PrimaryKey {
			def += " PRIMARY KEY"
		}
		defs[i] = def
	}
	ddl := fmt.Sprintf("CREATE TABLE %q (%s)", name, strings.Join(defs, ", "))
	if _, err := w.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}

	rows := make([][]any, t.Rows())
	for r := range rows {
		row := make([]any, len(t.Columns))
		for i := range t.Columns {
			row[i] = t.Columns[i].Values[r].SQL()
		}
		rows[r] = row
	}

	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Conn().CopyFrom(
		ctx,
		pgx.Identifier{name},
		cols,
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copying into %s: %w", name, err)
	}
	logging.Info("wrote table %s (%d rows)", name, t.Rows())
	return nil
}

func (w *Writer) createIndexes(ctx context.Context, t *normalize.Table, rels []normalize.Relationship) (int, error) {
	name := util.SanitizeIdentifier(t.Name)
	count := 0
	for _, col := range t.IndexColumns(rels) {
		col = util.SanitizeIdentifier(col)
		ddl := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %q (%q)", name, col, name, col)
		if _, err := w.pool.Exec(ctx, ddl); err != nil {
			return count, fmt.Errorf("indexing %s.%s: %w", name, col, err)
		}
		count++
	}
	return count, nil
}

// Close closes the pool.
func (w *Writer) Close() error {
	w.pool.Close()
	return nil
}
