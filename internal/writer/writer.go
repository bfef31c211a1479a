// Package writer persists normalized tables to an output engine.
package writer

import (
	"context"
	"fmt"

	"github.com/johndauphine/datanorm/internal/normalize"
	"github.com/johndauphine/datanorm/internal/writer/csvout"
	"github.com/johndauphine/datanorm/internal/writer/mssql"
	"github.com/johndauphine/datanorm/internal/writer/postgres"
	"github.com/johndauphine/datanorm/internal/writer/sqlite"
)

// Writer persists a decomposition result. Implementations create one
// physical table per normalized table and index the key columns where
// the engine supports it.
type Writer interface {
	// Write persists the tables and returns the number of indexes
	// created.
	Write(ctx context.Context, tables []*normalize.Table, rels []normalize.Relationship) (int, error)

	// Close releases the underlying connection or file handles.
	Close() error
}

// New opens a writer for the configured engine. Database engines take a
// DSN; the csv engine takes an output directory.
func New(ctx context.Context, engine, dsn, dir string) (Writer, error) {
	switch engine {
	case "sqlite":
		return sqlite.NewWriter(ctx, dsn)
	case "postgres":
		return postgres.NewWriter(ctx, dsn)
	case "mssql":
		return mssql.NewWriter(ctx, dsn)
	case "csv":
		return csvout.NewWriter(dir)
	default:
		return nil, fmt.Errorf("unsupported output engine %q", engine)
	}
}
