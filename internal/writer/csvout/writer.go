// Package csvout writes normalized tables as CSV files in a directory.
package csvout

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/johndauphine/datanorm/internal/logging"
	"github.com/johndauphine/datanorm/internal/normalize"
	"github.com/johndauphine/datanorm/internal/util"
)

// Writer persists tables as one CSV file per table, plus a
// relationships.csv summary when any relationships were inferred.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Write renders each table to <dir>/<table>.csv. Nulls become empty
// cells. CSV files carry no indexes, so the index count is always zero.
func (w *Writer) Write(ctx context.Context, tables []*normalize.Table, rels []normalize.Relationship) (int, error) {
	for _, t := range tables {
		if err := w.writeTable(t); err != nil {
			return 0, err
		}
	}
	if len(rels) > 0 {
		if err := w.writeRelationships(rels); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

func (w *Writer) writeTable(t *normalize.Table) error {
	path := filepath.Join(w.dir, util.SanitizeIdentifier(t.Name)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}

	record := make([]string, len(t.Columns))
	for r := 0; r < t.Rows(); r++ {
		for i := range t.Columns {
			record[i] = t.Columns[i].Values[r].String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logging.Info("wrote %s (%d rows)", path, t.Rows())
	return nil
}

func (w *Writer) writeRelationships(rels []normalize.Relationship) error {
	path := filepath.Join(w.dir, "relationships.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"from_table", "to_table", "column"}); err != nil {
		return err
	}
	for _, rel := range rels {
		if err := cw.Write([]string{rel.FromTable, rel.ToTable, rel.Column}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Close is a no-op; files are closed per table.
func (w *Writer) Close() error {
	return nil
}
