// Package loader reads source files into the in-memory dataset model.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/johndauphine/datanorm/internal/dataset"
	"github.com/johndauphine/datanorm/internal/logging"
)

// CSV loads a comma-separated file into a dataset. The first record is
// the header; column kinds are inferred from the remaining records.
// Empty cells become nulls.
func CSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	logging.Info("loaded %s: %d columns, %d rows", path, len(ds.Columns()), ds.Rows())
	return ds, nil
}

// ReadCSV parses CSV content from a reader.
func ReadCSV(r io.Reader) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input")
	}
	if err != nil {
		return nil, err
	}

	cells := make([][]string, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range header {
			cells[i] = append(cells[i], record[i])
		}
	}

	cols := make([]dataset.Column, len(header))
	for i, name := range header {
		cols[i] = dataset.InferColumn(name, cells[i])
	}
	return dataset.New(cols...)
}
