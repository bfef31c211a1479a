// Package dataset defines the in-memory tabular data model the
// normalization pipeline operates on: ordered named columns of
// equal-length, possibly-null tagged values.
package dataset

import "fmt"

// Column is a named, typed sequence of values.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// NullCount returns the number of null values.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Null {
			n++
		}
	}
	return n
}

// Nullable reports whether the column contains any null value.
func (c *Column) Nullable() bool {
	return c.NullCount() > 0
}

// DistinctCount returns the number of distinct value keys, counting all
// nulls as one value.
func (c *Column) DistinctCount() int {
	seen := make(map[string]struct{}, len(c.Values))
	for _, v := range c.Values {
		seen[v.Key()] = struct{}{}
	}
	return len(seen)
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return Column{Name: c.Name, Kind: c.Kind, Values: values}
}

// Dataset is an ordered collection of equal-length columns.
type Dataset struct {
	cols []Column
}

// New builds a Dataset from columns, enforcing unique names and equal
// lengths.
func New(cols ...Column) (*Dataset, error) {
	seen := make(map[string]struct{}, len(cols))
	rows := -1
	for _, c := range cols {
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if rows == -1 {
			rows = len(c.Values)
		} else if len(c.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, len(c.Values), rows)
		}
	}
	return &Dataset{cols: cols}, nil
}

// MustNew is New for statically known-good columns; it panics on error.
// Intended for tests and fixtures.
func MustNew(cols ...Column) *Dataset {
	ds, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return ds
}

// Rows returns the row count.
func (d *Dataset) Rows() int {
	if len(d.cols) == 0 {
		return 0
	}
	return len(d.cols[0].Values)
}

// Columns returns the columns in order. The returned slice is the
// dataset's backing storage; callers must not mutate it.
func (d *Dataset) Columns() []Column {
	return d.cols
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if absent.
func (d *Dataset) Column(name string) *Column {
	for i := range d.cols {
		if d.cols[i].Name == name {
			return &d.cols[i]
		}
	}
	return nil
}

// Cells returns rows × columns, the denormalized cell count.
func (d *Dataset) Cells() int {
	return d.Rows() * len(d.cols)
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	cols := make([]Column, len(d.cols))
	for i := range d.cols {
		cols[i] = d.cols[i].Clone()
	}
	return &Dataset{cols: cols}
}
