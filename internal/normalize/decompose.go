package normalize

import (
	"strconv"
	"strings"

	"github.com/johndauphine/datanorm/internal/dataset"
	"github.com/johndauphine/datanorm/internal/logging"
)

// Table is one table of the normalized schema. Tables are never
// mutated after Decompose returns them.
type Table struct {
	Name         string
	Columns      []dataset.Column
	PrimaryKey   string
	ForeignKeys  []string
	SyntheticKey bool
}

// Rows returns the table's row count.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if absent.
func (t *Table) Column(name string) *dataset.Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Cells returns rows × columns.
func (t *Table) Cells() int {
	return t.Rows() * len(t.Columns)
}

// FindTable returns the named table from a decomposition result, or nil.
func FindTable(tables []*Table, name string) *Table {
	for _, t := range tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Decompose splits the dataset into dependency-derived tables plus a
// base table, in that order (base last). The primary key is the first
// column whose distinct count equals the row count; when none
// qualifies, a surrogate `<baseName>_id` column of sequential integers
// is synthesized as the leftmost column. The output schema is decided
// before any rows are materialized.
//
// Determinants are consumed in discovery order, with two exclusions: a
// fully unique column is never extracted (it determines everything
// trivially, and its "extraction" would be the whole table), and a
// column already claimed as a dependent is not later processed as a
// determinant. The first claim on a dependent removes it from the base
// table's pool; an extracted table still carries its full dependent
// list, so overlapping extractions remain possible.
func Decompose(ds *dataset.Dataset, baseName string, fds []FD) []*Table {
	working, pk, synthetic := assignKey(ds, baseName)
	cols := working.Columns()
	rows := working.Rows()

	remaining := make(map[string]bool, len(cols))
	for _, c := range cols {
		remaining[c.Name] = true
	}

	var tables []*Table
	extracted := make(map[string]bool, len(fds))
	claimed := make(map[string]bool, len(fds))

	for _, fd := range fds {
		if extracted[fd.Determinant] || claimed[fd.Determinant] || len(fd.Dependents) == 0 {
			continue
		}
		det := working.Column(fd.Determinant)
		if det == nil || det.DistinctCount() == rows {
			continue
		}

		name := baseName + "_" + strings.ToLower(fd.Determinant)
		tableCols := append([]string{fd.Determinant}, fd.Dependents...)
		t := &Table{
			Name:       name,
			Columns:    uniqueRows(working, tableCols),
			PrimaryKey: fd.Determinant,
		}
		tables = append(tables, t)

		extracted[fd.Determinant] = true
		for _, dep := range fd.Dependents {
			delete(remaining, dep)
			claimed[dep] = true
		}
		remaining[fd.Determinant] = true

		logging.Info("created table %q with columns %v (%d rows)", name, tableCols, t.Rows())
	}

	base := &Table{
		Name:         baseName,
		PrimaryKey:   pk,
		SyntheticKey: synthetic,
	}
	base.Columns = append(base.Columns, working.Column(pk).Clone())
	for _, c := range cols {
		if c.Name != pk && remaining[c.Name] {
			base.Columns = append(base.Columns, c.Clone())
		}
	}
	for det := range extracted {
		if base.Column(det) != nil {
			base.ForeignKeys = append(base.ForeignKeys, det)
		}
	}
	// Deterministic FK order: follow the base table's column order.
	base.ForeignKeys = orderLike(base.ColumnNames(), base.ForeignKeys)

	return append(tables, base)
}

// assignKey picks the primary key and, when no column is fully unique,
// builds a working dataset with a synthesized surrogate key as column
// zero. The schema is decided first; rows are populated second.
func assignKey(ds *dataset.Dataset, baseName string) (*dataset.Dataset, string, bool) {
	rows := ds.Rows()
	for _, c := range ds.Columns() {
		if c.DistinctCount() == rows {
			return ds, c.Name, false
		}
	}

	pk := baseName + "_id"
	surrogate := dataset.Column{
		Name:   pk,
		Kind:   dataset.KindInt,
		Values: make([]dataset.Value, rows),
	}
	for r := 0; r < rows; r++ {
		surrogate.Values[r] = dataset.IntValue(int64(r + 1))
	}

	cols := make([]dataset.Column, 0, len(ds.Columns())+1)
	cols = append(cols, surrogate)
	for _, c := range ds.Columns() {
		cols = append(cols, c.Clone())
	}
	working, err := dataset.New(cols...)
	if err != nil {
		// The surrogate name collided with an existing column; fall
		// back to the original dataset keyed on the first column.
		logging.Warn("surrogate key %q collides with an existing column", pk)
		return ds, ds.Columns()[0].Name, false
	}
	logging.Debug("synthesized surrogate key %q", pk)
	return working, pk, true
}

// uniqueRows projects the named columns and deduplicates to unique
// value combinations, preserving first-occurrence order.
func uniqueRows(ds *dataset.Dataset, names []string) []dataset.Column {
	src := make([]*dataset.Column, len(names))
	for i, name := range names {
		src[i] = ds.Column(name)
	}

	out := make([]dataset.Column, len(names))
	for i, c := range src {
		out[i] = dataset.Column{Name: c.Name, Kind: c.Kind}
	}

	seen := make(map[string]struct{}, ds.Rows())
	var keyBuf strings.Builder
	for r := 0; r < ds.Rows(); r++ {
		keyBuf.Reset()
		for _, c := range src {
			// Length-prefixed components: value keys may contain any
			// byte, so a bare separator would let distinct rows collide.
			k := c.Values[r].Key()
			keyBuf.WriteString(strconv.Itoa(len(k)))
			keyBuf.WriteByte(':')
			keyBuf.WriteString(k)
		}
		key := keyBuf.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		for i, c := range src {
			out[i].Values = append(out[i].Values, c.Values[r])
		}
	}
	return out
}

func orderLike(order, subset []string) []string {
	want := make(map[string]bool, len(subset))
	for _, s := range subset {
		want[s] = true
	}
	var out []string
	for _, name := range order {
		if want[name] {
			out = append(out, name)
		}
	}
	return out
}
