package normalize

import (
	"reflect"
	"testing"

	"github.com/johndauphine/datanorm/internal/dataset"
)

// End-to-end over the order example: one lookup table for customers,
// base table keeps the order key plus the customer foreign key.
func TestDecomposeOrders(t *testing.T) {
	ds := orderDataset()
	tables := Decompose(ds, "data", DiscoverFDs(ds, nil))

	if len(tables) != 2 {
		t.Fatalf("got %d tables %v, want 2", len(tables), tableNames(tables))
	}

	lookup := FindTable(tables, "data_customer_id")
	if lookup == nil {
		t.Fatalf("missing table data_customer_id, have %v", tableNames(tables))
	}
	if got := lookup.ColumnNames(); !reflect.DeepEqual(got, []string{"customer_id", "customer_name"}) {
		t.Errorf("lookup columns = %v", got)
	}
	if lookup.Rows() != 3 {
		t.Errorf("lookup rows = %d, want 3", lookup.Rows())
	}
	if lookup.PrimaryKey != "customer_id" {
		t.Errorf("lookup primary key = %q", lookup.PrimaryKey)
	}
	wantIDs := []string{"101", "102", "103"}
	wantNames := []string{"A", "B", "C"}
	for r := 0; r < 3; r++ {
		if got := lookup.Column("customer_id").Values[r].String(); got != wantIDs[r] {
			t.Errorf("lookup row %d id = %s, want %s", r, got, wantIDs[r])
		}
		if got := lookup.Column("customer_name").Values[r].String(); got != wantNames[r] {
			t.Errorf("lookup row %d name = %s, want %s", r, got, wantNames[r])
		}
	}

	base := tables[len(tables)-1]
	if base.Name != "data" {
		t.Fatalf("base table must come last, got %q", base.Name)
	}
	if got := base.ColumnNames(); !reflect.DeepEqual(got, []string{"order_id", "customer_id"}) {
		t.Errorf("base columns = %v", got)
	}
	if base.Rows() != 5 {
		t.Errorf("base rows = %d, want 5", base.Rows())
	}
	if base.PrimaryKey != "order_id" || base.SyntheticKey {
		t.Errorf("base key = %q synthetic=%v, want order_id natural", base.PrimaryKey, base.SyntheticKey)
	}
	if !reflect.DeepEqual(base.ForeignKeys, []string{"customer_id"}) {
		t.Errorf("base foreign keys = %v", base.ForeignKeys)
	}
}

func TestDecomposeDegenerate(t *testing.T) {
	ds := dataset.MustNew(
		intCol("a", 1, 1, 2, 2),
		intCol("b", 1, 2, 1, 2),
	)
	tables := Decompose(ds, "data", DiscoverFDs(ds, nil))

	if len(tables) != 1 {
		t.Fatalf("independent columns must yield one table, got %v", tableNames(tables))
	}
	base := tables[0]
	if got := base.ColumnNames(); !reflect.DeepEqual(got, []string{"data_id", "a", "b"}) {
		t.Errorf("base columns = %v", got)
	}
	if base.PrimaryKey != "data_id" || !base.SyntheticKey {
		t.Errorf("expected synthesized key data_id, got %q synthetic=%v", base.PrimaryKey, base.SyntheticKey)
	}
	for r := 0; r < 4; r++ {
		v := base.Column("data_id").Values[r]
		if v.Null || v.Int != int64(r+1) {
			t.Errorf("data_id[%d] = %+v, want %d", r, v, r+1)
		}
	}
}

// Re-decomposing a lookup table produced by a previous decomposition
// must not extract anything further: both of its columns are fully
// unique, so every dependency is trivial.
func TestDecomposeExtractedTableIsStable(t *testing.T) {
	ds := dataset.MustNew(
		intCol("customer_id", 101, 102, 103),
		strCol("customer_name", "A", "B", "C"),
	)
	tables := Decompose(ds, "data_customer_id", DiscoverFDs(ds, nil))

	if len(tables) != 1 {
		t.Fatalf("got %d tables %v, want 1", len(tables), tableNames(tables))
	}
	base := tables[0]
	if base.Name != "data_customer_id" {
		t.Errorf("table name = %q", base.Name)
	}
	if got := base.ColumnNames(); !reflect.DeepEqual(got, []string{"customer_id", "customer_name"}) {
		t.Errorf("columns = %v", got)
	}
	if base.Rows() != 3 {
		t.Errorf("rows = %d, want 3", base.Rows())
	}
	if base.PrimaryKey != "customer_id" || base.SyntheticKey {
		t.Errorf("key = %q synthetic=%v, want customer_id natural", base.PrimaryKey, base.SyntheticKey)
	}
	if len(base.ForeignKeys) != 0 {
		t.Errorf("foreign keys = %v, want none", base.ForeignKeys)
	}
}

func TestDecomposePrimaryKeyLeftmostUnique(t *testing.T) {
	ds := dataset.MustNew(
		intCol("a", 1, 1, 2),
		intCol("first_key", 10, 20, 30),
		intCol("second_key", 7, 8, 9),
	)
	tables := Decompose(ds, "data", nil)

	base := tables[len(tables)-1]
	if base.PrimaryKey != "first_key" {
		t.Errorf("primary key = %q, want leftmost unique column first_key", base.PrimaryKey)
	}
	if base.SyntheticKey {
		t.Error("natural key must not be flagged synthetic")
	}
}

func TestDecomposeSurrogateNameCollision(t *testing.T) {
	ds := dataset.MustNew(
		intCol("data_id", 1, 1, 2),
		strCol("x", "a", "a", "b"),
	)
	tables := Decompose(ds, "data", nil)

	base := tables[len(tables)-1]
	if base.SyntheticKey {
		t.Error("collision with existing data_id column must not synthesize a key")
	}
	if base.PrimaryKey != "data_id" {
		t.Errorf("fallback primary key = %q, want first column data_id", base.PrimaryKey)
	}
}

// Every original column name survives somewhere in the output.
func TestDecomposeLosslessByColumns(t *testing.T) {
	ds := dataset.MustNew(
		intCol("sku", 7, 8, 7, 9),
		strCol("product", "pen", "ink", "pen", "pad"),
		intCol("qty", 1, 2, 3, 3),
		strCol("region", "n", "n", "s", "s"),
	)
	tables := Decompose(ds, "data", DiscoverFDs(ds, nil))

	covered := map[string]bool{}
	for _, tbl := range tables {
		for _, name := range tbl.ColumnNames() {
			covered[name] = true
		}
	}
	for _, name := range ds.ColumnNames() {
		if !covered[name] {
			t.Errorf("column %q lost in decomposition of %v", name, tableNames(tables))
		}
	}
}

func TestDecomposeDeterministic(t *testing.T) {
	ds := orderDataset()
	first := Decompose(ds, "data", DiscoverFDs(ds, nil))
	second := Decompose(ds, "data", DiscoverFDs(ds, nil))

	if !reflect.DeepEqual(tableNames(first), tableNames(second)) {
		t.Fatalf("table order differs: %v vs %v", tableNames(first), tableNames(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i].ColumnNames(), second[i].ColumnNames()) {
			t.Errorf("table %q column order differs", first[i].Name)
		}
		if !reflect.DeepEqual(first[i].ForeignKeys, second[i].ForeignKeys) {
			t.Errorf("table %q foreign keys differ", first[i].Name)
		}
	}
}

func TestDecomposeInputNotMutated(t *testing.T) {
	ds := orderDataset()
	want := ds.Clone()

	Decompose(ds, "data", DiscoverFDs(ds, nil))

	if !reflect.DeepEqual(ds.Columns(), want.Columns()) {
		t.Error("input dataset mutated by decomposition")
	}
}

// Text values may contain any byte, so row deduplication must not rely
// on a separator character alone to keep composite keys distinct.
func TestUniqueRowsSeparatorInValues(t *testing.T) {
	ds := dataset.MustNew(
		strCol("a", "a\x1fs:b", "a"),
		strCol("b", "c", "b\x1fs:c"),
	)
	cols := uniqueRows(ds, []string{"a", "b"})

	if got := len(cols[0].Values); got != 2 {
		t.Fatalf("got %d unique rows, want 2", got)
	}
	if cols[0].Values[1].Str != "a" || cols[1].Values[1].Str != "b\x1fs:c" {
		t.Errorf("second row = (%q, %q)", cols[0].Values[1].Str, cols[1].Values[1].Str)
	}
}

func tableNames(tables []*Table) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
