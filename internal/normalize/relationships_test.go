package normalize

import (
	"reflect"
	"testing"

	"github.com/johndauphine/datanorm/internal/dataset"
)

func TestRelationshipsAfterDecompose(t *testing.T) {
	ds := orderDataset()
	tables := Decompose(ds, "data", DiscoverFDs(ds, nil))

	rels := Relationships(tables)
	want := []Relationship{{FromTable: "data_customer_id", ToTable: "data", Column: "customer_id"}}
	if !reflect.DeepEqual(rels, want) {
		t.Errorf("relationships = %+v, want %+v", rels, want)
	}
}

func TestRelationshipsStrictSubset(t *testing.T) {
	// The child references only a slice of the lookup's keys.
	child := &Table{Name: "orders", Columns: []dataset.Column{
		intCol("customer_id", 101, 101, 102),
	}}
	lookup := &Table{Name: "customers", Columns: []dataset.Column{
		intCol("customer_id", 101, 102, 103),
	}}

	rels := Relationships([]*Table{child, lookup})
	want := []Relationship{{FromTable: "orders", ToTable: "customers", Column: "customer_id"}}
	if !reflect.DeepEqual(rels, want) {
		t.Errorf("relationships = %+v, want %+v", rels, want)
	}

	// Reversed pair order flips which side is checked first but not the
	// containment direction.
	rels = Relationships([]*Table{lookup, child})
	if !reflect.DeepEqual(rels, want) {
		t.Errorf("reversed order relationships = %+v, want %+v", rels, want)
	}
}

func TestRelationshipsDisjointValues(t *testing.T) {
	a := &Table{Name: "a", Columns: []dataset.Column{intCol("id", 1, 2)}}
	b := &Table{Name: "b", Columns: []dataset.Column{intCol("id", 3, 4)}}

	if rels := Relationships([]*Table{a, b}); len(rels) != 0 {
		t.Errorf("disjoint value sets must not relate, got %+v", rels)
	}
}

func TestRelationshipsNoSharedColumns(t *testing.T) {
	a := &Table{Name: "a", Columns: []dataset.Column{intCol("x", 1, 2)}}
	b := &Table{Name: "b", Columns: []dataset.Column{intCol("y", 1, 2)}}

	if rels := Relationships([]*Table{a, b}); len(rels) != 0 {
		t.Errorf("tables without shared column names must not relate, got %+v", rels)
	}
}

func TestRelationshipsEqualSetsSingleDirection(t *testing.T) {
	a := &Table{Name: "a", Columns: []dataset.Column{intCol("id", 1, 2)}}
	b := &Table{Name: "b", Columns: []dataset.Column{intCol("id", 2, 1)}}

	rels := Relationships([]*Table{a, b})
	want := []Relationship{{FromTable: "a", ToTable: "b", Column: "id"}}
	if !reflect.DeepEqual(rels, want) {
		t.Errorf("equal sets must record exactly one direction, got %+v", rels)
	}
}
