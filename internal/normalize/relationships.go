package normalize

import "github.com/johndauphine/datanorm/internal/dataset"

// Relationship records a foreign-key-like containment: every distinct
// value of Column in FromTable also appears in ToTable.
type Relationship struct {
	FromTable string
	ToTable   string
	Column    string
}

// Relationships infers relationships between tables by value-set
// containment on shared column names. For each table pair (in
// decomposition order) and each column name both tables carry, the
// subset side becomes the relationship's origin. Equal value sets
// record a single direction determined by pair order, which is an
// arbitrary but stable tie-break rather than a canonical one.
func Relationships(tables []*Table) []Relationship {
	var rels []Relationship

	for i := 0; i < len(tables); i++ {
		for j := i + 1; j < len(tables); j++ {
			for _, name := range tables[i].ColumnNames() {
				other := tables[j].Column(name)
				if other == nil {
					continue
				}
				vals1 := distinctKeys(tables[i].Column(name))
				vals2 := distinctKeys(other)

				switch {
				case subset(vals1, vals2):
					rels = append(rels, Relationship{
						FromTable: tables[i].Name,
						ToTable:   tables[j].Name,
						Column:    name,
					})
				case subset(vals2, vals1):
					rels = append(rels, Relationship{
						FromTable: tables[j].Name,
						ToTable:   tables[i].Name,
						Column:    name,
					})
				}
			}
		}
	}
	return rels
}

// IndexColumns returns the columns worth indexing when the table is
// persisted: the primary key, declared foreign keys, and any column
// through which this table references another, deduplicated in that
// order.
func (t *Table) IndexColumns(rels []Relationship) []string {
	seen := map[string]bool{}
	var cols []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			cols = append(cols, name)
		}
	}
	add(t.PrimaryKey)
	for _, fk := range t.ForeignKeys {
		add(fk)
	}
	for _, rel := range rels {
		if rel.FromTable == t.Name {
			add(rel.Column)
		}
	}
	return cols
}

func distinctKeys(col *dataset.Column) map[string]struct{} {
	keys := make(map[string]struct{}, len(col.Values))
	for _, v := range col.Values {
		keys[v.Key()] = struct{}{}
	}
	return keys
}

func subset(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
