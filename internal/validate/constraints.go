package validate

import (
	"regexp"
	"sort"

	"github.com/johndauphine/datanorm/internal/dataset"
)

// Constraint declares the checks to run against one column.
type Constraint struct {
	Unique        bool      `yaml:"unique"`
	NotNull       bool      `yaml:"not_null"`
	Range         []float64 `yaml:"range,flow"` // [min, max]
	Pattern       string    `yaml:"pattern"`
	AllowedValues []string  `yaml:"allowed_values,flow"`
}

// Constraints validates each constrained column. Columns are checked in
// sorted name order so findings are deterministic. A column referenced
// by a constraint but absent from the dataset yields one error and is
// skipped. Every violated constraint kind contributes its own error
// naming the column and the violation count.
func Constraints(ds *dataset.Dataset, constraints map[string]Constraint) (bool, Report) {
	var report Report

	names := make([]string, 0, len(constraints))
	for name := range constraints {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		col := ds.Column(name)
		if col == nil {
			report.addf("constraint column %q not found in data", name)
			continue
		}
		checkColumn(col, constraints[name], &report)
	}

	return report.OK(), report
}

func checkColumn(col *dataset.Column, c Constraint, report *Report) {
	if c.Unique {
		if dups := duplicateCount(col); dups > 0 {
			report.addf("column %q has %d duplicate values", col.Name, dups)
		}
	}

	if c.NotNull {
		if nulls := col.NullCount(); nulls > 0 {
			report.addf("column %q has %d NULL values", col.Name, nulls)
		}
	}

	if len(c.Range) == 2 {
		min, max := c.Range[0], c.Range[1]
		out := 0
		for _, v := range col.Values {
			f, ok := v.AsFloat()
			if !ok {
				continue
			}
			if f < min || f > max {
				out++
			}
		}
		if out > 0 {
			report.addf("column %q has %d values outside range [%v, %v]", col.Name, out, min, max)
		}
	}

	if c.Pattern != "" {
		// Anchored at the start, matching how patterns were applied
		// against the string form of each value historically.
		re, err := regexp.Compile("^(?:" + c.Pattern + ")")
		if err != nil {
			report.addf("column %q has invalid pattern %q: %v", col.Name, c.Pattern, err)
		} else {
			invalid := 0
			for _, v := range col.Values {
				if v.Null {
					continue
				}
				if !re.MatchString(v.String()) {
					invalid++
				}
			}
			if invalid > 0 {
				report.addf("column %q has %d values not matching pattern %q", col.Name, invalid, c.Pattern)
			}
		}
	}

	if len(c.AllowedValues) > 0 {
		allowed := make(map[string]struct{}, len(c.AllowedValues))
		for _, a := range c.AllowedValues {
			allowed[a] = struct{}{}
		}
		invalid := 0
		for _, v := range col.Values {
			// Nulls are never members of the allowed set.
			if _, ok := allowed[v.String()]; !ok || v.Null {
				invalid++
			}
		}
		if invalid > 0 {
			report.addf("column %q has %d values not in allowed set", col.Name, invalid)
		}
	}
}

// duplicateCount returns the number of occurrences beyond the first per
// distinct value: [1,2,2,3] counts 1.
func duplicateCount(col *dataset.Column) int {
	seen := make(map[string]struct{}, len(col.Values))
	dups := 0
	for _, v := range col.Values {
		key := v.Key()
		if _, ok := seen[key]; ok {
			dups++
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}
