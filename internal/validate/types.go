// Package validate checks datasets against expected type categories and
// declared column constraints. Validators are stateless; each call
// returns its own Report and the caller decides how to accumulate
// findings across stages.
package validate

import (
	"fmt"
	"sort"

	"github.com/johndauphine/datanorm/internal/dataset"
	"github.com/johndauphine/datanorm/internal/logging"
)

// Report collects the findings of a single validation call.
type Report struct {
	Errors []string
}

// OK reports whether the validation passed with no findings.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

func (r *Report) addf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Types validates column categories. With a nil expected map, every
// column's already-inferred category is reported at debug level and the
// validation passes. Otherwise each expected entry is checked against
// the column's actual category through the compatibility table.
func Types(ds *dataset.Dataset, expected map[string]string) (bool, Report) {
	var report Report

	if expected == nil {
		for _, c := range ds.Columns() {
			logging.Debug("column %q inferred as type: %s", c.Name, c.Kind)
		}
		return true, report
	}

	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		col := ds.Column(name)
		if col == nil {
			report.addf("expected column %q not found in data", name)
			continue
		}
		want, err := dataset.ParseKind(expected[name])
		if err != nil {
			report.addf("column %q: %v", name, err)
			continue
		}
		if !compatible(col.Kind, want) {
			report.addf("column %q: expected type %q, got %q", name, want, col.Kind)
		}
	}

	return report.OK(), report
}

// compatible reports whether a column of the actual category satisfies
// the expected one. Float accepts integer-valued columns; a column with
// no observed values satisfies any expectation.
func compatible(actual, expected dataset.Kind) bool {
	if actual == expected {
		return true
	}
	if actual == dataset.KindUnknown {
		return true
	}
	if expected == dataset.KindFloat && actual == dataset.KindInt {
		return true
	}
	return false
}
