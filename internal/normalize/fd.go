// Package normalize implements the 3NF approximation: functional
// dependency discovery over a cleaned dataset, primary-key selection,
// table decomposition, and relationship inference between the
// resulting tables.
package normalize

import (
	"github.com/johndauphine/datanorm/internal/dataset"
	"github.com/johndauphine/datanorm/internal/logging"
)

// FD is a functional dependency: the determinant column's value fixes
// the value of every dependent column.
type FD struct {
	Determinant string
	Dependents  []string
}

// DiscoverFDs finds single-column functional dependencies with a strict
// check: A determines B only if every group of rows sharing a value of
// A has exactly one distinct value of B. Both loops walk columns in
// dataset order, and that order fixes the decomposition downstream.
// onPair, if non-nil, is called after each checked pair with the number
// of pairs done and the total. Cost is O(columns² × rows).
func DiscoverFDs(ds *dataset.Dataset, onPair func(done, total int64)) []FD {
	cols := ds.Columns()
	n := len(cols)
	total := int64(n) * int64(n-1)
	var done int64

	var fds []FD
	for i := 0; i < n; i++ {
		var dependents []string
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if determines(&cols[i], &cols[j]) {
				dependents = append(dependents, cols[j].Name)
			}
			done++
			if onPair != nil {
				onPair(done, total)
			}
		}
		if len(dependents) > 0 {
			fds = append(fds, FD{Determinant: cols[i].Name, Dependents: dependents})
		}
	}

	for _, fd := range fds {
		logging.Debug("dependency: %s -> %v", fd.Determinant, fd.Dependents)
	}
	return fds
}

// determines groups det's values and checks that each group maps to a
// single dep value. A single exception row anywhere breaks the
// dependency.
func determines(det, dep *dataset.Column) bool {
	seen := make(map[string]string, len(det.Values))
	for r := range det.Values {
		detKey := det.Values[r].Key()
		depKey := dep.Values[r].Key()
		if prev, ok := seen[detKey]; ok {
			if prev != depKey {
				return false
			}
		} else {
			seen[detKey] = depKey
		}
	}
	return true
}
