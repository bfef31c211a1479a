// Package impute fills or drops missing values per configurable
// per-column strategy.
package impute

import (
	"sort"
	"time"

	"github.com/johndauphine/datanorm/internal/dataset"
	"github.com/johndauphine/datanorm/internal/logging"
)

// Named strategies. Any other non-empty strategy string is treated as a
// literal replacement value for the column.
const (
	StrategyDrop         = "drop"
	StrategyMean         = "mean"
	StrategyMedian       = "median"
	StrategyMode         = "mode"
	StrategyForwardFill  = "forward_fill"
	StrategyBackwardFill = "backward_fill"
	StrategyDefault      = "default"
)

// Sentinel defaults used by the "default" strategy.
var (
	defaultTime = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

const defaultText = "Unknown"

// Apply processes columns strictly in dataset order and returns a new
// dataset plus the total null count handled. Columns with no strategy
// use "default". The handled count for each column is the null count
// observed when that column's turn comes, so a "drop" on an earlier
// column reduces (or grows no further) what later columns see.
func Apply(ds *dataset.Dataset, strategies map[string]string) (*dataset.Dataset, int) {
	out := ds.Clone()
	handled := 0

	for i := 0; i < len(out.Columns()); i++ {
		col := &out.Columns()[i]

		nulls := col.NullCount()
		if nulls == 0 {
			continue
		}
		handled += nulls

		strategy := StrategyDefault
		if s, ok := strategies[col.Name]; ok && s != "" {
			strategy = s
		}

		switch strategy {
		case StrategyDrop:
			dropNullRows(out, i)
		case StrategyMean:
			fillCenter(col, mean)
		case StrategyMedian:
			fillCenter(col, median)
		case StrategyMode:
			fillMode(col)
		case StrategyForwardFill:
			forwardFill(col)
		case StrategyBackwardFill:
			backwardFill(col)
		case StrategyDefault:
			fillDefault(col)
		default:
			fillLiteral(col, strategy)
		}
	}

	logging.Info("handled %d NULL values", handled)
	return out, handled
}

// dropNullRows removes every row where column idx is null, across all
// columns of the dataset.
func dropNullRows(ds *dataset.Dataset, idx int) {
	cols := ds.Columns()
	keep := make([]bool, len(cols[idx].Values))
	for r, v := range cols[idx].Values {
		keep[r] = !v.Null
	}
	for c := range cols {
		filtered := cols[c].Values[:0]
		for r, v := range cols[c].Values {
			if keep[r] {
				filtered = append(filtered, v)
			}
		}
		cols[c].Values = filtered
	}
}

// fillCenter fills nulls with a central statistic over the non-null
// values. Non-numeric columns are left untouched. Filling promotes the
// column to float, since the statistic is generally fractional.
func fillCenter(col *dataset.Column, stat func([]float64) float64) {
	if !col.Kind.IsNumeric() {
		return
	}
	var sample []float64
	for _, v := range col.Values {
		if f, ok := v.AsFloat(); ok {
			sample = append(sample, f)
		}
	}
	if len(sample) == 0 {
		return
	}
	fill := stat(sample)

	for r, v := range col.Values {
		if v.Null {
			col.Values[r] = dataset.FloatValue(fill)
		} else {
			f, _ := v.AsFloat()
			col.Values[r] = dataset.FloatValue(f)
		}
	}
	col.Kind = dataset.KindFloat
}

func mean(sample []float64) float64 {
	sum := 0.0
	for _, f := range sample {
		sum += f
	}
	return sum / float64(len(sample))
}

func median(sample []float64) float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// fillMode fills nulls with the first most frequent non-null value.
// Ties break toward the value seen first.
func fillMode(col *dataset.Column) {
	counts := make(map[string]int, len(col.Values))
	first := make(map[string]int, len(col.Values))
	for r, v := range col.Values {
		if v.Null {
			continue
		}
		key := v.Key()
		counts[key]++
		if _, ok := first[key]; !ok {
			first[key] = r
		}
	}
	if len(counts) == 0 {
		return
	}

	bestKey := ""
	for key := range counts {
		if bestKey == "" ||
			counts[key] > counts[bestKey] ||
			(counts[key] == counts[bestKey] && first[key] < first[bestKey]) {
			bestKey = key
		}
	}
	fill := col.Values[first[bestKey]]

	for r, v := range col.Values {
		if v.Null {
			col.Values[r] = fill
		}
	}
}

// forwardFill propagates the nearest prior non-null value. Leading
// nulls remain null.
func forwardFill(col *dataset.Column) {
	var last dataset.Value
	haveLast := false
	for r, v := range col.Values {
		if v.Null {
			if haveLast {
				col.Values[r] = last
			}
		} else {
			last = v
			haveLast = true
		}
	}
}

// backwardFill propagates the nearest following non-null value.
// Trailing nulls remain null.
func backwardFill(col *dataset.Column) {
	var next dataset.Value
	haveNext := false
	for r := len(col.Values) - 1; r >= 0; r-- {
		v := col.Values[r]
		if v.Null {
			if haveNext {
				col.Values[r] = next
			}
		} else {
			next = v
			haveNext = true
		}
	}
}

// fillDefault fills with 0 for numeric columns, a sentinel date for
// datetime, and a sentinel string otherwise. Boolean and unknown
// columns become text columns so the sentinel fits.
func fillDefault(col *dataset.Column) {
	switch col.Kind {
	case dataset.KindInt:
		replaceNulls(col, dataset.IntValue(0))
	case dataset.KindFloat:
		replaceNulls(col, dataset.FloatValue(0))
	case dataset.KindTime:
		replaceNulls(col, dataset.TimeValue(defaultTime))
	case dataset.KindString:
		replaceNulls(col, dataset.StringValue(defaultText))
	default:
		toText(col)
		replaceNulls(col, dataset.StringValue(defaultText))
	}
}

// fillLiteral fills with a caller-supplied literal parsed for the
// column's kind. A literal that cannot be parsed for the kind turns the
// column into text, keeping rows homogeneous.
func fillLiteral(col *dataset.Column, literal string) {
	fill := dataset.ParseLiteral(literal, col.Kind)
	if fill.Kind != col.Kind && col.Kind != dataset.KindUnknown {
		toText(col)
		fill = dataset.StringValue(literal)
	}
	if col.Kind == dataset.KindUnknown {
		col.Kind = fill.Kind
	}
	replaceNulls(col, fill)
}

func replaceNulls(col *dataset.Column, fill dataset.Value) {
	for r, v := range col.Values {
		if v.Null {
			col.Values[r] = fill
		}
	}
}

func toText(col *dataset.Column) {
	for r, v := range col.Values {
		if !v.Null {
			col.Values[r] = dataset.StringValue(v.String())
		} else {
			col.Values[r] = dataset.NullValue(dataset.KindString)
		}
	}
	col.Kind = dataset.KindString
}
