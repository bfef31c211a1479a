// Package pipeline sequences the normalization stages: type validation,
// constraint validation, null imputation, dependency discovery, 3NF
// decomposition, and relationship inference.
package pipeline

import (
	"fmt"

	"github.com/johndauphine/datanorm/internal/dataset"
	"github.com/johndauphine/datanorm/internal/impute"
	"github.com/johndauphine/datanorm/internal/logging"
	"github.com/johndauphine/datanorm/internal/normalize"
	"github.com/johndauphine/datanorm/internal/progress"
	"github.com/johndauphine/datanorm/internal/validate"
)

// Options contains pipeline execution configuration.
type Options struct {
	// ExpectedTypes maps column names to expected type categories.
	// When nil, types are inferred and logged but never rejected.
	ExpectedTypes map[string]string

	// Constraints maps column names to their constraint sets.
	// Constraint validation is skipped entirely when empty.
	Constraints map[string]validate.Constraint

	// NullStrategy maps column names to a null-handling strategy name
	// or a literal replacement value.
	NullStrategy map[string]string

	// Strict stops the run after the validation stages if any
	// validation error was recorded. Errors are otherwise non-fatal.
	Strict bool

	// ShowProgress renders a progress bar over dependency discovery.
	ShowProgress bool
}

// Result is the outcome of one pipeline run.
type Result struct {
	Tables        []*normalize.Table
	Relationships []normalize.Relationship
	Metrics       *normalize.Metrics
}

// Table returns the named result table, or nil.
func (r *Result) Table(name string) *normalize.Table {
	return normalize.FindTable(r.Tables, name)
}

// Process runs the full pipeline over the dataset. Validation findings
// are recorded in the metrics and do not abort the run unless
// opts.Strict is set. The input dataset is never mutated.
func Process(ds *dataset.Dataset, tableName string, opts Options) (*Result, error) {
	if tableName == "" {
		tableName = "data"
	}

	metrics := normalize.NewMetrics()
	metrics.OriginalTables = 1
	metrics.OriginalColumns = len(ds.Columns())

	logging.Info("starting normalization run %s for table %q (%d columns, %d rows)",
		metrics.RunID, tableName, len(ds.Columns()), ds.Rows())

	logging.Info("[1/6] validating data types")
	if ok, report := validate.Types(ds, opts.ExpectedTypes); !ok {
		warnFindings("type validation", report.Errors)
		metrics.AddValidationErrors(report.Errors)
	}

	if len(opts.Constraints) > 0 {
		logging.Info("[2/6] validating constraints")
		if ok, report := validate.Constraints(ds, opts.Constraints); !ok {
			warnFindings("constraint validation", report.Errors)
			metrics.AddValidationErrors(report.Errors)
		}
	} else {
		logging.Info("[2/6] no constraints specified, skipping validation")
	}

	if opts.Strict && len(metrics.ValidationErrors) > 0 {
		metrics.Finalize()
		return &Result{Metrics: metrics},
			fmt.Errorf("strict mode: %d validation errors", len(metrics.ValidationErrors))
	}

	logging.Info("[3/6] handling null values")
	clean, handled := impute.Apply(ds, opts.NullStrategy)
	metrics.NullsHandled = handled

	logging.Info("[4/6] discovering functional dependencies")
	fds := discoverWithProgress(clean, opts.ShowProgress)

	logging.Info("[5/6] decomposing schema")
	tables := normalize.Decompose(clean, tableName, fds)
	metrics.NormalizedTables = len(tables)
	for _, t := range tables {
		metrics.NormalizedColumns += len(t.Columns)
	}
	metrics.NormalizationLevel = "3NF"

	logging.Info("[6/6] inferring relationships")
	rels := normalize.Relationships(tables)
	metrics.Relationships = len(rels)
	logging.Info("identified %d relationships between %d tables", len(rels), len(tables))

	metrics.RedundancyReduction = normalize.Reduction(ds, tables)
	metrics.Finalize()

	return &Result{Tables: tables, Relationships: rels, Metrics: metrics}, nil
}

// warnFindings logs the first few findings of a validation stage.
func warnFindings(stage string, errs []string) {
	logging.Warn("%s found %d issues", stage, len(errs))
	for i, e := range errs {
		if i == 5 {
			logging.Warn("  ... %d more", len(errs)-i)
			break
		}
		logging.Warn("  - %s", e)
	}
}

func discoverWithProgress(ds *dataset.Dataset, show bool) []normalize.FD {
	cols := int64(len(ds.Columns()))
	tracker := progress.New(!show)
	tracker.SetTotal(cols * (cols - 1))
	fds := normalize.DiscoverFDs(ds, func(done, total int64) {
		tracker.Add(1)
	})
	tracker.Finish()
	return fds
}
