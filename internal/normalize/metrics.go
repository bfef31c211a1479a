package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johndauphine/datanorm/internal/dataset"
)

// Metrics accumulates counts and ratios describing one normalization
// run. It is mutable while the pipeline executes and read-only once
// finalized.
type Metrics struct {
	RunID               string
	OriginalTables      int
	NormalizedTables    int
	OriginalColumns     int
	NormalizedColumns   int
	RedundancyReduction float64
	NullsHandled        int
	ValidationErrors    []string
	Relationships       int
	IndexesCreated      int
	NormalizationLevel  string
	ProcessingTime      time.Duration

	start time.Time
}

// NewMetrics starts a metrics record for a fresh run.
func NewMetrics() *Metrics {
	return &Metrics{
		RunID:              uuid.NewString(),
		NormalizationLevel: "Unknown",
		start:              time.Now(),
	}
}

// AddValidationErrors appends validation findings to the accumulator.
func (m *Metrics) AddValidationErrors(errs []string) {
	m.ValidationErrors = append(m.ValidationErrors, errs...)
}

// Finalize stamps the elapsed processing time.
func (m *Metrics) Finalize() {
	m.ProcessingTime = time.Since(m.start)
}

// String returns the metrics report.
func (m *Metrics) String() string {
	var sb strings.Builder
	line := func(label string, v any) {
		fmt.Fprintf(&sb, "%-28s %v\n", label+":", v)
	}
	sb.WriteString("Normalization Report\n")
	sb.WriteString("--------------------\n")
	line("Run ID", m.RunID)
	line("Original tables", m.OriginalTables)
	line("Normalized tables", m.NormalizedTables)
	line("Original columns", m.OriginalColumns)
	line("Normalized columns", m.NormalizedColumns)
	line("Normalization level", m.NormalizationLevel)
	line("NULL values handled", m.NullsHandled)
	line("Relationships found", m.Relationships)
	line("Indexes created", m.IndexesCreated)
	line("Redundancy reduction", fmt.Sprintf("%.2f%%", m.RedundancyReduction))
	line("Processing time", m.ProcessingTime.Round(time.Millisecond))
	line("Validation errors", len(m.ValidationErrors))
	return sb.String()
}

// Reduction computes the redundancy-reduction percentage: how many
// cells the decomposition eliminated relative to the original dataset.
// Never negative; decompositions that grow the cell count report zero.
func Reduction(original *dataset.Dataset, tables []*Table) float64 {
	origCells := original.Cells()
	if origCells == 0 {
		return 0
	}
	normCells := 0
	for _, t := range tables {
		normCells += t.Cells()
	}
	reduction := float64(origCells-normCells) / float64(origCells) * 100
	if reduction < 0 {
		return 0
	}
	return reduction
}
