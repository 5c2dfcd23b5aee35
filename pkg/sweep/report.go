package sweep

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/peter-kozarec/robfit/pkg/rho"
)

// Report aggregates the per-efficiency fits of one sweep. Matrix rows
// and columns are indexed by grid position, never by completion order,
// so reports are deterministic under concurrency.
type Report struct {
	ID     uuid.UUID
	Family rho.Family
	Grid   []float64

	// Coefficients has one row per grid value: the efficiency followed
	// by the p fitted coefficients.
	Coefficients *mat.Dense

	// TStats holds coefficient t-statistics, one row per grid value.
	TStats *mat.Dense

	// Residuals and Weights have one row per observation and one column
	// per grid value.
	Residuals *mat.Dense
	Weights   *mat.Dense

	// Outliers[i][g] reports whether observation i was flagged at grid
	// value g.
	Outliers [][]bool

	// Converged[g] is false when the refinement exhausted its iteration
	// budget at grid value g. The coefficients are still the last
	// iterate.
	Converged []bool

	// Failures maps grid positions to the error that prevented a fit
	// there. Matrix slots of failed positions hold NaN. Populated only
	// when the sweep runs with WithContinueOnError.
	Failures map[int]error
}

// OutlierCounts sums flagged observations per grid value.
func (r *Report) OutlierCounts() []int {
	counts := make([]int, len(r.Grid))
	for _, row := range r.Outliers {
		for g, flagged := range row {
			if flagged {
				counts[g]++
			}
		}
	}
	return counts
}

// Fields summarizes the report for structured logging.
func (r *Report) Fields() []zap.Field {
	n := len(r.Outliers)
	return []zap.Field{
		zap.String("report_id", r.ID.String()),
		zap.String("family", r.Family.String()),
		zap.Int("grid_size", len(r.Grid)),
		zap.Int("observations", n),
		zap.Int("failures", len(r.Failures)),
	}
}
