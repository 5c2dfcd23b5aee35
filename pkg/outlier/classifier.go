// Package outlier declares observations outlying when their absolute
// scaled residual exceeds the square root of a chi-square(1) quantile.
package outlier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var ErrInvalidConfidenceLevel = errors.New("confidence level outside (0, 1)")

// DefaultConfidenceLevel matches the conventional 0.975 band.
const DefaultConfidenceLevel = 0.975

// Classification is the outcome of thresholding one residual vector.
type Classification struct {
	Indices   []int   // flagged observation positions, ascending
	Threshold float64 // sqrt of the chi-square(1) quantile
	ConfLevel float64 // confidence level the threshold was built from
}

// Classify flags every scaled residual with magnitude above the
// chi-square(1) quantile threshold at conflev. Deterministic, no
// iteration.
func Classify(scaledResiduals []float64, conflev float64) (Classification, error) {
	if conflev <= 0 || conflev >= 1 {
		return Classification{}, fmt.Errorf("%w: %g", ErrInvalidConfidenceLevel, conflev)
	}

	threshold := math.Sqrt(distuv.ChiSquared{K: 1}.Quantile(conflev))

	cls := Classification{Threshold: threshold, ConfLevel: conflev}
	for i, r := range scaledResiduals {
		if math.Abs(r) > threshold {
			cls.Indices = append(cls.Indices, i)
		}
	}
	return cls, nil
}

// IsOutlier reports whether observation i was flagged.
func (c Classification) IsOutlier(i int) bool {
	for _, idx := range c.Indices {
		if idx == i {
			return true
		}
		if idx > i {
			return false
		}
	}
	return false
}
