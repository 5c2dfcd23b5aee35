// Package stats holds the order-statistic helpers shared by the
// estimators.
package stats

import "sort"

// Median returns the sample median, averaging the two central order
// statistics for even lengths. Zero for an empty sample.
func Median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MAD returns the raw median absolute deviation about the sample
// median. Multiply by 1.4826 for consistency at the normal model.
func MAD(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	med := Median(data)
	dev := make([]float64, len(data))
	for i, v := range data {
		d := v - med
		if d < 0 {
			d = -d
		}
		dev[i] = d
	}
	return Median(dev)
}
