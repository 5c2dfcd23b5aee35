package stats

import (
	"math"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		{name: "empty", data: nil, want: 0},
		{name: "single", data: []float64{3}, want: 3},
		{name: "odd length", data: []float64{9, 1, 5}, want: 5},
		{name: "even length", data: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "negatives", data: []float64{-5, 7, -1, 0, 3}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.data); got != tt.want {
				t.Errorf("Median = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	data := []float64{3, 1, 2}
	Median(data)
	if data[0] != 3 || data[1] != 1 || data[2] != 2 {
		t.Errorf("input mutated: %v", data)
	}
}

func TestMAD(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		{name: "empty", data: nil, want: 0},
		{name: "constant", data: []float64{2, 2, 2}, want: 0},
		{name: "symmetric", data: []float64{1, 2, 3, 4, 5}, want: 1},
		{name: "with outlier", data: []float64{1, 2, 3, 4, 100}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MAD(tt.data); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MAD = %v, want %v", got, tt.want)
			}
		})
	}
}
