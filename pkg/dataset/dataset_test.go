package dataset

import (
	"errors"
	"math"
	"testing"
)

func TestCleanDropsNonFiniteRows(t *testing.T) {
	y := []float64{1, math.NaN(), 3, 4, 5}
	rows := [][]float64{
		{1, 2},
		{3, 4},
		{math.Inf(1), 6},
		{7, math.NaN()},
		{9, 10},
	}

	set, err := Clean(y, rows)
	if err != nil {
		t.Fatal(err)
	}

	n, p := set.Dims()
	if n != 2 || p != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", n, p)
	}
	wantKept := []int{0, 4}
	for i, k := range wantKept {
		if set.Kept[i] != k {
			t.Fatalf("Kept = %v, want %v", set.Kept, wantKept)
		}
	}
	if set.Y.AtVec(1) != 5 || set.X.At(1, 1) != 10 {
		t.Error("kept rows not copied in input order")
	}
}

func TestCleanWithIntercept(t *testing.T) {
	set, err := Clean([]float64{1, 2}, [][]float64{{5}, {6}}, WithIntercept())
	if err != nil {
		t.Fatal(err)
	}
	n, p := set.Dims()
	if n != 2 || p != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", n, p)
	}
	for i := 0; i < n; i++ {
		if set.X.At(i, 0) != 1 {
			t.Fatalf("row %d: intercept column is %v", i, set.X.At(i, 0))
		}
	}
	if set.X.At(0, 1) != 5 || set.X.At(1, 1) != 6 {
		t.Error("design columns shifted incorrectly")
	}
}

func TestCleanErrors(t *testing.T) {
	tests := []struct {
		name string
		y    []float64
		rows [][]float64
		want error
	}{
		{
			name: "length mismatch",
			y:    []float64{1, 2, 3},
			rows: [][]float64{{1}, {2}},
			want: ErrDimensionMismatch,
		},
		{
			name: "ragged row",
			y:    []float64{1, 2},
			rows: [][]float64{{1, 2}, {3}},
			want: ErrDimensionMismatch,
		},
		{
			name: "empty input",
			y:    nil,
			rows: nil,
			want: ErrNoObservations,
		},
		{
			name: "all rows non-finite",
			y:    []float64{math.NaN(), math.Inf(-1)},
			rows: [][]float64{{1}, {2}},
			want: ErrNoObservations,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Clean(tt.y, tt.rows); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
