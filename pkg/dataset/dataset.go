// Package dataset prepares raw observations for the estimators: rows
// carrying non-finite values are dropped and an intercept column can be
// prepended.
package dataset

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimensionMismatch = errors.New("response and design dimensions disagree")
	ErrNoObservations    = errors.New("no usable observations")
)

// Set is a cleaned observation set ready for fitting.
type Set struct {
	Y *mat.VecDense
	X *mat.Dense

	// Kept maps cleaned row positions back to the raw input rows.
	Kept []int
}

type config struct {
	intercept bool
}

type Option func(*config)

// WithIntercept prepends a column of ones to the design matrix.
func WithIntercept() Option {
	return func(c *config) {
		c.intercept = true
	}
}

// Clean validates dimensions, drops every row where the response or any
// design entry is NaN or infinite, and assembles the dense matrices.
func Clean(y []float64, rows [][]float64, opts ...Option) (*Set, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(rows) != len(y) {
		return nil, fmt.Errorf("%w: %d responses, %d design rows", ErrDimensionMismatch, len(y), len(rows))
	}
	if len(y) == 0 {
		return nil, ErrNoObservations
	}

	p := len(rows[0])
	kept := make([]int, 0, len(y))
	for i, row := range rows {
		if len(row) != p {
			return nil, fmt.Errorf("%w: row %d has %d entries, expected %d", ErrDimensionMismatch, i, len(row), p)
		}
		if finiteRow(y[i], row) {
			kept = append(kept, i)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: every row carries a non-finite value", ErrNoObservations)
	}

	cols := p
	if cfg.intercept {
		cols++
	}

	set := &Set{
		Y:    mat.NewVecDense(len(kept), nil),
		X:    mat.NewDense(len(kept), cols, nil),
		Kept: kept,
	}
	for i, src := range kept {
		set.Y.SetVec(i, y[src])
		j := 0
		if cfg.intercept {
			set.X.Set(i, 0, 1)
			j = 1
		}
		for k, v := range rows[src] {
			set.X.Set(i, j+k, v)
		}
	}
	return set, nil
}

// Dims reports observations and columns of the cleaned design.
func (s *Set) Dims() (n, p int) {
	return s.X.Dims()
}

func finiteRow(y float64, row []float64) bool {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return false
	}
	for _, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
