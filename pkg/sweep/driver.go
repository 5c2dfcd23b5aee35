// Package sweep refits a robust regression across a grid of target
// efficiencies and aggregates coefficients, t-statistics, residuals,
// weights and outlier declarations into one report. Monitoring how
// these evolve with efficiency separates genuine outliers from
// observations a single arbitrary tuning would misjudge.
package sweep

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/peter-kozarec/robfit/pkg/dataset"
	"github.com/peter-kozarec/robfit/pkg/estimate"
	"github.com/peter-kozarec/robfit/pkg/irls"
	"github.com/peter-kozarec/robfit/pkg/outlier"
	"github.com/peter-kozarec/robfit/pkg/rho"
)

// Run sweeps the efficiency grid over the cleaned observation set,
// refining the starting fit once per grid value. Grid values are
// mutually independent and run on a bounded pool of workers; the shared
// inputs are only read and every worker writes to its own grid-indexed
// slots.
//
// Without WithContinueOnError the first failing grid value (in grid
// order) aborts the sweep. With it, failures are recorded in
// Report.Failures, their matrix slots stay NaN and the remaining grid
// values complete normally.
func Run(ctx context.Context, set *dataset.Set, start *estimate.Fit, opts ...Option) (*Report, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	n, p := set.Dims()
	if len(start.Beta) != p {
		return nil, fmt.Errorf("sweep: starting fit has %d coefficients, design has %d columns", len(start.Beta), p)
	}

	report := newReport(cfg, n, p)

	errs := make([]error, len(cfg.grid))
	sem := make(chan struct{}, cfg.workers)
	var wg sync.WaitGroup

	for g, eff := range cfg.grid {
		select {
		case <-ctx.Done():
			errs[g] = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(g int, eff float64) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := runOne(cfg, set, start, report, g, eff); err != nil {
				errs[g] = err
				cfg.logger.Warn("grid value failed",
					zap.Float64("efficiency", eff),
					zap.Error(err))
				return
			}
			cfg.logger.Debug("grid value refined", zap.Float64("efficiency", eff))
		}(g, eff)
	}
	wg.Wait()

	for g, err := range errs {
		if err == nil {
			continue
		}
		if !cfg.continueOn {
			return nil, fmt.Errorf("sweep at efficiency %g: %w", cfg.grid[g], err)
		}
		report.Failures[g] = err
	}
	return report, nil
}

// runOne calibrates, refines and classifies a single grid value,
// writing into the report slots owned by grid position g.
func runOne(cfg config, set *dataset.Set, start *estimate.Fit, report *Report, g int, eff float64) error {
	fn, err := rho.Calibrate(cfg.family, eff, cfg.familyOpts...)
	if err != nil {
		return err
	}

	res, err := irls.Fit(set.Y, set.X, start.Beta, start.Scale, fn,
		irls.WithRefSteps(cfg.refSteps), irls.WithRefTol(cfg.refTol))
	if err != nil {
		return err
	}

	cls, err := outlier.Classify(res.Residuals, cfg.conflev)
	if err != nil {
		return err
	}

	cov, err := cfg.cov.Covariance(set.X, res.Residuals, start.Scale, fn)
	if err != nil {
		return err
	}

	report.Coefficients.Set(g, 0, eff)
	for j, b := range res.Beta {
		report.Coefficients.Set(g, 1+j, b)
		report.TStats.Set(g, j, b/math.Sqrt(cov.At(j, j)))
	}
	for i := range res.Residuals {
		report.Residuals.Set(i, g, res.Residuals[i])
		report.Weights.Set(i, g, res.Weights[i])
	}
	for _, idx := range cls.Indices {
		report.Outliers[idx][g] = true
	}
	report.Converged[g] = res.Converged
	return nil
}

func newReport(cfg config, n, p int) *Report {
	grid := append([]float64(nil), cfg.grid...)
	report := &Report{
		ID:           uuid.Must(uuid.NewV7()),
		Family:       cfg.family,
		Grid:         grid,
		Coefficients: nanDense(len(grid), 1+p),
		TStats:       nanDense(len(grid), p),
		Residuals:    nanDense(n, len(grid)),
		Weights:      nanDense(n, len(grid)),
		Outliers:     make([][]bool, n),
		Converged:    make([]bool, len(grid)),
		Failures:     make(map[int]error),
	}
	for i := range report.Outliers {
		report.Outliers[i] = make([]bool, len(grid))
	}
	return report
}

// nanDense pre-fills a matrix so failed grid slots are visibly NaN
// rather than silently zero.
func nanDense(r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = math.NaN()
	}
	return mat.NewDense(r, c, data)
}

// FailedGridValues lists the efficiencies whose slots failed, in grid
// order.
func (r *Report) FailedGridValues() []float64 {
	if len(r.Failures) == 0 {
		return nil
	}
	idx := make([]int, 0, len(r.Failures))
	for g := range r.Failures {
		idx = append(idx, g)
	}
	sort.Ints(idx)
	effs := make([]float64, len(idx))
	for i, g := range idx {
		effs[i] = r.Grid[g]
	}
	return effs
}
