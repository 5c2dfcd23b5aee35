package main

import (
	"context"
	"math"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/peter-kozarec/robfit/internal/dbg"
	"github.com/peter-kozarec/robfit/pkg/dataset"
	"github.com/peter-kozarec/robfit/pkg/estimate"
	"github.com/peter-kozarec/robfit/pkg/rho"
	"github.com/peter-kozarec/robfit/pkg/store/duckdb"
	"github.com/peter-kozarec/robfit/pkg/sweep"
)

func main() {
	logger := dbg.NewLogger(false)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	y, rows := syntheticData()

	set, err := dataset.Clean(y, rows, dataset.WithIntercept())
	if err != nil {
		logger.Fatal("error cleaning data", zap.Error(err))
	}
	n, p := set.Dims()
	logger.Info("data ready",
		zap.Int("observations", n),
		zap.Int("columns", p),
		zap.Int("contaminated", Contaminated))

	start, err := estimate.LeastSquares{}.Fit(set)
	if err != nil {
		logger.Fatal("error computing starting fit", zap.Error(err))
	}
	logger.Info("starting fit", zap.Float64("scale", start.Scale))

	report, err := sweep.Run(ctx, set, start,
		sweep.WithFamily(rho.Bisquare),
		sweep.WithConfidenceLevel(ConfidenceLevel),
		sweep.WithContinueOnError(),
		sweep.WithLogger(logger))
	if err != nil {
		logger.Fatal("sweep failed", zap.Error(err))
	}

	logger.Info("sweep complete", report.Fields()...)
	if failed := report.FailedGridValues(); len(failed) > 0 {
		logger.Warn("grid values skipped", zap.Float64s("efficiencies", failed))
	}
	logOutlierTrend(logger, report)

	if ReportDSN != "" {
		w := duckdb.NewWriter(ReportDSN)
		if err := w.Connect(); err != nil {
			logger.Fatal("error opening report store", zap.Error(err))
		}
		defer w.Close()
		if err := w.SaveReport(ctx, report); err != nil {
			logger.Fatal("error saving report", zap.Error(err))
		}
		logger.Info("report saved", zap.String("dsn", ReportDSN))
	}
}

// syntheticData draws a clean Gaussian regression sample and shifts the
// first Contaminated responses to create vertical outliers.
func syntheticData() ([]float64, [][]float64) {
	src := rand.NewSource(Seed)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	y := make([]float64, Observations)
	rows := make([][]float64, Observations)
	beta := []float64{1.5, -2.0, 0.5}

	for i := 0; i < Observations; i++ {
		row := make([]float64, Predictors)
		fit := 0.0
		for j := range row {
			row[j] = normal.Rand()
			fit += beta[j] * row[j]
		}
		rows[i] = row
		y[i] = fit + normal.Rand()
		if i < Contaminated {
			y[i] += ContaminationShift
		}
	}
	return y, rows
}

// logOutlierTrend reports how many observations stay flagged at the
// requested efficiency versus across the whole grid.
func logOutlierTrend(logger *zap.Logger, report *sweep.Report) {
	counts := report.OutlierCounts()
	at := -1
	for g, eff := range report.Grid {
		if math.Abs(eff-Efficiency) < 1e-9 {
			at = g
			break
		}
	}

	always := 0
	for _, row := range report.Outliers {
		flaggedEverywhere := true
		for g := range report.Grid {
			if _, failed := report.Failures[g]; failed {
				continue
			}
			if !row[g] {
				flaggedEverywhere = false
				break
			}
		}
		if flaggedEverywhere {
			always++
		}
	}

	fields := []zap.Field{zap.Int("flagged_at_every_efficiency", always)}
	if at >= 0 {
		fields = append(fields,
			zap.Float64("efficiency", Efficiency),
			zap.Int("flagged", counts[at]))
	}
	logger.Info("outlier trend", fields...)
}
