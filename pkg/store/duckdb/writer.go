// Package duckdb persists sweep reports so fits across sessions and
// datasets can be compared with plain SQL.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/peter-kozarec/robfit/pkg/sweep"
)

const schema = `CREATE TABLE IF NOT EXISTS sweep_coefficients (
	report_id  TEXT NOT NULL,
	family     TEXT NOT NULL,
	efficiency DOUBLE NOT NULL,
	coef_index INTEGER NOT NULL,
	coefficient DOUBLE,
	tstat      DOUBLE,
	converged  BOOLEAN,
	n_outliers INTEGER
)`

type Writer struct {
	dataSourceName string
	db             *sql.DB
}

func NewWriter(dataSourceName string) *Writer {
	return &Writer{
		dataSourceName: dataSourceName,
	}
}

func (w *Writer) Connect() error {
	db, err := sql.Open("duckdb", w.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("error creating schema: %w", err)
	}
	w.db = db
	return nil
}

func (w *Writer) Close() {
	_ = w.db.Close()
}

// SaveReport writes one row per (grid value, coefficient) pair. Failed
// grid values are skipped; they carry no coefficients.
func (w *Writer) SaveReport(ctx context.Context, report *sweep.Report) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sweep_coefficients VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	_, p := report.TStats.Dims()
	counts := report.OutlierCounts()
	for g, eff := range report.Grid {
		if _, failed := report.Failures[g]; failed {
			continue
		}
		for j := 0; j < p; j++ {
			_, err := stmt.ExecContext(ctx,
				report.ID.String(),
				report.Family.String(),
				eff,
				j,
				report.Coefficients.At(g, 1+j),
				report.TStats.At(g, j),
				report.Converged[g],
				counts[g],
			)
			if err != nil {
				return fmt.Errorf("error inserting row: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing report: %w", err)
	}
	return nil
}
