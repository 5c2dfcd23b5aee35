package main

const (
	Observations       = 200
	Predictors         = 3
	Contaminated       = 10
	ContaminationShift = 7.0
	Seed               = 42

	Efficiency      = 0.95
	ConfidenceLevel = 0.975

	// ReportDSN persists sweep reports when set to a DuckDB path,
	// e.g. "reports.duckdb". Empty keeps the run in memory.
	ReportDSN = ""
)
