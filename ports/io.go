package ports

import (
	"context"

	"gocontab/domain/dataset"
	"gocontab/domain/results"
)

// DatasetReader loads a tabular dataset from a source file
type DatasetReader interface {
	ReadDataset(ctx context.Context) (*dataset.Dataset, error)
}

// TableWriter persists the analysis outputs
type TableWriter interface {
	// WriteResults stores the results table in a sheet named "Results"
	WriteResults(ctx context.Context, path string, table results.ResultsTable) error

	// WriteContingency stores the stacked tables in a sheet named "Contingency_Tables"
	WriteContingency(ctx context.Context, path string, table results.CombinedTable) error
}

// Reporter displays a finished analysis to the user
type Reporter interface {
	Report(report AnalysisReport) error
}

// AnalysisReport is the read model handed to reporters
type AnalysisReport struct {
	RunID    string
	Source   string
	Results  results.ResultsTable
	Skipped  []SkippedLevel
	Legend   string
	Duration int64 // milliseconds
}

// SkippedLevel records a level excluded from the analysis and why
type SkippedLevel struct {
	Level  string
	Reason string
}
