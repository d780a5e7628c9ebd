package interfaces

import (
	"context"

	"variance_checker/data"
)

type Service interface {
	AnalyzeVariance(ctx context.Context, in *AnalyzeVarianceIn) *AnalyzeVarianceOut
}

type AnalyzeVarianceIn struct {
	FastDBPath       string
	IronMountainPath string

	// Market and ActivityPeriod only name the output workbook.
	Market         string
	ActivityPeriod string

	// OutputDir receives the workbook. Empty skips writing it.
	OutputDir string
}

type AnalyzeVarianceOut struct {
	Success  bool
	ErrorMsg string

	RunID string

	Report *data.Report

	// WorkbookPath is set once the workbook has been written.
	WorkbookPath string
}
