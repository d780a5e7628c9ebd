package interfaces

import (
	"variance_checker/data"
)

// Sink persists a finished report.
type Sink interface {
	WriteReport(in *WriteReportIn) (string, error)
}

type WriteReportIn struct {
	Report *data.Report

	// Dir is where the workbook is created; the file name comes from
	// Market and ActivityPeriod.
	Dir            string
	Market         string
	ActivityPeriod string
}
