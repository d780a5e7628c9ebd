package variance

import (
	"github.com/shopspring/decimal"
	"variance_checker/config"
	"variance_checker/data"
)

type Options struct {
	Threshold     decimal.Decimal
	FastDBColumns config.Columns
	IMColumns     config.Columns
	// Categories defaults to data.Categories().
	Categories []data.Category
}

// OptionsFromConfig builds analysis options from loaded configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Threshold:     cfg.Variance.ThresholdDecimal(),
		FastDBColumns: cfg.FastDB.Columns,
		IMColumns:     cfg.IM.Columns,
	}
}

// Analyze runs one reconciliation over two raw tables. It has no side effects;
// the same inputs always give the same report.
func Analyze(fastdb, im data.Table, opts Options) (*data.Report, error) {
	categories := opts.Categories
	if categories == nil {
		categories = data.Categories()
	}

	norm, err := Normalize(fastdb, im, opts.FastDBColumns, opts.IMColumns)
	if err != nil {
		return nil, err
	}

	results := Reconcile(norm.FastDB, norm.Subledger, categories)

	return &data.Report{
		Summary:           SummaryRows(results),
		DrillDowns:        DrillDowns(results, opts.Threshold),
		FastDBTransformed: norm.FastDBTable,
		IronMountain:      norm.SubledgerTbl,
		Audit: data.Audit{
			FastDBRows:              len(norm.FastDB),
			SubledgerRows:           len(norm.Subledger),
			InvalidFastDBAmounts:    norm.InvalidFastDBAmounts,
			InvalidSubledgerAmounts: norm.InvalidSubledgerAmounts,
			UnmappedSubledgerCodes:  UnmappedSubledgerCodes(norm.Subledger, categories),
		},
	}, nil
}
