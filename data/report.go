package data

import (
	"github.com/shopspring/decimal"
)

// Column titles shared by the summary and drill-down tables.
const (
	ColActivityCategory = "Activity Category"
	ColExternalAmount   = "Iron Mountain M3 Subledger Amount"
	ColInternalAmount   = "FastDB Amount"
	ColVariance         = "Variance"
	ColAbsoluteVariance = "Absolute Variance"
	ColExternalLogic    = "IM M3 Logic"
	ColInternalLogic    = "FastDB Logic"
	ColManualInvoiceCM  = "Manual OFA Invoice_CM"
	ColManualAdjustment = "Manual OFA Adjustment"
)

type SummaryRow struct {
	Category       string
	ExternalAmount decimal.Decimal
	InternalAmount decimal.Decimal
	Variance       decimal.Decimal

	// AbsoluteVariance is left invalid on the TOTAL row.
	AbsoluteVariance decimal.NullDecimal
	ExternalLogic    string
	InternalLogic    string
}

type DrillDownRow struct {
	Key              string
	ExternalAmount   decimal.Decimal
	InternalAmount   decimal.Decimal
	Variance         decimal.Decimal
	AbsoluteVariance decimal.Decimal

	// Only set for the manual billing category.
	ManualInvoice    bool
	ManualAdjustment bool
}

type DrillDownTable struct {
	Name     string
	Category string
	KeyTitle DrillKey
	// HasFlags marks tables whose rows carry the manual billing flags.
	HasFlags bool
	Rows     []DrillDownRow
}

// UnmappedCode is a subledger code that no activity category claims.
type UnmappedCode struct {
	Code   string
	Rows   int
	Amount decimal.Decimal
}

type Audit struct {
	FastDBRows              int
	SubledgerRows           int
	InvalidFastDBAmounts    int
	InvalidSubledgerAmounts int
	UnmappedSubledgerCodes  []UnmappedCode
}

// Report is everything one run hands to the workbook sink.
type Report struct {
	Summary []SummaryRow
	// DrillDowns follows the canonical category order.
	DrillDowns        []DrillDownTable
	FastDBTransformed Table
	IronMountain      Table
	Audit             Audit
}
