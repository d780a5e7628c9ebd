package data

import (
	"github.com/shopspring/decimal"
)

type BillingType string

const (
	BTNone             BillingType = ""
	BTManual           BillingType = "Manual"
	BTPrincipalTrading BillingType = "Principal Trading"
	BTAutomated        BillingType = "Automated"
)

// FastDB category labels referenced by the billing and category rules.
const (
	FastDBRevenue        = "Revenue"
	FastDBInvoiceRebill  = "Invoice-Rebill"
	FastDBInvoiceCM      = "Invoice-CM"
	FastDBABNBAdjustment = "ABNB-Adjustment"
)

// Table is a raw tabular dataset as read from a source file.
type Table struct {
	Header []string
	Rows   [][]string

	// AmountColumns lists the columns holding coerced amounts, exported as
	// numbers rather than text.
	AmountColumns []int
}

// Cell returns the value at row/col, or "" for cells a ragged row doesn't have.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// FastDBRecord is one row of the internal billing export.
type FastDBRecord struct {
	// Row is the 0-based data row index in the source table.
	Row         int
	Amount      decimal.NullDecimal
	CampaignID  string
	Category    string
	InvoiceID   string
	BillingType BillingType

	// CampaignKey is the text-forced campaign id used as drill-down key.
	CampaignKey string
}

// SubledgerRecord is one row of the Iron Mountain M3 subledger statement.
type SubledgerRecord struct {
	Row           int
	Amount        decimal.NullDecimal
	CampaignID    string
	InvoiceID     string
	SubledgerCode string

	CampaignKey string
}

// IsInvoice reports whether the FastDB category takes part in billing type logic.
func IsInvoice(category string) bool {
	return category == FastDBInvoiceRebill || category == FastDBInvoiceCM
}
