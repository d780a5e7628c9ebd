package variance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"variance_checker/config"
	"variance_checker/data"
)

const (
	DatasetFastDB       = "FastDB"
	DatasetIronMountain = "Iron Mountain M3"

	ColBillingType         = "OFA_Billing_Type"
	ColCampaignTransformed = "campaign_ID_Transformed"
)

// SchemaError reports a logical field that a source table does not provide.
type SchemaError struct {
	Dataset string
	Field   string
	Column  config.ColumnRef
	Columns int
}

func (e *SchemaError) Error() string {
	if e.Column.Name != "" {
		return fmt.Sprintf("%s: required field %s: no column named %q", e.Dataset, e.Field, e.Column.Name)
	}
	if e.Column.Index >= 0 {
		return fmt.Sprintf("%s: required field %s: column position %d out of range (table has %d columns)",
			e.Dataset, e.Field, e.Column.Index, e.Columns)
	}
	return fmt.Sprintf("%s: required field %s: no column configured", e.Dataset, e.Field)
}

// Normalized holds typed records for both sources and the transformed
// tables passed through to the report.
type Normalized struct {
	FastDB       []data.FastDBRecord
	Subledger    []data.SubledgerRecord
	FastDBTable  data.Table
	SubledgerTbl data.Table

	InvalidFastDBAmounts    int
	InvalidSubledgerAmounts int
}

type fastDBColumns struct {
	amount, campaign, category, invoice int
}

type subledgerColumns struct {
	amount, campaign, invoice, code int
}

// Normalize coerces amounts, trims comparison keys and header names, and
// classifies every FastDB record. Input tables are not modified.
func Normalize(fastdb, im data.Table, fastdbCols, imCols config.Columns) (*Normalized, error) {
	fastdbHeader := trimHeader(fastdb.Header)
	imHeader := trimHeader(im.Header)

	fc, err := resolveFastDBColumns(fastdbHeader, fastdbCols)
	if err != nil {
		return nil, err
	}
	ic, err := resolveSubledgerColumns(imHeader, imCols)
	if err != nil {
		return nil, err
	}

	out := &Normalized{}
	out.FastDB, out.FastDBTable, out.InvalidFastDBAmounts = normalizeFastDB(fastdbHeader, fastdb.Rows, fc)
	out.Subledger, out.SubledgerTbl, out.InvalidSubledgerAmounts = normalizeSubledger(imHeader, im.Rows, ic)
	return out, nil
}

func normalizeFastDB(header []string, rows [][]string, c fastDBColumns) ([]data.FastDBRecord, data.Table, int) {
	records := make([]data.FastDBRecord, 0, len(rows))
	table := data.Table{
		Header:        append(append([]string{}, header...), ColBillingType, ColCampaignTransformed),
		Rows:          make([][]string, 0, len(rows)),
		AmountColumns: []int{c.amount},
	}
	invalid := 0

	src := data.Table{Rows: rows}
	for i, row := range rows {
		amount := ParseAmount(src.Cell(i, c.amount))
		if !amount.Valid {
			invalid++
		}
		rec := data.FastDBRecord{
			Row:        i,
			Amount:     amount,
			CampaignID: src.Cell(i, c.campaign),
			Category:   strings.TrimSpace(src.Cell(i, c.category)),
			InvoiceID:  src.Cell(i, c.invoice),
		}
		rec.BillingType = ClassifyBillingType(rec.Category, rec.InvoiceID)
		rec.CampaignKey = CampaignKey(rec.CampaignID)
		records = append(records, rec)

		out := padRow(row, len(header))
		out[c.amount] = formatAmount(amount)
		out[c.category] = rec.Category
		out = append(out, string(rec.BillingType), rec.CampaignKey)
		table.Rows = append(table.Rows, out)
	}
	return records, table, invalid
}

func normalizeSubledger(header []string, rows [][]string, c subledgerColumns) ([]data.SubledgerRecord, data.Table, int) {
	records := make([]data.SubledgerRecord, 0, len(rows))
	table := data.Table{
		Header:        append([]string{}, header...),
		Rows:          make([][]string, 0, len(rows)),
		AmountColumns: []int{c.amount},
	}
	invalid := 0

	src := data.Table{Rows: rows}
	for i, row := range rows {
		amount := ParseAmount(src.Cell(i, c.amount))
		if !amount.Valid {
			invalid++
		}
		rec := data.SubledgerRecord{
			Row:           i,
			Amount:        amount,
			CampaignID:    src.Cell(i, c.campaign),
			InvoiceID:     src.Cell(i, c.invoice),
			SubledgerCode: strings.TrimSpace(src.Cell(i, c.code)),
		}
		rec.CampaignKey = CampaignKey(rec.CampaignID)
		records = append(records, rec)

		out := padRow(row, len(header))
		out[c.amount] = formatAmount(amount)
		out[c.code] = rec.SubledgerCode
		table.Rows = append(table.Rows, out)
	}
	return records, table, invalid
}

// ParseAmount converts a cell to a number. Blank or non-numeric cells are
// returned invalid so sums skip them.
func ParseAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func formatAmount(a decimal.NullDecimal) string {
	if !a.Valid {
		return ""
	}
	return a.Decimal.String()
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// padRow copies row, extending it to at least n cells.
func padRow(row []string, n int) []string {
	size := len(row)
	if n > size {
		size = n
	}
	out := make([]string, size)
	copy(out, row)
	return out
}

func resolveFastDBColumns(header []string, cols config.Columns) (fastDBColumns, error) {
	var c fastDBColumns
	var err error
	if c.amount, err = resolveColumn(DatasetFastDB, "amount", header, cols.Amount); err != nil {
		return c, err
	}
	if c.campaign, err = resolveColumn(DatasetFastDB, "campaign_id", header, cols.CampaignID); err != nil {
		return c, err
	}
	if c.category, err = resolveColumn(DatasetFastDB, "category", header, cols.Category); err != nil {
		return c, err
	}
	if c.invoice, err = resolveColumn(DatasetFastDB, "invoice_id", header, cols.InvoiceID); err != nil {
		return c, err
	}
	return c, nil
}

func resolveSubledgerColumns(header []string, cols config.Columns) (subledgerColumns, error) {
	var c subledgerColumns
	var err error
	if c.amount, err = resolveColumn(DatasetIronMountain, "amount", header, cols.Amount); err != nil {
		return c, err
	}
	if c.campaign, err = resolveColumn(DatasetIronMountain, "campaign_id", header, cols.CampaignID); err != nil {
		return c, err
	}
	if c.invoice, err = resolveColumn(DatasetIronMountain, "invoice_id", header, cols.InvoiceID); err != nil {
		return c, err
	}
	if c.code, err = resolveColumn(DatasetIronMountain, "subledger_code", header, cols.SubledgerCode); err != nil {
		return c, err
	}
	return c, nil
}

// resolveColumn finds ref in an already trimmed header.
func resolveColumn(dataset, field string, header []string, ref config.ColumnRef) (int, error) {
	schemaErr := &SchemaError{Dataset: dataset, Field: field, Column: ref, Columns: len(header)}
	if ref.Name != "" {
		name := strings.TrimSpace(ref.Name)
		for i, h := range header {
			if h == name {
				return i, nil
			}
		}
		return 0, schemaErr
	}
	if ref.Index >= 0 && ref.Index < len(header) {
		return ref.Index, nil
	}
	return 0, schemaErr
}
