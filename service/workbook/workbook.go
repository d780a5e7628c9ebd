package workbook

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"variance_checker/data"
	workbookInterface "variance_checker/service/workbook/interfaces"
)

var _ workbookInterface.Sink = (*Service)(nil)

const (
	SheetSummary      = "Summary Analysis"
	SheetFastDB       = "FastDB Transformed"
	SheetIronMountain = "Iron Mountain M3"
	SheetAudit        = "Audit"

	// MaxSheetNameLength is the longest sheet name Excel accepts.
	MaxSheetNameLength = 31

	defaultFileName = "variance_analysis.xlsx"
)

type Service struct {
	auditSheet bool
}

// NewService returns a sink writing .xlsx workbooks. withAudit adds an
// Audit sheet after the source tables.
func NewService(withAudit bool) *Service {
	return &Service{auditSheet: withAudit}
}

// FileName names the workbook after the market and activity period; both
// must be given, otherwise a generic name is used.
func FileName(market, activityPeriod string) string {
	market = strings.TrimSpace(market)
	activityPeriod = strings.TrimSpace(activityPeriod)
	if market == "" || activityPeriod == "" {
		return defaultFileName
	}
	return fmt.Sprintf("ABNB M3 Transactional UAT - %s %s.xlsx", market, activityPeriod)
}

// SheetName truncates name to MaxSheetNameLength characters.
func SheetName(name string) string {
	r := []rune(name)
	if len(r) > MaxSheetNameLength {
		return string(r[:MaxSheetNameLength])
	}
	return name
}

func (s *Service) WriteReport(in *workbookInterface.WriteReportIn) (string, error) {
	if in.Report == nil {
		return "", errors.New("report is empty")
	}
	path := filepath.Join(in.Dir, FileName(in.Market, in.ActivityPeriod))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close workbook %s: %v", path, err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return "", err
	}
	if err := writeRows(f, SheetSummary, summaryRows(in.Report.Summary)); err != nil {
		return "", err
	}

	for _, table := range in.Report.DrillDowns {
		if err := addSheet(f, SheetName(table.Name), drillDownRows(table)); err != nil {
			return "", err
		}
	}

	if err := addSheet(f, SheetFastDB, tableRows(in.Report.FastDBTransformed)); err != nil {
		return "", err
	}
	if err := addSheet(f, SheetIronMountain, tableRows(in.Report.IronMountain)); err != nil {
		return "", err
	}
	if s.auditSheet {
		if err := addSheet(f, SheetAudit, auditRows(in.Report.Audit)); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("could not save workbook %s: %w", path, err)
	}
	return path, nil
}

func addSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("could not create sheet %q: %w", sheet, err)
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("could not write row %d of sheet %q: %w", i+1, sheet, err)
		}
	}
	return nil
}

func summaryRows(summary []data.SummaryRow) [][]interface{} {
	rows := [][]interface{}{{
		data.ColActivityCategory, data.ColExternalAmount, data.ColInternalAmount,
		data.ColVariance, data.ColAbsoluteVariance, data.ColExternalLogic, data.ColInternalLogic,
	}}
	for _, r := range summary {
		var abs interface{} = ""
		if r.AbsoluteVariance.Valid {
			abs = number(r.AbsoluteVariance.Decimal)
		}
		rows = append(rows, []interface{}{
			r.Category, number(r.ExternalAmount), number(r.InternalAmount),
			number(r.Variance), abs, r.ExternalLogic, r.InternalLogic,
		})
	}
	return rows
}

func drillDownRows(table data.DrillDownTable) [][]interface{} {
	header := []interface{}{
		string(table.KeyTitle), data.ColExternalAmount, data.ColInternalAmount,
		data.ColVariance, data.ColAbsoluteVariance,
	}
	if table.HasFlags {
		header = append(header, data.ColManualInvoiceCM, data.ColManualAdjustment)
	}

	rows := [][]interface{}{header}
	for _, r := range table.Rows {
		row := []interface{}{
			r.Key, number(r.ExternalAmount), number(r.InternalAmount),
			number(r.Variance), number(r.AbsoluteVariance),
		}
		if table.HasFlags {
			row = append(row, yesNo(r.ManualInvoice), yesNo(r.ManualAdjustment))
		}
		rows = append(rows, row)
	}
	return rows
}

func tableRows(t data.Table) [][]interface{} {
	rows := make([][]interface{}, 0, len(t.Rows)+1)
	rows = append(rows, toCells(t.Header))
	for _, r := range t.Rows {
		cells := toCells(r)
		for _, col := range t.AmountColumns {
			if col < 0 || col >= len(r) {
				continue
			}
			if d, err := decimal.NewFromString(r[col]); err == nil {
				cells[col] = number(d)
			}
		}
		rows = append(rows, cells)
	}
	return rows
}

func auditRows(a data.Audit) [][]interface{} {
	rows := [][]interface{}{
		{"Check", "Value", "Amount"},
		{"FastDB rows", a.FastDBRows, ""},
		{"IM M3 rows", a.SubledgerRows, ""},
		{"FastDB rows with invalid amount", a.InvalidFastDBAmounts, ""},
		{"IM M3 rows with invalid amount", a.InvalidSubledgerAmounts, ""},
	}
	for _, u := range a.UnmappedSubledgerCodes {
		rows = append(rows, []interface{}{"Unmapped subledger code " + u.Code, u.Rows, number(u.Amount)})
	}
	return rows
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
