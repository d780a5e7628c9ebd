package variance

import (
	"fmt"
	"testing"

	"variance_checker/config"
	"variance_checker/data"
)

type fastdbRow struct {
	amount, campaign, category, invoice string
}

type imRow struct {
	campaign, amount, invoice, code string
}

// fastdbTable lays rows out in the legacy export positions:
// amount 5, campaign 7, category 9, invoice 16.
func fastdbTable(rows ...fastdbRow) data.Table {
	t := data.Table{Header: header(17)}
	for _, r := range rows {
		row := make([]string, 17)
		row[5], row[7], row[9], row[16] = r.amount, r.campaign, r.category, r.invoice
		t.Rows = append(t.Rows, row)
	}
	return t
}

// imTable uses campaign 2, amount 3, invoice 13, subledger code 15.
func imTable(rows ...imRow) data.Table {
	t := data.Table{Header: header(16)}
	for _, r := range rows {
		row := make([]string, 16)
		row[2], row[3], row[13], row[15] = r.campaign, r.amount, r.invoice, r.code
		t.Rows = append(t.Rows, row)
	}
	return t
}

func header(n int) []string {
	h := make([]string, n)
	for i := range h {
		h[i] = fmt.Sprintf(" col%d ", i)
	}
	return h
}

func testOptions() Options {
	return OptionsFromConfig(config.Default())
}

func summaryRow(t *testing.T, report *data.Report, category string) data.SummaryRow {
	t.Helper()
	for _, r := range report.Summary {
		if r.Category == category {
			return r
		}
	}
	t.Fatalf("summary has no row %q", category)
	return data.SummaryRow{}
}
