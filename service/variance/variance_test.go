package variance

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"variance_checker/config"
	"variance_checker/data"
	varianceInterface "variance_checker/service/variance/interfaces"
	"variance_checker/service/workbook"
)

func TestAnalyzeVarianceWithDrillDowns(t *testing.T) {
	svc := NewService(config.Default(), nil)

	out := svc.AnalyzeVariance(context.Background(), &varianceInterface.AnalyzeVarianceIn{
		FastDBPath:       "../../testdata/testcase-1/fastdb.csv",
		IronMountainPath: "../../testdata/testcase-1/im.csv",
	})

	assert.Equal(t, "", out.ErrorMsg)
	require.True(t, out.Success)
	assert.NotEmpty(t, out.RunID)
	assert.Empty(t, out.WorkbookPath)

	expected := map[string][3]string{
		data.CatAutomatedRevenue:  {"1100", "1250", "-150"},
		data.CatAutomatedInvoices: {"500", "500", "0"},
		data.CatPrincipalTrading:  {"300", "300", "0"},
		data.CatManualBilling:     {"700", "500", "200"},
		data.CatManualRevenue:     {"60", "0", "60"},
		data.CatABNBAdjustments:   {"0", "25", "-25"},
		data.CatOtherAdjustments:  {"0", "10", "-10"},
		data.TotalLabel:           {"2660", "2585", "75"},
	}
	report := out.Report
	require.Len(t, report.Summary, 8)
	for category, want := range expected {
		row := summaryRow(t, report, category)
		assert.Equal(t, want[0], row.ExternalAmount.String(), category)
		assert.Equal(t, want[1], row.InternalAmount.String(), category)
		assert.Equal(t, want[2], row.Variance.String(), category)
	}

	require.Len(t, report.DrillDowns, 2)

	revenue := report.DrillDowns[0]
	assert.Equal(t, "Automated Revenue Variance", revenue.Name)
	require.Len(t, revenue.Rows, 3)
	assert.Equal(t, "'C200", revenue.Rows[0].Key)
	assert.Equal(t, "-200", revenue.Rows[0].Variance.String())
	assert.Equal(t, "'C300", revenue.Rows[1].Key)
	assert.Equal(t, "50", revenue.Rows[1].ExternalAmount.String())
	assert.Equal(t, "0", revenue.Rows[1].InternalAmount.String())
	assert.Equal(t, "'C100", revenue.Rows[2].Key)

	manual := report.DrillDowns[1]
	assert.Equal(t, "OFA M2 Manual Billing Variance", manual.Name)
	require.Len(t, manual.Rows, 2)
	assert.Equal(t, "880012G", manual.Rows[0].Key)
	assert.False(t, manual.Rows[0].ManualInvoice)
	assert.True(t, manual.Rows[0].ManualAdjustment)
	assert.Equal(t, "880011", manual.Rows[1].Key)
	assert.True(t, manual.Rows[1].ManualInvoice)
	assert.False(t, manual.Rows[1].ManualAdjustment)

	assert.Equal(t, 9, report.Audit.FastDBRows)
	assert.Equal(t, 8, report.Audit.SubledgerRows)
	assert.Equal(t, 1, report.Audit.InvalidFastDBAmounts)
	assert.Equal(t, 0, report.Audit.InvalidSubledgerAmounts)

	// Latin-1 input is decoded and headers are trimmed.
	assert.Equal(t, "Café Rio", report.FastDBTransformed.Rows[0][3])
	assert.Equal(t, "amount_usd", report.FastDBTransformed.Header[5])
	assert.Equal(t, "Invoice-Rebill", report.FastDBTransformed.Rows[2][9])
}

func TestAnalyzeVarianceWritesWorkbook(t *testing.T) {
	svc := NewService(config.Default(), workbook.NewService(false))
	dir := t.TempDir()

	out := svc.AnalyzeVariance(context.Background(), &varianceInterface.AnalyzeVarianceIn{
		FastDBPath:       "../../testdata/testcase-1/fastdb.csv",
		IronMountainPath: "../../testdata/testcase-1/im.csv",
		Market:           "US",
		ActivityPeriod:   "2024-Q1",
		OutputDir:        dir,
	})

	require.True(t, out.Success, out.ErrorMsg)
	assert.Equal(t, filepath.Join(dir, "ABNB M3 Transactional UAT - US 2024-Q1.xlsx"), out.WorkbookPath)

	f, err := excelize.OpenFile(out.WorkbookPath)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Summary Analysis",
		"Automated Revenue Variance",
		"OFA M2 Manual Billing Variance",
		"FastDB Transformed",
		"Iron Mountain M3",
	}, f.GetSheetList())
}

func TestAnalyzeVarianceErrors(t *testing.T) {
	svc := NewService(config.Default(), nil)
	ctx := context.Background()

	out := svc.AnalyzeVariance(ctx, &varianceInterface.AnalyzeVarianceIn{
		IronMountainPath: "../../testdata/testcase-1/im.csv",
	})
	assert.False(t, out.Success)
	assert.Equal(t, "fastdb file path is empty", out.ErrorMsg)

	out = svc.AnalyzeVariance(ctx, &varianceInterface.AnalyzeVarianceIn{
		FastDBPath: "../../testdata/testcase-1/fastdb.csv",
	})
	assert.False(t, out.Success)
	assert.Equal(t, "iron mountain file path is empty", out.ErrorMsg)

	out = svc.AnalyzeVariance(ctx, &varianceInterface.AnalyzeVarianceIn{
		FastDBPath:       "../../testdata/testcase-1/missing.csv",
		IronMountainPath: "../../testdata/testcase-1/im.csv",
	})
	assert.False(t, out.Success)
	assert.Contains(t, out.ErrorMsg, "could not open file")
	assert.Nil(t, out.Report)

	out = svc.AnalyzeVariance(ctx, &varianceInterface.AnalyzeVarianceIn{
		FastDBPath:       "../../testdata/testcase-1/fastdb.csv",
		IronMountainPath: "../../testdata/testcase-2/im.txt",
	})
	assert.False(t, out.Success)
	assert.Contains(t, out.ErrorMsg, "unsupported file type")

	out = svc.AnalyzeVariance(ctx, &varianceInterface.AnalyzeVarianceIn{
		FastDBPath:       "../../testdata/testcase-1/fastdb.csv",
		IronMountainPath: "../../testdata/testcase-2/im.csv",
	})
	assert.False(t, out.Success)
	assert.Equal(t, "Iron Mountain M3: required field invoice_id: column position 13 out of range (table has 10 columns)", out.ErrorMsg)
}

func TestAnalyzeVarianceNoPartialWorkbook(t *testing.T) {
	svc := NewService(config.Default(), workbook.NewService(false))
	dir := t.TempDir()

	out := svc.AnalyzeVariance(context.Background(), &varianceInterface.AnalyzeVarianceIn{
		FastDBPath:       "../../testdata/testcase-1/fastdb.csv",
		IronMountainPath: "../../testdata/testcase-2/im.csv",
		OutputDir:        dir,
	})
	require.False(t, out.Success)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
