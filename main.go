package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"variance_checker/config"
	"variance_checker/data"
	"variance_checker/logger"
	"variance_checker/service/variance"
	varianceInterface "variance_checker/service/variance/interfaces"
	"variance_checker/service/workbook"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	fastdbPath := flag.String("fastdb", "", "FastDB dataset (.csv or .xlsx)")
	imPath := flag.String("im", "", "Iron Mountain M3 subledger (.csv or .xlsx)")
	market := flag.String("market", "", "Market/Country, e.g. US, UK, APAC")
	period := flag.String("period", "", "Activity period, e.g. 2024-Q1")
	outDir := flag.String("out", "", "Directory for the workbook (overrides report.output_dir)")
	noWorkbook := flag.Bool("no-workbook", false, "Print the summary without writing a workbook")
	flag.Parse()

	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath, *configPath == "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level)

	if *fastdbPath == "" || *imPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: variance_checker -fastdb FILE -im FILE [-market M -period P] [-out DIR]")
		os.Exit(2)
	}

	dir := cfg.Report.OutputDir
	if *outDir != "" {
		dir = *outDir
	}
	if *noWorkbook {
		dir = ""
	}

	ctx := logger.WithContext(context.Background(), log)
	svc := variance.NewService(cfg, workbook.NewService(cfg.Report.AuditSheet))
	out := svc.AnalyzeVariance(ctx, &varianceInterface.AnalyzeVarianceIn{
		FastDBPath:       *fastdbPath,
		IronMountainPath: *imPath,
		Market:           *market,
		ActivityPeriod:   *period,
		OutputDir:        dir,
	})
	if !out.Success {
		log.Fatal().Str("run_id", out.RunID).Msg(out.ErrorMsg)
	}

	printReport(out.Report)
	if out.WorkbookPath != "" {
		fmt.Printf("\nReport written to %s\n", out.WorkbookPath)
	}
}

func printReport(report *data.Report) {
	fmt.Println("Summary Analysis")
	printSummary(report.Summary)
	for _, t := range report.DrillDowns {
		fmt.Printf("\n%s\n", t.Name)
		printDrillDown(t)
	}
}

func printSummary(rows []data.SummaryRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", data.ColActivityCategory, data.ColExternalAmount,
		data.ColInternalAmount, data.ColVariance, data.ColAbsoluteVariance)
	for _, r := range rows {
		abs := ""
		if r.AbsoluteVariance.Valid {
			abs = r.AbsoluteVariance.Decimal.StringFixed(2)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", r.Category, r.ExternalAmount.StringFixed(2),
			r.InternalAmount.StringFixed(2), r.Variance.StringFixed(2), abs)
	}
	w.Flush()
}

func printDrillDown(t data.DrillDownTable) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t", t.KeyTitle, data.ColExternalAmount,
		data.ColInternalAmount, data.ColVariance, data.ColAbsoluteVariance)
	if t.HasFlags {
		fmt.Fprintf(w, "%s\t%s\t", data.ColManualInvoiceCM, data.ColManualAdjustment)
	}
	fmt.Fprintln(w)
	for _, r := range t.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t", r.Key, r.ExternalAmount.StringFixed(2),
			r.InternalAmount.StringFixed(2), r.Variance.StringFixed(2), r.AbsoluteVariance.StringFixed(2))
		if t.HasFlags {
			fmt.Fprintf(w, "%s\t%s\t", yesNo(r.ManualInvoice), yesNo(r.ManualAdjustment))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
