package variance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"variance_checker/config"
	"variance_checker/data"
	"variance_checker/logger"
	varianceInterface "variance_checker/service/variance/interfaces"
	workbookInterface "variance_checker/service/workbook/interfaces"
	"variance_checker/util"
)

var _ varianceInterface.Service = (*Service)(nil)

type Service struct {
	cfg  config.Config
	sink workbookInterface.Sink
}

// NewService returns a variance service. A nil sink disables workbook output.
func NewService(cfg config.Config, sink workbookInterface.Sink) *Service {
	return &Service{cfg: cfg, sink: sink}
}

func (s *Service) AnalyzeVariance(ctx context.Context, in *varianceInterface.AnalyzeVarianceIn) *varianceInterface.AnalyzeVarianceOut {
	resp := &varianceInterface.AnalyzeVarianceOut{RunID: uuid.NewString()}
	log := logger.FromContext(ctx).With().Str("run_id", resp.RunID).Logger()

	if in.FastDBPath == "" {
		resp.ErrorMsg = "fastdb file path is empty"
		return resp
	}
	if in.IronMountainPath == "" {
		resp.ErrorMsg = "iron mountain file path is empty"
		return resp
	}

	log.Info().
		Str("fastdb", in.FastDBPath).
		Str("iron_mountain", in.IronMountainPath).
		Str("market", in.Market).
		Str("activity_period", in.ActivityPeriod).
		Msg("Starting variance analysis")

	// Both sources are read at the same time.
	fastdbCh, fastdbErrCh := util.ReadTableAsync(in.FastDBPath, s.cfg.Ingest.CSVEncoding)
	im, err := util.ReadTable(in.IronMountainPath, s.cfg.Ingest.CSVEncoding)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read Iron Mountain M3 subledger")
		resp.ErrorMsg = err.Error()
		return resp
	}

	var fastdb data.Table
	select {
	case fastdb = <-fastdbCh:
	case err := <-fastdbErrCh:
		log.Error().Err(err).Msg("Failed to read FastDB dataset")
		resp.ErrorMsg = err.Error()
		return resp
	}

	report, err := Analyze(fastdb, im, OptionsFromConfig(s.cfg))
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			log.Error().Str("dataset", schemaErr.Dataset).Str("field", schemaErr.Field).Msg("Source schema mismatch")
		}
		resp.ErrorMsg = err.Error()
		return resp
	}
	logAudit(log, report)

	if in.OutputDir != "" && s.sink != nil {
		path, err := s.sink.WriteReport(&workbookInterface.WriteReportIn{
			Report:         report,
			Dir:            in.OutputDir,
			Market:         in.Market,
			ActivityPeriod: in.ActivityPeriod,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to write workbook")
			resp.ErrorMsg = err.Error()
			return resp
		}
		resp.WorkbookPath = path
		log.Info().Str("path", path).Msg("Workbook written")
	}

	resp.Success = true
	resp.Report = report
	return resp
}

func logAudit(log zerolog.Logger, report *data.Report) {
	a := report.Audit
	log.Info().
		Int("fastdb_rows", a.FastDBRows).
		Int("iron_mountain_rows", a.SubledgerRows).
		Int("drill_down_tables", len(report.DrillDowns)).
		Msg("Variance analysis completed")

	if a.InvalidFastDBAmounts > 0 {
		log.Warn().Int("rows", a.InvalidFastDBAmounts).Msg("FastDB rows excluded due to invalid amount")
	}
	if a.InvalidSubledgerAmounts > 0 {
		log.Warn().Int("rows", a.InvalidSubledgerAmounts).Msg("Iron Mountain M3 rows excluded due to invalid amount")
	}
	for _, u := range a.UnmappedSubledgerCodes {
		log.Warn().
			Str("code", u.Code).
			Int("rows", u.Rows).
			Str("amount", u.Amount.String()).
			Msg("Subledger code maps to no activity category")
	}
}
