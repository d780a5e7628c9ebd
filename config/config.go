package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Variance VarianceConfig `mapstructure:"variance"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	FastDB   SourceConfig   `mapstructure:"fastdb"`
	IM       SourceConfig   `mapstructure:"im"`
	Report   ReportConfig   `mapstructure:"report"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type VarianceConfig struct {
	// Threshold is the absolute variance above which a category is drilled
	// into. It is parsed as a decimal, never through a float.
	Threshold string `mapstructure:"threshold"`
}

// ThresholdDecimal returns the parsed threshold. Load rejects values that do
// not parse, so it only panics on a Config built by hand.
func (c VarianceConfig) ThresholdDecimal() decimal.Decimal {
	return decimal.RequireFromString(strings.TrimSpace(c.Threshold))
}

type IngestConfig struct {
	CSVEncoding string `mapstructure:"csv_encoding"`
}

type SourceConfig struct {
	Columns Columns `mapstructure:"columns"`
}

// Columns maps the logical fields read from a source to its columns.
// FastDB leaves SubledgerCode unset; the IM statement leaves Category unset.
type Columns struct {
	Amount        ColumnRef `mapstructure:"amount"`
	CampaignID    ColumnRef `mapstructure:"campaign_id"`
	InvoiceID     ColumnRef `mapstructure:"invoice_id"`
	Category      ColumnRef `mapstructure:"category"`
	SubledgerCode ColumnRef `mapstructure:"subledger_code"`
}

// ColumnRef locates a column by trimmed header name, falling back to its
// 0-based position when Name is empty. Index < 0 means no fallback.
type ColumnRef struct {
	Name  string `mapstructure:"name"`
	Index int    `mapstructure:"index"`
}

func (r ColumnRef) IsSet() bool {
	return r.Name != "" || r.Index >= 0
}

type ReportConfig struct {
	OutputDir  string `mapstructure:"output_dir"`
	AuditSheet bool   `mapstructure:"audit_sheet"`
}

// Default returns the configuration used when no file is given. Column
// positions reproduce the layout of the legacy FastDB and IM M3 exports.
func Default() Config {
	cfg, _ := Load("", true)
	return cfg
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	}
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("variance.threshold", "100")
	v.SetDefault("ingest.csv_encoding", "latin-1")
	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.audit_sheet", false)

	setColumnDefaults(v, "fastdb", map[string]int{
		"amount":         5,
		"campaign_id":    7,
		"category":       9,
		"invoice_id":     16,
		"subledger_code": -1,
	})
	setColumnDefaults(v, "im", map[string]int{
		"campaign_id":    2,
		"amount":         3,
		"invoice_id":     13,
		"subledger_code": 15,
		"category":       -1,
	})

	if !envOnly && path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := decimal.NewFromString(strings.TrimSpace(cfg.Variance.Threshold)); err != nil {
		return Config{}, fmt.Errorf("invalid variance.threshold %q: %w", cfg.Variance.Threshold, err)
	}

	return cfg, nil
}

func setColumnDefaults(v *viper.Viper, source string, positions map[string]int) {
	for field, index := range positions {
		v.SetDefault(source+".columns."+field+".name", "")
		v.SetDefault(source+".columns."+field+".index", index)
	}
}
