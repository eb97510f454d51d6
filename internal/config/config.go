// Package config defines the configuration model for the banks ETL run. It
// replaces hard-coded constants with one explicit structure that is passed to
// the orchestrator.
//
// Values are layered:
//
//  1. Default(): the built-in constants, enough to run with no flags.
//  2. Load(path): a JSON or YAML file overlaid on the defaults.
//  3. ApplyEnv: BANKS_ETL_* environment variables (a .env file is honored by
//     cmd/etl through godotenv).
//
// Example (YAML):
//
//	source_url: https://example.com/banks.html
//	table_name: Largest_banks
//	storage:
//	  kind: sqlite
//	  dsn: Banks.db
package config

import "time"

// Defaults mirroring the original fixed constants.
const (
	DefaultJob           = "banks_etl"
	DefaultSourceURL     = "https://web.archive.org/web/20230908091635/https://en.wikipedia.org/wiki/List_of_largest_banks"
	DefaultRateTablePath = "./exchange_rate.csv"
	DefaultCSVOutputPath = "./Largest_banks_data.csv"
	DefaultStoreKind     = "sqlite"
	DefaultStorePath     = "Banks.db"
	DefaultTableName     = "Largest_banks"
	DefaultLogPath       = "./code_log.txt"
	DefaultHTTPTimeout   = 60 * time.Second
)

// Pipeline is the full run configuration.
type Pipeline struct {
	// Job labels metrics and diagnostics.
	Job string `json:"job" yaml:"job"`

	// SourceURL is the page whose first table is scraped.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// RateTablePath is the Currency,Rate CSV.
	RateTablePath string `json:"rate_table_path" yaml:"rate_table_path"`

	// CSVOutputPath receives the transformed table.
	CSVOutputPath string `json:"csv_output_path" yaml:"csv_output_path"`

	// ParquetOutputPath optionally receives a Parquet copy. Empty disables it.
	ParquetOutputPath string `json:"parquet_output_path" yaml:"parquet_output_path"`

	// LogPath is the append-only milestone log.
	LogPath string `json:"log_path" yaml:"log_path"`

	// TableName is the relational table that is replaced on every run.
	TableName string `json:"table_name" yaml:"table_name"`

	Storage Storage `json:"storage" yaml:"storage"`
	HTTP    HTTP    `json:"http" yaml:"http"`
	Logging Logging `json:"logging" yaml:"logging"`
}

// Storage selects the relational backend.
type Storage struct {
	// Kind is one of sqlite, postgres, mysql.
	Kind string `json:"kind" yaml:"kind"`

	// DSN is a file path for sqlite or a connection string otherwise.
	DSN string `json:"dsn" yaml:"dsn"`
}

// HTTP configures the page fetch.
type HTTP struct {
	// Timeout bounds the single GET. Zero means no client timeout.
	Timeout Duration `json:"timeout" yaml:"timeout"`

	UserAgent          string `json:"user_agent" yaml:"user_agent"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// Logging configures diagnostics (not the milestone log).
type Logging struct {
	// Level empty defers to $LOG_LEVEL, then "info".
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	Output     string `json:"output" yaml:"output"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

// Default returns the configuration used when no file or env overrides are
// given.
func Default() Pipeline {
	return Pipeline{
		Job:           DefaultJob,
		SourceURL:     DefaultSourceURL,
		RateTablePath: DefaultRateTablePath,
		CSVOutputPath: DefaultCSVOutputPath,
		LogPath:       DefaultLogPath,
		TableName:     DefaultTableName,
		Storage: Storage{
			Kind: DefaultStoreKind,
			DSN:  DefaultStorePath,
		},
		HTTP: HTTP{
			Timeout:   Duration(DefaultHTTPTimeout),
			UserAgent: "banksetl/1.0",
		},
		Logging: Logging{
			Format: "text",
			Output: "stderr",
		},
	}
}
