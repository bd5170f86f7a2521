package contract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/huangsam/heatwatch/schema"
)

// Default values for configuration.
const (
	DefaultListen           = ":5000"
	DefaultSnapshotDir      = "static/csv_data"
	DefaultSnapshotMaxFiles = 7
	DefaultSnapshotCutoff   = "23:59:45"
	DefaultSnapshotWindow   = 15 * time.Second
	DefaultTimezone         = "Europe/London"
	DefaultExportDir        = "static/temp"
	DefaultExportMaxFiles   = 20
	DefaultForecastWindow   = 50
	DefaultForwardTimeout   = 10 * time.Second
	DefaultForwardExchange  = "heatwatch"
	DefaultForwardRouting   = "readings.latest"
	DefaultPrecision        = 2
	MaxForecastWindow       = 10000
)

// Config holds the runtime configuration for the service and CLI.
// This struct is the "final, validated" config.
type Config struct {
	Listen string

	DBBackend schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	SnapshotDir      string
	SnapshotMaxFiles int
	SnapshotCutoff   time.Duration // offset from midnight
	SnapshotWindow   time.Duration
	Location         *time.Location

	ExportDir      string
	ExportMaxFiles int

	ForecastWindow int

	ForwardMode       schema.ForwardMode
	ForwardURL        string
	ForwardExchange   string
	ForwardRoutingKey string
	ForwardTimeout    time.Duration

	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string // Please use env var as this is plaintext
	S3Secure    bool

	RedisAddr string
	RateLimit int // requests per second per client, 0 = off

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	LogLevel   slog.Level
}

// ArchiveEnabled reports whether snapshots should be uploaded to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DBBackend  string `mapstructure:"db-backend"`
	DBConnect  string `mapstructure:"db-connect"`
	Timezone   string `mapstructure:"timezone"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Color      string `mapstructure:"color"`
	LogLevel   string `mapstructure:"log-level"`

	SnapshotDir      string `mapstructure:"snapshot-dir"`
	SnapshotMaxFiles int    `mapstructure:"snapshot-max-files"`
	SnapshotCutoff   string `mapstructure:"snapshot-cutoff"`
	SnapshotWindow   string `mapstructure:"snapshot-window"`
	ExportDir        string `mapstructure:"export-dir"`
	ExportMaxFiles   int    `mapstructure:"export-max-files"`
	ForecastWindow   int    `mapstructure:"forecast-window"`

	// --- Fields from serveCmd.Flags() and recordCmd.Flags() ---
	Listen            string `mapstructure:"listen"`
	ForwardMode       string `mapstructure:"forward-mode"`
	ForwardURL        string `mapstructure:"forward-url"`
	ForwardExchange   string `mapstructure:"forward-exchange"`
	ForwardRoutingKey string `mapstructure:"forward-routing-key"`
	ForwardTimeout    string `mapstructure:"forward-timeout"`
	S3Endpoint        string `mapstructure:"s3-endpoint"`
	S3Bucket          string `mapstructure:"s3-bucket"`
	S3AccessKey       string `mapstructure:"s3-access-key"`
	S3SecretKey       string `mapstructure:"s3-secret-key"`
	S3Secure          bool   `mapstructure:"s3-secure"`
	RedisAddr         string `mapstructure:"redis-addr"`
	RateLimit         int    `mapstructure:"rate-limit"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processRetention(cfg, input); err != nil {
		return err
	}
	if err := processForwarding(cfg, input); err != nil {
		return err
	}
	return processArchive(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseTimeOfDay parses an HH:MM:SS time of day into an offset from midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse(time.TimeOnly, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM:SS: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// validateSimpleInputs processes and validates the output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Listen = input.Listen
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	cfg.OutputFile = input.OutputFile
	cfg.RedisAddr = input.RedisAddr

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 2. Log level ---
	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level

	// --- 3. Rate limit ---
	if input.RateLimit < 0 {
		return fmt.Errorf("rate-limit cannot be negative (received %d)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit
	return nil
}

// validateBackendConfig validates the stream store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.DBBackend = schema.DatabaseBackend(strings.ToLower(input.DBBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.DBBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", input.DBBackend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.DBBackend, cfg.DBConnect)
}

// processRetention validates the snapshot, export and forecast settings.
func processRetention(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Time zone ---
	tz := input.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", tz, err)
	}
	cfg.Location = loc

	// --- 2. Snapshot policy ---
	cutoff := input.SnapshotCutoff
	if cutoff == "" {
		cutoff = DefaultSnapshotCutoff
	}
	if cfg.SnapshotCutoff, err = ParseTimeOfDay(cutoff); err != nil {
		return fmt.Errorf("invalid snapshot-cutoff: %w", err)
	}

	cfg.SnapshotWindow = DefaultSnapshotWindow
	if input.SnapshotWindow != "" {
		window, err := time.ParseDuration(input.SnapshotWindow)
		if err != nil {
			return fmt.Errorf("invalid snapshot-window '%s': %w", input.SnapshotWindow, err)
		}
		if window < 0 || window >= 24*time.Hour {
			return fmt.Errorf("snapshot-window must be between 0 and 24h (received %s)", window)
		}
		cfg.SnapshotWindow = window
	}

	// --- 3. Directories and caps ---
	cfg.SnapshotDir = input.SnapshotDir
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = DefaultSnapshotDir
	}
	cfg.ExportDir = input.ExportDir
	if cfg.ExportDir == "" {
		cfg.ExportDir = DefaultExportDir
	}
	if input.SnapshotMaxFiles < 1 {
		return fmt.Errorf("snapshot-max-files must be greater than 0 (received %d)", input.SnapshotMaxFiles)
	}
	cfg.SnapshotMaxFiles = input.SnapshotMaxFiles
	if input.ExportMaxFiles < 1 {
		return fmt.Errorf("export-max-files must be greater than 0 (received %d)", input.ExportMaxFiles)
	}
	cfg.ExportMaxFiles = input.ExportMaxFiles

	// --- 4. Forecast history ---
	if input.ForecastWindow < 1 || input.ForecastWindow > MaxForecastWindow {
		return fmt.Errorf("forecast-window must be greater than 0 and cannot exceed %d (received %d)", MaxForecastWindow, input.ForecastWindow)
	}
	cfg.ForecastWindow = input.ForecastWindow
	return nil
}

// processForwarding validates the remote collector settings.
func processForwarding(cfg *Config, input *ConfigRawInput) error {
	mode := strings.ToLower(input.ForwardMode)
	if mode == "" {
		mode = string(schema.NoForward)
	}
	cfg.ForwardMode = schema.ForwardMode(mode)
	if _, ok := schema.ValidForwardModes[cfg.ForwardMode]; !ok {
		return fmt.Errorf("invalid forward mode '%s'. must be none, http, amqp", input.ForwardMode)
	}

	cfg.ForwardURL = input.ForwardURL
	if cfg.ForwardMode != schema.NoForward && cfg.ForwardURL == "" {
		return fmt.Errorf("forward-url is required when using %s forward mode", cfg.ForwardMode)
	}

	cfg.ForwardExchange = input.ForwardExchange
	if cfg.ForwardExchange == "" {
		cfg.ForwardExchange = DefaultForwardExchange
	}
	cfg.ForwardRoutingKey = input.ForwardRoutingKey
	if cfg.ForwardRoutingKey == "" {
		cfg.ForwardRoutingKey = DefaultForwardRouting
	}

	cfg.ForwardTimeout = DefaultForwardTimeout
	if input.ForwardTimeout != "" {
		timeout, err := time.ParseDuration(input.ForwardTimeout)
		if err != nil {
			return fmt.Errorf("invalid forward-timeout '%s': %w", input.ForwardTimeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("forward-timeout must be positive (received %s)", timeout)
		}
		cfg.ForwardTimeout = timeout
	}
	return nil
}

// processArchive validates the object storage settings.
func processArchive(cfg *Config, input *ConfigRawInput) error {
	cfg.S3Endpoint = input.S3Endpoint
	cfg.S3Bucket = input.S3Bucket
	cfg.S3AccessKey = input.S3AccessKey
	cfg.S3SecretKey = input.S3SecretKey
	cfg.S3Secure = input.S3Secure
	if cfg.S3Endpoint != "" && cfg.S3Bucket == "" {
		return fmt.Errorf("s3-bucket is required when s3-endpoint is set")
	}
	return nil
}
