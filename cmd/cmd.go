// Package cmd defines the command-line interface for heatwatch.
package cmd

import (
	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(streamsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotTakeCmd)
	snapshotCmd.AddCommand(snapshotListCmd)

	// Add the streams subcommands to the parent streams command
	streamsCmd.AddCommand(streamsStatusCmd)
	streamsCmd.AddCommand(streamsClearCmd)
	streamsCmd.AddCommand(streamsMigrateCmd)
	streamsCmd.AddCommand(streamsExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Stream backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (sqlite path, user:pass@tcp(host:port)/dbname, or host=... dbname=...)")
	rootCmd.PersistentFlags().String("timezone", contract.DefaultTimezone, "IANA time zone used for timestamps and the snapshot day")
	rootCmd.PersistentFlags().String("snapshot-dir", contract.DefaultSnapshotDir, "Directory of the daily snapshot files")
	rootCmd.PersistentFlags().Int("snapshot-max-files", contract.DefaultSnapshotMaxFiles, "Snapshot count above which the oldest is evicted")
	rootCmd.PersistentFlags().String("snapshot-cutoff", contract.DefaultSnapshotCutoff, "Local time of day after which the daily snapshot is taken (HH:MM:SS)")
	rootCmd.PersistentFlags().String("snapshot-window", contract.DefaultSnapshotWindow.String(), "How long after the cutoff a snapshot may start (0 = until midnight)")
	rootCmd.PersistentFlags().String("export-dir", contract.DefaultExportDir, "Directory of the CSV export files")
	rootCmd.PersistentFlags().Int("export-max-files", contract.DefaultExportMaxFiles, "Export count above which the oldest is evicted")
	rootCmd.PersistentFlags().Int("forecast-window", contract.DefaultForecastWindow, "Number of recent readings given to the forecasting agents")
	rootCmd.PersistentFlags().String("forward-mode", string(schema.NoForward), "Forward latest data to a collector: none or http or amqp")
	rootCmd.PersistentFlags().String("forward-url", "", "Collector URL (http endpoint or amqp broker)")
	rootCmd.PersistentFlags().String("forward-exchange", contract.DefaultForwardExchange, "AMQP exchange for forwarded data")
	rootCmd.PersistentFlags().String("forward-routing-key", contract.DefaultForwardRouting, "AMQP routing key for forwarded data")
	rootCmd.PersistentFlags().String("forward-timeout", contract.DefaultForwardTimeout.String(), "Timeout of a single forward")
	rootCmd.PersistentFlags().String("s3-endpoint", "", "S3-compatible endpoint for snapshot archiving (host:port)")
	rootCmd.PersistentFlags().String("s3-bucket", "", "Bucket receiving archived snapshots")
	rootCmd.PersistentFlags().String("s3-access-key", "", "S3 access key")
	rootCmd.PersistentFlags().String("s3-secret-key", "", "S3 secret key (prefer HEATWATCH_S3_SECRET_KEY)")
	rootCmd.PersistentFlags().Bool("s3-secure", false, "Use TLS for the S3 endpoint")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListen, "Address the HTTP API listens on")
	serveCmd.Flags().String("redis-addr", "", "Redis address for rate limiting /send")
	serveCmd.Flags().Int("rate-limit", 0, "Requests per second per client on /send (0 = off)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// recordCmd and compareCmd flags are positional inputs, not configuration
	recordCmd.Flags().String("temperature", "", "Temperature in degrees Celsius")
	recordCmd.Flags().String("humidity", "", "Relative humidity in percent")
	_ = recordCmd.MarkFlagRequired("temperature")
	_ = recordCmd.MarkFlagRequired("humidity")

	compareCmd.Flags().String("snapshot", "", "Snapshot file to use as the baseline instead of the startup baseline")

	// Bind all flags of streamsMigrateCmd to Viper
	streamsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(streamsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding streams migrate flags", err)
	}
}
