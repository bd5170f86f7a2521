package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/internal/iocache"
	"github.com/huangsam/heatwatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// streamsSetup loads minimal configuration needed for stream storage operations.
// This is used by commands that need store access without full shared setup.
func streamsSetup(openStore bool) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get storage-related config values
	backend := schema.DatabaseBackend(viper.GetString("db-backend"))
	connStr := viper.GetString("db-connect")

	// Basic validation for database backends
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.DBBackend = backend
	cfg.DBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	if !openStore {
		return nil
	}
	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize stream store: %w", err)
	}
	return nil
}

// streamsCmd focused on stream storage management.
//
// Note: streams subcommands use minimal initialization (streamsSetup) instead of
// the full sharedSetup. This avoids snapshot, forwarding and archive config
// processing for simple storage operations.
var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "Manage the stored sensor, lstm and arima streams",
	Long: `Manage the database holding the three reading streams.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show row counts and connection info
  clear   - Remove all stored readings
  migrate - Run database schema migrations
  export  - Export every stream to Parquet

Examples:
  # Check stream status
  heatwatch streams status

  # Clear readings on MySQL (set connection string via env variable)
  HEATWATCH_DB_BACKEND=mysql HEATWATCH_DB_CONNECT="..." heatwatch streams clear`,
}

// streamsStatusCmd shows stream status.
var streamsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display row counts and connection details",
	PreRunE: func(_ *cobra.Command, _ []string) error { return streamsSetup(true) },
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetStreamStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get stream status", err)
		}
		iocache.PrintStreamStatus(os.Stdout, status)
	},
}

// streamsClearCmd clears every stream.
var streamsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored readings",
	Long: `Delete all readings from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the stream tables and migration history`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return streamsSetup(false) },
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStreams(cfg.DBBackend, cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear streams", err)
		}
		fmt.Println("Streams cleared successfully.")
	},
}

// streamsMigrateCmd runs database migrations for the stream store.
var streamsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the stream store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  heatwatch streams migrate

  # Rollback to initial state
  heatwatch streams migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return streamsSetup(false) },
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStreams(os.Stdout, cfg.DBBackend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// streamsExportCmd exports every stream to Parquet.
var streamsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every stream to Parquet for analytics tools",
	Long: `Export all stored readings to a single Parquet file with a stream column.

Requires: --output-file parameter

Examples:
  heatwatch streams export --output-file readings.parquet
  duckdb -c "SELECT stream, avg(temperature) FROM 'readings.parquet' GROUP BY stream"`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return streamsSetup(true) },
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetStreamStore()
		if err := iocache.ExecuteStreamExport(rootCtx, os.Stdout, store, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export streams", err)
		}
	},
}
