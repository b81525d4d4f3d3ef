package cmd

import (
	"fmt"

	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/iocache"
	"github.com/huangsam/composeguard/internal/outwriter"
	"github.com/huangsam/composeguard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetupWrapper wraps sharedSetup and requires a history backend.
func historySetupWrapper(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if cfg.HistoryBackend == schema.NoneBackend {
		return fmt.Errorf("history tracking is disabled. Set --history-backend to sqlite, mysql or postgresql")
	}
	return nil
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This does NOT initialize stores or create tables, allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iocache.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on check history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded check runs and exports",
	Long: `Manage the history of metrics checks used for trend tracking and reporting.

When a history backend is configured, every check run stores:
- Run metadata (uuid, variant, timestamps, policy, outcome)
- One row per offending item of each violation

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  list    - Show recorded check runs
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations

Examples:
  # Check history status
  composeguard history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  composeguard history export --history-backend sqlite --output-file history`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about recorded check runs.

Displays:
- Backend type and connection status
- Total and failed check runs
- Last and oldest run timestamps
- Database table sizes

Examples:
  # Check history status
  composeguard history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyListCmd lists recorded check runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recorded check runs",
	Long: `List every recorded check run, oldest first.

Supports every output format, so runs can be piped into other tools.

Examples:
  # Table of runs
  composeguard history list --history-backend sqlite

  # Runs as CSV
  composeguard history list --history-backend sqlite --output csv --output-file runs.csv`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := iocache.Manager.GetHistoryStore().GetAllRuns()
		if err != nil {
			contract.LogFatal("Failed to list check runs", err)
		}
		if err := outwriter.NewOutWriter().WriteHistory(runs, cfg); err != nil {
			contract.LogFatal("Failed to write check runs", err)
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded check history",
	Long: `Delete all stored check runs and their violations.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  # Export before clearing
  composeguard history export --history-backend sqlite --output-file backup
  composeguard history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.HistoryDBConnect
		if dbFilePath == "" {
			dbFilePath = iocache.GetHistoryDBFilePath()
		}
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export check history to Parquet for BI tools and analytics",
	Long: `Export all recorded check runs and violations to Parquet format.

Writes two files next to the --output-file prefix:
- <prefix>.check_runs.parquet
- <prefix>.check_violations.parquet

Requires: --output-file parameter

Examples:
  # Export all data
  composeguard history export --history-backend sqlite --output-file history

  # Use with DuckDB for analysis
  duckdb -c "SELECT variant, count(*) FROM read_parquet('history.check_violations.parquet') GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the check history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  composeguard history migrate --history-backend postgresql --history-db-connect "host=localhost dbname=guard"

  # Rollback to initial state
  composeguard history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
