// Package cmd defines the command-line interface for composeguard.
package cmd

import (
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("golden-dir", contract.DefaultGoldenDir, "Directory holding the golden metrics")
	rootCmd.PersistentFlags().String("check-dir", contract.DefaultCheckDir, "Directory holding the current compiler reports")
	rootCmd.PersistentFlags().String("variant", "", "Comma-separated build variants to process (empty = every report file)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// check and watch share the policy flags, so they are bound in sharedSetup
	// for whichever command is running
	addPolicyFlags(checkCmd.Flags())
	addPolicyFlags(watchCmd.Flags())
	watchCmd.Flags().String("debounce", contract.DefaultWatchDebounce.String(), "Quiet period before re-running the check")

	// Bind all flags of snapshotCmd to Viper
	snapshotCmd.Flags().String("side", string(schema.CurrentSide), "Which reports to read: current or golden")
	snapshotCmd.Flags().Bool("functions", false, "Print every composable record")
	if err := viper.BindPFlags(snapshotCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot flags", err)
	}

	// Bind all flags of generateCmd to Viper
	generateCmd.Flags().Bool("clean", false, "Remove every golden file before copying")
	if err := viper.BindPFlags(generateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding generate flags", err)
	}

	// Bind all flags of cleanCmd to Viper
	cleanCmd.Flags().Bool("golden", false, "Also remove the golden directory")
	if err := viper.BindPFlags(cleanCmd.Flags()); err != nil {
		contract.LogFatal("Error binding clean flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}

// addPolicyFlags registers the check policy switches on a flag set.
func addPolicyFlags(flags *pflag.FlagSet) {
	defaults := schema.DefaultCheckPolicy()
	flags.Bool("error-on-new-dynamic-properties", defaults.ErrorOnNewDynamicProperties, "Fail when a new composable has a dynamic default expression")
	flags.Bool("error-on-new-unstable-classes", defaults.ErrorOnNewUnstableClasses, "Fail when a new class is inferred unstable")
	flags.Bool("error-on-new-restartable-but-not-skippable", defaults.ErrorOnNewRestartableButNotSkippable, "Fail when a new composable is restartable but not skippable")
	flags.Bool("error-on-new-unstable-params", defaults.ErrorOnNewUnstableParams, "Fail when a composable gains an unstable parameter")
	flags.Bool("ignore-unstable-params-on-skippable", defaults.IgnoreUnstableParamsOnSkippable, "Ignore unstable parameters of skippable composables")
	flags.Bool("assume-runtime-stability-as-unstable", defaults.AssumeRuntimeStabilityAsUnstable, "Treat runtime-determined stability as unstable")
	flags.Bool("report-all-on-missing-baseline", defaults.ReportAllOnMissingBaseline, "Compare against an empty baseline instead of failing when golden metrics are missing")
	flags.String("metrics-file", "", "Write Prometheus textfile gauges to this path after the check")
}
