package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/iocache"
	"github.com/huangsam/composeguard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// historyManager is the global check history manager instance.
var historyManager contract.HistoryManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "composeguard",
	Short:              "Guard Compose compiler metrics against regressions.",
	Long:               `Composeguard compares Compose compiler stability reports against a golden baseline and fails CI when composables regress.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigLocation()

	// Set environment variable prefix
	viper.SetEnvPrefix("COMPOSEGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("golden-dir", contract.DefaultGoldenDir)
	viper.SetDefault("check-dir", contract.DefaultCheckDir)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("side", schema.CurrentSide)
	viper.SetDefault("history-backend", schema.NoneBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("debounce", contract.DefaultWatchDebounce.String())

	// Policy defaults also apply to commands without the policy flags, like mcp
	defaults := schema.DefaultCheckPolicy()
	viper.SetDefault("error-on-new-dynamic-properties", defaults.ErrorOnNewDynamicProperties)
	viper.SetDefault("error-on-new-unstable-classes", defaults.ErrorOnNewUnstableClasses)
	viper.SetDefault("error-on-new-restartable-but-not-skippable", defaults.ErrorOnNewRestartableButNotSkippable)
	viper.SetDefault("error-on-new-unstable-params", defaults.ErrorOnNewUnstableParams)
}

// setConfigLocation points viper at --config or the default .composeguard locations.
func setConfigLocation() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".composeguard") // Name of config file (without extension)
	viper.SetConfigType("yaml")          // We'll use YAML format
	viper.AddConfigPath(".")             // Look in the current directory
	viper.AddConfigPath("$HOME")         // Look in the home directory
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, cmd *cobra.Command, _ []string) error {
	if cmd != nil {
		if err := viper.BindPFlags(cmd.LocalFlags()); err != nil {
			return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
		}
	}

	input.ChangedFlags = changedFlags(cmd)
	if err := processConfig(); err != nil {
		return err
	}

	// Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// changedFlags lists the local flags the user set on the command line.
func changedFlags(cmd *cobra.Command) []string {
	var names []string
	if cmd == nil {
		return names
	}
	cmd.LocalFlags().Visit(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	return names
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// processConfig merges every config source into cfg without touching persistence.
func processConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	color.NoColor = !cfg.UseColors
	return nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigLocation()

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetHistoryManager sets the global history manager.
func SetHistoryManager(mgr contract.HistoryManager) {
	historyManager = mgr
}
