package contract

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/composeguard/schema"
)

// Default values for configuration.
const (
	DefaultGoldenDir     = "build/compose_reports"
	DefaultCheckDir      = "build/compose_reports/raw"
	DefaultWatchDebounce = 500 * time.Millisecond
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// PolicyRawInput holds the optional policy block from the YAML config file.
// Pointer fields distinguish "not set" from false.
type PolicyRawInput struct {
	ErrorOnNewDynamicProperties          *bool `mapstructure:"error_on_new_dynamic_properties"`
	ErrorOnNewUnstableClasses            *bool `mapstructure:"error_on_new_unstable_classes"`
	ErrorOnNewRestartableButNotSkippable *bool `mapstructure:"error_on_new_restartable_but_not_skippable"`
	ErrorOnNewUnstableParams             *bool `mapstructure:"error_on_new_unstable_params"`
	IgnoreUnstableParamsOnSkippable      *bool `mapstructure:"ignore_unstable_params_on_skippable"`
	AssumeRuntimeStabilityAsUnstable     *bool `mapstructure:"assume_runtime_stability_as_unstable"`
	ReportAllOnMissingBaseline           *bool `mapstructure:"report_all_on_missing_baseline"`
}

// Config holds the runtime configuration for composeguard.
// This struct remains the "final, validated" config.
type Config struct {
	GoldenDir string
	CheckDir  string
	Variants  []string // Never empty; a single "" selects every file
	Side      schema.Side

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Policy      schema.CheckPolicy
	MetricsFile string // Prometheus textfile written after a check

	CleanGolden   bool // clean: also remove the golden directory
	GenerateClean bool // generate: wipe the golden directory first
	ShowFunctions bool // snapshot: include every function record
	WatchDebounce time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	GoldenDir        string `mapstructure:"golden-dir"`
	CheckDir         string `mapstructure:"check-dir"`
	Variant          string `mapstructure:"variant"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from checkCmd.Flags() ---
	ErrorOnNewDynamicProperties          bool   `mapstructure:"error-on-new-dynamic-properties"`
	ErrorOnNewUnstableClasses            bool   `mapstructure:"error-on-new-unstable-classes"`
	ErrorOnNewRestartableButNotSkippable bool   `mapstructure:"error-on-new-restartable-but-not-skippable"`
	ErrorOnNewUnstableParams             bool   `mapstructure:"error-on-new-unstable-params"`
	IgnoreUnstableParamsOnSkippable      bool   `mapstructure:"ignore-unstable-params-on-skippable"`
	AssumeRuntimeStabilityAsUnstable     bool   `mapstructure:"assume-runtime-stability-as-unstable"`
	ReportAllOnMissingBaseline           bool   `mapstructure:"report-all-on-missing-baseline"`
	MetricsFile                          string `mapstructure:"metrics-file"`

	// --- Fields from other subcommands ---
	Side      string `mapstructure:"side"`
	Golden    bool   `mapstructure:"golden"`
	Clean     bool   `mapstructure:"clean"`
	Functions bool   `mapstructure:"functions"`
	Debounce  string `mapstructure:"debounce"`

	// --- Policy block from config file ---
	Policy PolicyRawInput `mapstructure:"policy"`

	// ChangedFlags names the flags set explicitly on the command line.
	// Those win over the policy block.
	ChangedFlags []string `mapstructure:"-"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Variants = slices.Clone(c.Variants)
	return &clone
}

// CloneForVariant returns a copy of the Config that targets a single variant.
func (c *Config) CloneForVariant(variant string) *Config {
	clone := c.Clone()
	clone.Variants = []string{variant}
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDirectories(cfg, input); err != nil {
		return err
	}
	cfg.Variants = ParseVariants(input.Variant)
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	processPolicy(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
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

// ParseBackend normalizes a backend name. An empty name means history is disabled.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(s) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// ParseVariants splits a comma-separated variant list, trimming and de-duplicating entries.
// An empty list yields a single empty variant, which matches every report file.
func ParseVariants(s string) []string {
	var variants []string
	for part := range strings.SplitSeq(s, ",") {
		v := strings.TrimSpace(part)
		if v == "" || slices.Contains(variants, v) {
			continue
		}
		variants = append(variants, v)
	}
	if len(variants) == 0 {
		return []string{""}
	}
	return variants
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.MetricsFile = strings.TrimSpace(input.MetricsFile)
	cfg.CleanGolden = input.Golden
	cfg.GenerateClean = input.Clean
	cfg.ShowFunctions = input.Functions

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Width Validation ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Side Validation ---
	cfg.Side = schema.Side(strings.ToLower(input.Side))
	if cfg.Side == "" {
		cfg.Side = schema.CurrentSide
	}
	if _, ok := schema.ValidSides[cfg.Side]; !ok {
		return fmt.Errorf("invalid side '%s'. must be current, golden", input.Side)
	}

	// --- 4. Debounce Validation ---
	cfg.WatchDebounce = DefaultWatchDebounce
	if input.Debounce != "" {
		d, err := time.ParseDuration(input.Debounce)
		if err != nil {
			return fmt.Errorf("invalid --debounce value '%s': %w", input.Debounce, err)
		}
		if d <= 0 {
			return fmt.Errorf("debounce must be positive (received %s)", d)
		}
		cfg.WatchDebounce = d
	}
	return nil
}

// processDirectories validates the golden and check directories.
func processDirectories(cfg *Config, input *ConfigRawInput) error {
	cfg.GoldenDir = strings.TrimSpace(input.GoldenDir)
	cfg.CheckDir = strings.TrimSpace(input.CheckDir)
	if cfg.GoldenDir == "" {
		cfg.GoldenDir = DefaultGoldenDir
	}
	if cfg.CheckDir == "" {
		cfg.CheckDir = DefaultCheckDir
	}
	if filepath.Clean(cfg.GoldenDir) == filepath.Clean(cfg.CheckDir) {
		return fmt.Errorf("golden and check directories must differ. Both resolve to %q", filepath.Clean(cfg.GoldenDir))
	}
	return nil
}

// processPolicy builds the check policy from flags, then applies the config file
// policy block to every switch not given explicitly on the command line.
func processPolicy(cfg *Config, input *ConfigRawInput) {
	cfg.Policy = schema.CheckPolicy{
		ErrorOnNewDynamicProperties:          input.ErrorOnNewDynamicProperties,
		ErrorOnNewUnstableClasses:            input.ErrorOnNewUnstableClasses,
		ErrorOnNewRestartableButNotSkippable: input.ErrorOnNewRestartableButNotSkippable,
		ErrorOnNewUnstableParams:             input.ErrorOnNewUnstableParams,
		IgnoreUnstableParamsOnSkippable:      input.IgnoreUnstableParamsOnSkippable,
		AssumeRuntimeStabilityAsUnstable:     input.AssumeRuntimeStabilityAsUnstable,
		ReportAllOnMissingBaseline:           input.ReportAllOnMissingBaseline,
	}

	overrides := []struct {
		flag   string
		value  *bool
		target *bool
	}{
		{"error-on-new-dynamic-properties", input.Policy.ErrorOnNewDynamicProperties, &cfg.Policy.ErrorOnNewDynamicProperties},
		{"error-on-new-unstable-classes", input.Policy.ErrorOnNewUnstableClasses, &cfg.Policy.ErrorOnNewUnstableClasses},
		{"error-on-new-restartable-but-not-skippable", input.Policy.ErrorOnNewRestartableButNotSkippable, &cfg.Policy.ErrorOnNewRestartableButNotSkippable},
		{"error-on-new-unstable-params", input.Policy.ErrorOnNewUnstableParams, &cfg.Policy.ErrorOnNewUnstableParams},
		{"ignore-unstable-params-on-skippable", input.Policy.IgnoreUnstableParamsOnSkippable, &cfg.Policy.IgnoreUnstableParamsOnSkippable},
		{"assume-runtime-stability-as-unstable", input.Policy.AssumeRuntimeStabilityAsUnstable, &cfg.Policy.AssumeRuntimeStabilityAsUnstable},
		{"report-all-on-missing-baseline", input.Policy.ReportAllOnMissingBaseline, &cfg.Policy.ReportAllOnMissingBaseline},
	}
	for _, o := range overrides {
		if o.value != nil && !slices.Contains(input.ChangedFlags, o.flag) {
			*o.target = *o.value
		}
	}
}
