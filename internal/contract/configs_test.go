package contract

import (
	"testing"
	"time"

	"github.com/huangsam/composeguard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		GoldenDir: DefaultGoldenDir,
		CheckDir:  DefaultCheckDir,
		Output:    "text",
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "parquet without output file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: true,
		},
		{
			name: "parquet with output file",
			mutate: func(in *ConfigRawInput) {
				in.Output = "parquet"
				in.OutputFile = "out"
			},
		},
		{
			name:        "negative width",
			mutate:      func(in *ConfigRawInput) { in.Width = -1 },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid side",
			mutate:      func(in *ConfigRawInput) { in.Side = "left" },
			expectError: true,
		},
		{
			name: "same golden and check dir",
			mutate: func(in *ConfigRawInput) {
				in.GoldenDir = "build/reports"
				in.CheckDir = "build/reports/"
			},
			expectError: true,
		},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.HistoryBackend = "oracle" },
			expectError: true,
		},
		{
			name:        "mysql without connection",
			mutate:      func(in *ConfigRawInput) { in.HistoryBackend = "mysql" },
			expectError: true,
		},
		{
			name:        "invalid debounce",
			mutate:      func(in *ConfigRawInput) { in.Debounce = "soon" },
			expectError: true,
		},
		{
			name:        "non-positive debounce",
			mutate:      func(in *ConfigRawInput) { in.Debounce = "0s" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{Color: "no"}))

	assert.Equal(t, DefaultGoldenDir, cfg.GoldenDir)
	assert.Equal(t, DefaultCheckDir, cfg.CheckDir)
	assert.Equal(t, []string{""}, cfg.Variants)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.CurrentSide, cfg.Side)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, DefaultWatchDebounce, cfg.WatchDebounce)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, schema.CheckPolicy{}, cfg.Policy)
}

func TestProcessAndValidate_Fields(t *testing.T) {
	input := validInput()
	input.Variant = "debug, release,debug,"
	input.Output = "JSON"
	input.Side = "Golden"
	input.HistoryBackend = "SQLite"
	input.Debounce = "2s"
	input.MetricsFile = " metrics.prom "
	input.Golden = true
	input.Clean = true
	input.Functions = true

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []string{"debug", "release"}, cfg.Variants)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.GoldenSide, cfg.Side)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce)
	assert.Equal(t, "metrics.prom", cfg.MetricsFile)
	assert.True(t, cfg.CleanGolden)
	assert.True(t, cfg.GenerateClean)
	assert.True(t, cfg.ShowFunctions)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidate_PolicyOverrides(t *testing.T) {
	enabled, disabled := true, false

	input := validInput()
	input.ErrorOnNewDynamicProperties = true
	input.ErrorOnNewUnstableClasses = true
	input.ErrorOnNewUnstableParams = true
	input.Policy = PolicyRawInput{
		ErrorOnNewUnstableClasses:        &disabled,
		AssumeRuntimeStabilityAsUnstable: &enabled,
	}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.CheckPolicy{
		ErrorOnNewDynamicProperties:      true,
		ErrorOnNewUnstableParams:         true,
		AssumeRuntimeStabilityAsUnstable: true,
	}, cfg.Policy)
}

func TestProcessAndValidate_ExplicitFlagsBeatPolicyBlock(t *testing.T) {
	enabled, disabled := true, false

	input := validInput()
	input.ErrorOnNewUnstableParams = false
	input.ErrorOnNewUnstableClasses = true
	input.ChangedFlags = []string{"error-on-new-unstable-params"}
	input.Policy = PolicyRawInput{
		ErrorOnNewUnstableParams:  &enabled,
		ErrorOnNewUnstableClasses: &disabled,
	}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.False(t, cfg.Policy.ErrorOnNewUnstableParams, "explicit flag keeps its value")
	assert.False(t, cfg.Policy.ErrorOnNewUnstableClasses, "unchanged flag takes the policy block value")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite ignores connection", schema.SQLiteBackend, "", false},
		{"none ignores connection", schema.NoneBackend, "anything", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/composeguard", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/db", true},
		{"mysql missing database", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=composeguard", false},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=composeguard", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseVariants(t *testing.T) {
	assert.Equal(t, []string{""}, ParseVariants(""))
	assert.Equal(t, []string{""}, ParseVariants(" , "))
	assert.Equal(t, []string{"debug"}, ParseVariants("debug"))
	assert.Equal(t, []string{"debug", "release"}, ParseVariants("debug,release,debug"))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Variants: []string{"debug", "release"}, GoldenDir: "golden"}

	clone := cfg.Clone()
	clone.Variants[0] = "changed"
	assert.Equal(t, "debug", cfg.Variants[0])

	single := cfg.CloneForVariant("release")
	assert.Equal(t, []string{"release"}, single.Variants)
	assert.Equal(t, "golden", single.GoldenDir)
	assert.Len(t, cfg.Variants, 2)
}
