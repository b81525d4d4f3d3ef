package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for check history.
	DatabaseBackend string

	// Stability represents the declared stability of a parameter or type.
	Stability string

	// DefaultKind represents how the compiler classified a default parameter expression.
	DefaultKind string

	// RuleID identifies one regression rule.
	RuleID string

	// Side identifies which report directory a snapshot is loaded from.
	Side string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Stability values. MISSING means the compiler could not tell, usually across module boundaries.
const (
	Stable   Stability = "STABLE"
	Unstable Stability = "UNSTABLE"
	Missing  Stability = "MISSING"
)

// Default expression kinds.
const (
	StaticDefault  DefaultKind = "STATIC"
	DynamicDefault DefaultKind = "DYNAMIC"
	MissingDefault DefaultKind = "MISSING"
)

// Regression rules, in evaluation order.
const (
	DynamicDefaultsRule      RuleID = "dynamic_defaults"
	UnstableClassesRule      RuleID = "unstable_classes"
	RestartableSkippableRule RuleID = "restartable_not_skippable"
	UnstableParamsRule       RuleID = "unstable_params"
)

// Report sides.
const (
	CurrentSide Side = "current" // default
	GoldenSide  Side = "golden"
)

// Report file suffixes emitted by the compiler as <module>_<variant><suffix>.
const (
	BriefStatsSuffix    = "-module.json"
	DetailedStatsSuffix = "-composables.csv"
	FunctionsSuffix     = "-composables.txt"
	TypesSuffix         = "-classes.txt"
)

// AllRules lists every rule in evaluation order.
var AllRules = []RuleID{DynamicDefaultsRule, UnstableClassesRule, RestartableSkippableRule, UnstableParamsRule}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSides lists all valid report sides.
var ValidSides = map[Side]struct{}{
	CurrentSide: {},
	GoldenSide:  {},
}
