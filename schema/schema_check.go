package schema

import "time"

// CheckPolicy toggles the regression rules and their modifiers.
type CheckPolicy struct {
	ErrorOnNewDynamicProperties          bool `json:"error_on_new_dynamic_properties" yaml:"error_on_new_dynamic_properties"`
	ErrorOnNewUnstableClasses            bool `json:"error_on_new_unstable_classes" yaml:"error_on_new_unstable_classes"`
	ErrorOnNewRestartableButNotSkippable bool `json:"error_on_new_restartable_but_not_skippable" yaml:"error_on_new_restartable_but_not_skippable"`
	ErrorOnNewUnstableParams             bool `json:"error_on_new_unstable_params" yaml:"error_on_new_unstable_params"`

	// IgnoreUnstableParamsOnSkippable drops unstable params of functions that are already skippable (strong skipping).
	IgnoreUnstableParamsOnSkippable bool `json:"ignore_unstable_params_on_skippable" yaml:"ignore_unstable_params_on_skippable"`

	// AssumeRuntimeStabilityAsUnstable treats MISSING parameter stability as unstable.
	AssumeRuntimeStabilityAsUnstable bool `json:"assume_runtime_stability_as_unstable" yaml:"assume_runtime_stability_as_unstable"`

	// ReportAllOnMissingBaseline compares against an empty baseline instead of failing.
	ReportAllOnMissingBaseline bool `json:"report_all_on_missing_baseline" yaml:"report_all_on_missing_baseline"`
}

// DefaultCheckPolicy returns a policy with every rule enabled and no modifiers.
func DefaultCheckPolicy() CheckPolicy {
	return CheckPolicy{
		ErrorOnNewDynamicProperties:          true,
		ErrorOnNewUnstableClasses:            true,
		ErrorOnNewRestartableButNotSkippable: true,
		ErrorOnNewUnstableParams:             true,
	}
}

// ToMap flattens the policy for run metadata.
func (p CheckPolicy) ToMap() map[string]any {
	return map[string]any{
		"error_on_new_dynamic_properties":            p.ErrorOnNewDynamicProperties,
		"error_on_new_unstable_classes":              p.ErrorOnNewUnstableClasses,
		"error_on_new_restartable_but_not_skippable": p.ErrorOnNewRestartableButNotSkippable,
		"error_on_new_unstable_params":               p.ErrorOnNewUnstableParams,
		"ignore_unstable_params_on_skippable":        p.IgnoreUnstableParamsOnSkippable,
		"assume_runtime_stability_as_unstable":       p.AssumeRuntimeStabilityAsUnstable,
		"report_all_on_missing_baseline":             p.ReportAllOnMissingBaseline,
	}
}

// Violation is the outcome of one rule that found regressions.
type Violation struct {
	Rule    RuleID   `json:"rule" yaml:"rule"`
	Message string   `json:"message" yaml:"message"` // Self-contained block suitable for display
	Items   []string `json:"items" yaml:"items"`     // Rendered offending keys or records
}

// CheckResult holds the results of one variant check.
type CheckResult struct {
	RunID            string          `json:"run_id" yaml:"run_id"`
	Variant          string          `json:"variant" yaml:"variant"`
	Passed           bool            `json:"passed" yaml:"passed"`
	GoldenDir        string          `json:"golden_dir" yaml:"golden_dir"`
	CheckDir         string          `json:"check_dir" yaml:"check_dir"`
	BaselineMissing  bool            `json:"baseline_missing" yaml:"baseline_missing"`
	Policy           CheckPolicy     `json:"policy" yaml:"policy"`
	CheckedRules     []RuleID        `json:"checked_rules" yaml:"checked_rules"`
	Violations       []Violation     `json:"violations" yaml:"violations"`
	Current          SnapshotSummary `json:"current" yaml:"current"`
	Golden           SnapshotSummary `json:"golden" yaml:"golden"`
	StartTime        time.Time       `json:"start_time" yaml:"start_time"`
	Duration         time.Duration   `json:"duration" yaml:"duration"`
	CurrentParseErrs []ParseError    `json:"current_parse_errors,omitempty" yaml:"current_parse_errors,omitempty"`
}

// Messages returns every violation message in rule order.
func (r CheckResult) Messages() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Message
	}
	return out
}
