package schema

// SnapshotView is the structured form of a snapshot written by the json and yaml outputs.
type SnapshotView struct {
	Summary                    SnapshotSummary    `json:"summary" yaml:"summary"`
	DetailedStats              []DetailedStatsRow `json:"detailed_stats" yaml:"detailed_stats"`
	RestartableButNotSkippable []string           `json:"restartable_not_skippable" yaml:"restartable_not_skippable"`
	UnstableTypes              []TypeRecord       `json:"unstable_types" yaml:"unstable_types"`
	Functions                  []FunctionRecord   `json:"functions,omitempty" yaml:"functions,omitempty"`
	Types                      []TypeRecord       `json:"types,omitempty" yaml:"types,omitempty"`
	ParseErrors                []ParseError       `json:"parse_errors" yaml:"parse_errors"`
}

// GetPlainLabel returns a plain pass/fail label for a check outcome.
func GetPlainLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
