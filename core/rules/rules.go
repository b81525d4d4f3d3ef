// Package rules compares two metrics snapshots and reports regressions.
//
// Every rule computes what the current snapshot has that the baseline does not.
// Rules only read the snapshots and hold no state between calls.
package rules

import (
	"strings"

	"github.com/huangsam/composeguard/core/metrics"
	"github.com/huangsam/composeguard/schema"
)

const docsURL = "https://github.com/JetBrains/kotlin/blob/master/plugins/compose/design/compiler-metrics.md"

// Message headers for each rule.
const (
	dynamicDefaultsHeader      = "New @dynamic parameters were added! \n"
	restartableSkippableHeader = "New Composables were added that are restartable but not skippable! \n"
	unstableClassesHeader      = "New unstable classes were added! \n"
	unstableParamsHeader       = "New unstable parameters were added in the following @Composables! \n"
	assumeStabilityCaveat      = "Please note, since `assumeRuntimeStabilityAsUnstable` is enabled, " +
		"composeguard may not correctly be able to infer the stability of parameters from across module boundaries \n"
)

// Evaluate runs every rule enabled by the policy. Violations are returned in rule order:
// dynamic defaults, unstable classes, restartable but not skippable, unstable params.
func Evaluate(current, baseline *metrics.Snapshot, policy schema.CheckPolicy) []schema.Violation {
	var violations []schema.Violation
	add := func(v *schema.Violation) {
		if v != nil {
			violations = append(violations, *v)
		}
	}

	if policy.ErrorOnNewDynamicProperties {
		add(checkDynamicDefaults(current, baseline))
	}
	if policy.ErrorOnNewUnstableClasses {
		add(checkUnstableClasses(current, baseline))
	}
	if policy.ErrorOnNewRestartableButNotSkippable {
		add(checkRestartableButNotSkippable(current, baseline))
	}
	if policy.ErrorOnNewUnstableParams {
		add(checkUnstableParams(current, baseline, policy))
	}
	return violations
}

// Check runs Evaluate and returns only the violation messages.
// An empty result means the check passed.
func Check(current, baseline *metrics.Snapshot, policy schema.CheckPolicy) []string {
	violations := Evaluate(current, baseline, policy)
	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.Message
	}
	return messages
}

// Join renders messages the way they are shown to users.
func Join(messages []string) string {
	return strings.Join(messages, "\n\n")
}

// EnabledRules lists the rules a policy turns on, in evaluation order.
func EnabledRules(policy schema.CheckPolicy) []schema.RuleID {
	enabled := map[schema.RuleID]bool{
		schema.DynamicDefaultsRule:      policy.ErrorOnNewDynamicProperties,
		schema.UnstableClassesRule:      policy.ErrorOnNewUnstableClasses,
		schema.RestartableSkippableRule: policy.ErrorOnNewRestartableButNotSkippable,
		schema.UnstableParamsRule:       policy.ErrorOnNewUnstableParams,
	}
	var out []schema.RuleID
	for _, rule := range schema.AllRules {
		if enabled[rule] {
			out = append(out, rule)
		}
	}
	return out
}

func checkDynamicDefaults(current, baseline *metrics.Snapshot) *schema.Violation {
	isDynamic := func(_ schema.FunctionRecord, p schema.Parameter) bool {
		return p.DefaultKind == schema.DynamicDefault
	}
	added := newKeys(paramKeys(current, isDynamic), paramKeys(baseline, isDynamic))
	if len(added) == 0 {
		return nil
	}

	items := keyStrings(added)
	return &schema.Violation{
		Rule:    schema.DynamicDefaultsRule,
		Message: dynamicDefaultsHeader + strings.Join(items, ",") + "\nMore info: " + docsURL + "#default-parameter-expressions-that-are-dynamic",
		Items:   items,
	}
}

func checkRestartableButNotSkippable(current, baseline *metrics.Snapshot) *schema.Violation {
	cur := current.Functions().RestartableButNotSkippable()
	base := baseline.Functions().RestartableButNotSkippable()
	if len(cur) <= len(base) {
		return nil
	}

	var items []string
	for _, fn := range cur {
		if !containsRecord(base, fn) {
			items = append(items, fn.String())
		}
	}
	return &schema.Violation{
		Rule:    schema.RestartableSkippableRule,
		Message: restartableSkippableHeader + strings.Join(items, ",") + "\nMore info: " + docsURL + "#functions-that-are-restartable-but-not-skippable",
		Items:   items,
	}
}

func checkUnstableClasses(current, baseline *metrics.Snapshot) *schema.Violation {
	known := map[string]bool{}
	for _, t := range baseline.Types().UnstableTypes() {
		known[t.Name] = true
	}
	added := map[string]schema.TypeRecord{}
	for _, t := range current.Types().UnstableTypes() {
		if !known[t.Name] {
			if _, seen := added[t.Name]; !seen {
				added[t.Name] = t
			}
		}
	}
	if len(added) == 0 {
		return nil
	}

	// Only classes used as parameters of a composable are reported.
	var items []string
	reported := map[string]bool{}
	for _, fn := range current.Functions().Functions {
		for _, p := range fn.Params {
			// A nullable parameter type refers to the same class.
			name := strings.TrimSuffix(p.Type, "?")
			t, ok := added[name]
			if !ok || reported[name] {
				continue
			}
			reported[name] = true
			items = append(items, t.String())
		}
	}
	if len(items) == 0 {
		return nil
	}
	return &schema.Violation{
		Rule:    schema.UnstableClassesRule,
		Message: unstableClassesHeader + strings.Join(items, ",") + "\nMore info: " + docsURL + "#classes-that-are-unstable",
		Items:   items,
	}
}

func checkUnstableParams(current, baseline *metrics.Snapshot, policy schema.CheckPolicy) *schema.Violation {
	isUnstable := func(fn schema.FunctionRecord, p schema.Parameter) bool {
		if policy.AssumeRuntimeStabilityAsUnstable && p.Stability == schema.Missing {
			return true
		}
		return p.Stability == schema.Unstable && (!policy.IgnoreUnstableParamsOnSkippable || !fn.IsSkippable)
	}
	added := newKeys(paramKeys(current, isUnstable), paramKeys(baseline, isUnstable))
	if len(added) == 0 {
		return nil
	}

	items := keyStrings(added)
	var b strings.Builder
	b.WriteString(unstableParamsHeader)
	if policy.AssumeRuntimeStabilityAsUnstable {
		b.WriteString(assumeStabilityCaveat)
	}
	b.WriteString(strings.Join(items, "\n"))
	return &schema.Violation{
		Rule:    schema.UnstableParamsRule,
		Message: b.String(),
		Items:   items,
	}
}

// paramKeys returns the distinct keys of parameters accepted by keep, in report order.
func paramKeys(snap *metrics.Snapshot, keep func(schema.FunctionRecord, schema.Parameter) bool) []schema.ParamKey {
	var keys []schema.ParamKey
	seen := map[schema.ParamKey]bool{}
	for _, fn := range snap.Functions().Functions {
		for _, p := range fn.Params {
			if !keep(fn, p) {
				continue
			}
			key := schema.ParamKey{FunctionName: fn.Name, ParameterName: p.Name, ParameterType: p.Type}
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// newKeys returns the keys of current that are absent from baseline, keeping current's order.
func newKeys(current, baseline []schema.ParamKey) []schema.ParamKey {
	known := make(map[schema.ParamKey]bool, len(baseline))
	for _, k := range baseline {
		known[k] = true
	}
	var out []schema.ParamKey
	for _, k := range current {
		if !known[k] {
			out = append(out, k)
		}
	}
	return out
}

func keyStrings(keys []schema.ParamKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func containsRecord(records []schema.FunctionRecord, target schema.FunctionRecord) bool {
	for _, r := range records {
		if r.Equal(target) {
			return true
		}
	}
	return false
}
