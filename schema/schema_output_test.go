package schema_test

import (
	"testing"

	"github.com/huangsam/composeguard/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, "PASS", schema.GetPlainLabel(true))
	assert.Equal(t, "FAIL", schema.GetPlainLabel(false))
}

func TestCheckResultMessages(t *testing.T) {
	result := schema.CheckResult{
		Violations: []schema.Violation{
			{Rule: schema.DynamicDefaultsRule, Message: "first"},
			{Rule: schema.UnstableParamsRule, Message: "second"},
		},
	}
	assert.Equal(t, []string{"first", "second"}, result.Messages())
	assert.Empty(t, schema.CheckResult{}.Messages())
}

func TestDefaultCheckPolicy(t *testing.T) {
	p := schema.DefaultCheckPolicy()
	assert.True(t, p.ErrorOnNewDynamicProperties)
	assert.True(t, p.ErrorOnNewUnstableClasses)
	assert.True(t, p.ErrorOnNewRestartableButNotSkippable)
	assert.True(t, p.ErrorOnNewUnstableParams)
	assert.False(t, p.IgnoreUnstableParamsOnSkippable)
	assert.False(t, p.AssumeRuntimeStabilityAsUnstable)
	assert.False(t, p.ReportAllOnMissingBaseline)

	m := p.ToMap()
	assert.Len(t, m, 7)
	assert.Equal(t, true, m["error_on_new_unstable_params"])
	assert.Equal(t, false, m["report_all_on_missing_baseline"])
}
