package parse

import (
	_ "embed"
	"regexp"
	"strings"
	"testing"

	"github.com/huangsam/composeguard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/app_debug-composables.txt
var functionsFixture string

//go:embed testdata/app_debug-classes.txt
var typesFixture string

//go:embed testdata/app_debug-module.json
var briefFixture string

//go:embed testdata/app_debug-composables.csv
var detailedFixture string

func TestSegment(t *testing.T) {
	start := regexp.MustCompile(`^BEGIN`)

	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"empty input", "", []string{}},
		{"no start lines", "a\nb\nc", []string{}},
		{"single record", "BEGIN 1\nx\ny", []string{"BEGIN 1\nx\ny"}},
		{"leading lines dropped", "noise\nBEGIN 1\nx", []string{"BEGIN 1\nx"}},
		{"blank lines removed", "BEGIN 1\n\n   \nx\n\nBEGIN 2\n", []string{"BEGIN 1\nx", "BEGIN 2"}},
		{"carriage returns stripped", "BEGIN 1\r\nx\r\nBEGIN 2\r\n", []string{"BEGIN 1\nx", "BEGIN 2"}},
		{"adjacent starts", "BEGIN 1\nBEGIN 2\nBEGIN 3", []string{"BEGIN 1", "BEGIN 2", "BEGIN 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Segment(tt.content, start))
		})
	}
}

func TestSegment_RecordCountMatchesStartLines(t *testing.T) {
	records := Segment(functionsFixture, FunctionPattern)
	assert.Len(t, records, 4)
	for _, r := range records {
		assert.Regexp(t, FunctionPattern, strings.Split(r, "\n")[0])
		assert.NotContains(t, r, "\n\n")
	}
}

func TestSegment_RecordsReconstructInput(t *testing.T) {
	start := regexp.MustCompile(`^BEGIN`)
	inputs := map[string]string{
		"fixture":      functionsFixture,
		"blank gaps":   "BEGIN 1\n\nx\n   \n  y\nBEGIN 2\r\nz\r\n\n",
		"single start": "BEGIN only",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			pattern := start
			if name == "fixture" {
				pattern = FunctionPattern
			}
			records := Segment(in, pattern)
			assert.Equal(t, strings.Join(nonBlankLines(in), "\n"), strings.Join(records, "\n"))
		})
	}
}

func TestParseFunctions_Fixture(t *testing.T) {
	report := ParseFunctions(functionsFixture)
	require.Empty(t, report.Errors)
	require.Len(t, report.Functions, 4)

	my := report.Functions[0]
	assert.Equal(t, "MyComposable", my.Name)
	assert.True(t, my.IsRestartable)
	assert.True(t, my.IsSkippable)
	assert.False(t, my.IsInline)
	require.Len(t, my.Params, 3)

	assert.Equal(t, schema.Parameter{
		Name:        "modifier",
		Type:        "Modifier?",
		Stability:   schema.Stable,
		DefaultKind: schema.StaticDefault,
		Raw:         "stable modifier: Modifier? = @static Companion",
	}, my.Params[0])
	assert.Equal(t, "testClass", my.Params[1].Name)
	assert.Equal(t, "TestDataClass?", my.Params[1].Type)
	assert.Equal(t, schema.Unstable, my.Params[1].Stability)
	assert.Equal(t, schema.DynamicDefault, my.Params[1].DefaultKind)
	assert.True(t, my.Params[2].Unused)
	assert.Equal(t, "Int", my.Params[2].Type)
	assert.Equal(t, schema.MissingDefault, my.Params[2].DefaultKind)

	profile := report.Functions[1]
	assert.Equal(t, "ProfileCard", profile.Name)
	assert.True(t, profile.IsRestartable)
	assert.False(t, profile.IsSkippable)

	inline := report.Functions[2]
	assert.Equal(t, "InlineColumn", inline.Name)
	assert.True(t, inline.IsInline)
	assert.False(t, inline.IsRestartable)
	require.Len(t, inline.Params, 1)
	assert.Equal(t, "@[ExtensionFunctionType] Function3<ColumnScope, Composer, Int, Unit>", inline.Params[0].Type)

	none := report.Functions[3]
	assert.Equal(t, "NoParams", none.Name)
	assert.Empty(t, none.Params)
	assert.NotNil(t, none.Params)

	rns := report.RestartableButNotSkippable()
	require.Len(t, rns, 1)
	assert.Equal(t, "ProfileCard", rns[0].Name)
}

func TestParseFunctions_DefaultKindCounts(t *testing.T) {
	report := ParseFunctions(functionsFixture)
	counts := map[schema.DefaultKind]int{}
	unused := 0
	for _, p := range report.Functions[0].Params {
		counts[p.DefaultKind]++
		if p.Unused {
			unused++
		}
	}
	assert.Equal(t, 1, counts[schema.DynamicDefault])
	assert.Equal(t, 1, counts[schema.StaticDefault])
	assert.Equal(t, 1, counts[schema.MissingDefault])
	assert.Equal(t, 1, unused)
}

func TestParseFunctions_MissingStability(t *testing.T) {
	content := "restartable fun Screen(\n  state: ScreenState\n  runtime dep: Dependency\n)"
	report := ParseFunctions(content)
	require.Len(t, report.Functions, 1)
	params := report.Functions[0].Params
	require.Len(t, params, 2)
	assert.Equal(t, schema.Missing, params[0].Stability)
	assert.Equal(t, "ScreenState", params[0].Type)
	assert.Equal(t, schema.Missing, params[1].Stability)
}

func TestParseFunctions_ErrorIsolation(t *testing.T) {
	content := strings.Join([]string{
		"restartable skippable fun Good(",
		"  stable a: Int",
		")",
		"restartable fun (",
		"  stable b: Int",
		")",
		"restartable fun AlsoGood()",
	}, "\n")

	report := ParseFunctions(content)
	require.Len(t, report.Functions, 2)
	assert.Equal(t, "Good", report.Functions[0].Name)
	assert.Equal(t, "AlsoGood", report.Functions[1].Name)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, "undefined name for the function", report.Errors[0].Cause)
	assert.True(t, strings.HasPrefix(report.Errors[0].RawSegment, "restartable fun ("))
}

func TestParseFunctions_Empty(t *testing.T) {
	report := ParseFunctions("")
	assert.Empty(t, report.Functions)
	assert.Empty(t, report.Errors)
}

func TestParseTypes_Fixture(t *testing.T) {
	report := ParseTypes(typesFixture)
	require.Empty(t, report.Errors)
	require.Len(t, report.Types, 4)

	data := report.Types[0]
	assert.Equal(t, "TestDataClass", data.Name)
	assert.Equal(t, schema.Unstable, data.Stability)
	require.NotNil(t, data.RuntimeStability)
	assert.Equal(t, schema.Unstable, *data.RuntimeStability)
	assert.Equal(t, []schema.Field{{Status: "stable", Detail: "var name: String"}}, data.Fields)

	stable := report.Types[1]
	assert.Equal(t, schema.Stable, stable.Stability)
	require.NotNil(t, stable.RuntimeStability)
	assert.Equal(t, schema.Stable, *stable.RuntimeStability)

	profile := report.Types[2]
	assert.Nil(t, profile.RuntimeStability)
	assert.Len(t, profile.Fields, 2)

	wrapper := report.Types[3]
	assert.Equal(t, schema.Missing, wrapper.Stability)
	require.NotNil(t, wrapper.RuntimeStability)
	assert.Equal(t, schema.Missing, *wrapper.RuntimeStability)

	unstable := report.UnstableTypes()
	require.Len(t, unstable, 2)
	assert.Equal(t, "TestDataClass", unstable[0].Name)
	assert.Equal(t, "Profile", unstable[1].Name)
}

func TestParseTypes_ErrorIsolation(t *testing.T) {
	content := "stable class {\n  stable val a: Int\n}\nunstable class Kept {\n  unstable var b: Thing\n}"
	report := ParseTypes(content)
	require.Len(t, report.Types, 1)
	assert.Equal(t, "Kept", report.Types[0].Name)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "undefined name for the class body", report.Errors[0].Cause)
}

func TestMergeBriefStats(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		stats, err := MergeBriefStats(strings.NewReader(briefFixture))
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats["totalComposables"])
		assert.Equal(t, int64(2), stats["inferredUnstableClasses"])
	})

	t.Run("sums across files", func(t *testing.T) {
		stats, err := MergeBriefStats(
			strings.NewReader(`{"a": 1, "b": 2}`),
			strings.NewReader(`{"a": 10, "c": 5}`),
		)
		require.NoError(t, err)
		assert.Equal(t, schema.SummaryCounters{"a": 11, "b": 2, "c": 5}, stats)
	})

	t.Run("order does not matter", func(t *testing.T) {
		first, second := `{"a": 1, "b": 2}`, `{"a": 10, "c": 5}`
		forward, err := MergeBriefStats(strings.NewReader(first), strings.NewReader(second))
		require.NoError(t, err)
		backward, err := MergeBriefStats(strings.NewReader(second), strings.NewReader(first))
		require.NoError(t, err)
		assert.Equal(t, forward, backward)
	})

	t.Run("no files", func(t *testing.T) {
		stats, err := MergeBriefStats()
		require.NoError(t, err)
		assert.Empty(t, stats)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := MergeBriefStats(strings.NewReader(`{"a": 1}`), strings.NewReader(`{"a": "x"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "#2")
	})
}

func TestParseDetailedStats(t *testing.T) {
	t.Run("fixture", func(t *testing.T) {
		rows := ParseDetailedStats(detailedFixture)
		require.Len(t, rows, 2)
		assert.Len(t, rows[0], 12)
		assert.Equal(t, schema.StatPair{Header: "name", Value: "ProfileCard"}, rows[1][1])
		assert.Equal(t, schema.StatPair{Header: "calls", Value: "2"}, rows[0][11])
	})

	t.Run("header only", func(t *testing.T) {
		assert.Empty(t, ParseDetailedStats("package,name,composable,\n"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ParseDetailedStats(""))
	})

	t.Run("truncates to shorter side", func(t *testing.T) {
		rows := ParseDetailedStats("a,b,c\n1,2\n1,2,3,4\n\n")
		require.Len(t, rows, 2)
		assert.Equal(t, schema.DetailedStatsRow{{Header: "a", Value: "1"}, {Header: "b", Value: "2"}}, rows[0])
		assert.Len(t, rows[1], 3)
	})

	t.Run("blank cells filtered", func(t *testing.T) {
		rows := ParseDetailedStats("a,,b\nx, ,y")
		require.Len(t, rows, 1)
		assert.Equal(t, schema.DetailedStatsRow{{Header: "a", Value: "x"}, {Header: "b", Value: "y"}}, rows[0])
	})
}
