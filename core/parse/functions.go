package parse

import (
	"errors"
	"regexp"
	"strings"

	"github.com/huangsam/composeguard/schema"
)

// FunctionPattern matches a function signature line and captures the text before
// the keyword and the function name. It also marks the start of each record.
var FunctionPattern = regexp.MustCompile(`(.*)fun (\w*)`)

// paramPattern matches one parameter line, for example:
//
//	unstable testClass: TestDataClass? = @dynamic TestDataClass("default")
//	unused stable nonDefaultParameter: Int
//
// Groups: unused marker, stability keyword, name, type, default expression kind.
var paramPattern = regexp.MustCompile(`^\s*(unused )?(?:(stable|unstable|runtime) )?([^\s:]+):\s+(.*?)(?:\s=\s+(@static|@dynamic)?.*)?\s*$`)

var (
	errNoSignature = errors.New("no function signature found")
	errNoName      = errors.New("undefined name for the function")
)

// ParseFunctions parses every function record of a functions report. Records that
// fail to parse are collected as errors and do not affect the others.
func ParseFunctions(content string) schema.FunctionsReport {
	report := schema.FunctionsReport{}
	for _, segment := range Segment(content, FunctionPattern) {
		record, err := parseFunctionRecord(segment)
		if err != nil {
			report.Errors = append(report.Errors, schema.ParseError{RawSegment: segment, Cause: err.Error()})
			continue
		}
		report.Functions = append(report.Functions, record)
	}
	return report
}

// parseFunctionRecord extracts the flags and parameters of one record.
func parseFunctionRecord(segment string) (schema.FunctionRecord, error) {
	match := FunctionPattern.FindStringSubmatch(segment)
	if match == nil {
		return schema.FunctionRecord{}, errNoSignature
	}
	header, name := match[0], match[2]
	if name == "" {
		return schema.FunctionRecord{}, errNoName
	}

	record := schema.FunctionRecord{
		Name:          name,
		IsRestartable: strings.Contains(header, "restartable"),
		IsSkippable:   strings.Contains(header, "skippable"),
		IsInline:      strings.Contains(header, "inline"),
		Params:        []schema.Parameter{},
		Raw:           segment,
	}

	lines := strings.Split(segment, "\n")
	for _, line := range lines[1:] {
		if p, ok := parseParameter(line); ok {
			record.Params = append(record.Params, p)
		}
	}
	return record, nil
}

// parseParameter extracts a parameter from one line. Lines without a stability keyword
// keep the parameter with MISSING stability.
func parseParameter(line string) (schema.Parameter, bool) {
	m := paramPattern.FindStringSubmatch(line)
	if m == nil || strings.TrimSpace(m[4]) == "" {
		return schema.Parameter{}, false
	}
	return schema.Parameter{
		Name:        m[3],
		Type:        strings.TrimSpace(m[4]),
		Unused:      m[1] != "",
		Stability:   stabilityFrom(m[2]),
		DefaultKind: defaultKindFrom(m[5]),
		Raw:         strings.TrimSpace(line),
	}, true
}

// stabilityFrom maps a report keyword to a Stability, case-insensitively.
func stabilityFrom(s string) schema.Stability {
	switch strings.ToLower(s) {
	case "stable":
		return schema.Stable
	case "unstable":
		return schema.Unstable
	default:
		return schema.Missing
	}
}

// defaultKindFrom maps a default expression marker to a DefaultKind.
func defaultKindFrom(s string) schema.DefaultKind {
	switch s {
	case "@static":
		return schema.StaticDefault
	case "@dynamic":
		return schema.DynamicDefault
	default:
		return schema.MissingDefault
	}
}
