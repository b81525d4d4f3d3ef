package parse

import (
	"errors"
	"regexp"

	"github.com/huangsam/composeguard/schema"
)

// TypePattern matches a class declaration line and captures its stability and name.
// It also marks the start of each record.
var TypePattern = regexp.MustCompile(`(stable|unstable|runtime) class (\w*)`)

var (
	runtimeStabilityPattern = regexp.MustCompile(`<runtime stability> = (\w+)`)
	fieldPattern            = regexp.MustCompile(`(\w*) ((?:val|var) .*)`)
)

var errNoTypeName = errors.New("undefined name for the class body")

// ParseTypes parses every type record of a classes report. Records that fail to
// parse are collected as errors and do not affect the others.
func ParseTypes(content string) schema.TypesReport {
	report := schema.TypesReport{}
	for _, segment := range Segment(content, TypePattern) {
		record, err := parseTypeRecord(segment)
		if err != nil {
			report.Errors = append(report.Errors, schema.ParseError{RawSegment: segment, Cause: err.Error()})
			continue
		}
		report.Types = append(report.Types, record)
	}
	return report
}

// parseTypeRecord extracts the stability, runtime stability and fields of one record.
func parseTypeRecord(segment string) (schema.TypeRecord, error) {
	match := TypePattern.FindStringSubmatch(segment)
	if match == nil || match[2] == "" {
		return schema.TypeRecord{}, errNoTypeName
	}

	record := schema.TypeRecord{
		Name:      match[2],
		Stability: stabilityFrom(match[1]),
		Fields:    []schema.Field{},
		Raw:       segment,
	}

	// Absent means not declared, which is distinct from MISSING.
	if rt := runtimeStabilityPattern.FindStringSubmatch(segment); rt != nil {
		s := stabilityFrom(rt[1])
		record.RuntimeStability = &s
	}

	for _, f := range fieldPattern.FindAllStringSubmatch(segment, -1) {
		record.Fields = append(record.Fields, schema.Field{Status: f[1], Detail: f[2]})
	}
	return record, nil
}
