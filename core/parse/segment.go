// Package parse has parsing logic for compose compiler reports and metrics.
package parse

import (
	"regexp"
	"strings"
)

// Segment splits a report into record spans. Blank lines are dropped, and every line
// matching start opens a new record that runs until the next matching line or the end
// of input. Lines before the first match belong to no record.
func Segment(content string, start *regexp.Regexp) []string {
	lines := nonBlankLines(content)

	var starts []int
	for i, line := range lines {
		if start.MatchString(line) {
			starts = append(starts, i)
		}
	}

	records := make([]string, 0, len(starts))
	for i, from := range starts {
		to := len(lines)
		if i+1 < len(starts) {
			to = starts[i+1]
		}
		records = append(records, strings.Join(lines[from:to], "\n"))
	}
	return records
}

// nonBlankLines splits content on newlines and drops whitespace-only lines.
// A trailing carriage return is removed from each line.
func nonBlankLines(content string) []string {
	var lines []string
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
