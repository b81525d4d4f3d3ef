package parse

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/composeguard/schema"
)

// MergeBriefStats decodes each reader as a flat JSON object of counters and sums them.
// The first reader seeds the totals and later readers add into them.
func MergeBriefStats(readers ...io.Reader) (schema.SummaryCounters, error) {
	totals := schema.SummaryCounters{}
	for i, r := range readers {
		var stats map[string]int64
		if err := json.NewDecoder(r).Decode(&stats); err != nil {
			return nil, fmt.Errorf("failed to decode brief stats #%d: %w", i+1, err)
		}
		for key, value := range stats {
			totals[key] += value
		}
	}
	return totals, nil
}

// ParseDetailedStats parses the detailed statistics table. The first non-blank line is
// the header and every later line is zipped with it by position.
func ParseDetailedStats(content string) []schema.DetailedStatsRow {
	lines := nonBlankLines(content)
	rows := []schema.DetailedStatsRow{}
	if len(lines) < 2 {
		return rows
	}

	headers := splitCells(lines[0])
	for _, line := range lines[1:] {
		cells := splitCells(line)
		n := min(len(headers), len(cells))
		row := make(schema.DetailedStatsRow, 0, n)
		for i := range n {
			row = append(row, schema.StatPair{Header: headers[i], Value: cells[i]})
		}
		rows = append(rows, row)
	}
	return rows
}

// splitCells splits a row on commas and drops blank cells.
func splitCells(line string) []string {
	var cells []string
	for cell := range strings.SplitSeq(line, ",") {
		if strings.TrimSpace(cell) != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}
