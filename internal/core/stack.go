package core

import "strings"

// trimCell trims surrounding whitespace from a cell.
func trimCell(s string) string {
	return strings.TrimSpace(s)
}

// splitCommaValues splits a cell into its list items.
// Cells without a comma yield a single trimmed value ("" when blank);
// cells with commas yield the trimmed, non-empty pieces.
func splitCommaValues(value string) []string {
	if !strings.Contains(value, ",") {
		return []string{trimCell(value)}
	}

	parts := strings.Split(value, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = trimCell(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

// StackAuto detects comma-list columns and stacks on them.
// It returns the detected column indices alongside the stacked rows.
func StackAuto(headers []string, rows [][]string) ([]string, [][]string, []int) {
	targets := DetectCommaColumns(headers, rows)
	stackedHeaders, stackedRows := Stack(headers, rows, targets)
	return stackedHeaders, stackedRows, targets
}

// Stack explodes every row on the target columns.
//
// For each source row the target cells are split into lists and the row is
// repeated max(1, longest list) times. Repetition i takes item i of each list
// (or "" once a list runs out); every other cell is copied verbatim. Output
// rows are at least as wide as the headers. With no targets the input is
// returned as is.
func Stack(headers []string, rows [][]string, targets []int) ([]string, [][]string) {
	if len(targets) == 0 {
		return headers, rows
	}

	stacked := make([][]string, 0, len(rows))
	for _, row := range rows {
		stacked = append(stacked, explodeRow(row, len(headers), targets)...)
	}

	return headers, stacked
}

// explodeRow produces the stacked rows for a single source row.
func explodeRow(row []string, width int, targets []int) [][]string {
	splits := make(map[int][]string, len(targets))
	count := 1

	for _, col := range targets {
		if col < 0 || col >= len(row) {
			continue
		}
		values := splitCommaValues(row[col])
		splits[col] = values
		if len(values) > count {
			count = len(values)
		}
	}

	if len(row) > width {
		width = len(row)
	}

	out := make([][]string, count)
	for i := range out {
		newRow := make([]string, width)
		for col := range newRow {
			values, isTarget := splits[col]
			switch {
			case !isTarget:
				newRow[col] = cellAt(row, col)
			case i < len(values):
				newRow[col] = values[i]
			}
		}
		out[i] = newRow
	}

	return out
}
