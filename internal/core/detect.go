package core

import "regexp"

// commaListRegex matches two or more digit groups separated by commas.
// Any Unicode decimal digit counts, so full-width "１,２" is a list too.
// Decimals, signs and exponents are not recognised: list columns hold lot
// and wafer numbers.
var commaListRegex = regexp.MustCompile(`^\s*\p{Nd}+\s*(,\s*\p{Nd}+\s*)+$`)

// IsCommaList reports whether a cell holds a comma-separated integer list
// with at least two items.
func IsCommaList(value string) bool {
	return commaListRegex.MatchString(value)
}

// DetectCommaColumns returns the indices of header columns in which at least
// one row holds a comma-separated integer list. Indices are ascending; rows
// too short to reach a column are ignored for that column.
func DetectCommaColumns(headers []string, rows [][]string) []int {
	columns := []int{}

	for col := range headers {
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			if IsCommaList(trimCell(row[col])) {
				columns = append(columns, col)
				break
			}
		}
	}

	return columns
}
