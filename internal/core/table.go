package core

// table.go defines the in-memory table and the clipboard text parser.
//
// Spreadsheet copies arrive as tab-separated lines: the first line holds the
// headers and every following non-blank line is one row. All cells stay text.

import (
	"errors"
	"strings"
)

// ErrEmptyInput is matched by a ValidationError raised for blank input.
var ErrEmptyInput = errors.New("empty input: no header line found")

// ValidationError reports input that cannot be turned into a table.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return "validation: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Table is an ordered header list plus rows of text cells.
// Rows are aligned to Headers by position but may be shorter or longer;
// a missing cell reads as "".
type Table struct {
	Headers []string
	Rows    [][]string
}

// Width returns the number of headers.
func (t Table) Width() int {
	return len(t.Headers)
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// cellAt returns the cell at idx, or "" when the row does not reach it.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Parse converts tab-separated text into a Table.
//
// The whole input is trimmed, then split on newlines. The first line becomes
// the headers. Blank and whitespace-only lines after it are skipped. Rows
// shorter than the headers are padded with empty cells; longer rows keep
// their extra cells. A trailing carriage return on each line is dropped.
func Parse(text string) (Table, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Table{}, &ValidationError{Reason: "input is empty", Err: ErrEmptyInput}
	}

	lines := strings.Split(text, "\n")
	headers := strings.Split(strings.TrimSuffix(lines[0], "\r"), "\t")

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		row := strings.Split(line, "\t")
		for len(row) < len(headers) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}

	return Table{Headers: headers, Rows: rows}, nil
}
