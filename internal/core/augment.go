package core

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultPadWidth is the minimum digit width of padded values.
const DefaultPadWidth = 2

// integerRegex matches a base-10 integer with an optional sign. Digits may
// come from any script; thousands separators and decimal points are rejected.
var integerRegex = regexp.MustCompile(`^([+-]?)(\p{Nd}+)$`)

// PadInteger left-pads the digits of an integer string with zeros to width.
//
// Digits from other scripts are written as ASCII ("３" -> "03") and leading
// zeros are normalised away ("007" -> "07"). A minus sign is
// kept in front of the padded digits ("-5" -> "-05"), a plus sign is dropped
// and negative zero is plain zero. ok is false when value is not an integer,
// in which case padded is value unchanged.
func PadInteger(value string, width int) (padded string, ok bool) {
	m := integerRegex.FindStringSubmatch(trimCell(value))
	if m == nil {
		return value, false
	}

	sign, digits := m[1], strings.TrimLeft(asciiDigits(m[2]), "0")
	if digits == "" {
		digits = "0"
		sign = ""
	}
	if sign == "+" {
		sign = ""
	}

	if n := width - len(digits); n > 0 {
		digits = strings.Repeat("0", n) + digits
	}
	return sign + digits, true
}

// asciiDigits rewrites decimal digits of any script as '0'-'9'.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if v, ok := digitValue(r); ok {
			return '0' + rune(v)
		}
		return r
	}, s)
}

// digitValue returns the value of a Unicode decimal digit. Decimal digits
// are encoded in contiguous runs from zero to nine, so the offset into a
// run of unicode.Nd gives the value.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	for _, rg := range unicode.Nd.R16 {
		if rg.Stride == 1 && r >= rune(rg.Lo) && r <= rune(rg.Hi) {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if rg.Stride == 1 && r >= rune(rg.Lo) && r <= rune(rg.Hi) {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	return 0, false
}

// AddZeroPaddedColumn appends a column holding the zero-padded integer value
// of sourceColumn, using DefaultPadWidth.
func AddZeroPaddedColumn(headers []string, rows [][]string, sourceColumn int, name string) ([]string, [][]string) {
	return AddPaddedColumn(headers, rows, sourceColumn, name, DefaultPadWidth)
}

// AddPaddedColumn appends name to the headers and, to every row, the value of
// sourceColumn padded to width digits. Cells that are not integers are
// copied as they are. Rows are padded to the header width first so the new
// cell lines up with its header. Inputs are not modified.
func AddPaddedColumn(headers []string, rows [][]string, sourceColumn int, name string, width int) ([]string, [][]string) {
	newHeaders := make([]string, 0, len(headers)+1)
	newHeaders = append(newHeaders, headers...)
	newHeaders = append(newHeaders, name)

	newRows := make([][]string, len(rows))
	for i, row := range rows {
		size := len(row)
		if size < len(headers) {
			size = len(headers)
		}

		newRow := make([]string, size, size+1)
		copy(newRow, row)

		padded, _ := PadInteger(cellAt(row, sourceColumn), width)
		newRows[i] = append(newRow, padded)
	}

	return newHeaders, newRows
}
