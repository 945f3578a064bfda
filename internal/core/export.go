package core

// export.go serialises stacked tables for the clipboard and for download.
//
//   - FormatTSV: tab-joined lines, pasteable back into a spreadsheet
//   - WriteCSV: comma-separated with a UTF-8 BOM and CRLF records, the form
//     spreadsheet programs open without an import dialog
//   - WriteXLSX: a single-sheet workbook with every cell stored as text

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnsupportedFormat is returned for an export format other than csv or xlsx.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrWriteFailed marks an export that could not be written to its destination.
	ErrWriteFailed = errors.New("write failed")
)

// ExportPrefix is the file name prefix of every export.
const ExportPrefix = "stacked"

// SheetName is the worksheet name used by WriteXLSX.
const SheetName = "Stacked"

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportFilename returns "<prefix>_YYYYMMDD_HHMMSS.<ext>" for t.
func ExportFilename(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_150405"), ext)
}

// FormatTSV renders headers and rows as tab-joined lines separated by "\n".
func FormatTSV(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(headers, "\t"))
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, "\t"))
	}
	return b.String()
}

// WriteCSV writes the table as CSV preceded by a UTF-8 byte-order mark.
func WriteCSV(w io.Writer, t Table) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(bom)
	cw.UseCRLF = true

	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}

	if err := bom.Close(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the table as a workbook with one sheet. Cells are written
// as strings so padded values such as "03" keep their leading zeros.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	if err := writeSheetRow(sw, 1, t.Headers); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeSheetRow(sw, i+2, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheetRow(sw *excelize.StreamWriter, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("write xlsx row %d: %w", rowNum, err)
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	if err := sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("write xlsx row %d: %w", rowNum, err)
	}
	return nil
}

// WriteTable writes t in the named format ("csv" or "xlsx").
func WriteTable(w io.Writer, format string, t Table) error {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if strings.ToLower(format) == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
