// Package core provides the table transforms behind the stacking tool.
//
// This package holds all domain logic independent of any UI or transport
// layer. Both front ends call it without modification.
//
// # Pipeline
//
// Text copied from a spreadsheet goes through four pure steps:
//
//  1. [Parse] splits tab-separated text into a [Table]
//  2. [DetectCommaColumns] finds columns holding lists such as "1, 2, 3"
//  3. [Stack] repeats each row once per list item
//  4. [AddPaddedColumn] appends a zero-padded copy of one column
//
// [Run] chains the steps with [Options]; callers that already know which
// columns to explode pass them as Options.TargetColumns and detection is
// skipped:
//
//	res, err := core.Run(text, core.DefaultOptions())
//	if err != nil {
//	    return err // *ValidationError for blank input
//	}
//	fmt.Println(core.FormatTSV(res.Stacked.Headers, res.Stacked.Rows))
//
// # Example
//
// Input:
//
//	ID	Val
//	1	10,20
//	2	5
//
// Stacking on column 1 yields rows [1 10], [1 20], [2 5].
//
// # Export
//
// [WriteCSV] writes CSV with a UTF-8 BOM and CRLF records. [WriteXLSX] writes
// the same table as a single-sheet workbook. [FormatTSV] renders tab-joined
// text for pasting back into a spreadsheet.
//
// # Service
//
// [Service] wraps the pipeline for the web front end: it limits concurrent
// conversions with [ConvertLimiter] and keeps results in a [ResultStore] so
// they can be downloaded after the convert request returns.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
package core
