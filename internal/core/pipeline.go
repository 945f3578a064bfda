package core

// pipeline.go chains the table transforms the front ends run:
//
//	Parse -> DetectCommaColumns -> Stack -> AddPaddedColumn
//
// Detection is skipped when explicit target columns are configured.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColumn is returned when a column reference names no column.
var ErrInvalidColumn = errors.New("invalid column reference")

// ErrInvalidPadWidth is returned for a non-positive pad width.
var ErrInvalidPadWidth = errors.New("invalid pad width")

// Default pipeline settings: pad the "Wafer" column, or the second column
// when there is none, into "Wafer_Padded".
const (
	DefaultPadColumn        = "Wafer"
	DefaultPadFallbackIndex = 1
	DefaultPadName          = "Wafer_Padded"
)

// Options configures a pipeline run.
type Options struct {
	// TargetColumns lists header names or zero-based indices to stack on.
	// Empty means detect comma-list columns automatically.
	TargetColumns []string

	// PadColumn is the header whose values are padded. When absent from
	// the headers, PadFallbackIndex is used.
	PadColumn        string
	PadFallbackIndex int

	// PadName is the header of the appended column.
	PadName string

	// PadWidth is the minimum digit width of padded values.
	PadWidth int
}

// DefaultOptions returns the settings both front ends start from.
func DefaultOptions() Options {
	return Options{
		PadColumn:        DefaultPadColumn,
		PadFallbackIndex: DefaultPadFallbackIndex,
		PadName:          DefaultPadName,
		PadWidth:         DefaultPadWidth,
	}
}

// Validate checks option values that do not depend on the input.
func (o Options) Validate() error {
	if o.PadWidth <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidPadWidth, o.PadWidth)
	}
	if o.PadFallbackIndex < 0 {
		return fmt.Errorf("%w: pad fallback index %d", ErrInvalidColumn, o.PadFallbackIndex)
	}
	if strings.TrimSpace(o.PadName) == "" {
		return fmt.Errorf("%w: pad column name is empty", ErrInvalidColumn)
	}
	return nil
}

// Result is the outcome of one pipeline run.
type Result struct {
	Source  Table
	Stacked Table

	// StackedColumns are the indices the rows were exploded on.
	StackedColumns []int

	// PadSource is the index of the column that was padded.
	PadSource int
}

// Run parses text and applies the stack and pad transforms.
func Run(text string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	source, err := Parse(text)
	if err != nil {
		return nil, err
	}

	return Transform(source, opts)
}

// Transform applies the stack and pad transforms to an already parsed table.
func Transform(source Table, opts Options) (*Result, error) {
	var targets []int
	if len(opts.TargetColumns) > 0 {
		resolved, err := ResolveColumns(source.Headers, opts.TargetColumns)
		if err != nil {
			return nil, err
		}
		targets = resolved
	} else {
		targets = DetectCommaColumns(source.Headers, source.Rows)
	}

	headers, rows := Stack(source.Headers, source.Rows, targets)

	padSource := PadColumnIndex(headers, opts.PadColumn, opts.PadFallbackIndex)
	headers, rows = AddPaddedColumn(headers, rows, padSource, opts.PadName, opts.PadWidth)

	return &Result{
		Source:         source,
		Stacked:        Table{Headers: headers, Rows: rows},
		StackedColumns: targets,
		PadSource:      padSource,
	}, nil
}

// PadColumnIndex returns the index of the first header equal to name, or
// fallback when no header matches.
func PadColumnIndex(headers []string, name string, fallback int) int {
	if name != "" {
		for i, h := range headers {
			if h == name {
				return i
			}
		}
	}
	return fallback
}

// ResolveColumns maps column references to indices. A reference is an exact
// header name or, failing that, a zero-based index within the headers.
// Duplicates are dropped and the result is ascending.
func ResolveColumns(headers []string, refs []string) ([]int, error) {
	seen := make(map[int]bool, len(refs))
	for _, ref := range refs {
		idx, err := resolveColumn(headers, ref)
		if err != nil {
			return nil, err
		}
		seen[idx] = true
	}

	cols := make([]int, 0, len(seen))
	for i := range headers {
		if seen[i] {
			cols = append(cols, i)
		}
	}
	return cols, nil
}

func resolveColumn(headers []string, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	for i, h := range headers {
		if strings.TrimSpace(h) == ref {
			return i, nil
		}
	}

	idx, err := strconv.Atoi(ref)
	if err != nil || idx < 0 || idx >= len(headers) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColumn, ref)
	}
	return idx, nil
}
