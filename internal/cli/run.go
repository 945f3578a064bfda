package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stacktable/internal/core"
)

func runStack(cmd *cobra.Command, opts *RootOptions) error {
	profile, err := resolveProfile(cmd, opts)
	if err != nil {
		return err
	}

	format := strings.ToLower(profile.OutputFormat)
	if format != core.FormatCSV && format != core.FormatXLSX {
		return fmt.Errorf("%w %q", core.ErrUnsupportedFormat, profile.OutputFormat)
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Paste the cells copied from your spreadsheet (finish with two empty lines or Ctrl+D):")
		fmt.Fprintln(cmd.ErrOrStderr(), strings.Repeat("-", 50))
	}

	text, err := ReadPasted(in)
	if err != nil {
		return err
	}

	result, err := core.Run(text, pipelineOptions(profile))
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout(), opts.NoColor)
	out.field("Source", "%d rows, %d columns", result.Source.Len(), result.Source.Width())
	out.field("Stacked", "%d rows, %d columns", result.Stacked.Len(), result.Stacked.Width())
	out.field("Columns", "%s", stackedNames(result))

	if opts.Print {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), core.FormatTSV(result.Stacked.Headers, result.Stacked.Rows))
		fmt.Fprintln(cmd.OutOrStdout())
	}

	path, err := writeExport(opts.OutputDir, format, opts.now(), result.Stacked)
	if err != nil {
		return err
	}
	out.saved(path)

	slog.Debug("export written",
		"path", path,
		"format", format,
		"rows", result.Stacked.Len(),
		"stacked_columns", result.StackedColumns,
	)
	return nil
}

func stackedNames(result *core.Result) string {
	if len(result.StackedColumns) == 0 {
		return "none detected"
	}
	names := make([]string, 0, len(result.StackedColumns))
	for _, idx := range result.StackedColumns {
		names = append(names, result.Source.Headers[idx])
	}
	return strings.Join(names, ", ")
}

// writeExport writes t into dir, creating dir when missing. A failed write
// removes the partial file.
func writeExport(dir, format string, now time.Time, t core.Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output directory: %w", core.ErrWriteFailed, err)
	}

	path := filepath.Join(dir, core.ExportFilename(core.ExportPrefix, format, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create output %s: %w", core.ErrWriteFailed, path, err)
	}

	if err := core.WriteTable(f, format, t); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: %w", core.ErrWriteFailed, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: close output %s: %w", core.ErrWriteFailed, path, err)
	}
	return path, nil
}
