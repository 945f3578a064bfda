// Package cli implements the stacker command: paste a table on stdin and
// get the stacked table written to a CSV or XLSX file.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stacktable/internal/config"
	"github.com/JonMunkholm/stacktable/internal/core"
	"github.com/JonMunkholm/stacktable/internal/logging"
)

// RootOptions holds the flags of the stacker command.
type RootOptions struct {
	OutputDir string
	Format    string // "csv" | "xlsx"
	Profile   string
	Columns   []string
	PadColumn string
	PadName   string
	PadWidth  int
	Print     bool
	NoColor   bool
	LogLevel  string

	now func() time.Time
}

// DefaultOutputDir is where exports are written unless -o is given.
const DefaultOutputDir = "output"

// NewRootCommand creates the stacker command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	defaults := config.DefaultProfile()
	opts := &RootOptions{now: now}

	cmd := &cobra.Command{
		Use:   "stacker",
		Short: "Stack comma-separated spreadsheet cells into rows",
		Long: `Paste cells copied from a spreadsheet, then finish with two empty lines
or Ctrl+D. Every row whose cells hold comma-separated integer lists such as
"1,2,3" is expanded into one row per value, a zero-padded copy of the Wafer
column is appended, and the result is saved as CSV or XLSX.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), opts.LogLevel, "text")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStack(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", DefaultOutputDir, "directory the export is written to")
	flags.StringVar(&opts.Format, "format", defaults.OutputFormat, "output format (csv|xlsx)")
	flags.StringVar(&opts.Profile, "profile", "", "YAML profile with pipeline options")
	flags.StringSliceVar(&opts.Columns, "columns", nil, "columns to stack on, by name or zero-based index (default: detect)")
	flags.StringVar(&opts.PadColumn, "pad-column", defaults.PadColumn, "column whose values are zero-padded")
	flags.StringVar(&opts.PadName, "pad-name", defaults.PadName, "header of the padded column")
	flags.IntVar(&opts.PadWidth, "pad-width", defaults.PadWidth, "minimum digits of padded values")
	flags.BoolVar(&opts.Print, "print", false, "also print the stacked table to stdout")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	return cmd
}

// resolveProfile loads the profile file and lets explicitly set flags win.
func resolveProfile(cmd *cobra.Command, opts *RootOptions) (*config.Profile, error) {
	p, err := config.LoadProfile(opts.Profile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		p.OutputFormat = opts.Format
	}
	if flags.Changed("columns") {
		p.TargetColumns = opts.Columns
	}
	if flags.Changed("pad-column") {
		p.PadColumn = opts.PadColumn
	}
	if flags.Changed("pad-name") {
		p.PadName = opts.PadName
	}
	if flags.Changed("pad-width") {
		p.PadWidth = opts.PadWidth
	}
	return p, nil
}

func pipelineOptions(p *config.Profile) core.Options {
	return core.Options{
		TargetColumns:    p.TargetColumns,
		PadColumn:        p.PadColumn,
		PadFallbackIndex: p.PadFallbackIndex,
		PadName:          p.PadName,
		PadWidth:         p.PadWidth,
	}
}
