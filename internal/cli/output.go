package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/JonMunkholm/stacktable/internal/core"
)

// Exit codes for the stacker command.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printer writes the human-readable summary lines.
type printer struct {
	w       io.Writer
	label   *color.Color
	success *color.Color
	failure *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:       w,
		label:   color.New(color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
	}

	enabled := !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(w)
	for _, c := range []*color.Color{p.label, p.success, p.failure} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) field(label, format string, args ...any) {
	p.label.Fprintf(p.w, "%-10s", label+":")
	fmt.Fprintf(p.w, " "+format+"\n", args...)
}

func (p *printer) saved(path string) {
	p.label.Fprintf(p.w, "%-10s", "Saved:")
	p.success.Fprintf(p.w, " %s\n", path)
}

// PrintError writes the user-facing message for err. Unmapped errors also
// show the technical text since there are no server logs to look in.
func PrintError(w io.Writer, err error, noColor bool) {
	userErr := core.NewUserError(err)
	if userErr == nil {
		return
	}

	p := newPrinter(w, noColor)
	p.failure.Fprint(w, "Error:")
	fmt.Fprintf(w, " %s (Code: %s)\n", userErr.User.Message, userErr.User.Code)
	if userErr.User.Action != "" {
		fmt.Fprintf(w, "  %s\n", userErr.User.Action)
	}
	if !core.IsUserFacing(userErr.Technical) {
		fmt.Fprintf(w, "  %v\n", userErr.Technical)
	}
}
