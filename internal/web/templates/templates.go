// Package templates holds the HTML components rendered by the web server.
//
// Components are written in templates.templ; run `templ generate` after
// editing it to refresh templates_templ.go.
package templates

import (
	"fmt"
	"strings"
)

// ResultView is the data shown after a successful conversion.
type ResultView struct {
	ID             string
	Data           string
	Message        string
	StackedColumns []string
	CSVURL         string
	XLSXURL        string
}

// stackedLabel lists the exploded columns for the status line.
func stackedLabel(columns []string) string {
	if len(columns) == 0 {
		return "none detected"
	}
	return strings.Join(columns, ", ")
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
