package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestIndex(t *testing.T) {
	body := render(t, Index(2<<20))

	for _, want := range []string{
		"<title>Stacked DataTable</title>",
		"(up to 2 MB)",
		`<textarea id="input"`,
		`<textarea id="output" readonly`,
		"Convert (Stack)",
		"width: 100%;",
		"fetch('/api/convert'",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Index missing %q", want)
		}
	}
}

func TestResultPanel(t *testing.T) {
	body := render(t, ResultPanel(ResultView{
		ID:             "abc",
		Data:           "A\t<b>\n1\t2",
		Message:        "Converted: 1 rows -> 1 rows",
		StackedColumns: []string{"Wafer", "Lot"},
		CSVURL:         "/api/conversions/abc/csv",
		XLSXURL:        "/api/conversions/abc/xlsx",
	}))

	for _, want := range []string{
		`data-conversion-id="abc"`,
		"&lt;b&gt;",
		"(stacked on: Wafer, Lot)",
		`href="/api/conversions/abc/csv"`,
		`href="/api/conversions/abc/xlsx"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("ResultPanel missing %q in %q", want, body)
		}
	}
	if strings.Contains(body, "<b>") {
		t.Errorf("cell text not escaped: %q", body)
	}
}

func TestResultPanelNoStackedColumns(t *testing.T) {
	body := render(t, ResultPanel(ResultView{ID: "x"}))
	if !strings.Contains(body, "(stacked on: none detected)") {
		t.Errorf("body = %q, want none detected", body)
	}
}

func TestResultPanelUnsafeURL(t *testing.T) {
	body := render(t, ResultPanel(ResultView{CSVURL: "javascript:alert(1)"}))
	if strings.Contains(body, "javascript:") {
		t.Errorf("unsafe URL rendered: %q", body)
	}
}

func TestErrorAlert(t *testing.T) {
	tests := []struct {
		name    string
		message string
		action  string
		code    string
		want    []string
		absent  []string
	}{
		{
			name:    "full",
			message: "No data was provided",
			action:  "Paste the copied cells",
			code:    "VAL001",
			want:    []string{`role="alert"`, "No data was provided", "(VAL001)", `<span class="action">Paste the copied cells</span>`},
		},
		{
			name:    "message only",
			message: "Request timed out",
			want:    []string{"Request timed out"},
			absent:  []string{"(", "<span"},
		},
		{
			name:    "escapes text",
			message: "<script>x</script>",
			want:    []string{"&lt;script&gt;"},
			absent:  []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := render(t, ErrorAlert(tt.message, tt.action, tt.code))
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("ErrorAlert missing %q in %q", want, body)
				}
			}
			for _, absent := range tt.absent {
				if strings.Contains(body, absent) {
					t.Errorf("ErrorAlert should not contain %q: %q", absent, body)
				}
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 bytes"},
		{1024, "1 KB"},
		{10 << 20, "10 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
