package core

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

// benchInput builds a pasted table with n rows. Every third row holds a
// wafer list and every fifth a site list, like a typical lot report.
func benchInput(n int) string {
	var b strings.Builder
	b.WriteString("Lot\tWafer\tSite\tNote\n")
	for i := 0; i < n; i++ {
		wafer := fmt.Sprint(i % 25)
		if i%3 == 0 {
			wafer = "1,2,3,4,5,6,7,8"
		}
		site := "A"
		if i%5 == 0 {
			site = "1,2,3"
		}
		fmt.Fprintf(&b, "LOT%05d\t%s\t%s\tnote %d\n", i, wafer, site, i)
	}
	return b.String()
}

// ============================================================================
// Parsing and Detection
// ============================================================================

func BenchmarkParse(b *testing.B) {
	input := benchInput(1000)
	b.SetBytes(int64(len(input)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDetectCommaColumns(b *testing.B) {
	table, err := Parse(benchInput(1000))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DetectCommaColumns(table.Headers, table.Rows)
	}
}

// ============================================================================
// Transforms
// ============================================================================

func BenchmarkStack(b *testing.B) {
	table, err := Parse(benchInput(1000))
	if err != nil {
		b.Fatal(err)
	}
	targets := []int{1, 2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Stack(table.Headers, table.Rows, targets)
	}
}

func BenchmarkPadInteger(b *testing.B) {
	values := []string{"7", "12", "007", "-5", "abc", "  3  "}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range values {
			PadInteger(v, DefaultPadWidth)
		}
	}
}

func BenchmarkRun(b *testing.B) {
	for _, n := range []int{10, 1000, 10000} {
		input := benchInput(n)
		b.Run(fmt.Sprintf("rows=%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			for i := 0; i < b.N; i++ {
				if _, err := Run(input, DefaultOptions()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// ============================================================================
// Export
// ============================================================================

func BenchmarkWriteCSV(b *testing.B) {
	result, err := Run(benchInput(1000), DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteCSV(io.Discard, result.Stacked); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWriteXLSX(b *testing.B) {
	result, err := Run(benchInput(1000), DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteXLSX(io.Discard, result.Stacked); err != nil {
			b.Fatal(err)
		}
	}
}
