// Package tables renders analyzer views and audit summaries as terminal tables.
package tables

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/aws-edge-audit/service/analyzer"
)

// Out receives all rendered output.
var Out io.Writer = os.Stdout

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(Out)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

func title(s string) {
	fmt.Fprintln(Out, "\n"+text.FgCyan.Sprint(s))
}

func ok(s string) {
	fmt.Fprintln(Out, text.FgGreen.Sprint("\n✅ "+s))
}

// DrawCounts renders a distribution with a share column and a total row.
func DrawCounts(heading, keyHeader string, counts []analyzer.Count) {
	title(heading)
	if len(counts) == 0 {
		fmt.Fprintln(Out, "   (none)")
		return
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}

	t := newTable(table.Row{keyHeader, "Count", "Share"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Key, c.Count, fmt.Sprintf("%.1f%%", float64(c.Count)/float64(total)*100)})
	}
	t.AppendFooter(table.Row{"Total", total, ""})
	t.Render()
}

func formatSeverity(severity string) string {
	switch severity {
	case "CRITICAL":
		return text.FgRed.Sprint("🔴 CRITICAL")
	case "HIGH":
		return text.FgHiRed.Sprint("🟠 HIGH")
	case "MEDIUM":
		return text.FgYellow.Sprint("🟡 MEDIUM")
	case "LOW":
		return text.FgCyan.Sprint("🔵 LOW")
	default:
		return severity
	}
}

func formatCoverage(rate float64) string {
	s := fmt.Sprintf("%.1f%%", rate)
	switch {
	case rate >= 80:
		return text.FgGreen.Sprint(s)
	case rate >= 50:
		return text.FgYellow.Sprint(s)
	default:
		return text.FgRed.Sprint(s)
	}
}

func yesNo(b bool) string {
	if b {
		return "✅"
	}
	return "❌"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
