// Package trends renders and exports the audit history kept in SQLite.
package trends

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/aws-edge-audit/service/storage"
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

// RenderTrendTable prints an ASCII table of trend data.
func RenderTrendTable(points []storage.TrendPoint) {
	if len(points) == 0 {
		fmt.Fprintln(Out, "No trend data found")
		return
	}
	t := newTable(table.Row{"Account", "Date", "Total", "High", "Medium", "Low", "ALBs", "With WAF", "Coverage", "Score"})
	for _, p := range points {
		t.AppendRow(table.Row{p.AccountID, p.Date, p.Total, p.High, p.Medium, p.Low, p.TotalALBs, p.ALBsWithWAF, fmt.Sprintf("%.2f%%", p.WAFCoverageRate), scoreColor(p.Score)})
	}
	t.Render()
}

// RenderComparisonTable prints comparison summary for two audits.
func RenderComparisonTable(cmp *storage.AuditComparison) {
	if cmp == nil {
		fmt.Fprintln(Out, "No comparison data available")
		return
	}
	fmt.Fprintf(Out, "\nAudit Comparison (%d -> %d)\n", cmp.AuditID1, cmp.AuditID2)
	t := newTable(table.Row{"New", "Resolved", "Persistent"})
	t.AppendRow(table.Row{cmp.NewFindings, cmp.Resolved, cmp.Persistent})
	t.Render()
}

// RenderAuditList prints recent audits, newest first.
func RenderAuditList(audits []storage.AuditSummary) {
	if len(audits) == 0 {
		fmt.Fprintln(Out, "No audits stored")
		return
	}
	t := newTable(table.Row{"ID", "Time", "Account", "Findings", "High", "Medium", "Low", "Warnings", "Coverage", "Run"})
	for _, a := range audits {
		t.AppendRow(table.Row{
			a.AuditID,
			a.AuditTimestamp.Local().Format("2006-01-02 15:04:05"),
			a.AccountID,
			a.TotalFindings,
			a.HighCount,
			a.MediumCount,
			a.LowCount,
			a.WarningCount,
			fmt.Sprintf("%.2f%%", a.WAFCoverageRate),
			shortID(a.RunUUID),
		})
	}
	t.Render()
}

// RenderFindings prints the findings recorded for one audit.
func RenderFindings(findings []storage.FindingSnapshot) {
	if len(findings) == 0 {
		fmt.Fprintln(Out, "No findings recorded for this audit")
		return
	}
	t := newTable(table.Row{"Severity", "Status", "Type", "Resource", "Hash"})
	for _, f := range findings {
		t.AppendRow(table.Row{f.Severity, f.Status, f.Type, f.Resource, shortID(f.FindingHash)})
	}
	t.Render()
}

// RenderLifecycle prints the OPEN/RESOLVED history of one finding.
func RenderLifecycle(events []storage.FindingLifecycleEvent) {
	if len(events) == 0 {
		fmt.Fprintln(Out, "Finding not found")
		return
	}
	t := newTable(table.Row{"Audit", "Time", "Status", "Severity", "Type", "Resource"})
	for _, e := range events {
		status := text.FgRed.Sprint(e.Status)
		if e.Status == storage.StatusResolved {
			status = text.FgGreen.Sprint(e.Status)
		}
		t.AppendRow(table.Row{e.AuditID, e.AuditTimestamp.Local().Format("2006-01-02 15:04:05"), status, e.Severity, e.Type, e.Resource})
	}
	t.Render()
}

// WriteJSON exports trend points as an indented JSON array.
func WriteJSON(path string, points []storage.TrendPoint) error {
	if points == nil {
		points = []storage.TrendPoint{}
	}
	b, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// WriteCSV exports trend points with a header row.
func WriteCSV(path string, points []storage.TrendPoint) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"account_id", "date", "total", "high", "medium", "low", "total_albs", "albs_with_waf", "waf_coverage_rate", "score"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			p.AccountID,
			p.Date,
			strconv.Itoa(p.Total),
			strconv.Itoa(p.High),
			strconv.Itoa(p.Medium),
			strconv.Itoa(p.Low),
			strconv.Itoa(p.TotalALBs),
			strconv.Itoa(p.ALBsWithWAF),
			strconv.FormatFloat(p.WAFCoverageRate, 'f', 2, 64),
			strconv.Itoa(p.Score),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func scoreColor(score int) string {
	s := strconv.Itoa(score)
	switch {
	case score >= 90:
		return text.FgGreen.Sprint(s)
	case score >= 70:
		return text.FgYellow.Sprint(s)
	default:
		return text.FgRed.Sprint(s)
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
