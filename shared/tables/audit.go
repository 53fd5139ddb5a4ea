package tables

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/auditor"
)

// MaxSummaryWarnings is the number of warnings printed after a correlation.
const MaxSummaryWarnings = 5

// DrawAuditSummary prints the issue counts, coverage statistics, findings
// and the first warnings of a correlation run.
func DrawAuditSummary(report model.AuditReport) {
	counts := auditor.CountBySeverity(report.Vulnerabilities)

	fmt.Fprintln(Out, "\n🔒 Edge security audit")
	fmt.Fprint(Out, "   ")
	if n := counts[model.SeverityHigh]; n > 0 {
		fmt.Fprintf(Out, "%s ", text.FgHiRed.Sprintf("🟠 %d High", n))
	}
	if n := counts[model.SeverityMedium]; n > 0 {
		fmt.Fprintf(Out, "%s ", text.FgYellow.Sprintf("🟡 %d Medium", n))
	}
	if n := counts[model.SeverityLow]; n > 0 {
		fmt.Fprintf(Out, "%s ", text.FgCyan.Sprintf("🔵 %d Low", n))
	}
	if len(report.Vulnerabilities) == 0 {
		fmt.Fprint(Out, text.FgGreen.Sprint("✅ No issues found"))
	}
	fmt.Fprintln(Out)

	drawStatistics(report.Statistics)

	if len(report.Vulnerabilities) > 0 {
		title("🚨 Findings")
		t := newTable(table.Row{"Severity", "Type", "Resource", "Account", "Region", "Description"})
		for _, f := range report.Vulnerabilities {
			t.AppendRow(table.Row{formatSeverity(f.Severity), f.Type, truncate(f.Resource, 40), f.AccountID, f.Region, truncate(f.Description, 50)})
		}
		t.Render()
	}

	DrawWarnings(report.Warnings, MaxSummaryWarnings)
}

func drawStatistics(stats model.Statistics) {
	title("📊 Statistics")
	t := newTable(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Load balancers", stats.TotalALBs})
	t.AppendRow(table.Row{"With WAF", stats.ALBsWithWAF})
	t.AppendRow(table.Row{"Without WAF", stats.ALBsWithoutWAF})
	t.AppendRow(table.Row{"WAF coverage", formatCoverage(stats.WAFCoverageRate)})
	t.AppendRow(table.Row{"Web ACLs", stats.TotalWAFs})
	t.AppendRow(table.Row{"DNS records", stats.TotalDNSRecords})
	t.Render()
}

// DrawWarnings prints at most limit warnings followed by the remaining count.
func DrawWarnings(warnings []model.Warning, limit int) {
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(Out, "\n"+text.FgYellow.Sprintf("⚠️ Warnings (%d)", len(warnings)))
	for i, w := range warnings {
		if i == limit {
			fmt.Fprintf(Out, "   ... and %d more\n", len(warnings)-limit)
			break
		}
		fmt.Fprintf(Out, "   • [%s] %s\n", w.Type, w.Message)
	}
}
