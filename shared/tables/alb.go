package tables

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/analyzer"
	"github.com/thirukguru/aws-edge-audit/service/elb"
)

// DrawALBList renders one row per load balancer.
func DrawALBList(heading string, rows []analyzer.ALBRow) {
	title(fmt.Sprintf("%s (%d)", heading, len(rows)))
	if len(rows) == 0 {
		fmt.Fprintln(Out, "   (none)")
		return
	}

	t := newTable(table.Row{"Account", "Region", "Name", "Type", "Scheme", "State", "WAF"})
	for _, r := range rows {
		info := r.LB.BasicInfo
		waf := text.FgRed.Sprint("❌ none")
		if r.LB.WAFAssociation.HasWAF && r.LB.WAFAssociation.WebACL != nil {
			waf = text.FgGreen.Sprint("✅ " + r.LB.WAFAssociation.WebACL.Name)
		}
		scheme := info.Scheme
		if scheme == model.SchemeInternetFacing {
			scheme = text.FgYellow.Sprint(scheme)
		}
		t.AppendRow(table.Row{r.AccountID, r.Region, truncate(info.LoadBalancerName, 32), r.Type(), scheme, info.State, waf})
	}
	t.Render()
}

// DrawALBSearch renders matches with their DNS names.
func DrawALBSearch(pattern string, rows []analyzer.ALBRow) {
	if len(rows) == 0 {
		fmt.Fprintf(Out, "\nNo load balancer matches %q\n", pattern)
		return
	}
	title(fmt.Sprintf("🔎 Matches for %q (%d)", pattern, len(rows)))
	t := newTable(table.Row{"Account", "Region", "Name", "Type", "State", "DNS Name", "WAF"})
	for _, r := range rows {
		waf := "no WAF"
		if r.LB.WAFAssociation.HasWAF && r.LB.WAFAssociation.WebACL != nil {
			waf = r.LB.WAFAssociation.WebACL.Name
		}
		t.AppendRow(table.Row{r.AccountID, r.Region, r.LB.BasicInfo.LoadBalancerName, r.Type(), r.LB.BasicInfo.State, r.LB.BasicInfo.DNSName, waf})
	}
	t.Render()
}

// DrawCoverage renders WAF coverage rows, with an optional overall footer.
func DrawCoverage(heading, keyHeader string, rows []analyzer.Coverage, total *analyzer.Coverage) {
	title(heading)
	if len(rows) == 0 {
		fmt.Fprintln(Out, "   (none)")
		return
	}

	t := newTable(table.Row{keyHeader, "Load Balancers", "With WAF", "Without WAF", "Coverage"})
	for _, c := range rows {
		t.AppendRow(table.Row{c.Key, c.Total, c.WithWAF, c.Total - c.WithWAF, formatCoverage(c.Rate)})
	}
	if total != nil {
		t.AppendFooter(table.Row{"Total", total.Total, total.WithWAF, total.Total - total.WithWAF, fmt.Sprintf("%.1f%%", total.Rate)})
	}
	t.Render()
}

// DrawListenerRisks renders the offline listener findings.
func DrawListenerRisks(risks []elb.ListenerRisk) {
	title("🔐 Listener risks")
	if len(risks) == 0 {
		ok("No listener risks found (quick scans carry no listeners)")
		return
	}

	t := newTable(table.Row{"Account", "Region", "Severity", "Load Balancer", "Listener", "Issue", "Recommendation"})
	for _, r := range risks {
		listener := r.Protocol
		if r.Port != 0 {
			listener = fmt.Sprintf("%s:%d", r.Protocol, r.Port)
		}
		t.AppendRow(table.Row{r.AccountID, r.Region, formatSeverity(r.Severity), r.LoadBalancerName, listener, truncate(r.Description, 45), truncate(r.Recommendation, 45)})
	}
	t.Render()
}
