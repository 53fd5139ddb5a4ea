package tables

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/thirukguru/aws-edge-audit/service/analyzer"
)

const maxListedValues = 3

// DrawZones renders one row per hosted zone.
func DrawZones(zones []analyzer.ZoneRow) {
	title(fmt.Sprintf("🌐 Hosted zones (%d)", len(zones)))
	if len(zones) == 0 {
		fmt.Fprintln(Out, "   (none)")
		return
	}

	t := newTable(table.Row{"Account", "Zone", "Type", "Records", "DNSSEC", "Comment"})
	for _, z := range zones {
		dnssec := "-"
		if z.Zone.DNSSEC != nil {
			dnssec = z.Zone.DNSSEC.Status
		}
		t.AppendRow(table.Row{z.AccountID, z.Zone.BasicInfo.Name, z.ZoneType(), z.RecordCount(), dnssec, truncate(z.Zone.BasicInfo.Config.Comment, 30)})
	}
	t.Render()
}

// DrawZoneTypes renders the public/private split.
func DrawZoneTypes(stats analyzer.ZoneTypeStats) {
	title("🗂️ Zones by visibility")
	total := stats.PublicZones + stats.PrivateZones
	share := func(n int) string {
		if total == 0 {
			return "0.0%"
		}
		return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
	}

	t := newTable(table.Row{"Type", "Zones", "Share", "Records"})
	t.AppendRow(table.Row{"Public", stats.PublicZones, share(stats.PublicZones), stats.PublicRecords})
	t.AppendRow(table.Row{"Private", stats.PrivateZones, share(stats.PrivateZones), stats.PrivateRecords})
	t.AppendFooter(table.Row{"Total", total, "", stats.PublicRecords + stats.PrivateRecords})
	t.Render()
}

// DrawMissingHealthChecks renders advanced routing records without health checks.
func DrawMissingHealthChecks(records []analyzer.RecordRow) {
	title("🩺 Advanced routing records without health checks")
	if len(records) == 0 {
		ok("All advanced routing records have health checks")
		return
	}

	t := newTable(table.Row{"Account", "Zone", "Record", "Type", "Routing Policy", "Set ID"})
	for _, r := range records {
		t.AppendRow(table.Row{r.AccountID, r.ZoneName, r.Record.Name, r.Record.Type, r.RoutingType(), r.Record.SetIdentifier})
	}
	t.Render()
}

// DrawDangling renders subdomain takeover candidates.
func DrawDangling(rows []analyzer.DanglingRow) {
	title("🎣 Dangling CNAME candidates")
	if len(rows) == 0 {
		ok("No CNAME points at a claimable cloud endpoint")
		return
	}

	t := newTable(table.Row{"Account", "Severity", "Zone", "Record", "Target", "Recommendation"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.AccountID, formatSeverity(r.Severity), r.HostedZoneName, r.RecordName, r.Value, truncate(r.Recommendation, 45)})
	}
	t.Render()
}

// DrawRecordSearch renders zone and record name matches.
func DrawRecordSearch(pattern string, zones []analyzer.ZoneRow, records []analyzer.RecordRow) {
	if len(zones)+len(records) == 0 {
		fmt.Fprintf(Out, "\nNo zone or record matches %q\n", pattern)
		return
	}
	if len(zones) > 0 {
		DrawZones(zones)
	}
	if len(records) == 0 {
		return
	}

	title(fmt.Sprintf("🔎 Records matching %q (%d)", pattern, len(records)))
	t := newTable(table.Row{"Account", "Zone", "Record", "Type", "Value", "Routing"})
	for _, r := range records {
		t.AppendRow(table.Row{r.AccountID, r.ZoneName, r.Record.Name, r.Record.Type, recordValue(r), r.RoutingType()})
	}
	t.Render()
}

// DrawValueMatches renders record value and alias target matches.
func DrawValueMatches(pattern string, matches []analyzer.ValueMatch) {
	if len(matches) == 0 {
		fmt.Fprintf(Out, "\nNo record value matches %q\n", pattern)
		return
	}

	title(fmt.Sprintf("🔎 Record values matching %q (%d)", pattern, len(matches)))
	t := newTable(table.Row{"Account", "Zone", "Record", "Type", "Matched Value", "Alias"})
	for _, m := range matches {
		t.AppendRow(table.Row{m.AccountID, m.ZoneName, m.Record.Name, m.Record.Type, m.Value, yesNo(m.Alias)})
	}
	t.Render()
}

func recordValue(r analyzer.RecordRow) string {
	if r.Record.AliasTarget != nil {
		return "ALIAS " + r.Record.AliasTarget.DNSName
	}
	values := r.Record.Values()
	if len(values) > maxListedValues {
		return strings.Join(values[:maxListedValues], ", ") + fmt.Sprintf(" (+%d)", len(values)-maxListedValues)
	}
	return strings.Join(values, ", ")
}
