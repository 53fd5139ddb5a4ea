package tables

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/aws-edge-audit/service/analyzer"
)

// DrawWAFList renders one row per web ACL.
func DrawWAFList(acls []analyzer.WAFACL) {
	title(fmt.Sprintf("🛡️ Web ACLs (%d)", len(acls)))
	if len(acls) == 0 {
		fmt.Fprintln(Out, "   (none)")
		return
	}

	t := newTable(table.Row{"Account", "Region", "Scope", "Name", "ID", "Capacity", "Rules", "Resources"})
	for _, a := range acls {
		resources := fmt.Sprint(len(a.ACL.AssociatedResources))
		if len(a.ACL.AssociatedResources) == 0 {
			resources = text.FgYellow.Sprint("0")
		}
		t.AppendRow(table.Row{a.AccountID, a.Region, a.Scope, a.ACL.Name(), truncate(a.ACL.Summary.Id, 12), a.Capacity(), len(a.ACL.Rules()), resources})
	}
	t.Render()
}

// DrawWAFRules renders the rule type and action distributions.
func DrawWAFRules(stats analyzer.WAFRuleStats) {
	DrawCounts(fmt.Sprintf("📋 Rule types (%d rules)", stats.Total), "Rule Type", stats.Types)
	DrawCounts("🎯 Rule actions", "Action", stats.Actions)
}

// DrawWAFResources renders the resource distribution.
func DrawWAFResources(stats analyzer.WAFResourceStats) {
	title("🔗 Associated resources")
	fmt.Fprintf(Out, "   ACLs with resources: %d, without: %d, total resources: %d\n",
		stats.ACLsWithResource, stats.ACLsWithout, stats.TotalResources)
	DrawCounts("📦 Resources by type", "Resource Type", stats.Types)
}

// DrawWAFDetail renders each matched ACL with its ordered rule list.
func DrawWAFDetail(pattern string, acls []analyzer.WAFACL) {
	if len(acls) == 0 {
		fmt.Fprintf(Out, "\nNo web ACL matches %q\n", pattern)
		return
	}

	for _, a := range acls {
		title(fmt.Sprintf("🛡️ %s (%s, %s, account %s)", a.ACL.Name(), a.Scope, a.Region, a.AccountID))
		fmt.Fprintf(Out, "   ARN: %s\n   Capacity: %d WCU\n", a.ACL.ARN(), a.Capacity())
		if a.ACL.Detail != nil && a.ACL.Detail.DefaultAction != "" {
			fmt.Fprintf(Out, "   Default action: %s\n", a.ACL.Detail.DefaultAction)
		}

		if rules := a.ACL.Rules(); len(rules) > 0 {
			t := newTable(table.Row{"Priority", "Rule", "Type", "Action"})
			for _, r := range rules {
				t.AppendRow(table.Row{r.Priority, r.Name, analyzer.RuleTypeName(r), analyzer.RuleActionName(r)})
			}
			t.Render()
		}

		if len(a.ACL.AssociatedResources) > 0 {
			t := newTable(table.Row{"Resource Type", "ARN"})
			for _, r := range a.ACL.AssociatedResources {
				t.AppendRow(table.Row{r.FriendlyType, r.ARN})
			}
			t.Render()
		}
	}
}
