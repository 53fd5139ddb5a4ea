package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/analyzer"
	"github.com/thirukguru/aws-edge-audit/service/flag"
	"github.com/thirukguru/aws-edge-audit/shared/tables"
)

const viewList = "list"

var (
	wafViews = []flag.View{
		{Name: viewList, Usage: "List web ACLs"},
		{Name: "rules", Usage: "Show rule type and action distribution"},
		{Name: "resources", Usage: "Show associated resources by type"},
	}
	albViews = []flag.View{
		{Name: viewList, Usage: "List load balancers"},
		{Name: "waf-coverage", Usage: "Show WAF coverage per account"},
		{Name: "no-waf", Usage: "List load balancers without WAF"},
		{Name: "by-type", Usage: "Count load balancers by type"},
		{Name: "by-region", Usage: "Show WAF coverage per region"},
		{Name: "listener-risks", Usage: "Check listeners for plain HTTP and outdated TLS policies"},
	}
	route53Views = []flag.View{
		{Name: viewList, Usage: "List hosted zones"},
		{Name: "by-record-type", Usage: "Count records by type"},
		{Name: "by-zone-type", Usage: "Compare public and private zones"},
		{Name: "routing-policies", Usage: "Count records by routing policy"},
		{Name: "missing-health-checks", Usage: "List routed records without a health check"},
		{Name: "dangling", Usage: "List CNAMEs that may allow subdomain takeover"},
	}
)

func (a *app) newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a saved scan document offline",
	}
	cmd.AddCommand(
		a.newAnalyzeSubCmd("waf", "Analyze a WAF scan document", wafViews, false, a.analyzeWAF),
		a.newAnalyzeSubCmd("alb", "Analyze an ALB scan document", albViews, false, a.analyzeALB),
		a.newAnalyzeSubCmd("route53", "Analyze a Route53 scan document", route53Views, true, a.analyzeRoute53),
	)
	return cmd
}

func (a *app) newAnalyzeSubCmd(name, short string, views []flag.View, valueSearch bool, run func(path string, f model.AnalyzeFlags) error) *cobra.Command {
	var f model.AnalyzeFlags

	cmd := &cobra.Command{
		Use:   name + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Query != "" {
				return analyzer.Query(cmd.Context(), args[0], f.Query, a.out)
			}
			f.Views = flag.SelectedViews(cmd.Flags(), views)
			if len(f.Views) == 0 && f.Search == "" && f.SearchValue == "" && f.CSVPath == "" {
				f.Views = []string{viewList}
			}
			return run(args[0], f)
		},
	}
	flag.BindAnalyze(cmd.Flags(), &f, views)
	if valueSearch {
		flag.BindSearchValue(cmd.Flags(), &f)
	}
	return cmd
}

func (a *app) analyzeWAF(path string, f model.AnalyzeFlags) error {
	doc, err := analyzer.LoadWAF(path)
	if err != nil {
		return err
	}
	acls := analyzer.WAFACLs(doc)

	for _, view := range f.Views {
		switch view {
		case viewList:
			tables.DrawWAFList(acls)
		case "rules":
			tables.DrawWAFRules(analyzer.RuleStats(acls))
		case "resources":
			tables.DrawWAFResources(analyzer.ResourceStats(acls))
		}
	}
	if f.Search != "" {
		tables.DrawWAFDetail(f.Search, analyzer.SearchWAF(acls, f.Search))
	}
	if f.CSVPath != "" {
		return a.exportCSV(f.CSVPath, len(acls), func(w io.Writer) error {
			return analyzer.WriteWAFCSV(w, acls)
		})
	}
	return nil
}

func (a *app) analyzeALB(path string, f model.AnalyzeFlags) error {
	doc, err := analyzer.LoadALB(path)
	if err != nil {
		return err
	}
	rows := analyzer.ALBs(doc)

	for _, view := range f.Views {
		switch view {
		case viewList:
			tables.DrawALBList("📋 Load balancers", rows)
		case "waf-coverage":
			byAccount, total := analyzer.WAFCoverage(rows)
			tables.DrawCoverage("🛡️ WAF coverage by account", "Account", byAccount, &total)
		case "no-waf":
			tables.DrawALBList("⚠️ Load balancers without WAF", analyzer.WithoutWAF(rows))
		case "by-type":
			tables.DrawCounts("📦 Load balancers by type", "Type", analyzer.ByType(rows))
		case "by-region":
			tables.DrawCoverage("🌍 WAF coverage by region", "Region", analyzer.CoverageByRegion(rows), nil)
		case "listener-risks":
			tables.DrawListenerRisks(analyzer.ListenerRisks(rows))
		}
	}
	if f.Search != "" {
		tables.DrawALBSearch(f.Search, analyzer.SearchALB(rows, f.Search))
	}
	if f.CSVPath != "" {
		return a.exportCSV(f.CSVPath, len(rows), func(w io.Writer) error {
			return analyzer.WriteALBCSV(w, rows)
		})
	}
	return nil
}

func (a *app) analyzeRoute53(path string, f model.AnalyzeFlags) error {
	doc, err := analyzer.LoadRoute53(path)
	if err != nil {
		return err
	}
	zones := analyzer.Zones(doc)

	for _, view := range f.Views {
		switch view {
		case viewList:
			tables.DrawZones(zones)
		case "by-record-type":
			tables.DrawCounts("📊 Records by type", "Record Type", analyzer.ByRecordType(zones))
		case "by-zone-type":
			tables.DrawZoneTypes(analyzer.ByZoneType(zones))
		case "routing-policies":
			tables.DrawCounts("🔀 Routing policies", "Policy", analyzer.RoutingPolicies(zones))
		case "missing-health-checks":
			tables.DrawMissingHealthChecks(analyzer.MissingHealthChecks(zones))
		case "dangling":
			tables.DrawDangling(analyzer.Dangling(doc))
		}
	}
	if f.Search != "" {
		matchedZones, matchedRecords := analyzer.SearchRoute53(zones, f.Search)
		tables.DrawRecordSearch(f.Search, matchedZones, matchedRecords)
	}
	if f.SearchValue != "" {
		tables.DrawValueMatches(f.SearchValue, analyzer.SearchRecordValue(zones, f.SearchValue))
	}
	if f.CSVPath != "" {
		return a.exportCSV(f.CSVPath, len(zones), func(w io.Writer) error {
			return analyzer.WriteRoute53CSV(w, zones)
		})
	}
	return nil
}

func (a *app) exportCSV(path string, items int, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close CSV file: %w", cerr)
		}
	}()

	if err := write(file); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	fmt.Fprintf(a.out, "\n✅ Exported %d item(s) to %s\n", items, path)
	return nil
}
