// Package flag defines the command-line flags of every sub-command on
// pflag flag sets and normalizes their values.
package flag

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thirukguru/aws-edge-audit/model"
)

// BindGlobal registers the flags shared by every sub-command.
func BindGlobal(fs *pflag.FlagSet, f *model.GlobalFlags) {
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFormat, "log-format", DefaultLogFormat, "Log format (auto, console, json)")
	fs.StringVar(&f.LogLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.NoBanner, "no-banner", false, "Do not print the banner")
}

// BindScan registers the flags of the scan sub-commands.
func BindScan(fs *pflag.FlagSet, f *model.ScanFlags) {
	fs.StringSliceVarP(&f.Profiles, "profiles", "p", nil, "AWS profiles to scan (comma-separated or repeated)")
	fs.BoolVar(&f.AllSSOProfiles, "all-sso-profiles", false, "Scan every SSO profile found in the AWS config file")
	fs.StringSliceVarP(&f.Regions, "regions", "r", nil, "AWS regions to scan (comma-separated or repeated)")
	fs.BoolVar(&f.AllRegions, "all-regions", false, "Scan all regions enabled for the first profile")
	fs.StringVarP(&f.OutputFile, "output", "o", "", "Output file (default <prefix>_YYYYMMDD_HHMMSS.json)")
	fs.StringVar(&f.OutputDir, "output-dir", DefaultOutputDir, "Directory for scan documents")
	fs.IntVar(&f.MaxParallel, "max-parallel", 0, "Maximum concurrent API tasks (default 3)")
	fs.BoolVar(&f.NoParallel, "no-parallel", false, "Scan one task at a time")
	fs.StringVar(&f.Mode, "mode", "", "ALB scan mode (quick, standard, full)")
	fs.StringVar(&f.ConfigPath, "config", "", "Scan config file (default aws_multi_account_scan_config.json)")
	fs.BoolVar(&f.NoLatest, "no-latest", false, "Do not update <prefix>_latest.json")
}

// BindAnalyze registers the shared analyze flags and one bool flag per view.
func BindAnalyze(fs *pflag.FlagSet, f *model.AnalyzeFlags, views []View) {
	for _, v := range views {
		fs.Bool(v.Name, false, v.Usage)
	}
	fs.StringVar(&f.Search, "search", "", "Search by name")
	fs.StringVar(&f.CSVPath, "csv", "", "Export to CSV file")
	fs.StringVar(&f.Query, "query", "", "Run a jq expression over the document")
}

// BindSearchValue registers --search-value for documents with record values.
func BindSearchValue(fs *pflag.FlagSet, f *model.AnalyzeFlags) {
	fs.StringVar(&f.SearchValue, "search-value", "", "Search record values and alias targets")
}

// SelectedViews returns the views switched on, in declaration order.
func SelectedViews(fs *pflag.FlagSet, views []View) []string {
	var out []string
	for _, v := range views {
		if on, err := fs.GetBool(v.Name); err == nil && on {
			out = append(out, v.Name)
		}
	}
	return out
}

// BindCorrelate registers the flags of the correlate sub-command.
func BindCorrelate(fs *pflag.FlagSet, f *model.CorrelateFlags) {
	fs.BoolVar(&f.UseLatest, "use-latest", false, "Use the *_latest.json documents")
	fs.StringVar(&f.InputDir, "input-dir", DefaultOutputDir, "Directory holding the latest documents")
	fs.StringVarP(&f.Output, "output", "o", "", "HTML report path (default security_audit_report_YYYYMMDD_HHMMSS.html)")
	fs.BoolVar(&f.JSON, "json", false, "Also write the report data as JSON")
	fs.BoolVar(&f.Store, "store", false, "Persist the audit in the local SQLite history")
	fs.StringVar(&f.DBPath, "db-path", "", "Custom SQLite database path (default ~/.aws-edge-audit/history.db)")
}

// NormalizeList trims entries, splits on commas and drops blanks and duplicates.
func NormalizeList(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

// ValidateScan checks flag combinations after parsing.
func ValidateScan(f *model.ScanFlags) error {
	f.Profiles = NormalizeList(f.Profiles)
	f.Regions = NormalizeList(f.Regions)

	if !model.ValidScanMode(f.Mode) {
		return fmt.Errorf("invalid --mode %q: want quick, standard or full", f.Mode)
	}
	if f.MaxParallel < 0 {
		return fmt.Errorf("--max-parallel must be positive, got %d", f.MaxParallel)
	}
	if f.NoParallel {
		f.MaxParallel = 1
	}
	if f.AllRegions && len(f.Regions) > 0 {
		return fmt.Errorf("--all-regions cannot be combined with --regions")
	}
	return nil
}
