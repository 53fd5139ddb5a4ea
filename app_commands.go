package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
	"github.com/thirukguru/aws-edge-audit/service/flag"
	"github.com/thirukguru/aws-edge-audit/service/profiles"
	"github.com/thirukguru/aws-edge-audit/service/scanconfig"
	"github.com/thirukguru/aws-edge-audit/service/storage"
	"github.com/thirukguru/aws-edge-audit/shared/dashboard"
	"github.com/thirukguru/aws-edge-audit/shared/trends"
)

// openStore is replaced in tests.
var openStore = storage.NewService

const dbPathUsage = "Custom SQLite database path (default ~/.aws-edge-audit/history.db)"

func (a *app) newHistoryCmd() *cobra.Command {
	var (
		dbPath     string
		accountID  string
		limit      int
		days       int
		exportJSON string
		exportCSV  string
		compare    bool
	)

	withStore := func(run func(ctx context.Context, store storage.Service, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store, err := openStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()
			return run(cmd.Context(), store, args)
		}
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored audits",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db-path", "", dbPathUsage)
	cmd.PersistentFlags().StringVar(&accountID, "account-id", "", "AWS account ID filter")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent audits",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, store storage.Service, _ []string) error {
			audits, err := store.GetRecentAudits(ctx, accountID, limit)
			if err != nil {
				return err
			}
			trends.RenderAuditList(audits)
			return nil
		}),
	}
	list.Flags().IntVar(&limit, "limit", flag.DefaultHistoryRows, "Number of audits to list")

	show := &cobra.Command{
		Use:   "show <audit-id>",
		Short: "Show the findings of one audit",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(ctx context.Context, store storage.Service, args []string) error {
			auditID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid audit id %q: %w", args[0], err)
			}
			findings, err := store.ListFindings(ctx, auditID)
			if err != nil {
				return err
			}
			trends.RenderFindings(findings)
			return nil
		}),
	}

	finding := &cobra.Command{
		Use:   "finding <hash>",
		Short: "Show the lifecycle of one finding",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(ctx context.Context, store storage.Service, args []string) error {
			events, err := store.GetFindingLifecycle(ctx, args[0])
			if err != nil {
				return err
			}
			trends.RenderLifecycle(events)
			return nil
		}),
	}

	trendsCmd := &cobra.Command{
		Use:   "trends",
		Short: "Show coverage and finding trends",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, store storage.Service, _ []string) error {
			return runTrendWorkflow(ctx, store, trendOptions{
				AccountID:  accountID,
				Days:       days,
				Compare:    compare,
				ExportJSON: exportJSON,
				ExportCSV:  exportCSV,
			})
		}),
	}
	trendsCmd.Flags().IntVar(&days, "days", flag.DefaultHistoryDays, "Trend window in days")
	trendsCmd.Flags().BoolVar(&compare, "compare", false, "Compare the two most recent audits")
	trendsCmd.Flags().StringVar(&exportJSON, "export-json", "", "Export trend points to a JSON file")
	trendsCmd.Flags().StringVar(&exportCSV, "export-csv", "", "Export trend points to a CSV file")

	cmd.AddCommand(list, show, finding, trendsCmd)
	return cmd
}

type trendOptions struct {
	AccountID  string
	Days       int
	Compare    bool
	ExportJSON string
	ExportCSV  string
}

func runTrendWorkflow(ctx context.Context, store storage.Service, opts trendOptions) error {
	points, err := store.GetTrends(ctx, opts.AccountID, opts.Days)
	if err != nil {
		return err
	}
	trends.RenderTrendTable(points)

	if opts.Compare {
		audits, err := store.GetRecentAudits(ctx, opts.AccountID, 2)
		if err != nil {
			return err
		}
		if len(audits) < 2 {
			fmt.Fprintln(trends.Out, "\nNot enough audits to compare.")
		} else {
			cmp, err := store.GetAuditComparison(ctx, audits[1].AuditID, audits[0].AuditID)
			if err != nil {
				return err
			}
			trends.RenderComparisonTable(cmp)
		}
	}

	if strings.TrimSpace(opts.ExportJSON) != "" {
		if err := trends.WriteJSON(opts.ExportJSON, points); err != nil {
			return err
		}
	}
	if strings.TrimSpace(opts.ExportCSV) != "" {
		if err := trends.WriteCSV(opts.ExportCSV, points); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) newDBCmd() *cobra.Command {
	var (
		dbPath    string
		olderThan int
	)

	maintenance := func(use, short string, run func(ctx context.Context, store storage.Service) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := openStore(dbPath)
				if err != nil {
					return fmt.Errorf("failed to initialize storage: %w", err)
				}
				defer store.Close()
				return run(cmd.Context(), store)
			},
		}
	}

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the audit history database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db-path", "", dbPathUsage)

	purge := maintenance("purge", "Delete audits older than --older-than days", func(ctx context.Context, store storage.Service) error {
		count, err := store.PurgeOlderThan(ctx, olderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Purged %d audit(s)\n", count)
		return nil
	})
	purge.Flags().IntVar(&olderThan, "older-than", flag.DefaultHistoryDays, "Purge audits older than N days")

	cmd.AddCommand(
		maintenance("vacuum", "Reclaim unused database space", func(ctx context.Context, store storage.Service) error {
			return store.Vacuum(ctx)
		}),
		maintenance("reindex", "Rebuild database indexes", func(ctx context.Context, store storage.Service) error {
			return store.Reindex(ctx)
		}),
		purge,
	)
	return cmd
}

func (a *app) newDashboardCmd() *cobra.Command {
	var (
		dbPath    string
		accountID string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the audit history dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(a.out, "Dashboard running on http://localhost%s\n", addr)
			return dashboard.Serve(cmd.Context(), a.logger, addr, dashboard.NewRouter(a.logger, store, accountID))
		},
	}
	cmd.Flags().StringVar(&dbPath, "db-path", "", dbPathUsage)
	cmd.Flags().StringVar(&accountID, "account-id", "", "AWS account ID filter")
	cmd.Flags().IntVar(&port, "port", flag.DefaultDashboard, "Dashboard HTTP port")
	return cmd
}

// envCheck is one line of the check-env report.
type envCheck struct {
	name     string
	ok       bool
	detail   string
	required bool
}

// errEnvIncomplete is returned when a required check-env item is missing.
var errEnvIncomplete = errors.New("environment check failed")

func (a *app) newCheckEnvCmd() *cobra.Command {
	var (
		configPath      string
		credentialsPath string
		inputDir        string
		scanConfigPath  string
	)

	cmd := &cobra.Command{
		Use:   "check-env",
		Short: "Check AWS profiles, scan documents and the scan config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				configPath = profiles.ConfigPath()
			}
			if credentialsPath == "" {
				credentialsPath = profiles.CredentialsPath()
			}
			if scanConfigPath == "" {
				scanConfigPath = scanconfig.DefaultFileName
			}
			checks, err := checkEnvironment(configPath, credentialsPath, inputDir, scanConfigPath)
			if err != nil {
				return err
			}
			return a.reportChecks(checks)
		},
	}
	cmd.Flags().StringVar(&configPath, "aws-config", "", "AWS config file (default ~/.aws/config or $AWS_CONFIG_FILE)")
	cmd.Flags().StringVar(&credentialsPath, "aws-credentials", "", "AWS credentials file (default ~/.aws/credentials or $AWS_SHARED_CREDENTIALS_FILE)")
	cmd.Flags().StringVar(&inputDir, "input-dir", flag.DefaultOutputDir, "Directory holding the latest scan documents")
	cmd.Flags().StringVar(&scanConfigPath, "config", "", "Scan config file (default aws_multi_account_scan_config.json)")
	return cmd
}

func checkEnvironment(configPath, credentialsPath, inputDir, scanConfigPath string) ([]envCheck, error) {
	inv, err := profiles.Discover(configPath, credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read AWS profiles: %w", err)
	}

	ssoProfiles := inv.SSOProfiles()
	checks := []envCheck{
		{name: "AWS config file", ok: inv.ConfigFound, detail: configPath, required: true},
		{name: "AWS credentials file", ok: inv.CredentialsFound, detail: credentialsPath},
		{name: "AWS profiles", ok: len(inv.Profiles) > 0, detail: fmt.Sprintf("%d profile(s), %d SSO", len(inv.Profiles), len(ssoProfiles)), required: true},
		{name: "SSO sessions", ok: len(inv.SSOSessions) > 0, detail: joinOrNone(inv.SSOSessions)},
	}

	for _, prefix := range []string{correlator.PrefixWAF, correlator.PrefixALB, correlator.PrefixRoute53} {
		path := correlator.LatestPath(inputDir, prefix)
		checks = append(checks, envCheck{name: "Latest " + prefix, ok: fileExists(path), detail: path})
	}

	_, err = scanconfig.Load(scanConfigPath)
	scanCheck := envCheck{name: "Scan config", ok: err == nil, detail: scanConfigPath}
	if err != nil && !errors.Is(err, scanconfig.ErrNotFound) {
		scanCheck.detail = err.Error()
	}
	checks = append(checks, scanCheck)
	return checks, nil
}

func (a *app) reportChecks(checks []envCheck) error {
	missing := 0
	fmt.Fprintln(a.out, "\n🔧 Environment check")
	for _, c := range checks {
		mark := "✅"
		switch {
		case !c.ok && c.required:
			mark = "❌"
			missing++
		case !c.ok:
			mark = "⚠️ "
		}
		fmt.Fprintf(a.out, "   %s %-28s %s\n", mark, c.name, c.detail)
	}
	if missing > 0 {
		return fmt.Errorf("%w: %d required item(s) missing", errEnvIncomplete, missing)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
