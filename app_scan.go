package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thirukguru/aws-edge-audit/model"
	awsconfig "github.com/thirukguru/aws-edge-audit/service/aws_config"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
	"github.com/thirukguru/aws-edge-audit/service/elb"
	"github.com/thirukguru/aws-edge-audit/service/flag"
	"github.com/thirukguru/aws-edge-audit/service/profiles"
	"github.com/thirukguru/aws-edge-audit/service/route53"
	"github.com/thirukguru/aws-edge-audit/service/scanconfig"
	"github.com/thirukguru/aws-edge-audit/service/scanner"
	jsonoutput "github.com/thirukguru/aws-edge-audit/shared/json_output"
	"github.com/thirukguru/aws-edge-audit/shared/spinner"
)

// scanTarget is one service the scan command can run.
type scanTarget struct {
	service string
	prefix  string
	label   string
	run     func(ctx context.Context, s *scanner.Scanner) (doc any, summary string, err error)
}

var (
	wafTarget = scanTarget{
		service: scanconfig.ServiceWAF,
		prefix:  correlator.PrefixWAF,
		label:   "WAF",
		run: func(ctx context.Context, s *scanner.Scanner) (any, string, error) {
			doc, err := s.ScanWAF(ctx)
			return doc, summarizeWAF(doc), err
		},
	}
	albTarget = scanTarget{
		service: scanconfig.ServiceALB,
		prefix:  correlator.PrefixALB,
		label:   "ALB",
		run: func(ctx context.Context, s *scanner.Scanner) (any, string, error) {
			doc, err := s.ScanALB(ctx)
			return doc, summarizeALB(doc), err
		},
	}
	route53Target = scanTarget{
		service: scanconfig.ServiceRoute53,
		prefix:  correlator.PrefixRoute53,
		label:   "Route53",
		run: func(ctx context.Context, s *scanner.Scanner) (any, string, error) {
			doc, err := s.ScanRoute53(ctx)
			return doc, summarizeRoute53(doc), err
		},
	}
)

// newFactory is replaced in tests.
var newFactory = scanner.NewAWSFactory

func (a *app) newScanCmd() *cobra.Command {
	var f model.ScanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan WAF, load balancers or Route53 across profiles and regions",
	}
	flag.BindScan(cmd.PersistentFlags(), &f)

	sub := func(use, short string, targets ...scanTarget) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runScan(cmd.Context(), f, targets)
			},
		}
	}
	cmd.AddCommand(
		sub("waf", "Scan WAFv2 web ACLs and Shield Advanced protections", wafTarget),
		sub("alb", "Scan ELBv2 load balancers and their WAF associations", albTarget),
		sub("route53", "Scan public Route53 hosted zones", route53Target),
		sub("all", "Run the WAF, ALB and Route53 scans", wafTarget, albTarget, route53Target),
	)
	return cmd
}

func (a *app) runScan(ctx context.Context, f model.ScanFlags, targets []scanTarget) error {
	if err := flag.ValidateScan(&f); err != nil {
		return err
	}
	if f.OutputFile != "" && len(targets) > 1 {
		return fmt.Errorf("--output names a single document; use --output-dir with scan all")
	}
	logger := zerolog.Ctx(ctx)

	cfg, err := loadScanConfig(f.ConfigPath)
	if err != nil {
		return err
	}
	profileNames, err := resolveProfiles(f, cfg)
	if err != nil {
		return err
	}

	var discovered []string
	if f.AllRegions {
		discovered, err = discoverRegions(ctx, profileNames[0])
		if err != nil {
			return err
		}
		logger.Info().Int("regions", len(discovered)).Msg("discovered enabled regions")
	}

	options := make([]scanner.Options, len(targets))
	for i, target := range targets {
		if options[i], err = scanOptions(target.service, f, cfg, profileNames, discovered); err != nil {
			return err
		}
	}

	a.drawBanner()
	factory := newFactory()

	for i, target := range targets {
		opts := options[i]
		logger.Info().
			Str("service", target.service).
			Strs("profiles", opts.Profiles).
			Strs("regions", opts.Regions).
			Int("max_parallel", opts.MaxParallel).
			Msg("starting scan")

		spinner.StartSpinner(fmt.Sprintf("Scanning %s...", target.label), a.interactive())
		start := time.Now()
		doc, summary, err := target.run(ctx, scanner.New(factory, opts))
		spinner.StopSpinner()
		if err != nil {
			return fmt.Errorf("%s scan failed: %w", target.label, err)
		}

		written, err := writeScan(f, target.prefix, doc, time.Now())
		if err != nil {
			return fmt.Errorf("failed to save %s scan: %w", target.label, err)
		}
		logger.Info().Str("service", target.service).Dur("duration", time.Since(start)).Msg("scan finished")

		fmt.Fprintf(a.out, "%s scan: %s\n", target.label, summary)
		for _, path := range written {
			fmt.Fprintf(a.out, "  saved %s\n", path)
		}

		if ctx.Err() != nil {
			logger.Warn().Str("service", target.service).Msg("scan interrupted; partial results saved")
			return fmt.Errorf("scan interrupted: %w", ctx.Err())
		}
	}
	return nil
}

// loadScanConfig reads the scan config. A missing default file is not an
// error, a missing explicit --config is.
func loadScanConfig(path string) (*scanconfig.Config, error) {
	cfg, err := scanconfig.Load(path)
	if errors.Is(err, scanconfig.ErrNotFound) && path == "" {
		return nil, nil
	}
	return cfg, err
}

// resolveProfiles applies the precedence flags, config file, then the SSO
// profiles of the shared AWS config.
func resolveProfiles(f model.ScanFlags, cfg *scanconfig.Config) ([]string, error) {
	if len(f.Profiles) > 0 {
		return f.Profiles, nil
	}
	if !f.AllSSOProfiles {
		if names := flag.NormalizeList(cfg.ProfileList()); len(names) > 0 {
			return names, nil
		}
	}

	inv, err := profiles.Discover(profiles.ConfigPath(), profiles.CredentialsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to discover AWS profiles: %w", err)
	}
	if names := inv.SSOProfiles(); len(names) > 0 {
		return names, nil
	}
	return nil, fmt.Errorf("%w: pass --profiles, list them in %s or configure SSO profiles", scanner.ErrNoProfiles, scanconfig.DefaultFileName)
}

// scanOptions merges flags over the config file section of service.
func scanOptions(service string, f model.ScanFlags, cfg *scanconfig.Config, profileNames, discovered []string) (scanner.Options, error) {
	section := cfg.Service(service)
	opts := scanner.Options{
		Profiles:    profileNames,
		MaxParallel: f.MaxParallel,
		Mode:        f.Mode,
	}

	switch {
	case len(f.Regions) > 0:
		opts.Regions = f.Regions
	case len(discovered) > 0:
		opts.Regions = discovered
	default:
		opts.Regions = scanner.DedupeRegions(cfg.RegionsFor(service))
	}

	if opts.MaxParallel == 0 {
		if p := section.ScanOptions.Parallel; p != nil && !*p {
			opts.MaxParallel = 1
		} else if section.ScanOptions.MaxWorkers > 0 {
			opts.MaxParallel = section.ScanOptions.MaxWorkers
		}
	}
	if opts.Mode == "" {
		opts.Mode = section.ScanOptions.Mode
	}
	if !model.ValidScanMode(opts.Mode) {
		return scanner.Options{}, fmt.Errorf("invalid %s scan_options.mode %q in scan config: want quick, standard or full", service, opts.Mode)
	}

	opts.ALBFilter = elb.Filter{Types: section.Filters.Types, Schemes: section.Filters.Schemes}
	opts.Route53Filter = route53.Filter{ZoneNames: section.Filters.ZoneNames}
	return opts, nil
}

func discoverRegions(ctx context.Context, profile string) ([]string, error) {
	cfg, err := awsconfig.NewService().GetAWSCfg(ctx, scanner.GlobalRegion, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}
	return scanner.DiscoverRegions(ctx, ec2.NewFromConfig(cfg))
}

// writeScan saves doc to --output or the timestamped path, and to the latest
// path unless --no-latest is set.
func writeScan(f model.ScanFlags, prefix string, doc any, now time.Time) ([]string, error) {
	if f.OutputFile == "" {
		return jsonoutput.WriteScanDocument(f.OutputDir, prefix, doc, now, !f.NoLatest)
	}

	if err := jsonoutput.WriteDocument(f.OutputFile, doc); err != nil {
		return nil, err
	}
	written := []string{f.OutputFile}
	if f.NoLatest {
		return written, nil
	}
	_, latest := jsonoutput.DocumentPaths(f.OutputDir, prefix, now)
	if err := jsonoutput.WriteDocument(latest, doc); err != nil {
		return written, err
	}
	return append(written, latest), nil
}

func summarizeWAF(doc []model.WAFAccountScan) string {
	acls, errs := 0, 0
	for _, acct := range doc {
		errs += len(acct.Errors)
		for _, r := range acct.Regions {
			acls += len(r.RegionalACLs) + len(r.CloudFrontACLs)
		}
	}
	return fmt.Sprintf("%d account(s), %d web ACL(s), %d error(s)", len(doc), acls, errs)
}

func summarizeALB(doc []model.ALBAccountScan) string {
	lbs, withWAF, errs := 0, 0, 0
	for _, acct := range doc {
		errs += len(acct.Errors)
		for _, r := range acct.Regions {
			lbs += len(r.LoadBalancers)
			for _, lb := range r.LoadBalancers {
				if lb.WAFAssociation.HasWAF {
					withWAF++
				}
			}
		}
	}
	return fmt.Sprintf("%d account(s), %d load balancer(s), %d with WAF, %d error(s)", len(doc), lbs, withWAF, errs)
}

func summarizeRoute53(doc []model.Route53AccountScan) string {
	zones, records, errs := 0, 0, 0
	for _, acct := range doc {
		errs += len(acct.Errors)
		zones += acct.Summary.TotalPublicZones
		records += acct.Summary.TotalRecords
	}
	return fmt.Sprintf("%d account(s), %d public zone(s), %d record(s), %d error(s)", len(doc), zones, records, errs)
}
