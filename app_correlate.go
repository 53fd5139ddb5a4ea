package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/auditor"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
	"github.com/thirukguru/aws-edge-audit/service/flag"
	"github.com/thirukguru/aws-edge-audit/service/orchestrator"
	htmloutput "github.com/thirukguru/aws-edge-audit/shared/html_output"
	"github.com/thirukguru/aws-edge-audit/shared/tables"
)

func (a *app) newCorrelateCmd() *cobra.Command {
	var f model.CorrelateFlags

	cmd := &cobra.Command{
		Use:   "correlate [waf.json alb.json route53.json]",
		Short: "Correlate scan documents, audit the edge and write the HTML report",
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case f.UseLatest && len(args) > 0:
				return fmt.Errorf("--use-latest does not take file arguments")
			case !f.UseLatest && len(args) != 3:
				return fmt.Errorf("expected waf, alb and route53 documents, or --use-latest")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.UseLatest {
				f.WAFPath, f.ALBPath, f.Route53Path = correlator.LatestPaths(f.InputDir)
			} else {
				f.WAFPath, f.ALBPath, f.Route53Path = args[0], args[1], args[2]
			}
			return a.runCorrelate(cmd.Context(), f, time.Now())
		},
	}
	flag.BindCorrelate(cmd.Flags(), &f)
	return cmd
}

func (a *app) runCorrelate(ctx context.Context, f model.CorrelateFlags, now time.Time) error {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	docs, err := correlator.Load(f.WAFPath, f.ALBPath, f.Route53Path)
	if err != nil {
		return fmt.Errorf("failed to load scan documents: %w", err)
	}
	logger.Info().
		Int("waf_accounts", len(docs.WAF)).
		Int("alb_accounts", len(docs.ALB)).
		Int("route53_accounts", len(docs.Route53)).
		Msg("scan documents loaded")

	report := buildAuditReport(docs, now)
	logger.Info().
		Int("nodes", len(report.NetworkGraph.Nodes)).
		Int("edges", len(report.NetworkGraph.Edges)).
		Int("findings", len(report.Vulnerabilities)).
		Int("warnings", len(report.Warnings)).
		Msg("correlation finished")

	a.drawBanner()

	output := f.Output
	if output == "" {
		output = htmloutput.DefaultReportPath(now)
	}
	if err := htmloutput.WriteCorrelationReport(output, report, a.versionInfo.Version); err != nil {
		return err
	}
	if f.JSON {
		if err := htmloutput.WriteJSONSidecar(htmloutput.SidecarPath(output), report); err != nil {
			return err
		}
	}

	tables.DrawAuditSummary(report)
	fmt.Fprintf(a.out, "\n📄 Report written to %s\n", output)
	if f.JSON {
		fmt.Fprintf(a.out, "📄 Report data written to %s\n", htmloutput.SidecarPath(output))
	}

	if !f.Store {
		return nil
	}
	store, err := openStore(f.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	runUUID, err := orchestrator.PersistAudit(ctx, store, orchestrator.AuditRun{
		Report:   report,
		Version:  a.versionInfo.Version,
		Sources:  []string{f.WAFPath, f.ALBPath, f.Route53Path},
		Duration: time.Since(start),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "💾 Audit stored (run %s)\n", runUUID)
	return nil
}

// buildAuditReport runs the correlator and the auditor over docs.
func buildAuditReport(docs *correlator.Documents, now time.Time) model.AuditReport {
	res := correlator.Correlate(docs)
	findings := auditor.Audit(res.Graph)
	if findings == nil {
		findings = []model.Finding{}
	}
	return model.AuditReport{
		Timestamp:       now.Format(time.RFC3339),
		NetworkGraph:    res.Graph,
		TreeDiagram:     res.Tree,
		Dashboard:       res.Dashboard,
		Vulnerabilities: findings,
		Warnings:        res.Warnings,
		Statistics:      res.Statistics,
	}
}
