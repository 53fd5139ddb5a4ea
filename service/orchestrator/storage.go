package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/resourcearn"
	"github.com/thirukguru/aws-edge-audit/service/storage"
)

// AuditRun is one correlation run ready to be persisted.
type AuditRun struct {
	Report   model.AuditReport
	Version  string
	Sources  []string
	Duration time.Duration
}

// FindingHash identifies a finding across runs.
func FindingHash(parts ...string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%q", parts)))
	return hex.EncodeToString(h[:])
}

type accountAudit struct {
	input     storage.SaveAuditInput
	protected int
}

// PersistAudit stores one audit per account of the report, all sharing a run
// UUID, and returns that UUID.
func PersistAudit(ctx context.Context, store storage.Service, run AuditRun) (string, error) {
	report := run.Report
	runUUID := uuid.NewString()

	accounts := map[string]*accountAudit{}
	get := func(id string) *accountAudit {
		if id == "" {
			id = "unknown"
		}
		a, ok := accounts[id]
		if !ok {
			a = &accountAudit{input: storage.SaveAuditInput{
				RunUUID:     runUUID,
				AccountID:   id,
				DurationSec: int64(run.Duration.Seconds()),
				Version:     run.Version,
				SourceFiles: strings.Join(run.Sources, ","),
				Findings:    []storage.Finding{},
			}}
			accounts[id] = a
		}
		return a
	}

	for _, s := range report.Statistics.ByAccount {
		a := get(s.AccountID)
		a.input.TotalALBs = s.ALBCount
		a.input.TotalWAFs = s.WAFCount
		a.input.TotalDNSRecords = s.DNSCount
	}

	protected := map[string]bool{}
	for _, e := range report.NetworkGraph.Edges {
		if e.Label == model.RelationProtectedBy {
			protected[e.Source] = true
		}
	}
	for _, n := range report.NetworkGraph.Nodes {
		if n.Type == model.NodeALB && protected[n.ID] {
			get(n.Details.AccountID).protected++
		}
	}

	for _, w := range report.Warnings {
		arn := w.ALBARN
		if arn == "" {
			arn = w.WAFARN
		}
		get(resourcearn.Parse(arn).AccountID).input.WarningCount++
	}

	for _, f := range report.Vulnerabilities {
		a := get(f.AccountID)
		a.input.Findings = append(a.input.Findings, storage.Finding{
			Hash:        FindingHash(f.Type, f.Subject),
			Type:        f.Type,
			Severity:    f.Severity,
			Subject:     f.Subject,
			Resource:    f.Resource,
			ResourceARN: f.ARN,
			Region:      f.Region,
			Target:      f.Target,
			Zone:        f.Zone,
			Description: f.Description,
		})
		switch f.Severity {
		case model.SeverityHigh:
			a.input.HighCount++
		case model.SeverityMedium:
			a.input.MediumCount++
		case model.SeverityLow:
			a.input.LowCount++
		}
	}

	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	logger := zerolog.Ctx(ctx)
	for _, id := range ids {
		a := accounts[id]
		a.input.AuditUUID = uuid.NewString()
		a.input.ALBsWithWAF = a.protected
		if a.input.TotalALBs > 0 {
			a.input.WAFCoverageRate = math.Round(float64(a.protected)/float64(a.input.TotalALBs)*100*100) / 100
		}

		auditID, err := store.SaveAudit(ctx, a.input)
		if err != nil {
			return runUUID, fmt.Errorf("persist audit for account %s: %w", id, err)
		}
		logger.Debug().
			Str("account_id", id).
			Int64("audit_id", auditID).
			Int("findings", len(a.input.Findings)).
			Msg("audit stored")
	}
	return runUUID, nil
}
