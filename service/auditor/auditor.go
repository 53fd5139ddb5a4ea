// Package auditor derives security findings from a correlation graph.
package auditor

import (
	"sort"

	"github.com/thirukguru/aws-edge-audit/model"
)

const (
	descUnprotectedALB = "Internet-facing ALB without WAF protection"
	descOrphanDNS      = "DNS record points to non-existent ALB"
	descUnusedWAF      = "WAF ACL with no associated resources (potential cost waste)"
)

var severityRank = map[string]int{
	model.SeverityHigh:   0,
	model.SeverityMedium: 1,
	model.SeverityLow:    2,
}

// Audit applies the fixed rule set to graph. It does not modify graph.
func Audit(graph model.Graph) []model.Finding {
	outgoing := map[string]map[string]bool{}
	touched := map[string]bool{}
	for _, e := range graph.Edges {
		if outgoing[e.Source] == nil {
			outgoing[e.Source] = map[string]bool{}
		}
		outgoing[e.Source][e.Label] = true
		touched[e.Source] = true
		touched[e.Target] = true
	}

	findings := []model.Finding{}
	for _, n := range graph.Nodes {
		d := n.Details
		switch n.Type {
		case model.NodeALB:
			if d.Scheme == model.SchemeInternetFacing && !outgoing[n.ID][model.RelationProtectedBy] {
				findings = append(findings, model.Finding{
					Severity:    model.SeverityHigh,
					Type:        model.FindingUnprotectedALB,
					Subject:     n.ID,
					Resource:    d.Name,
					ARN:         d.ARN,
					AccountID:   d.AccountID,
					Region:      d.Region,
					Description: descUnprotectedALB,
				})
			}
		case model.NodeDNS:
			if d.TargetType != "" && !outgoing[n.ID][model.RelationResolvesTo] {
				findings = append(findings, model.Finding{
					Severity:    model.SeverityMedium,
					Type:        model.FindingOrphanDNS,
					Subject:     n.ID,
					Resource:    d.Name,
					Target:      d.Target,
					Zone:        d.Zone,
					AccountID:   d.AccountID,
					Description: descOrphanDNS,
				})
			}
		case model.NodeWAF:
			if !d.Inferred && d.AssociatedResources == 0 && !touched[n.ID] {
				findings = append(findings, model.Finding{
					Severity:    model.SeverityLow,
					Type:        model.FindingUnusedWAF,
					Subject:     n.ID,
					Resource:    d.Name,
					ARN:         d.ARN,
					AccountID:   d.AccountID,
					Region:      d.Region,
					Description: descUnusedWAF,
				})
			}
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Subject < b.Subject
	})
	return findings
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []model.Finding) map[string]int {
	counts := map[string]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
