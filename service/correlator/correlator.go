// Package correlator joins WAF, load balancer and Route53 scan documents
// into a graph of DNS records, load balancers and web ACLs.
package correlator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/resourcearn"
)

// Node colors used by the report.
const (
	ColorDNS         = "#4CAF50"
	ColorProtected   = "#2196F3"
	ColorExposed     = "#F44336"
	ColorUnprotected = "#FFC107"
	ColorWAF         = "#FF9800"
)

const (
	lbTypeApplication = "application"
	lbTypeNetwork     = "network"
	recordTypeCNAME   = "CNAME"
	treeRootName      = "AWS Resources"
)

// Result is the output of one correlation run.
type Result struct {
	Graph      model.Graph
	Warnings   []model.Warning
	Statistics model.Statistics
	Tree       model.TreeNode
	Dashboard  model.Dashboard
}

type albEntry struct {
	lb        model.LoadBalancer
	accountID string
	region    string
	shield    bool
}

func (a *albEntry) arn() string  { return a.lb.BasicInfo.LoadBalancerArn }
func (a *albEntry) name() string { return a.lb.BasicInfo.LoadBalancerName }

type wafEntry struct {
	acl       model.WebACL
	accountID string
	region    string
	scope     string
}

type dnsEntry struct {
	record    model.DNSRecord
	zone      string
	accountID string
	target    string
	alb       *albEntry
	match     resourcearn.DNSMatch
}

func (d *dnsEntry) id() string {
	id := "dns:" + d.record.Name
	if d.record.SetIdentifier != "" {
		id += "#" + d.record.SetIdentifier
	}
	return id
}

func albID(arn string) string { return "alb:" + arn }
func wafID(arn string) string { return "waf:" + arn }

type index struct {
	albs     []*albEntry
	albByARN map[string]*albEntry
	albByDNS map[string]*albEntry
	wafs     []*wafEntry
	wafByARN map[string]*wafEntry
	dns      []*dnsEntry
	accounts map[string]bool
	regions  map[string]bool
}

func buildIndex(docs *Documents) *index {
	idx := &index{
		albByARN: map[string]*albEntry{},
		albByDNS: map[string]*albEntry{},
		wafByARN: map[string]*wafEntry{},
		accounts: map[string]bool{},
		regions:  map[string]bool{},
	}

	shielded := map[string]bool{}
	for _, doc := range docs.WAF {
		idx.accounts[doc.AccountIDOrUnknown()] = true
		if doc.Shield != nil {
			for _, arn := range doc.Shield.ProtectedResources {
				shielded[arn] = true
			}
		}
		for _, region := range doc.Regions {
			idx.addWAFs(region.RegionalACLs, doc.AccountIDOrUnknown(), region.Region, model.ScopeRegional)
			idx.addWAFs(region.CloudFrontACLs, doc.AccountIDOrUnknown(), "us-east-1", model.ScopeCloudFront)
		}
	}

	for _, doc := range docs.ALB {
		idx.accounts[doc.AccountIDOrUnknown()] = true
		for _, region := range doc.Regions {
			for _, lb := range region.LoadBalancers {
				arn := lb.BasicInfo.LoadBalancerArn
				if arn == "" || idx.albByARN[arn] != nil {
					continue
				}
				entry := &albEntry{lb: lb, accountID: doc.AccountIDOrUnknown(), region: region.Region, shield: shielded[arn]}
				idx.albByARN[arn] = entry
				idx.albs = append(idx.albs, entry)
				idx.regions[region.Region] = true
				if dns := resourcearn.NormalizeDNSName(lb.BasicInfo.DNSName); dns != "" && idx.albByDNS[dns] == nil {
					idx.albByDNS[dns] = entry
				}
			}
		}
	}

	sort.Slice(idx.albs, func(i, j int) bool { return idx.albs[i].arn() < idx.albs[j].arn() })
	sort.Slice(idx.wafs, func(i, j int) bool { return idx.wafs[i].acl.ARN() < idx.wafs[j].acl.ARN() })

	seenDNS := map[string]bool{}
	for _, doc := range docs.Route53 {
		idx.accounts[doc.AccountIDOrUnknown()] = true
		for _, zone := range doc.HostedZones {
			for _, rec := range zone.Records {
				entry := idx.dnsCandidate(rec)
				if entry == nil || seenDNS[entry.id()] {
					continue
				}
				seenDNS[entry.id()] = true
				entry.zone = zone.BasicInfo.Name
				entry.accountID = doc.AccountIDOrUnknown()
				idx.dns = append(idx.dns, entry)
			}
		}
	}
	sort.SliceStable(idx.dns, func(i, j int) bool { return idx.dns[i].id() < idx.dns[j].id() })

	return idx
}

func (idx *index) addWAFs(acls []model.WebACL, accountID, region, scope string) {
	for _, acl := range acls {
		arn := acl.ARN()
		if arn == "" || idx.wafByARN[arn] != nil {
			continue
		}
		entry := &wafEntry{acl: acl, accountID: accountID, region: region, scope: scope}
		idx.wafByARN[arn] = entry
		idx.wafs = append(idx.wafs, entry)
		idx.regions[region] = true
	}
}

// dnsCandidate returns an entry for ELB alias records, and for CNAMEs whose
// value resolves to a scanned load balancer. Other records are ignored.
func (idx *index) dnsCandidate(rec model.DNSRecord) *dnsEntry {
	if rec.AliasTarget != nil {
		targetType := rec.AliasTarget.TargetType
		if targetType == "" {
			targetType = resourcearn.InferAliasTargetType(rec.AliasTarget.DNSName)
		}
		if !resourcearn.IsELBTarget(targetType) {
			return nil
		}
		entry := &dnsEntry{record: rec, target: rec.AliasTarget.DNSName}
		entry.alb, entry.match = idx.lookupDNS(entry.target)
		return entry
	}

	if rec.Type != recordTypeCNAME {
		return nil
	}
	for _, value := range rec.Values() {
		if alb, match := idx.lookupDNS(value); alb != nil {
			return &dnsEntry{record: rec, target: value, alb: alb, match: match}
		}
	}
	return nil
}

func (idx *index) lookupDNS(target string) (*albEntry, resourcearn.DNSMatch) {
	if alb := idx.albByDNS[resourcearn.NormalizeDNSName(target)]; alb != nil {
		return alb, resourcearn.DNSNamesMatch(target, alb.lb.BasicInfo.DNSName)
	}
	for _, alb := range idx.albs {
		if match := resourcearn.DNSNamesMatch(target, alb.lb.BasicInfo.DNSName); match != resourcearn.NoMatch {
			return alb, match
		}
	}
	return nil, resourcearn.NoMatch
}

type builder struct {
	idx       *index
	nodes     []model.Node
	nodeIndex map[string]int
	edges     []model.Edge
	linked    map[string]bool
	warnings  []model.Warning
}

func (b *builder) addNode(n model.Node) {
	if _, ok := b.nodeIndex[n.ID]; ok {
		return
	}
	b.nodeIndex[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
}

func (b *builder) addEdge(e model.Edge) {
	key := e.Source + "|" + e.Target + "|" + e.Label
	if b.linked[key] {
		return
	}
	b.linked[key] = true
	b.edges = append(b.edges, e)
}

func (b *builder) isLinked(albARN, wafARN string) bool {
	return b.linked[albID(albARN)+"|"+wafID(wafARN)+"|"+model.RelationProtectedBy]
}

func (b *builder) warn(typ, msg, wafARN, albARN string) {
	b.warnings = append(b.warnings, model.Warning{Type: typ, Message: msg, WAFARN: wafARN, ALBARN: albARN})
}

// Correlate builds the graph, warnings and summaries. The same documents
// always produce the same result, in the same order.
func Correlate(docs *Documents) *Result {
	idx := buildIndex(docs)
	b := &builder{idx: idx, nodeIndex: map[string]int{}, linked: map[string]bool{}}

	for _, alb := range idx.albs {
		info := alb.lb.BasicInfo
		b.addNode(model.Node{
			ID:    albID(alb.arn()),
			Type:  model.NodeALB,
			Label: alb.name(),
			Details: model.NodeDetails{
				Name:            alb.name(),
				ARN:             alb.arn(),
				DNSName:         info.DNSName,
				Scheme:          info.Scheme,
				HasWAF:          alb.lb.WAFAssociation.HasWAF,
				ShieldProtected: alb.shield,
				AccountID:       alb.accountID,
				Region:          alb.region,
			},
		})
	}

	for _, waf := range idx.wafs {
		b.addNode(model.Node{
			ID:    wafID(waf.acl.ARN()),
			Type:  model.NodeWAF,
			Label: waf.acl.Name(),
			Color: ColorWAF,
			Details: model.NodeDetails{
				Name:                waf.acl.Name(),
				ARN:                 waf.acl.ARN(),
				Scope:               waf.scope,
				AssociatedResources: len(waf.acl.AssociatedResources),
				AccountID:           waf.accountID,
				Region:              waf.region,
			},
		})
	}

	b.linkDeclaredByWAF()
	b.linkDeclaredByALB()
	b.linkDNS()
	b.colorALBs()

	sort.SliceStable(b.nodes, func(i, j int) bool { return b.nodes[i].ID < b.nodes[j].ID })
	sort.SliceStable(b.edges, func(i, j int) bool {
		if b.edges[i].Source != b.edges[j].Source {
			return b.edges[i].Source < b.edges[j].Source
		}
		return b.edges[i].Target < b.edges[j].Target
	})

	res := &Result{
		Graph:    model.Graph{Nodes: b.nodes, Edges: b.edges},
		Warnings: b.warnings,
	}
	if res.Graph.Nodes == nil {
		res.Graph.Nodes = []model.Node{}
	}
	if res.Graph.Edges == nil {
		res.Graph.Edges = []model.Edge{}
	}
	if res.Warnings == nil {
		res.Warnings = []model.Warning{}
	}
	res.Statistics = b.statistics()
	res.Tree = b.tree()
	res.Dashboard = dashboard(res.Statistics)
	return res
}

// linkDeclaredByWAF follows the associated resources listed on each web ACL.
func (b *builder) linkDeclaredByWAF() {
	for _, waf := range b.idx.wafs {
		wafARN := waf.acl.ARN()
		seen := make(map[string]bool, len(waf.acl.AssociatedResources))
		for _, res := range waf.acl.AssociatedResources {
			if res.ResourceTypeAPI != model.ResourceTypeALB || seen[res.ARN] {
				continue
			}
			seen[res.ARN] = true
			alb := b.idx.albByARN[res.ARN]
			if alb == nil {
				b.warn(model.WarningMissingALB,
					fmt.Sprintf("WAF %s references missing ALB: %s", waf.acl.Name(), res.ARN),
					wafARN, res.ARN)
				continue
			}

			confidence := model.ConfidenceConfirmed
			if alb.lb.WAFAssociation.WebACLARN() != wafARN {
				confidence = model.ConfidenceOneWay
				b.warn(model.WarningInconsistency,
					fmt.Sprintf("WAF %s declares ALB %s, but ALB references different WAF", waf.acl.Name(), alb.name()),
					wafARN, alb.arn())
			}
			b.addEdge(model.Edge{
				Source:     albID(alb.arn()),
				Target:     wafID(wafARN),
				Label:      model.RelationProtectedBy,
				Confidence: confidence,
			})
		}
	}
}

// linkDeclaredByALB covers associations only the load balancer reports.
// A web ACL that was not scanned is added as an inferred placeholder.
func (b *builder) linkDeclaredByALB() {
	for _, alb := range b.idx.albs {
		assoc := alb.lb.WAFAssociation
		wafARN := assoc.WebACLARN()
		if !assoc.HasWAF || wafARN == "" || b.isLinked(alb.arn(), wafARN) {
			continue
		}

		if b.idx.wafByARN[wafARN] == nil {
			b.addNode(placeholderWAF(assoc.WebACL))
			name := assoc.WebACL.Name
			if name == "" {
				name = wafARN
			}
			b.warn(model.WarningMissingWAF,
				fmt.Sprintf("ALB %s references WAF %s that was not found in the WAF scan", alb.name(), name),
				wafARN, alb.arn())
		}
		b.addEdge(model.Edge{
			Source:     albID(alb.arn()),
			Target:     wafID(wafARN),
			Label:      model.RelationProtectedBy,
			Confidence: model.ConfidenceOneWay,
		})
	}
}

func placeholderWAF(ref *model.WebACLRef) model.Node {
	parsed := resourcearn.Parse(ref.ARN)
	scope := model.ScopeRegional
	if parsed.Region == "" || strings.Contains(parsed.Resource, "global/") {
		scope = model.ScopeCloudFront
	}
	name := ref.Name
	if name == "" {
		name = parsed.ResourceID
	}
	return model.Node{
		ID:    wafID(ref.ARN),
		Type:  model.NodeWAF,
		Label: name,
		Color: ColorWAF,
		Details: model.NodeDetails{
			Name:      name,
			ARN:       ref.ARN,
			Scope:     scope,
			AccountID: parsed.AccountID,
			Region:    parsed.Region,
			Inferred:  true,
		},
	}
}

func (b *builder) linkDNS() {
	for _, d := range b.idx.dns {
		targetType := model.TargetTypeELB
		if d.record.AliasTarget == nil {
			targetType = ""
		}
		b.addNode(model.Node{
			ID:    d.id(),
			Type:  model.NodeDNS,
			Label: d.record.Name,
			Color: ColorDNS,
			Details: model.NodeDetails{
				Name:       d.record.Name,
				RecordType: d.record.Type,
				Zone:       d.zone,
				Target:     d.target,
				TargetType: targetType,
				AccountID:  d.accountID,
			},
		})
		if d.alb == nil {
			continue
		}

		confidence := model.ConfidenceConfirmed
		if d.match == resourcearn.NormalizedMatch {
			confidence = model.ConfidenceNormalized
		}
		b.addEdge(model.Edge{
			Source:     d.id(),
			Target:     albID(d.alb.arn()),
			Label:      model.RelationResolvesTo,
			Confidence: confidence,
		})
	}
}

func (b *builder) protectedALBs() map[string]bool {
	out := map[string]bool{}
	for _, e := range b.edges {
		if e.Label == model.RelationProtectedBy {
			out[e.Source] = true
		}
	}
	return out
}

func (b *builder) colorALBs() {
	protected := b.protectedALBs()
	for _, alb := range b.idx.albs {
		id := albID(alb.arn())
		n := &b.nodes[b.nodeIndex[id]]
		switch {
		case protected[id]:
			n.Color = ColorProtected
		case alb.lb.BasicInfo.Scheme == model.SchemeInternetFacing:
			n.Color = ColorExposed
		default:
			n.Color = ColorUnprotected
		}
	}
}

func (b *builder) statistics() model.Statistics {
	protected := b.protectedALBs()

	stats := model.Statistics{
		TotalALBs:       len(b.idx.albs),
		TotalWAFs:       len(b.idx.wafs),
		TotalDNSRecords: len(b.idx.dns),
		ByAccount:       []model.AccountStats{},
		ByRegion:        []model.RegionStats{},
	}

	byAccount := map[string]*model.AccountStats{}
	for _, id := range sortedKeys(b.idx.accounts) {
		byAccount[id] = &model.AccountStats{AccountID: id}
	}
	byRegion := map[string]*model.RegionStats{}
	for _, r := range sortedKeys(b.idx.regions) {
		byRegion[r] = &model.RegionStats{Region: r}
	}

	for _, alb := range b.idx.albs {
		if protected[albID(alb.arn())] {
			stats.ALBsWithWAF++
		}
		switch alb.lb.BasicInfo.Type {
		case lbTypeApplication:
			stats.ByType.Application++
		case lbTypeNetwork:
			stats.ByType.Network++
		}
		byAccount[alb.accountID].ALBCount++
		byRegion[alb.region].ALBCount++
	}
	for _, waf := range b.idx.wafs {
		byAccount[waf.accountID].WAFCount++
		byRegion[waf.region].WAFCount++
	}
	for _, d := range b.idx.dns {
		byAccount[d.accountID].DNSCount++
	}

	stats.ALBsWithoutWAF = stats.TotalALBs - stats.ALBsWithWAF
	stats.WAFCoverageRate = coverageRate(stats.ALBsWithWAF, stats.TotalALBs)

	for _, id := range sortedKeys(b.idx.accounts) {
		stats.ByAccount = append(stats.ByAccount, *byAccount[id])
	}
	for _, r := range sortedKeys(b.idx.regions) {
		stats.ByRegion = append(stats.ByRegion, *byRegion[r])
	}
	return stats
}

func coverageRate(with, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(with)/float64(total)*100*100) / 100
}

// tree groups load balancers and web ACLs by account, then region.
func (b *builder) tree() model.TreeNode {
	protected := b.protectedALBs()
	root := model.TreeNode{Name: treeRootName, Children: []model.TreeNode{}}

	for _, account := range sortedKeys(b.idx.accounts) {
		accountNode := model.TreeNode{Name: "Account " + account}
		for _, region := range sortedKeys(b.idx.regions) {
			var albs, wafs []model.TreeNode
			for _, alb := range b.idx.albs {
				if alb.accountID != account || alb.region != region {
					continue
				}
				mark := "⚠️"
				if protected[albID(alb.arn())] {
					mark = "🛡️"
				}
				albs = append(albs, model.TreeNode{Name: alb.name() + " " + mark})
			}
			for _, waf := range b.idx.wafs {
				if waf.accountID == account && waf.region == region {
					wafs = append(wafs, model.TreeNode{Name: waf.acl.Name()})
				}
			}
			if len(albs)+len(wafs) == 0 {
				continue
			}

			regionNode := model.TreeNode{Name: region}
			if len(albs) > 0 {
				regionNode.Children = append(regionNode.Children, model.TreeNode{Name: fmt.Sprintf("ALBs (%d)", len(albs)), Children: albs})
			}
			if len(wafs) > 0 {
				regionNode.Children = append(regionNode.Children, model.TreeNode{Name: fmt.Sprintf("WAF ACLs (%d)", len(wafs)), Children: wafs})
			}
			accountNode.Children = append(accountNode.Children, regionNode)
		}
		if len(accountNode.Children) > 0 {
			root.Children = append(root.Children, accountNode)
		}
	}
	return root
}

func dashboard(stats model.Statistics) model.Dashboard {
	return model.Dashboard{
		WAFCoverage: model.DashboardCoverage{
			Protected:    stats.ALBsWithWAF,
			Unprotected:  stats.ALBsWithoutWAF,
			CoverageRate: stats.WAFCoverageRate,
		},
		ByAccount: stats.ByAccount,
		ByRegion:  stats.ByRegion,
		ByType:    stats.ByType,
		Summary: model.DashboardSummary{
			TotalALBs:       stats.TotalALBs,
			TotalWAFs:       stats.TotalWAFs,
			TotalDNSRecords: stats.TotalDNSRecords,
		},
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
