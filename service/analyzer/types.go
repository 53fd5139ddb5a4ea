// Package analyzer computes the offline list, statistics and search views
// over a single WAF, ALB or Route53 scan document.
package analyzer

import (
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/route53"
)

// Count is one bucket of a distribution.
type Count struct {
	Key   string
	Count int
}

// Coverage is the WAF coverage of the load balancers grouped under Key.
type Coverage struct {
	Key     string
	Total   int
	WithWAF int
	Rate    float64
}

// WAFACL is a web ACL flattened with its account, region and scope.
type WAFACL struct {
	AccountID string
	Profile   string
	Region    string
	Scope     string
	ACL       model.WebACL
}

// Capacity returns the WCU capacity from the detail, or 0.
func (a WAFACL) Capacity() int64 {
	if a.ACL.Detail == nil {
		return 0
	}
	return a.ACL.Detail.Capacity
}

// WAFRuleStats are the rule type and action distributions over web ACLs.
type WAFRuleStats struct {
	Types   []Count
	Actions []Count
	Total   int
}

// WAFResourceStats describe what the web ACLs protect.
type WAFResourceStats struct {
	Types            []Count
	TotalResources   int
	ACLsWithResource int
	ACLsWithout      int
}

// ALBRow is a load balancer flattened with its account and region.
type ALBRow struct {
	AccountID string
	Profile   string
	Region    string
	LB        model.LoadBalancer
}

// Type returns the friendly type, falling back to the API type.
func (r ALBRow) Type() string {
	if r.LB.BasicInfo.FriendlyType != "" {
		return r.LB.BasicInfo.FriendlyType
	}
	return r.LB.BasicInfo.Type
}

// ZoneRow is a hosted zone flattened with its account.
type ZoneRow struct {
	AccountID string
	Profile   string
	Zone      model.HostedZone
}

// RecordCount prefers the number of scanned records over the API counter.
func (z ZoneRow) RecordCount() int {
	if z.Zone.RecordCount > 0 {
		return z.Zone.RecordCount
	}
	if len(z.Zone.Records) > 0 {
		return len(z.Zone.Records)
	}
	return int(z.Zone.BasicInfo.ResourceRecordSetCount)
}

// ZoneType returns "Private" or "Public".
func (z ZoneRow) ZoneType() string {
	if z.Zone.BasicInfo.Config.PrivateZone {
		return "Private"
	}
	return "Public"
}

// RecordRow is a DNS record flattened with its zone and account.
type RecordRow struct {
	AccountID string
	Profile   string
	ZoneName  string
	Record    model.DNSRecord
}

// RoutingType returns the routing policy, defaulting to Simple.
func (r RecordRow) RoutingType() string {
	if r.Record.RoutingPolicy.Type == "" {
		return model.RoutingSimple
	}
	return r.Record.RoutingPolicy.Type
}

// ZoneTypeStats split zones and their records by visibility.
type ZoneTypeStats struct {
	PublicZones    int
	PrivateZones   int
	PublicRecords  int
	PrivateRecords int
}

// ValueMatch is a record whose value or alias target matched a search.
type ValueMatch struct {
	RecordRow
	Value string
	Alias bool
}

// DanglingRow is a subdomain takeover candidate with its account.
type DanglingRow struct {
	AccountID string
	Profile   string
	route53.DanglingRecord
}
