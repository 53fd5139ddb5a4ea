package model

// Node types of the correlation graph.
const (
	NodeDNS = "dns"
	NodeALB = "alb"
	NodeWAF = "waf"
)

// Edge relations.
const (
	RelationResolvesTo  = "resolves to"
	RelationProtectedBy = "protected by"
)

// Edge confidence levels.
const (
	ConfidenceConfirmed  = "confirmed"
	ConfidenceOneWay     = "one-way"
	ConfidenceNormalized = "normalized"
)

// Finding severities.
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)

// Finding types.
const (
	FindingUnprotectedALB = "Unprotected Public ALB"
	FindingOrphanDNS      = "Orphan DNS Record"
	FindingUnusedWAF      = "Unused WAF ACL"
)

// Warning types.
const (
	WarningInconsistency = "WAF-ALB Inconsistency"
	WarningMissingALB    = "Missing ALB"
	WarningMissingWAF    = "Missing WAF ACL"
)

// Graph is the correlation graph rebuilt on every run.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a DNS record, load balancer or web ACL.
type Node struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Label   string      `json:"label"`
	Color   string      `json:"color"`
	Details NodeDetails `json:"details"`
}

// NodeDetails carries the attributes rendered in the report and read by the auditor.
type NodeDetails struct {
	Name                string `json:"name"`
	ARN                 string `json:"arn,omitempty"`
	AccountID           string `json:"account_id,omitempty"`
	Region              string `json:"region,omitempty"`
	DNSName             string `json:"dns_name,omitempty"`
	Scheme              string `json:"scheme,omitempty"`
	HasWAF              bool   `json:"has_waf,omitempty"`
	ShieldProtected     bool   `json:"shield_protected,omitempty"`
	Scope               string `json:"scope,omitempty"`
	AssociatedResources int    `json:"associated_resources,omitempty"`
	Inferred            bool   `json:"inferred,omitempty"`
	RecordType          string `json:"record_type,omitempty"`
	Zone                string `json:"zone,omitempty"`
	Target              string `json:"target,omitempty"`
	TargetType          string `json:"target_type,omitempty"`
}

// Edge is a derived relation between two nodes.
type Edge struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
}

// Finding is an audit result.
type Finding struct {
	Severity    string `json:"severity"`
	Type        string `json:"type"`
	Subject     string `json:"subject"`
	Resource    string `json:"resource"`
	ARN         string `json:"arn,omitempty"`
	Target      string `json:"target,omitempty"`
	Zone        string `json:"zone,omitempty"`
	AccountID   string `json:"account_id"`
	Region      string `json:"region,omitempty"`
	Description string `json:"description"`
}

// Warning is a consistency problem found while correlating.
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	WAFARN  string `json:"waf_arn"`
	ALBARN  string `json:"alb_arn"`
}

// Statistics summarizes WAF coverage of the scanned load balancers.
type Statistics struct {
	TotalALBs       int            `json:"total_albs"`
	ALBsWithWAF     int            `json:"albs_with_waf"`
	ALBsWithoutWAF  int            `json:"albs_without_waf"`
	WAFCoverageRate float64        `json:"waf_coverage_rate"`
	TotalWAFs       int            `json:"total_wafs"`
	TotalDNSRecords int            `json:"total_dns_records"`
	ByAccount       []AccountStats `json:"by_account"`
	ByRegion        []RegionStats  `json:"by_region"`
	ByType          TypeStats      `json:"by_type"`
}

// AccountStats counts resources per account.
type AccountStats struct {
	AccountID string `json:"account_id"`
	ALBCount  int    `json:"alb_count"`
	WAFCount  int    `json:"waf_count"`
	DNSCount  int    `json:"dns_count"`
}

// RegionStats counts resources per region.
type RegionStats struct {
	Region   string `json:"region"`
	ALBCount int    `json:"alb_count"`
	WAFCount int    `json:"waf_count"`
}

// TypeStats counts load balancers per type.
type TypeStats struct {
	Application int `json:"application"`
	Network     int `json:"network"`
}

// TreeNode is a node of the Account → Region → resource hierarchy.
type TreeNode struct {
	Name     string     `json:"name"`
	Children []TreeNode `json:"children,omitempty"`
}

// Dashboard is the chart data of the report.
type Dashboard struct {
	WAFCoverage DashboardCoverage `json:"waf_coverage"`
	ByAccount   []AccountStats    `json:"by_account"`
	ByRegion    []RegionStats     `json:"by_region"`
	ByType      TypeStats         `json:"by_type"`
	Summary     DashboardSummary  `json:"summary"`
}

// DashboardCoverage feeds the coverage doughnut.
type DashboardCoverage struct {
	Protected    int     `json:"protected"`
	Unprotected  int     `json:"unprotected"`
	CoverageRate float64 `json:"coverage_rate"`
}

// DashboardSummary feeds the summary cards.
type DashboardSummary struct {
	TotalALBs       int `json:"total_albs"`
	TotalWAFs       int `json:"total_wafs"`
	TotalDNSRecords int `json:"total_dns_records"`
}

// AuditReport is the JSON sidecar written next to the HTML report.
type AuditReport struct {
	Timestamp       string     `json:"timestamp"`
	NetworkGraph    Graph      `json:"network_graph"`
	TreeDiagram     TreeNode   `json:"tree_diagram"`
	Dashboard       Dashboard  `json:"dashboard"`
	Vulnerabilities []Finding  `json:"vulnerabilities"`
	Warnings        []Warning  `json:"warnings"`
	Statistics      Statistics `json:"statistics"`
}
