package model

import "encoding/json"

// WAF scopes.
const (
	ScopeRegional   = "REGIONAL"
	ScopeCloudFront = "CLOUDFRONT"
)

// ResourceTypeALB is the WAFv2 resource type of application load balancers.
const ResourceTypeALB = "APPLICATION_LOAD_BALANCER"

// WAFAccountScan is one element of a WAF scan document.
type WAFAccountScan struct {
	ScanEnvelope
	Regions []WAFRegion       `json:"regions"`
	Shield  *ShieldProtection `json:"shield,omitempty"`
}

// WAFRegion holds the web ACLs found in one region.
type WAFRegion struct {
	Region         string   `json:"region"`
	CloudFrontACLs []WebACL `json:"cloudfront_acls"`
	RegionalACLs   []WebACL `json:"regional_acls"`
}

// WebACL is a web ACL together with the resources it protects.
type WebACL struct {
	Summary             WebACLSummary    `json:"summary"`
	Detail              *WebACLDetail    `json:"detail,omitempty"`
	AssociatedResources []ResourceRecord `json:"associated_resources"`
	Error               string           `json:"error,omitempty"`
}

// Name returns the summary name, falling back to the detail name.
func (w WebACL) Name() string {
	if w.Summary.Name != "" {
		return w.Summary.Name
	}
	if w.Detail != nil && w.Detail.Name != "" {
		return w.Detail.Name
	}
	return "unknown"
}

// ARN returns the summary ARN, falling back to the detail ARN.
func (w WebACL) ARN() string {
	if w.Summary.ARN != "" {
		return w.Summary.ARN
	}
	if w.Detail != nil {
		return w.Detail.ARN
	}
	return ""
}

// Rules returns the detail rules, if any.
func (w WebACL) Rules() []WAFRule {
	if w.Detail == nil {
		return nil
	}
	return w.Detail.Rules
}

// WebACLSummary mirrors the ListWebACLs summary.
type WebACLSummary struct {
	Name        string `json:"Name"`
	Id          string `json:"Id"`
	ARN         string `json:"ARN"`
	Description string `json:"Description,omitempty"`
	LockToken   string `json:"LockToken,omitempty"`
}

// WebACLDetail mirrors the parts of GetWebACL the audit reads.
type WebACLDetail struct {
	Name                     string    `json:"Name"`
	Id                       string    `json:"Id"`
	ARN                      string    `json:"ARN"`
	Description              string    `json:"Description,omitempty"`
	Capacity                 int64     `json:"Capacity"`
	DefaultAction            string    `json:"DefaultAction,omitempty"`
	ManagedByFirewallManager bool      `json:"ManagedByFirewallManager"`
	LabelNamespace           string    `json:"LabelNamespace,omitempty"`
	Rules                    []WAFRule `json:"Rules"`
}

// WAFRule is a single web ACL rule.
type WAFRule struct {
	Name             string            `json:"Name"`
	Priority         int32             `json:"Priority"`
	Action           string            `json:"Action,omitempty"`
	OverrideAction   string            `json:"OverrideAction,omitempty"`
	StatementType    string            `json:"StatementType"`
	ManagedRuleGroup *ManagedRuleGroup `json:"ManagedRuleGroup,omitempty"`
	Statement        json.RawMessage   `json:"Statement,omitempty"`
}

// ManagedRuleGroup identifies a vendor rule group.
type ManagedRuleGroup struct {
	VendorName string `json:"VendorName"`
	Name       string `json:"Name"`
}

// ShieldProtection is the Shield Advanced state of an account.
type ShieldProtection struct {
	SubscriptionState  string   `json:"subscription_state"`
	ProtectedResources []string `json:"protected_resources,omitempty"`
}
