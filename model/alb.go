package model

// ALB scan modes.
const (
	ScanModeQuick    = "quick"
	ScanModeStandard = "standard"
	ScanModeFull     = "full"
)

// ValidScanMode reports whether mode is empty or one of the ALB scan modes.
func ValidScanMode(mode string) bool {
	switch mode {
	case "", ScanModeQuick, ScanModeStandard, ScanModeFull:
		return true
	}
	return false
}

// Load balancer schemes.
const (
	SchemeInternetFacing = "internet-facing"
	SchemeInternal       = "internal"
)

// ALBAccountScan is one element of an ALB scan document.
type ALBAccountScan struct {
	ScanEnvelope
	ScanMode string      `json:"scan_mode"`
	Regions  []ALBRegion `json:"regions"`
}

// ALBRegion holds the load balancers found in one region.
type ALBRegion struct {
	Region        string         `json:"region"`
	LoadBalancers []LoadBalancer `json:"load_balancers"`
}

// LoadBalancer is an ELBv2 load balancer and its optional detail.
type LoadBalancer struct {
	BasicInfo            LoadBalancerInfo `json:"basic_info"`
	WAFAssociation       WAFAssociation   `json:"waf_association"`
	Listeners            []Listener       `json:"listeners,omitempty"`
	TargetGroups         []TargetGroup    `json:"target_groups,omitempty"`
	SecurityGroupsDetail []SecurityGroup  `json:"security_groups_detail,omitempty"`
}

// LoadBalancerInfo mirrors DescribeLoadBalancers output.
type LoadBalancerInfo struct {
	LoadBalancerName      string   `json:"LoadBalancerName"`
	LoadBalancerArn       string   `json:"LoadBalancerArn"`
	DNSName               string   `json:"DNSName"`
	CanonicalHostedZoneId string   `json:"CanonicalHostedZoneId,omitempty"`
	Type                  string   `json:"Type"`
	FriendlyType          string   `json:"FriendlyType"`
	State                 string   `json:"State"`
	CreatedTime           string   `json:"CreatedTime,omitempty"`
	VpcId                 string   `json:"VpcId,omitempty"`
	Scheme                string   `json:"Scheme"`
	IpAddressType         string   `json:"IpAddressType,omitempty"`
	AvailabilityZones     []string `json:"AvailabilityZones"`
	SecurityGroups        []string `json:"SecurityGroups"`
}

// WAFAssociation is the result of GetWebACLForResource.
type WAFAssociation struct {
	HasWAF bool       `json:"has_waf"`
	WebACL *WebACLRef `json:"WebACL"`
	Error  string     `json:"error,omitempty"`
}

// WebACLARN returns the associated ACL ARN or "".
func (w WAFAssociation) WebACLARN() string {
	if w.WebACL == nil {
		return ""
	}
	return w.WebACL.ARN
}

// WebACLRef is the minimal web ACL identity carried by an ALB.
type WebACLRef struct {
	Name string `json:"Name"`
	Id   string `json:"Id"`
	ARN  string `json:"ARN"`
}

// Listener is an ELBv2 listener.
type Listener struct {
	ListenerArn    string           `json:"ListenerArn"`
	Port           int32            `json:"Port"`
	Protocol       string           `json:"Protocol"`
	SslPolicy      string           `json:"SslPolicy,omitempty"`
	Certificates   []string         `json:"Certificates,omitempty"`
	DefaultActions []ListenerAction `json:"DefaultActions,omitempty"`
	Rules          []ListenerRule   `json:"Rules,omitempty"`
}

// ListenerAction is a listener or rule action.
type ListenerAction struct {
	Type             string `json:"Type"`
	TargetGroupArn   string `json:"TargetGroupArn,omitempty"`
	RedirectProtocol string `json:"RedirectProtocol,omitempty"`
	RedirectPort     string `json:"RedirectPort,omitempty"`
	StatusCode       string `json:"StatusCode,omitempty"`
}

// ListenerRule is a listener forwarding rule (full mode only).
type ListenerRule struct {
	RuleArn    string           `json:"RuleArn"`
	Priority   string           `json:"Priority"`
	IsDefault  bool             `json:"IsDefault"`
	Conditions []RuleCondition  `json:"Conditions,omitempty"`
	Actions    []ListenerAction `json:"Actions,omitempty"`
}

// RuleCondition is a single rule condition.
type RuleCondition struct {
	Field  string   `json:"Field"`
	Values []string `json:"Values,omitempty"`
}

// TargetGroup is an ELBv2 target group.
type TargetGroup struct {
	TargetGroupArn      string         `json:"TargetGroupArn"`
	TargetGroupName     string         `json:"TargetGroupName"`
	Protocol            string         `json:"Protocol,omitempty"`
	Port                int32          `json:"Port,omitempty"`
	TargetType          string         `json:"TargetType,omitempty"`
	VpcId               string         `json:"VpcId,omitempty"`
	HealthCheckProtocol string         `json:"HealthCheckProtocol,omitempty"`
	HealthCheckPath     string         `json:"HealthCheckPath,omitempty"`
	TargetHealth        []TargetHealth `json:"target_health,omitempty"`
}

// TargetHealth is the health of one registered target (full mode only).
type TargetHealth struct {
	Id     string `json:"Id"`
	Port   int32  `json:"Port,omitempty"`
	State  string `json:"State"`
	Reason string `json:"Reason,omitempty"`
}

// SecurityGroup is an EC2 security group attached to a load balancer.
type SecurityGroup struct {
	GroupId      string              `json:"GroupId"`
	GroupName    string              `json:"GroupName"`
	Description  string              `json:"Description,omitempty"`
	VpcId        string              `json:"VpcId,omitempty"`
	IngressRules []SecurityGroupRule `json:"IngressRules,omitempty"`
}

// SecurityGroupRule is a flattened ingress permission.
type SecurityGroupRule struct {
	Protocol     string   `json:"Protocol"`
	FromPort     int32    `json:"FromPort"`
	ToPort       int32    `json:"ToPort"`
	CidrRanges   []string `json:"CidrRanges,omitempty"`
	SourceGroups []string `json:"SourceGroups,omitempty"`
}
