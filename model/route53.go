package model

// Alias target types inferred from the alias DNS name.
const (
	TargetTypeELB        = "ELB (Application/Network/Classic Load Balancer)"
	TargetTypeCloudFront = "CloudFront Distribution"
	TargetTypeS3Website  = "S3 Website Endpoint"
	TargetTypeAPIGateway = "API Gateway"
	TargetTypeAmplify    = "AWS Amplify"
	TargetTypeAppRunner  = "App Runner"
	TargetTypeUnknown    = "Unknown (possibly another Route53 record)"
)

// Routing policy names.
const (
	RoutingSimple       = "Simple"
	RoutingWeighted     = "Weighted"
	RoutingLatency      = "Latency"
	RoutingFailover     = "Failover"
	RoutingGeolocation  = "Geolocation"
	RoutingGeoproximity = "Geoproximity"
	RoutingMultivalue   = "Multivalue"
)

// Route53AccountScan is one element of a Route53 scan document.
type Route53AccountScan struct {
	ScanEnvelope
	HostedZones []HostedZone   `json:"hosted_zones"`
	Summary     Route53Summary `json:"summary"`
}

// Route53Summary totals the public zones of an account.
type Route53Summary struct {
	TotalPublicZones int `json:"total_public_zones"`
	TotalRecords     int `json:"total_records"`
}

// HostedZone is a public hosted zone and its records.
type HostedZone struct {
	BasicInfo         HostedZoneInfo `json:"basic_info"`
	DelegationSet     *DelegationSet `json:"delegation_set"`
	DNSSEC            *DNSSECStatus  `json:"dnssec,omitempty"`
	Records           []DNSRecord    `json:"records"`
	RecordCount       int            `json:"record_count"`
	RecordTypeSummary map[string]int `json:"record_type_summary"`
}

// HostedZoneInfo mirrors the ListHostedZones entry.
type HostedZoneInfo struct {
	Id                     string           `json:"Id"`
	Name                   string           `json:"Name"`
	CallerReference        string           `json:"CallerReference,omitempty"`
	Config                 HostedZoneConfig `json:"Config"`
	ResourceRecordSetCount int64            `json:"ResourceRecordSetCount,omitempty"`
}

// HostedZoneConfig carries the zone visibility.
type HostedZoneConfig struct {
	PrivateZone bool   `json:"PrivateZone"`
	Comment     string `json:"Comment,omitempty"`
}

// DelegationSet lists the zone's name servers.
type DelegationSet struct {
	NameServers []string `json:"NameServers"`
}

// DNSSECStatus is the zone's DNSSEC signing state.
type DNSSECStatus struct {
	Status         string `json:"status"`
	ServeSignature string `json:"serve_signature,omitempty"`
}

// DNSRecord is a resource record set.
type DNSRecord struct {
	Name            string          `json:"Name"`
	Type            string          `json:"Type"`
	TTL             *int64          `json:"TTL"`
	ResourceRecords []ResourceValue `json:"ResourceRecords"`
	AliasTarget     *AliasTarget    `json:"AliasTarget"`
	RoutingPolicy   RoutingPolicy   `json:"RoutingPolicy"`
	HealthCheckId   string          `json:"HealthCheckId,omitempty"`
	SetIdentifier   string          `json:"SetIdentifier,omitempty"`
}

// Values returns the plain record values.
func (r DNSRecord) Values() []string {
	out := make([]string, 0, len(r.ResourceRecords))
	for _, v := range r.ResourceRecords {
		out = append(out, v.Value)
	}
	return out
}

// ResourceValue is a single record value.
type ResourceValue struct {
	Value string `json:"Value"`
}

// AliasTarget is an alias record target with its inferred type.
type AliasTarget struct {
	DNSName              string `json:"DNSName"`
	HostedZoneId         string `json:"HostedZoneId"`
	EvaluateTargetHealth bool   `json:"EvaluateTargetHealth"`
	TargetType           string `json:"TargetType"`
}

// RoutingPolicy is the inferred routing policy of a record.
type RoutingPolicy struct {
	Type          string         `json:"Type"`
	Details       map[string]any `json:"Details"`
	SetIdentifier string         `json:"SetIdentifier,omitempty"`
}
