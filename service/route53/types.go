package route53

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/thirukguru/aws-edge-audit/model"
)

// Route53ClientAPI is the subset of the Route53 client used by the service.
type Route53ClientAPI interface {
	ListHostedZones(ctx context.Context, params *route53.ListHostedZonesInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error)
	GetHostedZone(ctx context.Context, params *route53.GetHostedZoneInput, optFns ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error)
	GetDNSSEC(ctx context.Context, params *route53.GetDNSSECInput, optFns ...func(*route53.Options)) (*route53.GetDNSSECOutput, error)
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
}

// Filter restricts which hosted zones are scanned.
type Filter struct {
	ZoneNames []string
}

// DanglingRecord is a CNAME that points at a cloud-hosted endpoint which
// may no longer be owned.
type DanglingRecord struct {
	HostedZoneName string
	RecordName     string
	RecordType     string
	Value          string
	Severity       string
	Description    string
	Recommendation string
}

type service struct {
	client Route53ClientAPI
}

// Service is the interface for Route53 discovery.
type Service interface {
	ScanHostedZones(ctx context.Context, filter Filter) ([]model.HostedZone, error)
}
