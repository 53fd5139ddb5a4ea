// Package route53 fetches public hosted zones and their record sets.
package route53

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/resourcearn"
)

// ClientRegion is the region Route53 API calls are made from.
const ClientRegion = "us-east-1"

// NewService creates a new Route53 service. The config region is ignored.
func NewService(cfg aws.Config) Service {
	cfg = cfg.Copy()
	cfg.Region = ClientRegion
	return &service{client: route53.NewFromConfig(cfg)}
}

func newWithClient(client Route53ClientAPI) Service {
	return &service{client: client}
}

// ScanHostedZones returns every public hosted zone that passes filter, with
// its delegation set, DNSSEC state and records.
func (s *service) ScanHostedZones(ctx context.Context, filter Filter) ([]model.HostedZone, error) {
	zones := []model.HostedZone{}

	paginator := route53.NewListHostedZonesPaginator(s.client, &route53.ListHostedZonesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list hosted zones: %w", err)
		}

		for _, z := range page.HostedZones {
			if z.Config != nil && z.Config.PrivateZone {
				continue
			}
			if !filter.Match(aws.ToString(z.Name)) {
				continue
			}

			zone, err := s.scanZone(ctx, z)
			if err != nil {
				return nil, err
			}
			zones = append(zones, zone)
		}
	}

	return zones, nil
}

func (s *service) scanZone(ctx context.Context, z types.HostedZone) (model.HostedZone, error) {
	zoneID := extractZoneID(aws.ToString(z.Id))

	zone := model.HostedZone{
		BasicInfo: model.HostedZoneInfo{
			Id:                     aws.ToString(z.Id),
			Name:                   aws.ToString(z.Name),
			CallerReference:        aws.ToString(z.CallerReference),
			ResourceRecordSetCount: aws.ToInt64(z.ResourceRecordSetCount),
		},
		RecordTypeSummary: map[string]int{},
	}
	if z.Config != nil {
		zone.BasicInfo.Config = model.HostedZoneConfig{
			PrivateZone: z.Config.PrivateZone,
			Comment:     aws.ToString(z.Config.Comment),
		}
	}

	if out, err := s.client.GetHostedZone(ctx, &route53.GetHostedZoneInput{Id: aws.String(zoneID)}); err == nil && out.DelegationSet != nil {
		zone.DelegationSet = &model.DelegationSet{NameServers: out.DelegationSet.NameServers}
	}
	zone.DNSSEC = s.dnssec(ctx, zoneID)

	records, err := s.records(ctx, zoneID)
	if err != nil {
		return zone, fmt.Errorf("failed to list records for zone %s: %w", zone.BasicInfo.Name, err)
	}
	zone.Records = records
	zone.RecordCount = len(records)
	for _, r := range records {
		zone.RecordTypeSummary[r.Type]++
	}

	return zone, nil
}

func (s *service) dnssec(ctx context.Context, zoneID string) *model.DNSSECStatus {
	out, err := s.client.GetDNSSEC(ctx, &route53.GetDNSSECInput{HostedZoneId: aws.String(zoneID)})
	if err != nil {
		return nil
	}

	status := &model.DNSSECStatus{Status: "DISABLED"}
	if out.Status != nil {
		status.ServeSignature = aws.ToString(out.Status.ServeSignature)
		if status.ServeSignature == "SIGNING" {
			status.Status = "ENABLED"
		}
	}
	return status
}

func (s *service) records(ctx context.Context, zoneID string) ([]model.DNSRecord, error) {
	records := []model.DNSRecord{}
	input := &route53.ListResourceRecordSetsInput{HostedZoneId: aws.String(zoneID)}

	// The record-set listing continues from a (name, type, identifier) triple.
	for {
		out, err := s.client.ListResourceRecordSets(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, rrs := range out.ResourceRecordSets {
			records = append(records, convertRecord(rrs))
		}
		if !out.IsTruncated {
			return records, nil
		}
		input.StartRecordName = out.NextRecordName
		input.StartRecordType = out.NextRecordType
		input.StartRecordIdentifier = out.NextRecordIdentifier
	}
}

func convertRecord(rrs types.ResourceRecordSet) model.DNSRecord {
	record := model.DNSRecord{
		Name:            aws.ToString(rrs.Name),
		Type:            string(rrs.Type),
		TTL:             rrs.TTL,
		ResourceRecords: []model.ResourceValue{},
		RoutingPolicy:   RoutingPolicy(rrs),
		HealthCheckId:   aws.ToString(rrs.HealthCheckId),
		SetIdentifier:   aws.ToString(rrs.SetIdentifier),
	}
	for _, rr := range rrs.ResourceRecords {
		record.ResourceRecords = append(record.ResourceRecords, model.ResourceValue{Value: aws.ToString(rr.Value)})
	}
	if at := rrs.AliasTarget; at != nil {
		dnsName := aws.ToString(at.DNSName)
		record.AliasTarget = &model.AliasTarget{
			DNSName:              dnsName,
			HostedZoneId:         aws.ToString(at.HostedZoneId),
			EvaluateTargetHealth: at.EvaluateTargetHealth,
			TargetType:           resourcearn.InferAliasTargetType(dnsName),
		}
	}
	return record
}

// RoutingPolicy infers the routing policy of a record set. Later checks
// override earlier ones; a record with none of the markers is Simple.
func RoutingPolicy(rrs types.ResourceRecordSet) model.RoutingPolicy {
	policy := model.RoutingPolicy{
		Type:          model.RoutingSimple,
		Details:       map[string]any{},
		SetIdentifier: aws.ToString(rrs.SetIdentifier),
	}

	if rrs.Weight != nil {
		policy.Type = model.RoutingWeighted
		policy.Details["Weight"] = aws.ToInt64(rrs.Weight)
	}
	if rrs.Region != "" {
		policy.Type = model.RoutingLatency
		policy.Details["Region"] = string(rrs.Region)
	}
	if rrs.Failover != "" {
		policy.Type = model.RoutingFailover
		policy.Details["Failover"] = string(rrs.Failover)
	}
	if g := rrs.GeoLocation; g != nil {
		policy.Type = model.RoutingGeolocation
		policy.Details["GeoLocation"] = compact(map[string]string{
			"ContinentCode":   aws.ToString(g.ContinentCode),
			"CountryCode":     aws.ToString(g.CountryCode),
			"SubdivisionCode": aws.ToString(g.SubdivisionCode),
		})
	}
	if g := rrs.GeoProximityLocation; g != nil {
		policy.Type = model.RoutingGeoproximity
		loc := compact(map[string]string{
			"AWSRegion":      aws.ToString(g.AWSRegion),
			"LocalZoneGroup": aws.ToString(g.LocalZoneGroup),
		})
		if g.Bias != nil {
			loc["Bias"] = fmt.Sprint(*g.Bias)
		}
		policy.Details["GeoProximityLocation"] = loc
	}
	if aws.ToBool(rrs.MultiValueAnswer) {
		policy.Type = model.RoutingMultivalue
	}

	return policy
}

func compact(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

// Summarize totals zones and records for a scan document.
func Summarize(zones []model.HostedZone) model.Route53Summary {
	summary := model.Route53Summary{TotalPublicZones: len(zones)}
	for _, z := range zones {
		summary.TotalRecords += z.RecordCount
	}
	return summary
}

// Match reports whether a zone name passes the filter. Names are compared
// without the trailing dot; an entry matches the zone itself or any parent suffix.
func (f Filter) Match(zoneName string) bool {
	if len(f.ZoneNames) == 0 {
		return true
	}
	name := strings.TrimSuffix(strings.ToLower(zoneName), ".")
	for _, want := range f.ZoneNames {
		want = strings.TrimSuffix(strings.ToLower(want), ".")
		if name == want || strings.HasSuffix(name, "."+want) {
			return true
		}
	}
	return false
}

func extractZoneID(id string) string {
	return strings.TrimPrefix(id, "/hostedzone/")
}
