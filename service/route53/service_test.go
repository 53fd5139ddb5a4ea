package route53

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-edge-audit/model"
)

type mockRoute53 struct {
	zones       []types.HostedZone
	recordPages [][]types.ResourceRecordSet
	recordCalls []string
	dnssecErr   error
}

func (m *mockRoute53) ListHostedZones(context.Context, *route53.ListHostedZonesInput, ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error) {
	return &route53.ListHostedZonesOutput{HostedZones: m.zones}, nil
}

func (m *mockRoute53) GetHostedZone(context.Context, *route53.GetHostedZoneInput, ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error) {
	return &route53.GetHostedZoneOutput{DelegationSet: &types.DelegationSet{NameServers: []string{"ns-1.awsdns-01.org"}}}, nil
}

func (m *mockRoute53) GetDNSSEC(context.Context, *route53.GetDNSSECInput, ...func(*route53.Options)) (*route53.GetDNSSECOutput, error) {
	if m.dnssecErr != nil {
		return nil, m.dnssecErr
	}
	return &route53.GetDNSSECOutput{Status: &types.DNSSECStatus{ServeSignature: aws.String("SIGNING")}}, nil
}

func (m *mockRoute53) ListResourceRecordSets(_ context.Context, in *route53.ListResourceRecordSetsInput, _ ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error) {
	m.recordCalls = append(m.recordCalls, aws.ToString(in.StartRecordName))
	page := m.recordPages[len(m.recordCalls)-1]
	out := &route53.ListResourceRecordSetsOutput{ResourceRecordSets: page}
	if len(m.recordCalls) < len(m.recordPages) {
		out.IsTruncated = true
		out.NextRecordName = aws.String("next.example.com.")
		out.NextRecordType = types.RRTypeA
	}
	return out, nil
}

func TestScanHostedZones(t *testing.T) {
	client := &mockRoute53{
		zones: []types.HostedZone{
			{Id: aws.String("/hostedzone/Z1"), Name: aws.String("example.com."), Config: &types.HostedZoneConfig{}},
			{Id: aws.String("/hostedzone/Z2"), Name: aws.String("internal.example."), Config: &types.HostedZoneConfig{PrivateZone: true}},
		},
		recordPages: [][]types.ResourceRecordSet{
			{
				{Name: aws.String("example.com."), Type: types.RRTypeNs, TTL: aws.Int64(172800), ResourceRecords: []types.ResourceRecord{{Value: aws.String("ns-1.awsdns-01.org.")}}},
				{Name: aws.String("app.example.com."), Type: types.RRTypeA, AliasTarget: &types.AliasTarget{
					DNSName:      aws.String("dualstack.web-1.us-east-1.elb.amazonaws.com."),
					HostedZoneId: aws.String("Z35SXDOTRQ7X7K"),
				}},
			},
			{
				{Name: aws.String("www.example.com."), Type: types.RRTypeCname, TTL: aws.Int64(300), ResourceRecords: []types.ResourceRecord{{Value: aws.String("app.example.com")}}},
			},
		},
	}

	zones, err := newWithClient(client).ScanHostedZones(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, zones, 1, "private zones are skipped")

	zone := zones[0]
	assert.Equal(t, "example.com.", zone.BasicInfo.Name)
	assert.Equal(t, []string{"ns-1.awsdns-01.org"}, zone.DelegationSet.NameServers)
	assert.Equal(t, &model.DNSSECStatus{Status: "ENABLED", ServeSignature: "SIGNING"}, zone.DNSSEC)
	assert.Equal(t, 3, zone.RecordCount)
	assert.Equal(t, map[string]int{"NS": 1, "A": 1, "CNAME": 1}, zone.RecordTypeSummary)
	assert.Equal(t, []string{"", "next.example.com."}, client.recordCalls)

	alias := zone.Records[1].AliasTarget
	require.NotNil(t, alias)
	assert.Equal(t, model.TargetTypeELB, alias.TargetType)
	assert.Nil(t, zone.Records[1].TTL)
	assert.Equal(t, model.RoutingSimple, zone.Records[1].RoutingPolicy.Type)

	summary := Summarize(zones)
	assert.Equal(t, model.Route53Summary{TotalPublicZones: 1, TotalRecords: 3}, summary)
}

func TestScanHostedZonesDNSSECUnavailable(t *testing.T) {
	client := &mockRoute53{
		zones:       []types.HostedZone{{Id: aws.String("/hostedzone/Z1"), Name: aws.String("example.com.")}},
		recordPages: [][]types.ResourceRecordSet{{}},
		dnssecErr:   errors.New("AccessDenied"),
	}
	zones, err := newWithClient(client).ScanHostedZones(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Nil(t, zones[0].DNSSEC)
	assert.Zero(t, zones[0].RecordCount)
}

func TestRoutingPolicyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		rrs  types.ResourceRecordSet
		want string
	}{
		{"simple", types.ResourceRecordSet{}, model.RoutingSimple},
		{"weighted", types.ResourceRecordSet{Weight: aws.Int64(10)}, model.RoutingWeighted},
		{"latency", types.ResourceRecordSet{Region: types.ResourceRecordSetRegionEuWest1}, model.RoutingLatency},
		{"failover wins over weight", types.ResourceRecordSet{Weight: aws.Int64(1), Failover: types.ResourceRecordSetFailoverPrimary}, model.RoutingFailover},
		{"geolocation", types.ResourceRecordSet{GeoLocation: &types.GeoLocation{CountryCode: aws.String("DE")}}, model.RoutingGeolocation},
		{"geoproximity", types.ResourceRecordSet{GeoProximityLocation: &types.GeoProximityLocation{AWSRegion: aws.String("us-east-1")}}, model.RoutingGeoproximity},
		{"multivalue last", types.ResourceRecordSet{Weight: aws.Int64(1), MultiValueAnswer: aws.Bool(true)}, model.RoutingMultivalue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoutingPolicy(tt.rrs).Type)
		})
	}

	geo := RoutingPolicy(types.ResourceRecordSet{GeoLocation: &types.GeoLocation{CountryCode: aws.String("DE")}})
	assert.Equal(t, map[string]string{"CountryCode": "DE"}, geo.Details["GeoLocation"])
}

func TestFilterMatch(t *testing.T) {
	f := Filter{ZoneNames: []string{"example.com"}}
	assert.True(t, f.Match("example.com."))
	assert.True(t, f.Match("api.example.com."))
	assert.False(t, f.Match("badexample.com."))
	assert.True(t, Filter{}.Match("anything."))
}

func TestExtractZoneID(t *testing.T) {
	assert.Equal(t, "Z1", extractZoneID("/hostedzone/Z1"))
	assert.Equal(t, "Z1", extractZoneID("Z1"))
}
