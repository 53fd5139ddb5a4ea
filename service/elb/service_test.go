package elb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	waftypes "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-edge-audit/model"
)

const (
	webARN = "arn:aws:elasticloadbalancing:us-east-1:123456789012:loadbalancer/app/web/1"
	apiARN = "arn:aws:elasticloadbalancing:us-east-1:123456789012:loadbalancer/app/api/2"
	nlbARN = "arn:aws:elasticloadbalancing:us-east-1:123456789012:loadbalancer/net/tcp/3"
	aclARN = "arn:aws:wafv2:us-east-1:123456789012:regional/webacl/main/abc"
)

type mockELB struct {
	lbs         []types.LoadBalancer
	listeners   []types.Listener
	rulesCalled int
}

func (m *mockELB) DescribeLoadBalancers(context.Context, *elasticloadbalancingv2.DescribeLoadBalancersInput, ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error) {
	return &elasticloadbalancingv2.DescribeLoadBalancersOutput{LoadBalancers: m.lbs}, nil
}

func (m *mockELB) DescribeListeners(context.Context, *elasticloadbalancingv2.DescribeListenersInput, ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeListenersOutput, error) {
	return &elasticloadbalancingv2.DescribeListenersOutput{Listeners: m.listeners}, nil
}

func (m *mockELB) DescribeRules(context.Context, *elasticloadbalancingv2.DescribeRulesInput, ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeRulesOutput, error) {
	m.rulesCalled++
	return &elasticloadbalancingv2.DescribeRulesOutput{Rules: []types.Rule{{
		RuleArn:   aws.String("rule-1"),
		Priority:  aws.String("default"),
		IsDefault: aws.Bool(true),
	}}}, nil
}

func (m *mockELB) DescribeTargetGroups(context.Context, *elasticloadbalancingv2.DescribeTargetGroupsInput, ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error) {
	return &elasticloadbalancingv2.DescribeTargetGroupsOutput{TargetGroups: []types.TargetGroup{{
		TargetGroupArn:  aws.String("tg-1"),
		TargetGroupName: aws.String("web-tg"),
		Port:            aws.Int32(8080),
		Protocol:        types.ProtocolEnumHttp,
	}}}, nil
}

func (m *mockELB) DescribeTargetHealth(context.Context, *elasticloadbalancingv2.DescribeTargetHealthInput, ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetHealthOutput, error) {
	return &elasticloadbalancingv2.DescribeTargetHealthOutput{TargetHealthDescriptions: []types.TargetHealthDescription{{
		Target:       &types.TargetDescription{Id: aws.String("i-123"), Port: aws.Int32(8080)},
		TargetHealth: &types.TargetHealth{State: types.TargetHealthStateEnumHealthy},
	}}}, nil
}

type mockWAFAssoc struct{}

func (mockWAFAssoc) GetWebACLForResource(_ context.Context, in *wafv2.GetWebACLForResourceInput, _ ...func(*wafv2.Options)) (*wafv2.GetWebACLForResourceOutput, error) {
	switch aws.ToString(in.ResourceArn) {
	case webARN:
		return &wafv2.GetWebACLForResourceOutput{WebACL: &waftypes.WebACL{
			Name: aws.String("main"), Id: aws.String("abc"), ARN: aws.String(aclARN),
		}}, nil
	case apiARN:
		return nil, &waftypes.WAFNonexistentItemException{Message: aws.String("none")}
	default:
		return nil, errors.New("AccessDeniedException")
	}
}

type mockEC2 struct{}

func (mockEC2) DescribeSecurityGroups(context.Context, *ec2.DescribeSecurityGroupsInput, ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: []ec2types.SecurityGroup{{
		GroupId:   aws.String("sg-1"),
		GroupName: aws.String("web"),
		IpPermissions: []ec2types.IpPermission{{
			IpProtocol: aws.String("tcp"),
			FromPort:   aws.Int32(443),
			ToPort:     aws.Int32(443),
			IpRanges:   []ec2types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
		}},
	}}}, nil
}

func sampleLBs() []types.LoadBalancer {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []types.LoadBalancer{
		{
			LoadBalancerName: aws.String("web"),
			LoadBalancerArn:  aws.String(webARN),
			DNSName:          aws.String("web-1.us-east-1.elb.amazonaws.com"),
			Type:             types.LoadBalancerTypeEnumApplication,
			Scheme:           types.LoadBalancerSchemeEnumInternetFacing,
			State:            &types.LoadBalancerState{Code: types.LoadBalancerStateEnumActive},
			CreatedTime:      &created,
			SecurityGroups:   []string{"sg-1"},
			AvailabilityZones: []types.AvailabilityZone{
				{ZoneName: aws.String("us-east-1a")},
			},
		},
		{
			LoadBalancerName: aws.String("api"),
			LoadBalancerArn:  aws.String(apiARN),
			Type:             types.LoadBalancerTypeEnumApplication,
			Scheme:           types.LoadBalancerSchemeEnumInternal,
		},
		{
			LoadBalancerName: aws.String("tcp"),
			LoadBalancerArn:  aws.String(nlbARN),
			Type:             types.LoadBalancerTypeEnumNetwork,
			Scheme:           types.LoadBalancerSchemeEnumInternetFacing,
		},
	}
}

func TestScanLoadBalancersQuick(t *testing.T) {
	client := &mockELB{lbs: sampleLBs()}
	svc := newWithClients(client, mockWAFAssoc{}, mockEC2{})

	lbs, err := svc.ScanLoadBalancers(context.Background(), model.ScanModeQuick, Filter{})
	require.NoError(t, err)
	require.Len(t, lbs, 3)

	web := lbs[0]
	assert.Equal(t, "Application Load Balancer", web.BasicInfo.FriendlyType)
	assert.Equal(t, "active", web.BasicInfo.State)
	assert.Equal(t, "2024-01-02T03:04:05Z", web.BasicInfo.CreatedTime)
	assert.Equal(t, []string{"us-east-1a"}, web.BasicInfo.AvailabilityZones)
	assert.True(t, web.WAFAssociation.HasWAF)
	assert.Equal(t, aclARN, web.WAFAssociation.WebACLARN())
	assert.Nil(t, web.Listeners)
	assert.Nil(t, web.SecurityGroupsDetail)

	api := lbs[1]
	assert.False(t, api.WAFAssociation.HasWAF)
	assert.Empty(t, api.WAFAssociation.Error)

	nlb := lbs[2]
	assert.Equal(t, "Network Load Balancer", nlb.BasicInfo.FriendlyType)
	assert.False(t, nlb.WAFAssociation.HasWAF)
}

func TestScanLoadBalancersFull(t *testing.T) {
	client := &mockELB{
		lbs: sampleLBs()[:1],
		listeners: []types.Listener{{
			ListenerArn: aws.String("listener-1"),
			Port:        aws.Int32(80),
			Protocol:    types.ProtocolEnumHttp,
			DefaultActions: []types.Action{{
				Type: types.ActionTypeEnumRedirect,
				RedirectConfig: &types.RedirectActionConfig{
					Protocol:   aws.String("HTTPS"),
					Port:       aws.String("443"),
					StatusCode: types.RedirectActionStatusCodeEnumHttp301,
				},
			}},
		}},
	}
	svc := newWithClients(client, mockWAFAssoc{}, mockEC2{})

	lbs, err := svc.ScanLoadBalancers(context.Background(), model.ScanModeFull, Filter{})
	require.NoError(t, err)
	require.Len(t, lbs, 1)

	lb := lbs[0]
	require.Len(t, lb.Listeners, 1)
	assert.Equal(t, "HTTPS", lb.Listeners[0].DefaultActions[0].RedirectProtocol)
	assert.Equal(t, "HTTP_301", lb.Listeners[0].DefaultActions[0].StatusCode)
	require.Len(t, lb.Listeners[0].Rules, 1)
	assert.True(t, lb.Listeners[0].Rules[0].IsDefault)
	assert.Equal(t, 1, client.rulesCalled)

	require.Len(t, lb.TargetGroups, 1)
	require.Len(t, lb.TargetGroups[0].TargetHealth, 1)
	assert.Equal(t, "healthy", lb.TargetGroups[0].TargetHealth[0].State)

	require.Len(t, lb.SecurityGroupsDetail, 1)
	assert.Equal(t, []string{"0.0.0.0/0"}, lb.SecurityGroupsDetail[0].IngressRules[0].CidrRanges)
}

func TestScanLoadBalancersStandardSkipsRules(t *testing.T) {
	client := &mockELB{lbs: sampleLBs()[:1], listeners: []types.Listener{{ListenerArn: aws.String("l"), Protocol: types.ProtocolEnumHttps}}}
	lbs, err := newWithClients(client, mockWAFAssoc{}, mockEC2{}).ScanLoadBalancers(context.Background(), model.ScanModeStandard, Filter{})
	require.NoError(t, err)
	require.Len(t, lbs[0].Listeners, 1)
	assert.Nil(t, lbs[0].Listeners[0].Rules)
	assert.Nil(t, lbs[0].TargetGroups[0].TargetHealth)
	assert.Zero(t, client.rulesCalled)
}

func TestWAFAssociationError(t *testing.T) {
	svc := &service{wafClient: mockWAFAssoc{}}
	assoc := svc.wafAssociation(context.Background(), "arn:other")
	assert.False(t, assoc.HasWAF)
	assert.Equal(t, "AccessDeniedException", assoc.Error)
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		lbType string
		scheme string
		want   bool
	}{
		{"empty filter", Filter{}, "network", "internal", true},
		{"type match", Filter{Types: []string{"application"}}, "application", "internal", true},
		{"type mismatch", Filter{Types: []string{"application"}}, "network", "internal", false},
		{"scheme mismatch", Filter{Schemes: []string{"internet-facing"}}, "application", "internal", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(tt.lbType, tt.scheme))
		})
	}
}

func TestScanLoadBalancersFilter(t *testing.T) {
	client := &mockELB{lbs: sampleLBs()}
	lbs, err := newWithClients(client, mockWAFAssoc{}, mockEC2{}).ScanLoadBalancers(context.Background(), model.ScanModeQuick, Filter{Types: []string{"network"}})
	require.NoError(t, err)
	require.Len(t, lbs, 1)
	assert.Equal(t, "tcp", lbs[0].BasicInfo.LoadBalancerName)
}
