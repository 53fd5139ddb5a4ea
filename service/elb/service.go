// Package elb fetches ELBv2 load balancers with their WAF association and,
// depending on scan mode, listeners, target groups and security groups.
package elb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	waftypes "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/resourcearn"
)

// NewService creates a new ELB service for the region in cfg.
func NewService(cfg aws.Config) Service {
	return &service{
		client:    elasticloadbalancingv2.NewFromConfig(cfg),
		wafClient: wafv2.NewFromConfig(cfg),
		ec2Client: ec2.NewFromConfig(cfg),
	}
}

func newWithClients(client ELBClientAPI, wafClient WAFAssociationAPI, ec2Client SecurityGroupAPI) Service {
	return &service{client: client, wafClient: wafClient, ec2Client: ec2Client}
}

// ScanLoadBalancers lists every load balancer in the region that passes filter.
// Detail lookups that fail are left empty; only the listing itself is fatal.
func (s *service) ScanLoadBalancers(ctx context.Context, mode string, filter Filter) ([]model.LoadBalancer, error) {
	var out []model.LoadBalancer

	paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(s.client, &elasticloadbalancingv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe load balancers: %w", err)
		}

		for _, lb := range page.LoadBalancers {
			if !filter.Match(string(lb.Type), string(lb.Scheme)) {
				continue
			}
			out = append(out, s.describe(ctx, lb, mode))
		}
	}

	return out, nil
}

func (s *service) describe(ctx context.Context, lb types.LoadBalancer, mode string) model.LoadBalancer {
	result := model.LoadBalancer{BasicInfo: basicInfo(lb)}
	arn := result.BasicInfo.LoadBalancerArn

	if lb.Type == types.LoadBalancerTypeEnumApplication {
		result.WAFAssociation = s.wafAssociation(ctx, arn)
	}

	if mode != model.ScanModeStandard && mode != model.ScanModeFull {
		return result
	}
	full := mode == model.ScanModeFull

	result.Listeners = s.listeners(ctx, arn, full)
	result.TargetGroups = s.targetGroups(ctx, arn, full)
	if len(lb.SecurityGroups) > 0 {
		result.SecurityGroupsDetail = s.securityGroups(ctx, lb.SecurityGroups)
	}
	return result
}

func basicInfo(lb types.LoadBalancer) model.LoadBalancerInfo {
	info := model.LoadBalancerInfo{
		LoadBalancerName:      aws.ToString(lb.LoadBalancerName),
		LoadBalancerArn:       aws.ToString(lb.LoadBalancerArn),
		DNSName:               aws.ToString(lb.DNSName),
		CanonicalHostedZoneId: aws.ToString(lb.CanonicalHostedZoneId),
		Type:                  string(lb.Type),
		FriendlyType:          resourcearn.LoadBalancerFriendlyType(string(lb.Type)),
		VpcId:                 aws.ToString(lb.VpcId),
		Scheme:                string(lb.Scheme),
		IpAddressType:         string(lb.IpAddressType),
		AvailabilityZones:     []string{},
		SecurityGroups:        lb.SecurityGroups,
	}
	if info.SecurityGroups == nil {
		info.SecurityGroups = []string{}
	}
	if lb.State != nil {
		info.State = string(lb.State.Code)
	}
	if lb.CreatedTime != nil {
		info.CreatedTime = lb.CreatedTime.UTC().Format(time.RFC3339)
	}
	for _, az := range lb.AvailabilityZones {
		info.AvailabilityZones = append(info.AvailabilityZones, aws.ToString(az.ZoneName))
	}
	return info
}

func (s *service) wafAssociation(ctx context.Context, arn string) model.WAFAssociation {
	out, err := s.wafClient.GetWebACLForResource(ctx, &wafv2.GetWebACLForResourceInput{ResourceArn: aws.String(arn)})
	if err != nil {
		var notFound *waftypes.WAFNonexistentItemException
		if errors.As(err, &notFound) {
			return model.WAFAssociation{}
		}
		return model.WAFAssociation{Error: err.Error()}
	}
	if out.WebACL == nil {
		return model.WAFAssociation{}
	}
	return model.WAFAssociation{
		HasWAF: true,
		WebACL: &model.WebACLRef{
			Name: aws.ToString(out.WebACL.Name),
			Id:   aws.ToString(out.WebACL.Id),
			ARN:  aws.ToString(out.WebACL.ARN),
		},
	}
}

func (s *service) listeners(ctx context.Context, lbARN string, withRules bool) []model.Listener {
	listeners := []model.Listener{}

	paginator := elasticloadbalancingv2.NewDescribeListenersPaginator(s.client, &elasticloadbalancingv2.DescribeListenersInput{
		LoadBalancerArn: aws.String(lbARN),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return listeners
		}
		for _, l := range page.Listeners {
			listener := model.Listener{
				ListenerArn:    aws.ToString(l.ListenerArn),
				Port:           aws.ToInt32(l.Port),
				Protocol:       string(l.Protocol),
				SslPolicy:      aws.ToString(l.SslPolicy),
				DefaultActions: convertActions(l.DefaultActions),
			}
			for _, c := range l.Certificates {
				listener.Certificates = append(listener.Certificates, aws.ToString(c.CertificateArn))
			}
			if withRules {
				listener.Rules = s.rules(ctx, listener.ListenerArn)
			}
			listeners = append(listeners, listener)
		}
	}
	return listeners
}

func (s *service) rules(ctx context.Context, listenerARN string) []model.ListenerRule {
	var rules []model.ListenerRule
	input := &elasticloadbalancingv2.DescribeRulesInput{ListenerArn: aws.String(listenerARN)}

	for {
		out, err := s.client.DescribeRules(ctx, input)
		if err != nil {
			return rules
		}
		for _, r := range out.Rules {
			rule := model.ListenerRule{
				RuleArn:   aws.ToString(r.RuleArn),
				Priority:  aws.ToString(r.Priority),
				IsDefault: aws.ToBool(r.IsDefault),
				Actions:   convertActions(r.Actions),
			}
			for _, c := range r.Conditions {
				rule.Conditions = append(rule.Conditions, model.RuleCondition{
					Field:  aws.ToString(c.Field),
					Values: c.Values,
				})
			}
			rules = append(rules, rule)
		}
		if aws.ToString(out.NextMarker) == "" {
			return rules
		}
		input.Marker = out.NextMarker
	}
}

func convertActions(actions []types.Action) []model.ListenerAction {
	if len(actions) == 0 {
		return nil
	}
	out := make([]model.ListenerAction, 0, len(actions))
	for _, a := range actions {
		action := model.ListenerAction{
			Type:           string(a.Type),
			TargetGroupArn: aws.ToString(a.TargetGroupArn),
		}
		if rc := a.RedirectConfig; rc != nil {
			action.RedirectProtocol = aws.ToString(rc.Protocol)
			action.RedirectPort = aws.ToString(rc.Port)
			action.StatusCode = string(rc.StatusCode)
		}
		out = append(out, action)
	}
	return out
}

func (s *service) targetGroups(ctx context.Context, lbARN string, withHealth bool) []model.TargetGroup {
	groups := []model.TargetGroup{}

	paginator := elasticloadbalancingv2.NewDescribeTargetGroupsPaginator(s.client, &elasticloadbalancingv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbARN),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return groups
		}
		for _, tg := range page.TargetGroups {
			group := model.TargetGroup{
				TargetGroupArn:      aws.ToString(tg.TargetGroupArn),
				TargetGroupName:     aws.ToString(tg.TargetGroupName),
				Protocol:            string(tg.Protocol),
				Port:                aws.ToInt32(tg.Port),
				TargetType:          string(tg.TargetType),
				VpcId:               aws.ToString(tg.VpcId),
				HealthCheckProtocol: string(tg.HealthCheckProtocol),
				HealthCheckPath:     aws.ToString(tg.HealthCheckPath),
			}
			if withHealth {
				group.TargetHealth = s.targetHealth(ctx, group.TargetGroupArn)
			}
			groups = append(groups, group)
		}
	}
	return groups
}

func (s *service) targetHealth(ctx context.Context, tgARN string) []model.TargetHealth {
	out, err := s.client.DescribeTargetHealth(ctx, &elasticloadbalancingv2.DescribeTargetHealthInput{
		TargetGroupArn: aws.String(tgARN),
	})
	if err != nil {
		return nil
	}

	health := make([]model.TargetHealth, 0, len(out.TargetHealthDescriptions))
	for _, d := range out.TargetHealthDescriptions {
		th := model.TargetHealth{}
		if d.Target != nil {
			th.Id = aws.ToString(d.Target.Id)
			th.Port = aws.ToInt32(d.Target.Port)
		}
		if d.TargetHealth != nil {
			th.State = string(d.TargetHealth.State)
			th.Reason = string(d.TargetHealth.Reason)
		}
		health = append(health, th)
	}
	return health
}

func (s *service) securityGroups(ctx context.Context, ids []string) []model.SecurityGroup {
	out, err := s.ec2Client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{GroupIds: ids})
	if err != nil {
		return nil
	}

	groups := make([]model.SecurityGroup, 0, len(out.SecurityGroups))
	for _, sg := range out.SecurityGroups {
		group := model.SecurityGroup{
			GroupId:     aws.ToString(sg.GroupId),
			GroupName:   aws.ToString(sg.GroupName),
			Description: aws.ToString(sg.Description),
			VpcId:       aws.ToString(sg.VpcId),
		}
		for _, perm := range sg.IpPermissions {
			rule := model.SecurityGroupRule{
				Protocol: aws.ToString(perm.IpProtocol),
				FromPort: aws.ToInt32(perm.FromPort),
				ToPort:   aws.ToInt32(perm.ToPort),
			}
			for _, r := range perm.IpRanges {
				rule.CidrRanges = append(rule.CidrRanges, aws.ToString(r.CidrIp))
			}
			for _, r := range perm.Ipv6Ranges {
				rule.CidrRanges = append(rule.CidrRanges, aws.ToString(r.CidrIpv6))
			}
			for _, p := range perm.UserIdGroupPairs {
				rule.SourceGroups = append(rule.SourceGroups, aws.ToString(p.GroupId))
			}
			group.IngressRules = append(group.IngressRules, rule)
		}
		groups = append(groups, group)
	}
	return groups
}

// Match reports whether a load balancer of the given type and scheme passes
// the filter. Empty filter lists match everything.
func (f Filter) Match(lbType, scheme string) bool {
	if len(f.Types) > 0 && !slices.Contains(f.Types, lbType) {
		return false
	}
	if len(f.Schemes) > 0 && !slices.Contains(f.Schemes, scheme) {
		return false
	}
	return true
}
