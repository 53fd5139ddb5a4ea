package elb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	"github.com/thirukguru/aws-edge-audit/model"
)

// Listener risk severities.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
)

// ELBClientAPI is the subset of the ELBv2 client used by the service.
type ELBClientAPI interface {
	DescribeLoadBalancers(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error)
	DescribeListeners(ctx context.Context, params *elasticloadbalancingv2.DescribeListenersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeListenersOutput, error)
	DescribeRules(ctx context.Context, params *elasticloadbalancingv2.DescribeRulesInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeRulesOutput, error)
	DescribeTargetGroups(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetGroupsInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error)
	DescribeTargetHealth(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetHealthInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetHealthOutput, error)
}

// WAFAssociationAPI resolves the web ACL attached to a resource.
type WAFAssociationAPI interface {
	GetWebACLForResource(ctx context.Context, params *wafv2.GetWebACLForResourceInput, optFns ...func(*wafv2.Options)) (*wafv2.GetWebACLForResourceOutput, error)
}

// SecurityGroupAPI describes EC2 security groups.
type SecurityGroupAPI interface {
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
}

// Filter restricts which load balancers are scanned.
type Filter struct {
	Types   []string
	Schemes []string
}

// ListenerRisk is an offline finding over a scanned load balancer's listeners.
type ListenerRisk struct {
	AccountID        string
	Region           string
	LoadBalancerName string
	ListenerARN      string
	Protocol         string
	Port             int32
	Severity         string
	Description      string
	Recommendation   string
}

type service struct {
	client    ELBClientAPI
	wafClient WAFAssociationAPI
	ec2Client SecurityGroupAPI
}

// Service is the interface for load balancer discovery.
type Service interface {
	ScanLoadBalancers(ctx context.Context, mode string, filter Filter) ([]model.LoadBalancer, error)
}
