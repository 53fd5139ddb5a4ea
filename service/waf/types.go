package waf

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	"github.com/thirukguru/aws-edge-audit/model"
)

// WAFClientAPI is the subset of the WAFv2 client used by the service.
type WAFClientAPI interface {
	ListWebACLs(ctx context.Context, params *wafv2.ListWebACLsInput, optFns ...func(*wafv2.Options)) (*wafv2.ListWebACLsOutput, error)
	GetWebACL(ctx context.Context, params *wafv2.GetWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.GetWebACLOutput, error)
	ListResourcesForWebACL(ctx context.Context, params *wafv2.ListResourcesForWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.ListResourcesForWebACLOutput, error)
}

// DistributionLister resolves the CloudFront distributions behind a global web ACL.
type DistributionLister interface {
	ListDistributionARNsByWebACL(ctx context.Context, webACLARN string) ([]string, error)
}

type service struct {
	client        WAFClientAPI
	distributions DistributionLister
}

// Service is the interface for WAF web ACL discovery.
type Service interface {
	ListWebACLs(ctx context.Context, scope string) ([]model.WebACL, error)
}
