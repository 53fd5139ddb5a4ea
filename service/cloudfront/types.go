package awscloudfront

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
)

// CloudFrontClientAPI is the subset of the CloudFront client used by the service.
type CloudFrontClientAPI interface {
	ListDistributionsByWebACLId(ctx context.Context, params *cloudfront.ListDistributionsByWebACLIdInput, optFns ...func(*cloudfront.Options)) (*cloudfront.ListDistributionsByWebACLIdOutput, error)
}

type service struct {
	client CloudFrontClientAPI
}

// Service is the interface for CloudFront lookups.
type Service interface {
	ListDistributionARNsByWebACL(ctx context.Context, webACLARN string) ([]string, error)
}
