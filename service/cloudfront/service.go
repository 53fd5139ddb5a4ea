// Package awscloudfront looks up CloudFront distributions fronted by a WAF web ACL.
package awscloudfront

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
)

// NewService creates a new CloudFront service. CloudFront is global; the
// configured region only selects the endpoint used for signing.
func NewService(cfg aws.Config) Service {
	return &service{client: cloudfront.NewFromConfig(cfg)}
}

func newWithClient(client CloudFrontClientAPI) Service {
	return &service{client: client}
}

// ListDistributionARNsByWebACL returns the ARNs of distributions associated
// with the given WAFv2 web ACL ARN.
func (s *service) ListDistributionARNsByWebACL(ctx context.Context, webACLARN string) ([]string, error) {
	var arns []string
	input := &cloudfront.ListDistributionsByWebACLIdInput{WebACLId: aws.String(webACLARN)}

	for {
		out, err := s.client.ListDistributionsByWebACLId(ctx, input)
		if err != nil {
			return arns, fmt.Errorf("list distributions for web ACL: %w", err)
		}
		list := out.DistributionList
		if list == nil {
			return arns, nil
		}
		for _, d := range list.Items {
			if arn := aws.ToString(d.ARN); arn != "" {
				arns = append(arns, arn)
			}
		}
		if !aws.ToBool(list.IsTruncated) || aws.ToString(list.NextMarker) == "" {
			return arns, nil
		}
		input.Marker = list.NextMarker
	}
}
