package awscloudfront

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCloudFront struct {
	pages   []*types.DistributionList
	markers []string
	err     error
}

func (m *mockCloudFront) ListDistributionsByWebACLId(_ context.Context, in *cloudfront.ListDistributionsByWebACLIdInput, _ ...func(*cloudfront.Options)) (*cloudfront.ListDistributionsByWebACLIdOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.markers = append(m.markers, aws.ToString(in.Marker))
	page := m.pages[len(m.markers)-1]
	return &cloudfront.ListDistributionsByWebACLIdOutput{DistributionList: page}, nil
}

func TestListDistributionARNsByWebACLPages(t *testing.T) {
	client := &mockCloudFront{pages: []*types.DistributionList{
		{
			Items:       []types.DistributionSummary{{ARN: aws.String("arn:aws:cloudfront::1:distribution/E1")}},
			IsTruncated: aws.Bool(true),
			NextMarker:  aws.String("E1"),
		},
		{
			Items:       []types.DistributionSummary{{ARN: aws.String("arn:aws:cloudfront::1:distribution/E2")}},
			IsTruncated: aws.Bool(false),
		},
	}}

	arns, err := newWithClient(client).ListDistributionARNsByWebACL(context.Background(), "arn:aws:wafv2:us-east-1:1:global/webacl/edge/abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"arn:aws:cloudfront::1:distribution/E1", "arn:aws:cloudfront::1:distribution/E2"}, arns)
	assert.Equal(t, []string{"", "E1"}, client.markers)
}

func TestListDistributionARNsByWebACLError(t *testing.T) {
	_, err := newWithClient(&mockCloudFront{err: errors.New("AccessDenied")}).ListDistributionARNsByWebACL(context.Background(), "arn")
	require.Error(t, err)
}
