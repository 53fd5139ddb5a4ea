package shield

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/shield"
	"github.com/aws/aws-sdk-go-v2/service/shield/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockShield struct {
	state   types.SubscriptionState
	subErr  error
	pages   [][]types.Protection
	listErr error
	calls   int
}

func (m *mockShield) GetSubscriptionState(context.Context, *shield.GetSubscriptionStateInput, ...func(*shield.Options)) (*shield.GetSubscriptionStateOutput, error) {
	if m.subErr != nil {
		return nil, m.subErr
	}
	return &shield.GetSubscriptionStateOutput{SubscriptionState: m.state}, nil
}

func (m *mockShield) ListProtections(context.Context, *shield.ListProtectionsInput, ...func(*shield.Options)) (*shield.ListProtectionsOutput, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	page := m.pages[m.calls]
	m.calls++
	out := &shield.ListProtectionsOutput{Protections: page}
	if m.calls < len(m.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestGetProtectionSummaryActive(t *testing.T) {
	client := &mockShield{
		state: types.SubscriptionStateActive,
		pages: [][]types.Protection{
			{{ResourceArn: aws.String("arn:aws:elasticloadbalancing:us-east-1:1:loadbalancer/app/b/2")}},
			{{ResourceArn: aws.String("arn:aws:elasticloadbalancing:us-east-1:1:loadbalancer/app/a/1")}, {}},
		},
	}

	got, err := newWithClient(client).GetProtectionSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", got.SubscriptionState)
	assert.Equal(t, []string{
		"arn:aws:elasticloadbalancing:us-east-1:1:loadbalancer/app/a/1",
		"arn:aws:elasticloadbalancing:us-east-1:1:loadbalancer/app/b/2",
	}, got.ProtectedResources)
}

func TestGetProtectionSummaryNotSubscribed(t *testing.T) {
	got, err := newWithClient(&mockShield{subErr: errors.New("ResourceNotFoundException")}).GetProtectionSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", got.SubscriptionState)
	assert.Empty(t, got.ProtectedResources)

	got, err = newWithClient(&mockShield{state: types.SubscriptionStateInactive}).GetProtectionSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", got.SubscriptionState)
}
