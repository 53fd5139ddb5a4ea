// Package shield reports AWS Shield Advanced protection for an account.
package shield

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/shield"
	"github.com/thirukguru/aws-edge-audit/model"
)

const subscriptionInactive = "INACTIVE"

// NewService creates a new Shield service.
func NewService(cfg aws.Config) Service {
	return &service{client: shield.NewFromConfig(cfg)}
}

func newWithClient(client ShieldClientAPI) Service {
	return &service{client: client}
}

// GetProtectionSummary returns the subscription state and protected ARNs.
// Accounts without Shield Advanced (or without permission to ask) report INACTIVE.
func (s *service) GetProtectionSummary(ctx context.Context) (*model.ShieldProtection, error) {
	sub, err := s.client.GetSubscriptionState(ctx, &shield.GetSubscriptionStateInput{})
	if err != nil {
		return &model.ShieldProtection{SubscriptionState: subscriptionInactive}, nil
	}

	summary := &model.ShieldProtection{SubscriptionState: string(sub.SubscriptionState)}
	if summary.SubscriptionState != "ACTIVE" {
		return summary, nil
	}

	paginator := shield.NewListProtectionsPaginator(s.client, &shield.ListProtectionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return summary, err
		}
		for _, p := range page.Protections {
			if arn := aws.ToString(p.ResourceArn); arn != "" {
				summary.ProtectedResources = append(summary.ProtectedResources, arn)
			}
		}
	}
	sort.Strings(summary.ProtectedResources)

	return summary, nil
}
