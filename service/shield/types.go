package shield

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/shield"
	"github.com/thirukguru/aws-edge-audit/model"
)

// ShieldClientAPI is the subset of the Shield client used by the service.
type ShieldClientAPI interface {
	GetSubscriptionState(ctx context.Context, params *shield.GetSubscriptionStateInput, optFns ...func(*shield.Options)) (*shield.GetSubscriptionStateOutput, error)
	ListProtections(ctx context.Context, params *shield.ListProtectionsInput, optFns ...func(*shield.Options)) (*shield.ListProtectionsOutput, error)
}

type service struct {
	client ShieldClientAPI
}

// Service is the interface for Shield protection lookups.
type Service interface {
	GetProtectionSummary(ctx context.Context) (*model.ShieldProtection, error)
}
