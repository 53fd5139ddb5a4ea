// Package awssts resolves the caller identity behind a profile.
package awssts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/thirukguru/aws-edge-audit/model"
)

// NewService creates a new STS service.
func NewService(awsconfig aws.Config) Service {
	return &service{client: sts.NewFromConfig(awsconfig)}
}

func newWithClient(client STSClientAPI) Service {
	return &service{client: client}
}

// GetAccountInfo calls GetCallerIdentity. On failure the returned record
// still carries the error text so it can be written into scan output.
func (s *service) GetAccountInfo(ctx context.Context) (model.AccountInfo, error) {
	out, err := s.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return model.AccountInfo{Error: err.Error()}, fmt.Errorf("get caller identity: %w", err)
	}

	return model.AccountInfo{
		AccountID: aws.ToString(out.Account),
		ARN:       aws.ToString(out.Arn),
		UserID:    aws.ToString(out.UserId),
	}, nil
}
