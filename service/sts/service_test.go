package awssts

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSTS struct {
	out *sts.GetCallerIdentityOutput
	err error
}

func (m mockSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return m.out, m.err
}

func TestGetAccountInfo(t *testing.T) {
	svc := newWithClient(mockSTS{out: &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/audit"),
		UserId:  aws.String("AIDAEXAMPLE"),
	}})

	info, err := svc.GetAccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123456789012", info.AccountID)
	assert.Equal(t, "arn:aws:iam::123456789012:user/audit", info.ARN)
	assert.Equal(t, "AIDAEXAMPLE", info.UserID)
	assert.Empty(t, info.Error)
}

func TestGetAccountInfoError(t *testing.T) {
	svc := newWithClient(mockSTS{err: errors.New("ExpiredToken")})

	info, err := svc.GetAccountInfo(context.Background())
	require.Error(t, err)
	assert.Equal(t, "ExpiredToken", info.Error)
	assert.Empty(t, info.AccountID)
}
