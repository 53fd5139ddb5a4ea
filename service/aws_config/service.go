// Package awsconfig loads AWS SDK configuration for named profiles.
package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const (
	// DefaultMaxAttempts bounds SDK retries on throttling and transient errors.
	DefaultMaxAttempts = 5
	fallbackRegion     = "us-east-1"
)

// loadSharedConfigProfile is a variable to allow mocking in tests.
var loadSharedConfigProfile = config.LoadSharedConfigProfile

// NewService creates a new AWS configuration service.
func NewService() Service {
	return &service{maxAttempts: DefaultMaxAttempts}
}

func (s *service) GetAWSCfg(ctx context.Context, region, profile string) (aws.Config, error) {
	// Assume-role profiles with mfa_serial are resolved by hand: the default
	// loader signs with the wrong source credentials for them.
	if profile != "" {
		sharedCfg, err := loadSharedConfigProfile(ctx, profile)
		if err == nil && sharedCfg.RoleARN != "" && sharedCfg.MFASerial != "" {
			return s.loadConfigWithManualMFA(ctx, region, profile)
		}
	}

	opts := s.baseOptions()
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	opts = append(opts, config.WithAssumeRoleCredentialOptions(func(options *stscreds.AssumeRoleOptions) {
		options.TokenProvider = stscreds.StdinTokenProvider
	}))

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS config for profile %q: %w", profile, err)
	}
	if cfg.Region == "" {
		cfg.Region = fallbackRegion
	}

	// Resolve credentials now so SSO and MFA prompts happen before any spinner starts.
	if cfg.Credentials != nil {
		if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
			return aws.Config{}, fmt.Errorf("failed to retrieve credentials for profile %q: %w", profile, err)
		}
	}

	return cfg, nil
}

func (s *service) baseOptions() []func(*config.LoadOptions) error {
	maxAttempts := s.maxAttempts
	return []func(*config.LoadOptions) error{
		config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = maxAttempts
			})
		}),
	}
}

func (s *service) loadConfigWithManualMFA(ctx context.Context, region, profile string) (aws.Config, error) {
	sharedCfg, err := loadSharedConfigProfile(ctx, profile)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load shared config profile: %w", err)
	}
	if sharedCfg.RoleARN == "" || sharedCfg.MFASerial == "" {
		return aws.Config{}, fmt.Errorf("profile %s missing role_arn or mfa_serial", profile)
	}

	sourceProfile := sharedCfg.SourceProfileName
	if sourceProfile == "" {
		sourceProfile = "default"
	}

	targetRegion := region
	if targetRegion == "" {
		targetRegion = sharedCfg.Region
	}
	stsRegion := targetRegion
	if stsRegion == "" {
		stsRegion = fallbackRegion
	}

	baseOpts := append(s.baseOptions(),
		config.WithSharedConfigProfile(sourceProfile),
		config.WithRegion(stsRegion),
	)
	baseCfg, err := config.LoadDefaultConfig(ctx, baseOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load source profile config: %w", err)
	}

	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(baseCfg), sharedCfg.RoleARN, func(o *stscreds.AssumeRoleOptions) {
		o.SerialNumber = aws.String(sharedCfg.MFASerial)
		o.TokenProvider = stscreds.StdinTokenProvider
	})

	finalOpts := append(s.baseOptions(), config.WithCredentialsProvider(aws.NewCredentialsCache(provider)))
	if targetRegion != "" {
		finalOpts = append(finalOpts, config.WithRegion(targetRegion))
	}

	finalCfg, err := config.LoadDefaultConfig(ctx, finalOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load final config with mfa: %w", err)
	}
	if finalCfg.Region == "" {
		finalCfg.Region = fallbackRegion
	}

	if finalCfg.Credentials != nil {
		if _, err := finalCfg.Credentials.Retrieve(ctx); err != nil {
			return aws.Config{}, fmt.Errorf("failed to retrieve credentials (MFA might have failed): %w", err)
		}
	}

	return finalCfg, nil
}

// ForRegion returns a copy of cfg bound to region, sharing the cached credentials.
func ForRegion(cfg aws.Config, region string) aws.Config {
	regional := cfg.Copy()
	if region != "" {
		regional.Region = region
	}
	return regional
}
