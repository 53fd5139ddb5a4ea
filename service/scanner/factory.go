package scanner

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/thirukguru/aws-edge-audit/service/aws_config"
	"github.com/thirukguru/aws-edge-audit/service/elb"
	"github.com/thirukguru/aws-edge-audit/service/route53"
	"github.com/thirukguru/aws-edge-audit/service/shield"
	awssts "github.com/thirukguru/aws-edge-audit/service/sts"
	"github.com/thirukguru/aws-edge-audit/service/waf"
)

// Factory builds AWS configs and per-service fetchers. Tests substitute fakes.
type Factory interface {
	Config(ctx context.Context, profile string) (aws.Config, error)
	STS(cfg aws.Config) awssts.Service
	WAF(cfg aws.Config) waf.Service
	Shield(cfg aws.Config) shield.Service
	ELB(cfg aws.Config) elb.Service
	Route53(cfg aws.Config) route53.Service
}

type awsFactory struct {
	cfgService awsconfig.Service
}

// NewAWSFactory returns a Factory backed by the real SDK clients.
func NewAWSFactory() Factory {
	return &awsFactory{cfgService: awsconfig.NewService()}
}

func (f *awsFactory) Config(ctx context.Context, profile string) (aws.Config, error) {
	return f.cfgService.GetAWSCfg(ctx, "", profile)
}

func (f *awsFactory) STS(cfg aws.Config) awssts.Service {
	return awssts.NewService(cfg)
}

func (f *awsFactory) WAF(cfg aws.Config) waf.Service {
	return waf.NewService(cfg)
}

func (f *awsFactory) Shield(cfg aws.Config) shield.Service {
	return shield.NewService(cfg)
}

func (f *awsFactory) ELB(cfg aws.Config) elb.Service {
	return elb.NewService(cfg)
}

func (f *awsFactory) Route53(cfg aws.Config) route53.Service {
	return route53.NewService(cfg)
}
