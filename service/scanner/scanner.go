// Package scanner fans WAF, ALB and Route53 fetches out over
// profiles and regions and assembles the per-account scan documents.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
	"github.com/thirukguru/aws-edge-audit/model"
	awsconfig "github.com/thirukguru/aws-edge-audit/service/aws_config"
	"github.com/thirukguru/aws-edge-audit/service/elb"
	"github.com/thirukguru/aws-edge-audit/service/orchestrator"
	"github.com/thirukguru/aws-edge-audit/service/route53"
)

// GlobalRegion hosts CloudFront-scoped WAF ACLs and the Shield API.
const GlobalRegion = "us-east-1"

const errInterrupted = "scan interrupted"

// DefaultRegions are scanned when neither flags nor config name any.
var DefaultRegions = []string{
	"us-east-1",
	"us-west-2",
	"ap-northeast-1",
	"ap-southeast-1",
	"eu-west-1",
	"eu-central-1",
}

// Options controls a scan run.
type Options struct {
	Profiles      []string
	Regions       []string
	MaxParallel   int
	Mode          string
	ALBFilter     elb.Filter
	Route53Filter route53.Filter
	Now           func() time.Time
}

// Scanner runs the per-service scans.
type Scanner struct {
	factory Factory
	opts    Options
}

// New returns a Scanner. Missing options fall back to defaults.
func New(factory Factory, opts Options) *Scanner {
	if len(opts.Regions) == 0 {
		opts.Regions = DefaultRegions
	}
	if opts.MaxParallel == 0 {
		opts.MaxParallel = orchestrator.DefaultMaxParallel
	}
	if opts.Mode == "" {
		opts.Mode = model.ScanModeStandard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scanner{factory: factory, opts: opts}
}

type account struct {
	envelope model.ScanEnvelope
	cfg      aws.Config
	ready    bool
}

// slotErrors collects failures of one result slot. Each slot is written by a
// single task, so no locking is needed.
type slotErrors []model.ScanError

// prepare loads config and caller identity for every profile in parallel.
func (s *Scanner) prepare(ctx context.Context) ([]account, error) {
	if len(s.opts.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	accounts := make([]account, len(s.opts.Profiles))
	pool := orchestrator.NewPool(ctx, s.opts.MaxParallel)

	for i, profile := range s.opts.Profiles {
		acct := &accounts[i]
		acct.envelope = model.ScanEnvelope{
			Profile:  profile,
			ScanTime: s.opts.Now().UTC().Format(time.RFC3339),
		}

		started := pool.Go(profile+"/config", func(ctx context.Context) {
			logger := zerolog.Ctx(ctx).With().Str("profile", profile).Logger()
			if ctx.Err() != nil {
				acct.envelope.Errors = append(acct.envelope.Errors, model.ScanError{Service: "config", Error: errInterrupted})
				return
			}

			cfg, err := s.factory.Config(ctx, profile)
			if err != nil {
				acct.envelope.AccountInfo.Error = err.Error()
				acct.envelope.Errors = append(acct.envelope.Errors, model.ScanError{Service: "config", Error: err.Error()})
				logger.Error().Err(err).Msg("failed to load AWS config")
				return
			}
			acct.cfg = cfg
			acct.ready = true

			info, err := s.factory.STS(cfg).GetAccountInfo(ctx)
			acct.envelope.AccountInfo = info
			if err != nil {
				logger.Warn().Err(err).Msg("failed to resolve caller identity")
				return
			}
			logger.Info().Str("account_id", info.AccountID).Msg("profile ready")
		})
		if !started {
			acct.envelope.Errors = append(acct.envelope.Errors, model.ScanError{Service: "config", Error: errInterrupted})
		}
	}
	pool.Wait()

	return accounts, nil
}

// run schedules fn as the task for one slot and records its failure in errs.
func (s *Scanner) run(pool *orchestrator.Pool, profile, region, service string, errs *slotErrors, fn func(ctx context.Context) error) {
	started := pool.Go(profile+"/"+region+"/"+service, func(ctx context.Context) {
		if ctx.Err() != nil {
			*errs = append(*errs, model.ScanError{Region: region, Service: service, Error: errInterrupted})
			return
		}
		start := time.Now()
		err := fn(ctx)
		if err == nil {
			return
		}

		*errs = append(*errs, model.ScanError{Region: region, Service: service, Error: err.Error()})

		logger := zerolog.Ctx(ctx)
		evt := logger.Error()
		if IsAccessDenied(err) {
			evt = logger.Warn()
		}
		evt.Err(err).
			Str("profile", profile).
			Str("region", region).
			Str("service", service).
			Dur("duration", time.Since(start)).
			Msg("scan slot failed")
	})
	if !started {
		*errs = append(*errs, model.ScanError{Region: region, Service: service, Error: errInterrupted})
	}
}

type wafSlot struct {
	region model.WAFRegion
	errs   slotErrors
}

// ScanWAF lists regional web ACLs in every region, CloudFront web ACLs in
// us-east-1, and the Shield Advanced state of each account.
func (s *Scanner) ScanWAF(ctx context.Context) ([]model.WAFAccountScan, error) {
	accounts, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	slots := make([][]wafSlot, len(accounts))
	shields := make([]*model.ShieldProtection, len(accounts))
	shieldErrs := make([]slotErrors, len(accounts))
	pool := orchestrator.NewPool(ctx, s.opts.MaxParallel)

	for i := range accounts {
		acct := &accounts[i]
		if !acct.ready {
			continue
		}
		profile := acct.envelope.Profile
		slots[i] = make([]wafSlot, len(s.opts.Regions))

		for j, region := range s.opts.Regions {
			slot := &slots[i][j]
			slot.region = model.WAFRegion{Region: region, CloudFrontACLs: []model.WebACL{}, RegionalACLs: []model.WebACL{}}
			cfg := awsconfig.ForRegion(acct.cfg, region)

			s.run(pool, profile, region, "wafv2", &slot.errs, func(ctx context.Context) error {
				svc := s.factory.WAF(cfg)
				acls, err := svc.ListWebACLs(ctx, model.ScopeRegional)
				if err != nil {
					return err
				}
				slot.region.RegionalACLs = acls

				if region != GlobalRegion {
					return nil
				}
				cfACLs, err := svc.ListWebACLs(ctx, model.ScopeCloudFront)
				if err != nil {
					return fmt.Errorf("cloudfront scope: %w", err)
				}
				slot.region.CloudFrontACLs = cfACLs
				return nil
			})
		}

		shieldCfg := awsconfig.ForRegion(acct.cfg, GlobalRegion)
		s.run(pool, profile, "", "shield", &shieldErrs[i], func(ctx context.Context) error {
			summary, err := s.factory.Shield(shieldCfg).GetProtectionSummary(ctx)
			shields[i] = summary
			return err
		})
	}
	pool.Wait()

	results := make([]model.WAFAccountScan, len(accounts))
	for i, acct := range accounts {
		result := model.WAFAccountScan{ScanEnvelope: acct.envelope, Regions: []model.WAFRegion{}, Shield: shields[i]}
		for _, slot := range slots[i] {
			result.Errors = append(result.Errors, slot.errs...)
			if len(slot.region.RegionalACLs)+len(slot.region.CloudFrontACLs) > 0 {
				result.Regions = append(result.Regions, slot.region)
			}
		}
		result.Errors = append(result.Errors, shieldErrs[i]...)
		results[i] = result
	}
	return results, nil
}

type albSlot struct {
	region model.ALBRegion
	errs   slotErrors
}

// ScanALB describes load balancers in every region at the configured scan mode.
func (s *Scanner) ScanALB(ctx context.Context) ([]model.ALBAccountScan, error) {
	accounts, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	slots := make([][]albSlot, len(accounts))
	pool := orchestrator.NewPool(ctx, s.opts.MaxParallel)

	for i := range accounts {
		acct := &accounts[i]
		if !acct.ready {
			continue
		}
		slots[i] = make([]albSlot, len(s.opts.Regions))

		for j, region := range s.opts.Regions {
			slot := &slots[i][j]
			slot.region.Region = region
			cfg := awsconfig.ForRegion(acct.cfg, region)

			s.run(pool, acct.envelope.Profile, region, "elbv2", &slot.errs, func(ctx context.Context) error {
				lbs, err := s.factory.ELB(cfg).ScanLoadBalancers(ctx, s.opts.Mode, s.opts.ALBFilter)
				if err != nil {
					return err
				}
				slot.region.LoadBalancers = lbs
				return nil
			})
		}
	}
	pool.Wait()

	results := make([]model.ALBAccountScan, len(accounts))
	for i, acct := range accounts {
		result := model.ALBAccountScan{ScanEnvelope: acct.envelope, ScanMode: s.opts.Mode, Regions: []model.ALBRegion{}}
		for _, slot := range slots[i] {
			result.Errors = append(result.Errors, slot.errs...)
			if len(slot.region.LoadBalancers) > 0 {
				result.Regions = append(result.Regions, slot.region)
			}
		}
		results[i] = result
	}
	return results, nil
}

// ScanRoute53 lists public hosted zones per account. Route53 is global, so
// there is one slot per profile.
func (s *Scanner) ScanRoute53(ctx context.Context) ([]model.Route53AccountScan, error) {
	accounts, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	zones := make([][]model.HostedZone, len(accounts))
	errs := make([]slotErrors, len(accounts))
	pool := orchestrator.NewPool(ctx, s.opts.MaxParallel)

	for i := range accounts {
		acct := &accounts[i]
		if !acct.ready {
			continue
		}
		cfg := acct.cfg
		s.run(pool, acct.envelope.Profile, "", "route53", &errs[i], func(ctx context.Context) error {
			found, err := s.factory.Route53(cfg).ScanHostedZones(ctx, s.opts.Route53Filter)
			if err != nil {
				return err
			}
			zones[i] = found
			return nil
		})
	}
	pool.Wait()

	results := make([]model.Route53AccountScan, len(accounts))
	for i, acct := range accounts {
		result := model.Route53AccountScan{ScanEnvelope: acct.envelope, HostedZones: zones[i]}
		if result.HostedZones == nil {
			result.HostedZones = []model.HostedZone{}
		}
		result.Errors = append(result.Errors, errs[i]...)
		result.Summary = route53.Summarize(result.HostedZones)
		results[i] = result
	}
	return results, nil
}
