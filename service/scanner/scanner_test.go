package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/elb"
	"github.com/thirukguru/aws-edge-audit/service/orchestrator"
	"github.com/thirukguru/aws-edge-audit/service/route53"
	"github.com/thirukguru/aws-edge-audit/service/shield"
	awssts "github.com/thirukguru/aws-edge-audit/service/sts"
	"github.com/thirukguru/aws-edge-audit/service/waf"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

type fakeFactory struct {
	mu           sync.Mutex
	configErr    map[string]error
	failRegion   string
	wafScopes    []string
	route53Zones []model.HostedZone
}

func (f *fakeFactory) Config(_ context.Context, profile string) (aws.Config, error) {
	if err := f.configErr[profile]; err != nil {
		return aws.Config{}, err
	}
	return aws.Config{Region: "us-east-1", AppID: profile}, nil
}

func (f *fakeFactory) STS(cfg aws.Config) awssts.Service {
	return fakeSTS{profile: cfg.AppID}
}

func (f *fakeFactory) WAF(cfg aws.Config) waf.Service {
	return fakeWAF{factory: f, region: cfg.Region}
}

func (f *fakeFactory) Shield(aws.Config) shield.Service {
	return fakeShield{}
}

func (f *fakeFactory) ELB(cfg aws.Config) elb.Service {
	return fakeELB{factory: f, region: cfg.Region}
}

func (f *fakeFactory) Route53(aws.Config) route53.Service {
	return fakeRoute53{zones: f.route53Zones}
}

type fakeSTS struct{ profile string }

func (s fakeSTS) GetAccountInfo(context.Context) (model.AccountInfo, error) {
	if s.profile == "nosts" {
		return model.AccountInfo{Error: "ExpiredToken"}, errors.New("ExpiredToken")
	}
	return model.AccountInfo{AccountID: "123456789012"}, nil
}

type fakeWAF struct {
	factory *fakeFactory
	region  string
}

func (w fakeWAF) ListWebACLs(_ context.Context, scope string) ([]model.WebACL, error) {
	w.factory.mu.Lock()
	w.factory.wafScopes = append(w.factory.wafScopes, w.region+"/"+scope)
	w.factory.mu.Unlock()

	if w.region == w.factory.failRegion {
		return nil, &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "denied"}
	}
	if w.region != "us-east-1" {
		return nil, nil
	}
	return []model.WebACL{{Summary: model.WebACLSummary{Name: scope + "-acl"}}}, nil
}

type fakeShield struct{}

func (fakeShield) GetProtectionSummary(context.Context) (*model.ShieldProtection, error) {
	return &model.ShieldProtection{SubscriptionState: "INACTIVE"}, nil
}

type fakeELB struct {
	factory *fakeFactory
	region  string
}

func (e fakeELB) ScanLoadBalancers(_ context.Context, mode string, _ elb.Filter) ([]model.LoadBalancer, error) {
	if e.region == e.factory.failRegion {
		return nil, errors.New("RequestLimitExceeded")
	}
	if e.region != "eu-west-1" {
		return nil, nil
	}
	return []model.LoadBalancer{{BasicInfo: model.LoadBalancerInfo{LoadBalancerName: "web-" + mode}}}, nil
}

type fakeRoute53 struct{ zones []model.HostedZone }

func (r fakeRoute53) ScanHostedZones(context.Context, route53.Filter) ([]model.HostedZone, error) {
	return r.zones, nil
}

func TestScanRequiresProfiles(t *testing.T) {
	_, err := New(&fakeFactory{}, Options{}).ScanWAF(context.Background())
	require.ErrorIs(t, err, ErrNoProfiles)
}

func TestScanWAFDropsEmptyRegionsAndRecordsFailures(t *testing.T) {
	factory := &fakeFactory{failRegion: "eu-west-1"}
	sc := New(factory, Options{
		Profiles: []string{"prod"},
		Regions:  []string{"us-east-1", "us-west-2", "eu-west-1"},
		Now:      fixedNow,
	})

	results, err := sc.ScanWAF(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "prod", res.Profile)
	assert.Equal(t, "2025-03-01T12:00:00Z", res.ScanTime)
	assert.Equal(t, "123456789012", res.AccountInfo.AccountID)

	require.Len(t, res.Regions, 1, "regions without ACLs are omitted")
	assert.Equal(t, "us-east-1", res.Regions[0].Region)
	assert.Len(t, res.Regions[0].RegionalACLs, 1)
	assert.Len(t, res.Regions[0].CloudFrontACLs, 1)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, model.ScanError{Region: "eu-west-1", Service: "wafv2", Error: res.Errors[0].Error}, res.Errors[0])
	assert.Contains(t, res.Errors[0].Error, "AccessDeniedException")

	require.NotNil(t, res.Shield)
	assert.Equal(t, "INACTIVE", res.Shield.SubscriptionState)

	assert.ElementsMatch(t, []string{
		"us-east-1/REGIONAL", "us-east-1/CLOUDFRONT", "us-west-2/REGIONAL", "eu-west-1/REGIONAL",
	}, factory.wafScopes, "CloudFront scope is only queried in us-east-1")
}

func TestScanALBProfileFailureDoesNotAbortOthers(t *testing.T) {
	factory := &fakeFactory{
		configErr:  map[string]error{"broken": errors.New("sso session expired")},
		failRegion: "us-west-2",
	}
	sc := New(factory, Options{
		Profiles:    []string{"broken", "prod", "nosts"},
		Regions:     []string{"eu-west-1", "us-west-2"},
		Mode:        model.ScanModeQuick,
		MaxParallel: 2,
		Now:         fixedNow,
	})

	results, err := sc.ScanALB(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	broken := results[0]
	assert.Empty(t, broken.Regions)
	assert.Equal(t, "sso session expired", broken.AccountInfo.Error)
	require.Len(t, broken.Errors, 1)
	assert.Equal(t, "config", broken.Errors[0].Service)

	prod := results[1]
	assert.Equal(t, model.ScanModeQuick, prod.ScanMode)
	require.Len(t, prod.Regions, 1)
	assert.Equal(t, "web-quick", prod.Regions[0].LoadBalancers[0].BasicInfo.LoadBalancerName)
	require.Len(t, prod.Errors, 1)
	assert.Equal(t, "us-west-2", prod.Errors[0].Region)

	nosts := results[2]
	assert.Equal(t, "ExpiredToken", nosts.AccountInfo.Error)
	assert.Equal(t, "unknown", nosts.AccountIDOrUnknown())
	assert.Len(t, nosts.Regions, 1, "a failed identity lookup does not stop the scan")
}

func TestScanRoute53Summary(t *testing.T) {
	factory := &fakeFactory{route53Zones: []model.HostedZone{
		{BasicInfo: model.HostedZoneInfo{Name: "example.com."}, RecordCount: 4},
		{BasicInfo: model.HostedZoneInfo{Name: "example.org."}, RecordCount: 2},
	}}
	results, err := New(factory, Options{Profiles: []string{"prod"}}).ScanRoute53(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.Route53Summary{TotalPublicZones: 2, TotalRecords: 6}, results[0].Summary)
}

func TestScanCancelledRecordsInterruptedSlots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(&fakeFactory{}, Options{Profiles: []string{"prod"}}).ScanALB(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Errors, 1)
	assert.Equal(t, errInterrupted, results[0].Errors[0].Error)
}

func TestScanSlotCancelledBeforeRunningIsRecorded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New(&fakeFactory{}, Options{Profiles: []string{"prod"}})
	pool := orchestrator.NewPool(ctx, 1)

	ready := make(chan struct{})
	var first, second slotErrors
	s.run(pool, "prod", "us-east-1", "alb", &first, func(context.Context) error {
		<-ready
		time.Sleep(20 * time.Millisecond)
		cancel()
		return nil
	})

	called := false
	close(ready)
	s.run(pool, "prod", "eu-west-1", "alb", &second, func(context.Context) error {
		called = true
		return nil
	})
	pool.Wait()

	assert.Empty(t, first)
	assert.False(t, called)
	require.Len(t, second, 1)
	assert.Equal(t, model.ScanError{Region: "eu-west-1", Service: "alb", Error: errInterrupted}, second[0])
}

type fakeRegions struct{}

func (fakeRegions) DescribeRegions(context.Context, *ec2.DescribeRegionsInput, ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	return &ec2.DescribeRegionsOutput{Regions: []ec2types.Region{
		{RegionName: aws.String("us-west-2")},
		{RegionName: aws.String("us-east-1")},
		{RegionName: aws.String(" ")},
	}}, nil
}

func TestDiscoverRegions(t *testing.T) {
	got, err := DiscoverRegions(context.Background(), fakeRegions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"us-east-1", "us-west-2"}, got)
}

func TestDedupeRegions(t *testing.T) {
	in := []string{"us-east-1", " us-east-1 ", "", "us-west-2", "us-west-2"}
	got := DedupeRegions(in)
	if len(got) != 2 || got[0] != "us-east-1" || got[1] != "us-west-2" {
		t.Fatalf("unexpected dedupe result: %v", got)
	}
}

func TestIsAccessDenied(t *testing.T) {
	assert.True(t, IsAccessDenied(&smithy.GenericAPIError{Code: "AccessDeniedException"}))
	assert.True(t, IsAccessDenied(&smithy.GenericAPIError{Code: "UnauthorizedOperation"}))
	assert.False(t, IsAccessDenied(&smithy.GenericAPIError{Code: "Throttling"}))
	assert.False(t, IsAccessDenied(errors.New("AccessDenied")))
	assert.Equal(t, "Throttling", ErrorCode(&smithy.GenericAPIError{Code: "Throttling"}))
}
