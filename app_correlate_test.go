package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
	jsonoutput "github.com/thirukguru/aws-edge-audit/shared/json_output"
)

const (
	testAccount = "123456789012"
	testALBARN  = "arn:aws:elasticloadbalancing:us-east-1:123456789012:loadbalancer/app/web/50dc6c495c0c9188"
	testALBDNS  = "web-1234567890.us-east-1.elb.amazonaws.com"
	testWAFARN  = "arn:aws:wafv2:us-east-1:123456789012:regional/webacl/spare/a1b2c3"
)

// writeLatestDocuments writes one account with a public ALB lacking WAF, an
// unused web ACL and an alias record pointing at the ALB.
func writeLatestDocuments(t *testing.T, dir string) {
	t.Helper()
	env := model.ScanEnvelope{Profile: "prod", ScanTime: "2026-10-19T08:00:00Z", AccountInfo: model.AccountInfo{AccountID: testAccount}}

	wafDoc := []model.WAFAccountScan{{
		ScanEnvelope: env,
		Regions: []model.WAFRegion{{
			Region:         "us-east-1",
			CloudFrontACLs: []model.WebACL{},
			RegionalACLs: []model.WebACL{{
				Summary:             model.WebACLSummary{Name: "spare", ARN: testWAFARN},
				AssociatedResources: []model.ResourceRecord{},
			}},
		}},
	}}
	albDoc := []model.ALBAccountScan{{
		ScanEnvelope: env,
		ScanMode:     model.ScanModeStandard,
		Regions: []model.ALBRegion{{
			Region: "us-east-1",
			LoadBalancers: []model.LoadBalancer{{BasicInfo: model.LoadBalancerInfo{
				LoadBalancerName: "web",
				LoadBalancerArn:  testALBARN,
				DNSName:          testALBDNS,
				Type:             "application",
				Scheme:           model.SchemeInternetFacing,
			}}},
		}},
	}}
	route53Doc := []model.Route53AccountScan{{
		ScanEnvelope: env,
		HostedZones: []model.HostedZone{{
			BasicInfo: model.HostedZoneInfo{Id: "/hostedzone/Z1", Name: "example.com."},
			Records: []model.DNSRecord{{
				Name:        "www.example.com.",
				Type:        "A",
				AliasTarget: &model.AliasTarget{DNSName: "dualstack." + testALBDNS + ".", TargetType: model.TargetTypeELB},
			}},
		}},
	}}

	for prefix, doc := range map[string]any{
		correlator.PrefixWAF:     wafDoc,
		correlator.PrefixALB:     albDoc,
		correlator.PrefixRoute53: route53Doc,
	} {
		require.NoError(t, jsonoutput.WriteDocument(correlator.LatestPath(dir, prefix), doc))
	}
}

func TestCorrelateUseLatestWritesReportAndSidecar(t *testing.T) {
	dir := t.TempDir()
	writeLatestDocuments(t, dir)
	report := filepath.Join(dir, "out", "report.html")

	out, err := execute(t, "--no-banner", "correlate", "--use-latest", "--input-dir", dir, "-o", report, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "1 High")
	assert.Contains(t, out, "1 Low")
	assert.Contains(t, out, "Report written to "+report)

	html, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(html), "web")

	data, err := os.ReadFile(filepath.Join(dir, "out", "report.json"))
	require.NoError(t, err)
	var got model.AuditReport
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Vulnerabilities, 2)
	assert.Equal(t, model.FindingUnprotectedALB, got.Vulnerabilities[0].Type)
	assert.Equal(t, model.FindingUnusedWAF, got.Vulnerabilities[1].Type)
	assert.NotEmpty(t, got.NetworkGraph.Edges, "alias record should resolve to the ALB")
}

func TestCorrelateArguments(t *testing.T) {
	_, err := execute(t, "correlate", "waf.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--use-latest")

	_, err = execute(t, "correlate", "--use-latest", "a.json")
	require.Error(t, err)
}

func TestCorrelateMissingInputIsFatal(t *testing.T) {
	_, err := execute(t, "correlate", "--use-latest", "--input-dir", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, correlator.ErrMissingInput)
}

func TestCorrelateStoreThenHistory(t *testing.T) {
	dir := t.TempDir()
	writeLatestDocuments(t, dir)
	dbPath := filepath.Join(dir, "history.db")

	out, err := execute(t, "--no-banner", "correlate", "--use-latest", "--input-dir", dir,
		"-o", filepath.Join(dir, "report.html"), "--store", "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Audit stored")

	out, err = execute(t, "history", "list", "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, testAccount)

	out, err = execute(t, "history", "trends", "--db-path", dbPath, "--account-id", testAccount, "--compare")
	require.NoError(t, err)
	assert.Contains(t, out, "Not enough audits to compare")

	out, err = execute(t, "history", "show", "1", "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "web")
}

func TestAnalyzeViewsAndQuery(t *testing.T) {
	dir := t.TempDir()
	writeLatestDocuments(t, dir)
	albPath := correlator.LatestPath(dir, correlator.PrefixALB)

	out, err := execute(t, "analyze", "alb", albPath, "--no-waf", "--by-type")
	require.NoError(t, err)
	assert.Contains(t, out, "Load balancers without WAF")
	assert.Contains(t, out, "application")

	csvPath := filepath.Join(dir, "alb.csv")
	out, err = execute(t, "analyze", "alb", albPath, "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 item(s)")
	assert.FileExists(t, csvPath)

	out, err = execute(t, "analyze", "route53", correlator.LatestPath(dir, correlator.PrefixRoute53), "--search-value", "elb.amazonaws.com")
	require.NoError(t, err)
	assert.Contains(t, out, "www.example.com.")

	out, err = execute(t, "analyze", "waf", correlator.LatestPath(dir, correlator.PrefixWAF), "--query", ".[0].profile")
	require.NoError(t, err)
	assert.Equal(t, "\"prod\"\n", out)
}

func TestAnalyzeMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := execute(t, "analyze", "waf", path)
	assert.ErrorIs(t, err, correlator.ErrMalformedInput)
}
