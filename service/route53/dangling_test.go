package route53

import (
	"testing"

	"github.com/thirukguru/aws-edge-audit/model"
)

func TestDanglingRecords(t *testing.T) {
	zones := []model.HostedZone{{
		BasicInfo: model.HostedZoneInfo{Name: "example.com."},
		Records: []model.DNSRecord{
			{Name: "assets.example.com.", Type: "CNAME", ResourceRecords: []model.ResourceValue{{Value: "old-bucket.s3.amazonaws.com"}}},
			{Name: "docs.example.com.", Type: "CNAME", ResourceRecords: []model.ResourceValue{{Value: "Org.GitHub.io"}}},
			{Name: "www.example.com.", Type: "CNAME", ResourceRecords: []model.ResourceValue{{Value: "app.example.com"}}},
			{Name: "txt.example.com.", Type: "TXT", ResourceRecords: []model.ResourceValue{{Value: "x.cloudfront.net"}}},
		},
	}}

	got := DanglingRecords(zones)
	if len(got) != 2 {
		t.Fatalf("expected 2 dangling candidates, got %d: %+v", len(got), got)
	}
	if got[0].RecordName != "assets.example.com." || got[1].RecordName != "docs.example.com." {
		t.Fatalf("unexpected records: %+v", got)
	}
	if got[0].Severity != model.SeverityHigh {
		t.Fatalf("expected HIGH severity, got %s", got[0].Severity)
	}
}
