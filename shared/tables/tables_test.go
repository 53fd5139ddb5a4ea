package tables

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/analyzer"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := Out
	Out = &buf
	t.Cleanup(func() { Out = orig })
	return &buf
}

func TestDrawWarningsTruncates(t *testing.T) {
	buf := capture(t)

	var warnings []model.Warning
	for i := range 8 {
		warnings = append(warnings, model.Warning{Type: model.WarningMissingALB, Message: fmt.Sprintf("warning %d", i)})
	}
	DrawWarnings(warnings, MaxSummaryWarnings)

	out := buf.String()
	assert.Contains(t, out, "warning 4")
	assert.NotContains(t, out, "warning 5")
	assert.Contains(t, out, "... and 3 more")
}

func TestDrawWarningsExactLimit(t *testing.T) {
	buf := capture(t)

	DrawWarnings([]model.Warning{{Message: "a"}, {Message: "b"}}, 2)
	assert.NotContains(t, buf.String(), "more")
}

func TestDrawAuditSummary(t *testing.T) {
	buf := capture(t)

	DrawAuditSummary(model.AuditReport{
		Vulnerabilities: []model.Finding{
			{Severity: model.SeverityHigh, Type: model.FindingUnprotectedALB, Resource: "web", AccountID: "111111111111"},
			{Severity: model.SeverityLow, Type: model.FindingUnusedWAF, Resource: "old-acl"},
		},
		Statistics: model.Statistics{TotalALBs: 2, ALBsWithWAF: 1, ALBsWithoutWAF: 1, WAFCoverageRate: 50},
	})

	out := buf.String()
	assert.Contains(t, out, "1 High")
	assert.Contains(t, out, "1 Low")
	assert.NotContains(t, out, "Medium")
	assert.Contains(t, out, model.FindingUnprotectedALB)
	assert.Contains(t, out, "50.0%")
}

func TestDrawCounts(t *testing.T) {
	buf := capture(t)

	DrawCounts("Types", "Type", []analyzer.Count{{Key: "A", Count: 3}, {Key: "CNAME", Count: 1}})
	out := buf.String()
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "25.0%")

	buf.Reset()
	DrawCounts("Empty", "Type", nil)
	assert.True(t, strings.Contains(buf.String(), "(none)"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
