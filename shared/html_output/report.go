// Package htmloutput renders the correlation report as a self-contained HTML page.
package htmloutput

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/auditor"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
	"github.com/thirukguru/aws-edge-audit/service/storage"
)

// ReportData contains all data needed for HTML report generation.
type ReportData struct {
	Report      model.AuditReport
	GeneratedAt string
	Version     string
	Score       int
	High        int
	Medium      int
	Low         int
	Colors      Colors
}

// Colors are the graph legend colors.
type Colors struct {
	DNS         string
	Protected   string
	Exposed     string
	Unprotected string
	WAF         string
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"lower": strings.ToLower,
}).Parse(htmlTemplate))

// NewReportData derives the summary cards from report.
func NewReportData(report model.AuditReport, version string) ReportData {
	counts := auditor.CountBySeverity(report.Vulnerabilities)
	generatedAt := report.Timestamp
	if t, err := time.Parse(time.RFC3339, report.Timestamp); err == nil {
		generatedAt = t.Local().Format("2006-01-02 15:04:05 MST")
	}

	return ReportData{
		Report:      report,
		GeneratedAt: generatedAt,
		Version:     version,
		Score:       storage.PostureScore(counts[model.SeverityHigh], counts[model.SeverityMedium], counts[model.SeverityLow]),
		High:        counts[model.SeverityHigh],
		Medium:      counts[model.SeverityMedium],
		Low:         counts[model.SeverityLow],
		Colors: Colors{
			DNS:         correlator.ColorDNS,
			Protected:   correlator.ColorProtected,
			Exposed:     correlator.ColorExposed,
			Unprotected: correlator.ColorUnprotected,
			WAF:         correlator.ColorWAF,
		},
	}
}

// GenerateHTMLReport renders the report page.
func GenerateHTMLReport(data ReportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
