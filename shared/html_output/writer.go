package htmloutput

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thirukguru/aws-edge-audit/model"
)

// DefaultReportPath returns security_audit_report_YYYYMMDD_HHMMSS.html.
func DefaultReportPath(now time.Time) string {
	return fmt.Sprintf("security_audit_report_%s.html", now.Format("20060102_150405"))
}

// SidecarPath returns the JSON path written next to an HTML report. It
// never returns htmlPath itself.
func SidecarPath(htmlPath string) string {
	ext := filepath.Ext(htmlPath)
	base := strings.TrimSuffix(htmlPath, ext)
	if strings.EqualFold(ext, ".json") {
		return base + ".data.json"
	}
	return base + ".json"
}

// WriteCorrelationReport renders the report and writes it to outputPath,
// creating the parent directory when needed.
func WriteCorrelationReport(outputPath string, report model.AuditReport, version string) error {
	html, err := GenerateHTMLReport(NewReportData(report, version))
	if err != nil {
		return fmt.Errorf("failed to generate HTML report: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}

// WriteJSONSidecar writes the report data as indented JSON.
func WriteJSONSidecar(path string, report model.AuditReport) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}
