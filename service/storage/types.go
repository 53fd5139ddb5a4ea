package storage

import (
	"context"
	"time"
)

// Finding lifecycle states.
const (
	StatusOpen     = "OPEN"
	StatusResolved = "RESOLVED"
)

// Service defines persistence and trend query operations.
type Service interface {
	SaveAudit(ctx context.Context, input SaveAuditInput) (int64, error)
	GetTrends(ctx context.Context, accountID string, days int) ([]TrendPoint, error)
	GetRecentAudits(ctx context.Context, accountID string, limit int) ([]AuditSummary, error)
	GetAuditComparison(ctx context.Context, auditID1, auditID2 int64) (*AuditComparison, error)
	GetFindingLifecycle(ctx context.Context, findingHash string) ([]FindingLifecycleEvent, error)
	ListFindings(ctx context.Context, auditID int64) ([]FindingSnapshot, error)
	Vacuum(ctx context.Context) error
	Reindex(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SaveAuditInput is the payload saved for one account of a correlation run.
type SaveAuditInput struct {
	AuditUUID       string
	RunUUID         string
	AccountID       string
	DurationSec     int64
	Version         string
	SourceFiles     string
	HighCount       int
	MediumCount     int
	LowCount        int
	WarningCount    int
	TotalALBs       int
	ALBsWithWAF     int
	WAFCoverageRate float64
	TotalWAFs       int
	TotalDNSRecords int
	Findings        []Finding
}

// Finding is a normalized audit finding used for storage and lifecycle tracking.
type Finding struct {
	Hash        string
	Type        string
	Severity    string
	Subject     string
	Resource    string
	ResourceARN string
	Region      string
	Target      string
	Zone        string
	Description string
}

// TrendPoint is the last audit of an account on a given day.
type TrendPoint struct {
	AccountID       string  `json:"account_id"`
	Date            string  `json:"date"`
	Total           int     `json:"total"`
	High            int     `json:"high"`
	Medium          int     `json:"medium"`
	Low             int     `json:"low"`
	TotalALBs       int     `json:"total_albs"`
	ALBsWithWAF     int     `json:"albs_with_waf"`
	WAFCoverageRate float64 `json:"waf_coverage_rate"`
	Score           int     `json:"score"`
}

// AuditSummary provides compact audit metadata.
type AuditSummary struct {
	AuditID         int64     `json:"audit_id"`
	AuditUUID       string    `json:"audit_uuid"`
	RunUUID         string    `json:"run_uuid"`
	AccountID       string    `json:"account_id"`
	AuditTimestamp  time.Time `json:"audit_timestamp"`
	TotalFindings   int       `json:"total_findings"`
	HighCount       int       `json:"high_count"`
	MediumCount     int       `json:"medium_count"`
	LowCount        int       `json:"low_count"`
	WarningCount    int       `json:"warning_count"`
	WAFCoverageRate float64   `json:"waf_coverage_rate"`
	Version         string    `json:"version"`
}

// AuditComparison holds diff details between two audits.
type AuditComparison struct {
	AuditID1       int64
	AuditID2       int64
	NewFindings    int
	Resolved       int
	Persistent     int
	NewHashes      []string
	ResolvedHashes []string
}

// FindingLifecycleEvent represents finding status at a given audit timestamp.
type FindingLifecycleEvent struct {
	AuditID        int64
	AuditTimestamp time.Time
	Status         string
	Severity       string
	Type           string
	Resource       string
}

// FindingSnapshot is an audit-time finding view.
type FindingSnapshot struct {
	FindingHash string `json:"finding_hash"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Resource    string `json:"resource"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
