package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.aws-edge-audit/history.db"

const severityOrder = `CASE severity WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 WHEN 'LOW' THEN 2 ELSE 3 END`

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := ResolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return newWithDB(db), nil
}

func newWithDB(db *sql.DB) *service {
	return &service{db: db, now: time.Now}
}

type service struct {
	db  *sql.DB
	now func() time.Time
}

// ResolvePath expands ~ and applies the default history location.
func ResolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

// PostureScore weighs open findings into a 0-100 score.
func PostureScore(high, medium, low int) int {
	score := 100 - high*8 - medium*3 - low
	if score < 0 {
		return 0
	}
	return score
}

func (s *service) SaveAudit(ctx context.Context, input SaveAuditInput) (id int64, err error) {
	if input.AccountID == "" {
		return 0, errors.New("account id is required")
	}
	if input.AuditUUID == "" {
		input.AuditUUID = uuid.NewString()
	}
	if input.RunUUID == "" {
		input.RunUUID = input.AuditUUID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO audits (
			audit_uuid, run_uuid, account_id, audit_duration, total_findings,
			high_count, medium_count, low_count, warning_count,
			total_albs, albs_with_waf, waf_coverage_rate, total_wafs, total_dns_records,
			cli_version, source_files
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, input.AuditUUID, input.RunUUID, input.AccountID, input.DurationSec, len(input.Findings),
		input.HighCount, input.MediumCount, input.LowCount, input.WarningCount,
		input.TotalALBs, input.ALBsWithWAF, input.WAFCoverageRate, input.TotalWAFs, input.TotalDNSRecords,
		input.Version, input.SourceFiles)
	if err != nil {
		return 0, fmt.Errorf("insert audit: %w", err)
	}
	auditID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err = s.saveFindingsTx(ctx, tx, auditID, input); err != nil {
		return 0, fmt.Errorf("save findings: %w", err)
	}
	if err = s.saveAuditMetricsTx(ctx, tx, auditID, input); err != nil {
		return 0, fmt.Errorf("save metrics: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit audit: %w", err)
	}
	return auditID, nil
}

// saveFindingsTx upserts the findings of this audit as OPEN and resolves every
// previously open finding of the account that was not seen again.
func (s *service) saveFindingsTx(ctx context.Context, tx *sql.Tx, auditID int64, input SaveAuditInput) error {
	seen := make([]string, 0, len(input.Findings))
	now := s.now().UTC().Format(time.RFC3339Nano)

	for _, f := range input.Findings {
		if f.Hash == "" {
			continue
		}
		seen = append(seen, f.Hash)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO findings (
				account_id, finding_hash, finding_type, severity, subject, resource, resource_arn,
				region, target, zone, description, first_seen, last_seen, status
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'OPEN')
			ON CONFLICT(account_id, finding_hash) DO UPDATE SET
				finding_type=excluded.finding_type,
				severity=excluded.severity,
				subject=excluded.subject,
				resource=excluded.resource,
				resource_arn=excluded.resource_arn,
				region=excluded.region,
				target=excluded.target,
				zone=excluded.zone,
				description=excluded.description,
				last_seen=excluded.last_seen,
				resolved_at=NULL,
				status='OPEN'
		`, input.AccountID, f.Hash, f.Type, f.Severity, f.Subject, f.Resource, f.ResourceARN,
			f.Region, f.Target, f.Zone, f.Description, now, now)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_findings(audit_id, finding_hash, severity, status, finding_type, resource, description)
			VALUES (?, ?, ?, 'OPEN', ?, ?, ?)
		`, auditID, f.Hash, f.Severity, f.Type, f.Resource, f.Description)
		if err != nil {
			return err
		}
	}

	query := `
		UPDATE findings SET status='RESOLVED', resolved_at=?, last_seen=?
		WHERE account_id=? AND status='OPEN'
	`
	args := []any{now, now, input.AccountID}
	if len(seen) > 0 {
		query += fmt.Sprintf(" AND finding_hash NOT IN (%s)", strings.TrimSuffix(strings.Repeat("?,", len(seen)), ","))
		for _, h := range seen {
			args = append(args, h)
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_findings(audit_id, finding_hash, severity, status, finding_type, resource, description)
		SELECT ?, finding_hash, severity, status, finding_type, resource, description
		FROM findings WHERE account_id=? AND status='RESOLVED' AND resolved_at=?
	`, auditID, input.AccountID, now)
	return err
}

func (s *service) saveAuditMetricsTx(ctx context.Context, tx *sql.Tx, auditID int64, input SaveAuditInput) error {
	metrics := []struct {
		name string
		val  float64
		unit string
	}{
		{"total_findings", float64(len(input.Findings)), "count"},
		{"posture_score", float64(PostureScore(input.HighCount, input.MediumCount, input.LowCount)), "score"},
		{"waf_coverage_rate", input.WAFCoverageRate, "percent"},
		{"high_count", float64(input.HighCount), "count"},
		{"medium_count", float64(input.MediumCount), "count"},
		{"low_count", float64(input.LowCount), "count"},
		{"warning_count", float64(input.WarningCount), "count"},
	}
	for _, m := range metrics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO metrics(audit_id, metric_name, metric_value, metric_unit)
			VALUES (?, ?, ?, ?)
		`, auditID, m.name, m.val, m.unit)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) GetTrends(ctx context.Context, accountID string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	inner := `
		SELECT MAX(audit_id) FROM audits
		WHERE audit_timestamp >= DATETIME('now', ?)
	`
	args := []any{fmt.Sprintf("-%d day", days)}
	if accountID != "" {
		inner += " AND account_id=?"
		args = append(args, accountID)
	}
	inner += " GROUP BY account_id, DATE(audit_timestamp)"

	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, DATE(audit_timestamp) AS day, total_findings, high_count, medium_count, low_count,
			total_albs, albs_with_waf, waf_coverage_rate
		FROM audits
		WHERE audit_id IN (`+inner+`)
		ORDER BY day ASC, account_id ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.AccountID, &p.Date, &p.Total, &p.High, &p.Medium, &p.Low,
			&p.TotalALBs, &p.ALBsWithWAF, &p.WAFCoverageRate); err != nil {
			return nil, err
		}
		p.Score = PostureScore(p.High, p.Medium, p.Low)
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *service) GetRecentAudits(ctx context.Context, accountID string, limit int) ([]AuditSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT audit_id, audit_uuid, run_uuid, account_id, audit_timestamp,
			total_findings, high_count, medium_count, low_count, warning_count, waf_coverage_rate, cli_version
		FROM audits
	`
	args := []any{}
	if accountID != "" {
		query += " WHERE account_id=?"
		args = append(args, accountID)
	}
	query += " ORDER BY audit_timestamp DESC, audit_id DESC LIMIT ?"
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	audits := []AuditSummary{}
	for rows.Next() {
		var a AuditSummary
		var version sql.NullString
		if err := rows.Scan(&a.AuditID, &a.AuditUUID, &a.RunUUID, &a.AccountID, &a.AuditTimestamp,
			&a.TotalFindings, &a.HighCount, &a.MediumCount, &a.LowCount, &a.WarningCount,
			&a.WAFCoverageRate, &version); err != nil {
			return nil, err
		}
		a.Version = version.String
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func (s *service) GetAuditComparison(ctx context.Context, auditID1, auditID2 int64) (*AuditComparison, error) {
	first, err := s.openHashesByAudit(ctx, auditID1)
	if err != nil {
		return nil, err
	}
	second, err := s.openHashesByAudit(ctx, auditID2)
	if err != nil {
		return nil, err
	}

	cmp := &AuditComparison{AuditID1: auditID1, AuditID2: auditID2}
	for h := range second {
		if !first[h] {
			cmp.NewHashes = append(cmp.NewHashes, h)
		}
	}
	for h := range first {
		if second[h] {
			cmp.Persistent++
		} else {
			cmp.ResolvedHashes = append(cmp.ResolvedHashes, h)
		}
	}
	sort.Strings(cmp.NewHashes)
	sort.Strings(cmp.ResolvedHashes)
	cmp.NewFindings = len(cmp.NewHashes)
	cmp.Resolved = len(cmp.ResolvedHashes)
	return cmp, nil
}

func (s *service) openHashesByAudit(ctx context.Context, auditID int64) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT finding_hash FROM audit_findings WHERE audit_id=? AND status='OPEN'`, auditID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out[h] = true
	}
	return out, rows.Err()
}

func (s *service) GetFindingLifecycle(ctx context.Context, findingHash string) ([]FindingLifecycleEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT af.audit_id, a.audit_timestamp, af.status, af.severity, af.finding_type, af.resource
		FROM audit_findings af
		JOIN audits a ON a.audit_id = af.audit_id
		WHERE af.finding_hash=?
		ORDER BY a.audit_timestamp ASC, af.id ASC
	`, findingHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []FindingLifecycleEvent{}
	for rows.Next() {
		var e FindingLifecycleEvent
		var resource sql.NullString
		if err := rows.Scan(&e.AuditID, &e.AuditTimestamp, &e.Status, &e.Severity, &e.Type, &resource); err != nil {
			return nil, err
		}
		e.Resource = resource.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *service) ListFindings(ctx context.Context, auditID int64) ([]FindingSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT finding_hash, finding_type, severity, resource, description, status
		FROM audit_findings WHERE audit_id=? ORDER BY `+severityOrder+`, finding_type, resource
	`, auditID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []FindingSnapshot{}
	for rows.Next() {
		var f FindingSnapshot
		var resource sql.NullString
		if err := rows.Scan(&f.FindingHash, &f.Type, &f.Severity, &resource, &f.Description, &f.Status); err != nil {
			return nil, err
		}
		f.Resource = resource.String
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) Reindex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "REINDEX")
	return err
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be > 0")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM audits WHERE audit_timestamp < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Close() error {
	return s.db.Close()
}
