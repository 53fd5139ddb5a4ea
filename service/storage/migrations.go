package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS audits (
    audit_id          INTEGER PRIMARY KEY AUTOINCREMENT,
    audit_uuid        TEXT UNIQUE NOT NULL,
    run_uuid          TEXT NOT NULL,
    account_id        TEXT NOT NULL,
    audit_timestamp   DATETIME DEFAULT CURRENT_TIMESTAMP,
    audit_duration    INTEGER,
    total_findings    INTEGER DEFAULT 0,
    high_count        INTEGER DEFAULT 0,
    medium_count      INTEGER DEFAULT 0,
    low_count         INTEGER DEFAULT 0,
    warning_count     INTEGER DEFAULT 0,
    total_albs        INTEGER DEFAULT 0,
    albs_with_waf     INTEGER DEFAULT 0,
    waf_coverage_rate REAL DEFAULT 0,
    total_wafs        INTEGER DEFAULT 0,
    total_dns_records INTEGER DEFAULT 0,
    cli_version       TEXT,
    source_files      TEXT,
    created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audits_account_timestamp
    ON audits(account_id, audit_timestamp);
CREATE INDEX IF NOT EXISTS idx_audits_timestamp
    ON audits(audit_timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_audits_run
    ON audits(run_uuid);

CREATE TABLE IF NOT EXISTS findings (
    finding_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id      TEXT NOT NULL,
    finding_hash    TEXT NOT NULL,
    finding_type    TEXT NOT NULL,
    severity        TEXT NOT NULL,
    subject         TEXT NOT NULL,
    resource        TEXT,
    resource_arn    TEXT,
    region          TEXT,
    target          TEXT,
    zone            TEXT,
    description     TEXT NOT NULL,
    first_seen      DATETIME NOT NULL,
    last_seen       DATETIME NOT NULL,
    resolved_at     DATETIME,
    status          TEXT DEFAULT 'OPEN',
    UNIQUE(account_id, finding_hash)
);

CREATE INDEX IF NOT EXISTS idx_findings_hash ON findings(finding_hash);
CREATE INDEX IF NOT EXISTS idx_findings_status ON findings(status);
CREATE INDEX IF NOT EXISTS idx_findings_type ON findings(finding_type);

CREATE TABLE IF NOT EXISTS audit_findings (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    audit_id       INTEGER NOT NULL,
    finding_hash   TEXT NOT NULL,
    severity       TEXT NOT NULL,
    status         TEXT NOT NULL,
    finding_type   TEXT NOT NULL,
    resource       TEXT,
    description    TEXT NOT NULL,
    created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (audit_id) REFERENCES audits(audit_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_audit_findings_audit ON audit_findings(audit_id);
CREATE INDEX IF NOT EXISTS idx_audit_findings_hash ON audit_findings(finding_hash);

CREATE TABLE IF NOT EXISTS metrics (
    metric_id       INTEGER PRIMARY KEY AUTOINCREMENT,
    audit_id        INTEGER NOT NULL,
    metric_name     TEXT NOT NULL,
    metric_value    REAL NOT NULL,
    metric_unit     TEXT,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (audit_id) REFERENCES audits(audit_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_metrics_audit ON metrics(audit_id);
CREATE INDEX IF NOT EXISTS idx_metrics_name ON metrics(metric_name);
`
