package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
const Schema = `
-- Audit records table
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    decision_id TEXT NOT NULL,

    -- Adjudicated action
    action_id TEXT,
    action_type TEXT NOT NULL,
    action_target TEXT NOT NULL,
    action_metadata TEXT,

    -- Decision
    policy_id TEXT NOT NULL,
    result TEXT NOT NULL,
    reason TEXT NOT NULL,
    suggestion TEXT,
    alternative TEXT,
    severity TEXT NOT NULL,

    -- Timestamps
    decision_time TIMESTAMP NOT NULL,
    recorded_time TIMESTAMP NOT NULL,

    -- Rule set provenance
    ruleset_version TEXT,
    ruleset_commit TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_audit_decision_time ON audit_records(decision_time);
CREATE INDEX IF NOT EXISTS idx_audit_policy_id ON audit_records(policy_id);
CREATE INDEX IF NOT EXISTS idx_audit_result ON audit_records(result);
CREATE INDEX IF NOT EXISTS idx_audit_action_type ON audit_records(action_type);
CREATE INDEX IF NOT EXISTS idx_audit_decision_id ON audit_records(decision_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
