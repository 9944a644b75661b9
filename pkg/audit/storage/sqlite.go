package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"arbiter-hq/gavel/pkg/audit"
	"arbiter-hq/gavel/pkg/decision"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements audit.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite storage backend. It initializes
// the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return audit.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return audit.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Append implements audit.Store.
func (s *SQLiteStore) Append(ctx context.Context, record *audit.Record) error {
	if record == nil {
		return audit.NewStorageError("sqlite", "append", errNilRecord)
	}

	actionMetadata, _ := json.Marshal(record.ActionMetadata)
	alternative, _ := json.Marshal(record.Alternative)

	query := `
		INSERT INTO audit_records (
			id, decision_id,
			action_id, action_type, action_target, action_metadata,
			policy_id, result, reason, suggestion, alternative, severity,
			decision_time, recorded_time,
			ruleset_version, ruleset_commit
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.DecisionID,
		record.ActionID, record.ActionType, record.ActionTarget, string(actionMetadata),
		record.PolicyID, string(record.Result), record.Reason, record.Suggestion, string(alternative), string(record.Severity),
		record.DecisionTime, record.RecordedTime,
		record.RuleSetVersion, record.RuleSetCommit,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "append", err)
	}

	return nil
}

// Query implements audit.Store.
func (s *SQLiteStore) Query(ctx context.Context, q *audit.Query) ([]*audit.Record, error) {
	if q == nil {
		q = &audit.Query{}
	}

	whereClause, args := buildWhereClause(q)

	sqlQuery := "SELECT * FROM audit_records"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	sortOrder := "ASC"
	if q.SortOrder == audit.SortDesc {
		sortOrder = "DESC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY decision_time %s", sortOrder)

	// SQLite needs a LIMIT clause to accept OFFSET; -1 means unlimited.
	if q.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", q.Limit)
	} else if q.Offset > 0 {
		sqlQuery += " LIMIT -1"
	}
	if q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*audit.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, audit.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count implements audit.Store.
func (s *SQLiteStore) Count(ctx context.Context, q *audit.Query) (int64, error) {
	if q == nil {
		q = &audit.Query{}
	}

	whereClause, args := buildWhereClause(q)

	sqlQuery := "SELECT COUNT(*) FROM audit_records"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, audit.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete implements audit.Store and returns the number of records removed.
func (s *SQLiteStore) Delete(ctx context.Context, q *audit.Query) (int64, error) {
	if q == nil {
		q = &audit.Query{}
	}

	whereClause, args := buildWhereClause(q)

	sqlQuery := "DELETE FROM audit_records"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Close implements audit.Store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return audit.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite audit storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters. Returns
// the clause without the "WHERE" keyword plus the bound arguments.
func buildWhereClause(q *audit.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if q.PolicyID != "" {
		conditions = append(conditions, "policy_id = ?")
		args = append(args, q.PolicyID)
	}
	if q.Result != "" {
		conditions = append(conditions, "result = ?")
		args = append(args, string(q.Result))
	}
	if q.ActionType != "" {
		conditions = append(conditions, "action_type = ?")
		args = append(args, q.ActionType)
	}
	if q.StartTime != nil {
		conditions = append(conditions, "decision_time >= ?")
		args = append(args, *q.StartTime)
	}
	if q.EndTime != nil {
		conditions = append(conditions, "decision_time <= ?")
		args = append(args, *q.EndTime)
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}

	return whereClause, args
}

// scanRow scans a database row into an audit.Record. Columns follow the
// schema's declaration order.
func scanRow(rows *sql.Rows) (*audit.Record, error) {
	var record audit.Record
	var actionMetadata, alternative string
	var result, severity string

	err := rows.Scan(
		&record.ID, &record.DecisionID,
		&record.ActionID, &record.ActionType, &record.ActionTarget, &actionMetadata,
		&record.PolicyID, &result, &record.Reason, &record.Suggestion, &alternative, &severity,
		&record.DecisionTime, &record.RecordedTime,
		&record.RuleSetVersion, &record.RuleSetCommit,
	)
	if err != nil {
		return nil, err
	}

	record.Result = decision.Result(result)
	record.Severity = decision.Severity(severity)

	if actionMetadata != "" {
		json.Unmarshal([]byte(actionMetadata), &record.ActionMetadata)
	}
	if alternative != "" {
		json.Unmarshal([]byte(alternative), &record.Alternative)
	}

	return &record, nil
}
