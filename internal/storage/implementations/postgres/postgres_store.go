package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// PostgresConfig holds configuration for Postgres history storage.
type PostgresConfig struct {
	DSN          string        `json:"dsn" yaml:"dsn"`
	Table        string        `json:"table" yaml:"table"`
	MaxOpenConns int           `json:"max_open_conns" yaml:"max_open_conns"`
	ConnTimeout  time.Duration `json:"conn_timeout" yaml:"conn_timeout"`
	MaxEntries   int           `json:"max_entries" yaml:"max_entries"`
}

// PostgresStore keeps history entries in a single table, one JSONB row per
// run, trimmed per source to the configured cap.
type PostgresStore struct {
	config *PostgresConfig
	db     *sql.DB
	logger *logrus.Logger
}

// NewPostgresStore creates a Postgres-backed history store.
func NewPostgresStore(config *PostgresConfig, logger *logrus.Logger) (*PostgresStore, error) {
	if config == nil || config.DSN == "" {
		return nil, errors.NewStorageError("INVALID_CONFIG", "Postgres DSN is required")
	}
	if config.Table == "" {
		config.Table = "quality_history"
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}
	if config.MaxEntries <= 0 || config.MaxEntries > constants.MaxHistoryEntries {
		config.MaxEntries = constants.MaxHistoryEntries
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &PostgresStore{config: config, logger: logger}, nil
}

// Connect opens the pool, verifies connectivity and ensures the table
// exists.
func (p *PostgresStore) Connect(ctx context.Context) error {
	db, err := sql.Open("postgres", p.config.DSN)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "OPEN_FAILED", "failed to open Postgres connection")
	}
	db.SetMaxOpenConns(p.config.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "CONNECT_FAILED", "failed to connect to Postgres")
	}

	schema := `CREATE TABLE IF NOT EXISTS ` + p.config.Table + ` (
		id         BIGSERIAL PRIMARY KEY,
		source_id  TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		metric     JSONB       NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MIGRATE_FAILED", "failed to ensure history table")
	}
	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS `+p.config.Table+`_source_idx ON `+p.config.Table+` (source_id, id)`); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MIGRATE_FAILED", "failed to ensure history index")
	}

	p.db = db
	p.logger.WithField("table", p.config.Table).Info("Connected to Postgres history store")
	return nil
}

// HealthCheck pings the database.
func (p *PostgresStore) HealthCheck(ctx context.Context) error {
	if p.db == nil {
		return errors.NewStorageError("NOT_CONNECTED", "Postgres store is not connected")
	}
	return p.db.PingContext(ctx)
}

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// LoadHistory returns up to limit entries for the source, oldest first.
func (p *PostgresStore) LoadHistory(ctx context.Context, sourceID string, limit int) ([]models.HistoricalMetric, error) {
	if p.db == nil {
		return nil, errors.NewStorageError("NOT_CONNECTED", "Postgres store is not connected")
	}
	if limit <= 0 || limit > p.config.MaxEntries {
		limit = p.config.MaxEntries
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT metric FROM `+p.config.Table+` WHERE source_id = $1 ORDER BY id DESC LIMIT $2`,
		sourceID, limit)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, "READ_FAILED", "failed to query history")
	}
	defer rows.Close()

	var entries []models.HistoricalMetric
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeStorage, "SCAN_FAILED", "failed to scan history row")
		}
		var metric models.HistoricalMetric
		if err := json.Unmarshal(raw, &metric); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeStorage, "DECODE_FAILED", "corrupt history entry")
		}
		entries = append(entries, metric)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, "READ_FAILED", "failed to iterate history rows")
	}

	// The query returns newest first; reverse to oldest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// AppendHistory inserts one metric and deletes rows beyond the per-source
// cap, oldest first.
func (p *PostgresStore) AppendHistory(ctx context.Context, sourceID string, metric models.HistoricalMetric) error {
	if p.db == nil {
		return errors.NewStorageError("NOT_CONNECTED", "Postgres store is not connected")
	}

	data, err := json.Marshal(metric)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MARSHAL_FAILED", "failed to encode history entry")
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "TX_FAILED", "failed to begin history transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+p.config.Table+` (source_id, metric) VALUES ($1, $2)`,
		sourceID, data); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "WRITE_FAILED", "failed to insert history entry")
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM `+p.config.Table+` WHERE source_id = $1 AND id NOT IN (
			SELECT id FROM `+p.config.Table+` WHERE source_id = $1 ORDER BY id DESC LIMIT $2
		)`, sourceID, p.config.MaxEntries); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "TRIM_FAILED", "failed to trim history log")
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "TX_FAILED", "failed to commit history transaction")
	}
	return nil
}
