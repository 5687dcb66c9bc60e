package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// FileStoreConfig contains configuration for file-based history storage.
type FileStoreConfig struct {
	BasePath   string `json:"base_path" yaml:"base_path"`
	MaxEntries int    `json:"max_entries" yaml:"max_entries"`
}

// FileStore persists per-source history logs as one JSON file per source
// under a base directory.
type FileStore struct {
	config *FileStoreConfig
	logger *logrus.Logger
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._\-]`)

// NewFileStore creates a file-backed history store.
func NewFileStore(config *FileStoreConfig, logger *logrus.Logger) (*FileStore, error) {
	if config == nil || config.BasePath == "" {
		return nil, errors.NewConfigurationError("INVALID_CONFIG", "file history store requires a base path")
	}
	if config.MaxEntries <= 0 || config.MaxEntries > constants.MaxHistoryEntries {
		config.MaxEntries = constants.MaxHistoryEntries
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &FileStore{config: config, logger: logger}, nil
}

// Connect creates the base directory.
func (fs *FileStore) Connect(ctx context.Context) error {
	if err := os.MkdirAll(fs.config.BasePath, 0o755); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MKDIR_FAILED", "failed to create history directory")
	}
	return nil
}

// HealthCheck verifies the base directory is accessible.
func (fs *FileStore) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(fs.config.BasePath); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "STAT_FAILED", "history directory not accessible")
	}
	return nil
}

// Close is a no-op; the store holds no open handles between calls.
func (fs *FileStore) Close() error { return nil }

// LoadHistory returns up to limit entries for the source, oldest first.
// A missing file means no history yet, not an error.
func (fs *FileStore) LoadHistory(ctx context.Context, sourceID string, limit int) ([]models.HistoricalMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.readAll(sourceID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// AppendHistory appends one metric and trims the log to the configured cap,
// writing atomically via a temp file rename.
func (fs *FileStore) AppendHistory(ctx context.Context, sourceID string, metric models.HistoricalMetric) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := fs.readAll(sourceID)
	if err != nil {
		return err
	}
	entries = append(entries, metric)
	if len(entries) > fs.config.MaxEntries {
		entries = entries[len(entries)-fs.config.MaxEntries:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MARSHAL_FAILED", "failed to encode history")
	}

	path := fs.sourcePath(sourceID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "WRITE_FAILED", "failed to write history file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "RENAME_FAILED", "failed to replace history file")
	}

	fs.logger.WithFields(logrus.Fields{
		"source_id": sourceID,
		"entries":   len(entries),
	}).Debug("History appended")

	return nil
}

func (fs *FileStore) readAll(sourceID string) ([]models.HistoricalMetric, error) {
	data, err := os.ReadFile(fs.sourcePath(sourceID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, "READ_FAILED", "failed to read history file")
	}

	var entries []models.HistoricalMetric
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, "DECODE_FAILED", "corrupt history file")
	}
	return entries, nil
}

// sourcePath maps a source id to a safe file name; ids with characters
// outside the safe set are replaced by their hash.
func (fs *FileStore) sourcePath(sourceID string) string {
	name := sourceID
	if unsafePathChars.MatchString(name) || name == "" {
		sum := sha256.Sum256([]byte(sourceID))
		name = hex.EncodeToString(sum[:8])
	}
	return filepath.Join(fs.config.BasePath, name+".json")
}
