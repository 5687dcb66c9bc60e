package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/internal/storage/implementations/file"
	"github.com/dataprobe/dataprobe/internal/storage/implementations/postgres"
	"github.com/dataprobe/dataprobe/internal/storage/implementations/redis"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
)

// Config selects and configures a history store backend.
type Config struct {
	Backend  string                  `json:"backend" yaml:"backend" mapstructure:"backend"` // file, redis, postgres
	File     file.FileStoreConfig    `json:"file" yaml:"file" mapstructure:"file"`
	Redis    redis.RedisConfig       `json:"redis" yaml:"redis" mapstructure:"redis"`
	Postgres postgres.PostgresConfig `json:"postgres" yaml:"postgres" mapstructure:"postgres"`
}

// NewHistoryStore creates the configured history store implementation.
func NewHistoryStore(config *Config, logger *logrus.Logger) (interfaces.HistoryStore, error) {
	if config == nil {
		return nil, errors.NewConfigurationError("INVALID_CONFIG", "storage config cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	switch config.Backend {
	case constants.HistoryBackendFile, "":
		return file.NewFileStore(&config.File, logger)
	case constants.HistoryBackendRedis:
		return redis.NewRedisStore(&config.Redis, logger)
	case constants.HistoryBackendPostgres:
		return postgres.NewPostgresStore(&config.Postgres, logger)
	default:
		return nil, errors.NewConfigurationError("UNKNOWN_BACKEND",
			fmt.Sprintf("unknown history backend %q", config.Backend))
	}
}
