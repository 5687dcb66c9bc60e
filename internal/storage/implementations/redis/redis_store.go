package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// RedisConfig holds configuration for Redis history storage.
type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Password     string        `json:"password" yaml:"password"`
	DB           int           `json:"db" yaml:"db"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	KeyPrefix    string        `json:"key_prefix" yaml:"key_prefix"`
	MaxEntries   int           `json:"max_entries" yaml:"max_entries"`
}

// RedisStore keeps each source's history in a Redis list, trimmed to the
// configured cap on every append.
type RedisStore struct {
	config *RedisConfig
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisStore creates a Redis-backed history store.
func NewRedisStore(config *RedisConfig, logger *logrus.Logger) (*RedisStore, error) {
	if config == nil {
		return nil, errors.NewStorageError("INVALID_CONFIG", "Redis config cannot be nil")
	}
	if config.Addr == "" {
		return nil, errors.NewStorageError("INVALID_CONFIG", "Redis address is required")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "dataprobe:history:"
	}
	if config.MaxEntries <= 0 || config.MaxEntries > constants.MaxHistoryEntries {
		config.MaxEntries = constants.MaxHistoryEntries
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisStore{config: config, logger: logger}, nil
}

// Connect establishes the connection to Redis and verifies it with a ping.
func (r *RedisStore) Connect(ctx context.Context) error {
	r.client = redis.NewClient(&redis.Options{
		Addr:         r.config.Addr,
		Password:     r.config.Password,
		DB:           r.config.DB,
		DialTimeout:  r.config.DialTimeout,
		ReadTimeout:  r.config.ReadTimeout,
		WriteTimeout: r.config.WriteTimeout,
	})

	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "CONNECT_FAILED", "failed to connect to Redis")
	}

	r.logger.WithField("addr", r.config.Addr).Info("Connected to Redis history store")
	return nil
}

// HealthCheck pings the server.
func (r *RedisStore) HealthCheck(ctx context.Context) error {
	if r.client == nil {
		return errors.NewStorageError("NOT_CONNECTED", "Redis store is not connected")
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the client connection pool.
func (r *RedisStore) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// LoadHistory returns up to limit entries for the source, oldest first.
func (r *RedisStore) LoadHistory(ctx context.Context, sourceID string, limit int) ([]models.HistoricalMetric, error) {
	if r.client == nil {
		return nil, errors.NewStorageError("NOT_CONNECTED", "Redis store is not connected")
	}
	if limit <= 0 || limit > r.config.MaxEntries {
		limit = r.config.MaxEntries
	}

	// The list is appended with RPUSH, so the newest entries sit at the
	// tail; a negative range returns the last limit entries in order.
	raw, err := r.client.LRange(ctx, r.key(sourceID), int64(-limit), -1).Result()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, "READ_FAILED", "failed to read history list")
	}

	entries := make([]models.HistoricalMetric, 0, len(raw))
	for _, item := range raw {
		var metric models.HistoricalMetric
		if err := json.Unmarshal([]byte(item), &metric); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeStorage, "DECODE_FAILED", "corrupt history entry")
		}
		entries = append(entries, metric)
	}
	return entries, nil
}

// AppendHistory pushes one metric and trims the list to the cap.
func (r *RedisStore) AppendHistory(ctx context.Context, sourceID string, metric models.HistoricalMetric) error {
	if r.client == nil {
		return errors.NewStorageError("NOT_CONNECTED", "Redis store is not connected")
	}

	data, err := json.Marshal(metric)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MARSHAL_FAILED", "failed to encode history entry")
	}

	key := r.key(sourceID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, int64(-r.config.MaxEntries), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "WRITE_FAILED", "failed to append history entry")
	}
	return nil
}

func (r *RedisStore) key(sourceID string) string {
	return r.config.KeyPrefix + sourceID
}
