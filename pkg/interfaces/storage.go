package interfaces

import (
	"context"

	"github.com/dataprobe/dataprobe/pkg/models"
)

// HistoryStore persists per-source quality metric history as a bounded,
// time-ordered log. Both operations are safe to call once per run.
type HistoryStore interface {
	// Connect establishes the backend connection.
	Connect(ctx context.Context) error

	// LoadHistory returns up to limit entries for sourceID, oldest first.
	LoadHistory(ctx context.Context, sourceID string, limit int) ([]models.HistoricalMetric, error)

	// AppendHistory appends one metric snapshot for sourceID, trimming the
	// log to its configured cap.
	AppendHistory(ctx context.Context, sourceID string, metric models.HistoricalMetric) error

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
