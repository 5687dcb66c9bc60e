package history

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/internal/utils/stats"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// trackedMetric describes one metric compared against its history.
// higherIsBetter drives the impact classification; a nil value means the
// metric is direction-neutral.
type trackedMetric struct {
	name           string
	extract        func(models.HistoricalMetric) float64
	higherIsBetter *bool
}

var (
	boolTrue  = true
	boolFalse = false
)

var trackedMetrics = []trackedMetric{
	{name: "qualityScore", extract: func(m models.HistoricalMetric) float64 { return m.QualityScore }, higherIsBetter: &boolTrue},
	{name: "totalIssues", extract: func(m models.HistoricalMetric) float64 { return float64(m.TotalIssues) }, higherIsBetter: &boolFalse},
	{name: "totalRows", extract: func(m models.HistoricalMetric) float64 { return float64(m.TotalRows) }},
}

// AnomalyDetectorConfig configures historical comparison.
type AnomalyDetectorConfig struct {
	Window int `json:"window" yaml:"window"` // history entries to load, capped at 100
}

// AnomalyDetector compares the current run's metrics against the persisted
// history of prior runs for the same data source.
type AnomalyDetector struct {
	config *AnomalyDetectorConfig
	store  interfaces.HistoryStore
	logger *logrus.Logger
}

// NewAnomalyDetector creates a historical anomaly detector backed by the
// given store.
func NewAnomalyDetector(store interfaces.HistoryStore, config *AnomalyDetectorConfig, logger *logrus.Logger) *AnomalyDetector {
	if config == nil {
		config = &AnomalyDetectorConfig{Window: constants.DefaultHistoryWindow}
	}
	if config.Window <= 0 {
		config.Window = constants.DefaultHistoryWindow
	}
	if config.Window > constants.MaxHistoryEntries {
		config.Window = constants.MaxHistoryEntries
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &AnomalyDetector{config: config, store: store, logger: logger}
}

// Analyze loads prior metrics for the source, flags anomalies in the
// current run, fits per-metric trends, forecasts the next quality score,
// and finally appends the current metric to the history log.
func (ad *AnomalyDetector) Analyze(ctx context.Context, sourceID string, current models.HistoricalMetric) (*models.HistoryAnalysis, error) {
	history, err := ad.store.LoadHistory(ctx, sourceID, ad.config.Window)
	if err != nil {
		return nil, err
	}

	analysis := &models.HistoryAnalysis{
		SourceID:  sourceID,
		Points:    len(history),
		Anomalies: DetectAnomalies(history, current),
		Trends:    metricTrends(history),
		Forecast:  ForecastQuality(history),
	}

	if err := ad.store.AppendHistory(ctx, sourceID, current); err != nil {
		return analysis, err
	}

	ad.logger.WithFields(logrus.Fields{
		"source_id": sourceID,
		"points":    len(history),
		"anomalies": len(analysis.Anomalies),
	}).Debug("History analysis completed")

	return analysis, nil
}

// DetectAnomalies flags current metrics whose z-score against the history
// is at least 2.5. Fewer than 3 history points yields no anomalies
// regardless of how extreme the current value is.
func DetectAnomalies(history []models.HistoricalMetric, current models.HistoricalMetric) []models.HistoryAnomaly {
	anomalies := []models.HistoryAnomaly{}
	if len(history) < constants.MinHistoryPoints {
		return anomalies
	}

	for _, metric := range trackedMetrics {
		values := make([]float64, len(history))
		for i, h := range history {
			values[i] = metric.extract(h)
		}

		mean := stats.Mean(values)
		std := stats.StandardDeviation(values)
		if std == 0 {
			continue
		}

		currentValue := metric.extract(current)
		z := (currentValue - mean) / std
		if math.Abs(z) < constants.AnomalyZScoreThreshold {
			continue
		}

		anomalies = append(anomalies, models.HistoryAnomaly{
			Metric:        metric.name,
			CurrentValue:  currentValue,
			HistoryMean:   mean,
			HistoryStdDev: std,
			ZScore:        z,
			Severity:      anomalySeverity(z),
			Impact:        anomalyImpact(metric, currentValue, mean),
			Message: fmt.Sprintf("%s is %.2f standard deviations from its historical mean of %.2f",
				metric.name, z, mean),
		})
	}

	return anomalies
}

func anomalySeverity(z float64) string {
	abs := math.Abs(z)
	switch {
	case abs >= constants.AnomalyZScoreCritical:
		return "critical"
	case abs >= constants.AnomalyZScoreHigh:
		return "high"
	default:
		return "medium"
	}
}

func anomalyImpact(metric trackedMetric, current, mean float64) string {
	if metric.higherIsBetter == nil {
		return "neutral"
	}
	improved := current > mean
	if !*metric.higherIsBetter {
		improved = !improved
	}
	if improved {
		return "positive"
	}
	return "negative"
}

// metricTrends fits an OLS line per tracked metric over the history.
func metricTrends(history []models.HistoricalMetric) []models.MetricTrend {
	if len(history) < 2 {
		return nil
	}

	trends := make([]models.MetricTrend, 0, len(trackedMetrics))
	for _, metric := range trackedMetrics {
		values := make([]float64, len(history))
		for i, h := range history {
			values[i] = metric.extract(h)
		}

		slope, _, r2 := stats.LinearRegression(values)
		trend := models.MetricTrend{
			Metric:    metric.name,
			Slope:     slope,
			RSquared:  r2,
			Direction: "stable",
		}

		mean := stats.Mean(values)
		if mean != 0 {
			normalized := slope * float64(len(values)) / mean
			trend.PercentChange = normalized * 100
			if normalized > constants.TrendStableBand {
				trend.Direction = "increasing"
			} else if normalized < -constants.TrendStableBand {
				trend.Direction = "decreasing"
			}
		}
		trends = append(trends, trend)
	}
	return trends
}

// ForecastQuality extrapolates the next quality score one step beyond the
// historical mean along the fitted trend, clamped to [0,100]. Confidence is
// the trend's R², floored at zero.
func ForecastQuality(history []models.HistoricalMetric) *models.QualityForecast {
	if len(history) < constants.MinHistoryPoints {
		return nil
	}

	values := make([]float64, len(history))
	for i, h := range history {
		values[i] = h.QualityScore
	}

	slope, _, r2 := stats.LinearRegression(values)
	next := stats.Mean(values) + slope

	if next < 0 {
		next = 0
	}
	if next > 100 {
		next = 100
	}
	confidence := r2
	if confidence < 0 {
		confidence = 0
	}

	return &models.QualityForecast{
		NextScore:  next,
		Confidence: confidence,
		Basis:      len(history),
	}
}
