package models

import "time"

// HistoricalMetric is a timestamped snapshot of one run's quality metrics,
// appended to the bounded per-source history log after every run.
type HistoricalMetric struct {
	Timestamp    time.Time      `json:"timestamp"`
	QualityScore float64        `json:"quality_score"`
	Grade        string         `json:"grade"`
	TotalRows    int            `json:"total_rows"`
	TotalIssues  int            `json:"total_issues"`
	Breakdown    IssueBreakdown `json:"issue_breakdown"`
	DataQuality  float64        `json:"data_quality"`
}

// HistoryAnomaly flags a current-run metric that deviates from its
// historical distribution.
type HistoryAnomaly struct {
	Metric        string  `json:"metric"`
	CurrentValue  float64 `json:"current_value"`
	HistoryMean   float64 `json:"history_mean"`
	HistoryStdDev float64 `json:"history_std_dev"`
	ZScore        float64 `json:"z_score"`
	Severity      string  `json:"severity"`
	Impact        string  `json:"impact"`
	Message       string  `json:"message"`
}

// MetricTrend describes the historical direction of one tracked metric.
type MetricTrend struct {
	Metric        string  `json:"metric"`
	Slope         float64 `json:"slope"`
	RSquared      float64 `json:"r_squared"`
	Direction     string  `json:"direction"`
	PercentChange float64 `json:"percent_change"`
}

// QualityForecast extrapolates the next run's quality score from the
// historical trend.
type QualityForecast struct {
	NextScore  float64 `json:"next_score"`
	Confidence float64 `json:"confidence"`
	Basis      int     `json:"basis"`
}

// HistoryAnalysis is the historical comparison bundle: trends, anomalies
// and the forecast, produced when a history store is configured.
type HistoryAnalysis struct {
	SourceID  string           `json:"source_id"`
	Points    int              `json:"points"`
	Trends    []MetricTrend    `json:"trends,omitempty"`
	Anomalies []HistoryAnomaly `json:"anomalies"`
	Forecast  *QualityForecast `json:"prediction,omitempty"`
}
