package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's prometheus instruments.
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	issuesTotal   *prometheus.CounterVec
	stageWarnings *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	qualityScore  prometheus.Gauge
	rowsProcessed prometheus.Counter
}

// New creates and registers the engine metrics on the given registerer.
// A nil registerer uses the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataprobe",
			Name:      "runs_total",
			Help:      "Analysis runs by outcome.",
		}, []string{"outcome"}),
		issuesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataprobe",
			Name:      "issues_total",
			Help:      "Issues found by issue type.",
		}, []string{"issue_type"}),
		stageWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataprobe",
			Name:      "stage_warnings_total",
			Help:      "Pipeline stages degraded to a warning.",
		}, []string{"stage"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dataprobe",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		qualityScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dataprobe",
			Name:      "quality_score",
			Help:      "Overall quality score of the most recent run.",
		}),
		rowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dataprobe",
			Name:      "rows_processed_total",
			Help:      "Rows processed across all runs.",
		}),
	}

	reg.MustRegister(m.runsTotal, m.issuesTotal, m.stageWarnings,
		m.stageDuration, m.qualityScore, m.rowsProcessed)
	return m
}

// ObserveRun records one completed run.
func (m *Metrics) ObserveRun(outcome string, rows int, qualityScore float64) {
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.rowsProcessed.Add(float64(rows))
	m.qualityScore.Set(qualityScore)
}

// ObserveIssues records the per-type issue counts of a run.
func (m *Metrics) ObserveIssues(countsByType map[string]int) {
	for issueType, count := range countsByType {
		m.issuesTotal.WithLabelValues(issueType).Add(float64(count))
	}
}

// ObserveStage records one pipeline stage execution.
func (m *Metrics) ObserveStage(stage string, duration time.Duration, degraded bool) {
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if degraded {
		m.stageWarnings.WithLabelValues(stage).Inc()
	}
}
