package models

import "time"

// BenfordAnalysis holds first-digit distribution conformance results for a
// single numeric column.
type BenfordAnalysis struct {
	Column      string            `json:"column"`
	SampleSize  int               `json:"sample_size"`
	Observed    map[int]float64   `json:"observed"`
	Expected    map[int]float64   `json:"expected"`
	ChiSquare   float64           `json:"chi_square"`
	PValue      float64           `json:"p_value"`
	IsCompliant bool              `json:"is_compliant"`
	Deviation   float64           `json:"deviation_percent"`
	Violation   *BenfordViolation `json:"violation,omitempty"`
}

// BenfordViolation flags a non-compliant column whose deviation exceeds the
// reporting minimum.
type BenfordViolation struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// CorrelationPair is one entry of the correlation analysis: an unordered
// numeric column pair with its Pearson coefficient.
type CorrelationPair struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	Coefficient float64 `json:"coefficient"`
	SampleSize  int     `json:"sample_size"`
	Strength    string  `json:"strength"`
	Direction   string  `json:"direction"`
}

// CorrelationMatrix is a symmetric column-to-column coefficient mapping.
// The diagonal is 1.0; nil entries mean fewer than the minimum paired
// observations existed.
type CorrelationMatrix struct {
	Columns []string                       `json:"columns"`
	Matrix  map[string]map[string]*float64 `json:"matrix"`
	Pairs   []CorrelationPair              `json:"notable_pairs"`
}

// BucketStat holds per-bucket aggregate statistics for seasonal analysis.
type BucketStat struct {
	Label     string  `json:"label"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	ZScore    float64 `json:"z_score"`
	Anomalous bool    `json:"anomalous"`
}

// TrendLine is an ordinary-least-squares fit over chronologically sorted
// values.
type TrendLine struct {
	Slope         float64 `json:"slope"`
	Intercept     float64 `json:"intercept"`
	RSquared      float64 `json:"r_squared"`
	Direction     string  `json:"direction"`
	PercentChange float64 `json:"percent_change"`
}

// SeasonalPattern holds day-of-week, monthly and optional hourly bucket
// statistics plus the trend fit for one (date column, value column) pair.
type SeasonalPattern struct {
	DateColumn  string       `json:"date_column"`
	ValueColumn string       `json:"value_column"`
	DayOfWeek   []BucketStat `json:"day_of_week"`
	Monthly     []BucketStat `json:"monthly"`
	Hourly      []BucketStat `json:"hourly,omitempty"`
	Trend       *TrendLine   `json:"trend,omitempty"`
}

// AnalysisReport aggregates everything a run produces for the reporting
// collaborator.
type AnalysisReport struct {
	ID           string              `json:"id"`
	SourceID     string              `json:"source_id"`
	Timestamp    time.Time           `json:"timestamp"`
	RowCount     int                 `json:"row_count"`
	ColumnCount  int                 `json:"column_count"`
	Validation   *ValidationResult   `json:"validation"`
	Profile      *ProfileResult      `json:"profile,omitempty"`
	Quality      *QualityScore       `json:"quality,omitempty"`
	Benford      []BenfordAnalysis   `json:"benford,omitempty"`
	Correlations *CorrelationMatrix  `json:"correlations,omitempty"`
	Seasonal     []SeasonalPattern   `json:"seasonal,omitempty"`
	History      *HistoryAnalysis    `json:"history,omitempty"`
	Duration     time.Duration       `json:"duration"`
}
