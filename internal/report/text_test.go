package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe/dataprobe/pkg/models"
)

func sampleReport() *models.AnalysisReport {
	coef := 0.97
	return &models.AnalysisReport{
		ID:          "run-1",
		SourceID:    "orders",
		Timestamp:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		RowCount:    100,
		ColumnCount: 3,
		Validation: &models.ValidationResult{
			Issues: []models.Issue{
				{RowNumber: 4, Column: "email", Type: models.IssueTypeMismatch,
					Severity: models.SeverityError, Message: "value is not a valid email"},
			},
			Breakdown:       models.IssueBreakdown{TypeErrors: 1},
			InvalidRowCount: 1,
			Warnings:        []string{"outlier detection failed: short column"},
		},
		Quality: &models.QualityScore{
			Overall: 92.5, Grade: "A",
			Completeness: 100, Validity: 95, Uniqueness: 100, Consistency: 90,
		},
		Profile: &models.ProfileResult{
			Columns: []models.ColumnProfile{
				{Name: "amount", DetectedType: models.TypeNumber, NullCount: 2,
					NullPercent: 2.0, UniqueCount: 97,
					NumericStats: &models.NumericStats{Min: 1, Max: 950, Mean: 120.5}},
			},
		},
		Correlations: &models.CorrelationMatrix{
			Columns: []string{"amount", "tax"},
			Pairs: []models.CorrelationPair{
				{ColumnA: "amount", ColumnB: "tax", Coefficient: coef,
					SampleSize: 98, Strength: "strong", Direction: "positive"},
			},
		},
		Seasonal: []models.SeasonalPattern{
			{
				DateColumn:  "created",
				ValueColumn: "amount",
				DayOfWeek: []models.BucketStat{
					{Label: "Saturday", Count: 4, Mean: 50, ZScore: 3.16, Anomalous: true},
					{Label: "Monday", Count: 4, Mean: 100, ZScore: 1.26},
				},
				Trend: &models.TrendLine{Slope: 2, RSquared: 0.9, Direction: "increasing", PercentChange: 12},
			},
		},
		History: &models.HistoryAnalysis{
			SourceID: "orders",
			Points:   5,
			Anomalies: []models.HistoryAnomaly{
				{Metric: "qualityScore", Severity: "warning", Message: "quality score dropped below its recent range"},
			},
			Forecast: &models.QualityForecast{NextScore: 91.0, Confidence: 0.8, Basis: 5},
		},
		Duration: 42 * time.Millisecond,
	}
}

func TestTextWriterRendersAllSections(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	require.NoError(t, NewTextWriter(&buf, 0).Write(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Data Quality Report")
	assert.Contains(t, out, "Source:   orders")

	// Table header rows render with their column labels.
	upper := strings.ToUpper(out)
	assert.Contains(t, upper, "OVERALL")
	assert.Contains(t, upper, "GRADE")
	assert.Contains(t, upper, "SEVERITY")
	assert.Contains(t, upper, "COEFFICIENT")
	assert.Contains(t, upper, "Z-SCORE")
	assert.Contains(t, out, "92.5")
	assert.Contains(t, out, "Issues: 1 total (1 invalid rows)")
	assert.Contains(t, out, "value is not a valid email")
	assert.Contains(t, out, "amount")
	assert.Contains(t, out, "strong")
	assert.Contains(t, out, "Seasonality: amount by created")
	assert.Contains(t, out, "Saturday")
	assert.Contains(t, out, "Trend: increasing")
	assert.Contains(t, out, "History: 5 prior runs for orders")
	assert.Contains(t, out, "Forecast: next score 91.0")
	assert.Contains(t, out, "warning: outlier detection failed")
}

func TestTextWriterTruncatesIssues(t *testing.T) {
	color.NoColor = true
	report := sampleReport()
	for i := 0; i < 10; i++ {
		report.Validation.Issues = append(report.Validation.Issues, models.Issue{
			RowNumber: i + 10, Column: "email", Type: models.IssueTypeMismatch,
			Severity: models.SeverityError, Message: "value is not a valid email",
		})
	}
	report.Validation.Breakdown.TypeErrors = 11

	var buf bytes.Buffer
	require.NoError(t, NewTextWriter(&buf, 5).Write(report))

	assert.Contains(t, buf.String(), "... and 6 more recorded issues")
}

func TestTextWriterMinimalReport(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	report := &models.AnalysisReport{SourceID: "empty", Timestamp: time.Now()}
	require.NoError(t, NewTextWriter(&buf, 0).Write(report))

	out := buf.String()
	assert.Contains(t, out, "Source:   empty")
	assert.NotContains(t, out, "Seasonality")
	assert.NotContains(t, out, "History:")
}

func TestJSONWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf).Write(sampleReport()))

	var decoded models.AnalysisReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "run-1", decoded.ID)
	assert.Equal(t, "orders", decoded.SourceID)
	require.NotNil(t, decoded.Quality)
	assert.Equal(t, 92.5, decoded.Quality.Overall)
	require.Len(t, decoded.Seasonal, 1)
	assert.True(t, decoded.Seasonal[0].DayOfWeek[0].Anomalous)
}
