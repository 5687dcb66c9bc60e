package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe/dataprobe/pkg/models"
)

// weekendDipDataset covers four full weeks starting Monday 2024-01-01 with
// weekday values fixed at 100 and weekend values fixed at 50.
func weekendDipDataset() (*models.Dataset, map[string]models.ColumnTypeDefinition) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.Row, 28)
	for i := range rows {
		day := start.AddDate(0, 0, i)
		value := 100.0
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			value = 50.0
		}
		rows[i] = models.Row{"date": day.Format("2006-01-02"), "sales": value}
	}
	dataset := &models.Dataset{Headers: []string{"date", "sales"}, Rows: rows}
	types := map[string]models.ColumnTypeDefinition{
		"date":  {Name: "date", Type: models.TypeDate},
		"sales": {Name: "sales", Type: models.TypeNumber},
	}
	return dataset, types
}

func TestSeasonalWeekendAnomaly(t *testing.T) {
	analyzer := NewSeasonalAnalyzer(100, logrus.New())

	dataset, types := weekendDipDataset()
	patterns, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	pattern := patterns[0]
	assert.Equal(t, "date", pattern.DateColumn)
	assert.Equal(t, "sales", pattern.ValueColumn)
	require.Len(t, pattern.DayOfWeek, 7)

	for _, bucket := range pattern.DayOfWeek {
		weekend := bucket.Label == "Saturday" || bucket.Label == "Sunday"
		assert.Equal(t, weekend, bucket.Anomalous, "bucket %s", bucket.Label)
		assert.Equal(t, 4, bucket.Count)
	}

	// Date-only values carry no clock component, so no hourly buckets.
	assert.Empty(t, pattern.Hourly)
}

func TestSeasonalTrendDirection(t *testing.T) {
	analyzer := NewSeasonalAnalyzer(100, logrus.New())

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.Row, 30)
	for i := range rows {
		rows[i] = models.Row{
			"date":  start.AddDate(0, 0, i).Format("2006-01-02"),
			"value": float64(100 + 5*i),
		}
	}
	dataset := &models.Dataset{Headers: []string{"date", "value"}, Rows: rows}
	types := map[string]models.ColumnTypeDefinition{
		"value": {Name: "value", Type: models.TypeNumber},
	}

	patterns, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	trend := patterns[0].Trend
	require.NotNil(t, trend)
	assert.Equal(t, "increasing", trend.Direction)
	assert.InDelta(t, 5.0, trend.Slope, 1e-9)
	assert.InDelta(t, 1.0, trend.RSquared, 1e-9)
	assert.Greater(t, trend.PercentChange, 5.0)
}

func TestSeasonalStableTrend(t *testing.T) {
	analyzer := NewSeasonalAnalyzer(100, logrus.New())

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.Row, 20)
	for i := range rows {
		rows[i] = models.Row{
			"date":  start.AddDate(0, 0, i).Format("2006-01-02"),
			"value": float64(100),
		}
	}
	dataset := &models.Dataset{Headers: []string{"date", "value"}, Rows: rows}
	types := map[string]models.ColumnTypeDefinition{
		"value": {Name: "value", Type: models.TypeNumber},
	}

	patterns, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	require.NotNil(t, patterns[0].Trend)
	assert.Equal(t, "stable", patterns[0].Trend.Direction)
}

func TestSeasonalHourlyBucketsWithTimestamps(t *testing.T) {
	analyzer := NewSeasonalAnalyzer(100, logrus.New())

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.Row, 48)
	for i := range rows {
		rows[i] = models.Row{
			"at":    start.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			"value": float64(10 + i%24),
		}
	}
	dataset := &models.Dataset{Headers: []string{"at", "value"}, Rows: rows}
	types := map[string]models.ColumnTypeDefinition{
		"value": {Name: "value", Type: models.TypeNumber},
	}

	patterns, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	require.Len(t, patterns[0].Hourly, 24)
	assert.Equal(t, "00:00", patterns[0].Hourly[0].Label)
	assert.Equal(t, "23:00", patterns[0].Hourly[23].Label)
}

func TestSeasonalNoDateColumns(t *testing.T) {
	analyzer := NewSeasonalAnalyzer(100, logrus.New())

	rows := make([]models.Row, 10)
	for i := range rows {
		rows[i] = models.Row{"value": float64(i), "name": fmt.Sprintf("n%d", i)}
	}
	dataset := &models.Dataset{Headers: []string{"value", "name"}, Rows: rows}
	types := map[string]models.ColumnTypeDefinition{
		"value": {Name: "value", Type: models.TypeNumber},
	}

	patterns, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)
	assert.Empty(t, patterns)
}
