package validation

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

func numericDataset(column string, values []float64) *models.Dataset {
	rows := make([]models.Row, len(values))
	for i, v := range values {
		rows[i] = models.Row{column: v}
	}
	return &models.Dataset{Headers: []string{column}, Rows: rows}
}

func TestOutlierDetectorIQR(t *testing.T) {
	detector := NewOutlierDetector(nil, logrus.New())
	collector := NewCollector(100, 10)

	dataset := numericDataset("amount", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100})
	types := map[string]models.ColumnTypeDefinition{
		"amount": {Name: "amount", Type: models.TypeNumber},
	}

	err := detector.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)

	issues := collector.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, models.IssueOutlier, issues[0].Type)
	assert.Equal(t, models.SeverityWarning, issues[0].Severity)
	assert.Equal(t, 10, issues[0].RowNumber)
}

func TestOutlierDetectorZScore(t *testing.T) {
	detector := NewOutlierDetector(&OutlierDetectorConfig{
		Method:          constants.OutlierMethodZScore,
		ZScoreThreshold: 2,
	}, logrus.New())
	collector := NewCollector(100, 10)

	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 50}
	dataset := numericDataset("amount", values)
	types := map[string]models.ColumnTypeDefinition{
		"amount": {Name: "amount", Type: models.TypeNumber},
	}

	err := detector.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)

	issues := collector.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, 12, issues[0].RowNumber)
}

func TestOutlierDetectorMinimumSamples(t *testing.T) {
	detector := NewOutlierDetector(nil, logrus.New())
	collector := NewCollector(100, 10)

	dataset := numericDataset("amount", []float64{1, 2, 3, 4, 1000})
	types := map[string]models.ColumnTypeDefinition{
		"amount": {Name: "amount", Type: models.TypeNumber},
	}

	err := detector.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)
	assert.Empty(t, collector.Issues())
}

func TestOutlierDetectorConstantColumn(t *testing.T) {
	detector := NewOutlierDetector(&OutlierDetectorConfig{
		Method: constants.OutlierMethodZScore,
	}, logrus.New())
	collector := NewCollector(100, 10)

	dataset := numericDataset("amount", []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5})
	types := map[string]models.ColumnTypeDefinition{
		"amount": {Name: "amount", Type: models.TypeNumber},
	}

	err := detector.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)
	assert.Empty(t, collector.Issues())
}

func TestOutlierDetectorSkipsNonNumericColumns(t *testing.T) {
	detector := NewOutlierDetector(nil, logrus.New())
	collector := NewCollector(100, 10)

	rows := make([]models.Row, 12)
	for i := range rows {
		rows[i] = models.Row{"name": "x"}
	}
	dataset := &models.Dataset{Headers: []string{"name"}, Rows: rows}
	types := map[string]models.ColumnTypeDefinition{
		"name": {Name: "name", Type: models.TypeString},
	}

	err := detector.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)
	assert.Empty(t, collector.Issues())
}
