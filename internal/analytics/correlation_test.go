package analytics

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe/dataprobe/pkg/models"
)

func pairedDataset(xs, ys []float64) (*models.Dataset, map[string]models.ColumnTypeDefinition) {
	rows := make([]models.Row, len(xs))
	for i := range xs {
		rows[i] = models.Row{"x": xs[i], "y": ys[i]}
	}
	dataset := &models.Dataset{Headers: []string{"x", "y"}, Rows: rows}
	types := map[string]models.ColumnTypeDefinition{
		"x": {Name: "x", Type: models.TypeNumber},
		"y": {Name: "y", Type: models.TypeNumber},
	}
	return dataset, types
}

func TestCorrelationPerfectPositive(t *testing.T) {
	analyzer := NewCorrelationAnalyzer(logrus.New())

	xs := make([]float64, 12)
	ys := make([]float64, 12)
	for i := range xs {
		xs[i] = float64(i + 1)
		ys[i] = 2 * float64(i+1)
	}
	dataset, types := pairedDataset(xs, ys)

	matrix, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)
	require.NotNil(t, matrix)

	require.NotNil(t, matrix.Matrix["x"]["y"])
	assert.InDelta(t, 1.0, *matrix.Matrix["x"]["y"], 1e-9)

	require.Len(t, matrix.Pairs, 1)
	assert.Equal(t, "perfect", matrix.Pairs[0].Strength)
	assert.Equal(t, "positive", matrix.Pairs[0].Direction)
	assert.Equal(t, 12, matrix.Pairs[0].SampleSize)
}

func TestCorrelationSymmetry(t *testing.T) {
	analyzer := NewCorrelationAnalyzer(logrus.New())

	xs := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8}
	ys := []float64{2, 7, 1, 8, 2, 8, 1, 8, 2, 8, 4, 5}
	dataset, types := pairedDataset(xs, ys)

	matrix, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)

	require.NotNil(t, matrix.Matrix["x"]["y"])
	require.NotNil(t, matrix.Matrix["y"]["x"])
	assert.Equal(t, *matrix.Matrix["x"]["y"], *matrix.Matrix["y"]["x"])
	assert.Equal(t, 1.0, *matrix.Matrix["x"]["x"])
	assert.Equal(t, 1.0, *matrix.Matrix["y"]["y"])
}

func TestCorrelationNegativeDirection(t *testing.T) {
	analyzer := NewCorrelationAnalyzer(logrus.New())

	xs := make([]float64, 15)
	ys := make([]float64, 15)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = float64(100 - 3*i)
	}
	dataset, types := pairedDataset(xs, ys)

	matrix, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)

	require.Len(t, matrix.Pairs, 1)
	assert.Equal(t, "negative", matrix.Pairs[0].Direction)
	assert.Less(t, matrix.Pairs[0].Coefficient, -0.99)
}

func TestCorrelationInsufficientPairs(t *testing.T) {
	analyzer := NewCorrelationAnalyzer(logrus.New())

	dataset, types := pairedDataset([]float64{1, 2, 3}, []float64{2, 4, 6})

	matrix, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)

	// Fewer than 10 paired observations: the entry is nil, not a guess.
	assert.Nil(t, matrix.Matrix["x"]["y"])
	assert.Empty(t, matrix.Pairs)
}

func TestCorrelationExcludesNonNumericRows(t *testing.T) {
	analyzer := NewCorrelationAnalyzer(logrus.New())

	rows := make([]models.Row, 0, 13)
	for i := 0; i < 12; i++ {
		rows = append(rows, models.Row{"x": float64(i + 1), "y": float64(i + 1)})
	}
	rows = append(rows, models.Row{"x": "broken", "y": float64(999)})
	dataset := &models.Dataset{Headers: []string{"x", "y"}, Rows: rows}
	types := map[string]models.ColumnTypeDefinition{
		"x": {Name: "x", Type: models.TypeNumber},
		"y": {Name: "y", Type: models.TypeNumber},
	}

	matrix, err := analyzer.Analyze(context.Background(), dataset, types)
	require.NoError(t, err)

	require.Len(t, matrix.Pairs, 1)
	// The non-numeric row is excluded pairwise, so the fit stays perfect.
	assert.Equal(t, 12, matrix.Pairs[0].SampleSize)
	assert.InDelta(t, 1.0, matrix.Pairs[0].Coefficient, 1e-9)
}
