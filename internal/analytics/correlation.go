package analytics

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/internal/utils/stats"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// CorrelationAnalyzer computes Pearson correlation for every unordered
// pair of numeric columns.
type CorrelationAnalyzer struct {
	logger *logrus.Logger
}

// NewCorrelationAnalyzer creates a correlation analyzer.
func NewCorrelationAnalyzer(logger *logrus.Logger) *CorrelationAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &CorrelationAnalyzer{logger: logger}
}

// Analyze builds the symmetric correlation matrix. A pair needs at least
// 10 rows where both sides are numeric; otherwise its entry stays nil. The
// diagonal is always 1.
func (ca *CorrelationAnalyzer) Analyze(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition) (*models.CorrelationMatrix, error) {
	var numericColumns []string
	for _, header := range dataset.Headers {
		if def, ok := types[header]; ok && (def.Type == models.TypeNumber || def.Type == models.TypeInteger) {
			numericColumns = append(numericColumns, header)
		}
	}

	matrix := &models.CorrelationMatrix{
		Columns: numericColumns,
		Matrix:  make(map[string]map[string]*float64, len(numericColumns)),
	}
	for _, col := range numericColumns {
		matrix.Matrix[col] = make(map[string]*float64, len(numericColumns))
		one := 1.0
		matrix.Matrix[col][col] = &one
	}

	for i := 0; i < len(numericColumns); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(numericColumns); j++ {
			colA, colB := numericColumns[i], numericColumns[j]
			x, y := pairedValues(dataset, colA, colB)

			if len(x) < constants.MinCorrelationPairs {
				matrix.Matrix[colA][colB] = nil
				matrix.Matrix[colB][colA] = nil
				continue
			}

			r := stats.Correlation(x, y)
			coeff := r
			matrix.Matrix[colA][colB] = &coeff
			matrix.Matrix[colB][colA] = &coeff

			if pair, notable := classifyPair(colA, colB, r, len(x)); notable {
				matrix.Pairs = append(matrix.Pairs, pair)
			}
		}
	}

	ca.logger.WithFields(logrus.Fields{
		"numeric_columns": len(numericColumns),
		"notable_pairs":   len(matrix.Pairs),
	}).Debug("Correlation analysis completed")

	return matrix, nil
}

// pairedValues collects the value pairs of two columns, excluding any row
// where either side is non-numeric.
func pairedValues(dataset *models.Dataset, colA, colB string) (x, y []float64) {
	for _, row := range dataset.Rows {
		a, okA := models.ValueToFloat(row[colA])
		if !okA {
			continue
		}
		b, okB := models.ValueToFloat(row[colB])
		if !okB {
			continue
		}
		x = append(x, a)
		y = append(y, b)
	}
	return x, y
}

func classifyPair(colA, colB string, r float64, samples int) (models.CorrelationPair, bool) {
	abs := r
	if abs < 0 {
		abs = -abs
	}

	var strength string
	switch {
	case abs > constants.CorrelationPerfect:
		strength = "perfect"
	case abs > constants.CorrelationVeryStrong:
		strength = "very strong"
	case abs > constants.CorrelationStrong:
		strength = "strong"
	default:
		return models.CorrelationPair{}, false
	}

	direction := "positive"
	if r < 0 {
		direction = "negative"
	}

	return models.CorrelationPair{
		ColumnA:     colA,
		ColumnB:     colB,
		Coefficient: r,
		SampleSize:  samples,
		Strength:    strength,
		Direction:   direction,
	}, true
}
