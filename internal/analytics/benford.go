package analytics

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// benfordExpected is the canonical first-digit distribution,
// P(d) = log10(1 + 1/d).
var benfordExpected = map[int]float64{
	1: 0.301, 2: 0.176, 3: 0.125, 4: 0.097, 5: 0.079,
	6: 0.067, 7: 0.058, 8: 0.051, 9: 0.046,
}

// BenfordAnalyzer tests numeric columns for first-digit distribution
// conformance, a heuristic for manipulated or synthetic data.
type BenfordAnalyzer struct {
	logger *logrus.Logger
}

// NewBenfordAnalyzer creates a Benford analyzer.
func NewBenfordAnalyzer(logger *logrus.Logger) *BenfordAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &BenfordAnalyzer{logger: logger}
}

// Analyze runs the first-digit test on every numeric column with at least
// 100 positive values.
func (ba *BenfordAnalyzer) Analyze(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition) ([]models.BenfordAnalysis, error) {
	var results []models.BenfordAnalysis

	for _, header := range dataset.Headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		def, ok := types[header]
		if !ok || (def.Type != models.TypeNumber && def.Type != models.TypeInteger) {
			continue
		}

		values := make([]float64, 0, len(dataset.Rows))
		for _, row := range dataset.Rows {
			if f, numeric := models.ValueToFloat(row[header]); numeric && f > 0 {
				values = append(values, f)
			}
		}
		if len(values) < constants.MinBenfordSamples {
			continue
		}

		results = append(results, ba.analyzeColumn(header, values))
	}

	return results, nil
}

// AnalyzeDigits runs the conformance test directly on pre-extracted
// positive values for one column.
func (ba *BenfordAnalyzer) AnalyzeDigits(column string, values []float64) models.BenfordAnalysis {
	return ba.analyzeColumn(column, values)
}

func (ba *BenfordAnalyzer) analyzeColumn(column string, values []float64) models.BenfordAnalysis {
	digitCounts := make(map[int]int, 9)
	total := 0
	for _, v := range values {
		d := firstDigit(v)
		if d >= 1 && d <= 9 {
			digitCounts[d]++
			total++
		}
	}

	observed := make(map[int]float64, 9)
	expected := make(map[int]float64, 9)
	chiSquare := 0.0
	deviation := 0.0
	n := float64(total)

	for d := 1; d <= 9; d++ {
		obs := 0.0
		if total > 0 {
			obs = float64(digitCounts[d]) / n
		}
		exp := benfordExpected[d]
		observed[d] = obs
		expected[d] = exp

		diff := obs - exp
		chiSquare += n * diff * diff / exp
		if diff < 0 {
			diff = -diff
		}
		deviation += diff
	}
	// Half the L1 distance between the distributions, as a percentage.
	deviation *= 50

	chiDist := distuv.ChiSquared{K: 8}
	pValue := 1 - chiDist.CDF(chiSquare)

	result := models.BenfordAnalysis{
		Column:      column,
		SampleSize:  total,
		Observed:    observed,
		Expected:    expected,
		ChiSquare:   chiSquare,
		PValue:      pValue,
		IsCompliant: chiSquare < constants.BenfordChiSquareCritical,
		Deviation:   deviation,
	}

	if !result.IsCompliant && deviation > constants.BenfordDeviationMinimum {
		severity := "medium"
		if deviation > constants.BenfordDeviationHigh {
			severity = "high"
		}
		result.Violation = &models.BenfordViolation{
			Severity: severity,
			Message: fmt.Sprintf("First-digit distribution of %q deviates %.1f%% from Benford's Law (chi-square %.2f)",
				column, deviation, chiSquare),
		}
	}

	ba.logger.WithFields(logrus.Fields{
		"column":     column,
		"chi_square": chiSquare,
		"compliant":  result.IsCompliant,
	}).Debug("Benford analysis completed")

	return result
}

// firstDigit returns the first significant digit of a positive value.
func firstDigit(v float64) int {
	if v <= 0 {
		return 0
	}
	for v >= 10 {
		v /= 10
	}
	for v < 1 {
		v *= 10
	}
	return int(v)
}
