package validation

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/internal/utils/stats"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// OutlierDetectorConfig configures numeric outlier flagging.
type OutlierDetectorConfig struct {
	Method          string  `json:"method" yaml:"method"` // iqr or zscore
	ZScoreThreshold float64 `json:"zscore_threshold" yaml:"zscore_threshold"`
}

func getDefaultOutlierDetectorConfig() *OutlierDetectorConfig {
	return &OutlierDetectorConfig{
		Method:          constants.OutlierMethodIQR,
		ZScoreThreshold: constants.DefaultZScoreThreshold,
	}
}

// OutlierDetector flags outlying values in numeric columns using either the
// IQR fence or a z-score threshold.
type OutlierDetector struct {
	config *OutlierDetectorConfig
	logger *logrus.Logger
}

// NewOutlierDetector creates an outlier detector.
func NewOutlierDetector(config *OutlierDetectorConfig, logger *logrus.Logger) *OutlierDetector {
	if config == nil {
		config = getDefaultOutlierDetectorConfig()
	}
	if config.Method == "" {
		config.Method = constants.OutlierMethodIQR
	}
	if config.ZScoreThreshold <= 0 {
		config.ZScoreThreshold = constants.DefaultZScoreThreshold
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &OutlierDetector{config: config, logger: logger}
}

// Name implements interfaces.Validator.
func (od *OutlierDetector) Name() string { return constants.StageOutlierDetection }

// Validate implements interfaces.Validator. Only columns typed number or
// integer are considered, and a column needs at least 10 finite values.
func (od *OutlierDetector) Validate(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition, sink interfaces.IssueSink) error {
	for _, header := range dataset.Headers {
		if err := ctx.Err(); err != nil {
			return err
		}
		def, ok := types[header]
		if !ok || (def.Type != models.TypeNumber && def.Type != models.TypeInteger) {
			continue
		}

		values := make([]float64, 0, len(dataset.Rows))
		rowNumbers := make([]int, 0, len(dataset.Rows))
		for i, row := range dataset.Rows {
			if f, numeric := models.ValueToFloat(row[header]); numeric {
				values = append(values, f)
				rowNumbers = append(rowNumbers, i+1)
			}
		}

		if len(values) < constants.MinOutlierSamples {
			continue
		}

		switch od.config.Method {
		case constants.OutlierMethodZScore:
			od.flagZScore(header, values, rowNumbers, sink)
		default:
			od.flagIQR(header, values, rowNumbers, sink)
		}
	}
	return nil
}

func (od *OutlierDetector) flagIQR(column string, values []float64, rowNumbers []int, sink interfaces.IssueSink) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lower, upper := stats.OutlierBoundsSorted(sorted, constants.IQRFenceMultiplier)

	for i, v := range values {
		if v < lower || v > upper {
			sink.Record(models.Issue{
				RowNumber:  rowNumbers[i],
				Column:     column,
				Value:      fmt.Sprintf("%v", v),
				Type:       models.IssueOutlier,
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("Value %v is outside the IQR fence [%.4g, %.4g]", v, lower, upper),
				Suggestion: "Verify the value is not a data entry error",
			})
		}
	}
}

func (od *OutlierDetector) flagZScore(column string, values []float64, rowNumbers []int, sink interfaces.IssueSink) {
	mean := stats.Mean(values)
	std := stats.StandardDeviation(values)
	if std == 0 {
		// Degenerate distribution: every value identical, nothing to flag.
		return
	}

	for i, v := range values {
		z := (v - mean) / std
		if z < 0 {
			z = -z
		}
		if z > od.config.ZScoreThreshold {
			sink.Record(models.Issue{
				RowNumber:  rowNumbers[i],
				Column:     column,
				Value:      fmt.Sprintf("%v", v),
				Type:       models.IssueOutlier,
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("Value %v has z-score %.2f (threshold %.2f)", v, z, od.config.ZScoreThreshold),
				Suggestion: "Verify the value is not a data entry error",
			})
		}
	}
}
