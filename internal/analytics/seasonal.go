package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/internal/inference"
	"github.com/dataprobe/dataprobe/internal/utils/stats"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// SeasonalAnalyzer buckets numeric values by calendar period per date
// column and fits a trend line over the chronologically sorted series.
type SeasonalAnalyzer struct {
	logger     *logrus.Logger
	inferencer *inference.TypeInferencer
}

// NewSeasonalAnalyzer creates a seasonal/trend analyzer.
func NewSeasonalAnalyzer(sampleSize int, logger *logrus.Logger) *SeasonalAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &SeasonalAnalyzer{
		logger:     logger,
		inferencer: inference.NewTypeInferencer(sampleSize, logger),
	}
}

type observation struct {
	at      time.Time
	value   float64
	hasTime bool
}

// Analyze auto-detects date-like columns and produces one SeasonalPattern
// per (date column, numeric column) pair with enough paired observations.
func (sa *SeasonalAnalyzer) Analyze(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition) ([]models.SeasonalPattern, error) {
	dateColumns := sa.inferencer.DetectDateColumns(dataset)
	if len(dateColumns) == 0 {
		return nil, nil
	}

	var numericColumns []string
	for _, header := range dataset.Headers {
		if def, ok := types[header]; ok && (def.Type == models.TypeNumber || def.Type == models.TypeInteger) {
			numericColumns = append(numericColumns, header)
		}
	}

	var patterns []models.SeasonalPattern
	for _, dateCol := range dateColumns {
		for _, valueCol := range numericColumns {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if dateCol == valueCol {
				continue
			}
			obs := collectObservations(dataset, dateCol, valueCol)
			if len(obs) < constants.MinBucketObservations {
				continue
			}
			patterns = append(patterns, sa.analyzePair(dateCol, valueCol, obs))
		}
	}

	return patterns, nil
}

func collectObservations(dataset *models.Dataset, dateCol, valueCol string) []observation {
	obs := make([]observation, 0, len(dataset.Rows))
	for _, row := range dataset.Rows {
		t, hasTime, ok := inference.ParseDate(models.ValueToString(row[dateCol]))
		if !ok {
			continue
		}
		v, numeric := models.ValueToFloat(row[valueCol])
		if !numeric {
			continue
		}
		obs = append(obs, observation{at: t, value: v, hasTime: hasTime})
	}
	return obs
}

func (sa *SeasonalAnalyzer) analyzePair(dateCol, valueCol string, obs []observation) models.SeasonalPattern {
	all := make([]float64, len(obs))
	anyClock := false
	for i, o := range obs {
		all[i] = o.value
		if o.hasTime {
			anyClock = true
		}
	}
	overallMean := stats.Mean(all)
	overallStd := stats.StandardDeviation(all)

	pattern := models.SeasonalPattern{
		DateColumn:  dateCol,
		ValueColumn: valueCol,
	}

	dayBuckets := make([][]float64, 7)
	monthBuckets := make([][]float64, 12)
	hourBuckets := make([][]float64, 24)
	for _, o := range obs {
		dayBuckets[int(o.at.Weekday())] = append(dayBuckets[int(o.at.Weekday())], o.value)
		monthBuckets[int(o.at.Month())-1] = append(monthBuckets[int(o.at.Month())-1], o.value)
		if o.hasTime {
			hourBuckets[o.at.Hour()] = append(hourBuckets[o.at.Hour()], o.value)
		}
	}

	for d := 0; d < 7; d++ {
		pattern.DayOfWeek = append(pattern.DayOfWeek,
			bucketStat(time.Weekday(d).String(), dayBuckets[d], overallMean, overallStd))
	}
	for m := 0; m < 12; m++ {
		pattern.Monthly = append(pattern.Monthly,
			bucketStat(time.Month(m+1).String(), monthBuckets[m], overallMean, overallStd))
	}
	if anyClock {
		for h := 0; h < 24; h++ {
			pattern.Hourly = append(pattern.Hourly,
				bucketStat(hourLabel(h), hourBuckets[h], overallMean, overallStd))
		}
	}

	pattern.Trend = fitTrend(obs, overallMean)

	sa.logger.WithFields(logrus.Fields{
		"date_column":  dateCol,
		"value_column": valueCol,
		"observations": len(obs),
	}).Debug("Seasonal analysis completed")

	return pattern
}

// bucketStat aggregates one calendar bucket. The z-score compares the
// bucket mean against the overall mean using the standard error of the
// bucket, so larger buckets need smaller deviations to register. A bucket
// is anomalous when |z| exceeds 2 and it holds at least 3 observations.
func bucketStat(label string, values []float64, overallMean, overallStd float64) models.BucketStat {
	bs := models.BucketStat{Label: label, Count: len(values)}
	if len(values) == 0 {
		return bs
	}

	bs.Mean = stats.Mean(values)
	bs.StdDev = stats.StandardDeviation(values)

	if overallStd > 0 {
		stderr := overallStd / math.Sqrt(float64(len(values)))
		bs.ZScore = (bs.Mean - overallMean) / stderr
	}
	z := bs.ZScore
	if z < 0 {
		z = -z
	}
	bs.Anomalous = len(values) >= constants.MinBucketObservations && z > constants.BucketAnomalyZScore

	return bs
}

// fitTrend sorts observations chronologically and fits an OLS line over
// the values. Direction is judged against the mean-normalized total change
// slope*n, with a ±5% stable band.
func fitTrend(obs []observation, mean float64) *models.TrendLine {
	if len(obs) < 2 {
		return nil
	}

	sorted := make([]observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })

	values := make([]float64, len(sorted))
	for i, o := range sorted {
		values[i] = o.value
	}

	slope, intercept, r2 := stats.LinearRegression(values)

	trend := &models.TrendLine{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		Direction: "stable",
	}

	if mean != 0 {
		normalized := slope * float64(len(values)) / mean
		trend.PercentChange = normalized * 100
		if normalized > constants.TrendStableBand {
			trend.Direction = "increasing"
		} else if normalized < -constants.TrendStableBand {
			trend.Direction = "decreasing"
		}
	}

	return trend
}

func hourLabel(h int) string {
	const clock = "000102030405060708091011121314151617181920212223"
	return clock[h*2 : h*2+2] + ":00"
}
