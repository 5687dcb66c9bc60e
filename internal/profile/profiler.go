package profile

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/internal/utils/stats"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// Profiler computes per-column descriptive statistics. It holds no
// cross-column state; each column is profiled independently from the
// current row set.
type Profiler struct {
	logger *logrus.Logger
}

// NewProfiler creates a column profiler.
func NewProfiler(logger *logrus.Logger) *Profiler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Profiler{logger: logger}
}

// ProfileDataset profiles every column in header order.
func (p *Profiler) ProfileDataset(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition) (*models.ProfileResult, error) {
	columns := make([]models.ColumnProfile, 0, len(dataset.Headers))
	for _, header := range dataset.Headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		detected := models.TypeString
		if def, ok := types[header]; ok {
			detected = def.Type
		}
		columns = append(columns, p.ProfileColumn(dataset, header, detected))
	}
	return &models.ProfileResult{Columns: columns}, nil
}

// ProfileColumn profiles a single column: null and uniqueness counts, the
// top-10 most frequent values, and either numeric or string statistics
// depending on whether at least 90% of non-null values parse as finite
// numbers.
func (p *Profiler) ProfileColumn(dataset *models.Dataset, column string, detected models.ColumnType) models.ColumnProfile {
	profile := models.ColumnProfile{
		Name:         column,
		TotalCount:   len(dataset.Rows),
		DetectedType: detected,
	}

	valueCounts := make(map[string]int)
	numeric := make([]float64, 0, len(dataset.Rows))
	nonNull := 0

	// Length stats accumulate in a single pass so arbitrarily large columns
	// never build an intermediate length array.
	lengths := stats.Running{}

	for _, row := range dataset.Rows {
		v := row[column]
		if models.IsNull(v) {
			profile.NullCount++
			continue
		}
		nonNull++

		s := models.ValueToString(v)
		valueCounts[s]++
		lengths.Add(float64(len(s)))

		if f, ok := models.ValueToFloat(v); ok {
			numeric = append(numeric, f)
		}
	}

	if profile.TotalCount > 0 {
		profile.NullPercent = 100 * float64(profile.NullCount) / float64(profile.TotalCount)
	}
	profile.UniqueCount = len(valueCounts)
	if nonNull > 0 {
		profile.UniquePercent = 100 * float64(profile.UniqueCount) / float64(nonNull)
	}
	profile.MostCommon = topValues(valueCounts, nonNull, constants.TopValueCount)

	if nonNull > 0 && float64(len(numeric))/float64(nonNull) >= constants.NumericColumnAgreement {
		profile.NumericStats = numericStats(numeric)
	} else if nonNull > 0 {
		profile.StringStats = &models.StringStats{
			MinLength: int(lengths.Min),
			MaxLength: int(lengths.Max),
			AvgLength: lengths.Mean(),
		}
	}

	return profile
}

// numericStats sorts once and derives all order statistics from the sorted
// copy; min, max and sum come from a single accumulating pass.
func numericStats(values []float64) *models.NumericStats {
	if len(values) == 0 {
		return nil
	}

	acc := stats.Running{}
	for _, v := range values {
		acc.Add(v)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1, median, q3 := stats.QuartilesSorted(sorted)

	return &models.NumericStats{
		Min:    acc.Min,
		Max:    acc.Max,
		Mean:   acc.Mean(),
		Median: median,
		StdDev: stats.StandardDeviation(values),
		Q1:     q1,
		Q3:     q3,
		Sum:    acc.Sum,
	}
}

func topValues(counts map[string]int, nonNull, limit int) []models.ValueCount {
	ranked := make([]models.ValueCount, 0, len(counts))
	for value, count := range counts {
		vc := models.ValueCount{Value: value, Count: count}
		if nonNull > 0 {
			vc.Percent = 100 * float64(count) / float64(nonNull)
		}
		ranked = append(ranked, vc)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Value < ranked[j].Value
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
