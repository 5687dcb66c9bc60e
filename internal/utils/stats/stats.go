package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median calculates the median of a slice of float64 values
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return MedianSorted(sorted)
}

// MedianSorted calculates the median of an already sorted slice
func MedianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Variance calculates the population variance of a slice of float64 values
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)
	sumSquaredDiff := 0.0

	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}

	return sumSquaredDiff / float64(len(values))
}

// StandardDeviation calculates the population standard deviation
func StandardDeviation(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Correlation calculates the Pearson correlation coefficient between two variables
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	numerator := 0.0
	sumXSq := 0.0
	sumYSq := 0.0

	for i := 0; i < len(x); i++ {
		diffX := x[i] - meanX
		diffY := y[i] - meanY
		numerator += diffX * diffY
		sumXSq += diffX * diffX
		sumYSq += diffY * diffY
	}

	denominator := math.Sqrt(sumXSq * sumYSq)
	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// Percentile calculates the p-th percentile of a sorted slice using linear
// interpolation between closest ranks.
func PercentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Percentile calculates the p-th percentile of a slice of values
func Percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return PercentileSorted(sorted, p)
}

// Quartiles returns Q1, median and Q3 of a sorted slice.
func QuartilesSorted(sorted []float64) (q1, q2, q3 float64) {
	q1 = PercentileSorted(sorted, 25)
	q2 = MedianSorted(sorted)
	q3 = PercentileSorted(sorted, 75)
	return q1, q2, q3
}

// OutlierBounds calculates the lower and upper IQR fences of a sorted slice
func OutlierBoundsSorted(sorted []float64, multiplier float64) (lower, upper float64) {
	q1 := PercentileSorted(sorted, 25)
	q3 := PercentileSorted(sorted, 75)
	iqr := q3 - q1

	lower = q1 - multiplier*iqr
	upper = q3 + multiplier*iqr
	return lower, upper
}

// ZScores calculates the z-score for each value. A zero standard deviation
// yields all-zero scores.
func ZScores(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	mean := Mean(values)
	std := StandardDeviation(values)

	if std == 0 {
		return make([]float64, len(values))
	}

	scores := make([]float64, len(values))
	for i, v := range values {
		scores[i] = (v - mean) / std
	}

	return scores
}

// LinearRegression fits an ordinary-least-squares line over values indexed
// 0..n-1 and returns the slope, intercept and coefficient of determination.
func LinearRegression(values []float64) (slope, intercept, r2 float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, Mean(values), 0
	}

	sumX := n * (n - 1) / 2
	sumX2 := n * (n - 1) * (2*n - 1) / 6
	sumY := 0.0
	sumXY := 0.0
	sumY2 := 0.0

	for i, y := range values {
		x := float64(i)
		sumY += y
		sumXY += x * y
		sumY2 += y * y
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0, sumY / n, 0
	}

	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n

	yMean := sumY / n
	ssTotal := sumY2 - n*yMean*yMean
	if ssTotal == 0 {
		return slope, intercept, 1.0
	}

	ssRes := 0.0
	for i, y := range values {
		predicted := slope*float64(i) + intercept
		residual := y - predicted
		ssRes += residual * residual
	}

	r2 = 1 - ssRes/ssTotal
	if r2 < 0 {
		r2 = 0
	}
	return slope, intercept, r2
}

// Running accumulates min, max, sum and count in a single pass so large
// columns never need a spread-style reduction or a second traversal.
type Running struct {
	Count int
	Sum   float64
	Min   float64
	Max   float64
}

// Add folds one value into the accumulator.
func (r *Running) Add(v float64) {
	if r.Count == 0 {
		r.Min = v
		r.Max = v
	} else {
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	r.Sum += v
	r.Count++
}

// Mean returns the running mean, 0 for an empty accumulator.
func (r *Running) Mean() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.Sum / float64(r.Count)
}
