package quality

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// ScoringWeights defines the weight of each quality dimension in the
// composite score. Weights should sum to 1.
type ScoringWeights struct {
	Completeness float64 `json:"completeness" yaml:"completeness"`
	Validity     float64 `json:"validity" yaml:"validity"`
	Uniqueness   float64 `json:"uniqueness" yaml:"uniqueness"`
	Consistency  float64 `json:"consistency" yaml:"consistency"`
}

func getDefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Completeness: constants.WeightCompleteness,
		Validity:     constants.WeightValidity,
		Uniqueness:   constants.WeightUniqueness,
		Consistency:  constants.WeightConsistency,
	}
}

// ScoreInput carries everything the scorer consumes: the issue breakdown,
// the column profiles, and the per-column outlier counters.
type ScoreInput struct {
	Breakdown         models.IssueBreakdown
	Profiles          []models.ColumnProfile
	TotalRows         int
	UniqueDeclared    bool
	OutliersByColumn  map[string]int
}

// Scorer combines validation results and profiles into the 0-100 composite
// quality score.
type Scorer struct {
	logger  *logrus.Logger
	weights ScoringWeights
}

// NewScorer creates a quality scorer. Zero-valued weights fall back to the
// documented defaults.
func NewScorer(weights *ScoringWeights, logger *logrus.Logger) *Scorer {
	w := getDefaultScoringWeights()
	if weights != nil {
		w = *weights
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Scorer{logger: logger, weights: w}
}

// Score computes the composite quality score. Every dimension and the
// overall score are clamped to [0,100] regardless of issue volume.
func (s *Scorer) Score(input ScoreInput) *models.QualityScore {
	totalCells := input.TotalRows * len(input.Profiles)

	completeness := 100.0
	validity := 100.0
	if totalCells > 0 {
		totalNulls := 0
		for _, p := range input.Profiles {
			totalNulls += p.NullCount
		}
		completeness = 100 * (1 - float64(totalNulls)/float64(totalCells))

		invalid := input.Breakdown.TypeErrors + input.Breakdown.ConstraintViolations
		validity = 100 * (1 - float64(invalid)/float64(totalCells))
	}

	// Uniqueness only means something when unique columns are declared;
	// otherwise a dataset with legitimate repeats would be punished.
	uniqueness := 100.0
	if input.UniqueDeclared && input.TotalRows > 0 {
		uniqueness = 100 * (1 - float64(input.Breakdown.Duplicates)/float64(input.TotalRows))
	}

	consistency := s.consistency(input)

	overall := s.weights.Completeness*completeness +
		s.weights.Validity*validity +
		s.weights.Uniqueness*uniqueness +
		s.weights.Consistency*consistency

	score := &models.QualityScore{
		Overall:      clamp(math.Round(overall)),
		Completeness: clamp(completeness),
		Validity:     clamp(validity),
		Uniqueness:   clamp(uniqueness),
		Consistency:  clamp(consistency),
	}
	score.Grade = models.GradeForScore(score.Overall)

	s.logger.WithFields(logrus.Fields{
		"overall": score.Overall,
		"grade":   score.Grade,
	}).Debug("Quality score computed")

	return score
}

// consistency averages per-column scores. A numeric column is penalized by
// its own outlier ratio, capped at 30 points; non-numeric columns score
// 100. Using the column's own outlier count (rather than the run-wide
// total) keeps the penalty even across multiple numeric columns.
func (s *Scorer) consistency(input ScoreInput) float64 {
	if len(input.Profiles) == 0 {
		return 100
	}

	total := 0.0
	for _, p := range input.Profiles {
		score := 100.0
		if p.NumericStats != nil && p.TotalCount > 0 {
			ratio := float64(input.OutliersByColumn[p.Name]) / float64(p.TotalCount)
			penalty := 100 * ratio
			if penalty > constants.MaxOutlierPenalty {
				penalty = constants.MaxOutlierPenalty
			}
			score -= penalty
		}
		total += score
	}
	return total / float64(len(input.Profiles))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
