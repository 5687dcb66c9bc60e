package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

func TestApplyAnalyzeFlagsEnablesAnalysesByDefault(t *testing.T) {
	// A flagless analyze run produces all three statistical analyses even
	// though the engine defaults leave them off.
	cfg := applyAnalyzeFlags(*models.DefaultConfig(), &AnalyzeOptions{})

	assert.True(t, cfg.EnableBenfordsLaw)
	assert.True(t, cfg.EnableCorrelation)
	assert.True(t, cfg.EnablePatternDetection)
}

func TestApplyAnalyzeFlagsNoFlagsOptOut(t *testing.T) {
	cfg := applyAnalyzeFlags(*models.DefaultConfig(), &AnalyzeOptions{NoBenford: true})
	assert.False(t, cfg.EnableBenfordsLaw)
	assert.True(t, cfg.EnableCorrelation)
	assert.True(t, cfg.EnablePatternDetection)

	cfg = applyAnalyzeFlags(*models.DefaultConfig(), &AnalyzeOptions{NoCorrelation: true})
	assert.False(t, cfg.EnableCorrelation)
	assert.True(t, cfg.EnableBenfordsLaw)

	cfg = applyAnalyzeFlags(*models.DefaultConfig(), &AnalyzeOptions{NoSeasonal: true})
	assert.False(t, cfg.EnablePatternDetection)

	cfg = applyAnalyzeFlags(*models.DefaultConfig(), &AnalyzeOptions{
		NoBenford: true, NoCorrelation: true, NoSeasonal: true,
	})
	assert.False(t, cfg.EnableBenfordsLaw)
	assert.False(t, cfg.EnableCorrelation)
	assert.False(t, cfg.EnablePatternDetection)
}

func TestApplyAnalyzeFlagsOverrides(t *testing.T) {
	opts := &AnalyzeOptions{
		DetectOutliers:   constants.OutlierMethodZScore,
		ZScoreThreshold:  2.5,
		Fuzzy:            true,
		NoDuplicates:     false,
		MaxIssuesPerType: 50,
	}
	cfg := applyAnalyzeFlags(*models.DefaultConfig(), opts)

	assert.Equal(t, constants.OutlierMethodZScore, cfg.DetectOutliers)
	assert.Equal(t, 2.5, cfg.ZScoreThreshold)
	assert.True(t, cfg.FuzzyDuplicates)
	assert.True(t, cfg.CheckDuplicates)
	assert.Equal(t, 50, cfg.MaxIssuesPerType)
}

func TestApplyAnalyzeFlagsLeavesBaseDefaults(t *testing.T) {
	// Unset flags never clobber loaded config values.
	base := *models.DefaultConfig()
	base.ZScoreThreshold = 2.0
	base.MaxIssuesPerType = 10

	cfg := applyAnalyzeFlags(base, &AnalyzeOptions{})
	assert.Equal(t, 2.0, cfg.ZScoreThreshold)
	assert.Equal(t, 10, cfg.MaxIssuesPerType)
	assert.Equal(t, constants.OutlierMethodIQR, cfg.DetectOutliers)
}
