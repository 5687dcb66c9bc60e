package models

import (
	"fmt"
)

// Config is the engine configuration: every recognized option as a named,
// typed, defaulted field, validated once at pipeline entry.
type Config struct {
	AutoDetectTypes          bool     `json:"auto_detect_types" yaml:"auto_detect_types" mapstructure:"auto_detect_types"`
	CheckDuplicates          bool     `json:"check_duplicates" yaml:"check_duplicates" mapstructure:"check_duplicates"`
	CheckMissingValues       bool     `json:"check_missing_values" yaml:"check_missing_values" mapstructure:"check_missing_values"`
	DetectOutliers           string   `json:"detect_outliers" yaml:"detect_outliers" mapstructure:"detect_outliers"` // iqr, zscore, none
	ZScoreThreshold          float64  `json:"zscore_threshold" yaml:"zscore_threshold" mapstructure:"zscore_threshold"`
	FuzzyDuplicates          bool     `json:"fuzzy_duplicates" yaml:"fuzzy_duplicates" mapstructure:"fuzzy_duplicates"`
	FuzzySimilarityThreshold float64  `json:"fuzzy_similarity_threshold" yaml:"fuzzy_similarity_threshold" mapstructure:"fuzzy_similarity_threshold"`
	DuplicateColumns         []string `json:"duplicate_columns" yaml:"duplicate_columns" mapstructure:"duplicate_columns"`
	UniqueColumns            []string `json:"unique_columns" yaml:"unique_columns" mapstructure:"unique_columns"`
	MaxIssuesPerType         int      `json:"max_issues_per_type" yaml:"max_issues_per_type" mapstructure:"max_issues_per_type"`
	IssueLimitMultiplier     int      `json:"issue_limit_multiplier" yaml:"issue_limit_multiplier" mapstructure:"issue_limit_multiplier"`
	EnableBenfordsLaw        bool     `json:"enable_benfords_law" yaml:"enable_benfords_law" mapstructure:"enable_benfords_law"`
	EnableCorrelation        bool     `json:"enable_correlation_analysis" yaml:"enable_correlation_analysis" mapstructure:"enable_correlation_analysis"`
	EnablePatternDetection   bool     `json:"enable_pattern_detection" yaml:"enable_pattern_detection" mapstructure:"enable_pattern_detection"`
	SampleSize               int      `json:"sample_size" yaml:"sample_size" mapstructure:"sample_size"`
}

// DefaultConfig returns a Config with every field at its documented default.
func DefaultConfig() *Config {
	return &Config{
		AutoDetectTypes:          true,
		CheckDuplicates:          true,
		CheckMissingValues:       true,
		DetectOutliers:           "iqr",
		ZScoreThreshold:          3.0,
		FuzzyDuplicates:          false,
		FuzzySimilarityThreshold: 0.85,
		MaxIssuesPerType:         100,
		IssueLimitMultiplier:     10,
		EnableBenfordsLaw:        false,
		EnableCorrelation:        false,
		EnablePatternDetection:   false,
		SampleSize:               100,
	}
}

// Validate checks option values and fills zero-valued numeric options with
// their defaults so partially populated configs behave predictably.
func (c *Config) Validate() error {
	switch c.DetectOutliers {
	case "", "iqr", "zscore", "none":
	default:
		return fmt.Errorf("detect_outliers must be one of iqr, zscore, none; got %q", c.DetectOutliers)
	}
	if c.DetectOutliers == "" {
		c.DetectOutliers = "iqr"
	}
	if c.ZScoreThreshold < 0 {
		return fmt.Errorf("zscore_threshold must be non-negative; got %v", c.ZScoreThreshold)
	}
	if c.ZScoreThreshold == 0 {
		c.ZScoreThreshold = 3.0
	}
	if c.FuzzySimilarityThreshold < 0 || c.FuzzySimilarityThreshold > 1 {
		return fmt.Errorf("fuzzy_similarity_threshold must be in [0,1]; got %v", c.FuzzySimilarityThreshold)
	}
	if c.FuzzySimilarityThreshold == 0 {
		c.FuzzySimilarityThreshold = 0.85
	}
	if c.MaxIssuesPerType < 0 {
		return fmt.Errorf("max_issues_per_type must be non-negative; got %d", c.MaxIssuesPerType)
	}
	if c.MaxIssuesPerType == 0 {
		c.MaxIssuesPerType = 100
	}
	if c.IssueLimitMultiplier <= 0 {
		c.IssueLimitMultiplier = 10
	}
	if c.SampleSize <= 0 {
		c.SampleSize = 100
	}
	return nil
}
