package constants

// Application constants
const (
	// Application metadata
	AppName        = "dataprobe"
	AppDescription = "Tabular data quality validation and statistical analytics engine"
	AppVersion     = "0.1.0"

	// Sampling defaults
	DefaultSampleSize      = 100
	TypeInferenceAgreement = 0.90 // fraction of non-null samples that must match a candidate type
	NumericColumnAgreement = 0.90 // fraction of non-null values that must parse numeric
	DateDetectionAgreement = 0.80 // fraction of samples that must parse as dates

	// Issue accounting defaults
	DefaultMaxIssuesPerType     = 100
	DefaultIssueLimitMultiplier = 10
	ValueTruncationLength       = 100

	// Duplicate detection defaults
	DefaultFuzzyThreshold   = 0.85
	FuzzyRowCeiling         = 10000
	FuzzyPairwiseWindow     = 1000
	DefaultDuplicateBuckets = 64
	BucketedRowThreshold    = 100000
	SignatureSeparator      = "|"

	// Outlier detection defaults
	DefaultZScoreThreshold = 3.0
	MinOutlierSamples      = 10
	IQRFenceMultiplier     = 1.5

	// Profiling defaults
	TopValueCount    = 10
	DefaultChunkSize = 10000

	// Regex cache
	DefaultRegexCacheSize = 100

	// Benford analysis
	MinBenfordSamples        = 100
	BenfordChiSquareCritical = 15.51 // 8 degrees of freedom, alpha 0.05
	BenfordDeviationMinimum  = 15.0
	BenfordDeviationHigh     = 30.0

	// Correlation analysis
	MinCorrelationPairs   = 10
	CorrelationPerfect    = 0.99
	CorrelationVeryStrong = 0.9
	CorrelationStrong     = 0.7

	// Seasonal analysis
	MinBucketObservations = 3
	BucketAnomalyZScore   = 2.0
	TrendStableBand       = 0.05

	// Historical analysis
	DefaultHistoryWindow   = 30
	MaxHistoryEntries      = 100
	MinHistoryPoints       = 3
	AnomalyZScoreThreshold = 2.5
	AnomalyZScoreHigh      = 3.0
	AnomalyZScoreCritical  = 4.0

	// Quality scoring weights
	WeightCompleteness = 0.30
	WeightValidity     = 0.35
	WeightUniqueness   = 0.15
	WeightConsistency  = 0.20
	MaxOutlierPenalty  = 30.0
)

// Pipeline stage names, used in warnings and metrics labels
const (
	StageTypeValidation       = "type_validation"
	StageConstraintValidation = "constraint_validation"
	StageDuplicateDetection   = "duplicate_detection"
	StageOutlierDetection     = "outlier_detection"
	StageUniqueCheck          = "unique_check"
	StageProfiling            = "profiling"
	StageScoring              = "scoring"
	StageBenford              = "benford_analysis"
	StageCorrelation          = "correlation_analysis"
	StageSeasonal             = "seasonal_analysis"
	StageHistory              = "history_analysis"
)

// Outlier detection methods
const (
	OutlierMethodIQR    = "iqr"
	OutlierMethodZScore = "zscore"
	OutlierMethodNone   = "none"
)

// History store backends
const (
	HistoryBackendFile     = "file"
	HistoryBackendRedis    = "redis"
	HistoryBackendPostgres = "postgres"
)
