package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// DuplicateDetectorConfig configures duplicate detection.
type DuplicateDetectorConfig struct {
	KeyColumns         []string `json:"key_columns" yaml:"key_columns"`
	Fuzzy              bool     `json:"fuzzy" yaml:"fuzzy"`
	FuzzyThreshold     float64  `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`
	FuzzyRowCeiling    int      `json:"fuzzy_row_ceiling" yaml:"fuzzy_row_ceiling"`
	PairwiseWindow     int      `json:"pairwise_window" yaml:"pairwise_window"`
	BucketRowThreshold int      `json:"bucket_row_threshold" yaml:"bucket_row_threshold"`
}

func getDefaultDuplicateDetectorConfig() *DuplicateDetectorConfig {
	return &DuplicateDetectorConfig{
		FuzzyThreshold:     constants.DefaultFuzzyThreshold,
		FuzzyRowCeiling:    constants.FuzzyRowCeiling,
		PairwiseWindow:     constants.FuzzyPairwiseWindow,
		BucketRowThreshold: constants.BucketedRowThreshold,
	}
}

// DuplicateDetector finds exact and fuzzy duplicate rows by key-column
// signature.
type DuplicateDetector struct {
	config *DuplicateDetectorConfig
	logger *logrus.Logger
}

// NewDuplicateDetector creates a duplicate detector. A nil config uses
// defaults: all columns as the key, fuzzy matching off.
func NewDuplicateDetector(config *DuplicateDetectorConfig, logger *logrus.Logger) *DuplicateDetector {
	if config == nil {
		config = getDefaultDuplicateDetectorConfig()
	}
	if config.FuzzyThreshold <= 0 {
		config.FuzzyThreshold = constants.DefaultFuzzyThreshold
	}
	if config.FuzzyRowCeiling <= 0 {
		config.FuzzyRowCeiling = constants.FuzzyRowCeiling
	}
	if config.PairwiseWindow <= 0 {
		config.PairwiseWindow = constants.FuzzyPairwiseWindow
	}
	if config.BucketRowThreshold <= 0 {
		config.BucketRowThreshold = constants.BucketedRowThreshold
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &DuplicateDetector{config: config, logger: logger}
}

// Name implements interfaces.Validator.
func (dd *DuplicateDetector) Name() string { return constants.StageDuplicateDetection }

// Signature builds the deterministic duplicate-detection key for a row:
// key-column values stringified and pipe-joined in key order.
func (dd *DuplicateDetector) Signature(row models.Row, keyColumns []string) string {
	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		parts[i] = models.ValueToString(row[col])
	}
	return strings.Join(parts, constants.SignatureSeparator)
}

// Validate implements interfaces.Validator: exact signature matching, plus
// bounded pairwise fuzzy matching when enabled and the dataset is small
// enough. Past the bucket row threshold the hash-bucketed strategy takes
// over so no single map holds every signature.
func (dd *DuplicateDetector) Validate(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition, sink interfaces.IssueSink) error {
	if len(dataset.Rows) > dd.config.BucketRowThreshold {
		return dd.BucketedDuplicates(ctx, dataset, 0, sink)
	}

	keyColumns := dd.config.KeyColumns
	if len(keyColumns) == 0 {
		keyColumns = dataset.Headers
	}

	// First occurrence of each signature wins; every later occurrence is an
	// issue referencing the original row.
	firstSeen := make(map[string]int, len(dataset.Rows))
	exactDuplicate := make([]bool, len(dataset.Rows))
	signatures := make([]string, len(dataset.Rows))

	for i, row := range dataset.Rows {
		if i%constants.DefaultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		sig := dd.Signature(row, keyColumns)
		signatures[i] = sig

		if original, seen := firstSeen[sig]; seen {
			exactDuplicate[i] = true
			sink.Record(models.Issue{
				RowNumber:  i + 1,
				Column:     strings.Join(keyColumns, ","),
				Value:      models.TruncateValue(sig, constants.ValueTruncationLength),
				Type:       models.IssueDuplicate,
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("Duplicate of row %d", original),
				Suggestion: "Remove or merge the duplicate row",
			})
		} else {
			firstSeen[sig] = i + 1
		}
	}

	if dd.config.Fuzzy && len(dataset.Rows) <= dd.config.FuzzyRowCeiling {
		dd.fuzzyPass(ctx, signatures, exactDuplicate, sink)
	}

	return nil
}

// fuzzyPass compares every unordered signature pair within the pairwise
// window, skipping rows already flagged as exact duplicates.
func (dd *DuplicateDetector) fuzzyPass(ctx context.Context, signatures []string, exactDuplicate []bool, sink interfaces.IssueSink) {
	window := dd.config.PairwiseWindow
	if window > len(signatures) {
		window = len(signatures)
	}

	for i := 0; i < window; i++ {
		if ctx.Err() != nil {
			return
		}
		if exactDuplicate[i] {
			continue
		}
		for j := i + 1; j < window; j++ {
			if exactDuplicate[j] || signatures[i] == signatures[j] {
				continue
			}
			similarity := Similarity(signatures[i], signatures[j])
			if similarity >= dd.config.FuzzyThreshold {
				sink.Record(models.Issue{
					RowNumber:  j + 1,
					Value:      models.TruncateValue(signatures[j], constants.ValueTruncationLength),
					Type:       models.IssueFuzzyDuplicate,
					Severity:   models.SeverityWarning,
					Message:    fmt.Sprintf("Near-duplicate of row %d (%.0f%% similar)", i+1, similarity*100),
					Suggestion: "Review the rows for unintended variants of the same record",
				})
			}
		}
	}
}

// BucketedDuplicates is the approximate large-dataset strategy: signatures
// are partitioned by 64-bit hash so no single map holds every signature.
// Matching on the hash relaxes exactness to the collision probability of
// xxh3.
func (dd *DuplicateDetector) BucketedDuplicates(ctx context.Context, dataset *models.Dataset, bucketCount int, sink interfaces.IssueSink) error {
	if bucketCount <= 0 {
		bucketCount = constants.DefaultDuplicateBuckets
	}
	keyColumns := dd.config.KeyColumns
	if len(keyColumns) == 0 {
		keyColumns = dataset.Headers
	}

	buckets := make([]map[uint64]int, bucketCount)

	for i, row := range dataset.Rows {
		if i%constants.DefaultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		sig := dd.Signature(row, keyColumns)
		h := xxh3.HashString(sig)
		b := int(h % uint64(bucketCount))
		if buckets[b] == nil {
			buckets[b] = make(map[uint64]int)
		}

		if original, seen := buckets[b][h]; seen {
			sink.Record(models.Issue{
				RowNumber:  i + 1,
				Column:     strings.Join(keyColumns, ","),
				Value:      models.TruncateValue(sig, constants.ValueTruncationLength),
				Type:       models.IssueDuplicate,
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("Duplicate of row %d (hash match)", original),
				Suggestion: "Remove or merge the duplicate row",
			})
		} else {
			buckets[b][h] = i + 1
		}
	}
	return nil
}

// Similarity is the normalized edit-distance similarity of two strings:
// 1 - levenshtein(a,b)/max(len(a),len(b)). Identical strings score 1.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes edit distance with a two-row dynamic program.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
