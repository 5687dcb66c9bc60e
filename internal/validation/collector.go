package validation

import (
	"github.com/dataprobe/dataprobe/pkg/models"
)

// Collector accumulates issues with a per-type materialization cap and a
// global merged-list cap. Raw counters always reflect the true totals, so
// the breakdown stays accurate no matter how many issues were dropped.
type Collector struct {
	maxPerType  int
	globalLimit int
	counts      map[models.IssueType]int
	perColumn   map[models.IssueType]map[string]int
	issues      []models.Issue
	invalidRows map[int]struct{}
}

// NewCollector creates a collector with the given per-type cap and global
// multiplier.
func NewCollector(maxPerType, limitMultiplier int) *Collector {
	if maxPerType <= 0 {
		maxPerType = 100
	}
	if limitMultiplier <= 0 {
		limitMultiplier = 10
	}
	return &Collector{
		maxPerType:  maxPerType,
		globalLimit: maxPerType * limitMultiplier,
		counts:      make(map[models.IssueType]int),
		perColumn:   make(map[models.IssueType]map[string]int),
		invalidRows: make(map[int]struct{}),
	}
}

// Record counts the issue and materializes it unless its type already hit
// the cap.
func (c *Collector) Record(issue models.Issue) {
	c.counts[issue.Type]++
	if issue.Column != "" {
		cols := c.perColumn[issue.Type]
		if cols == nil {
			cols = make(map[string]int)
			c.perColumn[issue.Type] = cols
		}
		cols[issue.Column]++
	}
	if issue.Severity == models.SeverityError && issue.RowNumber > 0 {
		c.invalidRows[issue.RowNumber] = struct{}{}
	}
	if c.counts[issue.Type] <= c.maxPerType {
		c.issues = append(c.issues, issue)
	}
}

// RawCount returns the true number of issues recorded for a type,
// including issues beyond the materialization cap.
func (c *Collector) RawCount(issueType models.IssueType) int {
	return c.counts[issueType]
}

// Issues returns the materialized issue list, truncated at the global cap.
func (c *Collector) Issues() []models.Issue {
	if len(c.issues) > c.globalLimit {
		return c.issues[:c.globalLimit]
	}
	return c.issues
}

// InvalidRowCount returns the number of distinct rows that raised at least
// one error-severity issue.
func (c *Collector) InvalidRowCount() int {
	return len(c.invalidRows)
}

// Counts returns a copy of the raw per-type counters.
func (c *Collector) Counts() map[models.IssueType]int {
	counts := make(map[models.IssueType]int, len(c.counts))
	for t, n := range c.counts {
		counts[t] = n
	}
	return counts
}

// ColumnCount returns the true number of issues of a type recorded against
// a specific column.
func (c *Collector) ColumnCount(issueType models.IssueType, column string) int {
	return c.perColumn[issueType][column]
}

// ColumnCounts returns the per-column counters for one issue type.
func (c *Collector) ColumnCounts(issueType models.IssueType) map[string]int {
	return c.perColumn[issueType]
}

// Breakdown projects raw counters into category totals.
func (c *Collector) Breakdown() models.IssueBreakdown {
	return models.IssueBreakdown{
		TypeErrors:    c.counts[models.IssueTypeMismatch],
		MissingValues: c.counts[models.IssueMissing] + c.counts[models.IssueNull],
		ConstraintViolations: c.counts[models.IssueRangeMin] + c.counts[models.IssueRangeMax] +
			c.counts[models.IssueLengthMin] + c.counts[models.IssueLengthMax] +
			c.counts[models.IssuePattern] + c.counts[models.IssueEnum],
		Duplicates: c.counts[models.IssueDuplicate] + c.counts[models.IssueFuzzyDuplicate] +
			c.counts[models.IssueUniqueViolation],
		Outliers: c.counts[models.IssueOutlier],
	}
}
