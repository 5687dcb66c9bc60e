package models

// IssueType identifies the category of a data quality issue
type IssueType string

const (
	IssueMissing         IssueType = "missing"
	IssueNull            IssueType = "null"
	IssueTypeMismatch    IssueType = "type-mismatch"
	IssueRangeMin        IssueType = "range-min"
	IssueRangeMax        IssueType = "range-max"
	IssueLengthMin       IssueType = "length-min"
	IssueLengthMax       IssueType = "length-max"
	IssuePattern         IssueType = "pattern"
	IssueEnum            IssueType = "enum"
	IssueDuplicate       IssueType = "duplicate"
	IssueFuzzyDuplicate  IssueType = "fuzzy-duplicate"
	IssueOutlier         IssueType = "outlier"
	IssueUniqueViolation IssueType = "unique-violation"
)

// Severity grades how serious an issue is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single data quality finding. Issues are data, not failures:
// validators emit them, they never abort the pipeline. RowNumber is the
// 1-indexed position in the validated row set at pipeline entry.
type Issue struct {
	RowNumber  int       `json:"row_number"`
	Column     string    `json:"column"`
	Value      string    `json:"value"`
	Type       IssueType `json:"issue_type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// IssueBreakdown is a summary projection of the issue collection,
// recomputed once per run from the collector's raw counters so capped
// issue types still report accurate totals.
type IssueBreakdown struct {
	TypeErrors           int `json:"type_errors"`
	MissingValues        int `json:"missing_values"`
	ConstraintViolations int `json:"constraint_violations"`
	Duplicates           int `json:"duplicates"`
	Outliers             int `json:"outliers"`
}

// Total returns the sum of all breakdown counters.
func (b IssueBreakdown) Total() int {
	return b.TypeErrors + b.MissingValues + b.ConstraintViolations + b.Duplicates + b.Outliers
}

// ValidationResult is the output of the validation stages, handed to the
// reporting collaborator.
type ValidationResult struct {
	Issues          []Issue                         `json:"issues"`
	Breakdown       IssueBreakdown                  `json:"issue_breakdown"`
	InvalidRowCount int                             `json:"invalid_row_count"`
	ColumnTypes     map[string]ColumnTypeDefinition `json:"column_types"`
	Warnings        []string                        `json:"warnings,omitempty"`
}
