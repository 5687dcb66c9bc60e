package validation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/internal/inference"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// typeSuggestions maps each column type to a remediation hint attached to
// mismatch issues.
var typeSuggestions = map[models.ColumnType]string{
	models.TypeString:  "Store the value as plain text",
	models.TypeNumber:  "Use a numeric value, e.g. 12.5",
	models.TypeInteger: "Use a whole number without a fraction, e.g. 42",
	models.TypeDate:    "Use an ISO date such as 2024-01-31 or a full timestamp",
	models.TypeEmail:   "Use a valid address such as name@example.com",
	models.TypePhone:   "Use at least 7 digits, optionally with +, spaces or dashes",
	models.TypeURL:     "Use an absolute URL including the scheme, e.g. https://example.com",
	models.TypeBoolean: "Use true/false or yes/no",
	models.TypeUUID:    "Use the canonical 8-4-4-4-12 hex form",
	models.TypeIP:      "Use a valid IPv4 or IPv6 address",
	models.TypeJSON:    "Use a well-formed JSON object or array",
}

// TypeValidator checks every row's every declared-type column against the
// column's type predicate.
type TypeValidator struct {
	logger             *logrus.Logger
	checkMissingValues bool
	chunkSize          int
}

// NewTypeValidator creates a type validator.
func NewTypeValidator(checkMissingValues bool, logger *logrus.Logger) *TypeValidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &TypeValidator{
		logger:             logger,
		checkMissingValues: checkMissingValues,
		chunkSize:          constants.DefaultChunkSize,
	}
}

// Name implements interfaces.Validator.
func (tv *TypeValidator) Name() string { return constants.StageTypeValidation }

// Validate implements interfaces.Validator. Rows are walked in fixed-size
// chunks; ctx is consulted between chunks so a cancelled run stops at a
// chunk boundary.
func (tv *TypeValidator) Validate(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition, sink interfaces.IssueSink) error {
	for start := 0; start < len(dataset.Rows); start += tv.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + tv.chunkSize
		if end > len(dataset.Rows) {
			end = len(dataset.Rows)
		}
		for i := start; i < end; i++ {
			tv.validateRow(dataset.Rows[i], i+1, dataset.Headers, types, sink)
		}
	}
	return nil
}

func (tv *TypeValidator) validateRow(row models.Row, rowNumber int, headers []string, types map[string]models.ColumnTypeDefinition, sink interfaces.IssueSink) {
	for _, header := range headers {
		def, ok := types[header]
		if !ok || def.Type == models.TypeAny {
			continue
		}

		value := row[header]
		if models.IsNull(value) {
			if !tv.checkMissingValues {
				continue
			}
			if def.Required {
				sink.Record(models.Issue{
					RowNumber: rowNumber,
					Column:    header,
					Type:      models.IssueMissing,
					Severity:  models.SeverityError,
					Message:   fmt.Sprintf("Required column %q has no value", header),
					Suggestion: "Provide a value for this required column",
				})
			} else {
				sink.Record(models.Issue{
					RowNumber: rowNumber,
					Column:    header,
					Type:      models.IssueNull,
					Severity:  models.SeverityInfo,
					Message:   fmt.Sprintf("Column %q is empty", header),
				})
			}
			continue
		}

		if !inference.Matches(def.Type, value) {
			sink.Record(models.Issue{
				RowNumber:  rowNumber,
				Column:     header,
				Value:      models.TruncateValue(value, constants.ValueTruncationLength),
				Type:       models.IssueTypeMismatch,
				Severity:   models.SeverityError,
				Message:    fmt.Sprintf("Value does not match declared type %s", def.Type),
				Suggestion: typeSuggestions[def.Type],
			})
		}
	}
}
