package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// ConstraintValidator checks non-null values against their column's
// declared constraints. Violations are independent: one value may raise
// several issue types.
type ConstraintValidator struct {
	logger  *logrus.Logger
	regexes *RegexCache
}

// NewConstraintValidator creates a constraint validator with its own
// bounded pattern cache.
func NewConstraintValidator(logger *logrus.Logger) *ConstraintValidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConstraintValidator{
		logger:  logger,
		regexes: NewRegexCache(constants.DefaultRegexCacheSize, logger),
	}
}

// Name implements interfaces.Validator.
func (cv *ConstraintValidator) Name() string { return constants.StageConstraintValidation }

// Validate implements interfaces.Validator.
func (cv *ConstraintValidator) Validate(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition, sink interfaces.IssueSink) error {
	constrained := make([]models.ColumnTypeDefinition, 0, len(types))
	for _, header := range dataset.Headers {
		if def, ok := types[header]; ok && def.Constraints != nil {
			constrained = append(constrained, def)
		}
	}
	if len(constrained) == 0 {
		return nil
	}

	for i, row := range dataset.Rows {
		if i%constants.DefaultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for _, def := range constrained {
			value := row[def.Name]
			if models.IsNull(value) {
				continue
			}
			cv.checkValue(def, value, i+1, sink)
		}
	}
	return nil
}

func (cv *ConstraintValidator) checkValue(def models.ColumnTypeDefinition, value interface{}, rowNumber int, sink interfaces.IssueSink) {
	c := def.Constraints
	truncated := models.TruncateValue(value, constants.ValueTruncationLength)

	if c.Min != nil || c.Max != nil {
		if f, ok := models.ValueToFloat(value); ok {
			if c.Min != nil && f < *c.Min {
				sink.Record(models.Issue{
					RowNumber:  rowNumber,
					Column:     def.Name,
					Value:      truncated,
					Type:       models.IssueRangeMin,
					Severity:   models.SeverityError,
					Message:    fmt.Sprintf("Value %v is below the minimum %v", f, *c.Min),
					Suggestion: fmt.Sprintf("Use a value of at least %v", *c.Min),
				})
			}
			if c.Max != nil && f > *c.Max {
				sink.Record(models.Issue{
					RowNumber:  rowNumber,
					Column:     def.Name,
					Value:      truncated,
					Type:       models.IssueRangeMax,
					Severity:   models.SeverityError,
					Message:    fmt.Sprintf("Value %v is above the maximum %v", f, *c.Max),
					Suggestion: fmt.Sprintf("Use a value of at most %v", *c.Max),
				})
			}
		}
	}

	str := models.ValueToString(value)

	if c.MinLength != nil && len(str) < *c.MinLength {
		sink.Record(models.Issue{
			RowNumber:  rowNumber,
			Column:     def.Name,
			Value:      truncated,
			Type:       models.IssueLengthMin,
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Value has %d characters, minimum is %d", len(str), *c.MinLength),
			Suggestion: fmt.Sprintf("Use at least %d characters", *c.MinLength),
		})
	}
	if c.MaxLength != nil && len(str) > *c.MaxLength {
		sink.Record(models.Issue{
			RowNumber:  rowNumber,
			Column:     def.Name,
			Value:      truncated,
			Type:       models.IssueLengthMax,
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Value has %d characters, maximum is %d", len(str), *c.MaxLength),
			Suggestion: fmt.Sprintf("Use at most %d characters", *c.MaxLength),
		})
	}

	if c.Pattern != "" {
		if re, ok := cv.regexes.Get(c.Pattern); ok && !re.MatchString(str) {
			sink.Record(models.Issue{
				RowNumber:  rowNumber,
				Column:     def.Name,
				Value:      truncated,
				Type:       models.IssuePattern,
				Severity:   models.SeverityError,
				Message:    fmt.Sprintf("Value does not match pattern %q", c.Pattern),
				Suggestion: "Adjust the value to match the expected format",
			})
		}
	}

	if len(c.AllowedValues) > 0 && !contains(c.AllowedValues, str) {
		sink.Record(models.Issue{
			RowNumber:  rowNumber,
			Column:     def.Name,
			Value:      truncated,
			Type:       models.IssueEnum,
			Severity:   models.SeverityError,
			Message:    fmt.Sprintf("Value is not one of the allowed values (%s)", strings.Join(c.AllowedValues, ", ")),
			Suggestion: fmt.Sprintf("Use one of: %s", strings.Join(c.AllowedValues, ", ")),
		})
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
