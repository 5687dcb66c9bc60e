package validation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// UniqueValidator enforces declared unique columns: any value seen more
// than once in such a column raises a violation referencing the first
// occurrence.
type UniqueValidator struct {
	logger  *logrus.Logger
	columns []string
}

// NewUniqueValidator creates a unique-column validator for the given
// columns. Columns also marked Unique in the type definitions are added at
// validation time.
func NewUniqueValidator(columns []string, logger *logrus.Logger) *UniqueValidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &UniqueValidator{logger: logger, columns: columns}
}

// Name implements interfaces.Validator.
func (uv *UniqueValidator) Name() string { return constants.StageUniqueCheck }

// Validate implements interfaces.Validator.
func (uv *UniqueValidator) Validate(ctx context.Context, dataset *models.Dataset, types map[string]models.ColumnTypeDefinition, sink interfaces.IssueSink) error {
	columns := uv.effectiveColumns(dataset, types)
	if len(columns) == 0 {
		return nil
	}

	seen := make(map[string]map[string]int, len(columns))
	for _, col := range columns {
		seen[col] = make(map[string]int)
	}

	for i, row := range dataset.Rows {
		if i%constants.DefaultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for _, col := range columns {
			value := row[col]
			if models.IsNull(value) {
				continue
			}
			key := models.ValueToString(value)
			if original, exists := seen[col][key]; exists {
				sink.Record(models.Issue{
					RowNumber:  i + 1,
					Column:     col,
					Value:      models.TruncateValue(value, constants.ValueTruncationLength),
					Type:       models.IssueUniqueViolation,
					Severity:   models.SeverityError,
					Message:    fmt.Sprintf("Value already used in row %d of unique column %q", original, col),
					Suggestion: "Assign a distinct value",
				})
			} else {
				seen[col][key] = i + 1
			}
		}
	}
	return nil
}

func (uv *UniqueValidator) effectiveColumns(dataset *models.Dataset, types map[string]models.ColumnTypeDefinition) []string {
	set := make(map[string]struct{}, len(uv.columns))
	var columns []string
	add := func(col string) {
		if _, dup := set[col]; !dup {
			set[col] = struct{}{}
			columns = append(columns, col)
		}
	}
	for _, col := range uv.columns {
		add(col)
	}
	for _, header := range dataset.Headers {
		if def, ok := types[header]; ok && def.Unique {
			add(header)
		}
	}
	return columns
}
