package validation

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe/dataprobe/pkg/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestConstraintValidatorRange(t *testing.T) {
	validator := NewConstraintValidator(logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"amount"},
		Rows: []models.Row{
			{"amount": float64(50)},
			{"amount": float64(-1)},
			{"amount": float64(101)},
		},
	}
	types := map[string]models.ColumnTypeDefinition{
		"amount": {
			Name: "amount", Type: models.TypeNumber,
			Constraints: &models.ColumnConstraints{Min: floatPtr(0), Max: floatPtr(100)},
		},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)

	assert.Equal(t, 1, collector.RawCount(models.IssueRangeMin))
	assert.Equal(t, 1, collector.RawCount(models.IssueRangeMax))
}

func TestConstraintValidatorLengthSeverity(t *testing.T) {
	validator := NewConstraintValidator(logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"code"},
		Rows: []models.Row{
			{"code": "a"},
			{"code": "abcdefghij"},
		},
	}
	types := map[string]models.ColumnTypeDefinition{
		"code": {
			Name: "code", Type: models.TypeString,
			Constraints: &models.ColumnConstraints{MinLength: intPtr(2), MaxLength: intPtr(5)},
		},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)

	issues := collector.Issues()
	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, models.SeverityWarning, issue.Severity)
	}
	// Length issues are warnings, so no row counts as invalid.
	assert.Equal(t, 0, collector.InvalidRowCount())
}

func TestConstraintValidatorPatternAndEnum(t *testing.T) {
	validator := NewConstraintValidator(logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"status"},
		Rows: []models.Row{
			{"status": "active"},
			{"status": "Deleted"},
		},
	}
	types := map[string]models.ColumnTypeDefinition{
		"status": {
			Name: "status", Type: models.TypeString,
			Constraints: &models.ColumnConstraints{
				Pattern:       "^[a-z]+$",
				AllowedValues: []string{"active", "inactive"},
			},
		},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)

	// "Deleted" violates both constraints independently.
	assert.Equal(t, 1, collector.RawCount(models.IssuePattern))
	assert.Equal(t, 1, collector.RawCount(models.IssueEnum))
}

func TestConstraintValidatorIndependentViolations(t *testing.T) {
	validator := NewConstraintValidator(logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"score"},
		Rows:    []models.Row{{"score": float64(150)}},
	}
	types := map[string]models.ColumnTypeDefinition{
		"score": {
			Name: "score", Type: models.TypeNumber,
			Constraints: &models.ColumnConstraints{
				Max:       floatPtr(100),
				MaxLength: intPtr(2),
			},
		},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)
	assert.Len(t, collector.Issues(), 2)
}

func TestConstraintValidatorSkipsNulls(t *testing.T) {
	validator := NewConstraintValidator(logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"amount"},
		Rows:    []models.Row{{"amount": nil}, {"amount": ""}},
	}
	types := map[string]models.ColumnTypeDefinition{
		"amount": {
			Name: "amount", Type: models.TypeNumber,
			Constraints: &models.ColumnConstraints{Min: floatPtr(0)},
		},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)
	assert.Empty(t, collector.Issues())
}
