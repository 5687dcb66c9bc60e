package validation

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe/dataprobe/pkg/models"
)

func TestTypeValidatorMismatch(t *testing.T) {
	validator := NewTypeValidator(true, logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"age"},
		Rows: []models.Row{
			{"age": float64(30)},
			{"age": "not a number"},
		},
	}
	types := map[string]models.ColumnTypeDefinition{
		"age": {Name: "age", Type: models.TypeInteger},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)

	issues := collector.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, models.IssueTypeMismatch, issues[0].Type)
	assert.Equal(t, models.SeverityError, issues[0].Severity)
	assert.Equal(t, 2, issues[0].RowNumber)
	assert.Equal(t, "age", issues[0].Column)
	assert.NotEmpty(t, issues[0].Suggestion)
}

func TestTypeValidatorRequiredMissing(t *testing.T) {
	validator := NewTypeValidator(true, logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"email", "note"},
		Rows: []models.Row{
			{"email": nil, "note": ""},
		},
	}
	types := map[string]models.ColumnTypeDefinition{
		"email": {Name: "email", Type: models.TypeEmail, Required: true},
		"note":  {Name: "note", Type: models.TypeString},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)

	assert.Equal(t, 1, collector.RawCount(models.IssueMissing))
	assert.Equal(t, 1, collector.RawCount(models.IssueNull))
	assert.Equal(t, 1, collector.InvalidRowCount())
}

func TestTypeValidatorMissingChecksDisabled(t *testing.T) {
	validator := NewTypeValidator(false, logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"email"},
		Rows:    []models.Row{{"email": nil}},
	}
	types := map[string]models.ColumnTypeDefinition{
		"email": {Name: "email", Type: models.TypeEmail, Required: true},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)
	assert.Empty(t, collector.Issues())
}

func TestTypeValidatorSkipsAnyType(t *testing.T) {
	validator := NewTypeValidator(true, logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"blob"},
		Rows:    []models.Row{{"blob": "anything goes"}},
	}
	types := map[string]models.ColumnTypeDefinition{
		"blob": {Name: "blob", Type: models.TypeAny},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)
	assert.Empty(t, collector.Issues())
}

func TestTypeValidatorCancelledContext(t *testing.T) {
	validator := NewTypeValidator(true, logrus.New())
	collector := NewCollector(100, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dataset := &models.Dataset{
		Headers: []string{"age"},
		Rows:    []models.Row{{"age": "x"}},
	}
	types := map[string]models.ColumnTypeDefinition{
		"age": {Name: "age", Type: models.TypeInteger},
	}

	err := validator.Validate(ctx, dataset, types, collector)
	assert.ErrorIs(t, err, context.Canceled)
}
