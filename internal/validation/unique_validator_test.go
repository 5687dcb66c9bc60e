package validation

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe/dataprobe/pkg/models"
)

func TestUniqueValidatorConfiguredColumns(t *testing.T) {
	validator := NewUniqueValidator([]string{"email"}, logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"email"},
		Rows: []models.Row{
			{"email": "a@example.com"},
			{"email": "b@example.com"},
			{"email": "a@example.com"},
		},
	}

	err := validator.Validate(context.Background(), dataset, nil, collector)
	require.NoError(t, err)

	issues := collector.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, models.IssueUniqueViolation, issues[0].Type)
	assert.Equal(t, models.SeverityError, issues[0].Severity)
	assert.Equal(t, 3, issues[0].RowNumber)
	assert.Contains(t, issues[0].Message, "row 1")
}

func TestUniqueValidatorSchemaDeclared(t *testing.T) {
	validator := NewUniqueValidator(nil, logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"id", "name"},
		Rows: []models.Row{
			{"id": float64(1), "name": "a"},
			{"id": float64(1), "name": "b"},
		},
	}
	types := map[string]models.ColumnTypeDefinition{
		"id":   {Name: "id", Type: models.TypeInteger, Unique: true},
		"name": {Name: "name", Type: models.TypeString},
	}

	err := validator.Validate(context.Background(), dataset, types, collector)
	require.NoError(t, err)
	assert.Equal(t, 1, collector.RawCount(models.IssueUniqueViolation))
}

func TestUniqueValidatorIgnoresNulls(t *testing.T) {
	validator := NewUniqueValidator([]string{"code"}, logrus.New())
	collector := NewCollector(100, 10)

	dataset := &models.Dataset{
		Headers: []string{"code"},
		Rows: []models.Row{
			{"code": nil},
			{"code": nil},
			{"code": ""},
		},
	}

	err := validator.Validate(context.Background(), dataset, nil, collector)
	require.NoError(t, err)
	assert.Empty(t, collector.Issues())
}
