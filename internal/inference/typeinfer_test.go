package inference

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/dataprobe/dataprobe/pkg/models"
)

func columnDataset(column string, values []interface{}) *models.Dataset {
	rows := make([]models.Row, len(values))
	for i, v := range values {
		rows[i] = models.Row{column: v}
	}
	return &models.Dataset{Headers: []string{column}, Rows: rows}
}

func inferSingle(t *testing.T, values []interface{}) models.ColumnType {
	t.Helper()
	ti := NewTypeInferencer(100, logrus.New())
	defs := ti.InferTypes(columnDataset("col", values))
	return defs["col"].Type
}

func TestInferTypesByColumnShape(t *testing.T) {
	cases := []struct {
		name   string
		values []interface{}
		want   models.ColumnType
	}{
		{"emails", []interface{}{"a@example.com", "b@example.com", "c@example.com"}, models.TypeEmail},
		{"urls", []interface{}{"https://example.com/a", "http://example.org"}, models.TypeURL},
		{"uuids", []interface{}{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", "6ba7b811-9dad-11d1-80b4-00c04fd430c8"}, models.TypeUUID},
		{"booleans", []interface{}{true, false, "yes", "no"}, models.TypeBoolean},
		{"integers", []interface{}{float64(1), float64(2), "3"}, models.TypeInteger},
		{"numbers", []interface{}{1.5, 2.25, "3.75"}, models.TypeNumber},
		{"dates", []interface{}{"2024-01-15", "2024-02-20", "2024-03-25"}, models.TypeDate},
		{"strings", []interface{}{"alpha", "beta", "gamma"}, models.TypeString},
		{"empty", []interface{}{nil, "", nil}, models.TypeString},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inferSingle(t, tc.values))
		})
	}
}

func TestInferTypesAgreementThreshold(t *testing.T) {
	// 9 of 10 integers: exactly at the 90% line.
	values := make([]interface{}, 0, 10)
	for i := 0; i < 9; i++ {
		values = append(values, float64(i))
	}
	values = append(values, "oops")
	assert.Equal(t, models.TypeInteger, inferSingle(t, values))

	// 8 of 10: below the line, falls back to string.
	values[8] = "also oops"
	assert.Equal(t, models.TypeString, inferSingle(t, values))
}

func TestInferTypesIgnoresNulls(t *testing.T) {
	// Nulls are excluded from the sample, so agreement is over 3 values.
	values := []interface{}{nil, "a@example.com", "", "b@example.com", "c@example.com"}
	assert.Equal(t, models.TypeEmail, inferSingle(t, values))
}

func TestInferTypesIntegerBeforeNumber(t *testing.T) {
	// Whole-valued floats satisfy both; integer is the more specific call.
	assert.Equal(t, models.TypeInteger, inferSingle(t, []interface{}{float64(10), float64(20)}))
	// A fractional value breaks integer agreement and lands on number.
	assert.Equal(t, models.TypeNumber, inferSingle(t, []interface{}{float64(10), 20.5, 30.1}))
}

func TestInferTypesSampleBound(t *testing.T) {
	ti := NewTypeInferencer(10, logrus.New())

	// Only the first 10 rows are sampled; later garbage is never seen.
	values := make([]interface{}, 50)
	for i := range values {
		if i < 10 {
			values[i] = float64(i)
		} else {
			values[i] = fmt.Sprintf("junk-%d", i)
		}
	}
	defs := ti.InferTypes(columnDataset("col", values))
	assert.Equal(t, models.TypeInteger, defs["col"].Type)
}

func TestDetectDateColumns(t *testing.T) {
	ti := NewTypeInferencer(100, logrus.New())

	rows := []models.Row{
		{"created": "2024-01-01", "name": "a"},
		{"created": "2024-01-02", "name": "b"},
		{"created": "2024-01-03", "name": "c"},
		{"created": "01/15/2024", "name": "d"},
	}
	dataset := &models.Dataset{Headers: []string{"created", "name"}, Rows: rows}

	assert.Equal(t, []string{"created"}, ti.DetectDateColumns(dataset))
}

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		input   string
		hasTime bool
	}{
		{"2024-01-15", false},
		{"2024-01-15T10:30:00Z", true},
		{"2024-01-15 10:30:00", true},
		{"01/15/2024", false},
		{"15.01.2024", false},
	}
	for _, tc := range cases {
		parsed, hasTime, ok := ParseDate(tc.input)
		assert.True(t, ok, "input %q", tc.input)
		assert.Equal(t, tc.hasTime, hasTime, "input %q", tc.input)
		assert.Equal(t, 2024, parsed.Year(), "input %q", tc.input)
	}

	_, _, ok := ParseDate("not a date")
	assert.False(t, ok)
	_, _, ok = ParseDate("12345")
	assert.False(t, ok)
}

func TestMatchesScalarTypes(t *testing.T) {
	assert.True(t, Matches(models.TypeBoolean, true))
	assert.True(t, Matches(models.TypeBoolean, "TRUE"))
	assert.False(t, Matches(models.TypeBoolean, "maybe"))

	assert.True(t, Matches(models.TypeInteger, float64(42)))
	assert.False(t, Matches(models.TypeInteger, 42.5))
	assert.True(t, Matches(models.TypeNumber, 42.5))
	assert.False(t, Matches(models.TypeNumber, "abc"))

	assert.True(t, Matches(models.TypeIP, "192.168.1.1"))
	assert.True(t, Matches(models.TypeIP, "::1"))
	assert.False(t, Matches(models.TypeIP, "999.999.999.999"))

	assert.True(t, Matches(models.TypeJSON, `{"a":1}`))
	assert.True(t, Matches(models.TypeJSON, `[1,2,3]`))
	assert.False(t, Matches(models.TypeJSON, "plain text"))

	assert.True(t, Matches(models.TypeAny, struct{}{}))
}
