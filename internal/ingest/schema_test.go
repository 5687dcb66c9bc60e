package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe/dataprobe/pkg/models"
)

func writeSchemaFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSchemaYAML(t *testing.T) {
	path := writeSchemaFile(t, "schema.yaml", `
columns:
  - name: id
    type: integer
    required: true
    unique: true
  - name: email
    type: email
  - name: score
    type: number
    constraints:
      min: 0
      max: 100
`)

	columns, err := LoadSchema(path)
	require.NoError(t, err)
	require.Len(t, columns, 3)

	assert.Equal(t, "id", columns[0].Name)
	assert.Equal(t, models.TypeInteger, columns[0].Type)
	assert.True(t, columns[0].Required)
	assert.True(t, columns[0].Unique)

	require.NotNil(t, columns[2].Constraints)
	require.NotNil(t, columns[2].Constraints.Min)
	assert.Equal(t, 0.0, *columns[2].Constraints.Min)
	assert.Equal(t, 100.0, *columns[2].Constraints.Max)
}

func TestLoadSchemaJSON(t *testing.T) {
	path := writeSchemaFile(t, "schema.json",
		`{"columns": [{"name": "id", "type": "uuid"}, {"name": "created", "type": "date"}]}`)

	columns, err := LoadSchema(path)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, models.TypeUUID, columns[0].Type)
	assert.Equal(t, models.TypeDate, columns[1].Type)
}

func TestLoadSchemaErrors(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEMA_READ")

	_, err = LoadSchema(writeSchemaFile(t, "bad.json", `{"columns": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEMA_PARSE")

	_, err = LoadSchema(writeSchemaFile(t, "empty.yaml", "columns: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEMA_EMPTY")

	_, err = LoadSchema(writeSchemaFile(t, "nameless.yaml", "columns:\n  - type: string\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEMA_NAME")
}
