package ingest

import (
	"encoding/json"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// schemaFile is the on-disk schema document: a list of column definitions
// under a "columns" key.
type schemaFile struct {
	Columns []models.ColumnTypeDefinition `json:"columns" yaml:"columns"`
}

// LoadSchema reads a column schema from a YAML or JSON file. A ".json"
// extension selects JSON; everything else parses as YAML.
func LoadSchema(path string) ([]models.ColumnTypeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeInput, "SCHEMA_READ", "cannot read schema file")
	}

	var doc schemaFile
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeParsing, "SCHEMA_PARSE", errors.ErrMalformedSchema.Error())
	}
	if len(doc.Columns) == 0 {
		return nil, errors.NewInputError("SCHEMA_EMPTY", "schema file declares no columns")
	}
	for _, def := range doc.Columns {
		if def.Name == "" {
			return nil, errors.NewInputError("SCHEMA_NAME", "schema entry without a column name")
		}
	}
	return doc.Columns, nil
}
