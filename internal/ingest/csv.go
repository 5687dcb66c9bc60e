package ingest

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// Loader reads tabular input into the canonical Dataset shape.
type Loader struct {
	logger *logrus.Logger
}

func NewLoader(logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
	}
	return &Loader{logger: logger}
}

// LoadFile dispatches on the file extension. ".csv" parses as CSV with a
// header row; anything else is treated as JSON.
func (l *Loader) LoadFile(path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeInput, "OPEN_FAILED", "cannot open input file")
	}
	defer f.Close()

	var dataset *models.Dataset
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		dataset, err = l.LoadCSV(f)
	} else {
		dataset, err = l.LoadJSON(f)
	}
	if err != nil {
		return nil, err
	}
	dataset.SourceURL = path
	return dataset, nil
}

// LoadCSV parses CSV input. The first record is the header row; cell values
// are converted to numbers and booleans where the text form is unambiguous,
// and empty cells become nulls.
func (l *Loader) LoadCSV(r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("EMPTY_INPUT", errors.ErrNoInput.Error())
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeParsing, "CSV_HEADER", "cannot read CSV header row")
	}

	var rows []models.Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeParsing, "CSV_RECORD",
				"cannot read CSV record").WithContext("line", line)
		}
		row := make(models.Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = coerceCell(record[i])
			} else {
				row[header] = nil
			}
		}
		rows = append(rows, row)
	}

	l.logger.WithFields(logrus.Fields{
		"rows":    len(rows),
		"columns": len(headers),
	}).Debug("Parsed CSV input")

	return &models.Dataset{Rows: rows, Headers: headers}, nil
}

// LoadJSON decodes JSON input and normalizes it into a Dataset. Numbers
// decode as float64, which is the numeric shape the engine works with.
func (l *Loader) LoadJSON(r io.Reader) (*models.Dataset, error) {
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeParsing, "JSON_DECODE", errors.ErrParseFailed.Error())
	}
	return Normalize(doc)
}

// coerceCell maps a CSV text cell onto the typed value space JSON input
// produces: empty becomes nil, numeric text becomes float64, and a strict
// true/false becomes bool. Everything else stays a string.
func coerceCell(cell string) interface{} {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return n
	}
	switch cell {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	return cell
}
