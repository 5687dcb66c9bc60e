package ingest

import (
	"fmt"
	"sort"

	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// maxEnvelopeDepth bounds how many wrapper objects Normalize unwraps
// before giving up. Deeply nested payloads are rejected rather than
// searched exhaustively.
const maxEnvelopeDepth = 3

// envelopeKeys are the wrapper field names commonly used by APIs that
// return tabular data inside an object. Checked in order.
var envelopeKeys = []string{"rows", "data", "records", "items", "results"}

// Normalize converts an arbitrary decoded JSON document into a Dataset.
// Accepted shapes are a bare array of objects, or an object wrapping such
// an array under one of the conventional envelope keys, up to three
// wrappers deep. Header order is taken from the first row's keys sorted
// lexically unless the envelope carries an explicit "headers" array.
func Normalize(doc interface{}) (*models.Dataset, error) {
	var headers []string

	current := doc
	for depth := 0; ; depth++ {
		switch v := current.(type) {
		case []interface{}:
			rows, err := coerceRows(v)
			if err != nil {
				return nil, err
			}
			if headers == nil {
				headers = headersFromRows(rows)
			}
			return &models.Dataset{Rows: rows, Headers: headers}, nil
		case map[string]interface{}:
			if depth >= maxEnvelopeDepth {
				return nil, errors.NewParsingError("NORMALIZE_DEPTH", errors.ErrNormalizeDepth.Error())
			}
			if h, ok := headerList(v["headers"]); ok {
				headers = h
			}
			inner, ok := unwrap(v)
			if !ok {
				return nil, errors.NewParsingError("UNSUPPORTED_INPUT",
					"object carries no recognizable row collection")
			}
			current = inner
		default:
			return nil, errors.NewParsingError("UNSUPPORTED_INPUT", errors.ErrUnsupportedInput.Error())
		}
	}
}

func headersFromRows(rows []models.Row) []string {
	if len(rows) == 0 {
		return []string{}
	}
	headers := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func unwrap(obj map[string]interface{}) (interface{}, bool) {
	for _, key := range envelopeKeys {
		if inner, ok := obj[key]; ok {
			return inner, true
		}
	}
	return nil, false
}

func coerceRows(items []interface{}) ([]models.Row, error) {
	rows := make([]models.Row, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.NewParsingError("INVALID_ROW",
				fmt.Sprintf("row %d is not an object", i))
		}
		rows = append(rows, models.Row(obj))
	}
	return rows, nil
}

func headerList(v interface{}) ([]string, bool) {
	items, ok := v.([]interface{})
	if !ok || len(items) == 0 {
		return nil, false
	}
	headers := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		headers = append(headers, s)
	}
	return headers, true
}
