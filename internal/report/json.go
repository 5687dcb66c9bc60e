package report

import (
	"encoding/json"
	"io"

	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// JSONWriter serializes an analysis report as indented JSON.
type JSONWriter struct {
	out io.Writer
}

func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out}
}

func (w *JSONWriter) Write(report *models.AnalysisReport) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.WrapError(err, errors.ErrorTypeInternal, "REPORT_ENCODE", "cannot serialize report")
	}
	return nil
}
