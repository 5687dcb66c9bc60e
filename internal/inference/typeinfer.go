package inference

import (
	"encoding/json"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9\s().\-]{7,20}$`)
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
)

// dateLayouts covers ISO, RFC3339 and the US/EU forms the engine accepts.
// Order matters: more specific layouts first so timestamps keep their time
// component.
var dateLayouts = []struct {
	layout  string
	hasTime bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", false},
	{"01/02/2006 15:04:05", true},
	{"01/02/2006", false},
	{"1/2/2006", false},
	{"02.01.2006 15:04:05", true},
	{"02.01.2006", false},
	{"2.1.2006", false},
}

// ParseDate parses a value under the engine's date heuristics. The second
// return reports whether the parsed value carries a time-of-day component.
func ParseDate(s string) (time.Time, bool, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, dl := range dateLayouts {
		if t, err := time.Parse(dl.layout, s); err == nil {
			return t, dl.hasTime, true
		}
	}
	return time.Time{}, false, false
}

// IsDate reports whether the value parses under any accepted date layout.
func IsDate(s string) bool {
	_, _, ok := ParseDate(s)
	return ok
}

// Matches reports whether a non-null value satisfies the predicate of the
// given column type.
func Matches(t models.ColumnType, v interface{}) bool {
	switch t {
	case models.TypeAny:
		return true
	case models.TypeString:
		return true
	case models.TypeBoolean:
		return isBoolean(v)
	case models.TypeInteger:
		return isInteger(v)
	case models.TypeNumber:
		_, ok := models.ValueToFloat(v)
		return ok
	case models.TypeDate:
		return IsDate(models.ValueToString(v))
	case models.TypeEmail:
		return emailPattern.MatchString(strings.TrimSpace(models.ValueToString(v)))
	case models.TypePhone:
		return isPhone(models.ValueToString(v))
	case models.TypeURL:
		return isURL(models.ValueToString(v))
	case models.TypeUUID:
		_, err := uuid.Parse(strings.TrimSpace(models.ValueToString(v)))
		return err == nil
	case models.TypeIP:
		return net.ParseIP(strings.TrimSpace(models.ValueToString(v))) != nil
	case models.TypeJSON:
		return isJSON(models.ValueToString(v))
	default:
		return false
	}
}

func isBoolean(v interface{}) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(models.ValueToString(v))) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

func isInteger(v interface{}) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return n == float64(int64(n))
	case float32:
		return float64(n) == float64(int64(n))
	}
	return integerPattern.MatchString(strings.TrimSpace(models.ValueToString(v)))
}

func isPhone(s string) bool {
	s = strings.TrimSpace(s)
	if !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

func isURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "ftp") && u.Host != ""
}

func isJSON(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return false
	}
	if s[0] != '{' && s[0] != '[' {
		return false
	}
	return json.Valid([]byte(s))
}

// candidateOrder lists auto-detectable types from most to least specific.
// A column is assigned the first candidate that at least 90% of its
// non-null sampled values satisfy; string is the fallback.
var candidateOrder = []models.ColumnType{
	models.TypeEmail,
	models.TypeURL,
	models.TypeUUID,
	models.TypeBoolean,
	models.TypeInteger,
	models.TypeNumber,
	models.TypeDate,
}

// TypeInferencer derives column type definitions from a bounded row sample.
type TypeInferencer struct {
	logger     *logrus.Logger
	sampleSize int
}

// NewTypeInferencer creates a type inferencer with the given sample size.
// A non-positive sample size falls back to the default.
func NewTypeInferencer(sampleSize int, logger *logrus.Logger) *TypeInferencer {
	if sampleSize <= 0 {
		sampleSize = constants.DefaultSampleSize
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &TypeInferencer{logger: logger, sampleSize: sampleSize}
}

// InferTypes derives a type definition per header from the dataset. Columns
// whose sample is entirely null fall back to string.
func (ti *TypeInferencer) InferTypes(dataset *models.Dataset) map[string]models.ColumnTypeDefinition {
	defs := make(map[string]models.ColumnTypeDefinition, len(dataset.Headers))

	limit := ti.sampleSize
	if limit > len(dataset.Rows) {
		limit = len(dataset.Rows)
	}

	for _, header := range dataset.Headers {
		sample := make([]interface{}, 0, limit)
		for i := 0; i < limit; i++ {
			v := dataset.Rows[i][header]
			if !models.IsNull(v) {
				sample = append(sample, v)
			}
		}

		inferred := ti.inferColumn(sample)
		defs[header] = models.ColumnTypeDefinition{Name: header, Type: inferred}

		ti.logger.WithFields(logrus.Fields{
			"column":      header,
			"type":        inferred,
			"sample_size": len(sample),
		}).Debug("Inferred column type")
	}

	return defs
}

func (ti *TypeInferencer) inferColumn(sample []interface{}) models.ColumnType {
	if len(sample) == 0 {
		return models.TypeString
	}

	for _, candidate := range candidateOrder {
		matched := 0
		for _, v := range sample {
			if Matches(candidate, v) {
				matched++
			}
		}
		if float64(matched)/float64(len(sample)) >= constants.TypeInferenceAgreement {
			return candidate
		}
	}

	return models.TypeString
}

// DetectDateColumns returns the headers whose sampled values parse as dates
// at or above the date-detection agreement threshold. Used by the seasonal
// analyzer to find candidate date columns.
func (ti *TypeInferencer) DetectDateColumns(dataset *models.Dataset) []string {
	limit := ti.sampleSize
	if limit > len(dataset.Rows) {
		limit = len(dataset.Rows)
	}

	var dateColumns []string
	for _, header := range dataset.Headers {
		sampled, matched := 0, 0
		for i := 0; i < limit; i++ {
			v := dataset.Rows[i][header]
			if models.IsNull(v) {
				continue
			}
			sampled++
			if IsDate(models.ValueToString(v)) {
				matched++
			}
		}
		if sampled > 0 && float64(matched)/float64(sampled) >= constants.DateDetectionAgreement {
			dateColumns = append(dateColumns, header)
		}
	}
	return dateColumns
}
