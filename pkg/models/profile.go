package models

// ValueCount pairs a distinct value with its occurrence count and share.
type ValueCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// NumericStats holds descriptive statistics for a numeric column.
type NumericStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	Sum    float64 `json:"sum"`
}

// StringStats holds length statistics for a non-numeric column.
type StringStats struct {
	MinLength int     `json:"min_length"`
	MaxLength int     `json:"max_length"`
	AvgLength float64 `json:"avg_length"`
}

// ColumnProfile contains per-column descriptive statistics. Profiles are
// created fresh each run from the current row set and never persisted.
type ColumnProfile struct {
	Name          string        `json:"name"`
	TotalCount    int           `json:"total_count"`
	NullCount     int           `json:"null_count"`
	NullPercent   float64       `json:"null_percent"`
	UniqueCount   int           `json:"unique_count"`
	UniquePercent float64       `json:"unique_percent"`
	MostCommon    []ValueCount  `json:"most_common_values"`
	DetectedType  ColumnType    `json:"detected_type"`
	NumericStats  *NumericStats `json:"numeric_stats,omitempty"`
	StringStats   *StringStats  `json:"string_stats,omitempty"`
}

// ProfileResult is the profiling stage output.
type ProfileResult struct {
	Columns []ColumnProfile `json:"columns"`
}
