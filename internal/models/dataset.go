package models

import "time"

// ColumnType classifies a dataset column after inference.
type ColumnType string

const (
	ColumnNumeric     ColumnType = "numeric"
	ColumnBool        ColumnType = "bool"
	ColumnCategorical ColumnType = "categorical"
)

// Dtype returns the pandas-style dtype string used in EDA payloads.
func (t ColumnType) Dtype() string {
	switch t {
	case ColumnNumeric:
		return "float64"
	case ColumnBool:
		return "bool"
	default:
		return "object"
	}
}

// DatasetInfo describes the currently loaded dataset.
type DatasetInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RowCount    int       `json:"rowCount"`
	ColumnCount int       `json:"columnCount"`
	SourceSize  int64     `json:"sourceSize"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// EDA is the exploratory-data-analysis summary returned by /upload.
// All maps are keyed by column name; Columns is sorted alphabetically.
// The whole structure is replaced as a unit on each upload.
type EDA struct {
	Shape         [2]int                            `json:"shape"`
	Columns       []string                          `json:"columns"`
	Dtypes        map[string]string                 `json:"dtypes"`
	MissingValues map[string]int                    `json:"missing_values"`
	Correlation   map[string]map[string]*float64    `json:"correlation"`
	SummaryStats  map[string]map[string]interface{} `json:"summary_stats"`
}

// Sample is the dataset excerpt attached to ask prompts.
type Sample struct {
	Columns []string                 `json:"columns"`
	Head    []map[string]interface{} `json:"head"`
	Shape   [2]int                   `json:"shape"`
}
