// Package plot renders dataset visualizations to PNG.
package plot

import (
	"fmt"

	"github.com/csv-analyst/backend/internal/dataset"
	"github.com/csv-analyst/backend/internal/models"
)

// ChartType names a supported chart kind.
type ChartType string

const (
	ChartHistogram ChartType = "histogram"
	ChartKDE       ChartType = "kde"
	ChartScatter   ChartType = "scatter"
	ChartLine      ChartType = "line"
	ChartBar       ChartType = "bar"
	ChartCount     ChartType = "countplot"
	ChartPie       ChartType = "pie"
	ChartRegplot   ChartType = "regplot"
	ChartHeatmap   ChartType = "heatmap"
)

// Requirement bounds how many columns a chart type accepts.
// Max of 0 means unbounded. Numeric requires every column to be numeric.
type Requirement struct {
	Min     int
	Max     int
	Numeric bool
}

// Requirements maps each supported chart type to its column arity.
var Requirements = map[ChartType]Requirement{
	ChartHistogram: {Min: 1, Max: 1, Numeric: true},
	ChartKDE:       {Min: 1, Max: 1, Numeric: true},
	ChartScatter:   {Min: 2, Max: 2, Numeric: true},
	ChartLine:      {Min: 2, Max: 2, Numeric: true},
	ChartBar:       {Min: 2, Max: 2},
	ChartCount:     {Min: 1, Max: 1},
	ChartPie:       {Min: 1, Max: 1},
	ChartRegplot:   {Min: 2, Max: 2, Numeric: true},
	ChartHeatmap:   {Min: 2, Max: 0, Numeric: true},
}

// ValidationError reports a request the renderer cannot satisfy: unknown
// chart type, wrong column count, or a missing column.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validate checks a chart request against the registry and the frame.
func Validate(chartType ChartType, columns []string, f *dataset.Frame) error {
	req, ok := Requirements[chartType]
	if !ok {
		return validationf("Unsupported chart type: %s", chartType)
	}

	if len(columns) < req.Min || (req.Max > 0 && len(columns) > req.Max) {
		if req.Max == 0 {
			return validationf("Chart '%s' requires at least %d columns. You provided %d.",
				chartType, req.Min, len(columns))
		}
		return validationf("Chart '%s' requires between %d and %d columns. You provided %d.",
			chartType, req.Min, req.Max, len(columns))
	}

	for _, name := range columns {
		col := f.Column(name)
		if col == nil {
			return validationf("Column '%s' not found in dataset.", name)
		}
		if req.Numeric && col.Type != models.ColumnNumeric {
			return validationf("Column '%s' is not numeric.", name)
		}
	}
	return nil
}
