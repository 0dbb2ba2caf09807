package plot

import (
	"math"

	"github.com/csv-analyst/backend/internal/analysis"
	"github.com/csv-analyst/backend/internal/dataset"
	"github.com/csv-analyst/backend/internal/models"
)

// Policy bounds how many automatic charts an upload produces.
type Policy struct {
	MaxHistograms  int
	MaxCountCharts int
	MaxPieUnique   int
}

// DefaultPolicy matches the gallery limits used by the upload flow.
var DefaultPolicy = Policy{
	MaxHistograms:  6,
	MaxCountCharts: 3,
	MaxPieUnique:   8,
}

// Rendered is one generated chart, ready to be written to the plot store.
type Rendered struct {
	Prefix string
	PNG    []byte
}

// Generator produces the automatic chart gallery for a freshly uploaded
// dataset: histograms for the leading numeric columns, a density estimate
// for the first, countplots for the leading categoricals, pies for the
// small-cardinality ones, and a correlation heatmap when two or more
// numeric columns exist.
type Generator struct {
	policy Policy
}

// NewGenerator builds a generator with the given policy. Zero limits fall
// back to the defaults.
func NewGenerator(policy Policy) *Generator {
	if policy.MaxHistograms <= 0 {
		policy.MaxHistograms = DefaultPolicy.MaxHistograms
	}
	if policy.MaxCountCharts <= 0 {
		policy.MaxCountCharts = DefaultPolicy.MaxCountCharts
	}
	if policy.MaxPieUnique <= 0 {
		policy.MaxPieUnique = DefaultPolicy.MaxPieUnique
	}
	return &Generator{policy: policy}
}

// GenerateAll renders the default gallery. Individual chart failures are
// skipped so one degenerate column cannot sink the whole upload.
func (g *Generator) GenerateAll(f *dataset.Frame, eda *models.EDA) []Rendered {
	var out []Rendered

	numeric := f.NumericColumns()
	for i, col := range numeric {
		if i >= g.policy.MaxHistograms {
			break
		}
		if png, err := Histogram(col); err == nil {
			out = append(out, Rendered{Prefix: "hist_" + col.Name, PNG: png})
		}
	}
	if len(numeric) > 0 {
		if png, err := KDE(numeric[0]); err == nil {
			out = append(out, Rendered{Prefix: "kde_" + numeric[0].Name, PNG: png})
		}
	}

	categorical := f.CategoricalColumns()
	for i, col := range categorical {
		if i >= g.policy.MaxCountCharts {
			break
		}
		if png, err := Count(col, 20); err == nil {
			out = append(out, Rendered{Prefix: "count_" + col.Name, PNG: png})
		}
	}
	for _, col := range categorical {
		unique := len(col.ValueCounts())
		if unique > 1 && unique <= g.policy.MaxPieUnique {
			if png, err := Pie(col); err == nil {
				out = append(out, Rendered{Prefix: "pie_" + col.Name, PNG: png})
			}
		}
	}

	if len(numeric) >= 2 {
		if png, err := CorrelationHeatmap(eda); err == nil {
			out = append(out, Rendered{Prefix: "heatmap_correlation", PNG: png})
		}
	}

	return out
}

// Render draws a single on-demand chart after the request has passed
// Validate.
func Render(chartType ChartType, columns []string, f *dataset.Frame) ([]byte, error) {
	switch chartType {
	case ChartHistogram:
		return Histogram(f.Column(columns[0]))
	case ChartKDE:
		return KDE(f.Column(columns[0]))
	case ChartScatter:
		return Scatter(f.Column(columns[0]), f.Column(columns[1]))
	case ChartLine:
		return Line(f.Column(columns[0]), f.Column(columns[1]))
	case ChartBar:
		return Bar(f.Column(columns[0]), f.Column(columns[1]))
	case ChartCount:
		return Count(f.Column(columns[0]), 20)
	case ChartPie:
		return Pie(f.Column(columns[0]))
	case ChartRegplot:
		return Regplot(f.Column(columns[0]), f.Column(columns[1]))
	case ChartHeatmap:
		cols := make([]*dataset.Column, 0, len(columns))
		for _, name := range columns {
			cols = append(cols, f.Column(name))
		}
		return heatmapFromColumns(cols)
	}
	return nil, validationf("Unsupported chart type: %s", chartType)
}

// heatmapFromColumns computes pairwise correlations for the requested
// columns and renders them.
func heatmapFromColumns(cols []*dataset.Column) ([]byte, error) {
	names := make([]string, len(cols))
	corr := make(map[string]map[string]*float64, len(cols))
	for i, a := range cols {
		names[i] = a.Name
		row := make(map[string]*float64, len(cols))
		for _, b := range cols {
			v := analysis.PairwiseCorr(a, b)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[b.Name] = nil
			} else {
				row[b.Name] = &v
			}
		}
		corr[a.Name] = row
	}
	return Heatmap(names, corr)
}
