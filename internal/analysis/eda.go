package analysis

import (
	"math"
	"sort"

	"github.com/csv-analyst/backend/internal/dataset"
	"github.com/csv-analyst/backend/internal/models"
)

// Perform builds the EDA summary for a frame: shape, alphabetically sorted
// column names, dtype map, missing-value counts, Pearson correlation over
// numeric columns, and per-column summary stats. Non-finite results become
// null in the JSON payload.
func Perform(f *dataset.Frame) *models.EDA {
	rows, cols := f.Shape()

	eda := &models.EDA{
		Shape:         [2]int{rows, cols},
		Columns:       make([]string, 0, cols),
		Dtypes:        make(map[string]string, cols),
		MissingValues: make(map[string]int, cols),
		Correlation:   make(map[string]map[string]*float64),
		SummaryStats:  make(map[string]map[string]interface{}, cols),
	}

	for _, c := range f.Columns {
		eda.Columns = append(eda.Columns, c.Name)
		eda.Dtypes[c.Name] = c.Type.Dtype()
		eda.MissingValues[c.Name] = c.MissingCount()
		eda.SummaryStats[c.Name] = describeColumn(c)
	}
	sort.Strings(eda.Columns)

	numeric := f.NumericColumns()
	for _, a := range numeric {
		row := make(map[string]*float64, len(numeric))
		for _, b := range numeric {
			row[b.Name] = finiteOrNil(PairwiseCorr(a, b))
		}
		eda.Correlation[a.Name] = row
	}

	return eda
}

// PairwiseCorr correlates two columns over the rows where both are present.
func PairwiseCorr(a, b *dataset.Column) float64 {
	if a == b {
		if len(a.Values()) < 2 {
			return math.NaN()
		}
		if Std(a.Values()) == 0 {
			return math.NaN()
		}
		return 1
	}

	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		if a.Nulls[i] || b.Nulls[i] {
			continue
		}
		xs = append(xs, a.Floats[i])
		ys = append(ys, b.Floats[i])
	}
	return Pearson(xs, ys)
}

// describeColumn mirrors pandas describe(include="all") for one column.
func describeColumn(c *dataset.Column) map[string]interface{} {
	if c.Type == models.ColumnNumeric {
		vals := c.Values()
		return map[string]interface{}{
			"count": len(vals),
			"mean":  finiteOrNil(Mean(vals)),
			"std":   finiteOrNil(Std(vals)),
			"min":   finiteOrNil(Quantile(vals, 0)),
			"25%":   finiteOrNil(Quantile(vals, 0.25)),
			"50%":   finiteOrNil(Quantile(vals, 0.5)),
			"75%":   finiteOrNil(Quantile(vals, 0.75)),
			"max":   finiteOrNil(Quantile(vals, 1)),
		}
	}

	counts := c.ValueCounts()
	desc := map[string]interface{}{
		"count":  c.Len() - c.MissingCount(),
		"unique": len(counts),
	}
	if len(counts) > 0 {
		desc["top"] = counts[0].Value
		desc["freq"] = counts[0].Count
	}
	return desc
}

// finiteOrNil maps NaN and infinities to nil so they serialize as null.
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
