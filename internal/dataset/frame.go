// Package dataset parses uploaded CSV files into typed column frames.
package dataset

import (
	"sort"

	"github.com/csv-analyst/backend/internal/models"
)

// Column holds one dataset column: the raw cell strings, a null mask, and
// parsed float values when the column is numeric.
type Column struct {
	Name   string
	Type   models.ColumnType
	Raw    []string
	Nulls  []bool
	Floats []float64 // aligned with Raw; only meaningful where Type is numeric and Nulls is false
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	return len(c.Raw)
}

// MissingCount returns the number of null cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, isNull := range c.Nulls {
		if isNull {
			n++
		}
	}
	return n
}

// Values returns the non-null float values of a numeric column.
func (c *Column) Values() []float64 {
	vals := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if !c.Nulls[i] {
			vals = append(vals, v)
		}
	}
	return vals
}

// ValueCount is one entry of a categorical frequency table.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts returns the frequency table of non-null cells, most frequent
// first. Ties break on value for a stable order.
func (c *Column) ValueCounts() []ValueCount {
	counts := make(map[string]int)
	for i, v := range c.Raw {
		if !c.Nulls[i] {
			counts[v]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Frame is an in-memory dataset: ordered columns of equal length.
type Frame struct {
	Name    string
	Columns []*Column
	rows    int
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return f.rows, len(f.Columns)
}

// ColumnNames returns the column names in file order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil.
func (f *Frame) Column(name string) *Column {
	for _, c := range f.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NumericColumns returns all numeric columns in file order.
func (f *Frame) NumericColumns() []*Column {
	var cols []*Column
	for _, c := range f.Columns {
		if c.Type == models.ColumnNumeric {
			cols = append(cols, c)
		}
	}
	return cols
}

// CategoricalColumns returns all categorical and boolean columns in file order.
func (f *Frame) CategoricalColumns() []*Column {
	var cols []*Column
	for _, c := range f.Columns {
		if c.Type == models.ColumnCategorical || c.Type == models.ColumnBool {
			cols = append(cols, c)
		}
	}
	return cols
}

// Head returns the first n rows as column-name → cell maps. Null cells map
// to nil, numeric cells to float64, everything else to the raw string.
func (f *Frame) Head(n int) []map[string]interface{} {
	if n > f.rows {
		n = f.rows
	}
	out := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		row := make(map[string]interface{}, len(f.Columns))
		for _, c := range f.Columns {
			switch {
			case c.Nulls[i]:
				row[c.Name] = nil
			case c.Type == models.ColumnNumeric:
				row[c.Name] = c.Floats[i]
			default:
				row[c.Name] = c.Raw[i]
			}
		}
		out = append(out, row)
	}
	return out
}

// Row returns row i as raw strings in column order, empty string for nulls.
func (f *Frame) Row(i int) []string {
	row := make([]string, len(f.Columns))
	for j, c := range f.Columns {
		if !c.Nulls[i] {
			row[j] = c.Raw[i]
		}
	}
	return row
}
