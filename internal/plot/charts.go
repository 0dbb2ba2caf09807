package plot

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/csv-analyst/backend/internal/dataset"
)

const (
	chartWidth  = 800
	chartHeight = 500
)

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

// Histogram renders binned counts of a numeric column.
func Histogram(col *dataset.Column) ([]byte, error) {
	vals := col.Values()
	if len(vals) == 0 {
		return nil, fmt.Errorf("column '%s' has no values to plot", col.Name)
	}

	lo, hi := minMax(vals)
	bins := sturges(len(vals))
	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}
	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	bars := make([]chart.Value, bins)
	for i, n := range counts {
		bars[i] = chart.Value{
			Value: float64(n),
			Label: fmt.Sprintf("%.3g", lo+(float64(i)+0.5)*width),
		}
	}

	bc := chart.BarChart{
		Title:    fmt.Sprintf("Histogram of %s", col.Name),
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidthFor(bins),
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// KDE renders a Gaussian kernel density estimate of a numeric column.
func KDE(col *dataset.Column) ([]byte, error) {
	vals := col.Values()
	if len(vals) < 2 {
		return nil, fmt.Errorf("column '%s' has too few values for a density estimate", col.Name)
	}

	bw := silverman(vals)
	lo, hi := minMax(vals)
	lo -= 3 * bw
	hi += 3 * bw

	const points = 128
	xs := make([]float64, points)
	ys := make([]float64, points)
	step := (hi - lo) / float64(points-1)
	norm := 1 / (float64(len(vals)) * bw * math.Sqrt(2*math.Pi))
	for i := 0; i < points; i++ {
		x := lo + float64(i)*step
		density := 0.0
		for _, v := range vals {
			z := (x - v) / bw
			density += math.Exp(-0.5 * z * z)
		}
		xs[i] = x
		ys[i] = density * norm
	}

	ch := chart.Chart{
		Title:  fmt.Sprintf("KDE of %s", col.Name),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: col.Name},
		YAxis:  chart.YAxis{Name: "density"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: col.Name, XValues: xs, YValues: ys},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Scatter renders y against x for the rows where both are present.
func Scatter(x, y *dataset.Column) ([]byte, error) {
	xs, ys := pairedValues(x, y)
	if len(xs) == 0 {
		return nil, fmt.Errorf("columns '%s' and '%s' share no complete rows", x.Name, y.Name)
	}

	ch := chart.Chart{
		Title:  fmt.Sprintf("Scatter: %s vs %s", y.Name, x.Name),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: x.Name},
		YAxis:  chart.YAxis{Name: y.Name},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    y.Name,
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(chart.ColorBlue),
			},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Line renders y against x as a connected line in row order.
func Line(x, y *dataset.Column) ([]byte, error) {
	xs, ys := pairedValues(x, y)
	if len(xs) == 0 {
		return nil, fmt.Errorf("columns '%s' and '%s' share no complete rows", x.Name, y.Name)
	}

	ch := chart.Chart{
		Title:  fmt.Sprintf("Line: %s vs %s", y.Name, x.Name),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: x.Name},
		YAxis:  chart.YAxis{Name: y.Name},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: y.Name, XValues: xs, YValues: ys},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Regplot renders a scatter with a fitted linear regression overlay.
func Regplot(x, y *dataset.Column) ([]byte, error) {
	xs, ys := pairedValues(x, y)
	if len(xs) < 2 {
		return nil, fmt.Errorf("columns '%s' and '%s' share too few complete rows", x.Name, y.Name)
	}

	points := chart.ContinuousSeries{
		Name:    y.Name,
		XValues: xs,
		YValues: ys,
		Style:   pointStyle(chart.ColorBlue),
	}
	ch := chart.Chart{
		Title:  fmt.Sprintf("Regression plot: %s vs %s", y.Name, x.Name),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: x.Name},
		YAxis:  chart.YAxis{Name: y.Name},
		Series: []chart.Series{
			points,
			&chart.LinearRegressionSeries{
				Name:        "fit",
				InnerSeries: points,
				Style:       chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Count renders the most frequent values of a categorical column.
func Count(col *dataset.Column, limit int) ([]byte, error) {
	counts := col.ValueCounts()
	if len(counts) == 0 {
		return nil, fmt.Errorf("column '%s' has no values to plot", col.Name)
	}
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	bars := make([]chart.Value, len(counts))
	for i, vc := range counts {
		bars[i] = chart.Value{Value: float64(vc.Count), Label: truncateLabel(vc.Value)}
	}

	bc := chart.BarChart{
		Title:    fmt.Sprintf("Countplot of %s", col.Name),
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidthFor(len(bars)),
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Bar renders y grouped by x: group means when y is numeric, group sizes
// otherwise. Groups are sorted descending and capped at 30.
func Bar(x, y *dataset.Column) ([]byte, error) {
	type group struct {
		label string
		sum   float64
		n     int
	}
	groups := make(map[string]*group)
	numeric := len(y.Floats) > 0

	for i := 0; i < x.Len(); i++ {
		if x.Nulls[i] || y.Nulls[i] {
			continue
		}
		g, ok := groups[x.Raw[i]]
		if !ok {
			g = &group{label: x.Raw[i]}
			groups[x.Raw[i]] = g
		}
		g.n++
		if numeric {
			g.sum += y.Floats[i]
		}
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("columns '%s' and '%s' share no complete rows", x.Name, y.Name)
	}

	bars := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		v := float64(g.n)
		if numeric {
			v = g.sum / float64(g.n)
		}
		bars = append(bars, chart.Value{Value: v, Label: truncateLabel(g.label)})
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
	if len(bars) > 30 {
		bars = bars[:30]
	}

	title := fmt.Sprintf("Bar: counts of %s by %s", y.Name, x.Name)
	if numeric {
		title = fmt.Sprintf("Bar: mean(%s) by %s", y.Name, x.Name)
	}

	bc := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidthFor(len(bars)),
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Pie renders the value shares of a small-cardinality categorical column.
func Pie(col *dataset.Column) ([]byte, error) {
	counts := col.ValueCounts()
	if len(counts) == 0 {
		return nil, fmt.Errorf("column '%s' has no values to plot", col.Name)
	}
	if len(counts) > 8 {
		counts = counts[:8]
	}

	values := make([]chart.Value, len(counts))
	for i, vc := range counts {
		values[i] = chart.Value{Value: float64(vc.Count), Label: truncateLabel(vc.Value)}
	}

	pc := chart.PieChart{
		Title:  fmt.Sprintf("Pie chart of %s", col.Name),
		Width:  600,
		Height: 600,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Helpers

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// sturges returns the Sturges bin count, clamped to [1, 30].
func sturges(n int) int {
	bins := int(math.Ceil(math.Log2(float64(n)))) + 1
	if bins < 1 {
		bins = 1
	}
	if bins > 30 {
		bins = 30
	}
	return bins
}

// silverman returns Silverman's rule-of-thumb bandwidth.
func silverman(vals []float64) float64 {
	std := stddev(vals)
	if std == 0 {
		std = 1
	}
	return 1.06 * std * math.Pow(float64(len(vals)), -0.2)
}

func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	sum := 0.0
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

// pairedValues returns the float values of rows where both columns are set.
func pairedValues(x, y *dataset.Column) ([]float64, []float64) {
	var xs, ys []float64
	for i := 0; i < x.Len(); i++ {
		if x.Nulls[i] || y.Nulls[i] {
			continue
		}
		xs = append(xs, x.Floats[i])
		ys = append(ys, y.Floats[i])
	}
	return xs, ys
}

func barWidthFor(bars int) int {
	if bars <= 0 {
		return 40
	}
	w := (chartWidth - 100) / bars
	if w < 8 {
		w = 8
	}
	if w > 60 {
		w = 60
	}
	return w
}

func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) > 16 {
		return string(r[:13]) + "..."
	}
	return s
}
