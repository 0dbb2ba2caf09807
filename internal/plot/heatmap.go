package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/csv-analyst/backend/internal/models"
)

// Heatmap renders a correlation matrix as a colored grid. go-chart has no
// matrix geometry, so the cells are drawn directly: blue for -1, white for
// 0, red for +1, gray for undefined.
func Heatmap(columns []string, corr map[string]map[string]*float64) ([]byte, error) {
	n := len(columns)
	if n < 2 {
		return nil, fmt.Errorf("heatmap requires at least 2 numeric columns")
	}

	const (
		cell   = 48
		margin = 12
	)
	size := n*cell + 2*margin
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	for i, rowName := range columns {
		for j, colName := range columns {
			var c color.RGBA
			v := corr[rowName][colName]
			if v == nil {
				c = color.RGBA{R: 0xBB, G: 0xBB, B: 0xBB, A: 0xFF}
			} else {
				c = divergingColor(*v)
			}
			x0 := margin + j*cell
			y0 := margin + i*cell
			rect := image.Rect(x0, y0, x0+cell-1, y0+cell-1)
			draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// divergingColor maps a correlation in [-1, 1] onto a blue-white-red ramp.
func divergingColor(v float64) color.RGBA {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	if v >= 0 {
		fade := uint8(255 * (1 - v))
		return color.RGBA{R: 0xFF, G: fade, B: fade, A: 0xFF}
	}
	fade := uint8(255 * (1 + v))
	return color.RGBA{R: fade, G: fade, B: 0xFF, A: 0xFF}
}

// CorrelationHeatmap renders the numeric part of an EDA summary.
func CorrelationHeatmap(eda *models.EDA) ([]byte, error) {
	var numeric []string
	for _, name := range eda.Columns {
		if _, ok := eda.Correlation[name]; ok {
			numeric = append(numeric, name)
		}
	}
	return Heatmap(numeric, eda.Correlation)
}
