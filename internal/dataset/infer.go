package dataset

import (
	"strconv"
	"strings"

	"github.com/csv-analyst/backend/internal/models"
)

// inferSampleSize caps how many cells are inspected per column.
const inferSampleSize = 200

// numericThreshold is the fraction of non-empty sampled cells that must
// parse as numbers for a column to be typed numeric.
const numericThreshold = 0.9

var boolTokens = map[string]bool{
	"true": true, "false": true,
	"yes": true, "no": true,
	"t": true, "f": true,
	"y": true, "n": true,
}

// isNullToken reports whether a raw cell represents a missing value.
func isNullToken(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}

// parseNumeric parses a cell as a float, tolerating surrounding whitespace
// and thousands separators.
func parseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") && !strings.Contains(s, " ") {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// InferColumnType classifies a column from a sample of its raw cells.
func InferColumnType(samples []string) models.ColumnType {
	total := 0
	numeric := 0
	boolean := 0

	for _, raw := range samples {
		if total >= inferSampleSize {
			break
		}
		if isNullToken(raw) {
			continue
		}
		total++
		if _, ok := parseNumeric(raw); ok {
			numeric++
			continue
		}
		if boolTokens[strings.ToLower(strings.TrimSpace(raw))] {
			boolean++
		}
	}

	if total == 0 {
		return models.ColumnCategorical
	}
	if float64(numeric)/float64(total) >= numericThreshold {
		return models.ColumnNumeric
	}
	if boolean == total {
		return models.ColumnBool
	}
	return models.ColumnCategorical
}
