package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/csv-analyst/backend/internal/models"
)

// ReadCSV parses CSV bytes into a Frame. Bytes that are not valid UTF-8
// are re-decoded as latin-1 first. A strict parse is tried before a lenient
// one that skips rows with the wrong field count.
func ReadCSV(name string, data []byte) (*Frame, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		data = latin1ToUTF8(data)
	}

	f, err := parseStrict(name, data)
	if err == nil {
		return f, nil
	}

	if f, lenientErr := parseLenient(name, data); lenientErr == nil {
		return f, nil
	}

	return nil, err
}

// latin1ToUTF8 re-encodes ISO 8859-1 bytes as UTF-8. Latin-1 code points map
// directly to the corresponding runes.
func latin1ToUTF8(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))
	for _, b := range data {
		buf.WriteRune(rune(b))
	}
	return buf.Bytes()
}

func parseStrict(name string, data []byte) (*Frame, error) {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV has no columns")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		records = append(records, rec)
	}

	return buildFrame(name, header, records)
}

func parseLenient(name string, data []byte) (*Frame, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV has no columns")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip unreadable rows entirely.
			continue
		}
		if len(rec) != len(header) {
			continue
		}
		records = append(records, rec)
	}

	return buildFrame(name, header, records)
}

func buildFrame(name string, header []string, records [][]string) (*Frame, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	rows := len(records)
	frame := &Frame{Name: name, rows: rows}

	for j, colName := range header {
		if colName == "" {
			colName = fmt.Sprintf("column_%d", j)
		}
		col := &Column{
			Name:  colName,
			Raw:   make([]string, rows),
			Nulls: make([]bool, rows),
		}
		for i, rec := range records {
			col.Raw[i] = rec[j]
			col.Nulls[i] = isNullToken(rec[j])
		}
		col.Type = InferColumnType(col.Raw)
		if col.Type == models.ColumnNumeric {
			col.Floats = make([]float64, rows)
			for i := range col.Raw {
				if col.Nulls[i] {
					continue
				}
				v, ok := parseNumeric(col.Raw[i])
				if !ok {
					// Stray non-numeric cell in a numeric column.
					col.Nulls[i] = true
					continue
				}
				col.Floats[i] = v
			}
		}
		frame.Columns = append(frame.Columns, col)
	}

	return frame, nil
}
