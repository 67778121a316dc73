package artifact

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// readTable decodes a CSV table whose indexColumn holds the school key and
// whose remaining columns are numeric.
func readTable(r io.Reader, indexColumn string) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: missing header row")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	indexPos := -1
	columns := make([]string, 0, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == indexColumn && indexPos < 0 {
			indexPos = i
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
		columns = append(columns, name)
	}
	if indexPos < 0 {
		return nil, fmt.Errorf("missing index column %q", indexColumn)
	}

	var (
		index []string
		data  []float64
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		index = append(index, rec[indexPos])
		for i, cell := range rec {
			if i == indexPos {
				continue
			}
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, header[i], err)
			}
			data = append(data, v)
		}
	}

	t := &Table{Index: index, Columns: columns}
	if len(index) > 0 && len(columns) > 0 {
		t.Values = mat.NewDense(len(index), len(columns), data)
	}
	return t, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value %q", cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", cell)
	}
	return v, nil
}

// readSeries decodes a CSV target file: the index column plus exactly one numeric column.
func readSeries(r io.Reader, indexColumn string) (*Series, error) {
	t, err := readTable(r, indexColumn)
	if err != nil {
		return nil, err
	}
	if t.Cols() != 1 {
		return nil, fmt.Errorf("target must have exactly one value column, got %d", t.Cols())
	}
	return newSeries(t.Index, t.Columns[0], t.Col(0)), nil
}

// attributionFile is the serialized form of an attribution artifact.
type attributionFile struct {
	BaseValues   json.RawMessage `json:"base_values"`
	Values       [][]float64     `json:"values"`
	FeatureNames []string        `json:"feature_names"`
	Predictions  []float64       `json:"predictions,omitempty"`
}

// readAttribution decodes an attribution artifact. A scalar or single
// element base_values is broadcast to every row.
func readAttribution(r io.Reader) (*Attribution, error) {
	var f attributionFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding attribution json: %w", err)
	}
	if f.FeatureNames == nil {
		return nil, errors.New("missing feature_names")
	}

	rows, cols := len(f.Values), len(f.FeatureNames)

	base, err := decodeBase(f.BaseValues, rows)
	if err != nil {
		return nil, err
	}

	if f.Predictions != nil && len(f.Predictions) != rows {
		return nil, fmt.Errorf("predictions has %d entries, want %d", len(f.Predictions), rows)
	}

	att := &Attribution{Base: base, Features: f.FeatureNames, Predictions: f.Predictions}
	if rows == 0 || cols == 0 {
		for i, row := range f.Values {
			if len(row) != 0 {
				return nil, fmt.Errorf("row %d has %d values, want 0", i, len(row))
			}
		}
		return att, nil
	}

	data := make([]float64, 0, rows*cols)
	for i, row := range f.Values {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	att.Values = mat.NewDense(rows, cols, data)
	return att, nil
}

func decodeBase(raw json.RawMessage, rows int) ([]float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("missing base_values")
	}

	var scalar float64
	if err := json.Unmarshal(raw, &scalar); err == nil {
		return broadcast(scalar, rows), nil
	}

	var list []float64
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("base_values must be a number or an array of numbers: %w", err)
	}
	switch {
	case len(list) == rows:
		return list, nil
	case len(list) == 1:
		return broadcast(list[0], rows), nil
	default:
		return nil, fmt.Errorf("base_values has %d entries, want %d", len(list), rows)
	}
}

func broadcast(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
