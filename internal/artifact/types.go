package artifact

import (
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Horizon is the number of years after entry at which income is measured.
type Horizon int

const (
	Horizon6  Horizon = 6
	Horizon10 Horizon = 10
)

// Horizons returns every supported horizon in ascending order.
func Horizons() []Horizon {
	return []Horizon{Horizon6, Horizon10}
}

// ParseHorizon validates h.
func ParseHorizon(h int) (Horizon, error) {
	switch Horizon(h) {
	case Horizon6, Horizon10:
		return Horizon(h), nil
	}
	return 0, &InvalidHorizonError{Horizon: h}
}

func (h Horizon) String() string { return strconv.Itoa(int(h)) }

// Table is a numeric table keyed by school name. Values is nil when the
// table has no rows or no columns.
type Table struct {
	Index   []string
	Columns []string
	Values  *mat.Dense
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return len(t.Index) }

// Cols returns the number of columns.
func (t *Table) Cols() int { return len(t.Columns) }

// At returns the value at row i, column j.
func (t *Table) At(i, j int) float64 { return t.Values.At(i, j) }

// Col returns a copy of column j.
func (t *Table) Col(j int) []float64 {
	if t.Values == nil {
		return nil
	}
	return mat.Col(nil, j, t.Values)
}

// Series is a single numeric column keyed by school name.
type Series struct {
	Index  []string
	Name   string
	Values []float64

	pos map[string]int
}

// Len returns the number of entries.
func (s *Series) Len() int { return len(s.Values) }

// Lookup returns the value for school. With duplicate keys the first row wins.
func (s *Series) Lookup(school string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.pos[school]
	if !ok {
		return 0, false
	}
	return s.Values[i], true
}

func newSeries(index []string, name string, values []float64) *Series {
	s := &Series{Index: index, Name: name, Values: values, pos: make(map[string]int, len(index))}
	for i, k := range index {
		if _, dup := s.pos[k]; !dup {
			s.pos[k] = i
		}
	}
	return s
}

// Dataset is the feature data for one horizon.
type Dataset struct {
	Horizon     Horizon
	Full        *Table
	Train       *Table
	Test        *Table
	TrainTarget *Series
	TestTarget  *Series
}

// Attribution holds per-school SHAP contributions for one horizon, aligned
// positionally with the rows and columns of Dataset.Full.
type Attribution struct {
	Horizon  Horizon
	Base     []float64
	Values   *mat.Dense // rows x features, nil when empty
	Features []string

	// Predictions are the model outputs recorded when the artifact was
	// produced. Nil when the artifact does not carry them.
	Predictions []float64
}

// Rows returns the number of attribution records.
func (a *Attribution) Rows() int { return len(a.Base) }

// Cols returns the number of features.
func (a *Attribution) Cols() int { return len(a.Features) }

// At returns the contribution of feature j for row i.
func (a *Attribution) At(i, j int) float64 { return a.Values.At(i, j) }

// Row returns a copy of the contributions for row i.
func (a *Attribution) Row(i int) []float64 {
	if a.Values == nil {
		return nil
	}
	return mat.Row(nil, i, a.Values)
}

// Col returns a copy of the contributions of feature j across all rows.
func (a *Attribution) Col(j int) []float64 {
	if a.Values == nil {
		return nil
	}
	return mat.Col(nil, j, a.Values)
}

// Sum returns the total contribution of all features for row i.
func (a *Attribution) Sum(i int) float64 {
	if a.Values == nil {
		return 0
	}
	return mat.Sum(a.Values.RowView(i))
}

// Prediction returns base plus the sum of contributions for row i.
func (a *Attribution) Prediction(i int) float64 {
	return a.Base[i] + a.Sum(i)
}
