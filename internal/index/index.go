package index

import (
	"slices"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
)

// Index maps names to positions for one horizon. It holds read-only
// references to the loaded artifacts and is safe for concurrent use.
type Index struct {
	horizon  artifact.Horizon
	schools  map[string][]int
	features map[string]int
	ds       *artifact.Dataset
}

// New builds an Index over ds. Rows and columns follow ds.Full, which the
// artifact store has already aligned with att.
func New(h artifact.Horizon, ds *artifact.Dataset, att *artifact.Attribution) *Index {
	full := ds.Full
	idx := &Index{
		horizon:  h,
		schools:  make(map[string][]int, full.Rows()),
		features: make(map[string]int, len(att.Features)),
		ds:       ds,
	}
	for i, name := range full.Index {
		idx.schools[name] = append(idx.schools[name], i)
	}
	for j, name := range att.Features {
		if _, ok := idx.features[name]; !ok {
			idx.features[name] = j
		}
	}
	return idx
}

// Horizon returns the horizon the index was built for.
func (x *Index) Horizon() artifact.Horizon { return x.horizon }

// Dataset returns the dataset the index was built over.
func (x *Index) Dataset() *artifact.Dataset { return x.ds }

// ResolveSchool returns the row of name.
func (x *Index) ResolveSchool(name string) (int, error) {
	rows := x.schools[name]
	switch len(rows) {
	case 0:
		return -1, &UnknownSchoolError{Horizon: x.horizon, School: name}
	case 1:
		return rows[0], nil
	default:
		return -1, &DuplicateKeyError{Horizon: x.horizon, Key: name, Rows: slices.Clone(rows)}
	}
}

// ResolveFeature returns the column of name.
func (x *Index) ResolveFeature(name string) (int, error) {
	j, ok := x.features[name]
	if !ok {
		return -1, &UnknownFeatureError{Horizon: x.horizon, Feature: name}
	}
	return j, nil
}

// Schools returns every school name in lexicographic order. Duplicates are
// listed as often as they are stored.
func (x *Index) Schools() []string {
	out := slices.Clone(x.ds.Full.Index)
	slices.Sort(out)
	return out
}

// Features returns every feature name in lexicographic order.
func (x *Index) Features() []string {
	out := slices.Clone(x.ds.Full.Columns)
	slices.Sort(out)
	return out
}
