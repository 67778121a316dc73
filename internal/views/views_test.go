package views

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
)

func build(t *testing.T, f artifact.Fixture) (*artifact.Dataset, *artifact.Attribution) {
	t.Helper()
	ds, att, err := f.Build()
	require.NoError(t, err)
	return ds, att
}

func emptyFixture() artifact.Fixture {
	f := artifact.SampleFixture(artifact.Horizon6)
	f.Schools, f.Values, f.Contributions = nil, nil, nil
	f.TrainRows, f.TrainTarget, f.TestRows, f.TestTarget = nil, nil, nil, nil
	return f
}

// wideFixture has n features for three schools with distinct contributions.
func wideFixture(n int) artifact.Fixture {
	f := artifact.SampleFixture(artifact.Horizon10)
	f.Schools = f.Schools[:3]
	f.TrainRows, f.TrainTarget = []int{0, 1}, []float64{90000, 60000}
	f.TestRows, f.TestTarget = []int{2}, []float64{51000}
	f.Features = make([]string, n)
	f.Values = make([][]float64, 3)
	f.Contributions = make([][]float64, 3)
	for j := range n {
		f.Features[j] = fmt.Sprintf("f%02d", j)
	}
	for i := range 3 {
		f.Values[i] = make([]float64, n)
		f.Contributions[i] = make([]float64, n)
		for j := range n {
			f.Values[i][j] = float64(100*i + j)
			sign := 1.0
			if j%2 == 1 {
				sign = -1
			}
			f.Contributions[i][j] = sign * float64((j+1)*(i+1)*10)
		}
	}
	return f
}

func contributionSum(e InstanceExplanation) float64 {
	var s float64
	for _, c := range e.Contributions {
		s += c.Contribution
	}
	return s
}

func TestInstance_HarvardExample(t *testing.T) {
	ds, att := build(t, artifact.SampleFixture(artifact.Horizon6))

	got := Instance(ds, att, 0, 0)

	assert.Equal(t, 6, got.Horizon)
	assert.Equal(t, "Harvard University", got.School)
	assert.Equal(t, 45000.0, got.BaseValue)
	assert.Equal(t, 7800.0, got.Sum)
	assert.Equal(t, 52800.0, got.Prediction)
	assert.Equal(t, 5, got.TotalFeatures)
	require.NotNil(t, got.Observed)
	assert.Equal(t, Observed{Value: 81000, Split: SplitTrain}, *got.Observed)

	require.Len(t, got.Contributions, 5)
	first := got.Contributions[0]
	assert.Equal(t, "median_family_income", first.Feature)
	assert.Equal(t, 8000.0, first.Contribution)
	require.NotNil(t, first.Value)
	assert.Equal(t, 168500.0, *first.Value)

	var order []string
	for _, c := range got.Contributions {
		order = append(order, c.Feature)
		assert.False(t, c.Aggregate)
	}
	assert.Equal(t, []string{"median_family_income", "sat_avg", "admission_rate", "pct_pell", "tuition"}, order)
}

func TestInstance_TestSplitObserved(t *testing.T) {
	ds, att := build(t, artifact.SampleFixture(artifact.Horizon10))

	got := Instance(ds, att, 4, 15)

	assert.Equal(t, "University of Texas at Austin", got.School)
	require.NotNil(t, got.Observed)
	assert.Equal(t, SplitTest, got.Observed.Split)
	assert.Equal(t, 58000.0, got.Observed.Value)
}

func TestInstance_Additivity(t *testing.T) {
	for _, n := range []int{1, 5, 15, 16, 40} {
		for _, maxDisplay := range []int{1, 2, 10, 15, 50} {
			t.Run(fmt.Sprintf("features=%d/max=%d", n, maxDisplay), func(t *testing.T) {
				ds, att := build(t, wideFixture(n))
				for row := range att.Rows() {
					got := Instance(ds, att, row, maxDisplay)
					assert.LessOrEqual(t, len(got.Contributions), maxDisplay)
					assert.InDelta(t, got.Prediction, got.BaseValue+contributionSum(got), 1e-6)
					assert.InDelta(t, att.Prediction(row), got.Prediction, 1e-6)
				}
			})
		}
	}
}

func TestInstance_OtherBucket(t *testing.T) {
	ds, att := build(t, wideFixture(20))

	got := Instance(ds, att, 0, 15)

	require.Len(t, got.Contributions, 15)
	last := got.Contributions[14]
	assert.True(t, last.Aggregate)
	assert.Equal(t, 6, last.Count)
	assert.Equal(t, "6 other features", last.Feature)
	assert.Nil(t, last.Value)
	// Row 0 contributions are ±10(j+1); the six smallest are j=0..5.
	assert.Equal(t, 10.0-20+30-40+50-60, last.Contribution)
	assert.Equal(t, "f19", got.Contributions[0].Feature)

	for i := 1; i < 14; i++ {
		assert.GreaterOrEqual(t,
			math.Abs(got.Contributions[i-1].Contribution),
			math.Abs(got.Contributions[i].Contribution))
	}
}

func TestInstance_ExactlyMaxDisplayHasNoBucket(t *testing.T) {
	ds, att := build(t, wideFixture(15))

	got := Instance(ds, att, 1, 15)

	require.Len(t, got.Contributions, 15)
	for _, c := range got.Contributions {
		assert.False(t, c.Aggregate)
	}
}

func TestInstance_TiesKeepColumnOrder(t *testing.T) {
	f := artifact.SampleFixture(artifact.Horizon6)
	f.Contributions[0] = []float64{-300, 500, 300, -500, 0}
	ds, att := build(t, f)

	got := Instance(ds, att, 0, 0)

	var order []string
	for _, c := range got.Contributions {
		order = append(order, c.Feature)
	}
	assert.Equal(t, []string{"sat_avg", "tuition", "median_family_income", "pct_pell", "admission_rate"}, order)

	// Reordering columns reorders ties accordingly.
	f.Features = []string{"tuition", "sat_avg", "pct_pell", "median_family_income", "admission_rate"}
	ds, att = build(t, f)
	got = Instance(ds, att, 0, 0)
	order = order[:0]
	for _, c := range got.Contributions {
		order = append(order, c.Feature)
	}
	assert.Equal(t, []string{"sat_avg", "median_family_income", "tuition", "pct_pell", "admission_rate"}, order)
}

func TestInstance_RowOutOfRange(t *testing.T) {
	ds, att := build(t, artifact.SampleFixture(artifact.Horizon6))

	for _, row := range []int{-1, 5} {
		got := Instance(ds, att, row, 0)
		assert.Empty(t, got.School)
		assert.Empty(t, got.Contributions)
		assert.NotNil(t, got.Contributions)
	}
}

func TestScatter(t *testing.T) {
	f := artifact.SampleFixture(artifact.Horizon6)
	ds, att := build(t, f)

	got := Scatter(ds, att, 1)

	assert.Equal(t, "sat_avg", got.Feature)
	require.Len(t, got.Points, len(f.Schools))
	for i, p := range got.Points {
		assert.Equal(t, f.Schools[i], p.School)
		assert.Equal(t, f.Values[i][1], p.Value)
		assert.Equal(t, f.Contributions[i][1], p.Contribution)
	}

	assert.Empty(t, Scatter(ds, att, 9).Points)
}

func TestImportance(t *testing.T) {
	_, att := build(t, artifact.SampleFixture(artifact.Horizon6))

	got := Importance(att, 0)

	assert.Equal(t, 5, got.TotalFeatures)
	require.Len(t, got.Features, 5)
	assert.Equal(t, "median_family_income", got.Features[0].Feature)
	assert.InDelta(t, (8000.0+1500+600+7600+2100)/5, got.Features[0].MeanAbs, 1e-9)
	for i := 1; i < len(got.Features); i++ {
		assert.GreaterOrEqual(t, got.Features[i-1].MeanAbs, got.Features[i].MeanAbs)
	}

	assert.Equal(t, got, Importance(att, 0), "deterministic")

	top := Importance(att, 2)
	assert.Equal(t, got.Features[:2], top.Features)
	assert.Equal(t, 5, top.TotalFeatures)
}

func TestImportance_TiesKeepColumnOrder(t *testing.T) {
	f := artifact.SampleFixture(artifact.Horizon6)
	for i := range f.Contributions {
		f.Contributions[i] = []float64{1, -2, 2, -1, 2}
	}
	_, att := build(t, f)

	got := Importance(att, 0)

	var order []string
	for _, fi := range got.Features {
		order = append(order, fi.Feature)
	}
	assert.Equal(t, []string{"sat_avg", "pct_pell", "admission_rate", "median_family_income", "tuition"}, order)
}

func TestPredictions(t *testing.T) {
	ds, att := build(t, artifact.SampleFixture(artifact.Horizon6))

	got := Predictions(ds, att, 0)

	assert.Equal(t, 5, got.Total)
	require.Len(t, got.Entries, 5)
	assert.Equal(t, "Harvard University", got.Entries[0].School)
	assert.Equal(t, 52800.0, got.Entries[0].Prediction)
	assert.Equal(t, 1, got.Entries[0].Rank)
	for i := 1; i < len(got.Entries); i++ {
		assert.GreaterOrEqual(t, got.Entries[i-1].Prediction, got.Entries[i].Prediction)
		assert.Equal(t, i+1, got.Entries[i].Rank)
	}

	top := Predictions(ds, att, 2)
	assert.Equal(t, 5, top.Total)
	assert.Equal(t, got.Entries[:2], top.Entries)
}

func TestEmptyHorizon(t *testing.T) {
	ds, att := build(t, emptyFixture())

	inst := Instance(ds, att, 0, 0)
	assert.Empty(t, inst.Contributions)
	assert.Zero(t, inst.Sum)

	assert.Empty(t, Scatter(ds, att, 0).Points)

	imp := Importance(att, 0)
	assert.Empty(t, imp.Features)
	assert.Equal(t, 5, imp.TotalFeatures)

	pr := Predictions(ds, att, 10)
	assert.Empty(t, pr.Entries)
	assert.Zero(t, pr.Total)
}

func TestResult_JSON(t *testing.T) {
	ds, att := build(t, artifact.SampleFixture(artifact.Horizon6))
	sc := Scatter(ds, att, 0)
	r := &Result{Kind: KindScatter, Scatter: &sc}

	assert.Same(t, r.Scatter, r.View())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "scatter", m["kind"])
	assert.Contains(t, m, "scatter")
	assert.NotContains(t, m, "instance")
}
