package artifact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	in := "\ufeffsat_avg,School Name,tuition\n1520,Harvard University,52000\n1300, Ohio State University ,11500.5\n"

	tbl, err := readTable(strings.NewReader(in), "School Name")
	require.NoError(t, err)

	assert.Equal(t, []string{"Harvard University", " Ohio State University "}, tbl.Index)
	assert.Equal(t, []string{"sat_avg", "tuition"}, tbl.Columns)
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, 2, tbl.Cols())
	assert.Equal(t, 1520.0, tbl.At(0, 0))
	assert.Equal(t, 11500.5, tbl.At(1, 1))
	assert.Equal(t, []float64{52000, 11500.5}, tbl.Col(1))
}

func TestReadTable_HeaderOnly(t *testing.T) {
	tbl, err := readTable(strings.NewReader("School Name,sat_avg\n"), "School Name")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Rows())
	assert.Nil(t, tbl.Values)
	assert.Nil(t, tbl.Col(0))
}

func TestReadTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"empty file", "", "missing header"},
		{"missing index", "Name,sat_avg\nHarvard,1\n", `missing index column "School Name"`},
		{"duplicate column", "School Name,a,a\nHarvard,1,2\n", `duplicate column "a"`},
		{"empty cell", "School Name,a\nHarvard,\n", "empty value"},
		{"non numeric", "School Name,a\nHarvard,high\n", `non-numeric value "high"`},
		{"nan", "School Name,a\nHarvard,NaN\n", "non-finite"},
		{"ragged row", "School Name,a\nHarvard,1,2\n", "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readTable(strings.NewReader(tt.in), "School Name")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadSeries(t *testing.T) {
	s, err := readSeries(strings.NewReader("School Name,earnings\nHarvard University,81000\nReed College,41000\nHarvard University,1\n"), "School Name")
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "earnings", s.Name)

	v, ok := s.Lookup("Harvard University")
	assert.True(t, ok)
	assert.Equal(t, 81000.0, v, "first row wins for duplicate keys")

	_, ok = s.Lookup("MIT")
	assert.False(t, ok)

	var nilSeries *Series
	_, ok = nilSeries.Lookup("Harvard University")
	assert.False(t, ok)

	_, err = readSeries(strings.NewReader("School Name,a,b\nHarvard,1,2\n"), "School Name")
	assert.ErrorContains(t, err, "exactly one value column")
}

func TestReadAttribution(t *testing.T) {
	t.Run("per row base", func(t *testing.T) {
		att, err := readAttribution(strings.NewReader(`{"base_values":[1,2],"values":[[0.5,-0.5],[1,1]],"feature_names":["a","b"],"predictions":[1,4]}`))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, att.Base)
		assert.Equal(t, 2, att.Rows())
		assert.Equal(t, 2, att.Cols())
		assert.Equal(t, -0.5, att.At(0, 1))
		assert.Equal(t, []float64{1, 1}, att.Row(1))
		assert.Equal(t, []float64{-0.5, 1}, att.Col(1))
		assert.Equal(t, 2.0, att.Sum(1))
		assert.Equal(t, 4.0, att.Prediction(1))
		assert.Equal(t, []float64{1, 4}, att.Predictions)
	})

	t.Run("scalar base broadcast", func(t *testing.T) {
		att, err := readAttribution(strings.NewReader(`{"base_values":45000,"values":[[1],[2],[3]],"feature_names":["a"]}`))
		require.NoError(t, err)
		assert.Equal(t, []float64{45000, 45000, 45000}, att.Base)
		assert.Nil(t, att.Predictions)
	})

	t.Run("single element base broadcast", func(t *testing.T) {
		att, err := readAttribution(strings.NewReader(`{"base_values":[7],"values":[[1],[2]],"feature_names":["a"]}`))
		require.NoError(t, err)
		assert.Equal(t, []float64{7, 7}, att.Base)
	})

	t.Run("empty", func(t *testing.T) {
		att, err := readAttribution(strings.NewReader(`{"base_values":[],"values":[],"feature_names":["a","b"]}`))
		require.NoError(t, err)
		assert.Equal(t, 0, att.Rows())
		assert.Nil(t, att.Values)
		assert.Nil(t, att.Row(0))
		assert.Nil(t, att.Col(0))
	})
}

func TestReadAttribution_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"invalid json", `{"base_values":`, "decoding attribution json"},
		{"missing features", `{"base_values":1,"values":[[1]]}`, "missing feature_names"},
		{"missing base", `{"values":[[1]],"feature_names":["a"]}`, "missing base_values"},
		{"bad base", `{"base_values":"x","values":[[1]],"feature_names":["a"]}`, "base_values must be"},
		{"base length", `{"base_values":[1,2,3],"values":[[1],[2]],"feature_names":["a"]}`, "base_values has 3 entries, want 2"},
		{"ragged row", `{"base_values":0,"values":[[1,2],[3]],"feature_names":["a","b"]}`, "row 1 has 1 values, want 2"},
		{"predictions length", `{"base_values":0,"values":[[1]],"feature_names":["a"],"predictions":[1,2]}`, "predictions has 2 entries"},
		{"values without features", `{"base_values":0,"values":[[1]],"feature_names":[]}`, "row 0 has 1 values, want 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAttribution(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAlignment(t *testing.T) {
	ds, att, err := SampleFixture(Horizon6).Build()
	require.NoError(t, err)
	require.NoError(t, validateAlignment(ds, att))

	t.Run("prediction mismatch", func(t *testing.T) {
		bad := *att
		bad.Predictions = append([]float64(nil), att.Predictions...)
		bad.Predictions[2] += 10
		err := validateAlignment(ds, &bad)
		assert.ErrorContains(t, err, "row 2 (Reed College)")
	})

	t.Run("feature order", func(t *testing.T) {
		bad := *att
		bad.Features = []string{"sat_avg", "median_family_income", "pct_pell", "tuition", "admission_rate"}
		assert.ErrorContains(t, validateAlignment(ds, &bad), "do not match")
	})

	t.Run("row count", func(t *testing.T) {
		bad := *att
		bad.Base = att.Base[:4]
		assert.ErrorContains(t, validateAlignment(ds, &bad), "attribution has 4 rows")
	})
}

func TestLayoutFiles(t *testing.T) {
	l := Layout{Prefix: "saved_data"}

	assert.Equal(t, Files{
		Full:        "X_filled.csv",
		Train:       "Xtrain_filled.csv",
		TrainTarget: "ytrain.csv",
		Test:        "Xtest_filled.csv",
		TestTarget:  "ytest.csv",
		Attribution: "shap_values6.json",
	}, l.Files(Horizon6))

	assert.Equal(t, Files{
		Full:        "X_filled10.csv",
		Train:       "Xtrain_filled10.csv",
		TrainTarget: "ytrain10.csv",
		Test:        "Xtest_filled10.csv",
		TestTarget:  "ytest10.csv",
		Attribution: "shap_values10.json",
	}, l.Files(Horizon10))

	assert.Equal(t, "saved_data/X_filled.csv", l.Key("X_filled.csv"))
	assert.Equal(t, "X_filled.csv", Layout{}.Key("X_filled.csv"))
}

func TestParseHorizon(t *testing.T) {
	for _, h := range []int{6, 10} {
		got, err := ParseHorizon(h)
		require.NoError(t, err)
		assert.Equal(t, Horizon(h), got)
	}
	for _, h := range []int{0, 7, -6, 60} {
		_, err := ParseHorizon(h)
		assert.ErrorIs(t, err, ErrInvalidHorizon)
		var ihe *InvalidHorizonError
		require.ErrorAs(t, err, &ihe)
		assert.Equal(t, h, ihe.Horizon)
	}
	assert.Equal(t, []Horizon{6, 10}, Horizons())
}
