package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
	"github.com/fyrsmithlabs/collegeroi/internal/index"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

func TestHorizonsCommand(t *testing.T) {
	out, err := execute(t, "horizons")
	require.NoError(t, err)
	assert.Equal(t, "6\n10\n", out)
}

func TestSchoolsCommand_JSON(t *testing.T) {
	out, err := execute(t, "schools", "6", "-o", "json")
	require.NoError(t, err)

	var schools []string
	require.NoError(t, json.Unmarshal([]byte(out), &schools))
	assert.Equal(t, artifact.SampleFixture(artifact.Horizon6).Schools, schools)
}

func TestFeaturesCommand(t *testing.T) {
	out, err := execute(t, "features", "10")
	require.NoError(t, err)
	assert.Equal(t, "admission_rate\nmedian_family_income\npct_pell\nsat_avg\ntuition\n", out)
}

func TestExplainCommand(t *testing.T) {
	out, err := execute(t, "explain", "6", "Harvard University")
	require.NoError(t, err)
	assert.Contains(t, out, "Harvard University")
	assert.Contains(t, out, "$52,800")
	assert.Contains(t, out, "$81,000 (train)")
}

func TestExplainCommand_YAML(t *testing.T) {
	out, err := execute(t, "explain", "6", "Harvard University", "-o", "yaml", "--max-display", "3")
	require.NoError(t, err)

	var got views.InstanceExplanation
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Harvard University", got.School)
	assert.InDelta(t, 52800.0, got.Prediction, 1e-9)
	require.Len(t, got.Contributions, 3)
	assert.True(t, got.Contributions[2].Aggregate)
}

func TestExplainCommand_UnknownSchool(t *testing.T) {
	_, err := execute(t, "explain", "6", "Nowhere College")
	assert.ErrorIs(t, err, index.ErrUnknownSchool)
}

func TestScatterCommand(t *testing.T) {
	out, err := execute(t, "scatter", "6", "sat_avg", "-o", "json")
	require.NoError(t, err)

	var got views.FeatureScatter
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "sat_avg", got.Feature)
	assert.Len(t, got.Points, 5)
}

func TestImportanceCommand(t *testing.T) {
	out, err := execute(t, "importance", "10", "--max-display", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "top 2 of 5 features")
}

func TestPredictionsCommand(t *testing.T) {
	out, err := execute(t, "predictions", "6", "--limit", "1", "-o", "json")
	require.NoError(t, err)

	var got views.PredictionRanking
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 5, got.Total)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 1, got.Entries[0].Rank)
}

func TestHealthCommand(t *testing.T) {
	out, err := execute(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: ok")
	assert.Contains(t, out, "Backend: in-process")
}

func TestCommand_InvalidHorizon(t *testing.T) {
	_, err := execute(t, "importance", "six")
	assert.EqualError(t, err, `horizon must be an integer, got "six"`)

	_, err = execute(t, "importance", "7")
	assert.ErrorIs(t, err, artifact.ErrInvalidHorizon)
}

func TestCommand_InvalidOutput(t *testing.T) {
	_, err := execute(t, "horizons", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}
