package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

func TestRemoteBackend_Catalog(t *testing.T) {
	ts := sampleServer(t)
	ctx := context.Background()

	b, err := newRemoteBackend(ctx, ts.URL+"/")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, []int{6, 10}, b.ListHorizons())

	schools, err := b.ListSchools(ctx, 6)
	require.NoError(t, err)
	assert.Contains(t, schools, "Harvard University")

	features, err := b.ListFeatures(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"admission_rate", "median_family_income", "pct_pell", "sat_avg", "tuition"}, features)

	health, err := b.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.ElementsMatch(t, []int{6, 10}, health.LoadedHorizons)
}

func TestRemoteBackend_Resolve(t *testing.T) {
	ts := sampleServer(t)
	ctx := context.Background()
	b, err := newRemoteBackend(ctx, ts.URL)
	require.NoError(t, err)

	res, err := b.Resolve(ctx, views.KindInstance, 6, selection.Params{School: "Harvard University", MaxDisplay: 3})
	require.NoError(t, err)
	require.NotNil(t, res.Instance)
	assert.InDelta(t, 52800.0, res.Instance.Prediction, 1e-9)
	assert.Len(t, res.Instance.Contributions, 3)

	res, err = b.Resolve(ctx, views.KindPredictions, 10, selection.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Predictions.Total)
	assert.Len(t, res.Predictions.Entries, 2)

	res, err = b.Resolve(ctx, views.KindScatter, 6, selection.Params{Feature: "sat_avg"})
	require.NoError(t, err)
	assert.Len(t, res.Scatter.Points, 5)

	res, err = b.Resolve(ctx, views.KindImportance, 6, selection.Params{})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Importance.TotalFeatures)
}

func TestRemoteBackend_Errors(t *testing.T) {
	ts := sampleServer(t)
	ctx := context.Background()
	b, err := newRemoteBackend(ctx, ts.URL)
	require.NoError(t, err)

	_, err = b.Resolve(ctx, views.KindInstance, 6, selection.Params{School: "Nowhere College"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Contains(t, se.Message, "Nowhere College")

	_, err = b.ListSchools(ctx, 7)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)

	_, err = b.Resolve(ctx, views.Kind("waterfall"), 6, selection.Params{})
	assert.ErrorIs(t, err, selection.ErrUnknownView)
}

func TestNewRemoteBackend_Unreachable(t *testing.T) {
	ts := sampleServer(t)
	url := ts.URL
	ts.Close()

	_, err := newRemoteBackend(context.Background(), url)
	assert.ErrorContains(t, err, "failed to send request")
}
