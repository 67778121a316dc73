package explorer

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

// fakeExplainer serves fixed catalogs and echoes the resolved selection.
type fakeExplainer struct {
	schools  map[int][]string
	features map[int][]string
	err      error
	calls    []selection.Params
}

func newFake() *fakeExplainer {
	return &fakeExplainer{
		schools: map[int][]string{
			6:  {"Harvard University", "Reed College"},
			10: {"Stanford University"},
		},
		features: map[int][]string{
			6:  {"sat_avg", "tuition"},
			10: {"sat_avg"},
		},
	}
}

func (f *fakeExplainer) ListHorizons() []int { return []int{6, 10} }

func (f *fakeExplainer) ListSchools(ctx context.Context, h int) ([]string, error) {
	return f.schools[h], f.err
}

func (f *fakeExplainer) ListFeatures(ctx context.Context, h int) ([]string, error) {
	return f.features[h], f.err
}

func (f *fakeExplainer) Resolve(ctx context.Context, kind views.Kind, h int, p selection.Params) (*views.Result, error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return nil, f.err
	}
	res := &views.Result{Kind: kind}
	switch kind {
	case views.KindInstance:
		res.Instance = &views.InstanceExplanation{Horizon: h, School: p.School, Contributions: []views.Contribution{}}
	case views.KindScatter:
		res.Scatter = &views.FeatureScatter{Horizon: h, Feature: p.Feature, Points: []views.ScatterPoint{}}
	case views.KindImportance:
		res.Importance = &views.GlobalImportance{Horizon: h, Features: []views.FeatureImportance{}}
	case views.KindPredictions:
		res.Predictions = &views.PredictionRanking{Horizon: h, Entries: []views.RankedPrediction{}}
	}
	return res, nil
}

// drive runs cmd and feeds its message back until no command remains.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		var next tea.Model
		next, cmd = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(key(s))
	return drive(t, next.(Model), cmd)
}

func started(t *testing.T, f *fakeExplainer) Model {
	t.Helper()
	m := NewModel(context.Background(), f, 5)
	return drive(t, m, m.Init())
}

func TestNewModel(t *testing.T) {
	m := NewModel(context.Background(), newFake(), 5)
	assert.Equal(t, 6, m.horizon)
	assert.Equal(t, views.KindInstance, m.kind)
	assert.False(t, m.quitting)
	assert.NotNil(t, m.Init())
}

func TestModel_InitLoadsCatalogAndFirstSchool(t *testing.T) {
	f := newFake()
	m := started(t, f)

	assert.Equal(t, []string{"Harvard University", "Reed College"}, m.schools)
	require.NotNil(t, m.result)
	assert.Equal(t, "Harvard University", m.result.Instance.School)
	assert.False(t, m.loading)
	assert.Equal(t, selection.Params{School: "Harvard University", Feature: "sat_avg", MaxDisplay: 5, Limit: 5}, f.calls[0])
	assert.Contains(t, m.View(), "School 1/2: Harvard University")
}

func TestModel_Update_QuitKey(t *testing.T) {
	m := started(t, newFake())

	updated, cmd := m.Update(key("q"))

	assert.True(t, updated.(Model).quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, updated.(Model).View())
}

func TestModel_MoveSchool(t *testing.T) {
	m := started(t, newFake())

	m = press(t, m, "j")
	assert.Equal(t, "Reed College", m.result.Instance.School)

	// Already at the end: no new request.
	f := m.explainer.(*fakeExplainer)
	calls := len(f.calls)
	m = press(t, m, "down")
	assert.Len(t, f.calls, calls)
	assert.Equal(t, 1, m.school)

	m = press(t, m, "up")
	assert.Equal(t, "Harvard University", m.result.Instance.School)
}

func TestModel_CycleViews(t *testing.T) {
	m := started(t, newFake())

	m = press(t, m, "tab")
	assert.Equal(t, views.KindScatter, m.kind)
	assert.Equal(t, "sat_avg", m.result.Scatter.Feature)

	m = press(t, m, "j")
	assert.Equal(t, "tuition", m.result.Scatter.Feature)
	assert.Contains(t, m.View(), "Feature 2/2: tuition")

	m = press(t, m, "tab")
	m = press(t, m, "tab")
	assert.Equal(t, views.KindPredictions, m.kind)
	require.NotNil(t, m.result.Predictions)

	m = press(t, m, "tab")
	assert.Equal(t, views.KindInstance, m.kind, "wraps around")

	m = press(t, m, "shift+tab")
	assert.Equal(t, views.KindPredictions, m.kind)
}

func TestModel_SwitchHorizon(t *testing.T) {
	m := started(t, newFake())

	m = press(t, m, "h")
	assert.Equal(t, 10, m.horizon)
	assert.Equal(t, []string{"Stanford University"}, m.schools)
	assert.Equal(t, "Stanford University", m.result.Instance.School)
	assert.Equal(t, 10, m.result.Instance.Horizon)

	m = press(t, m, "h")
	assert.Equal(t, 6, m.horizon)
}

func TestModel_StaleResultDropped(t *testing.T) {
	m := started(t, newFake())
	stale := resultMsg{
		req:    request{horizon: 10, kind: views.KindInstance, school: "Stanford University"},
		result: &views.Result{Kind: views.KindInstance, Instance: &views.InstanceExplanation{School: "Stanford University"}},
	}

	next, cmd := m.Update(stale)

	assert.Nil(t, cmd)
	assert.Equal(t, "Harvard University", next.(Model).result.Instance.School)

	next, _ = m.Update(catalogMsg{horizon: 10, schools: []string{"x"}})
	assert.Equal(t, m.schools, next.(Model).schools)
}

func TestModel_Error(t *testing.T) {
	f := newFake()
	f.err = errors.New("artifact storage unavailable")

	m := started(t, f)

	assert.Error(t, m.err)
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "artifact storage unavailable")
}

func TestModel_StaleErrorDropped(t *testing.T) {
	f := newFake()
	m := started(t, f)
	staleResolve := m.resolve()

	m = press(t, m, "down")
	require.Equal(t, "Reed College", m.result.Instance.School)

	f.err = errors.New("artifact storage unavailable")
	next, cmd := m.Update(staleResolve())
	assert.Nil(t, cmd)
	assert.NoError(t, next.(Model).err)
	assert.Equal(t, "Reed College", next.(Model).result.Instance.School)

	next, _ = m.Update(errMsg{req: request{horizon: 10}, catalog: true, err: f.err})
	assert.NoError(t, next.(Model).err)

	next, _ = m.Update(m.resolve()())
	assert.EqualError(t, next.(Model).err, "artifact storage unavailable")
}
