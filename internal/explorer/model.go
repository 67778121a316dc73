package explorer

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

// Explainer is the selection surface the explorer browses. *selection.Controller implements it.
type Explainer interface {
	ListHorizons() []int
	ListSchools(ctx context.Context, horizon int) ([]string, error)
	ListFeatures(ctx context.Context, horizon int) ([]string, error)
	Resolve(ctx context.Context, kind views.Kind, horizon int, params selection.Params) (*views.Result, error)
}

// request identifies the view a resultMsg or errMsg answers. Replies for a
// request that is no longer current are dropped.
type request struct {
	horizon int
	kind    views.Kind
	school  string
	feature string
}

// Message types
type catalogMsg struct {
	horizon  int
	schools  []string
	features []string
}

type resultMsg struct {
	req    request
	result *views.Result
}

// errMsg reports a failed load. Catalog failures match on horizon alone.
type errMsg struct {
	req     request
	catalog bool
	err     error
}

// Model represents the BubbleTea explorer model
type Model struct {
	ctx        context.Context
	explainer  Explainer
	maxDisplay int

	horizons []int
	horizon  int
	kind     views.Kind

	schools  []string
	features []string
	school   int
	feature  int

	result   *views.Result
	err      error
	loading  bool
	quitting bool
}

// NewModel creates an explorer starting on the first horizon's instance view.
// maxDisplay bounds the instance and importance views; zero uses the
// explainer's default.
func NewModel(ctx context.Context, explainer Explainer, maxDisplay int) Model {
	horizons := explainer.ListHorizons()
	m := Model{
		ctx:        ctx,
		explainer:  explainer,
		maxDisplay: maxDisplay,
		horizons:   horizons,
		kind:       views.KindInstance,
	}
	if len(horizons) > 0 {
		m.horizon = horizons[0]
	}
	return m
}

// Init loads the school and feature catalog of the starting horizon.
func (m Model) Init() tea.Cmd {
	return m.loadCatalog()
}

func (m Model) current() request {
	req := request{horizon: m.horizon, kind: m.kind}
	if m.school < len(m.schools) {
		req.school = m.schools[m.school]
	}
	if m.feature < len(m.features) {
		req.feature = m.features[m.feature]
	}
	return req
}

func (m Model) loadCatalog() tea.Cmd {
	ctx, explainer, horizon := m.ctx, m.explainer, m.horizon
	return func() tea.Msg {
		schools, err := explainer.ListSchools(ctx, horizon)
		if err != nil {
			return errMsg{req: request{horizon: horizon}, catalog: true, err: err}
		}
		features, err := explainer.ListFeatures(ctx, horizon)
		if err != nil {
			return errMsg{req: request{horizon: horizon}, catalog: true, err: err}
		}
		return catalogMsg{horizon: horizon, schools: schools, features: features}
	}
}

func (m Model) resolve() tea.Cmd {
	ctx, explainer, req := m.ctx, m.explainer, m.current()
	params := selection.Params{
		School:     req.school,
		Feature:    req.feature,
		MaxDisplay: m.maxDisplay,
		Limit:      m.maxDisplay,
	}
	return func() tea.Msg {
		res, err := explainer.Resolve(ctx, req.kind, req.horizon, params)
		if err != nil {
			return errMsg{req: req, err: err}
		}
		return resultMsg{req: req, result: res}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case catalogMsg:
		if msg.horizon != m.horizon {
			return m, nil
		}
		m.schools, m.features = msg.schools, msg.features
		m.school, m.feature = 0, 0
		return m.startResolve()

	case resultMsg:
		if msg.req != m.current() {
			return m, nil
		}
		m.result = msg.result
		m.err = nil
		m.loading = false
		return m, nil

	case errMsg:
		if msg.catalog && msg.req.horizon != m.horizon {
			return m, nil
		}
		if !msg.catalog && msg.req != m.current() {
			return m, nil
		}
		m.err = msg.err
		m.loading = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.kind = nextKind(m.kind, 1)
		return m.startResolve()
	case "shift+tab":
		m.kind = nextKind(m.kind, -1)
		return m.startResolve()
	case "h":
		if len(m.horizons) < 2 {
			return m, nil
		}
		m.horizon = m.horizons[(indexOf(m.horizons, m.horizon)+1)%len(m.horizons)]
		m.schools, m.features, m.result = nil, nil, nil
		m.loading = true
		return m, m.loadCatalog()
	case "up", "k":
		if m.move(-1) {
			return m.startResolve()
		}
	case "down", "j":
		if m.move(1) {
			return m.startResolve()
		}
	case "r":
		return m.startResolve()
	}
	return m, nil
}

// move shifts the cursor the current view depends on and reports whether it changed.
func (m *Model) move(delta int) bool {
	switch m.kind {
	case views.KindInstance:
		return step(&m.school, delta, len(m.schools))
	case views.KindScatter:
		return step(&m.feature, delta, len(m.features))
	}
	return false
}

func (m Model) startResolve() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, m.resolve()
}

func step(cursor *int, delta, n int) bool {
	next := *cursor + delta
	if next < 0 || next >= n {
		return false
	}
	*cursor = next
	return true
}

func nextKind(k views.Kind, delta int) views.Kind {
	kinds := views.Kinds()
	i := indexOf(kinds, k)
	return kinds[(i+delta+len(kinds))%len(kinds)]
}

func indexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return 0
}

// View renders the explorer
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render(" collegeroi explorer ")

	status := labelStyle.Render("Horizon: ") + valueStyle.Render(fmt.Sprintf("%d-year", m.horizon)) +
		"   " + labelStyle.Render("View: ") + valueStyle.Render(string(m.kind))
	if m.loading {
		status += "   " + dimStyle.Render("loading...")
	}

	content := header + "\n" + status + "\n" + m.renderCursor() + "\n"
	switch {
	case m.err != nil:
		content += errorStyle.Render("⚠ "+m.err.Error()) + "\n"
	case m.result != nil:
		content += Render(m.result)
	}

	content += footerStyle.Render(
		footerKeyStyle.Render("[tab]") + " view  " +
			footerKeyStyle.Render("[j/k]") + " select  " +
			footerKeyStyle.Render("[h]") + " horizon  " +
			footerKeyStyle.Render("[r]") + " reload  " +
			footerKeyStyle.Render("[q]") + " quit")

	return containerStyle.Render(content)
}

func (m Model) renderCursor() string {
	switch m.kind {
	case views.KindInstance:
		return cursorLine("School", m.schools, m.school)
	case views.KindScatter:
		return cursorLine("Feature", m.features, m.feature)
	}
	return ""
}

func cursorLine(label string, items []string, i int) string {
	if len(items) == 0 {
		return dimStyle.Render(fmt.Sprintf("%s: none", label))
	}
	return labelStyle.Render(fmt.Sprintf("%s %d/%d: ", label, i+1, len(items))) + selectedStyle.Render(items[i])
}
