package explorer

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

const (
	barWidth        = 24
	sparklineWidth  = 30
	sparklineHeight = 3
)

var (
	positiveBar = progress.New(
		progress.WithSolidFill("#00ff00"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	negativeBar = progress.New(
		progress.WithSolidFill("#ff0000"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	importanceBar = progress.New(
		progress.WithGradient("#00ffff", "#ff00ff"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
)

// Render renders the populated view of res. A nil result renders empty.
func Render(res *views.Result) string {
	if res == nil {
		return ""
	}
	switch res.Kind {
	case views.KindInstance:
		return RenderInstance(res.Instance)
	case views.KindScatter:
		return RenderScatter(res.Scatter)
	case views.KindImportance:
		return RenderImportance(res.Importance)
	case views.KindPredictions:
		return RenderPredictions(res.Predictions)
	}
	return ""
}

// RenderInstance renders a waterfall as base value, one signed bar per
// contribution and the resulting prediction.
func RenderInstance(e *views.InstanceExplanation) string {
	if e == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(sectionStyle.Render(fmt.Sprintf("┃ %s", e.School)) + " " +
		dimStyle.Render(fmt.Sprintf("%d-year horizon", e.Horizon)) + "\n")

	names := make([]string, len(e.Contributions))
	peak := 0.0
	for i, c := range e.Contributions {
		names[i] = c.Feature
		peak = math.Max(peak, math.Abs(c.Contribution))
	}
	width := columnWidth(names, "Base value", "Prediction")

	b.WriteString(labelStyle.Render(pad("Base value", width)) + "  " + valueStyle.Render(FormatDollars(e.BaseValue)) + "\n")
	for _, c := range e.Contributions {
		value := FormatValue(c.Value)
		if c.Aggregate {
			value = ""
		}
		b.WriteString(labelStyle.Render(pad(c.Feature, width)) + "  " +
			dimStyle.Render(fmt.Sprintf("%10s", value)) + "  " +
			signedStyle(c.Contribution).Render(fmt.Sprintf("%10s", FormatSigned(c.Contribution))) + "  " +
			signedBar(c.Contribution, peak) + "\n")
	}
	b.WriteString(labelStyle.Render(pad("Prediction", width)) + "  " + valueStyle.Render(FormatDollars(e.Prediction)) + "\n")
	if e.Observed != nil {
		b.WriteString(labelStyle.Render(pad("Observed", width)) + "  " +
			valueStyle.Render(FormatDollars(e.Observed.Value)) + " " +
			dimStyle.Render(fmt.Sprintf("(%s)", e.Observed.Split)) + "\n")
	}
	return b.String()
}

// RenderScatter renders each school's feature value and contribution with a
// sparkline of contributions ordered by feature value.
func RenderScatter(s *views.FeatureScatter) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(sectionStyle.Render(fmt.Sprintf("┃ %s", s.Feature)) + " " +
		dimStyle.Render(fmt.Sprintf("%d-year horizon, %d schools", s.Horizon, len(s.Points))) + "\n")
	if len(s.Points) == 0 {
		return b.String()
	}

	names := make([]string, len(s.Points))
	for i, p := range s.Points {
		names[i] = p.School
	}
	width := columnWidth(names)
	for _, p := range s.Points {
		v := p.Value
		b.WriteString(labelStyle.Render(pad(p.School, width)) + "  " +
			dimStyle.Render(fmt.Sprintf("%10s", FormatValue(&v))) + "  " +
			signedStyle(p.Contribution).Render(fmt.Sprintf("%10s", FormatSigned(p.Contribution))) + "\n")
	}

	sorted := slices.Clone(s.Points)
	slices.SortStableFunc(sorted, func(a, b views.ScatterPoint) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return 0
	})
	series := make([]float64, len(sorted))
	for i, p := range sorted {
		series[i] = p.Contribution
	}
	b.WriteString(dimStyle.Render("contribution by increasing value") + "\n")
	b.WriteString(renderSparkline(series) + "\n")
	return b.String()
}

// RenderImportance renders mean absolute contributions as bars scaled to the
// most important feature.
func RenderImportance(g *views.GlobalImportance) string {
	if g == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(sectionStyle.Render("┃ Global importance") + " " +
		dimStyle.Render(fmt.Sprintf("%d-year horizon, top %d of %d features", g.Horizon, len(g.Features), g.TotalFeatures)) + "\n")

	names := make([]string, len(g.Features))
	peak := 0.0
	for i, f := range g.Features {
		names[i] = f.Feature
		peak = math.Max(peak, f.MeanAbs)
	}
	width := columnWidth(names)
	for _, f := range g.Features {
		b.WriteString(labelStyle.Render(pad(f.Feature, width)) + "  " +
			valueStyle.Render(fmt.Sprintf("%10s", FormatDollars(f.MeanAbs))) + "  " +
			importanceBar.ViewAs(ratio(f.MeanAbs, peak)) + "\n")
	}
	return b.String()
}

// RenderPredictions renders ranked predictions with observed incomes where
// known, followed by a sparkline of the ranking.
func RenderPredictions(p *views.PredictionRanking) string {
	if p == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(sectionStyle.Render("┃ Predicted income") + " " +
		dimStyle.Render(fmt.Sprintf("%d-year horizon, top %d of %d schools", p.Horizon, len(p.Entries), p.Total)) + "\n")
	if len(p.Entries) == 0 {
		return b.String()
	}

	names := make([]string, len(p.Entries))
	series := make([]float64, len(p.Entries))
	for i, e := range p.Entries {
		names[i] = e.School
		series[i] = e.Prediction
	}
	width := columnWidth(names)
	for _, e := range p.Entries {
		line := dimStyle.Render(fmt.Sprintf("%5s", FormatRank(e.Rank))) + "  " +
			labelStyle.Render(pad(e.School, width)) + "  " +
			valueStyle.Render(fmt.Sprintf("%10s", FormatDollars(e.Prediction)))
		if e.Observed != nil {
			line += "  " + dimStyle.Render(fmt.Sprintf("observed %s (%s)", FormatDollars(e.Observed.Value), e.Observed.Split))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(renderSparkline(series) + "\n")
	return b.String()
}

// renderSparkline draws values shifted so the minimum sits on the baseline.
func renderSparkline(values []float64) string {
	if len(values) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}
	lo := slices.Min(values)
	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range values {
		spark.Push(v - lo)
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}

func signedBar(v, peak float64) string {
	if v < 0 {
		return negativeBar.ViewAs(ratio(-v, peak))
	}
	return positiveBar.ViewAs(ratio(v, peak))
}

func signedStyle(v float64) lipgloss.Style {
	if math.Round(v) < 0 {
		return negativeStyle
	}
	return positiveStyle
}

// ratio returns v/peak clamped to [0, 1]; a zero peak yields 0.
func ratio(v, peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	return math.Min(1, math.Max(0, v/peak))
}

func columnWidth(names []string, extra ...string) int {
	w := 0
	for _, group := range [][]string{names, extra} {
		for _, n := range group {
			w = max(w, len([]rune(n)))
		}
	}
	return w
}

func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
