package views

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
)

func displayLimit(maxDisplay int) int {
	if maxDisplay <= 0 {
		return DefaultMaxDisplay
	}
	return maxDisplay
}

// Instance explains one row. Entries are ordered by descending absolute
// contribution, ties by column order. With more features than maxDisplay the
// first maxDisplay-1 are listed and the rest are summed into a single
// "N other features" entry. A row outside the attribution yields an empty
// explanation.
func Instance(ds *artifact.Dataset, att *artifact.Attribution, row, maxDisplay int) InstanceExplanation {
	out := InstanceExplanation{
		Horizon:       int(att.Horizon),
		TotalFeatures: att.Cols(),
		Contributions: []Contribution{},
	}
	if row < 0 || row >= att.Rows() {
		return out
	}

	contrib := att.Row(row)
	out.School = ds.Full.Index[row]
	out.BaseValue = att.Base[row]
	out.Sum = floats.Sum(contrib)
	out.Prediction = out.BaseValue + out.Sum
	out.Observed = observed(ds, out.School)

	order := make([]int, len(contrib))
	for j := range order {
		order[j] = j
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(math.Abs(contrib[b]), math.Abs(contrib[a]))
	})

	limit := displayLimit(maxDisplay)
	shown := order
	if len(order) > limit {
		shown = order[:limit-1]
	}
	for _, j := range shown {
		v := ds.Full.At(row, j)
		out.Contributions = append(out.Contributions, Contribution{
			Feature:      att.Features[j],
			Contribution: contrib[j],
			Value:        &v,
		})
	}
	if rest := order[len(shown):]; len(rest) > 0 {
		var sum float64
		for _, j := range rest {
			sum += contrib[j]
		}
		out.Contributions = append(out.Contributions, Contribution{
			Feature:      fmt.Sprintf("%d other features", len(rest)),
			Contribution: sum,
			Aggregate:    true,
			Count:        len(rest),
		})
	}
	return out
}

// Scatter pairs column col's values with its contributions, one point per
// row in dataset order.
func Scatter(ds *artifact.Dataset, att *artifact.Attribution, col int) FeatureScatter {
	out := FeatureScatter{Horizon: int(att.Horizon), Points: []ScatterPoint{}}
	if col < 0 || col >= att.Cols() {
		return out
	}
	out.Feature = att.Features[col]
	for i := range att.Rows() {
		out.Points = append(out.Points, ScatterPoint{
			School:       ds.Full.Index[i],
			Value:        ds.Full.At(i, col),
			Contribution: att.At(i, col),
		})
	}
	return out
}

// Importance ranks features by mean absolute contribution over every row,
// descending, ties by column order, truncated to maxDisplay.
func Importance(att *artifact.Attribution, maxDisplay int) GlobalImportance {
	out := GlobalImportance{
		Horizon:       int(att.Horizon),
		TotalFeatures: att.Cols(),
		Features:      []FeatureImportance{},
	}
	rows := att.Rows()
	if rows == 0 {
		return out
	}

	all := make([]FeatureImportance, att.Cols())
	for j, name := range att.Features {
		all[j] = FeatureImportance{
			Feature: name,
			MeanAbs: floats.Norm(att.Col(j), 1) / float64(rows),
		}
	}
	slices.SortStableFunc(all, func(a, b FeatureImportance) int {
		return cmp.Compare(b.MeanAbs, a.MeanAbs)
	})

	if limit := displayLimit(maxDisplay); len(all) > limit {
		all = all[:limit]
	}
	out.Features = append(out.Features, all...)
	return out
}

// Predictions ranks every row by base plus contributions, descending, ties by
// row order. A positive limit truncates the list; Total counts every row.
func Predictions(ds *artifact.Dataset, att *artifact.Attribution, limit int) PredictionRanking {
	rows := att.Rows()
	out := PredictionRanking{Horizon: int(att.Horizon), Total: rows, Entries: []RankedPrediction{}}

	all := make([]RankedPrediction, rows)
	for i := range rows {
		school := ds.Full.Index[i]
		all[i] = RankedPrediction{
			School:     school,
			Prediction: att.Prediction(i),
			Observed:   observed(ds, school),
		}
	}
	slices.SortStableFunc(all, func(a, b RankedPrediction) int {
		return cmp.Compare(b.Prediction, a.Prediction)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	for i := range all {
		all[i].Rank = i + 1
	}
	out.Entries = append(out.Entries, all...)
	return out
}

// observed returns school's target, preferring the training split.
func observed(ds *artifact.Dataset, school string) *Observed {
	if v, ok := ds.TrainTarget.Lookup(school); ok {
		return &Observed{Value: v, Split: SplitTrain}
	}
	if v, ok := ds.TestTarget.Lookup(school); ok {
		return &Observed{Value: v, Split: SplitTest}
	}
	return nil
}
