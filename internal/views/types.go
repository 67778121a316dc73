package views

// DefaultMaxDisplay is the number of entries shown when a caller passes zero.
const DefaultMaxDisplay = 15

// Kind names a view.
type Kind string

const (
	KindInstance    Kind = "instance"
	KindScatter     Kind = "scatter"
	KindImportance  Kind = "importance"
	KindPredictions Kind = "predictions"
)

// Kinds returns every view kind.
func Kinds() []Kind {
	return []Kind{KindInstance, KindScatter, KindImportance, KindPredictions}
}

// Split names the dataset partition an observed target came from.
type Split string

const (
	SplitTrain Split = "train"
	SplitTest  Split = "test"
)

// Observed is a school's recorded income at the horizon.
type Observed struct {
	Value float64 `json:"value" yaml:"value"`
	Split Split   `json:"split" yaml:"split"`
}

// Contribution is one waterfall entry. Aggregate entries sum Count features
// and carry no raw value.
type Contribution struct {
	Feature      string   `json:"feature" yaml:"feature"`
	Contribution float64  `json:"contribution" yaml:"contribution"`
	Value        *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Aggregate    bool     `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`
	Count        int      `json:"count,omitempty" yaml:"count,omitempty"`
}

// InstanceExplanation is one school's waterfall. BaseValue plus the sum of
// Contributions equals Prediction.
type InstanceExplanation struct {
	Horizon       int            `json:"horizon" yaml:"horizon"`
	School        string         `json:"school" yaml:"school"`
	BaseValue     float64        `json:"base_value" yaml:"base_value"`
	Sum           float64        `json:"sum" yaml:"sum"`
	Prediction    float64        `json:"prediction" yaml:"prediction"`
	Observed      *Observed      `json:"observed,omitempty" yaml:"observed,omitempty"`
	TotalFeatures int            `json:"total_features" yaml:"total_features"`
	Contributions []Contribution `json:"contributions" yaml:"contributions"`
}

// ScatterPoint is one school in a FeatureScatter.
type ScatterPoint struct {
	School       string  `json:"school" yaml:"school"`
	Value        float64 `json:"value" yaml:"value"`
	Contribution float64 `json:"contribution" yaml:"contribution"`
}

// FeatureScatter pairs a feature's values with its contributions, in dataset row order.
type FeatureScatter struct {
	Horizon int            `json:"horizon" yaml:"horizon"`
	Feature string         `json:"feature" yaml:"feature"`
	Points  []ScatterPoint `json:"points" yaml:"points"`
}

// FeatureImportance is the mean absolute contribution of one feature.
type FeatureImportance struct {
	Feature string  `json:"feature" yaml:"feature"`
	MeanAbs float64 `json:"mean_abs" yaml:"mean_abs"`
}

// GlobalImportance ranks features by mean absolute contribution.
type GlobalImportance struct {
	Horizon       int                 `json:"horizon" yaml:"horizon"`
	TotalFeatures int                 `json:"total_features" yaml:"total_features"`
	Features      []FeatureImportance `json:"features" yaml:"features"`
}

// RankedPrediction is one row of a PredictionRanking. Rank starts at 1.
type RankedPrediction struct {
	Rank       int       `json:"rank" yaml:"rank"`
	School     string    `json:"school" yaml:"school"`
	Prediction float64   `json:"prediction" yaml:"prediction"`
	Observed   *Observed `json:"observed,omitempty" yaml:"observed,omitempty"`
}

// PredictionRanking lists predicted incomes, highest first.
type PredictionRanking struct {
	Horizon int                `json:"horizon" yaml:"horizon"`
	Total   int                `json:"total" yaml:"total"`
	Entries []RankedPrediction `json:"entries" yaml:"entries"`
}

// Result holds exactly one view, selected by Kind.
type Result struct {
	Kind        Kind                 `json:"kind" yaml:"kind"`
	Instance    *InstanceExplanation `json:"instance,omitempty" yaml:"instance,omitempty"`
	Scatter     *FeatureScatter      `json:"scatter,omitempty" yaml:"scatter,omitempty"`
	Importance  *GlobalImportance    `json:"importance,omitempty" yaml:"importance,omitempty"`
	Predictions *PredictionRanking   `json:"predictions,omitempty" yaml:"predictions,omitempty"`
}

// View returns the populated view.
func (r *Result) View() any {
	switch r.Kind {
	case KindInstance:
		return r.Instance
	case KindScatter:
		return r.Scatter
	case KindImportance:
		return r.Importance
	case KindPredictions:
		return r.Predictions
	}
	return nil
}
