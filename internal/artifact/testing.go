package artifact

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/collegeroi/internal/storage"
)

// Fixture describes a small synthetic horizon for tests and demos.
// Values and Contributions are rows x features.
type Fixture struct {
	Horizon       Horizon
	IndexColumn   string
	Schools       []string
	Features      []string
	Values        [][]float64
	Contributions [][]float64
	Base          float64

	// TrainRows and TestRows index into Schools. Targets align with them.
	TrainRows   []int
	TrainTarget []float64
	TestRows    []int
	TestTarget  []float64

	// WithPredictions records base + sum per row in the artifact.
	WithPredictions bool
}

// SampleFixture returns a five school fixture. For horizon 6 Harvard
// University has base 45000 and its largest contribution is +8000 from
// median_family_income.
func SampleFixture(h Horizon) Fixture {
	f := Fixture{
		Horizon:     h,
		IndexColumn: DefaultIndexColumn,
		Schools: []string{
			"Harvard University",
			"Ohio State University",
			"Reed College",
			"Stanford University",
			"University of Texas at Austin",
		},
		Features: []string{"median_family_income", "sat_avg", "pct_pell", "tuition", "admission_rate"},
		Values: [][]float64{
			{168500, 1520, 0.12, 52000, 0.04},
			{86000, 1300, 0.22, 11500, 0.53},
			{97000, 1390, 0.16, 58000, 0.39},
			{171000, 1505, 0.15, 53500, 0.04},
			{79000, 1360, 0.27, 10800, 0.32},
		},
		Contributions: [][]float64{
			{8000, 3000, -1200, 500, -2500},
			{-1500, -400, -900, 200, 300},
			{600, 900, -100, -50, 150},
			{7600, 3100, -800, 450, -2600},
			{-2100, 100, -1400, 300, 700},
		},
		Base:            45000,
		TrainRows:       []int{0, 1, 2},
		TrainTarget:     []float64{81000, 52000, 41000},
		TestRows:        []int{3, 4},
		TestTarget:      []float64{84000, 49500},
		WithPredictions: true,
	}
	if h == Horizon10 {
		f.Base = 52000
		for i := range f.Contributions {
			for j := range f.Contributions[i] {
				f.Contributions[i][j] *= 1.25
			}
		}
		f.TrainTarget = []float64{95000, 61000, 50000}
		f.TestTarget = []float64{97500, 58000}
	}
	return f
}

// FullCSV renders the full feature table.
func (f Fixture) FullCSV() string {
	rows := make([]int, len(f.Schools))
	for i := range rows {
		rows[i] = i
	}
	return f.tableCSV(rows)
}

// TrainCSV renders the train split.
func (f Fixture) TrainCSV() string { return f.tableCSV(f.TrainRows) }

// TestCSV renders the test split.
func (f Fixture) TestCSV() string { return f.tableCSV(f.TestRows) }

// TrainTargetCSV renders the train target series.
func (f Fixture) TrainTargetCSV() string { return f.targetCSV(f.TrainRows, f.TrainTarget) }

// TestTargetCSV renders the test target series.
func (f Fixture) TestTargetCSV() string { return f.targetCSV(f.TestRows, f.TestTarget) }

// AttributionJSON renders the attribution artifact.
func (f Fixture) AttributionJSON() string {
	out := attributionFile{
		Values:       f.Contributions,
		FeatureNames: f.Features,
	}
	if out.Values == nil {
		out.Values = [][]float64{}
	}
	out.BaseValues, _ = json.Marshal(f.Base)
	if f.WithPredictions {
		out.Predictions = make([]float64, len(f.Contributions))
		for i, row := range f.Contributions {
			p := f.Base
			for _, c := range row {
				p += c
			}
			out.Predictions[i] = p
		}
	}
	b, _ := json.Marshal(out)
	return string(b)
}

// Seed writes every file of the fixture into mem under layout.
func (f Fixture) Seed(mem *storage.MemoryStore, layout Layout) error {
	files := layout.Files(f.Horizon)
	for name, body := range map[string]string{
		files.Full:        f.FullCSV(),
		files.Train:       f.TrainCSV(),
		files.Test:        f.TestCSV(),
		files.TrainTarget: f.TrainTargetCSV(),
		files.TestTarget:  f.TestTargetCSV(),
		files.Attribution: f.AttributionJSON(),
	} {
		if err := mem.Put(layout.Key(name), []byte(body)); err != nil {
			return err
		}
	}
	return nil
}

// Build decodes the fixture directly, without storage or validation.
func (f Fixture) Build() (*Dataset, *Attribution, error) {
	idx := f.indexColumn()
	ds := &Dataset{Horizon: f.Horizon}
	var err error
	if ds.Full, err = readTable(strings.NewReader(f.FullCSV()), idx); err != nil {
		return nil, nil, fmt.Errorf("full: %w", err)
	}
	if ds.Train, err = readTable(strings.NewReader(f.TrainCSV()), idx); err != nil {
		return nil, nil, fmt.Errorf("train: %w", err)
	}
	if ds.Test, err = readTable(strings.NewReader(f.TestCSV()), idx); err != nil {
		return nil, nil, fmt.Errorf("test: %w", err)
	}
	if ds.TrainTarget, err = readSeries(strings.NewReader(f.TrainTargetCSV()), idx); err != nil {
		return nil, nil, fmt.Errorf("train target: %w", err)
	}
	if ds.TestTarget, err = readSeries(strings.NewReader(f.TestTargetCSV()), idx); err != nil {
		return nil, nil, fmt.Errorf("test target: %w", err)
	}
	att, err := readAttribution(strings.NewReader(f.AttributionJSON()))
	if err != nil {
		return nil, nil, fmt.Errorf("attribution: %w", err)
	}
	att.Horizon = f.Horizon
	return ds, att, nil
}

func (f Fixture) indexColumn() string {
	if f.IndexColumn == "" {
		return DefaultIndexColumn
	}
	return f.IndexColumn
}

func (f Fixture) tableCSV(rows []int) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(append([]string{f.indexColumn()}, f.Features...))
	for _, i := range rows {
		rec := []string{f.Schools[i]}
		for _, v := range f.Values[i] {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		_ = w.Write(rec)
	}
	w.Flush()
	return buf.String()
}

func (f Fixture) targetCSV(rows []int, target []float64) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{f.indexColumn(), "earnings"})
	for k, i := range rows {
		_ = w.Write([]string{f.Schools[i], strconv.FormatFloat(target[k], 'g', -1, 64)})
	}
	w.Flush()
	return buf.String()
}
