package artifact

import (
	"fmt"

	"github.com/fyrsmithlabs/collegeroi/internal/storage"
)

// DefaultIndexColumn is the CSV column holding the school key.
const DefaultIndexColumn = "School Name"

// Layout locates a horizon's files in storage.
type Layout struct {
	// Prefix is prepended to every file name, e.g. "saved_data".
	Prefix string
}

// Files names the six artifacts of one horizon.
type Files struct {
	Full        string
	Train       string
	TrainTarget string
	Test        string
	TestTarget  string
	Attribution string
}

// Files returns the file names for h. The 6-year files carry no suffix and
// the 10-year tables carry a "10" suffix.
func (l Layout) Files(h Horizon) Files {
	suffix := ""
	if h != Horizon6 {
		suffix = h.String()
	}
	return Files{
		Full:        fmt.Sprintf("X_filled%s.csv", suffix),
		Train:       fmt.Sprintf("Xtrain_filled%s.csv", suffix),
		TrainTarget: fmt.Sprintf("ytrain%s.csv", suffix),
		Test:        fmt.Sprintf("Xtest_filled%s.csv", suffix),
		TestTarget:  fmt.Sprintf("ytest%s.csv", suffix),
		Attribution: fmt.Sprintf("shap_values%d.json", h),
	}
}

// Key returns the storage key for name.
func (l Layout) Key(name string) string {
	return storage.JoinKey(l.Prefix, name)
}
