package artifact

import (
	"fmt"
	"math"
	"slices"
)

// additivityTolerance bounds |base + sum - prediction| relative to max(1, |prediction|).
const additivityTolerance = 1e-6

// validateAlignment checks that the tables and attribution describe the
// same schools and features in the same order.
func validateAlignment(ds *Dataset, att *Attribution) error {
	if att.Rows() != ds.Full.Rows() {
		return fmt.Errorf("attribution has %d rows, full table has %d", att.Rows(), ds.Full.Rows())
	}
	if !slices.Equal(att.Features, ds.Full.Columns) {
		return fmt.Errorf("attribution features %v do not match full table columns %v", att.Features, ds.Full.Columns)
	}
	for i, p := range att.Predictions {
		got := att.Prediction(i)
		if math.Abs(got-p) > additivityTolerance*math.Max(1, math.Abs(p)) {
			return fmt.Errorf("row %d (%s): base + contributions = %g, recorded prediction %g",
				i, ds.Full.Index[i], got, p)
		}
	}
	return nil
}

// validateSplit checks a split table against the full table and its target.
func validateSplit(full, split *Table, target *Series) error {
	if !slices.Equal(split.Columns, full.Columns) {
		return fmt.Errorf("columns %v do not match full table columns %v", split.Columns, full.Columns)
	}
	if target.Len() != split.Rows() {
		return fmt.Errorf("target has %d rows, split has %d", target.Len(), split.Rows())
	}
	return nil
}
