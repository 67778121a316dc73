package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
)

var (
	// ErrUnknownSchool matches lookups of a school absent from the horizon.
	ErrUnknownSchool = errors.New("unknown school")

	// ErrUnknownFeature matches lookups of a feature absent from the horizon.
	ErrUnknownFeature = errors.New("unknown feature")

	// ErrDuplicateKey matches lookups of a school stored on more than one row.
	ErrDuplicateKey = errors.New("duplicate key")
)

// UnknownSchoolError reports a school name with no row in the horizon.
type UnknownSchoolError struct {
	Horizon artifact.Horizon
	School  string
}

func (e *UnknownSchoolError) Error() string {
	return fmt.Sprintf("unknown school %q for horizon %d", e.School, e.Horizon)
}

func (e *UnknownSchoolError) Is(target error) bool { return target == ErrUnknownSchool }

// UnknownFeatureError reports a feature name absent from the horizon.
type UnknownFeatureError struct {
	Horizon artifact.Horizon
	Feature string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature %q for horizon %d", e.Feature, e.Horizon)
}

func (e *UnknownFeatureError) Is(target error) bool { return target == ErrUnknownFeature }

// DuplicateKeyError reports an artifact integrity violation: one school name on several rows.
type DuplicateKeyError struct {
	Horizon artifact.Horizon
	Key     string
	Rows    []int
}

func (e *DuplicateKeyError) Error() string {
	rows := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		rows[i] = fmt.Sprint(r)
	}
	return fmt.Sprintf("school %q appears on rows %s for horizon %d", e.Key, strings.Join(rows, ", "), e.Horizon)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }
