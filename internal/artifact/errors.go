package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHorizon matches errors for horizons outside {6, 10}.
	ErrInvalidHorizon = errors.New("invalid horizon")

	// ErrArtifactLoad matches errors for unreadable or malformed artifacts.
	ErrArtifactLoad = errors.New("artifact load failed")
)

// InvalidHorizonError reports a horizon outside the supported set.
type InvalidHorizonError struct {
	Horizon int
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("invalid horizon %d: must be 6 or 10", e.Horizon)
}

func (e *InvalidHorizonError) Is(target error) bool { return target == ErrInvalidHorizon }

// LoadError reports a failed load of one artifact for one horizon.
type LoadError struct {
	Horizon  Horizon
	Artifact string // file name, e.g. "shap_values6.json"
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s for horizon %d: %v", e.Artifact, e.Horizon, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrArtifactLoad }
