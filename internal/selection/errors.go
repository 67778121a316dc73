package selection

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

// ErrUnknownView matches selections naming a view kind that does not exist.
var ErrUnknownView = errors.New("unknown view")

// UnknownViewError reports an unrecognised view kind.
type UnknownViewError struct {
	Kind views.Kind
}

func (e *UnknownViewError) Error() string {
	return fmt.Sprintf("unknown view %q", e.Kind)
}

func (e *UnknownViewError) Is(target error) bool { return target == ErrUnknownView }
