package element

import (
	"errors"
	"fmt"
)

var (
	// ErrNormalForcesRequired indicates the normal-force field has not been recovered yet.
	ErrNormalForcesRequired = errors.New("element: normal forces required (compute the solution first)")

	// ErrEvalPoints indicates fewer than two evaluation points were requested.
	ErrEvalPoints = errors.New("element: at least two evaluation points are required")

	// ErrStabilitySingular indicates the stability functions are not finite for the given axial load.
	ErrStabilitySingular = errors.New("element: stability functions singular for axial load")

	// ErrBarLoad indicates a transverse load was assigned to an axial-only element.
	ErrBarLoad = errors.New("element: bar elements cannot carry transverse loads")

	// ErrInvalidProperties indicates a non-positive section or material property.
	ErrInvalidProperties = errors.New("element: section properties must be positive")

	// ErrDisplacements indicates a displacement vector of the wrong size.
	ErrDisplacements = errors.New("element: expected 6 nodal displacements")
)

// Error wraps an element failure with the element's index in the frame.
type Error struct {
	Index   int
	Wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
