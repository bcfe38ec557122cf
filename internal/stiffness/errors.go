package stiffness

import "errors"

var (
	// ErrDofOutOfRange indicates an element DOF outside [0, NDof).
	ErrDofOutOfRange = errors.New("stiffness: dof index out of range")

	// ErrNotReduced indicates ReducedK was requested before ComputeReducedMatrix.
	ErrNotReduced = errors.New("stiffness: reduced matrix not computed")
)
