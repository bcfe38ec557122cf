package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrSingular indicates a singular or near-singular reduced stiffness matrix.
	ErrSingular = errors.New("solver: stiffness matrix is singular")

	// ErrNotSupported indicates the strategy cannot use normal-force data.
	ErrNotSupported = errors.New("solver: operation not supported by strategy")

	// ErrDimensionMismatch indicates vectors and matrix disagree in size.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")

	// ErrNoConvergence indicates an iterative strategy ran out of iterations.
	ErrNoConvergence = errors.New("solver: iteration did not converge")

	// ErrNotPositiveDefinite indicates a Cholesky factorization failed.
	ErrNotPositiveDefinite = errors.New("solver: matrix is not positive definite")
)

// SingularError reports the size and estimated condition number of a
// reduced matrix that could not be solved.
type SingularError struct {
	Size int
	Cond float64
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("%v (free dofs %d, cond %.3g)", ErrSingular, e.Size, e.Cond)
}

func (e *SingularError) Unwrap() error {
	return ErrSingular
}
