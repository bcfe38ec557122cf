package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/framesim/internal/stiffness"
	"gonum.org/v1/gonum/mat"
)

// LU is the default direct strategy: an LU factorization of K_ff guarded by
// a condition-number estimate.
type LU struct {
	MaxCondition float64
}

func NewLU(maxCond float64) *LU {
	if maxCond <= 0 {
		maxCond = DefaultMaxCondition
	}
	return &LU{MaxCondition: maxCond}
}

func (s *LU) Name() string { return "linear" }

func (s *LU) Solve(k *stiffness.Matrix, f []float64, bc Boundary) ([]float64, error) {
	return partitioned(k, f, bc, s.factorize)
}

func (s *LU) SolveWithNormalForces(Assembler, []float64, Boundary) ([]float64, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotSupported, s.Name())
}

func (s *LU) factorize(kff *mat.Dense, rhs *mat.VecDense) (*mat.VecDense, error) {
	n, _ := kff.Dims()
	var lu mat.LU
	lu.Factorize(kff)

	cond := lu.Cond()
	if math.IsNaN(cond) || cond > s.MaxCondition {
		return nil, &SingularError{Size: n, Cond: cond}
	}

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, rhs); err != nil {
		return nil, &SingularError{Size: n, Cond: cond}
	}
	return &x, nil
}

// Cholesky factorizes the symmetric part of K_ff. It fails on matrices
// that are not positive definite, which a well-supported frame never is.
type Cholesky struct {
	MaxCondition float64
}

func NewCholesky(maxCond float64) *Cholesky {
	if maxCond <= 0 {
		maxCond = DefaultMaxCondition
	}
	return &Cholesky{MaxCondition: maxCond}
}

func (s *Cholesky) Name() string { return "cholesky" }

func (s *Cholesky) Solve(k *stiffness.Matrix, f []float64, bc Boundary) ([]float64, error) {
	return partitioned(k, f, bc, s.factorize)
}

func (s *Cholesky) SolveWithNormalForces(Assembler, []float64, Boundary) ([]float64, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotSupported, s.Name())
}

func (s *Cholesky) factorize(kff *mat.Dense, rhs *mat.VecDense) (*mat.VecDense, error) {
	n, _ := kff.Dims()
	var ch mat.Cholesky
	if ok := ch.Factorize(stiffness.Sym(kff)); !ok {
		return nil, fmt.Errorf("%w: %w", ErrNotPositiveDefinite, &SingularError{Size: n, Cond: math.Inf(1)})
	}
	cond := ch.Cond()
	if math.IsNaN(cond) || cond > s.MaxCondition {
		return nil, &SingularError{Size: n, Cond: cond}
	}

	var x mat.VecDense
	if err := ch.SolveVecTo(&x, rhs); err != nil {
		return nil, &SingularError{Size: n, Cond: cond}
	}
	return &x, nil
}

// IsPositiveDefinite reports whether the symmetric part of k admits a
// Cholesky factorization.
func IsPositiveDefinite(k mat.Matrix) bool {
	var ch mat.Cholesky
	return ch.Factorize(stiffness.Sym(k))
}
