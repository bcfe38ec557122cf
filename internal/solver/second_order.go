package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/framesim/internal/stiffness"
)

const (
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 50
)

// SecondOrder is a P-Δ strategy. It starts from the linear solution and
// re-solves with the geometric-nonlinear stiffness of the current normal
// forces until those forces settle.
type SecondOrder struct {
	Inner         Strategy
	Tolerance     float64
	MaxIterations int

	iterations int
}

func NewSecondOrder(inner Strategy, tol float64, maxIter int) *SecondOrder {
	if inner == nil {
		inner = NewLU(DefaultMaxCondition)
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	return &SecondOrder{Inner: inner, Tolerance: tol, MaxIterations: maxIter}
}

func (s *SecondOrder) Name() string { return "second-order" }

// Iterations returns the number of nonlinear iterations of the last solve.
func (s *SecondOrder) Iterations() int { return s.iterations }

// Solve without an assembler is a plain linear solve.
func (s *SecondOrder) Solve(k *stiffness.Matrix, f []float64, bc Boundary) ([]float64, error) {
	return s.Inner.Solve(k, f, bc)
}

func (s *SecondOrder) SolveWithNormalForces(a Assembler, f []float64, bc Boundary) ([]float64, error) {
	s.iterations = 0
	k, err := a.LinearStiffness()
	if err != nil {
		return nil, err
	}
	u, err := s.Inner.Solve(k, f, bc)
	if err != nil {
		return nil, err
	}
	prev, err := a.RecoverNormalForces(u)
	if err != nil {
		return nil, err
	}

	for s.iterations < s.MaxIterations {
		s.iterations++
		kg, err := a.GeometricNonlinearStiffness()
		if err != nil {
			return nil, err
		}
		if u, err = s.Inner.Solve(kg, f, bc); err != nil {
			return nil, err
		}
		next, err := a.RecoverNormalForces(u)
		if err != nil {
			return nil, err
		}
		if converged(prev, next, s.Tolerance) {
			return u, nil
		}
		prev = next
	}
	return nil, fmt.Errorf("%w after %d iterations", ErrNoConvergence, s.iterations)
}

func converged(prev, next []float64, tol float64) bool {
	scale, diff := 1.0, 0.0
	for i := range next {
		scale = math.Max(scale, math.Abs(next[i]))
		diff = math.Max(diff, math.Abs(next[i]-prev[i]))
	}
	return diff <= tol*scale
}
