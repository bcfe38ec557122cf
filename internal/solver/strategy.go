// Package solver solves the partitioned frame system
//
//	K_ff·u_f = f_f − K_fb·u_b
//
// for the free DOFs and reinserts the prescribed boundary values. The
// factorization is pluggable through [Strategy].
package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/framesim/internal/stiffness"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxCondition is the largest condition number accepted before a
// reduced matrix is reported singular.
const DefaultMaxCondition = 1e14

// Boundary lists the prescribed DOFs and their values, in matching order.
type Boundary struct {
	Dofs   []int
	Values []float64
}

// Add appends a prescribed DOF. A DOF already present keeps its first value.
func (b *Boundary) Add(dof int, value float64) {
	for _, d := range b.Dofs {
		if d == dof {
			return
		}
	}
	b.Dofs = append(b.Dofs, dof)
	b.Values = append(b.Values, value)
}

func (b Boundary) Len() int { return len(b.Dofs) }

// Assembler is implemented by whatever owns the elements. Strategies that
// iterate on normal forces call back into it.
type Assembler interface {
	LinearStiffness() (*stiffness.Matrix, error)
	// RecoverNormalForces runs sectional-force recovery for u and returns
	// one normal force per element.
	RecoverNormalForces(u []float64) ([]float64, error)
	GeometricNonlinearStiffness() (*stiffness.Matrix, error)
}

type Strategy interface {
	Name() string
	Solve(k *stiffness.Matrix, f []float64, bc Boundary) ([]float64, error)
	SolveWithNormalForces(a Assembler, f []float64, bc Boundary) ([]float64, error)
}

// factorizer solves the reduced system kff·x = rhs.
type factorizer func(kff *mat.Dense, rhs *mat.VecDense) (*mat.VecDense, error)

// partitioned performs the shared partition, solve and reinsertion. It
// also stores the reduction on k.
func partitioned(k *stiffness.Matrix, f []float64, bc Boundary, solve factorizer) ([]float64, error) {
	n := k.NDof()
	if len(f) != n {
		return nil, fmt.Errorf("%w: force vector %d, ndof %d", ErrDimensionMismatch, len(f), n)
	}
	if len(bc.Dofs) != len(bc.Values) {
		return nil, fmt.Errorf("%w: %d boundary dofs, %d values", ErrDimensionMismatch, len(bc.Dofs), len(bc.Values))
	}
	if err := k.ComputeReducedMatrix(bc.Dofs); err != nil {
		return nil, err
	}

	u := make([]float64, n)
	seen := make(map[int]bool, len(bc.Dofs))
	for i, d := range bc.Dofs {
		if seen[d] {
			continue
		}
		seen[d] = true
		u[d] = bc.Values[i]
	}

	free := k.FreeDofs()
	if len(free) == 0 {
		return u, nil
	}
	bnd := k.BoundaryDofs()

	rhs := mat.NewVecDense(len(free), nil)
	for i, d := range free {
		rhs.SetVec(i, f[d])
	}
	if len(bnd) > 0 {
		ub := mat.NewVecDense(len(bnd), nil)
		for i, d := range bnd {
			ub.SetVec(i, u[d])
		}
		var kub mat.VecDense
		kub.MulVec(stiffness.Submatrix(k.FullK, free, bnd), ub)
		rhs.SubVec(rhs, &kub)
	}

	x, err := solve(k.ReducedK, rhs)
	if err != nil {
		return nil, err
	}
	for i, d := range free {
		v := x.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &SingularError{Size: len(free), Cond: math.Inf(1)}
		}
		u[d] = v
	}
	return u, nil
}
