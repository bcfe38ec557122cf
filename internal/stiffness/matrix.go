// Package stiffness holds the global stiffness matrix of a frame and its
// reduction to the free DOFs.
package stiffness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type Kind int

const (
	Linear Kind = iota
	GeometricNonlinear
	Geometric
)

func (k Kind) String() string {
	switch k {
	case GeometricNonlinear:
		return "geometric-nonlinear"
	case Geometric:
		return "geometric"
	default:
		return "linear"
	}
}

// Matrix is the assembled NDof×NDof system. FullK accumulates element
// contributions; ReducedK is FullK restricted to the free DOFs.
type Matrix struct {
	Kind     Kind
	FullK    *mat.Dense
	ReducedK *mat.Dense

	ndof     int
	free     []int
	boundary []int
}

func New(kind Kind, ndof int) *Matrix {
	return &Matrix{
		Kind:  kind,
		FullK: mat.NewDense(ndof, ndof, nil),
		ndof:  ndof,
	}
}

func (m *Matrix) NDof() int { return m.ndof }

// Reset zeroes FullK and forgets the reduction.
func (m *Matrix) Reset() {
	m.FullK.Zero()
	m.ReducedK = nil
	m.free = nil
	m.boundary = nil
}

// AddElementContribution scatter-adds ke into FullK: FullK[dofs[i], dofs[j]] += ke[i, j].
func (m *Matrix) AddElementContribution(dofs []int, ke mat.Matrix) error {
	r, c := ke.Dims()
	if r != len(dofs) || c != len(dofs) {
		return fmt.Errorf("stiffness: element matrix %dx%d for %d dofs", r, c, len(dofs))
	}
	for _, d := range dofs {
		if d < 0 || d >= m.ndof {
			return fmt.Errorf("%w: %d (ndof %d)", ErrDofOutOfRange, d, m.ndof)
		}
	}
	for i, gi := range dofs {
		for j, gj := range dofs {
			m.FullK.Set(gi, gj, m.FullK.At(gi, gj)+ke.At(i, j))
		}
	}
	return nil
}

// ComputeReducedMatrix removes the rows and columns of the boundary DOFs.
// Duplicates in boundary are ignored.
func (m *Matrix) ComputeReducedMatrix(boundary []int) error {
	isBoundary := make([]bool, m.ndof)
	for _, d := range boundary {
		if d < 0 || d >= m.ndof {
			return fmt.Errorf("%w: %d (ndof %d)", ErrDofOutOfRange, d, m.ndof)
		}
		isBoundary[d] = true
	}

	m.free = make([]int, 0, m.ndof)
	m.boundary = make([]int, 0, len(boundary))
	for d, b := range isBoundary {
		if b {
			m.boundary = append(m.boundary, d)
		} else {
			m.free = append(m.free, d)
		}
	}

	m.ReducedK = Submatrix(m.FullK, m.free, m.free)
	return nil
}

// FreeDofs returns the free DOF indices in ascending order.
func (m *Matrix) FreeDofs() []int { return m.free }

// BoundaryDofs returns the deduplicated boundary DOF indices in ascending order.
func (m *Matrix) BoundaryDofs() []int { return m.boundary }

// IsSymmetric reports whether |K[i,j] − K[j,i]| ≤ tol·max|K| for all entries.
func (m *Matrix) IsSymmetric(tol float64) bool {
	return IsSymmetric(m.FullK, tol)
}

func IsSymmetric(k mat.Matrix, tol float64) bool {
	r, c := k.Dims()
	if r != c {
		return false
	}
	scale := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			scale = math.Max(scale, math.Abs(k.At(i, j)))
		}
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			if math.Abs(k.At(i, j)-k.At(j, i)) > tol*scale {
				return false
			}
		}
	}
	return true
}

// Submatrix copies the rows and cols of k into a new dense matrix. An empty
// selection yields nil.
func Submatrix(k mat.Matrix, rows, cols []int) *mat.Dense {
	if len(rows) == 0 || len(cols) == 0 {
		return nil
	}
	out := mat.NewDense(len(rows), len(cols), nil)
	for i, r := range rows {
		for j, c := range cols {
			out.Set(i, j, k.At(r, c))
		}
	}
	return out
}

// Sym returns the symmetric part of a square matrix as a SymDense.
func Sym(k mat.Matrix) *mat.SymDense {
	n, _ := k.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(k.At(i, j)+k.At(j, i)))
		}
	}
	return s
}

// Complement returns the indices of [0, n) not in set, ascending.
func Complement(n int, set []int) []int {
	in := make(map[int]bool, len(set))
	for _, d := range set {
		in[d] = true
	}
	out := make([]int, 0, n)
	for d := 0; d < n; d++ {
		if !in[d] {
			out = append(out, d)
		}
	}
	return out
}
