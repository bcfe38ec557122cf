package frame

import (
	"errors"
	"math"

	"github.com/san-kum/framesim/internal/element"
	"github.com/san-kum/framesim/internal/solver"
	"github.com/san-kum/framesim/internal/stiffness"
	"gonum.org/v1/gonum/mat"
)

// BucklingMode is one load factor of the reference load case with its
// full-size mode vector. Prescribed DOFs are zero in Shape.
type BucklingMode struct {
	Factor float64
	Shape  []float64
}

// AssembleGeometricStiffness sums the linearized geometric matrices of all
// elements for the recovered normal forces scaled by lambda.
func (f *Frame) AssembleGeometricStiffness(lambda float64) (*stiffness.Matrix, error) {
	if err := f.requireNormalForces(); err != nil {
		return nil, err
	}
	n := f.normalForces()
	return f.assembleWith(stiffness.Geometric, func(i int, e element.Element) (*mat.Dense, error) {
		return e.GeometricStiffness(lambda * n[i]), nil
	})
}

// Buckling solves (K + λ·K_G)·φ = 0 for the lowest load factors of the
// current load case. Mode vectors are also stored on the element solutions.
func (f *Frame) Buckling(modes int) ([]BucklingMode, error) {
	out, err := f.eigenModes(modes)
	if err != nil {
		return nil, err
	}
	for i, e := range f.Elements {
		sol := e.Solution()
		sol.BucklingModes = make([][]float64, len(out))
		for m := range out {
			sol.BucklingModes[m] = f.elementDisplacements(i, out[m].Shape)
		}
	}
	if len(out) > 0 {
		f.log.Info("buckling.completed", "modes", len(out), "factor", out[0].Factor)
	}
	return out, nil
}

func (f *Frame) eigenModes(modes int) ([]BucklingMode, error) {
	if err := f.requireNormalForces(); err != nil {
		return nil, err
	}
	if !f.hasCompression() {
		return nil, ErrNoCompression
	}

	kg, err := f.AssembleGeometricStiffness(1)
	if err != nil {
		return nil, err
	}
	free := stiffness.Complement(f.NDof, f.Boundary.Dofs)
	if len(free) == 0 {
		return nil, nil
	}
	found, err := solver.EigenBuckling(
		stiffness.Submatrix(f.K.FullK, free, free),
		stiffness.Submatrix(kg.FullK, free, free),
		modes,
	)
	if err != nil {
		return nil, err
	}

	out := make([]BucklingMode, len(found))
	for m, md := range found {
		shape := make([]float64, f.NDof)
		for i, d := range free {
			shape[d] = md.Shape[i]
		}
		out[m] = BucklingMode{Factor: md.Factor, Shape: shape}
	}
	return out, nil
}

// CriticalLoadFactor returns the load factor at which the stability-function
// stiffness of the reduced system stops being positive definite. Unlike
// Buckling it is exact per element, independent of mesh refinement.
func (f *Frame) CriticalLoadFactor() (float64, error) {
	if err := f.requireNormalForces(); err != nil {
		return 0, err
	}
	if !f.hasCompression() {
		return 0, ErrNoCompression
	}

	start := 1.0
	if modes, err := f.eigenModes(1); err == nil && len(modes) > 0 {
		start = 0.5 * modes[0].Factor
	}

	n := f.normalForces()
	free := stiffness.Complement(f.NDof, f.Boundary.Dofs)
	if len(free) == 0 {
		return math.Inf(1), nil
	}
	stable := func(lambda float64) (bool, error) {
		k, err := f.assembleWith(stiffness.GeometricNonlinear, func(i int, e element.Element) (*mat.Dense, error) {
			return e.GeometricNonlinearStiffnessAt(lambda * n[i])
		})
		if errors.Is(err, element.ErrStabilitySingular) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return solver.IsPositiveDefinite(stiffness.Submatrix(k.FullK, free, free)), nil
	}

	lambda, err := solver.CriticalFactor(stable, start, 1e-9, 200)
	if err != nil {
		return 0, err
	}
	f.log.Info("buckling.completed", "method", "stability-functions", "factor", lambda)
	return lambda, nil
}

func (f *Frame) requireNormalForces() error {
	if f.Displacements == nil {
		return ErrNotSolved
	}
	for _, e := range f.Elements {
		if !e.Solution().HasNormalForces() {
			return f.ComputeSectionalForces()
		}
	}
	return nil
}

func (f *Frame) hasCompression() bool {
	n := f.normalForces()
	scale := 0.0
	for _, v := range n {
		scale = math.Max(scale, math.Abs(v))
	}
	for _, v := range n {
		if v < -1e-12*scale {
			return true
		}
	}
	return false
}
