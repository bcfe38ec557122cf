package frame

import (
	"fmt"
	"time"

	"github.com/san-kum/framesim/internal/element"
	"github.com/san-kum/framesim/internal/stiffness"
	"gonum.org/v1/gonum/mat"
)

// CalculateDisplacements solves the linear system with the configured
// strategy.
func (f *Frame) CalculateDisplacements() error {
	if f.K == nil {
		return ErrNotAssembled
	}
	start := time.Now()
	u, err := f.opts.strategy.Solve(f.K, f.Force, f.Boundary)
	if err != nil {
		return err
	}
	f.Displacements = u
	f.solvedK = f.K

	f.log.Info("solve.completed",
		"strategy", f.opts.strategy.Name(),
		"ndof", f.NDof,
		"free", len(f.K.FreeDofs()),
		"elapsed", time.Since(start),
	)
	return nil
}

// CalculateSecondOrderDisplacements asks the strategy to iterate on the
// element normal forces. Strategies that cannot do so return
// solver.ErrNotSupported.
func (f *Frame) CalculateSecondOrderDisplacements() error {
	if f.K == nil {
		return ErrNotAssembled
	}
	start := time.Now()
	u, err := f.opts.strategy.SolveWithNormalForces(f, f.Force, f.Boundary)
	if err != nil {
		return err
	}
	f.Displacements = u

	// The last matrix solved with reflects the converged normal forces.
	k, err := f.GeometricNonlinearStiffness()
	if err != nil {
		return err
	}
	if err := k.ComputeReducedMatrix(f.Boundary.Dofs); err != nil {
		return err
	}
	f.solvedK = k

	attrs := []any{"strategy", f.opts.strategy.Name(), "ndof", f.NDof, "elapsed", time.Since(start)}
	if it, ok := f.opts.strategy.(interface{ Iterations() int }); ok {
		attrs = append(attrs, "iterations", it.Iterations())
	}
	f.log.Info("solve.completed", attrs...)
	return nil
}

// ComputeSectionalForces recovers N, V and M on every element from the
// current displacements.
func (f *Frame) ComputeSectionalForces() error {
	if f.Displacements == nil {
		return ErrNotSolved
	}
	return f.recover(f.Displacements)
}

func (f *Frame) recover(u []float64) error {
	return forEach(len(f.Elements), f.opts.parallel, func(i int) error {
		if err := f.Elements[i].ComputeSolution(f.elementDisplacements(i, u), f.opts.evalPoints); err != nil {
			return &element.Error{Index: i, Wrapped: err}
		}
		return nil
	})
}

// Solutions returns the per-element results in element order.
func (f *Frame) Solutions() []*element.Solution {
	out := make([]*element.Solution, len(f.Elements))
	for i, e := range f.Elements {
		out[i] = e.Solution()
	}
	return out
}

// Reactions returns K·u − f over all DOFs. Free entries are equilibrium
// residuals and should be close to zero; boundary entries are the support
// reactions.
func (f *Frame) Reactions() ([]float64, error) {
	if f.Displacements == nil || f.solvedK == nil {
		return nil, ErrNotSolved
	}
	var r mat.VecDense
	r.MulVec(f.solvedK.FullK, mat.NewVecDense(f.NDof, append([]float64(nil), f.Displacements...)))
	out := r.RawVector().Data
	for i := range out {
		out[i] -= f.Force[i]
	}
	return out, nil
}

// Analyze runs the full pipeline. Strategies that iterate on normal forces
// take the second-order path.
func (f *Frame) Analyze() error {
	if err := f.EstablishTopology(); err != nil {
		return err
	}
	if err := f.AssembleSystem(); err != nil {
		return err
	}

	solve := f.CalculateDisplacements
	if _, ok := f.opts.strategy.(interface{ Iterations() int }); ok {
		solve = f.CalculateSecondOrderDisplacements
	}
	if err := solve(); err != nil {
		return err
	}
	return f.ComputeSectionalForces()
}

// LinearStiffness returns the assembled linear matrix.
func (f *Frame) LinearStiffness() (*stiffness.Matrix, error) {
	if f.K == nil {
		return nil, ErrNotAssembled
	}
	return f.K, nil
}

// RecoverNormalForces updates every element's solution for u and returns
// the element normal forces.
func (f *Frame) RecoverNormalForces(u []float64) ([]float64, error) {
	if len(u) != f.NDof {
		return nil, fmt.Errorf("frame: displacement vector %d, ndof %d", len(u), f.NDof)
	}
	if err := f.recover(u); err != nil {
		return nil, err
	}
	return f.normalForces(), nil
}

// GeometricNonlinearStiffness assembles the stability-function matrix from
// the normal forces of the last recovery.
func (f *Frame) GeometricNonlinearStiffness() (*stiffness.Matrix, error) {
	return f.assembleWith(stiffness.GeometricNonlinear, func(_ int, e element.Element) (*mat.Dense, error) {
		return e.GeometricNonlinearStiffness()
	})
}

func (f *Frame) normalForces() []float64 {
	n := make([]float64, len(f.Elements))
	for i, e := range f.Elements {
		if s := e.Solution(); s.HasNormalForces() {
			n[i] = s.NormalForce[0]
		}
	}
	return n
}
