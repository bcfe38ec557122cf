package frame

import (
	"github.com/san-kum/framesim/internal/element"
	"github.com/san-kum/framesim/internal/solver"
	"github.com/san-kum/framesim/internal/stiffness"
	"github.com/san-kum/framesim/internal/structure"
	"gonum.org/v1/gonum/mat"
)

// CreateForceVector resets the force vector to the applied nodal loads.
// Hinge nodes carry no loads of their own, so nothing is counted twice.
func (f *Frame) CreateForceVector() error {
	if f.Nodes == nil {
		return ErrTopologyMissing
	}
	f.Force = make([]float64, f.NDof)
	for _, n := range f.Nodes {
		for k := 0; k < structure.DofsPerNode; k++ {
			f.Force[n.Dofs[k]] += n.Load(k)
		}
	}
	return nil
}

// CreateBoundaryVector collects the constrained DOFs and their prescribed
// values in node order. A DOF shared by several nodes appears once.
func (f *Frame) CreateBoundaryVector() error {
	if f.Nodes == nil {
		return ErrTopologyMissing
	}
	var bc solver.Boundary
	for _, n := range f.Nodes {
		for k := 0; k < structure.DofsPerNode; k++ {
			if c := n.Constraint(k); c != nil {
				bc.Add(n.Dofs[k], *c)
			}
		}
	}
	f.Boundary = bc
	f.boundaryDone = true
	return nil
}

// contribution is one element's share of the global system.
type contribution struct {
	k    *mat.Dense
	load []float64
}

// AssembleSystem builds FullK and the force vector from scratch. Element
// matrices may be computed in parallel; they are summed in element order.
func (f *Frame) AssembleSystem() error {
	if f.Nodes == nil {
		return ErrTopologyMissing
	}
	if err := f.CreateForceVector(); err != nil {
		return err
	}
	if !f.boundaryDone {
		if err := f.CreateBoundaryVector(); err != nil {
			return err
		}
	}

	parts := make([]contribution, len(f.Elements))
	err := forEach(len(f.Elements), f.opts.parallel, func(i int) error {
		e := f.Elements[i]
		parts[i] = contribution{k: e.StiffnessMatrix(), load: e.LoadVector()}
		return nil
	})
	if err != nil {
		return err
	}

	k, err := f.scatter(stiffness.Linear, parts)
	if err != nil {
		return err
	}
	for i, p := range parts {
		for j, d := range f.EDof[i] {
			f.Force[d] += p.load[j]
		}
	}
	f.K = k

	f.log.Debug("system.assembled",
		"ndof", f.NDof,
		"boundary", f.Boundary.Len(),
		"parallel", f.opts.parallel,
	)
	return nil
}

func (f *Frame) scatter(kind stiffness.Kind, parts []contribution) (*stiffness.Matrix, error) {
	k := stiffness.New(kind, f.NDof)
	for i, p := range parts {
		if err := k.AddElementContribution(f.EDof[i][:], p.k); err != nil {
			return nil, &element.Error{Index: i, Wrapped: err}
		}
	}
	return k, nil
}

// assembleWith sums the matrices produced by build for every element.
func (f *Frame) assembleWith(kind stiffness.Kind, build func(i int, e element.Element) (*mat.Dense, error)) (*stiffness.Matrix, error) {
	if f.Nodes == nil {
		return nil, ErrTopologyMissing
	}
	parts := make([]contribution, len(f.Elements))
	err := forEach(len(f.Elements), f.opts.parallel, func(i int) error {
		m, err := build(i, f.Elements[i])
		if err != nil {
			return &element.Error{Index: i, Wrapped: err}
		}
		parts[i] = contribution{k: m}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f.scatter(kind, parts)
}
