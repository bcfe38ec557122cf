package frame

import (
	"log/slog"

	"github.com/san-kum/framesim/internal/element"
	"github.com/san-kum/framesim/internal/solver"
	"github.com/san-kum/framesim/internal/stiffness"
	"github.com/san-kum/framesim/internal/structure"
)

// Input is the raw description of a frame. Area, Modulus and Inertia must
// have one entry per line. Loads and Kinds may be empty, meaning zero load
// and beams throughout.
type Input struct {
	Lines   []structure.Line
	Area    []float64
	Modulus []float64
	Inertia []float64
	Loads   []float64
	Kinds   []element.Kind

	Constraints []structure.ConstraintNode
	LoadNodes   []structure.LoadNode
	Hinges      []structure.HingeNode
}

// Validate checks the per-line sequences before any computation.
func (in *Input) Validate() error {
	n := len(in.Lines)
	if n == 0 {
		return ErrNoElements
	}
	for _, c := range []struct {
		field    string
		got      int
		optional bool
	}{
		{"area", len(in.Area), false},
		{"modulus", len(in.Modulus), false},
		{"inertia", len(in.Inertia), false},
		{"loads", len(in.Loads), true},
		{"kinds", len(in.Kinds), true},
	} {
		if c.optional && c.got == 0 {
			continue
		}
		if c.got != n {
			return &InputError{Field: c.field, Got: c.got, Want: n}
		}
	}
	return nil
}

func (in *Input) properties(i int) element.Properties {
	p := element.Properties{Area: in.Area[i], Modulus: in.Modulus[i], Inertia: in.Inertia[i]}
	if len(in.Loads) > 0 {
		p.Load = in.Loads[i]
	}
	return p
}

func (in *Input) kind(i int) element.Kind {
	if len(in.Kinds) > 0 {
		return in.Kinds[i]
	}
	return element.KindBeam
}

type Frame struct {
	in   Input
	opts options
	log  *slog.Logger

	Nodes    []*structure.Node
	Elements []element.Element
	// EDof holds one global DOF row per element.
	EDof [][element.Size]int
	NDof int

	K             *stiffness.Matrix
	Force         []float64
	Boundary      solver.Boundary
	Displacements []float64

	// solvedK is the matrix of the last solve, linear or geometric-nonlinear.
	solvedK      *stiffness.Matrix
	boundaryDone bool

	unusedHinges         []structure.HingeNode
	unmatchedConstraints []structure.ConstraintNode
	unmatchedLoads       []structure.LoadNode
}

// New validates in and returns an unassembled frame.
func New(in Input, opts ...Option) (*Frame, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Frame{in: in, opts: o, log: o.logger()}, nil
}

func (f *Frame) Input() Input { return f.in }

func (f *Frame) EvalPoints() int { return f.opts.evalPoints }

func (f *Frame) Strategy() solver.Strategy { return f.opts.strategy }

// UnusedHinges returns the hinge records whose coordinate was never shared
// by two elements. They have no effect on the model.
func (f *Frame) UnusedHinges() []structure.HingeNode { return f.unusedHinges }

// UnmatchedConstraints returns the constraint records whose coordinate is
// not an element end. They constrain nothing.
func (f *Frame) UnmatchedConstraints() []structure.ConstraintNode { return f.unmatchedConstraints }

// UnmatchedLoads returns the load records whose coordinate is not an
// element end. They load nothing.
func (f *Frame) UnmatchedLoads() []structure.LoadNode { return f.unmatchedLoads }

func (f *Frame) reset() {
	f.Nodes = nil
	f.Elements = nil
	f.EDof = nil
	f.NDof = 0
	f.K = nil
	f.Force = nil
	f.Boundary = solver.Boundary{}
	f.boundaryDone = false
	f.Displacements = nil
	f.solvedK = nil
	f.unusedHinges = nil
	f.unmatchedConstraints = nil
	f.unmatchedLoads = nil
}

// EstablishTopology builds nodes, elements and the DOF map from the input
// lines. Calling it again rebuilds everything from scratch. On error the
// frame is left without topology.
func (f *Frame) EstablishTopology() error {
	f.reset()

	tol := f.opts.snapTol
	next := 0
	hingeUsed := make([]bool, len(f.in.Hinges))
	constraintUsed := make([]bool, len(f.in.Constraints))
	loadUsed := make([]bool, len(f.in.LoadNodes))

	resolve := func(p structure.Point) *structure.Node {
		n := structure.NewNode(p)
		existing := f.find(n, tol)
		if existing == nil {
			n.ID = len(f.Nodes)
			n.Dofs = [3]int{next, next + 1, next + 2}
			next += structure.DofsPerNode
			for i, c := range f.in.Constraints {
				if c.Matches(n, tol) {
					c.Apply(n)
					constraintUsed[i] = true
				}
			}
			for i, l := range f.in.LoadNodes {
				if l.Matches(n, tol) {
					l.Apply(n)
					loadUsed[i] = true
				}
			}
			f.Nodes = append(f.Nodes, n)
			return n
		}

		for i, h := range f.in.Hinges {
			if !h.Matches(existing, tol) {
				continue
			}
			hingeUsed[i] = true
			n.ID = len(f.Nodes)
			n.Point = existing.Point
			n.Dofs = [3]int{existing.Dofs[structure.DofX], existing.Dofs[structure.DofY], next}
			n.Hinge = true
			next++
			f.Nodes = append(f.Nodes, n)
			return n
		}
		return existing
	}

	for i, line := range f.in.Lines {
		n1 := resolve(line.From)
		n2 := resolve(line.To)

		e, err := element.New(f.in.kind(i), n1, n2, f.in.properties(i))
		if err != nil {
			f.reset()
			return &element.Error{Index: i, Wrapped: err}
		}
		f.Elements = append(f.Elements, e)
		f.EDof = append(f.EDof, e.Dofs())
	}

	f.NDof = f.Nodes[len(f.Nodes)-1].Dofs[structure.DofR] + 1

	for i, used := range hingeUsed {
		if !used {
			h := f.in.Hinges[i]
			f.unusedHinges = append(f.unusedHinges, h)
			f.log.Warn("hinge.unused", "point", h.Point.String())
		}
	}
	for i, used := range constraintUsed {
		if !used {
			c := f.in.Constraints[i]
			f.unmatchedConstraints = append(f.unmatchedConstraints, c)
			f.log.Warn("constraint.unmatched", "point", c.Point.String())
		}
	}
	for i, used := range loadUsed {
		if !used {
			l := f.in.LoadNodes[i]
			f.unmatchedLoads = append(f.unmatchedLoads, l)
			f.log.Warn("load.unmatched", "point", l.Point.String())
		}
	}

	f.log.Debug("topology.established",
		"nodes", len(f.Nodes),
		"elements", len(f.Elements),
		"ndof", f.NDof,
		"hinges", len(f.in.Hinges)-len(f.unusedHinges),
	)
	return nil
}

// find returns the first non-hinge node matching n's coordinate.
func (f *Frame) find(n *structure.Node, tol float64) *structure.Node {
	for _, existing := range f.Nodes {
		if !existing.Hinge && existing.Point.Equal(n.Point, tol) {
			return existing
		}
	}
	return nil
}

// NodeAt returns the primary node at p, or nil.
func (f *Frame) NodeAt(p structure.Point) *structure.Node {
	return f.find(structure.NewNode(p), f.opts.snapTol)
}

// elementDisplacements slices u by element i's DOF row.
func (f *Frame) elementDisplacements(i int, u []float64) []float64 {
	out := make([]float64, element.Size)
	for k, d := range f.EDof[i] {
		out[k] = u[d]
	}
	return out
}
