package storage

import (
	"github.com/san-kum/framesim/internal/frame"
	"github.com/san-kum/framesim/internal/structure"
)

type NodeResult struct {
	ID    int        `json:"id"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Hinge bool       `json:"hinge,omitempty"`
	Dofs  [3]int     `json:"dofs"`
	U     [3]float64 `json:"u"`
}

type ElementResult struct {
	Index int             `json:"index"`
	Kind  string          `json:"kind"`
	From  structure.Point `json:"from"`
	To    structure.Point `json:"to"`
	X     []float64       `json:"x"`
	N     []float64       `json:"normal"`
	V     []float64       `json:"shear"`
	M     []float64       `json:"moment"`
}

// Result is a solved frame flattened for persistence and rendering.
type Result struct {
	Nodes     []NodeResult    `json:"nodes"`
	Elements  []ElementResult `json:"elements"`
	Reactions []float64       `json:"reactions,omitempty"`
}

// NewResult snapshots a frame after ComputeSectionalForces.
func NewResult(f *frame.Frame) (*Result, error) {
	if f.Displacements == nil {
		return nil, frame.ErrNotSolved
	}
	r := &Result{}
	for _, n := range f.Nodes {
		nr := NodeResult{ID: n.ID, X: n.Point.X, Y: n.Point.Y, Hinge: n.Hinge, Dofs: n.Dofs}
		for k, d := range n.Dofs {
			nr.U[k] = f.Displacements[d]
		}
		r.Nodes = append(r.Nodes, nr)
	}
	for i, e := range f.Elements {
		nodes := e.Nodes()
		sol := e.Solution()
		r.Elements = append(r.Elements, ElementResult{
			Index: i,
			Kind:  e.Kind().String(),
			From:  nodes[0].Point,
			To:    nodes[1].Point,
			X:     sol.X,
			N:     sol.NormalForce,
			V:     sol.ShearForce,
			M:     sol.BendingMoment,
		})
	}
	if reactions, err := f.Reactions(); err == nil {
		r.Reactions = reactions
	}
	return r, nil
}

// Field selects one sectional-force sequence of an element.
type Field int

const (
	Normal Field = iota
	Shear
	Moment
)

func (fd Field) String() string {
	switch fd {
	case Shear:
		return "shear"
	case Moment:
		return "moment"
	default:
		return "normal"
	}
}

func (e *ElementResult) Values(fd Field) []float64 {
	switch fd {
	case Shear:
		return e.V
	case Moment:
		return e.M
	default:
		return e.N
	}
}
