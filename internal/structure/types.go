package structure

import (
	"fmt"
	"math"
)

// Local DOF slots of a node.
const (
	DofX = iota
	DofY
	DofR
	DofsPerNode
)

type Point struct {
	X float64
	Y float64
}

// Equal reports whether p and q denote the same node. A zero tolerance
// demands bit-exact coordinates.
func (p Point) Equal(q Point, tol float64) bool {
	if tol <= 0 {
		return p.X == q.X && p.Y == q.Y
	}
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

type Line struct {
	From Point
	To   Point
}

func (l Line) Length() float64 {
	return l.To.Sub(l.From).Norm()
}

// PointAt returns the point at parameter t in [0, 1] along the line.
func (l Line) PointAt(t float64) Point {
	return Point{
		X: l.From.X + t*(l.To.X-l.From.X),
		Y: l.From.Y + t*(l.To.Y-l.From.Y),
	}
}

// Node is a point of the structure with its global DOF indices. A nil
// constraint means the DOF is free; a non-nil value is the prescribed
// displacement.
type Node struct {
	ID    int
	Point Point
	Dofs  [DofsPerNode]int

	ConstraintX *float64
	ConstraintY *float64
	ConstraintR *float64

	ForceX  float64
	ForceY  float64
	MomentR float64

	// Hinge marks a node created to release rotation at a shared point.
	Hinge bool
}

func NewNode(p Point) *Node {
	return &Node{ID: -1, Point: p}
}

// Constraint returns the prescribed value of local DOF slot i, or nil.
func (n *Node) Constraint(i int) *float64 {
	switch i {
	case DofX:
		return n.ConstraintX
	case DofY:
		return n.ConstraintY
	case DofR:
		return n.ConstraintR
	}
	return nil
}

// Load returns the applied nodal load of local DOF slot i.
func (n *Node) Load(i int) float64 {
	switch i {
	case DofX:
		return n.ForceX
	case DofY:
		return n.ForceY
	case DofR:
		return n.MomentR
	}
	return 0
}

// AuxiliaryNode is an input record identified with a Node by coordinate.
type AuxiliaryNode interface {
	Location() Point
	Matches(n *Node, tol float64) bool
}

type ConstraintNode struct {
	Point       Point
	ConstraintX *float64
	ConstraintY *float64
	ConstraintR *float64
}

func (c ConstraintNode) Location() Point { return c.Point }

func (c ConstraintNode) Matches(n *Node, tol float64) bool {
	return Matches(c, n, tol)
}

// Apply copies the constraint payload onto n.
func (c ConstraintNode) Apply(n *Node) {
	n.ConstraintX = c.ConstraintX
	n.ConstraintY = c.ConstraintY
	n.ConstraintR = c.ConstraintR
}

type LoadNode struct {
	Point   Point
	ForceX  float64
	ForceY  float64
	MomentR float64
}

func (l LoadNode) Location() Point { return l.Point }

func (l LoadNode) Matches(n *Node, tol float64) bool {
	return Matches(l, n, tol)
}

// Apply copies the load payload onto n.
func (l LoadNode) Apply(n *Node) {
	n.ForceX = l.ForceX
	n.ForceY = l.ForceY
	n.MomentR = l.MomentR
}

type HingeNode struct {
	Point Point
}

func (h HingeNode) Location() Point { return h.Point }

func (h HingeNode) Matches(n *Node, tol float64) bool {
	return Matches(h, n, tol)
}

// Matches is the node-merging rule shared by all auxiliary records.
func Matches(a AuxiliaryNode, n *Node, tol float64) bool {
	if n == nil {
		return false
	}
	return a.Location().Equal(n.Point, tol)
}

// Fixed returns a pointer to v, for building constraint records.
func Fixed(v float64) *float64 {
	return &v
}

// FullyFixed returns a constraint record clamping all three DOFs at p.
func FullyFixed(p Point) ConstraintNode {
	return ConstraintNode{Point: p, ConstraintX: Fixed(0), ConstraintY: Fixed(0), ConstraintR: Fixed(0)}
}

// Pinned returns a constraint record fixing both translations at p.
func Pinned(p Point) ConstraintNode {
	return ConstraintNode{Point: p, ConstraintX: Fixed(0), ConstraintY: Fixed(0)}
}

// Roller returns a constraint record fixing only the y translation at p.
func Roller(p Point) ConstraintNode {
	return ConstraintNode{Point: p, ConstraintY: Fixed(0)}
}
