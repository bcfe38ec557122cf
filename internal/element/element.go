package element

import (
	"fmt"
	"strings"

	"github.com/san-kum/framesim/internal/structure"
	"gonum.org/v1/gonum/mat"
)

// Size is the number of DOFs of every element.
const Size = 2 * structure.DofsPerNode

type Kind int

const (
	KindBeam Kind = iota
	KindBar
)

func (k Kind) String() string {
	switch k {
	case KindBar:
		return "bar"
	default:
		return "beam"
	}
}

// ParseKind maps "bar" or "beam" (case-insensitive) to a Kind. An empty
// string selects a beam.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "beam":
		return KindBeam, nil
	case "bar", "truss":
		return KindBar, nil
	}
	return KindBeam, fmt.Errorf("unknown element kind: %s", s)
}

// Properties are the per-element scalars supplied with each line.
type Properties struct {
	Area    float64 // A
	Modulus float64 // E
	Inertia float64 // I, ignored by bars
	Load    float64 // uniform transverse load q along local y
}

type Element interface {
	Kind() Kind
	Nodes() [2]*structure.Node
	Properties() Properties
	Length() float64

	// Dofs returns the global DOF row [n1.dx, n1.dy, n1.rz, n2.dx, n2.dy, n2.rz].
	Dofs() [Size]int

	Transformation() *mat.Dense
	LocalStiffness() *mat.Dense
	StiffnessMatrix() *mat.Dense
	LoadVector() []float64

	ComputeSolution(u []float64, nrEvalPoints int) error
	Solution() *Solution

	GeometricNonlinearStiffness() (*mat.Dense, error)
	GeometricNonlinearStiffnessAt(normal float64) (*mat.Dense, error)
	GeometricStiffness(normal float64) *mat.Dense
}

// New builds an element of the given kind between n1 and n2.
func New(kind Kind, n1, n2 *structure.Node, p Properties) (Element, error) {
	m, err := newMember(n1, n2, p)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindBar:
		if p.Load != 0 {
			return nil, ErrBarLoad
		}
		if p.Area <= 0 || p.Modulus <= 0 {
			return nil, fmt.Errorf("%w: A=%g E=%g", ErrInvalidProperties, p.Area, p.Modulus)
		}
		return &Bar{member: m}, nil
	default:
		if p.Area <= 0 || p.Modulus <= 0 || p.Inertia <= 0 {
			return nil, fmt.Errorf("%w: A=%g E=%g I=%g", ErrInvalidProperties, p.Area, p.Modulus, p.Inertia)
		}
		return &Beam{member: m}, nil
	}
}

// member holds what bars and beams have in common.
type member struct {
	nodes  [2]*structure.Node
	props  Properties
	length float64
	nxx    float64 // Δx / L
	nyx    float64 // Δy / L
	sol    Solution
}

func newMember(n1, n2 *structure.Node, p Properties) (member, error) {
	d := n2.Point.Sub(n1.Point)
	l := d.Norm()
	if l <= 0 {
		return member{}, fmt.Errorf("%w: %v -> %v", structure.ErrZeroLength, n1.Point, n2.Point)
	}
	return member{
		nodes:  [2]*structure.Node{n1, n2},
		props:  p,
		length: l,
		nxx:    d.X / l,
		nyx:    d.Y / l,
	}, nil
}

func (m *member) Nodes() [2]*structure.Node { return m.nodes }
func (m *member) Properties() Properties    { return m.props }
func (m *member) Length() float64           { return m.length }
func (m *member) Solution() *Solution       { return &m.sol }

func (m *member) Dofs() [Size]int {
	var d [Size]int
	copy(d[:3], m.nodes[0].Dofs[:])
	copy(d[3:], m.nodes[1].Dofs[:])
	return d
}

func (m *member) Transformation() *mat.Dense {
	return Transformation(m.nxx, m.nyx)
}

// toGlobal returns Gᵗ·kl·G.
func (m *member) toGlobal(kl *mat.Dense) *mat.Dense {
	return congruence(m.Transformation(), kl)
}

// localDisplacements returns G·u.
func (m *member) localDisplacements(u []float64) ([]float64, error) {
	if len(u) != Size {
		return nil, fmt.Errorf("%w: got %d", ErrDisplacements, len(u))
	}
	var ul mat.VecDense
	ul.MulVec(m.Transformation(), mat.NewVecDense(Size, append([]float64(nil), u...)))
	return ul.RawVector().Data, nil
}

func (m *member) axialForce(ul []float64) float64 {
	return m.props.Area * m.props.Modulus / m.length * (ul[3] - ul[0])
}

// stations returns nrEvalPoints positions evenly spaced over [0, L].
func (m *member) stations(nrEvalPoints int) ([]float64, error) {
	if nrEvalPoints < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrEvalPoints, nrEvalPoints)
	}
	x := make([]float64, nrEvalPoints)
	for i := range x {
		x[i] = float64(i) / float64(nrEvalPoints-1) * m.length
	}
	return x, nil
}

func (m *member) normalForceRef() (float64, error) {
	if !m.sol.HasNormalForces() {
		return 0, ErrNormalForcesRequired
	}
	return m.sol.NormalForce[0], nil
}

func axialBlock(k *mat.Dense, ea float64) {
	k.Set(0, 0, ea)
	k.Set(0, 3, -ea)
	k.Set(3, 0, -ea)
	k.Set(3, 3, ea)
}
