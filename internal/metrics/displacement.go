package metrics

import (
	"math"

	"github.com/san-kum/framesim/internal/storage"
)

// MaxDisplacement is the largest nodal translation magnitude.
type MaxDisplacement struct {
	max float64
}

func NewMaxDisplacement() *MaxDisplacement {
	return &MaxDisplacement{}
}

func (m *MaxDisplacement) Name() string { return "max_displacement" }

func (m *MaxDisplacement) Observe(r *storage.Result) {
	for _, n := range r.Nodes {
		m.max = math.Max(m.max, math.Hypot(n.U[0], n.U[1]))
	}
}

func (m *MaxDisplacement) Value() float64 { return m.max }
func (m *MaxDisplacement) Reset()         { m.max = 0 }

type MaxRotation struct {
	max float64
}

func NewMaxRotation() *MaxRotation {
	return &MaxRotation{}
}

func (m *MaxRotation) Name() string { return "max_rotation" }

func (m *MaxRotation) Observe(r *storage.Result) {
	for _, n := range r.Nodes {
		m.max = math.Max(m.max, math.Abs(n.U[2]))
	}
}

func (m *MaxRotation) Value() float64 { return m.max }
func (m *MaxRotation) Reset()         { m.max = 0 }

// Serviceability is the fraction of nodes whose translation stays within
// span/ratio, the usual deflection limit. span is the largest element length.
type Serviceability struct {
	ratio      float64
	violations int
	samples    int
}

func NewServiceability(ratio float64) *Serviceability {
	return &Serviceability{ratio: ratio}
}

func (s *Serviceability) Name() string { return "serviceability" }

func (s *Serviceability) Observe(r *storage.Result) {
	span := 0.0
	for _, e := range r.Elements {
		span = math.Max(span, e.To.Sub(e.From).Norm())
	}
	limit := span / s.ratio
	for _, n := range r.Nodes {
		s.samples++
		if math.Hypot(n.U[0], n.U[1]) > limit {
			s.violations++
		}
	}
}

func (s *Serviceability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Serviceability) Reset() {
	s.violations = 0
	s.samples = 0
}
