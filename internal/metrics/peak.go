package metrics

import (
	"math"

	"github.com/san-kum/framesim/internal/storage"
)

// Peak is the largest magnitude of one sectional force over all stations.
type Peak struct {
	name  string
	field storage.Field
	max   float64
}

func NewPeak(field storage.Field) *Peak {
	return &Peak{
		name:  "max_" + field.String(),
		field: field,
	}
}

func (p *Peak) Name() string {
	return p.name
}

func (p *Peak) Observe(r *storage.Result) {
	for i := range r.Elements {
		for _, v := range r.Elements[i].Values(p.field) {
			p.max = math.Max(p.max, math.Abs(v))
		}
	}
}

func (p *Peak) Value() float64 {
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
}
