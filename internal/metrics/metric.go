// Package metrics reduces a solved frame to scalar summaries.
package metrics

import "github.com/san-kum/framesim/internal/storage"

type Metric interface {
	Name() string
	Observe(r *storage.Result)
	Value() float64
	Reset()
}

// Default returns the metrics recorded with every run.
func Default() []Metric {
	return []Metric{
		NewPeak(storage.Normal),
		NewPeak(storage.Shear),
		NewPeak(storage.Moment),
		NewMaxDisplacement(),
		NewMaxRotation(),
	}
}

// Collect observes r with each metric and returns the values by name.
func Collect(r *storage.Result, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		m.Observe(r)
		out[m.Name()] = m.Value()
	}
	return out
}
