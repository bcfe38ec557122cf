package study

import (
	"context"
	"fmt"

	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/logger"
)

// Sweep varies one scale parameter over Values.
type Sweep struct {
	Param   string
	Values  []float64
	Workers int
}

func NewSweep(param string, values []float64) *Sweep {
	return &Sweep{Param: param, Values: values}
}

// Linspace returns n evenly spaced values from a to b inclusive.
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

// Run analyzes one case per value. A failed case does not stop the sweep;
// the error is kept on the case. Run fails only when ctx is done.
func (s *Sweep) Run(ctx context.Context, cfg *config.Config) ([]Case, error) {
	if len(s.Values) == 0 {
		return nil, fmt.Errorf("sweep %s: no values", s.Param)
	}
	sets := make([]map[string]float64, len(s.Values))
	for i, v := range s.Values {
		sets[i] = map[string]float64{s.Param: v}
	}

	cases := runAll(ctx, cfg, sets, s.Workers)
	if err := ctx.Err(); err != nil {
		return cases, err
	}

	failed := 0
	for _, c := range cases {
		if c.Err != nil {
			failed++
		}
	}
	logger.L().Info("study.sweep_completed", "model", cfg.Name, "param", s.Param, "cases", len(cases), "failed", failed)
	return cases, nil
}
