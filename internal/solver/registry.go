package solver

import (
	"fmt"
	"sort"
)

// Options parameterize the strategies built by a Registry.
type Options struct {
	MaxCondition  float64
	Tolerance     float64
	MaxIterations int
}

type Registry struct {
	strategies map[string]func(Options) Strategy
}

func NewRegistry() *Registry {
	r := &Registry{
		strategies: make(map[string]func(Options) Strategy),
	}

	r.strategies["linear"] = func(o Options) Strategy { return NewLU(o.MaxCondition) }
	r.strategies["lu"] = r.strategies["linear"]
	r.strategies["cholesky"] = func(o Options) Strategy { return NewCholesky(o.MaxCondition) }
	r.strategies["second-order"] = func(o Options) Strategy {
		return NewSecondOrder(NewLU(o.MaxCondition), o.Tolerance, o.MaxIterations)
	}

	return r
}

// Register adds or replaces a named strategy.
func (r *Registry) Register(name string, fn func(Options) Strategy) {
	r.strategies[name] = fn
}

func (r *Registry) Get(name string, opts Options) (Strategy, error) {
	if name == "" {
		name = "linear"
	}
	fn, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return fn(opts), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
