package study

import (
	"context"
	"maps"
	"runtime"
	"sync"

	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/frame"
	"github.com/san-kum/framesim/internal/logger"
	"github.com/san-kum/framesim/internal/metrics"
	"github.com/san-kum/framesim/internal/solver"
	"github.com/san-kum/framesim/internal/storage"
)

// Case is one analysis of the base model with Params applied as scale
// factors. Err is set when the analysis failed; Metrics is then nil.
type Case struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

// Run analyzes cfg scaled by params and collects ms, or the default
// metrics when ms is empty.
func Run(ctx context.Context, cfg *config.Config, params map[string]float64, ms ...metrics.Metric) Case {
	c := Case{Params: maps.Clone(params)}
	if err := ctx.Err(); err != nil {
		c.Err = err
		return c
	}

	scaled, err := cfg.Scaled(params)
	if err != nil {
		c.Err = err
		return c
	}
	f, err := scaled.Build(solver.NewRegistry(), frame.WithLogger(logger.L()))
	if err != nil {
		c.Err = err
		return c
	}
	if err := f.Analyze(); err != nil {
		c.Err = err
		return c
	}
	r, err := storage.NewResult(f)
	if err != nil {
		c.Err = err
		return c
	}

	if len(ms) == 0 {
		ms = metrics.Default()
	}
	c.Metrics = metrics.Collect(r, ms...)
	return c
}

// runAll analyzes every parameter set with at most workers cases in
// flight. Results keep the order of sets.
func runAll(ctx context.Context, cfg *config.Config, sets []map[string]float64, workers int) []Case {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Case, len(sets))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, params := range sets {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, p map[string]float64) {
			defer wg.Done()
			defer func() { <-sem }()

			out[idx] = Run(ctx, cfg, p)
			if out[idx].Err != nil {
				logger.L().Debug("study.case_failed", "params", p, "error", out[idx].Err)
			}
		}(i, params)
	}
	wg.Wait()
	return out
}
