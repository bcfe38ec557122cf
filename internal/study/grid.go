package study

import (
	"context"
	"errors"
	"maps"
	"math"

	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/logger"
)

var ErrNoFeasibleCase = errors.New("study: no case produced the metric")

// GridSearch tries every combination of scale factors and keeps the one
// minimizing a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Combinations enumerates the grid in row-major order, the last parameter
// varying fastest.
func (g *GridSearch) Combinations() []map[string]float64 {
	var out []map[string]float64
	g.combine(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) combine(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, maps.Clone(current))
		return
	}
	name := g.paramNames[depth]
	for _, v := range g.ranges[depth] {
		current[name] = v
		g.combine(depth+1, current, out)
	}
	delete(current, name)
}

// Search returns the best parameters, the metric value there and every
// evaluated case.
func (g *GridSearch) Search(ctx context.Context, cfg *config.Config, metricName string) (map[string]float64, float64, []Case, error) {
	cases := runAll(ctx, cfg, g.Combinations(), g.Workers)
	if err := ctx.Err(); err != nil {
		return nil, 0, cases, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for _, c := range cases {
		if c.Err != nil {
			continue
		}
		v, ok := c.Metrics[metricName]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < best {
			best = v
			bestParams = c.Params
		}
	}
	if bestParams == nil {
		return nil, 0, cases, ErrNoFeasibleCase
	}

	logger.L().Info("study.search_completed", "model", cfg.Name, "metric", metricName, "best", best, "cases", len(cases))
	return bestParams, best, cases, nil
}
