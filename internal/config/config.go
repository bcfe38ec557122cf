package config

import (
	"fmt"
	"os"

	"github.com/san-kum/framesim/internal/element"
	"github.com/san-kum/framesim/internal/frame"
	"github.com/san-kum/framesim/internal/solver"
	"github.com/san-kum/framesim/internal/structure"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEvalPoints    = frame.DefaultEvalPoints
	DefaultStrategy      = "linear"
	DefaultBucklingModes = 3
	DefaultArea          = 0.01
	DefaultModulus       = 210e9
	DefaultInertia       = 8e-5
)

// Config is a complete frame model: analysis settings plus geometry.
type Config struct {
	Name        string             `yaml:"name"`
	Analysis    AnalysisConfig     `yaml:"analysis"`
	Section     SectionConfig      `yaml:"section"`
	Elements    []ElementConfig    `yaml:"elements"`
	Constraints []ConstraintConfig `yaml:"constraints,omitempty"`
	Loads       []LoadConfig       `yaml:"loads,omitempty"`
	Hinges      []HingeConfig      `yaml:"hinges,omitempty"`
}

type AnalysisConfig struct {
	EvalPoints    int     `yaml:"eval_points"`
	Strategy      string  `yaml:"strategy"`
	SnapTolerance float64 `yaml:"snap_tolerance"`
	Parallel      bool    `yaml:"parallel"`
	BucklingModes int     `yaml:"buckling_modes"`
	MaxCondition  float64 `yaml:"max_condition"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

// SectionConfig supplies the properties of elements that omit them.
type SectionConfig struct {
	Area    float64 `yaml:"area"`
	Modulus float64 `yaml:"modulus"`
	Inertia float64 `yaml:"inertia"`
}

type ElementConfig struct {
	From    [2]float64 `yaml:"from,flow"`
	To      [2]float64 `yaml:"to,flow"`
	Kind    string     `yaml:"kind,omitempty"`
	Area    float64    `yaml:"area,omitempty"`
	Modulus float64    `yaml:"modulus,omitempty"`
	Inertia float64    `yaml:"inertia,omitempty"`
	Load    float64    `yaml:"load,omitempty"`
}

// ConstraintConfig prescribes displacements at a point. An omitted
// component is free.
type ConstraintConfig struct {
	At [2]float64 `yaml:"at,flow"`
	X  *float64   `yaml:"x,omitempty"`
	Y  *float64   `yaml:"y,omitempty"`
	R  *float64   `yaml:"r,omitempty"`
}

type LoadConfig struct {
	At [2]float64 `yaml:"at,flow"`
	FX float64    `yaml:"fx,omitempty"`
	FY float64    `yaml:"fy,omitempty"`
	M  float64    `yaml:"m,omitempty"`
}

type HingeConfig struct {
	At [2]float64 `yaml:"at,flow"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "model",
		Analysis: AnalysisConfig{
			EvalPoints:    DefaultEvalPoints,
			Strategy:      DefaultStrategy,
			BucklingModes: DefaultBucklingModes,
			MaxCondition:  solver.DefaultMaxCondition,
			Tolerance:     solver.DefaultTolerance,
			MaxIterations: solver.DefaultMaxIterations,
		},
		Section: SectionConfig{
			Area:    DefaultArea,
			Modulus: DefaultModulus,
			Inertia: DefaultInertia,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML model on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.Elements) == 0 {
		return frame.ErrNoElements
	}
	for i, e := range c.Elements {
		if _, err := element.ParseKind(e.Kind); err != nil {
			return fmt.Errorf("elements[%d]: %w", i, err)
		}
	}
	if c.Analysis.EvalPoints != 0 && c.Analysis.EvalPoints < 2 {
		return fmt.Errorf("analysis.eval_points: %w", element.ErrEvalPoints)
	}
	return nil
}

func point(p [2]float64) structure.Point {
	return structure.Point{X: p[0], Y: p[1]}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// Input converts the model into a frame input.
func (c *Config) Input() (frame.Input, error) {
	var in frame.Input
	for i, e := range c.Elements {
		kind, err := element.ParseKind(e.Kind)
		if err != nil {
			return frame.Input{}, fmt.Errorf("elements[%d]: %w", i, err)
		}
		in.Lines = append(in.Lines, structure.Line{From: point(e.From), To: point(e.To)})
		in.Kinds = append(in.Kinds, kind)
		in.Area = append(in.Area, orDefault(e.Area, c.Section.Area))
		in.Modulus = append(in.Modulus, orDefault(e.Modulus, c.Section.Modulus))
		in.Inertia = append(in.Inertia, orDefault(e.Inertia, c.Section.Inertia))
		in.Loads = append(in.Loads, e.Load)
	}
	for _, r := range c.Constraints {
		in.Constraints = append(in.Constraints, structure.ConstraintNode{
			Point:       point(r.At),
			ConstraintX: r.X,
			ConstraintY: r.Y,
			ConstraintR: r.R,
		})
	}
	for _, l := range c.Loads {
		in.LoadNodes = append(in.LoadNodes, structure.LoadNode{Point: point(l.At), ForceX: l.FX, ForceY: l.FY, MomentR: l.M})
	}
	for _, h := range c.Hinges {
		in.Hinges = append(in.Hinges, structure.HingeNode{Point: point(h.At)})
	}
	return in, nil
}

// Options builds the frame options, resolving the strategy by name.
func (c *Config) Options(reg *solver.Registry) ([]frame.Option, error) {
	if reg == nil {
		reg = solver.NewRegistry()
	}
	s, err := reg.Get(c.Analysis.Strategy, solver.Options{
		MaxCondition:  c.Analysis.MaxCondition,
		Tolerance:     c.Analysis.Tolerance,
		MaxIterations: c.Analysis.MaxIterations,
	})
	if err != nil {
		return nil, err
	}

	evalPoints := c.Analysis.EvalPoints
	if evalPoints == 0 {
		evalPoints = DefaultEvalPoints
	}
	return []frame.Option{
		frame.WithEvalPoints(evalPoints),
		frame.WithSnapTolerance(c.Analysis.SnapTolerance),
		frame.WithParallel(c.Analysis.Parallel),
		frame.WithStrategy(s),
	}, nil
}

// Build returns an unanalyzed frame for the model.
func (c *Config) Build(reg *solver.Registry, extra ...frame.Option) (*frame.Frame, error) {
	in, err := c.Input()
	if err != nil {
		return nil, err
	}
	opts, err := c.Options(reg)
	if err != nil {
		return nil, err
	}
	return frame.New(in, append(opts, extra...)...)
}
