package config

import "sort"

func fixed(v float64) *float64 { return &v }

var Presets = map[string]func() *Config{
	"cantilever": func() *Config {
		c := DefaultConfig()
		c.Name = "cantilever"
		c.Elements = []ElementConfig{{From: [2]float64{0, 0}, To: [2]float64{4, 0}}}
		c.Constraints = []ConstraintConfig{{At: [2]float64{0, 0}, X: fixed(0), Y: fixed(0), R: fixed(0)}}
		c.Loads = []LoadConfig{{At: [2]float64{4, 0}, FY: -10e3}}
		return c
	},
	"simply_supported": func() *Config {
		c := DefaultConfig()
		c.Name = "simply_supported"
		c.Analysis.EvalPoints = 21
		c.Elements = []ElementConfig{{From: [2]float64{0, 0}, To: [2]float64{6, 0}, Load: -8e3}}
		c.Constraints = []ConstraintConfig{
			{At: [2]float64{0, 0}, X: fixed(0), Y: fixed(0)},
			{At: [2]float64{6, 0}, Y: fixed(0)},
		}
		return c
	},
	"portal": func() *Config {
		c := DefaultConfig()
		c.Name = "portal"
		c.Elements = []ElementConfig{
			{From: [2]float64{0, 0}, To: [2]float64{0, 3}},
			{From: [2]float64{0, 3}, To: [2]float64{4, 3}, Load: -5e3},
			{From: [2]float64{4, 3}, To: [2]float64{4, 0}},
		}
		c.Constraints = []ConstraintConfig{
			{At: [2]float64{0, 0}, X: fixed(0), Y: fixed(0), R: fixed(0)},
			{At: [2]float64{4, 0}, X: fixed(0), Y: fixed(0), R: fixed(0)},
		}
		c.Loads = []LoadConfig{{At: [2]float64{0, 3}, FX: 10e3}}
		return c
	},
	"hinged_portal": func() *Config {
		c := DefaultConfig()
		c.Name = "hinged_portal"
		c.Elements = []ElementConfig{
			{From: [2]float64{0, 0}, To: [2]float64{0, 3}},
			{From: [2]float64{0, 3}, To: [2]float64{2, 3}, Load: -5e3},
			{From: [2]float64{2, 3}, To: [2]float64{4, 3}, Load: -5e3},
			{From: [2]float64{4, 3}, To: [2]float64{4, 0}},
		}
		c.Constraints = []ConstraintConfig{
			{At: [2]float64{0, 0}, X: fixed(0), Y: fixed(0)},
			{At: [2]float64{4, 0}, X: fixed(0), Y: fixed(0)},
		}
		c.Hinges = []HingeConfig{{At: [2]float64{2, 3}}}
		c.Loads = []LoadConfig{{At: [2]float64{0, 3}, FX: 2e3}}
		return c
	},
	"column": func() *Config {
		c := DefaultConfig()
		c.Name = "column"
		for i := 0; i < 8; i++ {
			c.Elements = append(c.Elements, ElementConfig{
				From: [2]float64{0, float64(i) * 0.5},
				To:   [2]float64{0, float64(i+1) * 0.5},
			})
		}
		c.Constraints = []ConstraintConfig{
			{At: [2]float64{0, 0}, X: fixed(0), Y: fixed(0)},
			{At: [2]float64{0, 4}, X: fixed(0)},
		}
		c.Loads = []LoadConfig{{At: [2]float64{0, 4}, FY: -100e3}}
		return c
	},
	"bar": func() *Config {
		c := DefaultConfig()
		c.Name = "bar"
		c.Elements = []ElementConfig{{From: [2]float64{0, 0}, To: [2]float64{3, 0}, Kind: "bar"}}
		c.Constraints = []ConstraintConfig{
			{At: [2]float64{0, 0}, X: fixed(0), Y: fixed(0), R: fixed(0)},
			{At: [2]float64{3, 0}, Y: fixed(0), R: fixed(0)},
		}
		c.Loads = []LoadConfig{{At: [2]float64{3, 0}, FX: 50e3}}
		return c
	},
}

// GetPreset returns a fresh copy of the named model, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
