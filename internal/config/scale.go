package config

import "fmt"

// Scalable parameters accepted by Scaled.
var ScaleParams = []string{"area", "modulus", "inertia", "load"}

// Clone returns a deep copy of the model.
func (c *Config) Clone() *Config {
	out := *c
	out.Elements = append([]ElementConfig(nil), c.Elements...)
	out.Loads = append([]LoadConfig(nil), c.Loads...)
	out.Hinges = append([]HingeConfig(nil), c.Hinges...)
	out.Constraints = make([]ConstraintConfig, len(c.Constraints))
	for i, r := range c.Constraints {
		out.Constraints[i] = ConstraintConfig{At: r.At, X: copyPtr(r.X), Y: copyPtr(r.Y), R: copyPtr(r.R)}
	}
	return &out
}

func copyPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}

// Scaled returns a copy with section properties and loads multiplied by the
// given factors. "load" scales nodal loads and distributed element loads
// together. Missing factors leave the value unchanged.
func (c *Config) Scaled(factors map[string]float64) (*Config, error) {
	f := map[string]float64{"area": 1, "modulus": 1, "inertia": 1, "load": 1}
	for name, v := range factors {
		if _, ok := f[name]; !ok {
			return nil, fmt.Errorf("unknown scale parameter: %s", name)
		}
		f[name] = v
	}

	out := c.Clone()
	for i := range out.Elements {
		e := &out.Elements[i]
		e.Area = orDefault(e.Area, c.Section.Area) * f["area"]
		e.Modulus = orDefault(e.Modulus, c.Section.Modulus) * f["modulus"]
		e.Inertia = orDefault(e.Inertia, c.Section.Inertia) * f["inertia"]
		e.Load *= f["load"]
	}
	for i := range out.Loads {
		out.Loads[i].FX *= f["load"]
		out.Loads[i].FY *= f["load"]
		out.Loads[i].M *= f["load"]
	}
	return out, nil
}
