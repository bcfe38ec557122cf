package element

import (
	"fmt"
	"math"
)

// rhoEpsilon is the |ρ| below which the axial force is treated as zero.
const rhoEpsilon = 1e-8

// rhoSeries is the |ρ| below which φ1 and φ2 are evaluated by series, where
// 1 − φ1 would lose most of its digits.
const rhoSeries = 1e-3

// Rho is the dimensionless axial force −N·L²/(π²·EI). It is positive in
// compression and equals 1 at the Euler load of a pinned member.
func Rho(normal, length, ei float64) float64 {
	return -normal * length * length / (math.Pi * math.Pi * ei)
}

// StabilityFunctions returns φ1..φ5 for the given ρ. Compression uses the
// trigonometric forms and tension the hyperbolic ones; they meet at 1.
func StabilityFunctions(rho float64) ([5]float64, error) {
	phi := [5]float64{1, 1, 1, 1, 1}
	if math.Abs(rho) < rhoEpsilon {
		return phi, nil
	}

	kl := math.Pi * math.Sqrt(math.Abs(rho))
	h := kl / 2
	switch {
	case math.Abs(rho) < rhoSeries:
		// u = ±(kl)², signed like ρ.
		u := math.Pi * math.Pi * rho
		phi[0] = 1 - u*(1.0/12+u*(1.0/720+u*(1.0/30240+u/1209600)))
		phi[1] = 1 - u*(1.0/60+u*(1.0/8400+u/756000))
	case rho > 0:
		phi[0] = h / math.Tan(h)
		phi[1] = kl * kl / (12 * (1 - phi[0]))
	default:
		phi[0] = h / math.Tanh(h)
		phi[1] = -kl * kl / (12 * (1 - phi[0]))
	}
	phi[2] = phi[0]/4 + 3*phi[1]/4
	phi[3] = -phi[0]/2 + 3*phi[1]/2
	phi[4] = phi[0] * phi[1]

	for i, v := range phi {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return phi, fmt.Errorf("%w: φ%d at ρ=%g", ErrStabilitySingular, i+1, rho)
		}
	}
	return phi, nil
}
