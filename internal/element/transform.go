package element

import "gonum.org/v1/gonum/mat"

// Transformation returns the 6×6 direction-cosine matrix G mapping global
// DOFs to local ones for a member with cosines (nxx, nyx).
func Transformation(nxx, nyx float64) *mat.Dense {
	g := mat.NewDense(Size, Size, nil)
	for n := 0; n < 2; n++ {
		o := 3 * n
		g.Set(o, o, nxx)
		g.Set(o, o+1, nyx)
		g.Set(o+1, o, -nyx)
		g.Set(o+1, o+1, nxx)
		g.Set(o+2, o+2, 1)
	}
	return g
}

// congruence returns the symmetrized product gᵗ·k·g.
func congruence(g, k *mat.Dense) *mat.Dense {
	var kg, out mat.Dense
	kg.Mul(k, g)
	out.Mul(g.T(), &kg)
	symmetrize(&out)
	return &out
}

func symmetrize(m *mat.Dense) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			v := 0.5 * (m.At(i, j) + m.At(j, i))
			m.Set(i, j, v)
			m.Set(j, i, v)
		}
	}
}
