package element

import "gonum.org/v1/gonum/mat"

// Bar carries axial force only. Its rotational and transverse DOFs get no
// stiffness and must be held by neighbouring elements or constraints.
type Bar struct {
	member
}

func (b *Bar) Kind() Kind { return KindBar }

func (b *Bar) LocalStiffness() *mat.Dense {
	k := mat.NewDense(Size, Size, nil)
	axialBlock(k, b.props.Area*b.props.Modulus/b.length)
	return k
}

func (b *Bar) StiffnessMatrix() *mat.Dense {
	return b.toGlobal(b.LocalStiffness())
}

// LoadVector is always zero; bars take no span load.
func (b *Bar) LoadVector() []float64 {
	return make([]float64, Size)
}

func (b *Bar) ComputeSolution(u []float64, nrEvalPoints int) error {
	x, err := b.stations(nrEvalPoints)
	if err != nil {
		return err
	}
	ul, err := b.localDisplacements(u)
	if err != nil {
		return err
	}

	n := b.axialForce(ul)
	sol := Solution{
		NodalDisplacements: append([]float64(nil), u...),
		LocalDisplacements: ul,
		X:                  x,
		NormalForce:        make([]float64, len(x)),
		ShearForce:         make([]float64, len(x)),
		BendingMoment:      make([]float64, len(x)),
		BucklingModes:      b.sol.BucklingModes,
	}
	for i := range x {
		sol.NormalForce[i] = n
	}
	b.sol = sol
	return nil
}

func (b *Bar) GeometricNonlinearStiffness() (*mat.Dense, error) {
	n, err := b.normalForceRef()
	if err != nil {
		return nil, err
	}
	return b.GeometricNonlinearStiffnessAt(n)
}

// GeometricNonlinearStiffnessAt returns the axial stiffness plus the string
// term N/L on the transverse DOFs, in global coordinates.
func (b *Bar) GeometricNonlinearStiffnessAt(normal float64) (*mat.Dense, error) {
	k := b.LocalStiffness()
	k.Add(k, b.localGeometric(normal))
	return b.toGlobal(k), nil
}

func (b *Bar) GeometricStiffness(normal float64) *mat.Dense {
	return b.toGlobal(b.localGeometric(normal))
}

func (b *Bar) localGeometric(normal float64) *mat.Dense {
	k := mat.NewDense(Size, Size, nil)
	s := normal / b.length
	k.Set(1, 1, s)
	k.Set(1, 4, -s)
	k.Set(4, 1, -s)
	k.Set(4, 4, s)
	return k
}
