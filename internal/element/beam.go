package element

import "gonum.org/v1/gonum/mat"

// Beam is an Euler-Bernoulli frame member with axial and bending stiffness
// and an optional uniform transverse load.
type Beam struct {
	member
}

func (b *Beam) Kind() Kind { return KindBeam }

func (b *Beam) LocalStiffness() *mat.Dense {
	return b.bending(1, 1, 1, 1)
}

func (b *Beam) StiffnessMatrix() *mat.Dense {
	return b.toGlobal(b.LocalStiffness())
}

// bending fills the local matrix with the axial block and the bending block
// scaled by the stability factors. All ones gives the linear matrix.
func (b *Beam) bending(f2, f3, f4, f5 float64) *mat.Dense {
	L := b.length
	ei := b.props.Modulus * b.props.Inertia
	k := mat.NewDense(Size, Size, nil)
	axialBlock(k, b.props.Area*b.props.Modulus/L)

	a := 12 * ei / (L * L * L) * f5
	c := 6 * ei / (L * L) * f2
	d := 4 * ei / L * f3
	e := 2 * ei / L * f4

	rows := [4][4]float64{
		{a, c, -a, c},
		{c, d, -c, e},
		{-a, -c, a, -c},
		{c, e, -c, d},
	}
	setBending(k, rows)
	return k
}

// setBending writes a 4×4 block onto the transverse and rotational DOFs.
func setBending(k *mat.Dense, rows [4][4]float64) {
	idx := [4]int{1, 2, 4, 5}
	for i, r := range idx {
		for j, c := range idx {
			k.Set(r, c, rows[i][j])
		}
	}
}

// LoadVector returns the equivalent nodal loads Gᵗ·fl of the uniform load.
func (b *Beam) LoadVector() []float64 {
	q, L := b.props.Load, b.length
	fl := mat.NewVecDense(Size, []float64{0, q * L / 2, q * L * L / 12, 0, q * L / 2, -q * L * L / 12})
	var f mat.VecDense
	f.MulVec(b.Transformation().T(), fl)
	return f.RawVector().Data
}

func (b *Beam) ComputeSolution(u []float64, nrEvalPoints int) error {
	x, err := b.stations(nrEvalPoints)
	if err != nil {
		return err
	}
	ul, err := b.localDisplacements(u)
	if err != nil {
		return err
	}

	L := b.length
	q := b.props.Load
	ei := b.props.Modulus * b.props.Inertia
	ub := [4]float64{ul[1], ul[2], ul[4], ul[5]}
	n := b.axialForce(ul)

	dB := [4]float64{12 / (L * L * L), 6 / (L * L), -12 / (L * L * L), 6 / (L * L)}
	shear := -ei * dot(dB, ub)

	sol := Solution{
		NodalDisplacements: append([]float64(nil), u...),
		LocalDisplacements: ul,
		X:                  x,
		NormalForce:        make([]float64, len(x)),
		ShearForce:         make([]float64, len(x)),
		BendingMoment:      make([]float64, len(x)),
		BucklingModes:      b.sol.BucklingModes,
	}
	for i, xi := range x {
		B := [4]float64{
			-6/(L*L) + 12*xi/(L*L*L),
			-4/L + 6*xi/(L*L),
			6/(L*L) - 12*xi/(L*L*L),
			-2/L + 6*xi/(L*L),
		}
		sol.NormalForce[i] = n
		sol.ShearForce[i] = shear - q*(xi-L/2)
		sol.BendingMoment[i] = ei*dot(B, ub) + q*(xi*xi/2-L*xi/2+L*L/12)
	}
	b.sol = sol
	return nil
}

func (b *Beam) GeometricNonlinearStiffness() (*mat.Dense, error) {
	n, err := b.normalForceRef()
	if err != nil {
		return nil, err
	}
	return b.GeometricNonlinearStiffnessAt(n)
}

// GeometricNonlinearStiffnessAt returns the stability-function stiffness
// for an axial force of normal, in global coordinates.
func (b *Beam) GeometricNonlinearStiffnessAt(normal float64) (*mat.Dense, error) {
	ei := b.props.Modulus * b.props.Inertia
	phi, err := StabilityFunctions(Rho(normal, b.length, ei))
	if err != nil {
		return nil, err
	}
	return b.toGlobal(b.bending(phi[1], phi[2], phi[3], phi[4])), nil
}

// GeometricStiffness returns the linearized geometric matrix N/(30L)·[…]
// used by the eigenvalue buckling solve.
func (b *Beam) GeometricStiffness(normal float64) *mat.Dense {
	L := b.length
	s := normal / (30 * L)
	k := mat.NewDense(Size, Size, nil)
	setBending(k, [4][4]float64{
		{36 * s, 3 * L * s, -36 * s, 3 * L * s},
		{3 * L * s, 4 * L * L * s, -3 * L * s, -L * L * s},
		{-36 * s, -3 * L * s, 36 * s, -3 * L * s},
		{3 * L * s, -L * L * s, -3 * L * s, 4 * L * L * s},
	})
	return b.toGlobal(k)
}

func dot(a, b [4]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}
