package element

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/framesim/internal/structure"
	"gonum.org/v1/gonum/mat"
)

var steel = Properties{Area: 0.01, Modulus: 210e9, Inertia: 8e-5}

func nodes(x1, y1, x2, y2 float64) (*structure.Node, *structure.Node) {
	n1 := structure.NewNode(structure.Point{X: x1, Y: y1})
	n2 := structure.NewNode(structure.Point{X: x2, Y: y2})
	n1.Dofs = [3]int{0, 1, 2}
	n2.Dofs = [3]int{3, 4, 5}
	return n1, n2
}

func mustNew(t *testing.T, kind Kind, x1, y1, x2, y2 float64, p Properties) Element {
	t.Helper()
	n1, n2 := nodes(x1, y1, x2, y2)
	e, err := New(kind, n1, n2, p)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func maxAbsDense(m mat.Matrix) float64 {
	r, c := m.Dims()
	v := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v = math.Max(v, math.Abs(m.At(i, j)))
		}
	}
	return v
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindBeam, false},
		{"beam", KindBeam, false},
		{"Bar", KindBar, false},
		{"truss", KindBar, false},
		{"cable", KindBeam, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	n1, n2 := nodes(1, 1, 1, 1)
	if _, err := New(KindBeam, n1, n2, steel); !errors.Is(err, structure.ErrZeroLength) {
		t.Errorf("zero length: got %v, want ErrZeroLength", err)
	}

	n1, n2 = nodes(0, 0, 1, 0)
	loaded := steel
	loaded.Load = -5
	if _, err := New(KindBar, n1, n2, loaded); !errors.Is(err, ErrBarLoad) {
		t.Errorf("loaded bar: got %v, want ErrBarLoad", err)
	}

	bad := steel
	bad.Inertia = 0
	if _, err := New(KindBeam, n1, n2, bad); !errors.Is(err, ErrInvalidProperties) {
		t.Errorf("zero inertia beam: got %v, want ErrInvalidProperties", err)
	}
	if _, err := New(KindBar, n1, n2, bad); err != nil {
		t.Errorf("bar ignores inertia, got %v", err)
	}
}

func TestStiffness_SymmetricAndRigidBody(t *testing.T) {
	for _, kind := range []Kind{KindBeam, KindBar} {
		for _, angle := range []float64{0, 0.3, math.Pi / 4, math.Pi / 2, 2.5} {
			L := 3.0
			x2, y2 := 1+L*math.Cos(angle), 2+L*math.Sin(angle)
			e := mustNew(t, kind, 1, 2, x2, y2, steel)
			k := e.StiffnessMatrix()
			scale := maxAbsDense(k)

			for i := 0; i < Size; i++ {
				for j := 0; j < Size; j++ {
					if k.At(i, j) != k.At(j, i) {
						t.Fatalf("%v at %.2f rad: K not symmetric at (%d,%d)", kind, angle, i, j)
					}
				}
			}

			// Rigid translations produce no nodal forces.
			for _, r := range [][]float64{
				{1, 0, 0, 1, 0, 0},
				{0, 1, 0, 0, 1, 0},
			} {
				var f mat.VecDense
				f.MulVec(k, mat.NewVecDense(Size, r))
				if got := maxAbsDense(&f); got > 1e-9*scale {
					t.Errorf("%v at %.2f rad: rigid translation force %g", kind, angle, got)
				}
			}

			if kind == KindBeam {
				// Rigid rotation about node 1.
				dx, dy := x2-1, y2-2
				r := mat.NewVecDense(Size, []float64{0, 0, 1, -dy, dx, 1})
				var f mat.VecDense
				f.MulVec(k, r)
				if got := maxAbsDense(&f); got > 1e-9*scale {
					t.Errorf("beam at %.2f rad: rigid rotation force %g", angle, got)
				}
			}
		}
	}
}

func TestStiffness_RotationInvariance(t *testing.T) {
	// The axial stiffness seen along the member axis is EA/L for any orientation.
	for _, angle := range []float64{0, 0.7, math.Pi / 2, math.Pi} {
		c, s := math.Cos(angle), math.Sin(angle)
		e := mustNew(t, KindBeam, 0, 0, 2*c, 2*s, steel)
		u := mat.NewVecDense(Size, []float64{0, 0, 0, c, s, 0})
		var f mat.VecDense
		f.MulVec(e.StiffnessMatrix(), u)

		want := steel.Area * steel.Modulus / 2
		got := f.AtVec(3)*c + f.AtVec(4)*s
		if math.Abs(got-want) > 1e-6*want {
			t.Errorf("angle %.2f: axial stiffness %g, want %g", angle, got, want)
		}
	}
}

func TestBeam_LoadVector(t *testing.T) {
	p := steel
	p.Load = -10

	horizontal := mustNew(t, KindBeam, 0, 0, 2, 0, p)
	want := []float64{0, -10, -10.0 / 3, 0, -10, 10.0 / 3}
	for i, v := range horizontal.LoadVector() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("horizontal f[%d] = %g, want %g", i, v, want[i])
		}
	}

	// Local y of a vertical member points along global -x.
	vertical := mustNew(t, KindBeam, 0, 0, 0, 2, p)
	want = []float64{10, 0, -10.0 / 3, 10, 0, 10.0 / 3}
	for i, v := range vertical.LoadVector() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("vertical f[%d] = %g, want %g", i, v, want[i])
		}
	}

	bar := mustNew(t, KindBar, 0, 0, 2, 0, steel)
	for i, v := range bar.LoadVector() {
		if v != 0 {
			t.Errorf("bar f[%d] = %g, want 0", i, v)
		}
	}
}

func TestBeam_ComputeSolution_Cantilever(t *testing.T) {
	L, P := 4.0, 1000.0
	e := mustNew(t, KindBeam, 0, 0, L, 0, steel)
	ei := steel.Modulus * steel.Inertia

	u := []float64{0, 0, 0, 0, P * L * L * L / (3 * ei), P * L * L / (2 * ei)}
	if err := e.ComputeSolution(u, 11); err != nil {
		t.Fatalf("ComputeSolution() error: %v", err)
	}
	sol := e.Solution()

	if len(sol.X) != 11 || len(sol.BendingMoment) != 11 || len(sol.ShearForce) != 11 {
		t.Fatalf("expected 11 stations, got %d/%d/%d", len(sol.X), len(sol.BendingMoment), len(sol.ShearForce))
	}
	if sol.X[0] != 0 || math.Abs(sol.X[10]-L) > 1e-12 {
		t.Errorf("stations must span [0, L], got %g..%g", sol.X[0], sol.X[10])
	}

	for i, x := range sol.X {
		wantM := P * (L - x)
		if math.Abs(sol.BendingMoment[i]-wantM) > 1e-6*P*L {
			t.Errorf("M(%g) = %g, want %g", x, sol.BendingMoment[i], wantM)
		}
		if math.Abs(sol.ShearForce[i]-P) > 1e-6*P {
			t.Errorf("V(%g) = %g, want %g", x, sol.ShearForce[i], P)
		}
		if math.Abs(sol.NormalForce[i]) > 1e-9 {
			t.Errorf("N(%g) = %g, want 0", x, sol.NormalForce[i])
		}
	}
}

func TestBeam_ComputeSolution_FixedFixedLoad(t *testing.T) {
	// Zero nodal displacements leave only the fixed-end distribution.
	L, q := 6.0, -12.0
	p := steel
	p.Load = q
	e := mustNew(t, KindBeam, 0, 0, L, 0, p)
	if err := e.ComputeSolution(make([]float64, Size), 3); err != nil {
		t.Fatalf("ComputeSolution() error: %v", err)
	}
	sol := e.Solution()

	want := []float64{q * L * L / 12, -q * L * L / 24, q * L * L / 12}
	for i, m := range sol.BendingMoment {
		if math.Abs(m-want[i]) > 1e-9 {
			t.Errorf("M[%d] = %g, want %g", i, m, want[i])
		}
	}
	if math.Abs(sol.ShearForce[0]-q*L/2) > 1e-9 || math.Abs(sol.ShearForce[1]) > 1e-9 {
		t.Errorf("V = %v, want end value %g and zero at midspan", sol.ShearForce, q*L/2)
	}
}

func TestBar_ComputeSolution(t *testing.T) {
	e := mustNew(t, KindBar, 0, 0, 0, 2, steel)
	delta := 1e-4
	if err := e.ComputeSolution([]float64{0, 0, 0, 0, delta, 0}, 4); err != nil {
		t.Fatalf("ComputeSolution() error: %v", err)
	}
	want := steel.Area * steel.Modulus / 2 * delta
	for i, n := range e.Solution().NormalForce {
		if math.Abs(n-want) > 1e-6*want {
			t.Errorf("N[%d] = %g, want %g", i, n, want)
		}
	}
}

func TestComputeSolution_Errors(t *testing.T) {
	e := mustNew(t, KindBeam, 0, 0, 1, 0, steel)
	if err := e.ComputeSolution(make([]float64, Size), 1); !errors.Is(err, ErrEvalPoints) {
		t.Errorf("one eval point: got %v, want ErrEvalPoints", err)
	}
	if err := e.ComputeSolution(make([]float64, 3), 5); !errors.Is(err, ErrDisplacements) {
		t.Errorf("short vector: got %v, want ErrDisplacements", err)
	}
}

func TestGeometricNonlinear_RequiresNormalForces(t *testing.T) {
	for _, kind := range []Kind{KindBeam, KindBar} {
		e := mustNew(t, kind, 0, 0, 1, 0, steel)
		if _, err := e.GeometricNonlinearStiffness(); !errors.Is(err, ErrNormalForcesRequired) {
			t.Errorf("%v: got %v, want ErrNormalForcesRequired", kind, err)
		}

		if err := e.ComputeSolution(make([]float64, Size), 2); err != nil {
			t.Fatalf("ComputeSolution() error: %v", err)
		}
		kg, err := e.GeometricNonlinearStiffness()
		if err != nil {
			t.Fatalf("%v: unexpected error %v", kind, err)
		}

		// Zero axial force reproduces the linear matrix.
		var d mat.Dense
		d.Sub(kg, e.StiffnessMatrix())
		if got := maxAbsDense(&d); got > 1e-9*maxAbsDense(kg) {
			t.Errorf("%v: GNL(0) differs from K by %g", kind, got)
		}
	}
}

func TestGeometricNonlinear_MatchesLinearizedForSmallLoad(t *testing.T) {
	L := 5.0
	e := mustNew(t, KindBeam, 0, 0, 3, 4, steel)
	ei := steel.Modulus * steel.Inertia
	pcr := math.Pi * math.Pi * ei / (L * L)

	for _, n := range []float64{-1e-3 * pcr, 1e-3 * pcr} {
		gnl, err := e.GeometricNonlinearStiffnessAt(n)
		if err != nil {
			t.Fatalf("N=%g: %v", n, err)
		}
		var diff mat.Dense
		diff.Sub(gnl, e.StiffnessMatrix())
		diff.Sub(&diff, e.GeometricStiffness(n))

		kg := maxAbsDense(e.GeometricStiffness(n))
		if got := maxAbsDense(&diff); got > 1e-2*kg {
			t.Errorf("N=%g: GNL - K - KG = %g, larger than 1%% of %g", n, got, kg)
		}
	}
}

func TestStabilityFunctions(t *testing.T) {
	phi, err := StabilityFunctions(0)
	if err != nil {
		t.Fatalf("StabilityFunctions(0) error: %v", err)
	}
	for i, v := range phi {
		if v != 1 {
			t.Errorf("φ%d(0) = %g, want 1", i+1, v)
		}
	}

	phi, err = StabilityFunctions(1)
	if err != nil {
		t.Fatalf("StabilityFunctions(1) error: %v", err)
	}
	if math.Abs(phi[0]) > 1e-12 {
		t.Errorf("φ1(1) = %g, want 0", phi[0])
	}
	if math.Abs(phi[1]-math.Pi*math.Pi/12) > 1e-12 {
		t.Errorf("φ2(1) = %g, want π²/12", phi[1])
	}
	if math.Abs(phi[4]) > 1e-12 {
		t.Errorf("φ5(1) = %g, want 0", phi[4])
	}

	// Both branches approach 1 from opposite sides.
	c, _ := StabilityFunctions(1e-4)
	tn, _ := StabilityFunctions(-1e-4)
	for i := range c {
		if math.Abs(c[i]-1) > 1e-3 || math.Abs(tn[i]-1) > 1e-3 {
			t.Errorf("φ%d near zero: compression %g, tension %g", i+1, c[i], tn[i])
		}
	}
	if c[4] >= 1 || tn[4] <= 1 {
		t.Errorf("φ5 should soften in compression and stiffen in tension: %g, %g", c[4], tn[4])
	}
}

func TestStabilityFunctionsSmallRho(t *testing.T) {
	for _, rho := range []float64{2e-8, -2e-8, 5e-6, -5e-6} {
		phi, err := StabilityFunctions(rho)
		if err != nil {
			t.Fatalf("StabilityFunctions(%g) error: %v", rho, err)
		}
		u := math.Pi * math.Pi * rho
		if want := 1 - u/12; math.Abs(phi[0]-want) > 1e-14 {
			t.Errorf("φ1(%g) = %.17g, want %.17g", rho, phi[0], want)
		}
		if want := 1 - u/60; math.Abs(phi[1]-want) > 1e-14 {
			t.Errorf("φ2(%g) = %.17g, want %.17g", rho, phi[1], want)
		}
	}

	// The series and closed forms agree where they meet.
	for _, sign := range []float64{1, -1} {
		below, err := StabilityFunctions(sign * rhoSeries * (1 - 1e-12))
		if err != nil {
			t.Fatal(err)
		}
		above, err := StabilityFunctions(sign * rhoSeries * (1 + 1e-12))
		if err != nil {
			t.Fatal(err)
		}
		for i := range below {
			if d := math.Abs(below[i] - above[i]); d > 1e-10 {
				t.Errorf("φ%d jumps by %g at ρ=%g", i+1, d, sign*rhoSeries)
			}
		}
	}
}

func TestRho(t *testing.T) {
	ei, L := 2.0e7, 3.0
	pcr := math.Pi * math.Pi * ei / (L * L)
	if got := Rho(-pcr, L, ei); math.Abs(got-1) > 1e-12 {
		t.Errorf("Rho(-Pcr) = %g, want 1", got)
	}
	if got := Rho(pcr, L, ei); math.Abs(got+1) > 1e-12 {
		t.Errorf("Rho(Pcr) = %g, want -1", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	err := error(&Error{Index: 3, Wrapped: ErrNormalForcesRequired})
	if !errors.Is(err, ErrNormalForcesRequired) {
		t.Error("Error should unwrap to its cause")
	}
	if err.Error() == "" {
		t.Error("empty message")
	}
}
