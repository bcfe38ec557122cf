package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/framesim/internal/stiffness"
	"gonum.org/v1/gonum/mat"
)

// Mode is one buckling load factor with its shape on the reduced DOFs,
// scaled to a largest component of magnitude one.
type Mode struct {
	Factor float64
	Shape  []float64
}

// EigenBuckling solves (ke + λ·kg)·φ = 0 for the smallest positive λ. ke
// must be positive definite. With ke = L·Lᵗ the problem becomes the
// standard symmetric one L⁻¹(−kg)L⁻ᵗ·ψ = (1/λ)·ψ with φ = L⁻ᵗ·ψ.
func EigenBuckling(ke, kg mat.Matrix, modes int) ([]Mode, error) {
	n, _ := ke.Dims()
	if r, c := kg.Dims(); r != n || c != n {
		return nil, fmt.Errorf("%w: ke %d, kg %dx%d", ErrDimensionMismatch, n, r, c)
	}

	var ch mat.Cholesky
	if ok := ch.Factorize(stiffness.Sym(ke)); !ok {
		return nil, ErrNotPositiveDefinite
	}
	var l, linv mat.TriDense
	ch.LTo(&l)
	if err := linv.InverseTri(&l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var neg, tmp, a mat.Dense
	neg.Scale(-1, kg)
	tmp.Mul(&linv, &neg)
	a.Mul(&tmp, linv.T())

	var es mat.EigenSym
	if ok := es.Factorize(stiffness.Sym(&a), true); !ok {
		return nil, fmt.Errorf("%w: eigen decomposition failed", ErrNoConvergence)
	}
	values := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	scale := 0.0
	for _, v := range values {
		scale = math.Max(scale, math.Abs(v))
	}

	var out []Mode
	for i, mu := range values {
		if mu <= 1e-12*scale || mu <= 0 {
			continue
		}
		var phi mat.VecDense
		phi.MulVec(linv.T(), vecs.ColView(i))
		out = append(out, Mode{Factor: 1 / mu, Shape: normalize(phi.RawVector().Data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Factor < out[j].Factor })

	if modes > 0 && len(out) > modes {
		out = out[:modes]
	}
	return out, nil
}

// normalize scales v so its largest magnitude is one, with that entry positive.
func normalize(v []float64) []float64 {
	out := append([]float64(nil), v...)
	peak := 0.0
	for _, x := range out {
		if math.Abs(x) > math.Abs(peak) {
			peak = x
		}
	}
	if peak == 0 {
		return out
	}
	for i := range out {
		out[i] /= peak
	}
	return out
}

// CriticalFactor returns the smallest λ > 0 at which stable(λ) turns false,
// to a relative tolerance tol. stable(0) must hold. The search doubles from
// start to bracket the transition and then bisects.
func CriticalFactor(stable func(lambda float64) (bool, error), start, tol float64, maxIter int) (float64, error) {
	if start <= 0 {
		start = 1
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if maxIter <= 0 {
		maxIter = 200
	}

	lo, hi := 0.0, start
	for i := 0; ; i++ {
		if i >= maxIter {
			return 0, fmt.Errorf("%w: no instability below λ=%g", ErrNoConvergence, hi)
		}
		ok, err := stable(hi)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		lo, hi = hi, 2*hi
	}

	for i := 0; i < maxIter && hi-lo > tol*hi; i++ {
		mid := 0.5 * (lo + hi)
		ok, err := stable(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi), nil
}
