package element

// Solution holds the per-element results of the last recovery.
type Solution struct {
	// NodalDisplacements are the element's global displacements in DOF row order.
	NodalDisplacements []float64
	LocalDisplacements []float64

	// X are the station positions along the local axis, 0..L.
	X             []float64
	NormalForce   []float64
	ShearForce    []float64
	BendingMoment []float64

	// BucklingModes holds, per mode, the element's slice of the mode vector.
	BucklingModes [][]float64
}

// HasNormalForces reports whether a recovery has populated N.
func (s *Solution) HasNormalForces() bool {
	return len(s.NormalForce) > 0
}

// Reset clears all recovered data.
func (s *Solution) Reset() {
	*s = Solution{}
}

// MaxAbs returns the largest magnitude in v, 0 for an empty slice.
func MaxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if x < 0 {
			x = -x
		}
		if x > m {
			m = x
		}
	}
	return m
}
