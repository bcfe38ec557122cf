package frame_test

import (
	"math"

	"github.com/san-kum/framesim/internal/frame"
	"github.com/san-kum/framesim/internal/structure"
)

const (
	area    = 0.01
	modulus = 210e9
	inertia = 8e-5
	ei      = modulus * inertia
)

func pt(x, y float64) structure.Point { return structure.Point{X: x, Y: y} }

// uniform gives every line the same section.
func uniform(lines ...structure.Line) frame.Input {
	in := frame.Input{Lines: lines}
	for range lines {
		in.Area = append(in.Area, area)
		in.Modulus = append(in.Modulus, modulus)
		in.Inertia = append(in.Inertia, inertia)
	}
	return in
}

// chain splits the segment a→b into n lines.
func chain(a, b structure.Point, n int) []structure.Line {
	l := structure.Line{From: a, To: b}
	out := make([]structure.Line, n)
	for i := range out {
		out[i] = structure.Line{From: l.PointAt(float64(i) / float64(n)), To: l.PointAt(float64(i+1) / float64(n))}
	}
	out[n-1].To = b
	return out
}

// column is a pinned-pinned vertical member of length L in n elements,
// compressed by P at the top.
func column(L, P float64, n int) frame.Input {
	in := uniform(chain(pt(0, 0), pt(0, L), n)...)
	in.Constraints = []structure.ConstraintNode{
		structure.Pinned(pt(0, 0)),
		{Point: pt(0, L), ConstraintX: structure.Fixed(0)},
	}
	in.LoadNodes = []structure.LoadNode{{Point: pt(0, L), ForceY: -P}}
	return in
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Abs(want)
}
