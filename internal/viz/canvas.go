package viz

import (
	"math"
	"strings"

	"github.com/san-kum/framesim/internal/storage"
	"github.com/san-kum/framesim/internal/structure"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawSegment draws the world-space segment a-b through v.
func (c *Canvas) DrawSegment(v Viewport, a, b structure.Point) {
	x0, y0 := v.Project(a)
	x1, y1 := v.Project(b)
	c.DrawLine(x0, y0, x1, y1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps frame coordinates onto canvas sub-pixels, y pointing up.
type Viewport struct {
	MinX, MinY float64
	Scale      float64
	// Pixel height of the canvas, used to flip y.
	Pixels int
}

// Fit returns the viewport that shows every point of r on c with a margin,
// keeping the aspect ratio.
func Fit(c *Canvas, r *storage.Result) Viewport {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	if len(r.Nodes) == 0 {
		return Viewport{Scale: 1, Pixels: int(h)}
	}
	minX, maxX := r.Nodes[0].X, r.Nodes[0].X
	minY, maxY := r.Nodes[0].Y, r.Nodes[0].Y
	for _, n := range r.Nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	pad := 0.1 * span
	minX, maxX = minX-pad, maxX+pad
	minY, maxY = minY-pad, maxY+pad

	scale := math.Min(w/(maxX-minX), h/(maxY-minY))
	return Viewport{MinX: minX, MinY: minY, Scale: scale, Pixels: int(h)}
}

func (v Viewport) Project(p structure.Point) (int, int) {
	x := (p.X - v.MinX) * v.Scale
	y := float64(v.Pixels) - (p.Y-v.MinY)*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

// AutoAmplification returns the factor that makes the largest nodal
// translation a tenth of the frame's extent.
func AutoAmplification(r *storage.Result) float64 {
	umax, extent := 0.0, 0.0
	for _, n := range r.Nodes {
		umax = math.Max(umax, math.Hypot(n.U[0], n.U[1]))
	}
	for _, e := range r.Elements {
		extent = math.Max(extent, e.To.Sub(e.From).Norm())
	}
	if umax == 0 {
		return 0
	}
	return 0.1 * extent / umax
}

// DrawFrame draws the undeformed elements. With amplify > 0 the deformed
// shape is drawn over them, nodes displaced by amplify·u.
func DrawFrame(c *Canvas, r *storage.Result, amplify float64) {
	v := Fit(c, r)
	for _, e := range r.Elements {
		c.DrawSegment(v, e.From, e.To)
	}
	if amplify <= 0 {
		return
	}
	for _, e := range r.Elements {
		a, aok := displaced(r, e.From, amplify)
		b, bok := displaced(r, e.To, amplify)
		if aok && bok {
			c.DrawSegment(v, a, b)
		}
	}
}

// displaced finds the first node at p and returns its amplified position.
func displaced(r *storage.Result, p structure.Point, amplify float64) (structure.Point, bool) {
	for _, n := range r.Nodes {
		if n.X == p.X && n.Y == p.Y {
			return structure.Point{X: n.X + amplify*n.U[0], Y: n.Y + amplify*n.U[1]}, true
		}
	}
	return structure.Point{}, false
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
