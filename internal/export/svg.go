package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/framesim/internal/storage"
	"github.com/san-kum/framesim/internal/structure"
	"github.com/san-kum/framesim/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, theme.Background, theme.Structure)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

type SVGOptions struct {
	Width, Height int
	// Amplify scales nodal translations for the deformed shape. Zero hides it.
	Amplify float64
	// Fields lists the force diagrams to draw over the frame.
	Fields []storage.Field
	Theme  viz.Theme
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 600, Theme: viz.ThemePaper}
}

// frameView maps frame coordinates to SVG pixels, y pointing up.
type frameView struct {
	minX, minY, scale float64
	height            int
}

func (v frameView) xy(p structure.Point) (float64, float64) {
	return (p.X - v.minX) * v.scale, float64(v.height) - (p.Y-v.minY)*v.scale
}

// DiagramScale returns the factor that draws the largest magnitude of field
// as half the longest element.
func DiagramScale(r *storage.Result, field storage.Field) float64 {
	peak, span := 0.0, 0.0
	for i := range r.Elements {
		e := &r.Elements[i]
		span = math.Max(span, e.To.Sub(e.From).Norm())
		for _, v := range e.Values(field) {
			peak = math.Max(peak, math.Abs(v))
		}
	}
	if peak == 0 {
		return 0
	}
	return 0.5 * span / peak
}

// DiagramOutline returns the closed outline of one element's diagram: the
// element ends joined by the station values offset along the element normal.
func DiagramOutline(e *storage.ElementResult, field storage.Field, scale float64) []structure.Point {
	d := e.To.Sub(e.From)
	l := d.Norm()
	if l == 0 {
		return nil
	}
	ux, uy := d.X/l, d.Y/l
	nx, ny := -uy, ux

	values := e.Values(field)
	out := make([]structure.Point, 0, len(values)+2)
	out = append(out, e.From)
	for i, v := range values {
		x := e.X[i]
		out = append(out, structure.Point{
			X: e.From.X + ux*x + nx*v*scale,
			Y: e.From.Y + uy*x + ny*v*scale,
		})
	}
	return append(out, e.To)
}

// FrameToSVG draws the frame, its deformed shape and the requested force
// diagrams. Diagram extents are included in the view bounds.
func FrameToSVG(r *storage.Result, opts SVGOptions) string {
	if len(r.Elements) == 0 {
		return ""
	}
	th := opts.Theme

	type shape struct {
		pts   []structure.Point
		color string
		fill  bool
	}
	var shapes []shape
	for _, fd := range opts.Fields {
		scale := DiagramScale(r, fd)
		if scale == 0 {
			continue
		}
		for i := range r.Elements {
			shapes = append(shapes, shape{
				pts:   DiagramOutline(&r.Elements[i], fd, scale),
				color: string(th.FieldColor(fd.String())),
				fill:  true,
			})
		}
	}
	for i := range r.Elements {
		e := &r.Elements[i]
		shapes = append(shapes, shape{pts: []structure.Point{e.From, e.To}, color: string(th.Structure)})
	}
	if opts.Amplify > 0 {
		for _, seg := range deformed(r, opts.Amplify) {
			shapes = append(shapes, shape{pts: seg, color: string(th.Deformed)})
		}
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range shapes {
		for _, p := range s.pts {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	span := math.Max(math.Max(rangeX, rangeY), 1e-12)
	pad := 0.1 * span
	minX -= pad
	minY -= pad
	rangeX += 2 * pad
	rangeY += 2 * pad

	v := frameView{
		minX:   minX,
		minY:   minY,
		scale:  math.Min(float64(opts.Width)/rangeX, float64(opts.Height)/rangeY),
		height: opts.Height,
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, th.Background)

	for _, s := range shapes {
		var d strings.Builder
		for i, p := range s.pts {
			x, y := v.xy(p)
			if i == 0 {
				fmt.Fprintf(&d, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
			}
		}
		if s.fill {
			fmt.Fprintf(&sb, "<path fill=\"%s\" fill-opacity=\"0.3\" stroke=\"%s\" stroke-width=\"1\" d=\"%s Z\"/>\n", s.color, s.color, d.String())
		} else {
			fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"2\" d=\"%s\"/>\n", s.color, d.String())
		}
	}

	for _, n := range r.Nodes {
		if n.Hinge {
			x, y := v.xy(structure.Point{X: n.X, Y: n.Y})
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\" stroke=\"%s\"/>\n", x, y, th.Background, th.Structure)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// deformed returns one displaced segment per element, the ends moved by
// amplify times the translation of the first node at each coordinate.
func deformed(r *storage.Result, amplify float64) [][]structure.Point {
	at := make(map[structure.Point]storage.NodeResult, len(r.Nodes))
	for _, n := range r.Nodes {
		p := structure.Point{X: n.X, Y: n.Y}
		if _, ok := at[p]; !ok {
			at[p] = n
		}
	}
	move := func(p structure.Point) structure.Point {
		n := at[p]
		return structure.Point{X: p.X + amplify*n.U[0], Y: p.Y + amplify*n.U[1]}
	}
	out := make([][]structure.Point, 0, len(r.Elements))
	for _, e := range r.Elements {
		out = append(out, []structure.Point{move(e.From), move(e.To)})
	}
	return out
}
