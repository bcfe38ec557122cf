package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/san-kum/framesim/internal/storage"
	"github.com/san-kum/framesim/internal/structure"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	structureColor = color.Black
	deformedColor  = color.RGBA{R: 0, G: 136, B: 255, A: 255}
	fieldColors    = map[storage.Field]color.RGBA{
		storage.Normal: {R: 46, G: 139, B: 87, A: 255},
		storage.Shear:  {R: 138, G: 43, B: 226, A: 255},
		storage.Moment: {R: 214, G: 39, B: 40, A: 255},
	}
)

func xys(pts []structure.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}

// FramePlot draws the frame in its own coordinates with the deformed shape
// and the requested force diagrams.
func FramePlot(r *storage.Result, amplify float64, fields []storage.Field) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Frame"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	for _, fd := range fields {
		scale := DiagramScale(r, fd)
		if scale == 0 {
			continue
		}
		c := fieldColors[fd]
		for i := range r.Elements {
			poly, err := plotter.NewPolygon(xys(DiagramOutline(&r.Elements[i], fd, scale)))
			if err != nil {
				return nil, err
			}
			poly.Color = color.RGBA{R: c.R, G: c.G, B: c.B, A: 90}
			poly.LineStyle.Color = c
			p.Add(poly)
		}
	}

	for _, e := range r.Elements {
		l, err := plotter.NewLine(xys([]structure.Point{e.From, e.To}))
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Color = structureColor
		p.Add(l)
	}

	if amplify > 0 {
		for _, seg := range deformed(r, amplify) {
			l, err := plotter.NewLine(xys(seg))
			if err != nil {
				return nil, err
			}
			l.LineStyle.Width = vg.Points(1.5)
			l.LineStyle.Color = deformedColor
			l.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
			p.Add(l)
		}
	}

	var hinges plotter.XYs
	for _, n := range r.Nodes {
		if n.Hinge {
			hinges = append(hinges, plotter.XY{X: n.X, Y: n.Y})
		}
	}
	if len(hinges) > 0 {
		s, err := plotter.NewScatter(hinges)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.RingGlyph{}
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Color = structureColor
		p.Add(s)
	}

	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)
	return p, nil
}

// ElementPlot plots field along every element against the local coordinate.
func ElementPlot(r *storage.Result, field storage.Field) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s force", field)
	p.X.Label.Text = "x (local)"
	p.Y.Label.Text = field.String()
	p.Legend.Top = true

	palette := lineColors()
	for i := range r.Elements {
		e := &r.Elements[i]
		pts := make(plotter.XYs, len(e.X))
		for k, x := range e.X {
			pts[k] = plotter.XY{X: x, Y: e.Values(field)[k]}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Color = palette[i%len(palette)]
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("e%d", e.Index), l)
	}
	return p, nil
}

func lineColors() []color.Color {
	return []color.Color{
		color.RGBA{R: 31, G: 119, B: 180, A: 255},
		color.RGBA{R: 255, G: 127, B: 14, A: 255},
		color.RGBA{R: 44, G: 160, B: 44, A: 255},
		color.RGBA{R: 214, G: 39, B: 40, A: 255},
		color.RGBA{R: 148, G: 103, B: 189, A: 255},
		color.RGBA{R: 140, G: 86, B: 75, A: 255},
	}
}

// SavePlot writes p with the format picked from the file extension. Files
// without a known extension get .png appended.
func SavePlot(p *plot.Plot, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	width := 8 * vg.Inch
	height := 6 * vg.Inch
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg", ".tif", ".tiff", ".eps":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
