// Package render draws built charts. Plot and WriteImage go through
// gonum/plot for static images, ECharts and WriteHTML through go-echarts
// for interactive pages. Hidden renderers are never drawn.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/charts/attributes"
	"github.com/spektr-org/charts/engine"
)

// ============================================================================
// STATIC IMAGES — gonum/plot
// ============================================================================

// Marker geometry.
var (
	MarkerRadius = vg.Points(4)
	OutlineWidth = vg.Points(0.75)
)

// ImageFormats lists the formats WriteImage accepts.
var ImageFormats = []string{"png", "svg", "pdf", "jpg", "tiff"}

// Plot lays out a chart as a gonum plot: one scatter per visible renderer,
// one legend entry per legend item.
func Plot(chart *engine.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.Title
	p.X.Label.Text = chart.XLabel
	p.Y.Label.Text = chart.YLabel
	placeLegend(&p.Legend, chart.Legend)

	for _, r := range chart.VisibleRenderers() {
		s, err := scatterFor(r)
		if err != nil {
			return nil, fmt.Errorf("renderer %q: %w", r.Name, err)
		}
		if s != nil {
			p.Add(s)
		}
	}

	if chart.Legend == engine.LegendNone {
		return p, nil
	}
	for _, item := range chart.LegendItems {
		if r, ok := chart.Renderer(item.Renderer); ok && !r.Visible() {
			continue
		}
		sw, err := swatchFor(item)
		if err != nil {
			return nil, fmt.Errorf("legend %q: %w", item.Label, err)
		}
		p.Legend.Add(item.Label, sw)
	}
	return p, nil
}

// WriteImage draws chart in format ("png", "svg", "pdf", ...) sized by the
// chart's width and height.
func WriteImage(w io.Writer, chart *engine.Chart, format string) error {
	if !slices.Contains(ImageFormats, format) {
		return fmt.Errorf("unsupported image format %q", format)
	}
	p, err := Plot(chart)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Points(float64(chart.Width)), vg.Points(float64(chart.Height)), format)
	if err != nil {
		return fmt.Errorf("%s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

func placeLegend(l *plot.Legend, pos engine.LegendPosition) {
	switch pos {
	case engine.LegendTopLeft:
		l.Top, l.Left = true, true
	case engine.LegendBottomRight:
		l.Top, l.Left = false, false
	case engine.LegendBottomLeft:
		l.Top, l.Left = false, true
	default:
		l.Top, l.Left = true, false
	}
}

// scatterFor reads a renderer's frame through the column names its glyph
// declares and styles every point from its own row. Rows with a missing or
// infinite coordinate are skipped; nil is returned when none remain.
func scatterFor(r *engine.Renderer) (*plotter.Scatter, error) {
	pts, err := resolve(r)
	if err != nil {
		return nil, err
	}

	xys := make(plotter.XYs, 0, len(pts.x))
	styles := make([]draw.GlyphStyle, 0, len(pts.x))
	for i := range pts.x {
		if !finite(pts.x[i]) || !finite(pts.y[i]) {
			continue
		}
		sty, err := glyphStyle(pts.fill[i], pts.line[i], r.Glyph.Marker)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		xys = append(xys, plotter.XY{X: pts.x[i], Y: pts.y[i]})
		styles = append(styles, sty)
	}
	if len(xys) == 0 {
		return nil, nil
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle = styles[0]
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle { return styles[i] }
	return s, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

type points struct {
	x, y       []float64
	line, fill []string
}

func resolve(r *engine.Renderer) (points, error) {
	var pts points
	if r.Glyph == nil || r.Source == nil {
		return pts, fmt.Errorf("renderer %q has no glyph or source", r.Name)
	}
	var err error
	if pts.x, err = column[float64](r, r.Glyph.X); err != nil {
		return pts, err
	}
	if pts.y, err = column[float64](r, r.Glyph.Y); err != nil {
		return pts, err
	}
	if pts.line, err = column[string](r, r.Glyph.LineColor); err != nil {
		return pts, err
	}
	if pts.fill, err = column[string](r, r.Glyph.FillColor); err != nil {
		return pts, err
	}
	return pts, nil
}

func column[T any](r *engine.Renderer, name string) ([]T, error) {
	raw, err := r.Source.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(raw))
	for i, v := range raw {
		t, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("column %q: row %d is %T", name, i, v)
		}
		out[i] = t
	}
	return out, nil
}

func glyphStyle(fill, line string, m attributes.Marker) (draw.GlyphStyle, error) {
	f, err := attributes.ParseHex(fill)
	if err != nil {
		return draw.GlyphStyle{}, err
	}
	l, err := attributes.ParseHex(line)
	if err != nil {
		return draw.GlyphStyle{}, err
	}
	return draw.GlyphStyle{
		Color:  f,
		Radius: MarkerRadius,
		Shape:  MarkerShape{Marker: m, Line: l},
	}, nil
}

// ============================================================================
// MARKER SHAPES
// ============================================================================

// MarkerShape draws a marker filled with the glyph color and outlined with
// Line. Cross, x and asterisk have no area and are stroked with Line only.
type MarkerShape struct {
	Marker attributes.Marker
	Line   color.Color
}

// DrawGlyph implements draw.GlyphDrawer.
func (m MarkerShape) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	line := m.Line
	if line == nil {
		line = sty.Color
	}
	r := sty.Radius

	if strokes := m.strokes(pt, r); strokes != nil {
		c.SetLineStyle(draw.LineStyle{Color: line, Width: OutlineWidth * 2})
		for _, s := range strokes {
			var p vg.Path
			p.Move(s[0])
			p.Line(s[1])
			c.Stroke(p)
		}
		return
	}

	outline := m.outline(pt, r)
	c.Fill(outline)
	c.SetLineStyle(draw.LineStyle{Color: line, Width: OutlineWidth})
	c.Stroke(outline)
}

func (m MarkerShape) outline(pt vg.Point, r vg.Length) vg.Path {
	var p vg.Path
	polygon := func(vs ...vg.Point) {
		p.Move(vs[0])
		for _, v := range vs[1:] {
			p.Line(v)
		}
		p.Close()
	}
	h := r * vg.Length(math.Sqrt(3)/2)

	switch m.Marker {
	case attributes.Square:
		polygon(
			vg.Point{X: pt.X - r, Y: pt.Y - r},
			vg.Point{X: pt.X + r, Y: pt.Y - r},
			vg.Point{X: pt.X + r, Y: pt.Y + r},
			vg.Point{X: pt.X - r, Y: pt.Y + r},
		)
	case attributes.Triangle:
		polygon(
			vg.Point{X: pt.X, Y: pt.Y + r},
			vg.Point{X: pt.X - h, Y: pt.Y - r/2},
			vg.Point{X: pt.X + h, Y: pt.Y - r/2},
		)
	case attributes.InvertedTriangle:
		polygon(
			vg.Point{X: pt.X, Y: pt.Y - r},
			vg.Point{X: pt.X + h, Y: pt.Y + r/2},
			vg.Point{X: pt.X - h, Y: pt.Y + r/2},
		)
	case attributes.Diamond:
		polygon(
			vg.Point{X: pt.X, Y: pt.Y + r},
			vg.Point{X: pt.X + r, Y: pt.Y},
			vg.Point{X: pt.X, Y: pt.Y - r},
			vg.Point{X: pt.X - r, Y: pt.Y},
		)
	default:
		p.Move(vg.Point{X: pt.X + r, Y: pt.Y})
		p.Arc(pt, r, 0, 2*math.Pi)
		p.Close()
	}
	return p
}

// strokes returns the line segments of the area-less markers, nil otherwise.
func (m MarkerShape) strokes(pt vg.Point, r vg.Length) [][2]vg.Point {
	plus := [][2]vg.Point{
		{{X: pt.X - r, Y: pt.Y}, {X: pt.X + r, Y: pt.Y}},
		{{X: pt.X, Y: pt.Y - r}, {X: pt.X, Y: pt.Y + r}},
	}
	d := r * vg.Length(math.Sqrt2/2)
	cross := [][2]vg.Point{
		{{X: pt.X - d, Y: pt.Y - d}, {X: pt.X + d, Y: pt.Y + d}},
		{{X: pt.X - d, Y: pt.Y + d}, {X: pt.X + d, Y: pt.Y - d}},
	}

	switch m.Marker {
	case attributes.Cross:
		return plus
	case attributes.X:
		return cross
	case attributes.Asterisk:
		return append(plus, cross...)
	}
	return nil
}

// ============================================================================
// LEGEND
// ============================================================================

type swatch struct {
	style draw.GlyphStyle
}

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	c.DrawGlyphNoClip(s.style, c.Center())
}

func swatchFor(item engine.LegendItem) (swatch, error) {
	sty, err := glyphStyle(item.FillColor, item.LineColor, item.Marker)
	if err != nil {
		return swatch{}, err
	}
	return swatch{style: sty}, nil
}
