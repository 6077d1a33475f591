// Package glyphs holds the declarative point glyphs produced per data group
// and the columnar frames renderers draw from.
package glyphs

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/spektr-org/charts/attributes"
)

// ErrLengthMismatch is returned when x and y have different lengths.
var ErrLengthMismatch = errors.New("x and y lengths differ")

// PointGlyph describes how to draw one group's points.
type PointGlyph struct {
	Label string
	// Group identifies the data group the points came from. Distinct groups
	// may share a label; NewPointGlyph defaults Group to the label.
	Group     string
	X, Y      []float64
	LineColor color.Color
	FillColor color.Color
	Marker    attributes.Marker
}

// NewPointGlyph builds a glyph for one group. Points with a missing (NaN)
// or infinite coordinate are dropped.
func NewPointGlyph(label string, x, y []float64, line, fill color.Color, marker attributes.Marker) (*PointGlyph, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("point glyph %q: %w (%d vs %d)", label, ErrLengthMismatch, len(x), len(y))
	}
	x, y = finitePoints(x, y)
	return &PointGlyph{
		Label:     label,
		Group:     label,
		X:         x,
		Y:         y,
		LineColor: line,
		FillColor: fill,
		Marker:    marker,
	}, nil
}

// Len returns the number of points.
func (g *PointGlyph) Len() int { return len(g.X) }

// Frame returns the glyph's points as a frame, one row per point.
func (g *PointGlyph) Frame() Frame {
	n := g.Len()
	f := Frame{
		X:         append([]float64(nil), g.X...),
		Y:         append([]float64(nil), g.Y...),
		LineColor: make([]string, n),
		FillColor: make([]string, n),
		Marker:    make([]attributes.Marker, n),
		Label:     make([]string, n),
		Group:     make([]string, n),
	}
	line, fill := attributes.Hex(g.LineColor), attributes.Hex(g.FillColor)
	for i := 0; i < n; i++ {
		f.LineColor[i] = line
		f.FillColor[i] = fill
		f.Marker[i] = g.Marker
		f.Label[i] = g.Label
		f.Group[i] = g.Group
	}
	return f
}

func finitePoints(x, y []float64) ([]float64, []float64) {
	keep := func(i int) bool { return isFinite(x[i]) && isFinite(y[i]) }
	n := 0
	for i := range x {
		if keep(i) {
			n++
		}
	}
	if n == len(x) {
		return x, y
	}
	fx, fy := make([]float64, 0, n), make([]float64, 0, n)
	for i := range x {
		if keep(i) {
			fx = append(fx, x[i])
			fy = append(fy, y[i])
		}
	}
	return fx, fy
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
