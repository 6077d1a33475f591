package glyphs

import (
	"fmt"

	"github.com/spektr-org/charts/attributes"
)

// Frame column names. Renderer glyph specs refer to data by these names.
const (
	XColumn         = "x_values"
	YColumn         = "y_values"
	LineColorColumn = "line_color"
	FillColorColumn = "fill_color"
	MarkerColumn    = "marker"
	LabelColumn     = "label"
	GroupColumn     = "group"
)

// Frame is a renderer's column data source. All columns have the same length.
// Colors are stored as hex strings so frames serialise as-is.
type Frame struct {
	X         []float64           `json:"x_values"`
	Y         []float64           `json:"y_values"`
	LineColor []string            `json:"line_color"`
	FillColor []string            `json:"fill_color"`
	Marker    []attributes.Marker `json:"marker"`
	Label     []string            `json:"label"`
	Group     []string            `json:"group"`
}

// Row is one point of a frame.
type Row struct {
	X, Y      float64
	LineColor string
	FillColor string
	Marker    attributes.Marker
	Label     string
	Group     string
}

// Len returns the number of rows.
func (f Frame) Len() int { return len(f.X) }

// Row returns row i.
func (f Frame) Row(i int) Row {
	return Row{
		X:         f.X[i],
		Y:         f.Y[i],
		LineColor: f.LineColor[i],
		FillColor: f.FillColor[i],
		Marker:    f.Marker[i],
		Label:     f.Label[i],
		Group:     f.Group[i],
	}
}

// Columns lists the column names in a fixed order.
func (f Frame) Columns() []string {
	return []string{XColumn, YColumn, LineColorColumn, FillColorColumn, MarkerColumn, LabelColumn, GroupColumn}
}

// Column returns a column by name.
func (f Frame) Column(name string) ([]any, error) {
	switch name {
	case XColumn:
		return toAny(f.X), nil
	case YColumn:
		return toAny(f.Y), nil
	case LineColorColumn:
		return toAny(f.LineColor), nil
	case FillColorColumn:
		return toAny(f.FillColor), nil
	case MarkerColumn:
		return toAny(f.Marker), nil
	case LabelColumn:
		return toAny(f.Label), nil
	case GroupColumn:
		return toAny(f.Group), nil
	}
	return nil, fmt.Errorf("frame column %q: no such column", name)
}

// Concat appends frames in order.
func Concat(frames ...Frame) Frame {
	var n int
	for _, f := range frames {
		n += f.Len()
	}
	out := Frame{
		X:         make([]float64, 0, n),
		Y:         make([]float64, 0, n),
		LineColor: make([]string, 0, n),
		FillColor: make([]string, 0, n),
		Marker:    make([]attributes.Marker, 0, n),
		Label:     make([]string, 0, n),
		Group:     make([]string, 0, n),
	}
	for _, f := range frames {
		out.X = append(out.X, f.X...)
		out.Y = append(out.Y, f.Y...)
		out.LineColor = append(out.LineColor, f.LineColor...)
		out.FillColor = append(out.FillColor, f.FillColor...)
		out.Marker = append(out.Marker, f.Marker...)
		out.Label = append(out.Label, f.Label...)
		out.Group = append(out.Group, f.Group...)
	}
	return out
}

// Segment is a run of consecutive rows from the same group.
type Segment struct {
	Label      string
	Group      string
	Start, End int // [Start, End)
}

// Segments splits the frame into runs of equal groups. Frames built by
// Concat keep each glyph's rows together, so each glyph becomes one segment
// even when neighbouring glyphs share a label.
func (f Frame) Segments() []Segment {
	var out []Segment
	for i := 0; i < f.Len(); i++ {
		if len(out) == 0 || out[len(out)-1].Group != f.Group[i] {
			out = append(out, Segment{Label: f.Label[i], Group: f.Group[i], Start: i, End: i + 1})
			continue
		}
		out[len(out)-1].End = i + 1
	}
	return out
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
