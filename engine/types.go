package engine

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/spektr-org/charts/attributes"
	"github.com/spektr-org/charts/glyphs"
	"github.com/spektr-org/charts/table"
)

// ============================================================================
// ENGINE TYPES — Charts, renderers and the groups they are built from
// ============================================================================

var (
	// ErrNoSelection is returned when neither x nor y is selected.
	ErrNoSelection = errors.New("no x or y selection")

	// ErrDuplicateRenderer is returned when two renderers share a name.
	ErrDuplicateRenderer = errors.New("duplicate renderer name")
)

// ============================================================================
// CHART
// ============================================================================

// Chart is the built chart: an ordered set of uniquely named renderers plus
// the presentation settings the drawing backends need.
type Chart struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	XLabel string         `json:"xLabel"`
	YLabel string         `json:"yLabel"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Legend LegendPosition `json:"legend"`

	// Renderers in insertion order. Drawing order follows this slice.
	Renderers   []*Renderer  `json:"renderers"`
	LegendItems []LegendItem `json:"legendItems,omitempty"`

	byName map[string]*Renderer
}

// Renderer is a named drawable pairing a glyph with its data.
type Renderer struct {
	Name   string            `json:"name"`
	Marker attributes.Marker `json:"marker"`
	Glyph  *MarkerGlyph      `json:"glyph"`
	Source *glyphs.Frame     `json:"dataSource"`
}

// Visible reports whether the renderer should be drawn.
func (r *Renderer) Visible() bool {
	return r.Glyph != nil && r.Glyph.Visible
}

// MarkerGlyph is the renderer-level glyph. Its fields name the frame
// columns each visual property is read from.
type MarkerGlyph struct {
	Marker    attributes.Marker `json:"marker"`
	X         string            `json:"x"`
	Y         string            `json:"y"`
	LineColor string            `json:"lineColor"`
	FillColor string            `json:"fillColor"`
	Visible   bool              `json:"visible"`
}

func newMarkerGlyph(m attributes.Marker) *MarkerGlyph {
	return &MarkerGlyph{
		Marker:    m,
		X:         glyphs.XColumn,
		Y:         glyphs.YColumn,
		LineColor: glyphs.LineColorColumn,
		FillColor: glyphs.FillColorColumn,
		Visible:   true,
	}
}

// LegendItem is one legend entry, one per distinct glyph label.
type LegendItem struct {
	Label     string            `json:"label"`
	Renderer  string            `json:"renderer"`
	LineColor string            `json:"lineColor"`
	FillColor string            `json:"fillColor"`
	Marker    attributes.Marker `json:"marker"`
}

// LegendPosition places the legend inside the plot area.
type LegendPosition string

const (
	LegendTopRight    LegendPosition = "top_right"
	LegendTopLeft     LegendPosition = "top_left"
	LegendBottomRight LegendPosition = "bottom_right"
	LegendBottomLeft  LegendPosition = "bottom_left"
	LegendNone        LegendPosition = "none"
)

// ParseLegendPosition parses "top_right", "top-left", "none", ... An empty
// string means LegendTopRight.
func ParseLegendPosition(s string) (LegendPosition, error) {
	p := LegendPosition(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch p {
	case "":
		return LegendTopRight, nil
	case LegendTopRight, LegendTopLeft, LegendBottomRight, LegendBottomLeft, LegendNone:
		return p, nil
	}
	return "", fmt.Errorf("unknown legend position %q", s)
}

// ============================================================================
// GROUPS
// ============================================================================

// GroupKey identifies a scatter group by its color and marker values.
// A slot whose attribute has no column is "".
type GroupKey struct {
	Color  string
	Marker string
}

// String renders the key unambiguously, quoting each slot.
func (k GroupKey) String() string {
	return strconv.Quote(k.Color) + "/" + strconv.Quote(k.Marker)
}

// DataGroup is a set of rows sharing one GroupKey, with its encoded visuals.
type DataGroup struct {
	Key    GroupKey
	Label  string
	Rows   table.Table
	Color  color.Color
	Marker attributes.Marker
}

// Values selects a numeric column of the group's rows.
func (g DataGroup) Values(column string) ([]float64, error) {
	return table.Floats(g.Rows, column)
}

// groupByAttributes partitions t by the color and marker columns and encodes
// each group. Groups come out in first-appearance order. Groups with no
// attribute values are labelled fallback.
func groupByAttributes(t table.Table, colors *attributes.ColorAttr, markers *attributes.MarkerAttr, fallback string) ([]DataGroup, error) {
	groups, err := table.GroupBy(t, colors.Column, markers.Column)
	if err != nil {
		return nil, err
	}

	out := make([]DataGroup, 0, len(groups))
	for _, g := range groups {
		key := GroupKey{Color: g.Key[0], Marker: g.Key[1]}
		out = append(out, DataGroup{
			Key:    key,
			Label:  groupLabel(key, colors.Column, markers.Column, fallback),
			Rows:   g.Rows,
			Color:  colors.Encode(key.Color),
			Marker: markers.Encode(key.Marker),
		})
	}
	return out, nil
}

// groupLabel joins the key's values ("4, EU"). A column used for both color
// and marker contributes once.
func groupLabel(key GroupKey, colorCol, markerCol, fallback string) string {
	var parts []string
	if colorCol != "" {
		parts = append(parts, key.Color)
	}
	if markerCol != "" && markerCol != colorCol {
		parts = append(parts, key.Marker)
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}
