package engine

import (
	"fmt"
	"iter"
	"slices"

	"github.com/spektr-org/charts/attributes"
	"github.com/spektr-org/charts/glyphs"
	"github.com/spektr-org/charts/table"
)

// ============================================================================
// SCATTER BUILDER — One renderer per marker
// ============================================================================
// Rows are grouped by (color, marker). Each group becomes a PointGlyph with
// its encoded color as line and fill color. Glyphs are merged into renderers
// keyed by marker: groups sharing a marker are concatenated into that
// renderer's frame. Renderers whose marker no longer appears are hidden,
// never removed, so renderer identities survive re-grouping.
// ============================================================================

// ScatterBuilder builds scatter charts.
type ScatterBuilder struct {
	XYBuilder

	colors  *attributes.ColorAttr
	markers *attributes.MarkerAttr

	compGlyphs []*glyphs.PointGlyph
	renderers  rendererSet
}

// NewScatterBuilder creates a scatter builder over data.
func NewScatterBuilder(data table.Table, cfg *Config) (*ScatterBuilder, error) {
	xy, err := NewXYBuilder(data, cfg)
	if err != nil {
		return nil, err
	}
	return &ScatterBuilder{
		XYBuilder: xy,
		colors:    attributes.NewColorAttr(cfg.Color, cfg.Palette...),
		markers:   attributes.NewMarkerAttr(cfg.Marker, cfg.Markers...),
	}, nil
}

// Scatter creates a scatter chart of y against x.
//
//	chart, err := engine.Scatter(cars, "mpg", "hp",
//	    engine.WithColor("cyl"),
//	    engine.WithMarker("origin"),
//	    engine.WithTitle("Auto MPG"),
//	)
func Scatter(data table.Table, x, y string, opts ...Option) (*Chart, error) {
	opts = append(slices.Clip(opts), WithX(x), WithY(y))
	return CreateAndBuild(NewScatterBuilder, data, opts...)
}

// Setup binds the color and marker encoders to the distinct values of their
// columns. Re-binding after SetData keeps earlier assignments.
func (b *ScatterBuilder) Setup() error {
	for _, bind := range []struct {
		column string
		fn     func([]string)
	}{
		{b.colors.Column, b.colors.Bind},
		{b.markers.Column, b.markers.Bind},
	} {
		if bind.column == "" {
			continue
		}
		values, err := table.Distinct(b.data, bind.column)
		if err != nil {
			return err
		}
		bind.fn(values)
	}
	return nil
}

// SetData swaps the charted table and re-binds the encoders. Renderers are
// kept; the next update hides those whose marker is gone.
func (b *ScatterBuilder) SetData(t table.Table) error {
	b.XYBuilder.SetData(t)
	return b.Setup()
}

// YieldRenderers recomputes the renderers, then returns them in insertion
// order. The sequence can be ranged over more than once.
func (b *ScatterBuilder) YieldRenderers() (iter.Seq[*Renderer], error) {
	if err := b.UpdateRenderers(); err != nil {
		return nil, err
	}
	current := b.renderers.values()
	return func(yield func(*Renderer) bool) {
		for _, r := range current {
			if !yield(r) {
				return
			}
		}
	}, nil
}

// UpdateRenderers regroups the data and refreshes every renderer. On error
// the builder is left as it was.
func (b *ScatterBuilder) UpdateRenderers() error {
	groups, err := groupByAttributes(b.data, b.colors, b.markers, b.Y)
	if err != nil {
		return err
	}

	built := make([]*glyphs.PointGlyph, 0, len(groups))
	for _, g := range groups {
		x, err := g.Values(b.X)
		if err != nil {
			return fmt.Errorf("group %q: %w", g.Label, err)
		}
		y, err := g.Values(b.Y)
		if err != nil {
			return fmt.Errorf("group %q: %w", g.Label, err)
		}
		glyph, err := glyphs.NewPointGlyph(g.Label, x, y, g.Color, g.Color, g.Marker)
		if err != nil {
			return err
		}
		if glyph.Len() == 0 {
			// every row lacks x or y: nothing to draw for this group
			continue
		}
		glyph.Group = g.Key.String()
		built = append(built, glyph)
	}

	b.compGlyphs = b.compGlyphs[:0]
	for _, glyph := range built {
		b.AddGlyph(glyph)
	}

	dataMap := make(map[attributes.Marker][]glyphs.Frame)
	for _, glyph := range b.compGlyphs {
		dataMap[glyph.Marker] = append(dataMap[glyph.Marker], glyph.Frame())
	}

	for _, r := range b.renderers.values() {
		frames, ok := dataMap[r.Marker]
		if !ok {
			r.Glyph.Visible = false
			continue
		}
		merged := glyphs.Concat(frames...)
		r.Source = &merged
		r.Glyph = newMarkerGlyph(r.Marker)
	}
	return nil
}

// AddGlyph registers a glyph, creating the renderer for its marker on first
// sight.
func (b *ScatterBuilder) AddGlyph(glyph *glyphs.PointGlyph) {
	b.compGlyphs = append(b.compGlyphs, glyph)
	if _, ok := b.renderers.get(glyph.Marker); ok {
		return
	}
	frame := glyph.Frame()
	b.renderers.add(&Renderer{
		Name:   glyph.Marker.String(),
		Marker: glyph.Marker,
		Glyph:  newMarkerGlyph(glyph.Marker),
		Source: &frame,
	})
}

// Glyphs returns the glyphs of the last update, in group order.
func (b *ScatterBuilder) Glyphs() []*glyphs.PointGlyph {
	return slices.Clone(b.compGlyphs)
}

// Renderers returns the current renderers in insertion order without
// recomputing them.
func (b *ScatterBuilder) Renderers() []*Renderer {
	return b.renderers.values()
}

// ============================================================================
// RENDERER SET — insertion-ordered renderers keyed by marker
// ============================================================================

type rendererSet struct {
	byMarker map[attributes.Marker]*Renderer
	order    []attributes.Marker
}

func (s *rendererSet) get(m attributes.Marker) (*Renderer, bool) {
	r, ok := s.byMarker[m]
	return r, ok
}

func (s *rendererSet) add(r *Renderer) {
	if s.byMarker == nil {
		s.byMarker = make(map[attributes.Marker]*Renderer)
	}
	if _, exists := s.byMarker[r.Marker]; !exists {
		s.order = append(s.order, r.Marker)
	}
	s.byMarker[r.Marker] = r
}

func (s *rendererSet) values() []*Renderer {
	out := make([]*Renderer, 0, len(s.order))
	for _, m := range s.order {
		out = append(out, s.byMarker[m])
	}
	return out
}
