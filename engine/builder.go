package engine

import (
	"fmt"
	"iter"
	"log"

	"github.com/google/uuid"

	"github.com/spektr-org/charts/attributes"
	"github.com/spektr-org/charts/glyphs"
	"github.com/spektr-org/charts/table"
)

// ============================================================================
// BUILD PIPELINE — CreateAndBuild(newBuilder, data, opts...)
// ============================================================================
// Pipeline:
//   1. Resolve options → Config
//   2. Apply row filters → SubTable
//   3. Construct the chart-type builder, Setup() binds attribute encoders
//   4. YieldRenderers() → Chart.AddRenderers (unique names)
//   5. Legend items from the builder's glyphs
//
// Nothing here draws. The render package turns a Chart into pixels.
// ============================================================================

// Builder is a chart-type strategy that turns data + configuration into
// renderers.
type Builder interface {
	// Setup binds attribute encoders to the builder's data.
	Setup() error

	// UpdateRenderers recomputes renderer contents from the current data.
	UpdateRenderers() error

	// YieldRenderers runs UpdateRenderers, then returns the current
	// renderers in insertion order.
	YieldRenderers() (iter.Seq[*Renderer], error)

	// Glyphs returns the glyphs of the last update, in group order.
	Glyphs() []*glyphs.PointGlyph

	// Labels returns the axis labels.
	Labels() (x, y string)
}

// CreateAndBuild is the generic chart construction pipeline shared by all
// chart types. newBuilder constructs the chart-type builder.
func CreateAndBuild[B Builder](newBuilder func(table.Table, *Config) (B, error), data table.Table, opts ...Option) (*Chart, error) {
	cfg := NewConfig(opts...)
	if data == nil {
		data = table.NewSliceTable(nil)
	}

	// Index first so the "index" fallback keeps the original row positions.
	filtered := table.ApplyFilters(table.WithIndex(data), cfg.Filters)
	log.Printf("📊 Charts: building from %d rows (%d after filters), x=%q y=%q color=%q marker=%q",
		data.Len(), filtered.Len(), cfg.X, cfg.Y, cfg.Color, cfg.Marker)

	b, err := newBuilder(filtered, cfg)
	if err != nil {
		return nil, err
	}
	if err := b.Setup(); err != nil {
		return nil, fmt.Errorf("setup builder: %w", err)
	}

	chart := newChart(cfg)
	chart.XLabel, chart.YLabel = b.Labels()

	renderers, err := b.YieldRenderers()
	if err != nil {
		return nil, fmt.Errorf("build renderers: %w", err)
	}
	if err := chart.AddRenderers(renderers); err != nil {
		return nil, err
	}
	chart.setLegend(b.Glyphs())

	log.Printf("📊 Charts: %s built with %d renderers, %d legend items",
		chart.ID, len(chart.Renderers), len(chart.LegendItems))
	return chart, nil
}

// ============================================================================
// XY BUILDER — shared x/y selection handling
// ============================================================================

// XYBuilder holds the x/y selections shared by XY chart types. An empty
// selection falls back to the row index.
type XYBuilder struct {
	data table.Table
	cfg  *Config

	X, Y string
}

// NewXYBuilder resolves the x/y selections of cfg against data.
func NewXYBuilder(data table.Table, cfg *Config) (XYBuilder, error) {
	if cfg.X == "" && cfg.Y == "" {
		return XYBuilder{}, ErrNoSelection
	}
	b := XYBuilder{cfg: cfg, X: cfg.X, Y: cfg.Y}
	if b.X == "" {
		b.X = table.IndexColumn
	}
	if b.Y == "" {
		b.Y = table.IndexColumn
	}
	b.SetData(data)
	return b, nil
}

// SetData replaces the table being charted.
func (b *XYBuilder) SetData(t table.Table) {
	if t == nil {
		t = table.NewSliceTable(nil)
	}
	b.data = table.WithIndex(t)
}

// Labels returns the configured axis labels, defaulting to the selections.
func (b *XYBuilder) Labels() (x, y string) {
	x, y = b.cfg.XLabel, b.cfg.YLabel
	if x == "" {
		x = b.X
	}
	if y == "" {
		y = b.Y
	}
	return x, y
}

// ============================================================================
// CHART ASSEMBLY
// ============================================================================

func newChart(cfg *Config) *Chart {
	id := cfg.ChartID
	if id == "" {
		id = uuid.NewString()
	}
	return &Chart{
		ID:     id,
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		Legend: cfg.Legend,
		byName: make(map[string]*Renderer),
	}
}

// AddRenderers appends renderers in sequence order. Names must be unique.
func (c *Chart) AddRenderers(renderers iter.Seq[*Renderer]) error {
	if c.byName == nil {
		c.byName = make(map[string]*Renderer)
	}
	for r := range renderers {
		if _, dup := c.byName[r.Name]; dup {
			return fmt.Errorf("add renderer %q: %w", r.Name, ErrDuplicateRenderer)
		}
		c.byName[r.Name] = r
		c.Renderers = append(c.Renderers, r)
	}
	return nil
}

// Renderer looks a renderer up by name.
func (c *Chart) Renderer(name string) (*Renderer, bool) {
	if c.byName == nil {
		for _, r := range c.Renderers {
			if r.Name == name {
				return r, true
			}
		}
		return nil, false
	}
	r, ok := c.byName[name]
	return r, ok
}

// VisibleRenderers returns the renderers to draw, in order.
func (c *Chart) VisibleRenderers() []*Renderer {
	out := make([]*Renderer, 0, len(c.Renderers))
	for _, r := range c.Renderers {
		if r.Visible() {
			out = append(out, r)
		}
	}
	return out
}

// setLegend builds one legend item per distinct glyph group. The first glyph
// of a group decides its swatch.
func (c *Chart) setLegend(gs []*glyphs.PointGlyph) {
	c.LegendItems = nil
	seen := make(map[string]bool)
	for _, g := range gs {
		if seen[g.Group] {
			continue
		}
		seen[g.Group] = true
		c.LegendItems = append(c.LegendItems, LegendItem{
			Label:     g.Label,
			Renderer:  g.Marker.String(),
			LineColor: attributes.Hex(g.LineColor),
			FillColor: attributes.Hex(g.FillColor),
			Marker:    g.Marker,
		})
	}
}
