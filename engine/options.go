package engine

import (
	"image/color"

	"github.com/spektr-org/charts/attributes"
	"github.com/spektr-org/charts/table"
)

// ============================================================================
// BUILD OPTIONS — Functional options for CreateAndBuild()
// ============================================================================

// Default chart size in pixels.
const (
	DefaultWidth  = 600
	DefaultHeight = 400
)

// Option configures a chart build via functional options pattern.
type Option func(*Config)

// Config is the resolved option set handed to builders.
type Config struct {
	X, Y string // column selections

	Color   string // color attribute column (empty = single color)
	Marker  string // marker attribute column (empty = circle)
	Palette []color.Color
	Markers []attributes.Marker

	Title  string
	XLabel string // empty → X
	YLabel string // empty → Y
	Width  int
	Height int
	Legend LegendPosition

	Filters table.Filters
	ChartID string // empty → random UUID
}

// NewConfig creates a Config from functional options. Later options win.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Legend: LegendTopRight,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithX selects the x column. Empty selects the row index, which counts
// rows of the data before filters are applied.
func WithX(column string) Option {
	return func(c *Config) { c.X = column }
}

// WithY selects the y column. Empty selects the row index (see WithX).
func WithY(column string) Option {
	return func(c *Config) { c.Y = column }
}

// WithColor groups by column and colors each value from the palette.
func WithColor(column string) Option {
	return func(c *Config) { c.Color = column }
}

// WithMarker groups by column and gives each value a marker shape.
func WithMarker(column string) Option {
	return func(c *Config) { c.Marker = column }
}

// WithPalette overrides the color palette.
func WithPalette(colors ...color.Color) Option {
	return func(c *Config) { c.Palette = colors }
}

// WithMarkers overrides the marker order.
func WithMarkers(markers ...attributes.Marker) Option {
	return func(c *Config) { c.Markers = markers }
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *Config) { c.Title = title }
}

// WithXLabel sets the x axis label.
func WithXLabel(label string) Option {
	return func(c *Config) { c.XLabel = label }
}

// WithYLabel sets the y axis label.
func WithYLabel(label string) Option {
	return func(c *Config) { c.YLabel = label }
}

// WithSize sets the output size in pixels. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(c *Config) {
		if width > 0 {
			c.Width = width
		}
		if height > 0 {
			c.Height = height
		}
	}
}

// WithLegend places (or hides) the legend.
func WithLegend(pos LegendPosition) Option {
	return func(c *Config) { c.Legend = pos }
}

// WithFilters restricts the rows charted.
func WithFilters(filters table.Filters) Option {
	return func(c *Config) { c.Filters = filters }
}

// WithChartID fixes the chart ID instead of generating one.
func WithChartID(id string) Option {
	return func(c *Config) { c.ChartID = id }
}
