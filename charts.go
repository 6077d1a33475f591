// Package charts builds grouped scatter charts from tabular data.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/charts/engine"
//	    "github.com/spektr-org/charts/helpers"
//	    "github.com/spektr-org/charts/render"
//	)
//
//	data, _, err := helpers.ParseCSVAuto(raw)
//	chart, err := engine.Scatter(data, "weight", "mpg",
//	    engine.WithColor("cylinders"),
//	    engine.WithMarker("origin"),
//	)
//	err = render.WriteImage(w, chart, "png")
//
// Rows are grouped by their color and marker values. Groups that share a
// marker are merged into one renderer, so a chart has one renderer per
// distinct marker. Renderers are never removed: when new data no longer
// produces a marker, its renderer is hidden.
//
// Data loading lives in helpers, schema detection in schema, chart
// construction in engine and output (PNG/SVG/PDF via gonum/plot, HTML via
// go-echarts) in render.
package charts
