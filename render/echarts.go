package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/spektr-org/charts/attributes"
	"github.com/spektr-org/charts/engine"
)

// ============================================================================
// INTERACTIVE HTML — go-echarts
// ============================================================================
// ECharts colors a series as a whole, so every visible renderer is split
// into one series per run of equally labelled rows. Series order follows
// renderer order, then row order.
// ============================================================================

// SymbolSize is the marker size of HTML charts, in pixels.
var SymbolSize = 10

// AssetsHost overrides where the generated page loads echarts from.
// Empty keeps the go-echarts default.
var AssetsHost string

var symbols = map[attributes.Marker]string{
	attributes.Circle:           "circle",
	attributes.Square:           "rect",
	attributes.Triangle:         "triangle",
	attributes.Diamond:          "diamond",
	attributes.InvertedTriangle: "path://M0,0 L10,0 L5,10 Z",
	attributes.Cross:            "path://M4,0 H6 V4 H10 V6 H6 V10 H4 V6 H0 V4 H4 Z",
	attributes.X:                "path://M1,0 L5,4 L9,0 L10,1 L6,5 L10,9 L9,10 L5,6 L1,10 L0,9 L4,5 L0,1 Z",
	attributes.Asterisk:         "path://M4.5,0 H5.5 V4 L8.5,1 L9,1.5 L6,4.5 H10 V5.5 H6 L9,8.5 L8.5,9 L5.5,6 V10 H4.5 V6 L1.5,9 L1,8.5 L4,5.5 H0 V4.5 H4 L1,1.5 L1.5,1 L4.5,4 Z",
}

// Symbol returns the echarts symbol for a marker.
func Symbol(m attributes.Marker) string {
	if s, ok := symbols[m]; ok {
		return s
	}
	return "circle"
}

// ECharts converts a chart into a go-echarts scatter.
func ECharts(chart *engine.Chart) *charts.Scatter {
	initOpts := opts.Initialization{
		PageTitle:  pageTitle(chart),
		Width:      fmt.Sprintf("%dpx", chart.Width),
		Height:     fmt.Sprintf("%dpx", chart.Height),
		ChartID:    chart.ID,
		AssetsHost: AssetsHost,
	}
	// Fills theme, renderer and assets defaults for fields left empty
	initOpts.Validate()

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: chart.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: chart.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: chart.YLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithLegendOpts(legendOpts(chart.Legend)),
	)

	for _, r := range chart.VisibleRenderers() {
		sym := Symbol(r.Glyph.Marker)
		src := r.Source
		for _, seg := range src.Segments() {
			data := make([]opts.ScatterData, 0, seg.End-seg.Start)
			for i := seg.Start; i < seg.End; i++ {
				if !finite(src.X[i]) || !finite(src.Y[i]) {
					continue
				}
				data = append(data, opts.ScatterData{
					Value:  []interface{}{src.X[i], src.Y[i]},
					Symbol: sym,
				})
			}
			if len(data) == 0 {
				continue
			}
			sc.AddSeries(seg.Label, data,
				charts.WithScatterChartOpts(opts.ScatterChart{Symbol: sym, SymbolSize: SymbolSize}),
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color:       src.FillColor[seg.Start],
					BorderColor: src.LineColor[seg.Start],
				}),
			)
		}
	}
	return sc
}

// WriteHTML renders chart as a standalone HTML page.
func WriteHTML(w io.Writer, chart *engine.Chart) error {
	if err := ECharts(chart).Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func pageTitle(chart *engine.Chart) string {
	if chart.Title != "" {
		return chart.Title
	}
	return fmt.Sprintf("%s vs %s", chart.YLabel, chart.XLabel)
}

func legendOpts(pos engine.LegendPosition) opts.Legend {
	l := opts.Legend{Show: opts.Bool(pos != engine.LegendNone)}
	switch pos {
	case engine.LegendTopLeft:
		l.Top, l.Left = "top", "left"
	case engine.LegendBottomRight:
		l.Bottom, l.Right = "bottom", "right"
	case engine.LegendBottomLeft:
		l.Bottom, l.Left = "bottom", "left"
	default:
		l.Top, l.Right = "top", "right"
	}
	return l
}
