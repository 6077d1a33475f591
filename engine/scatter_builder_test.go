package engine

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/charts/attributes"
	"github.com/spektr-org/charts/glyphs"
	"github.com/spektr-org/charts/table"
)

func point(x, y float64, group, shape string) table.Record {
	return table.Record{
		Dimensions: map[string]string{"group": group, "shape": shape},
		Measures:   map[string]float64{"x": x, "y": y},
	}
}

// Rows interleave so that first-appearance order differs from sorted order.
func sampleTable() *table.SliceTable {
	return table.NewSliceTable([]table.Record{
		point(1, 10, "A", "circle"),
		point(2, 20, "B", "square"),
		point(3, 30, "B", "circle"),
		point(4, 40, "A", "square"),
		point(5, 50, "A", "circle"),
	})
}

func newTestBuilder(t *testing.T, data table.Table, opts ...Option) *ScatterBuilder {
	t.Helper()
	b, err := NewScatterBuilder(data, NewConfig(opts...))
	require.NoError(t, err)
	require.NoError(t, b.Setup())
	return b
}

func rendererNames(rs []*Renderer) []string {
	var names []string
	for _, r := range rs {
		names = append(names, r.Name)
	}
	return names
}

func TestUpdateRenderersMergesByMarker(t *testing.T) {
	b := newTestBuilder(t, sampleTable(),
		WithX("x"), WithY("y"), WithColor("group"), WithMarker("shape"))
	require.NoError(t, b.UpdateRenderers())

	rs := b.Renderers()
	require.Equal(t, []string{"circle", "square"}, rendererNames(rs))

	circle, square := rs[0], rs[1]
	assert.Equal(t, attributes.Circle, circle.Marker)
	assert.Equal(t, attributes.Square, square.Marker)

	// A/circle rows first, then B/circle, following group order
	assert.Equal(t, []float64{1, 5, 3}, circle.Source.X)
	assert.Equal(t, []float64{10, 50, 30}, circle.Source.Y)
	assert.Equal(t, []string{"A, circle", "A, circle", "B, circle"}, circle.Source.Label)

	assert.Equal(t, []float64{2, 4}, square.Source.X)
	assert.Equal(t, []string{"B, square", "A, square"}, square.Source.Label)

	// Line and fill follow the color attribute: A is the first palette entry
	a := attributes.Hex(attributes.DefaultPalette[0])
	bHex := attributes.Hex(attributes.DefaultPalette[1])
	assert.Equal(t, []string{a, a, bHex}, circle.Source.FillColor)
	assert.Equal(t, circle.Source.FillColor, circle.Source.LineColor)

	assert.True(t, circle.Visible())
	assert.True(t, square.Visible())
}

func TestEveryRowInExactlyOneRenderer(t *testing.T) {
	b := newTestBuilder(t, sampleTable(),
		WithX("x"), WithY("y"), WithColor("group"), WithMarker("shape"))
	require.NoError(t, b.UpdateRenderers())

	seen := map[float64]int{}
	markers := map[attributes.Marker]bool{}
	for _, r := range b.Renderers() {
		assert.False(t, markers[r.Marker], "second renderer for %s", r.Marker)
		markers[r.Marker] = true
		for _, x := range r.Source.X {
			seen[x]++
		}
	}
	assert.Equal(t, map[float64]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}, seen)
	assert.Len(t, b.Glyphs(), 4)
}

func TestUpdateRenderersGlyphs(t *testing.T) {
	b := newTestBuilder(t, sampleTable(),
		WithX("x"), WithY("y"), WithColor("group"), WithMarker("shape"))
	require.NoError(t, b.UpdateRenderers())

	var labels []string
	for _, g := range b.Glyphs() {
		labels = append(labels, g.Label)
		assert.Equal(t, g.LineColor, g.FillColor)
	}
	assert.Equal(t, []string{"A, circle", "B, square", "B, circle", "A, square"}, labels)

	// A second update rebuilds the glyph list rather than appending to it
	require.NoError(t, b.UpdateRenderers())
	assert.Len(t, b.Glyphs(), 4)
	assert.Len(t, b.Renderers(), 2)
}

func TestRenderersHiddenNotRemoved(t *testing.T) {
	b := newTestBuilder(t, sampleTable(),
		WithX("x"), WithY("y"), WithColor("group"), WithMarker("shape"))
	require.NoError(t, b.UpdateRenderers())
	square := b.Renderers()[1]
	staleSource := square.Source

	circles := table.NewSliceTable([]table.Record{
		point(7, 70, "B", "circle"),
	})
	require.NoError(t, b.SetData(circles))
	require.NoError(t, b.UpdateRenderers())

	rs := b.Renderers()
	require.Equal(t, []string{"circle", "square"}, rendererNames(rs))
	assert.Same(t, square, rs[1])
	assert.False(t, rs[1].Visible())
	assert.Same(t, staleSource, rs[1].Source)

	assert.True(t, rs[0].Visible())
	assert.Equal(t, []float64{7}, rs[0].Source.X)
	assert.Equal(t, []string{"B, circle"}, rs[0].Source.Label)

	// The marker comes back: the same renderer is shown again
	require.NoError(t, b.SetData(sampleTable()))
	require.NoError(t, b.UpdateRenderers())
	assert.Same(t, square, b.Renderers()[1])
	assert.True(t, square.Visible())
	assert.Equal(t, []float64{2, 4}, square.Source.X)
}

func TestSetDataKeepsEncoding(t *testing.T) {
	b := newTestBuilder(t, sampleTable(),
		WithX("x"), WithY("y"), WithColor("group"))
	require.NoError(t, b.UpdateRenderers())

	// "0" sorts before "A" but B keeps the color it was given first
	more := table.NewSliceTable([]table.Record{
		point(1, 1, "B", "circle"),
		point(2, 2, "0", "circle"),
	})
	require.NoError(t, b.SetData(more))
	require.NoError(t, b.UpdateRenderers())

	gs := b.Glyphs()
	require.Len(t, gs, 2)
	assert.Equal(t, attributes.DefaultPalette[1], gs[0].FillColor)
	assert.Equal(t, attributes.DefaultPalette[2], gs[1].FillColor)
}

func TestYieldRenderers(t *testing.T) {
	b := newTestBuilder(t, sampleTable(),
		WithX("x"), WithY("y"), WithColor("group"), WithMarker("shape"))

	seq, err := b.YieldRenderers()
	require.NoError(t, err)

	first := slices.Collect(seq)
	assert.Equal(t, b.Renderers(), first)
	assert.Equal(t, []string{"circle", "square"}, rendererNames(first))

	// Restartable
	assert.Equal(t, first, slices.Collect(seq))

	// Early stop
	var n int
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestYieldRenderersOrderFollowsFirstAppearance(t *testing.T) {
	data := table.NewSliceTable([]table.Record{
		point(1, 1, "A", "square"),
		point(2, 2, "A", "circle"),
	})
	b := newTestBuilder(t, data, WithX("x"), WithY("y"), WithMarker("shape"))
	seq, err := b.YieldRenderers()
	require.NoError(t, err)
	assert.Equal(t, []string{"square", "circle"}, rendererNames(slices.Collect(seq)))
}

func TestUpdateRenderersNoAttributes(t *testing.T) {
	b := newTestBuilder(t, sampleTable(), WithX("x"), WithY("y"))
	require.NoError(t, b.UpdateRenderers())

	rs := b.Renderers()
	require.Len(t, rs, 1)
	assert.Equal(t, attributes.Circle, rs[0].Marker)
	assert.Equal(t, 5, rs[0].Source.Len())
	assert.Equal(t, []string{"y"}, slices.Compact(rs[0].Source.Label))
}

func TestUpdateRenderersIndexFallback(t *testing.T) {
	b := newTestBuilder(t, sampleTable(), WithY("y"))
	assert.Equal(t, table.IndexColumn, b.X)
	require.NoError(t, b.UpdateRenderers())
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, b.Renderers()[0].Source.X)

	x, y := b.Labels()
	assert.Equal(t, "index", x)
	assert.Equal(t, "y", y)
}

func TestUpdateRenderersErrorsLeaveState(t *testing.T) {
	b := newTestBuilder(t, sampleTable(), WithX("x"), WithY("y"), WithMarker("shape"))
	require.NoError(t, b.UpdateRenderers())
	before := b.Glyphs()

	b.Y = "group"
	err := b.UpdateRenderers()
	assert.ErrorIs(t, err, table.ErrNotNumeric)
	assert.Equal(t, before, b.Glyphs())

	b.Y = "missing"
	assert.ErrorIs(t, b.UpdateRenderers(), table.ErrUnknownColumn)
}

func TestNewScatterBuilderNoSelection(t *testing.T) {
	_, err := NewScatterBuilder(sampleTable(), NewConfig())
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSetupUnknownColumn(t *testing.T) {
	b, err := NewScatterBuilder(sampleTable(), NewConfig(WithX("x"), WithColor("nope")))
	require.NoError(t, err)
	assert.ErrorIs(t, b.Setup(), table.ErrUnknownColumn)
}

func TestCustomMarkersAndPalette(t *testing.T) {
	green := color.NRGBA{G: 0xff, A: 0xff}
	b := newTestBuilder(t, sampleTable(),
		WithX("x"), WithY("y"), WithColor("shape"), WithMarker("shape"),
		WithPalette(green), WithMarkers(attributes.Diamond, attributes.Cross))
	require.NoError(t, b.UpdateRenderers())

	rs := b.Renderers()
	require.Equal(t, []string{"diamond", "cross"}, rendererNames(rs))
	assert.Equal(t, []string{"circle", "circle", "circle"}, rs[0].Source.Label)
	assert.Equal(t, "#00ff00", rs[1].Source.FillColor[0])
}

func TestMarkerGlyphReplaced(t *testing.T) {
	b := newTestBuilder(t, sampleTable(), WithX("x"), WithY("y"), WithMarker("shape"))
	require.NoError(t, b.UpdateRenderers())
	r := b.Renderers()[0]
	old := r.Glyph

	require.NoError(t, b.UpdateRenderers())
	assert.NotSame(t, old, r.Glyph)

	want := &MarkerGlyph{
		Marker:    attributes.Circle,
		X:         glyphs.XColumn,
		Y:         glyphs.YColumn,
		LineColor: glyphs.LineColorColumn,
		FillColor: glyphs.FillColorColumn,
		Visible:   true,
	}
	if diff := cmp.Diff(want, r.Glyph); diff != "" {
		t.Errorf("glyph mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateRenderersSkipsMissingValues(t *testing.T) {
	noY := point(2, 0, "B", "square")
	delete(noY.Measures, "y")
	data := table.NewSliceTable([]table.Record{
		point(1, 10, "A", "circle"),
		noY,
		point(math.Inf(1), 30, "A", "circle"),
		point(4, 40, "A", "circle"),
		point(5, math.NaN(), "B", "circle"),
		point(6, 60, "B", "circle"),
	})
	b := newTestBuilder(t, data,
		WithX("x"), WithY("y"), WithColor("group"), WithMarker("shape"))
	require.NoError(t, b.UpdateRenderers())

	// B/square has no drawable point, so no glyph and no renderer
	rs := b.Renderers()
	require.Equal(t, []string{"circle"}, rendererNames(rs))
	assert.Equal(t, []float64{1, 4, 6}, rs[0].Source.X)
	assert.Equal(t, []float64{10, 40, 60}, rs[0].Source.Y)
	assert.Equal(t, []string{"A, circle", "A, circle", "B, circle"}, rs[0].Source.Label)

	var labels []string
	for _, g := range b.Glyphs() {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"A, circle", "B, circle"}, labels)
}

func TestCycledMarkersShareOneRenderer(t *testing.T) {
	data := table.NewSliceTable([]table.Record{
		point(1, 1, "A", "p"),
		point(2, 2, "A", "q"),
		point(3, 3, "A", "r"),
	})
	// p → circle, q → square, r cycles back to circle
	b := newTestBuilder(t, data,
		WithX("x"), WithY("y"), WithMarker("shape"),
		WithMarkers(attributes.Circle, attributes.Square))
	require.NoError(t, b.UpdateRenderers())

	rs := b.Renderers()
	require.Equal(t, []string{"circle", "square"}, rendererNames(rs))
	assert.Equal(t, []float64{1, 3}, rs[0].Source.X)
	assert.Equal(t, []string{"p", "r"}, rs[0].Source.Label)
	assert.Len(t, rs[0].Source.Segments(), 2)
	assert.Equal(t, []float64{2}, rs[1].Source.X)
	assert.Len(t, b.Glyphs(), 3)
}

func TestGroupsSharingALabelStayApart(t *testing.T) {
	rec := func(x float64, c, m string) table.Record {
		return table.Record{
			Dimensions: map[string]string{"c": c, "m": m},
			Measures:   map[string]float64{"x": x, "y": x},
		}
	}
	data := table.NewSliceTable([]table.Record{
		rec(1, "a, b", "c"),
		rec(2, "a", "b, c"),
	})
	chart, err := Scatter(data, "x", "y",
		WithColor("c"), WithMarker("m"), WithMarkers(attributes.Circle))
	require.NoError(t, err)

	require.Len(t, chart.Renderers, 1)
	segs := chart.Renderers[0].Source.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, segs[0].Label, segs[1].Label)
	assert.NotEqual(t, segs[0].Group, segs[1].Group)

	require.Len(t, chart.LegendItems, 2)
	assert.NotEqual(t, chart.LegendItems[0].FillColor, chart.LegendItems[1].FillColor)
}

func TestGroupKeyString(t *testing.T) {
	a := GroupKey{Color: "a, b", Marker: "c"}
	b := GroupKey{Color: "a", Marker: "b, c"}
	assert.NotEqual(t, a.String(), b.String())
	assert.Equal(t, `"a"/""`, GroupKey{Color: "a"}.String())
}
