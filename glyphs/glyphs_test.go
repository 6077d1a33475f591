package glyphs

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/charts/attributes"
)

var (
	red  = color.NRGBA{R: 0xff, A: 0xff}
	blue = color.NRGBA{B: 0xff, A: 0xff}
)

func TestNewPointGlyphLengthMismatch(t *testing.T) {
	_, err := NewPointGlyph("A", []float64{1, 2}, []float64{1}, red, red, attributes.Circle)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestPointGlyphFrame(t *testing.T) {
	g, err := NewPointGlyph("A", []float64{1, 2}, []float64{3, 4}, blue, red, attributes.Square)
	require.NoError(t, err)

	want := Frame{
		X:         []float64{1, 2},
		Y:         []float64{3, 4},
		LineColor: []string{"#0000ff", "#0000ff"},
		FillColor: []string{"#ff0000", "#ff0000"},
		Marker:    []attributes.Marker{attributes.Square, attributes.Square},
		Label:     []string{"A", "A"},
		Group:     []string{"A", "A"},
	}
	if diff := cmp.Diff(want, g.Frame()); diff != "" {
		t.Errorf("Frame() mismatch (-want +got):\n%s", diff)
	}

	// The frame owns its coordinates
	f := g.Frame()
	f.X[0] = 99
	assert.Equal(t, 1.0, g.X[0])
}

func TestConcatAndSegments(t *testing.T) {
	a, err := NewPointGlyph("A", []float64{1, 2}, []float64{1, 2}, red, red, attributes.Circle)
	require.NoError(t, err)
	b, err := NewPointGlyph("B", []float64{3}, []float64{3}, blue, blue, attributes.Circle)
	require.NoError(t, err)

	f := Concat(a.Frame(), b.Frame())
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []string{"A", "A", "B"}, f.Label)
	assert.Equal(t, Row{X: 3, Y: 3, LineColor: "#0000ff", FillColor: "#0000ff", Marker: attributes.Circle, Label: "B", Group: "B"}, f.Row(2))

	assert.Equal(t, []Segment{{Label: "A", Group: "A", Start: 0, End: 2}, {Label: "B", Group: "B", Start: 2, End: 3}}, f.Segments())
	assert.Empty(t, Concat().Segments())
}

func TestFrameColumn(t *testing.T) {
	g, err := NewPointGlyph("A", []float64{1}, []float64{2}, red, red, attributes.X)
	require.NoError(t, err)
	f := g.Frame()

	for _, name := range f.Columns() {
		col, err := f.Column(name)
		require.NoError(t, err, name)
		assert.Len(t, col, 1, name)
	}

	col, err := f.Column(MarkerColumn)
	require.NoError(t, err)
	assert.Equal(t, []any{attributes.X}, col)

	_, err = f.Column("size")
	assert.Error(t, err)
}

func TestNewPointGlyphDropsNonFinite(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	g, err := NewPointGlyph("A",
		[]float64{1, nan, 3, 4, 5},
		[]float64{10, 20, inf, 40, math.Inf(-1)},
		red, red, attributes.Circle)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 4}, g.X)
	assert.Equal(t, []float64{10, 40}, g.Y)
	assert.Equal(t, 2, g.Frame().Len())

	empty, err := NewPointGlyph("B", []float64{nan}, []float64{1}, red, red, attributes.Circle)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestSegmentsSplitGroupsSharingALabel(t *testing.T) {
	a, err := NewPointGlyph("a, b, c", []float64{1}, []float64{1}, red, red, attributes.Circle)
	require.NoError(t, err)
	a.Group = "first"
	b, err := NewPointGlyph("a, b, c", []float64{2, 3}, []float64{2, 3}, blue, blue, attributes.Circle)
	require.NoError(t, err)
	b.Group = "second"

	segs := Concat(a.Frame(), b.Frame()).Segments()
	assert.Equal(t, []Segment{
		{Label: "a, b, c", Group: "first", Start: 0, End: 1},
		{Label: "a, b, c", Group: "second", Start: 1, End: 3},
	}, segs)
}
