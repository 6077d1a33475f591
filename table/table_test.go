package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TABLE TESTS
// ============================================================================

func carRecords() []Record {
	return []Record{
		{Dimensions: map[string]string{"origin": "US"}, Measures: map[string]float64{"mpg": 18, "hp": 130, "cyl": 8}},
		{Dimensions: map[string]string{"origin": "EU"}, Measures: map[string]float64{"mpg": 26, "hp": 46, "cyl": 4}},
		{Dimensions: map[string]string{"origin": "US"}, Measures: map[string]float64{"mpg": 15, "hp": 165, "cyl": 8}},
		{Dimensions: map[string]string{"origin": "JP"}, Measures: map[string]float64{"mpg": 24, "hp": 95, "cyl": 4}},
		{Dimensions: map[string]string{"origin": "EU"}, Measures: map[string]float64{"mpg": 25, "hp": 87, "cyl": 6}},
	}
}

func TestSliceTableKeys(t *testing.T) {
	tab := NewSliceTable(carRecords())

	assert.Equal(t, 5, tab.Len())
	assert.Equal(t, []string{"origin"}, tab.DimensionKeys())
	assert.Equal(t, []string{"cyl", "hp", "mpg"}, tab.MeasureKeys())
	assert.Equal(t, "JP", tab.Dimension(3, "origin"))
	assert.Equal(t, 95.0, tab.Measure(3, "hp"))

	// Out of range reads are empty
	assert.Equal(t, "", tab.Dimension(99, "origin"))
	assert.True(t, math.IsNaN(tab.Measure(-1, "hp")))
}

func TestMissingMeasureIsNaN(t *testing.T) {
	recs := carRecords()
	delete(recs[1].Measures, "mpg")
	delete(recs[3].Measures, "cyl")
	tab := NewSliceTable(recs)

	mpg, err := Floats(tab, "mpg")
	require.NoError(t, err)
	require.Len(t, mpg, 5)
	assert.Equal(t, 18.0, mpg[0])
	assert.True(t, math.IsNaN(mpg[1]))

	// a missing numeric grouping cell is the empty category
	assert.Equal(t, "", Category(tab, 3, "cyl"))
	groups, err := GroupBy(tab, "cyl")
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "4", "", "6"}, groupKeys(groups))
}

func groupKeys(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key[0]
	}
	return out
}

func TestFloats(t *testing.T) {
	tab := NewSliceTable(carRecords())

	mpg, err := Floats(tab, "mpg")
	require.NoError(t, err)
	assert.Equal(t, []float64{18, 26, 15, 24, 25}, mpg)

	_, err = Floats(tab, "origin")
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = Floats(tab, "weight")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestCategoryFormatsMeasures(t *testing.T) {
	tab := NewSliceTable(carRecords())

	assert.Equal(t, "8", Category(tab, 0, "cyl"))
	assert.Equal(t, "US", Category(tab, 0, "origin"))
	assert.Equal(t, "2.5", FormatValue(2.5))
}

func TestWithIndex(t *testing.T) {
	tab := WithIndex(NewSliceTable(carRecords()))

	assert.True(t, HasMeasure(tab, IndexColumn))
	idx, err := Floats(tab, IndexColumn)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, idx)

	// Subsets keep the parent positions
	groups, err := GroupBy(tab, "origin")
	require.NoError(t, err)
	us, err := Floats(groups[0].Rows, IndexColumn)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, us)

	// Wrapping twice is a no-op
	assert.Same(t, tab, WithIndex(tab))
}

func TestGroupByFirstAppearanceOrder(t *testing.T) {
	tab := NewSliceTable(carRecords())

	groups, err := GroupBy(tab, "origin")
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, []string{"US"}, groups[0].Key)
	assert.Equal(t, []string{"EU"}, groups[1].Key)
	assert.Equal(t, []string{"JP"}, groups[2].Key)
	assert.Equal(t, 2, groups[0].Rows.Len())
	assert.Equal(t, 1, groups[2].Rows.Len())
}

func TestGroupByMultipleColumns(t *testing.T) {
	tab := NewSliceTable(carRecords())

	groups, err := GroupBy(tab, "origin", "cyl")
	require.NoError(t, err)

	keys := make([][]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	assert.Equal(t, [][]string{{"US", "8"}, {"EU", "4"}, {"JP", "4"}, {"EU", "6"}}, keys)
}

func TestGroupByUnsetSlot(t *testing.T) {
	tab := NewSliceTable(carRecords())

	groups, err := GroupBy(tab, "", "origin")
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"", "US"}, groups[0].Key)

	groups, err = GroupBy(tab, "", "")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 5, groups[0].Rows.Len())
}

func TestGroupByUnknownColumn(t *testing.T) {
	_, err := GroupBy(NewSliceTable(carRecords()), "colour")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestGroupByEmptyTable(t *testing.T) {
	groups, err := GroupBy(NewSliceTable(nil))
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDistinct(t *testing.T) {
	vals, err := Distinct(NewSliceTable(carRecords()), "cyl")
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "4", "6"}, vals)
}

func TestApplyFilters(t *testing.T) {
	tab := NewSliceTable(carRecords())

	out := ApplyFilters(tab, Filters{Columns: map[string][]string{"origin": {"us", "jp"}}})
	assert.Equal(t, 3, out.Len())

	out = ApplyFilters(tab, Filters{Columns: map[string][]string{
		"origin": {"EU"},
		"cyl":    {"4"},
	}})
	require.Equal(t, 1, out.Len())
	assert.Equal(t, 26.0, out.Measure(0, "mpg"))

	assert.Same(t, tab, ApplyFilters(tab, Filters{}).(*SliceTable))
}

type car struct {
	Origin string
	MPG    float64
}

func TestDomainAdapter(t *testing.T) {
	adapter := NewDomainAdapter[car]().
		Dimension("origin", func(c car) string { return c.Origin }).
		Measure("mpg", func(c car) float64 { return c.MPG })

	tab := adapter.Bind([]car{{"US", 18}, {"EU", 26}})

	assert.Equal(t, 2, tab.Len())
	assert.Equal(t, []string{"origin"}, tab.DimensionKeys())
	assert.Equal(t, []string{"mpg"}, tab.MeasureKeys())
	assert.Equal(t, "EU", tab.Dimension(1, "origin"))
	assert.Equal(t, 26.0, tab.Measure(1, "mpg"))
	assert.Equal(t, "", tab.Dimension(0, "nope"))
	assert.True(t, math.IsNaN(tab.Measure(0, "nope")))
}
