// Package attributes maps categorical data values to visual properties.
//
// An attribute encoder is bound to a column. Binding collects the column's
// distinct values, sorts them, and hands out entries of its iterable (a
// color palette, a list of markers) in that order, cycling when the values
// outnumber the entries. Encoders without a column encode every value to
// their default.
package attributes

import (
	"cmp"
	"errors"
	"image/color"
	"slices"
	"strconv"

	"gonum.org/v1/plot/plotutil"
)

// ErrUnknownPalette is returned for palette names ColorBrewer does not know.
var ErrUnknownPalette = errors.New("unknown palette")

// Spec encodes the values of one column into items of type T.
type Spec[T any] struct {
	// Column is the grouping column. Empty means every row gets Default.
	Column string

	// Iterable holds the items handed out to distinct values.
	Iterable []T

	// Default is used when there is no column or no iterable.
	Default T

	items map[string]T
	next  int
}

// NewSpec creates an encoder over iterable with the given default.
func NewSpec[T any](column string, iterable []T, def T) *Spec[T] {
	return &Spec[T]{
		Column:   column,
		Iterable: iterable,
		Default:  def,
		items:    make(map[string]T),
	}
}

// Bind assigns items to the distinct values that have none yet. New values
// are taken in sorted order so the mapping does not depend on row order.
// Values bound earlier keep their item.
func (s *Spec[T]) Bind(values []string) {
	if s.Column == "" || len(s.Iterable) == 0 {
		return
	}
	if s.items == nil {
		s.items = make(map[string]T)
	}

	var fresh []string
	seen := make(map[string]bool)
	for _, v := range values {
		if _, ok := s.items[v]; ok || seen[v] {
			continue
		}
		seen[v] = true
		fresh = append(fresh, v)
	}
	SortValues(fresh)

	for _, v := range fresh {
		s.items[v] = s.Iterable[s.next%len(s.Iterable)]
		s.next++
	}
}

// Encode returns the item for value.
func (s *Spec[T]) Encode(value string) T {
	if s.Column == "" {
		return s.Default
	}
	if item, ok := s.items[value]; ok {
		return item
	}
	return s.Default
}

// Values returns the bound values in sorted order.
func (s *Spec[T]) Values() []string {
	out := make([]string, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	SortValues(out)
	return out
}

// SortValues sorts numerically when every value parses as a number,
// lexically otherwise.
func SortValues(values []string) {
	nums := make(map[string]float64, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slices.Sort(values)
			return
		}
		nums[v] = f
	}
	slices.SortFunc(values, func(a, b string) int {
		return cmp.Compare(nums[a], nums[b])
	})
}

// ============================================================================
// COLOR
// ============================================================================

// ColorAttr encodes column values as colors.
type ColorAttr = Spec[color.Color]

// DefaultPalette is the palette used when none is given.
var DefaultPalette = plotutil.DefaultColors

// NewColorAttr creates a color encoder. An empty palette means
// DefaultPalette; the first palette color is the default.
func NewColorAttr(column string, palette ...color.Color) *ColorAttr {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return NewSpec[color.Color](column, palette, palette[0])
}

// ============================================================================
// MARKER
// ============================================================================

// MarkerAttr encodes column values as marker shapes.
type MarkerAttr = Spec[Marker]

// NewMarkerAttr creates a marker encoder. An empty marker list means
// DefaultMarkers; the default marker is Circle.
func NewMarkerAttr(column string, markers ...Marker) *MarkerAttr {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return NewSpec(column, markers, Circle)
}
