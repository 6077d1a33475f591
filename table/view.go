package table

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// ============================================================================
// TABLE — Columnar data access for chart builders
// ============================================================================
// Builders never own consumer data. They read rows through this interface.
//
// Implementations:
//   SliceTable      — wraps []Record (CSV, SQLite, ad-hoc)
//   DomainTable[T]  — reads typed structs via accessor functions
//   SubTable        — filtered/grouped subset (indices into parent)
//   IndexedTable    — adds the virtual "index" column (row position)
//
// Categorical columns are dimensions, numeric columns are measures.
// A numeric column can still be grouped on: its formatted value is used.
// A missing measure cell reads as NaN, never as zero.
// ============================================================================

// IndexColumn is the virtual numeric column holding a row's position.
const IndexColumn = "index"

var (
	// ErrUnknownColumn is returned when a selected column does not exist.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotNumeric is returned when a numeric selection names a categorical column.
	ErrNotNumeric = errors.New("column is not numeric")
)

// Table provides indexed access to a dataset.
// Dimension and Measure are called in tight loops. Measure returns NaN
// when the row has no value for key.
type Table interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // categorical columns
	MeasureKeys() []string   // numeric columns
}

// Record is a single row with string dimensions and numeric measures.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// SLICE TABLE
// ============================================================================

// SliceTable wraps a []Record slice as a Table.
type SliceTable struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceTable creates a Table from records. Column order follows first
// appearance across records, sorted within each record for stability.
func NewSliceTable(records []Record) *SliceTable {
	t := &SliceTable{records: records}
	t.cacheKeys()
	return t
}

func (t *SliceTable) cacheKeys() {
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range t.records {
		for _, k := range sortedKeys(r.Dimensions) {
			if !dimSeen[k] {
				dimSeen[k] = true
				t.dimKeys = append(t.dimKeys, k)
			}
		}
		for _, k := range sortedKeys(r.Measures) {
			if !mesSeen[k] {
				mesSeen[k] = true
				t.mesKeys = append(t.mesKeys, k)
			}
		}
	}
}

func (t *SliceTable) Len() int { return len(t.records) }

func (t *SliceTable) Dimension(i int, key string) string {
	if i < 0 || i >= len(t.records) {
		return ""
	}
	return t.records[i].Dimensions[key]
}

func (t *SliceTable) Measure(i int, key string) float64 {
	if i < 0 || i >= len(t.records) {
		return math.NaN()
	}
	v, ok := t.records[i].Measures[key]
	if !ok {
		return math.NaN()
	}
	return v
}

func (t *SliceTable) DimensionKeys() []string { return t.dimKeys }
func (t *SliceTable) MeasureKeys() []string   { return t.mesKeys }

// ============================================================================
// SUB TABLE — row subset, no copy
// ============================================================================

// SubTable is a subset of a parent Table addressed by row indices.
type SubTable struct {
	parent  Table
	indices []int
}

// NewSubTable returns the rows of parent at the given indices.
func NewSubTable(parent Table, indices []int) *SubTable {
	return &SubTable{parent: parent, indices: indices}
}

func (t *SubTable) Len() int { return len(t.indices) }

func (t *SubTable) Dimension(i int, key string) string {
	if i < 0 || i >= len(t.indices) {
		return ""
	}
	return t.parent.Dimension(t.indices[i], key)
}

func (t *SubTable) Measure(i int, key string) float64 {
	if i < 0 || i >= len(t.indices) {
		return math.NaN()
	}
	return t.parent.Measure(t.indices[i], key)
}

func (t *SubTable) DimensionKeys() []string { return t.parent.DimensionKeys() }
func (t *SubTable) MeasureKeys() []string   { return t.parent.MeasureKeys() }

// ============================================================================
// INDEXED TABLE — virtual "index" column
// ============================================================================

// IndexedTable exposes the row position of its parent as the IndexColumn
// measure. Subsets taken from it keep the original positions.
type IndexedTable struct {
	parent  Table
	mesKeys []string
}

// WithIndex wraps t so that IndexColumn is selectable. If t already has a
// measure named IndexColumn it is returned unchanged.
func WithIndex(t Table) Table {
	if slices.Contains(t.MeasureKeys(), IndexColumn) {
		return t
	}
	keys := append([]string{IndexColumn}, t.MeasureKeys()...)
	return &IndexedTable{parent: t, mesKeys: keys}
}

func (t *IndexedTable) Len() int { return t.parent.Len() }

func (t *IndexedTable) Dimension(i int, key string) string { return t.parent.Dimension(i, key) }

func (t *IndexedTable) Measure(i int, key string) float64 {
	if key == IndexColumn {
		return float64(i)
	}
	return t.parent.Measure(i, key)
}

func (t *IndexedTable) DimensionKeys() []string { return t.parent.DimensionKeys() }
func (t *IndexedTable) MeasureKeys() []string   { return t.mesKeys }

// ============================================================================
// DOMAIN ADAPTER — typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := table.NewDomainAdapter[Car]().
//	    Dimension("origin", func(c Car) string { return c.Origin }).
//	    Measure("mpg", func(c Car) float64 { return c.MPG })
//
//	chart, err := engine.Scatter(adapter.Bind(cars), "mpg", "hp")
//
// ============================================================================

// DomainAdapter builds a Table from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a categorical column accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a numeric column accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a Table over data. The slice is referenced, not copied.
func (a *DomainAdapter[T]) Bind(data []T) Table {
	return &DomainTable[T]{
		data:    data,
		dims:    a.dims,
		meas:    a.meas,
		dimKeys: a.dimOrder,
		mesKeys: a.mesOrder,
	}
}

// DomainTable reads typed struct fields via registered accessor functions.
type DomainTable[T any] struct {
	data    []T
	dims    map[string]func(T) string
	meas    map[string]func(T) float64
	dimKeys []string
	mesKeys []string
}

func (t *DomainTable[T]) Len() int { return len(t.data) }

func (t *DomainTable[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(t.data) {
		return ""
	}
	if fn, ok := t.dims[key]; ok {
		return fn(t.data[i])
	}
	return ""
}

func (t *DomainTable[T]) Measure(i int, key string) float64 {
	if i < 0 || i >= len(t.data) {
		return math.NaN()
	}
	if fn, ok := t.meas[key]; ok {
		return fn(t.data[i])
	}
	return math.NaN()
}

func (t *DomainTable[T]) DimensionKeys() []string { return t.dimKeys }
func (t *DomainTable[T]) MeasureKeys() []string   { return t.mesKeys }

// ============================================================================
// COLUMN ACCESS
// ============================================================================

// HasDimension reports whether key is a categorical column of t.
func HasDimension(t Table, key string) bool {
	return slices.Contains(t.DimensionKeys(), key)
}

// HasMeasure reports whether key is a numeric column of t.
func HasMeasure(t Table, key string) bool {
	return slices.Contains(t.MeasureKeys(), key)
}

// HasColumn reports whether key names any column of t.
func HasColumn(t Table, key string) bool {
	return HasDimension(t, key) || HasMeasure(t, key)
}

// Category returns the grouping value of row i for key. Dimensions win over
// measures of the same name; measures are formatted with the shortest
// representation, and a missing measure is the empty category.
func Category(t Table, i int, key string) string {
	if HasMeasure(t, key) && !HasDimension(t, key) {
		v := t.Measure(i, key)
		if math.IsNaN(v) {
			return ""
		}
		return FormatValue(v)
	}
	return t.Dimension(i, key)
}

// Floats selects a numeric column. Missing cells are NaN.
func Floats(t Table, key string) ([]float64, error) {
	if !HasMeasure(t, key) {
		if HasDimension(t, key) {
			return nil, fmt.Errorf("select %q: %w", key, ErrNotNumeric)
		}
		return nil, fmt.Errorf("select %q: %w", key, ErrUnknownColumn)
	}
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = t.Measure(i, key)
	}
	return out, nil
}

// FormatValue renders a numeric value as a category label ("4", "2.5").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
