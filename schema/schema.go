// Package schema describes the columns of a dataset and which chart roles
// they can play: numeric measures for the x and y axes, categorical
// dimensions for color and marker grouping.
package schema

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ============================================================================
// SCHEMA — Describes the shape of a dataset for chart building
// ============================================================================
// Auto-discovered from CSV (DiscoverFromCSV) or written by hand.
// helpers.ParseCSV uses it to decide which columns become measures and which
// become dimensions. A low-cardinality numeric column ("cyl") is listed as
// both: it can be plotted and grouped by.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name string `json:"name" yaml:"name"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures" yaml:"measures"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty" yaml:"skippedColumns,omitempty"`
}

// DimensionMeta describes a categorical column usable for color or marker.
type DimensionMeta struct {
	Key             string   `json:"key" yaml:"key"`
	DisplayName     string   `json:"displayName" yaml:"displayName"`
	SampleValues    []string `json:"sampleValues" yaml:"sampleValues"`
	Cardinality     int      `json:"cardinality" yaml:"cardinality"`
	CardinalityHint string   `json:"cardinalityHint,omitempty" yaml:"cardinalityHint,omitempty"` // "low", "medium", "high"
	IsTemporal      bool     `json:"isTemporal,omitempty" yaml:"isTemporal,omitempty"`
	IsNumeric       bool     `json:"isNumeric,omitempty" yaml:"isNumeric,omitempty"` // also listed as a measure
}

// MeasureMeta describes a numeric column usable as an axis.
type MeasureMeta struct {
	Key         string  `json:"key" yaml:"key"`
	DisplayName string  `json:"displayName" yaml:"displayName"`
	Min         float64 `json:"min" yaml:"min"`
	Max         float64 `json:"max" yaml:"max"`
	Continuous  bool    `json:"continuous" yaml:"continuous"` // has fractional values
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column" yaml:"column"`
	Reason      string `json:"reason" yaml:"reason"`
	Recoverable bool   `json:"recoverable" yaml:"recoverable"` // Can be restored if consumer overrides
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// ============================================================================
// SUGGESTION — default chart selections for a schema
// ============================================================================

// MaxMarkerCardinality is the largest dimension suggested for the marker
// attribute. Beyond it markers start repeating.
const MaxMarkerCardinality = 8

// Suggestion is a starting set of column selections.
type Suggestion struct {
	X      string `json:"x"`
	Y      string `json:"y"`
	Color  string `json:"color,omitempty"`
	Marker string `json:"marker,omitempty"`
}

// Suggest picks x and y from the first two measures, color from the
// lowest-cardinality dimension and marker from the next one small enough to
// get distinct markers. Continuous measures are preferred for the axes and
// coded measures (also dimensions) come last.
func (c Config) Suggest() Suggestion {
	var s Suggestion

	coded := make(map[string]bool)
	for _, d := range c.Dimensions {
		if d.IsNumeric {
			coded[d.Key] = true
		}
	}
	rank := func(m MeasureMeta) int {
		switch {
		case m.Continuous:
			return 0
		case !coded[m.Key]:
			return 1
		}
		return 2
	}
	measures := slices.Clone(c.Measures)
	slices.SortStableFunc(measures, func(a, b MeasureMeta) int {
		return cmp.Compare(rank(a), rank(b))
	})
	axes := make([]string, len(measures))
	for i, m := range measures {
		axes[i] = m.Key
	}
	switch len(axes) {
	case 0:
	case 1:
		s.Y = axes[0]
	default:
		s.X, s.Y = axes[0], axes[1]
	}

	var best *DimensionMeta
	for i := range c.Dimensions {
		d := &c.Dimensions[i]
		if d.Cardinality < 2 || d.Key == s.X || d.Key == s.Y {
			continue
		}
		if best == nil || d.Cardinality < best.Cardinality {
			best = d
		}
	}
	if best == nil {
		return s
	}
	s.Color = best.Key

	for _, d := range c.Dimensions {
		if d.Key == s.Color || d.Key == s.X || d.Key == s.Y {
			continue
		}
		if d.Cardinality >= 2 && d.Cardinality <= MaxMarkerCardinality {
			s.Marker = d.Key
			break
		}
	}
	return s
}

// ============================================================================
// VALUE HELPERS
// ============================================================================

// ParseNumber parses a numeric cell, accepting thousands separators and a
// leading currency symbol ("$1,234.50"). Infinities and NaN are not numbers
// here; such cells count as missing.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for _, sym := range []string{"$", "€", "£"} {
		s = strings.TrimPrefix(s, sym)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// IsNull reports whether a cell counts as missing.
func IsNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a", "NA", "NaN":
		return true
	}
	return false
}
