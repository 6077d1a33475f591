package table

import (
	"strings"
)

// ============================================================================
// FILTERS — Column-based row filtering
// ============================================================================
// Single pass: every column constraint is checked per row.
// Returns a SubTable (index list into parent), no data copy.
// ============================================================================

// Filters select rows by column value.
// Keys are column names. Values are allowed values.
// OR within a column, AND across columns. Empty = all rows.
type Filters struct {
	Columns map[string][]string `json:"columns" yaml:"columns"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Columns {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns the rows of t matching all column filters.
// Matching is case-insensitive; numeric columns match on their formatted
// value. An empty filter returns t itself.
func ApplyFilters(t Table, filters Filters) Table {
	if filters.IsEmpty() {
		return t
	}

	sets := make(map[string]map[string]bool)
	for col, allowed := range filters.Columns {
		if len(allowed) > 0 {
			sets[col] = toLowerSet(allowed)
		}
	}

	n := t.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for col, set := range sets {
			if !set[strings.ToLower(Category(t, i, col))] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return NewSubTable(t, indices)
}

func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
