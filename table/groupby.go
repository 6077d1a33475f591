package table

import (
	"fmt"
	"strings"
)

// ============================================================================
// GROUPBY — Partition rows by the values of one or more columns
// ============================================================================
// Groups come out in first-appearance order of their key in the table, so
// callers get a deterministic order without sorting.
// An empty column name is an unset grouping slot: every row shares "".
// ============================================================================

// Group is a set of rows sharing the same values for the grouping columns.
type Group struct {
	// Key holds one value per grouping column, in column order.
	Key []string

	// Rows is the subset of the grouped table belonging to this group.
	Rows Table
}

// GroupBy partitions t by the given columns.
func GroupBy(t Table, columns ...string) ([]Group, error) {
	for _, col := range columns {
		if col != "" && !HasColumn(t, col) {
			return nil, fmt.Errorf("group by %q: %w", col, ErrUnknownColumn)
		}
	}

	grouped := make(map[string][]int)
	keys := make(map[string][]string)
	order := make([]string, 0)

	for i := 0; i < t.Len(); i++ {
		key := make([]string, len(columns))
		for c, col := range columns {
			if col != "" {
				key[c] = Category(t, i, col)
			}
		}
		id := strings.Join(key, "\x00")
		if _, exists := grouped[id]; !exists {
			order = append(order, id)
			keys[id] = key
		}
		grouped[id] = append(grouped[id], i)
	}

	groups := make([]Group, 0, len(order))
	for _, id := range order {
		groups = append(groups, Group{
			Key:  keys[id],
			Rows: NewSubTable(t, grouped[id]),
		})
	}
	return groups, nil
}

// Distinct returns the distinct grouping values of column in first-appearance
// order.
func Distinct(t Table, column string) ([]string, error) {
	if !HasColumn(t, column) {
		return nil, fmt.Errorf("distinct %q: %w", column, ErrUnknownColumn)
	}
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < t.Len(); i++ {
		v := Category(t, i, column)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}
