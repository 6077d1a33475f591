// Package helpers loads tabular data into table.Table from CSV bytes and
// SQLite queries.
package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/charts/schema"
	"github.com/spektr-org/charts/table"
)

// ============================================================================
// CSV HELPER — Parses CSV data into a table.Table
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// This helper converts the raw bytes into Records using the schema:
// dimensions keep the trimmed cell text, measures are parsed as numbers.
// A column listed as both (a coded numeric column) lands in both maps.
// ============================================================================

// ParseCSV parses CSV bytes into a table using sch for classification.
// Columns the schema does not name are dropped. Malformed rows are skipped;
// a measure cell that does not parse is left out of its record (reads as 0).
func ParseCSV(data []byte, sch schema.Config) (*table.SliceTable, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	dimSet := make(map[string]bool)
	for _, d := range sch.Dimensions {
		dimSet[d.Key] = true
	}
	measSet := make(map[string]bool)
	for _, m := range sch.Measures {
		measSet[m.Key] = true
	}

	type colMapping struct {
		key         string
		isDimension bool
		isMeasure   bool
	}
	mappings := make([]colMapping, len(headers))
	for i, h := range headers {
		key := schema.ColumnKey(h)
		mappings[i] = colMapping{key: key, isDimension: dimSet[key], isMeasure: measSet[key]}
	}

	var records []table.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		rec := table.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}
		for i, val := range row {
			if i >= len(mappings) {
				break
			}
			m := mappings[i]
			val = strings.TrimSpace(val)

			if m.isDimension {
				rec.Dimensions[m.key] = val
			}
			if m.isMeasure && !schema.IsNull(val) {
				if f, ok := schema.ParseNumber(val); ok {
					rec.Measures[m.key] = f
				}
			}
		}
		records = append(records, rec)
	}

	return table.NewSliceTable(records), nil
}

// ParseCSVAuto discovers a schema from the data, then parses with it.
// Returns both the table and the discovered schema so consumers can show
// what was inferred.
func ParseCSVAuto(data []byte) (*table.SliceTable, *schema.Config, error) {
	sch, err := schema.DiscoverFromCSV(data)
	if err != nil {
		return nil, nil, err
	}
	t, err := ParseCSV(data, *sch)
	if err != nil {
		return nil, nil, err
	}
	return t, sch, nil
}
