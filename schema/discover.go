package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column classification
// ============================================================================
// Inspects raw CSV and generates a schema.Config automatically.
//
// Classification pipeline per column:
//   1. Sample values → detect type (numeric, date, bool, string)
//   2. Type + cardinality → classify role (measure, dimension, both, skip)
//   3. Pattern matching → detect temporal strings ("Jan-2026", "Q1 2026")
//
// Numeric columns are always measures. Integer columns with few distinct
// values are dimensions as well, so "cylinders" can color a scatter.
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped
	Name           string   // Dataset name override (otherwise inferred)
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for len(rows) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	recoverSet := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recoverSet[strings.ToLower(col)] = true
		recoverSet[ColumnKey(col)] = true
	}

	config := &Config{Name: opt.Name}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	for i, header := range headers {
		col := analyzeColumn(header, i, rows)
		if col.skipReason != "" && (recoverSet[strings.ToLower(col.header)] || recoverSet[col.key]) {
			col.recover()
		}

		if col.measure {
			config.Measures = append(config.Measures, col.toMeasure())
		}
		if col.dimension {
			config.Dimensions = append(config.Dimensions, col.toDimension())
		}
		if col.skipReason != "" {
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column:      col.header,
				Reason:      col.skipReason,
				Recoverable: col.recoverable,
			})
		}
	}

	config.DiscoveredFrom = "CSV"
	config.DiscoveredAt = time.Now().Format(time.RFC3339)
	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	header  string
	key     string
	colType columnType

	measure     bool
	dimension   bool
	skipReason  string
	recoverable bool

	// Stats
	uniqueCount int
	totalCount  int
	sampleVals  []string
	min, max    float64
	hasDecimals bool
	sequential  bool

	isTemporal      bool
	cardinalityHint string
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{
		header:     header,
		key:        ColumnKey(header),
		totalCount: len(rows),
		min:        math.Inf(1),
		max:        math.Inf(-1),
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) || IsNull(row[index]) {
			continue
		}
		val := strings.TrimSpace(row[index])
		values = append(values, val)
		uniqueSet[val] = true
	}
	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.skipReason = "All values are empty/null"
		return col
	}
	col.sampleVals = collectSamples(uniqueSet, 10)

	col.colType = detectType(values)
	if col.colType == typeNumeric {
		col.numericStats(values)
	}
	if col.colType == typeString {
		col.isTemporal = detectTemporalPattern(col.sampleVals)
	}
	if col.colType == typeDate {
		col.isTemporal = true
	}

	col.classifyRole()

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}
	return col
}

// numericStats records range, decimals and whether the values count up by
// one in row order.
func (col *columnAnalysis) numericStats(values []string) {
	col.sequential = len(values) > 1
	prev := math.NaN()
	for _, v := range values {
		f, ok := ParseNumber(v)
		if !ok {
			col.sequential = false
			continue
		}
		if strings.Contains(v, ".") {
			col.hasDecimals = true
		}
		col.min = math.Min(col.min, f)
		col.max = math.Max(col.max, f)
		if !math.IsNaN(prev) && f != prev+1 {
			col.sequential = false
		}
		prev = f
	}
	if math.IsInf(col.min, 1) {
		col.min, col.max = 0, 0
	}
}

// classifyRole determines measure, dimension or skip.
func (col *columnAnalysis) classifyRole() {
	total := col.totalCount

	switch col.colType {
	case typeNumeric:
		if col.sequential && !col.hasDecimals && col.uniqueCount == total && total > 10 {
			col.skipReason = "Sequential integers — likely a row ID"
			col.recoverable = true
			return
		}
		col.measure = true
		// Few distinct integers → also a coded dimension (e.g. cylinders 4/6/8).
		// The ratio keeps small datasets from looking low-cardinality.
		ratio := float64(col.uniqueCount) / float64(total)
		if !col.hasDecimals && col.uniqueCount < 20 && ratio < 0.3 {
			col.dimension = true
		}

	case typeDate, typeBool:
		col.dimension = true

	case typeString:
		if col.uniqueCount == total && total > 10 {
			col.skipReason = "Unique per row — likely an identifier"
			col.recoverable = true
			return
		}
		if col.uniqueCount > total/2 && col.uniqueCount > 50 {
			col.skipReason = fmt.Sprintf("High cardinality (%d unique values) — not useful for grouping", col.uniqueCount)
			col.recoverable = true
			return
		}
		col.dimension = true
	}
}

// recover force-includes a skipped column.
func (col *columnAnalysis) recover() {
	if col.sampleVals == nil {
		return
	}
	col.skipReason = ""
	if col.colType == typeNumeric {
		col.measure = true
		return
	}
	col.dimension = true
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType inspects values to determine column type.
// Requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) columnType {
	if len(values) == 0 {
		return typeString
	}

	numCount, dateCount, boolCount := 0, 0, 0
	for _, v := range values {
		if _, ok := ParseNumber(v); ok {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold == 0 {
		threshold = 1
	}

	// Bool words only; 0/1 columns stay numeric
	if boolCount >= threshold && numCount < threshold {
		return typeBool
	}
	if dateCount >= threshold && numCount < threshold {
		return typeDate
	}
	if numCount >= threshold {
		return typeNumeric
	}
	return typeString
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

var temporalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`), // Jan-2026
	regexp.MustCompile(`^\d{4}-\d{2}$`),         // 2026-01
	regexp.MustCompile(`^Q[1-4]-\d{4}$`),        // Q1-2026
	regexp.MustCompile(`^Q[1-4]\s+\d{4}$`),      // Q1 2026
	regexp.MustCompile(`^[A-Z][a-z]+ \d{4}$`),   // January 2026
}

// detectTemporalPattern checks if values match known month/quarter patterns.
func detectTemporalPattern(samples []string) bool {
	if len(samples) == 0 {
		return false
	}
	for _, re := range temporalPatterns {
		matches := 0
		for _, s := range samples {
			if re.MatchString(strings.TrimSpace(s)) {
				matches++
			}
		}
		if float64(matches)/float64(len(samples)) >= 0.8 {
			return true
		}
	}
	return false
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

func (col *columnAnalysis) toDimension() DimensionMeta {
	return DimensionMeta{
		Key:             col.key,
		DisplayName:     toDisplayName(col.header),
		SampleValues:    col.sampleVals,
		Cardinality:     col.uniqueCount,
		CardinalityHint: col.cardinalityHint,
		IsTemporal:      col.isTemporal,
		IsNumeric:       col.colType == typeNumeric,
	}
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	return MeasureMeta{
		Key:         col.key,
		DisplayName: toDisplayName(col.header),
		Min:         col.min,
		Max:         col.max,
		Continuous:  col.hasDecimals,
	}
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// ColumnKey converts a header to its column key:
// "Column Name" or "columnName" → "column_name".
func ColumnKey(s string) string {
	s = strings.TrimSpace(s)

	var result strings.Builder
	var prev rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = strings.ToLower(result.String())
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "assignee" → "Assignee"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if w == strings.ToUpper(w) {
			continue // acronyms stay as written
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
