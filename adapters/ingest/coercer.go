package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"edanalyzer/domain/tabular"
	"edanalyzer/internal/config"
)

// Coercer converts raw cell strings into typed values and infers column
// types from parse-success ratios.
type Coercer struct {
	cfg config.IngestConfig
}

// NewCoercer creates a coercer with the given thresholds
func NewCoercer(cfg config.IngestConfig) *Coercer {
	return &Coercer{cfg: cfg}
}

// missingMarkers are cell texts treated as missing regardless of column type
var missingMarkers = map[string]struct{}{
	"":      {},
	"na":    {},
	"n/a":   {},
	"nan":   {},
	"null":  {},
	"none":  {},
	"-":     {},
	"#n/a":  {},
	"#null": {},
}

// IsMissingToken reports whether a raw cell counts as a missing value
func IsMissingToken(raw string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// timestampFormats are tried in order when parsing datetime cells
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// TypeCounts tallies how many cells of a column parse as each type
type TypeCounts struct {
	Total     int
	Missing   int
	Numeric   int
	Boolean   int
	Timestamp int
	Distinct  int
}

// valid returns the number of non-missing cells
func (tc TypeCounts) valid() int {
	return tc.Total - tc.Missing
}

// Analyze inspects all raw cells of a column and tallies parse outcomes
func (c *Coercer) Analyze(raw []string) TypeCounts {
	counts := TypeCounts{Total: len(raw)}
	distinct := make(map[string]struct{})
	for _, cell := range raw {
		if IsMissingToken(cell) {
			counts.Missing++
			continue
		}
		trimmed := strings.TrimSpace(cell)
		distinct[trimmed] = struct{}{}
		if _, ok := ParseNumeric(trimmed); ok {
			counts.Numeric++
		}
		if _, ok := ParseBoolean(trimmed); ok {
			counts.Boolean++
		}
		if _, ok := ParseTimestamp(trimmed); ok {
			counts.Timestamp++
		}
	}
	counts.Distinct = len(distinct)
	return counts
}

// InferType picks the semantic column type from parse tallies. Booleans are
// checked first (their token set is disjoint from numbers), then numerics,
// then timestamps; everything else splits into categorical vs free text by
// cardinality ratio.
func (c *Coercer) InferType(counts TypeCounts) tabular.ColumnType {
	valid := counts.valid()
	if valid == 0 {
		return tabular.TypeText
	}
	boolRatio := float64(counts.Boolean) / float64(valid)
	numRatio := float64(counts.Numeric) / float64(valid)
	tsRatio := float64(counts.Timestamp) / float64(valid)

	switch {
	case boolRatio >= c.cfg.BooleanThreshold:
		return tabular.TypeBoolean
	case numRatio >= c.cfg.NumericThreshold:
		return tabular.TypeNumeric
	case tsRatio >= c.cfg.TimestampThreshold:
		return tabular.TypeDatetime
	}

	uniqueRatio := float64(counts.Distinct) / float64(valid)
	if uniqueRatio <= c.cfg.CategoricalUniqueRatio {
		return tabular.TypeCategorical
	}
	return tabular.TypeText
}

// Coerce converts a raw cell into a typed value for the given column type.
// Cells that fail to parse for the target type become missing values.
func (c *Coercer) Coerce(raw string, colType tabular.ColumnType) tabular.Value {
	if IsMissingToken(raw) {
		return tabular.NewMissingValue()
	}
	trimmed := strings.TrimSpace(raw)

	switch colType {
	case tabular.TypeNumeric:
		if n, ok := ParseNumeric(trimmed); ok {
			return tabular.NewNumericValue(n)
		}
		return tabular.NewMissingValue()
	case tabular.TypeBoolean:
		if b, ok := ParseBoolean(trimmed); ok {
			return tabular.NewBooleanValue(b)
		}
		return tabular.NewMissingValue()
	case tabular.TypeDatetime:
		if t, ok := ParseTimestamp(trimmed); ok {
			return tabular.NewTimestampValue(t)
		}
		return tabular.NewMissingValue()
	default:
		return tabular.NewStringValue(trimmed)
	}
}

// ParseNumeric attempts to parse a cell as a number. Handles currency
// symbols, percent signs, thousands separators and parenthesized negatives.
func ParseNumeric(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	clean := strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		clean = strings.ReplaceAll(clean, symbol, "")
	}
	clean = strings.TrimSpace(clean)

	// Commas are only stripped as thousands separators when a decimal point
	// is present or the grouping is unambiguous
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	if negative {
		clean = "-" + clean
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseBoolean attempts to parse a cell as a boolean. Bare "1"/"0" are
// deliberately excluded so integer flag columns stay numeric.
func ParseBoolean(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "on":
		return true, true
	case "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

// ParseTimestamp attempts to parse a cell as a datetime using common formats
func ParseTimestamp(s string) (time.Time, bool) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
