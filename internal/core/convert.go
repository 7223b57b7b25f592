package core

// convert.go holds the value-level rules shared by type inference and facet
// ordering:
//   - what counts as a numeric cell
//   - how a numeric cell is parsed for comparison
//   - how a column key is turned into a display label
//
// None of these consult locale or environment.

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numericRegex validates that a string is a plain decimal or scientific number.
// Hex, "Inf" and "NaN" do not match.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// InferenceSampleSize is the number of non-empty values inspected per column.
const InferenceSampleSize = 100

// NumericThreshold is the minimum share of numeric samples for KindNumber.
const NumericThreshold = 0.8

// IsNumeric reports whether s, after trimming, is a valid number.
func IsNumeric(s string) bool {
	return numericRegex.MatchString(strings.TrimSpace(s))
}

// parseNumber parses a cell for numeric ordering.
// ok is false for empty or non-numeric cells.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range values still match the pattern; ParseFloat returns ±Inf
		// with ErrRange, which orders correctly.
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// InferKind classifies a column from its values.
// It samples the first InferenceSampleSize non-empty values; the column is
// KindNumber when at least NumericThreshold of the sample is numeric.
// A column with no non-empty values is KindText.
func InferKind(values []string) Kind {
	sampled, numeric := 0, 0
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		sampled++
		if IsNumeric(v) {
			numeric++
		}
		if sampled == InferenceSampleSize {
			break
		}
	}

	if sampled == 0 {
		return KindText
	}
	if float64(numeric)/float64(sampled) >= NumericThreshold {
		return KindNumber
	}
	return KindText
}

// FormatLabel converts a column key to a readable label.
//
//	"orderDate"   -> "Order Date"
//	"unit_price"  -> "Unit Price"
//	"id"          -> "Id"
func FormatLabel(key string) string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for _, r := range strings.TrimSpace(key) {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && len(cur) > 0 && !unicode.IsUpper(cur[len(cur)-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()

	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
