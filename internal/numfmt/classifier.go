// Package numfmt classifies a worksheet cell's number-format string into the
// FormatCategory that decides how the cell aggregates.
package numfmt

import (
	"strings"

	"github.com/ozwilder/xlconsolidate/internal/model"
)

// currencyGlyphs are the symbols the classifier and the coercer both
// recognize, carried verbatim from the original Excel-Consolidator's
// currency handling (src/core/main.py, web_version/services/consolidator.py).
var currencyGlyphs = []string{"$", "€", "£", "¥", "₽", "₹", "₩", "₪", "₦", "₡", "₨", "₫", "₱"}

var currencyWords = []string{"currency", "money", "dollar", "euro", "pound", "yen"}

var numberPatterns = []string{"0", "0.0", "0.00", "#,##0", "#,##0.00"}

var numberWords = []string{"general", "number", "numeric", "decimal", "standard"}

var dateWords = []string{"date", "time", "datetime", "timestamp"}

var datePatternSubstrings = []string{"mm/dd/yyyy", "yyyy-mm-dd", "m/d/yy", "mm-dd-yy", "dd/mm/yyyy"}

// Classify applies a fixed set of ordered rules to a raw number-format
// string and returns the resulting category. The empty string classifies as
// Other — a template cell with no explicit format carries no aggregation
// preference stronger than the Sum default.
func Classify(format string) model.FormatCategory {
	trimmed := strings.TrimSpace(format)
	lower := strings.ToLower(trimmed)

	// Rule 1: percentage. A locale prefix (e.g. "[$-409]0.00%") still
	// contains the literal '%' so a plain substring check suffices.
	if strings.Contains(trimmed, "%") {
		return model.Percentage
	}

	// Rule 2: currency.
	for _, glyph := range currencyGlyphs {
		if strings.Contains(trimmed, glyph) {
			return model.Currency
		}
	}
	for _, word := range currencyWords {
		if strings.Contains(lower, word) {
			return model.Currency
		}
	}

	// Rule 3: number.
	for _, pat := range numberPatterns {
		if containsNumberPattern(lower, pat) {
			return model.Number
		}
	}
	for _, word := range numberWords {
		if strings.Contains(lower, word) {
			return model.Number
		}
	}

	// Rule 4: date/time.
	for _, sub := range datePatternSubstrings {
		if strings.Contains(lower, sub) {
			return model.Date
		}
	}
	for _, word := range dateWords {
		if strings.Contains(lower, word) {
			return model.Date
		}
	}

	return model.Other
}

// containsNumberPattern matches a numeric pattern token and its
// longer-decimal variants (e.g. "0.00" also matches "0.000", "#,##0.00"
// also matches "#,##0.0000").
func containsNumberPattern(lower, pattern string) bool {
	if strings.Contains(lower, pattern) {
		return true
	}
	// Longer-decimal variant: same integer part, more trailing zeros.
	if idx := strings.Index(pattern, "."); idx >= 0 {
		prefix := pattern[:idx+1]
		if strings.Contains(lower, prefix) {
			rest := afterFirst(lower, prefix)
			return rest != "" && isAllZeros(rest)
		}
	}
	return false
}

func afterFirst(s, sub string) string {
	idx := strings.Index(s, sub)
	if idx < 0 {
		return ""
	}
	start := idx + len(sub)
	end := start
	for end < len(s) && s[end] == '0' {
		end++
	}
	return s[start:end]
}

func isAllZeros(s string) bool {
	for _, r := range s {
		if r != '0' {
			return false
		}
	}
	return len(s) > 0
}
