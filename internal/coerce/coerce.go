// Package coerce implements the NumericCoercer: converting a heterogeneous
// worksheet cell value into a normalized decimal under a declared
// FormatCategory.
package coerce

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ozwilder/xlconsolidate/internal/model"
)

// Error is returned when a non-empty cell value cannot be parsed as a
// number under its declared category. Callers wrap it into a CoerceError
// carrying the cell reference.
type Error struct {
	Raw      string
	Category model.FormatCategory
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot coerce %q as %s", e.Raw, e.Category)
}

var currencyGlyphs = []string{"$", "€", "£", "¥", "₽", "₹", "₩", "₪", "₦", "₡", "₨", "₫", "₱"}

// Input is a single cell's raw value as read off a workbook, together with
// whether the workbook stored it as a native numeric type (as opposed to a
// string/inline-string/shared-string cell).
type Input struct {
	Raw       string
	IsNumeric bool
}

// Coerce converts in into a Decimal under the given category. A nil error
// and the zero Decimal with ok=false means the value was blank (skip, not a
// failure). A non-nil error means the value was non-empty text that could
// not be parsed. Under Other, text that parses neither as a number nor as a
// percentage also yields ok=false with a nil error.
func Coerce(in Input, category model.FormatCategory) (decimal.Decimal, bool, error) {
	raw := strings.TrimSpace(in.Raw)
	if raw == "" {
		return decimal.Zero, false, nil
	}

	if in.IsNumeric {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, false, &Error{Raw: in.Raw, Category: category}
		}
		if category == model.Percentage {
			d = normalizePercent(d)
		}
		return d, true, nil
	}

	switch category {
	case model.Percentage:
		return coercePercentText(raw, category)
	case model.Currency:
		return coerceCurrencyText(raw, category)
	case model.Number:
		return coerceNumberText(raw, category)
	default:
		if d, ok, err := coerceNumberText(raw, category); err == nil && ok {
			return d, ok, nil
		}
		if d, ok, err := coercePercentText(raw, category); err == nil && ok {
			return d, ok, nil
		}
		return decimal.Zero, false, nil
	}
}

// normalizePercent applies the numeric percentage normalization rule: a
// value already expressed as a 0..1 fraction is treated as decimal and
// rescaled to percent points; anything else is assumed to already be
// percent points.
func normalizePercent(v decimal.Decimal) decimal.Decimal {
	zero := decimal.Zero
	one := decimal.NewFromInt(1)
	if v.GreaterThanOrEqual(zero) && v.LessThanOrEqual(one) {
		return v.Mul(decimal.NewFromInt(100))
	}
	return v
}

func coercePercentText(raw string, category model.FormatCategory) (decimal.Decimal, bool, error) {
	if strings.HasSuffix(raw, "%") {
		prefix := strings.TrimSpace(strings.TrimSuffix(raw, "%"))
		prefix = stripThousands(prefix)
		d, err := decimal.NewFromString(prefix)
		if err != nil {
			return decimal.Zero, false, &Error{Raw: raw, Category: category}
		}
		// Already percent points per the literal "82.5%" -> 82.5 example.
		return d, true, nil
	}
	cleaned := stripThousands(raw)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, &Error{Raw: raw, Category: category}
	}
	return normalizePercent(d), true, nil
}

func coerceCurrencyText(raw string, category model.FormatCategory) (decimal.Decimal, bool, error) {
	cleaned := raw
	for _, glyph := range currencyGlyphs {
		cleaned = strings.ReplaceAll(cleaned, glyph, "")
	}
	cleaned = stripThousands(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, &Error{Raw: raw, Category: category}
	}
	return d, true, nil
}

func coerceNumberText(raw string, category model.FormatCategory) (decimal.Decimal, bool, error) {
	cleaned := stripThousands(raw)
	cleaned = strings.TrimSpace(cleaned)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, &Error{Raw: raw, Category: category}
	}
	return d, true, nil
}

func stripThousands(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space
	return s
}
