// Package convert holds the locale and format conversions shared by the
// normalizer, envelope builder and classifier. Every function is total: bad
// input maps to a defined fallback value, never to an error or panic.
package convert

import (
	"math"
	"strconv"
	"strings"
)

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToDecimal parses a decimal in either dot-decimal or comma-decimal notation.
// When a comma is present, every dot is treated as a thousands separator and
// removed, then the comma becomes the decimal point ("1.234,56" -> 1234.56).
// The second return is false when the value is unparsable.
func ToDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// DecimalOrZero is ToDecimal with 0 as the fallback for unparsable input.
func DecimalOrZero(s string) float64 {
	n, ok := ToDecimal(s)
	if !ok {
		return 0
	}
	return n
}

// FormatFixed renders n with exactly places fractional digits using a dot as
// the decimal separator, which is the wire format.
func FormatFixed(n float64, places int) string {
	return strconv.FormatFloat(n, 'f', places, 64)
}

// FormatFixedPtr is FormatFixed for optional values; absent input renders as
// an empty string.
func FormatFixedPtr(n *float64, places int) string {
	if n == nil {
		return ""
	}
	return FormatFixed(*n, places)
}

// Round rounds n to the given number of fractional digits.
func Round(n float64, places int) float64 {
	pow := math.Pow10(places)
	return math.Round(n*pow) / pow
}

// PadDocument normalizes a tax-identification number: non-digits are stripped
// and an 11-digit short-form number is left-padded with zeros to the 14-digit
// long form. Any other length, including empty, passes through unchanged.
func PadDocument(doc string) string {
	d := DigitsOnly(doc)
	if len(d) == 11 {
		return strings.Repeat("0", 14-len(d)) + d
	}
	return d
}
