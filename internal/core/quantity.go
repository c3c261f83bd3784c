// Package core holds the catalog and progress domain model: the three-level
// master-data hierarchy, project task baselines, weekly progress records, and
// the error taxonomy shared by every layer above.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseQuantity converts a decimal string into a non-negative quantity.
//
// It accepts both dot (12.5) and comma (12,5) decimal separators; untrusted
// report payloads carry numbers in either form depending on the submitting
// locale. Zero is valid. Negative values and malformed strings are rejected.
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "quantity", Reason: "must not be empty"}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, &ValidationError{Field: "quantity", Reason: "must be an unsigned decimal"}
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, &ValidationError{Field: "quantity", Reason: "malformed decimal"}
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return 0, &ValidationError{Field: "quantity", Reason: "malformed decimal"}
			}
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Field: "quantity", Reason: "malformed decimal"}
	}
	return v, nil
}

// CoerceQuantity reads a quantity out of loosely typed JSON. Non-numeric and
// missing values coerce to zero; this is the lenient half of progress intake,
// negatives are still rejected later by validation.
func CoerceQuantity(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		q, err := ParseQuantity(val)
		if err != nil {
			return 0
		}
		return q
	default:
		return 0
	}
}
