// Package validation collects form field violations as i18n codes.
package validation

import (
	"math"
	"strconv"
	"strings"
)

// Violations maps a form field to an i18n message code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLen(field, value string, n int, v Violations) {
	if len(value) > n {
		v[field] = "too_long"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

// Float parses a decimal form value. Comma decimal separators are accepted.
// On failure the field is flagged and 0 is returned.
func Float(field, value string, v Violations) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if s == "" {
		v[field] = "required"
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		v[field] = "must_be_number"
		return 0
	}
	return f
}
