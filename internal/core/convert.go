package core

// convert.go turns raw text fields into typed cell values and back.
//
// Import applies a dynamic typing pass so numeric-looking fields become
// numbers and literal booleans become bools. Display is the inverse used by
// rendering, searching and export.

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// numericRegex validates that a string looks like a plain decimal number.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?$`)

// maxSafeInteger bounds the numbers that survive dynamic typing. Larger
// values (long ids, card numbers) keep their text form so no digits are lost.
const maxSafeInteger = 1<<53 - 1

// ParseValue applies dynamic typing to a raw text field.
//
//	""              -> nil
//	"true", "TRUE"  -> true
//	"false","FALSE" -> false
//	"30", "-1.5e3"  -> float64
//	anything else   -> the string unchanged
func ParseValue(s string) Value {
	switch s {
	case "":
		return nil
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}

	trimmed := strings.TrimSpace(s)
	if numericRegex.MatchString(trimmed) {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err == nil && f > -maxSafeInteger && f < maxSafeInteger {
			return f
		}
	}
	return s
}

// Display renders a value as cell text. nil renders as the empty string,
// numbers in their shortest form.
func Display(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return cast.ToString(v)
	}
}

// toNumber coerces a value for mixed-type comparison. It reports false when
// the value has no numeric reading.
func toNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case float64:
		return val, !math.IsNaN(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, true
		}
		if !numericRegex.MatchString(strings.TrimPrefix(s, "+")) {
			return 0, false
		}
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	}
}
