package normalizer

import (
	"strconv"
	"strings"
)

// Price parses a raw price string like "$1,204.00" into a decimal value.
// Currency symbols, thousands separators and whitespace are stripped
// before parsing. Non-numeric or empty input yields (0, false).
func Price(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// Rating parses an upstream star-rating string into a float constrained to
// [1.0, 5.0]. Out-of-range or unparsable input yields (0, false).
func Rating(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}

	if v < 1.0 || v > 5.0 {
		return 0, false
	}

	return v, true
}
