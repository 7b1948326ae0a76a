// Package normalizer converts raw upstream strings into canonical typed
// values. All functions are pure and never fail: unparsable input yields
// the zero result, and the caller decides what to log.
package normalizer

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"
)

const canonicalDateLayout = "2006-01-02"

// isoPrefix matches a leading YYYY-MM-DD, as found in plain ISO dates and
// ISO timestamps.
var isoPrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// longDateSuffix extracts the core date from strings like
// "Reviewed in the United States on September 18, 2024".
var longDateSuffix = regexp.MustCompile(`(\w+ \d{1,2}, \d{4})$`)

// dateLayouts are explicit formats tried in order after the ISO prefix.
// DD/MM/YYYY is tried before MM/DD/YYYY, matching upstream convention.
var dateLayouts = []string{
	"January 2, 2006",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
}

// ReviewDate normalizes free-form upstream date text to YYYY-MM-DD.
// It tries an ISO-prefix extraction, then the explicit layout list, then a
// permissive fallback parser; the first successful parse wins. Normalizing
// an already-canonical date returns it unchanged. The second return value
// is false when no parse succeeded.
func ReviewDate(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	if m := isoPrefix.FindStringSubmatch(raw); m != nil {
		if t, err := time.Parse(canonicalDateLayout, m[1]); err == nil {
			return t.Format(canonicalDateLayout), true
		}
	}

	datePart := raw
	if m := longDateSuffix.FindStringSubmatch(raw); m != nil {
		datePart = m[1]
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, datePart); err == nil {
			return t.Format(canonicalDateLayout), true
		}
	}

	if t, err := dateparse.ParseAny(datePart); err == nil {
		return t.Format(canonicalDateLayout), true
	}

	return "", false
}
