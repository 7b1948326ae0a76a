package normalizer

import (
	"regexp"
	"strings"
)

// asinPatterns are ordered most-specific to least-specific; the first
// match wins.
var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/product-reviews/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/gp/aw/d/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)dp=([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)asin=([A-Z0-9]{10})`),
}

var asinShape = regexp.MustCompile(`(?i)^[A-Z0-9]{10}$`)

// AmazonProductID extracts the ASIN from an Amazon product URL,
// uppercased. When no pattern matches, the last path segment is accepted
// if it has the 10-character alphanumeric shape. Returns "" when nothing
// matches.
func AmazonProductID(url string) string {
	for _, p := range asinPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return strings.ToUpper(m[1])
		}
	}

	path := url
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if asinShape.MatchString(last) {
		return strings.ToUpper(last)
	}

	return ""
}
