package normalizer

import (
	"regexp"
	"strconv"
)

var firstInteger = regexp.MustCompile(`\d+`)

// HelpfulVotes extracts the first integer from free text like
// "93 people found this helpful". Text without a digit yields 0.
func HelpfulVotes(raw string) int {
	m := firstInteger.FindString(raw)
	if m == "" {
		return 0
	}

	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}

	return n
}
