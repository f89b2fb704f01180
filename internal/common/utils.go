package common

import (
	"strconv"
	"strings"
)

// HasAnyFold reports whether s contains any of the substrings, ignoring case.
func HasAnyFold(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// FormatNumber renders v with the fewest digits that round-trip, so 20 prints
// as "20" and 20.5 as "20.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
