package shared

import (
	"regexp"
	"strings"
	"unicode"
)

var nonSlugChars = regexp.MustCompile(`[^A-Za-z0-9-]`)

// Slugify replaces whitespace runs in s with "-" and strips every other character that is not an ASCII letter, digit, or "-".
//
// Whitespace is any Unicode space, so non-breaking and ideographic spaces separate words too.
// An empty or all-punctuation title yields "".
func Slugify(s string) string {
	s = strings.Join(strings.FieldsFunc(s, unicode.IsSpace), "-")
	return nonSlugChars.ReplaceAllString(s, "")
}
