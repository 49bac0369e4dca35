package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Collapse trims a string and squashes inner runs of whitespace to a single space.
func Collapse(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ContainsAny reports whether the lowercased value contains any of the keywords.
// Keywords are expected to be lowercase already.
func ContainsAny(value string, keywords []string) bool {
	value = strings.ToLower(value)
	for _, k := range keywords {
		if strings.Contains(value, k) {
			return true
		}
	}
	return false
}

func HasSuffixAny(value string, suffixes []string) bool {
	value = strings.ToLower(value)
	for _, s := range suffixes {
		if strings.HasSuffix(value, s) {
			return true
		}
	}
	return false
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// Title upper-cases every cased rune that follows an uncased one and lower-cases
// the rest, so "o'brien" becomes "O'Brien" and "SYMPHONY no.5" becomes
// "Symphony No.5".
func Title(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	prevCased := false
	for _, r := range s {
		if !isCased(r) {
			out.WriteRune(r)
			prevCased = false
			continue
		}
		if prevCased {
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(unicode.ToTitle(r))
		}
		prevCased = true
	}
	return out.String()
}
