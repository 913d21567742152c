package match

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and drops separators, so "post_tag",
// "PostTag" and "post-tag" compare equal. A namespace or method
// separator is kept as a single ':'.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range strings.ReplaceAll(s, "::", ":") {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '\\' || r == '/' || unicode.IsSpace(r)
}
