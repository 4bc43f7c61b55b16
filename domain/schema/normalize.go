package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize reduces a header or value string to its comparable key:
// lower-case, diacritics folded, everything outside [a-z0-9] removed.
// It is total over any input; empty input yields the empty key. Both
// sides of every fuzzy comparison in this module go through Normalize;
// a normalized key must never be compared to a raw string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// NFD decomposition splits characters like 'é' into 'e' plus a
	// combining accent, which the alnum filter below drops.
	decomposed := norm.NFD.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
