package check

import (
	"strings"
	"unicode"
)

// Identifier derives the item key expected for a display name: lowercase,
// each run of characters that are neither letters nor digits collapsed to a
// single underscore, with leading and trailing underscores trimmed.
func Identifier(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pending := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}

	return b.String()
}
