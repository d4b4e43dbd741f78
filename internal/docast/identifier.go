package docast

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeIdentifier derives a slug-safe identifier from an author-written
// label. Accented characters are decomposed and stripped of combining marks,
// everything outside [a-z0-9] collapses to single dashes.
func NormalizeIdentifier(label string) string {
	decomposed := norm.NFKD.String(label)

	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
