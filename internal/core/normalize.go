package core

import (
	"strings"
	"unicode"
)

// allowedLetters are the accented characters kept by Normalize in addition
// to [a-z0-9 ]. The knowledge bases this engine serves are authored in
// Spanish, so the Spanish letter set is part of the comparison key.
var allowedLetters = map[rune]bool{
	'á': true, 'é': true, 'í': true, 'ó': true, 'ú': true, 'ü': true, 'ñ': true,
}

// Normalize canonicalizes free text into a comparison key: lower-cased,
// stripped of characters outside [a-z0-9 ] plus the Spanish letter set, with
// whitespace runs collapsed to single spaces and no leading/trailing space.
// Stripping happens before collapsing so the function is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', allowedLetters[r]:
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
