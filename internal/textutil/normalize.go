package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for similarity comparison: NFC normalization,
// lowercasing, punctuation and symbol stripping, whitespace collapsing.
//
// Stripping is category-based rather than an ASCII character class so that
// CJK and Hangul text survives intact. Korean in particular arrives in NFD
// form from some transcription backends, which is why NFC runs first.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation, symbols, and marks drop out.
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeWord normalizes a single token for word-level matching.
func NormalizeWord(s string) string {
	return Normalize(s)
}
