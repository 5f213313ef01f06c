package textutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"punctuation stripped", "Hello, world! (really?)", "hello world really"},
		{"whitespace collapsed", "  a \t b\n\nc  ", "a b c"},
		{"korean preserved", "1920년대 비엔나에서,", "1920년대 비엔나에서"},
		{"cjk preserved", "新しい時代。", "新しい時代"},
		{"empty", "", ""},
		{"punctuation only", "?!...", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeComposesHangul(t *testing.T) {
	// Decomposed (NFD) and precomposed (NFC) forms of the same syllables
	// must normalize identically.
	decomposed := "비엔나" // 비엔나 in jamo
	composed := "비엔나"
	if Normalize(decomposed) != Normalize(composed) {
		t.Fatalf("NFD and NFC Hangul diverge: %q vs %q",
			Normalize(decomposed), Normalize(composed))
	}
}
