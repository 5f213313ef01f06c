package textutil

import "testing"

func TestPrefixSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"a", "hello world", "1920년대 비엔나"} {
		if got := PrefixSimilarity(s, s); got != 1.0 {
			t.Errorf("PrefixSimilarity(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestPrefixSimilarityEmpty(t *testing.T) {
	if got := PrefixSimilarity("a", ""); got != 0 {
		t.Errorf("similarity against empty = %v, want 0", got)
	}
	if got := PrefixSimilarity("", "a"); got != 0 {
		t.Errorf("similarity from empty = %v, want 0", got)
	}
	if got := PrefixSimilarity("", ""); got != 0 {
		t.Errorf("similarity of two empties = %v, want 0", got)
	}
}

func TestPrefixSimilarityContainment(t *testing.T) {
	got := PrefixSimilarity("1920년대 비엔나", "1920년대 비엔나에서")
	if got != 0.9 {
		t.Fatalf("containment should score 0.9, got %v", got)
	}
	if PrefixSimilarity("world", "hello world today") != 0.9 {
		t.Fatal("substring containment should score 0.9 in either direction")
	}
}

func TestPrefixSimilarityLeadingRunes(t *testing.T) {
	// "hello there" vs "hello again": 6 leading runes match ("hello "),
	// longer string has 11 runes.
	got := PrefixSimilarity("hello there", "hello again")
	want := 6.0 / 11.0
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPrefixSimilarityDisjoint(t *testing.T) {
	if got := PrefixSimilarity("alpha", "zulu"); got != 0 {
		t.Fatalf("no shared prefix and no containment should score 0, got %v", got)
	}
}

func TestPrefixSimilarityCountsRunesNotBytes(t *testing.T) {
	// Two 3-rune Korean strings sharing the first two runes. Byte-based
	// counting would inflate both the match and the length.
	got := PrefixSimilarity("비엔나", "비엔쪽")
	want := 2.0 / 3.0
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
