package fingerprint

import "strings"

// Shingle sizes used by the engine.
const (
	FingerprintSize = 3
	PhraseSize      = 5
)

// Set is an immutable-by-convention set of shingles.
type Set map[string]struct{}

// Has reports whether s contains shingle.
func (s Set) Has(shingle string) bool {
	_, ok := s[shingle]
	return ok
}

// Len returns the number of shingles.
func (s Set) Len() int {
	return len(s)
}

// Shingles normalizes text and returns every window of n consecutive words,
// space-joined. Windows overlap by n-1 words. Fewer than n words yields an empty set.
func Shingles(text string, n int) Set {
	return shinglesOf(Words(text), n)
}

// Fingerprint returns the 3-word shingle set of text.
func Fingerprint(text string) Set {
	return Shingles(text, FingerprintSize)
}

func shinglesOf(words []string, n int) Set {
	if n <= 0 || len(words) < n {
		return Set{}
	}
	set := make(Set, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		set[strings.Join(words[i:i+n], " ")] = struct{}{}
	}
	return set
}
