package boilerplate

import "regexp"

// fillerPatterns match phrases that repeat across any marketing site and say nothing
// about the page itself. Input is always normalized text.
var fillerPatterns = []*regexp.Regexp{
	// leading article, conjunction, or preposition
	regexp.MustCompile(`^(the|a|an|and|or|but|of|to|in|for|with|on|at|by|from) `),
	// embedded conjunction followed by an article
	regexp.MustCompile(`\b(and|or|but) (the|a|an)\b`),
	// generic call-to-action openers
	regexp.MustCompile(`^we (are|have|provide|offer)\b`),
	regexp.MustCompile(`^our (team|teams|service|services|company)\b`),
	regexp.MustCompile(`\bcontact us\b`),
	regexp.MustCompile(`\bfree (quote|quotes)\b`),
}

// IsFiller reports whether a normalized phrase is generic filler that should never be
// reported as boilerplate.
func IsFiller(phrase string) bool {
	for _, re := range fillerPatterns {
		if re.MatchString(phrase) {
			return true
		}
	}
	return false
}
