package similarity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// punctFold removes the stray space questionnaire authors leave before
// punctuation ("Do you comply ?"). Applied after whitespace collapse, so a
// single leading space per mark is all that can occur.
var punctFold = strings.NewReplacer(
	" ,", ",",
	" .", ".",
	" ;", ";",
	" :", ":",
	" !", "!",
	" ?", "?",
)

// Normalize canonicalizes text for comparison: NFKC unicode normalization,
// lowercasing, whitespace collapsed to single spaces, outer whitespace
// trimmed, spaces before punctuation folded away. It is pure and total; text
// that reduces to nothing normalizes to the empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	text = strings.ToLower(strings.Join(fields, " "))
	return punctFold.Replace(text)
}
