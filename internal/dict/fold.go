package dict

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'", "`", "'")

// Fold returns the comparison key for s: case-folded, diacritics removed,
// apostrophe variants unified. Casers are stateful, so each call builds its
// own chain and Fold stays safe for concurrent use.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = strings.ToLower(s)
	}
	return apostrophes.Replace(out)
}

// CollapseSpace folds s and joins its whitespace-separated fields with a
// single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}
