// Package dict holds the word lists that drive the name, honorific and
// facility heuristics, merged with caller-supplied names and keywords.
package dict

import (
	"strings"
	"unicode"
)

// Dictionary is immutable after New and safe for concurrent readers.
type Dictionary struct {
	surnames   map[string]bool
	plainWords map[string]bool
	firstNames map[string]bool
	stoplist   map[string]bool
	honorifics []string

	names      *Trie
	facilities *Trie
}

// New builds a Dictionary from the built-in lists plus extra person names and
// extra facility/keyword terms.
func New(extraNames, extraKeywords []string) *Dictionary {
	d := &Dictionary{
		surnames:   foldSet(Surnames),
		plainWords: foldSet(CommonWordSurnames),
		firstNames: foldSet(FirstNames),
		stoplist:   make(map[string]bool, len(NameStoplist)),
		honorifics: append([]string(nil), Honorifics...),
		names:      NewTrie(cleaned(extraNames)),
		facilities: NewTrie(FacilityTerms, cleaned(extraKeywords)),
	}
	for _, s := range NameStoplist {
		d.stoplist[stopKey(s)] = true
	}
	return d
}

// IsSurname reports whether w is a known family name.
func (d *Dictionary) IsSurname(w string) bool {
	return d.surnames[Fold(w)]
}

// IsBareSurname reports whether w is a known family name distinctive enough
// to stand alone, without a given name or honorific.
func (d *Dictionary) IsBareSurname(w string) bool {
	f := Fold(w)
	return d.surnames[f] && !d.plainWords[f]
}

// IsFirstName reports whether w is a known given name.
func (d *Dictionary) IsFirstName(w string) bool {
	return d.firstNames[Fold(w)]
}

// IsStopword reports whether a candidate name is a clinical term or a
// "St."/"Saint"-style place prefix rather than a person.
func (d *Dictionary) IsStopword(candidate string) bool {
	lower := strings.ToLower(strings.TrimSpace(candidate))
	if strings.HasPrefix(lower, "st. ") || strings.HasPrefix(lower, "st ") {
		return true
	}
	return d.stoplist[stopKey(candidate)]
}

// Honorifics returns the honorific titles without trailing periods.
func (d *Dictionary) Honorifics() []string {
	return append([]string(nil), d.honorifics...)
}

// Names returns the caller-supplied person names.
func (d *Dictionary) Names() *Trie {
	return d.names
}

// Facilities returns built-in facility terms plus caller keywords.
func (d *Dictionary) Facilities() *Trie {
	return d.facilities
}

func foldSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[Fold(w)] = true
	}
	return m
}

func cleaned(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// stopKey keeps letters, digits and spaces, upper-cases, and collapses
// whitespace, so "E. coli" and "E COLI" compare equal.
func stopKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(strings.Join(strings.Fields(b.String()), " "))
}
