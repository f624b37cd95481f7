package match

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/phiscrub/internal/dict"
	"github.com/ppiankov/phiscrub/internal/phi"
)

// bareSurnamePriority ranks a lone surname under FACILITY and the other
// PERSON forms, so any richer reading of the same bytes wins.
const bareSurnamePriority = 50

var (
	// nameTokenRe finds capitalized word candidates for the first/last pair scan.
	nameTokenRe = regexp.MustCompile(capWord)

	// trailingWordRe picks up a surname right after a titled name.
	trailingWordRe = regexp.MustCompile(`^\s+(` + capWord + `)`)
)

type person struct {
	dict       *dict.Dictionary
	honorifics *regexp.Regexp
}

// newPerson finds people four ways: an honorific followed by up to three
// capitalized words, an adjacent pair of capitalized words where the first is
// a known given name or the second a known surname, configured names, and a
// lone distinctive surname. A lone capitalized word that is not a known
// surname is never a person on its own.
func newPerson(d *dict.Dictionary) Matcher {
	p := &person{dict: d, honorifics: honorificRe(d.Honorifics())}
	return &funcMatcher{cat: phi.Person, fn: p.match}
}

// honorificRe builds "\b(?i:Dr|Mrs|...)\.?\s+(X\.|Word)(?:\s+(Word))?",
// longest title first so "Drs" is not read as "Dr" plus "s".
func honorificRe(titles []string) *regexp.Regexp {
	sort.Slice(titles, func(i, j int) bool {
		if len(titles[i]) != len(titles[j]) {
			return len(titles[i]) > len(titles[j])
		}
		return titles[i] < titles[j]
	})
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`\b(?i:` + strings.Join(quoted, "|") + `)\.?\s+([A-Z]\.|` + capWord + `)(?:\s+(` + capWord + `))?`)
}

func (p *person) match(text string) []phi.Span {
	toks := p.tokens(text)

	var spans []phi.Span
	spans = append(spans, p.titled(text)...)
	spans = append(spans, p.pairs(text, toks)...)
	spans = append(spans, p.bare(text, toks)...)
	for _, h := range p.dict.Names().FindAll(text) {
		spans = append(spans, phi.NewSpan(phi.Person, h.Start, h.End))
	}
	return spans
}

// nameEnds reports whether a name may stop at text[i]. Besides a word
// boundary, the next bytes must not carry on an email address or host
// ("Smith%1@x.org", "Smith.jones@x.org"), which would leave half of it
// behind after redaction.
func nameEnds(text string, i int) bool {
	if !atWordEnd(text, i) {
		return false
	}
	if i >= len(text) {
		return true
	}
	switch text[i] {
	case '@', '%', '+', '_':
		return false
	case '.', '-', '\'':
		r, _ := utf8.DecodeRuneInString(text[i+1:])
		return !wordChar(r)
	}
	return true
}

// titled keeps the honorific inside the span. The second word is taken only
// when it completes a name: the first word is a given name or an initial, or
// the second is a surname. A known surname right after the name extends it
// ("Dr. John Smith Jones").
func (p *person) titled(text string) []phi.Span {
	var spans []phi.Span
	for _, loc := range p.honorifics.FindAllStringSubmatchIndex(text, -1) {
		first := text[loc[2]:loc[3]]
		initial := strings.HasSuffix(first, ".")
		if !initial && !nameEnds(text, loc[3]) {
			continue
		}
		end := loc[3]
		if loc[4] >= 0 && nameEnds(text, loc[5]) {
			second := text[loc[4]:loc[5]]
			if initial || p.dict.IsFirstName(first) || p.dict.IsSurname(trimPossessive(second)) {
				end = loc[4] + len(trimPossessive(second))
			}
		}
		if end == loc[3] {
			if initial {
				continue
			}
			end = loc[2] + len(trimPossessive(first))
		}
		if end == loc[5] {
			end = p.trailingSurname(text, end)
		}
		if p.stopped(text[loc[2]:end]) {
			continue
		}
		spans = append(spans, phi.NewSpan(phi.Person, loc[0], end))
	}
	return spans
}

// trailingSurname returns the end of a known surname that directly follows
// text[:end], or end itself.
func (p *person) trailingSurname(text string, end int) int {
	m := trailingWordRe.FindStringSubmatchIndex(text[end:])
	if m == nil || !nameEnds(text, end+m[3]) {
		return end
	}
	w := trimPossessive(text[end+m[2] : end+m[3]])
	if !p.dict.IsSurname(w) || p.dict.IsStopword(w) {
		return end
	}
	return end + m[2] + len(w)
}

type token struct {
	start, end int
	word       string
}

// tokens lists whole capitalized words of two or more letters, possessive
// stripped.
func (p *person) tokens(text string) []token {
	var toks []token
	for _, loc := range nameTokenRe.FindAllStringIndex(text, -1) {
		if loc[1]-loc[0] < 2 || !atWordStart(text, loc[0]) || !nameEnds(text, loc[1]) {
			continue
		}
		w := trimPossessive(text[loc[0]:loc[1]])
		toks = append(toks, token{start: loc[0], end: loc[0] + len(w), word: w})
	}
	return toks
}

// pairs scans adjacent capitalized words. A pair qualifies when the first is
// a given name or the second a surname; a third adjacent surname extends it
// ("Mary Ann Smith").
func (p *person) pairs(text string, toks []token) []phi.Span {
	adjacent := func(a, b token) bool {
		return onlySpace(text[a.end:b.start])
	}

	var spans []phi.Span
	for i := 0; i+1 < len(toks); i++ {
		a, b := toks[i], toks[i+1]
		if !adjacent(a, b) {
			continue
		}
		if !p.dict.IsFirstName(a.word) && !p.dict.IsSurname(b.word) {
			continue
		}
		last := i + 1
		if i+2 < len(toks) && adjacent(b, toks[i+2]) && p.dict.IsSurname(toks[i+2].word) {
			last = i + 2
		}
		if p.stopped(text[a.start:toks[last].end]) {
			continue
		}
		spans = append(spans, phi.NewSpan(phi.Person, a.start, toks[last].end))
		i = last
	}
	return spans
}

// bare emits every distinctive surname as a low-priority candidate. Ones
// that sit inside a pair or titled name are absorbed by the longer span.
func (p *person) bare(text string, toks []token) []phi.Span {
	var spans []phi.Span
	for _, tk := range toks {
		if !p.dict.IsBareSurname(tk.word) || p.dict.IsStopword(tk.word) {
			continue
		}
		s := phi.NewSpan(phi.Person, tk.start, tk.end)
		s.Priority = bareSurnamePriority
		spans = append(spans, s)
	}
	return spans
}

// stopped reports whether the candidate, or any word in it, is a clinical
// term rather than a name.
func (p *person) stopped(candidate string) bool {
	if p.dict.IsStopword(candidate) {
		return true
	}
	for _, w := range strings.Fields(candidate) {
		if p.dict.IsStopword(w) {
			return true
		}
	}
	return false
}

func trimPossessive(w string) string {
	if strings.HasSuffix(w, "'s") && len(w) > 3 {
		return w[:len(w)-2]
	}
	return w
}
