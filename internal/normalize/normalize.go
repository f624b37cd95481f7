// Package normalize canonicalizes clinical text before matching and keeps a
// byte-level map from every normalized byte back to the original input, so
// that spans found in normalized text can be substituted in the original.
package normalize

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// Text is the result of normalizing an input document.
type Text struct {
	orig  string
	norm  string
	start []int // original offset where the unit producing byte i begins
	end   []int // original offset where that unit ends
}

// Normalize runs every pass over s: NFKC, punctuation and invisible
// character mapping, whitespace collapsing, then email de-obfuscation.
func Normalize(s string) (*Text, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	t := identity(s)
	for _, pass := range passes {
		t = t.apply(pass)
	}
	return t, nil
}

// String normalizes s and returns only the normalized text.
func String(s string) (string, error) {
	t, err := Normalize(s)
	if err != nil {
		return "", err
	}
	return t.norm, nil
}

// String returns the normalized text.
func (t *Text) String() string {
	return t.norm
}

// Original returns the text that was normalized.
func (t *Text) Original() string {
	return t.orig
}

// Len returns the normalized length in bytes.
func (t *Text) Len() int {
	return len(t.norm)
}

// Span maps the normalized interval [start, end) to the original interval
// covering every input byte that contributed to it. Both results are
// monotonic in their arguments.
func (t *Text) Span(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(t.norm) {
		end = len(t.norm)
	}
	if start >= end {
		var at int
		if start < len(t.start) {
			at = t.start[start]
		} else {
			at = len(t.orig)
		}
		return at, at
	}
	return t.start[start], t.end[end-1]
}

func identity(s string) *Text {
	t := &Text{
		orig:  s,
		norm:  s,
		start: make([]int, len(s)),
		end:   make([]int, len(s)),
	}
	for i := range t.end {
		t.start[i] = i
		t.end[i] = i + 1
	}
	return t
}

// pass rewrites in into b. Every byte b receives names the half-open range
// of in it came from.
type pass func(in string, b *builder)

var passes = []pass{nfkc, mapRunes, collapseSpace, deobfuscateEmails}

func (t *Text) apply(p pass) *Text {
	b := &builder{}
	b.buf.Grow(len(t.norm))
	p(t.norm, b)

	out := &Text{
		orig:  t.orig,
		norm:  b.buf.String(),
		start: make([]int, len(b.from)),
		end:   make([]int, len(b.from)),
	}
	for i := range b.from {
		out.start[i] = t.start[b.from[i]]
		out.end[i] = t.end[b.to[i]-1]
	}
	return out
}

type builder struct {
	buf  strings.Builder
	from []int
	to   []int
}

// emit writes s as a replacement for in[from:to].
func (b *builder) emit(s string, from, to int) {
	if to <= from {
		to = from + 1
	}
	b.buf.WriteString(s)
	for range len(s) {
		b.from = append(b.from, from)
		b.to = append(b.to, to)
	}
}

// keep copies in[from:to] unchanged, byte for byte.
func (b *builder) keep(in string, from, to int) {
	b.buf.WriteString(in[from:to])
	for i := from; i < to; i++ {
		b.from = append(b.from, i)
		b.to = append(b.to, i+1)
	}
}

func nfkc(in string, b *builder) {
	if norm.NFKC.IsNormalString(in) {
		b.keep(in, 0, len(in))
		return
	}
	var it norm.Iter
	it.InitString(norm.NFKC, in)
	for !it.Done() {
		from := it.Pos()
		seg := string(it.Next())
		to := it.Pos()
		if seg == in[from:to] {
			b.keep(in, from, to)
		} else {
			b.emit(seg, from, to)
		}
	}
}

// runeMap holds punctuation variants and invisible separators. An empty
// replacement removes the rune.
var runeMap = map[rune]string{
	'\u2018': "'", '\u2019': "'", '\u201B': "'", '\u2032': "'", '\u02BC': "'",
	'\u201C': "\"", '\u201D': "\"", '\u201F': "\"", '\u2033': "\"",
	'\u2010': "-", '\u2011': "-", '\u2012': "-", '\u2013': "-", '\u2014': "-", '\u2015': "-", '\u2212': "-",
	'\u2022': " ", '\u00B7': " ", '\u2027': " ", '\u2043': " ", '\u30FB': " ",
	'\u200B': "", '\u200C': "", '\u200D': "", '\u2060': "", '\uFEFF': "", '\u00AD': "",
}

func mapRunes(in string, b *builder) {
	last := 0
	for i, r := range in {
		rep, ok := runeMap[r]
		if !ok {
			continue
		}
		b.keep(in, last, i)
		size := utf8.RuneLen(r)
		if rep != "" {
			b.emit(rep, i, i+size)
		}
		last = i + size
	}
	b.keep(in, last, len(in))
}

// collapseSpace turns each run of horizontal whitespace into one space.
// Line breaks are kept.
func collapseSpace(in string, b *builder) {
	last := 0
	runStart := -1
	for i, r := range in {
		horizontal := unicode.IsSpace(r) && r != '\n' && r != '\r'
		switch {
		case horizontal && runStart < 0:
			runStart = i
		case !horizontal && runStart >= 0:
			flushRun(in, b, last, runStart, i)
			last, runStart = i, -1
		}
	}
	if runStart >= 0 {
		flushRun(in, b, last, runStart, len(in))
		last = len(in)
	}
	b.keep(in, last, len(in))
}

func flushRun(in string, b *builder, last, runStart, runEnd int) {
	b.keep(in, last, runStart)
	if runEnd-runStart == 1 && in[runStart] == ' ' {
		b.keep(in, runStart, runEnd)
		return
	}
	b.emit(" ", runStart, runEnd)
}
