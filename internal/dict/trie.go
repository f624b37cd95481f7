package dict

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	leadPunct  = "(\"'[{<"
	trailPunct = ".,;:!?)\"']}>"
)

// Hit is a dictionary match over [Start, End) of the scanned text.
type Hit struct {
	Start int
	End   int
}

// Trie stores multi-word entries keyed by folded word. Walking it over the
// whitespace-separated words of a text makes every whitespace run in text
// equivalent to the single space between entry words.
type Trie struct {
	root *trieNode
	size int
}

type trieNode struct {
	next     map[string]*trieNode
	terminal bool
}

// NewTrie builds a trie from entries. Blank entries are ignored.
func NewTrie(entries ...[]string) *Trie {
	t := &Trie{root: &trieNode{}}
	for _, list := range entries {
		for _, e := range list {
			t.Insert(e)
		}
	}
	return t
}

// Insert adds entry and reports whether it was new.
func (t *Trie) Insert(entry string) bool {
	words := strings.Fields(Fold(entry))
	if len(words) == 0 {
		return false
	}
	n := t.root
	for _, w := range words {
		if n.next == nil {
			n.next = make(map[string]*trieNode)
		}
		child, ok := n.next[w]
		if !ok {
			child = &trieNode{}
			n.next[w] = child
		}
		n = child
	}
	if n.terminal {
		return false
	}
	n.terminal = true
	t.size++
	return true
}

// Len returns the number of distinct entries.
func (t *Trie) Len() int {
	return t.size
}

// Contains reports whether entry, compared folded and whitespace-collapsed,
// is in the trie.
func (t *Trie) Contains(entry string) bool {
	n := t.root
	for _, w := range strings.Fields(Fold(entry)) {
		n = n.next[w]
		if n == nil {
			return false
		}
	}
	return n != t.root && n.terminal
}

type word struct {
	start, end int
}

// FindAll returns the longest non-overlapping entry occurrences in text, in
// order. Leading punctuation may precede the first word of an occurrence and
// trailing punctuation or a possessive "'s" may follow the last one.
func (t *Trie) FindAll(text string) []Hit {
	if t.size == 0 {
		return nil
	}
	words := splitWords(text)
	var hits []Hit
	for i := 0; i < len(words); {
		start, end, last := t.longestAt(text, words, i)
		if last < 0 {
			i++
			continue
		}
		hits = append(hits, Hit{Start: start, End: end})
		i = last + 1
	}
	return hits
}

// longestAt walks the trie from words[i]. It returns the span of the longest
// terminal entry and the index of its last word, or last = -1.
func (t *Trie) longestAt(text string, words []word, i int) (start, end, last int) {
	last = -1
	start = trimLead(text, words[i].start, words[i].end)
	n := t.root
	for j := i; j < len(words) && n != nil && n.next != nil; j++ {
		s := words[j].start
		if j == i {
			s = start
		}
		e := words[j].end

		for _, ce := range endCandidates(text, s, e) {
			if child := n.next[Fold(text[s:ce])]; child != nil && child.terminal {
				end, last = ce, j
				break
			}
		}

		n = n.next[Fold(text[s:e])]
	}
	return start, end, last
}

// endCandidates lists the byte offsets at which a final word may end: the
// raw word end, the end with trailing punctuation removed, and that end with
// a possessive suffix removed.
func endCandidates(text string, s, e int) []int {
	out := []int{e}
	te := trimTrail(text, s, e)
	if te != e {
		out = append(out, te)
	}
	lower := strings.ToLower(text[s:te])
	if strings.HasSuffix(lower, "'s") || strings.HasSuffix(lower, "’s") {
		_, size := utf8.DecodeLastRuneInString(text[s : te-1])
		if te-1-size > s {
			out = append(out, te-1-size)
		}
	}
	return out
}

func trimLead(text string, s, e int) int {
	for s < e && strings.IndexByte(leadPunct, text[s]) >= 0 {
		s++
	}
	return s
}

func trimTrail(text string, s, e int) int {
	for e > s && strings.IndexByte(trailPunct, text[e-1]) >= 0 {
		e--
	}
	return e
}

func splitWords(text string) []word {
	var words []word
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, word{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, word{start, len(text)})
	}
	return words
}
