package scrub

import (
	"strings"

	"github.com/ppiankov/phiscrub/internal/normalize"
	"github.com/ppiankov/phiscrub/internal/phi"
)

// redact copies the original text, replacing each resolved span (given in
// normalized offsets) with its category token. Spans of skipped categories
// are copied through even if one slipped past the resolver.
func redact(t *normalize.Text, spans []phi.Span, skip phi.Set) *Result {
	orig := t.Original()
	res := &Result{Counts: Counts{}}

	var b strings.Builder
	b.Grow(len(orig))

	cursor := 0
	for _, s := range spans {
		if skip.Has(s.Category) {
			continue
		}
		start, end := t.Span(s.Start, s.End)
		if start < cursor {
			start = cursor
		}
		if end <= start {
			continue
		}
		b.WriteString(orig[cursor:start])
		b.WriteString(s.Category.Token())
		res.Counts[s.Category]++
		res.Findings = append(res.Findings, Finding{Category: s.Category, Start: start, End: end})
		cursor = end
	}
	b.WriteString(orig[cursor:])

	res.Text = b.String()
	return res
}
