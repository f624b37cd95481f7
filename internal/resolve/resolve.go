// Package resolve turns overlapping candidate spans into a non-overlapping
// selection by greedy interval scheduling.
package resolve

import (
	"sort"

	"github.com/ppiankov/phiscrub/internal/phi"
)

// suppressions lists categories whose candidates are dropped when they
// overlap any surviving candidate of the keyed category.
var suppressions = map[phi.Category][]phi.Category{
	phi.Date: {phi.RelDate},
}

// Resolve selects a non-overlapping subset of spans over a text of textLen
// bytes. Spans of skipped categories and spans outside [0, textLen) are
// discarded first. The survivors are ordered by start ascending, length
// descending, priority descending, then category name, and accepted greedily
// whenever they start at or after the end of the last accepted span.
//
// The result is sorted by start and does not alias the input.
func Resolve(spans []phi.Span, textLen int, skip phi.Set) []phi.Span {
	kept := make([]phi.Span, 0, len(spans))
	for _, s := range spans {
		if skip.Has(s.Category) {
			continue
		}
		if s.Start < 0 || s.End > textLen || s.Start >= s.End {
			continue
		}
		kept = append(kept, s)
	}
	kept = suppress(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Category < b.Category
	})

	out := kept[:0]
	end := 0
	for _, s := range kept {
		if s.Start < end {
			continue
		}
		out = append(out, s)
		end = s.End
	}
	return out
}

func suppress(spans []phi.Span) []phi.Span {
	byCat := make(map[phi.Category][]phi.Span)
	for _, s := range spans {
		byCat[s.Category] = append(byCat[s.Category], s)
	}

	drop := make(map[phi.Category][]phi.Span)
	for winner, losers := range suppressions {
		for _, l := range losers {
			drop[l] = append(drop[l], byCat[winner]...)
		}
	}
	if len(drop) == 0 {
		return spans
	}

	out := spans[:0]
	for _, s := range spans {
		if !overlapsAny(s, drop[s.Category]) {
			out = append(out, s)
		}
	}
	return out
}

func overlapsAny(s phi.Span, others []phi.Span) bool {
	for _, o := range others {
		if s.Overlaps(o) {
			return true
		}
	}
	return false
}
