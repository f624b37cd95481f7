package scrub

import "github.com/ppiankov/phiscrub/internal/phi"

// Counts maps each category to the number of spans substituted for it.
// Categories with no substitutions are absent.
type Counts map[phi.Category]int

// Total returns the number of substituted spans.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// CategoryCount is one row of Counts.Sorted.
type CategoryCount struct {
	Category phi.Category `json:"category"`
	Count    int          `json:"count"`
}

// Sorted returns the non-zero counts in report order.
func (c Counts) Sorted() []CategoryCount {
	var out []CategoryCount
	for _, cat := range phi.All {
		if n := c[cat]; n > 0 {
			out = append(out, CategoryCount{Category: cat, Count: n})
		}
	}
	return out
}

// Finding locates one substitution in the original text by byte offsets.
// The matched value is never retained.
type Finding struct {
	Category phi.Category `json:"category"`
	Start    int          `json:"start"`
	End      int          `json:"end"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	Text     string
	Counts   Counts
	Findings []Finding
}
