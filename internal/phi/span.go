package phi

// Span is a half-open byte interval [Start, End) over normalized text, tagged
// with the category that produced it.
type Span struct {
	Start    int
	End      int
	Category Category
	Priority int
}

// NewSpan tags [start, end) with c and its priority.
func NewSpan(c Category, start, end int) Span {
	return Span{Start: start, End: end, Category: c, Priority: Priority[c]}
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}
