// Package match holds one candidate finder per PHI category. Matchers read
// normalized text and return every plausible span, overlapping or not;
// choosing between overlapping candidates is the resolver's job.
package match

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/phiscrub/internal/dict"
	"github.com/ppiankov/phiscrub/internal/phi"
)

// LabelBoost is added to the priority of spans found next to an explicit
// label ("MRN:", "Member ID", "SSN"), so a labeled value beats a bare digit
// shape covering the same bytes.
const LabelBoost = 100

// Matcher finds candidate spans for a single category.
type Matcher interface {
	Category() phi.Category
	Match(text string) []phi.Span
}

// Bounds is the inclusive digit-count window for bare MRN candidates.
type Bounds struct {
	Min int
	Max int
}

// Contains reports whether n digits fall inside the window.
func (b Bounds) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// Build compiles a matcher for every category, in report order. The
// dictionary supplies names, honorifics and facility terms; bounds gate MRN
// digit runs.
func Build(d *dict.Dictionary, bounds Bounds) []Matcher {
	byCat := map[phi.Category]Matcher{
		phi.Email:     newEmail(),
		phi.Phone:     newPhone(),
		phi.Date:      newDate(),
		phi.RelDate:   newRelDate(),
		phi.SSN:       newSSN(),
		phi.MRN:       newMRN(bounds),
		phi.ZIP:       newZIP(),
		phi.Person:    newPerson(d),
		phi.Facility:  newFacility(d),
		phi.Address:   newAddress(),
		phi.Coord:     newCoord(),
		phi.URL:       newURL(),
		phi.Insurance: newInsurance(),
		phi.License:   newLicense(),
		phi.Vehicle:   newVehicle(),
		phi.Device:    newDevice(),
		phi.IP:        newIP(),
	}
	out := make([]Matcher, 0, len(byCat))
	for _, c := range phi.All {
		out = append(out, byCat[c])
	}
	return out
}

// rule is one regular expression contributing spans to a category.
type rule struct {
	re *regexp.Regexp
	// group selects the submatch that becomes the span; 0 is the whole match.
	group int
	// trim is a cutset stripped from the right of the candidate.
	trim string
	// accept, when set, vets the candidate text[start:end].
	accept  func(text string, start, end int) bool
	labeled bool
}

// patternMatcher runs its rules in order and collects every accepted span.
type patternMatcher struct {
	cat   phi.Category
	rules []rule
}

func (m *patternMatcher) Category() phi.Category { return m.cat }

func (m *patternMatcher) Match(text string) []phi.Span {
	var spans []phi.Span
	for _, r := range m.rules {
		for _, loc := range r.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[2*r.group], loc[2*r.group+1]
			if start < 0 {
				continue
			}
			if r.trim != "" {
				end = start + len(strings.TrimRight(text[start:end], r.trim))
			}
			if end <= start {
				continue
			}
			if r.accept != nil && !r.accept(text, start, end) {
				continue
			}
			s := phi.NewSpan(m.cat, start, end)
			if r.labeled {
				s.Priority += LabelBoost
			}
			spans = append(spans, s)
		}
	}
	return spans
}

// funcMatcher adapts a plain function for the heuristic categories.
type funcMatcher struct {
	cat phi.Category
	fn  func(text string) []phi.Span
}

func (m *funcMatcher) Category() phi.Category { return m.cat }

func (m *funcMatcher) Match(text string) []phi.Span { return m.fn(text) }

func hasDigit(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func valueHasDigit(text string, start, end int) bool {
	return hasDigit(text[start:end])
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

// inDecimal reports whether the digit run text[start:end] is one part of a
// dotted number such as "41.878100" or "1.2.3".
func inDecimal(text string, start, end int) bool {
	if start >= 2 && text[start-1] == '.' && isDigitByte(text[start-2]) {
		return true
	}
	return end+1 < len(text) && text[end] == '.' && isDigitByte(text[end+1])
}

// wordChar reports whether r continues a word for boundary checks.
func wordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// atWordStart reports whether text[i:] does not continue a preceding word.
func atWordStart(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !wordChar(r) && r != '\'' && r != '-'
}

// atWordEnd reports whether text[:i] is not followed by more of the word.
func atWordEnd(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !wordChar(r)
}

// onlySpace reports whether s is non-empty horizontal or vertical whitespace.
func onlySpace(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}
