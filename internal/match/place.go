package match

import (
	"regexp"

	"github.com/ppiankov/phiscrub/internal/dict"
	"github.com/ppiankov/phiscrub/internal/phi"
)

const (
	streetType = `(?i:(?:street|avenue|road|drive|boulevard|lane|court|place|terrace|way|circle|highway|parkway|square|trail)\b|(?:st|ave|rd|dr|blvd|ln|ct|pl|ter|cir|hwy|pkwy|sq|trl)\b\.?)`
	unitSuffix = `(?:\s*,?\s*(?:(?i:apt|apartment|unit|suite|ste|room|rm)\b\.?|#)\s*#?\s*(?:\d[A-Za-z0-9-]*|[A-Z]\b))?`

	// A capitalized word, allowing O'Brien and Smith-Jones forms.
	capWord = `[A-Z][\p{L}\p{M}]*(?:['-][\p{L}\p{M}]+)*`

	facilityType = `(?i:hospital|medical\s+center|medical\s+centre|clinic|infirmary|hospice|nursing\s+home|rehabilitation\s+center|rehab\s+center|health\s+system)\b`
)

var (
	// House number, one to four capitalized or numbered street-name words,
	// then a street type and an optional unit.
	streetRe = regexp.MustCompile(`\b\d{1,6}\s+(?:[A-Z0-9][\p{L}\p{N}.'-]*\s+){1,4}` + streetType + unitSuffix)

	poBoxRe = regexp.MustCompile(`(?i)\b(?:P\.?\s?O\.?\s*Box|Post\s+Office\s+Box)\s+\d+\b`)

	// Saint/Mount-led names: "St. Mary's", "Mount Sinai Hospital".
	saintRe = regexp.MustCompile(`\b(?:St\.?|Saint|Mt\.?|Mount)\s+` + capWord + `(?:'s)?(?:\s+` + capWord + `){0,4}`)

	// Capitalized words ending in a facility type: "Mercy Hospital".
	facilitySuffixRe = regexp.MustCompile(`\b(?:[A-Z][\p{L}\p{M}'&.-]*\s+){1,4}` + facilityType)

	coordPairRe = regexp.MustCompile(`(?:-|\b)\d{1,3}\.\d+\s*°?\s*[NS]\b[,;\s]*(?:-|\b)\d{1,3}\.\d+\s*°?\s*[EW]\b`)

	coordLabeledRe = regexp.MustCompile(`(?i)\b(?:lat(?:itude)?\s*/\s*lon(?:g(?:itude)?)?|lat(?:itude)?|coords?|coordinates|gps|location)\s*[:=]?\s*((?:-|\b)\d{1,3}\.\d{3,}\s*,\s*(?:-|\b)\d{1,3}\.\d{3,})`)
)

func newAddress() Matcher {
	return &patternMatcher{cat: phi.Address, rules: []rule{
		{re: streetRe},
		{re: poBoxRe},
	}}
}

func newCoord() Matcher {
	return &patternMatcher{cat: phi.Coord, rules: []rule{
		{re: coordPairRe},
		{re: coordLabeledRe, group: 1, labeled: true},
	}}
}

// newFacility combines the Saint/Mount and suffix shapes with the facility
// dictionary (built-in terms plus configured keywords).
func newFacility(d *dict.Dictionary) Matcher {
	structural := &patternMatcher{cat: phi.Facility, rules: []rule{
		{re: saintRe},
		{re: facilitySuffixRe},
	}}
	terms := d.Facilities()
	return &funcMatcher{cat: phi.Facility, fn: func(text string) []phi.Span {
		spans := structural.Match(text)
		for _, h := range terms.FindAll(text) {
			spans = append(spans, phi.NewSpan(phi.Facility, h.Start, h.End))
		}
		return spans
	}}
}
