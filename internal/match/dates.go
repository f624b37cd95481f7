package match

import (
	"regexp"

	"github.com/ppiankov/phiscrub/internal/phi"
)

const (
	monthName = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	ordinal   = `(?:st|nd|rd|th)?`
	weekday   = `(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)`

	// Spelled and numeric counts for "N units ago" phrasing.
	count    = `(?:\d{1,3}|a\s+few|a\s+couple\s+of|couple\s+of|several|few|a|an|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)`
	dateUnit = `(?:days?|weeks?|months?|years?)`
)

var (
	dateRe = regexp.MustCompile(`(?i)\b(?:` +
		`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}` +
		`|\d{4}-\d{1,2}-\d{1,2}` +
		`|\d{4}/\d{1,2}/\d{1,2}` +
		`|` + monthName + `\.?\s+\d{1,2}` + ordinal + `,?\s+\d{4}` +
		`|\d{1,2}` + ordinal + `\s+` + monthName + `\.?,?\s+\d{4}` +
		`|` + monthName + `\.?,?\s+\d{4}` +
		`)\b`)

	// "today" and "this week" are not relative dates here.
	relDateRe = regexp.MustCompile(`(?i)\b(?:` +
		`(?:the\s+)?day\s+(?:before\s+yesterday|after\s+tomorrow)` +
		`|yesterday|tomorrow` +
		`|(?:last|next|past)\s+(?:night|weekend|week|month|year|` + weekday + `)` +
		`|` + count + `\s+` + dateUnit + `\s+(?:ago|prior|earlier|before|later)` +
		`|in\s+` + count + `\s+` + dateUnit +
		`)\b`)
)

func newDate() Matcher {
	return &patternMatcher{cat: phi.Date, rules: []rule{{re: dateRe}}}
}

func newRelDate() Matcher {
	return &patternMatcher{cat: phi.RelDate, rules: []rule{{re: relDateRe}}}
}
