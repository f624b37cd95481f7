package match

import (
	"regexp"

	"github.com/ppiankov/phiscrub/internal/phi"
)

// Label-anchored identifiers share one shape: a label, an optional
// "no."/"number"/"#" qualifier, an optional colon, then the value in group 1.
const idQualifier = `\s*(?:no\.?|number|num|#)?\s*[:#]?\s*`

var (
	ssnRe        = regexp.MustCompile(`(?i)\b(?:\d{3}-\d{2}-\d{4}|xxx-xx-\d{4})\b`)
	ssnLabeledRe = regexp.MustCompile(`(?i)\b(?:SSN|SS#|social\s+security)` + idQualifier + `(\d{3}[-\s]?\d{2}[-\s]?\d{4})\b`)

	digitRunRe = regexp.MustCompile(`\b\d+\b`)
	mrnLabelRe = regexp.MustCompile(`(?i)\b(?:MRN|MR#|Acct|Account|Patient\s*ID|Chart|Med(?:ical)?\s+Rec(?:ord)?)` + idQualifier + `-?\s*([A-Z0-9][A-Z0-9-]{3,})\b`)

	zipRe = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)

	insuranceRe = regexp.MustCompile(`(?i)\b(?:member|subscriber|policy|insurance|insurer|medicaid|medicare|group|payer|payor)(?:\s+id)?` + idQualifier + `([A-Z0-9][A-Z0-9-]{3,19}[A-Z0-9])\b`)

	licenseRe = regexp.MustCompile(`(?i)\b(?:driver'?s?\s+licen[cs]e|licen[cs]e|DL|DEA|NPI|lic\.?)` + idQualifier + `([A-Z0-9][A-Z0-9-]{4,18}[A-Z0-9])\b`)

	// VINs exclude I, O and Q.
	vinRe   = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{17}\b`)
	plateRe = regexp.MustCompile(`(?i)\b(?:licen[cs]e\s+plate|plate)` + idQualifier + `([A-Z0-9][A-Z0-9-]{1,7}[A-Z0-9])\b`)

	deviceRe = regexp.MustCompile(`(?i)\b(?:serial|s/n|sn|device\s+id|udi|imei|implant\s+id|pacemaker\s+id|model)` + idQualifier + `([A-Z0-9][A-Z0-9-]{3,30}[A-Z0-9])\b`)
)

func newSSN() Matcher {
	return &patternMatcher{cat: phi.SSN, rules: []rule{
		{re: ssnRe},
		{re: ssnLabeledRe, group: 1, labeled: true},
	}}
}

// newMRN matches bare digit runs whose length falls inside bounds, and
// labeled record numbers whose value carries a digit. Labeled values that are
// purely numeric obey the same bounds.
func newMRN(bounds Bounds) Matcher {
	return &patternMatcher{cat: phi.MRN, rules: []rule{
		{
			re: digitRunRe,
			accept: func(text string, start, end int) bool {
				return bounds.Contains(end-start) && !inDecimal(text, start, end)
			},
		},
		{
			re:      mrnLabelRe,
			group:   1,
			labeled: true,
			accept: func(text string, start, end int) bool {
				v := text[start:end]
				if allDigits(v) {
					return bounds.Contains(len(v))
				}
				return hasDigit(v)
			},
		},
	}}
}

func newZIP() Matcher {
	return &patternMatcher{cat: phi.ZIP, rules: []rule{{
		re: zipRe,
		accept: func(text string, start, end int) bool {
			return !inDecimal(text, start, end)
		},
	}}}
}

func newInsurance() Matcher {
	return &patternMatcher{cat: phi.Insurance, rules: []rule{
		{re: insuranceRe, group: 1, labeled: true, accept: valueHasDigit},
	}}
}

func newLicense() Matcher {
	return &patternMatcher{cat: phi.License, rules: []rule{
		{re: licenseRe, group: 1, labeled: true, accept: valueHasDigit},
	}}
}

func newVehicle() Matcher {
	return &patternMatcher{cat: phi.Vehicle, rules: []rule{
		{
			re: vinRe,
			accept: func(text string, start, end int) bool {
				v := text[start:end]
				return hasDigit(v) && hasLetter(v)
			},
		},
		{re: plateRe, group: 1, labeled: true, accept: valueHasDigit},
	}}
}

func newDevice() Matcher {
	return &patternMatcher{cat: phi.Device, rules: []rule{
		{re: deviceRe, group: 1, labeled: true, accept: valueHasDigit},
	}}
}
