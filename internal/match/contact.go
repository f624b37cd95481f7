package match

import (
	"net/netip"
	"regexp"
	"strings"

	"github.com/ppiankov/phiscrub/internal/phi"
)

var (
	// Canonical addresses; obfuscated forms are rewritten by the normalizer.
	emailRe = regexp.MustCompile(`(?i)\b[\w.%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)

	// NANP numbers with optional country code, parenthesized area code and
	// extension. Separators are dash, dot or whitespace.
	phoneRe = regexp.MustCompile(`(?i)(?:\+?\b1[-.\s]?)?(?:\(\d{3}\)|\b\d{3})[-.\s]?\d{3}[-.\s]?\d{4}\b(?:\s*(?:x|ext\.?|extension)\s*\d{1,6}\b)?`)

	// Scheme or www-prefixed locators, cut at whitespace and quoting.
	urlRe = regexp.MustCompile(`(?i)\b(?:https?://|ftp://|www\.)[^\s<>"'\[\]{}|\\^` + "`" + `]+`)

	// Bare host names under common registries, with an optional path.
	hostRe = regexp.MustCompile(`(?i)\b(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+(?:com|org|net|edu|gov|health|io|info|biz|us)\b(?:/[^\s<>"']*)?`)

	ipv4Re = regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}\b`)

	// Any run of hex digits and colons with at least two colons; netip
	// decides whether it is really an address.
	ipv6Re = regexp.MustCompile(`[0-9A-Fa-f:]*:[0-9A-Fa-f:]*:[0-9A-Fa-f:]*`)
)

const urlTrailing = `.,;:!?)]}'"`

func newEmail() Matcher {
	return &patternMatcher{cat: phi.Email, rules: []rule{{re: emailRe}}}
}

func newPhone() Matcher {
	return &patternMatcher{cat: phi.Phone, rules: []rule{{
		re: phoneRe,
		accept: func(text string, start, end int) bool {
			return !inDecimal(text, start, end)
		},
	}}}
}

func newURL() Matcher {
	return &patternMatcher{cat: phi.URL, rules: []rule{
		{re: urlRe, trim: urlTrailing},
		{
			re:   hostRe,
			trim: urlTrailing,
			accept: func(text string, start, end int) bool {
				// Domains inside an email address belong to EMAIL.
				return start == 0 || (text[start-1] != '@' && text[start-1] != '.')
			},
		},
	}}
}

func newIP() Matcher {
	return &patternMatcher{cat: phi.IP, rules: []rule{
		{
			re: ipv4Re,
			accept: func(text string, start, end int) bool {
				if inDecimal(text, start, end) {
					return false
				}
				_, err := netip.ParseAddr(text[start:end])
				return err == nil
			},
		},
		{
			re: ipv6Re,
			accept: func(text string, start, end int) bool {
				v := text[start:end]
				if strings.Count(v, ":") < 2 || !hasDigit(v) {
					return false
				}
				if !atWordStart(text, start) || !atWordEnd(text, end) {
					return false
				}
				addr, err := netip.ParseAddr(v)
				return err == nil && addr.Is6() && !addr.IsUnspecified()
			},
		},
	}}
}
