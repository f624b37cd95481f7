package normalize

import (
	"regexp"
	"strings"
)

const (
	// A literal "." must touch both labels so sentence ends ("home. Co")
	// never join; spelled and bracketed forms may carry spaces.
	dotSep = `(?:\.|\s*(?:\(\s*dot\s*\)|\[\s*dot\s*\]|\{\s*dot\s*\})\s*|\s+dot\s+)`
	markAt = `(?:\s*@\s*|\s*(?:\(\s*at\s*\)|\[\s*at\s*\]|\{\s*at\s*\})\s*)`
	bareAt = `\s+at\s+`

	localPart = `[a-z0-9_%+-]+(?:` + dotSep + `[a-z0-9_%+-]+)*`
	// A bare " at " follows ordinary prose ("seen at home dot com"), so the
	// local part before it must itself be dotted.
	dottedLocal = `[a-z0-9_%+-]+(?:` + dotSep + `[a-z0-9_%+-]+)+`

	// Spelled-out separators are only trusted when the domain ends in a
	// known top-level domain; otherwise "met at clinic dot five" would
	// become an address.
	tlds = `com|org|net|edu|gov|mil|int|info|biz|health|io|co|us|uk|ca|au|de|fr|in|me|ai|app|dev|email|mail`
)

var (
	obfuscatedEmailRe = regexp.MustCompile(`(?i)\b` +
		`(?:(` + localPart + `)` + markAt + `|(` + dottedLocal + `)` + bareAt + `)` +
		`([a-z0-9-]+(?:` + dotSep + `[a-z0-9-]+)*` + dotSep + `(?:` + tlds + `))\b`)

	dotSepRe = regexp.MustCompile(`(?i)` + dotSep)
)

// deobfuscateEmails rewrites "jane dot doe at example dot com" and
// "jane [at] example [dot] com" into jane.doe@example.com. Matches that are
// already canonical are copied through, which keeps the pass idempotent.
func deobfuscateEmails(in string, b *builder) {
	last := 0
	for _, m := range obfuscatedEmailRe.FindAllStringSubmatchIndex(in, -1) {
		local := m[2:4]
		if local[0] < 0 {
			local = m[4:6]
		}
		canonical := dotSepRe.ReplaceAllString(in[local[0]:local[1]], ".") + "@" +
			dotSepRe.ReplaceAllString(in[m[6]:m[7]], ".")
		canonical = strings.Join(strings.Fields(canonical), "")
		if canonical == in[m[0]:m[1]] {
			continue
		}
		b.keep(in, last, m[0])
		b.emit(canonical, m[0], m[1])
		last = m[1]
	}
	b.keep(in, last, len(in))
}
