package scrub

import (
	"go.uber.org/zap"

	"github.com/ppiankov/phiscrub/internal/match"
)

// Option configures a Scrubber at creation time.
type Option func(*Scrubber)

// WithLogger sets the logger for pipeline metadata (sizes, counts, timings).
// Input text and matched values are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scrubber) {
		if l != nil {
			s.log = l
		}
	}
}

// WithWorkers caps how many matchers run concurrently. Values below 1 run
// the matchers one at a time.
func WithWorkers(n int) Option {
	return func(s *Scrubber) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// withMatchers replaces the compiled matcher set.
func withMatchers(ms ...match.Matcher) Option {
	return func(s *Scrubber) { s.matchers = ms }
}
