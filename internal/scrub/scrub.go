// Package scrub runs the PHI redaction pipeline: normalize the note, run
// every enabled category matcher over it, resolve overlapping candidates, and
// substitute placeholder tokens into the original text.
package scrub

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/phiscrub/internal/dict"
	"github.com/ppiankov/phiscrub/internal/match"
	"github.com/ppiankov/phiscrub/internal/normalize"
	"github.com/ppiankov/phiscrub/internal/phi"
	"github.com/ppiankov/phiscrub/internal/resolve"
)

// Scrubber holds the compiled matchers for one configuration.
// Safe for concurrent use; nothing is mutated after New.
type Scrubber struct {
	cfg      Config
	matchers []match.Matcher
	log      *zap.Logger
	workers  int
}

// New validates cfg and compiles the dictionary and matchers.
func New(cfg Config, opts ...Option) (*Scrubber, error) {
	if cfg.Skip == nil {
		cfg.Skip = phi.Set{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := dict.New(cfg.Names, cfg.Keywords)
	s := &Scrubber{
		cfg:      cfg,
		matchers: match.Build(d, match.Bounds{Min: cfg.MRNMinLength, Max: cfg.MRNMaxLength}),
		log:      zap.NewNop(),
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o(s)
	}

	s.log.Debug("scrubber ready",
		zap.Int("names", len(cfg.Names)),
		zap.Int("keywords", len(cfg.Keywords)),
		zap.Int("mrn_min_length", cfg.MRNMinLength),
		zap.Int("mrn_max_length", cfg.MRNMaxLength),
		zap.Strings("skip", cfg.Skip.Names()),
		zap.Bool("safe_harbor", cfg.SafeHarbor),
	)
	return s, nil
}

// Config returns the configuration the Scrubber was built with.
func (s *Scrubber) Config() Config {
	return s.cfg
}

// WithOptions returns a Scrubber sharing the compiled matchers with extra
// categories skipped and, if safeHarbor is set, Safe Harbor enabled. Unknown
// categories in skip are a ConfigError.
func (s *Scrubber) WithOptions(skip phi.Set, safeHarbor bool) (*Scrubber, error) {
	cfg := s.cfg
	cfg.Skip = s.cfg.Skip.Union(skip)
	cfg.SafeHarbor = s.cfg.SafeHarbor || safeHarbor
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := *s
	out.cfg = cfg
	return &out, nil
}

// Scrub redacts text. It fails with ErrInvalidInput for text that is not
// valid UTF-8 and with an error naming the matcher if one panics; no partial
// result is returned.
func (s *Scrubber) Scrub(ctx context.Context, text string) (*Result, error) {
	started := time.Now()

	t, err := normalize.Normalize(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	candidates, err := s.candidates(ctx, t.String())
	if err != nil {
		return nil, err
	}
	spans := resolve.Resolve(candidates, t.Len(), s.cfg.Skip)
	res := redact(t, spans, s.cfg.Skip)

	s.log.Debug("scrubbed",
		zap.Int("input_bytes", len(text)),
		zap.Int("normalized_bytes", t.Len()),
		zap.Int("candidates", len(candidates)),
		zap.Int("redactions", res.Counts.Total()),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

// enabled reports whether the matcher for c should run.
func (s *Scrubber) enabled(c phi.Category) bool {
	if s.cfg.Skip.Has(c) {
		return false
	}
	return s.cfg.SafeHarbor || !c.SafeHarbor()
}

// candidates runs the enabled matchers concurrently and joins their spans in
// matcher order.
func (s *Scrubber) candidates(ctx context.Context, text string) ([]phi.Span, error) {
	var active []match.Matcher
	for _, m := range s.matchers {
		if s.enabled(m.Category()) {
			active = append(active, m)
		}
	}

	results := make([][]phi.Span, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, m := range active {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("matcher %s panicked: %v", m.Category(), r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = m.Match(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var n int
	for _, r := range results {
		n += len(r)
	}
	out := make([]phi.Span, 0, n)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// Scrub builds a Scrubber for cfg and runs it once.
func Scrub(ctx context.Context, text string, cfg Config, opts ...Option) (*Result, error) {
	s, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return s.Scrub(ctx, text)
}
