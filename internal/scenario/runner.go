package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/phiscrub/internal/phi"
	"github.com/ppiankov/phiscrub/internal/profile"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

// Run evaluates all cases in a scenario against base with the scenario's
// profile and config applied. A bad profile, config or case option is an
// error; a case whose assertions fail is not.
func Run(ctx context.Context, s *Scenario, base scrub.Config, opts ...scrub.Option) (*RunResult, error) {
	cfg := base
	if s.Profile != "" {
		p, err := profile.Load(s.Profile)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		if cfg, err = profile.Apply(p, cfg); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	cfg, err := cfg.Apply(s.Config)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	scrubber, err := scrub.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
		Cases: make([]CaseResult, 0, len(s.Cases)),
	}

	for i, c := range s.Cases {
		skip, err := phi.ParseSet(c.Skip)
		if err != nil {
			return nil, fmt.Errorf("scenario %q case %d: %w", s.Name, i+1, err)
		}
		cs, err := scrubber.WithOptions(skip, c.SafeHarbor)
		if err != nil {
			return nil, fmt.Errorf("scenario %q case %d: %w", s.Name, i+1, err)
		}

		cr := CaseResult{Index: i + 1, Name: c.Name}
		res, err := cs.Scrub(ctx, c.Input)
		if err != nil {
			cr.Failures = append(cr.Failures, "scrub failed: "+err.Error())
		} else {
			cr.Output = res.Text
			cr.Counts = countsByName(res.Counts)
			cr.Failures = check(c, res.Text, cr.Counts)
		}

		if len(cr.Failures) == 0 {
			cr.Passed = true
			result.Passed++
		} else {
			result.Failed++
		}
		result.Cases = append(result.Cases, cr)
	}

	return result, nil
}

func countsByName(c scrub.Counts) map[string]int {
	out := make(map[string]int, len(c))
	for _, cc := range c.Sorted() {
		out[string(cc.Category)] = cc.Count
	}
	return out
}

// check returns one message per failed assertion.
func check(c Case, output string, counts map[string]int) []string {
	var failures []string
	if c.Expect != nil && output != *c.Expect {
		failures = append(failures, fmt.Sprintf("expected output %q, got %q", *c.Expect, output))
	}
	for _, s := range c.Contains {
		if !strings.Contains(output, s) {
			failures = append(failures, fmt.Sprintf("output does not contain %q", s))
		}
	}
	for _, s := range c.Absent {
		if strings.Contains(output, s) {
			failures = append(failures, fmt.Sprintf("output contains %q", s))
		}
	}
	if c.Counts != nil {
		want := make(map[string]int, len(c.Counts))
		for name, n := range c.Counts {
			cat, err := phi.ParseCategory(name)
			if err != nil {
				failures = append(failures, err.Error())
				continue
			}
			if n != 0 {
				want[string(cat)] = n
			}
		}
		if !maps.Equal(want, counts) {
			failures = append(failures, fmt.Sprintf("expected counts %s, got %s", formatCounts(want), formatCounts(counts)))
		}
	}
	return failures
}

func formatCounts(m map[string]int) string {
	keys := slices.Sorted(maps.Keys(m))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Load reads and strictly decodes a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("parse scenario %s: name is required", path)
	}
	return &s, nil
}

// LoadAndRun loads a scenario YAML file and runs it against base.
func LoadAndRun(ctx context.Context, path string, base scrub.Config, opts ...scrub.Option) (*RunResult, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}

	result, err := Run(ctx, s, base, opts...)
	if err != nil {
		return nil, err
	}
	result.File = path
	return result, nil
}
