// Package scenario runs YAML assertion files through the scrub pipeline.
package scenario

import "github.com/ppiankov/phiscrub/internal/scrub"

// Case is one test case within a scenario.
type Case struct {
	Name       string         `yaml:"name,omitempty"`
	Input      string         `yaml:"input"`
	Expect     *string        `yaml:"expect,omitempty"`
	Contains   []string       `yaml:"contains,omitempty"`
	Absent     []string       `yaml:"absent,omitempty"`
	Counts     map[string]int `yaml:"counts,omitempty"`
	Skip       []string       `yaml:"skip,omitempty"`
	SafeHarbor bool           `yaml:"safe_harbor,omitempty"`
}

// Scenario is a named collection of scrub test cases. Profile and Config
// are layered over the caller's base configuration before any case runs.
type Scenario struct {
	Name    string          `yaml:"name"`
	Profile string          `yaml:"profile,omitempty"`
	Config  scrub.Overrides `yaml:"config,omitempty"`
	Cases   []Case          `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one test case.
type CaseResult struct {
	Index    int            `json:"index"`
	Name     string         `json:"name,omitempty"`
	Passed   bool           `json:"passed"`
	Output   string         `json:"output"`
	Counts   map[string]int `json:"counts"`
	Failures []string       `json:"failures,omitempty"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
