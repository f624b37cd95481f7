package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ppiankov/phiscrub/internal/phi"
	"github.com/ppiankov/phiscrub/internal/profile"
	"github.com/ppiankov/phiscrub/internal/report"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

// --- Input/Output types ---

// ScrubInput defines parameters for the phiscrub_scrub tool.
type ScrubInput struct {
	Text            string   `json:"text" jsonschema:"clinical text to redact"`
	Skip            []string `json:"skip,omitempty" jsonschema:"categories to leave unredacted, e.g. DATE or relative-date"`
	SafeHarbor      bool     `json:"safe_harbor,omitempty" jsonschema:"also redact insurance, license, vehicle, device and IP identifiers"`
	IncludeFindings bool     `json:"include_findings,omitempty" jsonschema:"return byte offsets of each redaction in the input"`
}

// ScrubOutput contains the redacted text and statistics.
type ScrubOutput struct {
	Text     string          `json:"text"`
	Total    int             `json:"total"`
	Counts   map[string]int  `json:"counts"`
	Findings []scrub.Finding `json:"findings,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// CategoriesInput is empty; no parameters needed.
type CategoriesInput struct{}

// CategoryInfo describes one category.
type CategoryInfo struct {
	Name       string `json:"name"`
	Token      string `json:"token"`
	Priority   int    `json:"priority"`
	SafeHarbor bool   `json:"safe_harbor"`
	Enabled    bool   `json:"enabled"`
}

// CategoriesOutput lists all categories in report order.
type CategoriesOutput struct {
	Categories []CategoryInfo `json:"categories"`
}

// ProfilesInput is empty; no parameters needed.
type ProfilesInput struct{}

// ProfileInfo describes one profile.
type ProfileInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ProfilesOutput lists the available profiles.
type ProfilesOutput struct {
	Profiles []ProfileInfo `json:"profiles"`
}

// --- Handlers ---

func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
	}
}

func (s *Server) handleScrub(ctx context.Context, req *mcpsdk.CallToolRequest, input ScrubInput) (*mcpsdk.CallToolResult, ScrubOutput, error) {
	if len(input.Text) > maxTextBytes {
		msg := fmt.Sprintf("text is %d bytes, limit is %d", len(input.Text), maxTextBytes)
		return toolError(msg), ScrubOutput{Error: msg}, nil
	}

	skip, err := phi.ParseSet(input.Skip)
	if err != nil {
		return toolError(err.Error()), ScrubOutput{Error: err.Error()}, nil
	}
	scrubber, err := s.scrubber.WithOptions(skip, input.SafeHarbor)
	if err != nil {
		return toolError(err.Error()), ScrubOutput{Error: err.Error()}, nil
	}

	res, err := scrubber.Scrub(ctx, input.Text)
	if err != nil {
		s.log.Warn("mcp scrub failed", zap.Error(err))
		return toolError(err.Error()), ScrubOutput{Error: err.Error()}, nil
	}

	sum := report.NewSummary("", res, input.IncludeFindings)
	s.log.Debug("mcp scrub", zap.Int("bytes", len(input.Text)), zap.Int("redactions", sum.Total))
	return nil, ScrubOutput{
		Text:     res.Text,
		Total:    sum.Total,
		Counts:   sum.Counts,
		Findings: sum.Findings,
	}, nil
}

func (s *Server) handleCategories(_ context.Context, _ *mcpsdk.CallToolRequest, _ CategoriesInput) (*mcpsdk.CallToolResult, CategoriesOutput, error) {
	cfg := s.scrubber.Config()
	out := CategoriesOutput{Categories: make([]CategoryInfo, 0, len(phi.All))}
	for _, c := range phi.All {
		out.Categories = append(out.Categories, CategoryInfo{
			Name:       string(c),
			Token:      c.Token(),
			Priority:   phi.Priority[c],
			SafeHarbor: c.SafeHarbor(),
			Enabled:    !cfg.Skip.Has(c) && (cfg.SafeHarbor || !c.SafeHarbor()),
		})
	}
	return nil, out, nil
}

func (s *Server) handleProfiles(_ context.Context, _ *mcpsdk.CallToolRequest, _ ProfilesInput) (*mcpsdk.CallToolResult, ProfilesOutput, error) {
	var out ProfilesOutput
	for _, name := range profile.List() {
		p, err := profile.Load(name)
		if err != nil {
			out.Profiles = append(out.Profiles, ProfileInfo{Name: name, Error: err.Error()})
			continue
		}
		out.Profiles = append(out.Profiles, ProfileInfo{Name: name, Description: p.Description})
	}
	return nil, out, nil
}
