// Package mcp exposes the scrub pipeline as Model Context Protocol tools on
// stdio, so agents can redact clinical text before they read or store it.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ppiankov/phiscrub/internal/scrub"
)

// maxTextBytes bounds the text accepted by one phiscrub_scrub call.
const maxTextBytes = 4 << 20

// Config holds MCP server configuration.
type Config struct {
	Scrub   scrub.Config
	Version string
	Logger  *zap.Logger
}

// Server wraps the MCP SDK server around one compiled Scrubber.
type Server struct {
	mcpServer *mcpsdk.Server
	scrubber  *scrub.Scrubber
	log       *zap.Logger
}

// New creates an MCP server with a validated scrub configuration and tools.
func New(cfg Config) (*Server, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	scrubber, err := scrub.New(cfg.Scrub, scrub.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create scrubber: %w", err)
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		scrubber: scrubber,
		log:      log,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "phiscrub",
			Version: version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all phiscrub tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "phiscrub_scrub",
		Description: "Redact protected health information from clinical text. Returns the text with placeholder tokens such as [PERSON] and [DATE], and per-category counts.",
	}, s.handleScrub)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "phiscrub_categories",
		Description: "List the PHI categories phiscrub can redact, their placeholder tokens, and which are enabled.",
	}, s.handleCategories)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "phiscrub_profiles",
		Description: "List the scrub profiles available on this host.",
	}, s.handleProfiles)
}
