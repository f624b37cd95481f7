package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	phimcp "github.com/ppiankov/phiscrub/internal/mcp"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

var (
	mcpSkip       []string
	mcpSafeHarbor bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringSliceVar(&mcpSkip, "skip", nil, "Category no tool call may redact, repeatable")
	mcpCmd.Flags().BoolVar(&mcpSafeHarbor, "safe-harbor", false, "Enable Safe Harbor categories for every call")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long: "Runs phiscrub as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes tools: phiscrub_scrub, phiscrub_categories, phiscrub_profiles.",
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(scrub.Overrides{Skip: mcpSkip, SafeHarbor: &mcpSafeHarbor})
	if err != nil {
		return err
	}

	srv, err := phimcp.New(phimcp.Config{
		Scrub:   cfg,
		Version: version,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintln(os.Stderr, "phiscrub MCP server running on stdio")
	if rootProfile != "" {
		fmt.Fprintf(os.Stderr, "Profile: %s\n", rootProfile)
	}
	return srv.Run(ctx)
}
