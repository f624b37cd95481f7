package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/phiscrub/internal/profile"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

var profileInitOutput string

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileInitCmd)
	profileInitCmd.Flags().StringVarP(&profileInitOutput, "output", "o", "", "Output path (default: ~/.phiscrub/profiles/<name>.yaml)")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage scrub profiles",
	Long:  "List, inspect, and create named scrub profiles.",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scrub profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Validate a profile and show the configuration it produces",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileInitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Generate a starter profile template",
	Long:  "Creates a commented YAML profile template under ~/.phiscrub/profiles.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileInit,
}

func runProfileList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	names := profile.List()
	if len(names) == 0 {
		fmt.Fprintln(out, "No profiles available.")
		return nil
	}

	fmt.Fprintln(out, "Available profiles:")
	for _, name := range names {
		p, err := profile.Load(name)
		if err != nil {
			fmt.Fprintf(out, "  %-18s (error loading: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(out, "  %-18s %s\n", name, p.Description)
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	name := args[0]
	p, err := profile.Load(name)
	if err != nil {
		return fmt.Errorf("failed to load profile %q: %w", name, err)
	}
	if err := profile.Validate(p); err != nil {
		return fmt.Errorf("profile %q is invalid: %w", name, err)
	}
	cfg, err := profile.Apply(p, scrub.DefaultConfig())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile: %s (%s)\n", p.Name, p.Description)
	fmt.Fprintf(out, "  Names:        %d\n", len(cfg.Names))
	fmt.Fprintf(out, "  Keywords:     %d\n", len(cfg.Keywords))
	fmt.Fprintf(out, "  MRN length:   %d..%d\n", cfg.MRNMinLength, cfg.MRNMaxLength)
	fmt.Fprintf(out, "  Skip:         %s\n", joinOrNone(cfg.Skip.Names()))
	fmt.Fprintf(out, "  Safe Harbor:  %s\n", yesNo(cfg.SafeHarbor))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "To apply at runtime:")
	fmt.Fprintf(out, "  phiscrub --profile %s -i note.txt\n", name)
	return nil
}

func runProfileInit(cmd *cobra.Command, args []string) error {
	name := args[0]

	outPath := profileInitOutput
	if outPath == "" {
		dir, err := profile.Dir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		outPath = filepath.Join(dir, name+".yaml")
	}

	// Refuse to overwrite existing files
	if _, err := os.Stat(outPath); err == nil {
		return fmt.Errorf("file already exists: %s (remove it first or use --output)", outPath)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(profile.InitProfile(name)), 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created profile template: %s\n", outPath)
	fmt.Fprintf(out, "Edit it, then validate with: phiscrub profile show %s\n", name)
	return nil
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ", ")
}
