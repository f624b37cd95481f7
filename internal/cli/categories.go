package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/phiscrub/internal/phi"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

var (
	categoriesJSON       bool
	categoriesSafeHarbor bool
	categoriesSkip       []string
)

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "Output as JSON")
	categoriesCmd.Flags().BoolVar(&categoriesSafeHarbor, "safe-harbor", false, "Show which categories Safe Harbor mode enables")
	categoriesCmd.Flags().StringSliceVar(&categoriesSkip, "skip", nil, "Show the effect of skipping a category, repeatable")
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List PHI categories and their placeholder tokens",
	Long: "Lists every category phiscrub detects, in report order, with its\n" +
		"placeholder token and tie-break priority. ENABLED reflects --profile,\n" +
		"the config file, --skip and --safe-harbor.",
	Args: cobra.NoArgs,
	RunE: runCategories,
}

type categoryRow struct {
	Name       string `json:"name"`
	Token      string `json:"token"`
	Priority   int    `json:"priority"`
	SafeHarbor bool   `json:"safe_harbor_only"`
	Enabled    bool   `json:"enabled"`
}

func categoryRows(cfg scrub.Config) []categoryRow {
	rows := make([]categoryRow, 0, len(phi.All))
	for _, c := range phi.All {
		rows = append(rows, categoryRow{
			Name:       string(c),
			Token:      c.Token(),
			Priority:   phi.Priority[c],
			SafeHarbor: c.SafeHarbor(),
			Enabled:    !cfg.Skip.Has(c) && (cfg.SafeHarbor || !c.SafeHarbor()),
		})
	}
	return rows
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(scrub.Overrides{Skip: categoriesSkip, SafeHarbor: &categoriesSafeHarbor})
	if err != nil {
		return err
	}
	rows := categoryRows(cfg)
	out := cmd.OutOrStdout()

	if categoriesJSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "%-10s %-12s %-8s %-11s %s\n", "CATEGORY", "TOKEN", "PRIORITY", "SAFE_HARBOR", "ENABLED")
	for _, r := range rows {
		fmt.Fprintf(out, "%-10s %-12s %-8d %-11s %s\n", r.Name, r.Token, r.Priority, yesNo(r.SafeHarbor), yesNo(r.Enabled))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
