package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/phiscrub/internal/logging"
	"github.com/ppiankov/phiscrub/internal/report"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

// exitConfig is EX_CONFIG from sysexits.h.
const exitConfig = 78

var (
	rootConfig    string
	rootProfile   string
	rootLogLevel  string
	rootLogFormat string
	rootEnvFile   string

	scrubInput      string
	scrubOutput     string
	scrubSkip       []string
	scrubSafeHarbor bool
	scrubQuiet      bool
	scrubStatsJSON  bool
	scrubFindings   bool

	logger = zap.NewNop()
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootConfig, "config", "c", "", "Config file, JSON or YAML (default: $PHISCRUB_CONFIG or ~/.phiscrub/config.yaml)")
	pf.StringVar(&rootProfile, "profile", "", "Scrub profile applied before the config file (see: phiscrub profile list)")
	pf.StringVar(&rootLogLevel, "log-level", "", "Log level: debug|info|warn|error (default: $PHISCRUB_LOG_LEVEL or warn)")
	pf.StringVar(&rootLogFormat, "log-format", "console", "Log format: console|json")
	pf.StringVar(&rootEnvFile, "env-file", "", "Read environment variables from this file (default: .env if present)")

	f := rootCmd.Flags()
	f.StringVarP(&scrubInput, "input", "i", "-", "Input file, '-' for stdin")
	f.StringVarP(&scrubOutput, "output", "o", "-", "Output file, '-' for stdout")
	f.StringSliceVar(&scrubSkip, "skip", nil, "Category to leave unredacted, repeatable (e.g. --skip person --skip relative-date)")
	f.BoolVar(&scrubSafeHarbor, "safe-harbor", false, "Also redact insurance, licence, vehicle, device and IP identifiers")
	f.BoolVarP(&scrubQuiet, "quiet", "q", false, "Suppress the redaction summary")
	f.BoolVar(&scrubStatsJSON, "stats-json", false, "Write the redaction summary to stderr as JSON")
	f.BoolVar(&scrubFindings, "findings", false, "Include span offsets in the JSON summary")
}

var rootCmd = &cobra.Command{
	Use:   "phiscrub",
	Short: "Redact protected health information from clinical notes",
	Long: "Reads a clinical note, replaces names, dates, contact details and record\n" +
		"identifiers with placeholder tokens such as [PERSON] and [DATE], and writes\n" +
		"the result. A per-category summary goes to stderr.\n\n" +
		"Configuration is layered: built-in defaults, then --profile, then the\n" +
		"config file, then flags. Exit code 78 means the configuration is invalid.",
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runScrub,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, scrub.ErrInvalidConfig) {
		return exitConfig
	}
	return 1
}

// setup loads the env file and builds the logger shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	if rootEnvFile != "" {
		if err := godotenv.Load(rootEnvFile); err != nil {
			return fmt.Errorf("%w: load env file: %w", scrub.ErrInvalidConfig, err)
		}
	} else {
		_ = godotenv.Load()
	}

	l, err := logging.New(logging.LevelFromEnv(rootLogLevel), rootLogFormat)
	if err != nil {
		return fmt.Errorf("%w: %w", scrub.ErrInvalidConfig, err)
	}
	logger = l
	return nil
}

func runScrub(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(scrub.Overrides{Skip: scrubSkip, SafeHarbor: &scrubSafeHarbor})
	if err != nil {
		return err
	}

	s, err := scrub.New(cfg, scrub.WithLogger(logger))
	if err != nil {
		return err
	}

	text, err := readInput(cmd.InOrStdin(), scrubInput)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := s.Scrub(ctx, text)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.OutOrStdout(), scrubOutput, res.Text); err != nil {
		return err
	}

	if scrubQuiet {
		return nil
	}
	source := scrubInput
	if source == "-" {
		source = ""
	}
	return report.Write(cmd.ErrOrStderr(), report.NewSummary(source, res, scrubFindings), scrubStatsJSON)
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input file: %w", err)
	}
	return string(data), nil
}

func writeOutput(stdout io.Writer, path, text string) error {
	if path == "" || path == "-" {
		if _, err := io.WriteString(stdout, text); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
