package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/phiscrub/internal/scrub"
	"github.com/ppiankov/phiscrub/internal/systemd"
	"github.com/ppiankov/phiscrub/internal/watch"
)

var (
	watchInbox        string
	watchOutbox       string
	watchFailed       string
	watchState        string
	watchPoll         bool
	watchPollInterval time.Duration
	watchWorkers      int
	watchMetricsAddr  string
	watchSkip         []string
	watchSafeHarbor   bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.AddCommand(watchUnitCmd)
	f := watchCmd.Flags()
	f.StringVar(&watchInbox, "inbox", "", "Directory to watch for .txt and .note files (required)")
	f.StringVar(&watchOutbox, "outbox", "", "Directory for redacted notes and .stats.json sidecars (required)")
	f.StringVar(&watchFailed, "failed", "", "Directory for notes that could not be scrubbed (default: <outbox>/failed)")
	f.StringVar(&watchState, "state", "", "Directory for in-flight notes and the PID lock (default: <outbox>/.state)")
	f.BoolVar(&watchPoll, "poll", false, "Poll the inbox instead of using filesystem events")
	f.DurationVar(&watchPollInterval, "poll-interval", 5*time.Second, "Polling interval with --poll")
	f.IntVar(&watchWorkers, "workers", 4, "Notes scrubbed concurrently")
	f.StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this loopback address (e.g. 127.0.0.1:9464)")
	f.StringSliceVar(&watchSkip, "skip", nil, "Category to leave unredacted, repeatable")
	f.BoolVar(&watchSafeHarbor, "safe-harbor", false, "Also redact insurance, licence, vehicle, device and IP identifiers")
	_ = watchCmd.MarkFlagRequired("inbox")
	_ = watchCmd.MarkFlagRequired("outbox")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scrub notes dropped into an inbox directory",
	Long: "Watches an inbox for .txt and .note files. Each note is redacted and\n" +
		"written atomically to the outbox with a .stats.json sidecar, then removed\n" +
		"from the inbox. Notes that cannot be decoded move to the failed directory\n" +
		"with an .error.json record. Notes already in the inbox are processed first.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchUnitCmd = &cobra.Command{
	Use:   "unit",
	Short: "Print the systemd unit template for the watcher",
	Long: "Prints phiscrub-watch@.service. The instance name selects the profile:\n" +
		"  phiscrub watch unit > /etc/systemd/system/phiscrub-watch@.service\n" +
		"  systemctl enable --now phiscrub-watch@limited-data-set",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), systemd.WatchTemplate())
		return err
	},
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(scrub.Overrides{Skip: watchSkip, SafeHarbor: &watchSafeHarbor})
	if err != nil {
		return err
	}
	s, err := scrub.New(cfg, scrub.WithLogger(logger))
	if err != nil {
		return err
	}

	svc, err := watch.New(watch.Config{
		Dirs: watch.Dirs{
			Inbox:  watchInbox,
			Outbox: watchOutbox,
			Failed: watchFailed,
			State:  watchState,
		},
		PollMode:     watchPoll,
		PollInterval: watchPollInterval,
		Workers:      watchWorkers,
		MetricsAddr:  watchMetricsAddr,
	}, s, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", scrub.ErrInvalidConfig, err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "phiscrub watching %s -> %s\n", watchInbox, watchOutbox)
	if err := svc.Run(ctx); err != nil {
		return err
	}
	logger.Info("watch stopped", zap.String("inbox", watchInbox))
	return nil
}
