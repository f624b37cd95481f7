// Package watch scrubs clinical notes dropped into an inbox directory.
// Each .txt or .note file is claimed, redacted, written atomically to the
// outbox with a .stats.json sidecar, and removed from the inbox. Notes that
// cannot be decoded go to the failed directory with an .error.json record.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/phiscrub/internal/scrub"
)

// Config holds full watcher configuration.
type Config struct {
	Dirs         Dirs
	PollMode     bool
	PollInterval time.Duration
	Workers      int
	MetricsAddr  string
}

// Service watches the inbox and processes notes.
type Service struct {
	cfg       Config
	processor *Processor
	metrics   *Metrics
	log       *zap.Logger
}

// New creates a watcher service with validated configuration.
func New(cfg Config, s *scrub.Scrubber, log *zap.Logger) (*Service, error) {
	if cfg.Dirs.Inbox == "" || cfg.Dirs.Outbox == "" {
		return nil, fmt.Errorf("inbox and outbox directories are required")
	}
	if s == nil {
		return nil, fmt.Errorf("scrubber is required")
	}
	cfg.Dirs = cfg.Dirs.WithDefaults()
	if filepath.Clean(cfg.Dirs.Inbox) == filepath.Clean(cfg.Dirs.Outbox) {
		return nil, fmt.Errorf("inbox and outbox must differ")
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = pollDefault
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}

	metrics := NewMetrics()
	return &Service{
		cfg:       cfg,
		processor: NewProcessor(cfg.Dirs, s, metrics, log),
		metrics:   metrics,
		log:       log,
	}, nil
}

// Run starts the watcher. Blocks until ctx is cancelled.
// On startup, requeues interrupted notes and processes existing inbox files.
func (s *Service) Run(ctx context.Context) error {
	if err := EnsureDirs(s.cfg.Dirs); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	pidPath := s.cfg.Dirs.PIDFile()
	if err := acquirePIDLock(pidPath); err != nil {
		return fmt.Errorf("acquire PID lock: %w", err)
	}
	defer func() { _ = os.Remove(pidPath) }()

	if err := s.recoverOrphans(); err != nil {
		return fmt.Errorf("recover orphans: %w", err)
	}

	handler := func(path string) {
		if err := s.processor.Process(ctx, path); err != nil && ctx.Err() == nil {
			s.log.Error("process note", zap.String("file", filepath.Base(path)), zap.Error(err))
		}
	}

	if err := ScanExisting(s.cfg.Dirs.Inbox, handler); err != nil {
		return fmt.Errorf("scan existing: %w", err)
	}

	s.log.Info("watching inbox",
		zap.String("inbox", s.cfg.Dirs.Inbox),
		zap.String("outbox", s.cfg.Dirs.Outbox),
		zap.Bool("poll", s.cfg.PollMode),
		zap.Int("workers", s.cfg.Workers),
	)

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MetricsAddr != "" {
		g.Go(func() error { return s.metrics.Serve(gctx, s.cfg.MetricsAddr, s.log) })
	}
	g.Go(func() error {
		if s.cfg.PollMode {
			return NewPollWatcher(s.cfg.Dirs.Inbox, handler, s.cfg.PollInterval, s.log).Run(gctx)
		}
		return NewInboxWatcher(s.cfg.Dirs.Inbox, handler, s.cfg.Workers, s.log).Run(gctx)
	})
	return g.Wait()
}

// recoverOrphans moves notes left in state/processing back to the inbox.
// These were interrupted by a crash or restart and are scrubbed again.
func (s *Service) recoverOrphans() error {
	procDir := s.cfg.Dirs.ProcessingDir()
	entries, err := os.ReadDir(procDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := claimedName(e.Name())
		if !ok || strings.HasSuffix(name, ".tmp") {
			continue
		}
		if err := moveFile(filepath.Join(procDir, e.Name()), filepath.Join(s.cfg.Dirs.Inbox, name)); err != nil {
			s.log.Warn("recover orphan", zap.String("file", name), zap.Error(err))
			continue
		}
		s.log.Info("requeued interrupted note", zap.String("file", name))
	}
	return nil
}

// acquirePIDLock writes the current PID to the file and checks for stale locks.
func acquirePIDLock(path string) error {
	if data, err := os.ReadFile(path); err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err == nil && pid != os.Getpid() {
			if process, err := os.FindProcess(pid); err == nil {
				if err := process.Signal(syscall.Signal(0)); err == nil {
					return fmt.Errorf("another watcher is running (PID %d)", pid)
				}
			}
		}
		// Stale PID file.
		_ = os.Remove(path)
	}

	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0600)
}
