package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/phiscrub/internal/report"
	"github.com/ppiankov/phiscrub/internal/scrub"
)

// statsSuffix is appended to the note name for the outbox sidecar.
const statsSuffix = ".stats.json"

// errorSuffix is appended to the note name for the failed-dir record.
const errorSuffix = ".error.json"

// FailureRecord is written next to a note moved to the failed directory.
type FailureRecord struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// Processor scrubs one inbox note at a time.
type Processor struct {
	dirs     Dirs
	scrubber *scrub.Scrubber
	metrics  *Metrics
	log      *zap.Logger
	now      func() time.Time
}

// NewProcessor creates a processor. metrics may be nil.
func NewProcessor(dirs Dirs, s *scrub.Scrubber, metrics *Metrics, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		dirs:     dirs.WithDefaults(),
		scrubber: s,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// Process handles a single note through its lifecycle:
// claim → read → scrub → write outbox + sidecar → remove.
// A note that vanished before it was claimed is not an error.
func (p *Processor) Process(ctx context.Context, notePath string) error {
	name := filepath.Base(notePath)

	// Reject symlinks before reading so an inbox entry cannot point the
	// watcher at an arbitrary file.
	fi, err := os.Lstat(notePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat note: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		id := uuid.NewString()
		p.metrics.failed()
		if err := p.fail(id, notePath, name, errors.New("rejected symlink")); err != nil {
			return err
		}
		return fmt.Errorf("rejected symlink: %s", name)
	}
	if !fi.Mode().IsRegular() {
		return nil
	}

	id := uuid.NewString()
	claimed := filepath.Join(p.dirs.ProcessingDir(), id+"_"+name)
	if err := moveFile(notePath, claimed); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("claim note: %w", err)
	}

	data, err := os.ReadFile(claimed)
	if err != nil {
		return fmt.Errorf("read note: %w", err)
	}

	started := p.now()
	res, err := p.scrubber.Scrub(ctx, string(data))
	if err != nil {
		if ctx.Err() != nil {
			// Shutting down: put the note back for the next run.
			if mvErr := moveFile(claimed, notePath); mvErr != nil {
				return fmt.Errorf("requeue note: %w", mvErr)
			}
			return ctx.Err()
		}
		p.metrics.failed()
		if ferr := p.fail(id, claimed, name, err); ferr != nil {
			return ferr
		}
		return fmt.Errorf("scrub %s: %w", name, err)
	}
	elapsed := p.now().Sub(started)

	if err := writeAtomic(filepath.Join(p.dirs.Outbox, name), []byte(res.Text)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	done := p.now().UTC()
	summary := report.NewSummary(name, res, true)
	summary.ID = id
	summary.CompletedAt = &done
	stats, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := writeAtomic(filepath.Join(p.dirs.Outbox, name+statsSuffix), stats); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}

	_ = os.Remove(claimed)
	p.metrics.observe(res, len(data), elapsed)
	p.log.Info("note scrubbed",
		zap.String("id", id),
		zap.String("file", name),
		zap.Int("bytes", len(data)),
		zap.Int("redactions", res.Counts.Total()),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

// fail moves src into the failed directory and records why.
func (p *Processor) fail(id, src, name string, cause error) error {
	if err := moveFile(src, filepath.Join(p.dirs.Failed, name)); err != nil {
		return fmt.Errorf("move to failed: %w", err)
	}
	rec := FailureRecord{ID: id, Source: name, Error: cause.Error(), FailedAt: p.now().UTC()}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal failure: %w", err)
	}
	if err := writeAtomic(filepath.Join(p.dirs.Failed, name+errorSuffix), data); err != nil {
		return fmt.Errorf("write failure record: %w", err)
	}
	p.log.Warn("note failed", zap.String("id", id), zap.String("file", name), zap.Error(cause))
	return nil
}

// claimedName recovers the original note name from a processing entry.
func claimedName(entry string) (string, bool) {
	id, name, ok := strings.Cut(entry, "_")
	if !ok || name == "" {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return name, true
}
