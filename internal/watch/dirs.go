package watch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// dirPerm is the permission for watcher-managed directories.
const dirPerm = 0750

// Dirs holds the watcher directory layout.
type Dirs struct {
	Inbox  string // incoming notes
	Outbox string // redacted notes and stats sidecars
	Failed string // notes that could not be scrubbed
	State  string // state/processing and the PID lock
}

// WithDefaults fills Failed and State relative to Outbox when unset.
func (d Dirs) WithDefaults() Dirs {
	if d.Failed == "" && d.Outbox != "" {
		d.Failed = filepath.Join(d.Outbox, "failed")
	}
	if d.State == "" && d.Outbox != "" {
		d.State = filepath.Join(d.Outbox, ".state")
	}
	return d
}

// ProcessingDir holds notes claimed by a worker.
func (d Dirs) ProcessingDir() string {
	return filepath.Join(d.State, "processing")
}

// PIDFile is the single-instance lock.
func (d Dirs) PIDFile() string {
	return filepath.Join(d.State, "watch.pid")
}

// EnsureDirs creates all required directories. Idempotent.
func EnsureDirs(d Dirs) error {
	for _, dir := range []string{d.Inbox, d.Outbox, d.Failed, d.ProcessingDir()} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// moveFile moves src to dst using os.Rename. If rename fails with EXDEV
// (cross-device link, common with container volume mounts), it falls back
// to copy + remove.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var errno syscall.Errno
	if !errors.As(err, &errno) || errno != syscall.EXDEV {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies src to dst preserving permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so readers of the outbox never see a partial file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
