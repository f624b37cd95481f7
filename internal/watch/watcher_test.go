package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestInboxWatcherDetectsNewFile(t *testing.T) {
	inbox := t.TempDir()
	var rec recorder
	w := NewInboxWatcher(inbox, rec.handle, 2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give watcher time to start.
	time.Sleep(100 * time.Millisecond)

	notePath := filepath.Join(inbox, "visit-001.txt")
	tmpPath := notePath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte("Seen yesterday"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmpPath, notePath); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return len(rec.got()) == 1 }) {
		t.Fatalf("expected 1 file, got %v", rec.got())
	}
	if got := rec.got()[0]; got != notePath {
		t.Errorf("got path %q, want %q", got, notePath)
	}
}

func TestInboxWatcherIgnoresOtherFiles(t *testing.T) {
	inbox := t.TempDir()
	var rec recorder
	w := NewInboxWatcher(inbox, rec.handle, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	for _, name := range []string{"visit.txt.tmp", "scan.pdf", ".hidden.txt"} {
		if err := os.WriteFile(filepath.Join(inbox, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	time.Sleep(500 * time.Millisecond)
	if got := rec.got(); len(got) != 0 {
		t.Errorf("expected 0 files, got %v", got)
	}
}

func TestInboxWatcherRecoversHandlerPanic(t *testing.T) {
	inbox := t.TempDir()
	var rec recorder
	w := NewInboxWatcher(inbox, func(path string) {
		rec.handle(path)
		if filepath.Base(path) == "boom.txt" {
			panic("handler exploded")
		}
	}, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(inbox, "boom.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	waitFor(t, 2*time.Second, func() bool { return len(rec.got()) >= 1 })
	if err := os.WriteFile(filepath.Join(inbox, "after.note"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	ok := waitFor(t, 2*time.Second, func() bool {
		for _, p := range rec.got() {
			if filepath.Base(p) == "after.note" {
				return true
			}
		}
		return false
	})
	if !ok {
		t.Errorf("worker stopped after panic; got %v", rec.got())
	}
}

func TestInboxWatcherContextCancellation(t *testing.T) {
	inbox := t.TempDir()
	w := NewInboxWatcher(inbox, func(string) {}, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}

func TestInboxWatcherMissingDir(t *testing.T) {
	w := NewInboxWatcher(filepath.Join(t.TempDir(), "gone"), func(string) {}, 1, nil)
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error for missing inbox")
	}
}

func TestPollWatcherDetectsNewFile(t *testing.T) {
	inbox := t.TempDir()
	var rec recorder
	w := NewPollWatcher(inbox, rec.handle, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(inbox, "poll-001.note"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return len(rec.got()) == 1 }) {
		t.Fatalf("expected 1 file, got %v", rec.got())
	}
}

func TestPollWatcherDoesNotDuplicate(t *testing.T) {
	inbox := t.TempDir()
	var rec recorder
	w := NewPollWatcher(inbox, rec.handle, 0, nil)

	path := filepath.Join(inbox, "dup-001.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	w.scan()
	w.scan()
	if got := rec.got(); len(got) != 1 {
		t.Fatalf("file should be handled exactly once, got %v", got)
	}

	// Once the note leaves the inbox, a new file with the same name counts.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if err := os.WriteFile(path, []byte("y"), 0600); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if got := rec.got(); len(got) != 2 {
		t.Errorf("expected re-created file to be handled, got %v", got)
	}
}

func TestScanExisting(t *testing.T) {
	inbox := t.TempDir()
	for _, name := range []string{"a.txt", "b.NOTE", "c.txt.tmp", "d.json", ".e.txt"} {
		if err := os.WriteFile(filepath.Join(inbox, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	var received []string
	if err := ScanExisting(inbox, func(path string) {
		received = append(received, filepath.Base(path))
	}); err != nil {
		t.Fatal(err)
	}
	sort.Strings(received)
	if len(received) != 2 || received[0] != "a.txt" || received[1] != "b.NOTE" {
		t.Fatalf("received %v", received)
	}
}

func TestScanExistingMissingDir(t *testing.T) {
	var count int
	if err := ScanExisting("/nonexistent/path", func(string) { count++ }); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
}

func TestIsNoteFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"visit-001.txt", true},
		{"/in/discharge.note", true},
		{"UPPER.TXT", true},
		{"visit.txt.tmp", false},
		{"scan.pdf", false},
		{".hidden.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := isNoteFile(tt.path); got != tt.want {
			t.Errorf("isNoteFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
