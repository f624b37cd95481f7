package watch

import (
	"os"
	"path/filepath"
	"testing"
)

func testDirs(t *testing.T) Dirs {
	t.Helper()
	root := t.TempDir()
	return Dirs{
		Inbox:  filepath.Join(root, "inbox"),
		Outbox: filepath.Join(root, "outbox"),
	}.WithDefaults()
}

func TestEnsureDirs(t *testing.T) {
	d := testDirs(t)
	if err := EnsureDirs(d); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	for _, dir := range []string{d.Inbox, d.Outbox, d.Failed, d.ProcessingDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
	if err := EnsureDirs(d); err != nil {
		t.Fatalf("second EnsureDirs should be idempotent: %v", err)
	}
}

func TestDirsDefaults(t *testing.T) {
	d := Dirs{Inbox: "/srv/in", Outbox: "/srv/out"}.WithDefaults()
	if d.Failed != "/srv/out/failed" {
		t.Errorf("Failed = %q", d.Failed)
	}
	if d.ProcessingDir() != "/srv/out/.state/processing" {
		t.Errorf("ProcessingDir = %q", d.ProcessingDir())
	}
	if d.PIDFile() != "/srv/out/.state/watch.pid" {
		t.Errorf("PIDFile = %q", d.PIDFile())
	}

	explicit := Dirs{Inbox: "/a", Outbox: "/b", Failed: "/c", State: "/d"}.WithDefaults()
	if explicit.Failed != "/c" || explicit.State != "/d" {
		t.Errorf("explicit dirs overwritten: %+v", explicit)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("note"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := moveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still present")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "note" {
		t.Errorf("dst = %q, %v", data, err)
	}
	if err := moveFile(src, dst); err == nil {
		t.Error("moving a missing file should fail")
	}
}

func TestCopyFilePreservesMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("note"), 0640); err != nil {
		t.Fatal(err)
	}
	if err := copyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0640 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := writeAtomic(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := writeAtomic(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}
