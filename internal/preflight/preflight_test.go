package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"camflow/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckStackDirectory_NotCreatedYet(t *testing.T) {
	result := CheckStackDirectory("Stack LOT42", filepath.Join(t.TempDir(), "LOT42"))
	if !result.Passed {
		t.Fatalf("missing stack directory should pass, got: %s", result.Detail)
	}
}

func TestCheckWatchLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch-LOT42.lock")

	if r := CheckWatchLock("Watch lock", path); !r.Passed || r.Detail != "idle" {
		t.Fatalf("unexpected result without lock file: %+v", r)
	}

	held := flock.New(path)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	if r := CheckWatchLock("Watch lock", path); !r.Passed || r.Detail != "watcher running" {
		t.Fatalf("unexpected result with held lock: %+v", r)
	}

	if err := held.Unlock(); err != nil {
		t.Fatal(err)
	}
	if r := CheckWatchLock("Watch lock", path); r.Detail != "idle" {
		t.Fatalf("unexpected result after release: %+v", r)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil, ""); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_Directories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.Paths.StacksDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(cfg, "")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	results = RunAll(cfg, "LOT42")
	if len(results) != 5 {
		t.Fatalf("expected 5 results with a stack, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_MissingStacksDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	failed := Failed(RunAll(cfg, ""))
	if len(failed) != 1 || failed[0].Name != "Stacks directory" {
		t.Fatalf("expected only the stacks directory to fail, got %+v", failed)
	}
}
