package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"camflow/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CAMFLOW_STACKS_DIR", "")
	t.Setenv(config.ConfigEnv, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.StacksDir != cwd {
		t.Fatalf("unexpected stacks dir: got %q want %q", cfg.Paths.StacksDir, cwd)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "camflow")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Stack.Model != "Q" {
		t.Fatalf("unexpected model: %q", cfg.Stack.Model)
	}
	if cfg.Stack.InitialCell != "C1" {
		t.Fatalf("unexpected initial cell: %q", cfg.Stack.InitialCell)
	}
	if cfg.Report.LastEditedBy != 7 || cfg.Report.ReportID != 51 || cfg.Report.Status != "OK" {
		t.Fatalf("unexpected report defaults: %+v", cfg.Report)
	}
	if cfg.PollInterval() != 500*time.Millisecond {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "camflow.toml")
	t.Setenv("CAMFLOW_STACKS_DIR", "")

	type payload struct {
		Paths struct {
			StacksDir string `toml:"stacks_dir"`
		} `toml:"paths"`
		Stack struct {
			DefaultName string `toml:"default_name"`
			Model       string `toml:"model"`
		} `toml:"stack"`
		Watch struct {
			PollIntervalMillis int `toml:"poll_interval_ms"`
		} `toml:"watch"`
	}
	custom := payload{}
	custom.Paths.StacksDir = filepath.Join(tempDir, "stacks")
	custom.Stack.DefaultName = "LOT42"
	custom.Stack.Model = "R"
	custom.Watch.PollIntervalMillis = 250

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.StacksDir != custom.Paths.StacksDir {
		t.Fatalf("unexpected stacks dir: %q", cfg.Paths.StacksDir)
	}
	if cfg.Stack.DefaultName != "LOT42" || cfg.Stack.Model != "R" {
		t.Fatalf("unexpected stack section: %+v", cfg.Stack)
	}
	if cfg.PollInterval() != 250*time.Millisecond {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval())
	}
	if cfg.Report.ReportID != 51 {
		t.Fatalf("expected report defaults to survive partial config, got %+v", cfg.Report)
	}
}

func TestLoadStacksDirFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	override := t.TempDir()
	t.Setenv("CAMFLOW_STACKS_DIR", override)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StacksDir != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Paths.StacksDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unsafe stack name", content: "[stack]\ndefault_name = \"a/b\"\n", wantErr: "stack.default_name"},
		{name: "unknown initial cell", content: "[stack]\ninitial_cell = \"Z9\"\n", wantErr: "stack.initial_cell"},
		{name: "poll too fast", content: "[watch]\npoll_interval_ms = 1\n", wantErr: "watch.poll_interval_ms"},
		{name: "bad log format", content: "[logging]\nformat = \"xml\"\n", wantErr: "logging.format"},
		{name: "bad toml", content: "[stack\n", wantErr: "parse config"},
		{name: "unknown key", content: "[watch]\npoll_interval = 100\n", wantErr: "unknown keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "camflow.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadUsesConfigEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CAMFLOW_STACKS_DIR", "")
	path := filepath.Join(t.TempDir(), "from-env.toml")
	if err := os.WriteFile(path, []byte("[stack]\ndefault_name = \"LOT42\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.ConfigEnv, path)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path || !exists {
		t.Fatalf("resolved %q exists=%v, want %q", resolved, exists, path)
	}
	if cfg.Stack.DefaultName != "LOT42" {
		t.Fatalf("default name = %q", cfg.Stack.DefaultName)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CAMFLOW_STACKS_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Stack.DefaultName != config.Default().Stack.DefaultName {
		t.Fatalf("unexpected default name from sample: %q", cfg.Stack.DefaultName)
	}
}

func TestWatchLockPath(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = "/var/lib/camflow"
	want := filepath.Join("/var/lib/camflow", "locks", "watch-LOT42.lock")
	if got := cfg.WatchLockPath("LOT42"); got != want {
		t.Fatalf("WatchLockPath = %q, want %q", got, want)
	}
}
