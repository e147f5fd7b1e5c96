package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"camflow/internal/config"
)

func TestConfigInitWritesSample(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "generated", "config.toml")

	out, _, err := runCLI(t, context.Background(), nil, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	_, _, err = runCLI(t, context.Background(), nil, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error when config already exists")
	}
	requireContains(t, err.Error(), "--overwrite")

	if _, _, err := runCLI(t, context.Background(), nil, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "Default stack: SOMESTACK (model Q)")
	requireContains(t, out, "Configuration valid")
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[paths]")
	requireContains(t, out, "stacks_dir = ")
	requireContains(t, out, "poll_interval_ms = ")

	var decoded config.Config
	if err := toml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("config show output is not TOML: %v\n%s", err, out)
	}
	if decoded.Paths.StacksDir != env.cfg.Paths.StacksDir {
		t.Fatalf("round-tripped stacks dir = %q, want %q", decoded.Paths.StacksDir, env.cfg.Paths.StacksDir)
	}
	if decoded.Stack.DefaultName != "SOMESTACK" {
		t.Fatalf("round-tripped default name = %q", decoded.Stack.DefaultName)
	}
}

func TestConfigValidateRejectsBadConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[stack]\ninitial_cell = \"Z9\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.run(t, "config", "validate"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "not created yet")

	if err := os.RemoveAll(env.cfg.Paths.StacksDir); err != nil {
		t.Fatal(err)
	}
	out, _, err = env.run(t, "check")
	if err == nil {
		t.Fatal("expected check to fail without a stacks directory")
	}
	requireContains(t, out, "[ERROR]")
}
