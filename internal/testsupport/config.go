package testsupport

import (
	"path/filepath"
	"testing"

	"camflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StacksDir = filepath.Join(base, "stacks")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Watch.PollIntervalMillis = 50

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStackName sets the default stack name on the test config.
func WithStackName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Stack.DefaultName = name
	}
}

// WithModel overrides the model tag on the test config.
func WithModel(model string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Stack.Model = model
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StacksDir)
}
