package testsupport

import (
	"testing"

	"camflow/internal/config"
	"camflow/internal/stack"
)

// MustNewStack builds the configured default stack under the test's stacks
// directory.
func MustNewStack(t testing.TB, cfg *config.Config) *stack.Stack {
	t.Helper()

	s, err := stack.New(cfg.Paths.StacksDir, cfg.Stack.DefaultName, stack.Options{Model: cfg.Stack.Model})
	if err != nil {
		t.Fatalf("stack.New: %v", err)
	}
	return s
}
