package preflight

import (
	"path/filepath"

	"camflow/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for cfg. When stackName is non-empty
// the stack directory and its watch lock are checked as well.
func RunAll(cfg *config.Config, stackName string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Stacks directory", cfg.Paths.StacksDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if stackName != "" {
		results = append(results,
			CheckStackDirectory("Stack "+stackName, filepath.Join(cfg.Paths.StacksDir, stackName)),
			CheckWatchLock("Watch lock", cfg.WatchLockPath(stackName)),
		)
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
