package preflight

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStackDirectory reports on the directory of one stack. A stack that has
// never been saved has no directory yet; that passes as long as the parent is
// usable.
func CheckStackDirectory(name, path string) Result {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not created yet)", path)}
	}
	return CheckDirectoryAccess(name, path)
}

// CheckWatchLock reports whether a watcher currently holds the lock at path.
// A held lock is informational and does not fail the check.
func CheckWatchLock(name, path string) Result {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: "idle"}
	}
	lock := flock.New(path)
	ok, err := lock.TryRLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !ok {
		return Result{Name: name, Passed: true, Detail: "watcher running"}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: "idle"}
}
