// Package preflight provides readiness checks for the filesystem paths that
// camflow depends on.
//
// The CLI "camflow check" command runs RunAll and prints one line per check.
// A missing stack directory is not a failure (stacks are created lazily on the
// first save), but an unusable stacks root, state directory, or log directory
// is.
package preflight
