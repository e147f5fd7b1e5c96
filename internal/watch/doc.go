// Package watch keeps the active cell of a stack in sync with the disk.
//
// A Watcher owns the presentation focus (the active coordinate) and, while
// Run is executing, reloads that cell on a fixed interval and re-checks its
// photographs. Callers receive a Snapshot whenever something observable
// changes. An advisory file lock keeps a second watcher off the same stack.
package watch
