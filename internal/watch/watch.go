package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"camflow/internal/flowcell"
	"camflow/internal/grid"
	"camflow/internal/logging"
	"camflow/internal/stack"
)

// DefaultInterval matches two refreshes per second.
const DefaultInterval = 500 * time.Millisecond

// ErrAlreadyWatching reports that another process holds the watch lock of the
// stack.
var ErrAlreadyWatching = errors.New("stack is already being watched")

// Options configures a Watcher.
type Options struct {
	// Interval between refreshes; DefaultInterval when zero.
	Interval time.Duration
	// Initial is the first active coordinate; C1 when unset.
	Initial grid.Coordinate
	// LockPath is the advisory lock file guarding the stack. Empty disables
	// locking.
	LockPath string
	Logger   *slog.Logger
}

// Snapshot is the observable state of the active cell after a refresh.
type Snapshot struct {
	Coordinate grid.Coordinate
	Label      string
	Status     flowcell.Status
	Answers    []flowcell.Answer
	Images     map[flowcell.Slot]bool
	Load       flowcell.LoadResult
}

// Watcher periodically reloads the active cell of a stack so edits made by
// other processes, such as a capture tool saving a photograph, become visible.
//
// The active coordinate may be changed from any goroutine while Run is
// ticking.
type Watcher struct {
	stack    *stack.Stack
	interval time.Duration
	lockPath string
	logger   *slog.Logger

	mu     sync.Mutex
	active grid.Coordinate
	last   *Snapshot
}

// New creates a watcher over s. It does not start polling.
func New(s *stack.Stack, opts Options) (*Watcher, error) {
	if s == nil {
		return nil, errors.New("watch requires a stack")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	initial := opts.Initial
	if initial == (grid.Coordinate{}) {
		initial = grid.At('C', 1)
	}
	if _, err := s.Cell(initial); err != nil {
		return nil, err
	}
	return &Watcher{
		stack:    s,
		interval: interval,
		lockPath: opts.LockPath,
		logger:   logging.NewComponentLogger(opts.Logger, "watch").With(logging.String(logging.FieldStack, s.Name())),
		active:   initial,
	}, nil
}

// Active returns the currently selected coordinate.
func (w *Watcher) Active() grid.Coordinate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Select makes coord the active coordinate.
func (w *Watcher) Select(coord grid.Coordinate) error {
	if _, err := w.stack.Cell(coord); err != nil {
		return err
	}
	w.mu.Lock()
	w.active = coord
	w.mu.Unlock()
	return nil
}

// Move shifts the active coordinate by dx columns and dy rows, clamped to the
// grid, and returns the new position.
func (w *Watcher) Move(dx, dy int) grid.Coordinate {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = grid.Move(w.active, dx, dy)
	return w.active
}

// WithActive runs fn on the active cell, serialized with refreshes.
func (w *Watcher) WithActive(fn func(*flowcell.FlowCell) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	cell, err := w.stack.Cell(w.active)
	if err != nil {
		return err
	}
	return fn(cell)
}

// WithStack runs fn on the whole stack, serialized with refreshes and with
// WithActive.
func (w *Watcher) WithStack(fn func(*stack.Stack) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.stack)
}

// Tick reloads the active cell and recomputes its image flags.
func (w *Watcher) Tick() Snapshot {
	snap, _ := w.tick()
	return snap
}

func (w *Watcher) tick() (Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cell, err := w.stack.Cell(w.active)
	if err != nil {
		return Snapshot{Coordinate: w.active, Load: flowcell.LoadResult{Outcome: flowcell.LoadCorrupt, Err: err}}, true
	}
	res := cell.Load()
	snap := Snapshot{
		Coordinate: w.active,
		Label:      cell.Label(),
		Status:     cell.Status(),
		Answers:    cell.Answers(),
		Images:     cell.ImageStatus(),
		Load:       res,
	}
	changed := w.last == nil || !w.last.equal(snap)
	w.last = &snap
	return snap, changed
}

// Run refreshes the active cell every interval until ctx is cancelled,
// calling onChange with the first snapshot and with every snapshot that
// differs from its predecessor. Only one watcher per lock path may run.
func (w *Watcher) Run(ctx context.Context, onChange func(Snapshot)) error {
	unlock, err := w.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	logger := logging.WithSessionID(w.logger, uuid.NewString())
	logger.Info("watch started",
		logging.String(logging.FieldCoordinate, w.Active().String()),
		logging.Duration("interval", w.interval),
	)

	w.mu.Lock()
	w.last = nil
	w.mu.Unlock()

	emit := func() {
		snap, changed := w.tick()
		if snap.Load.Outcome == flowcell.LoadCorrupt && changed {
			logger.Debug("active cell has unusable saved state", logging.String(logging.FieldCell, snap.Label))
		}
		if changed && onChange != nil {
			onChange(snap)
		}
	}

	emit()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case <-ticker.C:
			emit()
		}
	}
}

func (w *Watcher) acquireLock() (func(), error) {
	if w.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(w.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(w.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock %s)", ErrAlreadyWatching, w.stack.Name(), w.lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watch lock",
				logging.String("lock", w.lockPath),
				logging.Error(err),
			)
		}
	}, nil
}

func (s Snapshot) equal(other Snapshot) bool {
	if s.Coordinate != other.Coordinate || s.Label != other.Label || s.Status != other.Status {
		return false
	}
	if s.Load.Outcome != other.Load.Outcome {
		return false
	}
	if len(s.Answers) != len(other.Answers) || len(s.Images) != len(other.Images) {
		return false
	}
	for i := range s.Answers {
		if s.Answers[i] != other.Answers[i] {
			return false
		}
	}
	for slot, present := range s.Images {
		if other.Images[slot] != present {
			return false
		}
	}
	return true
}
