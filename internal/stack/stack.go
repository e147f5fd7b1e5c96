package stack

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"camflow/internal/flowcell"
	"camflow/internal/grid"
	"camflow/internal/logging"
)

// ErrInvalidName reports a stack name that cannot be used as a directory.
var ErrInvalidName = errors.New("invalid stack name")

// Options customizes a Stack at construction.
type Options struct {
	// Model is the model tag shared by every cell; flowcell.DefaultModel when empty.
	Model string
	// Logger is handed to each cell. Nil discards log output.
	Logger *slog.Logger
}

// Stack is the batch of flow cells inspected together, one per grid position.
//
// A Stack is not safe for concurrent use.
type Stack struct {
	name   string
	dir    string
	cells  map[grid.Coordinate]*flowcell.FlowCell
	order  []grid.Coordinate
	logger *slog.Logger
}

// New builds the stack named name under root with a fresh cell at every grid
// position. Always-missing positions start as OUT_OF_SPEC; everything else
// starts with defaults. Nothing is read from or written to disk.
func New(root, name string, opts Options) (*Stack, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s := &Stack{
		name:   name,
		dir:    filepath.Join(root, name),
		cells:  make(map[grid.Coordinate]*flowcell.FlowCell, grid.Size),
		order:  grid.All(),
		logger: logging.NewComponentLogger(opts.Logger, "stack").With(logging.String(logging.FieldStack, name)),
	}

	cellOpts := flowcell.Options{Model: opts.Model, Logger: opts.Logger}
	for _, coord := range s.order {
		s.cells[coord] = flowcell.New(s.dir, name, coord, cellOpts)
	}
	for _, coord := range grid.AlwaysMissing() {
		if err := s.cells[coord].SetStatus(flowcell.StatusOutOfSpec); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ValidateName checks that name is usable as a single directory component.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case trimmed != name:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidName, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// Name returns the batch identifier.
func (s *Stack) Name() string { return s.name }

// Dir returns the base directory holding every cell directory.
func (s *Stack) Dir() string { return s.dir }

// Coordinates returns every grid position in row-major order.
func (s *Stack) Coordinates() []grid.Coordinate {
	out := make([]grid.Coordinate, len(s.order))
	copy(out, s.order)
	return out
}

// Cells returns the cells in row-major order.
func (s *Stack) Cells() []*flowcell.FlowCell {
	out := make([]*flowcell.FlowCell, 0, len(s.order))
	for _, coord := range s.order {
		out = append(out, s.cells[coord])
	}
	return out
}

// Cell returns the cell at coord.
func (s *Stack) Cell(coord grid.Coordinate) (*flowcell.FlowCell, error) {
	cell, ok := s.cells[coord]
	if !ok {
		return nil, fmt.Errorf("%w: %s", grid.ErrUnknownCoordinate, coord)
	}
	return cell, nil
}

// CellAt parses a coordinate such as "C1" and returns its cell.
func (s *Stack) CellAt(value string) (*flowcell.FlowCell, error) {
	coord, err := grid.Parse(value)
	if err != nil {
		return nil, err
	}
	return s.Cell(coord)
}

// LabelList returns the labels of every cell not marked OUT_OF_SPEC, in
// row-major order.
func (s *Stack) LabelList() []string {
	labels := make([]string, 0, len(s.order))
	for _, cell := range s.Cells() {
		if cell.Status() == flowcell.StatusOutOfSpec {
			continue
		}
		labels = append(labels, cell.Label())
	}
	return labels
}

// Mkdirs creates the directory of every cell not marked OUT_OF_SPEC. It keeps
// going after a failure and returns all failures joined.
func (s *Stack) Mkdirs() error {
	var errs []error
	created := 0
	for _, cell := range s.Cells() {
		if cell.Status() == flowcell.StatusOutOfSpec {
			continue
		}
		if err := cell.Mkdir(); err != nil {
			errs = append(errs, err)
			continue
		}
		created++
	}
	if len(errs) > 0 {
		logging.ErrorWithContext(s.logger, "failed to create cell directories", "stack_mkdirs_failed",
			logging.Int("failed", len(errs)),
			logging.Int("created", created),
			logging.String(logging.FieldErrorHint, "check permissions under "+s.dir),
		)
		return errors.Join(errs...)
	}
	s.logger.Debug("cell directories ready", logging.Int("count", created))
	return nil
}

// Counts tallies cells per status.
func (s *Stack) Counts() map[flowcell.Status]int {
	counts := make(map[flowcell.Status]int, 3)
	for _, status := range flowcell.AllStatuses() {
		counts[status] = 0
	}
	for _, cell := range s.cells {
		counts[cell.Status()]++
	}
	return counts
}
