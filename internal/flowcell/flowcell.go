package flowcell

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"camflow/internal/grid"
	"camflow/internal/logging"
)

const (
	// DefaultModel is the model tag used when none is configured.
	DefaultModel = "Q"

	questionsFile = "questions.json"
	stateFile     = ".state"
)

// Options customizes a FlowCell at construction.
type Options struct {
	// Model is appended to the label; DefaultModel when empty.
	Model string
	// Logger receives persistence warnings and errors. Nil discards them.
	Logger *slog.Logger
}

// FlowCell holds the inspection record of one device in a stack: the
// checklist answers, the status, and the location of its photographs.
//
// A FlowCell is not safe for concurrent use.
type FlowCell struct {
	stackName string
	position  grid.Coordinate
	model     string
	dir       string

	questions map[string]bool
	status    Status

	logger *slog.Logger
}

// New creates a cell at position within the stack stored in stackDir. It
// performs no I/O.
func New(stackDir, stackName string, position grid.Coordinate, opts Options) *FlowCell {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	c := &FlowCell{
		stackName: stackName,
		position:  position,
		model:     model,
		questions: DefaultAnswers(),
		status:    StatusInProgress,
	}
	c.dir = filepath.Join(stackDir, c.Label())
	c.logger = logging.NewComponentLogger(opts.Logger, "flowcell").With(
		logging.String(logging.FieldCell, c.Label()),
	)
	return c
}

// Label is the unique identifier of the cell, e.g. "LOT42-C1Q".
func (c *FlowCell) Label() string {
	return fmt.Sprintf("%s-%s%s", c.stackName, c.position, c.model)
}

// Position returns the grid coordinate of the cell.
func (c *FlowCell) Position() grid.Coordinate { return c.position }

// Model returns the model tag.
func (c *FlowCell) Model() string { return c.model }

// Dir returns the directory holding the cell's files.
func (c *FlowCell) Dir() string { return c.dir }

// Status returns the current inspection status.
func (c *FlowCell) Status() Status { return c.status }

// SetStatus assigns any of the three statuses. Transitions are unconstrained;
// callers that want a toggle cycle implement it themselves.
func (c *FlowCell) SetStatus(status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, string(status))
	}
	c.status = status
	return nil
}

// Answer returns the answer to question.
func (c *FlowCell) Answer(question string) (bool, error) {
	value, ok := c.questions[question]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownQuestion, question)
	}
	return value, nil
}

// SetAnswer records the answer to one of the checklist questions.
func (c *FlowCell) SetAnswer(question string, value bool) error {
	if _, ok := c.questions[question]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, question)
	}
	c.questions[question] = value
	return nil
}

// ToggleAnswer flips the answer to question and returns the new value.
func (c *FlowCell) ToggleAnswer(question string) (bool, error) {
	value, err := c.Answer(question)
	if err != nil {
		return false, err
	}
	c.questions[question] = !value
	return !value, nil
}

// Answers returns the checklist in display order.
func (c *FlowCell) Answers() []Answer {
	out := make([]Answer, 0, len(defaultQuestions))
	for i, q := range defaultQuestions {
		out = append(out, Answer{Number: i + 1, Question: q, Value: c.questions[q]})
	}
	return out
}

// AnswerMap returns a copy of the question to answer mapping.
func (c *FlowCell) AnswerMap() map[string]bool {
	out := make(map[string]bool, len(c.questions))
	for q, v := range c.questions {
		out[q] = v
	}
	return out
}

// ImagePath returns the JPEG location of slot. It does not touch the disk.
func (c *FlowCell) ImagePath(slot Slot) string {
	return filepath.Join(c.dir, slot.FileName())
}

// ImageStatus reports, per slot, whether the JPEG currently exists. Each call
// checks the disk again so files dropped in by a capture tool show up without
// a reload.
func (c *FlowCell) ImageStatus() map[Slot]bool {
	status := make(map[Slot]bool, len(allSlots))
	for _, slot := range allSlots {
		info, err := os.Stat(c.ImagePath(slot))
		status[slot] = err == nil && !info.IsDir()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Debug("image stat failed",
				logging.String("slot", string(slot)),
				logging.Error(err))
		}
	}
	return status
}

// Mkdir creates the cell directory if it does not exist yet.
func (c *FlowCell) Mkdir() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cell directory %q: %w", c.dir, err)
	}
	return nil
}
