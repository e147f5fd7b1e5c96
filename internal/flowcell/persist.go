package flowcell

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"camflow/internal/fileutil"
	"camflow/internal/logging"
)

// LoadOutcome classifies what Load found on disk.
type LoadOutcome int

const (
	// LoadOK means both files were valid and replaced the in-memory state.
	LoadOK LoadOutcome = iota
	// LoadNotFound means nothing was saved yet; the in-memory state is kept.
	LoadNotFound
	// LoadCorrupt means saved files exist but could not be used; the
	// in-memory state is kept.
	LoadCorrupt
)

func (o LoadOutcome) String() string {
	switch o {
	case LoadOK:
		return "loaded"
	case LoadNotFound:
		return "not_found"
	case LoadCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("LoadOutcome(%d)", int(o))
	}
}

// LoadResult reports the outcome of Load. Err is set only for LoadCorrupt.
type LoadResult struct {
	Outcome LoadOutcome
	Err     error
}

// QuestionsPath is the location of the saved checklist.
func (c *FlowCell) QuestionsPath() string {
	return filepath.Join(c.dir, questionsFile)
}

// StatePath is the location of the saved status.
func (c *FlowCell) StatePath() string {
	return filepath.Join(c.dir, stateFile)
}

// Dump writes questions.json and then .state. Each file is replaced
// atomically so a concurrent Load never sees a partial write, and unchanged
// state produces byte-identical files. The pair is not replaced as a unit:
// when the .state write fails after questions.json succeeded, the disk holds
// the new answers beside the previous status (or beside whatever blocks the
// .state path, which Load then reports as corrupt). The error names the file
// that failed; calling Dump again once the cause is cleared rewrites both.
func (c *FlowCell) Dump() error {
	questions, err := encodeJSON(c.questions, "    ")
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	state, err := encodeJSON(string(c.status), "")
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	if err := c.Mkdir(); err != nil {
		c.logDumpFailure(c.dir, err)
		return err
	}
	if err := fileutil.WriteFileAtomic(c.QuestionsPath(), questions, 0o644); err != nil {
		c.logDumpFailure(c.QuestionsPath(), err)
		return fmt.Errorf("write %s: %w", c.QuestionsPath(), err)
	}
	if err := fileutil.WriteFileAtomic(c.StatePath(), state, 0o644); err != nil {
		c.logDumpFailure(c.StatePath(), err)
		return fmt.Errorf("write %s: %w", c.StatePath(), err)
	}

	c.logger.Debug("flow cell saved", logging.String("status", string(c.status)))
	return nil
}

// Load replaces the in-memory answers and status with the saved ones. It
// never fails: when nothing is saved, or the saved files are unusable, the
// current state is kept and the outcome says why.
func (c *FlowCell) Load() LoadResult {
	questionsData, err := os.ReadFile(c.QuestionsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Outcome: LoadNotFound}
		}
		return c.corrupt(fmt.Errorf("read %s: %w", questionsFile, err))
	}

	var answers map[string]bool
	if err := json.Unmarshal(questionsData, &answers); err != nil {
		return c.corrupt(fmt.Errorf("parse %s: %w", questionsFile, err))
	}
	if err := checkKeySet(answers); err != nil {
		return c.corrupt(fmt.Errorf("%s: %w", questionsFile, err))
	}

	stateData, err := os.ReadFile(c.StatePath())
	if err != nil {
		return c.corrupt(fmt.Errorf("read %s: %w", stateFile, err))
	}
	var name string
	if err := json.Unmarshal(stateData, &name); err != nil {
		return c.corrupt(fmt.Errorf("parse %s: %w", stateFile, err))
	}
	status, err := ParseStatus(name)
	if err != nil || string(status) != name {
		return c.corrupt(fmt.Errorf("%s: %w: %q", stateFile, ErrUnknownStatus, name))
	}

	c.questions = answers
	c.status = status
	return LoadResult{Outcome: LoadOK}
}

func (c *FlowCell) corrupt(err error) LoadResult {
	logging.WarnWithContext(c.logger, "saved flow cell state unusable", "cell_load_corrupt",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "inspect or delete the files in "+c.dir),
		logging.String(logging.FieldImpact, "in-memory answers and status kept"),
	)
	return LoadResult{Outcome: LoadCorrupt, Err: err}
}

func (c *FlowCell) logDumpFailure(path string, err error) {
	logging.ErrorWithContext(c.logger, "failed to save flow cell", "cell_dump_failed",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions and free space under "+filepath.Dir(path)),
	)
}

// encodeJSON marshals v with sorted map keys and without HTML escaping or a
// trailing newline.
func encodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
