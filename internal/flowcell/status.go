package flowcell

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownStatus reports a status name outside the three known values.
var ErrUnknownStatus = errors.New("unknown status")

// Status represents the inspection state of a flow cell.
type Status string

const (
	// StatusOutOfSpec marks a cell that failed inspection or is physically absent.
	StatusOutOfSpec Status = "OUT_OF_SPEC"
	// StatusInProgress marks a cell still under inspection.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusDone marks a cell whose inspection is complete.
	StatusDone Status = "DONE"
)

var allStatuses = []Status{StatusOutOfSpec, StatusInProgress, StatusDone}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts a status name such as "DONE" or "in_progress".
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, s := range allStatuses {
		if string(s) == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Glyph returns the single-character matrix symbol for s.
func (s Status) Glyph() string {
	switch s {
	case StatusOutOfSpec:
		return "X"
	case StatusInProgress:
		return "."
	case StatusDone:
		return "O"
	default:
		return "?"
	}
}

// DisplayName renders s for humans, e.g. "Out Of Spec".
func (s Status) DisplayName() string {
	words := strings.ReplaceAll(strings.ToLower(string(s)), "_", " ")
	return cases.Title(language.Und).String(words)
}
