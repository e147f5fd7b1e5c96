package flowcell

import (
	"errors"
	"fmt"
)

// ErrUnknownQuestion reports a question outside the fixed checklist.
var ErrUnknownQuestion = errors.New("unknown question")

// defaultQuestions is the inspection checklist in display order. Every cell
// starts with all answers false.
var defaultQuestions = [...]string{
	"Are the electrodes in the measurement channel damaged?",
	"Are there large visible particles, debris or artifacts near the electrodes in the measurement channel?",
	"Do the four white squares touch the middle white cross?",
	"Is there critical incomplete bond (within 20 µm of the boundary of the flow cell channel)?",
	"Is there damage on the inner channel boundary or is it not intact?",
}

// Answer is one checklist entry of a cell.
type Answer struct {
	Number   int
	Question string
	Value    bool
}

// Questions returns the checklist questions in display order.
func Questions() []string {
	out := make([]string, len(defaultQuestions))
	copy(out, defaultQuestions[:])
	return out
}

// QuestionAt returns the question with the given 1-based number.
func QuestionAt(number int) (string, error) {
	if number < 1 || number > len(defaultQuestions) {
		return "", fmt.Errorf("%w: number %d (valid 1-%d)", ErrUnknownQuestion, number, len(defaultQuestions))
	}
	return defaultQuestions[number-1], nil
}

// DefaultAnswers returns a fresh copy of the default answer table.
func DefaultAnswers() map[string]bool {
	answers := make(map[string]bool, len(defaultQuestions))
	for _, q := range defaultQuestions {
		answers[q] = false
	}
	return answers
}

func isKnownQuestion(question string) bool {
	for _, q := range defaultQuestions {
		if q == question {
			return true
		}
	}
	return false
}

// checkKeySet verifies answers has exactly the default questions as keys.
func checkKeySet(answers map[string]bool) error {
	var missing, extra []string
	for _, q := range defaultQuestions {
		if _, ok := answers[q]; !ok {
			missing = append(missing, q)
		}
	}
	for q := range answers {
		if !isKnownQuestion(q) {
			extra = append(extra, q)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return fmt.Errorf("question set mismatch: %d missing, %d unexpected", len(missing), len(extra))
}
