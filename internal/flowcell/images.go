package flowcell

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSlot reports an image slot outside the three known slots.
var ErrUnknownSlot = errors.New("unknown image slot")

// Slot names one inspection photograph of a cell.
type Slot string

const (
	SlotIslandTop    Slot = "Island_top"
	SlotIslandBottom Slot = "Island_bottom"
	SlotOther        Slot = "Other"
)

var allSlots = []Slot{SlotIslandTop, SlotIslandBottom, SlotOther}

// Slots returns the image slots in payload order.
func Slots() []Slot {
	out := make([]Slot, len(allSlots))
	copy(out, allSlots)
	return out
}

// ParseSlot matches a slot name case-insensitively.
func ParseSlot(value string) (Slot, error) {
	trimmed := strings.TrimSpace(value)
	for _, s := range allSlots {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, value)
}

// FileName is the JPEG file name of the slot inside a cell directory.
func (s Slot) FileName() string {
	return string(s) + ".jpg"
}

// payloadKey returns the "pictureN" key used in report payloads.
func (s Slot) payloadKey() string {
	for i, known := range allSlots {
		if s == known {
			return fmt.Sprintf("picture%d", i+1)
		}
	}
	return ""
}
