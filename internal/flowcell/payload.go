package flowcell

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ReportMeta carries the fixed fields identifying the submitter and report.
type ReportMeta struct {
	LastEditedBy int
	ReportID     int
	Status       string
}

// DefaultReportMeta returns the metadata used when none is configured.
func DefaultReportMeta() ReportMeta {
	return ReportMeta{LastEditedBy: 7, ReportID: 51, Status: "OK"}
}

// Payload is the report structure handed to the external reporting service.
// Answers maps every question to its bool answer and "picture1".."picture3"
// to a base64 string, or nil when the photograph is missing.
type Payload struct {
	Answers      map[string]any `json:"answers"`
	LastEditedBy int            `json:"last_edited_by"`
	ReportID     int            `json:"reportID"`
	Status       string         `json:"status"`
}

// EncodedImage returns the base64 encoding of the slot's JPEG. ok is false
// when the file does not exist; that is not an error.
func (c *FlowCell) EncodedImage(slot Slot) (encoded string, ok bool, err error) {
	if slot.payloadKey() == "" {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownSlot, string(slot))
	}
	data, err := os.ReadFile(c.ImagePath(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", slot.FileName(), err)
	}
	return base64.StdEncoding.EncodeToString(data), true, nil
}

// Payload assembles the report for the current in-memory state. It reads
// image files but writes nothing.
func (c *FlowCell) Payload(meta ReportMeta) (Payload, error) {
	answers := make(map[string]any, len(c.questions)+len(allSlots))
	for q, v := range c.questions {
		answers[q] = v
	}
	for _, slot := range allSlots {
		encoded, ok, err := c.EncodedImage(slot)
		if err != nil {
			return Payload{}, err
		}
		if ok {
			answers[slot.payloadKey()] = encoded
		} else {
			answers[slot.payloadKey()] = nil
		}
	}
	return Payload{
		Answers:      answers,
		LastEditedBy: meta.LastEditedBy,
		ReportID:     meta.ReportID,
		Status:       meta.Status,
	}, nil
}
