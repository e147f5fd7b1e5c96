package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"camflow/internal/fileutil"
)

// writeJSON encodes v as indented JSON to the command's stdout. Question
// text is written verbatim rather than HTML-escaped.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := encodeIndented(v)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// writeJSONFile replaces path with the indented JSON encoding of v.
func writeJSONFile(path string, v any) error {
	data, err := encodeIndented(v)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}
