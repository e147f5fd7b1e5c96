package stack

import (
	"path/filepath"
	"strings"

	"camflow/internal/fileutil"
	"camflow/internal/flowcell"
	"camflow/internal/grid"
	"camflow/internal/logging"
)

const labelsFile = "labels.txt"

// ReloadSummary counts the Load outcomes of a full stack refresh.
type ReloadSummary struct {
	Loaded       int
	NotFound     int
	Corrupt      int
	CorruptCells []grid.Coordinate
}

// Reload loads every cell from disk. Cells without saved state keep their
// current values, as do cells whose files are unusable.
func (s *Stack) Reload() ReloadSummary {
	var summary ReloadSummary
	for _, coord := range s.order {
		res := s.cells[coord].Load()
		switch res.Outcome {
		case flowcell.LoadOK:
			summary.Loaded++
		case flowcell.LoadNotFound:
			summary.NotFound++
		case flowcell.LoadCorrupt:
			summary.Corrupt++
			summary.CorruptCells = append(summary.CorruptCells, coord)
		}
	}
	s.logger.Debug("stack reloaded",
		logging.Int("loaded", summary.Loaded),
		logging.Int("not_found", summary.NotFound),
		logging.Int("corrupt", summary.Corrupt),
	)
	return summary
}

// LabelsPath is the location of the printable label list.
func (s *Stack) LabelsPath() string {
	return filepath.Join(s.dir, labelsFile)
}

// WriteLabels creates the directories of all in-spec cells and replaces
// labels.txt with one label per line. It returns the file path.
func (s *Stack) WriteLabels() (string, error) {
	if err := s.Mkdirs(); err != nil {
		return "", err
	}
	labels := s.LabelList()
	content := strings.Join(labels, "\n")
	if len(labels) > 0 {
		content += "\n"
	}
	path := s.LabelsPath()
	if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		logging.ErrorWithContext(s.logger, "failed to write label list", "stack_labels_failed",
			logging.String("path", path),
			logging.Error(err),
		)
		return "", err
	}
	s.logger.Info("label list written",
		logging.String("path", path),
		logging.Int("labels", len(labels)),
	)
	return path, nil
}
