package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"camflow/internal/flowcell"
	"camflow/internal/grid"
	"camflow/internal/stack"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		return paint(statusKindColor(kind), base, true)
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) color.Attribute {
	switch kind {
	case statusOK:
		return color.FgGreen
	case statusWarn:
		return color.FgYellow
	case statusError:
		return color.FgRed
	default:
		return color.FgBlue
	}
}

func statusColor(status flowcell.Status) color.Attribute {
	switch status {
	case flowcell.StatusOutOfSpec:
		return color.FgRed
	case flowcell.StatusDone:
		return color.FgGreen
	default:
		return color.FgYellow
	}
}

// paint wraps s in the given color. Color is forced on or off explicitly so
// output does not depend on fatih/color's own terminal detection of stdout.
func paint(attr color.Attribute, s string, colorize bool) string {
	c := color.New(attr)
	if colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// renderMatrix draws the status matrix with one colored glyph per cell. The
// uncolored form is identical to Stack.StateMatrix.
func renderMatrix(s *stack.Stack, colorize bool) string {
	if !colorize {
		return s.StateMatrix()
	}
	var b strings.Builder
	b.WriteString("  ")
	for _, col := range grid.Columns() {
		fmt.Fprintf(&b, " %d", col)
	}
	b.WriteString("\n")
	for i := 0; i < len(grid.Rows); i++ {
		row := grid.Rows[i]
		b.WriteByte(row)
		b.WriteString(" ")
		for _, col := range grid.Columns() {
			cell, err := s.Cell(grid.At(row, col))
			if err != nil {
				continue
			}
			b.WriteString(" ")
			b.WriteString(paint(statusColor(cell.Status()), cell.Status().Glyph(), true))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderCounts(counts map[flowcell.Status]int, colorize bool) string {
	parts := make([]string, 0, len(counts))
	for _, status := range flowcell.AllStatuses() {
		label := fmt.Sprintf("%s: %d", status.DisplayName(), counts[status])
		parts = append(parts, paint(statusColor(status), label, colorize))
	}
	return strings.Join(parts, "  ")
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = paint(color.FgBlue, line, true)
		rule = paint(color.FgBlue, rule, true)
	}
	return []string{line, rule}
}

// imageSummary lists present slots in payload order, or "-" when none are.
func imageSummary(images map[flowcell.Slot]bool) string {
	var present []string
	for _, slot := range flowcell.Slots() {
		if images[slot] {
			present = append(present, string(slot))
		}
	}
	if len(present) == 0 {
		return "-"
	}
	return strings.Join(present, ",")
}

func yesCount(answers []flowcell.Answer) int {
	n := 0
	for _, a := range answers {
		if a.Value {
			n++
		}
	}
	return n
}

func coordinateList(coords []grid.Coordinate) string {
	names := make([]string, 0, len(coords))
	for _, c := range coords {
		names = append(names, c.String())
	}
	return strings.Join(names, " ")
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
