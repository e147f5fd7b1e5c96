package stack

import (
	"strconv"
	"strings"

	"camflow/internal/grid"
)

// StateMatrix renders the status glyph of every cell as a text grid:
//
//	   1 2 3 4 5 6 7 8
//	A  X X . . . . X X
//	B  X . . . . . . X
//	...
func (s *Stack) StateMatrix() string {
	var b strings.Builder
	b.WriteString("  ")
	for _, col := range grid.Columns() {
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(col))
	}
	b.WriteString("\n")

	for i := 0; i < len(grid.Rows); i++ {
		row := grid.Rows[i]
		b.WriteByte(row)
		b.WriteString(" ")
		for _, col := range grid.Columns() {
			b.WriteString(" ")
			b.WriteString(s.cells[grid.At(row, col)].Status().Glyph())
		}
		b.WriteString("\n")
	}
	return b.String()
}
