package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Rows lists the stack's row letters from top to bottom.
const Rows = "ABCDEFGHIJKL"

const (
	// MinColumn is the first column number.
	MinColumn = 1
	// MaxColumn is the last column number.
	MaxColumn = 8
)

// Size is the number of coordinates in a stack.
const Size = len(Rows) * MaxColumn

// ErrUnknownCoordinate reports a coordinate outside the fixed grid.
var ErrUnknownCoordinate = errors.New("unknown coordinate")

// Coordinate identifies a position in the stack grid.
type Coordinate struct {
	Row    byte
	Column int
}

// At builds a coordinate from a row letter and column number. It does not
// validate; use Valid or Parse for untrusted input.
func At(row byte, column int) Coordinate {
	return Coordinate{Row: row, Column: column}
}

// String renders the coordinate as row letter followed by column, e.g. "C1".
func (c Coordinate) String() string {
	return string(c.Row) + strconv.Itoa(c.Column)
}

// RowIndex returns the zero-based index of the row letter, or -1.
func (c Coordinate) RowIndex() int {
	return strings.IndexByte(Rows, c.Row)
}

// Valid reports whether c lies inside the 12x8 grid.
func (c Coordinate) Valid() bool {
	return c.RowIndex() >= 0 && c.Column >= MinColumn && c.Column <= MaxColumn
}

// Columns returns the column numbers in order.
func Columns() []int {
	cols := make([]int, 0, MaxColumn)
	for col := MinColumn; col <= MaxColumn; col++ {
		cols = append(cols, col)
	}
	return cols
}

// All returns every coordinate in row-major order.
func All() []Coordinate {
	coords := make([]Coordinate, 0, Size)
	for i := 0; i < len(Rows); i++ {
		for col := MinColumn; col <= MaxColumn; col++ {
			coords = append(coords, Coordinate{Row: Rows[i], Column: col})
		}
	}
	return coords
}

// Parse reads a coordinate such as "C1" or "c1". Only the canonical form is
// accepted: "A01" and "A+1" are rejected.
func Parse(value string) (Coordinate, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if len(trimmed) < 2 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrUnknownCoordinate, value)
	}
	col, err := strconv.Atoi(trimmed[1:])
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrUnknownCoordinate, value)
	}
	c := Coordinate{Row: trimmed[0], Column: col}
	if !c.Valid() || c.String() != trimmed {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrUnknownCoordinate, value)
	}
	return c, nil
}

// Move offsets c by dx columns and dy rows, clamping both axes to the grid.
// Movement never wraps around an edge.
func Move(c Coordinate, dx, dy int) Coordinate {
	col := clamp(c.Column+dx, MinColumn, MaxColumn)
	row := clamp(c.RowIndex()+dy, 0, len(Rows)-1)
	return Coordinate{Row: Rows[row], Column: col}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// alwaysMissing holds the corner positions that never carry a device on the
// physical hardware.
var alwaysMissing = []Coordinate{
	{'A', 1}, {'A', 2}, {'B', 1},
	{'A', 7}, {'A', 8}, {'B', 8},
	{'K', 1}, {'L', 1}, {'L', 2},
	{'K', 8}, {'L', 7}, {'L', 8},
}

// AlwaysMissing returns the fixed set of physically absent positions.
func AlwaysMissing() []Coordinate {
	out := make([]Coordinate, len(alwaysMissing))
	copy(out, alwaysMissing)
	return out
}

// IsAlwaysMissing reports whether c is one of the physically absent positions.
func IsAlwaysMissing(c Coordinate) bool {
	for _, m := range alwaysMissing {
		if m == c {
			return true
		}
	}
	return false
}
