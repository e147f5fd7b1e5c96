package grid

import (
	"errors"
	"testing"
)

func TestAllIsRowMajor(t *testing.T) {
	coords := All()
	if len(coords) != 96 {
		t.Fatalf("expected 96 coordinates, got %d", len(coords))
	}
	if coords[0] != At('A', 1) {
		t.Fatalf("first coordinate = %s, want A1", coords[0])
	}
	if coords[1] != At('A', 2) {
		t.Fatalf("second coordinate = %s, want A2", coords[1])
	}
	if coords[8] != At('B', 1) {
		t.Fatalf("ninth coordinate = %s, want B1", coords[8])
	}
	if coords[95] != At('L', 8) {
		t.Fatalf("last coordinate = %s, want L8", coords[95])
	}
	seen := make(map[Coordinate]struct{}, len(coords))
	for _, c := range coords {
		if !c.Valid() {
			t.Fatalf("coordinate %s reported invalid", c)
		}
		if _, dup := seen[c]; dup {
			t.Fatalf("duplicate coordinate %s", c)
		}
		seen[c] = struct{}{}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Coordinate
		wantErr bool
	}{
		{in: "C1", want: At('C', 1)},
		{in: " c1 ", want: At('C', 1)},
		{in: "L8", want: At('L', 8)},
		{in: "M1", wantErr: true},
		{in: "A0", wantErr: true},
		{in: "A9", wantErr: true},
		{in: "A", wantErr: true},
		{in: "", wantErr: true},
		{in: "AX", wantErr: true},
		{in: "A01", wantErr: true},
		{in: "A+1", wantErr: true},
		{in: "c+8", wantErr: true},
		{in: "B-2", wantErr: true},
		{in: "C 1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownCoordinate) {
				t.Errorf("Parse(%q) error = %v, want ErrUnknownCoordinate", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMoveClampsInsteadOfWrapping(t *testing.T) {
	tests := []struct {
		name   string
		from   Coordinate
		dx, dy int
		want   Coordinate
	}{
		{name: "left edge", from: At('A', 1), dx: -1, want: At('A', 1)},
		{name: "bottom edge", from: At('L', 1), dy: 1, want: At('L', 1)},
		{name: "top edge", from: At('A', 4), dy: -1, want: At('A', 4)},
		{name: "right edge", from: At('C', 8), dx: 1, want: At('C', 8)},
		{name: "interior right", from: At('C', 1), dx: 1, want: At('C', 2)},
		{name: "interior down", from: At('C', 1), dy: 1, want: At('D', 1)},
		{name: "large jump", from: At('F', 4), dx: 20, dy: -20, want: At('A', 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Move(tt.from, tt.dx, tt.dy); got != tt.want {
				t.Fatalf("Move(%s, %d, %d) = %s, want %s", tt.from, tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestAlwaysMissing(t *testing.T) {
	missing := AlwaysMissing()
	if len(missing) != 12 {
		t.Fatalf("expected 12 always-missing coordinates, got %d", len(missing))
	}
	for _, c := range missing {
		if !c.Valid() {
			t.Fatalf("always-missing coordinate %s is outside the grid", c)
		}
		if !IsAlwaysMissing(c) {
			t.Fatalf("IsAlwaysMissing(%s) = false", c)
		}
	}
	if IsAlwaysMissing(At('C', 1)) {
		t.Fatal("C1 should not be always missing")
	}

	missing[0] = At('C', 1)
	if IsAlwaysMissing(At('C', 1)) {
		t.Fatal("mutating the returned slice must not change the fixed set")
	}
}

func TestCoordinateString(t *testing.T) {
	if got := At('K', 7).String(); got != "K7" {
		t.Fatalf("String() = %q, want K7", got)
	}
}
