package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"camflow/internal/flowcell"
	"camflow/internal/grid"
	"camflow/internal/watch"
)

func TestWatchFollowsNavigation(t *testing.T) {
	env := setupCLITestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	stdin := strings.NewReader("l\nj\nnowhere\n")
	out, stderr, err := runCLI(t, ctx, stdin, []string{"watch", "--interval", "20ms"}, env.configPath)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	requireContains(t, out, "SOMESTACK-D2Q")
	requireContains(t, out, "answers 0/5")
	requireContains(t, stderr, `ignored "nowhere"`)
}

func TestWatchEditsSelectedCell(t *testing.T) {
	env := setupCLITestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	out, stderr, err := runCLI(t, ctx, strings.NewReader("2\nt\n7\n"), []string{"watch", "--interval", "20ms"}, env.configPath)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	requireContains(t, out, "SOMESTACK-C1Q Q2: yes")
	requireContains(t, out, "SOMESTACK-C1Q: OUT_OF_SPEC")
	requireContains(t, stderr, `ignored "7"`)

	cellDir := filepath.Join(env.stackDir("SOMESTACK"), "SOMESTACK-C1Q")
	data, err := os.ReadFile(filepath.Join(cellDir, "questions.json"))
	if err != nil {
		t.Fatalf("questions.json not written: %v", err)
	}
	var answers map[string]bool
	if err := json.Unmarshal(data, &answers); err != nil {
		t.Fatal(err)
	}
	q2, _ := flowcell.QuestionAt(2)
	q1, _ := flowcell.QuestionAt(1)
	if !answers[q2] || answers[q1] {
		t.Fatalf("unexpected saved answers %v", answers)
	}
	state, err := os.ReadFile(filepath.Join(cellDir, ".state"))
	if err != nil {
		t.Fatalf(".state not written: %v", err)
	}
	if string(state) != `"OUT_OF_SPEC"` {
		t.Fatalf(".state = %s", state)
	}
}

func TestWatchWritesLabelsAndPayload(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, "cell", "status", "D4", "OUT_OF_SPEC"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	out, _, err := runCLI(t, ctx, strings.NewReader("p\nw\n"), []string{"watch", "--interval", "20ms"}, env.configPath)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	requireContains(t, out, "Wrote 83 labels to ")
	requireContains(t, out, `"reportID": 51`)
	requireContains(t, out, `"picture1": null`)

	data, err := os.ReadFile(filepath.Join(env.stackDir("SOMESTACK"), "labels.txt"))
	if err != nil {
		t.Fatalf("labels.txt not written: %v", err)
	}
	if strings.Contains(string(data), "SOMESTACK-D4Q") {
		t.Fatal("labels.txt lists a cell saved as out of spec")
	}
}

func TestWatchRefusesEditOfUnusableCell(t *testing.T) {
	env := setupCLITestEnv(t)

	cellDir := filepath.Join(env.stackDir("SOMESTACK"), "SOMESTACK-C1Q")
	if err := os.MkdirAll(cellDir, 0o755); err != nil {
		t.Fatal(err)
	}
	questionsPath := filepath.Join(cellDir, "questions.json")
	if err := os.WriteFile(questionsPath, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, stderr, err := runCLI(t, ctx, strings.NewReader("1\n"), []string{"watch", "--interval", "20ms"}, env.configPath)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	requireContains(t, stderr, "is unusable")
	data, _ := os.ReadFile(questionsPath)
	if string(data) != "{broken" {
		t.Fatalf("unusable file overwritten: %q", data)
	}
}

func TestWatchQuitsOnQ(t *testing.T) {
	env := setupCLITestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	out, _, err := runCLI(t, ctx, strings.NewReader("E5\nq\n"), []string{"watch", "--cell", "B2"}, env.configPath)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Fatal("watch did not stop on q")
	}
	if !strings.Contains(out, "SOMESTACK-B2Q") && !strings.Contains(out, "SOMESTACK-E5Q") {
		t.Fatalf("expected a snapshot line, got %q", out)
	}
}

func TestWatchRejectsBadStartCell(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, context.Background(), nil, []string{"watch", "--cell", "Z9"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for out-of-grid start cell")
	}
}

func TestFormatSnapshot(t *testing.T) {
	snap := watch.Snapshot{
		Coordinate: grid.At('C', 1),
		Label:      "LOT42-C1Q",
		Status:     flowcell.StatusDone,
		Answers: []flowcell.Answer{
			{Number: 1, Value: true},
			{Number: 2},
			{Number: 3, Value: true},
		},
		Images: map[flowcell.Slot]bool{flowcell.SlotIslandBottom: true},
		Load:   flowcell.LoadResult{Outcome: flowcell.LoadCorrupt},
	}
	now := time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC)

	got := formatSnapshot(snap, now, false)
	want := "09:30:05 C1  LOT42-C1Q  Done  answers 2/3  images Island_bottom  (saved state unusable)"
	if got != want {
		t.Fatalf("formatSnapshot mismatch\n got: %q\nwant: %q", got, want)
	}
}
