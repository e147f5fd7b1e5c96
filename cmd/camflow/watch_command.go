package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"camflow/internal/flowcell"
	"camflow/internal/grid"
	"camflow/internal/stack"
	"camflow/internal/watch"
)

// navigation maps single-key commands read from stdin to grid offsets.
var navigation = map[string][2]int{
	"h": {-1, 0},
	"l": {1, 0},
	"k": {0, -1},
	"j": {0, 1},
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var cellFlag string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow one cell and print it whenever it changes on disk",
		Long: `Follow one cell and print it whenever it changes on disk.

While watching, type a line on stdin to move the selection or edit the
selected cell:
  h / l      previous / next column
  k / j      previous / next row
  C4         jump to a cell
  1 .. 5     flip the answer to that question and save
  t          switch between out of spec and in progress and save
  p          write labels.txt for the stack
  w          print the report payload of the selected cell
  q          stop watching`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			s, err := ctx.openStack()
			if err != nil {
				return err
			}

			initialValue := cfg.Stack.InitialCell
			if cellFlag != "" {
				initialValue = cellFlag
			}
			initial, err := grid.Parse(initialValue)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				interval = cfg.PollInterval()
			}

			w, err := watch.New(s, watch.Options{
				Interval: interval,
				Initial:  initial,
				LockPath: cfg.WatchLockPath(s.Name()),
				Logger:   ctx.loggerValue(),
			})
			if err != nil {
				return err
			}

			base := cmd.Context()
			if base == nil {
				base = context.Background()
			}
			runCtx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
			defer stop()
			runCtx, cancel := context.WithCancel(runCtx)
			defer cancel()

			out := cmd.OutOrStdout()
			input := &watchInput{
				watcher: w,
				meta:    ctx.reportMeta(),
				out:     out,
				errOut:  cmd.ErrOrStderr(),
				quit:    cancel,
			}
			go input.read(cmd.InOrStdin())

			colorize := shouldColorize(out)
			return w.Run(runCtx, func(snap watch.Snapshot) {
				input.printf("%s\n", formatSnapshot(snap, time.Now(), colorize))
			})
		},
	}

	cmd.Flags().StringVar(&cellFlag, "cell", "", "Cell to start on (defaults to stack.initial_cell)")
	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultInterval, "Refresh interval")
	return cmd
}

// watchInput applies the commands typed while watching. Output from the
// command reader and the refresh loop shares one mutex so lines never
// interleave.
type watchInput struct {
	watcher *watch.Watcher
	meta    flowcell.ReportMeta
	out     io.Writer
	errOut  io.Writer
	quit    context.CancelFunc

	mu sync.Mutex
}

// read applies lines from r until EOF or "q". Reaching EOF leaves the
// watcher running.
func (in *watchInput) read(r io.Reader) {
	if r == nil {
		return
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "q") {
			in.quit()
			return
		}
		if err := in.apply(strings.ToLower(line)); err != nil {
			in.mu.Lock()
			fmt.Fprintf(in.errOut, "ignored %q: %v\n", line, err)
			in.mu.Unlock()
		}
	}
}

func (in *watchInput) apply(line string) error {
	if step, ok := navigation[line]; ok {
		in.watcher.Move(step[0], step[1])
		return nil
	}
	switch line {
	case "t":
		return in.toggleStatus()
	case "p":
		return in.writeLabels()
	case "w":
		return in.printPayload()
	}
	if number, err := strconv.Atoi(line); err == nil && len(line) == 1 {
		return in.toggleAnswer(number)
	}
	coord, err := grid.Parse(line)
	if err != nil {
		return err
	}
	return in.watcher.Select(coord)
}

func (in *watchInput) printf(format string, args ...any) {
	in.mu.Lock()
	defer in.mu.Unlock()
	fmt.Fprintf(in.out, format, args...)
}

// editActive reloads the selected cell before fn runs, so an edit starts
// from what is on disk and never overwrites unusable saved state.
func (in *watchInput) editActive(fn func(*flowcell.FlowCell) error) error {
	return in.watcher.WithActive(func(cell *flowcell.FlowCell) error {
		if res := cell.Load(); res.Outcome == flowcell.LoadCorrupt {
			return fmt.Errorf("saved state of %s is unusable: %w", cell.Label(), res.Err)
		}
		return fn(cell)
	})
}

func (in *watchInput) toggleAnswer(number int) error {
	question, err := flowcell.QuestionAt(number)
	if err != nil {
		return err
	}
	return in.editActive(func(cell *flowcell.FlowCell) error {
		value, err := cell.ToggleAnswer(question)
		if err != nil {
			return err
		}
		if err := cell.Dump(); err != nil {
			return err
		}
		in.printf("%s Q%d: %s\n", cell.Label(), number, yesNo(value))
		return nil
	})
}

func (in *watchInput) toggleStatus() error {
	return in.editActive(func(cell *flowcell.FlowCell) error {
		next := toggledStatus(cell.Status())
		if next == cell.Status() {
			in.printf("%s: %s (unchanged)\n", cell.Label(), next)
			return nil
		}
		if err := cell.SetStatus(next); err != nil {
			return err
		}
		if err := cell.Dump(); err != nil {
			return err
		}
		in.printf("%s: %s\n", cell.Label(), next)
		return nil
	})
}

// writeLabels reloads every cell first so statuses saved by other commands
// decide which labels are listed.
func (in *watchInput) writeLabels() error {
	return in.watcher.WithStack(func(s *stack.Stack) error {
		s.Reload()
		path, err := s.WriteLabels()
		if err != nil {
			return err
		}
		in.printf("Wrote %d labels to %s\n", len(s.LabelList()), path)
		return nil
	})
}

func (in *watchInput) printPayload() error {
	return in.editActive(func(cell *flowcell.FlowCell) error {
		payload, err := cell.Payload(in.meta)
		if err != nil {
			return err
		}
		data, err := encodeIndented(payload)
		if err != nil {
			return err
		}
		in.mu.Lock()
		defer in.mu.Unlock()
		_, err = in.out.Write(data)
		return err
	})
}

func formatSnapshot(snap watch.Snapshot, now time.Time, colorize bool) string {
	status := paint(statusColor(snap.Status), snap.Status.DisplayName(), colorize)
	line := fmt.Sprintf("%s %-3s %s  %s  answers %d/%d  images %s",
		now.Format("15:04:05"),
		snap.Coordinate,
		snap.Label,
		status,
		yesCount(snap.Answers),
		len(snap.Answers),
		imageSummary(snap.Images),
	)
	if snap.Load.Outcome == flowcell.LoadCorrupt {
		line += "  " + paint(statusKindColor(statusError), "(saved state unusable)", colorize)
	}
	return line
}
