package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"camflow/internal/fileutil"
	"camflow/internal/flowcell"
)

var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

func newCellCommand(ctx *commandContext) *cobra.Command {
	cellCmd := &cobra.Command{
		Use:   "cell",
		Short: "Inspect and edit a single flow cell",
	}

	cellCmd.AddCommand(newCellShowCommand(ctx))
	cellCmd.AddCommand(newCellAnswerCommand(ctx))
	cellCmd.AddCommand(newCellStatusCommand(ctx))
	cellCmd.AddCommand(newCellToggleCommand(ctx))
	cellCmd.AddCommand(newCellImagePathCommand(ctx))
	cellCmd.AddCommand(newCellImportImageCommand(ctx))
	cellCmd.AddCommand(newCellPayloadCommand(ctx))

	return cellCmd
}

type cellJSON struct {
	Coordinate string          `json:"coordinate"`
	Label      string          `json:"label"`
	Status     flowcell.Status `json:"status"`
	Dir        string          `json:"dir"`
	Answers    []answerJSON    `json:"answers"`
	Images     map[string]bool `json:"images"`
}

type answerJSON struct {
	Number   int    `json:"number"`
	Question string `json:"question"`
	Answer   bool   `json:"answer"`
}

func newCellShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <cell>",
		Short: "Show status, answers, and photographs of a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cell, err := ctx.openCell(cmd, args[0], true)
			if err != nil {
				return err
			}
			images := cell.ImageStatus()

			if asJSON {
				view := cellJSON{
					Coordinate: cell.Position().String(),
					Label:      cell.Label(),
					Status:     cell.Status(),
					Dir:        cell.Dir(),
					Images:     make(map[string]bool, len(images)),
				}
				for _, a := range cell.Answers() {
					view.Answers = append(view.Answers, answerJSON{Number: a.Number, Question: a.Question, Answer: a.Value})
				}
				for slot, present := range images {
					view.Images[string(slot)] = present
				}
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader(cell.Label(), colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "Status: %s\n\n", paint(statusColor(cell.Status()), cell.Status().DisplayName(), colorize))

			rows := make([][]string, 0, 5)
			for _, a := range cell.Answers() {
				rows = append(rows, []string{strconv.Itoa(a.Number), a.Question, yesNo(a.Value)})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Question", "Answer"}, rows, []columnAlignment{alignRight, alignLeft, alignCenter}))
			fmt.Fprintln(out)

			for _, slot := range flowcell.Slots() {
				kind, detail := statusWarn, "missing"
				if images[slot] {
					kind, detail = statusOK, cell.ImagePath(slot)
				}
				fmt.Fprintln(out, renderStatusLine(string(slot), kind, detail, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCellAnswerCommand(ctx *commandContext) *cobra.Command {
	var setValue string
	var force bool

	cmd := &cobra.Command{
		Use:   "answer <cell> <question-number>",
		Short: "Toggle or set the answer to a checklist question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("question number %q: %w", args[1], flowcell.ErrUnknownQuestion)
			}
			question, err := flowcell.QuestionAt(number)
			if err != nil {
				return err
			}
			cell, err := ctx.openCell(cmd, args[0], force)
			if err != nil {
				return err
			}

			var value bool
			if cmd.Flags().Changed("set") {
				value, err = strconv.ParseBool(setValue)
				if err != nil {
					return fmt.Errorf("--set: %w", err)
				}
				if err := cell.SetAnswer(question, value); err != nil {
					return err
				}
			} else {
				value, err = cell.ToggleAnswer(question)
				if err != nil {
					return err
				}
			}
			if err := cell.Dump(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Q%d: %s\n", cell.Label(), number, yesNo(value))
			return nil
		},
	}

	cmd.Flags().StringVar(&setValue, "set", "", "Set the answer (true or false) instead of toggling it")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite unusable saved state")
	return cmd
}

func newCellStatusCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "status <cell> <OUT_OF_SPEC|IN_PROGRESS|DONE>",
		Short: "Set the inspection status of a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := flowcell.ParseStatus(args[1])
			if err != nil {
				return err
			}
			cell, err := ctx.openCell(cmd, args[0], force)
			if err != nil {
				return err
			}
			if err := cell.SetStatus(status); err != nil {
				return err
			}
			if err := cell.Dump(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cell.Label(), status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite unusable saved state")
	return cmd
}

// toggledStatus flips between OUT_OF_SPEC and IN_PROGRESS. DONE is left
// alone; it is only changed by an explicit status assignment.
func toggledStatus(current flowcell.Status) flowcell.Status {
	switch current {
	case flowcell.StatusOutOfSpec:
		return flowcell.StatusInProgress
	case flowcell.StatusInProgress:
		return flowcell.StatusOutOfSpec
	default:
		return current
	}
}

func newCellToggleCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "toggle <cell>",
		Short: "Switch a cell between out of spec and in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cell, err := ctx.openCell(cmd, args[0], force)
			if err != nil {
				return err
			}
			next := toggledStatus(cell.Status())
			if next == cell.Status() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (unchanged)\n", cell.Label(), next)
				return nil
			}
			if err := cell.SetStatus(next); err != nil {
				return err
			}
			if err := cell.Dump(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cell.Label(), next)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite unusable saved state")
	return cmd
}

func newCellImagePathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "image-path <cell> <Island_top|Island_bottom|Other>",
		Short: "Print where the capture tool should save a photograph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := flowcell.ParseSlot(args[1])
			if err != nil {
				return err
			}
			s, err := ctx.openStack()
			if err != nil {
				return err
			}
			cell, err := s.CellAt(args[0])
			if err != nil {
				return err
			}
			if err := cell.Mkdir(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cell.ImagePath(slot))
			return nil
		},
	}
}

func newCellImportImageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import-image <cell> <Island_top|Island_bottom|Other> <file>",
		Short: "Copy a JPEG into a photograph slot of a cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := flowcell.ParseSlot(args[1])
			if err != nil {
				return err
			}
			if err := checkJPEG(args[2]); err != nil {
				return err
			}
			s, err := ctx.openStack()
			if err != nil {
				return err
			}
			cell, err := s.CellAt(args[0])
			if err != nil {
				return err
			}
			target := cell.ImagePath(slot)
			if err := fileutil.PublishFile(args[2], target); err != nil {
				return fmt.Errorf("import %s: %w", args[2], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s to %s\n", args[2], target)
			return nil
		},
	}
}

func checkJPEG(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	head := make([]byte, len(jpegMagic))
	if _, err := f.Read(head); err != nil || !bytes.Equal(head, jpegMagic) {
		return fmt.Errorf("%s is not a JPEG file", path)
	}
	return nil
}

func newCellPayloadCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "payload <cell>",
		Short: "Print the report payload of a cell as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cell, err := ctx.openCell(cmd, args[0], false)
			if err != nil {
				return err
			}
			payload, err := cell.Payload(ctx.reportMeta())
			if err != nil {
				return err
			}
			if output != "" {
				if err := writeJSONFile(output, payload); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote payload of %s to %s\n", cell.Label(), output)
				return nil
			}
			return writeJSON(cmd, payload)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the payload to a file instead of stdout")
	return cmd
}
