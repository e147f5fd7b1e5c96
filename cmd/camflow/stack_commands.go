package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"camflow/internal/flowcell"
	"camflow/internal/stack"
)

func newStackCommand(ctx *commandContext) *cobra.Command {
	stackCmd := &cobra.Command{
		Use:   "stack",
		Short: "Inspect and prepare a whole stack",
	}

	stackCmd.AddCommand(newStackShowCommand(ctx))
	stackCmd.AddCommand(newStackCellsCommand(ctx))
	stackCmd.AddCommand(newStackLabelsCommand(ctx))
	stackCmd.AddCommand(newStackMkdirsCommand(ctx))

	return stackCmd
}

// loadStack opens the selected stack and reloads every cell, reporting cells
// whose saved state could not be used.
func loadStack(cmd *cobra.Command, ctx *commandContext) (*stack.Stack, stack.ReloadSummary, error) {
	s, err := ctx.openStack()
	if err != nil {
		return nil, stack.ReloadSummary{}, err
	}
	summary := s.Reload()
	if summary.Corrupt > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d cell(s) have unusable saved state: %s\n",
			summary.Corrupt, coordinateList(summary.CorruptCells))
	}
	return s, summary, nil
}

type stackShowJSON struct {
	Stack    string         `json:"stack"`
	Dir      string         `json:"dir"`
	Matrix   string         `json:"matrix"`
	Counts   map[string]int `json:"counts"`
	Loaded   int            `json:"loaded"`
	NotFound int            `json:"not_found"`
	Corrupt  []string       `json:"corrupt"`
}

func newStackShowCommand(ctx *commandContext) *cobra.Command {
	var noReload bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the status matrix of the stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				s       *stack.Stack
				summary stack.ReloadSummary
				err     error
			)
			if noReload {
				s, err = ctx.openStack()
			} else {
				s, summary, err = loadStack(cmd, ctx)
			}
			if err != nil {
				return err
			}

			if asJSON {
				payload := stackShowJSON{
					Stack:    s.Name(),
					Dir:      s.Dir(),
					Matrix:   s.StateMatrix(),
					Counts:   map[string]int{},
					Loaded:   summary.Loaded,
					NotFound: summary.NotFound,
					Corrupt:  []string{},
				}
				for status, n := range s.Counts() {
					payload.Counts[string(status)] = n
				}
				for _, c := range summary.CorruptCells {
					payload.Corrupt = append(payload.Corrupt, c.String())
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Stack "+s.Name(), colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprint(out, renderMatrix(s, colorize))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderCounts(s.Counts(), colorize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Show construction defaults without reading saved state")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newStackCellsCommand(ctx *commandContext) *cobra.Command {
	var includeOut bool

	cmd := &cobra.Command{
		Use:   "cells",
		Short: "List the cells of the stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadStack(cmd, ctx)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(s.Cells()))
			for _, cell := range s.Cells() {
				if cell.Status() == flowcell.StatusOutOfSpec && !includeOut {
					continue
				}
				rows = append(rows, []string{
					cell.Position().String(),
					cell.Label(),
					cell.Status().DisplayName(),
					fmt.Sprintf("%d/%d", yesCount(cell.Answers()), len(flowcell.Questions())),
					imageSummary(cell.ImageStatus()),
				})
			}
			headers := []string{"Cell", "Label", "Status", "Yes", "Images"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&includeOut, "all", "a", false, "Include cells marked out of spec")
	return cmd
}

func newStackLabelsCommand(ctx *commandContext) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Print the labels of all in-spec cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadStack(cmd, ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if write {
				path, err := s.WriteLabels()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %d labels to %s\n", len(s.LabelList()), path)
				return nil
			}
			for _, label := range s.LabelList() {
				fmt.Fprintln(out, label)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Create cell directories and write labels.txt")
	return cmd
}

func newStackMkdirsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdirs",
		Short: "Create the directories of all in-spec cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadStack(cmd, ctx)
			if err != nil {
				return err
			}
			if err := s.Mkdirs(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cell directories ready under %s (%d cells)\n",
				s.Dir(), len(s.LabelList()))
			return nil
		},
	}
}
