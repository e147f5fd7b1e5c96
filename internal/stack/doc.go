// Package stack groups the 96 flow cells of one inspection batch.
//
// A Stack is created by name under a root directory and owns one FlowCell per
// grid position. The twelve always-missing corner positions start as
// OUT_OF_SPEC; that is a default, and callers may change it. Construction
// never touches the disk, so a new Stack shows defaults until Reload (or a
// per-cell Load) is called.
//
// Stack-level outputs are the status matrix, the label list of in-spec cells,
// and labels.txt in the stack directory.
package stack
