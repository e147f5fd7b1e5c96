// Package flowcell models the inspection record of a single flow cell.
//
// A FlowCell carries its identity (stack name, grid position, model tag), the
// five-question checklist, a three-valued status, and three photograph slots.
// State lives on disk in the cell directory:
//
//	{stack}/{label}/questions.json   question -> bool, sorted keys
//	{stack}/{label}/.state           "OUT_OF_SPEC" | "IN_PROGRESS" | "DONE"
//	{stack}/{label}/{slot}.jpg       written by an external capture tool
//
// Dump rewrites both state files atomically. Load is a best-effort merge from
// disk: it reports LoadNotFound or LoadCorrupt instead of failing and leaves
// the in-memory state untouched in both cases. Path computation is pure;
// directories are only created by Mkdir and Dump.
package flowcell
