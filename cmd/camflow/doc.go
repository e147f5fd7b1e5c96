// Command camflow records flow-cell inspection results from the terminal.
//
// Every command operates on one stack, chosen with --stack or taken from
// stack.default_name in the configuration file. Commands are stateless: each
// invocation loads the affected cells from disk, applies the change, and
// saves them again, so camflow can be used alongside a capture tool that
// drops photographs into the cell directories.
//
// The watch command keeps one cell on screen and refreshes it twice a second
// (configurable), reading navigation keys from stdin.
package main
