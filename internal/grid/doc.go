// Package grid describes the fixed 12x8 layout of a flow-cell stack.
//
// Rows are lettered A through L and columns numbered 1 through 8. The package
// owns coordinate parsing, row-major enumeration, the set of corner positions
// that are physically absent on the hardware, and focus movement. Movement
// clamps at the edges instead of wrapping so arrow-key style navigation stops
// at the border of the stack.
package grid
