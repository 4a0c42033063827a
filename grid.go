package weave

import "math"

// CellInfo is the result of mapping one cell coordinate onto a weave
// definition: which thread is on top and which palette entries color the
// warp and weft threads crossing in that cell.
type CellInfo struct {
	WarpOnTop bool
	WarpIndex int
	WeftIndex int
}

// WrapIndex wraps i into [0, n) using the symmetric modulo, which stays
// correct for negative i. The zoom lens renders with negative cell offsets,
// so plain % is not enough.
func WrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

// CellAt maps a pixel coordinate to the cell grid for the given cell size.
func CellAt(px, py, cellSize float64) (col, row int) {
	return int(math.Floor(px / cellSize)), int(math.Floor(py / cellSize))
}

// Lookup maps a cell coordinate onto the definition. The threading matrix
// and the two palettes wrap independently: the on-top bit comes from the
// threading period while the palette indices come from the raw cell
// coordinate wrapped by each palette's own length.
//
// Lookup must only be called on a non-empty definition.
func (d *WeaveDefinition) Lookup(col, row int) CellInfo {
	h := len(d.Threading)
	w := len(d.Threading[0])
	return CellInfo{
		WarpOnTop: d.Threading[WrapIndex(row, h)][WrapIndex(col, w)],
		WarpIndex: WrapIndex(col, len(d.WarpColors)),
		WeftIndex: WrapIndex(row, len(d.WeftColors)),
	}
}
