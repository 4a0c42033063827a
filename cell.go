package weave

import "math"

// OutlineColor is the color used for thread borders in interlacing mode.
var OutlineColor = Black

// CellRect is one axis-aligned rectangle of a cell's decomposition, in
// cell-local float coordinates with the origin at the cell's top-left
// corner.
type CellRect struct {
	X, Y, W, H float64
	Color      Color
}

// SimpleCellRect returns the single flat fill for a cell in simple mode.
func SimpleCellRect(mode SimpleMode, info CellInfo, warp, weft Color) CellRect {
	c := weft
	if info.WarpOnTop {
		c = warp
	}
	return CellRect{X: 0, Y: 0, W: mode.CellSize, H: mode.CellSize, Color: c}
}

// InterlacingCellRects decomposes one cell into the rectangles of the
// physical over/under crossing, in draw order (later rectangles occlude
// earlier ones):
//
//  1. The under thread as two segments split around a gap centered on the
//     cell. The gap is the top thread's visual footprint plus the cut
//     allowance on each side. Each segment carries the border treatment on
//     its long edges; no border caps are drawn on the short ends, where the
//     thread either continues into the neighbor cell or disappears under
//     the gap.
//  2. The top thread as one continuous band across the full cell, border
//     first, inner band last.
//
// When the gap reaches the cell size the under thread is fully hidden and
// only the top thread's rectangles are returned. Warp threads run
// vertically (columns), weft threads horizontally (rows).
func InterlacingCellRects(mode InterlacingMode, info CellInfo, warp, weft Color) []CellRect {
	cell := mode.CellSize
	t := mode.ThreadThickness
	b := mode.BorderSize

	top, under := warp, weft
	if !info.WarpOnTop {
		top, under = weft, warp
	}

	gap := mode.Gap()
	seg := math.Max(0, (cell-gap)/2)

	inner0 := (cell - t) / 2
	outer0 := inner0 - b

	rects := make([]CellRect, 0, 6)

	if seg > 0 {
		// Under thread: two segments along its own axis, thickness
		// centered across the cell.
		if info.WarpOnTop {
			// Weft underneath: horizontal segments at left and right.
			if b > 0 {
				rects = append(rects,
					CellRect{X: 0, Y: outer0, W: seg, H: t + 2*b, Color: OutlineColor},
					CellRect{X: cell - seg, Y: outer0, W: seg, H: t + 2*b, Color: OutlineColor},
				)
			}
			rects = append(rects,
				CellRect{X: 0, Y: inner0, W: seg, H: t, Color: under},
				CellRect{X: cell - seg, Y: inner0, W: seg, H: t, Color: under},
			)
		} else {
			// Warp underneath: vertical segments at top and bottom.
			if b > 0 {
				rects = append(rects,
					CellRect{X: outer0, Y: 0, W: t + 2*b, H: seg, Color: OutlineColor},
					CellRect{X: outer0, Y: cell - seg, W: t + 2*b, H: seg, Color: OutlineColor},
				)
			}
			rects = append(rects,
				CellRect{X: inner0, Y: 0, W: t, H: seg, Color: under},
				CellRect{X: inner0, Y: cell - seg, W: t, H: seg, Color: under},
			)
		}
	}

	// Top thread: one continuous band across the full cell.
	if info.WarpOnTop {
		if b > 0 {
			rects = append(rects, CellRect{X: outer0, Y: 0, W: t + 2*b, H: cell, Color: OutlineColor})
		}
		rects = append(rects, CellRect{X: inner0, Y: 0, W: t, H: cell, Color: top})
	} else {
		if b > 0 {
			rects = append(rects, CellRect{X: 0, Y: outer0, W: cell, H: t + 2*b, Color: OutlineColor})
		}
		rects = append(rects, CellRect{X: 0, Y: inner0, W: cell, H: t, Color: top})
	}

	return rects
}

// CellRects returns the decomposition of one cell for any display mode,
// in draw order.
func CellRects(mode DisplayMode, info CellInfo, warp, weft Color) []CellRect {
	switch m := mode.(type) {
	case SimpleMode:
		return []CellRect{SimpleCellRect(m, info, warp, weft)}
	case InterlacingMode:
		return InterlacingCellRects(m, info, warp, weft)
	default:
		return nil
	}
}
