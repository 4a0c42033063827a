package weave

import "math"

// DisplayMode selects how each warp/weft intersection is drawn.
// The two implementations are [SimpleMode] and [InterlacingMode].
type DisplayMode interface {
	// CellEdge returns the pixel edge length of one intersection cell.
	CellEdge() float64

	// scaled returns the mode with all lengths multiplied by factor,
	// as used by the zoom lens. Nonzero thread parameters are floored
	// to at least one pixel so magnified threads never vanish.
	scaled(factor float64) DisplayMode
}

// SimpleMode draws each cell as one flat CellSize x CellSize square in the
// color of whichever thread is on top.
type SimpleMode struct {
	CellSize float64
}

// CellEdge implements DisplayMode.
func (m SimpleMode) CellEdge() float64 { return m.CellSize }

func (m SimpleMode) scaled(factor float64) DisplayMode {
	return SimpleMode{CellSize: m.CellSize * factor}
}

// InterlacingMode draws the geometric over/under crossing of the two
// threads inside each cell.
//
// ThreadThickness is the width of a thread band, BorderSize the thickness
// of the outline along the band's long edges, and CutSize the extra visual
// gap left beyond the covering thread's silhouette where the under thread
// is cut.
type InterlacingMode struct {
	CellSize        float64
	ThreadThickness float64
	BorderSize      float64
	CutSize         float64
}

// CellEdge implements DisplayMode.
func (m InterlacingMode) CellEdge() float64 { return m.CellSize }

// Gap returns the size of the gap splitting the under thread, centered on
// the cell: the covering thread's visual footprint plus the cut allowance
// on each side, capped at the cell size.
func (m InterlacingMode) Gap() float64 {
	gap := m.ThreadThickness + 2*m.BorderSize + 2*m.CutSize
	return math.Min(m.CellSize, gap)
}

func (m InterlacingMode) scaled(factor float64) DisplayMode {
	return InterlacingMode{
		CellSize:        m.CellSize * factor,
		ThreadThickness: scaleLength(m.ThreadThickness, factor),
		BorderSize:      scaleLength(m.BorderSize, factor),
		CutSize:         scaleLength(m.CutSize, factor),
	}
}

// scaleLength scales a thread parameter, keeping zero at zero and flooring
// nonzero results to one pixel.
func scaleLength(v, factor float64) float64 {
	if v == 0 {
		return 0
	}
	return math.Max(1, v*factor)
}
