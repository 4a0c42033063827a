package weave

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PlaceholderBackground is the neutral background every backend paints
// for the distinguished no-data state. The channels are exact 8-bit
// values so the color survives a pixmap round trip unchanged.
var PlaceholderBackground = Color{R: 219.0 / 255, G: 219.0 / 255, B: 219.0 / 255, A: 1}

var placeholderText = Color{R: 64.0 / 255, G: 64.0 / 255, B: 64.0 / 255, A: 1}

// circleClip restricts painting to pixels whose center lies inside the
// circle. A nil clip paints everything.
type circleClip struct {
	cx, cy, r float64
}

func (c *circleClip) contains(px, py int) bool {
	dx := float64(px) + 0.5 - c.cx
	dy := float64(py) + 0.5 - c.cy
	return dx*dx+dy*dy <= c.r*c.r
}

// PaintPattern fills the whole pixmap with the pattern. It is the
// reference implementation the other backends are measured against.
// An empty definition paints the placeholder instead.
func PaintPattern(pm *Pixmap, def *WeaveDefinition, mode DisplayMode) {
	if def == nil || def.IsEmpty() {
		PaintPlaceholder(pm)
		return
	}
	warp := ResolvePalette(def.WarpColors)
	weft := ResolvePalette(def.WeftColors)
	pm.Clear(White)
	paintPatternRegion(pm, def, mode, warp, weft,
		0, 0, float64(pm.Width()), float64(pm.Height()),
		0, 0, 0, 0, nil)
}

// paintPatternRegion paints pattern cells over the pixel region
// [x0,x1) x [y0,y1). Cell (colOffset, rowOffset) has its top-left
// corner at (originX, originY); screen cells before the origin use
// negative relative indices. All fills use the pixel-center rule so
// shared edges never double-paint.
func paintPatternRegion(pm *Pixmap, def *WeaveDefinition, mode DisplayMode,
	warp, weft []Color, x0, y0, x1, y1, originX, originY float64,
	colOffset, rowOffset int, clip *circleClip) {

	cell := mode.CellEdge()
	if cell <= 0 {
		return
	}
	ci0 := int(math.Floor((x0 - originX) / cell))
	ci1 := int(math.Ceil((x1 - originX) / cell))
	ri0 := int(math.Floor((y0 - originY) / cell))
	ri1 := int(math.Ceil((y1 - originY) / cell))

	for rj := ri0; rj < ri1; rj++ {
		for cj := ci0; cj < ci1; cj++ {
			info := def.Lookup(colOffset+cj, rowOffset+rj)
			w := warp[info.WarpIndex]
			f := weft[info.WeftIndex]
			cx := originX + float64(cj)*cell
			cy := originY + float64(rj)*cell
			// Rects are confined to their cell so degenerate
			// parameters never bleed into neighbors.
			bx0 := math.Max(x0, cx)
			by0 := math.Max(y0, cy)
			bx1 := math.Min(x1, cx+cell)
			by1 := math.Min(y1, cy+cell)
			for _, r := range CellRects(mode, info, w, f) {
				fillRectClipped(pm,
					cx+r.X, cy+r.Y, cx+r.X+r.W, cy+r.Y+r.H,
					r.Color, bx0, by0, bx1, by1, clip)
			}
		}
	}
}

// fillRectClipped fills [rx0,rx1) x [ry0,ry1) intersected with the
// bounding region and the optional circle. Pixel-center rule as in
// Pixmap.FillRect.
func fillRectClipped(pm *Pixmap, rx0, ry0, rx1, ry1 float64, c Color,
	bx0, by0, bx1, by1 float64, clip *circleClip) {

	if rx0 < bx0 {
		rx0 = bx0
	}
	if ry0 < by0 {
		ry0 = by0
	}
	if rx1 > bx1 {
		rx1 = bx1
	}
	if ry1 > by1 {
		ry1 = by1
	}
	if clip == nil {
		pm.FillRect(rx0, ry0, rx1, ry1, c)
		return
	}
	ix0 := int(math.Ceil(rx0 - 0.5))
	iy0 := int(math.Ceil(ry0 - 0.5))
	ix1 := int(math.Ceil(rx1 - 0.5))
	iy1 := int(math.Ceil(ry1 - 0.5))
	if ix0 < 0 {
		ix0 = 0
	}
	if iy0 < 0 {
		iy0 = 0
	}
	if ix1 > pm.Width() {
		ix1 = pm.Width()
	}
	if iy1 > pm.Height() {
		iy1 = pm.Height()
	}
	for py := iy0; py < iy1; py++ {
		for px := ix0; px < ix1; px++ {
			if clip.contains(px, py) {
				pm.SetPixel(px, py, c)
			}
		}
	}
}

// PaintLens paints the active magnifier lens on top of an already
// rendered pattern. The lens shows the pattern at mode scaled by the
// zoom factor, phase-aligned so the cell under the lens's top-left
// bounding corner stays recognizable. Background first, magnified
// pattern clipped to the circle, border ring last.
func PaintLens(pm *Pixmap, def *WeaveDefinition, mode DisplayMode, zs *ZoomState) {
	if zs == nil || !zs.Active {
		return
	}
	cx, cy, r := zs.CenterX, zs.CenterY, zs.Radius
	clip := &circleClip{cx: cx, cy: cy, r: r}

	x0 := cx - r
	y0 := cy - r
	x1 := cx + r
	y1 := cy + r

	fillRectClipped(pm, x0, y0, x1, y1, zs.BackgroundColor, x0, y0, x1, y1, clip)

	if def != nil && !def.IsEmpty() {
		scaledMode := mode.scaled(zs.Factor)
		baseCell := mode.CellEdge()
		if baseCell > 0 {
			colOffset := int(math.Floor(x0 / baseCell))
			rowOffset := int(math.Floor(y0 / baseCell))
			warp := ResolvePalette(def.WarpColors)
			weft := ResolvePalette(def.WeftColors)
			paintPatternRegion(pm, def, scaledMode, warp, weft,
				x0, y0, x1, y1, x0, y0, colOffset, rowOffset, clip)
		}
	}

	if zs.BorderSize > 0 {
		paintRing(pm, cx, cy, r-zs.BorderSize, r, zs.BorderColor)
	}
}

// paintRing paints the annulus between the inner and outer radii.
func paintRing(pm *Pixmap, cx, cy, inner, outer float64, c Color) {
	if inner < 0 {
		inner = 0
	}
	ix0 := int(math.Ceil(cx - outer - 0.5))
	iy0 := int(math.Ceil(cy - outer - 0.5))
	ix1 := int(math.Ceil(cx + outer - 0.5))
	iy1 := int(math.Ceil(cy + outer - 0.5))
	if ix0 < 0 {
		ix0 = 0
	}
	if iy0 < 0 {
		iy0 = 0
	}
	if ix1 >= pm.Width() {
		ix1 = pm.Width() - 1
	}
	if iy1 >= pm.Height() {
		iy1 = pm.Height() - 1
	}
	for py := iy0; py <= iy1; py++ {
		for px := ix0; px <= ix1; px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			d2 := dx*dx + dy*dy
			if d2 <= outer*outer && d2 >= inner*inner {
				pm.SetPixel(px, py, c)
			}
		}
	}
}

// PaintPlaceholder paints the distinguished no-data state: a neutral
// background with a short note. Never an error.
func PaintPlaceholder(pm *Pixmap) {
	pm.Clear(PlaceholderBackground)
	drawNote(pm, "no pattern")
}

func drawNote(pm *Pixmap, text string) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	x := (pm.Width() - w) / 2
	y := (pm.Height() + face.Ascent) / 2
	if x < 2 {
		x = 2
	}
	if y < face.Ascent {
		y = face.Ascent
	}
	d := font.Drawer{
		Dst:  pm,
		Src:  image.NewUniform(placeholderText.NRGBA()),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
