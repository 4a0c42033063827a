package scene

import (
	"github.com/chewxy/math32"

	"github.com/loomkit/weave"
)

// Rasterize paints the document's current root into the pixmap. Fills
// are crisp: a pixel is painted when its center lies inside the
// rectangle, the same rule the immediate software path uses, so the two
// paths produce identical pixels for identical geometry.
func Rasterize(d *Document, pm *weave.Pixmap) {
	root := d.Root()
	for _, n := range root.Nodes {
		fillRect(pm, n)
	}
}

func fillRect(pm *weave.Pixmap, n RectNode) {
	ix0 := int(math32.Ceil(n.X - 0.5))
	iy0 := int(math32.Ceil(n.Y - 0.5))
	ix1 := int(math32.Ceil(n.X + n.W - 0.5))
	iy1 := int(math32.Ceil(n.Y + n.H - 0.5))
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
			pm.SetPixel(px, py, n.Fill)
		}
	}
}
