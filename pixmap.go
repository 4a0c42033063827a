package weave

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// Pixmap represents a rectangular RGBA pixel buffer.
//
// Pixmap is the concrete output surface of every backend. All fills are
// crisp: a pixel is painted iff its center lies inside the filled region,
// with no blending and no anti-aliasing, so outputs from different backends
// can be compared byte for byte.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel.
func (p *Pixmap) SetPixel(x, y int, c Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R * 255))
	p.data[i+1] = uint8(clamp255(c.G * 255))
	p.data[i+2] = uint8(clamp255(c.B * 255))
	p.data[i+3] = uint8(clamp255(c.A * 255))
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Color{}
	}
	i := (y*p.width + x) * 4
	return Color{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c Color) {
	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	b := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))

	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// FillRect fills the axis-aligned rectangle [x0,x1) x [y0,y1) with a solid
// color. Boundaries are given in float pixel coordinates; a pixel is filled
// iff its center lies inside the rectangle. Out-of-bounds parts are clipped.
func (p *Pixmap) FillRect(x0, y0, x1, y1 float64, c Color) {
	// Pixel centers px+0.5 in [x0, x1)  <=>  px in [ceil(x0-0.5), ceil(x1-0.5)).
	ix0 := int(math.Ceil(x0 - 0.5))
	iy0 := int(math.Ceil(y0 - 0.5))
	ix1 := int(math.Ceil(x1 - 0.5))
	iy1 := int(math.Ceil(y1 - 0.5))

	if ix0 < 0 {
		ix0 = 0
	}
	if iy0 < 0 {
		iy0 = 0
	}
	if ix1 > p.width {
		ix1 = p.width
	}
	if iy1 > p.height {
		iy1 = p.height
	}
	if ix0 >= ix1 || iy0 >= iy1 {
		return
	}

	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	b := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))

	for y := iy0; y < iy1; y++ {
		i := (y*p.width + ix0) * 4
		for x := ix0; x < ix1; x++ {
			p.data[i+0] = r
			p.data[i+1] = g
			p.data[i+2] = b
			p.data[i+3] = a
			i += 4
		}
	}
}

// ToImage converts the pixmap to an image.RGBA copy.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// EncodePNG writes the pixmap to w in PNG format.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).NRGBA()
}

// Set implements the draw.Image interface.
func (p *Pixmap) Set(x, y int, c color.Color) {
	p.SetPixel(x, y, FromColor(c))
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
