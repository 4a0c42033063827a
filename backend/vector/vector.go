// Package vector implements the retained-document backend: each render
// rebuilds a flat group of rectangle nodes (one per fill, at most six
// per interlacing cell), swaps it into the document atomically, and
// rasterizes the document into the target.
//
// The document survives between renders and is exposed through
// Document, so callers holding a reference always observe either the
// previous complete frame or the new one.
package vector

import (
	"math"

	"github.com/loomkit/weave"
	"github.com/loomkit/weave/backend"
	"github.com/loomkit/weave/scene"
)

// Backend is the retained-document rendering backend.
type Backend struct {
	initialized bool
	doc         *scene.Document
}

func init() {
	backend.Register(string(weave.BackendVector), func() backend.RenderBackend {
		return &Backend{}
	})
}

// New creates the vector backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return string(weave.BackendVector) }

// Init creates the retained document.
func (b *Backend) Init() error {
	b.doc = scene.NewDocument()
	b.initialized = true
	return nil
}

// Close drops the document.
func (b *Backend) Close() {
	b.doc = nil
	b.initialized = false
}

// Available always reports true.
func (b *Backend) Available() bool { return true }

// Document returns the retained document, or nil before Init.
func (b *Backend) Document() *scene.Document { return b.doc }

// Render rebuilds the document for the pattern and rasterizes it.
func (b *Backend) Render(target *weave.Pixmap, def *weave.WeaveDefinition, opts *weave.RenderOptions) error {
	if !b.initialized {
		return backend.ErrNotInitialized
	}
	if target == nil || opts == nil || opts.Mode == nil {
		return nil
	}
	if def == nil || def.IsEmpty() {
		b.doc.ReplaceRoot(&scene.Group{})
		target.Clear(weave.PlaceholderBackground)
		return nil
	}

	g := buildGroup(def, opts.Mode, target.Width(), target.Height())
	b.doc.ReplaceRoot(g)

	target.Clear(weave.White)
	scene.Rasterize(b.doc, target)
	return nil
}

// buildGroup decomposes every visible cell into rectangle nodes.
func buildGroup(def *weave.WeaveDefinition, mode weave.DisplayMode, width, height int) *scene.Group {
	cell := mode.CellEdge()
	if cell <= 0 {
		return &scene.Group{}
	}
	warp := weave.ResolvePalette(def.WarpColors)
	weft := weave.ResolvePalette(def.WeftColors)
	cols := int(math.Ceil(float64(width) / cell))
	rows := int(math.Ceil(float64(height) / cell))

	g := &scene.Group{}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			info := def.Lookup(col, row)
			cx := float64(col) * cell
			cy := float64(row) * cell
			for _, r := range weave.CellRects(mode, info, warp[info.WarpIndex], weft[info.WeftIndex]) {
				// Confine each rect to its cell so degenerate
				// parameters never bleed into neighbors.
				x0 := math.Max(cx+r.X, cx)
				y0 := math.Max(cy+r.Y, cy)
				x1 := math.Min(cx+r.X+r.W, cx+cell)
				y1 := math.Min(cy+r.Y+r.H, cy+cell)
				if x1 <= x0 || y1 <= y0 {
					continue
				}
				g.AddRect(float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), r.Color)
			}
		}
	}
	return g
}
