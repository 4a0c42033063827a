package backend

import "github.com/loomkit/weave"

// RasterBackend is the CPU software backend: an imperative double loop
// over the visible cells filling the target pixmap directly. It is the
// parity reference for every other backend and the fallback when a
// requested backend is unknown.
type RasterBackend struct {
	initialized bool
}

func init() {
	Register(string(weave.BackendRaster), func() RenderBackend {
		return &RasterBackend{}
	})
}

// NewRasterBackend creates the software backend.
func NewRasterBackend() *RasterBackend {
	return &RasterBackend{}
}

// Name returns the backend identifier.
func (b *RasterBackend) Name() string { return string(weave.BackendRaster) }

// Init implements RenderBackend. The software path has no resources to
// acquire.
func (b *RasterBackend) Init() error {
	b.initialized = true
	return nil
}

// Close implements RenderBackend.
func (b *RasterBackend) Close() {
	b.initialized = false
}

// Available always reports true.
func (b *RasterBackend) Available() bool { return true }

// Render paints the pattern into the target. An empty definition paints
// the placeholder and returns nil.
func (b *RasterBackend) Render(target *weave.Pixmap, def *weave.WeaveDefinition, opts *weave.RenderOptions) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	if target == nil || opts == nil || opts.Mode == nil {
		return nil
	}
	weave.PaintPattern(target, def, opts.Mode)
	return nil
}
