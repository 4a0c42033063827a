package backend

import (
	"fmt"
	"sync"

	"github.com/loomkit/weave"
)

// Dispatcher resolves the backend named in the render options and
// forwards to it. Unknown names fall back to the raster backend with a
// diagnostic; an unavailable backend is an error and leaves the target
// untouched.
//
// Dispatcher implements weave.PatternRenderer and caches initialized
// backend instances until Close.
type Dispatcher struct {
	mu        sync.Mutex
	instances map[string]RenderBackend
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{instances: make(map[string]RenderBackend)}
}

// Render implements weave.PatternRenderer.
func (d *Dispatcher) Render(target *weave.Pixmap, def *weave.WeaveDefinition, opts *weave.RenderOptions) error {
	if opts == nil || opts.Mode == nil {
		return fmt.Errorf("dispatch: no display mode")
	}
	name := string(opts.Backend)
	if name == "" {
		name = string(weave.BackendRaster)
	}
	if !IsRegistered(name) {
		weave.Logger().Warn("unknown backend, falling back to raster", "backend", name)
		name = string(weave.BackendRaster)
	}
	b, err := d.instance(name)
	if err != nil {
		return err
	}
	return b.Render(target, def, opts)
}

// Close releases every cached backend.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for name, b := range d.instances {
		b.Close()
		delete(d.instances, name)
	}
}

func (d *Dispatcher) instance(name string) (RenderBackend, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.instances[name]; ok {
		return b, nil
	}
	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("dispatch: backend %q: %w", name, ErrBackendNotAvailable)
	}
	if !b.Available() {
		return nil, fmt.Errorf("dispatch: backend %q: %w", name, ErrBackendNotAvailable)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("dispatch: init %q: %w", name, err)
	}
	d.instances[name] = b
	return b, nil
}

// RenderPattern renders the pattern into a freshly allocated pixmap of
// the size named in the options. It is the package-level convenience
// entry for one-shot rendering.
func RenderPattern(def *weave.WeaveDefinition, opts *weave.RenderOptions) (*weave.Pixmap, error) {
	if opts == nil {
		return nil, fmt.Errorf("dispatch: nil options")
	}
	pm := weave.NewPixmap(opts.Width, opts.Height)
	d := NewDispatcher()
	defer d.Close()
	if err := d.Render(pm, def, opts); err != nil {
		return nil, err
	}
	return pm, nil
}
