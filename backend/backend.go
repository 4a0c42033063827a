// Package backend defines the rendering backend interface, the backend
// registry, and the built-in software (raster) backend.
//
// Backends register themselves from init() on import:
//
//	import (
//		_ "github.com/loomkit/weave/backend/compute"
//		_ "github.com/loomkit/weave/backend/fragment"
//		_ "github.com/loomkit/weave/backend/vector"
//	)
//
// The raster backend is always registered.
package backend

import (
	"errors"

	"github.com/loomkit/weave"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a backend cannot run in
	// the current environment (for GPU backends, no usable adapter).
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when Render is called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// RenderBackend is the interface every rendering backend implements.
//
// All backends must produce pixel-equivalent output for the same
// definition and options: a flat top-left-origin RGBA image with no
// anti-aliasing. Render replaces the full target content; on error the
// target is left untouched.
type RenderBackend interface {
	// Name returns the backend identifier (e.g. "raster", "compute").
	Name() string

	// Init acquires the backend's resources. Must be called before
	// Render.
	Init() error

	// Close releases all backend resources.
	Close()

	// Available reports whether the backend can run here. For GPU
	// backends this probes for a usable adapter.
	Available() bool

	// Render paints the pattern into the target.
	Render(target *weave.Pixmap, def *weave.WeaveDefinition, opts *weave.RenderOptions) error
}
