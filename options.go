package weave

// Backend identifies a rendering backend implementation.
//
// The four shipped backends are registered by the backend subpackages.
// Requesting an unknown or unregistered backend does not fail a render: the
// dispatcher falls back to the raster backend and logs a diagnostic.
type Backend string

// Shipped backend identifiers.
const (
	// BackendRaster is the CPU raster backend: an imperative loop over
	// visible cells writing directly into the pixel buffer.
	BackendRaster Backend = "raster"

	// BackendVector is the retained-document backend: it builds a tree of
	// rectangle primitives which is then rasterized.
	BackendVector Backend = "vector"

	// BackendCompute is the GPU compute-shader pipeline.
	BackendCompute Backend = "compute"

	// BackendFragment is the GPU vertex+fragment pipeline.
	BackendFragment Backend = "fragment"
)

// RenderOptions configures one render call. The options value is owned by
// the caller and read-only to the renderer.
type RenderOptions struct {
	// Width and Height are the output surface dimensions in pixels.
	Width  int
	Height int

	// Backend selects the rendering backend.
	Backend Backend

	// Mode selects flat or interlacing cell rendering.
	Mode DisplayMode

	// Zoom configures the initial state of the magnifier lens.
	// Nil uses DefaultZoomConfig.
	Zoom *ZoomConfig
}

// ZoomConfig holds the initial parameters of the zoom lens. The live,
// event-mutated values are kept in [ZoomState], owned by the surface.
type ZoomConfig struct {
	Radius          float64
	Factor          float64
	BorderSize      float64
	BorderColor     string
	BackgroundColor string

	// ScrollFactor is the relative step applied per scroll event, in (0, 1].
	ScrollFactor float64
}

// DefaultZoomConfig returns the lens defaults used when RenderOptions.Zoom
// is nil.
func DefaultZoomConfig() *ZoomConfig {
	return &ZoomConfig{
		Radius:          60,
		Factor:          2,
		BorderSize:      2,
		BorderColor:     "black",
		BackgroundColor: "white",
		ScrollFactor:    0.1,
	}
}
