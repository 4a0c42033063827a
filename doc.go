// Package weave renders periodic two-thread (warp/weft) textile patterns
// into pixel surfaces.
//
// A pattern is described by a [WeaveDefinition]: a boolean threading matrix
// recording which thread is on top at each intersection, plus two color
// palettes applied cyclically to warp columns and weft rows. Rendering is
// driven by [RenderOptions], which selects one of four interchangeable
// backends (CPU raster, retained vector document, and two GPU pipelines)
// and a display mode: flat color cells or a geometric interlacing view that
// depicts the physical over/under crossing of the threads.
//
// All backends share one grid-mapping and cell-decomposition model and are
// required to produce equal pixels within a small tolerance. Rendering is
// crisp: no blending and no anti-aliasing, so outputs are directly
// comparable across backends.
//
// An interactive circular magnifier is available through [Surface], which
// owns the zoom lens state and the pointer/scroll handlers that drive it.
//
// Backend implementations live in the backend subpackages and register
// themselves on import:
//
//	import (
//	    "github.com/loomkit/weave"
//	    "github.com/loomkit/weave/backend"
//	    _ "github.com/loomkit/weave/backend/vector"
//	    _ "github.com/loomkit/weave/backend/compute"
//	    _ "github.com/loomkit/weave/backend/fragment"
//	)
//
//	def := &weave.WeaveDefinition{
//	    Threading:  [][]bool{{true, false}, {false, true}},
//	    WarpColors: []string{"black"},
//	    WeftColors: []string{"red"},
//	}
//	opts := &weave.RenderOptions{
//	    Width: 200, Height: 200,
//	    Backend: weave.BackendRaster,
//	    Mode:    weave.SimpleMode{CellSize: 10},
//	}
//	pm, err := backend.RenderPattern(def, opts)
package weave
