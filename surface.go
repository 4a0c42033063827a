package weave

// PatternRenderer renders a weave pattern into a pixmap. The backend
// package provides the standard registry-backed implementation; it is
// injected here so the root package stays free of backend imports.
type PatternRenderer interface {
	Render(target *Pixmap, def *WeaveDefinition, opts *RenderOptions) error
}

// Surface ties a pixmap, a renderer and the zoom lens together into an
// interactive view.
//
// Render replaces the full pixel content; it is synchronous and
// idempotent. The pointer handler is rebuilt on every Render over the
// definition and options passed to that call, so events arriving after a
// re-render always see the current configuration and never a stale one.
type Surface struct {
	pixmap   *Pixmap
	renderer PatternRenderer
	zoom     *ZoomState
	handler  func(PointerEvent) bool
}

// NewSurface creates a surface with its own pixmap. A nil renderer
// paints with the built-in software path.
func NewSurface(width, height int, r PatternRenderer) *Surface {
	return &Surface{
		pixmap:   NewPixmap(width, height),
		renderer: r,
	}
}

// Pixmap returns the surface's pixel buffer.
func (s *Surface) Pixmap() *Pixmap { return s.pixmap }

// Zoom returns the lens state, or nil if no render has enabled it yet.
func (s *Surface) Zoom() *ZoomState { return s.zoom }

// Render paints the pattern with the given options and re-attaches the
// pointer handler to this definition and options. Lens activation state
// survives across renders; the lens content always reflects the latest
// call.
func (s *Surface) Render(def *WeaveDefinition, opts *RenderOptions) error {
	if opts == nil {
		opts = &RenderOptions{Mode: SimpleMode{CellSize: 10}}
	}
	if opts.Zoom != nil && s.zoom == nil {
		s.zoom = NewZoomState(opts.Zoom)
	}
	err := s.paint(def, opts)
	s.handler = func(ev PointerEvent) bool {
		if s.zoom == nil {
			return false
		}
		var changed bool
		switch ev.Kind {
		case Press:
			changed = s.zoom.HandlePress(ev)
		case Move:
			changed = s.zoom.HandleMove(ev)
		case Scroll:
			changed = s.zoom.HandleScroll(ev)
		}
		if changed {
			if err := s.paint(def, opts); err != nil {
				Logger().Warn("lens repaint failed", "error", err)
			}
		}
		return changed
	}
	return err
}

// HandleEvent feeds a pointer event to the lens controller and reports
// whether the surface content changed. Events before the first Render
// are ignored.
func (s *Surface) HandleEvent(ev PointerEvent) bool {
	if s.handler == nil {
		return false
	}
	return s.handler(ev)
}

func (s *Surface) paint(def *WeaveDefinition, opts *RenderOptions) error {
	var err error
	if s.renderer != nil {
		err = s.renderer.Render(s.pixmap, def, opts)
	} else {
		PaintPattern(s.pixmap, def, opts.Mode)
	}
	if s.zoom != nil && s.zoom.Active {
		PaintLens(s.pixmap, def, opts.Mode, s.zoom)
	}
	return err
}
