package weave

import "math"

// Lens invariant bounds, enforced on every update.
const (
	minLensRadius = 10
	minLensFactor = 0.5
)

// ZoomState is the live state of the circular magnifier lens.
//
// One ZoomState exists per rendering surface. It is created from a
// [ZoomConfig] on first use, mutated only by the pointer/scroll handlers,
// and never persisted. The invariants Radius >= 10 and Factor >= 0.5 are
// clamped on every update.
type ZoomState struct {
	Active           bool
	CenterX, CenterY float64
	Radius           float64
	Factor           float64
	BorderSize       float64
	BorderColor      Color
	BackgroundColor  Color
	ScrollFactor     float64
}

// NewZoomState creates the lens state from an initial configuration.
// A nil config uses [DefaultZoomConfig].
func NewZoomState(cfg *ZoomConfig) *ZoomState {
	if cfg == nil {
		cfg = DefaultZoomConfig()
	}
	zs := &ZoomState{
		Radius:          cfg.Radius,
		Factor:          cfg.Factor,
		BorderSize:      cfg.BorderSize,
		BorderColor:     ResolveColor(cfg.BorderColor),
		BackgroundColor: ResolveColor(cfg.BackgroundColor),
		ScrollFactor:    cfg.ScrollFactor,
	}
	if zs.ScrollFactor <= 0 || zs.ScrollFactor > 1 {
		zs.ScrollFactor = DefaultZoomConfig().ScrollFactor
	}
	zs.clamp()
	return zs
}

// Contains reports whether the point lies inside the active lens circle.
func (zs *ZoomState) Contains(x, y float64) bool {
	dx := x - zs.CenterX
	dy := y - zs.CenterY
	return dx*dx+dy*dy <= zs.Radius*zs.Radius
}

// HandlePress applies an activation event and reports whether the lens
// state changed in a way that requires a repaint.
//
// Transitions:
//   - off: activate the lens centered at the event position
//   - on, inside the lens: deactivate
//   - on, outside the lens: re-center at the event position, stay on
func (zs *ZoomState) HandlePress(ev PointerEvent) bool {
	if !zs.Active {
		zs.Active = true
		zs.CenterX, zs.CenterY = ev.X, ev.Y
		return true
	}
	if zs.Contains(ev.X, ev.Y) {
		zs.Active = false
		return true
	}
	zs.CenterX, zs.CenterY = ev.X, ev.Y
	return true
}

// HandleMove re-centers an active lens at the pointer position.
func (zs *ZoomState) HandleMove(ev PointerEvent) bool {
	if !zs.Active {
		return false
	}
	zs.CenterX, zs.CenterY = ev.X, ev.Y
	return true
}

// HandleScroll adjusts the magnification factor, or the lens radius when
// the resize modifier is held. Reports whether a repaint is needed.
func (zs *ZoomState) HandleScroll(ev PointerEvent) bool {
	if !zs.Active {
		return false
	}

	if ev.Modified {
		// Resize. Some pointing devices report the gesture on the
		// secondary axis; use whichever axis dominates.
		delta := ev.ScrollY
		if math.Abs(ev.ScrollX) > math.Abs(ev.ScrollY) {
			delta = ev.ScrollX
		}
		dir := sign(delta)
		if dir == 0 {
			return false
		}
		// Scrolling toward the user shrinks the lens.
		zs.Radius -= dir * zs.Radius * zs.ScrollFactor
		zs.clamp()
		return true
	}

	dir := sign(ev.ScrollY)
	if dir == 0 {
		return false
	}
	zs.Factor *= 1 + dir*zs.ScrollFactor
	zs.clamp()
	return true
}

// clamp enforces the lens invariants.
func (zs *ZoomState) clamp() {
	if zs.Radius < minLensRadius {
		zs.Radius = minLensRadius
	}
	if zs.Factor < minLensFactor {
		zs.Factor = minLensFactor
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
