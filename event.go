package weave

import "fmt"

// EventKind identifies a pointer event type.
type EventKind uint8

const (
	// Press is a pointer press (primary button or touch down).
	Press EventKind = iota
	// Move is a pointer movement.
	Move
	// Scroll is a scroll wheel or gesture event.
	Scroll
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case Press:
		return "Press"
	case Move:
		return "Move"
	case Scroll:
		return "Scroll"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// PointerEvent is the input event consumed by the zoom lens controller.
//
// X and Y are in the surface's pixel coordinate system, origin at the
// top-left. For Scroll events, ScrollY is the primary axis delta and
// ScrollX the secondary axis; some pointing devices report a resize
// gesture on the secondary axis, which the controller handles by using
// whichever axis has the larger magnitude. Modified is set when the
// platform's lens-resize modifier key is held.
type PointerEvent struct {
	Kind     EventKind
	X, Y     float64
	ScrollX  float64
	ScrollY  float64
	Modified bool
}
