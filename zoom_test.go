package weave

import "testing"

func press(x, y float64) PointerEvent  { return PointerEvent{Kind: Press, X: x, Y: y} }
func move(x, y float64) PointerEvent   { return PointerEvent{Kind: Move, X: x, Y: y} }
func scroll(dy float64) PointerEvent   { return PointerEvent{Kind: Scroll, ScrollY: dy} }
func resize(dy float64) PointerEvent   { return PointerEvent{Kind: Scroll, ScrollY: dy, Modified: true} }

func TestZoomPressCycle(t *testing.T) {
	zs := NewZoomState(nil)
	if zs.Active {
		t.Fatal("lens should start inactive")
	}

	// First press activates at the pointer.
	if !zs.HandlePress(press(100, 100)) {
		t.Error("activation should report a change")
	}
	if !zs.Active || zs.CenterX != 100 || zs.CenterY != 100 {
		t.Fatalf("after press: active=%v center=(%v,%v)", zs.Active, zs.CenterX, zs.CenterY)
	}

	// Press outside the circle re-centers.
	zs.HandlePress(press(300, 300))
	if !zs.Active || zs.CenterX != 300 {
		t.Fatalf("press outside should re-center, got active=%v center=%v", zs.Active, zs.CenterX)
	}

	// Press inside deactivates.
	zs.HandlePress(press(305, 295))
	if zs.Active {
		t.Error("press inside the lens should deactivate it")
	}
}

func TestZoomMove(t *testing.T) {
	zs := NewZoomState(nil)
	if zs.HandleMove(move(50, 50)) {
		t.Error("move on inactive lens should be ignored")
	}
	zs.HandlePress(press(100, 100))
	if !zs.HandleMove(move(150, 40)) {
		t.Error("move on active lens should re-center")
	}
	if zs.CenterX != 150 || zs.CenterY != 40 {
		t.Errorf("center = (%v,%v), want (150,40)", zs.CenterX, zs.CenterY)
	}
}

func TestZoomScrollFactor(t *testing.T) {
	zs := NewZoomState(&ZoomConfig{Radius: 60, Factor: 2, ScrollFactor: 0.1})
	if zs.HandleScroll(scroll(1)) {
		t.Error("scroll on inactive lens should be ignored")
	}
	zs.HandlePress(press(100, 100))

	zs.HandleScroll(scroll(1))
	if zs.Factor != 2*1.1 {
		t.Errorf("factor = %v, want 2.2", zs.Factor)
	}
	zs.HandleScroll(scroll(-1))
	if zs.Factor != 2*1.1*0.9 {
		t.Errorf("factor = %v, want 1.98", zs.Factor)
	}

	// The factor never drops below 0.5.
	for i := 0; i < 50; i++ {
		zs.HandleScroll(scroll(-1))
	}
	if zs.Factor < 0.5 {
		t.Errorf("factor %v below minimum", zs.Factor)
	}
}

func TestZoomScrollRadius(t *testing.T) {
	zs := NewZoomState(&ZoomConfig{Radius: 100, Factor: 2, ScrollFactor: 0.1})
	zs.HandlePress(press(200, 200))

	zs.HandleScroll(resize(1))
	if zs.Radius != 90 {
		t.Errorf("radius = %v, want 90", zs.Radius)
	}
	zs.HandleScroll(resize(-1))
	if zs.Radius != 99 {
		t.Errorf("radius = %v, want 99", zs.Radius)
	}

	// The radius never drops below 10.
	for i := 0; i < 100; i++ {
		zs.HandleScroll(resize(1))
	}
	if zs.Radius < 10 {
		t.Errorf("radius %v below minimum", zs.Radius)
	}
}

// Some pointing devices report the resize gesture on the horizontal
// axis; the larger magnitude wins.
func TestZoomScrollDominantAxis(t *testing.T) {
	zs := NewZoomState(&ZoomConfig{Radius: 100, Factor: 2, ScrollFactor: 0.1})
	zs.HandlePress(press(200, 200))

	zs.HandleScroll(PointerEvent{Kind: Scroll, ScrollX: 2, ScrollY: -0.5, Modified: true})
	if zs.Radius != 90 {
		t.Errorf("radius = %v, want 90 (horizontal axis dominates)", zs.Radius)
	}
}

func TestZoomConfigClamps(t *testing.T) {
	zs := NewZoomState(&ZoomConfig{Radius: 3, Factor: 0.1, ScrollFactor: 0.1})
	if zs.Radius != 10 {
		t.Errorf("initial radius clamped to %v, want 10", zs.Radius)
	}
	if zs.Factor != 0.5 {
		t.Errorf("initial factor clamped to %v, want 0.5", zs.Factor)
	}

	// A bogus scroll factor falls back to the default.
	zs = NewZoomState(&ZoomConfig{Radius: 60, Factor: 2, ScrollFactor: -1})
	if zs.ScrollFactor != DefaultZoomConfig().ScrollFactor {
		t.Errorf("scroll factor = %v", zs.ScrollFactor)
	}
}

func TestZoomContains(t *testing.T) {
	zs := NewZoomState(&ZoomConfig{Radius: 10, Factor: 2, ScrollFactor: 0.1})
	zs.HandlePress(press(50, 50))
	if !zs.Contains(50, 58) {
		t.Error("(50,58) should be inside a radius-10 lens at (50,50)")
	}
	if zs.Contains(50, 61) {
		t.Error("(50,61) should be outside")
	}
}
