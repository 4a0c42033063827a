package weave

import "testing"

func checkerboard() *WeaveDefinition {
	return &WeaveDefinition{
		Threading: [][]bool{
			{true, false},
			{false, true},
		},
		WarpColors: []string{"black"},
		WeftColors: []string{"white"},
	}
}

func TestPaintPatternCheckerboard(t *testing.T) {
	pm := NewPixmap(40, 40)
	PaintPattern(pm, checkerboard(), SimpleMode{CellSize: 10})

	tests := []struct {
		x, y int
		want Color
	}{
		{5, 5, Black},
		{15, 5, White},
		{5, 15, White},
		{15, 15, Black},
		{25, 25, Black},
		{35, 5, White},
		{25, 5, Black},
	}
	for _, tt := range tests {
		if got := pm.GetPixel(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPaintPatternPeriodicity(t *testing.T) {
	def := &WeaveDefinition{
		Threading: [][]bool{
			{true, false, false},
			{false, true, false},
		},
		WarpColors: []string{"red", "green", "blue"},
		WeftColors: []string{"yellow", "cyan"},
	}
	pm := NewPixmap(120, 120)
	PaintPattern(pm, def, SimpleMode{CellSize: 10})

	// Horizontal period: lcm(threading cols, warp palette) = 3 cells.
	// Vertical period: lcm(threading rows, weft palette) = 2 cells.
	for y := 0; y < 100; y += 7 {
		for x := 0; x < 90; x += 7 {
			if a, b := pm.GetPixel(x, y), pm.GetPixel(x+30, y); a != b {
				t.Fatalf("pixel (%d,%d)=%v differs from (%d,%d)=%v", x, y, a, x+30, y, b)
			}
			if a, b := pm.GetPixel(x, y), pm.GetPixel(x, y+20); a != b {
				t.Fatalf("pixel (%d,%d)=%v differs from (%d,%d)=%v", x, y, a, x, y+20, b)
			}
		}
	}
}

func TestPaintPatternInterlacingCenterPixel(t *testing.T) {
	def := &WeaveDefinition{
		Threading:  [][]bool{{true}},
		WarpColors: []string{"red"},
		WeftColors: []string{"blue"},
	}
	mode := InterlacingMode{CellSize: 9, ThreadThickness: 3, BorderSize: 0, CutSize: 1}
	pm := NewPixmap(9, 9)
	PaintPattern(pm, def, mode)

	// The warp band runs vertically through the cell center.
	if got := pm.GetPixel(4, 4); got != Red {
		t.Errorf("center pixel = %v, want warp red", got)
	}
	// gap = 3 + 2 = 5, so the weft shows in 2px segments at the edges.
	if got := pm.GetPixel(0, 4); got != Blue {
		t.Errorf("left under segment = %v, want weft blue", got)
	}
	if got := pm.GetPixel(8, 4); got != Blue {
		t.Errorf("right under segment = %v, want weft blue", got)
	}
	// Off both threads the background shows.
	if got := pm.GetPixel(7, 0); got != White {
		t.Errorf("background pixel = %v, want white", got)
	}
}

func TestPaintPatternEmpty(t *testing.T) {
	pm := NewPixmap(60, 40)
	PaintPattern(pm, &WeaveDefinition{}, SimpleMode{CellSize: 10})
	if got := pm.GetPixel(0, 0); got != PlaceholderBackground {
		t.Errorf("corner pixel = %v, want placeholder background", got)
	}
	PaintPattern(pm, nil, SimpleMode{CellSize: 10})
	if got := pm.GetPixel(59, 39); got != PlaceholderBackground {
		t.Errorf("corner pixel = %v, want placeholder background", got)
	}
}

func TestPaintLens(t *testing.T) {
	pm := NewPixmap(100, 100)
	PaintPattern(pm, checkerboard(), SimpleMode{CellSize: 10})

	zs := NewZoomState(&ZoomConfig{
		Radius: 20, Factor: 2, BorderSize: 2,
		BorderColor: "#00ff00", BackgroundColor: "white", ScrollFactor: 0.1,
	})
	zs.HandlePress(PointerEvent{Kind: Press, X: 50, Y: 50})
	PaintLens(pm, checkerboard(), SimpleMode{CellSize: 10}, zs)

	// Border ring on the circle edge.
	if got := pm.GetPixel(50, 31); got != Green {
		t.Errorf("border pixel = %v, want green", got)
	}
	// Outside the lens the base pattern is untouched.
	if got := pm.GetPixel(5, 5); got != Black {
		t.Errorf("pixel outside lens = %v, want black", got)
	}
	// Inside, the content is the magnified pattern phase-aligned to the
	// lens square: cell index floor(30/10) = 3 at the square origin.
	// Cell (3,3) is black, magnified to 20px from (30,30).
	if got := pm.GetPixel(40, 40); got != Black {
		t.Errorf("magnified cell = %v, want black", got)
	}
	// (55,35) lies in magnified cell (4,3), which is white; the base
	// pattern underneath would be black there, so this proves the lens
	// content replaced it.
	if got := pm.GetPixel(55, 35); got != White {
		t.Errorf("magnified neighbor = %v, want white", got)
	}
}

// A lens overlapping the surface origin renders with negative cell
// offsets.
func TestPaintLensNegativePhase(t *testing.T) {
	pm := NewPixmap(60, 60)
	PaintPattern(pm, checkerboard(), SimpleMode{CellSize: 10})

	zs := NewZoomState(&ZoomConfig{
		Radius: 20, Factor: 2, BorderSize: 0,
		BorderColor: "black", BackgroundColor: "white", ScrollFactor: 0.1,
	})
	zs.HandlePress(PointerEvent{Kind: Press, X: 5, Y: 5})
	PaintLens(pm, checkerboard(), SimpleMode{CellSize: 10}, zs)

	// Square origin is (-15,-15), phase cell floor(-15/10) = -2, which
	// wraps to threading cell (0,0): black, magnified to 20px covering
	// the whole visible top-left quarter of the lens.
	if got := pm.GetPixel(2, 2); got != Black {
		t.Errorf("lens content = %v, want black", got)
	}
}
