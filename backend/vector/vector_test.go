package vector

import (
	"testing"

	"github.com/loomkit/weave"
	"github.com/loomkit/weave/backend"
)

func testDef() *weave.WeaveDefinition {
	return &weave.WeaveDefinition{
		Threading: [][]bool{
			{true, true, false, false},
			{false, true, true, false},
			{false, false, true, true},
			{true, false, false, true},
		},
		WarpColors: []string{"navy", "steelblue"},
		WeftColors: []string{"ivory"},
	}
}

// comparePixmaps fails when more than maxFrac of the pixels differ by
// more than maxDiff in any channel.
func comparePixmaps(t *testing.T, got, want *weave.Pixmap, maxDiff int, maxFrac float64) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() {
		t.Fatalf("size mismatch: %dx%d vs %dx%d", got.Width(), got.Height(), want.Width(), want.Height())
	}
	a, b := got.Data(), want.Data()
	differing := 0
	for i := 0; i < len(a); i += 4 {
		for c := 0; c < 4; c++ {
			d := int(a[i+c]) - int(b[i+c])
			if d < 0 {
				d = -d
			}
			if d > maxDiff {
				differing++
				break
			}
		}
	}
	total := got.Width() * got.Height()
	if frac := float64(differing) / float64(total); frac > maxFrac {
		t.Errorf("%d of %d pixels differ by more than %d (%.2f%%, limit %.2f%%)",
			differing, total, maxDiff, frac*100, maxFrac*100)
	}
}

func TestParityWithRaster(t *testing.T) {
	modes := []struct {
		name string
		mode weave.DisplayMode
	}{
		{"simple", weave.SimpleMode{CellSize: 12}},
		{"interlacing", weave.InterlacingMode{CellSize: 16, ThreadThickness: 6, BorderSize: 1, CutSize: 2}},
		{"interlacing degenerate", weave.InterlacingMode{CellSize: 10, ThreadThickness: 4, BorderSize: 1, CutSize: 2}},
	}
	for _, tt := range modes {
		t.Run(tt.name, func(t *testing.T) {
			opts := &weave.RenderOptions{Mode: tt.mode}

			raster := backend.NewRasterBackend()
			if err := raster.Init(); err != nil {
				t.Fatal(err)
			}
			defer raster.Close()
			want := weave.NewPixmap(128, 96)
			if err := raster.Render(want, testDef(), opts); err != nil {
				t.Fatal(err)
			}

			vec := New()
			if err := vec.Init(); err != nil {
				t.Fatal(err)
			}
			defer vec.Close()
			got := weave.NewPixmap(128, 96)
			if err := vec.Render(got, testDef(), opts); err != nil {
				t.Fatal(err)
			}

			comparePixmaps(t, got, want, 5, 0.01)
		})
	}
}

func TestDocumentVersioning(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	pm := weave.NewPixmap(32, 32)
	opts := &weave.RenderOptions{Mode: weave.SimpleMode{CellSize: 8}}
	v0 := b.Document().Version()
	if err := b.Render(pm, testDef(), opts); err != nil {
		t.Fatal(err)
	}
	if b.Document().Version() != v0+1 {
		t.Error("render should replace the document root exactly once")
	}
	if len(b.Document().Root().Nodes) == 0 {
		t.Error("document root is empty after a render")
	}
}

func TestRenderEmpty(t *testing.T) {
	b := New()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	pm := weave.NewPixmap(16, 16)
	if err := b.Render(pm, nil, &weave.RenderOptions{Mode: weave.SimpleMode{CellSize: 8}}); err != nil {
		t.Fatal(err)
	}
	if got := pm.GetPixel(8, 8); got != weave.PlaceholderBackground {
		t.Errorf("pixel = %v, want placeholder background", got)
	}
	if len(b.Document().Root().Nodes) != 0 {
		t.Error("empty definition should leave an empty document")
	}
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(string(weave.BackendVector)) {
		t.Error("vector backend should register on import")
	}
}
