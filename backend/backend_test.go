package backend

import (
	"errors"
	"testing"

	"github.com/loomkit/weave"
)

func testDef() *weave.WeaveDefinition {
	return &weave.WeaveDefinition{
		Threading: [][]bool{
			{true, false},
			{false, true},
		},
		WarpColors: []string{"black"},
		WeftColors: []string{"white"},
	}
}

func TestRegistry(t *testing.T) {
	if !IsRegistered(string(weave.BackendRaster)) {
		t.Fatal("raster backend should register on import")
	}
	b := Get(string(weave.BackendRaster))
	if b == nil {
		t.Fatal("Get(raster) returned nil")
	}
	if b.Name() != "raster" {
		t.Errorf("Name() = %q", b.Name())
	}
	if Get("no-such-backend") != nil {
		t.Error("Get of unknown name should return nil")
	}

	Register("temp", func() RenderBackend { return &RasterBackend{} })
	if !IsRegistered("temp") {
		t.Error("temp backend missing after Register")
	}
	Unregister("temp")
	if IsRegistered("temp") {
		t.Error("temp backend present after Unregister")
	}
}

func TestDefault(t *testing.T) {
	b := Default()
	if b == nil {
		t.Fatal("Default() returned nil with raster registered")
	}
	if !b.Available() {
		t.Error("default backend must be available")
	}
}

func TestRasterRender(t *testing.T) {
	b := NewRasterBackend()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	pm := weave.NewPixmap(40, 40)
	err := b.Render(pm, testDef(), &weave.RenderOptions{Mode: weave.SimpleMode{CellSize: 10}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := pm.GetPixel(5, 5); got != weave.Black {
		t.Errorf("pixel (5,5) = %v, want black", got)
	}
	if got := pm.GetPixel(15, 5); got != weave.White {
		t.Errorf("pixel (15,5) = %v, want white", got)
	}
}

func TestRasterRenderUninitialized(t *testing.T) {
	b := NewRasterBackend()
	pm := weave.NewPixmap(10, 10)
	err := b.Render(pm, testDef(), &weave.RenderOptions{Mode: weave.SimpleMode{CellSize: 10}})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
}

func TestRasterRenderEmpty(t *testing.T) {
	b := NewRasterBackend()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	pm := weave.NewPixmap(20, 20)
	err := b.Render(pm, &weave.WeaveDefinition{}, &weave.RenderOptions{Mode: weave.SimpleMode{CellSize: 10}})
	if err != nil {
		t.Fatalf("empty definition must not error, got %v", err)
	}
	if got := pm.GetPixel(0, 0); got != weave.PlaceholderBackground {
		t.Errorf("corner = %v, want placeholder background", got)
	}
}

func TestDispatcherFallback(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	pm := weave.NewPixmap(40, 40)
	err := d.Render(pm, testDef(), &weave.RenderOptions{
		Backend: weave.Backend("does-not-exist"),
		Mode:    weave.SimpleMode{CellSize: 10},
	})
	if err != nil {
		t.Fatalf("unknown backend should fall back to raster, got %v", err)
	}
	if got := pm.GetPixel(5, 5); got != weave.Black {
		t.Errorf("fallback output pixel = %v, want black", got)
	}
}

func TestDispatcherUnavailable(t *testing.T) {
	Register("never-there", func() RenderBackend { return unavailableBackend{} })
	defer Unregister("never-there")

	d := NewDispatcher()
	defer d.Close()

	pm := weave.NewPixmap(8, 8)
	pm.Clear(weave.Red)
	err := d.Render(pm, testDef(), &weave.RenderOptions{
		Backend: weave.Backend("never-there"),
		Mode:    weave.SimpleMode{CellSize: 4},
	})
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Fatalf("err = %v, want ErrBackendNotAvailable", err)
	}
	// The target must be left untouched.
	if got := pm.GetPixel(3, 3); got != weave.Red {
		t.Errorf("target modified on failure: %v", got)
	}
}

func TestRenderPattern(t *testing.T) {
	pm, err := RenderPattern(testDef(), &weave.RenderOptions{
		Width:  30,
		Height: 20,
		Mode:   weave.SimpleMode{CellSize: 10},
	})
	if err != nil {
		t.Fatalf("RenderPattern failed: %v", err)
	}
	if pm.Width() != 30 || pm.Height() != 20 {
		t.Errorf("size = %dx%d, want 30x20", pm.Width(), pm.Height())
	}
}

type unavailableBackend struct{}

func (unavailableBackend) Name() string    { return "never-there" }
func (unavailableBackend) Init() error     { return ErrBackendNotAvailable }
func (unavailableBackend) Close()          {}
func (unavailableBackend) Available() bool { return false }
func (unavailableBackend) Render(*weave.Pixmap, *weave.WeaveDefinition, *weave.RenderOptions) error {
	return ErrBackendNotAvailable
}
