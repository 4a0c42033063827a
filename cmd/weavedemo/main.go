// Command weavedemo renders a sample weave pattern to a PNG file.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/loomkit/weave"
	"github.com/loomkit/weave/backend"
	_ "github.com/loomkit/weave/backend/compute"
	_ "github.com/loomkit/weave/backend/fragment"
	_ "github.com/loomkit/weave/backend/vector"
)

func main() {
	var (
		width       = flag.Int("width", 800, "image width")
		height      = flag.Int("height", 600, "image height")
		output      = flag.String("output", "weave.png", "output file")
		backendName = flag.String("backend", "raster", "rendering backend (raster, vector, compute, fragment)")
		interlacing = flag.Bool("interlacing", true, "draw the over/under thread crossings")
		cellSize    = flag.Float64("cell", 24, "cell size in pixels")
	)
	flag.Parse()

	// A 2/2 twill with alternating warp colors.
	def := &weave.WeaveDefinition{
		Threading: [][]bool{
			{true, true, false, false},
			{false, true, true, false},
			{false, false, true, true},
			{true, false, false, true},
		},
		WarpColors: []string{"navy", "#4682b4"},
		WeftColors: []string{"ivory"},
	}

	var mode weave.DisplayMode = weave.SimpleMode{CellSize: *cellSize}
	if *interlacing {
		mode = weave.InterlacingMode{
			CellSize:        *cellSize,
			ThreadThickness: *cellSize * 0.5,
			BorderSize:      1,
			CutSize:         1,
		}
	}

	pm, err := backend.RenderPattern(def, &weave.RenderOptions{
		Width:   *width,
		Height:  *height,
		Backend: weave.Backend(*backendName),
		Mode:    mode,
	})
	if err != nil {
		log.Fatalf("render failed: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create %s: %v", *output, err)
	}
	defer f.Close()
	if err := pm.EncodePNG(f); err != nil {
		log.Fatalf("encode png: %v", err)
	}
	log.Printf("pattern saved to %s (%dx%d, %s backend)", *output, *width, *height, *backendName)
}
