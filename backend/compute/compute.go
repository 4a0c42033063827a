// Package compute implements the first GPU backend: a wgpu HAL compute
// shader that evaluates the pattern per pixel into a storage buffer,
// followed by a staging copy and CPU readback.
package compute

import (
	_ "embed"
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/loomkit/weave"
	"github.com/loomkit/weave/backend"
	"github.com/loomkit/weave/internal/gpudev"
)

//go:embed shaders/pattern.wgsl
var patternShaderSource string

// shaderParams mirrors the Params uniform in pattern.wgsl.
type shaderParams struct {
	Width       uint32
	Height      uint32
	PatternCols uint32
	PatternRows uint32
	WarpLen     uint32
	WeftLen     uint32
	Mode        uint32
	Pad         uint32
	Cell        float32
	Thickness   float32
	Border      float32
	Cut         float32
}

// Backend renders the pattern through a compute pipeline.
type Backend struct {
	dev *gpudev.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	initialized bool
}

func init() {
	backend.Register(string(weave.BackendCompute), func() backend.RenderBackend {
		return &Backend{}
	})
}

// New creates the compute backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return string(weave.BackendCompute) }

// Available reports whether a GPU adapter can be used.
func (b *Backend) Available() bool { return gpudev.Available() }

// Init opens a device and builds the compute pipeline.
func (b *Backend) Init() error {
	if b.initialized {
		return nil
	}
	dev, err := gpudev.Open()
	if err != nil {
		return fmt.Errorf("compute: %w", backend.ErrBackendNotAvailable)
	}
	b.dev = dev
	if err := b.createPipeline(); err != nil {
		b.dev.Close()
		b.dev = nil
		return fmt.Errorf("compute: %w", err)
	}
	b.initialized = true
	weave.Logger().Debug("compute backend initialized")
	return nil
}

// SetDeviceProvider switches the backend onto a shared GPU device. The
// pipeline is rebuilt on the new device.
func (b *Backend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	dev, err := gpudev.FromProvider(provider)
	if err != nil {
		return fmt.Errorf("compute: %w", err)
	}
	b.destroyPipeline()
	if b.dev != nil {
		b.dev.Close()
	}
	b.dev = dev
	if err := b.createPipeline(); err != nil {
		b.initialized = false
		return fmt.Errorf("compute: shared device: %w", err)
	}
	b.initialized = true
	return nil
}

// Close releases the pipeline and the device.
func (b *Backend) Close() {
	b.destroyPipeline()
	if b.dev != nil {
		b.dev.Close()
		b.dev = nil
	}
	b.initialized = false
}

func (b *Backend) createPipeline() error {
	device, _ := b.dev.HAL()

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "weave_pattern",
		Source: hal.ShaderSource{WGSL: patternShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile pattern shader: %w", err)
	}
	b.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "weave_pattern_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "weave_pattern_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "weave_pattern_pipeline",
		Layout:  b.pipeLayout,
		Compute: hal.ComputeState{Module: b.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	b.pipeline = pipeline
	return nil
}

func (b *Backend) destroyPipeline() {
	if b.dev == nil {
		return
	}
	device, _ := b.dev.HAL()
	if b.pipeline != nil {
		device.DestroyComputePipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}

// Render dispatches the pattern shader and reads the pixels back. The
// target is written only after the GPU work completed, so a failed
// render leaves it untouched.
func (b *Backend) Render(target *weave.Pixmap, def *weave.WeaveDefinition, opts *weave.RenderOptions) error {
	if !b.initialized {
		return backend.ErrNotInitialized
	}
	if target == nil || opts == nil || opts.Mode == nil {
		return nil
	}
	if def == nil || def.IsEmpty() {
		target.Clear(weave.PlaceholderBackground)
		return nil
	}

	w, h := uint32(target.Width()), uint32(target.Height())
	if w == 0 || h == 0 {
		return nil
	}
	params := makeParams(w, h, def, opts.Mode)
	threadingWords := packThreading(def.Threading)
	paletteBytes := packPalettes(def)
	pixelBufSize := uint64(w) * uint64(h) * 4

	device, queue := b.dev.HAL()

	paramsBuf, err := createAndUpload(device, queue, "weave_params",
		structToBytes(unsafe.Pointer(&params), unsafe.Sizeof(params)),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer device.DestroyBuffer(paramsBuf)

	threadingBuf, err := createAndUpload(device, queue, "weave_threading",
		wordsToBytes(threadingWords),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer device.DestroyBuffer(threadingBuf)

	paletteBuf, err := createAndUpload(device, queue, "weave_palette",
		paletteBytes,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer device.DestroyBuffer(paletteBuf)

	storageBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "weave_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("compute: create storage buffer: %w", err)
	}
	defer device.DestroyBuffer(storageBuf)

	stagingBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "weave_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("compute: create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(stagingBuf)

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "weave_pattern_bind",
		Layout: b.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: uint64(unsafe.Sizeof(params))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: threadingBuf.NativeHandle(), Offset: 0, Size: uint64(len(threadingWords) * 4)}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: paletteBuf.NativeHandle(), Offset: 0, Size: uint64(len(paletteBytes))}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("compute: create bind group: %w", err)
	}
	defer device.DestroyBindGroup(bindGroup)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "weave_pattern_encoder"})
	if err != nil {
		return fmt.Errorf("compute: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("weave_pattern"); err != nil {
		return fmt.Errorf("compute: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "weave_pattern_pass"})
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((w+7)/8, (h+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("compute: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("compute: create fence: %w", err)
	}
	defer device.DestroyFence(fence)
	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("compute: submit: %w", err)
	}
	fenceOK, err := device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("compute: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("compute: readback: %w", err)
	}
	// The shader packs red in the low byte, so the buffer already has
	// the pixmap's RGBA byte order.
	copy(target.Data(), readback)
	return nil
}

func makeParams(w, h uint32, def *weave.WeaveDefinition, mode weave.DisplayMode) shaderParams {
	rows, cols := def.Size()
	p := shaderParams{
		Width:       w,
		Height:      h,
		PatternCols: uint32(cols),
		PatternRows: uint32(rows),
		WarpLen:     uint32(len(def.WarpColors)),
		WeftLen:     uint32(len(def.WeftColors)),
	}
	switch m := mode.(type) {
	case weave.SimpleMode:
		p.Mode = 0
		p.Cell = float32(m.CellSize)
	case weave.InterlacingMode:
		p.Mode = 1
		p.Cell = float32(m.CellSize)
		p.Thickness = float32(m.ThreadThickness)
		p.Border = float32(m.BorderSize)
		p.Cut = float32(m.CutSize)
	}
	return p
}

// packThreading packs the boolean matrix row-major, one bit per cell,
// 32 cells per word.
func packThreading(threading [][]bool) []uint32 {
	rows := len(threading)
	cols := len(threading[0])
	words := make([]uint32, (rows*cols+31)/32)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if threading[r][c] {
				bit := r*cols + c
				words[bit/32] |= 1 << (bit % 32)
			}
		}
	}
	return words
}

// packPalettes lays out the warp palette followed by the weft palette
// as vec4 colors.
func packPalettes(def *weave.WeaveDefinition) []byte {
	warp := weave.ResolvePalette(def.WarpColors)
	weft := weave.ResolvePalette(def.WeftColors)
	out := make([]byte, 0, (len(warp)+len(weft))*16)
	for _, c := range warp {
		out = appendVec4(out, c)
	}
	for _, c := range weft {
		out = appendVec4(out, c)
	}
	return out
}

func appendVec4(out []byte, c weave.Color) []byte {
	for _, v := range [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)} {
		bits := math.Float32bits(v)
		out = append(out, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return out
}

func wordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[i*4] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size)
}

func createAndUpload(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("compute: create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
