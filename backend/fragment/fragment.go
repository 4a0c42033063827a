// Package fragment implements the second GPU backend: a vertex plus
// fragment render pipeline drawing a fullscreen quad, with the pattern
// evaluated per fragment. The shader is compiled to SPIR-V ahead of
// pipeline creation. Kept deliberately independent of the compute
// backend so the two GPU paths cross-check each other.
package fragment

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
	"github.com/loomkit/weave/internal/shader"
)

//go:embed shaders/weave.wgsl
var weaveShaderSource string

// vertexStride is the byte stride per vertex: one vec2 NDC position.
const vertexStride = 8

// uniforms mirrors the Uniforms struct in weave.wgsl.
type uniforms struct {
	SizeW, SizeH     float32
	Cols, Rows       uint32
	WarpLen, WeftLen uint32
	Style            uint32
	Pad              uint32
	Cell             float32
	Thread           float32
	Outline          float32
	Cut              float32
}

// Backend renders the pattern through a render pipeline.
type Backend struct {
	dev *gpudev.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	// Offscreen color target, recreated when the size changes.
	tex     hal.Texture
	texView hal.TextureView
	width   uint32
	height  uint32

	initialized bool
}

func init() {
	backend.Register(string(weave.BackendFragment), func() backend.RenderBackend {
		return &Backend{}
	})
}

// New creates the fragment backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return string(weave.BackendFragment) }

// Available reports whether a GPU adapter can be used.
func (b *Backend) Available() bool { return gpudev.Available() }

// Init opens a device and builds the render pipeline.
func (b *Backend) Init() error {
	if b.initialized {
		return nil
	}
	dev, err := gpudev.Open()
	if err != nil {
		return fmt.Errorf("fragment: %w", backend.ErrBackendNotAvailable)
	}
	b.dev = dev
	if err := b.createPipeline(); err != nil {
		b.dev.Close()
		b.dev = nil
		return fmt.Errorf("fragment: %w", err)
	}
	b.initialized = true
	weave.Logger().Debug("fragment backend initialized")
	return nil
}

// SetDeviceProvider switches the backend onto a shared GPU device.
func (b *Backend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	dev, err := gpudev.FromProvider(provider)
	if err != nil {
		return fmt.Errorf("fragment: %w", err)
	}
	b.destroyTexture()
	b.destroyPipeline()
	if b.dev != nil {
		b.dev.Close()
	}
	b.dev = dev
	if err := b.createPipeline(); err != nil {
		b.initialized = false
		return fmt.Errorf("fragment: shared device: %w", err)
	}
	b.initialized = true
	return nil
}

// Close releases all GPU resources.
func (b *Backend) Close() {
	b.destroyTexture()
	b.destroyPipeline()
	if b.dev != nil {
		b.dev.Close()
		b.dev = nil
	}
	b.initialized = false
}

func (b *Backend) createPipeline() error {
	device, _ := b.dev.HAL()

	words, err := shader.CompileToSPIRV(weaveShaderSource)
	if err != nil {
		return fmt.Errorf("compile weave shader: %w", err)
	}
	mod, err := shader.NewSPIRVModule(device, "weave_fullscreen", words)
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	b.shader = mod

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "weave_fullscreen_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "weave_fullscreen_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	// Opaque flat fills only: no blending, no multisampling.
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "weave_fullscreen_pipeline",
		Layout: b.pipeLayout,
		Vertex: hal.VertexState{
			Module:     b.shader,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes: []gputypes.VertexAttribute{
						{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Fragment: &hal.FragmentState{
			Module:     b.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
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
		device.DestroyRenderPipeline(b.pipeline)
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

func (b *Backend) ensureTexture(w, h uint32) error {
	if b.width == w && b.height == h && b.tex != nil {
		return nil
	}
	b.destroyTexture()
	device, _ := b.dev.HAL()

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "weave_fullscreen_target",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	b.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "weave_fullscreen_target_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.destroyTexture()
		return fmt.Errorf("create target view: %w", err)
	}
	b.texView = view
	b.width = w
	b.height = h
	return nil
}

func (b *Backend) destroyTexture() {
	if b.dev == nil {
		return
	}
	device, _ := b.dev.HAL()
	if b.texView != nil {
		device.DestroyTextureView(b.texView)
		b.texView = nil
	}
	if b.tex != nil {
		device.DestroyTexture(b.tex)
		b.tex = nil
	}
	b.width = 0
	b.height = 0
}

// Render draws the fullscreen quad and reads the target texture back.
// The pixmap is written only after the GPU work completed.
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
	if err := b.ensureTexture(w, h); err != nil {
		return fmt.Errorf("fragment: %w", err)
	}

	device, queue := b.dev.HAL()

	u := makeUniforms(w, h, def, opts.Mode)
	uniformBuf, err := createAndUpload(device, queue, "weave_uniforms",
		structToBytes(unsafe.Pointer(&u), unsafe.Sizeof(u)),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer device.DestroyBuffer(uniformBuf)

	heddleBytes := packHeddles(def.Threading)
	heddleBuf, err := createAndUpload(device, queue, "weave_heddles", heddleBytes,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer device.DestroyBuffer(heddleBuf)

	colorBytes := packColors(def)
	colorBuf, err := createAndUpload(device, queue, "weave_colors", colorBytes,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer device.DestroyBuffer(colorBuf)

	vertBuf, err := createAndUpload(device, queue, "weave_quad", quadVertices(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer device.DestroyBuffer(vertBuf)

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "weave_fullscreen_bind",
		Layout: b.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uint64(unsafe.Sizeof(u))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: heddleBuf.NativeHandle(), Offset: 0, Size: uint64(len(heddleBytes))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: colorBuf.NativeHandle(), Offset: 0, Size: uint64(len(colorBytes))}},
		},
	})
	if err != nil {
		return fmt.Errorf("fragment: create bind group: %w", err)
	}
	defer device.DestroyBindGroup(bindGroup)

	return b.encodeAndReadback(w, h, vertBuf, bindGroup, target)
}

func (b *Backend) encodeAndReadback(w, h uint32, vertBuf hal.Buffer, bindGroup hal.BindGroup, target *weave.Pixmap) error {
	device, queue := b.dev.HAL()

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "weave_fullscreen_encoder"})
	if err != nil {
		return fmt.Errorf("fragment: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("weave_fullscreen"); err != nil {
		return fmt.Errorf("fragment: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "weave_fullscreen_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       b.texView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 1, G: 1, B: 1, A: 1},
			},
		},
	})
	rp.SetPipeline(b.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, vertBuf, 0)
	rp.Draw(6, 1, 0, 0)
	rp.End()

	// The render pass leaves the texture in attachment layout; the copy
	// below needs transfer source layout. No-op outside Vulkan.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pixelBufSize := uint64(w) * uint64(h) * 4
	stagingBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "weave_fullscreen_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("fragment: create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(b.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: b.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("fragment: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("fragment: create fence: %w", err)
	}
	defer device.DestroyFence(fence)
	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("fragment: submit: %w", err)
	}
	fenceOK, err := device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("fragment: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("fragment: readback: %w", err)
	}
	swizzleBGRA(readback, target.Data())
	return nil
}

// swizzleBGRA converts the BGRA8 texture bytes to the pixmap's RGBA
// order.
func swizzleBGRA(src, dst []byte) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i+3 < n; i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = src[i+3]
	}
}

// quadVertices returns two NDC triangles covering the viewport.
func quadVertices() []byte {
	verts := []float32{
		-1, -1, 1, -1, 1, 1,
		-1, -1, 1, 1, -1, 1,
	}
	out := make([]byte, len(verts)*4)
	for i, v := range verts {
		bits := math.Float32bits(v)
		out[i*4] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}

func makeUniforms(w, h uint32, def *weave.WeaveDefinition, mode weave.DisplayMode) uniforms {
	rows, cols := def.Size()
	u := uniforms{
		SizeW:   float32(w),
		SizeH:   float32(h),
		Cols:    uint32(cols),
		Rows:    uint32(rows),
		WarpLen: uint32(len(def.WarpColors)),
		WeftLen: uint32(len(def.WeftColors)),
	}
	switch m := mode.(type) {
	case weave.SimpleMode:
		u.Style = 0
		u.Cell = float32(m.CellSize)
	case weave.InterlacingMode:
		u.Style = 1
		u.Cell = float32(m.CellSize)
		u.Thread = float32(m.ThreadThickness)
		u.Outline = float32(m.BorderSize)
		u.Cut = float32(m.CutSize)
	}
	return u
}

func packHeddles(threading [][]bool) []byte {
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
	out := make([]byte, len(words)*4)
	for i, word := range words {
		out[i*4] = byte(word)
		out[i*4+1] = byte(word >> 8)
		out[i*4+2] = byte(word >> 16)
		out[i*4+3] = byte(word >> 24)
	}
	return out
}

func packColors(def *weave.WeaveDefinition) []byte {
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
		return nil, fmt.Errorf("fragment: create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
