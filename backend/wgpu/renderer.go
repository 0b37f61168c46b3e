// Package wgpu renders imdraw draw data through the gogpu/wgpu HAL.
//
// The renderer owns one render pipeline, the font atlas texture, a
// cached sampler, and a registry of user textures. Vertex and index
// buffers are created fresh every frame from the flattened draw lists
// and released the frame after; command-buffer submission stays with
// the caller.
package wgpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/go-imdraw/imdraw"
)

//go:embed shaders/ui.wgsl
var uiShaderSource string

// Renderer errors.
var (
	// ErrNilEncoder is returned when rendering without a command encoder.
	ErrNilEncoder = errors.New("wgpu: command encoder is nil")

	// ErrNoColorAttachments is returned when rendering without render targets.
	ErrNoColorAttachments = errors.New("wgpu: no color attachments")
)

// uiUniformSize is the byte size of the uniform buffer: one
// 4x4 float32 projection matrix.
const uiUniformSize = 64

// Sink is the command sink handed to draw callbacks. It exposes the
// render pass the frame is being recorded into.
type Sink struct {
	pass     hal.RenderPassEncoder
	renderer *Renderer
}

// Backend identifies the sink's backend.
func (s *Sink) Backend() string { return "wgpu" }

// Pass returns the active render pass encoder. Pipeline, vertex and
// index buffer bindings are restored after the callback returns; any
// other state the callback changes is its own responsibility.
func (s *Sink) Pass() hal.RenderPassEncoder { return s.pass }

// Renderer returns the renderer dispatching the callback.
func (s *Sink) Renderer() *Renderer { return s.renderer }

// textureBinding ties a registered texture to its per-texture bind
// group. The font atlas binding additionally owns its texture.
type textureBinding struct {
	view    hal.TextureView
	sampler hal.Sampler
	group   hal.BindGroup
	tex     hal.Texture // Non-nil only when the renderer owns the texture
}

// Renderer draws imdraw draw data into caller-provided render
// targets. Not safe for concurrent use.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	sampler     hal.Sampler
	samplerDesc hal.SamplerDescriptor

	uniformBuf hal.Buffer

	textures map[imdraw.TextureID]*textureBinding
	nextID   imdraw.TextureID

	// Per-frame vertex/index buffers, retired at the start of the
	// next frame once the previous submission has consumed them.
	frameBufs []hal.Buffer

	// CPU staging scratch reused across frames, sized to the larger
	// of the frame's vertex and index byte lengths.
	staging []byte
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSampler overrides the descriptor of the cached sampler used for
// the font atlas and for textures registered without a sampler.
func WithSampler(desc hal.SamplerDescriptor) Option {
	return func(r *Renderer) { r.samplerDesc = desc }
}

// NewRenderer creates a renderer targeting the given color format.
// The format must be the surface's actual format, queried from the
// swapchain rather than assumed. The context's font atlas is uploaded
// and bound to imdraw.FontTextureID.
func NewRenderer(device hal.Device, queue hal.Queue, surfaceFormat gputypes.TextureFormat, ctx *imdraw.Context, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		device:   device,
		queue:    queue,
		format:   surfaceFormat,
		textures: make(map[imdraw.TextureID]*textureBinding),
		nextID:   imdraw.FontTextureID + 1,
		samplerDesc: hal.SamplerDescriptor{
			Label:        "imdraw_sampler",
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    gputypes.FilterModeLinear,
			MinFilter:    gputypes.FilterModeLinear,
			MipmapFilter: gputypes.FilterModeLinear,
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.createPipeline(); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.createFontTexture(ctx.Fonts()); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

// createPipeline compiles the UI shader and creates the render
// pipeline, sampler, and uniform buffer.
func (r *Renderer) createPipeline() error {
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "imdraw_shader",
		Source: hal.ShaderSource{WGSL: uiShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile imdraw shader: %w", err)
	}
	r.shader = shader

	// Bind group layout:
	//   Binding 0: projection uniform (vertex)
	//   Binding 1: texture (fragment)
	//   Binding 2: sampler (fragment)
	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "imdraw_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create imdraw uniform layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "imdraw_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create imdraw pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	sampler, err := r.device.CreateSampler(&r.samplerDesc)
	if err != nil {
		return fmt.Errorf("create imdraw sampler: %w", err)
	}
	r.sampler = sampler

	// Standard over-compositing for straight-alpha UI colors.
	uiBlend := gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}

	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "imdraw_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers:    uiVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.format,
					Blend:     &uiBlend,
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
		return fmt.Errorf("create imdraw pipeline: %w", err)
	}
	r.pipeline = pipeline

	uniformBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "imdraw_uniform",
		Size:  uiUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create imdraw uniform buffer: %w", err)
	}
	r.uniformBuf = uniformBuf

	return nil
}

// createFontTexture uploads the font atlas and binds it to the
// reserved texture ID.
func (r *Renderer) createFontTexture(fonts *imdraw.FontAtlas) error {
	pixels, w, h := fonts.Build()
	tex, view, err := CreateTextureWithData(r.device, r.queue, "imdraw_font_atlas", pixels, uint32(w), uint32(h))
	if err != nil {
		return fmt.Errorf("upload font atlas: %w", err)
	}

	group, err := r.createBindGroup("imdraw_font_bind", view, r.sampler)
	if err != nil {
		r.device.DestroyTextureView(view)
		r.device.DestroyTexture(tex)
		return err
	}

	r.textures[imdraw.FontTextureID] = &textureBinding{
		view:    view,
		sampler: r.sampler,
		group:   group,
		tex:     tex,
	}
	fonts.SetTexID(imdraw.FontTextureID)
	return nil
}

// createBindGroup creates the per-texture bind group:
// projection uniform + texture view + sampler.
func (r *Renderer) createBindGroup(label string, view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	group, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: uiUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return group, nil
}

// RegisterTexture registers a texture view for use in draw commands
// and returns its ID. A nil sampler selects the renderer's cached
// sampler. The caller retains ownership of the view (and sampler);
// they must outlive the registration.
func (r *Renderer) RegisterTexture(view hal.TextureView, sampler hal.Sampler) (imdraw.TextureID, error) {
	if sampler == nil {
		sampler = r.sampler
	}
	group, err := r.createBindGroup("imdraw_texture_bind", view, sampler)
	if err != nil {
		return 0, err
	}

	id := r.nextID
	r.nextID++
	r.textures[id] = &textureBinding{view: view, sampler: sampler, group: group}
	return id, nil
}

// UnregisterTexture releases a registered texture's bind group. The
// font atlas (ID 0) cannot be unregistered, and its ID is never
// reused for later registrations.
func (r *Renderer) UnregisterTexture(id imdraw.TextureID) {
	if id == imdraw.FontTextureID {
		return
	}
	tb, ok := r.textures[id]
	if !ok {
		return
	}
	r.device.DestroyBindGroup(tb.group)
	delete(r.textures, id)
}

// Render finalizes the context's frame and records it. Equivalent to
// RenderDrawData(encoder, colorAttachments, ctx.Render()).
func (r *Renderer) Render(encoder hal.CommandEncoder, colorAttachments []hal.RenderPassColorAttachment, ctx *imdraw.Context) error {
	return r.RenderDrawData(encoder, colorAttachments, ctx.Render())
}

// RenderDrawData records the draw data into a render pass on the
// caller's encoder. When there is nothing to draw (zero display size
// or no geometry) no pass is opened and the attachments' load/store
// ops do not run. The caller owns ending the encoder and submitting
// the command buffer.
func (r *Renderer) RenderDrawData(encoder hal.CommandEncoder, colorAttachments []hal.RenderPassColorAttachment, dd *imdraw.DrawData) error {
	// The previous frame's buffers have been consumed by the caller's
	// submission by the time the next frame starts.
	r.releaseFrameBuffers()

	if dd == nil || dd.Empty() {
		return nil
	}
	if encoder == nil {
		return ErrNilEncoder
	}
	if len(colorAttachments) == 0 {
		return ErrNoColorAttachments
	}

	fbWidth := dd.DisplaySize.X * dd.FramebufferScale.X
	fbHeight := dd.DisplaySize.Y * dd.FramebufferScale.Y
	if fbWidth <= 0 || fbHeight <= 0 {
		return nil
	}

	vtxBuf, idxBuf, err := r.buildFrameBuffers(dd)
	if err != nil {
		return err
	}

	r.writeProjection(dd.DisplaySize)

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "imdraw_pass",
		ColorAttachments: colorAttachments,
	})
	rp.SetViewport(0, 0, fbWidth, fbHeight, 0, 1)
	r.replayCommands(rp, vtxBuf, idxBuf, dd)
	rp.End()
	return nil
}

// replayCommands replays the draw lists into the pass in list order,
// with running offsets into the flattened buffers (painter's
// algorithm).
func (r *Renderer) replayCommands(rp hal.RenderPassEncoder, vtxBuf, idxBuf hal.Buffer, dd *imdraw.DrawData) {
	rp.SetPipeline(r.pipeline)
	rp.SetVertexBuffer(0, vtxBuf, 0)
	rp.SetIndexBuffer(idxBuf, indexFormat(), 0)

	var runVtx, runIdx uint32
	for _, dl := range dd.Lists {
		for i := range dl.CmdBuffer {
			cmd := &dl.CmdBuffer[i]

			if cmd.Callback != nil {
				cmd.Callback(&Sink{pass: rp, renderer: r}, cmd)
				// Callbacks may disturb pass state; rebind.
				rp.SetPipeline(r.pipeline)
				rp.SetVertexBuffer(0, vtxBuf, 0)
				rp.SetIndexBuffer(idxBuf, indexFormat(), 0)
				continue
			}
			if cmd.ElemCount == 0 {
				continue
			}

			sx, sy, sw, sh, ok := scissorRect(cmd.ClipRect, dd.DisplaySize, dd.FramebufferScale)
			if !ok {
				continue
			}
			rp.SetScissorRect(sx, sy, sw, sh)
			rp.SetBindGroup(0, r.bindGroupFor(cmd.TextureID), nil)
			rp.DrawIndexed(cmd.ElemCount, 1, cmd.IndexOffset+runIdx, int32(cmd.VertexOffset+runVtx), 0)
		}
		runVtx += uint32(len(dl.VtxBuffer))
		runIdx += uint32(len(dl.IdxBuffer))
	}
}

// buildFrameBuffers flattens all draw lists into this frame's vertex
// and index buffers. One CPU scratch slice, sized to the larger of
// the two byte lengths, stages the vertex data and is then reused for
// the index data.
func (r *Renderer) buildFrameBuffers(dd *imdraw.DrawData) (vtxBuf, idxBuf hal.Buffer, err error) {
	vtxBytes := dd.TotalVtxCount * imdraw.VertexSize
	idxBytes := dd.TotalIdxCount * imdraw.DrawIdxSize
	if need := max(vtxBytes, idxBytes); cap(r.staging) < need {
		r.staging = make([]byte, need)
	}

	buf := r.staging[:vtxBytes]
	off := 0
	for _, dl := range dd.Lists {
		for _, v := range dl.VtxBuffer {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.Pos[0]))
			binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Pos[1]))
			binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v.TexCoord[0]))
			binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(v.TexCoord[1]))
			binary.LittleEndian.PutUint32(buf[off+16:], v.Color)
			off += imdraw.VertexSize
		}
	}
	vtxBuf, err = CreateBufferWithData(r.device, r.queue, "imdraw_vertices",
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst, buf)
	if err != nil {
		return nil, nil, err
	}
	r.frameBufs = append(r.frameBufs, vtxBuf)

	buf = r.staging[:idxBytes]
	off = 0
	for _, dl := range dd.Lists {
		for _, idx := range dl.IdxBuffer {
			if imdraw.DrawIdxSize == 4 {
				binary.LittleEndian.PutUint32(buf[off:], uint32(idx))
			} else {
				binary.LittleEndian.PutUint16(buf[off:], uint16(idx))
			}
			off += imdraw.DrawIdxSize
		}
	}
	idxBuf, err = CreateBufferWithData(r.device, r.queue, "imdraw_indices",
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst, buf)
	if err != nil {
		return nil, nil, err
	}
	r.frameBufs = append(r.frameBufs, idxBuf)

	return vtxBuf, idxBuf, nil
}

// writeProjection uploads the orthographic projection for the current
// display size: logical pixels, origin top-left, Y down.
func (r *Renderer) writeProjection(displaySize imdraw.Vec2) {
	proj := orthoProjection(displaySize.X, displaySize.Y)
	var buf [uiUniformSize]byte
	for i, f := range proj {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	r.queue.WriteBuffer(r.uniformBuf, 0, buf[:])
}

// bindGroupFor resolves a texture ID, falling back to the font atlas
// for IDs that were never registered or already unregistered.
func (r *Renderer) bindGroupFor(id imdraw.TextureID) hal.BindGroup {
	if tb, ok := r.textures[id]; ok {
		return tb.group
	}
	return r.textures[imdraw.FontTextureID].group
}

func (r *Renderer) releaseFrameBuffers() {
	for _, buf := range r.frameBufs {
		r.device.DestroyBuffer(buf)
	}
	r.frameBufs = r.frameBufs[:0]
}

// Destroy releases all GPU resources held by the renderer. Safe to
// call on a partially constructed renderer.
func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	r.releaseFrameBuffers()

	for id, tb := range r.textures {
		r.device.DestroyBindGroup(tb.group)
		if tb.tex != nil {
			r.device.DestroyTextureView(tb.view)
			r.device.DestroyTexture(tb.tex)
		}
		delete(r.textures, id)
	}

	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

// uiVertexLayout returns the vertex buffer layout for the UI pipeline.
// Matches VertexInput in ui.wgsl:
//
//	location 0: position (vec2<f32>)
//	location 1: tex_coord (vec2<f32>)
//	location 2: color (unorm8x4, read as vec4<f32>)
func uiVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: imdraw.VertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coord
				{Format: gputypes.VertexFormatUnorm8x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}

// indexFormat selects the pipeline index format from the compile-time
// index width.
func indexFormat() gputypes.IndexFormat {
	if imdraw.DrawIdxSize == 4 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}

// orthoProjection builds the column-major orthographic projection
// mapping (0,0)..(w,h) to clip space with Y flipped.
func orthoProjection(w, h float32) [16]float32 {
	return [16]float32{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

// scissorRect converts a clip rectangle in logical pixels to a
// framebuffer-space scissor. Returns ok=false for degenerate rects,
// which are skipped entirely.
func scissorRect(clip [4]float32, displaySize, scale imdraw.Vec2) (x, y, w, h uint32, ok bool) {
	// Clamp to the display so the unbounded default clip stays
	// representable.
	x0 := clampf(clip[0], 0, displaySize.X)
	y0 := clampf(clip[1], 0, displaySize.Y)
	x1 := clampf(clip[2], 0, displaySize.X)
	y1 := clampf(clip[3], 0, displaySize.Y)

	sw := maxf(0, (x1-x0)*scale.X)
	sh := maxf(0, (y1-y0)*scale.Y)
	if sw <= 0 || sh <= 0 {
		return 0, 0, 0, 0, false
	}
	return uint32(x0 * scale.X), uint32(y0 * scale.Y), uint32(sw), uint32(sh), true
}

func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
