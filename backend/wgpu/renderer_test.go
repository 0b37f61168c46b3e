package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/go-imdraw/imdraw"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newTestRenderer(t *testing.T, device hal.Device, queue hal.Queue) (*Renderer, *imdraw.Context) {
	t.Helper()
	ctx := imdraw.NewContext()
	r, err := NewRenderer(device, queue, gputypes.TextureFormatBGRA8Unorm, ctx)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r, ctx
}

func newTestEncoder(t *testing.T, device hal.Device) hal.CommandEncoder {
	t.Helper()
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "test_encoder"})
	if err != nil {
		t.Fatalf("CreateCommandEncoder failed: %v", err)
	}
	if err := encoder.BeginEncoding("test_frame"); err != nil {
		t.Fatalf("BeginEncoding failed: %v", err)
	}
	return encoder
}

func newTestAttachments(t *testing.T, device hal.Device, queue hal.Queue) []hal.RenderPassColorAttachment {
	t.Helper()
	pixels := make([]byte, 64*64*4)
	_, view, err := CreateTextureWithData(device, queue, "test_target", pixels, 64, 64)
	if err != nil {
		t.Fatalf("create target texture failed: %v", err)
	}
	return []hal.RenderPassColorAttachment{{
		View:       view,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
	}}
}

func TestNewRenderer(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, ctx := newTestRenderer(t, device, queue)
	defer r.Destroy()

	if ctx.Fonts().TexID() != imdraw.FontTextureID {
		t.Errorf("Expected font atlas bound to ID %d, got %d", imdraw.FontTextureID, ctx.Fonts().TexID())
	}
	if r.pipeline == nil {
		t.Error("Expected pipeline to be created")
	}
	if _, ok := r.textures[imdraw.FontTextureID]; !ok {
		t.Error("Expected font texture registration")
	}
}

func TestRenderer_TextureRegistry(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, _ := newTestRenderer(t, device, queue)
	defer r.Destroy()

	pixels := make([]byte, 4*4*4)
	tex, view, err := CreateTextureWithData(device, queue, "user_tex", pixels, 4, 4)
	if err != nil {
		t.Fatalf("CreateTextureWithData failed: %v", err)
	}
	defer device.DestroyTexture(tex)
	defer device.DestroyTextureView(view)

	id1, err := r.RegisterTexture(view, nil)
	if err != nil {
		t.Fatalf("RegisterTexture failed: %v", err)
	}
	if id1 == imdraw.FontTextureID {
		t.Fatal("Expected registered ID to differ from the font atlas ID")
	}

	id2, err := r.RegisterTexture(view, nil)
	if err != nil {
		t.Fatalf("Second RegisterTexture failed: %v", err)
	}
	if id2 == id1 {
		t.Error("Expected distinct IDs per registration")
	}

	// Unregistered IDs are never reused.
	r.UnregisterTexture(id1)
	id3, err := r.RegisterTexture(view, nil)
	if err != nil {
		t.Fatalf("Third RegisterTexture failed: %v", err)
	}
	if id3 == id1 {
		t.Error("Expected unregistered ID not to be reused")
	}

	// The font atlas cannot be unregistered.
	r.UnregisterTexture(imdraw.FontTextureID)
	if _, ok := r.textures[imdraw.FontTextureID]; !ok {
		t.Error("Expected font texture to survive UnregisterTexture")
	}
}

func TestRenderer_SkipsEmptyDrawData(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, ctx := newTestRenderer(t, device, queue)
	defer r.Destroy()

	// Nil draw data is a no-op, even without an encoder.
	if err := r.RenderDrawData(nil, nil, nil); err != nil {
		t.Errorf("Expected nil error for nil draw data, got %v", err)
	}

	// A frame with no geometry never opens a pass.
	ctx.IO().DisplaySize = imdraw.Vec2{X: 800, Y: 600}
	ctx.NewFrame()
	if err := r.RenderDrawData(nil, nil, ctx.Render()); err != nil {
		t.Errorf("Expected nil error for empty frame, got %v", err)
	}

	// Zero display size skips even with geometry.
	ctx.IO().DisplaySize = imdraw.Vec2{}
	ctx.NewFrame()
	ctx.Background().AddRect(0, 0, 10, 10, imdraw.ColorWhite)
	if err := r.RenderDrawData(nil, nil, ctx.Render()); err != nil {
		t.Errorf("Expected nil error for zero display size, got %v", err)
	}
	if len(r.frameBufs) != 0 {
		t.Errorf("Expected no frame buffers on skip paths, got %d", len(r.frameBufs))
	}
}

func TestRenderer_RequiresEncoderAndAttachments(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, ctx := newTestRenderer(t, device, queue)
	defer r.Destroy()

	ctx.IO().DisplaySize = imdraw.Vec2{X: 800, Y: 600}
	ctx.NewFrame()
	ctx.Background().AddRect(0, 0, 10, 10, imdraw.ColorWhite)
	dd := ctx.Render()

	if err := r.RenderDrawData(nil, nil, dd); !errors.Is(err, ErrNilEncoder) {
		t.Errorf("Expected ErrNilEncoder, got %v", err)
	}

	encoder := newTestEncoder(t, device)
	if err := r.RenderDrawData(encoder, nil, dd); !errors.Is(err, ErrNoColorAttachments) {
		t.Errorf("Expected ErrNoColorAttachments, got %v", err)
	}
}

func TestRenderer_RecordsFrame(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, ctx := newTestRenderer(t, device, queue)
	defer r.Destroy()

	attachments := newTestAttachments(t, device, queue)
	ctx.IO().DisplaySize = imdraw.Vec2{X: 800, Y: 600}

	ctx.NewFrame()
	ctx.Background().AddRect(10, 10, 100, 100, imdraw.ColorWhite)
	ctx.Foreground().AddCircleFilled(400, 300, 50, imdraw.ColorRed, 0)

	encoder := newTestEncoder(t, device)
	if err := r.RenderDrawData(encoder, attachments, ctx.Render()); err != nil {
		t.Fatalf("RenderDrawData failed: %v", err)
	}

	// One vertex and one index buffer per frame, retired next frame.
	if len(r.frameBufs) != 2 {
		t.Fatalf("Expected 2 frame buffers, got %d", len(r.frameBufs))
	}

	ctx.NewFrame()
	if err := r.RenderDrawData(nil, nil, ctx.Render()); err != nil {
		t.Fatalf("Empty follow-up frame failed: %v", err)
	}
	if len(r.frameBufs) != 0 {
		t.Errorf("Expected previous frame buffers retired, got %d", len(r.frameBufs))
	}
}

// recordedDraw captures one DrawIndexed call with the scissor, bind
// group, and offsets in effect when it was issued.
type recordedDraw struct {
	indexCount uint32
	firstIndex uint32
	baseVertex int32
	scissor    [4]uint32
	group      hal.BindGroup
}

// recordingPass records the draw stream replayCommands issues. The
// embedded encoder stays nil; only the methods the replay uses are
// implemented.
type recordingPass struct {
	hal.RenderPassEncoder
	scissor [4]uint32
	group   hal.BindGroup
	draws   []recordedDraw
}

func (p *recordingPass) SetPipeline(pipeline hal.RenderPipeline) {}

func (p *recordingPass) SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64) {}

func (p *recordingPass) SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64) {
}

func (p *recordingPass) SetScissorRect(x, y, w, h uint32) {
	p.scissor = [4]uint32{x, y, w, h}
}

func (p *recordingPass) SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32) {
	p.group = group
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.draws = append(p.draws, recordedDraw{
		indexCount: indexCount,
		firstIndex: firstIndex,
		baseVertex: baseVertex,
		scissor:    p.scissor,
		group:      p.group,
	})
}

func TestRenderer_RunningOffsetsAcrossLists(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, ctx := newTestRenderer(t, device, queue)
	defer r.Destroy()

	pixels := make([]byte, 4*4*4)
	tex, view, err := CreateTextureWithData(device, queue, "user_tex", pixels, 4, 4)
	if err != nil {
		t.Fatalf("CreateTextureWithData failed: %v", err)
	}
	defer device.DestroyTexture(tex)
	defer device.DestroyTextureView(view)

	userID, err := r.RegisterTexture(view, nil)
	if err != nil {
		t.Fatalf("RegisterTexture failed: %v", err)
	}

	// Two lists: one rect in the background, then a font-textured rect
	// and a clipped user-textured rect in the foreground.
	ctx.IO().DisplaySize = imdraw.Vec2{X: 800, Y: 600}
	ctx.NewFrame()
	ctx.Background().AddRect(10, 10, 100, 100, imdraw.ColorWhite)
	fg := ctx.Foreground()
	fg.AddRect(0, 0, 50, 50, imdraw.ColorRed)
	fg.SetTexture(userID)
	fg.PushClipRect(10, 20, 110, 220)
	fg.AddRect(0, 0, 400, 400, imdraw.ColorWhite)
	dd := ctx.Render()

	rec := &recordingPass{}
	r.replayCommands(rec, nil, nil, dd)

	if len(rec.draws) != 3 {
		t.Fatalf("Expected 3 draws, got %d", len(rec.draws))
	}

	// Index and vertex offsets accumulate across lists: each rect adds
	// 4 vertices and 6 indices.
	wantOffsets := []struct {
		firstIndex uint32
		baseVertex int32
	}{
		{0, 0},
		{6, 4},
		{12, 8},
	}
	for i, want := range wantOffsets {
		d := rec.draws[i]
		if d.indexCount != 6 {
			t.Errorf("Draw %d: expected 6 indices, got %d", i, d.indexCount)
		}
		if d.firstIndex != want.firstIndex || d.baseVertex != want.baseVertex {
			t.Errorf("Draw %d: expected offsets (%d,%d), got (%d,%d)",
				i, want.firstIndex, want.baseVertex, d.firstIndex, d.baseVertex)
		}
	}

	// Unclipped commands scissor to the full display; the clipped one
	// scissors to its clip rect.
	if rec.draws[0].scissor != [4]uint32{0, 0, 800, 600} {
		t.Errorf("Draw 0: expected full-display scissor, got %v", rec.draws[0].scissor)
	}
	if rec.draws[2].scissor != [4]uint32{10, 20, 100, 200} {
		t.Errorf("Draw 2: expected scissor (10,20,100,200), got %v", rec.draws[2].scissor)
	}

	// The first two draws use the font atlas binding, the last the
	// registered texture's.
	fontGroup := r.textures[imdraw.FontTextureID].group
	if rec.draws[0].group != fontGroup || rec.draws[1].group != fontGroup {
		t.Error("Expected font atlas binding for untextured draws")
	}
	if rec.draws[2].group != r.textures[userID].group {
		t.Error("Expected registered texture binding for textured draw")
	}
	if rec.draws[2].group == fontGroup {
		t.Error("Expected textured draw not to use the font binding")
	}
}

func TestRenderer_InvokesCallbacks(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, ctx := newTestRenderer(t, device, queue)
	defer r.Destroy()

	attachments := newTestAttachments(t, device, queue)
	ctx.IO().DisplaySize = imdraw.Vec2{X: 800, Y: 600}

	var gotBackend string
	ctx.NewFrame()
	dl := ctx.Background()
	dl.AddRect(0, 0, 10, 10, imdraw.ColorWhite)
	dl.AddCallback(func(sink imdraw.CommandSink, cmd *imdraw.DrawCmd) {
		gotBackend = sink.Backend()
	})
	dl.AddRect(20, 0, 10, 10, imdraw.ColorWhite)

	encoder := newTestEncoder(t, device)
	if err := r.RenderDrawData(encoder, attachments, ctx.Render()); err != nil {
		t.Fatalf("RenderDrawData failed: %v", err)
	}
	if gotBackend != "wgpu" {
		t.Errorf("Expected callback to see the wgpu sink, got %q", gotBackend)
	}
}

func TestScissorRect(t *testing.T) {
	display := imdraw.Vec2{X: 800, Y: 600}
	one := imdraw.Vec2{X: 1, Y: 1}
	two := imdraw.Vec2{X: 2, Y: 2}

	// The unbounded default clip clamps to the full display.
	x, y, w, h, ok := scissorRect([4]float32{-1e9, -1e9, 1e9, 1e9}, display, one)
	if !ok || x != 0 || y != 0 || w != 800 || h != 600 {
		t.Errorf("Default clip: expected (0,0,800,600), got (%d,%d,%d,%d) ok=%v", x, y, w, h, ok)
	}

	// Framebuffer scale applies to both origin and extent.
	x, y, w, h, ok = scissorRect([4]float32{10, 20, 110, 220}, display, two)
	if !ok || x != 20 || y != 40 || w != 200 || h != 400 {
		t.Errorf("Scaled clip: expected (20,40,200,400), got (%d,%d,%d,%d) ok=%v", x, y, w, h, ok)
	}

	// Degenerate and inverted rects are skipped.
	if _, _, _, _, ok = scissorRect([4]float32{50, 50, 50, 100}, display, one); ok {
		t.Error("Expected zero-width clip to be skipped")
	}
	if _, _, _, _, ok = scissorRect([4]float32{100, 100, 50, 200}, display, one); ok {
		t.Error("Expected inverted clip to be skipped")
	}

	// Fully off-screen clips collapse to nothing after clamping.
	if _, _, _, _, ok = scissorRect([4]float32{-100, -100, -10, -10}, display, one); ok {
		t.Error("Expected off-screen clip to be skipped")
	}
}

func TestOrthoProjection(t *testing.T) {
	m := orthoProjection(800, 600)

	if m[0] != 2.0/800 || m[5] != -2.0/600 {
		t.Errorf("Unexpected scale terms: %f, %f", m[0], m[5])
	}
	if m[10] != -1 {
		t.Errorf("Expected z term -1, got %f", m[10])
	}
	if m[12] != -1 || m[13] != 1 || m[15] != 1 {
		t.Errorf("Unexpected translation column: %f, %f, %f", m[12], m[13], m[15])
	}

	// Corners map to clip space: top-left to (-1,1), bottom-right to (1,-1).
	x := m[0]*800 + m[12]
	y := m[5]*600 + m[13]
	if x != 1 || y != -1 {
		t.Errorf("Expected bottom-right corner at (1,-1), got (%f,%f)", x, y)
	}
}

func TestIndexFormat(t *testing.T) {
	want := gputypes.IndexFormatUint16
	if imdraw.DrawIdxSize == 4 {
		want = gputypes.IndexFormatUint32
	}
	if indexFormat() != want {
		t.Errorf("Expected index format %v, got %v", want, indexFormat())
	}
}

func TestSink_Backend(t *testing.T) {
	var sink imdraw.CommandSink = &Sink{}
	if sink.Backend() != "wgpu" {
		t.Errorf("Expected backend \"wgpu\", got %q", sink.Backend())
	}
}
