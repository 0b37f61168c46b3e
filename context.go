package imdraw

// Context owns the per-frame draw lists and the IO/font state shared
// with the renderer. This is NOT context.Context - it's a dedicated
// frame context type. The cycle per frame is:
//
//	ctx.NewFrame()
//	... draw into ctx.Background() / ctx.Foreground() ...
//	dd := ctx.Render()
//	renderer.RenderDrawData(..., dd)
//
// The draw data returned by Render stays valid until the next
// NewFrame call.
type Context struct {
	io    *IO
	fonts *FontAtlas

	background *DrawList
	foreground *DrawList

	drawData   DrawData
	frameCount uint64
	inFrame    bool
}

// NewContext creates a frame context with a fresh IO and the built-in
// font atlas.
func NewContext() *Context {
	return &Context{
		io:    NewIO(),
		fonts: NewFontAtlas(),
	}
}

// IO returns the context's input/output state.
func (ctx *Context) IO() *IO {
	return ctx.io
}

// Fonts returns the context's font atlas.
func (ctx *Context) Fonts() *FontAtlas {
	return ctx.fonts
}

// FrameCount returns the number of frames started so far.
func (ctx *Context) FrameCount() uint64 {
	return ctx.frameCount
}

// NewFrame starts a new frame. Draw lists from the previous frame are
// returned to the pool; any DrawData pointer from the previous Render
// call becomes invalid.
func (ctx *Context) NewFrame() {
	ctx.releaseLists()

	ctx.background = AcquireDrawList()
	ctx.foreground = AcquireDrawList()
	ctx.frameCount++
	ctx.inFrame = true

	ctx.io.UpdateKeyRepeat(ctx.io.DeltaTime)
}

// Background returns the frame's background draw list. It is rendered
// before (below) the foreground list.
func (ctx *Context) Background() *DrawList {
	return ctx.background
}

// Foreground returns the frame's foreground draw list, rendered last.
// Overlays like the orientation gizmo draw here.
func (ctx *Context) Foreground() *DrawList {
	return ctx.foreground
}

// Render finalizes the frame's draw lists and returns the draw data
// for the renderer. Lists with no commands are omitted. Calling
// Render outside a frame returns the previous frame's data.
//
// Render also clears single-frame input edges (clicks, key presses,
// typed characters, wheel deltas), so events recorded before NewFrame
// remain visible throughout the frame that consumed them.
func (ctx *Context) Render() *DrawData {
	if !ctx.inFrame {
		return &ctx.drawData
	}
	ctx.inFrame = false

	dd := &ctx.drawData
	dd.Lists = dd.Lists[:0]
	dd.TotalVtxCount = 0
	dd.TotalIdxCount = 0
	dd.DisplaySize = ctx.io.DisplaySize
	dd.FramebufferScale = ctx.io.FramebufferScale

	for _, dl := range []*DrawList{ctx.background, ctx.foreground} {
		if dl == nil {
			continue
		}
		dl.Finalize()
		if len(dl.CmdBuffer) == 0 {
			continue
		}
		dd.Lists = append(dd.Lists, dl)
		dd.TotalVtxCount += len(dl.VtxBuffer)
		dd.TotalIdxCount += len(dl.IdxBuffer)
	}

	ctx.io.Reset()

	return dd
}

func (ctx *Context) releaseLists() {
	if ctx.background != nil {
		ReleaseDrawList(ctx.background)
		ctx.background = nil
	}
	if ctx.foreground != nil {
		ReleaseDrawList(ctx.foreground)
		ctx.foreground = nil
	}
	ctx.drawData.Lists = ctx.drawData.Lists[:0]
}
