// Package backend wires the GLFW platform layer and the wgpu renderer
// into a single per-frame entry point.
package backend

import (
	"log/slog"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/go-imdraw/imdraw"
	"github.com/go-imdraw/imdraw/backend/platform"
	"github.com/go-imdraw/imdraw/backend/wgpu"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelWarn,
}))

// SetLogger replaces the package logger used for frame diagnostics.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// UI owns an imdraw context, its GLFW input adapter, and its wgpu
// renderer. One UI per window.
type UI struct {
	ctx      *imdraw.Context
	platform *platform.GLFW
	renderer *wgpu.Renderer
}

// New creates a UI rendering into surfaces of the given format. The
// format must be the one the surface was configured with. Input
// callbacks are installed on the window.
func New(device hal.Device, queue hal.Queue, surfaceFormat gputypes.TextureFormat, window *glfw.Window, opts ...wgpu.Option) (*UI, error) {
	ctx := imdraw.NewContext()

	renderer, err := wgpu.NewRenderer(device, queue, surfaceFormat, ctx, opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("ui renderer created", "format", surfaceFormat)

	return &UI{
		ctx:      ctx,
		platform: platform.NewGLFW(window, ctx.IO()),
		renderer: renderer,
	}, nil
}

// Context returns the imdraw context for direct use outside Frame.
func (u *UI) Context() *imdraw.Context { return u.ctx }

// Renderer returns the wgpu renderer, for texture registration.
func (u *UI) Renderer() *wgpu.Renderer { return u.renderer }

// Frame runs one UI frame: refreshes input and display metrics, opens
// the frame, invokes draw, and records the result into a render pass
// on the caller's encoder. The caller ends the encoder and submits
// the command buffer.
func (u *UI) Frame(encoder hal.CommandEncoder, colorAttachments []hal.RenderPassColorAttachment, draw func(*imdraw.Context)) error {
	u.platform.NewFrame()
	u.ctx.NewFrame()
	draw(u.ctx)

	if err := u.renderer.RenderDrawData(encoder, colorAttachments, u.ctx.Render()); err != nil {
		logger.Error("ui frame failed", "error", err)
		return err
	}
	return nil
}

// Destroy releases the renderer's GPU resources.
func (u *UI) Destroy() {
	u.renderer.Destroy()
}
