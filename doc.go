/*
Package imdraw provides an immediate-mode draw-data model and a GPU
rendering backend for it, inspired by Dear ImGui's renderer contract.

The root package defines the wire format (20-byte vertices, 16-bit
indices, scissored draw commands batched by texture), the per-frame
Context that produces DrawData, the IO/input state, and the built-in
bitmap font atlas. The actual GPU work lives in backend/wgpu; window
and input plumbing in backend/platform; the backend package ties them
together.

# Quick Start

	window, _ := glfw.CreateWindow(1280, 720, "demo", nil, nil)
	ui, _ := backend.New(device, queue, surfaceFormat, window)

	for !window.ShouldClose() {
	    glfw.PollEvents()

	    encoder, _ := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{})
	    encoder.BeginEncoding("frame")

	    ui.Frame(encoder, colorAttachments, func(ctx *imdraw.Context) {
	        dl := ctx.Background()
	        dl.AddRect(20, 20, 200, 100, imdraw.ColorDarkGray)
	        dl.AddText(30, 30, "Hello", imdraw.ColorWhite, 1, 8, 8)
	    })

	    cmdBuf, _ := encoder.EndEncoding()
	    // Submission stays with the application.
	    queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, fenceValue)
	}

# Frame model

Every frame the UI is rebuilt from scratch: NewFrame hands out pooled
draw lists, application code appends primitives, Render flattens the
lists into DrawData, and the renderer replays the commands in order
with per-command scissoring. Vertex and index buffers are created
fresh each frame and released the frame after; no data survives on
the GPU between frames except textures and the pipeline.

# Textures

Texture ID 0 is the built-in font atlas, uploaded by the renderer at
construction. Additional textures are registered with the wgpu
renderer and drawn by calling DrawList.SetTexture with the returned
ID. The atlas also carries a solid white texel so untextured shapes
run through the same pipeline as text.
*/
package imdraw
