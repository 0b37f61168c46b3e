package imdraw

// IO carries the per-frame inputs the renderer and widgets consume:
// display metrics, frame timing, and the embedded input state. The
// platform adapter populates it before each NewFrame.
type IO struct {
	// DisplaySize is the logical size of the drawable area in pixels.
	DisplaySize Vec2

	// FramebufferScale is the ratio of framebuffer pixels to logical
	// pixels, e.g. 2.0 on a HiDPI display.
	FramebufferScale Vec2

	// DeltaTime is the time since the previous frame in seconds.
	DeltaTime float32

	*InputState
}

// NewIO creates an IO with a fresh input state and a framebuffer
// scale of 1.
func NewIO() *IO {
	return &IO{
		FramebufferScale: Vec2{X: 1, Y: 1},
		InputState:       NewInputState(),
	}
}

// MousePos returns the current cursor position in logical pixels.
func (io *IO) MousePos() Vec2 {
	return Vec2{X: io.MouseX, Y: io.MouseY}
}
