// Package platform feeds GLFW window and input events into an imdraw
// IO state.
package platform

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-imdraw/imdraw"
)

// GLFW adapts a GLFW window to imdraw: it installs input callbacks
// and refreshes display metrics and timing once per frame.
type GLFW struct {
	window   *glfw.Window
	io       *imdraw.IO
	lastTime time.Time
}

// NewGLFW installs input callbacks on the window and binds them to
// the given IO state.
func NewGLFW(window *glfw.Window, io *imdraw.IO) *GLFW {
	p := &GLFW{
		window: window,
		io:     io,
	}

	window.SetKeyCallback(p.keyCallback)
	window.SetCharCallback(p.charCallback)
	window.SetMouseButtonCallback(p.mouseButtonCallback)
	window.SetScrollCallback(p.scrollCallback)
	window.SetCursorPosCallback(p.cursorPosCallback)

	return p
}

// IO returns the bound IO state.
func (p *GLFW) IO() *imdraw.IO { return p.io }

// NewFrame refreshes display size, framebuffer scale, delta time,
// mouse position, and modifier keys. Call once per frame after
// glfw.PollEvents and before Context.NewFrame. Input edges recorded
// by the callbacks are left intact; Context.Render clears them when
// the frame ends.
func (p *GLFW) NewFrame() {
	w, h := p.window.GetSize()
	fbW, fbH := p.window.GetFramebufferSize()
	p.io.DisplaySize = imdraw.Vec2{X: float32(w), Y: float32(h)}
	p.io.FramebufferScale = imdraw.Vec2{X: 1, Y: 1}
	if w > 0 && h > 0 {
		p.io.FramebufferScale = imdraw.Vec2{
			X: float32(fbW) / float32(w),
			Y: float32(fbH) / float32(h),
		}
	}

	now := time.Now()
	if p.lastTime.IsZero() {
		p.io.DeltaTime = 1.0 / 60.0
	} else {
		p.io.DeltaTime = float32(now.Sub(p.lastTime).Seconds())
	}
	p.lastTime = now

	x, y := p.window.GetCursorPos()
	p.io.SetMousePos(float32(x), float32(y))

	p.io.ModCtrl = p.keyHeld(glfw.KeyLeftControl) || p.keyHeld(glfw.KeyRightControl)
	p.io.ModShift = p.keyHeld(glfw.KeyLeftShift) || p.keyHeld(glfw.KeyRightShift)
	p.io.ModAlt = p.keyHeld(glfw.KeyLeftAlt) || p.keyHeld(glfw.KeyRightAlt)
	p.io.ModSuper = p.keyHeld(glfw.KeyLeftSuper) || p.keyHeld(glfw.KeyRightSuper)
}

func (p *GLFW) keyHeld(key glfw.Key) bool {
	return p.window.GetKey(key) == glfw.Press
}

func (p *GLFW) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	mapped := mapKey(key)
	if mapped == imdraw.KeyNone {
		return
	}

	switch action {
	case glfw.Press, glfw.Repeat:
		p.io.SetKey(mapped, true)
	case glfw.Release:
		p.io.SetKey(mapped, false)
	}
}

func (p *GLFW) charCallback(w *glfw.Window, char rune) {
	p.io.AddInputChar(char)
}

func (p *GLFW) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	mapped := mapMouseButton(button)
	if mapped < 0 {
		return
	}

	switch action {
	case glfw.Press:
		p.io.SetMouseButton(mapped, true)
	case glfw.Release:
		p.io.SetMouseButton(mapped, false)
	}
}

func (p *GLFW) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.io.SetMouseWheel(float32(xoff), float32(yoff))
}

func (p *GLFW) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.io.SetMousePos(float32(xpos), float32(ypos))
}

// mapKey maps GLFW keys to imdraw keys.
func mapKey(key glfw.Key) imdraw.Key {
	switch key {
	case glfw.KeyTab:
		return imdraw.KeyTab
	case glfw.KeyLeft:
		return imdraw.KeyLeft
	case glfw.KeyRight:
		return imdraw.KeyRight
	case glfw.KeyUp:
		return imdraw.KeyUp
	case glfw.KeyDown:
		return imdraw.KeyDown
	case glfw.KeyPageUp:
		return imdraw.KeyPageUp
	case glfw.KeyPageDown:
		return imdraw.KeyPageDown
	case glfw.KeyHome:
		return imdraw.KeyHome
	case glfw.KeyEnd:
		return imdraw.KeyEnd
	case glfw.KeyInsert:
		return imdraw.KeyInsert
	case glfw.KeyDelete:
		return imdraw.KeyDelete
	case glfw.KeyBackspace:
		return imdraw.KeyBackspace
	case glfw.KeySpace:
		return imdraw.KeySpace
	case glfw.KeyEnter:
		return imdraw.KeyEnter
	case glfw.KeyEscape:
		return imdraw.KeyEscape
	case glfw.KeyA:
		return imdraw.KeyA
	case glfw.KeyC:
		return imdraw.KeyC
	case glfw.KeyS:
		return imdraw.KeyS
	case glfw.KeyT:
		return imdraw.KeyT
	case glfw.KeyV:
		return imdraw.KeyV
	case glfw.KeyX:
		return imdraw.KeyX
	case glfw.KeyY:
		return imdraw.KeyY
	case glfw.KeyZ:
		return imdraw.KeyZ
	case glfw.KeyF1:
		return imdraw.KeyF1
	case glfw.KeyF2:
		return imdraw.KeyF2
	case glfw.KeyF3:
		return imdraw.KeyF3
	case glfw.KeyF4:
		return imdraw.KeyF4
	case glfw.KeyF5:
		return imdraw.KeyF5
	case glfw.KeyF6:
		return imdraw.KeyF6
	case glfw.KeyF7:
		return imdraw.KeyF7
	case glfw.KeyF8:
		return imdraw.KeyF8
	case glfw.KeyF9:
		return imdraw.KeyF9
	case glfw.KeyF10:
		return imdraw.KeyF10
	case glfw.KeyF11:
		return imdraw.KeyF11
	case glfw.KeyF12:
		return imdraw.KeyF12
	default:
		return imdraw.KeyNone
	}
}

// mapMouseButton maps GLFW mouse buttons to imdraw mouse buttons.
func mapMouseButton(button glfw.MouseButton) imdraw.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return imdraw.MouseButtonLeft
	case glfw.MouseButtonRight:
		return imdraw.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return imdraw.MouseButtonMiddle
	default:
		return -1
	}
}
