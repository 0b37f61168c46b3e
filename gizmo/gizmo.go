// Package gizmo draws an interactive camera orientation gizmo into an
// imdraw draw list.
//
// The gizmo shows the three world axes projected through the caller's
// view and projection matrices. With a positive pivot distance it is
// interactive: clicking an axis handle snaps the camera to look down
// that axis, and dragging inside the gizmo orbits the camera. All
// state lives in a caller-owned State value, so independent viewports
// each get their own gizmo.
package gizmo

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/go-imdraw/imdraw"
)

// Config holds the gizmo's sizing fractions and colors. The scale
// fields are fractions of the gizmo rect size.
type Config struct {
	LineThicknessScale     float32
	AxisLengthScale        float32
	PositiveRadiusScale    float32
	NegativeRadiusScale    float32
	HoverCircleRadiusScale float32

	XFrontColor uint32
	XBackColor  uint32
	YFrontColor uint32
	YBackColor  uint32
	ZFrontColor uint32
	ZBackColor  uint32
	HoverColor  uint32
}

// DefaultConfig returns the standard gizmo appearance.
func DefaultConfig() Config {
	return Config{
		LineThicknessScale:     0.017,
		AxisLengthScale:        0.33,
		PositiveRadiusScale:    0.075,
		NegativeRadiusScale:    0.05,
		HoverCircleRadiusScale: 0.88,
		XFrontColor:            imdraw.RGBA(255, 54, 83, 255),
		XBackColor:             imdraw.RGBA(154, 57, 71, 255),
		YFrontColor:            imdraw.RGBA(138, 219, 0, 255),
		YBackColor:             imdraw.RGBA(98, 138, 34, 255),
		ZFrontColor:            imdraw.RGBA(44, 143, 255, 255),
		ZBackColor:             imdraw.RGBA(52, 100, 154, 255),
		HoverColor:             imdraw.RGBA(100, 100, 100, 130),
	}
}

// backgroundColor fills the gizmo rect when BeginFrame is asked to
// draw a background.
var backgroundColor = imdraw.RGBA(15, 15, 15, 240)

// State holds one gizmo's placement and drag state. The zero value is
// not usable; construct with NewState.
type State struct {
	cfg Config

	x, y, size float32

	active    bool
	lastMouse imdraw.Vec2
	yaw       float32
	pitch     float32
}

// NewState creates a gizmo with the given configuration and a default
// 100px rect at the origin.
func NewState(cfg Config) *State {
	return &State{cfg: cfg, size: 100}
}

// SetRect places the gizmo: top-left corner and the side length of
// its square drawing area, in logical pixels.
func (s *State) SetRect(x, y, size float32) {
	s.x = x
	s.y = y
	s.size = size
}

// Config returns the gizmo's configuration for adjustment.
func (s *State) Config() *Config { return &s.cfg }

// BeginFrame hands the caller a draw list positioned over the gizmo
// rect. With background set, the rect is filled first so the gizmo
// reads as a panel.
func (s *State) BeginFrame(ctx *imdraw.Context, background bool, fn func(*imdraw.DrawList)) {
	dl := ctx.Foreground()
	dl.PushClipRect(s.x, s.y, s.x+s.size, s.y+s.size)
	if background {
		dl.AddRect(s.x, s.y, s.size, s.size, backgroundColor)
	}
	fn(dl)
	dl.PopClipRect()
}

// Frame is BeginFrame for draw functions that produce a value, such
// as DrawGizmo's updated view matrix. Methods cannot be generic, so
// this is a package-level function.
func Frame[R any](s *State, ctx *imdraw.Context, background bool, fn func(*imdraw.DrawList) R) R {
	var out R
	s.BeginFrame(ctx, background, func(dl *imdraw.DrawList) {
		out = fn(dl)
	})
	return out
}

// axisHandle describes one of the six axis endpoints for depth
// sorting and hit testing.
type axisHandle struct {
	index int // 0..2 positive X/Y/Z, 3..5 negative X/Y/Z
	depth float32
}

// DrawGizmo draws the gizmo and handles interaction. view and proj
// are the caller's camera matrices; pivotDistance > 0 enables
// interaction, with the orbit pivot placed that far along the view
// axis. Returns the updated view matrix and true when a click or drag
// changed the camera this frame.
func (s *State) DrawGizmo(dl *imdraw.DrawList, io *imdraw.IO, view, proj Mat4, pivotDistance float32) (Mat4, bool) {
	hsize := s.size * 0.5
	center := imdraw.Vec2{X: s.x + hsize, Y: s.y + hsize}

	vp := proj.Mul(view)

	// Undo the projection's aspect ratio so the gizmo stays square.
	aspect := proj[5] / proj[0]
	vp[0] *= aspect
	vp[8] *= aspect

	axisLen := s.size * s.cfg.AxisLengthScale
	axes := [3][4]float32{
		vp.MulVec4([4]float32{axisLen, 0, 0, 0}),
		vp.MulVec4([4]float32{0, axisLen, 0, 0}),
		vp.MulVec4([4]float32{0, 0, axisLen, 0}),
	}

	interactive := pivotDistance > 0
	mouse := io.MousePos()

	hoverRadius := hsize * s.cfg.HoverCircleRadiusScale
	hoverInside := insideCircle(center, hoverRadius, mouse)
	if interactive && hoverInside && s.cfg.HoverColor&0xFF000000 != 0 {
		dl.AddCircleFilled(center.X, center.Y, hoverRadius, s.cfg.HoverColor, 0)
	}

	positiveRadius := s.size * s.cfg.PositiveRadiusScale
	negativeRadius := s.size * s.cfg.NegativeRadiusScale

	// Larger projected w means farther from the camera. Draw order is
	// back to front; hit testing walks front to back.
	handles := [6]axisHandle{
		{0, axes[0][3]}, {1, axes[1][3]}, {2, axes[2][3]},
		{3, -axes[0][3]}, {4, -axes[1][3]}, {5, -axes[2][3]},
	}
	sort.SliceStable(handles[:], func(i, j int) bool {
		return handles[i].depth > handles[j].depth
	})

	selection := -1
	if interactive {
		for i := len(handles) - 1; i >= 0; i-- {
			idx := handles[i].index
			pos, radius := s.handleScreenPos(center, axes, idx, positiveRadius, negativeRadius)
			if insideCircle(pos, radius, mouse) {
				selection = idx
				break
			}
		}
	}

	lineThickness := s.size * s.cfg.LineThicknessScale
	labels := [3]string{"X", "Y", "Z"}
	for _, h := range handles {
		axis := h.index % 3
		a := axes[axis]
		positiveCloser := 0 >= a[3]
		front, back := s.axisColors(axis)

		if h.index < 3 {
			color := back
			if positiveCloser {
				color = front
			}
			s.drawPositiveHandle(dl, center, imdraw.Vec2{X: a[0], Y: -a[1]}, color,
				positiveRadius, lineThickness, labels[axis], selection == h.index)
		} else {
			color := front
			if positiveCloser {
				color = back
			}
			s.drawNegativeHandle(dl, center, imdraw.Vec2{X: a[0], Y: -a[1]}, color,
				negativeRadius, selection == h.index)
		}
	}

	if selection != -1 && io.MouseClicked(imdraw.MouseButtonLeft) {
		return s.snapToAxis(view, selection, pivotDistance), true
	}

	if interactive {
		if io.MouseDragging(imdraw.MouseButtonLeft) {
			if !s.active && hoverInside {
				s.beginDrag(view, mouse)
			} else if s.active {
				return s.dragOrbit(view, mouse), true
			}
		} else {
			s.active = false
		}
	}

	return view, false
}

// handleScreenPos returns the screen position and hit radius of one
// of the six handles.
func (s *State) handleScreenPos(center imdraw.Vec2, axes [3][4]float32, idx int, positiveRadius, negativeRadius float32) (imdraw.Vec2, float32) {
	a := axes[idx%3]
	if idx < 3 {
		return imdraw.Vec2{X: center.X + a[0], Y: center.Y - a[1]}, positiveRadius
	}
	return imdraw.Vec2{X: center.X - a[0], Y: center.Y + a[1]}, negativeRadius
}

func (s *State) axisColors(axis int) (front, back uint32) {
	switch axis {
	case 0:
		return s.cfg.XFrontColor, s.cfg.XBackColor
	case 1:
		return s.cfg.YFrontColor, s.cfg.YBackColor
	default:
		return s.cfg.ZFrontColor, s.cfg.ZBackColor
	}
}

// drawPositiveHandle draws the axis line, filled endpoint circle, and
// the axis letter.
func (s *State) drawPositiveHandle(dl *imdraw.DrawList, center, axis imdraw.Vec2, color uint32, radius, thickness float32, label string, selected bool) {
	end := imdraw.Vec2{X: center.X + axis.X, Y: center.Y + axis.Y}
	dl.AddLine(center.X, center.Y, end.X, end.Y, color, thickness)
	dl.AddCircleFilled(end.X, end.Y, radius, color, 0)

	labelW := float32(len(label)) * imdraw.FontGlyphWidth
	textX := math32.Floor(end.X - 0.5*labelW)
	textY := math32.Floor(end.Y - 0.5*imdraw.FontGlyphHeight)
	if selected {
		dl.AddCircle(end.X, end.Y, radius, imdraw.ColorWhite, 0, 1)
		dl.AddText(textX, textY, label, imdraw.ColorWhite, 1, imdraw.FontGlyphWidth, imdraw.FontGlyphHeight)
	} else {
		dl.AddText(textX, textY, label, imdraw.ColorBlack, 1, imdraw.FontGlyphWidth, imdraw.FontGlyphHeight)
	}
}

// drawNegativeHandle draws the hollow-side endpoint circle.
func (s *State) drawNegativeHandle(dl *imdraw.DrawList, center, axis imdraw.Vec2, color uint32, radius float32, selected bool) {
	end := imdraw.Vec2{X: center.X - axis.X, Y: center.Y - axis.Y}
	dl.AddCircleFilled(end.X, end.Y, radius, color, 0)
	if selected {
		dl.AddCircle(end.X, end.Y, radius, imdraw.ColorWhite, 0, 1)
	}
}

// snapUps holds the up vector used when snapping to each handle. The
// poles (looking down +Y or -Y) need an up vector off the view axis.
var snapUps = [6]Vec3{
	{0, 1, 0},
	{0, 0, 1},
	{0, 1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 1, 0},
}

// snapToAxis rebuilds the view looking down the selected axis through
// the pivot point.
func (s *State) snapToAxis(view Mat4, selection int, pivotDistance float32) Mat4 {
	model := view.Inverse()

	pos := Vec3{X: model[12], Y: model[13], Z: model[14]}
	forward := Vec3{X: model[8], Y: model[9], Z: model[10]}
	pivot := pos.Sub(forward.Scale(pivotDistance))

	dirs := [6]Vec3{
		{pivotDistance, 0, 0},
		{0, pivotDistance, 0},
		{0, 0, pivotDistance},
		{-pivotDistance, 0, 0},
		{0, -pivotDistance, 0},
		{0, 0, -pivotDistance},
	}

	eye := pivot.Add(dirs[selection])
	return LookAtLH(eye, pivot, snapUps[selection])
}

// beginDrag seeds the orbit angles from the current view direction so
// the camera continues from where it is instead of jumping.
func (s *State) beginDrag(view Mat4, mouse imdraw.Vec2) {
	s.active = true
	s.lastMouse = mouse

	inv := view.Inverse()
	forward := Vec3{X: inv[8], Y: inv[9], Z: inv[10]}.Normalize()
	s.yaw = math32.Atan2(forward.Z, forward.X)
	s.pitch = math32.Asin(clampf(forward.Y, -1, 1))
}

// dragOrbit turns mouse movement into yaw/pitch and rebuilds the view
// around the camera position.
func (s *State) dragOrbit(view Mat4, mouse imdraw.Vec2) Mat4 {
	dx := mouse.X - s.lastMouse.X
	dy := mouse.Y - s.lastMouse.Y
	s.lastMouse = mouse

	const pitchLimit = math32.Pi/2 - 0.01
	s.yaw -= dx * 0.05
	s.pitch = clampf(s.pitch-dy*0.05, -pitchLimit, pitchLimit)

	cosPitch := math32.Cos(s.pitch)
	forward := Vec3{
		X: math32.Cos(s.yaw) * cosPitch,
		Y: math32.Sin(s.pitch),
		Z: math32.Sin(s.yaw) * cosPitch,
	}

	inv := view.Inverse()
	camPos := Vec3{X: inv[12], Y: inv[13], Z: inv[14]}
	return LookAtLH(camPos, camPos.Add(forward), Vec3{0, 1, 0})
}

// insideCircle reports whether point is inside or on the circle.
func insideCircle(center imdraw.Vec2, radius float32, point imdraw.Vec2) bool {
	dx := point.X - center.X
	dy := point.Y - center.Y
	return dx*dx+dy*dy <= radius*radius
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
