package imdraw

// Vec2 represents a 2D vector for positions and sizes.
type Vec2 struct {
	X, Y float32
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Rect represents a rectangle with position and size.
type Rect struct {
	X, Y float32 // Top-left position
	W, H float32 // Width and height
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W && r.X+r.W > other.X &&
		r.Y < other.Y+other.H && r.Y+r.H > other.Y
}

// TextureID identifies a texture registered with the renderer.
// ID 0 is reserved for the font atlas and is never reassigned.
type TextureID uint32

// FontTextureID is the reserved texture ID of the built-in font atlas.
const FontTextureID TextureID = 0

// Vertex is the wire format for a single UI vertex: screen position,
// texture coordinates, and a packed color. The layout is exactly 20
// bytes and matches the render pipeline's vertex attributes
// (float32x2, float32x2, unorm8x4).
type Vertex struct {
	Pos      [2]float32 // Position (x, y) in logical pixels
	TexCoord [2]float32 // Texture coordinates (u, v)
	Color    uint32     // RGBA packed color, R in the low byte
}

// VertexSize is the byte stride of Vertex in vertex buffers.
const VertexSize = 20

// DrawIdx is the index type used in index buffers. Switching it to
// uint32 (and DrawIdxSize to 4) changes the index format the renderer
// binds; nothing else needs to change.
type DrawIdx = uint16

// DrawIdxSize is the byte size of DrawIdx.
const DrawIdxSize = 2

// CommandSink is the capability a backend hands to draw callbacks
// while a frame is being recorded. Callbacks type-assert it to the
// backend's concrete sink type to reach the underlying encoder state.
type CommandSink interface {
	// Backend names the backend providing the sink, e.g. "wgpu".
	Backend() string
}

// DrawCallback is invoked during command replay in place of a draw.
// The callback runs inside the active render pass; any state it
// changes on the backend is reset before the next command.
type DrawCallback func(sink CommandSink, cmd *DrawCmd)

// DrawCmd represents a single draw command. A command is either an
// indexed draw (Callback nil) or a callback dispatch (Callback set,
// ElemCount 0). Commands are batched by texture and clip rect.
type DrawCmd struct {
	ElemCount    uint32       // Number of indices to draw
	ClipRect     [4]float32   // Clip rectangle (x1, y1, x2, y2) in logical pixels
	TextureID    TextureID    // Texture to sample (0 = font atlas)
	VertexOffset uint32       // Offset into the list's vertex buffer
	IndexOffset  uint32       // Offset into the list's index buffer
	Callback     DrawCallback // Non-nil for callback commands
}

// Color constants (RGBA packed with R in the low byte, matching the
// unorm8x4 vertex attribute).
const (
	ColorWhite       uint32 = 0xFFFFFFFF
	ColorBlack       uint32 = 0xFF000000
	ColorRed         uint32 = 0xFF0000FF
	ColorGreen       uint32 = 0xFF00FF00
	ColorBlue        uint32 = 0xFFFF0000
	ColorYellow      uint32 = 0xFF00FFFF
	ColorCyan        uint32 = 0xFFFFFF00
	ColorMagenta     uint32 = 0xFFFF00FF
	ColorGray        uint32 = 0xFF808080
	ColorDarkGray    uint32 = 0xFF404040
	ColorLightGray   uint32 = 0xFFC0C0C0
	ColorTransparent uint32 = 0x00000000
)

// RGBA creates a packed color from individual components (0-255).
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// RGBAf creates a packed color from float components (0.0-1.0).
func RGBAf(r, g, b, a float32) uint32 {
	return RGBA(
		uint8(clampf(r, 0, 1)*255),
		uint8(clampf(g, 0, 1)*255),
		uint8(clampf(b, 0, 1)*255),
		uint8(clampf(a, 0, 1)*255),
	)
}

// UnpackRGBA extracts RGBA components from a packed color.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// clampf clamps a float32 value to a range.
func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// maxf returns the maximum of two float32 values.
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// minf returns the minimum of two float32 values.
func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
