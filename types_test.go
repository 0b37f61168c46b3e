package imdraw

import (
	"testing"
	"unsafe"
)

func TestVertexLayout(t *testing.T) {
	var v Vertex
	if unsafe.Sizeof(v) != VertexSize {
		t.Fatalf("Expected %d-byte vertex, got %d", VertexSize, unsafe.Sizeof(v))
	}
	if unsafe.Offsetof(v.TexCoord) != 8 {
		t.Errorf("Expected tex coord at offset 8, got %d", unsafe.Offsetof(v.TexCoord))
	}
	if unsafe.Offsetof(v.Color) != 16 {
		t.Errorf("Expected color at offset 16, got %d", unsafe.Offsetof(v.Color))
	}
}

func TestRGBA_PackUnpack(t *testing.T) {
	c := RGBA(255, 54, 83, 130)
	r, g, b, a := UnpackRGBA(c)
	if r != 255 || g != 54 || b != 83 || a != 130 {
		t.Errorf("Expected (255,54,83,130), got (%d,%d,%d,%d)", r, g, b, a)
	}

	if RGBA(255, 255, 255, 255) != ColorWhite {
		t.Error("Expected RGBA(255,255,255,255) to equal ColorWhite")
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	if !r.Contains(Vec2{X: 15, Y: 15}) {
		t.Error("Expected interior point to be contained")
	}
	if r.Contains(Vec2{X: 31, Y: 15}) {
		t.Error("Expected point past the right edge to be outside")
	}
}

func TestRect_Intersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 5, W: 10, H: 10}
	c := Rect{X: 20, Y: 20, W: 5, H: 5}

	if !a.Intersects(b) {
		t.Error("Expected overlapping rects to intersect")
	}
	if a.Intersects(c) {
		t.Error("Expected disjoint rects not to intersect")
	}
}
