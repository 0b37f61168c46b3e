package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-imdraw/imdraw"
)

func TestMapKey_CoversAllKeys(t *testing.T) {
	candidates := []glfw.Key{
		glfw.KeyTab, glfw.KeyLeft, glfw.KeyRight, glfw.KeyUp, glfw.KeyDown,
		glfw.KeyPageUp, glfw.KeyPageDown, glfw.KeyHome, glfw.KeyEnd,
		glfw.KeyInsert, glfw.KeyDelete, glfw.KeyBackspace, glfw.KeySpace,
		glfw.KeyEnter, glfw.KeyEscape,
		glfw.KeyA, glfw.KeyC, glfw.KeyS, glfw.KeyT, glfw.KeyV,
		glfw.KeyX, glfw.KeyY, glfw.KeyZ,
		glfw.KeyF1, glfw.KeyF2, glfw.KeyF3, glfw.KeyF4, glfw.KeyF5,
		glfw.KeyF6, glfw.KeyF7, glfw.KeyF8, glfw.KeyF9, glfw.KeyF10,
		glfw.KeyF11, glfw.KeyF12,
	}

	seen := make(map[imdraw.Key]bool)
	for _, k := range candidates {
		mapped := mapKey(k)
		if mapped == imdraw.KeyNone {
			t.Errorf("Expected GLFW key %d to map to a key, got KeyNone", k)
		}
		if seen[mapped] {
			t.Errorf("Expected distinct mapping for GLFW key %d, got duplicate %q", k, imdraw.KeyName(mapped))
		}
		seen[mapped] = true
	}

	// Every declared key must be deliverable from some GLFW key.
	for key := imdraw.KeyNone + 1; key < imdraw.KeyCount; key++ {
		if !seen[key] {
			t.Errorf("Expected a GLFW mapping for key %q", imdraw.KeyName(key))
		}
	}
}

func TestMapKey_UnmappedKey(t *testing.T) {
	if got := mapKey(glfw.KeyB); got != imdraw.KeyNone {
		t.Errorf("Expected KeyNone for an unmapped GLFW key, got %q", imdraw.KeyName(got))
	}
}

func TestMapMouseButton(t *testing.T) {
	if got := mapMouseButton(glfw.MouseButtonLeft); got != imdraw.MouseButtonLeft {
		t.Errorf("Expected left button, got %d", got)
	}
	if got := mapMouseButton(glfw.MouseButton8); got >= 0 {
		t.Errorf("Expected negative for an unmapped button, got %d", got)
	}
}
