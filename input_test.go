package imdraw

import "testing"

func TestInputState_MouseDragThreshold(t *testing.T) {
	s := NewInputState()

	s.SetMousePos(10, 10)
	s.SetMouseButton(MouseButtonLeft, true)

	if s.MouseDragging(MouseButtonLeft) {
		t.Error("Expected no drag immediately after press")
	}

	// Sub-threshold movement is not a drag.
	s.SetMousePos(10.5, 10)
	if s.MouseDragging(MouseButtonLeft) {
		t.Error("Expected no drag below the movement threshold")
	}

	s.SetMousePos(15, 10)
	if !s.MouseDragging(MouseButtonLeft) {
		t.Error("Expected drag after moving past the threshold")
	}

	delta := s.MouseDragDelta(MouseButtonLeft)
	if delta.X != 5 || delta.Y != 0 {
		t.Errorf("Expected drag delta (5,0), got (%f,%f)", delta.X, delta.Y)
	}

	s.SetMouseButton(MouseButtonLeft, false)
	if s.MouseDragging(MouseButtonLeft) {
		t.Error("Expected drag to end on release")
	}
}

func TestInputState_ClickEdge(t *testing.T) {
	s := NewInputState()

	s.SetMouseButton(MouseButtonLeft, true)
	if !s.MouseClicked(MouseButtonLeft) {
		t.Error("Expected click on press edge")
	}

	// Holding across a frame boundary is not a new click.
	s.Reset()
	s.SetMouseButton(MouseButtonLeft, true)
	if s.MouseClicked(MouseButtonLeft) {
		t.Error("Expected no click while holding")
	}
	if !s.MouseDown(MouseButtonLeft) {
		t.Error("Expected button to stay down")
	}
}

func TestInputState_ReleaseEdge(t *testing.T) {
	s := NewInputState()

	s.SetMouseButton(MouseButtonLeft, true)
	s.Reset()
	s.SetMouseButton(MouseButtonLeft, false)
	if !s.MouseReleased(MouseButtonLeft) {
		t.Error("Expected release edge on the release frame")
	}
	if s.MouseDown(MouseButtonLeft) {
		t.Error("Expected button up after release")
	}

	s.Reset()
	if s.MouseReleased(MouseButtonLeft) {
		t.Error("Expected release edge to last one frame")
	}
}

func TestInputState_KeyRepeat(t *testing.T) {
	s := NewInputState()

	s.SetKey(KeyBackspace, true)
	if !s.KeyRepeated(KeyBackspace) {
		t.Error("Expected repeat trigger on the initial press")
	}

	// Held but still inside the initial delay.
	s.Reset()
	s.UpdateKeyRepeat(0.2)
	if s.KeyRepeated(KeyBackspace) {
		t.Error("Expected no repeat before the initial delay elapses")
	}

	// Crossing the first interval boundary past the delay triggers.
	s.UpdateKeyRepeat(0.231)
	if !s.KeyRepeated(KeyBackspace) {
		t.Error("Expected repeat after crossing an interval boundary")
	}

	// Mid-interval frames stay quiet.
	s.UpdateKeyRepeat(0.019)
	if s.KeyRepeated(KeyBackspace) {
		t.Error("Expected no repeat between interval boundaries")
	}

	// Release resets the hold clock.
	s.SetKey(KeyBackspace, false)
	s.Reset()
	s.SetKey(KeyBackspace, true)
	s.Reset()
	s.UpdateKeyRepeat(0.1)
	if s.KeyRepeated(KeyBackspace) {
		t.Error("Expected hold time to restart after a fresh press")
	}
}

func TestInputState_ConsumeInputChars(t *testing.T) {
	s := NewInputState()

	s.AddInputChar('v')
	s.AddInputChar('w')
	if !s.HasInputChars() {
		t.Fatal("Expected typed characters to be pending")
	}

	// Consuming drops the characters without waiting for Reset, so a
	// shortcut key does not also land in a text field.
	s.ConsumeInputChars()
	if s.HasInputChars() {
		t.Error("Expected no characters after consume")
	}
}

func TestKeyName(t *testing.T) {
	if got := KeyName(KeyBackspace); got != "Backspace" {
		t.Errorf("Expected \"Backspace\", got %q", got)
	}
	if got := KeyName(KeyF12); got != "F12" {
		t.Errorf("Expected \"F12\", got %q", got)
	}
	if got := KeyName(KeyCount); got != "?" {
		t.Errorf("Expected \"?\" for an unnamed key, got %q", got)
	}
}
