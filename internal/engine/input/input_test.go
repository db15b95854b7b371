package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func keyDown(code sdl.Scancode) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: code}}
}

func keyUp(code sdl.Scancode) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: code}}
}

func TestKeyHeldState(t *testing.T) {
	in := New()

	in.handle(keyDown(sdl.SCANCODE_D))
	in.handle(keyDown(sdl.SCANCODE_A))
	if got := in.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D); got != 0 {
		t.Errorf("both held: Axis = %v, want 0", got)
	}

	in.handle(keyUp(sdl.SCANCODE_A))
	if got := in.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D); got != 1 {
		t.Errorf("right held: Axis = %v, want 1", got)
	}
	if !in.IsKeyDown(sdl.SCANCODE_D) || in.IsKeyDown(sdl.SCANCODE_A) {
		t.Error("held state not tracked")
	}
	if !in.IsKeyPressed(sdl.SCANCODE_D) {
		t.Error("key down event not recorded")
	}
}

func TestQuitEvents(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		quit  bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, true},
		{"escape", keyDown(sdl.SCANCODE_ESCAPE), true},
		{"other key", keyDown(sdl.SCANCODE_W), false},
		{"escape released", keyUp(sdl.SCANCODE_ESCAPE), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New().handle(tt.event); got != tt.quit {
				t.Errorf("handle() = %v, want %v", got, tt.quit)
			}
		})
	}
}

func TestResizeAndWheel(t *testing.T) {
	in := New()
	in.handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600})
	in.handle(&sdl.MouseWheelEvent{Y: -2})
	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT})

	ev := in.Events()
	if len(ev) != 3 {
		t.Fatalf("expected 3 events, got %d", len(ev))
	}
	if ev[0].Type != EventWindowResize || ev[0].Width != 800 || ev[0].Height != 600 {
		t.Errorf("unexpected resize event %+v", ev[0])
	}
	if ev[1].Type != EventMouseWheel || ev[1].Wheel != -2 {
		t.Errorf("unexpected wheel event %+v", ev[1])
	}
	if !in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("button state not tracked")
	}
}
