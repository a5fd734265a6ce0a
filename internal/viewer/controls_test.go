package viewer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/engine/input"
)

func press(in *input.Input, keys ...sdl.Scancode) {
	for _, k := range keys {
		in.Apply(input.Event{Type: input.EventKeyDown, Key: k})
	}
}

func TestReadActions_Camera(t *testing.T) {
	in := input.New()
	in.BeginFrame()
	press(in, sdl.SCANCODE_W, sdl.SCANCODE_D, sdl.SCANCODE_LCTRL)

	a := readActions(in)
	c := a.camera
	if !c.Forward || c.Back || c.Left || !c.Right {
		t.Errorf("movement = %+v", c)
	}
	if !c.Boost {
		t.Error("left ctrl should boost")
	}
	if c.Reset || c.Dragging {
		t.Errorf("unexpected reset/drag: %+v", c)
	}
}

func TestReadActions_Drag(t *testing.T) {
	in := input.New()
	in.BeginFrame()
	in.Apply(input.Event{Type: input.EventMouseDown, Button: rotateButton, MouseX: 100, MouseY: 100})
	in.Apply(input.Event{Type: input.EventMouseMove, MouseX: 130, MouseY: 90})

	a := readActions(in)
	if !a.camera.Dragging {
		t.Fatal("left button should drag")
	}
	if a.camera.DragX != 30 || a.camera.DragY != -10 {
		t.Errorf("drag = (%v, %v), want (30, -10)", a.camera.DragX, a.camera.DragY)
	}

	in.Apply(input.Event{Type: input.EventMouseUp, Button: rotateButton})
	a = readActions(in)
	if a.camera.Dragging || a.camera.DragX != 0 {
		t.Errorf("released button still drags: %+v", a.camera)
	}
}

func TestReadActions_Player(t *testing.T) {
	tests := []struct {
		name         string
		keys         []sdl.Scancode
		moveX, moveZ int
	}{
		{"up moves +X", []sdl.Scancode{sdl.SCANCODE_UP}, 1, 0},
		{"down moves -X", []sdl.Scancode{sdl.SCANCODE_DOWN}, -1, 0},
		{"left moves -Z", []sdl.Scancode{sdl.SCANCODE_LEFT}, 0, -1},
		{"right moves +Z", []sdl.Scancode{sdl.SCANCODE_RIGHT}, 0, 1},
		{"diagonal", []sdl.Scancode{sdl.SCANCODE_UP, sdl.SCANCODE_RIGHT}, 1, 1},
		{"opposites cancel", []sdl.Scancode{sdl.SCANCODE_UP, sdl.SCANCODE_DOWN}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input.New()
			press(in, tt.keys...)
			a := readActions(in)
			if a.moveX != tt.moveX || a.moveZ != tt.moveZ {
				t.Errorf("move = (%d, %d), want (%d, %d)", a.moveX, a.moveZ, tt.moveX, tt.moveZ)
			}
		})
	}
}

func TestReadActions_Toggles(t *testing.T) {
	tests := []struct {
		key   sdl.Scancode
		check func(actions) bool
	}{
		{sdl.SCANCODE_ESCAPE, func(a actions) bool { return a.quit }},
		{sdl.SCANCODE_F1, func(a actions) bool { return a.toggleWireframe }},
		{sdl.SCANCODE_F2, func(a actions) bool { return a.toggleBounds }},
		{sdl.SCANCODE_F3, func(a actions) bool { return a.toggleGrid }},
		{sdl.SCANCODE_C, func(a actions) bool { return a.toggleCamera }},
		{sdl.SCANCODE_F12, func(a actions) bool { return a.screenshot }},
		{sdl.SCANCODE_SPACE, func(a actions) bool { return a.camera.Reset }},
	}

	for _, tt := range tests {
		in := input.New()
		in.BeginFrame()
		press(in, tt.key)
		if !tt.check(readActions(in)) {
			t.Errorf("key %d did not trigger its action", tt.key)
		}

		// Held into the next frame: toggles fire once.
		in.BeginFrame()
		if tt.check(readActions(in)) {
			t.Errorf("key %d fired again while held", tt.key)
		}
	}
}

func TestRendererConfig(t *testing.T) {
	g := config.Default().Graphics
	g.Ambient = 0.25

	rc := rendererConfig(g, 800, 600)
	if rc.Width != 800 || rc.Height != 600 {
		t.Errorf("size = %dx%d", rc.Width, rc.Height)
	}
	if rc.FOV != 45 || rc.Near != 0.5 || rc.Far != 20000 {
		t.Errorf("projection = %v/%v/%v", rc.FOV, rc.Near, rc.Far)
	}
	if rc.Ambient != (mgl32.Vec3{0.25, 0.25, 0.25}) {
		t.Errorf("ambient = %v", rc.Ambient)
	}
	if rc.ClearColor != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("clear colour = %v", rc.ClearColor)
	}
}

func TestNewCameras(t *testing.T) {
	fly, follow := newCameras(config.Default().Camera)
	if fly.Position() != (mgl32.Vec3{0, 2000, 3000}) {
		t.Errorf("fly starts at %v", fly.Position())
	}
	if fly.Pitch != 0.5 || fly.MoveSpeed != 120 || fly.RotateSpeed != 1.5 {
		t.Errorf("fly = %+v", fly)
	}
	if follow == nil {
		t.Fatal("no follow camera")
	}
}
