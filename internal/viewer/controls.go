package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/terrainview/internal/engine/camera"
)

// Key bindings.
const (
	keyForward   = sdl.SCANCODE_W
	keyBack      = sdl.SCANCODE_S
	keyLeft      = sdl.SCANCODE_A
	keyRight     = sdl.SCANCODE_D
	keyBoost     = sdl.SCANCODE_LCTRL
	keyReset     = sdl.SCANCODE_SPACE
	keyQuit      = sdl.SCANCODE_ESCAPE
	keyWireframe = sdl.SCANCODE_F1
	keyBounds    = sdl.SCANCODE_F2
	keyGrid      = sdl.SCANCODE_F3
	keyCamera    = sdl.SCANCODE_C
	keyShot      = sdl.SCANCODE_F12

	keyPlayerUp    = sdl.SCANCODE_UP
	keyPlayerDown  = sdl.SCANCODE_DOWN
	keyPlayerLeft  = sdl.SCANCODE_LEFT
	keyPlayerRight = sdl.SCANCODE_RIGHT
)

// rotateButton is held to turn the camera.
const rotateButton = uint8(sdl.BUTTON_LEFT)

// inputState is the part of *input.Input the viewer reads.
type inputState interface {
	IsKeyDown(key sdl.Scancode) bool
	IsKeyPressed(key sdl.Scancode) bool
	IsButtonDown(button uint8) bool
	DragOffset() (dx, dy float32)
	Wheel() float32
}

// actions is one frame of user intent.
type actions struct {
	camera camera.Controls

	// Player steps along world X and Z; arrows held move every frame.
	moveX, moveZ int

	quit            bool
	toggleWireframe bool
	toggleBounds    bool
	toggleGrid      bool
	toggleCamera    bool
	screenshot      bool
}

func readActions(in inputState) actions {
	var a actions

	a.camera = camera.Controls{
		Forward:  in.IsKeyDown(keyForward),
		Back:     in.IsKeyDown(keyBack),
		Left:     in.IsKeyDown(keyLeft),
		Right:    in.IsKeyDown(keyRight),
		Boost:    in.IsKeyDown(keyBoost),
		Reset:    in.IsKeyPressed(keyReset),
		Dragging: in.IsButtonDown(rotateButton),
		Wheel:    in.Wheel(),
	}
	if a.camera.Dragging {
		a.camera.DragX, a.camera.DragY = in.DragOffset()
	}

	if in.IsKeyDown(keyPlayerUp) {
		a.moveX++
	}
	if in.IsKeyDown(keyPlayerDown) {
		a.moveX--
	}
	if in.IsKeyDown(keyPlayerLeft) {
		a.moveZ--
	}
	if in.IsKeyDown(keyPlayerRight) {
		a.moveZ++
	}

	a.quit = in.IsKeyPressed(keyQuit)
	a.toggleWireframe = in.IsKeyPressed(keyWireframe)
	a.toggleBounds = in.IsKeyPressed(keyBounds)
	a.toggleGrid = in.IsKeyPressed(keyGrid)
	a.toggleCamera = in.IsKeyPressed(keyCamera)
	a.screenshot = in.IsKeyPressed(keyShot)
	return a
}
