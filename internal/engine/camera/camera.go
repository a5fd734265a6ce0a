// Package camera provides view cameras for the scene viewer.
package camera

import "github.com/go-gl/mathgl/mgl32"

// Camera produces the view transforms for one frame.
type Camera interface {
	// Position returns the eye position in world space.
	Position() mgl32.Vec3
	// ViewMatrix returns the full world-to-view transform.
	ViewMatrix() mgl32.Mat4
	// RotationView returns the view transform without translation, used for
	// geometry that stays centred on the eye.
	RotationView() mgl32.Mat4
}

// Controls is the input state a camera reads each frame.
type Controls struct {
	Forward, Back bool
	Left, Right   bool
	Boost         bool
	Reset         bool

	// Dragging is true while the rotate button is held. DragX/DragY are
	// the cursor offset in pixels from where the drag started.
	Dragging     bool
	DragX, DragY float32

	// Wheel is the scroll delta this frame.
	Wheel float32
}

func stripTranslation(m mgl32.Mat4) mgl32.Mat4 {
	m[12], m[13], m[14] = 0, 0, 0
	return m
}
