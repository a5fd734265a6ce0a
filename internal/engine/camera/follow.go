package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FollowCamera orbits a moving target from behind and above.
type FollowCamera struct {
	Target mgl32.Vec3

	Yaw   float32 // horizontal angle around the target, radians
	Pitch float32 // elevation, radians

	Distance    float32
	MinDistance float32
	MaxDistance float32

	// LookHeight raises the look-at point above the target origin.
	LookHeight float32

	YawSensitivity  float32 // radians per pixel of drag per second
	ZoomSensitivity float32 // fraction of distance per wheel step
}

// NewFollow creates a follow camera with defaults sized for the vehicles.
func NewFollow() *FollowCamera {
	return &FollowCamera{
		Pitch:           0.45,
		Distance:        600,
		MinDistance:     150,
		MaxDistance:     4000,
		LookHeight:      60,
		YawSensitivity:  0.005,
		ZoomSensitivity: 0.1,
	}
}

// Update applies drag and wheel input.
func (c *FollowCamera) Update(ctl Controls, dt float32) {
	if ctl.Dragging {
		c.Yaw -= ctl.DragX * c.YawSensitivity * dt
	}
	if ctl.Wheel != 0 {
		c.Distance -= ctl.Wheel * c.Distance * c.ZoomSensitivity
		c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
	}
}

// Position implements Camera.
func (c *FollowCamera) Position() mgl32.Vec3 {
	horiz := c.Distance * math32.Cos(c.Pitch)
	return mgl32.Vec3{
		c.Target.X() - horiz*math32.Sin(c.Yaw),
		c.Target.Y() + c.Distance*math32.Sin(c.Pitch),
		c.Target.Z() - horiz*math32.Cos(c.Yaw),
	}
}

func (c *FollowCamera) lookAt() mgl32.Vec3 {
	return c.Target.Add(mgl32.Vec3{0, c.LookHeight, 0})
}

// ViewMatrix implements Camera.
func (c *FollowCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.lookAt(), mgl32.Vec3{0, 1, 0})
}

// RotationView implements Camera.
func (c *FollowCamera) RotationView() mgl32.Mat4 {
	return stripTranslation(c.ViewMatrix())
}
