package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Fly camera defaults.
const (
	DefaultMoveSpeed   float32 = 120
	DefaultRotateSpeed float32 = 1.5
	BoostFactor        float32 = 10
	DragSensitivity    float32 = 0.001
)

// MaxPitch keeps the camera short of straight up or down.
var MaxPitch = mgl32.DegToRad(85)

// FlyCamera is a free-flying camera driven by pitch and yaw.
// Holding the rotate button turns the camera at a rate proportional to how
// far the cursor has moved from where the drag began.
type FlyCamera struct {
	Eye   mgl32.Vec3
	Pitch float32 // rotation about X, radians, clamped to ±MaxPitch
	Yaw   float32 // rotation about Y, radians, wrapped to [0, 2π)

	MoveSpeed   float32 // world units per second
	RotateSpeed float32 // radians per second per 1000 px of drag

	homeEye   mgl32.Vec3
	homePitch float32
	homeYaw   float32
}

// NewFly creates a fly camera. Zero speeds select the defaults.
func NewFly(eye mgl32.Vec3, pitch, yaw, moveSpeed, rotateSpeed float32) *FlyCamera {
	if moveSpeed == 0 {
		moveSpeed = DefaultMoveSpeed
	}
	if rotateSpeed == 0 {
		rotateSpeed = DefaultRotateSpeed
	}

	c := &FlyCamera{
		Eye:         eye,
		Pitch:       pitch,
		Yaw:         yaw,
		MoveSpeed:   moveSpeed,
		RotateSpeed: rotateSpeed,
		homeEye:     eye,
		homePitch:   pitch,
		homeYaw:     yaw,
	}
	c.clamp()
	return c
}

// Update applies one frame of input.
func (c *FlyCamera) Update(ctl Controls, dt float32) {
	if ctl.Reset {
		c.Reset()
		return
	}

	move := c.MoveSpeed
	turn := c.RotateSpeed
	if ctl.Boost {
		move *= BoostFactor
		turn *= BoostFactor
	}

	var dir mgl32.Vec3
	if ctl.Forward {
		dir = dir.Add(c.Look())
	}
	if ctl.Back {
		dir = dir.Sub(c.Look())
	}
	if ctl.Right {
		dir = dir.Add(c.Right())
	}
	if ctl.Left {
		dir = dir.Sub(c.Right())
	}
	c.Eye = c.Eye.Add(dir.Mul(move * dt))

	if ctl.Dragging {
		c.Yaw += ctl.DragX * DragSensitivity * turn * dt
		c.Pitch += ctl.DragY * DragSensitivity * turn * dt
	}

	c.clamp()
}

// Reset restores the initial pose.
func (c *FlyCamera) Reset() {
	c.Eye = c.homeEye
	c.Pitch = c.homePitch
	c.Yaw = c.homeYaw
	c.clamp()
}

func (c *FlyCamera) clamp() {
	c.Yaw = math32.Mod(c.Yaw, 2*math32.Pi)
	if c.Yaw < 0 {
		c.Yaw += 2 * math32.Pi
	}
	c.Pitch = mgl32.Clamp(c.Pitch, -MaxPitch, MaxPitch)
}

// RotationMatrix returns Rx(pitch) * Ry(yaw).
func (c *FlyCamera) RotationMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(c.Pitch).Mul4(mgl32.HomogRotate3DY(c.Yaw))
}

func (c *FlyCamera) axis(v mgl32.Vec3) mgl32.Vec3 {
	// The inverse of a rotation is its transpose.
	return c.RotationMatrix().Transpose().Mul4x1(v.Vec4(0)).Vec3()
}

// Look returns the unit view direction.
func (c *FlyCamera) Look() mgl32.Vec3 { return c.axis(mgl32.Vec3{0, 0, -1}) }

// Right returns the unit right vector.
func (c *FlyCamera) Right() mgl32.Vec3 { return c.axis(mgl32.Vec3{1, 0, 0}) }

// Up returns the unit up vector.
func (c *FlyCamera) Up() mgl32.Vec3 { return c.axis(mgl32.Vec3{0, 1, 0}) }

// Position implements Camera.
func (c *FlyCamera) Position() mgl32.Vec3 { return c.Eye }

// ViewMatrix implements Camera.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Eye.Add(c.Look()), c.Up())
}

// RotationView implements Camera.
func (c *FlyCamera) RotationView() mgl32.Mat4 {
	return stripTranslation(c.ViewMatrix())
}
