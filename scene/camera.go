package scene

import (
	"github.com/chewxy/math32"

	"tangent-engine/math"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position    math.Vec3
	Target      math.Vec3
	Up          math.Vec3
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    math.Vec3{Z: 1},
		Up:          math.Vec3Up,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	return math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

// GetViewProjectionMatrix returns view then projection for row-vector
// multiplication, matching Vec4.MulMat.
func (c *Camera) GetViewProjectionMatrix() math.Mat4 {
	return c.GetViewMatrix().Mul(c.GetProjectionMatrix())
}

// OrbitCamera circles Target at Distance using yaw/pitch angles.
type OrbitCamera struct {
	Camera
	Distance float32
	Yaw      float32
	Pitch    float32
}

func NewOrbitCamera(target math.Vec3, distance, fov, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		Distance: distance,
		Pitch:    0.3,
	}
	c.Camera = *NewCamera(fov, aspectRatio, distance*0.01, distance*20)
	c.Target = target
	c.UpdatePosition()
	return c
}

// FrameAABB points the camera at b from a distance that fits it in view.
func (c *OrbitCamera) FrameAABB(b AABB) {
	radius := b.Size().Length() / 2
	if radius <= 0 {
		radius = 1
	}
	c.Target = b.Center()
	c.Distance = radius / math32.Sin(c.FOV/2) * 1.1
	c.NearPlane = radius * 0.01
	c.FarPlane = c.Distance + radius*10
	c.UpdatePosition()
}

func (c *OrbitCamera) UpdatePosition() {
	c.Pitch = math.Clamp(c.Pitch, -1.5, 1.5)

	sinPitch, cosPitch := math32.Sincos(c.Pitch)
	sinYaw, cosYaw := math32.Sincos(c.Yaw)

	offset := math.Vec3{
		X: c.Distance * cosPitch * sinYaw,
		Y: c.Distance * sinPitch,
		Z: c.Distance * cosPitch * cosYaw,
	}
	c.Position = c.Target.Add(offset)
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

// Zoom scales the distance by 1+delta.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance *= 1 + delta
	if c.Distance < c.NearPlane*2 {
		c.Distance = c.NearPlane * 2
	}
	c.UpdatePosition()
}
