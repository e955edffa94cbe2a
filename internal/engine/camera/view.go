// Package camera provides camera snapshots and the camera drivers that produce them.
package camera

import (
	gomath "math"

	"github.com/Faultbox/grassfield/pkg/math"
)

// forward is the camera-space viewing direction.
var forward = math.Vec3{X: 0, Y: 0, Z: -1}

// Projection holds perspective parameters.
type Projection struct {
	FOV    float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultProjection returns a 60 degree 16:9 projection.
func DefaultProjection() Projection {
	return Projection{FOV: 60, Aspect: 16.0 / 9.0, Near: 0.3, Far: 1000}
}

// Matrix returns the projection matrix.
func (p Projection) Matrix() math.Mat4 {
	return math.Perspective(p.FOV*gomath.Pi/180, p.Aspect, p.Near, p.Far)
}

// View is an immutable camera snapshot handed to the grass system each frame.
type View struct {
	Position math.Vec3
	Rotation math.Quat
	ViewProj math.Mat4
}

// LookAt builds a view at eye looking toward target with no roll.
func LookAt(eye, target math.Vec3, p Projection) View {
	dir := target.Sub(eye).Normalize()
	if dir == (math.Vec3{}) {
		dir = forward
	}

	yaw := float32(gomath.Atan2(float64(-dir.X), float64(-dir.Z)))
	pitch := float32(gomath.Asin(float64(math.Clamp(dir.Y, -1, 1))))
	rot := math.QuatYaw(yaw).Mul(math.QuatFromAxisAngle(math.Vec3{X: 1}, pitch))

	up := math.Up
	if gomath.Abs(float64(dir.Y)) > 0.999 {
		up = rot.Rotate(math.Up)
	}

	return View{
		Position: eye,
		Rotation: rot,
		ViewProj: p.Matrix().Mul(math.LookAt(eye, eye.Add(dir), up)),
	}
}

// Forward returns the world-space viewing direction.
func (v View) Forward() math.Vec3 {
	return v.Rotation.Rotate(forward)
}

// Yaw returns the heading around the world up axis in radians.
func (v View) Yaw() float32 {
	f := v.Forward()
	return float32(gomath.Atan2(float64(-f.X), float64(-f.Z)))
}

// Frustum returns the view's culling planes.
func (v View) Frustum() math.Frustum {
	return math.FrustumFromMatrix(v.ViewProj)
}
