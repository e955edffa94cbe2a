package camera

import (
	gomath "math"

	"github.com/Faultbox/grassfield/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        150.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     5.0,
		MaxDistance:     5000.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// View returns a snapshot looking at the center.
func (c *OrbitCamera) View(p Projection) View {
	return LookAt(c.Position(), c.Center, p)
}

// Orbit advances the yaw by an arc length in world units, so the camera
// moves at a constant speed regardless of distance.
func (c *OrbitCamera) Orbit(arc float32) {
	r := c.Distance * float32(gomath.Cos(float64(c.RotationX)))
	if r > 0 {
		c.RotationY += arc / r
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on a box and backs off to see all of it.
func (c *OrbitCamera) FitToBounds(b math.AABB) {
	c.Center = b.Center()

	size := b.Size()
	c.Distance = math.Clamp(max(size.X, size.Z)*0.3, c.MinDistance, c.MaxDistance)
	c.RotationX = 0.6
	c.RotationY = 0.0
}

// ThirdPersonCamera follows a target from behind.
type ThirdPersonCamera struct {
	// Camera orientation
	Yaw   float32 // Horizontal rotation around target (radians)
	Pitch float32 // Vertical angle (radians)

	// Distance from target
	Distance    float32
	MinDistance float32
	MaxDistance float32

	// TargetHeight raises the look-at point above the target's feet.
	TargetHeight float32

	// Sensitivity
	YawSensitivity  float32
	ZoomSensitivity float32
}

// NewThirdPersonCamera creates a new third-person camera with a low chase angle.
func NewThirdPersonCamera() *ThirdPersonCamera {
	return &ThirdPersonCamera{
		Yaw:             0.0,
		Pitch:           0.35,
		Distance:        8.0,
		MinDistance:     2.0,
		MaxDistance:     50.0,
		TargetHeight:    1.5,
		YawSensitivity:  0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position calculates camera position based on target position.
func (c *ThirdPersonCamera) Position(target math.Vec3) math.Vec3 {
	offsetY := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	horizDist := c.Distance * float32(gomath.Cos(float64(c.Pitch)))
	offsetX := horizDist * float32(gomath.Sin(float64(c.Yaw)))
	offsetZ := horizDist * float32(gomath.Cos(float64(c.Yaw)))

	// Behind and above target
	return math.Vec3{
		X: target.X - offsetX,
		Y: target.Y + offsetY,
		Z: target.Z - offsetZ,
	}
}

// ViewMatrix returns the view matrix for this camera looking at target.
func (c *ThirdPersonCamera) ViewMatrix(target math.Vec3) math.Mat4 {
	return math.LookAt(c.Position(target), c.lookTarget(target), math.Up)
}

// View returns a snapshot chasing target.
func (c *ThirdPersonCamera) View(target math.Vec3, p Projection) View {
	return LookAt(c.Position(target), c.lookTarget(target), p)
}

func (c *ThirdPersonCamera) lookTarget(target math.Vec3) math.Vec3 {
	return math.Vec3{X: target.X, Y: target.Y + c.TargetHeight, Z: target.Z}
}

// HandleYaw rotates camera horizontally around target.
func (c *ThirdPersonCamera) HandleYaw(deltaX float32) {
	c.Yaw -= deltaX * c.YawSensitivity
}

// HandleZoom updates distance from target.
func (c *ThirdPersonCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// ForwardDirection returns the camera's forward direction on the XZ plane.
func (c *ThirdPersonCamera) ForwardDirection() math.Vec2 {
	return math.Vec2{X: float32(gomath.Sin(float64(c.Yaw))), Y: float32(gomath.Cos(float64(c.Yaw)))}
}

// RightDirection returns the camera's right direction on the XZ plane.
func (c *ThirdPersonCamera) RightDirection() math.Vec2 {
	return math.Vec2{X: float32(-gomath.Cos(float64(c.Yaw))), Y: float32(gomath.Sin(float64(c.Yaw)))}
}
