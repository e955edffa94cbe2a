package main

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/pkg/math"
)

// driver produces one camera snapshot per frame.
type driver interface {
	Next() camera.View
}

func newDriver(kind string, t *terrain.Terrain, speed, radius float32, p camera.Projection) (driver, error) {
	switch kind {
	case "", "orbit":
		return newOrbitDriver(t, speed, radius, p), nil
	case "follow":
		return newFollowDriver(t, speed, radius, p), nil
	default:
		return nil, fmt.Errorf("unknown bench camera %q", kind)
	}
}

func terrainCenter(t *terrain.Terrain) math.Vec3 {
	half := math.Vec2{X: t.Size.X / 2, Y: t.Size.Z / 2}
	return t.Position.Add(math.Vec3{X: half.X, Y: t.HeightAt(half), Z: half.Y})
}

// Scripted input applied once per lap, as if a user scrolled and dragged.
// The direction flips every lap so the camera swings in and out.
const (
	lapZoom = 2  // Scroll notches
	lapTilt = 40 // Drag pixels
)

// orbitDriver circles the terrain center at a fixed distance. A radius of 0
// backs the camera off far enough to frame the whole terrain.
type orbitDriver struct {
	cam      *camera.OrbitCamera
	speed    float32
	proj     camera.Projection
	lapStart float32
	dir      float32
}

func newOrbitDriver(t *terrain.Terrain, speed, radius float32, p camera.Projection) *orbitDriver {
	cam := camera.NewOrbitCamera()
	if radius <= 0 {
		cam.FitToBounds(math.AABB{Min: t.Position, Max: t.Position.Add(t.Size)})
	} else {
		cam.Center = terrainCenter(t)
		cam.Distance = math.Clamp(radius, cam.MinDistance, cam.MaxDistance)
		cam.RotationX = 0.3
	}
	return &orbitDriver{cam: cam, speed: speed, proj: p, lapStart: cam.RotationY, dir: 1}
}

func (d *orbitDriver) Next() camera.View {
	v := d.cam.View(d.proj)
	d.cam.Orbit(d.speed)
	if gomath.Abs(float64(d.cam.RotationY-d.lapStart)) >= 2*gomath.Pi {
		d.lapStart = d.cam.RotationY
		d.cam.HandleZoom(d.dir * lapZoom)
		d.cam.HandleDrag(0, -d.dir*lapTilt)
		d.dir = -d.dir
	}
	return v
}

// followDriver walks a target around a circle on the terrain surface and
// chases it from behind, the way a player camera would. The chase camera is
// steered with yaw input matching the turn rate.
type followDriver struct {
	cam     *camera.ThirdPersonCamera
	terrain *terrain.Terrain
	center  math.Vec3
	radius  float32
	speed   float32
	angle   float64
	lap     float64
	dir     float32
	proj    camera.Projection
}

func newFollowDriver(t *terrain.Terrain, speed, radius float32, p camera.Projection) *followDriver {
	return &followDriver{
		cam:     camera.NewThirdPersonCamera(),
		terrain: t,
		center:  terrainCenter(t),
		radius:  max(radius, 1),
		speed:   speed,
		dir:     1,
		proj:    p,
	}
}

func (d *followDriver) Next() camera.View {
	sin, cos := gomath.Sincos(d.angle)
	local := math.Vec2{
		X: d.center.X - d.terrain.Position.X + d.radius*float32(cos),
		Y: d.center.Z - d.terrain.Position.Z + d.radius*float32(sin),
	}
	target := d.terrain.Position.Add(math.Vec3{X: local.X, Y: d.terrain.HeightAt(local), Z: local.Y})
	v := d.cam.View(target, d.proj)

	// Travel direction is atan2(-sin, cos) = -angle, so the yaw falls by
	// exactly the angle step.
	step := d.speed / d.radius
	d.angle += float64(step)
	d.cam.HandleYaw(step / d.cam.YawSensitivity)

	if d.angle-d.lap >= 2*gomath.Pi {
		d.lap = d.angle
		d.cam.HandleZoom(d.dir * lapZoom)
		d.dir = -d.dir
	}
	return v
}
