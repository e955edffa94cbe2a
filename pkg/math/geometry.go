package math

// Rect is an axis-aligned rectangle on the terrain plane.
type Rect struct {
	Min  Vec2
	Size Vec2
}

// Max returns the far corner.
func (r Rect) Max() Vec2 {
	return r.Min.Add(r.Size)
}

// Scale multiplies position and size component-wise, e.g. to map world units to pixels.
func (r Rect) Scale(s Vec2) Rect {
	return Rect{Min: r.Min.Mul(s), Size: r.Size.Mul(s)}
}

// Contains reports whether p lies inside the half-open rectangle.
func (r Rect) Contains(p Vec2) bool {
	m := r.Max()
	return p.X >= r.Min.X && p.X < m.X && p.Y >= r.Min.Y && p.Y < m.Y
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// AABBFromCenter builds a box from its center and full size.
func AABBFromCenter(center, size Vec3) AABB {
	half := size.Scale(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Center returns the box center.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}
