package math

// Plane is n·p + d = 0 with the positive half-space inside the frustum.
type Plane struct {
	Normal   Vec3
	Distance float32
}

// Frustum holds six planes: left, right, bottom, top, near, far.
type Frustum [6]Plane

// Containment is the result of a frustum/box test.
type Containment int

const (
	// Inside means the box is completely in the frustum.
	Inside Containment = iota
	// Intersect means the box straddles at least one plane.
	Intersect
	// Outside means the box is completely outside the frustum.
	Outside
)

func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case Intersect:
		return "intersect"
	default:
		return "outside"
	}
}

// FrustumFromMatrix extracts normalized planes from a view-projection matrix
// (Gribb/Hartmann). Row i of a column-major matrix is (m[i], m[4+i], m[8+i], m[12+i]).
func FrustumFromMatrix(m Mat4) Frustum {
	row := func(i int) [4]float32 {
		return [4]float32{m[i], m[4+i], m[8+i], m[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)
	combine := func(a, b [4]float32, sign float32) Plane {
		return Plane{
			Normal:   Vec3{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2]},
			Distance: a[3] + sign*b[3],
		}
	}

	f := Frustum{
		combine(r3, r0, 1),
		combine(r3, r0, -1),
		combine(r3, r1, 1),
		combine(r3, r1, -1),
		combine(r3, r2, 1),
		combine(r3, r2, -1),
	}
	for i := range f {
		l := f[i].Normal.Length()
		if l > 0 {
			f[i].Normal = f[i].Normal.Scale(1 / l)
			f[i].Distance /= l
		}
	}
	return f
}

// TestAABB classifies a box against the frustum using the positive/negative
// vertex method. Only Outside is a rejection; Intersect and Inside both pass a cull.
func (f *Frustum) TestAABB(b AABB) Containment {
	result := Inside
	for _, p := range f {
		n := p.Normal
		pos, neg := b.Max, b.Min
		if n.X < 0 {
			pos.X, neg.X = b.Min.X, b.Max.X
		}
		if n.Y < 0 {
			pos.Y, neg.Y = b.Min.Y, b.Max.Y
		}
		if n.Z < 0 {
			pos.Z, neg.Z = b.Min.Z, b.Max.Z
		}
		if n.Dot(pos)+p.Distance < 0 {
			return Outside
		}
		if n.Dot(neg)+p.Distance <= 0 {
			result = Intersect
		}
	}
	return result
}
