package math

import (
	"math"
	"testing"
)

const epsilon = 1e-4

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func vec3ApproxEqual(a, b Vec3) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y) && approxEqual(a.Z, b.Z)
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if !vec3ApproxEqual(got, Vec3{0, 0, 1}) {
		t.Errorf("expected (0,0,1), got %v", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	got := Vec3{3, 0, 4}.Normalize()
	if !approxEqual(got.Length(), 1) {
		t.Errorf("expected unit length, got %f", got.Length())
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("expected zero vector to stay zero, got %v", zero)
	}
}

func TestVec3DistanceAndXZ(t *testing.T) {
	a := Vec3{1, 5, 1}
	b := Vec3{4, 5, 5}
	if d := a.Distance(b); !approxEqual(d, 5) {
		t.Errorf("expected distance 5, got %f", d)
	}
	if xz := b.XZ(); xz != (Vec2{4, 5}) {
		t.Errorf("expected (4,5), got %v", xz)
	}
}

func TestVec2(t *testing.T) {
	v := Vec2{2, 3}
	if got := v.Mul(Vec2{4, 5}); got != (Vec2{8, 15}) {
		t.Errorf("expected (8,15), got %v", got)
	}
	if got := v.Max(); got != 3 {
		t.Errorf("expected 3, got %f", got)
	}
	if got := (Vec2{1, 2}).Lerp(0.5); !approxEqual(got, 1.5) {
		t.Errorf("expected 1.5, got %f", got)
	}
}

func TestRect(t *testing.T) {
	r := Rect{Min: Vec2{10, 20}, Size: Vec2{10, 10}}
	if r.Max() != (Vec2{20, 30}) {
		t.Errorf("expected max (20,30), got %v", r.Max())
	}
	scaled := r.Scale(Vec2{2, 2})
	if scaled.Min != (Vec2{20, 40}) || scaled.Size != (Vec2{20, 20}) {
		t.Errorf("unexpected scaled rect %+v", scaled)
	}
	if !r.Contains(Vec2{10, 20}) || r.Contains(Vec2{20, 25}) {
		t.Error("expected half-open containment")
	}
}

func TestAABBFromCenter(t *testing.T) {
	b := AABBFromCenter(Vec3{5, 5, 5}, Vec3{10, 10, 10})
	if b.Min != (Vec3{}) || b.Max != (Vec3{10, 10, 10}) {
		t.Errorf("unexpected box %+v", b)
	}
	if b.Center() != (Vec3{5, 5, 5}) {
		t.Errorf("expected center (5,5,5), got %v", b.Center())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{-1, 0},
		{0.25, 0.25},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%f): expected %f, got %f", tt.in, tt.want, got)
		}
	}
	if got := Clamp(15, 0, 9); got != 9 {
		t.Errorf("expected 9, got %d", got)
	}
}

func TestRounding(t *testing.T) {
	if CeilToInt(5.05) != 6 {
		t.Errorf("expected 6, got %d", CeilToInt(5.05))
	}
	if FloorToInt(-0.5) != -1 {
		t.Errorf("expected -1, got %d", FloorToInt(-0.5))
	}
	if RoundToInt(2.5) != 3 {
		t.Errorf("expected 3, got %d", RoundToInt(2.5))
	}
}
