package math

import (
	"math"
	"testing"
)

func TestMat4Identity(t *testing.T) {
	m := Identity()
	p := Vec3{1, 2, 3}
	if got := m.TransformVec3(p); got != p {
		t.Errorf("expected %v, got %v", p, got)
	}
}

func TestMat4Mul(t *testing.T) {
	m := Translate(1, 2, 3).Mul(Scale(2, 2, 2))
	got := m.TransformVec3(Vec3{1, 1, 1})
	if !vec3ApproxEqual(got, Vec3{3, 4, 5}) {
		t.Errorf("expected (3,4,5), got %v", got)
	}
}

func TestTRS(t *testing.T) {
	r := QuatYaw(math.Pi / 2)
	m := TRS(Vec3{10, 0, 0}, r, Vec3{2, 3, 2})

	want := Translate(10, 0, 0).Mul(r.ToMat4()).Mul(Scale(2, 3, 2))
	for i := range m {
		if !approxEqual(m[i], want[i]) {
			t.Fatalf("element %d: expected %f, got %f", i, want[i], m[i])
		}
	}
	if m.Translation() != (Vec3{10, 0, 0}) {
		t.Errorf("expected translation (10,0,0), got %v", m.Translation())
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 5, 10}
	v := LookAt(eye, Vec3{}, Up)
	if got := v.TransformVec3(eye); !vec3ApproxEqual(got, Vec3{}) {
		t.Errorf("expected eye at origin, got %v", got)
	}
}
