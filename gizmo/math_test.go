package gizmo

import (
	"testing"

	"github.com/chewxy/math32"
)

func matNear(a, b Mat4, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestMat4_MulIdentity(t *testing.T) {
	m := LookAtLH(Vec3{1, 2, 3}, Vec3{}, Vec3{0, 1, 0})
	if !matNear(m.Mul(Identity()), m, 1e-6) {
		t.Error("Expected m * I == m")
	}
	if !matNear(Identity().Mul(m), m, 1e-6) {
		t.Error("Expected I * m == m")
	}
}

func TestMat4_InverseRoundTrip(t *testing.T) {
	view := LookAtLH(Vec3{3, 4, -5}, Vec3{0, 1, 0}, Vec3{0, 1, 0})
	inv := view.Inverse()

	if !matNear(view.Mul(inv), Identity(), 1e-5) {
		t.Error("Expected view * inverse == identity")
	}
	if !matNear(inv.Mul(view), Identity(), 1e-5) {
		t.Error("Expected inverse * view == identity")
	}
}

func TestMat4_InverseRecoversCamera(t *testing.T) {
	eye := Vec3{0, 2, -10}
	view := LookAtLH(eye, Vec3{}, Vec3{0, 1, 0})
	model := view.Inverse()

	// Column 3 of the inverted view is the camera position.
	if math32.Abs(model[12]-eye.X) > 1e-5 ||
		math32.Abs(model[13]-eye.Y) > 1e-5 ||
		math32.Abs(model[14]-eye.Z) > 1e-5 {
		t.Errorf("Expected camera position %v, got (%f,%f,%f)", eye, model[12], model[13], model[14])
	}

	// Column 2 is the normalized view direction.
	forward := eye.Sub(Vec3{}).Scale(-1).Normalize()
	if math32.Abs(model[8]-forward.X) > 1e-5 ||
		math32.Abs(model[9]-forward.Y) > 1e-5 ||
		math32.Abs(model[10]-forward.Z) > 1e-5 {
		t.Errorf("Expected forward %v, got (%f,%f,%f)", forward, model[8], model[9], model[10])
	}
}

func TestLookAtLH_TransformsEyeToOrigin(t *testing.T) {
	eye := Vec3{5, -3, 7}
	view := LookAtLH(eye, Vec3{0, 0, 0}, Vec3{0, 1, 0})

	p := view.MulVec4([4]float32{eye.X, eye.Y, eye.Z, 1})
	for i := 0; i < 3; i++ {
		if math32.Abs(p[i]) > 1e-5 {
			t.Fatalf("Expected eye to map to origin, got %v", p)
		}
	}

	// The look target lands on the positive z axis in LH view space.
	c := view.MulVec4([4]float32{0, 0, 0, 1})
	if math32.Abs(c[0]) > 1e-5 || math32.Abs(c[1]) > 1e-5 || c[2] <= 0 {
		t.Errorf("Expected target on +Z, got %v", c)
	}
}

func TestVec3_Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)
	if z != (Vec3{0, 0, 1}) {
		t.Errorf("Expected X x Y = Z, got %v", z)
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if v := (Vec3{}).Normalize(); v != (Vec3{}) {
		t.Errorf("Expected zero vector unchanged, got %v", v)
	}
}
