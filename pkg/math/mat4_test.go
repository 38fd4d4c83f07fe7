package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if m[i] != want {
			t.Errorf("Identity[%d] = %f, want %f", i, m[i], want)
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Mul applies the right-hand matrix first.
	m := Translate(Vec3{X: 1}).Mul(RotateY(float32(math.Pi / 2)))
	got := m.TransformPoint(Vec3{X: 1})
	if !got.Equivalent(Vec3{X: 1, Z: -1}, 1e-5) {
		t.Errorf("T*R applied to +X: got %v, want (1, 0, -1)", got)
	}

	if id := m.Mul(Identity()); id != m {
		t.Errorf("M * I should equal M, got %v", id)
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		p    Vec3
		want Vec3
	}{
		{"translate", Translate(Vec3{10, 20, 30}), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"rotate y 90", RotateY(float32(math.Pi / 2)), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{"rotate y 180", RotateY(float32(math.Pi)), Vec3{0, 2, 1}, Vec3{0, 2, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.p)
			if !got.Equivalent(tt.want, 1e-5) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformPointPerspectiveDivide(t *testing.T) {
	m := Perspective(float32(math.Pi/2), 1, 1, 10)

	// Near plane maps to z = -1, far plane to z = 1.
	near := m.TransformPoint(Vec3{Z: -1})
	far := m.TransformPoint(Vec3{Z: -10})
	if abs(near.Z+1) > 1e-5 || abs(far.Z-1) > 1e-5 {
		t.Errorf("depth range: near %v far %v", near.Z, far.Z)
	}

	// 90 degree fov: a point on the frustum edge lands on x = 1.
	edge := m.TransformPoint(Vec3{X: 5, Z: -5})
	if abs(edge.X-1) > 1e-5 {
		t.Errorf("frustum edge: got x=%f, want 1", edge.X)
	}
}

func TestTurntable(t *testing.T) {
	pivot := Vec3{X: 2, Y: 1}
	m := Turntable(pivot, float32(math.Pi))

	if got := m.TransformPoint(pivot); !got.Equivalent(pivot, 1e-5) {
		t.Errorf("pivot moved to %v", got)
	}
	// Half a turn mirrors X and Z about the pivot; Y is untouched.
	if got := m.TransformPoint(Vec3{X: 3, Y: 5, Z: 1}); !got.Equivalent(Vec3{X: 1, Y: 5, Z: -1}, 1e-5) {
		t.Errorf("got %v, want (1, 5, -1)", got)
	}
}

func TestLookAt(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{}, Vec3{0, 1, 0})

	if got := m.TransformPoint(Vec3{0, 0, 5}); !got.Equivalent(Vec3{}, 1e-5) {
		t.Errorf("eye should map to origin, got %v", got)
	}
	if got := m.TransformPoint(Vec3{}); !got.Equivalent(Vec3{0, 0, -5}, 1e-5) {
		t.Errorf("center should be in front of the eye, got %v", got)
	}
}

func TestMulVec4(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})

	// Points pick up the translation, directions do not.
	if p := m.MulVec4(Vec4{1, 1, 1, 1}); p != (Vec4{2, 3, 4, 1}) {
		t.Errorf("MulVec4 point: got %v, want (2, 3, 4, 1)", p)
	}
	if d := m.MulVec4(Vec4{1, 1, 1, 0}); d != (Vec4{1, 1, 1, 0}) {
		t.Errorf("MulVec4 direction: got %v, want (1, 1, 1, 0)", d)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
