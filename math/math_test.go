package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2)) // 1*4 + 2*5 + 3*6

	// Right x Up = Front in a right-handed system
	assert.Equal(t, Vec3Front, Vec3Right.Cross(Vec3Up))
}

func TestVec3Normalize(t *testing.T) {
	normalized := NewVec3(3, 0, 0).Normalize()
	assert.Equal(t, NewVec3(1, 0, 0), normalized)
	assert.InDelta(t, 1, normalized.Length(), 1e-4)

	// zero vector is returned unchanged rather than NaN
	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize())
}

func TestVec3DivByZeroIsNotFinite(t *testing.T) {
	v := NewVec3(1, 0, 0).Div(0)
	assert.False(t, v.IsFinite())
	assert.True(t, NewVec3(1, 2, 3).IsFinite())
}

func TestVec2Operations(t *testing.T) {
	a := NewVec2(1, 2)
	b := NewVec2(3, 5)

	assert.Equal(t, NewVec2(4, 7), a.Add(b))
	assert.Equal(t, NewVec2(2, 3), b.Sub(a))
	assert.Equal(t, float32(13), a.Dot(b))
	assert.InDelta(t, 5, NewVec2(3, 4).Length(), 1e-6)
}

func TestClamp11(t *testing.T) {
	assert.Equal(t, float32(1), Clamp11(1.0000001))
	assert.Equal(t, float32(-1), Clamp11(-3))
	assert.Equal(t, float32(0.25), Clamp11(0.25))
	assert.InDelta(t, 0, Acos(Clamp11(1.0000001)), 1e-6)
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := float32(0)
			if i == j {
				expected = 1
			}
			assert.Equal(t, expected, m[i][j], "[%d][%d]", i, j)
		}
	}
	assert.Equal(t, Mat4Identity(), m.Mul(Mat4Identity()))
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	result := NewVec4(0, 0, 0, 1).MulMat(m)
	assert.Equal(t, translation, result.ToVec3())
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	// the view matrix moves the eye to the origin
	result := m.MulVec(eye.ToVec4(1))
	assert.InDelta(t, 0, result.X, 1e-3)
	assert.InDelta(t, 0, result.Y, 1e-3)
	assert.InDelta(t, 0, result.Z, 1e-3)
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(Pi/4, 16.0/9.0, 0.1, 100)
	assert.NotZero(t, m[0][0])
	assert.NotZero(t, m[1][1])
	assert.Equal(t, float32(-1), m[2][3])
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
