package gizmo

import "github.com/chewxy/math32"

// Vec3 is a 3-component float vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns v scaled to unit length. The zero vector is
// returned unchanged.
func (v Vec3) Normalize() Vec3 {
	len2 := v.Dot(v)
	if len2 == 0 {
		return v
	}
	return v.Scale(1 / math32.Sqrt(len2))
}

// Mat4 is a 4x4 matrix in column-major order: element (row, col)
// lives at index col*4+row. This matches the memory layout used by
// WGSL, glam, and cgmath, so view and projection matrices can be
// passed through without transposition.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v [4]float32) [4]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// Col returns column c as a 4-vector.
func (m Mat4) Col(c int) [4]float32 {
	return [4]float32{m[c*4], m[c*4+1], m[c*4+2], m[c*4+3]}
}

// Inverse returns the inverse of an affine transform (a matrix whose
// last row is 0,0,0,1). The 3x3 linear part is inverted by cofactors,
// so non-orthonormal transforms invert correctly too.
func (m Mat4) Inverse() Mat4 {
	a00, a01, a02 := m[0], m[4], m[8]
	a10, a11, a12 := m[1], m[5], m[9]
	a20, a21, a22 := m[2], m[6], m[10]

	c00 := a11*a22 - a12*a21
	c01 := a12*a20 - a10*a22
	c02 := a10*a21 - a11*a20

	det := a00*c00 + a01*c01 + a02*c02
	if det == 0 {
		return Identity()
	}
	invDet := 1 / det

	var out Mat4
	out[0] = c00 * invDet
	out[1] = c01 * invDet
	out[2] = c02 * invDet
	out[4] = (a02*a21 - a01*a22) * invDet
	out[5] = (a00*a22 - a02*a20) * invDet
	out[6] = (a01*a20 - a00*a21) * invDet
	out[8] = (a01*a12 - a02*a11) * invDet
	out[9] = (a02*a10 - a00*a12) * invDet
	out[10] = (a00*a11 - a01*a10) * invDet

	tx, ty, tz := m[12], m[13], m[14]
	out[12] = -(out[0]*tx + out[4]*ty + out[8]*tz)
	out[13] = -(out[1]*tx + out[5]*ty + out[9]*tz)
	out[14] = -(out[2]*tx + out[6]*ty + out[10]*tz)
	out[15] = 1
	return out
}

// LookAtLH builds a left-handed view matrix with the camera at eye
// looking toward center.
func LookAtLH(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := up.Cross(f).Normalize()
	u := f.Cross(s)

	return Mat4{
		s.X, u.X, f.X, 0,
		s.Y, u.Y, f.Y, 0,
		s.Z, u.Z, f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}
