package types

import "golang.org/x/image/math/f32"

// Matrices use row-major storage: element (row, col) lives at index row*4+col.
type Mat3 f32.Mat3
type Mat4 f32.Mat4

// Create an identity matrix.
func Ident4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Create a translation matrix.
func Translate4(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, v[0],
		0, 1, 0, v[1],
		0, 0, 1, v[2],
		0, 0, 0, 1,
	}
}

// Create a scaling matrix.
func Scale4(v Vec3) Mat4 {
	return Mat4{
		v[0], 0, 0, 0,
		0, v[1], 0, 0,
		0, 0, v[2], 0,
		0, 0, 0, 1,
	}
}

// Create a rotation matrix from a unit quaternion.
func Rotate4(q Quat) Mat4 {
	return q.Mat4()
}

// Multiply two matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * m2[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// Multiply a matrix with a 4 component vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

// Transform a point, applying the homogeneous divide if w != 1.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	out := m.Mul4x1(p.Vec4(1))
	if out[3] != 0 && out[3] != 1 {
		inv := 1.0 / out[3]
		return Vec3{out[0] * inv, out[1] * inv, out[2] * inv}
	}
	return out.Vec3()
}

// Transform a direction vector. Translation does not apply.
func (m Mat4) MulVector(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2],
	}
}

// Transform a normal (or basis vector) with the transpose of this matrix.
// Callers pass the world-to-object matrix so that the combined effect is the
// inverse-transpose rule for normals.
func (m Mat4) MulNormal(n Vec3) Vec3 {
	return Vec3{
		m[0]*n[0] + m[4]*n[1] + m[8]*n[2],
		m[1]*n[0] + m[5]*n[1] + m[9]*n[2],
		m[2]*n[0] + m[6]*n[1] + m[10]*n[2],
	}
}

// Transpose the matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Extract the top-left 3x3 matrix from a 4x4 matrix.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Invert the matrix using cofactor expansion. Returns the identity matrix
// when the input is singular.
func (m Mat4) Inv() Mat4 {
	a := m

	b00 := a[0]*a[5] - a[1]*a[4]
	b01 := a[0]*a[6] - a[2]*a[4]
	b02 := a[0]*a[7] - a[3]*a[4]
	b03 := a[1]*a[6] - a[2]*a[5]
	b04 := a[1]*a[7] - a[3]*a[5]
	b05 := a[2]*a[7] - a[3]*a[6]
	b06 := a[8]*a[13] - a[9]*a[12]
	b07 := a[8]*a[14] - a[10]*a[12]
	b08 := a[8]*a[15] - a[11]*a[12]
	b09 := a[9]*a[14] - a[10]*a[13]
	b10 := a[9]*a[15] - a[11]*a[13]
	b11 := a[10]*a[15] - a[11]*a[14]

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det > -floatCmpEpsilon && det < floatCmpEpsilon {
		return Ident4()
	}
	invDet := 1.0 / det

	return Mat4{
		(a[5]*b11 - a[6]*b10 + a[7]*b09) * invDet,
		(-a[1]*b11 + a[2]*b10 - a[3]*b09) * invDet,
		(a[13]*b05 - a[14]*b04 + a[15]*b03) * invDet,
		(-a[9]*b05 + a[10]*b04 - a[11]*b03) * invDet,

		(-a[4]*b11 + a[6]*b08 - a[7]*b07) * invDet,
		(a[0]*b11 - a[2]*b08 + a[3]*b07) * invDet,
		(-a[12]*b05 + a[14]*b02 - a[15]*b01) * invDet,
		(a[8]*b05 - a[10]*b02 + a[11]*b01) * invDet,

		(a[4]*b10 - a[5]*b08 + a[7]*b06) * invDet,
		(-a[0]*b10 + a[1]*b08 - a[3]*b06) * invDet,
		(a[12]*b04 - a[13]*b02 + a[15]*b00) * invDet,
		(-a[8]*b04 + a[9]*b02 - a[11]*b00) * invDet,

		(-a[4]*b09 + a[5]*b07 - a[6]*b06) * invDet,
		(a[0]*b09 - a[1]*b07 + a[2]*b06) * invDet,
		(-a[12]*b03 + a[13]*b01 - a[14]*b00) * invDet,
		(a[8]*b03 - a[9]*b01 + a[10]*b00) * invDet,
	}
}
