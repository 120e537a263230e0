package common

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ComposeTRS builds the column-major matrix T * R * S from a decomposed transform.
//
// Parameters:
//   - translation: world or parent-space translation
//   - rotation: unit quaternion rotation
//   - scale: per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed transform
func ComposeTRS(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(translation.X(), translation.Y(), translation.Z())
	r := rotation.Normalize().Mat4()
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(r).Mul4(s)
}

// DecomposeTRS splits an affine matrix into translation, rotation and scale.
// A negative determinant is folded into the X scale.
//
// Parameters:
//   - m: the matrix to decompose (no shear or projection)
//
// Returns:
//   - mgl32.Vec3: translation
//   - mgl32.Quat: unit rotation
//   - mgl32.Vec3: scale
func DecomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	translation := m.Col(3).Vec3()

	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Mat3().Det() < 0 {
		sx = -sx
	}
	scale := mgl32.Vec3{sx, sy, sz}

	rot := mgl32.Ident4()
	for col, s := range []float32{sx, sy, sz} {
		if s == 0 {
			continue
		}
		c := m.Col(col).Vec3().Mul(1 / s)
		rot.SetCol(col, c.Vec4(0))
	}
	return translation, mgl32.Mat4ToQuat(rot).Normalize(), scale
}

// EulerXYZ extracts intrinsic X, Y, Z angles (radians) such that
// q == Rx(x) * Ry(y) * Rz(z).
//
// Parameters:
//   - q: the rotation to convert
//
// Returns:
//   - x, y, z: angles in radians
func EulerXYZ(q mgl32.Quat) (x, y, z float32) {
	m := q.Normalize().Mat4()
	// m.At(row, col); Ry's sine lands in row 0, column 2.
	sy := mgl32.Clamp(m.At(0, 2), -1, 1)
	y = math32.Asin(sy)
	if math32.Abs(sy) < 0.9999999 {
		x = math32.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math32.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		x = math32.Atan2(m.At(2, 1), m.At(1, 1))
		z = 0
	}
	return x, y, z
}

// PerspectiveRH builds a right-handed perspective projection with a [0, 1] depth range.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveRH(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	r := far / (near - far)
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, r, -1,
		0, 0, r * near, 0,
	}
}

// PerspectiveInfiniteRH builds a right-handed perspective projection with no far plane.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near: near plane distance
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveInfiniteRH(fovY, aspect, near float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, -1, -1,
		0, 0, -near, 0,
	}
}

// OrthographicRH builds a right-handed orthographic projection with a [0, 1] depth range.
func OrthographicRH(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	rw := 1.0 / (right - left)
	rh := 1.0 / (top - bottom)
	r := 1.0 / (near - far)
	return mgl32.Mat4{
		2 * rw, 0, 0, 0,
		0, 2 * rh, 0, 0,
		0, 0, r, 0,
		-(left + right) * rw, -(top + bottom) * rh, r * near, 1,
	}
}

// NormalMatrix returns the inverse-transpose of the upper 3x3 of m as three
// vec4-padded columns, the layout WGSL expects for a mat3x4 uniform member.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - [12]float32: column-major padded normal matrix
func NormalMatrix(m mgl32.Mat4) [12]float32 {
	n := m.Mat3().Inv().Transpose()
	var out [12]float32
	for col := range 3 {
		c := n.Col(col)
		out[col*4+0] = c[0]
		out[col*4+1] = c[1]
		out[col*4+2] = c[2]
	}
	return out
}

// PutFloat32s writes values into buf in little-endian order.
//
// Parameters:
//   - buf: destination, at least 4*len(values) bytes
//   - values: the floats to write
//
// Returns:
//   - int: number of bytes written
func PutFloat32s(buf []byte, values ...float32) int {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return len(values) * 4
}

// PutMat4 writes a column-major matrix (64 bytes) into buf.
func PutMat4(buf []byte, m mgl32.Mat4) int {
	return PutFloat32s(buf, m[:]...)
}
