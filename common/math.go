package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ComposeTRS builds a model matrix from translation, quaternion rotation and
// a uniform scale, applied in scale-rotate-translate order.
//
// Parameters:
//   - translation: world-space offset
//   - rotation: orientation quaternion (assumed normalized)
//   - scale: uniform scale factor
//
// Returns:
//   - mgl32.Mat4: the composed model matrix (column-major)
func ComposeTRS(translation mgl32.Vec3, rotation mgl32.Quat, scale float32) mgl32.Mat4 {
	m := rotation.Mat4()
	// Scale the rotation basis vectors in place; cheaper than a full
	// matrix multiply for a uniform scale.
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] *= scale
		}
	}
	m[12] = translation.X()
	m[13] = translation.Y()
	m[14] = translation.Z()
	return m
}

// depthZeroToOne remaps clip-space depth from OpenGL's [-1, 1] range to the
// [0, 1] range WebGPU expects.
var depthZeroToOne = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Perspective builds a right-handed perspective projection matrix with depth
// mapped to [0, 1].
//
// Parameters:
//   - fovy: vertical field of view in radians
//   - aspect: width / height ratio
//   - near, far: clipping plane distances
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func Perspective(fovy, aspect, near, far float32) mgl32.Mat4 {
	return depthZeroToOne.Mul4(mgl32.Perspective(fovy, aspect, near, far))
}

// NormalMatrix returns the inverse-transpose of the world matrix, used to
// transform normals under non-uniform or mirrored transforms.
//
// Parameters:
//   - world: the world matrix
//
// Returns:
//   - mgl32.Mat4: the inverse-transpose
func NormalMatrix(world mgl32.Mat4) mgl32.Mat4 {
	return world.Inv().Transpose()
}

// PutFloat32 writes a float32 into buf at offset in little-endian byte order.
//
// Parameters:
//   - buf: the destination byte slice
//   - offset: the byte offset to write at
//   - v: the value to write
func PutFloat32(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
}

// PutVec4 writes a vec4 (16 bytes) into buf at offset in little-endian byte order.
//
// Parameters:
//   - buf: the destination byte slice
//   - offset: the byte offset to write at
//   - v: the vector to write
func PutVec4(buf []byte, offset int, v mgl32.Vec4) {
	for i := 0; i < 4; i++ {
		PutFloat32(buf, offset+i*4, v[i])
	}
}

// PutMat4 writes a column-major 4x4 matrix (64 bytes) into buf at offset in
// little-endian byte order, matching the WGSL mat4x4<f32> layout.
//
// Parameters:
//   - buf: the destination byte slice
//   - offset: the byte offset to write at
//   - m: the matrix to write
func PutMat4(buf []byte, offset int, m mgl32.Mat4) {
	for i := 0; i < 16; i++ {
		PutFloat32(buf, offset+i*4, m[i])
	}
}

// Mat4FromBytes reads a column-major 4x4 matrix from buf at offset, the
// inverse of PutMat4.
//
// Parameters:
//   - buf: the source byte slice
//   - offset: the byte offset to read from
//
// Returns:
//   - mgl32.Mat4: the decoded matrix
func Mat4FromBytes(buf []byte, offset int) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := 0; i < 16; i++ {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[offset+i*4:]))
	}
	return m
}
