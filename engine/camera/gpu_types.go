package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraSource is the canonical WGSL definition of the Camera uniform
// struct. Matches GPUCamera layout exactly (80 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraSource string

// GPUCamera is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL Camera struct layout exactly (see GPUCameraSource).
// Size: 80 bytes.
type GPUCamera struct {
	ViewProjection mgl32.Mat4 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Position       mgl32.Vec3 // offset 64: world-space camera position (vec3<f32>)
	_pad           float32    // offset 76: padding to 80 bytes
}

// Size returns the size of the GPUCamera struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCamera) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCamera struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCamera) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProjection[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Position[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], 0) // _pad
	return buf
}
