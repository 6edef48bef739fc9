package light

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GPULightingSize is the byte size of the packed lighting uniform.
const GPULightingSize = 48

// GPULighting is the GPU-aligned lighting uniform read by the geometry
// pass's fragment stage.
// Size: 48 bytes (uniform-buffer aligned).
type GPULighting struct {
	Direction mgl32.Vec3 // offset  0: normalized light direction (12 bytes + 4 pad)
	Color     mgl32.Vec3 // offset 16: light RGB color (12 bytes)
	Intensity float32    // offset 28: intensity multiplier (4 bytes)
	Ambient   mgl32.Vec3 // offset 32: ambient RGB term (12 bytes + 4 pad)
}

// Size returns the size of the GPULighting struct in bytes.
//
// Returns:
//   - int: the size in bytes
func (g *GPULighting) Size() int {
	return GPULightingSize
}

// Marshal serializes the GPULighting struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULighting) Marshal() []byte {
	buf := make([]byte, GPULightingSize)
	putVec3 := func(offset int, v mgl32.Vec3) {
		for i := range 3 {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v[i]))
		}
	}
	putVec3(0, g.Direction)
	putVec3(16, g.Color)
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(g.Intensity))
	putVec3(32, g.Ambient)
	return buf
}
