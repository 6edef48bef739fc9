package drawable

import (
	_ "embed"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/paavohuhtala/demogine/common"
)

// GPUDrawableSize is the stride of one drawable record in both the input
// drawable buffer and the compacted visible-drawable buffer.
const GPUDrawableSize = 96

// GPUDrawableSource is the canonical WGSL definition of the Drawable struct.
// Matches GPUDrawable layout exactly (96 bytes, std430 aligned).
//
//go:embed assets/drawable.wgsl
var GPUDrawableSource string

// GPUDrawable is the GPU-aligned drawable record. The same layout serves the
// per-frame input buffer and the compacted output the geometry pass indexes
// with first_instance + instance_index.
// Size: 96 bytes (std430 aligned).
type GPUDrawable struct {
	World         mgl32.Mat4 // offset  0: world matrix, column-major (64 bytes)
	MeshIndex     uint32     // offset 64: global mesh table index (4 bytes)
	MaterialIndex uint32     // offset 68: opaque material handle (4 bytes)
	// offset 72: 8 bytes padding to a 16-byte multiple, plus 16 bytes
	// trailing alignment to reach the 96-byte stride.
}

// Size returns the stride of the GPUDrawable struct in bytes.
//
// Returns:
//   - int: the stride in bytes.
func (g *GPUDrawable) Size() int {
	return GPUDrawableSize
}

// Marshal serializes the GPUDrawable struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload.
func (g *GPUDrawable) Marshal() []byte {
	buf := make([]byte, GPUDrawableSize)
	g.MarshalInto(buf)
	return buf
}

// MarshalInto serializes the record into buf, which must hold at least
// GPUDrawableSize bytes. Avoids per-record allocation on the per-frame
// upload path.
//
// Parameters:
//   - buf: the destination slice
func (g *GPUDrawable) MarshalInto(buf []byte) {
	common.PutMat4(buf, 0, g.World)
	binary.LittleEndian.PutUint32(buf[64:68], g.MeshIndex)
	binary.LittleEndian.PutUint32(buf[68:72], g.MaterialIndex)
	for i := 72; i < GPUDrawableSize; i++ {
		buf[i] = 0
	}
}

// UnmarshalGPUDrawable decodes a record from buf, the inverse of
// MarshalInto. Used by tests validating compaction output.
//
// Parameters:
//   - buf: the source slice, at least GPUDrawableSize bytes
//
// Returns:
//   - GPUDrawable: the decoded record
func UnmarshalGPUDrawable(buf []byte) GPUDrawable {
	return GPUDrawable{
		World:         common.Mat4FromBytes(buf, 0),
		MeshIndex:     binary.LittleEndian.Uint32(buf[64:68]),
		MaterialIndex: binary.LittleEndian.Uint32(buf[68:72]),
	}
}
