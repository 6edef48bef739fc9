package drawgen

import (
	"encoding/binary"

	"github.com/paavohuhtala/demogine/common"
)

// GPUFrustumSize is the byte size of the frustum uniform: six planes packed
// as vec4 (normal xyz + distance w).
const GPUFrustumSize = 96

// GPUDrawCommandSize is the byte size of one DrawIndexedIndirect argument
// block, matching wgpu's indirect draw layout exactly.
const GPUDrawCommandSize = 20

// GPUFrustum packs a common.Frustum for the culling uniform buffer. Plane i
// occupies 16 bytes: unit normal in xyz, distance in w.
type GPUFrustum struct {
	Planes [6]common.Plane
}

// NewGPUFrustum converts a world-space frustum into its GPU representation.
//
// Parameters:
//   - f: the frustum with inward-facing unit normals
//
// Returns:
//   - GPUFrustum: the packed frustum
func NewGPUFrustum(f common.Frustum) GPUFrustum {
	return GPUFrustum{Planes: f.Planes}
}

// Size returns the byte size of the frustum uniform.
//
// Returns:
//   - int: the size in bytes.
func (g *GPUFrustum) Size() int {
	return GPUFrustumSize
}

// Marshal serializes the frustum into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload.
func (g *GPUFrustum) Marshal() []byte {
	buf := make([]byte, GPUFrustumSize)
	for i, p := range g.Planes {
		offset := i * 16
		common.PutFloat32(buf, offset+0, p.Normal.X())
		common.PutFloat32(buf, offset+4, p.Normal.Y())
		common.PutFloat32(buf, offset+8, p.Normal.Z())
		common.PutFloat32(buf, offset+12, p.Distance)
	}
	return buf
}

// GPUDrawCommand mirrors the WGSL DrawCommand struct and wgpu's
// DrawIndexedIndirect arguments: five 32-bit values, 20 bytes, no padding.
type GPUDrawCommand struct {
	IndexCount    uint32 // offset  0: number of indices to draw
	InstanceCount uint32 // offset  4: number of instances to draw
	FirstIndex    uint32 // offset  8: first index into the index megabuffer
	BaseVertex    int32  // offset 12: signed base vertex added to each index
	FirstInstance uint32 // offset 16: base slot into the compacted instance buffer
}

// Size returns the byte size of one draw command.
//
// Returns:
//   - int: the size in bytes.
func (g *GPUDrawCommand) Size() int {
	return GPUDrawCommandSize
}

// Marshal serializes the command into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 20-byte buffer ready for GPU upload.
func (g *GPUDrawCommand) Marshal() []byte {
	buf := make([]byte, GPUDrawCommandSize)
	binary.LittleEndian.PutUint32(buf[0:4], g.IndexCount)
	binary.LittleEndian.PutUint32(buf[4:8], g.InstanceCount)
	binary.LittleEndian.PutUint32(buf[8:12], g.FirstIndex)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(g.BaseVertex))
	binary.LittleEndian.PutUint32(buf[16:20], g.FirstInstance)
	return buf
}

// UnmarshalGPUDrawCommand decodes a command from buf, the inverse of
// Marshal. Used by tests validating generated command buffers.
//
// Parameters:
//   - buf: the source slice, at least GPUDrawCommandSize bytes
//
// Returns:
//   - GPUDrawCommand: the decoded command
func UnmarshalGPUDrawCommand(buf []byte) GPUDrawCommand {
	return GPUDrawCommand{
		IndexCount:    binary.LittleEndian.Uint32(buf[0:4]),
		InstanceCount: binary.LittleEndian.Uint32(buf[4:8]),
		FirstIndex:    binary.LittleEndian.Uint32(buf[8:12]),
		BaseVertex:    int32(binary.LittleEndian.Uint32(buf[12:16])),
		FirstInstance: binary.LittleEndian.Uint32(buf[16:20]),
	}
}

// marshalCullParams packs the per-dispatch uniform read by the culling and
// gather passes. Padded to 16 bytes to keep uniform layout rules trivial.
func marshalCullParams(drawableCount uint32) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], drawableCount)
	return buf
}
