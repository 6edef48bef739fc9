package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/paavohuhtala/demogine/common"
)

// GPUMeshInfoSize is the byte size of one packed GPUMeshInfo record.
const GPUMeshInfoSize = 48

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (48 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-packed representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 48 bytes, no padding required.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in mesh local space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
	Tangent  [4]float32 // offset 32: tangent (xyz) + handedness (w) (16 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 48)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.TexCoord[1]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Tangent[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Tangent[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.Tangent[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.Tangent[3]))
	return buf
}

// GPUMeshInfoSource is the canonical WGSL definition of the MeshInfo struct.
// Matches GPUMeshInfo layout exactly (48 bytes, std430 aligned).
//
//go:embed assets/mesh_info.wgsl
var GPUMeshInfoSource string

// GPUMeshInfo is the GPU-aligned mesh table entry read by the compute
// stages: index/vertex ranges into the megabuffers plus the local-space
// bounding box. The w components of the bounds are unused.
// Size: 48 bytes (std430 aligned).
type GPUMeshInfo struct {
	IndexCount   uint32     // offset  0: number of indices for this primitive (4 bytes)
	FirstIndex   uint32     // offset  4: first index into the shared index megabuffer (4 bytes)
	VertexOffset uint32     // offset  8: base vertex into the shared vertex megabuffer (4 bytes)
	_pad         uint32     // offset 12: padding for vec4 alignment (4 bytes)
	AABBMin      mgl32.Vec4 // offset 16: bounding box minimum, w unused (16 bytes)
	AABBMax      mgl32.Vec4 // offset 32: bounding box maximum, w unused (16 bytes)
}

// Size returns the size of the GPUMeshInfo struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMeshInfo) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMeshInfo struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUMeshInfo) Marshal() []byte {
	buf := make([]byte, 48)
	binary.LittleEndian.PutUint32(buf[0:4], g.IndexCount)
	binary.LittleEndian.PutUint32(buf[4:8], g.FirstIndex)
	binary.LittleEndian.PutUint32(buf[8:12], g.VertexOffset)
	binary.LittleEndian.PutUint32(buf[12:16], 0)
	common.PutVec4(buf, 16, g.AABBMin)
	common.PutVec4(buf, 32, g.AABBMax)
	return buf
}
