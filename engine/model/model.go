package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/paavohuhtala/demogine/logger"
)

// Registry assigns global mesh table slots to primitives and bakes all
// registered geometry into shared megabuffers. Registration happens at load
// time only; the table is immutable once baked.
type Registry struct {
	meshes         []*Mesh
	primitiveCount int
}

// NewRegistry returns an empty mesh registry.
//
// Returns:
//   - *Registry: the new registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register assigns global indices to the mesh's primitives and adds it to
// the table. Registering past MaxMeshes entries returns ErrTooManyMeshes and
// leaves the table untouched.
//
// Parameters:
//   - mesh: the mesh to register
//
// Returns:
//   - error: ErrTooManyMeshes when the table is full
func (r *Registry) Register(mesh *Mesh) error {
	if r.primitiveCount+len(mesh.Primitives) > MaxMeshes {
		return fmt.Errorf("%w: %d primitives registered, %d more requested, max %d",
			ErrTooManyMeshes, r.primitiveCount, len(mesh.Primitives), MaxMeshes)
	}

	for _, p := range mesh.Primitives {
		p.GlobalIndex = uint32(r.primitiveCount)
		r.primitiveCount++
	}
	r.meshes = append(r.meshes, mesh)
	return nil
}

// PrimitiveCount returns the number of mesh table entries registered so far.
func (r *Registry) PrimitiveCount() int {
	return r.primitiveCount
}

// BakedMeshes holds the concatenated megabuffers and the mesh table produced
// by Bake, ready for one-time GPU upload.
type BakedMeshes struct {
	// VertexData is the packed vertex megabuffer (GPUVertex stride).
	VertexData []byte
	// IndexData is the packed u32 index megabuffer. Indices are not
	// rebased; the per-mesh vertex offset is applied at draw time via the
	// command's base vertex.
	IndexData []byte
	// MeshInfos is the mesh table, ordered by global index.
	MeshInfos []GPUMeshInfo
	// IndexCount is the total number of indices across all primitives.
	IndexCount int
}

// MeshInfoData packs the mesh table into a single byte buffer for upload to
// the mesh info storage buffer.
//
// Returns:
//   - []byte: the packed mesh table
func (b *BakedMeshes) MeshInfoData() []byte {
	var info GPUMeshInfo
	buf := make([]byte, 0, len(b.MeshInfos)*info.Size())
	for i := range b.MeshInfos {
		buf = append(buf, b.MeshInfos[i].Marshal()...)
	}
	return buf
}

// Bake concatenates every registered primitive's vertices and indices into
// shared megabuffers and emits one GPUMeshInfo per primitive recording its
// ranges and bounding box.
//
// Returns:
//   - *BakedMeshes: the megabuffers and mesh table
func (r *Registry) Bake() *BakedMeshes {
	baked := &BakedMeshes{
		MeshInfos: make([]GPUMeshInfo, 0, r.primitiveCount),
	}

	vertexOffset := uint32(0)
	firstIndex := uint32(0)

	for _, mesh := range r.meshes {
		for _, p := range mesh.Primitives {
			for i := range p.Vertices {
				gv := newGPUVertex(&p.Vertices[i])
				baked.VertexData = append(baked.VertexData, gv.Marshal()...)
			}
			for _, idx := range p.Indices {
				baked.IndexData = append(baked.IndexData, byte(idx), byte(idx>>8), byte(idx>>16), byte(idx>>24))
			}

			info := GPUMeshInfo{
				IndexCount:   uint32(len(p.Indices)),
				FirstIndex:   firstIndex,
				VertexOffset: vertexOffset,
				AABBMin:      p.Bounds.Min.Vec4(0),
				AABBMax:      p.Bounds.Max.Vec4(0),
			}
			baked.MeshInfos = append(baked.MeshInfos, info)

			vertexOffset += uint32(len(p.Vertices))
			firstIndex += uint32(len(p.Indices))
		}
	}

	baked.IndexCount = int(firstIndex)

	logger.Debug("baked mesh table",
		zap.Int("primitives", r.primitiveCount),
		zap.Int("vertexBytes", len(baked.VertexData)),
		zap.Int("indexCount", baked.IndexCount),
	)

	return baked
}

func newGPUVertex(v *Vertex) GPUVertex {
	return GPUVertex{
		Position: [3]float32{v.Position.X(), v.Position.Y(), v.Position.Z()},
		Normal:   [3]float32{v.Normal.X(), v.Normal.Y(), v.Normal.Z()},
		TexCoord: [2]float32{v.TexCoord.X(), v.TexCoord.Y()},
		Tangent:  [4]float32{v.Tangent.X(), v.Tangent.Y(), v.Tangent.Z(), v.Tangent.W()},
	}
}
