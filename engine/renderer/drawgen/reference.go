package drawgen

import (
	"github.com/paavohuhtala/demogine/common"
	"github.com/paavohuhtala/demogine/engine/drawable"
	"github.com/paavohuhtala/demogine/engine/model"
)

// CPU mirror of the three compute stages. The GPU passes claim output slots
// with atomics, so their command order and per-mesh instance order are
// nondeterministic; the reference produces one valid serialization (mesh
// table order, drawable submission order) and tests compare against it up
// to those permutations.

// ReferenceCull computes per-drawable visibility against the frustum,
// mirroring the culling shader: a drawable with a degenerate bounding box is
// always visible, otherwise the mesh's local-space box is transformed by the
// drawable's world matrix and tested against all six planes.
//
// Parameters:
//   - frustum: the world-space culling frustum
//   - meshInfos: the baked mesh table, indexed by GPUDrawable.MeshIndex
//   - drawables: the frame's drawable records
//
// Returns:
//   - []uint32: per-drawable visibility flags (1 visible, 0 culled)
//   - []uint32: visible drawable count per mesh table slot (model.MaxMeshes entries)
func ReferenceCull(frustum common.Frustum, meshInfos []model.GPUMeshInfo, drawables []drawable.GPUDrawable) ([]uint32, []uint32) {
	visibility := make([]uint32, len(drawables))
	visibleCountByMesh := make([]uint32, model.MaxMeshes)

	for i, d := range drawables {
		info := meshInfos[d.MeshIndex]
		aabb := common.AABB{Min: info.AABBMin.Vec3(), Max: info.AABBMax.Vec3()}
		if frustum.IntersectsTransformedAABB(aabb, d.World) {
			visibility[i] = 1
			visibleCountByMesh[d.MeshIndex]++
		}
	}

	return visibility, visibleCountByMesh
}

// ReferenceGenerateDraws produces the per-mesh base offsets and the dense
// draw command list, mirroring the generation shader: an exclusive prefix
// sum over the visible counts assigns each mesh a contiguous instance range,
// and every mesh with at least one visible instance emits one indexed
// indirect command.
//
// The GPU pass claims command slots atomically, so its command order is an
// arbitrary permutation of the returned list.
//
// Parameters:
//   - meshInfos: the baked mesh table
//   - visibleCountByMesh: visible counts from ReferenceCull
//
// Returns:
//   - []uint32: exclusive prefix sum of visibleCountByMesh (base instance offsets)
//   - []GPUDrawCommand: dense commands in mesh table order
func ReferenceGenerateDraws(meshInfos []model.GPUMeshInfo, visibleCountByMesh []uint32) ([]uint32, []GPUDrawCommand) {
	baseOffsets := make([]uint32, len(visibleCountByMesh))
	var running uint32
	for i, count := range visibleCountByMesh {
		baseOffsets[i] = running
		running += count
	}

	var commands []GPUDrawCommand
	for meshIndex, count := range visibleCountByMesh {
		if count == 0 {
			continue
		}
		info := meshInfos[meshIndex]
		commands = append(commands, GPUDrawCommand{
			IndexCount:    info.IndexCount,
			InstanceCount: count,
			FirstIndex:    info.FirstIndex,
			BaseVertex:    int32(info.VertexOffset),
			FirstInstance: baseOffsets[meshIndex],
		})
	}

	return baseOffsets, commands
}

// ReferenceGather compacts the visible drawables into a contiguous buffer,
// mirroring the gather shader: each visible drawable lands inside its mesh's
// [baseOffset, baseOffset+count) range. The reference preserves submission
// order within each range; the GPU pass may permute records inside a range
// but never across ranges.
//
// Parameters:
//   - drawables: the frame's drawable records
//   - visibility: per-drawable flags from ReferenceCull
//   - baseOffsets: base instance offsets from ReferenceGenerateDraws
//
// Returns:
//   - []drawable.GPUDrawable: the compacted records, one per visible drawable
func ReferenceGather(drawables []drawable.GPUDrawable, visibility []uint32, baseOffsets []uint32) []drawable.GPUDrawable {
	var total uint32
	for i := range drawables {
		total += visibility[i]
	}

	compacted := make([]drawable.GPUDrawable, total)
	cursors := make([]uint32, model.MaxMeshes)
	for i, d := range drawables {
		if visibility[i] == 0 {
			continue
		}
		slot := baseOffsets[d.MeshIndex] + cursors[d.MeshIndex]
		cursors[d.MeshIndex]++
		compacted[slot] = d
	}

	return compacted
}
