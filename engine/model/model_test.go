package model

import (
	"encoding/binary"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paavohuhtala/demogine/common"
)

func quadPrimitive(material uint32) *Primitive {
	return &Primitive{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{0, 0, 0}, TexCoord: mgl32.Vec2{0, 0}, Normal: mgl32.Vec3{0, 0, 1}},
			{Position: mgl32.Vec3{1, 0, 0}, TexCoord: mgl32.Vec2{1, 0}, Normal: mgl32.Vec3{0, 0, 1}},
			{Position: mgl32.Vec3{1, 1, 0}, TexCoord: mgl32.Vec2{1, 1}, Normal: mgl32.Vec3{0, 0, 1}},
			{Position: mgl32.Vec3{0, 1, 0}, TexCoord: mgl32.Vec2{0, 1}, Normal: mgl32.Vec3{0, 0, 1}},
		},
		Indices:       []uint32{0, 1, 2, 0, 2, 3},
		Bounds:        common.NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 0}),
		MaterialIndex: material,
	}
}

func TestRegistryAssignsGlobalIndices(t *testing.T) {
	reg := NewRegistry()

	meshA := &Mesh{Name: "a", Primitives: []*Primitive{quadPrimitive(0), quadPrimitive(1)}}
	meshB := &Mesh{Name: "b", Primitives: []*Primitive{quadPrimitive(2)}}

	require.NoError(t, reg.Register(meshA))
	require.NoError(t, reg.Register(meshB))

	assert.Equal(t, uint32(0), meshA.Primitives[0].GlobalIndex)
	assert.Equal(t, uint32(1), meshA.Primitives[1].GlobalIndex)
	assert.Equal(t, uint32(2), meshB.Primitives[0].GlobalIndex)
	assert.Equal(t, 3, reg.PrimitiveCount())
}

func TestRegistryCapacity(t *testing.T) {
	reg := NewRegistry()

	// Fill to exactly MaxMeshes entries: allowed.
	for i := 0; i < MaxMeshes; i++ {
		require.NoError(t, reg.Register(&Mesh{Primitives: []*Primitive{quadPrimitive(0)}}))
	}
	assert.Equal(t, MaxMeshes, reg.PrimitiveCount())

	// One more must fail loudly without mutating the table.
	err := reg.Register(&Mesh{Primitives: []*Primitive{quadPrimitive(0)}})
	require.ErrorIs(t, err, ErrTooManyMeshes)
	assert.Equal(t, MaxMeshes, reg.PrimitiveCount())
}

func TestBakeOffsetsAndRanges(t *testing.T) {
	reg := NewRegistry()

	p1 := quadPrimitive(0)
	p2 := quadPrimitive(1)
	require.NoError(t, reg.Register(&Mesh{Primitives: []*Primitive{p1}}))
	require.NoError(t, reg.Register(&Mesh{Primitives: []*Primitive{p2}}))

	baked := reg.Bake()

	var v GPUVertex
	require.Len(t, baked.MeshInfos, 2)
	assert.Equal(t, 8*v.Size(), len(baked.VertexData))
	assert.Equal(t, 12*4, len(baked.IndexData))
	assert.Equal(t, 12, baked.IndexCount)

	first := baked.MeshInfos[0]
	assert.Equal(t, uint32(6), first.IndexCount)
	assert.Equal(t, uint32(0), first.FirstIndex)
	assert.Equal(t, uint32(0), first.VertexOffset)

	second := baked.MeshInfos[1]
	assert.Equal(t, uint32(6), second.IndexCount)
	assert.Equal(t, uint32(6), second.FirstIndex)
	assert.Equal(t, uint32(4), second.VertexOffset)

	// Indices are not rebased; the vertex offset rebases at draw time.
	lastIndex := binary.LittleEndian.Uint32(baked.IndexData[len(baked.IndexData)-4:])
	assert.Equal(t, uint32(3), lastIndex)
}

func TestGPUMeshInfoLayout(t *testing.T) {
	info := GPUMeshInfo{
		IndexCount:   10,
		FirstIndex:   20,
		VertexOffset: 30,
		AABBMin:      mgl32.Vec4{-1, -2, -3, 0},
		AABBMax:      mgl32.Vec4{1, 2, 3, 0},
	}

	buf := info.Marshal()
	require.Len(t, buf, 48)
	assert.Equal(t, 48, info.Size())

	assert.Equal(t, uint32(10), binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint32(20), binary.LittleEndian.Uint32(buf[4:8]))
	assert.Equal(t, uint32(30), binary.LittleEndian.Uint32(buf[8:12]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[12:16]))
}

func TestGenerateTangents(t *testing.T) {
	p := quadPrimitive(0)
	p.GenerateTangents()

	for i, v := range p.Vertices {
		tangent := v.Tangent.Vec3()
		assert.InDelta(t, 1.0, tangent.Len(), 1e-5, "vertex %d tangent not unit length", i)
		// Tangent must be orthogonal to the normal.
		assert.InDelta(t, 0, tangent.Dot(v.Normal), 1e-5, "vertex %d", i)
	}
}
