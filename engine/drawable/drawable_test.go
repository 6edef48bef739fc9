package drawable

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paavohuhtala/demogine/engine/model"
	"github.com/paavohuhtala/demogine/engine/scene"
)

func meshWithPrimitives(indices ...uint32) *model.Mesh {
	m := &model.Mesh{Name: "mesh"}
	for _, idx := range indices {
		m.Primitives = append(m.Primitives, &model.Primitive{GlobalIndex: idx, MaterialIndex: idx * 10})
	}
	return m
}

func TestGatherEmitsOneRecordPerPrimitive(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	s.AddObject("two-prims", scene.WithMesh(meshWithPrimitives(0, 1)))
	s.AddObject("one-prim", scene.WithMesh(meshWithPrimitives(2)))
	s.AddObject("no-mesh")
	s.LateUpdate()

	m := NewManager()
	require.NoError(t, m.Gather(s))

	require.Equal(t, 3, m.Count())
	assert.Equal(t, uint32(0), m.Drawables()[0].MeshIndex)
	assert.Equal(t, uint32(1), m.Drawables()[1].MeshIndex)
	assert.Equal(t, uint32(2), m.Drawables()[2].MeshIndex)
	assert.Equal(t, uint32(20), m.Drawables()[2].MaterialIndex)
}

func TestGatherSkipsDisabledObjects(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	s.AddObject("on", scene.WithMesh(meshWithPrimitives(0)))
	off := s.AddObject("off", scene.WithMesh(meshWithPrimitives(1)))
	s.SetEnabled(off, false)
	s.LateUpdate()

	m := NewManager()
	require.NoError(t, m.Gather(s))
	require.Equal(t, 1, m.Count())
	assert.Equal(t, uint32(0), m.Drawables()[0].MeshIndex)
}

func TestGatherCarriesWorldMatrix(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("obj", scene.WithMesh(meshWithPrimitives(0)))
	s.SetTranslation(id, mgl32.Vec3{7, 8, 9})
	s.LateUpdate()

	m := NewManager()
	require.NoError(t, m.Gather(s))

	world := m.Drawables()[0].World
	assert.InDelta(t, 7, world[12], 1e-6)
	assert.InDelta(t, 8, world[13], 1e-6)
	assert.InDelta(t, 9, world[14], 1e-6)
}

func TestGatherRebuildsEveryFrame(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("obj", scene.WithMesh(meshWithPrimitives(0)))
	s.LateUpdate()

	m := NewManager()
	require.NoError(t, m.Gather(s))
	require.Equal(t, 1, m.Count())

	s.SetEnabled(id, false)
	require.NoError(t, m.Gather(s))
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, m.Data())
}

func TestGatherCapacityBoundary(t *testing.T) {
	// One object whose mesh holds exactly MaxDrawables primitives succeeds.
	s := scene.NewScene("test", scene.WithWorkers(1))
	big := &model.Mesh{Name: "big"}
	for i := 0; i < MaxDrawables; i++ {
		big.Primitives = append(big.Primitives, &model.Primitive{GlobalIndex: uint32(i % 128)})
	}
	s.AddObject("big", scene.WithMesh(big))
	s.LateUpdate()

	m := NewManager()
	require.NoError(t, m.Gather(s))
	assert.Equal(t, MaxDrawables, m.Count())

	// One more primitive pushes past the maximum and must error.
	s.AddObject("straw", scene.WithMesh(meshWithPrimitives(0)))
	s.LateUpdate()
	err := m.Gather(s)
	require.ErrorIs(t, err, ErrTooManyDrawables)
	assert.Equal(t, 0, m.Count())
}

func TestDataPacksRecords(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("obj", scene.WithMesh(meshWithPrimitives(3)))
	s.SetTranslation(id, mgl32.Vec3{1, 2, 3})
	s.LateUpdate()

	m := NewManager()
	require.NoError(t, m.Gather(s))

	data := m.Data()
	require.Len(t, data, GPUDrawableSize)

	decoded := UnmarshalGPUDrawable(data)
	assert.Equal(t, uint32(3), decoded.MeshIndex)
	assert.Equal(t, uint32(30), decoded.MaterialIndex)
	assert.InDelta(t, 1, decoded.World[12], 1e-6)
}

func TestGPUDrawableStride(t *testing.T) {
	var g GPUDrawable
	assert.Equal(t, 96, g.Size())
	assert.Len(t, g.Marshal(), 96)
}
