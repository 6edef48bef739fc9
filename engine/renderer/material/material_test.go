package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistrySeedsDefaultSlot(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, 1, r.Count())

	def := r.Material(0)
	assert.Equal(t, "default", def.Name())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, def.BaseColor())
	assert.Equal(t, float32(0), def.Metallic())
	assert.Equal(t, float32(1), def.Roughness())
}

func TestRegisterAssignsSequentialIndices(t *testing.T) {
	r := NewRegistry()

	gold, err := r.Register(NewMaterial(
		WithName("gold"),
		WithBaseColor([4]float32{1, 0.77, 0.34, 1}),
		WithMetallic(1),
		WithRoughness(0.2),
	))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), gold)

	chalk, err := r.Register(NewMaterial(WithName("chalk")))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), chalk)

	assert.Equal(t, "gold", r.Material(gold).Name())
	assert.Equal(t, float32(1), r.Material(gold).Metallic())
	assert.Equal(t, "chalk", r.Material(chalk).Name())
}

func TestMaterialOutOfRangeFallsBackToDefault(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "default", r.Material(500).Name())
}

func TestRegisterCapacityBoundary(t *testing.T) {
	r := NewRegistry()
	// Slot 0 is the default, so MaxMaterials-1 registrations fill the table.
	for i := 0; i < MaxMaterials-1; i++ {
		_, err := r.Register(NewMaterial())
		require.NoError(t, err)
	}
	require.Equal(t, MaxMaterials, r.Count())

	_, err := r.Register(NewMaterial())
	require.ErrorIs(t, err, ErrTooManyMaterials)
	assert.Equal(t, MaxMaterials, r.Count())
}

func TestDataPacksFullTable(t *testing.T) {
	r := NewRegistry()
	idx, err := r.Register(NewMaterial(
		WithBaseColor([4]float32{0.25, 0.5, 0.75, 1}),
		WithMetallic(0.5),
		WithRoughness(0.125),
	))
	require.NoError(t, err)

	data := r.Data()
	require.Len(t, data, MaxMaterials*GPUMaterialSize)

	f32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
	}

	base := int(idx) * GPUMaterialSize
	assert.InDelta(t, 0.25, f32(base), 1e-6)
	assert.InDelta(t, 0.5, f32(base+4), 1e-6)
	assert.InDelta(t, 0.75, f32(base+8), 1e-6)
	assert.InDelta(t, 1, f32(base+12), 1e-6)
	assert.InDelta(t, 0.5, f32(base+16), 1e-6)
	assert.InDelta(t, 0.125, f32(base+20), 1e-6)

	// Unregistered slots hold the default material.
	last := (MaxMaterials - 1) * GPUMaterialSize
	assert.InDelta(t, 1, f32(last), 1e-6)
	assert.InDelta(t, 1, f32(last+20), 1e-6)
}

func TestGPUMaterialStride(t *testing.T) {
	var g GPUMaterial
	assert.Equal(t, 32, g.Size())
	assert.Len(t, g.Marshal(), 32)
}
