package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsDirty(t *testing.T) {
	tr := New()
	assert.True(t, tr.WorldDirty())
	assert.False(t, tr.Changed())
	assert.Equal(t, float32(1), tr.Scale())
}

func TestLocalMatrixRecomposesOnce(t *testing.T) {
	tr := New()
	tr.SetLocal(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent(), 2)

	local := tr.LocalMatrix()

	expected := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	for i := 0; i < 16; i++ {
		assert.InDelta(t, expected[i], local[i], 1e-6, "element %d", i)
	}

	// A second read returns the cached matrix without touching flags.
	again := tr.LocalMatrix()
	assert.Equal(t, local, again)
}

func TestLocalMatrixWithRotation(t *testing.T) {
	tr := New()
	rot := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	tr.SetLocal(mgl32.Vec3{}, rot, 1)

	local := tr.LocalMatrix()

	// +X rotated 90 degrees around Y lands on -Z.
	v := local.Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	assert.InDelta(t, 0, v.X(), 1e-5)
	assert.InDelta(t, -1, v.Z(), 1e-5)
}

func TestSettersInvalidateWorld(t *testing.T) {
	tr := New()
	tr.LocalMatrix()
	tr.SetWorld(mgl32.Ident4())
	require.False(t, tr.WorldDirty())

	tr.SetTranslation(mgl32.Vec3{5, 0, 0})
	assert.True(t, tr.WorldDirty())

	tr.SetWorld(mgl32.Ident4())
	tr.SetRotation(mgl32.QuatIdent())
	assert.True(t, tr.WorldDirty())

	tr.SetWorld(mgl32.Ident4())
	tr.SetScale(3)
	assert.True(t, tr.WorldDirty())
}

func TestSetWorldClearsDirtyAndRecordsChange(t *testing.T) {
	tr := New()
	world := mgl32.Translate3D(1, 0, 0)

	tr.SetWorld(world)

	assert.False(t, tr.WorldDirty())
	assert.True(t, tr.Changed())
	assert.Equal(t, world, tr.World())

	tr.ResetChanged()
	assert.False(t, tr.Changed())
}

func TestNormalMatrixIsInverseTranspose(t *testing.T) {
	tr := New()
	world := mgl32.Translate3D(4, 5, 6).Mul4(mgl32.Scale3D(2, 2, 2))
	tr.SetWorld(world)

	expected := world.Inv().Transpose()
	normal := tr.NormalMatrix()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, expected[i], normal[i], 1e-5, "element %d", i)
	}
}
