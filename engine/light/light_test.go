package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDirectionalLightDefaults(t *testing.T) {
	l := NewDirectionalLight()

	assert.InDelta(t, 1, l.Direction().Len(), 1e-6)
	assert.True(t, l.Direction().Y() < 0)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.Equal(t, float32(1), l.Intensity())
	assert.Equal(t, mgl32.Vec3{0.15, 0.15, 0.15}, l.Ambient())
}

func TestNewDirectionalLightWithOptions(t *testing.T) {
	l := NewDirectionalLight(
		WithDirection(mgl32.Vec3{0, -2, 0}),
		WithColor(mgl32.Vec3{1, 0.9, 0.8}),
		WithIntensity(2.5),
		WithAmbient(mgl32.Vec3{0.05, 0.05, 0.1}),
	)

	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())
	assert.Equal(t, mgl32.Vec3{1, 0.9, 0.8}, l.Color())
	assert.Equal(t, float32(2.5), l.Intensity())
	assert.Equal(t, mgl32.Vec3{0.05, 0.05, 0.1}, l.Ambient())
}

func TestSetDirectionNormalizes(t *testing.T) {
	l := NewDirectionalLight()
	l.SetDirection(mgl32.Vec3{3, 0, 4})
	assert.InDelta(t, 0.6, l.Direction().X(), 1e-6)
	assert.InDelta(t, 0.8, l.Direction().Z(), 1e-6)
}

func TestSetDirectionIgnoresZeroVector(t *testing.T) {
	l := NewDirectionalLight()
	before := l.Direction()
	l.SetDirection(mgl32.Vec3{})
	assert.Equal(t, before, l.Direction())
}

func TestUniformSnapshotsState(t *testing.T) {
	l := NewDirectionalLight(WithIntensity(3))
	u := l.Uniform()
	assert.Equal(t, l.Direction(), u.Direction)
	assert.Equal(t, l.Color(), u.Color)
	assert.Equal(t, float32(3), u.Intensity)
	assert.Equal(t, l.Ambient(), u.Ambient)

	l.SetIntensity(7)
	assert.Equal(t, float32(3), u.Intensity)
}

func TestGPULightingMarshal(t *testing.T) {
	g := GPULighting{
		Direction: mgl32.Vec3{0, -1, 0},
		Color:     mgl32.Vec3{1, 0.5, 0.25},
		Intensity: 2,
		Ambient:   mgl32.Vec3{0.1, 0.2, 0.3},
	}

	buf := g.Marshal()
	require.Len(t, buf, GPULightingSize)
	assert.Equal(t, GPULightingSize, g.Size())

	f32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}

	assert.InDelta(t, 0, f32(0), 1e-6)
	assert.InDelta(t, -1, f32(4), 1e-6)
	assert.InDelta(t, 0, f32(8), 1e-6)
	assert.InDelta(t, 1, f32(16), 1e-6)
	assert.InDelta(t, 0.5, f32(20), 1e-6)
	assert.InDelta(t, 0.25, f32(24), 1e-6)
	assert.InDelta(t, 2, f32(28), 1e-6)
	assert.InDelta(t, 0.1, f32(32), 1e-6)
	assert.InDelta(t, 0.2, f32(36), 1e-6)
	assert.InDelta(t, 0.3, f32(40), 1e-6)
}
