package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeTRSMatchesMatrixProduct(t *testing.T) {
	rotation := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 0, 1})
	composed := ComposeTRS(mgl32.Vec3{1, 2, 3}, rotation, 2)

	expected := mgl32.Translate3D(1, 2, 3).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(2, 2, 2))

	for i := range 16 {
		assert.InDelta(t, float64(expected[i]), float64(composed[i]), 1e-5, "element %d", i)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj := Perspective(mgl32.DegToRad(60), 1.0, near, far)

	// Points on the near and far planes must land on NDC z=0 and z=1.
	nearClip := proj.Mul4x1(mgl32.Vec4{0, 0, -near, 1})
	assert.InDelta(t, 0.0, float64(nearClip.Z()/nearClip.W()), 1e-5)

	farClip := proj.Mul4x1(mgl32.Vec4{0, 0, -far, 1})
	assert.InDelta(t, 1.0, float64(farClip.Z()/farClip.W()), 1e-4)
}

func TestMat4ByteRoundTrip(t *testing.T) {
	m := mgl32.Translate3D(4, 5, 6).Mul4(mgl32.Scale3D(2, 3, 4))

	buf := make([]byte, 64)
	PutMat4(buf, 0, m)
	require.Equal(t, m, Mat4FromBytes(buf, 0))
}

func TestNormalMatrixUndoesScale(t *testing.T) {
	world := mgl32.Scale3D(2, 2, 2)
	n := NormalMatrix(world)

	v := n.Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	assert.InDelta(t, 0.5, float64(v.X()), 1e-5)
}
