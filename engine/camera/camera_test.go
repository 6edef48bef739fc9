package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paavohuhtala/demogine/common"
)

func newTestCamera() Camera {
	ctrl := NewOrbitController(
		WithTarget(mgl32.Vec3{0, 0, 0}),
		WithRadius(10),
		WithAzimuth(0),
		WithElevation(0),
	)
	return NewCamera(
		WithController(ctrl),
		WithAspect(16.0/9.0),
		WithNear(0.1),
		WithFar(100),
	)
}

func TestCameraMatricesMatchController(t *testing.T) {
	c := newTestCamera()

	// Azimuth 0, elevation 0, radius 10 puts the camera at (0, 0, 10)
	// looking at the origin.
	pos := c.Controller().Position()
	assert.InDelta(t, 0.0, float64(pos.X()), 1e-5)
	assert.InDelta(t, 0.0, float64(pos.Y()), 1e-5)
	assert.InDelta(t, 10.0, float64(pos.Z()), 1e-5)

	expectedView := mgl32.LookAtV(pos, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.Equal(t, expectedView, c.ViewMatrix())

	expectedVP := c.ProjectionMatrix().Mul4(expectedView)
	assert.Equal(t, expectedVP, c.ViewProjectionMatrix())
}

func TestCameraUpdateTracksControllerChanges(t *testing.T) {
	c := newTestCamera()
	before := c.ViewProjectionMatrix()

	c.Controller().Orbit(float32(math.Pi/2), 0)
	c.Update()

	after := c.ViewProjectionMatrix()
	assert.NotEqual(t, before, after)

	pos := c.Controller().Position()
	assert.InDelta(t, 10.0, float64(pos.X()), 1e-4)
	assert.InDelta(t, 0.0, float64(pos.Z()), 1e-4)
}

func TestCameraFrustumContainsLookTarget(t *testing.T) {
	c := newTestCamera()
	f := c.Frustum()

	origin := common.AABB{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}}
	assert.True(t, f.IntersectsTransformedAABB(origin, mgl32.Ident4()))

	// A box far behind the camera must be culled.
	behind := mgl32.Translate3D(0, 0, 50)
	assert.False(t, f.IntersectsTransformedAABB(origin, behind))
}

func TestControllerZoomClampsToBounds(t *testing.T) {
	ctrl := NewOrbitController(
		WithRadius(10),
		WithRadiusBounds(2, 20),
		WithZoomSpeed(1),
	)

	ctrl.Zoom(100)
	assert.InDelta(t, 2.0, float64(ctrl.Radius()), 1e-6)

	ctrl.Zoom(-100)
	assert.InDelta(t, 20.0, float64(ctrl.Radius()), 1e-6)
}

func TestControllerPanMovesTargetAndPosition(t *testing.T) {
	ctrl := NewOrbitController(
		WithTarget(mgl32.Vec3{0, 0, 0}),
		WithRadius(10),
		WithAzimuth(0),
		WithElevation(0),
		WithPanSpeed(1),
	)

	before := ctrl.Position()
	ctrl.Pan(1, 0)

	target := ctrl.Target()
	// Camera at +Z looking toward -Z: local right is +X.
	assert.InDelta(t, 1.0, float64(target.X()), 1e-5)

	delta := ctrl.Position().Sub(before)
	assert.InDelta(t, 1.0, float64(delta.X()), 1e-5)
	assert.InDelta(t, 0.0, float64(delta.Z()), 1e-5)
}

func TestCameraUniformLayout(t *testing.T) {
	c := newTestCamera()
	u := c.Uniform()

	require.Equal(t, 80, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 80)

	vp := common.Mat4FromBytes(buf, 0)
	assert.Equal(t, c.ViewProjectionMatrix(), vp)
}
