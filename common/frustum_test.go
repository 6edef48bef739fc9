package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFrustum builds a frustum looking down -Z from (0, 0, 10) with a 90
// degree vertical field of view.
func testFrustum() Frustum {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	proj := Perspective(mgl32.DegToRad(90), 1.0, 0.1, 100)
	return FrustumFromViewProjection(proj.Mul4(view))
}

func unitBox() AABB {
	return AABB{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}}
}

func TestPlaneSignedDistance(t *testing.T) {
	// Plane through the origin with normal +Y.
	p := PlaneFromPoints(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1})
	require.InDelta(t, 1.0, float64(p.Normal.Y()), 1e-6)

	assert.InDelta(t, 2.0, float64(p.SignedDistance(mgl32.Vec3{5, 2, 3})), 1e-5)
	assert.InDelta(t, -2.0, float64(p.SignedDistance(mgl32.Vec3{5, -2, 3})), 1e-5)

	flipped := p.Flip()
	assert.InDelta(t, -2.0, float64(flipped.SignedDistance(mgl32.Vec3{5, 2, 3})), 1e-5)
}

func TestFrustumAcceptsBoxAtLookTarget(t *testing.T) {
	f := testFrustum()
	assert.True(t, f.IntersectsTransformedAABB(unitBox(), mgl32.Ident4()))
}

func TestFrustumRejectsBoxBehindCamera(t *testing.T) {
	f := testFrustum()
	assert.False(t, f.IntersectsTransformedAABB(unitBox(), mgl32.Translate3D(0, 0, 20)))
}

func TestFrustumRejectsBoxBeyondFarPlane(t *testing.T) {
	f := testFrustum()
	assert.False(t, f.IntersectsTransformedAABB(unitBox(), mgl32.Translate3D(0, 0, -120)))
}

func TestFrustumRejectsBoxFarToTheSide(t *testing.T) {
	f := testFrustum()
	// 90 degree FOV at distance 10 spans roughly +-10 units around the axis.
	assert.False(t, f.IntersectsTransformedAABB(unitBox(), mgl32.Translate3D(50, 0, 0)))
	assert.False(t, f.IntersectsTransformedAABB(unitBox(), mgl32.Translate3D(0, -50, 0)))
}

func TestFrustumAcceptsStraddlingBox(t *testing.T) {
	f := testFrustum()
	// Centered on the left plane boundary: some corners in, some out.
	straddling := AABB{Min: mgl32.Vec3{-2, -2, -2}, Max: mgl32.Vec3{2, 2, 2}}
	assert.True(t, f.IntersectsTransformedAABB(straddling, mgl32.Translate3D(-10, 0, 0)))
}

func TestFrustumAcceptsDegenerateBox(t *testing.T) {
	f := testFrustum()

	// Inverted bounds never reject, wherever they sit.
	inverted := AABB{Min: mgl32.Vec3{1, 1, 1}, Max: mgl32.Vec3{-1, -1, -1}}
	assert.True(t, f.IntersectsTransformedAABB(inverted, mgl32.Translate3D(0, 0, 500)))

	// A point box (all-zero extents) is degenerate too.
	point := AABB{}
	assert.True(t, f.IntersectsTransformedAABB(point, mgl32.Translate3D(0, 0, 500)))
}

func TestFrustumScaledBox(t *testing.T) {
	f := testFrustum()
	// A unit box scaled up enough reaches back into the frustum from a
	// position whose center is outside it.
	big := mgl32.Translate3D(15, 0, 0).Mul4(mgl32.Scale3D(20, 20, 20))
	assert.True(t, f.IntersectsTransformedAABB(unitBox(), big))
}

func TestAABBUnionAndDegenerate(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := AABB{Min: mgl32.Vec3{-1, 0.5, 0}, Max: mgl32.Vec3{0.5, 2, 0.5}}

	u := a.Union(b)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, u.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 1}, u.Max)

	assert.False(t, a.Degenerate())
	assert.True(t, AABB{}.Degenerate())
	assert.True(t, AABB{Min: mgl32.Vec3{2, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}.Degenerate())

	// Flat boxes (one zero axis) are valid, not degenerate.
	flat := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 0, 1}}
	assert.False(t, flat.Degenerate())
}
