package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: dot(normal, p) + distance = 0.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// PlaneFromPoints constructs the plane passing through three points, with the
// normal following the right-hand winding of a→b→c.
//
// Parameters:
//   - a, b, c: three non-collinear points on the plane
//
// Returns:
//   - Plane: the constructed plane with unit-length normal
func PlaneFromPoints(a, b, c mgl32.Vec3) Plane {
	ab := b.Sub(a)
	ac := c.Sub(a)
	normal := ab.Cross(ac).Normalize()
	return Plane{
		Normal:   normal,
		Distance: -normal.Dot(a),
	}
}

// SignedDistance returns the signed distance from the point to the plane.
// Positive values lie on the side the normal points toward.
//
// Parameters:
//   - point: the point to measure
//
// Returns:
//   - float32: the signed distance
func (p Plane) SignedDistance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// Flip returns the plane with its orientation reversed.
//
// Returns:
//   - Plane: the flipped plane
func (p Plane) Flip() Plane {
	return Plane{
		Normal:   p.Normal.Mul(-1),
		Distance: -p.Distance,
	}
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// frustumCorners unprojects the eight NDC cube corners through the inverse
// view-projection matrix into world space. Depth follows the WebGPU
// convention: near plane at z=0, far plane at z=1.
func frustumCorners(viewProjection mgl32.Mat4) [8]mgl32.Vec3 {
	ndc := [8]mgl32.Vec4{
		{-1, -1, 0, 1}, // left bottom near
		{1, -1, 0, 1},  // right bottom near
		{-1, 1, 0, 1},  // left top near
		{1, 1, 0, 1},   // right top near
		{-1, -1, 1, 1}, // left bottom far
		{1, -1, 1, 1},  // right bottom far
		{-1, 1, 1, 1},  // left top far
		{1, 1, 1, 1},   // right top far
	}

	inverse := viewProjection.Inv()

	var corners [8]mgl32.Vec3
	for i, c := range ndc {
		v := inverse.Mul4x1(c)
		corners[i] = v.Vec3().Mul(1.0 / v.W())
	}
	return corners
}

// FrustumFromViewProjection builds a world-space frustum from a combined
// view-projection matrix by unprojecting the clip-space cube corners and
// fitting planes through them, normals facing inward.
//
// Parameters:
//   - viewProjection: the combined View * Projection matrix
//
// Returns:
//   - Frustum: the extracted frustum with inward-facing unit normals
func FrustumFromViewProjection(viewProjection mgl32.Mat4) Frustum {
	c := frustumCorners(viewProjection)

	leftBottomNear, rightBottomNear := c[0], c[1]
	leftTopNear, rightTopNear := c[2], c[3]
	leftBottomFar, rightBottomFar := c[4], c[5]
	leftTopFar := c[6]

	return Frustum{
		Planes: [6]Plane{
			FrustumLeft:   PlaneFromPoints(leftBottomNear, leftTopFar, leftBottomFar).Flip(),
			FrustumRight:  PlaneFromPoints(rightBottomNear, rightBottomFar, rightTopNear).Flip(),
			FrustumBottom: PlaneFromPoints(leftBottomNear, rightBottomNear, leftBottomFar),
			FrustumTop:    PlaneFromPoints(leftTopNear, rightTopNear, leftTopFar).Flip(),
			FrustumNear:   PlaneFromPoints(leftBottomNear, rightBottomNear, leftTopNear).Flip(),
			FrustumFar:    PlaneFromPoints(leftBottomFar, rightBottomFar, leftTopFar),
		},
	}
}

// IntersectsTransformedAABB tests a local-space bounding box transformed by a
// world matrix against the frustum. The test is conservative: the box is
// rejected only when all eight transformed corners fall outside the same
// plane. Boxes that straddle a plane corner-wise are accepted, so the result
// may over-include but never under-includes. Degenerate boxes are always
// accepted.
//
// Parameters:
//   - aabb: the bounding box in mesh local space
//   - world: the world transform applied to the box corners
//
// Returns:
//   - bool: true if the box may intersect the frustum
func (f Frustum) IntersectsTransformedAABB(aabb AABB, world mgl32.Mat4) bool {
	if aabb.Degenerate() {
		return true
	}

	var corners [8]mgl32.Vec3
	for i, c := range aabb.Corners() {
		corners[i] = world.Mul4x1(c.Vec4(1)).Vec3()
	}

	for _, plane := range f.Planes {
		outside := 0
		for _, corner := range corners {
			if plane.SignedDistance(corner) < 0 {
				outside++
			}
		}
		if outside == 8 {
			return false
		}
	}
	return true
}

// IntersectsAABB tests a world-space bounding box against the frustum using
// the same conservative corner test as IntersectsTransformedAABB.
//
// Parameters:
//   - aabb: the bounding box in world space
//
// Returns:
//   - bool: true if the box may intersect the frustum
func (f Frustum) IntersectsAABB(aabb AABB) bool {
	return f.IntersectsTransformedAABB(aabb, mgl32.Ident4())
}
