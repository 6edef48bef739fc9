// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in mesh local space.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB builds an AABB from two arbitrary corner points, ordering the
// components so that Min <= Max on every axis.
//
// Parameters:
//   - p1: first corner point
//   - p2: second corner point
//
// Returns:
//   - AABB: the ordered bounding box
func NewAABB(p1, p2 mgl32.Vec3) AABB {
	var min, max mgl32.Vec3
	for i := 0; i < 3; i++ {
		if p1[i] < p2[i] {
			min[i], max[i] = p1[i], p2[i]
		} else {
			min[i], max[i] = p2[i], p1[i]
		}
	}
	return AABB{Min: min, Max: max}
}

// Union returns the smallest AABB containing both boxes.
//
// Parameters:
//   - other: the box to merge with
//
// Returns:
//   - AABB: the merged bounding box
func (a AABB) Union(other AABB) AABB {
	var min, max mgl32.Vec3
	for i := 0; i < 3; i++ {
		min[i] = min32(a.Min[i], other.Min[i])
		max[i] = max32(a.Max[i], other.Max[i])
	}
	return AABB{Min: min, Max: max}
}

// Degenerate reports whether the box has no usable extent: inverted on any
// axis, or collapsed to a single point. Degenerate boxes are treated as
// always visible by the culling stage.
//
// Returns:
//   - bool: true if the box is degenerate
func (a AABB) Degenerate() bool {
	zero := true
	for i := 0; i < 3; i++ {
		ext := a.Max[i] - a.Min[i]
		if ext < 0 {
			return true
		}
		if ext != 0 {
			zero = false
		}
	}
	return zero
}

// Corners returns the eight corner points of the box.
//
// Returns:
//   - [8]mgl32.Vec3: the corners, min-to-max order per axis
func (a AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
