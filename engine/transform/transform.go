// Package transform implements the per-object local/world matrix cache with
// dirty-flag invalidation. Transforms are exclusively owned and mutated by
// the scene graph; they carry no locking of their own.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/paavohuhtala/demogine/common"
)

// Transform holds a translation, quaternion rotation and uniform scale plus
// cached local and world matrices.
//
// Two dirty flags track staleness: localDirty means the TRS fields changed
// and the local matrix must be recomposed; worldDirty means an ancestor (or
// this object) changed and the world matrix must be recomposed from the
// parent. The world matrix is only readable while worldDirty is false, which
// the scene graph guarantees by running propagation before any consumer
// reads it in a frame.
type Transform struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       float32

	localMatrix  mgl32.Mat4
	worldMatrix  mgl32.Mat4
	normalMatrix mgl32.Mat4

	localDirty bool
	worldDirty bool
	changed    bool
}

// New returns an identity transform. Both matrices start dirty so the first
// propagation pass computes them.
//
// Returns:
//   - *Transform: the new transform
func New() *Transform {
	return &Transform{
		rotation:     mgl32.QuatIdent(),
		scale:        1,
		localMatrix:  mgl32.Ident4(),
		worldMatrix:  mgl32.Ident4(),
		normalMatrix: mgl32.Ident4(),
		localDirty:   true,
		worldDirty:   true,
	}
}

// SetLocal replaces translation, rotation and scale in one call and marks
// both matrices dirty.
//
// Parameters:
//   - translation: local translation
//   - rotation: local orientation
//   - scale: uniform local scale
func (t *Transform) SetLocal(translation mgl32.Vec3, rotation mgl32.Quat, scale float32) {
	t.translation = translation
	t.rotation = rotation
	t.scale = scale
	t.localDirty = true
	t.worldDirty = true
}

// SetTranslation updates the local translation and marks both matrices dirty.
func (t *Transform) SetTranslation(translation mgl32.Vec3) {
	t.translation = translation
	t.localDirty = true
	t.worldDirty = true
}

// SetRotation updates the local orientation and marks both matrices dirty.
func (t *Transform) SetRotation(rotation mgl32.Quat) {
	t.rotation = rotation
	t.localDirty = true
	t.worldDirty = true
}

// SetScale updates the uniform local scale and marks both matrices dirty.
func (t *Transform) SetScale(scale float32) {
	t.scale = scale
	t.localDirty = true
	t.worldDirty = true
}

// Translation returns the local translation.
func (t *Transform) Translation() mgl32.Vec3 {
	return t.translation
}

// Rotation returns the local orientation.
func (t *Transform) Rotation() mgl32.Quat {
	return t.rotation
}

// Scale returns the uniform local scale.
func (t *Transform) Scale() float32 {
	return t.scale
}

// LocalMatrix returns the local TRS matrix, recomposing it first when the
// TRS fields changed since the last read. A recompose always invalidates the
// world matrix.
//
// Returns:
//   - mgl32.Mat4: the local matrix
func (t *Transform) LocalMatrix() mgl32.Mat4 {
	if t.localDirty {
		t.localMatrix = common.ComposeTRS(t.translation, t.rotation, t.scale)
		t.localDirty = false
		t.worldDirty = true
	}
	return t.localMatrix
}

// SetWorld stores the propagated world matrix, caches its inverse-transpose
// for normal transformation, clears the world dirty flag and records that
// the matrix changed this frame. Only the scene graph's propagation pass
// calls this.
//
// Parameters:
//   - world: the propagated world matrix
func (t *Transform) SetWorld(world mgl32.Mat4) {
	t.worldMatrix = world
	t.normalMatrix = common.NormalMatrix(world)
	t.worldDirty = false
	t.changed = true
}

// World returns the cached world matrix. Valid only after propagation; the
// scene graph enforces the ordering.
//
// Returns:
//   - mgl32.Mat4: the world matrix
func (t *Transform) World() mgl32.Mat4 {
	return t.worldMatrix
}

// NormalMatrix returns the cached inverse-transpose of the world matrix.
//
// Returns:
//   - mgl32.Mat4: the normal matrix
func (t *Transform) NormalMatrix() mgl32.Mat4 {
	return t.normalMatrix
}

// WorldDirty reports whether the world matrix is stale.
func (t *Transform) WorldDirty() bool {
	return t.worldDirty
}

// MarkWorldDirty flags the world matrix as stale. The scene graph uses this
// to invalidate descendants when an ancestor changes.
func (t *Transform) MarkWorldDirty() {
	t.worldDirty = true
}

// Changed reports whether the world matrix was rewritten since the last
// ResetChanged, letting consumers diff between frames.
func (t *Transform) Changed() bool {
	return t.changed
}

// ResetChanged clears the per-frame changed flag. The scene graph calls this
// in its early phase.
func (t *Transform) ResetChanged() {
	t.changed = false
}
