package scene

import (
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/paavohuhtala/demogine/engine/model"
)

// SceneBuilderOption configures a Scene during construction.
type SceneBuilderOption func(*scene)

// WithWorkers overrides the propagation worker count. Values below 1 are
// clamped to 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - SceneBuilderOption: the option function
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

func defaultWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// objectConfig carries the state ObjectOptions act on during AddObject.
type objectConfig struct {
	obj    *Object
	parent *ObjectID
}

// ObjectOption configures a new object during AddObject.
type ObjectOption func(*objectConfig)

// WithMesh attaches a mesh reference to the object, making it participate in
// drawable extraction.
//
// Parameters:
//   - m: the mesh (nil leaves the object as a grouping node)
//
// Returns:
//   - ObjectOption: the option function
func WithMesh(m *model.Mesh) ObjectOption {
	return func(c *objectConfig) {
		c.obj.mesh = m
	}
}

// WithTransform sets the object's initial local TRS.
//
// Parameters:
//   - translation: local translation
//   - rotation: local orientation
//   - scale: uniform local scale
//
// Returns:
//   - ObjectOption: the option function
func WithTransform(translation mgl32.Vec3, rotation mgl32.Quat, scale float32) ObjectOption {
	return func(c *objectConfig) {
		c.obj.transform.SetLocal(translation, rotation, scale)
	}
}

// WithParent parents the new object under an existing one.
//
// Parameters:
//   - parent: the parent's ID
//
// Returns:
//   - ObjectOption: the option function
func WithParent(parent ObjectID) ObjectOption {
	return func(c *objectConfig) {
		*c.parent = parent
	}
}

// WithEnabled sets the object's initial enabled state (default true).
//
// Parameters:
//   - enabled: whether the object starts enabled
//
// Returns:
//   - ObjectOption: the option function
func WithEnabled(enabled bool) ObjectOption {
	return func(c *objectConfig) {
		c.obj.enabled = enabled
	}
}
