package scene

import (
	"github.com/paavohuhtala/demogine/engine/model"
	"github.com/paavohuhtala/demogine/engine/transform"
)

// ObjectID is a stable handle into the scene's object arena. Objects are
// destroyed only with the whole scene, so a plain index stays valid for the
// scene's lifetime.
type ObjectID int

// NilObject is the absent-object sentinel, used for root objects' parent.
const NilObject ObjectID = -1

// Object is one node of the scene graph. The scene arena exclusively owns
// all objects and their transforms; parent/child links are ID
// back-references, never ownership. Mutation goes through the Scene's
// setters so dirty-flag invalidation always recurses into descendants.
type Object struct {
	name      string
	transform *transform.Transform
	mesh      *model.Mesh
	parent    ObjectID
	children  []ObjectID
	enabled   bool
}

// Name returns the object's name.
func (o *Object) Name() string {
	return o.name
}

// Transform returns the object's transform for reading. Writes must go
// through the scene's setters, which invalidate the subtree.
//
// Returns:
//   - *transform.Transform: the owned transform
func (o *Object) Transform() *transform.Transform {
	return o.transform
}

// Mesh returns the mesh referenced by this object, or nil for transform-only
// grouping objects.
func (o *Object) Mesh() *model.Mesh {
	return o.mesh
}

// Parent returns the parent's ID, or NilObject for roots.
func (o *Object) Parent() ObjectID {
	return o.parent
}

// Children returns the IDs of this object's direct children.
func (o *Object) Children() []ObjectID {
	return o.children
}

// Enabled reports whether the object participates in drawable extraction.
func (o *Object) Enabled() bool {
	return o.enabled
}
