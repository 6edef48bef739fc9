// Package model holds the CPU-side mesh table: imported meshes, their
// primitives, and the baked megabuffers the renderer uploads once at load
// time. Mesh table entries are immutable after baking.
package model

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/paavohuhtala/demogine/common"
)

// MaxMeshes is the hard upper bound on mesh table entries (one per
// mesh-primitive). Sizing of every per-mesh GPU buffer derives from it.
const MaxMeshes = 128

// ErrTooManyMeshes is returned when registering a mesh would push the mesh
// table past MaxMeshes. Capacity violations fail loudly; nothing truncates.
var ErrTooManyMeshes = errors.New("model: mesh table capacity exceeded")

// Vertex is a single mesh vertex before GPU packing.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	// Tangent xyz plus handedness in w.
	Tangent mgl32.Vec4
}

// Primitive is one indexed triangle list belonging to a mesh. After
// registration its GlobalIndex identifies its mesh table slot; after baking
// its vertex/index data lives in the shared megabuffers.
type Primitive struct {
	// GlobalIndex is the slot in the global mesh table, assigned by the
	// registry. Drawables reference primitives by this index.
	GlobalIndex uint32

	Vertices []Vertex
	Indices  []uint32

	// Bounds is the local-space bounding box, taken from the source
	// accessor bounds at import.
	Bounds common.AABB

	// MaterialIndex is an opaque handle into the material collaborator's
	// table; this core never interprets it.
	MaterialIndex uint32
}

// Mesh is a named group of primitives sharing a node attachment.
type Mesh struct {
	ID         uuid.UUID
	Name       string
	Primitives []*Primitive
}

// Node is one element of an imported model's object hierarchy, carrying the
// local TRS the scene graph spawns objects from.
type Node struct {
	Name        string
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       float32
	// Mesh is nil for pure grouping nodes.
	Mesh     *Mesh
	Children []*Node
}

// Model is the result of importing one asset file: its node hierarchy, the
// meshes the nodes reference, and any animation clips the file carries.
type Model struct {
	ID         uuid.UUID
	Name       string
	Roots      []*Node
	Meshes     []*Mesh
	Animations []*AnimationClip
}
