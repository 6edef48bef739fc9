package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paavohuhtala/demogine/engine/model"
)

func assertMat4Equal(t *testing.T, expected, actual mgl32.Mat4) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, expected[i], actual[i], 1e-5, "element %d", i)
	}
}

// singleWorker keeps propagation deterministic for tests exercising flags.
func newTestScene() Scene {
	return NewScene("test", WithWorkers(1))
}

func TestRootWorldEqualsLocal(t *testing.T) {
	s := newTestScene()
	root := s.AddObject("root")
	s.SetTranslation(root, mgl32.Vec3{1, 2, 3})

	s.LateUpdate()

	world := s.Object(root).Transform().World()
	assertMat4Equal(t, mgl32.Translate3D(1, 2, 3), world)
}

func TestPropagationMultipliesParentWorld(t *testing.T) {
	s := newTestScene()
	root := s.AddObject("root")
	child := s.AddObject("child", WithParent(root))
	grandchild := s.AddObject("grandchild", WithParent(child))

	s.SetTranslation(root, mgl32.Vec3{10, 0, 0})
	s.SetTranslation(child, mgl32.Vec3{0, 5, 0})
	s.SetTranslation(grandchild, mgl32.Vec3{0, 0, 2})

	s.LateUpdate()

	assertMat4Equal(t, mgl32.Translate3D(10, 5, 0), s.Object(child).Transform().World())
	assertMat4Equal(t, mgl32.Translate3D(10, 5, 2), s.Object(grandchild).Transform().World())

	// Every object's world equals its parent's world times its local.
	s.ForEach(func(id ObjectID, obj *Object) {
		if obj.Parent() == NilObject {
			assertMat4Equal(t, obj.Transform().LocalMatrix(), obj.Transform().World())
			return
		}
		parentWorld := s.Object(obj.Parent()).Transform().World()
		assertMat4Equal(t, parentWorld.Mul4(obj.Transform().LocalMatrix()), obj.Transform().World())
	})
}

func TestInvalidationIsTransitive(t *testing.T) {
	s := newTestScene()
	root := s.AddObject("root")
	child := s.AddObject("child", WithParent(root))
	grandchild := s.AddObject("grandchild", WithParent(child))
	unrelated := s.AddObject("unrelated")

	s.LateUpdate()
	require.False(t, s.Object(grandchild).Transform().WorldDirty())
	require.False(t, s.Object(unrelated).Transform().WorldDirty())

	s.SetTranslation(root, mgl32.Vec3{1, 0, 0})

	assert.True(t, s.Object(root).Transform().WorldDirty())
	assert.True(t, s.Object(child).Transform().WorldDirty())
	assert.True(t, s.Object(grandchild).Transform().WorldDirty())
	// No over-invalidation: an object not reachable from the mutated one stays clean.
	assert.False(t, s.Object(unrelated).Transform().WorldDirty())
}

func TestMutatingChildLeavesParentClean(t *testing.T) {
	s := newTestScene()
	root := s.AddObject("root")
	child := s.AddObject("child", WithParent(root))

	s.SetTranslation(root, mgl32.Vec3{3, 0, 0})
	s.LateUpdate()

	s.SetTranslation(child, mgl32.Vec3{0, 4, 0})
	assert.False(t, s.Object(root).Transform().WorldDirty())
	assert.True(t, s.Object(child).Transform().WorldDirty())

	// A dirty descendant under a clean ancestor still propagates.
	s.LateUpdate()
	assertMat4Equal(t, mgl32.Translate3D(3, 4, 0), s.Object(child).Transform().World())
}

func TestSetParentMovesAndInvalidates(t *testing.T) {
	s := newTestScene()
	a := s.AddObject("a")
	b := s.AddObject("b")
	child := s.AddObject("child", WithParent(a))

	s.SetTranslation(a, mgl32.Vec3{1, 0, 0})
	s.SetTranslation(b, mgl32.Vec3{0, 1, 0})
	s.SetTranslation(child, mgl32.Vec3{0, 0, 1})
	s.LateUpdate()

	assertMat4Equal(t, mgl32.Translate3D(1, 0, 1), s.Object(child).Transform().World())

	s.SetParent(child, b)

	assert.Empty(t, s.Object(a).Children())
	assert.Equal(t, []ObjectID{child}, s.Object(b).Children())
	assert.True(t, s.Object(child).Transform().WorldDirty())

	s.LateUpdate()
	assertMat4Equal(t, mgl32.Translate3D(0, 1, 1), s.Object(child).Transform().World())
}

func TestEarlyUpdateResetsChangedFlags(t *testing.T) {
	s := newTestScene()
	root := s.AddObject("root")

	s.LateUpdate()
	require.True(t, s.Object(root).Transform().Changed())

	s.EarlyUpdate()
	assert.False(t, s.Object(root).Transform().Changed())

	// A clean frame does not rewrite the world matrix.
	s.LateUpdate()
	assert.False(t, s.Object(root).Transform().Changed())
}

func TestSpawnModelBuildsHierarchy(t *testing.T) {
	mesh := &model.Mesh{Name: "cube", Primitives: []*model.Primitive{{}}}
	m := &model.Model{
		Name: "test-model",
		Roots: []*model.Node{
			{
				Name:        "armature",
				Rotation:    mgl32.QuatIdent(),
				Scale:       1,
				Translation: mgl32.Vec3{2, 0, 0},
				Children: []*model.Node{
					{
						Name:        "body",
						Rotation:    mgl32.QuatIdent(),
						Scale:       1,
						Translation: mgl32.Vec3{0, 3, 0},
						Mesh:        mesh,
					},
				},
			},
		},
		Meshes: []*model.Mesh{mesh},
	}

	s := newTestScene()
	root := s.SpawnModel(m)
	require.NotEqual(t, NilObject, root)
	assert.Equal(t, 2, s.ObjectCount())

	bodyID, ok := s.ObjectByName("body")
	require.True(t, ok)
	body := s.Object(bodyID)
	assert.Same(t, mesh, body.Mesh())
	assert.Equal(t, root, body.Parent())

	s.LateUpdate()
	assertMat4Equal(t, mgl32.Translate3D(2, 3, 0), body.Transform().World())
}

func TestSetEnabled(t *testing.T) {
	s := newTestScene()
	id := s.AddObject("obj", WithEnabled(false))
	assert.False(t, s.Object(id).Enabled())
	s.SetEnabled(id, true)
	assert.True(t, s.Object(id).Enabled())
}
