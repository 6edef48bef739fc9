// Package scene implements the hierarchical object arena and its per-frame
// transform propagation protocol: early phase clears change flags,
// application code mutates local transforms (eagerly invalidating whole
// subtrees), late phase recomposes world matrices top-down from the roots.
package scene

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/paavohuhtala/demogine/engine/model"
	"github.com/paavohuhtala/demogine/engine/transform"
	"github.com/paavohuhtala/demogine/logger"
)

// scene is the unexported implementation of Scene.
type scene struct {
	mu *sync.RWMutex

	name    string
	objects []*Object

	// propagationPool manages a bounded set of reusable goroutines for the
	// late-phase propagation pass. Each root subtree is an independent task
	// since the forest partitions the arena. Workers persist across frames.
	propagationPool worker.DynamicWorkerPool
	workers         int
}

// Scene is the single-writer API over the object arena. Transform mutation
// is exposed only through the setters here so that invalidation recurses
// into descendants immediately; world matrices are readable only after
// LateUpdate has run in the current frame, and propagation is not separately
// invokable mid-frame.
type Scene interface {
	// Name returns the scene's name.
	Name() string

	// AddObject allocates a new object in the arena and returns its stable ID.
	//
	// Parameters:
	//   - name: the object's name
	//   - options: functional options configuring mesh, transform, parent, enabled state
	//
	// Returns:
	//   - ObjectID: the new object's handle
	AddObject(name string, options ...ObjectOption) ObjectID

	// Object returns the object for the given ID, or nil if out of range.
	Object(id ObjectID) *Object

	// ObjectByName returns the first object with the given name.
	//
	// Returns:
	//   - ObjectID: the handle, or NilObject when absent
	//   - bool: whether a match was found
	ObjectByName(name string) (ObjectID, bool)

	// ObjectCount returns the number of objects in the arena.
	ObjectCount() int

	// SetParent reparents child under parent (NilObject detaches to root).
	// The child is removed from its old parent's child list, appended to the
	// new parent's, and the moved subtree is invalidated.
	SetParent(child, parent ObjectID)

	// SetTransform replaces the object's local TRS and invalidates the
	// object and every transitive descendant.
	SetTransform(id ObjectID, translation mgl32.Vec3, rotation mgl32.Quat, scale float32)

	// SetTranslation updates the local translation and invalidates the subtree.
	SetTranslation(id ObjectID, translation mgl32.Vec3)

	// SetRotation updates the local rotation and invalidates the subtree.
	SetRotation(id ObjectID, rotation mgl32.Quat)

	// SetScale updates the uniform local scale and invalidates the subtree.
	SetScale(id ObjectID, scale float32)

	// SetEnabled toggles the object's participation in drawable extraction.
	SetEnabled(id ObjectID, enabled bool)

	// SpawnModel instantiates an imported model's node hierarchy as scene
	// objects, one object per node, mesh references on the nodes that carry
	// one.
	//
	// Parameters:
	//   - m: the imported model
	//
	// Returns:
	//   - ObjectID: the last spawned root, or NilObject for an empty model
	SpawnModel(m *model.Model) ObjectID

	// EarlyUpdate clears the per-frame changed flags on all transforms.
	// Runs at the top of the frame, before application mutation.
	EarlyUpdate()

	// LateUpdate propagates world matrices top-down from the roots,
	// recomposing only where the world matrix is dirty. After it returns
	// every enabled object's world matrix is valid for the frame.
	LateUpdate()

	// ForEach visits every object in arena order.
	ForEach(fn func(id ObjectID, obj *Object))
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene.
//
// Parameters:
//   - name: the scene's name
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:      &sync.RWMutex{},
		name:    name,
		workers: defaultWorkers(),
	}

	for _, option := range options {
		option(s)
	}

	// Initialized after options so WithWorkers can override the default.
	// Queue size of 256 accommodates typical root counts with headroom.
	s.propagationPool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) AddObject(name string, options ...ObjectOption) ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addObject(name, options...)
}

func (s *scene) addObject(name string, options ...ObjectOption) ObjectID {
	obj := &Object{
		name:      name,
		transform: transform.New(),
		parent:    NilObject,
		enabled:   true,
	}

	var pendingParent = NilObject
	cfg := &objectConfig{obj: obj, parent: &pendingParent}
	for _, option := range options {
		option(cfg)
	}

	id := ObjectID(len(s.objects))
	s.objects = append(s.objects, obj)

	if pendingParent != NilObject {
		s.setParent(id, pendingParent)
	}
	return id
}

func (s *scene) Object(id ObjectID) *Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.object(id)
}

func (s *scene) object(id ObjectID) *Object {
	if id < 0 || int(id) >= len(s.objects) {
		return nil
	}
	return s.objects[id]
}

func (s *scene) ObjectByName(name string) (ObjectID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, obj := range s.objects {
		if obj.name == name {
			return ObjectID(i), true
		}
	}
	return NilObject, false
}

func (s *scene) ObjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) SetParent(child, parent ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setParent(child, parent)
}

func (s *scene) setParent(child, parent ObjectID) {
	c := s.object(child)
	if c == nil {
		return
	}

	if old := s.object(c.parent); old != nil {
		for i, id := range old.children {
			if id == child {
				old.children = append(old.children[:i], old.children[i+1:]...)
				break
			}
		}
	}

	c.parent = NilObject
	if p := s.object(parent); p != nil {
		c.parent = parent
		p.children = append(p.children, child)
	}

	// The moved subtree's world matrices are relative to a new ancestor chain.
	s.invalidateHierarchy(child)
}

func (s *scene) SetTransform(id ObjectID, translation mgl32.Vec3, rotation mgl32.Quat, scale float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj := s.object(id); obj != nil {
		obj.transform.SetLocal(translation, rotation, scale)
		s.invalidateHierarchy(id)
	}
}

func (s *scene) SetTranslation(id ObjectID, translation mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj := s.object(id); obj != nil {
		obj.transform.SetTranslation(translation)
		s.invalidateHierarchy(id)
	}
}

func (s *scene) SetRotation(id ObjectID, rotation mgl32.Quat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj := s.object(id); obj != nil {
		obj.transform.SetRotation(rotation)
		s.invalidateHierarchy(id)
	}
}

func (s *scene) SetScale(id ObjectID, scale float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj := s.object(id); obj != nil {
		obj.transform.SetScale(scale)
		s.invalidateHierarchy(id)
	}
}

func (s *scene) SetEnabled(id ObjectID, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj := s.object(id); obj != nil {
		obj.enabled = enabled
	}
}

// invalidateHierarchy eagerly marks the object and every transitive
// descendant world-dirty. Invalidation cannot be lazy: multiple descendants
// may be queried independently before the next propagation pass.
func (s *scene) invalidateHierarchy(id ObjectID) {
	obj := s.object(id)
	if obj == nil {
		return
	}
	obj.transform.MarkWorldDirty()
	for _, child := range obj.children {
		s.invalidateHierarchy(child)
	}
}

func (s *scene) SpawnModel(m *model.Model) ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := NilObject
	for _, root := range m.Roots {
		last = s.spawnNode(root, NilObject)
	}

	logger.Debug("spawned model",
		zap.String("model", m.Name),
		zap.String("id", m.ID.String()),
		zap.Int("objects", len(s.objects)),
	)
	return last
}

func (s *scene) spawnNode(node *model.Node, parent ObjectID) ObjectID {
	id := s.addObject(node.Name, WithMesh(node.Mesh))
	s.objects[id].transform.SetLocal(node.Translation, node.Rotation, node.Scale)
	if parent != NilObject {
		s.setParent(id, parent)
	}
	for _, child := range node.Children {
		s.spawnNode(child, id)
	}
	return id
}

func (s *scene) EarlyUpdate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range s.objects {
		obj.transform.ResetChanged()
	}
}

func (s *scene) LateUpdate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Root subtrees are disjoint, so they propagate in parallel without
	// locking: each task writes only its own subtree's transforms. A
	// WaitGroup provides the per-frame barrier since pool.Wait() blocks
	// until workers idle-exit, which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	taskID := 0
	for i, obj := range s.objects {
		if obj.parent != NilObject {
			continue
		}
		wg.Add(1)
		rootID := ObjectID(i)
		id := taskID
		taskID++
		s.propagationPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				s.propagate(rootID, mgl32.Ident4())
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// propagate recomposes world = parentWorld * local top-down. Clean objects
// keep their cached world matrix; recursion still descends because a
// descendant may be dirty while its ancestors are clean.
func (s *scene) propagate(id ObjectID, parentWorld mgl32.Mat4) {
	obj := s.objects[id]

	if obj.transform.WorldDirty() {
		world := parentWorld.Mul4(obj.transform.LocalMatrix())
		obj.transform.SetWorld(world)
	}

	world := obj.transform.World()
	for _, child := range obj.children {
		s.propagate(child, world)
	}
}

func (s *scene) ForEach(fn func(id ObjectID, obj *Object)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, obj := range s.objects {
		fn(ObjectID(i), obj)
	}
}
