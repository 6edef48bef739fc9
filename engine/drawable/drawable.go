// Package drawable implements the per-frame extraction of flat draw records
// from the scene graph. Drawables have no identity across frames: the array
// is rebuilt from scratch every frame and index i in frame N has no
// relationship to index i in frame N+1.
package drawable

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/paavohuhtala/demogine/engine/scene"
)

// MaxDrawables is the hard upper bound on drawable records per frame.
// Sizing of the GPU drawable, visibility and compacted output buffers
// derives from it.
const MaxDrawables = 32000

// ErrTooManyDrawables is returned when a frame emits more drawable records
// than MaxDrawables. This is a scene construction logic error and fails
// loudly; silent truncation would render incorrectly with no diagnostic.
var ErrTooManyDrawables = errors.New("drawable: drawable capacity exceeded")

// Drawable is one frame's instantiation of a mesh primitive at a world
// transform.
type Drawable struct {
	World         mgl32.Mat4
	MeshIndex     uint32
	MaterialIndex uint32
}

// manager is the unexported implementation of Manager.
type manager struct {
	mu *sync.Mutex

	drawables []Drawable
	// staging is the packed GPU upload buffer, reused across frames.
	staging []byte
}

// Manager extracts drawable records from a scene each frame and packs them
// for GPU upload.
type Manager interface {
	// Gather rebuilds the drawable array from the scene's enabled objects:
	// one record per {object, mesh primitive} pair, carrying the object's
	// current world matrix. Iteration order is arena order; the culling
	// stage treats the index purely as a linear array position.
	//
	// Parameters:
	//   - s: the scene to extract from (after LateUpdate)
	//
	// Returns:
	//   - error: ErrTooManyDrawables when the emitted count exceeds MaxDrawables
	Gather(s scene.Scene) error

	// Count returns the number of drawables gathered this frame.
	Count() int

	// Drawables returns the gathered records. Valid until the next Gather.
	Drawables() []Drawable

	// Data packs the gathered records into the GPUDrawable layout for
	// verbatim upload to the drawable storage buffer. The returned slice is
	// reused across frames.
	//
	// Returns:
	//   - []byte: the packed records, Count()*GPUDrawableSize bytes
	Data() []byte
}

var _ Manager = &manager{}

// NewManager creates a new drawable Manager.
//
// Returns:
//   - Manager: the new manager
func NewManager() Manager {
	return &manager{
		mu:        &sync.Mutex{},
		drawables: make([]Drawable, 0, 1024),
	}
}

func (m *manager) Gather(s scene.Scene) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drawables = m.drawables[:0]

	var overflow error
	s.ForEach(func(_ scene.ObjectID, obj *scene.Object) {
		if overflow != nil || !obj.Enabled() || obj.Mesh() == nil {
			return
		}

		world := obj.Transform().World()
		for _, p := range obj.Mesh().Primitives {
			if len(m.drawables) >= MaxDrawables {
				overflow = fmt.Errorf("%w: max %d", ErrTooManyDrawables, MaxDrawables)
				return
			}
			m.drawables = append(m.drawables, Drawable{
				World:         world,
				MeshIndex:     p.GlobalIndex,
				MaterialIndex: p.MaterialIndex,
			})
		}
	})

	if overflow != nil {
		m.drawables = m.drawables[:0]
		return overflow
	}
	return nil
}

func (m *manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drawables)
}

func (m *manager) Drawables() []Drawable {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drawables
}

func (m *manager) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := len(m.drawables) * GPUDrawableSize
	if cap(m.staging) < size {
		m.staging = make([]byte, size)
	}
	m.staging = m.staging[:size]

	for i := range m.drawables {
		d := &m.drawables[i]
		gpu := GPUDrawable{
			World:         d.World,
			MeshIndex:     d.MeshIndex,
			MaterialIndex: d.MaterialIndex,
		}
		gpu.MarshalInto(m.staging[i*GPUDrawableSize:])
	}
	return m.staging
}
