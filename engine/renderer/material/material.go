// Package material holds the indexed material table the geometry pass reads.
// Drawables carry a material index; the table is uploaded once as a storage
// buffer and the fragment stage looks surface parameters up by that index.
package material

import (
	"fmt"
	"sync"
)

// material is the implementation of the Material interface.
type material struct {
	name      string
	baseColor [4]float32
	metallic  float32
	roughness float32
}

// Material describes one entry of the material table: the surface parameters
// the geometry pass shades with. Entries are immutable after registration.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// Metallic retrieves the metallic factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 a fully metallic one.
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 a fully rough one.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32
}

var _ Material = &material{}

// NewMaterial creates a Material with the specified options. Defaults to a
// white dielectric with full roughness.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		name:      "default",
		baseColor: [4]float32{1, 1, 1, 1},
		roughness: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

// Registry assigns table indices to materials. Slot 0 always holds the
// default material so unassigned drawable indices shade sensibly.
type Registry struct {
	mu        *sync.Mutex
	materials []Material
}

// NewRegistry creates a material registry pre-seeded with the default
// material at index 0.
//
// Returns:
//   - *Registry: the new registry
func NewRegistry() *Registry {
	return &Registry{
		mu:        &sync.Mutex{},
		materials: []Material{NewMaterial()},
	}
}

// Register adds a material to the table and returns its index.
//
// Parameters:
//   - m: the material to add
//
// Returns:
//   - uint32: the assigned table index
//   - error: ErrTooManyMaterials when the table is full
func (r *Registry) Register(m Material) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.materials) >= MaxMaterials {
		return 0, fmt.Errorf("%w: max %d", ErrTooManyMaterials, MaxMaterials)
	}
	index := uint32(len(r.materials))
	r.materials = append(r.materials, m)
	return index, nil
}

// Count returns the number of registered materials, including the default.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.materials)
}

// Material returns the material at the given index, or the default material
// for out-of-range indices.
func (r *Registry) Material(index uint32) Material {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(index) >= len(r.materials) {
		return r.materials[0]
	}
	return r.materials[index]
}

// Data packs the full fixed-capacity table into the GPUMaterial layout for
// upload. Unregistered slots hold the default material.
//
// Returns:
//   - []byte: MaxMaterials*GPUMaterialSize bytes, ready for GPU upload
func (r *Registry) Data() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]byte, 0, MaxMaterials*GPUMaterialSize)
	for i := 0; i < MaxMaterials; i++ {
		m := r.materials[0]
		if i < len(r.materials) {
			m = r.materials[i]
		}
		g := newGPUMaterial(m)
		buf = append(buf, g.Marshal()...)
	}
	return buf
}
