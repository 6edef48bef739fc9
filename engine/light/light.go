// Package light holds the directional light the geometry pass shades with.
// The light is uploaded as a small uniform buffer alongside the material
// table; there is no light culling or shadow pass.
package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// directionalLight is the implementation of the DirectionalLight interface.
type directionalLight struct {
	mu *sync.RWMutex

	direction mgl32.Vec3
	color     mgl32.Vec3
	intensity float32
	ambient   mgl32.Vec3
}

// DirectionalLight is a light with no position, only direction, affecting
// all fragments uniformly. Direction and color are mutable at runtime; the
// engine re-uploads the uniform every frame.
type DirectionalLight interface {
	// Direction returns the normalized world-space light direction
	// (pointing from the light toward the scene).
	//
	// Returns:
	//   - mgl32.Vec3: the light direction
	Direction() mgl32.Vec3

	// SetDirection updates the light direction. The vector is normalized;
	// a zero vector is ignored.
	//
	// Parameters:
	//   - direction: the new direction
	SetDirection(direction mgl32.Vec3)

	// Color returns the light's RGB color.
	Color() mgl32.Vec3

	// SetColor updates the light's RGB color.
	SetColor(color mgl32.Vec3)

	// Intensity returns the light's scalar intensity multiplier.
	Intensity() float32

	// SetIntensity updates the intensity multiplier.
	SetIntensity(intensity float32)

	// Ambient returns the constant ambient term added to every fragment.
	Ambient() mgl32.Vec3

	// SetAmbient updates the ambient term.
	SetAmbient(ambient mgl32.Vec3)

	// Uniform packs the current state into the GPU lighting layout.
	//
	// Returns:
	//   - GPULighting: the packed uniform
	Uniform() GPULighting
}

var _ DirectionalLight = &directionalLight{}

// NewDirectionalLight creates a directional light with the specified
// options. Defaults to white light from above at full intensity with a dim
// ambient term.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - DirectionalLight: the configured light
func NewDirectionalLight(options ...LightBuilderOption) DirectionalLight {
	l := &directionalLight{
		mu:        &sync.RWMutex{},
		direction: mgl32.Vec3{0.5, -1, 0.25}.Normalize(),
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1,
		ambient:   mgl32.Vec3{0.15, 0.15, 0.15},
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *directionalLight) Direction() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.direction
}

func (l *directionalLight) SetDirection(direction mgl32.Vec3) {
	if direction.Len() == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = direction.Normalize()
}

func (l *directionalLight) Color() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color
}

func (l *directionalLight) SetColor(color mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = color
}

func (l *directionalLight) Intensity() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.intensity
}

func (l *directionalLight) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *directionalLight) Ambient() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ambient
}

func (l *directionalLight) SetAmbient(ambient mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient = ambient
}

func (l *directionalLight) Uniform() GPULighting {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return GPULighting{
		Direction: l.direction,
		Color:     l.color,
		Intensity: l.intensity,
		Ambient:   l.ambient,
	}
}
