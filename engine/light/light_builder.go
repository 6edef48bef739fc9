package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a functional option for configuring a directional
// light. Use the With* functions to create options.
type LightBuilderOption func(*directionalLight)

// WithDirection sets the light direction (light toward scene). The vector is
// normalized; a zero vector keeps the default.
//
// Parameters:
//   - direction: the light direction
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithDirection(direction mgl32.Vec3) LightBuilderOption {
	return func(l *directionalLight) {
		if direction.Len() > 0 {
			l.direction = direction.Normalize()
		}
	}
}

// WithColor sets the light's RGB color.
//
// Parameters:
//   - color: the light color
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithColor(color mgl32.Vec3) LightBuilderOption {
	return func(l *directionalLight) {
		l.color = color
	}
}

// WithIntensity sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity multiplier
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *directionalLight) {
		l.intensity = intensity
	}
}

// WithAmbient sets the constant ambient term.
//
// Parameters:
//   - ambient: the ambient RGB term
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithAmbient(ambient mgl32.Vec3) LightBuilderOption {
	return func(l *directionalLight) {
		l.ambient = ambient
	}
}
