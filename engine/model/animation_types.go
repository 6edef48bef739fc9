package model

import "github.com/go-gl/mathgl/mgl32"

// AnimationPath identifies which transform component an animation channel
// drives.
type AnimationPath int

const (
	// AnimationPathTranslation drives the local translation.
	AnimationPathTranslation AnimationPath = iota
	// AnimationPathRotation drives the local rotation.
	AnimationPathRotation
	// AnimationPathScale drives the uniform local scale.
	AnimationPathScale
)

// AnimationInterpolation selects how a channel blends between keyframes.
type AnimationInterpolation int

const (
	// AnimationInterpolationLinear blends linearly between keyframes;
	// rotations blend with spherical linear interpolation along the
	// shortest arc, so adjacent keyframes a half turn apart have an
	// ambiguous midpoint.
	AnimationInterpolationLinear AnimationInterpolation = iota
	// AnimationInterpolationStep holds each keyframe value until the next
	// keyframe time is reached.
	AnimationInterpolationStep
)

// AnimationChannel is one sampled track of an animation clip, targeting a
// named node's transform component. Keyframe times are in seconds, strictly
// increasing, and parallel to the value slice matching the channel's path:
// Vec3Values for translation, QuatValues for rotation, ScalarValues for
// scale.
type AnimationChannel struct {
	Target        string
	Path          AnimationPath
	Interpolation AnimationInterpolation

	Times        []float32
	Vec3Values   []mgl32.Vec3
	QuatValues   []mgl32.Quat
	ScalarValues []float32
}

// AnimationClip is a named set of channels imported alongside a model.
// Duration is the largest keyframe time across all channels.
type AnimationClip struct {
	Name     string
	Duration float32
	Channels []AnimationChannel
}
