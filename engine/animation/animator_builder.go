package animation

import "github.com/paavohuhtala/demogine/engine/model"

// AnimatorBuilderOption is a functional option for configuring an Animator.
// Use the With* functions to create options.
type AnimatorBuilderOption func(*animator)

// WithClips registers the given clips at construction time.
//
// Parameters:
//   - clips: the clips to register
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithClips(clips ...*model.AnimationClip) AnimatorBuilderOption {
	return func(a *animator) {
		for _, clip := range clips {
			a.clips[clip.Name] = clip
		}
	}
}

// WithSpeed sets the playback rate multiplier. Negative values play in
// reverse.
//
// Parameters:
//   - speed: the rate multiplier
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithSpeed(speed float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.speed = speed
	}
}
