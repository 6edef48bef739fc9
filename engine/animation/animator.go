// Package animation plays imported keyframe clips against scene objects.
// Channels resolve their targets by object name and write local transforms
// through the scene, so animated motion flows into the same extract and
// upload path as scripted motion.
package animation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/paavohuhtala/demogine/engine/model"
	"github.com/paavohuhtala/demogine/engine/scene"
)

// ErrUnknownClip is returned when playing a clip name that was never added.
var ErrUnknownClip = errors.New("animation: unknown clip")

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	clips   map[string]*model.AnimationClip
	current *model.AnimationClip
	time    float32
	speed   float32
	loop    bool

	// targets caches name lookups per clip playback; cleared on Play so a
	// respawned scene rebinds.
	targets map[string]scene.ObjectID
}

// Animator plays one animation clip at a time, sampling its channels each
// frame and applying the results to scene objects matched by name.
type Animator interface {
	// AddClip registers a clip under its name, replacing any previous clip
	// with the same name.
	//
	// Parameters:
	//   - clip: the clip to register
	AddClip(clip *model.AnimationClip)

	// AddClips registers every clip of the slice.
	//
	// Parameters:
	//   - clips: the clips to register
	AddClips(clips []*model.AnimationClip)

	// Play starts the named clip from time zero.
	//
	// Parameters:
	//   - name: the clip name
	//   - loop: whether playback wraps at the clip's duration
	//
	// Returns:
	//   - error: ErrUnknownClip when no clip with that name was added
	Play(name string, loop bool) error

	// Stop halts playback. Transforms keep their last sampled values.
	Stop()

	// Playing returns the active clip name, or false when stopped.
	//
	// Returns:
	//   - string: the active clip name
	//   - bool: true while a clip is playing
	Playing() (string, bool)

	// SetSpeed updates the playback rate multiplier. Negative values play
	// in reverse.
	//
	// Parameters:
	//   - speed: the rate multiplier
	SetSpeed(speed float32)

	// SetTime seeks playback to the given time in seconds, clamped to the
	// active clip's duration.
	//
	// Parameters:
	//   - t: the playback time in seconds
	SetTime(t float32)

	// Time returns the current playback time in seconds.
	Time() float32

	// Advance moves playback forward by deltaTime and applies every channel
	// of the active clip to the scene. Channels whose target name resolves
	// to no object are skipped. A non-looping clip stops once its duration
	// is reached, leaving the final keyframe applied.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	//   - s: the scene to apply sampled transforms to
	Advance(deltaTime float32, s scene.Scene)
}

var _ Animator = &animator{}

// NewAnimator creates an Animator with the specified options.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the configured animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:      &sync.Mutex{},
		clips:   make(map[string]*model.AnimationClip),
		speed:   1,
		targets: make(map[string]scene.ObjectID),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) AddClip(clip *model.AnimationClip) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clips[clip.Name] = clip
}

func (a *animator) AddClips(clips []*model.AnimationClip) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, clip := range clips {
		a.clips[clip.Name] = clip
	}
}

func (a *animator) Play(name string, loop bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	clip, ok := a.clips[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}
	a.current = clip
	a.time = 0
	a.loop = loop
	a.targets = make(map[string]scene.ObjectID)
	return nil
}

func (a *animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = nil
}

func (a *animator) Playing() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return "", false
	}
	return a.current.Name, true
}

func (a *animator) SetSpeed(speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speed = speed
}

func (a *animator) SetTime(t float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return
	}
	a.time = clamp(t, 0, a.current.Duration)
}

func (a *animator) Time() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.time
}

func (a *animator) Advance(deltaTime float32, s scene.Scene) {
	a.mu.Lock()
	defer a.mu.Unlock()

	clip := a.current
	if clip == nil {
		return
	}

	a.time += deltaTime * a.speed
	if clip.Duration > 0 {
		if a.loop {
			a.time = wrap(a.time, clip.Duration)
		} else if a.time >= clip.Duration {
			a.time = clip.Duration
			a.current = nil
		} else if a.time < 0 {
			a.time = 0
			a.current = nil
		}
	}

	for i := range clip.Channels {
		a.applyChannel(&clip.Channels[i], a.time, s)
	}
}

func (a *animator) applyChannel(ch *model.AnimationChannel, t float32, s scene.Scene) {
	id, ok := a.targets[ch.Target]
	if !ok {
		id, ok = s.ObjectByName(ch.Target)
		if !ok {
			return
		}
		a.targets[ch.Target] = id
	}

	prev, next, blend := segment(ch.Times, t)
	if ch.Interpolation == model.AnimationInterpolationStep {
		blend = 0
	}

	switch ch.Path {
	case model.AnimationPathTranslation:
		if len(ch.Vec3Values) == len(ch.Times) {
			from, to := ch.Vec3Values[prev], ch.Vec3Values[next]
			s.SetTranslation(id, from.Add(to.Sub(from).Mul(blend)))
		}
	case model.AnimationPathRotation:
		if len(ch.QuatValues) == len(ch.Times) {
			s.SetRotation(id, mgl32.QuatSlerp(ch.QuatValues[prev], ch.QuatValues[next], blend))
		}
	case model.AnimationPathScale:
		if len(ch.ScalarValues) == len(ch.Times) {
			from, to := ch.ScalarValues[prev], ch.ScalarValues[next]
			s.SetScale(id, from+(to-from)*blend)
		}
	}
}

// segment finds the keyframe pair bracketing t and the blend factor between
// them. Times before the first keyframe clamp to it, times after the last
// clamp to the last.
func segment(times []float32, t float32) (int, int, float32) {
	if len(times) == 0 {
		return 0, 0, 0
	}
	if t <= times[0] {
		return 0, 0, 0
	}
	last := len(times) - 1
	if t >= times[last] {
		return last, last, 0
	}

	lo, hi := 0, last
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if times[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}

	span := times[hi] - times[lo]
	if span <= 0 {
		return lo, hi, 0
	}
	return lo, hi, (t - times[lo]) / span
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrap maps t into [0, duration), handling negative times from reverse
// playback.
func wrap(t, duration float32) float32 {
	for t >= duration {
		t -= duration
	}
	for t < 0 {
		t += duration
	}
	return t
}
