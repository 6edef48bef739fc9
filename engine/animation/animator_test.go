package animation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paavohuhtala/demogine/engine/model"
	"github.com/paavohuhtala/demogine/engine/scene"
)

func slideClip() *model.AnimationClip {
	return &model.AnimationClip{
		Name:     "slide",
		Duration: 2,
		Channels: []model.AnimationChannel{
			{
				Target:     "mover",
				Path:       model.AnimationPathTranslation,
				Times:      []float32{0, 2},
				Vec3Values: []mgl32.Vec3{{0, 0, 0}, {10, 0, 0}},
			},
		},
	}
}

func TestPlayUnknownClip(t *testing.T) {
	a := NewAnimator()
	err := a.Play("missing", false)
	require.ErrorIs(t, err, ErrUnknownClip)
}

func TestAdvanceInterpolatesTranslation(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("mover")

	a := NewAnimator(WithClips(slideClip()))
	require.NoError(t, a.Play("slide", false))

	a.Advance(0.5, s)
	translation := s.Object(id).Transform().Translation()
	assert.InDelta(t, 2.5, translation.X(), 1e-5)
	assert.InDelta(t, 0.5, a.Time(), 1e-6)
}

func TestAdvanceClampsAndStopsWhenNotLooping(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("mover")

	a := NewAnimator(WithClips(slideClip()))
	require.NoError(t, a.Play("slide", false))

	a.Advance(5, s)
	translation := s.Object(id).Transform().Translation()
	assert.InDelta(t, 10, translation.X(), 1e-5)

	_, playing := a.Playing()
	assert.False(t, playing)
}

func TestAdvanceWrapsWhenLooping(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("mover")

	a := NewAnimator(WithClips(slideClip()))
	require.NoError(t, a.Play("slide", true))

	a.Advance(2.5, s)
	translation := s.Object(id).Transform().Translation()
	assert.InDelta(t, 2.5, translation.X(), 1e-5)

	name, playing := a.Playing()
	assert.True(t, playing)
	assert.Equal(t, "slide", name)
}

func TestStepInterpolationHoldsKeyframe(t *testing.T) {
	clip := slideClip()
	clip.Channels[0].Interpolation = model.AnimationInterpolationStep

	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("mover")

	a := NewAnimator(WithClips(clip))
	require.NoError(t, a.Play("slide", false))

	a.Advance(1.5, s)
	translation := s.Object(id).Transform().Translation()
	assert.InDelta(t, 0, translation.X(), 1e-5)
}

func TestRotationChannelSlerps(t *testing.T) {
	// A 120 degree keyframe keeps the endpoints well inside the same
	// hemisphere; a 180 degree one sits at the antipode where the slerp
	// sign flip makes the halfway orientation ambiguous.
	full := mgl32.QuatRotate(mgl32.DegToRad(120), mgl32.Vec3{0, 1, 0})
	clip := &model.AnimationClip{
		Name:     "spin",
		Duration: 1,
		Channels: []model.AnimationChannel{
			{
				Target:     "spinner",
				Path:       model.AnimationPathRotation,
				Times:      []float32{0, 1},
				QuatValues: []mgl32.Quat{mgl32.QuatIdent(), full},
			},
		},
	}

	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("spinner")

	a := NewAnimator(WithClips(clip))
	require.NoError(t, a.Play("spin", false))
	a.Advance(0.5, s)

	// Compare rotated vectors rather than raw components so the assertion
	// holds for either quaternion sign of the same orientation.
	want := mgl32.QuatRotate(mgl32.DegToRad(60), mgl32.Vec3{0, 1, 0}).Rotate(mgl32.Vec3{1, 0, 0})
	got := s.Object(id).Transform().Rotation().Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, want.X(), got.X(), 1e-4)
	assert.InDelta(t, want.Y(), got.Y(), 1e-4)
	assert.InDelta(t, want.Z(), got.Z(), 1e-4)
}

func TestScaleChannel(t *testing.T) {
	clip := &model.AnimationClip{
		Name:     "grow",
		Duration: 1,
		Channels: []model.AnimationChannel{
			{
				Target:       "grower",
				Path:         model.AnimationPathScale,
				Times:        []float32{0, 1},
				ScalarValues: []float32{1, 3},
			},
		},
	}

	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("grower")

	a := NewAnimator(WithClips(clip))
	require.NoError(t, a.Play("grow", false))
	a.Advance(0.5, s)

	assert.InDelta(t, 2, s.Object(id).Transform().Scale(), 1e-5)
}

func TestAdvanceSkipsUnresolvedTargets(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))

	a := NewAnimator(WithClips(slideClip()))
	require.NoError(t, a.Play("slide", true))

	// The scene holds no object named "mover"; advancing must not panic.
	a.Advance(0.5, s)
	assert.InDelta(t, 0.5, a.Time(), 1e-6)
}

func TestSetTimeSeeksWithinClip(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("mover")

	a := NewAnimator(WithClips(slideClip()))
	require.NoError(t, a.Play("slide", true))

	a.SetTime(10)
	assert.InDelta(t, 2, a.Time(), 1e-6)

	a.SetTime(1)
	a.Advance(0, s)
	translation := s.Object(id).Transform().Translation()
	assert.InDelta(t, 5, translation.X(), 1e-5)
}

func TestReversePlayback(t *testing.T) {
	s := scene.NewScene("test", scene.WithWorkers(1))
	id := s.AddObject("mover")

	a := NewAnimator(WithClips(slideClip()), WithSpeed(-1))
	require.NoError(t, a.Play("slide", true))

	a.SetTime(1.5)
	a.Advance(0.5, s)
	translation := s.Object(id).Transform().Translation()
	assert.InDelta(t, 5, translation.X(), 1e-5)
}
