package loader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/paavohuhtala/demogine/engine/model"
)

// convertAnimations translates the document's animations into engine clips.
// Channels target nodes by name; channels whose node is unnamed or absent
// are dropped since the scene graph cannot resolve them.
func convertAnimations(doc *gltf.Document) ([]*model.AnimationClip, error) {
	if len(doc.Animations) == 0 {
		return nil, nil
	}

	clips := make([]*model.AnimationClip, 0, len(doc.Animations))
	for i, anim := range doc.Animations {
		clip, err := convertAnimation(doc, i, anim)
		if err != nil {
			return nil, fmt.Errorf("loader: animation %d: %w", i, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func convertAnimation(doc *gltf.Document, index int, anim *gltf.Animation) (*model.AnimationClip, error) {
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", index)
	}

	clip := &model.AnimationClip{Name: name}
	for i, ch := range anim.Channels {
		if ch.Target.Node == nil || int(*ch.Target.Node) >= len(doc.Nodes) {
			continue
		}
		target := doc.Nodes[*ch.Target.Node].Name
		if target == "" {
			continue
		}
		if int(ch.Sampler) >= len(anim.Samplers) {
			return nil, fmt.Errorf("channel %d: sampler index %d out of range", i, ch.Sampler)
		}
		sampler := anim.Samplers[ch.Sampler]

		times, err := readFloatAttribute(doc, int(sampler.Input), 1)
		if err != nil {
			return nil, fmt.Errorf("channel %d: timestamps: %w", i, err)
		}
		if len(times) == 0 {
			continue
		}

		out := model.AnimationChannel{
			Target:        target,
			Interpolation: convertInterpolation(sampler.Interpolation),
			Times:         times,
		}
		// Cubic spline outputs carry in-tangent, value, out-tangent per
		// keyframe; only the value element is kept and the channel degrades
		// to linear interpolation.
		cubic := sampler.Interpolation == gltf.InterpolationCubicSpline

		switch ch.Target.Path {
		case gltf.TRSTranslation:
			out.Path = model.AnimationPathTranslation
			out.Vec3Values, err = readVec3Keyframes(doc, int(sampler.Output), len(times), cubic)
		case gltf.TRSRotation:
			out.Path = model.AnimationPathRotation
			out.QuatValues, err = readQuatKeyframes(doc, int(sampler.Output), len(times), cubic)
		case gltf.TRSScale:
			out.Path = model.AnimationPathScale
			out.ScalarValues, err = readScaleKeyframes(doc, int(sampler.Output), len(times), cubic)
		default:
			// Morph target weights are not supported.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("channel %d: values: %w", i, err)
		}

		if t := times[len(times)-1]; t > clip.Duration {
			clip.Duration = t
		}
		clip.Channels = append(clip.Channels, out)
	}
	return clip, nil
}

// convertInterpolation maps the sampler mode onto the two modes the player
// implements. Cubic spline degrades to linear.
func convertInterpolation(in gltf.Interpolation) model.AnimationInterpolation {
	if in == gltf.InterpolationStep {
		return model.AnimationInterpolationStep
	}
	return model.AnimationInterpolationLinear
}

func readVec3Keyframes(doc *gltf.Document, accessorIndex, count int, cubic bool) ([]mgl32.Vec3, error) {
	raw, err := readFloatAttribute(doc, accessorIndex, 3)
	if err != nil {
		return nil, err
	}
	values := make([]mgl32.Vec3, 0, count)
	for i := 0; i < count; i++ {
		base := keyframeBase(i, 3, cubic)
		if base+3 > len(raw) {
			return nil, fmt.Errorf("accessor %d: %d keyframes expected, data holds %d values", accessorIndex, count, len(raw)/3)
		}
		values = append(values, mgl32.Vec3{raw[base], raw[base+1], raw[base+2]})
	}
	return values, nil
}

func readQuatKeyframes(doc *gltf.Document, accessorIndex, count int, cubic bool) ([]mgl32.Quat, error) {
	raw, err := readFloatAttribute(doc, accessorIndex, 4)
	if err != nil {
		return nil, err
	}
	values := make([]mgl32.Quat, 0, count)
	for i := 0; i < count; i++ {
		base := keyframeBase(i, 4, cubic)
		if base+4 > len(raw) {
			return nil, fmt.Errorf("accessor %d: %d keyframes expected, data holds %d values", accessorIndex, count, len(raw)/4)
		}
		q := mgl32.Quat{
			W: raw[base+3],
			V: mgl32.Vec3{raw[base], raw[base+1], raw[base+2]},
		}
		if q.W == 0 && q.V.Len() == 0 {
			q = mgl32.QuatIdent()
		}
		values = append(values, q.Normalize())
	}
	return values, nil
}

// readScaleKeyframes collapses the vec3 scale track to its X axis factor,
// matching the uniform scale the scene graph carries.
func readScaleKeyframes(doc *gltf.Document, accessorIndex, count int, cubic bool) ([]float32, error) {
	vecs, err := readVec3Keyframes(doc, accessorIndex, count, cubic)
	if err != nil {
		return nil, err
	}
	values := make([]float32, len(vecs))
	for i, v := range vecs {
		values[i] = v.X()
	}
	return values, nil
}

// keyframeBase returns the float offset of keyframe i's value element.
// Cubic spline accessors store three elements per keyframe; the value sits
// in the middle.
func keyframeBase(i, components int, cubic bool) int {
	if cubic {
		return (i*3 + 1) * components
	}
	return i * components
}
