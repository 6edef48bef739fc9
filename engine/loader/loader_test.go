package loader

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paavohuhtala/demogine/engine/model"
)

// quadGLTF builds a minimal glTF document: a unit quad with normals and UVs
// under a translated root node, with the geometry embedded as a data URI.
func quadGLTF(t *testing.T) string {
	t.Helper()

	putVec3 := func(buf []byte, offset int, x, y, z float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(x))
		binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(y))
		binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(z))
	}

	// Layout: positions [0,48), normals [48,96), uvs [96,128), indices [128,140).
	buf := make([]byte, 140)
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	uvs := [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i := range 4 {
		putVec3(buf, i*12, positions[i][0], positions[i][1], positions[i][2])
		putVec3(buf, 48+i*12, 0, 0, 1)
		binary.LittleEndian.PutUint32(buf[96+i*8:], math.Float32bits(uvs[i][0]))
		binary.LittleEndian.PutUint32(buf[96+i*8+4:], math.Float32bits(uvs[i][1]))
	}
	for i, index := range []uint16{0, 1, 2, 0, 2, 3} {
		binary.LittleEndian.PutUint16(buf[128+i*2:], index)
	}

	return fmt.Sprintf(`{
	  "asset": {"version": "2.0"},
	  "scene": 0,
	  "scenes": [{"nodes": [0]}],
	  "nodes": [
	    {"name": "root", "translation": [1, 2, 3], "children": [1]},
	    {"name": "quad", "mesh": 0, "scale": [2, 2, 2]}
	  ],
	  "meshes": [{"name": "quad", "primitives": [
	    {"attributes": {"POSITION": 0, "NORMAL": 1, "TEXCOORD_0": 2}, "indices": 3}
	  ]}],
	  "accessors": [
	    {"bufferView": 0, "componentType": 5126, "count": 4, "type": "VEC3"},
	    {"bufferView": 1, "componentType": 5126, "count": 4, "type": "VEC3"},
	    {"bufferView": 2, "componentType": 5126, "count": 4, "type": "VEC2"},
	    {"bufferView": 3, "componentType": 5123, "count": 6, "type": "SCALAR"}
	  ],
	  "bufferViews": [
	    {"buffer": 0, "byteOffset": 0, "byteLength": 48},
	    {"buffer": 0, "byteOffset": 48, "byteLength": 48},
	    {"buffer": 0, "byteOffset": 96, "byteLength": 32},
	    {"buffer": 0, "byteOffset": 128, "byteLength": 12}
	  ],
	  "buffers": [{"byteLength": 140, "uri": "data:application/octet-stream;base64,%s"}]
	}`, base64.StdEncoding.EncodeToString(buf))
}

func TestLoadReaderBuildsModel(t *testing.T) {
	l := NewLoader()

	m, err := l.LoadReader("quad", strings.NewReader(quadGLTF(t)))
	require.NoError(t, err)
	require.NotNil(t, m)

	require.Len(t, m.Meshes, 1)
	require.Len(t, m.Roots, 1)

	root := m.Roots[0]
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, root.Translation)
	assert.InDelta(t, 1.0, float64(root.Scale), 1e-6)
	assert.Nil(t, root.Mesh)

	require.Len(t, root.Children, 1)
	child := root.Children[0]
	assert.Equal(t, "quad", child.Name)
	assert.InDelta(t, 2.0, float64(child.Scale), 1e-6)
	require.NotNil(t, child.Mesh)
	assert.Same(t, m.Meshes[0], child.Mesh)
}

func TestLoadReaderPrimitiveGeometry(t *testing.T) {
	l := NewLoader()

	m, err := l.LoadReader("quad", strings.NewReader(quadGLTF(t)))
	require.NoError(t, err)

	require.Len(t, m.Meshes[0].Primitives, 1)
	p := m.Meshes[0].Primitives[0]

	require.Len(t, p.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, p.Indices)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, p.Bounds.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, p.Bounds.Max)

	for i, v := range p.Vertices {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, v.Normal, "vertex %d normal", i)
	}
	assert.Equal(t, mgl32.Vec2{1, 1}, p.Vertices[2].TexCoord)
}

func TestLoadReaderGeneratesTangents(t *testing.T) {
	l := NewLoader()

	m, err := l.LoadReader("quad", strings.NewReader(quadGLTF(t)))
	require.NoError(t, err)

	// No TANGENT accessor in the file, UVs map U to world X, so the
	// generated tangent points along +X for every vertex.
	for i, v := range m.Meshes[0].Primitives[0].Vertices {
		assert.InDelta(t, 1.0, float64(v.Tangent.X()), 1e-5, "vertex %d", i)
		assert.InDelta(t, 0.0, float64(v.Tangent.Y()), 1e-5, "vertex %d", i)
		assert.InDelta(t, 0.0, float64(v.Tangent.Z()), 1e-5, "vertex %d", i)
		assert.InDelta(t, 1.0, math.Abs(float64(v.Tangent.W())), 1e-5, "vertex %d", i)
	}
}

func TestLoadReaderCachesByName(t *testing.T) {
	l := NewLoader()

	first, err := l.LoadReader("quad", strings.NewReader(quadGLTF(t)))
	require.NoError(t, err)

	// Second load with the same name must hit the cache, not the reader.
	second, err := l.LoadReader("quad", strings.NewReader("not gltf"))
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Same(t, first, l.Get("quad"))
	assert.Nil(t, l.Get("missing"))
	assert.Len(t, l.Models(), 1)
}

// animatedGLTF builds a minimal glTF document with no geometry: one named
// node driven by a two-keyframe translation track and a stepped rotation
// track sharing the same timestamps.
func animatedGLTF(t *testing.T) string {
	t.Helper()

	putF32 := func(buf []byte, offset int, values ...float32) {
		for i, v := range values {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}

	// Layout: times [0,8), translations [8,32), rotations [32,64).
	buf := make([]byte, 64)
	putF32(buf, 0, 0, 1)
	putF32(buf, 8, 0, 0, 0, 4, 0, 0)
	putF32(buf, 32, 0, 0, 0, 1, 0, 0.7071068, 0, 0.7071068)

	return fmt.Sprintf(`{
	  "asset": {"version": "2.0"},
	  "nodes": [{"name": "spinner"}],
	  "animations": [{
	    "name": "wobble",
	    "channels": [
	      {"sampler": 0, "target": {"node": 0, "path": "translation"}},
	      {"sampler": 1, "target": {"node": 0, "path": "rotation"}}
	    ],
	    "samplers": [
	      {"input": 0, "output": 1, "interpolation": "LINEAR"},
	      {"input": 0, "output": 2, "interpolation": "STEP"}
	    ]
	  }],
	  "accessors": [
	    {"bufferView": 0, "componentType": 5126, "count": 2, "type": "SCALAR"},
	    {"bufferView": 1, "componentType": 5126, "count": 2, "type": "VEC3"},
	    {"bufferView": 2, "componentType": 5126, "count": 2, "type": "VEC4"}
	  ],
	  "bufferViews": [
	    {"buffer": 0, "byteOffset": 0, "byteLength": 8},
	    {"buffer": 0, "byteOffset": 8, "byteLength": 24},
	    {"buffer": 0, "byteOffset": 32, "byteLength": 32}
	  ],
	  "buffers": [{"byteLength": 64, "uri": "data:application/octet-stream;base64,%s"}]
	}`, base64.StdEncoding.EncodeToString(buf))
}

func TestLoadReaderImportsAnimations(t *testing.T) {
	l := NewLoader()

	m, err := l.LoadReader("animated", strings.NewReader(animatedGLTF(t)))
	require.NoError(t, err)
	require.Len(t, m.Animations, 1)

	clip := m.Animations[0]
	assert.Equal(t, "wobble", clip.Name)
	assert.InDelta(t, 1.0, float64(clip.Duration), 1e-6)
	require.Len(t, clip.Channels, 2)

	translation := clip.Channels[0]
	assert.Equal(t, "spinner", translation.Target)
	assert.Equal(t, model.AnimationPathTranslation, translation.Path)
	assert.Equal(t, model.AnimationInterpolationLinear, translation.Interpolation)
	assert.Equal(t, []float32{0, 1}, translation.Times)
	require.Len(t, translation.Vec3Values, 2)
	assert.Equal(t, mgl32.Vec3{4, 0, 0}, translation.Vec3Values[1])

	rotation := clip.Channels[1]
	assert.Equal(t, model.AnimationPathRotation, rotation.Path)
	assert.Equal(t, model.AnimationInterpolationStep, rotation.Interpolation)
	require.Len(t, rotation.QuatValues, 2)
	assert.InDelta(t, 0.7071068, float64(rotation.QuatValues[1].W), 1e-5)
	assert.InDelta(t, 0.7071068, float64(rotation.QuatValues[1].V.Y()), 1e-5)
}

func TestLoadReaderSkipsUnnamedAnimationTargets(t *testing.T) {
	l := NewLoader()

	doc := strings.Replace(animatedGLTF(t), `"name": "spinner"`, `"name": ""`, 1)
	m, err := l.LoadReader("unnamed", strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, m.Animations, 1)
	assert.Empty(t, m.Animations[0].Channels)
}

func TestDecomposeTRS(t *testing.T) {
	rotation := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	m := mgl32.Translate3D(4, 5, 6).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(3, 3, 3))

	translation, rot, scale := decomposeTRS(m)

	assert.InDelta(t, 4.0, float64(translation.X()), 1e-5)
	assert.InDelta(t, 5.0, float64(translation.Y()), 1e-5)
	assert.InDelta(t, 6.0, float64(translation.Z()), 1e-5)
	assert.InDelta(t, 3.0, float64(scale), 1e-5)

	// Recomposed rotation must map +X to -Z like the original.
	mapped := rot.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0.0, float64(mapped.X()), 1e-5)
	assert.InDelta(t, -1.0, float64(mapped.Z()), 1e-5)
}
