package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cullSource = `
struct Plane {
    normal: vec3<f32>,
    distance: f32,
}

struct Frustum {
    planes: array<Plane, 6>,
}

struct MeshInfo {
    index_count: u32,
    first_index: u32,
    vertex_offset: u32,
    _pad: u32,
    aabb_min: vec4<f32>,
    aabb_max: vec4<f32>,
}

@group(0) @binding(0) var<uniform> frustum: Frustum;
@group(0) @binding(1) var<storage, read> mesh_infos: array<MeshInfo>;
@group(0) @binding(2) var<storage, read_write> visibility: array<u32>;

@compute @workgroup_size(64)
fn cull_drawables(@builtin(global_invocation_id) id: vec3<u32>) {
    // body elided
}
`

const renderSource = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) tex_coord: vec2<f32>,
    @location(3) tangent: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world_normal: vec3<f32>,
}

struct Camera {
    view_projection: mat4x4<f32>,
    position: vec3<f32>,
    _pad: f32,
}

@group(0) @binding(0) var<uniform> camera: Camera;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    return out;
}
`

func TestComputeShaderReflection(t *testing.T) {
	s := NewShader("cull", ShaderTypeCompute, cullSource)

	assert.Equal(t, "cull", s.Key())
	assert.Equal(t, "cull_drawables", s.EntryPoint())
	assert.Equal(t, [3]uint32{64, 1, 1}, s.WorkgroupSize())

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 3)

	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	// Frustum: 6 planes of 16 bytes each.
	assert.Equal(t, uint64(96), desc.Entries[0].Buffer.MinBindingSize)

	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, desc.Entries[1].Buffer.Type)
	// Runtime-sized array reports one element stride (48-byte MeshInfo).
	assert.Equal(t, uint64(48), desc.Entries[1].Buffer.MinBindingSize)

	assert.Equal(t, wgpu.BufferBindingTypeStorage, desc.Entries[2].Buffer.Type)
	assert.Equal(t, uint64(4), desc.Entries[2].Buffer.MinBindingSize)

	for _, e := range desc.Entries {
		assert.Equal(t, wgpu.ShaderStageCompute, e.Visibility)
	}
}

func TestVertexShaderReflection(t *testing.T) {
	s := NewShader("vs", ShaderTypeVertex, renderSource)

	assert.Equal(t, "vs_main", s.EntryPoint())

	layouts := s.VertexLayout(0)
	require.Len(t, layouts, 1)
	layout := layouts[0]

	// 3+3+2+4 floats = 48-byte stride.
	assert.Equal(t, uint64(48), layout.ArrayStride)
	require.Len(t, layout.Attributes, 4)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[0].Format)
	assert.Equal(t, uint64(0), layout.Attributes[0].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layout.Attributes[2].Format)
	assert.Equal(t, uint64(24), layout.Attributes[2].Offset)
	assert.Equal(t, uint64(32), layout.Attributes[3].Offset)

	// VertexOutput mixes @builtin and @location: not a vertex input.
	assert.Nil(t, s.VertexLayout(1))

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), desc.Entries[0].Buffer.MinBindingSize)
}

func TestWorkgroupSizeDefaults(t *testing.T) {
	source := `
@group(0) @binding(0) var<storage, read_write> counts: array<atomic<u32>>;

@compute @workgroup_size(8, 4)
fn pass_a() {}
`
	s := NewShader("ws", ShaderTypeCompute, source)
	assert.Equal(t, [3]uint32{8, 4, 1}, s.WorkgroupSize())
	assert.Equal(t, "pass_a", s.EntryPoint())
}

func TestCommentsDoNotConfuseReflection(t *testing.T) {
	source := `
// @group(9) @binding(9) var<uniform> ghost: u32;
/* struct Ghost { a: f32, } */
@group(1) @binding(0) var<storage, read> data: array<u32>;

@compute @workgroup_size(64)
fn main_cs() {}
`
	s := NewShader("comments", ShaderTypeCompute, source)

	assert.Empty(t, s.BindGroupLayoutDescriptor(9).Entries)
	require.Len(t, s.BindGroupLayoutDescriptor(1).Entries, 1)
}
