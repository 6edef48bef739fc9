// Package drawgen builds GPU draw commands from per-frame drawable records.
// Three compute passes run back to back on the frame's compute encoder:
// frustum culling, draw command generation, and instance gather. Visibility
// never crosses back to the CPU — the render pass consumes the generated
// command buffer via indirect draws.
package drawgen

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/paavohuhtala/demogine/common"
	"github.com/paavohuhtala/demogine/engine/drawable"
	"github.com/paavohuhtala/demogine/engine/model"
	"github.com/paavohuhtala/demogine/engine/renderer"
	"github.com/paavohuhtala/demogine/engine/renderer/bind_group_provider"
	"github.com/paavohuhtala/demogine/engine/renderer/pipeline"
	"github.com/paavohuhtala/demogine/engine/renderer/shader"
)

// Pipeline cache keys for the three compute stages.
const (
	PipelineFrustumCulling     = "frustum_culling"
	PipelineGenerateDraws      = "generate_draws"
	PipelineGatherInstanceData = "gather_instance_data"
)

// Culling pass bindings (group 0).
const (
	cullBindingFrustum       = 0
	cullBindingMeshInfos     = 1
	cullBindingDrawables     = 2
	cullBindingVisibility    = 3
	cullBindingVisibleCounts = 4
	cullBindingParams        = 5
)

// Generation pass bindings (group 0).
const (
	generateBindingMeshInfos     = 0
	generateBindingVisibleCounts = 1
	generateBindingBaseOffsets   = 2
	generateBindingDrawCommands  = 3
	generateBindingDrawCount     = 4
)

// Gather pass bindings (group 0).
const (
	gatherBindingDrawables        = 0
	gatherBindingVisibility       = 1
	gatherBindingBaseOffsets      = 2
	gatherBindingVisibleDrawables = 3
	gatherBindingLocalCursors     = 4
	gatherBindingParams           = 5
)

//go:embed assets/frustum_culling.wgsl
var frustumCullingSource string

//go:embed assets/generate_draws.wgsl
var generateDrawsSource string

//go:embed assets/gather_instance_data.wgsl
var gatherInstanceDataSource string

// generator is the implementation of the Generator interface.
type generator struct {
	cullShader     shader.Shader
	generateShader shader.Shader
	gatherShader   shader.Shader

	cullProvider     bind_group_provider.BindGroupProvider
	generateProvider bind_group_provider.BindGroupProvider
	gatherProvider   bind_group_provider.BindGroupProvider

	// Pre-allocated zero staging for the per-frame buffer resets.
	zeroCommands []byte
	zeroCounts   []byte
	zeroCount    []byte
}

// Generator owns the intermediate buffers of the draw command pipeline and
// orchestrates the three compute dispatches each frame.
type Generator interface {
	// Register creates the compute pipelines, allocates every intermediate
	// buffer, and builds the bind groups. Must be called once before the
	// first Dispatch.
	//
	// Parameters:
	//   - r: the renderer to create GPU resources on
	//
	// Returns:
	//   - error: an error if pipeline or bind group creation fails
	Register(r renderer.Renderer) error

	// UploadMeshInfos writes the baked mesh table into the mesh info
	// storage buffer. Called once after baking.
	//
	// Parameters:
	//   - r: the renderer whose queue performs the write
	//   - data: the packed GPUMeshInfo records
	UploadMeshInfos(r renderer.Renderer, data []byte)

	// UploadDrawables writes this frame's packed drawable records into the
	// drawable storage buffer, starting at slot 0.
	//
	// Parameters:
	//   - r: the renderer whose queue performs the write
	//   - data: the packed GPUDrawable records
	UploadDrawables(r renderer.Renderer, data []byte)

	// Dispatch stages the per-frame buffer resets, uploads the frustum and
	// drawable count, and encodes the three compute passes on the current
	// compute frame. Must be called between BeginComputeFrame and
	// EndComputeFrame. A drawableCount of zero still resets the command
	// buffers so the render pass sees only no-op commands.
	//
	// Parameters:
	//   - r: the renderer holding the current compute frame
	//   - frustum: the world-space culling frustum
	//   - drawableCount: the number of drawable records uploaded this frame
	Dispatch(r renderer.Renderer, frustum common.Frustum, drawableCount int)

	// DrawCommandBuffer returns the generated indirect command buffer
	// (model.MaxMeshes 20-byte slots, INDIRECT usage).
	DrawCommandBuffer() *wgpu.Buffer

	// DrawCountBuffer returns the 4-byte buffer holding the number of dense
	// commands the generation pass emitted (INDIRECT usage).
	DrawCountBuffer() *wgpu.Buffer

	// VisibleDrawableBuffer returns the compacted drawable buffer the
	// geometry pass indexes with first_instance + instance_index.
	VisibleDrawableBuffer() *wgpu.Buffer

	// Release frees all GPU resources owned by the generator.
	Release()
}

var _ Generator = &generator{}

// NewGenerator creates a draw command generator. GPU resources are not
// allocated until Register is called.
//
// Returns:
//   - Generator: the new generator
func NewGenerator() Generator {
	return &generator{
		cullShader:     shader.NewShader("Frustum Culling", shader.ShaderTypeCompute, frustumCullingSource),
		generateShader: shader.NewShader("Generate Draw Commands", shader.ShaderTypeCompute, generateDrawsSource),
		gatherShader:   shader.NewShader("Gather Instance Data", shader.ShaderTypeCompute, gatherInstanceDataSource),

		zeroCommands: make([]byte, model.MaxMeshes*GPUDrawCommandSize),
		zeroCounts:   make([]byte, model.MaxMeshes*4),
		zeroCount:    make([]byte, 4),
	}
}

func (g *generator) Register(r renderer.Renderer) error {
	if err := r.RegisterPipelines(
		pipeline.NewPipeline(PipelineFrustumCulling, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(g.cullShader)),
		pipeline.NewPipeline(PipelineGenerateDraws, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(g.generateShader)),
		pipeline.NewPipeline(PipelineGatherInstanceData, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(g.gatherShader)),
	); err != nil {
		return fmt.Errorf("drawgen: pipeline registration failed: %w", err)
	}

	// Culling group owns the frustum/params uniforms and all buffers keyed
	// by drawable slot; the mesh info buffer also lives here and is shared
	// with the generation group.
	g.cullProvider = bind_group_provider.NewBindGroupProvider("Frustum Culling")
	if err := r.InitBindGroup(g.cullProvider, g.cullShader.BindGroupLayoutDescriptor(0), nil, map[int]uint64{
		cullBindingMeshInfos:     uint64(model.MaxMeshes * model.GPUMeshInfoSize),
		cullBindingDrawables:     uint64(drawable.MaxDrawables * drawable.GPUDrawableSize),
		cullBindingVisibility:    uint64(drawable.MaxDrawables * 4),
		cullBindingVisibleCounts: uint64(model.MaxMeshes * 4),
	}); err != nil {
		return fmt.Errorf("drawgen: culling bind group: %w", err)
	}

	// Generation group shares mesh infos and visible counts, and owns the
	// base offsets and the two indirect-capable outputs.
	g.generateProvider = bind_group_provider.NewBindGroupProvider("Generate Draw Commands",
		bind_group_provider.WithBuffer(generateBindingMeshInfos, g.cullProvider.Buffer(cullBindingMeshInfos)),
		bind_group_provider.WithBuffer(generateBindingVisibleCounts, g.cullProvider.Buffer(cullBindingVisibleCounts)),
	)
	if err := r.InitBindGroup(g.generateProvider, g.generateShader.BindGroupLayoutDescriptor(0), map[int]wgpu.BufferUsage{
		generateBindingDrawCommands: wgpu.BufferUsageIndirect,
		generateBindingDrawCount:    wgpu.BufferUsageIndirect,
	}, map[int]uint64{
		generateBindingBaseOffsets:  uint64(model.MaxMeshes * 4),
		generateBindingDrawCommands: uint64(model.MaxMeshes * GPUDrawCommandSize),
		generateBindingDrawCount:    4,
	}); err != nil {
		return fmt.Errorf("drawgen: generation bind group: %w", err)
	}

	// Gather group shares the drawables, visibility, base offsets and
	// params, and owns the compacted output and the per-mesh cursors.
	g.gatherProvider = bind_group_provider.NewBindGroupProvider("Gather Instance Data",
		bind_group_provider.WithBuffer(gatherBindingDrawables, g.cullProvider.Buffer(cullBindingDrawables)),
		bind_group_provider.WithBuffer(gatherBindingVisibility, g.cullProvider.Buffer(cullBindingVisibility)),
		bind_group_provider.WithBuffer(gatherBindingBaseOffsets, g.generateProvider.Buffer(generateBindingBaseOffsets)),
		bind_group_provider.WithBuffer(gatherBindingParams, g.cullProvider.Buffer(cullBindingParams)),
	)
	if err := r.InitBindGroup(g.gatherProvider, g.gatherShader.BindGroupLayoutDescriptor(0), nil, map[int]uint64{
		gatherBindingVisibleDrawables: uint64(drawable.MaxDrawables * drawable.GPUDrawableSize),
		gatherBindingLocalCursors:     uint64(model.MaxMeshes * 4),
	}); err != nil {
		return fmt.Errorf("drawgen: gather bind group: %w", err)
	}

	return nil
}

func (g *generator) UploadMeshInfos(r renderer.Renderer, data []byte) {
	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: g.cullProvider, Binding: cullBindingMeshInfos, Data: data},
	})
}

func (g *generator) UploadDrawables(r renderer.Renderer, data []byte) {
	if len(data) == 0 {
		return
	}
	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: g.cullProvider, Binding: cullBindingDrawables, Data: data},
	})
}

func (g *generator) Dispatch(r renderer.Renderer, frustum common.Frustum, drawableCount int) {
	gpuFrustum := NewGPUFrustum(frustum)

	// Queued writes land before the compute command buffer submitted by
	// EndComputeFrame, so staging the resets here orders them ahead of the
	// passes. Visibility and base offsets need no reset: both are fully
	// rewritten for every slot the later passes read.
	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: g.generateProvider, Binding: generateBindingDrawCommands, Data: g.zeroCommands},
		{Provider: g.generateProvider, Binding: generateBindingDrawCount, Data: g.zeroCount},
		{Provider: g.cullProvider, Binding: cullBindingVisibleCounts, Data: g.zeroCounts},
		{Provider: g.gatherProvider, Binding: gatherBindingLocalCursors, Data: g.zeroCounts},
		{Provider: g.cullProvider, Binding: cullBindingFrustum, Data: gpuFrustum.Marshal()},
		{Provider: g.cullProvider, Binding: cullBindingParams, Data: marshalCullParams(uint32(drawableCount))},
	})

	workgroupSize := g.cullShader.WorkgroupSize()[0]
	drawableWorkgroups := (uint32(drawableCount) + workgroupSize - 1) / workgroupSize

	if drawableWorkgroups > 0 {
		r.DispatchCompute(PipelineFrustumCulling, g.cullProvider, [3]uint32{drawableWorkgroups, 1, 1})
	}
	r.DispatchCompute(PipelineGenerateDraws, g.generateProvider, [3]uint32{1, 1, 1})
	if drawableWorkgroups > 0 {
		r.DispatchCompute(PipelineGatherInstanceData, g.gatherProvider, [3]uint32{drawableWorkgroups, 1, 1})
	}
}

func (g *generator) DrawCommandBuffer() *wgpu.Buffer {
	return g.generateProvider.Buffer(generateBindingDrawCommands)
}

func (g *generator) DrawCountBuffer() *wgpu.Buffer {
	return g.generateProvider.Buffer(generateBindingDrawCount)
}

func (g *generator) VisibleDrawableBuffer() *wgpu.Buffer {
	return g.gatherProvider.Buffer(gatherBindingVisibleDrawables)
}

func (g *generator) Release() {
	// Shared buffers are owned by exactly one provider; nil them out on the
	// others so each is released once.
	if g.generateProvider != nil {
		g.generateProvider.SetBuffer(generateBindingMeshInfos, nil)
		g.generateProvider.SetBuffer(generateBindingVisibleCounts, nil)
	}
	if g.gatherProvider != nil {
		g.gatherProvider.SetBuffer(gatherBindingDrawables, nil)
		g.gatherProvider.SetBuffer(gatherBindingVisibility, nil)
		g.gatherProvider.SetBuffer(gatherBindingBaseOffsets, nil)
		g.gatherProvider.SetBuffer(gatherBindingParams, nil)
	}

	for _, p := range []bind_group_provider.BindGroupProvider{g.gatherProvider, g.generateProvider, g.cullProvider} {
		if p != nil {
			p.Release()
		}
	}
}
