// Package engine owns the frame loop: scene update and transform
// propagation, drawable extraction, GPU upload, the three-stage draw
// command compute pipeline, and the indirect geometry pass consuming its
// output.
package engine

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/paavohuhtala/demogine/common"
	"github.com/paavohuhtala/demogine/config"
	"github.com/paavohuhtala/demogine/engine/animation"
	"github.com/paavohuhtala/demogine/engine/camera"
	"github.com/paavohuhtala/demogine/engine/drawable"
	"github.com/paavohuhtala/demogine/engine/light"
	"github.com/paavohuhtala/demogine/engine/model"
	"github.com/paavohuhtala/demogine/engine/profiler"
	"github.com/paavohuhtala/demogine/engine/renderer"
	"github.com/paavohuhtala/demogine/engine/renderer/bind_group_provider"
	"github.com/paavohuhtala/demogine/engine/renderer/drawgen"
	"github.com/paavohuhtala/demogine/engine/renderer/material"
	"github.com/paavohuhtala/demogine/engine/renderer/pipeline"
	"github.com/paavohuhtala/demogine/engine/renderer/shader"
	"github.com/paavohuhtala/demogine/engine/scene"
	"github.com/paavohuhtala/demogine/engine/window"
	"github.com/paavohuhtala/demogine/logger"
)

// GeometryPipelineKey is the cache key of the instanced geometry pipeline
// the engine registers during Setup.
const GeometryPipelineKey = "geometry"

// Geometry pass bind group indices.
const (
	geometryGroupCamera    = 0
	geometryGroupDrawables = 1
	geometryGroupShading   = 2
)

// Shading group bindings.
const (
	shadingBindingLighting  = 0
	shadingBindingMaterials = 1
)

//go:embed assets/geometry_vertex.wgsl
var geometryVertexSource string

//go:embed assets/geometry_fragment.wgsl
var geometryFragmentSource string

// engine implements the Engine interface.
// Coordinates the fixed-rate tick loop, the render loop, and the window
// message loop.
type engine struct {
	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	cfg *config.Config

	window   window.Window
	renderer renderer.Renderer

	scene     scene.Scene
	camera    camera.Camera
	registry  *model.Registry
	materials *material.Registry
	light     light.DirectionalLight
	animator  animation.Animator
	drawables drawable.Manager
	generator drawgen.Generator

	meshProvider     bind_group_provider.BindGroupProvider
	cameraProvider   bind_group_provider.BindGroupProvider
	drawableProvider bind_group_provider.BindGroupProvider
	shadingProvider  bind_group_provider.BindGroupProvider

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	updateCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point. It owns the window, renderer, scene,
// camera, and the GPU-driven draw command pipeline, and runs the frame loop
// until the window closes.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the underlying renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Scene returns the engine's scene graph.
	//
	// Returns:
	//   - scene.Scene: the scene instance
	Scene() scene.Scene

	// Camera returns the engine's camera.
	//
	// Returns:
	//   - camera.Camera: the camera instance
	Camera() camera.Camera

	// Registry returns the mesh registry. Meshes must be registered before
	// Setup bakes the megabuffers.
	//
	// Returns:
	//   - *model.Registry: the mesh registry
	Registry() *model.Registry

	// Materials returns the material table. Materials must be registered
	// before Setup uploads the table.
	//
	// Returns:
	//   - *material.Registry: the material table
	Materials() *material.Registry

	// Light returns the directional light. Mutable at runtime; the engine
	// re-uploads the lighting uniform every frame.
	//
	// Returns:
	//   - light.DirectionalLight: the light instance
	Light() light.DirectionalLight

	// Animator returns the clip player. It advances during the update phase
	// of each frame, before world matrices propagate.
	//
	// Returns:
	//   - animation.Animator: the animator instance
	Animator() animation.Animator

	// Setup bakes the mesh registry, registers the geometry and compute
	// pipelines, allocates all GPU buffers, and performs the one-time
	// uploads (megabuffers, mesh table). Must be called after all meshes
	// are registered and before Run.
	//
	// Returns:
	//   - error: an error if GPU resource creation fails
	Setup() error

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetTickRate sets the fixed tick rate in ticks per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each fixed engine tick.
	// Use this for game logic decoupled from the render rate.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetUpdateCallback registers the per-frame update function. It runs
	// after EarlyUpdate has cleared change flags and before LateUpdate
	// propagates world matrices, so scene mutations made here are visible
	// in the same frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the frame loop (blocks until the window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Constructs the window, renderer, scene, camera, and draw command
// generator from the configuration unless options supply them.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		cfg:             config.Default(),
		registry:        model.NewRegistry(),
		materials:       material.NewRegistry(),
		light:           light.NewDirectionalLight(),
		animator:        animation.NewAnimator(),
		drawables:       drawable.NewManager(),
		generator:       drawgen.NewGenerator(),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		// A hand-written config file may leave fields zero; fall back to the
		// packaged defaults per field.
		defaults := config.Default()
		e.window = window.NewWindow(
			window.WithTitle(common.Coalesce(e.cfg.Window.Title, defaults.Window.Title)),
			window.WithWidth(common.Coalesce(e.cfg.Window.Width, defaults.Window.Width)),
			window.WithHeight(common.Coalesce(e.cfg.Window.Height, defaults.Window.Height)),
		)
	}
	if e.scene == nil {
		e.scene = scene.NewScene("main")
	}
	if e.camera == nil {
		e.camera = camera.NewCamera(
			camera.WithAspect(float32(e.window.Width())/float32(e.window.Height())),
			camera.WithController(camera.NewOrbitController()),
		)
	}
	if e.renderer == nil {
		presentMode := renderer.PresentModeUncapped
		if e.cfg.Renderer.VSync {
			presentMode = renderer.PresentModeVSync
		}
		e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window,
			renderer.WithPresentMode(presentMode),
			renderer.WithMSAA(renderer.MSAASampleCount(e.cfg.Renderer.MSAASamples)),
			renderer.WithForceSoftwareRenderer(e.cfg.Renderer.ForceFallbackAdapter),
		)
	}

	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
		e.camera.SetAspect(float32(width) / float32(height))
	})

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Registry() *model.Registry {
	return e.registry
}

func (e *engine) Materials() *material.Registry {
	return e.materials
}

func (e *engine) Light() light.DirectionalLight {
	return e.light
}

func (e *engine) Animator() animation.Animator {
	return e.animator
}

func (e *engine) Setup() error {
	vertexShader := shader.NewShader("Geometry Vertex", shader.ShaderTypeVertex, geometryVertexSource)
	fragmentShader := shader.NewShader("Geometry Fragment", shader.ShaderTypeFragment, geometryFragmentSource)

	if err := e.renderer.RegisterPipelines(
		pipeline.NewPipeline(GeometryPipelineKey, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(vertexShader),
			pipeline.WithFragmentShader(fragmentShader),
		),
	); err != nil {
		return fmt.Errorf("engine: geometry pipeline registration failed: %w", err)
	}

	if err := e.generator.Register(e.renderer); err != nil {
		return err
	}

	baked := e.registry.Bake()
	e.generator.UploadMeshInfos(e.renderer, baked.MeshInfoData())

	e.meshProvider = bind_group_provider.NewBindGroupProvider("Mesh Megabuffers")
	if err := e.renderer.InitMeshBuffers(e.meshProvider, baked.VertexData, baked.IndexData, baked.IndexCount); err != nil {
		return fmt.Errorf("engine: mesh megabuffer upload failed: %w", err)
	}

	e.cameraProvider = bind_group_provider.NewBindGroupProvider("Camera")
	if err := e.renderer.InitBindGroup(e.cameraProvider, vertexShader.BindGroupLayoutDescriptor(geometryGroupCamera), nil, nil); err != nil {
		return fmt.Errorf("engine: camera bind group: %w", err)
	}

	// The geometry pass reads the compacted drawable buffer the gather pass
	// writes; the provider shares the generator's buffer rather than
	// allocating one.
	e.drawableProvider = bind_group_provider.NewBindGroupProvider("Visible Drawables",
		bind_group_provider.WithBuffer(0, e.generator.VisibleDrawableBuffer()),
	)
	if err := e.renderer.InitBindGroup(e.drawableProvider, vertexShader.BindGroupLayoutDescriptor(geometryGroupDrawables), nil, nil); err != nil {
		return fmt.Errorf("engine: visible drawable bind group: %w", err)
	}

	// Lighting uniform and material table, read by the fragment stage. The
	// table is fixed-capacity and uploaded once.
	e.shadingProvider = bind_group_provider.NewBindGroupProvider("Shading")
	if err := e.renderer.InitBindGroup(e.shadingProvider, fragmentShader.BindGroupLayoutDescriptor(geometryGroupShading), nil, map[int]uint64{
		shadingBindingMaterials: uint64(material.MaxMaterials * material.GPUMaterialSize),
	}); err != nil {
		return fmt.Errorf("engine: shading bind group: %w", err)
	}
	e.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: e.shadingProvider, Binding: shadingBindingMaterials, Data: e.materials.Data()},
	})

	if e.cfg.Renderer.UseMultiDrawIndirectCount {
		logger.Warn("multi-draw-indirect-count is not exposed by the GPU backend; falling back to the fixed-count indirect loop")
	}

	logger.Info("engine setup complete",
		zap.Int("meshes", e.registry.PrimitiveCount()),
		zap.Int("index_count", baked.IndexCount),
	)
	return nil
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.Quit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleTick()
	go e.handleRender()
	go e.handleQuit()
}

// handleTick runs the fixed-rate tick loop in its own goroutine.
// Fires the tick callback at the configured rate and listens for dynamic
// rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop in its own goroutine, executing the
// full frame lifecycle each iteration. Recovers from panics to avoid
// crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("render goroutine recovered from panic", zap.Any("panic", r))
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.frame(dt)

			if e.profilingEnabled {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// frame executes one full frame: scene update, drawable extraction, GPU
// upload, compute dispatch, and the indirect geometry pass.
func (e *engine) frame(dt float32) {
	stop := e.profiler.Begin(profiler.PhaseUpdate)
	e.scene.EarlyUpdate()
	e.animator.Advance(dt, e.scene)
	if e.updateCallback != nil {
		e.updateCallback(dt)
	}
	e.scene.LateUpdate()
	e.camera.Update()
	stop()

	stop = e.profiler.Begin(profiler.PhaseExtract)
	if err := e.drawables.Gather(e.scene); err != nil {
		// Exceeding drawable capacity is a scene construction error, not a
		// per-frame condition to ride through.
		panic(err)
	}
	stop()

	stop = e.profiler.Begin(profiler.PhaseUpload)
	cameraUniform := e.camera.Uniform()
	lightingUniform := e.light.Uniform()
	e.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: e.cameraProvider, Binding: 0, Data: cameraUniform.Marshal()},
		{Provider: e.shadingProvider, Binding: shadingBindingLighting, Data: lightingUniform.Marshal()},
	})
	e.generator.UploadDrawables(e.renderer, e.drawables.Data())
	stop()

	stop = e.profiler.Begin(profiler.PhaseCompute)
	if err := e.renderer.BeginComputeFrame(); err == nil {
		e.generator.Dispatch(e.renderer, e.camera.Frustum(), e.drawables.Count())
		e.renderer.EndComputeFrame()
	}
	stop()

	stop = e.profiler.Begin(profiler.PhaseRender)
	if err := e.renderer.BeginFrame(); err == nil {
		if err := e.renderer.DrawCallIndirectMulti(
			GeometryPipelineKey,
			e.meshProvider,
			e.generator.DrawCommandBuffer(),
			model.MaxMeshes,
			[]bind_group_provider.BindGroupProvider{e.cameraProvider, e.drawableProvider, e.shadingProvider},
		); err != nil {
			logger.Error("indirect draw failed", zap.Error(err))
		}
		e.renderer.EndFrame()
		e.renderer.Present()
	}
	stop()
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables frame statistics output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables frame statistics output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the fixed tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send; if a rate change is already pending, replace it.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each fixed engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetUpdateCallback registers the per-frame update function.
func (e *engine) SetUpdateCallback(callback func(deltaTime float32)) {
	e.updateCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
