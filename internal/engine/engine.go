// Package engine is the top-level per-frame driver: PreUpdate, Update,
// PostUpdate, Render, Present, in that fixed order, against a single
// explicit Context rather than process-wide globals (spec.md §9's
// "global mutable state -> explicit context"). Grounded on
// teapot_app/src/main.rs's IntegratedApp (construct once, run a loop that
// polls events, advances simulated time, updates, renders) translated from
// a GLFW/winit-driven loop into one driven by an injected InputSource, and
// on vala/vala.go for the raw device/swapchain/queue setup shape. Logging
// uses github.com/charmbracelet/log (the teacher's own main reaches for
// fmt.Printf; other_examples' spaghettifunk/anima go.mod is the grounding
// for swapping that for a structured logger here).
package engine

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/forgelight/enginecore/internal/collision"
	"github.com/forgelight/enginecore/internal/descriptorset"
	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/framesync"
	"github.com/forgelight/enginecore/internal/gpubuf"
	"github.com/forgelight/enginecore/internal/material"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/meshpool"
	"github.com/forgelight/enginecore/internal/pipeline"
	"github.com/forgelight/enginecore/internal/renderpass"
	"github.com/forgelight/enginecore/internal/schedule"
	"github.com/forgelight/enginecore/internal/spatial"
	"github.com/forgelight/enginecore/internal/ui"
	"github.com/forgelight/enginecore/vulkango"
)

// Config bundles everything New needs from an already-opened Vulkan device
// and an already-created surface; acquiring those is the host's job (this
// module never creates a window or instance itself).
type Config struct {
	Device         vulkango.Device
	PhysicalDevice vulkango.PhysicalDevice
	Surface        vulkango.SurfaceKHR
	GraphicsFamily uint32
	GraphicsQueue  vulkango.Queue
	PresentQueue   vulkango.Queue

	WindowWidth, WindowHeight uint32

	// FontData is the raw TTF bytes the UI overlay bakes into its atlas;
	// rasterizing them is this module's job, decoding/validating the file
	// itself is the host's (spec.md's asset-decoding non-goal).
	FontData        []byte
	FontPixelHeight float32

	// Workers sizes the phase-internal goroutine pool; values below 1 give
	// a single worker (schedule.NewPool clamps to at least 1).
	Workers int

	LogLevel log.Level
}

// cameraUBOData mirrors pipeline/shaders.go's CameraUBO (set 0, binding 0).
type cameraUBOData struct {
	View       [16]float32
	Projection [16]float32
	Position   [4]float32
}

// lightingUBOData mirrors pipeline/shaders.go's LightingUBO (set 0, binding 1).
type lightingUBOData struct {
	Direction [4]float32
	Color     [4]float32
	Ambient   [4]float32
}

// Context is the single engine-wide state bundle every phase operates
// against; nothing in this package or its callers should reach for a
// process-wide singleton instead.
type Context struct {
	Log *log.Logger

	device         vulkango.Device
	physicalDevice vulkango.PhysicalDevice
	surface        vulkango.SurfaceKHR
	graphicsFamily uint32
	graphicsQueue  vulkango.Queue
	presentQueue   vulkango.Queue

	Registry         *ecs.Registry
	Transforms       *ecs.ComponentStore[ecs.TransformComponent]
	Movements        *ecs.ComponentStore[ecs.MovementComponent]
	Lifecycles       *ecs.ComponentStore[ecs.LifecycleComponent]
	Lights           *ecs.ComponentStore[ecs.LightComponent]
	Colliders        *ecs.ComponentStore[ecs.ColliderComponent]
	CollisionStates  *ecs.ComponentStore[ecs.CollisionStateComponent]
	Pickables        *ecs.ComponentStore[ecs.PickableComponent]
	Selections       *ecs.ComponentStore[ecs.SelectionComponent]

	Layouts  descriptorset.Layouts
	Target   *renderpass.Target
	Frames   *framesync.Ring
	Pipelines *pipeline.Table
	Meshes   *meshpool.Manager
	Materials *material.Cache
	Collision *collision.Core
	Schedule *schedule.Pool
	UIAtlas  *ui.Atlas
	UI       *ui.Renderer

	defaultImages struct {
		whiteImage, flatNormalImage           vulkango.Image
		whiteMemory, flatNormalMemory         vulkango.DeviceMemory
		whiteView, flatNormalView             vulkango.ImageView
		sampler                               vulkango.Sampler
	}
	Defaults descriptorset.DefaultImages

	perFramePool vulkango.DescriptorPool
	perFrameSet  vulkango.DescriptorSet
	cameraUBO    *gpubuf.UniformBuffer[cameraUBOData]
	lightingUBO  *gpubuf.UniformBuffer[lightingUBOData]

	// FrameCounter increments once per frame Render submits and presents (a
	// frame skipped because Begin rebuilt the swapchain does not count); mod
	// framesync.FramesInFlight
	// it tracks the same in-flight slot framesync.Ring cycles internally
	// (both advance by exactly one per frame), which is what selects the
	// UI renderer's non-cached per-frame buffer set.
	FrameCounter uint64

	Time float32 // total simulated seconds elapsed, advanced by each frame's delta_time

	windowWidth, windowHeight uint32
	lastView, lastProjection  mathx.Mat4
}

// New wires every core component together: descriptor-set/pipeline layouts,
// the swapchain/render-pass target, the frame-sync ring (whose rebuild
// callback recreates Target on resize or an out-of-date swapchain), the
// four-pipeline table, the default fallback textures, the mesh-pool
// manager, the collision core (backed by an Octree sized to a generous
// default world bound — callers needing a tighter bound can replace
// ctx.Collision directly), the UI font atlas and overlay renderer, and a
// phase-internal worker pool.
func New(cfg Config) (*Context, error) {
	logger := log.New(os.Stderr)
	logger.SetLevel(cfg.LogLevel)

	ctx := &Context{
		Log:            logger,
		device:         cfg.Device,
		physicalDevice: cfg.PhysicalDevice,
		surface:        cfg.Surface,
		graphicsFamily: cfg.GraphicsFamily,
		graphicsQueue:  cfg.GraphicsQueue,
		presentQueue:   cfg.PresentQueue,
		windowWidth:    cfg.WindowWidth,
		windowHeight:   cfg.WindowHeight,
	}

	ctx.Registry = ecs.NewRegistry()
	ctx.Transforms = ecs.NewComponentStore[ecs.TransformComponent](ctx.Registry.World)
	ctx.Movements = ecs.NewComponentStore[ecs.MovementComponent](ctx.Registry.World)
	ctx.Lifecycles = ecs.NewComponentStore[ecs.LifecycleComponent](ctx.Registry.World)
	ctx.Lights = ecs.NewComponentStore[ecs.LightComponent](ctx.Registry.World)
	ctx.Colliders = ecs.NewComponentStore[ecs.ColliderComponent](ctx.Registry.World)
	ctx.CollisionStates = ecs.NewComponentStore[ecs.CollisionStateComponent](ctx.Registry.World)
	ctx.Pickables = ecs.NewComponentStore[ecs.PickableComponent](ctx.Registry.World)
	ctx.Selections = ecs.NewComponentStore[ecs.SelectionComponent](ctx.Registry.World)
	ecs.Register(ctx.Registry, ctx.Transforms)
	ecs.Register(ctx.Registry, ctx.Movements)
	ecs.Register(ctx.Registry, ctx.Lifecycles)
	ecs.Register(ctx.Registry, ctx.Lights)
	ecs.Register(ctx.Registry, ctx.Colliders)
	ecs.Register(ctx.Registry, ctx.CollisionStates)
	ecs.Register(ctx.Registry, ctx.Pickables)
	ecs.Register(ctx.Registry, ctx.Selections)

	layouts, err := descriptorset.CreateLayouts(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("create descriptor set layouts: %w", err)
	}
	ctx.Layouts = layouts

	target, err := renderpass.Create(cfg.Device, cfg.PhysicalDevice, cfg.Surface, cfg.GraphicsFamily, cfg.WindowWidth, cfg.WindowHeight)
	if err != nil {
		ctx.Layouts.Destroy(cfg.Device)
		return nil, fmt.Errorf("create render target: %w", err)
	}
	ctx.Target = target

	frames, err := framesync.New(cfg.Device, cfg.GraphicsFamily, cfg.GraphicsQueue, cfg.PresentQueue, func() error {
		return ctx.Target.Recreate(cfg.WindowWidth, cfg.WindowHeight)
	})
	if err != nil {
		ctx.Target.Destroy()
		ctx.Layouts.Destroy(cfg.Device)
		return nil, fmt.Errorf("create frame sync ring: %w", err)
	}
	ctx.Frames = frames

	table, err := pipeline.Build(cfg.Device, ctx.Target.RenderPass, ctx.Layouts)
	if err != nil {
		ctx.teardownUpTo(cfg, stageFrames)
		return nil, fmt.Errorf("build pipeline table: %w", err)
	}
	ctx.Pipelines = table

	if err := ctx.buildDefaultImages(cfg); err != nil {
		ctx.teardownUpTo(cfg, stagePipelines)
		return nil, fmt.Errorf("build default textures: %w", err)
	}

	if err := ctx.buildPerFrameSet(cfg); err != nil {
		ctx.teardownUpTo(cfg, stageDefaults)
		return nil, fmt.Errorf("build per-frame descriptor set: %w", err)
	}

	ctx.Meshes = meshpool.NewManager(cfg.Device, cfg.PhysicalDevice, ctx.Layouts, ctx.Defaults, ctx.defaultImages.sampler)
	ctx.Meshes.SetUploader(func(dst vulkango.Buffer, data []byte) error {
		staging, err := gpubuf.NewStagingBuffer(cfg.Device, cfg.PhysicalDevice, uint64(len(data)))
		if err != nil {
			return err
		}
		defer staging.Destroy(cfg.Device)
		if err := staging.Upload(cfg.Device, data); err != nil {
			return err
		}
		return ctx.Frames.UploadStaged(staging, dst, uint64(len(data)), vulkango.ACCESS_VERTEX_ATTRIBUTE_READ_BIT|vulkango.ACCESS_INDEX_READ_BIT)
	})

	ctx.Materials = material.NewCache()

	worldBound := spatial.AABB{Min: [3]float32{-1000, -1000, -1000}, Max: [3]float32{1000, 1000, 1000}}
	ctx.Collision = collision.NewCore(spatial.NewOctree[ecs.Entity](worldBound))

	ctx.Schedule = schedule.NewPool(cfg.Workers)

	atlas, err := ui.BuildAtlas(cfg.Device, cfg.PhysicalDevice, cfg.FontData, cfg.FontPixelHeight, ctx.Frames.RunOneShot)
	if err != nil {
		ctx.Schedule.Close()
		ctx.teardownUpTo(cfg, stagePerFrameSet)
		return nil, fmt.Errorf("build ui atlas: %w", err)
	}
	ctx.UIAtlas = atlas

	uiRenderer, err := ui.Build(cfg.Device, cfg.PhysicalDevice, ctx.Target.RenderPass, ctx.UIAtlas, framesync.FramesInFlight)
	if err != nil {
		ctx.Schedule.Close()
		ctx.UIAtlas.Destroy(cfg.Device)
		ctx.teardownUpTo(cfg, stagePerFrameSet)
		return nil, fmt.Errorf("build ui renderer: %w", err)
	}
	ctx.UI = uiRenderer

	ctx.Log.Info("engine context ready", "width", cfg.WindowWidth, "height", cfg.WindowHeight)
	return ctx, nil
}

type teardownStage int

const (
	stageNone teardownStage = iota
	stageFrames
	stagePipelines
	stageDefaults
	stagePerFrameSet
)

// teardownUpTo releases whichever Context fields New had already built
// before a later step failed, in reverse build order.
func (ctx *Context) teardownUpTo(cfg Config, stage teardownStage) {
	if stage >= stagePerFrameSet {
		cfg.Device.DestroyDescriptorPool(ctx.perFramePool)
		ctx.cameraUBO.Destroy(cfg.Device)
		ctx.lightingUBO.Destroy(cfg.Device)
	}
	if stage >= stageDefaults {
		ctx.destroyDefaultImages(cfg)
	}
	if stage >= stagePipelines {
		ctx.Pipelines.Destroy(cfg.Device)
	}
	if stage >= stageFrames {
		ctx.Frames.Destroy()
	}
	ctx.Target.Destroy()
	ctx.Layouts.Destroy(cfg.Device)
}

// Destroy releases every GPU resource the Context owns, in reverse build
// order, same convention as vulkango's own deferred-Destroy chains.
func (ctx *Context) Destroy() {
	ctx.device.WaitIdle()
	ctx.Schedule.Close()
	ctx.UI.Destroy()
	ctx.UIAtlas.Destroy(ctx.device)
	ctx.Meshes.Destroy()
	ctx.device.DestroyDescriptorPool(ctx.perFramePool)
	ctx.cameraUBO.Destroy(ctx.device)
	ctx.lightingUBO.Destroy(ctx.device)
	ctx.destroyDefaultImagesNoConfig()
	ctx.Pipelines.Destroy(ctx.device)
	ctx.Frames.Destroy()
	ctx.Target.Destroy()
	ctx.Layouts.Destroy(ctx.device)
}
