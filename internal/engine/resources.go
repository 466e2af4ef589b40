package engine

import (
	"fmt"
	"unsafe"

	"github.com/forgelight/enginecore/internal/descriptorset"
	"github.com/forgelight/enginecore/internal/gpubuf"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/vulkango"
)

// buildDefaultImages creates the two 1x1 fallback textures (opaque white,
// flat normal) plus the shared sampler every material's unset texture slots
// resolve to, same idea as meshpool's per-material descriptor build but
// shared once across the whole Context instead of per material.
func (ctx *Context) buildDefaultImages(cfg Config) error {
	white, whiteMemory, whiteView, err := createSolidTexture(cfg.Device, cfg.PhysicalDevice, [4]byte{255, 255, 255, 255}, ctx.Frames.RunOneShot)
	if err != nil {
		return fmt.Errorf("build white fallback texture: %w", err)
	}
	flatNormal, flatNormalMemory, flatNormalView, err := createSolidTexture(cfg.Device, cfg.PhysicalDevice, [4]byte{128, 128, 255, 255}, ctx.Frames.RunOneShot)
	if err != nil {
		cfg.Device.DestroyImageView(whiteView)
		cfg.Device.FreeMemory(whiteMemory)
		cfg.Device.DestroyImage(white)
		return fmt.Errorf("build flat-normal fallback texture: %w", err)
	}

	sampler, err := cfg.Device.CreateSampler(&vulkango.SamplerCreateInfo{
		MagFilter:    vulkango.FILTER_LINEAR,
		MinFilter:    vulkango.FILTER_LINEAR,
		AddressModeU: vulkango.SAMPLER_ADDRESS_MODE_REPEAT,
		AddressModeV: vulkango.SAMPLER_ADDRESS_MODE_REPEAT,
		AddressModeW: vulkango.SAMPLER_ADDRESS_MODE_REPEAT,
	})
	if err != nil {
		cfg.Device.DestroyImageView(flatNormalView)
		cfg.Device.FreeMemory(flatNormalMemory)
		cfg.Device.DestroyImage(flatNormal)
		cfg.Device.DestroyImageView(whiteView)
		cfg.Device.FreeMemory(whiteMemory)
		cfg.Device.DestroyImage(white)
		return fmt.Errorf("create default sampler: %w", err)
	}

	ctx.defaultImages.whiteImage, ctx.defaultImages.whiteMemory, ctx.defaultImages.whiteView = white, whiteMemory, whiteView
	ctx.defaultImages.flatNormalImage, ctx.defaultImages.flatNormalMemory, ctx.defaultImages.flatNormalView = flatNormal, flatNormalMemory, flatNormalView
	ctx.defaultImages.sampler = sampler
	ctx.Defaults = descriptorset.DefaultImages{White: whiteView, FlatNormal: flatNormalView, Sampler: sampler}
	return nil
}

func (ctx *Context) destroyDefaultImages(cfg Config) {
	cfg.Device.DestroySampler(ctx.defaultImages.sampler)
	cfg.Device.DestroyImageView(ctx.defaultImages.flatNormalView)
	cfg.Device.FreeMemory(ctx.defaultImages.flatNormalMemory)
	cfg.Device.DestroyImage(ctx.defaultImages.flatNormalImage)
	cfg.Device.DestroyImageView(ctx.defaultImages.whiteView)
	cfg.Device.FreeMemory(ctx.defaultImages.whiteMemory)
	cfg.Device.DestroyImage(ctx.defaultImages.whiteImage)
}

// destroyDefaultImagesNoConfig is destroyDefaultImages for Destroy, which
// doesn't carry the original Config around; it only needs the device.
func (ctx *Context) destroyDefaultImagesNoConfig() {
	ctx.destroyDefaultImages(Config{Device: ctx.device})
}

// buildPerFrameSet allocates the set-0 descriptor set (camera + lighting
// UBOs) bound once per frame, following meshpool.go's buildMaterialSet
// pattern: a dedicated pool sized for exactly this set's bindings, one
// allocation, one batched WritePerFrameSet call.
func (ctx *Context) buildPerFrameSet(cfg Config) error {
	pool, err := cfg.Device.CreateDescriptorPool(&vulkango.DescriptorPoolCreateInfo{
		MaxSets: 1,
		PoolSizes: []vulkango.DescriptorPoolSize{
			{Type: vulkango.DESCRIPTOR_TYPE_UNIFORM_BUFFER, DescriptorCount: 2},
		},
	})
	if err != nil {
		return fmt.Errorf("create per-frame descriptor pool: %w", err)
	}

	sets, err := cfg.Device.AllocateDescriptorSets(&vulkango.DescriptorSetAllocateInfo{
		DescriptorPool: pool,
		SetLayouts:     []vulkango.DescriptorSetLayout{ctx.Layouts.PerFrame},
	})
	if err != nil {
		cfg.Device.DestroyDescriptorPool(pool)
		return fmt.Errorf("allocate per-frame descriptor set: %w", err)
	}

	cameraUBO, err := gpubuf.NewUniformBuffer[cameraUBOData](cfg.Device, cfg.PhysicalDevice)
	if err != nil {
		cfg.Device.DestroyDescriptorPool(pool)
		return fmt.Errorf("create camera uniform buffer: %w", err)
	}
	lightingUBO, err := gpubuf.NewUniformBuffer[lightingUBOData](cfg.Device, cfg.PhysicalDevice)
	if err != nil {
		cameraUBO.Destroy(cfg.Device)
		cfg.Device.DestroyDescriptorPool(pool)
		return fmt.Errorf("create lighting uniform buffer: %w", err)
	}

	descriptorset.WritePerFrameSet(cfg.Device, sets[0],
		vulkango.DescriptorBufferInfo{Buffer: cameraUBO.Buffer, Range: uint64(unsafe.Sizeof(cameraUBOData{}))},
		vulkango.DescriptorBufferInfo{Buffer: lightingUBO.Buffer, Range: uint64(unsafe.Sizeof(lightingUBOData{}))},
	)

	ctx.perFramePool = pool
	ctx.perFrameSet = sets[0]
	ctx.cameraUBO = cameraUBO
	ctx.lightingUBO = lightingUBO
	return nil
}

// SetCamera updates the per-frame camera UBO and records view/projection so
// a later mouse-click event this frame can be unprojected into a pick ray.
func (ctx *Context) SetCamera(view, projection mathx.Mat4, position mathx.Vec3) {
	ctx.lastView = view
	ctx.lastProjection = projection
	ctx.cameraUBO.Write(cameraUBOData{
		View:       [16]float32(view),
		Projection: [16]float32(projection),
		Position:   [4]float32{position.X(), position.Y(), position.Z(), 0},
	})
}

// SetLighting updates the per-frame directional-light UBO.
func (ctx *Context) SetLighting(direction, color, ambient mathx.Vec3) {
	ctx.lightingUBO.Write(lightingUBOData{
		Direction: [4]float32{direction.X(), direction.Y(), direction.Z(), 0},
		Color:     [4]float32{color.X(), color.Y(), color.Z(), 0},
		Ambient:   [4]float32{ambient.X(), ambient.Y(), ambient.Z(), 0},
	})
}
