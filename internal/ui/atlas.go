// Package ui records the overlay draws spec.md §4.L describes: textured
// glyph quads from a CPU-rasterized font atlas, and solid-color
// screen-space panels, both recorded into the 3D render pass after the
// scene, with depth testing disabled and alpha blending enabled. New code
// with no direct teacher analogue for the pipeline/draw-call wiring, but
// grounded on vala/systems/text.go's TextRenderer/RenderText/
// GenerateTextQuads pattern (pipeline bind, per-frame non-cached vertex
// generation, screen-space push constants) and vulkango/font.go's
// stb_truetype BakeFontBitmap wrapper for the atlas itself.
package ui

import (
	"fmt"

	"github.com/forgelight/enginecore/internal/enginerr"
	"github.com/forgelight/enginecore/internal/gpubuf"
	"github.com/forgelight/enginecore/vulkango"
)

// AtlasWidth and AtlasHeight size the single baked font bitmap; spec.md
// §4.L fixes this at 1024x1024.
const (
	AtlasWidth  = 1024
	AtlasHeight = 1024

	firstChar = 32  // ' '
	numChars  = 95  // through '~'
)

// Glyph is one baked character's atlas rectangle (pixel space) and the
// metrics GenerateTextQuads needs to lay out a cursor.
type Glyph struct {
	U0, V0, U1, V1   float32
	Width, Height    float32
	XOffset, YOffset float32
	XAdvance         float32
}

// Atlas owns the baked glyph table and the GPU-resident RGBA texture built
// from it.
type Atlas struct {
	Glyphs    [numChars]Glyph
	FirstChar rune

	image   vulkango.Image
	memory  vulkango.DeviceMemory
	View    vulkango.ImageView
	Sampler vulkango.Sampler
}

// BuildAtlas bakes fontData (raw TTF bytes) at pixelHeight into a
// 1024x1024 R8 coverage bitmap, re-encodes it to RGBA as
// (255, 255, 255, coverage) per spec.md §4.L, and uploads it as a
// device-local sampled image via uploader (a one-shot command buffer,
// typically framesync.Ring.RunOneShot).
func BuildAtlas(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, fontData []byte, pixelHeight float32, uploader func(upload func(cmd vulkango.CommandBuffer) error) error) (*Atlas, error) {
	baked, coverage, err := vulkango.BakeFontBitmap(fontData, pixelHeight, AtlasWidth, AtlasHeight, firstChar, numChars)
	if err != nil {
		return nil, fmt.Errorf("bake font bitmap: %w", err)
	}

	rgba := coverageToRGBA(coverage)

	image, memory, err := device.CreateImageWithMemory(
		AtlasWidth, AtlasHeight,
		vulkango.FORMAT_R8G8B8A8_UNORM,
		vulkango.IMAGE_TILING_OPTIMAL,
		vulkango.IMAGE_USAGE_TRANSFER_DST_BIT|vulkango.IMAGE_USAGE_SAMPLED_BIT,
		vulkango.MEMORY_PROPERTY_DEVICE_LOCAL_BIT,
		physicalDevice,
	)
	if err != nil {
		return nil, fmt.Errorf("create atlas image: %w", err)
	}

	view, err := device.CreateImageViewForTexture(image, vulkango.FORMAT_R8G8B8A8_UNORM)
	if err != nil {
		device.FreeMemory(memory)
		device.DestroyImage(image)
		return nil, fmt.Errorf("create atlas image view: %w", err)
	}

	sampler, err := device.CreateSampler(&vulkango.SamplerCreateInfo{
		MagFilter:    vulkango.FILTER_LINEAR,
		MinFilter:    vulkango.FILTER_LINEAR,
		MipmapMode:   vulkango.SAMPLER_MIPMAP_MODE_NEAREST,
		AddressModeU: vulkango.SAMPLER_ADDRESS_MODE_CLAMP_TO_EDGE,
		AddressModeV: vulkango.SAMPLER_ADDRESS_MODE_CLAMP_TO_EDGE,
		AddressModeW: vulkango.SAMPLER_ADDRESS_MODE_CLAMP_TO_EDGE,
		MaxLod:       1,
	})
	if err != nil {
		device.DestroyImageView(view)
		device.FreeMemory(memory)
		device.DestroyImage(image)
		return nil, fmt.Errorf("create atlas sampler: %w", err)
	}

	atlas := &Atlas{FirstChar: firstChar, image: image, memory: memory, View: view, Sampler: sampler}
	for i, c := range baked {
		atlas.Glyphs[i] = Glyph{
			U0: float32(c.X0) / AtlasWidth, V0: float32(c.Y0) / AtlasHeight,
			U1: float32(c.X1) / AtlasWidth, V1: float32(c.Y1) / AtlasHeight,
			Width: float32(c.X1 - c.X0), Height: float32(c.Y1 - c.Y0),
			XOffset: c.XOffset, YOffset: c.YOffset, XAdvance: c.XAdvance,
		}
	}

	if err := atlas.upload(device, physicalDevice, rgba, uploader); err != nil {
		atlas.Destroy(device)
		return nil, err
	}
	return atlas, nil
}

// coverageToRGBA re-encodes an R8 coverage bitmap to RGBA, spec.md §4.L's
// (255, 255, 255, coverage) convention: every texel is white, including
// zero-coverage ones, with coverage as alpha, which lets the same
// alpha-blend pipeline used for solid panels draw glyphs without a separate
// shader variant.
func coverageToRGBA(coverage []byte) []byte {
	rgba := make([]byte, len(coverage)*4)
	for i, c := range coverage {
		rgba[i*4+0] = 255
		rgba[i*4+1] = 255
		rgba[i*4+2] = 255
		rgba[i*4+3] = c
	}
	return rgba
}

func (a *Atlas) upload(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, rgba []byte, uploader func(upload func(cmd vulkango.CommandBuffer) error) error) error {
	if uploader == nil {
		return enginerr.New(enginerr.InvalidInput, "ui.BuildAtlas requires a one-shot uploader")
	}

	staging, err := gpubuf.NewStagingBuffer(device, physicalDevice, uint64(len(rgba)))
	if err != nil {
		return fmt.Errorf("create atlas staging buffer: %w", err)
	}
	defer staging.Destroy(device)

	if err := staging.Upload(device, rgba); err != nil {
		return fmt.Errorf("upload atlas bytes to staging buffer: %w", err)
	}

	fullImage := vulkango.ImageSubresourceRange{AspectMask: vulkango.IMAGE_ASPECT_COLOR_BIT, LevelCount: 1, LayerCount: 1}

	return uploader(func(cmd vulkango.CommandBuffer) error {
		cmd.PipelineBarrier(
			vulkango.PIPELINE_STAGE_TOP_OF_PIPE_BIT,
			vulkango.PIPELINE_STAGE_TRANSFER_BIT,
			0,
			[]vulkango.ImageMemoryBarrier{{
				SrcAccessMask:    vulkango.ACCESS_NONE,
				DstAccessMask:    vulkango.ACCESS_TRANSFER_WRITE_BIT,
				OldLayout:        vulkango.IMAGE_LAYOUT_UNDEFINED,
				NewLayout:        vulkango.IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL,
				Image:            a.image,
				SubresourceRange: fullImage,
			}},
		)

		cmd.CopyBufferToImage(staging.Buffer, a.image, vulkango.IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL, []vulkango.BufferImageCopy{{
			ImageSubresource: vulkango.ImageSubresourceLayers{AspectMask: vulkango.IMAGE_ASPECT_COLOR_BIT, LayerCount: 1},
			ImageExtent:      vulkango.Extent3D{Width: AtlasWidth, Height: AtlasHeight, Depth: 1},
		}})

		cmd.PipelineBarrier(
			vulkango.PIPELINE_STAGE_TRANSFER_BIT,
			vulkango.PIPELINE_STAGE_FRAGMENT_SHADER_BIT,
			0,
			[]vulkango.ImageMemoryBarrier{{
				SrcAccessMask:    vulkango.ACCESS_TRANSFER_WRITE_BIT,
				DstAccessMask:    vulkango.ACCESS_SHADER_READ_BIT,
				OldLayout:        vulkango.IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL,
				NewLayout:        vulkango.IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL,
				Image:            a.image,
				SubresourceRange: fullImage,
			}},
		)
		return nil
	})
}

// Glyph looks up the baked rectangle for r, reporting false for any
// codepoint outside the baked range (spec.md's atlas only covers ASCII
// 32-126); callers skip the character rather than fail the frame.
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	index := int(r) - firstChar
	if index < 0 || index >= numChars {
		return Glyph{}, false
	}
	return a.Glyphs[index], true
}

func (a *Atlas) Destroy(device vulkango.Device) {
	device.DestroySampler(a.Sampler)
	device.DestroyImageView(a.View)
	device.FreeMemory(a.memory)
	device.DestroyImage(a.image)
}
