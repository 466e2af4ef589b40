package engine

import (
	"fmt"

	"github.com/forgelight/enginecore/internal/gpubuf"
	"github.com/forgelight/enginecore/vulkango"
)

// createSolidTexture builds a 1x1 RGBA8 device-local image holding a single
// color, for the descriptorset.DefaultImages fallback slots a material
// leaves empty. Same staged-upload-plus-barrier protocol as ui.Atlas.upload,
// just sized for one texel instead of the font atlas.
func createSolidTexture(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, rgba [4]byte, runOneShot func(func(vulkango.CommandBuffer) error) error) (vulkango.Image, vulkango.DeviceMemory, vulkango.ImageView, error) {
	image, memory, err := device.CreateImageWithMemory(
		1, 1,
		vulkango.FORMAT_R8G8B8A8_UNORM,
		vulkango.IMAGE_TILING_OPTIMAL,
		vulkango.IMAGE_USAGE_TRANSFER_DST_BIT|vulkango.IMAGE_USAGE_SAMPLED_BIT,
		vulkango.MEMORY_PROPERTY_DEVICE_LOCAL_BIT,
		physicalDevice,
	)
	if err != nil {
		return vulkango.Image{}, vulkango.DeviceMemory{}, vulkango.ImageView{}, fmt.Errorf("create solid texture image: %w", err)
	}

	view, err := device.CreateImageViewForTexture(image, vulkango.FORMAT_R8G8B8A8_UNORM)
	if err != nil {
		device.FreeMemory(memory)
		device.DestroyImage(image)
		return vulkango.Image{}, vulkango.DeviceMemory{}, vulkango.ImageView{}, fmt.Errorf("create solid texture view: %w", err)
	}

	staging, err := gpubuf.NewStagingBuffer(device, physicalDevice, 4)
	if err != nil {
		device.DestroyImageView(view)
		device.FreeMemory(memory)
		device.DestroyImage(image)
		return vulkango.Image{}, vulkango.DeviceMemory{}, vulkango.ImageView{}, fmt.Errorf("create solid texture staging buffer: %w", err)
	}
	defer staging.Destroy(device)

	if err := staging.Upload(device, rgba[:]); err != nil {
		device.DestroyImageView(view)
		device.FreeMemory(memory)
		device.DestroyImage(image)
		return vulkango.Image{}, vulkango.DeviceMemory{}, vulkango.ImageView{}, fmt.Errorf("upload solid texture bytes: %w", err)
	}

	fullImage := vulkango.ImageSubresourceRange{AspectMask: vulkango.IMAGE_ASPECT_COLOR_BIT, LevelCount: 1, LayerCount: 1}
	err = runOneShot(func(cmd vulkango.CommandBuffer) error {
		cmd.PipelineBarrier(
			vulkango.PIPELINE_STAGE_TOP_OF_PIPE_BIT,
			vulkango.PIPELINE_STAGE_TRANSFER_BIT,
			0,
			[]vulkango.ImageMemoryBarrier{{
				SrcAccessMask:    vulkango.ACCESS_NONE,
				DstAccessMask:    vulkango.ACCESS_TRANSFER_WRITE_BIT,
				OldLayout:        vulkango.IMAGE_LAYOUT_UNDEFINED,
				NewLayout:        vulkango.IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL,
				Image:            image,
				SubresourceRange: fullImage,
			}},
		)
		cmd.CopyBufferToImage(staging.Buffer, image, vulkango.IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL, []vulkango.BufferImageCopy{{
			ImageSubresource: vulkango.ImageSubresourceLayers{AspectMask: vulkango.IMAGE_ASPECT_COLOR_BIT, LayerCount: 1},
			ImageExtent:      vulkango.Extent3D{Width: 1, Height: 1, Depth: 1},
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
				Image:            image,
				SubresourceRange: fullImage,
			}},
		)
		return nil
	})
	if err != nil {
		device.DestroyImageView(view)
		device.FreeMemory(memory)
		device.DestroyImage(image)
		return vulkango.Image{}, vulkango.DeviceMemory{}, vulkango.ImageView{}, fmt.Errorf("upload solid texture: %w", err)
	}

	return image, memory, view, nil
}
