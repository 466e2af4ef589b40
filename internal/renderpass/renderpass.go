// Package renderpass owns the swapchain, the classic render pass, and the
// per-image framebuffers, and recreates them together on resize or
// VK_ERROR_OUT_OF_DATE_KHR/VK_SUBOPTIMAL_KHR. Swapchain selection is adapted
// from vulkango/swapchain_helper.go; the render pass and framebuffer objects
// are new, since the teacher only ever drove vkCmdBeginRendering.
package renderpass

import (
	"fmt"

	"github.com/forgelight/enginecore/vulkango"
)

// Target bundles the swapchain, its render pass, one framebuffer per
// swapchain image, and the single depth image all framebuffers share.
type Target struct {
	device         vulkango.Device
	physicalDevice vulkango.PhysicalDevice
	surface        vulkango.SurfaceKHR
	graphicsFamily uint32

	Swapchain    vulkango.SwapchainKHR
	ColorFormat  vulkango.Format
	DepthFormat  vulkango.Format
	Extent       vulkango.Extent2D
	RenderPass   vulkango.RenderPass
	ColorViews   []vulkango.ImageView
	Framebuffers []vulkango.Framebuffer

	depthImage  vulkango.Image
	depthMemory vulkango.DeviceMemory
	depthView   vulkango.ImageView
}

// Create builds the swapchain, render pass, depth buffer, and framebuffers
// for the given window size.
func Create(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, surface vulkango.SurfaceKHR, graphicsFamily, windowWidth, windowHeight uint32) (*Target, error) {
	t := &Target{
		device:         device,
		physicalDevice: physicalDevice,
		surface:        surface,
		graphicsFamily: graphicsFamily,
		DepthFormat:    vulkango.FORMAT_D32_SFLOAT,
	}
	if err := t.build(windowWidth, windowHeight, vulkango.SwapchainKHR{}); err != nil {
		return nil, err
	}
	return t, nil
}

// Recreate tears down the image-view/depth/framebuffer set and rebuilds the
// swapchain at the new window size, preserving the old swapchain handle
// until the new one (and its image views and framebuffers) exist, per the
// teacher's own CreateSwapchain convention of passing OldSwapchain through.
func (t *Target) Recreate(windowWidth, windowHeight uint32) error {
	if err := t.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle before swapchain recreation: %w", err)
	}

	old := t.Swapchain
	oldViews := t.ColorViews
	oldFramebuffers := t.Framebuffers
	oldRenderPass := t.RenderPass
	oldDepthView := t.depthView
	oldDepthImage := t.depthImage
	oldDepthMemory := t.depthMemory

	if err := t.build(windowWidth, windowHeight, old); err != nil {
		return err
	}

	for _, fb := range oldFramebuffers {
		t.device.DestroyFramebuffer(fb)
	}
	for _, v := range oldViews {
		t.device.DestroyImageView(v)
	}
	if oldDepthView != (vulkango.ImageView{}) {
		t.device.DestroyImageView(oldDepthView)
		t.device.DestroyImage(oldDepthImage)
		t.device.FreeMemory(oldDepthMemory)
	}
	if oldRenderPass != (vulkango.RenderPass{}) {
		t.device.DestroyRenderPass(oldRenderPass)
	}
	t.device.DestroySwapchainKHR(old)

	return nil
}

func (t *Target) build(windowWidth, windowHeight uint32, oldSwapchain vulkango.SwapchainKHR) error {
	support, err := t.physicalDevice.QuerySwapchainSupport(t.surface)
	if err != nil {
		return fmt.Errorf("query swapchain support: %w", err)
	}
	if len(support.Formats) == 0 || len(support.PresentModes) == 0 {
		return fmt.Errorf("surface has no usable formats or present modes")
	}

	surfaceFormat := vulkango.ChooseSurfaceFormat(support.Formats)
	presentMode := vulkango.ChoosePresentMode(support.PresentModes)
	extent := vulkango.ChooseSwapExtent(support.Capabilities, windowWidth, windowHeight)
	imageCount := vulkango.ChooseImageCount(support.Capabilities)

	swapchain, err := t.device.CreateSwapchainKHR(&vulkango.SwapchainCreateInfoKHR{
		Surface:          t.surface,
		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vulkango.IMAGE_USAGE_COLOR_ATTACHMENT_BIT,
		ImageSharingMode: vulkango.SHARING_MODE_EXCLUSIVE,
		PreTransform:     support.Capabilities.CurrentTransform,
		CompositeAlpha:   vulkango.COMPOSITE_ALPHA_OPAQUE_BIT_KHR,
		PresentMode:      presentMode,
		Clipped:          true,
		OldSwapchain:     oldSwapchain,
	})
	if err != nil {
		return fmt.Errorf("create swapchain: %w", err)
	}

	images, err := t.device.GetSwapchainImagesKHR(swapchain)
	if err != nil {
		t.device.DestroySwapchainKHR(swapchain)
		return fmt.Errorf("get swapchain images: %w", err)
	}

	colorViews, err := vulkango.CreateSwapchainImageViews(t.device, images, surfaceFormat.Format)
	if err != nil {
		t.device.DestroySwapchainKHR(swapchain)
		return fmt.Errorf("create swapchain image views: %w", err)
	}

	depthImage, depthMemory, err := t.device.CreateImageWithMemory(
		extent.Width, extent.Height,
		t.DepthFormat,
		vulkango.IMAGE_TILING_OPTIMAL,
		vulkango.IMAGE_USAGE_DEPTH_STENCIL_ATTACHMENT_BIT,
		vulkango.MEMORY_PROPERTY_DEVICE_LOCAL_BIT,
		t.physicalDevice,
	)
	if err != nil {
		destroyViews(t.device, colorViews)
		t.device.DestroySwapchainKHR(swapchain)
		return fmt.Errorf("create depth image: %w", err)
	}

	depthView, err := t.device.CreateImageView(&vulkango.ImageViewCreateInfo{
		Image:    depthImage,
		ViewType: vulkango.IMAGE_VIEW_TYPE_2D,
		Format:   t.DepthFormat,
		SubresourceRange: vulkango.ImageSubresourceRange{
			AspectMask:     vulkango.IMAGE_ASPECT_DEPTH_BIT,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		t.device.DestroyImage(depthImage)
		t.device.FreeMemory(depthMemory)
		destroyViews(t.device, colorViews)
		t.device.DestroySwapchainKHR(swapchain)
		return fmt.Errorf("create depth image view: %w", err)
	}

	renderPass, err := t.device.CreateRenderPass(&vulkango.RenderPassCreateInfo{
		Attachments: []vulkango.AttachmentDescription{
			{
				Format:         surfaceFormat.Format,
				Samples:        vulkango.SAMPLE_COUNT_1_BIT,
				LoadOp:         vulkango.ATTACHMENT_LOAD_OP_CLEAR,
				StoreOp:        vulkango.ATTACHMENT_STORE_OP_STORE,
				StencilLoadOp:  vulkango.ATTACHMENT_LOAD_OP_DONT_CARE,
				StencilStoreOp: vulkango.ATTACHMENT_STORE_OP_DONT_CARE,
				InitialLayout:  vulkango.IMAGE_LAYOUT_UNDEFINED,
				FinalLayout:    vulkango.IMAGE_LAYOUT_PRESENT_SRC_KHR,
			},
			{
				Format:         t.DepthFormat,
				Samples:        vulkango.SAMPLE_COUNT_1_BIT,
				LoadOp:         vulkango.ATTACHMENT_LOAD_OP_CLEAR,
				StoreOp:        vulkango.ATTACHMENT_STORE_OP_DONT_CARE,
				StencilLoadOp:  vulkango.ATTACHMENT_LOAD_OP_DONT_CARE,
				StencilStoreOp: vulkango.ATTACHMENT_STORE_OP_DONT_CARE,
				InitialLayout:  vulkango.IMAGE_LAYOUT_UNDEFINED,
				FinalLayout:    vulkango.IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL,
			},
		},
		Subpasses: []vulkango.SubpassDescription{
			{
				PipelineBindPoint: vulkango.PIPELINE_BIND_POINT_GRAPHICS,
				ColorAttachments:  []vulkango.AttachmentReference{{Attachment: 0, Layout: vulkango.IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL}},
				DepthStencilAttachment: &vulkango.AttachmentReference{
					Attachment: 1,
					Layout:     vulkango.IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL,
				},
			},
		},
		Dependencies: []vulkango.SubpassDependency{
			{
				SrcSubpass:    vulkango.SubpassExternal,
				DstSubpass:    0,
				SrcStageMask:  vulkango.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT | vulkango.PIPELINE_STAGE_EARLY_FRAGMENT_TESTS_BIT,
				DstStageMask:  vulkango.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT | vulkango.PIPELINE_STAGE_EARLY_FRAGMENT_TESTS_BIT,
				SrcAccessMask: 0,
				DstAccessMask: vulkango.ACCESS_COLOR_ATTACHMENT_READ_BIT | vulkango.ACCESS_COLOR_ATTACHMENT_WRITE_BIT | vulkango.ACCESS_DEPTH_STENCIL_ATTACHMENT_WRITE_BIT,
			},
		},
	})
	if err != nil {
		t.device.DestroyImageView(depthView)
		t.device.DestroyImage(depthImage)
		t.device.FreeMemory(depthMemory)
		destroyViews(t.device, colorViews)
		t.device.DestroySwapchainKHR(swapchain)
		return fmt.Errorf("create render pass: %w", err)
	}

	framebuffers := make([]vulkango.Framebuffer, len(colorViews))
	for i, view := range colorViews {
		fb, err := t.device.CreateFramebuffer(&vulkango.FramebufferCreateInfo{
			RenderPass:  renderPass,
			Attachments: []vulkango.ImageView{view, depthView},
			Width:       extent.Width,
			Height:      extent.Height,
			Layers:      1,
		})
		if err != nil {
			for j := 0; j < i; j++ {
				t.device.DestroyFramebuffer(framebuffers[j])
			}
			t.device.DestroyRenderPass(renderPass)
			t.device.DestroyImageView(depthView)
			t.device.DestroyImage(depthImage)
			t.device.FreeMemory(depthMemory)
			destroyViews(t.device, colorViews)
			t.device.DestroySwapchainKHR(swapchain)
			return fmt.Errorf("create framebuffer %d: %w", i, err)
		}
		framebuffers[i] = fb
	}

	t.Swapchain = swapchain
	t.ColorFormat = surfaceFormat.Format
	t.Extent = extent
	t.ColorViews = colorViews
	t.depthImage = depthImage
	t.depthMemory = depthMemory
	t.depthView = depthView
	t.RenderPass = renderPass
	t.Framebuffers = framebuffers
	return nil
}

func (t *Target) Destroy() {
	for _, fb := range t.Framebuffers {
		t.device.DestroyFramebuffer(fb)
	}
	t.device.DestroyRenderPass(t.RenderPass)
	t.device.DestroyImageView(t.depthView)
	t.device.DestroyImage(t.depthImage)
	t.device.FreeMemory(t.depthMemory)
	destroyViews(t.device, t.ColorViews)
	t.device.DestroySwapchainKHR(t.Swapchain)
}

func destroyViews(device vulkango.Device, views []vulkango.ImageView) {
	for _, v := range views {
		device.DestroyImageView(v)
	}
}
