// renderpass.go
//
// Classic render pass + framebuffer objects. The rest of this package only
// ever used dynamic rendering (vkCmdBeginRendering); this file adds the
// VkRenderPass/VkFramebuffer path a forward color+depth pass needs.
package vulkango

/*
#include <vulkan/vulkan.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

type RenderPass struct {
	handle C.VkRenderPass
}

type Framebuffer struct {
	handle C.VkFramebuffer
}

const (
	FORMAT_D32_SFLOAT Format = C.VK_FORMAT_D32_SFLOAT

	IMAGE_USAGE_DEPTH_STENCIL_ATTACHMENT_BIT ImageUsageFlags = C.VK_IMAGE_USAGE_DEPTH_STENCIL_ATTACHMENT_BIT

	IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL ImageLayout = C.VK_IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL

	ACCESS_COLOR_ATTACHMENT_READ_BIT         AccessFlags = C.VK_ACCESS_COLOR_ATTACHMENT_READ_BIT
	ACCESS_DEPTH_STENCIL_ATTACHMENT_WRITE_BIT AccessFlags = C.VK_ACCESS_DEPTH_STENCIL_ATTACHMENT_WRITE_BIT

	PIPELINE_STAGE_EARLY_FRAGMENT_TESTS_BIT PipelineStageFlags = C.VK_PIPELINE_STAGE_EARLY_FRAGMENT_TESTS_BIT
)

type AttachmentDescription struct {
	Format         Format
	Samples        SampleCountFlags
	LoadOp         AttachmentLoadOp
	StoreOp        AttachmentStoreOp
	StencilLoadOp  AttachmentLoadOp
	StencilStoreOp AttachmentStoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

type AttachmentReference struct {
	Attachment uint32
	Layout     ImageLayout
}

type SubpassDescription struct {
	PipelineBindPoint      PipelineBindPoint
	ColorAttachments       []AttachmentReference
	DepthStencilAttachment *AttachmentReference
}

type SubpassDependency struct {
	SrcSubpass    uint32 // VK_SUBPASS_EXTERNAL encoded as ^uint32(0)
	DstSubpass    uint32
	SrcStageMask  PipelineStageFlags
	DstStageMask  PipelineStageFlags
	SrcAccessMask AccessFlags
	DstAccessMask AccessFlags
}

const SubpassExternal = ^uint32(0)

type RenderPassCreateInfo struct {
	Attachments []AttachmentDescription
	Subpasses   []SubpassDescription
	Dependencies []SubpassDependency
}

func (device Device) CreateRenderPass(info *RenderPassCreateInfo) (RenderPass, error) {
	cAttachments := make([]C.VkAttachmentDescription, len(info.Attachments))
	for i, a := range info.Attachments {
		cAttachments[i] = C.VkAttachmentDescription{
			format:         C.VkFormat(a.Format),
			samples:        C.VkSampleCountFlagBits(a.Samples),
			loadOp:         C.VkAttachmentLoadOp(a.LoadOp),
			storeOp:        C.VkAttachmentStoreOp(a.StoreOp),
			stencilLoadOp:  C.VkAttachmentLoadOp(a.StencilLoadOp),
			stencilStoreOp: C.VkAttachmentStoreOp(a.StencilStoreOp),
			initialLayout:  C.VkImageLayout(a.InitialLayout),
			finalLayout:    C.VkImageLayout(a.FinalLayout),
		}
	}

	// Per-subpass attachment-reference arrays must outlive the create call.
	var colorRefsPerSubpass [][]C.VkAttachmentReference
	var depthRefsPerSubpass []*C.VkAttachmentReference

	cSubpasses := make([]C.VkSubpassDescription, len(info.Subpasses))
	for i, sp := range info.Subpasses {
		colorRefs := make([]C.VkAttachmentReference, len(sp.ColorAttachments))
		for j, r := range sp.ColorAttachments {
			colorRefs[j] = C.VkAttachmentReference{
				attachment: C.uint32_t(r.Attachment),
				layout:     C.VkImageLayout(r.Layout),
			}
		}
		colorRefsPerSubpass = append(colorRefsPerSubpass, colorRefs)

		cSubpasses[i].pipelineBindPoint = C.VkPipelineBindPoint(sp.PipelineBindPoint)
		if len(colorRefs) > 0 {
			cSubpasses[i].colorAttachmentCount = C.uint32_t(len(colorRefs))
			cSubpasses[i].pColorAttachments = &colorRefs[0]
		}

		if sp.DepthStencilAttachment != nil {
			depthRef := (*C.VkAttachmentReference)(C.calloc(1, C.sizeof_VkAttachmentReference))
			depthRef.attachment = C.uint32_t(sp.DepthStencilAttachment.Attachment)
			depthRef.layout = C.VkImageLayout(sp.DepthStencilAttachment.Layout)
			cSubpasses[i].pDepthStencilAttachment = depthRef
			depthRefsPerSubpass = append(depthRefsPerSubpass, depthRef)
		}
	}
	defer func() {
		for _, p := range depthRefsPerSubpass {
			C.free(unsafe.Pointer(p))
		}
	}()

	cDependencies := make([]C.VkSubpassDependency, len(info.Dependencies))
	for i, d := range info.Dependencies {
		cDependencies[i] = C.VkSubpassDependency{
			srcSubpass:      C.uint32_t(d.SrcSubpass),
			dstSubpass:      C.uint32_t(d.DstSubpass),
			srcStageMask:    C.VkPipelineStageFlags(d.SrcStageMask),
			dstStageMask:    C.VkPipelineStageFlags(d.DstStageMask),
			srcAccessMask:   C.VkAccessFlags(d.SrcAccessMask),
			dstAccessMask:   C.VkAccessFlags(d.DstAccessMask),
			dependencyFlags: 0,
		}
	}

	cInfo := (*C.VkRenderPassCreateInfo)(C.calloc(1, C.sizeof_VkRenderPassCreateInfo))
	defer C.free(unsafe.Pointer(cInfo))
	cInfo.sType = C.VK_STRUCTURE_TYPE_RENDER_PASS_CREATE_INFO

	if len(cAttachments) > 0 {
		cInfo.attachmentCount = C.uint32_t(len(cAttachments))
		cInfo.pAttachments = &cAttachments[0]
	}
	if len(cSubpasses) > 0 {
		cInfo.subpassCount = C.uint32_t(len(cSubpasses))
		cInfo.pSubpasses = &cSubpasses[0]
	}
	if len(cDependencies) > 0 {
		cInfo.dependencyCount = C.uint32_t(len(cDependencies))
		cInfo.pDependencies = &cDependencies[0]
	}

	var rp C.VkRenderPass
	result := C.vkCreateRenderPass(device.handle, cInfo, nil, &rp)
	if result != C.VK_SUCCESS {
		return RenderPass{}, Result(result)
	}
	return RenderPass{handle: rp}, nil
}

func (device Device) DestroyRenderPass(rp RenderPass) {
	C.vkDestroyRenderPass(device.handle, rp.handle, nil)
}

type FramebufferCreateInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Width       uint32
	Height      uint32
	Layers      uint32
}

func (device Device) CreateFramebuffer(info *FramebufferCreateInfo) (Framebuffer, error) {
	cViews := make([]C.VkImageView, len(info.Attachments))
	for i, v := range info.Attachments {
		cViews[i] = v.handle
	}

	cInfo := (*C.VkFramebufferCreateInfo)(C.calloc(1, C.sizeof_VkFramebufferCreateInfo))
	defer C.free(unsafe.Pointer(cInfo))
	cInfo.sType = C.VK_STRUCTURE_TYPE_FRAMEBUFFER_CREATE_INFO
	cInfo.renderPass = info.RenderPass.handle
	if len(cViews) > 0 {
		cInfo.attachmentCount = C.uint32_t(len(cViews))
		cInfo.pAttachments = &cViews[0]
	}
	cInfo.width = C.uint32_t(info.Width)
	cInfo.height = C.uint32_t(info.Height)
	cInfo.layers = C.uint32_t(info.Layers)

	var fb C.VkFramebuffer
	result := C.vkCreateFramebuffer(device.handle, cInfo, nil, &fb)
	if result != C.VK_SUCCESS {
		return Framebuffer{}, Result(result)
	}
	return Framebuffer{handle: fb}, nil
}

func (device Device) DestroyFramebuffer(fb Framebuffer) {
	C.vkDestroyFramebuffer(device.handle, fb.handle, nil)
}

type RenderPassBeginInfo struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  Rect2D
	ClearValues []ClearValue
}

const SUBPASS_CONTENTS_INLINE = C.VK_SUBPASS_CONTENTS_INLINE

func (cmd CommandBuffer) BeginRenderPass(info *RenderPassBeginInfo) {
	cClears := make([]C.VkClearValue, len(info.ClearValues))
	for i, cv := range info.ClearValues {
		if cv.IsDepth {
			depthPtr := (*C.float)(unsafe.Pointer(&cClears[i]))
			*depthPtr = C.float(cv.DepthStencil.Depth)
			stencilPtr := (*C.uint32_t)(unsafe.Add(unsafe.Pointer(&cClears[i]), unsafe.Sizeof(C.float(0))))
			*stencilPtr = C.uint32_t(cv.DepthStencil.Stencil)
			continue
		}
		colorPtr := (*[4]C.float)(unsafe.Pointer(&cClears[i]))
		colorPtr[0] = C.float(cv.Color.Float32[0])
		colorPtr[1] = C.float(cv.Color.Float32[1])
		colorPtr[2] = C.float(cv.Color.Float32[2])
		colorPtr[3] = C.float(cv.Color.Float32[3])
	}

	cInfo := (*C.VkRenderPassBeginInfo)(C.calloc(1, C.sizeof_VkRenderPassBeginInfo))
	defer C.free(unsafe.Pointer(cInfo))
	cInfo.sType = C.VK_STRUCTURE_TYPE_RENDER_PASS_BEGIN_INFO
	cInfo.renderPass = info.RenderPass.handle
	cInfo.framebuffer = info.Framebuffer.handle
	cInfo.renderArea.offset.x = C.int32_t(info.RenderArea.Offset.X)
	cInfo.renderArea.offset.y = C.int32_t(info.RenderArea.Offset.Y)
	cInfo.renderArea.extent.width = C.uint32_t(info.RenderArea.Extent.Width)
	cInfo.renderArea.extent.height = C.uint32_t(info.RenderArea.Extent.Height)
	if len(cClears) > 0 {
		cInfo.clearValueCount = C.uint32_t(len(cClears))
		cInfo.pClearValues = &cClears[0]
	}

	C.vkCmdBeginRenderPass(cmd.handle, cInfo, C.VkSubpassContents(SUBPASS_CONTENTS_INLINE))
}

func (cmd CommandBuffer) EndRenderPass() {
	C.vkCmdEndRenderPass(cmd.handle)
}
