package ui

import (
	"fmt"

	"github.com/forgelight/enginecore/internal/gpubuf"
	"github.com/forgelight/enginecore/vulkango"
	"github.com/forgelight/enginecore/vulkango/shaderc"
)

// MaxGlyphs and MaxPanels bound one frame's non-cached mesh; exceeding
// either truncates the batch (DynamicBuffer.WriteAll) rather than failing
// the frame, matching spec.md §4.L's "keep the UI data pipeline simple".
const (
	MaxGlyphs = 4096
	MaxPanels = 256
)

// Renderer owns the two overlay pipelines (text, solid panel), the atlas
// descriptor set, and one set of per-frame-in-flight dynamic vertex/index
// buffers so a frame still being drained by the GPU is never overwritten.
type Renderer struct {
	device vulkango.Device

	textPipeline  vulkango.Pipeline
	textLayout    vulkango.PipelineLayout
	textSetLayout vulkango.DescriptorSetLayout
	descPool      vulkango.DescriptorPool
	atlasSet      vulkango.DescriptorSet

	panelPipeline vulkango.Pipeline
	panelLayout   vulkango.PipelineLayout

	frames []frameBuffers
}

type frameBuffers struct {
	textVB  *gpubuf.DynamicBuffer[glyphVertex]
	textIB  *gpubuf.DynamicBuffer[uint32]
	panelVB *gpubuf.DynamicBuffer[panelVertex]
}

// Build compiles the text and panel pipelines against renderPass (the same
// render pass the 3D draws use, recorded into after them), builds the
// atlas's descriptor set, and allocates framesInFlight sets of per-frame
// dynamic mesh buffers.
func Build(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, renderPass vulkango.RenderPass, atlas *Atlas, framesInFlight int) (*Renderer, error) {
	r := &Renderer{device: device}

	setLayout, err := device.CreateDescriptorSetLayout(&vulkango.DescriptorSetLayoutCreateInfo{
		Bindings: []vulkango.DescriptorSetLayoutBinding{
			{Binding: 0, DescriptorType: vulkango.DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, DescriptorCount: 1, StageFlags: vulkango.SHADER_STAGE_FRAGMENT_BIT},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create atlas descriptor set layout: %w", err)
	}
	r.textSetLayout = setLayout

	descPool, err := device.CreateDescriptorPool(&vulkango.DescriptorPoolCreateInfo{
		MaxSets:   1,
		PoolSizes: []vulkango.DescriptorPoolSize{{Type: vulkango.DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER, DescriptorCount: 1}},
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("create atlas descriptor pool: %w", err)
	}
	r.descPool = descPool

	sets, err := device.AllocateDescriptorSets(&vulkango.DescriptorSetAllocateInfo{DescriptorPool: descPool, SetLayouts: []vulkango.DescriptorSetLayout{setLayout}})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("allocate atlas descriptor set: %w", err)
	}
	r.atlasSet = sets[0]
	device.UpdateDescriptorSets([]vulkango.WriteDescriptorSet{{
		DstSet: r.atlasSet, DstBinding: 0, DescriptorType: vulkango.DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER,
		ImageInfo: []vulkango.DescriptorImageInfo{{Sampler: atlas.Sampler, ImageView: atlas.View, ImageLayout: vulkango.IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL}},
	}})

	compiler := shaderc.NewCompiler()
	defer compiler.Release()
	options := shaderc.NewCompileOptions()
	defer options.Release()
	options.SetTargetEnv(shaderc.TargetEnvVulkan, shaderc.EnvVersionVulkan_1_3)
	options.SetOptimizationLevel(shaderc.OptimizationLevelPerformance)

	textLayout, err := device.CreatePipelineLayout(&vulkango.PipelineLayoutCreateInfo{
		SetLayouts:         []vulkango.DescriptorSetLayout{setLayout},
		PushConstantRanges: []vulkango.PushConstantRange{{StageFlags: vulkango.SHADER_STAGE_VERTEX_BIT | vulkango.SHADER_STAGE_FRAGMENT_BIT, Offset: 0, Size: 32}},
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("create text pipeline layout: %w", err)
	}
	r.textLayout = textLayout

	textPipeline, err := buildPipeline(device, compiler, options, renderPass, textLayout, textVert, textFrag, textVertexInput())
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("build text pipeline: %w", err)
	}
	r.textPipeline = textPipeline

	panelLayout, err := device.CreatePipelineLayout(&vulkango.PipelineLayoutCreateInfo{
		PushConstantRanges: []vulkango.PushConstantRange{{StageFlags: vulkango.SHADER_STAGE_VERTEX_BIT, Offset: 0, Size: 16}},
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("create panel pipeline layout: %w", err)
	}
	r.panelLayout = panelLayout

	panelPipeline, err := buildPipeline(device, compiler, options, renderPass, panelLayout, panelVert, panelFrag, panelVertexInput())
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("build panel pipeline: %w", err)
	}
	r.panelPipeline = panelPipeline

	for i := 0; i < framesInFlight; i++ {
		fb, err := newFrameBuffers(device, physicalDevice)
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("allocate ui frame buffers %d: %w", i, err)
		}
		r.frames = append(r.frames, fb)
	}

	return r, nil
}

func buildPipeline(device vulkango.Device, compiler shaderc.Compiler, options shaderc.CompileOptions, renderPass vulkango.RenderPass, layout vulkango.PipelineLayout, vert, frag string, vertexInput *vulkango.PipelineVertexInputStateCreateInfo) (vulkango.Pipeline, error) {
	vertResult, err := compiler.CompileIntoSPV(vert, "ui.vert", shaderc.VertexShader, options)
	if err != nil {
		return vulkango.Pipeline{}, err
	}
	defer vertResult.Release()
	vertModule, err := device.CreateShaderModule(&vulkango.ShaderModuleCreateInfo{Code: vertResult.GetBytes()})
	if err != nil {
		return vulkango.Pipeline{}, err
	}
	defer device.DestroyShaderModule(vertModule)

	fragResult, err := compiler.CompileIntoSPV(frag, "ui.frag", shaderc.FragmentShader, options)
	if err != nil {
		return vulkango.Pipeline{}, err
	}
	defer fragResult.Release()
	fragModule, err := device.CreateShaderModule(&vulkango.ShaderModuleCreateInfo{Code: fragResult.GetBytes()})
	if err != nil {
		return vulkango.Pipeline{}, err
	}
	defer device.DestroyShaderModule(fragModule)

	return device.CreateGraphicsPipeline(&vulkango.GraphicsPipelineCreateInfo{
		Stages: []vulkango.PipelineShaderStageCreateInfo{
			{Stage: vulkango.SHADER_STAGE_VERTEX_BIT, Module: vertModule, Name: "main"},
			{Stage: vulkango.SHADER_STAGE_FRAGMENT_BIT, Module: fragModule, Name: "main"},
		},
		VertexInputState:   vertexInput,
		InputAssemblyState: &vulkango.PipelineInputAssemblyStateCreateInfo{Topology: vulkango.PRIMITIVE_TOPOLOGY_TRIANGLE_LIST},
		ViewportState:      &vulkango.PipelineViewportStateCreateInfo{Viewports: []vulkango.Viewport{}, Scissors: []vulkango.Rect2D{}},
		RasterizationState: &vulkango.PipelineRasterizationStateCreateInfo{
			PolygonMode: vulkango.POLYGON_MODE_FILL,
			CullMode:    vulkango.CULL_MODE_NONE,
			FrontFace:   vulkango.FRONT_FACE_COUNTER_CLOCKWISE,
			LineWidth:   1.0,
		},
		MultisampleState: &vulkango.PipelineMultisampleStateCreateInfo{RasterizationSamples: vulkango.SAMPLE_COUNT_1_BIT},
		DepthStencilState: &vulkango.PipelineDepthStencilStateCreateInfo{
			DepthTestEnable:  false,
			DepthWriteEnable: false,
			DepthCompareOp:   vulkango.COMPARE_OP_ALWAYS,
		},
		ColorBlendState: &vulkango.PipelineColorBlendStateCreateInfo{
			Attachments: []vulkango.PipelineColorBlendAttachmentState{{
				BlendEnable:         true,
				ColorWriteMask:      vulkango.COLOR_COMPONENT_ALL,
				SrcColorBlendFactor: vulkango.BLEND_FACTOR_SRC_ALPHA,
				DstColorBlendFactor: vulkango.BLEND_FACTOR_ONE_MINUS_SRC_ALPHA,
				ColorBlendOp:        vulkango.BLEND_OP_ADD,
				SrcAlphaBlendFactor: vulkango.BLEND_FACTOR_ONE,
				DstAlphaBlendFactor: vulkango.BLEND_FACTOR_ZERO,
				AlphaBlendOp:        vulkango.BLEND_OP_ADD,
			}},
		},
		DynamicState: &vulkango.PipelineDynamicStateCreateInfo{DynamicStates: []vulkango.DynamicState{vulkango.DYNAMIC_STATE_VIEWPORT, vulkango.DYNAMIC_STATE_SCISSOR}},
		Layout:       layout,
		RenderPass:   renderPass,
	})
}

func textVertexInput() *vulkango.PipelineVertexInputStateCreateInfo {
	return &vulkango.PipelineVertexInputStateCreateInfo{
		Bindings: []vulkango.VertexInputBindingDescription{{Binding: 0, Stride: 16, InputRate: vulkango.VERTEX_INPUT_RATE_VERTEX}},
		Attributes: []vulkango.VertexInputAttributeDescription{
			{Location: 0, Binding: 0, Format: vulkango.FORMAT_R32G32_SFLOAT, Offset: 0},
			{Location: 1, Binding: 0, Format: vulkango.FORMAT_R32G32_SFLOAT, Offset: 8},
		},
	}
}

func panelVertexInput() *vulkango.PipelineVertexInputStateCreateInfo {
	return &vulkango.PipelineVertexInputStateCreateInfo{
		Bindings: []vulkango.VertexInputBindingDescription{{Binding: 0, Stride: 24, InputRate: vulkango.VERTEX_INPUT_RATE_VERTEX}},
		Attributes: []vulkango.VertexInputAttributeDescription{
			{Location: 0, Binding: 0, Format: vulkango.FORMAT_R32G32_SFLOAT, Offset: 0},
			{Location: 1, Binding: 0, Format: vulkango.FORMAT_R32G32B32A32_SFLOAT, Offset: 8},
		},
	}
}

func (r *Renderer) Destroy() {
	for _, fb := range r.frames {
		fb.destroy(r.device)
	}
	if r.textPipeline != (vulkango.Pipeline{}) {
		r.device.DestroyPipeline(r.textPipeline)
	}
	if r.panelPipeline != (vulkango.Pipeline{}) {
		r.device.DestroyPipeline(r.panelPipeline)
	}
	if r.textLayout != (vulkango.PipelineLayout{}) {
		r.device.DestroyPipelineLayout(r.textLayout)
	}
	if r.panelLayout != (vulkango.PipelineLayout{}) {
		r.device.DestroyPipelineLayout(r.panelLayout)
	}
	if r.descPool != (vulkango.DescriptorPool{}) {
		r.device.DestroyDescriptorPool(r.descPool)
	}
	if r.textSetLayout != (vulkango.DescriptorSetLayout{}) {
		r.device.DestroyDescriptorSetLayout(r.textSetLayout)
	}
}
