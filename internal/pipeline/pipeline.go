// Package pipeline builds the fixed four-pipeline table the renderer draws
// through: StandardPBR, Unlit, TransparentPBR, TransparentUnlit. Each is a
// vulkango.GraphicsPipeline compiled from embedded GLSL source, sharing one
// vertex-input layout (binding 0 = per-vertex attributes, binding 1 =
// per-instance data) and the descriptorset.Layouts pipeline layout.
package pipeline

import (
	"fmt"

	"github.com/forgelight/enginecore/internal/descriptorset"
	"github.com/forgelight/enginecore/vulkango"
	"github.com/forgelight/enginecore/vulkango/shaderc"
)

// Kind names one of the four fixed pipelines.
type Kind int

const (
	StandardPBR Kind = iota
	Unlit
	TransparentPBR
	TransparentUnlit
	kindCount
)

func (k Kind) String() string {
	switch k {
	case StandardPBR:
		return "StandardPBR"
	case Unlit:
		return "Unlit"
	case TransparentPBR:
		return "TransparentPBR"
	case TransparentUnlit:
		return "TransparentUnlit"
	default:
		return "Unknown"
	}
}

// IsTransparent reports whether a kind belongs to the back-to-front group.
func (k Kind) IsTransparent() bool {
	return k == TransparentPBR || k == TransparentUnlit
}

// IsLit reports whether a kind samples the lighting UBO at all.
func (k Kind) IsLit() bool {
	return k == StandardPBR || k == TransparentPBR
}

// perVertexStride is the byte size of one Vertex: position, normal, uv,
// tangent (vec3+vec3+vec2+vec3 = 11 floats).
const perVertexStride = 11 * 4

// perInstanceStride is the byte size of one instance record: model matrix
// (mat4, 16 floats) + normal matrix as 3x vec4 (12 floats) + material index
// (1 uint, padded to a vec4-sized slot of 4 words).
const perInstanceStride = (16 + 12 + 4) * 4

// Table holds the four compiled pipelines, keyed by Kind.
type Table struct {
	pipelines [kindCount]vulkango.Pipeline
	layout    vulkango.PipelineLayout
}

// Get returns the compiled pipeline for k.
func (t *Table) Get(k Kind) vulkango.Pipeline {
	return t.pipelines[k]
}

func (t *Table) Destroy(device vulkango.Device) {
	for _, p := range t.pipelines {
		device.DestroyPipeline(p)
	}
}

// Build compiles the four fixed pipelines against renderPass, using
// layouts.Pipeline as the shared pipeline layout.
func Build(device vulkango.Device, renderPass vulkango.RenderPass, layouts descriptorset.Layouts) (*Table, error) {
	compiler := shaderc.NewCompiler()
	defer compiler.Release()

	options := shaderc.NewCompileOptions()
	defer options.Release()
	options.SetTargetEnv(shaderc.TargetEnvVulkan, shaderc.EnvVersionVulkan_1_3)
	options.SetOptimizationLevel(shaderc.OptimizationLevelPerformance)

	table := &Table{layout: layouts.Pipeline}

	specs := [kindCount]spec{
		StandardPBR:      {vert: standardVert, frag: pbrFrag, blend: false, depthWrite: true},
		Unlit:            {vert: standardVert, frag: unlitFrag, blend: false, depthWrite: true},
		TransparentPBR:   {vert: standardVert, frag: pbrFrag, blend: true, depthWrite: false},
		TransparentUnlit: {vert: standardVert, frag: unlitFrag, blend: true, depthWrite: false},
	}

	for kind, s := range specs {
		p, err := buildOne(device, compiler, options, renderPass, layouts.Pipeline, Kind(kind), s)
		if err != nil {
			table.Destroy(device)
			return nil, fmt.Errorf("build pipeline %s: %w", Kind(kind), err)
		}
		table.pipelines[kind] = p
	}

	return table, nil
}

type spec struct {
	vert, frag string
	blend      bool
	depthWrite bool
}

func buildOne(device vulkango.Device, compiler shaderc.Compiler, options shaderc.CompileOptions, renderPass vulkango.RenderPass, layout vulkango.PipelineLayout, kind Kind, s spec) (vulkango.Pipeline, error) {
	vertResult, err := compiler.CompileIntoSPV(s.vert, kind.String()+".vert", shaderc.VertexShader, options)
	if err != nil {
		return vulkango.Pipeline{}, err
	}
	defer vertResult.Release()

	vertModule, err := device.CreateShaderModule(&vulkango.ShaderModuleCreateInfo{Code: vertResult.GetBytes()})
	if err != nil {
		return vulkango.Pipeline{}, err
	}
	defer device.DestroyShaderModule(vertModule)

	fragResult, err := compiler.CompileIntoSPV(s.frag, kind.String()+".frag", shaderc.FragmentShader, options)
	if err != nil {
		return vulkango.Pipeline{}, err
	}
	defer fragResult.Release()

	fragModule, err := device.CreateShaderModule(&vulkango.ShaderModuleCreateInfo{Code: fragResult.GetBytes()})
	if err != nil {
		return vulkango.Pipeline{}, err
	}
	defer device.DestroyShaderModule(fragModule)

	blendAttachment := vulkango.PipelineColorBlendAttachmentState{
		BlendEnable:    s.blend,
		ColorWriteMask: vulkango.COLOR_COMPONENT_ALL,
	}
	if s.blend {
		blendAttachment.SrcColorBlendFactor = vulkango.BLEND_FACTOR_SRC_ALPHA
		blendAttachment.DstColorBlendFactor = vulkango.BLEND_FACTOR_ONE_MINUS_SRC_ALPHA
		blendAttachment.ColorBlendOp = vulkango.BLEND_OP_ADD
		blendAttachment.SrcAlphaBlendFactor = vulkango.BLEND_FACTOR_ONE
		blendAttachment.DstAlphaBlendFactor = vulkango.BLEND_FACTOR_ZERO
		blendAttachment.AlphaBlendOp = vulkango.BLEND_OP_ADD
	}

	return device.CreateGraphicsPipeline(&vulkango.GraphicsPipelineCreateInfo{
		Stages: []vulkango.PipelineShaderStageCreateInfo{
			{Stage: vulkango.SHADER_STAGE_VERTEX_BIT, Module: vertModule, Name: "main"},
			{Stage: vulkango.SHADER_STAGE_FRAGMENT_BIT, Module: fragModule, Name: "main"},
		},
		VertexInputState:   vertexInputState(),
		InputAssemblyState: &vulkango.PipelineInputAssemblyStateCreateInfo{Topology: vulkango.PRIMITIVE_TOPOLOGY_TRIANGLE_LIST},
		ViewportState: &vulkango.PipelineViewportStateCreateInfo{
			Viewports: []vulkango.Viewport{},
			Scissors:  []vulkango.Rect2D{},
		},
		RasterizationState: &vulkango.PipelineRasterizationStateCreateInfo{
			PolygonMode: vulkango.POLYGON_MODE_FILL,
			CullMode:    vulkango.CULL_MODE_BACK_BIT,
			FrontFace:   vulkango.FRONT_FACE_COUNTER_CLOCKWISE,
			LineWidth:   1.0,
		},
		MultisampleState: &vulkango.PipelineMultisampleStateCreateInfo{RasterizationSamples: vulkango.SAMPLE_COUNT_1_BIT},
		DepthStencilState: &vulkango.PipelineDepthStencilStateCreateInfo{
			DepthTestEnable:  true,
			DepthWriteEnable: s.depthWrite,
			DepthCompareOp:   vulkango.COMPARE_OP_LESS,
		},
		ColorBlendState: &vulkango.PipelineColorBlendStateCreateInfo{
			Attachments: []vulkango.PipelineColorBlendAttachmentState{blendAttachment},
		},
		DynamicState: &vulkango.PipelineDynamicStateCreateInfo{
			DynamicStates: []vulkango.DynamicState{vulkango.DYNAMIC_STATE_VIEWPORT, vulkango.DYNAMIC_STATE_SCISSOR},
		},
		Layout:     layout,
		RenderPass: renderPass,
	})
}

func vertexInputState() *vulkango.PipelineVertexInputStateCreateInfo {
	return &vulkango.PipelineVertexInputStateCreateInfo{
		Bindings: []vulkango.VertexInputBindingDescription{
			{Binding: 0, Stride: perVertexStride, InputRate: vulkango.VERTEX_INPUT_RATE_VERTEX},
			{Binding: 1, Stride: perInstanceStride, InputRate: vulkango.VERTEX_INPUT_RATE_INSTANCE},
		},
		Attributes: []vulkango.VertexInputAttributeDescription{
			// binding 0: vertex
			{Location: 0, Binding: 0, Format: vulkango.FORMAT_R32G32B32_SFLOAT, Offset: 0},  // position
			{Location: 1, Binding: 0, Format: vulkango.FORMAT_R32G32B32_SFLOAT, Offset: 12}, // normal
			{Location: 2, Binding: 0, Format: vulkango.FORMAT_R32G32_SFLOAT, Offset: 24},    // uv
			{Location: 3, Binding: 0, Format: vulkango.FORMAT_R32G32B32_SFLOAT, Offset: 32}, // tangent
			// binding 1: per-instance model matrix (4 columns) + normal matrix (3 columns)
			{Location: 4, Binding: 1, Format: vulkango.FORMAT_R32G32B32A32_SFLOAT, Offset: 0},
			{Location: 5, Binding: 1, Format: vulkango.FORMAT_R32G32B32A32_SFLOAT, Offset: 16},
			{Location: 6, Binding: 1, Format: vulkango.FORMAT_R32G32B32A32_SFLOAT, Offset: 32},
			{Location: 7, Binding: 1, Format: vulkango.FORMAT_R32G32B32A32_SFLOAT, Offset: 48},
			{Location: 8, Binding: 1, Format: vulkango.FORMAT_R32G32B32A32_SFLOAT, Offset: 64},
			{Location: 9, Binding: 1, Format: vulkango.FORMAT_R32G32B32A32_SFLOAT, Offset: 80},
			{Location: 10, Binding: 1, Format: vulkango.FORMAT_R32G32B32A32_SFLOAT, Offset: 96},
			{Location: 11, Binding: 1, Format: vulkango.FORMAT_R32_UINT, Offset: 112}, // material index
		},
	}
}
