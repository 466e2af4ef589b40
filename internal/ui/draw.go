package ui

import (
	"github.com/forgelight/enginecore/vulkango"
)

// Draw regenerates this frame's text and panel meshes from scratch
// (non-cached, per spec.md §4.L) and records both batched draws into cmd.
// Call after the 3D draws, within the same render pass; frameIndex selects
// which of the framesInFlight dynamic buffer sets to write so the GPU
// never sees a buffer the CPU is still rewriting.
func (r *Renderer) Draw(cmd vulkango.CommandBuffer, frameIndex int, screenWidth, screenHeight uint32, texts []TextDraw, panels []Panel, atlas *Atlas, tint [4]float32) {
	fb := r.frames[frameIndex]

	viewport := []vulkango.Viewport{{Width: float32(screenWidth), Height: float32(screenHeight), MinDepth: 0, MaxDepth: 1}}
	scissor := []vulkango.Rect2D{{Extent: vulkango.Extent2D{Width: screenWidth, Height: screenHeight}}}

	r.drawPanels(cmd, fb, viewport, scissor, screenWidth, screenHeight, panels)
	r.drawText(cmd, fb, viewport, scissor, screenWidth, screenHeight, texts, atlas, tint)
}

func (r *Renderer) drawPanels(cmd vulkango.CommandBuffer, fb frameBuffers, viewport []vulkango.Viewport, scissor []vulkango.Rect2D, screenWidth, screenHeight uint32, panels []Panel) {
	if len(panels) == 0 {
		return
	}
	vertices := generatePanelQuads(panels)
	count := fb.panelVB.WriteAll(vertices)
	if count == 0 {
		return
	}

	cmd.BindPipeline(vulkango.PIPELINE_BIND_POINT_GRAPHICS, r.panelPipeline)
	cmd.SetViewport(0, viewport)
	cmd.SetScissor(0, scissor)
	cmd.BindVertexBuffers(0, []vulkango.Buffer{fb.panelVB.Buffer}, []uint64{0})
	pushScreenSize(cmd, r.panelLayout, vulkango.SHADER_STAGE_VERTEX_BIT, screenWidth, screenHeight)
	cmd.Draw(count, 1, 0, 0)
}

func (r *Renderer) drawText(cmd vulkango.CommandBuffer, fb frameBuffers, viewport []vulkango.Viewport, scissor []vulkango.Rect2D, screenWidth, screenHeight uint32, texts []TextDraw, atlas *Atlas, tint [4]float32) {
	if len(texts) == 0 {
		return
	}

	var vertices []glyphVertex
	var indices []uint32
	for _, t := range texts {
		v, idx := generateTextQuads(atlas, t, uint32(len(vertices)))
		vertices = append(vertices, v...)
		indices = append(indices, idx...)
	}
	if len(vertices) == 0 {
		return
	}

	vcount := fb.textVB.WriteAll(vertices)
	icount := fb.textIB.WriteAll(indices)
	if vcount == 0 || icount == 0 {
		return
	}

	cmd.BindPipeline(vulkango.PIPELINE_BIND_POINT_GRAPHICS, r.textPipeline)
	cmd.SetViewport(0, viewport)
	cmd.SetScissor(0, scissor)
	cmd.BindDescriptorSets(vulkango.PIPELINE_BIND_POINT_GRAPHICS, r.textLayout, 0, []vulkango.DescriptorSet{r.atlasSet}, nil)
	cmd.BindVertexBuffers(0, []vulkango.Buffer{fb.textVB.Buffer}, []uint64{0})
	cmd.BindIndexBuffer(fb.textIB.Buffer, 0, vulkango.INDEX_TYPE_UINT32)
	pushTextConstants(cmd, r.textLayout, screenWidth, screenHeight, tint)
	cmd.DrawIndexed(icount, 1, 0, 0, 0)
}

// pushScreenSize writes the panel pipeline's 16-byte push constant block:
// vec2 screenSize + vec2 padding (std140 vec2 alignment, matching
// vala/systems/text.go's padded push-constant layout).
func pushScreenSize(cmd vulkango.CommandBuffer, layout vulkango.PipelineLayout, stage vulkango.ShaderStageFlags, screenWidth, screenHeight uint32) {
	bytes := encodeFloats(float32(screenWidth), float32(screenHeight), 0, 0)
	cmd.CmdPushConstants(layout, stage, 0, uint32(len(bytes)), bytesPointer(bytes))
}

// pushTextConstants writes the text pipeline's 32-byte push constant
// block: vec2 screenSize + vec2 padding + vec4 tint.
func pushTextConstants(cmd vulkango.CommandBuffer, layout vulkango.PipelineLayout, screenWidth, screenHeight uint32, tint [4]float32) {
	bytes := encodeFloats(float32(screenWidth), float32(screenHeight), 0, 0, tint[0], tint[1], tint[2], tint[3])
	cmd.CmdPushConstants(layout, vulkango.SHADER_STAGE_VERTEX_BIT|vulkango.SHADER_STAGE_FRAGMENT_BIT, 0, uint32(len(bytes)), bytesPointer(bytes))
}
