package engine

import (
	"fmt"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/framesync"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/meshpool"
	"github.com/forgelight/enginecore/internal/orchestrator"
	"github.com/forgelight/enginecore/internal/ui"
	"github.com/forgelight/enginecore/vulkango"
)

// RenderInput is everything one frame's Render call needs beyond what
// Context already owns: the live dynamic objects to draw, a mesh-pool
// lookup, and the UI overlay content for this frame.
type RenderInput struct {
	Objects   map[ecs.Entity]orchestrator.DynamicRenderData
	Lookup    orchestrator.PoolLookup
	Texts     []ui.TextDraw
	Panels    []ui.Panel
	Tint      [4]float32
	CameraPos, CameraForward mathx.Vec3
}

// Render records and submits one frame: acquire, clear, draw the 3D scene
// (orchestrator.Submit/Draw), then draw the UI overlay on top in the same
// render pass, then present. ok is false when the frame was skipped because
// the swapchain needed rebuilding (framesync.Ring.Begin already handled the
// rebuild; there is nothing left to record this frame).
func (ctx *Context) Render(input RenderInput) (ok bool, err error) {
	frame, ok, err := ctx.Frames.Begin(ctx.Target.Swapchain)
	if err != nil {
		return false, fmt.Errorf("begin frame: %w", err)
	}
	if !ok {
		return false, nil
	}

	calls := orchestrator.Submit(input.Objects, input.CameraPos, input.CameraForward, input.Lookup, func(meshType meshpool.MeshType, count int) {
		ctx.Log.Warn("no mesh pool for mesh type", "mesh_type", meshType, "objects_skipped", count)
	})

	extent := ctx.Target.Extent
	frame.Cmd.BeginRenderPass(&vulkango.RenderPassBeginInfo{
		RenderPass:  ctx.Target.RenderPass,
		Framebuffer: ctx.Target.Framebuffers[frame.ImageIndex],
		RenderArea:  vulkango.Rect2D{Extent: extent},
		ClearValues: []vulkango.ClearValue{
			{Color: vulkango.ClearColorValue{Float32: [4]float32{0, 0, 0, 1}}},
			{IsDepth: true, DepthStencil: vulkango.ClearDepthStencilValue{Depth: 1}},
		},
	})

	frame.Cmd.SetViewport(0, []vulkango.Viewport{{Width: float32(extent.Width), Height: float32(extent.Height), MinDepth: 0, MaxDepth: 1}})
	frame.Cmd.SetScissor(0, []vulkango.Rect2D{{Extent: extent}})

	orchestrator.Draw(frame.Cmd, calls, ctx.Pipelines, ctx.Layouts.Pipeline, ctx.perFrameSet)

	frameIndex := int(ctx.FrameCounter % uint64(framesync.FramesInFlight))
	ctx.UI.Draw(frame.Cmd, frameIndex, extent.Width, extent.Height, input.Texts, input.Panels, ctx.UIAtlas, input.Tint)

	frame.Cmd.EndRenderPass()

	if err := frame.Submit(); err != nil {
		return false, fmt.Errorf("submit frame: %w", err)
	}
	if err := frame.Present(ctx.Target.Swapchain); err != nil {
		return false, fmt.Errorf("present frame: %w", err)
	}

	ctx.FrameCounter++
	return true, nil
}
