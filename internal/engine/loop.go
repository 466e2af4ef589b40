package engine

// FrameBuilder supplies the render-time state (what to draw, where the
// camera sits) for the frame currently being recorded; the caller computes
// it after Update/PostUpdate have settled this frame's transforms.
type FrameBuilder func(ctx *Context, dt float32) RenderInput

// RunFrame drives one full PreUpdate->Update->PostUpdate->Render->Present
// cycle, per original_source/teapot_app/src/main.rs's IntegratedApp::run
// loop body translated onto an injected InputSource instead of a direct
// windowing-library poll. ok is false only when Render skipped the frame
// (swapchain rebuild); callers should simply continue their loop in that
// case, not treat it as an error.
func (ctx *Context) RunFrame(input InputSource, build FrameBuilder) (ok bool, err error) {
	dt := input.DeltaTime()
	events := input.PollEvents()

	ctx.PreUpdate(events)
	ctx.Update(dt)
	ctx.PostUpdate()

	return ctx.Render(build(ctx, dt))
}
