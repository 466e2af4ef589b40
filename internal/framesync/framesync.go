// Package framesync drives the fixed-size ring of in-flight frame slots:
// one (image-available semaphore, render-finished semaphore, in-flight
// fence, command buffer) tuple per slot, cycled round-robin. Grounded on
// vulkango/sync.go's Semaphore/Fence/Submit/PresentKHR/AcquireNextImageKHR
// wrappers and command.go's CommandPool/CommandBuffer, extended this
// session so PresentKHR/AcquireNextImageKHR surface VK_SUBOPTIMAL_KHR
// instead of swallowing it, which this package's Begin/Present rely on to
// detect a stale swapchain.
package framesync

import (
	"fmt"

	"github.com/forgelight/enginecore/internal/enginerr"
	"github.com/forgelight/enginecore/internal/gpubuf"
	"github.com/forgelight/enginecore/vulkango"
)

// FramesInFlight is the number of frame slots kept resident; two lets the
// CPU record frame N+1 while the GPU still drains frame N.
const FramesInFlight = 2

type slot struct {
	imageAvailable vulkango.Semaphore
	renderFinished vulkango.Semaphore
	inFlight       vulkango.Fence
	cmd            vulkango.CommandBuffer
}

// Ring owns the per-slot sync objects and command buffers, and the
// swapchain-resize callback used to rebuild the render target on
// OUT_OF_DATE/SUBOPTIMAL.
type Ring struct {
	device      vulkango.Device
	graphicsQ   vulkango.Queue
	presentQ    vulkango.Queue
	pool        vulkango.CommandPool
	slots       [FramesInFlight]slot
	current     int
	rebuild     func() error
}

// New allocates the command pool, command buffers, and per-slot sync
// objects. rebuild is called whenever the swapchain must be recreated
// (resize, OUT_OF_DATE, or SUBOPTIMAL); it should recreate the
// renderpass.Target in place.
func New(device vulkango.Device, graphicsFamily uint32, graphicsQueue, presentQueue vulkango.Queue, rebuild func() error) (*Ring, error) {
	pool, err := device.CreateCommandPool(&vulkango.CommandPoolCreateInfo{
		Flags:            vulkango.COMMAND_POOL_CREATE_RESET_COMMAND_BUFFER_BIT,
		QueueFamilyIndex: graphicsFamily,
	})
	if err != nil {
		return nil, fmt.Errorf("create command pool: %w", err)
	}

	cmdBufs, err := device.AllocateCommandBuffers(&vulkango.CommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              vulkango.COMMAND_BUFFER_LEVEL_PRIMARY,
		CommandBufferCount: FramesInFlight,
	})
	if err != nil {
		device.DestroyCommandPool(pool)
		return nil, fmt.Errorf("allocate command buffers: %w", err)
	}

	r := &Ring{device: device, graphicsQ: graphicsQueue, presentQ: presentQueue, pool: pool, rebuild: rebuild}

	for i := 0; i < FramesInFlight; i++ {
		imgAvail, err := device.CreateSemaphore(&vulkango.SemaphoreCreateInfo{})
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("create image-available semaphore %d: %w", i, err)
		}
		renderDone, err := device.CreateSemaphore(&vulkango.SemaphoreCreateInfo{})
		if err != nil {
			device.DestroySemaphore(imgAvail)
			r.Destroy()
			return nil, fmt.Errorf("create render-finished semaphore %d: %w", i, err)
		}
		fence, err := device.CreateFence(&vulkango.FenceCreateInfo{Flags: vulkango.FENCE_CREATE_SIGNALED_BIT})
		if err != nil {
			device.DestroySemaphore(imgAvail)
			device.DestroySemaphore(renderDone)
			r.Destroy()
			return nil, fmt.Errorf("create in-flight fence %d: %w", i, err)
		}

		r.slots[i] = slot{
			imageAvailable: imgAvail,
			renderFinished: renderDone,
			inFlight:       fence,
			cmd:            cmdBufs[i],
		}
	}

	return r, nil
}

// Destroy waits for the device to go idle, then frees every per-slot sync
// object and the command pool (which frees its command buffers).
func (r *Ring) Destroy() {
	r.device.WaitIdle()
	for _, s := range r.slots {
		if s.imageAvailable != (vulkango.Semaphore{}) {
			r.device.DestroySemaphore(s.imageAvailable)
		}
		if s.renderFinished != (vulkango.Semaphore{}) {
			r.device.DestroySemaphore(s.renderFinished)
		}
		if s.inFlight != (vulkango.Fence{}) {
			r.device.DestroyFence(s.inFlight)
		}
	}
	if r.pool != (vulkango.CommandPool{}) {
		r.device.DestroyCommandPool(r.pool)
	}
}

// Frame is the handle a caller records commands into for one pass through
// the render loop.
type Frame struct {
	Cmd        vulkango.CommandBuffer
	ImageIndex uint32

	ring *Ring
	s    *slot
}

// Begin runs protocol steps 1-3: wait on the slot's in-flight fence,
// acquire a swapchain image (rebuilding and skipping the frame on
// OUT_OF_DATE), reset the fence, reset and begin the command buffer.
// ok is false when the frame should be skipped (swapchain was rebuilt and
// nothing was recorded or submitted).
func (r *Ring) Begin(swapchain vulkango.SwapchainKHR) (frame Frame, ok bool, err error) {
	s := &r.slots[r.current]

	if err := r.device.WaitForFences([]vulkango.Fence{s.inFlight}, true, ^uint64(0)); err != nil {
		return Frame{}, false, fmt.Errorf("wait in-flight fence: %w", err)
	}

	imageIndex, acquireErr := r.device.AcquireNextImageKHR(swapchain, ^uint64(0), s.imageAvailable, vulkango.Fence{})
	if acquireErr != nil {
		if result, isResult := acquireErr.(vulkango.Result); isResult &&
			(result == vulkango.OUT_OF_DATE || result == vulkango.SUBOPTIMAL) {
			if rebuildErr := r.rebuild(); rebuildErr != nil {
				return Frame{}, false, fmt.Errorf("rebuild swapchain after %v: %w", result, rebuildErr)
			}
			return Frame{}, false, nil
		}
		return Frame{}, false, enginerr.Backend("acquire next image", int32(toResultCode(acquireErr)))
	}

	if err := r.device.ResetFences([]vulkango.Fence{s.inFlight}); err != nil {
		return Frame{}, false, fmt.Errorf("reset in-flight fence: %w", err)
	}

	if err := s.cmd.Reset(0); err != nil {
		return Frame{}, false, fmt.Errorf("reset command buffer: %w", err)
	}
	if err := s.cmd.Begin(&vulkango.CommandBufferBeginInfo{}); err != nil {
		return Frame{}, false, fmt.Errorf("begin command buffer: %w", err)
	}

	return Frame{Cmd: s.cmd, ImageIndex: imageIndex, ring: r, s: s}, true, nil
}

// Submit ends recording, submits waiting on image-available at
// COLOR_ATTACHMENT_OUTPUT and signaling render-finished, fenced on the
// slot's in-flight fence (protocol step 4).
func (f Frame) Submit() error {
	if err := f.Cmd.End(); err != nil {
		return fmt.Errorf("end command buffer: %w", err)
	}

	err := f.ring.graphicsQ.Submit([]vulkango.SubmitInfo{{
		WaitSemaphores:   []vulkango.Semaphore{f.s.imageAvailable},
		WaitDstStageMask: []vulkango.PipelineStageFlags{vulkango.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT},
		CommandBuffers:   []vulkango.CommandBuffer{f.Cmd},
		SignalSemaphores: []vulkango.Semaphore{f.s.renderFinished},
	}}, f.s.inFlight)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// Present issues protocol step 5: present waiting on render-finished.
// SUBOPTIMAL or OUT_OF_DATE triggers swapchain recreation; any other
// error propagates.
func (f Frame) Present(swapchain vulkango.SwapchainKHR) error {
	presentErr := f.ring.presentQ.PresentKHR(&vulkango.PresentInfoKHR{
		WaitSemaphores: []vulkango.Semaphore{f.s.renderFinished},
		Swapchains:     []vulkango.SwapchainKHR{swapchain},
		ImageIndices:   []uint32{f.ImageIndex},
	})

	f.ring.current = (f.ring.current + 1) % FramesInFlight

	if presentErr == nil {
		return nil
	}
	if result, isResult := presentErr.(vulkango.Result); isResult &&
		(result == vulkango.OUT_OF_DATE || result == vulkango.SUBOPTIMAL) {
		if rebuildErr := f.ring.rebuild(); rebuildErr != nil {
			return fmt.Errorf("rebuild swapchain after %v: %w", result, rebuildErr)
		}
		return nil
	}
	return enginerr.Backend("present", int32(toResultCode(presentErr)))
}

func toResultCode(err error) vulkango.Result {
	if result, ok := err.(vulkango.Result); ok {
		return result
	}
	return 0
}

// RunOneShot allocates a command buffer from the ring's pool, begins it
// with ONE_TIME_SUBMIT, invokes record, ends it, submits with no fence,
// waits the graphics queue idle, and frees the buffer. Used for any
// transfer or layout-transition work that must complete before the caller
// continues — staged buffer uploads (UploadStaged) and texture uploads
// (internal/ui's atlas) both build on this.
func (r *Ring) RunOneShot(record func(cmd vulkango.CommandBuffer) error) error {
	bufs, err := r.device.AllocateCommandBuffers(&vulkango.CommandBufferAllocateInfo{
		CommandPool:        r.pool,
		Level:              vulkango.COMMAND_BUFFER_LEVEL_PRIMARY,
		CommandBufferCount: 1,
	})
	if err != nil {
		return fmt.Errorf("allocate one-shot command buffer: %w", err)
	}
	cmd := bufs[0]
	defer r.device.FreeCommandBuffers(r.pool, bufs)

	if err := cmd.Begin(&vulkango.CommandBufferBeginInfo{Flags: vulkango.COMMAND_BUFFER_USAGE_ONE_TIME_SUBMIT_BIT}); err != nil {
		return fmt.Errorf("begin one-shot command buffer: %w", err)
	}

	if err := record(cmd); err != nil {
		return fmt.Errorf("record one-shot command buffer: %w", err)
	}

	if err := cmd.End(); err != nil {
		return fmt.Errorf("end one-shot command buffer: %w", err)
	}

	if err := r.graphicsQ.Submit([]vulkango.SubmitInfo{{CommandBuffers: []vulkango.CommandBuffer{cmd}}}, vulkango.Fence{}); err != nil {
		return fmt.Errorf("submit one-shot command buffer: %w", err)
	}
	if err := r.graphicsQ.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle after one-shot command buffer: %w", err)
	}
	return nil
}

// UploadStaged records the staged-upload barrier protocol on a one-shot
// command buffer: execution barrier (VERTEX_INPUT -> TRANSFER invalidating
// VERTEX_ATTRIBUTE_READ), the buffer copy, a transfer-to-vertex/index
// barrier. Per spec.md §4.G this runs outside the per-frame fence ring —
// it blocks the calling goroutine until the copy lands.
func (r *Ring) UploadStaged(staging gpubuf.StagingBuffer, dst vulkango.Buffer, size uint64, dstAccessMask vulkango.AccessFlags) error {
	return r.RunOneShot(func(cmd vulkango.CommandBuffer) error {
		cmd.PipelineBarrierBuffers(
			vulkango.PIPELINE_STAGE_VERTEX_INPUT_BIT,
			vulkango.PIPELINE_STAGE_TRANSFER_BIT,
			[]vulkango.BufferMemoryBarrier{{
				SrcAccessMask: vulkango.ACCESS_NONE,
				DstAccessMask: vulkango.ACCESS_TRANSFER_WRITE_BIT,
				Buffer:        dst,
				Size:          size,
			}},
		)
		gpubuf.CopyViaStaging(cmd, staging, dst, size, dstAccessMask)
		return nil
	})
}
