// Package gpubuf specializes vulkango's generic buffer+memory helpers into
// the four buffer roles the renderer needs: vertex, index, per-frame
// uniform, and host-visible staging. The staged-upload path (staging
// buffer -> copy -> buffer memory barrier) follows spec.md §4.G/§5's
// "CPU writes only after the frame's fence, GPU reads only between submit
// and fence-signal" protocol, grounded on the teacher's UploadToBuffer plus
// the PipelineBarrierBuffers extension added to vulkango/command.go.
package gpubuf

import (
	"fmt"

	"github.com/forgelight/enginecore/vulkango"
)

// VertexBuffer is a device-local buffer holding packed vertex attributes.
type VertexBuffer struct {
	Buffer vulkango.Buffer
	memory vulkango.DeviceMemory
	Count  uint32
}

// IndexBuffer is a device-local buffer of uint32 triangle indices.
type IndexBuffer struct {
	Buffer vulkango.Buffer
	memory vulkango.DeviceMemory
	Count  uint32
}

// StagingBuffer is host-visible+coherent scratch memory used as the source
// for buffer-to-buffer and buffer-to-image copies.
type StagingBuffer struct {
	Buffer vulkango.Buffer
	memory vulkango.DeviceMemory
	Size   uint64
}

func NewStagingBuffer(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, size uint64) (StagingBuffer, error) {
	buf, mem, err := device.CreateBufferWithMemory(
		size,
		vulkango.BUFFER_USAGE_TRANSFER_SRC_BIT,
		vulkango.MEMORY_PROPERTY_HOST_VISIBLE_BIT|vulkango.MEMORY_PROPERTY_HOST_COHERENT_BIT,
		physicalDevice,
	)
	if err != nil {
		return StagingBuffer{}, fmt.Errorf("create staging buffer: %w", err)
	}
	return StagingBuffer{Buffer: buf, memory: mem, Size: size}, nil
}

// Upload maps, copies, and unmaps data into the staging buffer.
func (s StagingBuffer) Upload(device vulkango.Device, data []byte) error {
	if uint64(len(data)) > s.Size {
		return fmt.Errorf("staging buffer too small: have %d bytes, need %d", s.Size, len(data))
	}
	return device.UploadToBuffer(s.memory, data)
}

func (s StagingBuffer) Destroy(device vulkango.Device) {
	device.DestroyBuffer(s.Buffer)
	device.FreeMemory(s.memory)
}

// NewVertexBuffer allocates a device-local vertex buffer of the given byte
// size; callers upload via a staging buffer + command-buffer copy (see
// CopyViaStaging), since device-local memory is not host-visible.
func NewVertexBuffer(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, byteSize uint64, vertexCount uint32) (VertexBuffer, error) {
	buf, mem, err := device.CreateBufferWithMemory(
		byteSize,
		vulkango.BUFFER_USAGE_VERTEX_BUFFER_BIT|vulkango.BUFFER_USAGE_TRANSFER_DST_BIT,
		vulkango.MEMORY_PROPERTY_DEVICE_LOCAL_BIT,
		physicalDevice,
	)
	if err != nil {
		return VertexBuffer{}, fmt.Errorf("create vertex buffer: %w", err)
	}
	return VertexBuffer{Buffer: buf, memory: mem, Count: vertexCount}, nil
}

func (v VertexBuffer) Destroy(device vulkango.Device) {
	device.DestroyBuffer(v.Buffer)
	device.FreeMemory(v.memory)
}

// NewIndexBuffer allocates a device-local index buffer.
func NewIndexBuffer(device vulkango.Device, physicalDevice vulkango.PhysicalDevice, byteSize uint64, indexCount uint32) (IndexBuffer, error) {
	buf, mem, err := device.CreateBufferWithMemory(
		byteSize,
		vulkango.BUFFER_USAGE_INDEX_BUFFER_BIT|vulkango.BUFFER_USAGE_TRANSFER_DST_BIT,
		vulkango.MEMORY_PROPERTY_DEVICE_LOCAL_BIT,
		physicalDevice,
	)
	if err != nil {
		return IndexBuffer{}, fmt.Errorf("create index buffer: %w", err)
	}
	return IndexBuffer{Buffer: buf, memory: mem, Count: indexCount}, nil
}

func (ib IndexBuffer) Destroy(device vulkango.Device) {
	device.DestroyBuffer(ib.Buffer)
	device.FreeMemory(ib.memory)
}

// CopyViaStaging records a staging-buffer-to-device-buffer copy followed by
// the buffer memory barrier that makes the write visible to vertex input
// fetches: TRANSFER_WRITE -> VERTEX_ATTRIBUTE_READ|INDEX_READ, stage
// TRANSFER -> VERTEX_INPUT.
func CopyViaStaging(cmd vulkango.CommandBuffer, staging StagingBuffer, dst vulkango.Buffer, size uint64, dstAccessMask vulkango.AccessFlags) {
	cmd.CmdCopyBuffer(staging.Buffer, dst, []vulkango.BufferCopy{{Size: size}})
	cmd.PipelineBarrierBuffers(
		vulkango.PIPELINE_STAGE_TRANSFER_BIT,
		vulkango.PIPELINE_STAGE_VERTEX_INPUT_BIT,
		[]vulkango.BufferMemoryBarrier{{
			SrcAccessMask: vulkango.ACCESS_TRANSFER_WRITE_BIT,
			DstAccessMask: dstAccessMask,
			Buffer:        dst,
			Size:          size,
		}},
	)
}
