package gpubuf

import (
	"fmt"
	"unsafe"

	"github.com/forgelight/enginecore/vulkango"
)

// DynamicBuffer[T] is host-visible+coherent, persistently mapped, and
// bound under usage directly (no staging copy) — the right shape for data
// that is fully regenerated every frame rather than uploaded once.
// internal/ui's non-cached text and panel meshes are built on this, the
// same way InstanceBuffer[T] generalizes to the per-instance case.
type DynamicBuffer[T any] struct {
	Buffer   vulkango.Buffer
	memory   vulkango.DeviceMemory
	mapped   unsafe.Pointer
	Capacity uint32
}

func NewDynamicBuffer[T any](device vulkango.Device, physicalDevice vulkango.PhysicalDevice, capacity uint32, usage vulkango.BufferUsageFlags) (*DynamicBuffer[T], error) {
	var zero T
	stride := uint64(unsafe.Sizeof(zero))
	size := stride * uint64(capacity)

	buf, mem, err := device.CreateBufferWithMemory(
		size,
		usage,
		vulkango.MEMORY_PROPERTY_HOST_VISIBLE_BIT|vulkango.MEMORY_PROPERTY_HOST_COHERENT_BIT,
		physicalDevice,
	)
	if err != nil {
		return nil, fmt.Errorf("create dynamic buffer: %w", err)
	}

	ptr, err := device.MapMemory(mem, 0, size)
	if err != nil {
		device.DestroyBuffer(buf)
		device.FreeMemory(mem)
		return nil, fmt.Errorf("map dynamic buffer: %w", err)
	}

	return &DynamicBuffer[T]{Buffer: buf, memory: mem, mapped: ptr, Capacity: capacity}, nil
}

// WriteAll overwrites the buffer from index 0 with data, truncating to
// Capacity if data is longer; callers must check against Capacity
// themselves if truncation should instead be an error or a log line.
func (b *DynamicBuffer[T]) WriteAll(data []T) uint32 {
	n := uint32(len(data))
	if n > b.Capacity {
		n = b.Capacity
	}
	if n == 0 {
		return 0
	}
	dst := (*[1 << 30]T)(unsafe.Pointer(b.mapped))[:n:n]
	copy(dst, data[:n])
	return n
}

func (b *DynamicBuffer[T]) Destroy(device vulkango.Device) {
	device.UnmapMemory(b.memory)
	device.DestroyBuffer(b.Buffer)
	device.FreeMemory(b.memory)
}
