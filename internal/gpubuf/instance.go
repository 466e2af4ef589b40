package gpubuf

import (
	"fmt"
	"unsafe"

	"github.com/forgelight/enginecore/vulkango"
)

// InstanceBuffer[T] is a host-visible+coherent array of T, bound directly
// as a vertex buffer at the per-instance binding. Persistently mapped like
// UniformBuffer[T]; per spec.md §4.H a slot is only written once the frame
// that last read it has retired (enforced by the caller via the frame
// sync engine's fences, not by this type).
type InstanceBuffer[T any] struct {
	Buffer   vulkango.Buffer
	memory   vulkango.DeviceMemory
	mapped   unsafe.Pointer
	Capacity uint32
}

func NewInstanceBuffer[T any](device vulkango.Device, physicalDevice vulkango.PhysicalDevice, capacity uint32) (*InstanceBuffer[T], error) {
	var zero T
	stride := uint64(unsafe.Sizeof(zero))
	size := stride * uint64(capacity)

	buf, mem, err := device.CreateBufferWithMemory(
		size,
		vulkango.BUFFER_USAGE_VERTEX_BUFFER_BIT,
		vulkango.MEMORY_PROPERTY_HOST_VISIBLE_BIT|vulkango.MEMORY_PROPERTY_HOST_COHERENT_BIT,
		physicalDevice,
	)
	if err != nil {
		return nil, fmt.Errorf("create instance buffer: %w", err)
	}

	ptr, err := device.MapMemory(mem, 0, size)
	if err != nil {
		device.DestroyBuffer(buf)
		device.FreeMemory(mem)
		return nil, fmt.Errorf("map instance buffer: %w", err)
	}

	return &InstanceBuffer[T]{Buffer: buf, memory: mem, mapped: ptr, Capacity: capacity}, nil
}

// WriteAt overwrites the slot at index. Callers are responsible for only
// calling this once the instance's prior frame usage has retired.
func (b *InstanceBuffer[T]) WriteAt(index uint32, value T) {
	var zero T
	stride := unsafe.Sizeof(zero)
	slot := unsafe.Add(b.mapped, uintptr(index)*stride)
	*(*T)(slot) = value
}

func (b *InstanceBuffer[T]) Destroy(device vulkango.Device) {
	device.UnmapMemory(b.memory)
	device.DestroyBuffer(b.Buffer)
	device.FreeMemory(b.memory)
}
