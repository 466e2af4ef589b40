package gpubuf

import (
	"fmt"
	"unsafe"

	"github.com/forgelight/enginecore/vulkango"
)

// UniformBuffer[T] is a host-visible+coherent buffer sized for exactly one
// T, one per in-flight frame, persistently mapped for the life of the
// buffer (write-then-submit, never read by the CPU again).
type UniformBuffer[T any] struct {
	Buffer vulkango.Buffer
	memory vulkango.DeviceMemory
	mapped unsafe.Pointer
	size   uint64
}

func NewUniformBuffer[T any](device vulkango.Device, physicalDevice vulkango.PhysicalDevice) (*UniformBuffer[T], error) {
	var zero T
	size := uint64(unsafe.Sizeof(zero))

	buf, mem, err := device.CreateBufferWithMemory(
		size,
		vulkango.BUFFER_USAGE_UNIFORM_BUFFER_BIT,
		vulkango.MEMORY_PROPERTY_HOST_VISIBLE_BIT|vulkango.MEMORY_PROPERTY_HOST_COHERENT_BIT,
		physicalDevice,
	)
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}

	ptr, err := device.MapMemory(mem, 0, size)
	if err != nil {
		device.DestroyBuffer(buf)
		device.FreeMemory(mem)
		return nil, fmt.Errorf("map uniform buffer: %w", err)
	}

	return &UniformBuffer[T]{Buffer: buf, memory: mem, mapped: ptr, size: size}, nil
}

// Write copies value into the persistently-mapped region. Per spec.md §5,
// callers must only call this after the owning frame slot's fence has
// signaled.
func (u *UniformBuffer[T]) Write(value T) {
	*(*T)(u.mapped) = value
}

func (u *UniformBuffer[T]) Destroy(device vulkango.Device) {
	device.UnmapMemory(u.memory)
	device.DestroyBuffer(u.Buffer)
	device.FreeMemory(u.memory)
}
