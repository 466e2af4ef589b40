package vulkango

// #cgo LDFLAGS: -lvulkan

// #include <vulkan/vulkan.h>
import "C"

func EnumerateInstanceVersion() (uint32, error) {
	var version C.uint32_t
	result := C.vkEnumerateInstanceVersion(&version)

	if result != C.VK_SUCCESS {
		return 0, Result(result)
	}

	return uint32(version), nil
}

type Instance struct {
	handle C.VkInstance
}

// CreateInstance builds a VkInstance from createInfo, the same
// vulkanize-then-call-then-free shape PhysicalDevice.CreateDevice uses for
// VkDevice.
func CreateInstance(createInfo *InstanceCreateInfo) (Instance, error) {
	data := createInfo.vulkanize()
	defer data.free()

	var instance C.VkInstance
	result := C.vkCreateInstance(data.cInfo, nil, &instance)
	if result != C.VK_SUCCESS {
		return Instance{}, Result(result)
	}

	return Instance{handle: instance}, nil
}

func (instance Instance) Destroy() {
	C.vkDestroyInstance(instance.handle, nil)
}

// EnumeratePhysicalDevices lists every Vulkan-capable device instance can
// see, in whatever order the driver reports them; the caller is
// responsible for scoring/selecting one.
func (instance Instance) EnumeratePhysicalDevices() ([]PhysicalDevice, error) {
	var count C.uint32_t
	result := C.vkEnumeratePhysicalDevices(instance.handle, &count, nil)
	if result != C.VK_SUCCESS {
		return nil, Result(result)
	}
	if count == 0 {
		return nil, nil
	}

	handles := make([]C.VkPhysicalDevice, count)
	result = C.vkEnumeratePhysicalDevices(instance.handle, &count, &handles[0])
	if result != C.VK_SUCCESS {
		return nil, Result(result)
	}

	devices := make([]PhysicalDevice, count)
	for i, h := range handles {
		devices[i] = PhysicalDevice{handle: h}
	}
	return devices, nil
}
