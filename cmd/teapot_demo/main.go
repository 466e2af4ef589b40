// Command teapot_demo is the minimal host bootstrap: it wires a Vulkan
// instance, physical device, logical device, and presentation surface into
// an engine.Context and runs it through the empty-scene smoke scenario
// (create at 800x600, present ten frames, tear down). Grounded on
// ffmpeggo/cmd/test/main.go's shape (flat constants, a fixed frame count,
// log.Fatal on the first hard error) adapted from an encoder loop to a
// render loop.
//
// Window-system integration is a deliberate seam, not an oversight:
// NewSurface below is the one function a host embedding this binary
// replaces with its platform's real surface creation (SDL's
// SDL_Vulkan_CreateSurface, GLFW's glfwCreateWindowSurface, or a direct
// platform call) — vulkango.NewSurfaceKHR's own comment already says it
// exists to "wrap SDL's surface in our type". Asset loading is the same
// kind of seam: -font must point at a real TTF file, since decoding fonts
// is the host's job per engine.Config's own FontData comment.
package main

import (
	"errors"
	"flag"
	"os"
	"unsafe"

	"github.com/charmbracelet/log"

	"github.com/forgelight/enginecore/internal/engine"
	"github.com/forgelight/enginecore/vulkango"
)

const (
	windowWidth     = 800
	windowHeight    = 600
	fontPixelHeight = 18.0
	frameCount      = 10
	simDt           = 1.0 / 60.0
)

func main() {
	fontPath := flag.String("font", "", "path to a TTF file for the UI overlay atlas")
	flag.Parse()

	logger := log.New(os.Stderr)

	if *fontPath == "" {
		logger.Fatal("teapot_demo requires -font, since font decoding is the host's job, not this engine's")
	}
	fontData, err := os.ReadFile(*fontPath)
	if err != nil {
		logger.Fatal("read font file", "path", *fontPath, "err", err)
	}

	version, err := vulkango.EnumerateInstanceVersion()
	if err != nil {
		logger.Fatal("enumerate instance version", "err", err)
	}
	logger.Info("vulkan runtime",
		"major", vulkango.ApiVersionMajor(version),
		"minor", vulkango.ApiVersionMinor(version),
		"patch", vulkango.ApiVersionPatch(version))

	instance, err := vulkango.CreateInstance(&vulkango.InstanceCreateInfo{
		ApplicationInfo: &vulkango.ApplicationInfo{
			ApplicationName: "teapot_demo",
			ApiVersion:      vulkango.ApiVersion_1_3,
		},
	})
	if err != nil {
		logger.Fatal("create instance", "err", err)
	}
	defer instance.Destroy()

	physicalDevice, graphicsFamily, err := selectPhysicalDevice(instance)
	if err != nil {
		logger.Fatal("select physical device", "err", err)
	}

	device, err := physicalDevice.CreateDevice(&vulkango.DeviceCreateInfo{
		QueueCreateInfos: []vulkango.DeviceQueueCreateInfo{
			{QueueFamilyIndex: graphicsFamily, QueuePriorities: []float32{1.0}},
		},
	})
	if err != nil {
		logger.Fatal("create device", "err", err)
	}
	defer device.Destroy()

	graphicsQueue := device.GetQueue(graphicsFamily, 0)

	surface, err := NewSurface(instance, physicalDevice)
	if err != nil {
		logger.Fatal("acquire presentation surface", "err", err)
	}

	ctx, err := engine.New(engine.Config{
		Device:          device,
		PhysicalDevice:  physicalDevice,
		Surface:         surface,
		GraphicsFamily:  graphicsFamily,
		GraphicsQueue:   graphicsQueue,
		PresentQueue:    graphicsQueue,
		WindowWidth:     windowWidth,
		WindowHeight:    windowHeight,
		FontData:        fontData,
		FontPixelHeight: fontPixelHeight,
		Workers:         4,
		LogLevel:        log.InfoLevel,
	})
	if err != nil {
		logger.Fatal("construct engine context", "err", err)
	}
	defer ctx.Destroy()

	for frame := 0; frame < frameCount; frame++ {
		ctx.PreUpdate(nil)
		ctx.Update(simDt)
		ctx.PostUpdate()

		ok, err := ctx.Render(engine.RenderInput{})
		if err != nil {
			logger.Fatal("render frame", "frame", frame, "err", err)
		}
		if !ok {
			logger.Warn("frame skipped for swapchain rebuild", "frame", frame)
			continue
		}
		logger.Info("presented frame", "frame", frame)
	}
}

// selectPhysicalDevice picks the first enumerated device exposing a
// graphics-capable queue family; a real host would score candidates by
// device type and feature support instead of taking the first match.
func selectPhysicalDevice(instance vulkango.Instance) (vulkango.PhysicalDevice, uint32, error) {
	devices, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return vulkango.PhysicalDevice{}, 0, err
	}
	for _, device := range devices {
		for i, props := range device.GetQueueFamilyProperties() {
			if props.QueueFlags&vulkango.QUEUE_GRAPHICS_BIT != 0 {
				return device, uint32(i), nil
			}
		}
	}
	return vulkango.PhysicalDevice{}, 0, errNoGraphicsQueueFamily
}

var errNoGraphicsQueueFamily = errors.New("no enumerated physical device exposes a graphics-capable queue family")

// NewSurface is the window-system seam described at the top of this file.
// vulkango.NewSurfaceKHR is the function a real platform handle gets
// wrapped through; this build has no platform windowing wired in, so it
// wraps a null handle and reports why rather than guessing at a real one.
func NewSurface(instance vulkango.Instance, physicalDevice vulkango.PhysicalDevice) (vulkango.SurfaceKHR, error) {
	_, _ = instance, physicalDevice
	return vulkango.NewSurfaceKHR(unsafe.Pointer(nil)), errNoSurfaceProvider
}

var errNoSurfaceProvider = errors.New("no window-system surface provider wired into this build; implement NewSurface against your platform's window handle and vulkango.NewSurfaceKHR")
