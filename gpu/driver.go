package gpu

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
)

// Queue is a queue handle owned by its Device. It is never released on its own.
type Queue interface{}

// Image is a presentable image owned by its Swapchain.
type Image interface{}

// Instance enumerates the physical devices visible to the loader.
type Instance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
}

// PhysicalDevice is one GPU as reported by the driver.
type PhysicalDevice interface {
	Name() string
	Type() core1_0.PhysicalDeviceType
	APIVersion() common.APIVersion
	QueueFamilies() []core1_0.QueueFamilyProperties
	Extensions() ([]string, error)
	CreateDevice(info core1_0.DeviceCreateInfo) (Device, error)
}

// Surface is the presentable target a swapchain is created against.
type Surface interface {
	SupportsPresentation(device PhysicalDevice, family int) (bool, error)
	Capabilities(device PhysicalDevice) (*khr_surface.SurfaceCapabilities, error)
	Formats(device PhysicalDevice) ([]khr_surface.SurfaceFormat, error)
	PresentModes(device PhysicalDevice) ([]khr_surface.PresentMode, error)
}

// Device is an opened logical device.
type Device interface {
	Queue(family int) Queue
	CreateSwapchain(surface Surface, config SwapchainConfig) (Swapchain, error)
	// CreateImageView fills info.Image from image before creating the view.
	CreateImageView(image Image, info core1_0.ImageViewCreateInfo) (ImageView, error)
	Destroy()
}

type Swapchain interface {
	Images() ([]Image, error)
	Destroy()
}

type ImageView interface {
	Destroy()
}
